package http

import (
	"bytes"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	jsoniter "github.com/json-iterator/go"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/solcafe/server/pkg/internal/database"
	"github.com/solcafe/server/pkg/internal/models"
	"github.com/solcafe/server/pkg/internal/security"
	"github.com/solcafe/server/pkg/internal/services"
)

func setupApp(t *testing.T) *App {
	t.Helper()

	viper.Set("security.jwt_secret", "test-secret")

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	database.C = db
	require.NoError(t, database.RunMigration(db))

	return NewServer()
}

func createUser(t *testing.T, name string, role models.ProfileRole) (models.Profile, string) {
	t.Helper()

	account := models.Account{
		Email:         name + "@example.com",
		Password:      "unused",
		EmailVerified: true,
	}
	require.NoError(t, database.C.Create(&account).Error)

	profile := models.Profile{
		AccountID: account.ID,
		Role:      role,
		Name:      name,
		Nick:      name,
	}
	require.NoError(t, database.C.Create(&profile).Error)

	token, err := security.IssueToken(account.ID)
	require.NoError(t, err)

	return profile, token
}

func jsonRequest(method, target, token string, payload any) *http.Request {
	var body io.Reader
	if payload != nil {
		raw, _ := jsoniter.Marshal(payload)
		body = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, target, body)
	req.Header.Set("Content-Type", "application/json")
	if len(token) > 0 {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	return req
}

func decodeResponse(t *testing.T, resp *http.Response, out any) {
	t.Helper()
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	require.NoError(t, jsoniter.Unmarshal(raw, out))
}

func artPayload(published bool) map[string]any {
	return map[string]any{
		"type":        "art",
		"title":       "Reclaimed Wood Mosaic",
		"description": "A mosaic made from pallet offcuts.",
		"tags":        "wood, reclaimed",
		"published":   published,
		"metadata": map[string]any{
			"images": []any{
				map[string]any{"url": "https://cdn.example.com/mosaic.jpg", "caption": "finished piece"},
			},
			"medium": "wood",
		},
	}
}

func TestCreatePostRequiresAuth(t *testing.T) {
	srv := setupApp(t)

	resp, err := srv.app.Test(jsonRequest(http.MethodPost, "/api/posts", "", artPayload(true)), -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestAnonymousCannotSeeDraft(t *testing.T) {
	srv := setupApp(t)
	_, token := createUser(t, "dreamer", models.RoleDreamer)

	resp, err := srv.app.Test(jsonRequest(http.MethodPost, "/api/posts", token, artPayload(false)), -1)
	require.NoError(t, err)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var created models.Post
	decodeResponse(t, resp, &created)

	resp, err = srv.app.Test(jsonRequest(http.MethodGet, fmt.Sprintf("/api/posts/%d", created.ID), "", nil), -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	// The author still sees their own draft
	resp, err = srv.app.Test(jsonRequest(http.MethodGet, fmt.Sprintf("/api/posts/%d", created.ID), token, nil), -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestNonOwnerCannotEditPost(t *testing.T) {
	srv := setupApp(t)
	_, ownerToken := createUser(t, "owner", models.RoleDreamer)
	_, otherToken := createUser(t, "other", models.RoleTechie)

	resp, err := srv.app.Test(jsonRequest(http.MethodPost, "/api/posts", ownerToken, artPayload(true)), -1)
	require.NoError(t, err)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var created models.Post
	decodeResponse(t, resp, &created)

	edit := artPayload(true)
	edit["title"] = "Hijacked Title"
	resp, err = srv.app.Test(jsonRequest(http.MethodPatch, fmt.Sprintf("/api/posts/%d", created.ID), otherToken, edit), -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	var after models.Post
	require.NoError(t, database.C.First(&after, created.ID).Error)
	assert.Equal(t, "Reclaimed Wood Mosaic", after.Title)
}

func TestAdminDeleteIsTagged(t *testing.T) {
	srv := setupApp(t)
	_, ownerToken := createUser(t, "maker", models.RoleDreamer)
	_, adminToken := createUser(t, "warden", models.RoleAdmin)

	resp, err := srv.app.Test(jsonRequest(http.MethodPost, "/api/posts", ownerToken, artPayload(true)), -1)
	require.NoError(t, err)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var created models.Post
	decodeResponse(t, resp, &created)

	resp, err = srv.app.Test(jsonRequest(http.MethodDelete, fmt.Sprintf("/api/posts/%d", created.ID), adminToken, nil), -1)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var result struct {
		AdminAction bool `json:"admin_action"`
	}
	decodeResponse(t, resp, &result)
	assert.True(t, result.AdminAction)

	var count int64
	require.NoError(t, database.C.Model(&models.Post{}).Where("id = ?", created.ID).Count(&count).Error)
	assert.Zero(t, count)
}

func TestEditPostStalePrecondition(t *testing.T) {
	srv := setupApp(t)
	_, token := createUser(t, "editor", models.RoleDreamer)

	resp, err := srv.app.Test(jsonRequest(http.MethodPost, "/api/posts", token, artPayload(true)), -1)
	require.NoError(t, err)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var created models.Post
	decodeResponse(t, resp, &created)

	edit := artPayload(true)
	edit["title"] = "Reclaimed Wood Mosaic II"
	edit["updated_at"] = "2000-01-01T00:00:00Z"
	resp, err = srv.app.Test(jsonRequest(http.MethodPatch, fmt.Sprintf("/api/posts/%d", created.ID), token, edit), -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)

	// Without the precondition the edit goes through
	delete(edit, "updated_at")
	resp, err = srv.app.Test(jsonRequest(http.MethodPatch, fmt.Sprintf("/api/posts/%d", created.ID), token, edit), -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestGetPostBySlug(t *testing.T) {
	srv := setupApp(t)
	_, token := createUser(t, "slugger", models.RoleDreamer)

	resp, err := srv.app.Test(jsonRequest(http.MethodPost, "/api/posts", token, artPayload(true)), -1)
	require.NoError(t, err)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	resp, err = srv.app.Test(jsonRequest(http.MethodGet, "/api/posts/reclaimed-wood-mosaic", "", nil), -1)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var item models.Post
	decodeResponse(t, resp, &item)
	assert.Equal(t, "Reclaimed Wood Mosaic", item.Title)
}

func TestAdminRoleAssignment(t *testing.T) {
	srv := setupApp(t)
	target, _ := createUser(t, "rookie", models.RoleDreamer)
	_, techieToken := createUser(t, "techie", models.RoleTechie)
	_, adminToken := createUser(t, "chief", models.RoleAdmin)

	payload := map[string]any{"role": models.RoleBookKeeper}

	resp, err := srv.app.Test(jsonRequest(http.MethodPatch, fmt.Sprintf("/cgi/profiles/%d/role", target.ID), techieToken, payload), -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	resp, err = srv.app.Test(jsonRequest(http.MethodPatch, fmt.Sprintf("/cgi/profiles/%d/role", target.ID), adminToken, payload), -1)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var after models.Profile
	require.NoError(t, database.C.First(&after, target.ID).Error)
	assert.Equal(t, models.RoleBookKeeper, after.Role)
}

func TestSearchPost(t *testing.T) {
	srv := setupApp(t)
	_, token := createUser(t, "searcher", models.RoleDreamer)

	resp, err := srv.app.Test(jsonRequest(http.MethodPost, "/api/posts", token, artPayload(true)), -1)
	require.NoError(t, err)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	second := artPayload(true)
	second["title"] = "Solar Balcony Railing"
	second["description"] = "Railing planters wired with a small panel."
	resp, err = srv.app.Test(jsonRequest(http.MethodPost, "/api/posts", token, second), -1)
	require.NoError(t, err)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	resp, err = srv.app.Test(jsonRequest(http.MethodGet, "/api/posts/search?probe=BALCONY", "", nil), -1)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var listing struct {
		Count int           `json:"count"`
		Data  []models.Post `json:"data"`
	}
	decodeResponse(t, resp, &listing)
	require.Equal(t, 1, listing.Count)
	assert.Equal(t, "Solar Balcony Railing", listing.Data[0].Title)

	// Description text matches too
	resp, err = srv.app.Test(jsonRequest(http.MethodGet, "/api/posts/search?probe=planters", "", nil), -1)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	decodeResponse(t, resp, &listing)
	assert.Equal(t, 1, listing.Count)

	resp, err = srv.app.Test(jsonRequest(http.MethodGet, "/api/posts/search", "", nil), -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

type recordingStorage struct {
	removed []string
}

func (v *recordingStorage) Upload(path string, source io.Reader) (int64, error) {
	return 0, nil
}

func (v *recordingStorage) PublicURL(path string) string {
	return "http://localhost/storage/" + path
}

func (v *recordingStorage) Remove(paths ...string) error {
	v.removed = append(v.removed, paths...)
	return nil
}

func TestDeletePostRemovesCoverObject(t *testing.T) {
	srv := setupApp(t)
	owner, token := createUser(t, "painter", models.RoleDreamer)

	driver := &recordingStorage{}
	services.Storage = driver
	t.Cleanup(func() { services.Storage = nil })

	cover := models.StoredObject{Path: "covers/1/mosaic.jpg", ProfileID: owner.ID}
	require.NoError(t, database.C.Create(&cover).Error)

	payload := artPayload(true)
	payload["cover_url"] = "http://localhost/storage/covers/1/mosaic.jpg"
	resp, err := srv.app.Test(jsonRequest(http.MethodPost, "/api/posts", token, payload), -1)
	require.NoError(t, err)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var created models.Post
	decodeResponse(t, resp, &created)

	resp, err = srv.app.Test(jsonRequest(http.MethodDelete, fmt.Sprintf("/api/posts/%d", created.ID), token, nil), -1)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	assert.Contains(t, driver.removed, "covers/1/mosaic.jpg")

	var count int64
	require.NoError(t, database.C.Model(&models.StoredObject{}).Where("path = ?", cover.Path).Count(&count).Error)
	assert.Zero(t, count)
}

func TestContributionLifecycle(t *testing.T) {
	srv := setupApp(t)
	_, token := createUser(t, "scribe", models.RoleBookKeeper)

	payload := map[string]any{
		"type":    "translation",
		"title":   "Translated the onboarding guide",
		"content": "Full Spanish translation of the welcome pages.",
	}
	resp, err := srv.app.Test(jsonRequest(http.MethodPost, "/api/contributions", token, payload), -1)
	require.NoError(t, err)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var created models.Contribution
	decodeResponse(t, resp, &created)

	resp, err = srv.app.Test(jsonRequest(http.MethodGet, "/api/contributions", token, nil), -1)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var listing struct {
		Count int                   `json:"count"`
		Data  []models.Contribution `json:"data"`
	}
	decodeResponse(t, resp, &listing)
	require.Equal(t, 1, listing.Count)
	assert.Equal(t, created.ID, listing.Data[0].ID)

	resp, err = srv.app.Test(jsonRequest(http.MethodDelete, fmt.Sprintf("/api/contributions/%d", created.ID), token, nil), -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}
