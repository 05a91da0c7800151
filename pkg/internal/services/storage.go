package services

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"

	"github.com/solcafe/server/pkg/internal/database"
	"github.com/solcafe/server/pkg/internal/models"
)

// StorageDriver is the object storage collaborator: flat paths in, public
// urls out. The filesystem driver is the only one shipped; swapping in a
// hosted bucket means implementing these three methods.
type StorageDriver interface {
	Upload(path string, source io.Reader) (int64, error)
	PublicURL(path string) string
	Remove(paths ...string) error
}

var Storage StorageDriver

func NewStorage() {
	Storage = &localStorageDriver{
		root:    viper.GetString("storage.root"),
		baseURL: viper.GetString("storage.base_url"),
	}
}

type localStorageDriver struct {
	root    string
	baseURL string
}

func (v *localStorageDriver) Upload(path string, source io.Reader) (int64, error) {
	target := filepath.Join(v.root, filepath.FromSlash(path))
	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return 0, err
	}

	out, err := os.Create(target)
	if err != nil {
		return 0, err
	}
	defer out.Close()

	return io.Copy(out, source)
}

func (v *localStorageDriver) PublicURL(path string) string {
	return strings.TrimSuffix(v.baseURL, "/") + "/" + path
}

func (v *localStorageDriver) Remove(paths ...string) error {
	var lastErr error
	for _, path := range paths {
		if err := os.Remove(filepath.Join(v.root, filepath.FromSlash(path))); err != nil && !os.IsNotExist(err) {
			lastErr = err
		}
	}
	return lastErr
}

// UploadObject stores a blob under a fresh path and records it, so the
// maintenance sweep can reclaim it if nothing ends up referencing it.
func UploadObject(owner uint, prefix, filename string, source io.Reader) (models.StoredObject, string, error) {
	var object models.StoredObject
	if Storage == nil {
		return object, "", fmt.Errorf("storage is not configured")
	}

	ext := filepath.Ext(filename)
	path := fmt.Sprintf("%s/%d/%s%s", prefix, owner, uuid.NewString(), ext)

	size, err := Storage.Upload(path, source)
	if err != nil {
		return object, "", fmt.Errorf("unable to upload object: %v", err)
	}

	object = models.StoredObject{
		Path:      path,
		Size:      size,
		ProfileID: owner,
	}
	if err := database.C.Create(&object).Error; err != nil {
		// The blob is on disk but untracked; the sweep cannot see it, so log loudly
		log.Error().Err(err).Str("path", path).Msg("An error occurred when recording uploaded object.")
		return object, "", err
	}

	return object, Storage.PublicURL(path), nil
}

// RemoveObjects deletes stored blobs best-effort; a failed media removal
// never blocks the record mutation that triggered it.
func RemoveObjects(paths ...string) {
	if Storage == nil || len(paths) == 0 {
		return
	}

	if err := Storage.Remove(paths...); err != nil {
		log.Warn().Err(err).Strs("paths", paths).Msg("An error occurred when removing stored objects.")
	}

	if err := database.C.Where("path IN ?", paths).Delete(&models.StoredObject{}).Error; err != nil {
		log.Warn().Err(err).Msg("An error occurred when cleaning up stored object records.")
	}
}
