package gate

import (
	"testing"

	"github.com/solcafe/server/pkg/internal/models"
	"github.com/stretchr/testify/assert"
)

func TestDecideDelete(t *testing.T) {
	post := models.Post{ProfileID: 7, Published: true}

	tests := []struct {
		name    string
		actor   Actor
		wantErr error
		admin   bool
	}{
		{"owner", Actor{ID: 7, Role: models.RoleDreamer}, nil, false},
		{"admin non-owner", Actor{ID: 1, Role: models.RoleAdmin}, nil, true},
		{"admin owner", Actor{ID: 7, Role: models.RoleAdmin}, nil, false},
		{"other techie", Actor{ID: 3, Role: models.RoleTechie}, ErrForbidden, false},
		{"other bookkeeper", Actor{ID: 3, Role: models.RoleBookKeeper}, ErrForbidden, false},
		{"anonymous", Actor{}, ErrUnauthorized, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			decision, err := Decide(tt.actor, post, ActionDelete)
			assert.ErrorIs(t, err, tt.wantErr)
			assert.Equal(t, tt.admin, decision.AdminAction)
		})
	}
}

func TestDecideAnonymousRead(t *testing.T) {
	published := models.Post{ProfileID: 7, Published: true}
	draft := models.Post{ProfileID: 7, Published: false}

	_, err := Decide(Actor{}, published, ActionRead)
	assert.NoError(t, err)

	_, err = Decide(Actor{}, draft, ActionRead)
	assert.ErrorIs(t, err, ErrUnauthorized)

	_, err = Decide(Actor{}, published, ActionUpdate)
	assert.ErrorIs(t, err, ErrUnauthorized)
}

func TestDecideDraftReadByNonOwner(t *testing.T) {
	draft := models.Post{ProfileID: 7, Published: false}

	_, err := Decide(Actor{ID: 3, Role: models.RoleTechie}, draft, ActionRead)
	assert.ErrorIs(t, err, ErrForbidden)

	_, err = Decide(Actor{ID: 7, Role: models.RoleDreamer}, draft, ActionRead)
	assert.NoError(t, err)
}

func TestDecideCreate(t *testing.T) {
	_, err := Decide(Actor{ID: 3, Role: models.RoleDreamer}, nil, ActionCreate)
	assert.NoError(t, err)

	_, err = Decide(Actor{}, nil, ActionCreate)
	assert.ErrorIs(t, err, ErrUnauthorized)
}

func TestDecideAdminUpdateTag(t *testing.T) {
	contribution := models.Contribution{ProfileID: 9}

	decision, err := Decide(Actor{ID: 1, Role: models.RoleAdmin}, contribution, ActionUpdate)
	assert.NoError(t, err)
	assert.True(t, decision.AdminAction)

	// Reading someone else's resource as admin is not an admin action
	decision, err = Decide(Actor{ID: 1, Role: models.RoleAdmin}, contribution, ActionRead)
	assert.NoError(t, err)
	assert.False(t, decision.AdminAction)
}

func TestCanAssignRole(t *testing.T) {
	assert.True(t, CanAssignRole(Actor{ID: 1, Role: models.RoleAdmin}))
	assert.False(t, CanAssignRole(Actor{ID: 1, Role: models.RoleTechie}))
	assert.False(t, CanAssignRole(Actor{}))
}
