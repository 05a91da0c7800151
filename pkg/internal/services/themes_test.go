package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/solcafe/server/pkg/internal/models"
)

func dateIn(month time.Month) time.Time {
	return time.Date(2026, month, 15, 12, 0, 0, 0, time.UTC)
}

func TestCurrentSeason(t *testing.T) {
	assert.Equal(t, "spring", CurrentSeason(dateIn(time.March)))
	assert.Equal(t, "spring", CurrentSeason(dateIn(time.May)))
	assert.Equal(t, "summer", CurrentSeason(dateIn(time.June)))
	assert.Equal(t, "summer", CurrentSeason(dateIn(time.August)))
	assert.Equal(t, "autumn", CurrentSeason(dateIn(time.September)))
	assert.Equal(t, "autumn", CurrentSeason(dateIn(time.November)))
	assert.Equal(t, "winter", CurrentSeason(dateIn(time.December)))
	assert.Equal(t, "winter", CurrentSeason(dateIn(time.February)))
}

func TestComputeThemeClasses(t *testing.T) {
	classes := ComputeThemeClasses(dateIn(time.July), models.RoleTechie)
	assert.Equal(t, "theme-summer", classes.SeasonClass)
	assert.Equal(t, "role-techie", classes.RoleClass)

	classes = ComputeThemeClasses(dateIn(time.October), models.RoleAdmin)
	assert.Equal(t, "theme-autumn", classes.SeasonClass)
	assert.Equal(t, "role-admin", classes.RoleClass)

	// Unknown roles carry no role class
	classes = ComputeThemeClasses(dateIn(time.January), 0)
	assert.Equal(t, "theme-winter", classes.SeasonClass)
	assert.Empty(t, classes.RoleClass)
}
