package services

import (
	"strings"
	"time"

	"github.com/solcafe/server/pkg/internal/models"
)

type ThemeClasses struct {
	SeasonClass string `json:"season_class"`
	RoleClass   string `json:"role_class"`
}

// CurrentSeason maps a date to a northern-hemisphere season.
func CurrentSeason(now time.Time) string {
	switch now.Month() {
	case time.March, time.April, time.May:
		return "spring"
	case time.June, time.July, time.August:
		return "summer"
	case time.September, time.October, time.November:
		return "autumn"
	default:
		return "winter"
	}
}

// ComputeThemeClasses derives the css classes the client should apply to
// its document root. Pure; applying them is the presentation layer's job.
func ComputeThemeClasses(now time.Time, role models.ProfileRole) ThemeClasses {
	classes := ThemeClasses{
		SeasonClass: "theme-" + CurrentSeason(now),
	}

	if role >= models.RoleDreamer && role <= models.RoleAdmin {
		classes.RoleClass = "role-" + strings.ToLower(models.RoleName(role))
	}

	return classes
}
