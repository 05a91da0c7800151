package models

// ProfileRole is the gamification ladder; higher values carry more trust
// but only RoleAdmin grants moderation powers.
type ProfileRole = int8

const (
	RoleDreamer ProfileRole = iota + 1
	RoleTechie
	RoleBookKeeper
	RoleAdmin
)

func RoleName(role ProfileRole) string {
	switch role {
	case RoleDreamer:
		return "Dreamer"
	case RoleTechie:
		return "Techie"
	case RoleBookKeeper:
		return "BookKeeper"
	case RoleAdmin:
		return "Admin"
	default:
		return ""
	}
}

type Profile struct {
	BaseModel

	AccountID uint        `json:"account_id" gorm:"uniqueIndex"`
	Role      ProfileRole `json:"role"`
	Name      string      `json:"name" gorm:"uniqueIndex"`
	Nick      string      `json:"nick"`
	Bio       string      `json:"bio"`
	Avatar    string      `json:"avatar"`

	Posts         []Post         `json:"posts,omitempty"`
	Contributions []Contribution `json:"contributions,omitempty"`
}

func (v Profile) ResourceOwner() uint {
	return v.ID
}

func (v Profile) ResourcePublic() bool {
	return true
}
