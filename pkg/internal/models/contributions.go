package models

type Contribution struct {
	BaseModel

	Type    string `json:"type"`
	Title   string `json:"title"`
	Content string `json:"content"`

	ProfileID uint    `json:"profile_id"`
	Profile   Profile `json:"profile"`
}

func (v Contribution) ResourceOwner() uint {
	return v.ProfileID
}

func (v Contribution) ResourcePublic() bool {
	return false
}
