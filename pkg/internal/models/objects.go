package models

// StoredObject records every upload that went through the storage driver,
// so the maintenance sweep can find objects no record references anymore.
type StoredObject struct {
	BaseModel

	Path string `json:"path" gorm:"uniqueIndex"`
	Size int64  `json:"size"`

	ProfileID uint `json:"profile_id"`
}
