package models

import "time"

// Role rows are retained even after the role is deleted on the platform side,
// so old MemberActivity rows keep their historical meaning.
type Role struct {
	ID   string `gorm:"primaryKey;type:varchar(64)" json:"id"`
	Name string `gorm:"type:varchar(256)" json:"name"`
	// Color is the role color as a 6-hex-digit string, e.g. "5865f2".
	Color string `gorm:"type:varchar(8)" json:"color"`
	// Permissions is the raw permission bitmask.
	Permissions int64 `json:"permissions"`

	CreatedAt time.Time `json:"created_at"`
}

func (Role) TableName() string {
	return "roles"
}
