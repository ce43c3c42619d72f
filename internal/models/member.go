package models

import (
	"encoding/json"
	"time"
)

// Member is a guild member keyed by the platform user id. The id never
// changes; the roles list is mutated as role add/remove events arrive.
type Member struct {
	ID         string `gorm:"primaryKey;type:varchar(64)" json:"id"`
	Name       string `gorm:"type:varchar(256)" json:"name"`
	GlobalName string `gorm:"type:varchar(256)" json:"global_name"`
	AvatarURL  string `gorm:"type:varchar(256)" json:"avatar_url"`
	// Roles holds the member's role ids serialized as a JSON array.
	Roles string `gorm:"type:text" json:"roles"`

	CreatedAt time.Time `json:"created_at"`
}

func (Member) TableName() string {
	return "members"
}

// RoleIDs deserializes the stored role list. A missing or malformed list
// reads as empty.
func (m *Member) RoleIDs() []string {
	if m.Roles == "" {
		return nil
	}
	var ids []string
	if err := json.Unmarshal([]byte(m.Roles), &ids); err != nil {
		return nil
	}
	return ids
}

// SetRoleIDs serializes the role list back into the stored form.
func (m *Member) SetRoleIDs(ids []string) {
	if ids == nil {
		ids = []string{}
	}
	raw, _ := json.Marshal(ids)
	m.Roles = string(raw)
}
