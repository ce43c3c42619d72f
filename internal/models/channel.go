package models

// Channel is created at bootstrap sync or on first observation and never
// deleted, so historical rows keep resolving to a name.
type Channel struct {
	ID   string `gorm:"primaryKey;type:varchar(64)" json:"id"`
	Name string `gorm:"type:varchar(256)" json:"name"`
	Type string `gorm:"type:varchar(64)" json:"type"`
}

func (Channel) TableName() string {
	return "channels"
}
