package models

import "time"

// Notification type values.
const (
	NotificationTypeApplication  = "application"
	NotificationTypeStatusUpdate = "status_update"
	NotificationTypeMessage      = "message"
)

// Notification is an append-only record. RelatedID is a weak reference to an
// application kept for UI linking; it is deliberately not a foreign key, so it
// dangles after the application (or its job, or either user) is deleted and the
// notification survives as an audit trail.
type Notification struct {
	ID        int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID    string    `gorm:"type:uuid;not null;index" json:"user_id"`
	Type      string    `gorm:"not null" json:"type"`
	Title     string    `json:"title"`
	Message   string    `json:"message"`
	IsRead    bool      `gorm:"default:false" json:"is_read"`
	RelatedID *int64    `json:"related_id,omitempty"`
	CreatedAt time.Time `gorm:"default:CURRENT_TIMESTAMP" json:"created_at"`
}

func (Notification) TableName() string {
	return "notifications"
}
