// internal/domain/models/notification.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Notification levels.
const (
	NotifyInfo    = "info"
	NotifySuccess = "success"
	NotifyWarning = "warning"
	NotifyError   = "error"
)

// Notification is a per-user message shown in the notification tray.
// Deadline reminders and course changes fan out as notifications.
type Notification struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserEmail string             `bson:"user_email" json:"user_email"`
	Level     string             `bson:"level" json:"level"`
	Title     string             `bson:"title" json:"title"`
	Body      string             `bson:"body,omitempty" json:"body,omitempty"`

	CourseID *primitive.ObjectID `bson:"course_id,omitempty" json:"course_id,omitempty"`
	EventID  *primitive.ObjectID `bson:"event_id,omitempty" json:"event_id,omitempty"`

	Read   bool       `bson:"read" json:"read"`
	ReadAt *time.Time `bson:"read_at,omitempty" json:"read_at,omitempty"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
}

// IsValidNotifyLevel reports whether l is a known notification level.
func IsValidNotifyLevel(l string) bool {
	switch l {
	case NotifyInfo, NotifySuccess, NotifyWarning, NotifyError:
		return true
	}
	return false
}
