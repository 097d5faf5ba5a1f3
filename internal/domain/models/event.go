// internal/domain/models/event.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Event kinds.
const (
	EventAssignment = "assignment"
	EventExam       = "exam"
	EventMeeting    = "meeting"
	EventOther      = "other"
)

// Event is a calendar entry. Events are assigned to users by email so
// that students see course deadlines and meetings on their calendar.
type Event struct {
	ID    primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Title string             `bson:"title" json:"title"`
	Kind  string             `bson:"kind" json:"kind"`

	Description string `bson:"description,omitempty" json:"description,omitempty"`

	StartsAt time.Time `bson:"starts_at" json:"starts_at"`
	EndsAt   time.Time `bson:"ends_at" json:"ends_at"`

	// CourseID links the event back to a course when it was created
	// from an assignment deadline.
	CourseID  *primitive.ObjectID `bson:"course_id,omitempty" json:"course_id,omitempty"`
	SectionID string              `bson:"section_id,omitempty" json:"section_id,omitempty"`

	AssignedTo []string `bson:"assigned_to,omitempty" json:"assigned_to,omitempty"` // user emails

	// ReminderSentAt is set once the deadline reminder worker has
	// notified the assignees, so the event is not notified again.
	ReminderSentAt *time.Time `bson:"reminder_sent_at,omitempty" json:"-"`

	CreatedAt time.Time  `bson:"created_at" json:"created_at"`
	UpdatedAt *time.Time `bson:"updated_at,omitempty" json:"updated_at,omitempty"`

	CreatedByID   *primitive.ObjectID `bson:"created_by_id,omitempty" json:"created_by_id,omitempty"`
	CreatedByName string              `bson:"created_by_name,omitempty" json:"created_by_name,omitempty"`
}

// IsValidEventKind reports whether k is a known event kind.
func IsValidEventKind(k string) bool {
	switch k {
	case EventAssignment, EventExam, EventMeeting, EventOther:
		return true
	}
	return false
}
