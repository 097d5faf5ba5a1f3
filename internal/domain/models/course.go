// internal/domain/models/course.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Course is the top-level aggregate for authored content. The nested
// Sections array is the persisted snapshot of the content tree and is
// always replaced wholesale on commit, never patched field-by-field.
//
// Rev is the optimistic-concurrency token: every snapshot commit checks
// the caller's expected revision and increments it, so a stale editor
// gets a conflict instead of silently overwriting someone else's order.
type Course struct {
	ID      primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Title   string             `bson:"title" json:"title"`
	TitleCI string             `bson:"title_ci" json:"title_ci"` // lowercase, diacritics-stripped
	Slug    string             `bson:"slug" json:"slug"`

	Description string `bson:"description,omitempty" json:"description,omitempty"`
	Subject     string `bson:"subject,omitempty" json:"subject,omitempty"`
	SubjectCI   string `bson:"subject_ci,omitempty" json:"subject_ci,omitempty"`
	YearOfStudy int    `bson:"year_of_study,omitempty" json:"year_of_study,omitempty"`

	Status string `bson:"status" json:"status"` // "active" or "disabled"

	TeacherEmail  string   `bson:"teacher_email" json:"teacher_email"`
	AssignedUsers []string `bson:"assigned_users,omitempty" json:"assigned_users,omitempty"` // student emails

	Sections []Section `bson:"sections,omitempty" json:"sections,omitempty"`
	Rev      int64     `bson:"rev" json:"rev"`

	CreatedAt time.Time  `bson:"created_at" json:"created_at"`
	UpdatedAt *time.Time `bson:"updated_at,omitempty" json:"updated_at,omitempty"`

	CreatedByID   *primitive.ObjectID `bson:"created_by_id,omitempty" json:"created_by_id,omitempty"`
	CreatedByName string              `bson:"created_by_name,omitempty" json:"created_by_name,omitempty"`
	UpdatedByID   *primitive.ObjectID `bson:"updated_by_id,omitempty" json:"updated_by_id,omitempty"`
	UpdatedByName string              `bson:"updated_by_name,omitempty" json:"updated_by_name,omitempty"`
}

// Section kinds.
const (
	SectionMaterial   = "material"
	SectionAssignment = "assignment"
)

// Section layouts. A section stores its children either as ordered
// Subsections (lessons) or as a legacy flat Contents array; the layout
// discriminator says which one is authoritative. Sections imported from
// old course documents may have an empty layout until coursetree.Migrate
// runs; business logic never branches on field presence directly.
const (
	LayoutLessons = "lessons"
	LayoutFlat    = "flat"
)

// Section is a chapter-level grouping within a course.
type Section struct {
	ID   string `bson:"id" json:"id"`
	Name string `bson:"name" json:"name"`
	Kind string `bson:"kind" json:"kind"` // "material" or "assignment"

	// Deadline is only meaningful for assignment sections.
	Deadline *time.Time `bson:"deadline,omitempty" json:"deadline,omitempty"`

	Order  int    `bson:"order" json:"order"`
	Layout string `bson:"layout,omitempty" json:"layout,omitempty"`

	Subsections []Subsection   `bson:"subsections,omitempty" json:"subsections,omitempty"`
	Contents    []ContentBlock `bson:"contents,omitempty" json:"contents,omitempty"` // legacy flat shape
}

// IsValidSectionKind reports whether k is a known section kind.
func IsValidSectionKind(k string) bool {
	return k == SectionMaterial || k == SectionAssignment
}

// Subsection is a lesson within a section. Ownership is single-parent:
// a subsection lives in exactly one section's array at any time, and a
// cross-section move transfers it rather than duplicating it.
type Subsection struct {
	ID   string `bson:"id" json:"id"`
	Name string `bson:"name" json:"name"`

	Order int `bson:"order" json:"order"`

	Blocks []ContentBlock `bson:"content_blocks,omitempty" json:"content_blocks,omitempty"`

	// Materials is the legacy block shape; coursetree.Migrate folds it
	// into Blocks and clears it.
	Materials []ContentBlock `bson:"materials,omitempty" json:"materials,omitempty"`

	CreatedAt time.Time  `bson:"created_at" json:"created_at"`
	UpdatedAt *time.Time `bson:"updated_at,omitempty" json:"updated_at,omitempty"`

	CreatedByID   *primitive.ObjectID `bson:"created_by_id,omitempty" json:"created_by_id,omitempty"`
	CreatedByName string              `bson:"created_by_name,omitempty" json:"created_by_name,omitempty"`
}

// Content block kinds.
const (
	BlockText  = "text"
	BlockFile  = "file"
	BlockVideo = "video"
	BlockQuiz  = "quiz"
	BlockMath  = "math"
)

// ContentBlock is a single leaf unit of lesson content. Kind selects
// which payload field carries the content; the unused payload fields
// stay empty and are omitted from the stored document.
type ContentBlock struct {
	ID   string `bson:"id" json:"id"`
	Name string `bson:"name,omitempty" json:"name,omitempty"`
	Kind string `bson:"kind" json:"kind"`

	Order int `bson:"order" json:"order"`

	Text     string `bson:"text,omitempty" json:"text,omitempty"`
	FileURL  string `bson:"file_url,omitempty" json:"file_url,omitempty"`
	FileName string `bson:"file_name,omitempty" json:"file_name,omitempty"`
	FileSize int64  `bson:"file_size,omitempty" json:"file_size,omitempty"`
	VideoURL string `bson:"video_url,omitempty" json:"video_url,omitempty"`
	QuizID   string `bson:"quiz_id,omitempty" json:"quiz_id,omitempty"` // opaque; never resolved by the tree
	Math     string `bson:"math,omitempty" json:"math,omitempty"`       // math markup
}

// IsValidBlockKind reports whether k is a known content block kind.
func IsValidBlockKind(k string) bool {
	switch k {
	case BlockText, BlockFile, BlockVideo, BlockQuiz, BlockMath:
		return true
	}
	return false
}
