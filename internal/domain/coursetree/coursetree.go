// internal/domain/coursetree/coursetree.go

// Package coursetree owns the ordered content tree of a course:
// sections, the subsections (lessons) inside them, and the content
// blocks inside those. All mutations are transition functions over a
// models.Course held in memory; persistence happens separately through
// the course store, which commits the whole sections array as one
// snapshot.
//
// Every transition validates its inputs before touching the tree, so a
// rejected call leaves the course exactly as it was. After a successful
// transition these invariants hold for every sibling array:
//
//   - order fields are exactly 0..len-1, no gaps, no duplicates
//   - element IDs are unchanged; only order and parent membership move
//   - a subsection appears in exactly one section's array
package coursetree

import (
	"errors"

	"github.com/cogitoedu/coursehub/internal/domain/models"
)

// Tree wraps one course and exposes the transition functions. It holds
// a pointer to the caller's course; mutations are applied to that
// value, and the caller decides when to commit the resulting snapshot.
type Tree struct {
	course *models.Course
}

// New wraps course in a Tree. Migrate is applied first so transitions
// never see the legacy shapes.
func New(course *models.Course) *Tree {
	Migrate(course)
	return &Tree{course: course}
}

// Course returns the wrapped course.
func (t *Tree) Course() *models.Course { return t.course }

// Sections returns the current ordered sections.
func (t *Tree) Sections() []models.Section { return t.course.Sections }

var (
	// ErrIndexOutOfRange is returned when a from/to index does not name an
	// existing child. Indices are never silently clamped; the one
	// exception is the destination of a cross-section move, where
	// insertion at len(dest) is a valid append.
	ErrIndexOutOfRange = errors.New("index out of range")

	ErrSectionNotFound    = errors.New("section not found")
	ErrSubsectionNotFound = errors.New("subsection not found")
	ErrBlockNotFound      = errors.New("content block not found")

	ErrEmptyName       = errors.New("name must not be empty")
	ErrBadSectionKind  = errors.New(`section kind must be "material" or "assignment"`)
	ErrBadBlockKind    = errors.New(`block kind must be "text"|"file"|"video"|"quiz"|"math"`)
	ErrFlatSection     = errors.New("section uses the flat content layout and has no subsections")
	ErrMissingDeadline = errors.New("assignment sections require a deadline")
)

// renumber stamps order = index on every element of the slice.
// Idempotent; applying it twice is the same as once.
func renumberSections(seq []models.Section) {
	for i := range seq {
		seq[i].Order = i
	}
}

func renumberSubsections(seq []models.Subsection) {
	for i := range seq {
		seq[i].Order = i
	}
}

func renumberBlocks(seq []models.ContentBlock) {
	for i := range seq {
		seq[i].Order = i
	}
}

// findSection returns a pointer into the course's sections array, so
// callers mutate the tree itself and not a copy.
func findSection(c *models.Course, sectionID string) (*models.Section, error) {
	for i := range c.Sections {
		if c.Sections[i].ID == sectionID {
			return &c.Sections[i], nil
		}
	}
	return nil, ErrSectionNotFound
}

func findSubsection(sec *models.Section, subsectionID string) (*models.Subsection, error) {
	for i := range sec.Subsections {
		if sec.Subsections[i].ID == subsectionID {
			return &sec.Subsections[i], nil
		}
	}
	return nil, ErrSubsectionNotFound
}
