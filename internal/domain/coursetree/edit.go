// internal/domain/coursetree/edit.go
package coursetree

import (
	"strings"
	"time"

	"github.com/cogitoedu/coursehub/internal/domain/models"
	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Author identifies who is editing, for created_by stamps on lessons.
type Author struct {
	ID   primitive.ObjectID
	Name string
}

// AddSection appends a new section and returns its generated ID.
// Assignment sections must carry a deadline; material sections must not
// (a stray deadline is dropped).
func (t *Tree) AddSection(name, kind string, deadline *time.Time) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", ErrEmptyName
	}
	if !models.IsValidSectionKind(kind) {
		return "", ErrBadSectionKind
	}
	if kind == models.SectionAssignment && deadline == nil {
		return "", ErrMissingDeadline
	}
	if kind == models.SectionMaterial {
		deadline = nil
	}

	sec := models.Section{
		ID:       uuid.NewString(),
		Name:     name,
		Kind:     kind,
		Deadline: deadline,
		Order:    len(t.course.Sections),
		Layout:   models.LayoutLessons,
	}
	t.course.Sections = append(t.course.Sections, sec)
	return sec.ID, nil
}

// UpdateSection edits a section's name, kind, and deadline in place.
func (t *Tree) UpdateSection(sectionID, name, kind string, deadline *time.Time) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return ErrEmptyName
	}
	if !models.IsValidSectionKind(kind) {
		return ErrBadSectionKind
	}
	if kind == models.SectionAssignment && deadline == nil {
		return ErrMissingDeadline
	}

	sec, err := findSection(t.course, sectionID)
	if err != nil {
		return err
	}
	sec.Name = name
	sec.Kind = kind
	if kind == models.SectionMaterial {
		sec.Deadline = nil
	} else {
		sec.Deadline = deadline
	}
	return nil
}

// DeleteSection removes a section and renumbers the survivors.
func (t *Tree) DeleteSection(sectionID string) error {
	secs := t.course.Sections
	idx := -1
	for i := range secs {
		if secs[i].ID == sectionID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return ErrSectionNotFound
	}
	t.course.Sections = append(secs[:idx], secs[idx+1:]...)
	renumberSections(t.course.Sections)
	return nil
}

// AddSubsection appends a new lesson to a section and returns its ID.
func (t *Tree) AddSubsection(sectionID, name string, by Author) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", ErrEmptyName
	}
	sec, err := findSection(t.course, sectionID)
	if err != nil {
		return "", err
	}
	if sec.Layout == models.LayoutFlat {
		return "", ErrFlatSection
	}

	sub := models.Subsection{
		ID:        uuid.NewString(),
		Name:      name,
		Order:     len(sec.Subsections),
		CreatedAt: time.Now().UTC(),
	}
	if by.ID != primitive.NilObjectID {
		id := by.ID
		sub.CreatedByID = &id
		sub.CreatedByName = by.Name
	}
	sec.Subsections = append(sec.Subsections, sub)
	return sub.ID, nil
}

// RenameSubsection changes a lesson's name and refreshes its updated stamp.
func (t *Tree) RenameSubsection(sectionID, subsectionID, name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return ErrEmptyName
	}
	sec, err := findSection(t.course, sectionID)
	if err != nil {
		return err
	}
	sub, err := findSubsection(sec, subsectionID)
	if err != nil {
		return err
	}
	now := time.Now().UTC()
	sub.Name = name
	sub.UpdatedAt = &now
	return nil
}

// DeleteSubsection removes a lesson and renumbers the survivors.
func (t *Tree) DeleteSubsection(sectionID, subsectionID string) error {
	sec, err := findSection(t.course, sectionID)
	if err != nil {
		return err
	}
	subs := sec.Subsections
	idx := -1
	for i := range subs {
		if subs[i].ID == subsectionID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return ErrSubsectionNotFound
	}
	sec.Subsections = append(subs[:idx], subs[idx+1:]...)
	renumberSubsections(sec.Subsections)
	return nil
}

// AddBlock appends a content block to a lesson and returns its ID. The
// block keeps only the payload field matching its kind; everything else
// is zeroed so unused payloads never reach the store.
func (t *Tree) AddBlock(sectionID, subsectionID string, block models.ContentBlock) (string, error) {
	if !models.IsValidBlockKind(block.Kind) {
		return "", ErrBadBlockKind
	}
	sec, err := findSection(t.course, sectionID)
	if err != nil {
		return "", err
	}
	sub, err := findSubsection(sec, subsectionID)
	if err != nil {
		return "", err
	}

	block.ID = uuid.NewString()
	block.Order = len(sub.Blocks)
	clearUnusedPayload(&block)

	now := time.Now().UTC()
	sub.UpdatedAt = &now
	sub.Blocks = append(sub.Blocks, block)
	return block.ID, nil
}

// UpdateBlock replaces the payload of an existing block, keeping its ID
// and position.
func (t *Tree) UpdateBlock(sectionID, subsectionID, blockID string, mut models.ContentBlock) error {
	if !models.IsValidBlockKind(mut.Kind) {
		return ErrBadBlockKind
	}
	sec, err := findSection(t.course, sectionID)
	if err != nil {
		return err
	}
	sub, err := findSubsection(sec, subsectionID)
	if err != nil {
		return err
	}
	for i := range sub.Blocks {
		if sub.Blocks[i].ID == blockID {
			mut.ID = blockID
			mut.Order = sub.Blocks[i].Order
			clearUnusedPayload(&mut)
			sub.Blocks[i] = mut

			now := time.Now().UTC()
			sub.UpdatedAt = &now
			return nil
		}
	}
	return ErrBlockNotFound
}

// DeleteBlock removes a content block and renumbers the survivors.
func (t *Tree) DeleteBlock(sectionID, subsectionID, blockID string) error {
	sec, err := findSection(t.course, sectionID)
	if err != nil {
		return err
	}
	sub, err := findSubsection(sec, subsectionID)
	if err != nil {
		return err
	}
	blocks := sub.Blocks
	idx := -1
	for i := range blocks {
		if blocks[i].ID == blockID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return ErrBlockNotFound
	}
	sub.Blocks = append(blocks[:idx], blocks[idx+1:]...)
	renumberBlocks(sub.Blocks)

	now := time.Now().UTC()
	sub.UpdatedAt = &now
	return nil
}

// clearUnusedPayload zeroes every payload field that does not belong to
// the block's kind.
func clearUnusedPayload(b *models.ContentBlock) {
	if b.Kind != models.BlockText {
		b.Text = ""
	}
	if b.Kind != models.BlockFile {
		b.FileURL = ""
		b.FileName = ""
		b.FileSize = 0
	}
	if b.Kind != models.BlockVideo {
		b.VideoURL = ""
	}
	if b.Kind != models.BlockQuiz {
		b.QuizID = ""
	}
	if b.Kind != models.BlockMath {
		b.Math = ""
	}
}
