// internal/domain/coursetree/reorder.go
package coursetree

import "github.com/cogitoedu/coursehub/internal/domain/models"

// ReorderSections relocates the section at from to position to.
// Splice-and-reinsert: the moved element is removed, re-inserted at to,
// and all sections are renumbered. Relative order of untouched siblings
// is preserved. from == to is a no-op that still leaves consecutive
// order fields.
func (t *Tree) ReorderSections(from, to int) error {
	n := len(t.course.Sections)
	if from < 0 || from >= n || to < 0 || to >= n {
		return ErrIndexOutOfRange
	}
	if from == to {
		renumberSections(t.course.Sections)
		return nil
	}

	secs := t.course.Sections
	moved := secs[from]
	secs = append(secs[:from], secs[from+1:]...)

	secs = append(secs, moved) // grow by one
	copy(secs[to+1:], secs[to:])
	secs[to] = moved

	t.course.Sections = secs
	renumberSections(t.course.Sections)
	return nil
}

// ReorderSubsections relocates the subsection at from to position to
// within the same section. Same splice-and-reinsert semantics as
// ReorderSections.
func (t *Tree) ReorderSubsections(sectionID string, from, to int) error {
	sec, err := findSection(t.course, sectionID)
	if err != nil {
		return err
	}
	if sec.Layout == models.LayoutFlat {
		return ErrFlatSection
	}

	n := len(sec.Subsections)
	if from < 0 || from >= n || to < 0 || to >= n {
		return ErrIndexOutOfRange
	}
	if from == to {
		renumberSubsections(sec.Subsections)
		return nil
	}

	subs := sec.Subsections
	moved := subs[from]
	subs = append(subs[:from], subs[from+1:]...)

	subs = append(subs, moved)
	copy(subs[to+1:], subs[to:])
	subs[to] = moved

	sec.Subsections = subs
	renumberSubsections(sec.Subsections)
	return nil
}

// ReorderBlocks relocates the content block at from to position to
// within one subsection.
func (t *Tree) ReorderBlocks(sectionID, subsectionID string, from, to int) error {
	sec, err := findSection(t.course, sectionID)
	if err != nil {
		return err
	}
	sub, err := findSubsection(sec, subsectionID)
	if err != nil {
		return err
	}

	n := len(sub.Blocks)
	if from < 0 || from >= n || to < 0 || to >= n {
		return ErrIndexOutOfRange
	}
	if from == to {
		renumberBlocks(sub.Blocks)
		return nil
	}

	blocks := sub.Blocks
	moved := blocks[from]
	blocks = append(blocks[:from], blocks[from+1:]...)

	blocks = append(blocks, moved)
	copy(blocks[to+1:], blocks[to:])
	blocks[to] = moved

	sub.Blocks = blocks
	renumberBlocks(sub.Blocks)
	return nil
}
