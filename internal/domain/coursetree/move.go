// internal/domain/coursetree/move.go
package coursetree

import "github.com/cogitoedu/coursehub/internal/domain/models"

// MoveSubsection transfers the subsection at fromIndex in the source
// section to toIndex in the destination section. Ownership moves
// atomically within the in-memory tree: the subsection is never present
// in both arrays, or in neither, in any snapshot a caller can observe.
//
// The element is removed first and then inserted at toIndex as-is, so a
// same-section forward move lands the element after the sibling that
// originally held the target slot: [A,B,C,D] with move(0, 2) yields
// [B,C,A,D]. The destination is clamped to [0, len(dest)] — appending
// at len(dest) is valid, so a drop "below the last lesson" works.
func (t *Tree) MoveSubsection(fromSectionID string, fromIndex int, toSectionID string, toIndex int) error {
	src, err := findSection(t.course, fromSectionID)
	if err != nil {
		return err
	}
	if src.Layout == models.LayoutFlat {
		return ErrFlatSection
	}
	if fromIndex < 0 || fromIndex >= len(src.Subsections) {
		return ErrIndexOutOfRange
	}

	dst, err := findSection(t.course, toSectionID)
	if err != nil {
		return err
	}
	if dst.Layout == models.LayoutFlat {
		return ErrFlatSection
	}
	if toIndex < 0 {
		toIndex = 0
	}

	sameSection := fromSectionID == toSectionID
	if sameSection && fromIndex == toIndex {
		// No-op, but still leave both invariant sets intact.
		renumberSubsections(src.Subsections)
		return nil
	}

	moved := src.Subsections[fromIndex]
	src.Subsections = append(src.Subsections[:fromIndex], src.Subsections[fromIndex+1:]...)

	if toIndex > len(dst.Subsections) {
		toIndex = len(dst.Subsections)
	}

	subs := append(dst.Subsections, models.Subsection{})
	copy(subs[toIndex+1:], subs[toIndex:])
	subs[toIndex] = moved
	dst.Subsections = subs

	renumberSubsections(src.Subsections)
	renumberSubsections(dst.Subsections)
	return nil
}

// MoveBlock transfers a content block between subsections, possibly
// across sections, with the same remove-then-insert and clamping rules
// as MoveSubsection.
func (t *Tree) MoveBlock(fromSectionID, fromSubsectionID string, fromIndex int, toSectionID, toSubsectionID string, toIndex int) error {
	srcSec, err := findSection(t.course, fromSectionID)
	if err != nil {
		return err
	}
	src, err := findSubsection(srcSec, fromSubsectionID)
	if err != nil {
		return err
	}
	if fromIndex < 0 || fromIndex >= len(src.Blocks) {
		return ErrIndexOutOfRange
	}

	dstSec, err := findSection(t.course, toSectionID)
	if err != nil {
		return err
	}
	dst, err := findSubsection(dstSec, toSubsectionID)
	if err != nil {
		return err
	}
	if toIndex < 0 {
		toIndex = 0
	}

	sameParent := fromSectionID == toSectionID && fromSubsectionID == toSubsectionID
	if sameParent && fromIndex == toIndex {
		renumberBlocks(src.Blocks)
		return nil
	}

	moved := src.Blocks[fromIndex]
	src.Blocks = append(src.Blocks[:fromIndex], src.Blocks[fromIndex+1:]...)

	if toIndex > len(dst.Blocks) {
		toIndex = len(dst.Blocks)
	}

	blocks := append(dst.Blocks, models.ContentBlock{})
	copy(blocks[toIndex+1:], blocks[toIndex:])
	blocks[toIndex] = moved
	dst.Blocks = blocks

	renumberBlocks(src.Blocks)
	renumberBlocks(dst.Blocks)
	return nil
}
