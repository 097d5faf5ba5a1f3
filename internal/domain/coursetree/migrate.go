// internal/domain/coursetree/migrate.go
package coursetree

import (
	"github.com/cogitoedu/coursehub/internal/domain/models"
	"github.com/google/uuid"
)

// Migrate normalizes a course loaded from the store into the current
// tree shape. It is the only place that understands the legacy layouts;
// the transition functions assume a migrated tree.
//
// What it does, per section:
//
//   - stamps the layout discriminator: "flat" when the section carries a
//     legacy flat contents array and no subsections, "lessons" otherwise
//   - folds each subsection's legacy materials array into its blocks
//     array (materials come first, in their stored order, followed by
//     any blocks already present) and clears the legacy field
//   - assigns IDs to nodes that predate ID stamping
//   - renumbers every sibling array so order fields are consecutive
//
// Migrate is idempotent: a second pass over an already-migrated course
// changes nothing.
func Migrate(c *models.Course) {
	for i := range c.Sections {
		sec := &c.Sections[i]

		if sec.Layout == "" {
			if len(sec.Contents) > 0 && len(sec.Subsections) == 0 {
				sec.Layout = models.LayoutFlat
			} else {
				sec.Layout = models.LayoutLessons
			}
		}
		if sec.ID == "" {
			sec.ID = uuid.NewString()
		}

		switch sec.Layout {
		case models.LayoutFlat:
			for j := range sec.Contents {
				if sec.Contents[j].ID == "" {
					sec.Contents[j].ID = uuid.NewString()
				}
			}
			renumberBlocks(sec.Contents)
		default:
			for j := range sec.Subsections {
				sub := &sec.Subsections[j]
				if sub.ID == "" {
					sub.ID = uuid.NewString()
				}
				if len(sub.Materials) > 0 {
					merged := make([]models.ContentBlock, 0, len(sub.Materials)+len(sub.Blocks))
					merged = append(merged, sub.Materials...)
					merged = append(merged, sub.Blocks...)
					sub.Blocks = merged
					sub.Materials = nil
				}
				for k := range sub.Blocks {
					if sub.Blocks[k].ID == "" {
						sub.Blocks[k].ID = uuid.NewString()
					}
				}
				renumberBlocks(sub.Blocks)
			}
			renumberSubsections(sec.Subsections)
		}
	}
	renumberSections(c.Sections)
}
