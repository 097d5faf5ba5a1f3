package coursetree_test

import (
	"sort"
	"testing"
	"time"

	"github.com/cogitoedu/coursehub/internal/domain/coursetree"
	"github.com/cogitoedu/coursehub/internal/domain/models"
)

// buildCourse returns a migrated course with two lesson sections:
// S1 = [A, B], S2 = [C, D].
func buildCourse() *models.Course {
	return &models.Course{
		Title: "Algebra I",
		Sections: []models.Section{
			{
				ID: "s1", Name: "Chapter 1", Kind: models.SectionMaterial, Layout: models.LayoutLessons,
				Subsections: []models.Subsection{
					{ID: "A", Name: "Lesson A"},
					{ID: "B", Name: "Lesson B"},
				},
			},
			{
				ID: "s2", Name: "Chapter 2", Kind: models.SectionMaterial, Layout: models.LayoutLessons,
				Subsections: []models.Subsection{
					{ID: "C", Name: "Lesson C"},
					{ID: "D", Name: "Lesson D"},
				},
			},
		},
	}
}

func subsectionIDs(sec models.Section) []string {
	ids := make([]string, len(sec.Subsections))
	for i, s := range sec.Subsections {
		ids[i] = s.ID
	}
	return ids
}

func equalIDs(got, want []string) bool {
	if len(got) != len(want) {
		return false
	}
	for i := range got {
		if got[i] != want[i] {
			return false
		}
	}
	return true
}

// checkOrders fails the test if any sibling array's order fields are
// not exactly 0..len-1.
func checkOrders(t *testing.T, c *models.Course) {
	t.Helper()
	for i, sec := range c.Sections {
		if sec.Order != i {
			t.Errorf("section %q: order = %d, want %d", sec.ID, sec.Order, i)
		}
		for j, sub := range sec.Subsections {
			if sub.Order != j {
				t.Errorf("subsection %q: order = %d, want %d", sub.ID, sub.Order, j)
			}
			for k, b := range sub.Blocks {
				if b.Order != k {
					t.Errorf("block %q: order = %d, want %d", b.ID, b.Order, k)
				}
			}
		}
		for k, b := range sec.Contents {
			if b.Order != k {
				t.Errorf("flat content %q: order = %d, want %d", b.ID, b.Order, k)
			}
		}
	}
}

// allSubsectionIDs collects every subsection ID in the tree, sorted.
func allSubsectionIDs(c *models.Course) []string {
	var ids []string
	for _, sec := range c.Sections {
		for _, sub := range sec.Subsections {
			ids = append(ids, sub.ID)
		}
	}
	sort.Strings(ids)
	return ids
}

func TestReorderSections(t *testing.T) {
	c := buildCourse()
	tree := coursetree.New(c)

	if err := tree.ReorderSections(0, 1); err != nil {
		t.Fatalf("ReorderSections failed: %v", err)
	}
	if c.Sections[0].ID != "s2" || c.Sections[1].ID != "s1" {
		t.Errorf("sections = [%s %s], want [s2 s1]", c.Sections[0].ID, c.Sections[1].ID)
	}
	checkOrders(t, c)
}

func TestReorderSections_OutOfRange(t *testing.T) {
	c := buildCourse()
	tree := coursetree.New(c)

	for _, pair := range [][2]int{{-1, 0}, {0, -1}, {2, 0}, {0, 2}} {
		if err := tree.ReorderSections(pair[0], pair[1]); err != coursetree.ErrIndexOutOfRange {
			t.Errorf("ReorderSections(%d,%d): got %v, want ErrIndexOutOfRange", pair[0], pair[1], err)
		}
	}
	// A rejected call must not have touched the tree.
	if c.Sections[0].ID != "s1" || c.Sections[1].ID != "s2" {
		t.Error("rejected reorder mutated the tree")
	}
}

func TestReorderSections_NoOp(t *testing.T) {
	c := buildCourse()
	tree := coursetree.New(c)

	if err := tree.ReorderSections(1, 1); err != nil {
		t.Fatalf("ReorderSections failed: %v", err)
	}
	if c.Sections[0].ID != "s1" || c.Sections[1].ID != "s2" {
		t.Error("no-op reorder changed section order")
	}
	checkOrders(t, c)
}

func TestReorderSubsections(t *testing.T) {
	c := buildCourse()
	tree := coursetree.New(c)

	if err := tree.ReorderSubsections("s1", 0, 1); err != nil {
		t.Fatalf("ReorderSubsections failed: %v", err)
	}
	if got := subsectionIDs(c.Sections[0]); !equalIDs(got, []string{"B", "A"}) {
		t.Errorf("s1 = %v, want [B A]", got)
	}
	checkOrders(t, c)
}

func TestReorderSubsections_UnknownSection(t *testing.T) {
	tree := coursetree.New(buildCourse())
	if err := tree.ReorderSubsections("nope", 0, 1); err != coursetree.ErrSectionNotFound {
		t.Errorf("got %v, want ErrSectionNotFound", err)
	}
}

func TestReorderSubsections_PreservesIdentity(t *testing.T) {
	c := buildCourse()
	tree := coursetree.New(c)
	before := allSubsectionIDs(c)

	_ = tree.ReorderSubsections("s1", 1, 0)
	_ = tree.ReorderSubsections("s2", 0, 1)
	_ = tree.MoveSubsection("s1", 0, "s2", 0)
	_ = tree.MoveSubsection("s2", 2, "s1", 1)

	after := allSubsectionIDs(c)
	if !equalIDs(after, before) {
		t.Errorf("subsection IDs changed: before %v, after %v", before, after)
	}
	checkOrders(t, c)
}

func TestMoveSubsection_SameSectionShift(t *testing.T) {
	// [A,B,C,D] with move(0 -> 2) must land A after the element
	// originally at index 2: [B,C,A,D].
	c := &models.Course{
		Sections: []models.Section{{
			ID: "s", Name: "S", Kind: models.SectionMaterial, Layout: models.LayoutLessons,
			Subsections: []models.Subsection{
				{ID: "A"}, {ID: "B"}, {ID: "C"}, {ID: "D"},
			},
		}},
	}
	tree := coursetree.New(c)

	if err := tree.MoveSubsection("s", 0, "s", 2); err != nil {
		t.Fatalf("MoveSubsection failed: %v", err)
	}
	if got := subsectionIDs(c.Sections[0]); !equalIDs(got, []string{"B", "C", "A", "D"}) {
		t.Errorf("got %v, want [B C A D]", got)
	}
	checkOrders(t, c)
}

func TestMoveSubsection_CrossSection(t *testing.T) {
	// S1=[A,B], S2=[C,D]; move(S1,0,S2,1) => S1=[B], S2=[C,A,D].
	c := buildCourse()
	tree := coursetree.New(c)

	if err := tree.MoveSubsection("s1", 0, "s2", 1); err != nil {
		t.Fatalf("MoveSubsection failed: %v", err)
	}
	if got := subsectionIDs(c.Sections[0]); !equalIDs(got, []string{"B"}) {
		t.Errorf("s1 = %v, want [B]", got)
	}
	if got := subsectionIDs(c.Sections[1]); !equalIDs(got, []string{"C", "A", "D"}) {
		t.Errorf("s2 = %v, want [C A D]", got)
	}
	checkOrders(t, c)
}

func TestMoveSubsection_SingleOwnership(t *testing.T) {
	c := buildCourse()
	tree := coursetree.New(c)

	if err := tree.MoveSubsection("s1", 1, "s2", 0); err != nil {
		t.Fatalf("MoveSubsection failed: %v", err)
	}

	count := 0
	for _, sec := range c.Sections {
		for _, sub := range sec.Subsections {
			if sub.ID == "B" {
				count++
			}
		}
	}
	if count != 1 {
		t.Errorf("moved subsection appears in %d sections, want 1", count)
	}
}

func TestMoveSubsection_AppendPastEnd(t *testing.T) {
	// Destination index past the end clamps to an append.
	c := buildCourse()
	tree := coursetree.New(c)

	if err := tree.MoveSubsection("s1", 0, "s2", 99); err != nil {
		t.Fatalf("MoveSubsection failed: %v", err)
	}
	if got := subsectionIDs(c.Sections[1]); !equalIDs(got, []string{"C", "D", "A"}) {
		t.Errorf("s2 = %v, want [C D A]", got)
	}
	checkOrders(t, c)
}

func TestMoveSubsection_SamePositionNoOp(t *testing.T) {
	c := buildCourse()
	tree := coursetree.New(c)

	if err := tree.MoveSubsection("s1", 1, "s1", 1); err != nil {
		t.Fatalf("MoveSubsection failed: %v", err)
	}
	if got := subsectionIDs(c.Sections[0]); !equalIDs(got, []string{"A", "B"}) {
		t.Errorf("s1 = %v, want [A B]", got)
	}
	checkOrders(t, c)
}

func TestMoveSubsection_IntoEmptySection(t *testing.T) {
	c := buildCourse()
	c.Sections = append(c.Sections, models.Section{
		ID: "s3", Name: "Chapter 3", Kind: models.SectionMaterial,
	})
	tree := coursetree.New(c)

	if err := tree.MoveSubsection("s1", 0, "s3", 0); err != nil {
		t.Fatalf("MoveSubsection failed: %v", err)
	}
	if got := subsectionIDs(c.Sections[2]); !equalIDs(got, []string{"A"}) {
		t.Errorf("s3 = %v, want [A]", got)
	}
	checkOrders(t, c)
}

func TestMoveSubsection_FromIndexOutOfRange(t *testing.T) {
	tree := coursetree.New(buildCourse())
	if err := tree.MoveSubsection("s1", 5, "s2", 0); err != coursetree.ErrIndexOutOfRange {
		t.Errorf("got %v, want ErrIndexOutOfRange", err)
	}
}

func TestMoveSubsection_FlatSectionRejected(t *testing.T) {
	c := buildCourse()
	c.Sections = append(c.Sections, models.Section{
		ID: "flat", Name: "Old chapter", Kind: models.SectionMaterial,
		Contents: []models.ContentBlock{{ID: "x", Kind: models.BlockText, Text: "hi"}},
	})
	tree := coursetree.New(c)

	if err := tree.MoveSubsection("s1", 0, "flat", 0); err != coursetree.ErrFlatSection {
		t.Errorf("got %v, want ErrFlatSection", err)
	}
	// The source must be untouched after the refusal.
	if got := subsectionIDs(c.Sections[0]); !equalIDs(got, []string{"A", "B"}) {
		t.Errorf("s1 = %v, want [A B]", got)
	}
}

func TestAddSection(t *testing.T) {
	c := &models.Course{}
	tree := coursetree.New(c)

	id, err := tree.AddSection("Chapter 1", models.SectionMaterial, nil)
	if err != nil {
		t.Fatalf("AddSection failed: %v", err)
	}
	if id == "" {
		t.Error("expected a generated section ID")
	}
	if len(c.Sections) != 1 || c.Sections[0].Order != 0 {
		t.Errorf("sections = %+v, want one section with order 0", c.Sections)
	}
	if c.Sections[0].Layout != models.LayoutLessons {
		t.Errorf("layout = %q, want %q", c.Sections[0].Layout, models.LayoutLessons)
	}
}

func TestAddSection_AssignmentNeedsDeadline(t *testing.T) {
	tree := coursetree.New(&models.Course{})
	if _, err := tree.AddSection("Homework", models.SectionAssignment, nil); err != coursetree.ErrMissingDeadline {
		t.Errorf("got %v, want ErrMissingDeadline", err)
	}
}

func TestAddSection_EmptyName(t *testing.T) {
	tree := coursetree.New(&models.Course{})
	if _, err := tree.AddSection("   ", models.SectionMaterial, nil); err != coursetree.ErrEmptyName {
		t.Errorf("got %v, want ErrEmptyName", err)
	}
}

func TestAddSection_MaterialDropsDeadline(t *testing.T) {
	c := &models.Course{}
	tree := coursetree.New(c)

	dl := time.Now().Add(24 * time.Hour)
	if _, err := tree.AddSection("Chapter", models.SectionMaterial, &dl); err != nil {
		t.Fatalf("AddSection failed: %v", err)
	}
	if c.Sections[0].Deadline != nil {
		t.Error("material section kept a deadline")
	}
}

func TestDeleteSection_RenumbersSurvivors(t *testing.T) {
	c := buildCourse()
	c.Sections = append(c.Sections, models.Section{
		ID: "s3", Name: "Chapter 3", Kind: models.SectionMaterial, Layout: models.LayoutLessons,
	})
	tree := coursetree.New(c)

	if err := tree.DeleteSection("s2"); err != nil {
		t.Fatalf("DeleteSection failed: %v", err)
	}
	if len(c.Sections) != 2 {
		t.Fatalf("len = %d, want 2", len(c.Sections))
	}
	if c.Sections[0].ID != "s1" || c.Sections[1].ID != "s3" {
		t.Errorf("sections = [%s %s], want [s1 s3]", c.Sections[0].ID, c.Sections[1].ID)
	}
	checkOrders(t, c)
}

func TestDeleteSubsection_MiddleOfThree(t *testing.T) {
	c := &models.Course{
		Sections: []models.Section{{
			ID: "s", Name: "S", Kind: models.SectionMaterial, Layout: models.LayoutLessons,
			Subsections: []models.Subsection{{ID: "A"}, {ID: "B"}, {ID: "C"}},
		}},
	}
	tree := coursetree.New(c)

	if err := tree.DeleteSubsection("s", "B"); err != nil {
		t.Fatalf("DeleteSubsection failed: %v", err)
	}
	if got := subsectionIDs(c.Sections[0]); !equalIDs(got, []string{"A", "C"}) {
		t.Errorf("got %v, want [A C]", got)
	}
	checkOrders(t, c)
}

func TestAddSubsection_StampsCreator(t *testing.T) {
	c := buildCourse()
	tree := coursetree.New(c)

	author := coursetree.Author{Name: "Jan Kowalski"}
	id, err := tree.AddSubsection("s1", "Lesson E", author)
	if err != nil {
		t.Fatalf("AddSubsection failed: %v", err)
	}
	sub := c.Sections[0].Subsections[2]
	if sub.ID != id || sub.Order != 2 {
		t.Errorf("appended lesson = %+v, want ID %s at order 2", sub, id)
	}
	if sub.CreatedAt.IsZero() {
		t.Error("expected CreatedAt to be set")
	}
}

func TestBlocks_AddReorderDelete(t *testing.T) {
	c := buildCourse()
	tree := coursetree.New(c)

	var ids []string
	for _, text := range []string{"one", "two", "three"} {
		id, err := tree.AddBlock("s1", "A", models.ContentBlock{Kind: models.BlockText, Text: text})
		if err != nil {
			t.Fatalf("AddBlock failed: %v", err)
		}
		ids = append(ids, id)
	}

	if err := tree.ReorderBlocks("s1", "A", 2, 0); err != nil {
		t.Fatalf("ReorderBlocks failed: %v", err)
	}
	blocks := c.Sections[0].Subsections[0].Blocks
	if blocks[0].ID != ids[2] || blocks[1].ID != ids[0] || blocks[2].ID != ids[1] {
		t.Errorf("block order after reorder = [%s %s %s], want [%s %s %s]",
			blocks[0].ID, blocks[1].ID, blocks[2].ID, ids[2], ids[0], ids[1])
	}
	checkOrders(t, c)

	if err := tree.DeleteBlock("s1", "A", ids[0]); err != nil {
		t.Fatalf("DeleteBlock failed: %v", err)
	}
	blocks = c.Sections[0].Subsections[0].Blocks
	if len(blocks) != 2 {
		t.Fatalf("len = %d, want 2", len(blocks))
	}
	checkOrders(t, c)
}

func TestAddBlock_ClearsForeignPayload(t *testing.T) {
	c := buildCourse()
	tree := coursetree.New(c)

	id, err := tree.AddBlock("s1", "A", models.ContentBlock{
		Kind:     models.BlockQuiz,
		QuizID:   "64f0c0ffee",
		Text:     "should be dropped",
		VideoURL: "https://youtu.be/x",
	})
	if err != nil {
		t.Fatalf("AddBlock failed: %v", err)
	}
	b := c.Sections[0].Subsections[0].Blocks[0]
	if b.ID != id || b.QuizID != "64f0c0ffee" {
		t.Errorf("quiz payload lost: %+v", b)
	}
	if b.Text != "" || b.VideoURL != "" {
		t.Errorf("foreign payload kept: %+v", b)
	}
}

func TestAddBlock_BadKind(t *testing.T) {
	tree := coursetree.New(buildCourse())
	if _, err := tree.AddBlock("s1", "A", models.ContentBlock{Kind: "image"}); err != coursetree.ErrBadBlockKind {
		t.Errorf("got %v, want ErrBadBlockKind", err)
	}
}

func TestMoveBlock_AcrossSubsections(t *testing.T) {
	c := buildCourse()
	tree := coursetree.New(c)

	id, err := tree.AddBlock("s1", "A", models.ContentBlock{Kind: models.BlockText, Text: "hello"})
	if err != nil {
		t.Fatalf("AddBlock failed: %v", err)
	}
	if err := tree.MoveBlock("s1", "A", 0, "s2", "C", 0); err != nil {
		t.Fatalf("MoveBlock failed: %v", err)
	}
	if n := len(c.Sections[0].Subsections[0].Blocks); n != 0 {
		t.Errorf("source still has %d blocks", n)
	}
	dst := c.Sections[1].Subsections[0].Blocks
	if len(dst) != 1 || dst[0].ID != id {
		t.Errorf("destination = %+v, want the moved block", dst)
	}
	checkOrders(t, c)
}

func TestMoveBlock_SameSubsectionShift(t *testing.T) {
	c := buildCourse()
	tree := coursetree.New(c)

	ids := make([]string, 4)
	for i, text := range []string{"a", "b", "c", "d"} {
		id, err := tree.AddBlock("s1", "A", models.ContentBlock{Kind: models.BlockText, Text: text})
		if err != nil {
			t.Fatalf("AddBlock failed: %v", err)
		}
		ids[i] = id
	}

	// Dragging the first block onto the third slot lands it after the
	// block that was there, not before it.
	if err := tree.MoveBlock("s1", "A", 0, "s1", "A", 2); err != nil {
		t.Fatalf("MoveBlock failed: %v", err)
	}
	got := c.Sections[0].Subsections[0].Blocks
	want := []string{ids[1], ids[2], ids[0], ids[3]}
	for i, b := range got {
		if b.ID != want[i] {
			t.Fatalf("block %d = %s, want %s", i, b.ID, want[i])
		}
	}
	checkOrders(t, c)
}

func TestMoveBlock_NegativeTargetClampsToFront(t *testing.T) {
	c := buildCourse()
	tree := coursetree.New(c)

	var last string
	for _, text := range []string{"a", "b"} {
		id, err := tree.AddBlock("s1", "A", models.ContentBlock{Kind: models.BlockText, Text: text})
		if err != nil {
			t.Fatalf("AddBlock failed: %v", err)
		}
		last = id
	}

	if err := tree.MoveBlock("s1", "A", 1, "s1", "A", -3); err != nil {
		t.Fatalf("MoveBlock failed: %v", err)
	}
	if got := c.Sections[0].Subsections[0].Blocks[0].ID; got != last {
		t.Errorf("front block = %s, want %s", got, last)
	}
	checkOrders(t, c)
}
