// internal/app/store/courses/coursestore.go
package coursestore

import (
	"context"
	"errors"
	"regexp"
	"strings"
	"time"

	"github.com/cogitoedu/coursehub/internal/app/system/normalize"
	"github.com/cogitoedu/coursehub/internal/app/system/paging"
	"github.com/cogitoedu/coursehub/internal/app/system/status"
	"github.com/cogitoedu/coursehub/internal/domain/coursetree"
	"github.com/cogitoedu/coursehub/internal/domain/models"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"github.com/dalemusser/waffle/pantry/text"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type Store struct {
	c *mongo.Collection
}

var (
	ErrDuplicateTitle = errors.New("a course with this title already exists")
	ErrNotFound       = errors.New("course not found")

	// ErrRevisionConflict means the course changed since the caller loaded
	// it; the caller must reload and retry its edit.
	ErrRevisionConflict = errors.New("course was modified by someone else")

	errTitleRequired = errors.New("title is required")
)

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("courses")}
}

var slugUnsafe = regexp.MustCompile(`[^a-z0-9]+`)

// Slugify turns a title into its URL slug: folded, non-alphanumerics
// collapsed to single hyphens.
func Slugify(title string) string {
	s := slugUnsafe.ReplaceAllString(text.Fold(title), "-")
	return strings.Trim(s, "-")
}

// Create inserts a new Course, setting TitleCI/Slug/SubjectCI, the
// initial revision, and timestamps.
func (s *Store) Create(ctx context.Context, c models.Course) (models.Course, error) {
	c.Title = strings.TrimSpace(c.Title)
	if c.Title == "" {
		return models.Course{}, errTitleRequired
	}

	now := time.Now().UTC()
	c.ID = primitive.NewObjectID()
	c.TitleCI = text.Fold(c.Title)
	c.Slug = Slugify(c.Title)
	if c.Subject != "" {
		c.SubjectCI = text.Fold(c.Subject)
	}
	if c.Status == "" {
		c.Status = status.Active
	}
	if !status.IsValid(c.Status) {
		return models.Course{}, errors.New(`status must be "active" or "disabled"`)
	}
	c.TeacherEmail = normalize.Email(c.TeacherEmail)
	for i, e := range c.AssignedUsers {
		c.AssignedUsers[i] = normalize.Email(e)
	}
	c.Rev = 1
	c.CreatedAt = now
	c.UpdatedAt = &now

	if _, err := s.c.InsertOne(ctx, c); err != nil {
		if wafflemongo.IsDup(err) {
			return models.Course{}, ErrDuplicateTitle
		}
		return models.Course{}, err
	}
	return c, nil
}

// GetByID returns a course by its ID.
func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (models.Course, error) {
	var c models.Course
	err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&c)
	if err == mongo.ErrNoDocuments {
		return models.Course{}, ErrNotFound
	}
	if err != nil {
		return models.Course{}, err
	}
	return c, nil
}

// GetBySlug returns a course by its URL slug.
func (s *Store) GetBySlug(ctx context.Context, slug string) (models.Course, error) {
	var c models.Course
	err := s.c.FindOne(ctx, bson.M{"slug": slug}).Decode(&c)
	if err == mongo.ErrNoDocuments {
		return models.Course{}, ErrNotFound
	}
	if err != nil {
		return models.Course{}, err
	}
	return c, nil
}

// Update modifies course metadata and refreshes UpdatedAt. The content
// tree is untouched; snapshot writes go through CommitSnapshot only.
func (s *Store) Update(ctx context.Context, id primitive.ObjectID, mut models.Course) error {
	set := bson.M{}
	if strings.TrimSpace(mut.Title) != "" {
		title := strings.TrimSpace(mut.Title)
		set["title"] = title
		set["title_ci"] = text.Fold(title)
		set["slug"] = Slugify(title)
	}
	// Description and Subject can be cleared (set to empty)
	set["description"] = mut.Description
	set["subject"] = mut.Subject
	set["subject_ci"] = text.Fold(mut.Subject)
	if mut.YearOfStudy > 0 {
		set["year_of_study"] = mut.YearOfStudy
	}
	if mut.Status != "" {
		if !status.IsValid(mut.Status) {
			return errors.New(`status must be "active" or "disabled"`)
		}
		set["status"] = mut.Status
	}
	if mut.UpdatedByID != nil {
		set["updated_by_id"] = mut.UpdatedByID
		set["updated_by_name"] = mut.UpdatedByName
	}
	now := time.Now().UTC()
	set["updated_at"] = &now

	res, err := s.c.UpdateByID(ctx, id, bson.M{"$set": set})
	if err != nil {
		if wafflemongo.IsDup(err) {
			return ErrDuplicateTitle
		}
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// CommitSnapshot replaces the course's content tree with the given
// sections, but only if the stored revision still matches expectedRev.
// On success the revision is incremented and the new revision returned.
// A mismatch returns ErrRevisionConflict and writes nothing.
func (s *Store) CommitSnapshot(ctx context.Context, id primitive.ObjectID, expectedRev int64, sections []models.Section, by *coursetree.Author) (int64, error) {
	now := time.Now().UTC()
	update := bson.M{
		"$set": bson.M{
			"sections":   sections,
			"updated_at": &now,
		},
		"$inc": bson.M{"rev": int64(1)},
	}
	if by != nil {
		update["$set"].(bson.M)["updated_by_id"] = by.ID
		update["$set"].(bson.M)["updated_by_name"] = by.Name
	}

	res, err := s.c.UpdateOne(ctx, bson.M{"_id": id, "rev": expectedRev}, update)
	if err != nil {
		return 0, err
	}
	if res.MatchedCount == 0 {
		// Either the course is gone or someone committed in between;
		// distinguish so the handler can return 404 vs 409.
		if cnt, cErr := s.c.CountDocuments(ctx, bson.M{"_id": id}); cErr == nil && cnt == 0 {
			return 0, ErrNotFound
		}
		return 0, ErrRevisionConflict
	}
	return expectedRev + 1, nil
}

// AssignStudent adds a student email to the course roster. Adding an
// email that is already present is a no-op.
func (s *Store) AssignStudent(ctx context.Context, id primitive.ObjectID, email string) error {
	res, err := s.c.UpdateByID(ctx, id, bson.M{
		"$addToSet": bson.M{"assigned_users": normalize.Email(email)},
	})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// UnassignStudent removes a student email from the course roster.
func (s *Store) UnassignStudent(ctx context.Context, id primitive.ObjectID, email string) error {
	res, err := s.c.UpdateByID(ctx, id, bson.M{
		"$pull": bson.M{"assigned_users": normalize.Email(email)},
	})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete removes a course by ID. Returns the number of documents deleted (0 or 1).
func (s *Store) Delete(ctx context.Context, id primitive.ObjectID) (int64, error) {
	res, err := s.c.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}

// Find returns courses matching the given filter with optional find options.
// The caller is responsible for building the filter and options (pagination, sorting, projection).
func (s *Store) Find(ctx context.Context, filter bson.M, opts ...*options.FindOptions) ([]models.Course, error) {
	cur, err := s.c.Find(ctx, filter, opts...)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var courses []models.Course
	if err := cur.All(ctx, &courses); err != nil {
		return nil, err
	}
	return courses, nil
}

// ListForTeacher returns the courses a teacher owns, sorted by folded title.
func (s *Store) ListForTeacher(ctx context.Context, email string) ([]models.Course, error) {
	return s.Find(ctx,
		bson.M{"teacher_email": normalize.Email(email)},
		options.Find().SetSort(bson.D{{Key: "title_ci", Value: 1}, {Key: "_id", Value: 1}}))
}

// ListForStudent returns the active courses a student is enrolled in.
func (s *Store) ListForStudent(ctx context.Context, email string) ([]models.Course, error) {
	return s.Find(ctx,
		bson.M{"assigned_users": normalize.Email(email), "status": status.Active},
		options.Find().SetSort(bson.D{{Key: "title_ci", Value: 1}, {Key: "_id", Value: 1}}))
}

// Count returns the number of courses matching the given filter.
func (s *Store) Count(ctx context.Context, filter bson.M) (int64, error) {
	return s.c.CountDocuments(ctx, filter)
}

// Page is one keyset-paginated slice of a course listing.
type Page struct {
	Courses    []models.Course `json:"courses"`
	PrevCursor string          `json:"prev_cursor,omitempty"`
	NextCursor string          `json:"next_cursor,omitempty"`
	HasPrev    bool            `json:"has_prev"`
	HasNext    bool            `json:"has_next"`
}

// ListPage returns one page of courses matching filter, keyset-paginated
// by folded title. Exactly one of before/after may be set; both empty
// means the first page.
func (s *Store) ListPage(ctx context.Context, filter bson.M, before, after string) (Page, error) {
	if filter == nil {
		filter = bson.M{}
	}

	cfg := paging.ConfigureKeyset(before, after)
	if win := cfg.KeysetWindow("title_ci"); win != nil {
		merged := bson.M{}
		for k, v := range filter {
			merged[k] = v
		}
		for k, v := range win {
			merged[k] = v
		}
		filter = merged
	}

	find := options.Find()
	cfg.ApplyToFind(find, "title_ci")

	rows, err := s.Find(ctx, filter, find)
	if err != nil {
		return Page{}, err
	}

	if cfg.Direction == paging.Backward {
		paging.Reverse(rows)
	}
	res := paging.TrimPage(&rows, before, after)

	page := Page{
		Courses: rows,
		HasPrev: res.HasPrev,
		HasNext: res.HasNext,
	}
	if len(rows) > 0 {
		page.PrevCursor, page.NextCursor = paging.BuildCursors(rows,
			func(c models.Course) string { return c.TitleCI },
			func(c models.Course) primitive.ObjectID { return c.ID })
	}
	return page, nil
}
