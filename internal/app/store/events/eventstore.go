// internal/app/store/events/eventstore.go
package eventstore

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/cogitoedu/coursehub/internal/app/system/normalize"
	"github.com/cogitoedu/coursehub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type Store struct {
	c *mongo.Collection
}

var (
	ErrNotFound    = errors.New("event not found")
	errBadKind     = errors.New(`kind must be "assignment"|"exam"|"meeting"|"other"`)
	errNoTitle     = errors.New("title is required")
	errBadWindow   = errors.New("end must not be before start")
	errNoAssignees = errors.New("at least one assignee is required")
)

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("events")}
}

// Create inserts a new event after normalizing assignee emails.
func (s *Store) Create(ctx context.Context, e models.Event) (models.Event, error) {
	e.Title = strings.TrimSpace(e.Title)
	if e.Title == "" {
		return models.Event{}, errNoTitle
	}
	if !models.IsValidEventKind(e.Kind) {
		return models.Event{}, errBadKind
	}
	if e.EndsAt.IsZero() {
		e.EndsAt = e.StartsAt
	}
	if e.EndsAt.Before(e.StartsAt) {
		return models.Event{}, errBadWindow
	}
	if len(e.AssignedTo) == 0 {
		return models.Event{}, errNoAssignees
	}
	for i, a := range e.AssignedTo {
		e.AssignedTo[i] = normalize.Email(a)
	}

	e.ID = primitive.NewObjectID()
	e.CreatedAt = time.Now().UTC()

	if _, err := s.c.InsertOne(ctx, e); err != nil {
		return models.Event{}, err
	}
	return e, nil
}

// GetByID returns an event by its ID.
func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (models.Event, error) {
	var e models.Event
	err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&e)
	if err == mongo.ErrNoDocuments {
		return models.Event{}, ErrNotFound
	}
	if err != nil {
		return models.Event{}, err
	}
	return e, nil
}

// ListForUser returns a user's events inside [from, to), soonest first.
func (s *Store) ListForUser(ctx context.Context, email string, from, to time.Time) ([]models.Event, error) {
	filter := bson.M{
		"assigned_to": normalize.Email(email),
		"starts_at":   bson.M{"$gte": from, "$lt": to},
	}
	opts := options.Find().SetSort(bson.D{{Key: "starts_at", Value: 1}, {Key: "_id", Value: 1}})
	return s.find(ctx, filter, opts)
}

// ListForCourse returns every event linked to a course, soonest first.
func (s *Store) ListForCourse(ctx context.Context, courseID primitive.ObjectID) ([]models.Event, error) {
	opts := options.Find().SetSort(bson.D{{Key: "starts_at", Value: 1}, {Key: "_id", Value: 1}})
	return s.find(ctx, bson.M{"course_id": courseID}, opts)
}

// ListStartingWithin returns events whose start falls inside [from, to).
// The reminder worker uses this to find deadlines coming due.
func (s *Store) ListStartingWithin(ctx context.Context, from, to time.Time) ([]models.Event, error) {
	opts := options.Find().SetSort(bson.D{{Key: "starts_at", Value: 1}})
	return s.find(ctx, bson.M{"starts_at": bson.M{"$gte": from, "$lt": to}}, opts)
}

// ListDueForReminder returns events starting inside [from, to) that have
// not yet had a reminder sent.
func (s *Store) ListDueForReminder(ctx context.Context, from, to time.Time) ([]models.Event, error) {
	filter := bson.M{
		"starts_at":        bson.M{"$gte": from, "$lt": to},
		"reminder_sent_at": bson.M{"$exists": false},
	}
	opts := options.Find().SetSort(bson.D{{Key: "starts_at", Value: 1}})
	return s.find(ctx, filter, opts)
}

// MarkReminded records that a reminder went out for the given events.
func (s *Store) MarkReminded(ctx context.Context, ids []primitive.ObjectID, at time.Time) error {
	if len(ids) == 0 {
		return nil
	}
	_, err := s.c.UpdateMany(ctx,
		bson.M{"_id": bson.M{"$in": ids}},
		bson.M{"$set": bson.M{"reminder_sent_at": at.UTC()}})
	return err
}

// Update modifies an event's mutable fields.
func (s *Store) Update(ctx context.Context, id primitive.ObjectID, mut models.Event) error {
	set := bson.M{}
	if strings.TrimSpace(mut.Title) != "" {
		set["title"] = strings.TrimSpace(mut.Title)
	}
	if mut.Kind != "" {
		if !models.IsValidEventKind(mut.Kind) {
			return errBadKind
		}
		set["kind"] = mut.Kind
	}
	set["description"] = mut.Description
	if !mut.StartsAt.IsZero() {
		set["starts_at"] = mut.StartsAt
	}
	if !mut.EndsAt.IsZero() {
		set["ends_at"] = mut.EndsAt
	}
	if mut.AssignedTo != nil {
		for i, a := range mut.AssignedTo {
			mut.AssignedTo[i] = normalize.Email(a)
		}
		set["assigned_to"] = mut.AssignedTo
	}
	now := time.Now().UTC()
	set["updated_at"] = &now

	res, err := s.c.UpdateByID(ctx, id, bson.M{"$set": set})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete removes an event by ID. Returns the number of documents deleted (0 or 1).
func (s *Store) Delete(ctx context.Context, id primitive.ObjectID) (int64, error) {
	res, err := s.c.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}

// DeleteForSection removes the events that mirror a section's deadline.
// Used when an assignment section is deleted from the course tree.
func (s *Store) DeleteForSection(ctx context.Context, courseID primitive.ObjectID, sectionID string) (int64, error) {
	res, err := s.c.DeleteMany(ctx, bson.M{"course_id": courseID, "section_id": sectionID})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}

func (s *Store) find(ctx context.Context, filter bson.M, opts ...*options.FindOptions) ([]models.Event, error) {
	cur, err := s.c.Find(ctx, filter, opts...)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []models.Event
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}
