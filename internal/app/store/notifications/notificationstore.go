// internal/app/store/notifications/notificationstore.go
package notificationstore

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
	errNoUser   = errors.New("user email is required")
	errNoTitle  = errors.New("title is required")
	errBadLevel = errors.New(`level must be "info"|"success"|"warning"|"error"`)
)

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("notifications")}
}

// Create inserts a single notification.
func (s *Store) Create(ctx context.Context, n models.Notification) (models.Notification, error) {
	n.UserEmail = normalize.Email(n.UserEmail)
	if n.UserEmail == "" {
		return models.Notification{}, errNoUser
	}
	n.Title = strings.TrimSpace(n.Title)
	if n.Title == "" {
		return models.Notification{}, errNoTitle
	}
	if n.Level == "" {
		n.Level = models.NotifyInfo
	}
	if !models.IsValidNotifyLevel(n.Level) {
		return models.Notification{}, errBadLevel
	}

	n.ID = primitive.NewObjectID()
	n.Read = false
	n.ReadAt = nil
	n.CreatedAt = time.Now().UTC()

	if _, err := s.c.InsertOne(ctx, n); err != nil {
		return models.Notification{}, err
	}
	return n, nil
}

// FanOut inserts the same notification for every recipient. Recipients
// that duplicate each other are collapsed.
func (s *Store) FanOut(ctx context.Context, template models.Notification, recipients []string) (int, error) {
	seen := make(map[string]bool, len(recipients))
	var docs []any
	now := time.Now().UTC()

	template.Title = strings.TrimSpace(template.Title)
	if template.Title == "" {
		return 0, errNoTitle
	}
	if template.Level == "" {
		template.Level = models.NotifyInfo
	}
	if !models.IsValidNotifyLevel(template.Level) {
		return 0, errBadLevel
	}

	for _, r := range recipients {
		email := normalize.Email(r)
		if email == "" || seen[email] {
			continue
		}
		seen[email] = true

		n := template
		n.ID = primitive.NewObjectID()
		n.UserEmail = email
		n.Read = false
		n.ReadAt = nil
		n.CreatedAt = now
		docs = append(docs, n)
	}
	if len(docs) == 0 {
		return 0, nil
	}

	if _, err := s.c.InsertMany(ctx, docs); err != nil {
		return 0, err
	}
	return len(docs), nil
}

// ListForUser returns a user's notifications, newest first, capped at limit.
func (s *Store) ListForUser(ctx context.Context, email string, limit int64) ([]models.Notification, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: -1}}).
		SetLimit(limit)
	cur, err := s.c.Find(ctx, bson.M{"user_email": normalize.Email(email)}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []models.Notification
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// CountUnread returns the number of unread notifications for a user.
func (s *Store) CountUnread(ctx context.Context, email string) (int64, error) {
	return s.c.CountDocuments(ctx, bson.M{
		"user_email": normalize.Email(email),
		"read":       false,
	})
}

// MarkRead marks one notification read, scoped to the owner so a user
// cannot mark someone else's notification.
func (s *Store) MarkRead(ctx context.Context, id primitive.ObjectID, email string) error {
	now := time.Now().UTC()
	res, err := s.c.UpdateOne(ctx,
		bson.M{"_id": id, "user_email": normalize.Email(email)},
		bson.M{"$set": bson.M{"read": true, "read_at": &now}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}

// MarkAllRead marks every unread notification for a user as read.
// Returns the number of notifications updated.
func (s *Store) MarkAllRead(ctx context.Context, email string) (int64, error) {
	now := time.Now().UTC()
	res, err := s.c.UpdateMany(ctx,
		bson.M{"user_email": normalize.Email(email), "read": false},
		bson.M{"$set": bson.M{"read": true, "read_at": &now}})
	if err != nil {
		return 0, err
	}
	return res.ModifiedCount, nil
}

// Delete removes a notification, scoped to the owner.
func (s *Store) Delete(ctx context.Context, id primitive.ObjectID, email string) (int64, error) {
	res, err := s.c.DeleteOne(ctx, bson.M{"_id": id, "user_email": normalize.Email(email)})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}
