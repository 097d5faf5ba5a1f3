// internal/app/store/quizzes/quizstore.go
package quizstore

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/cogitoedu/coursehub/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/text"
	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type Store struct {
	c *mongo.Collection
}

var (
	ErrNotFound    = errors.New("quiz not found")
	errNoTitle     = errors.New("title is required")
	errNoCourse    = errors.New("course_id is required")
	errBadQuestion = errors.New("question type must be text|math|mixed|open")
)

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("quizzes")}
}

func validQuestionType(t string) bool {
	switch t {
	case models.AnswerText, models.AnswerMath, models.AnswerMixed, models.AnswerOpen:
		return true
	}
	return false
}

// Create inserts a new quiz, assigning question and answer IDs where
// they are missing.
func (s *Store) Create(ctx context.Context, q models.Quiz) (models.Quiz, error) {
	q.Title = strings.TrimSpace(q.Title)
	if q.Title == "" {
		return models.Quiz{}, errNoTitle
	}
	if q.CourseID == primitive.NilObjectID {
		return models.Quiz{}, errNoCourse
	}
	for qi := range q.Questions {
		question := &q.Questions[qi]
		if !validQuestionType(question.Type) {
			return models.Quiz{}, errBadQuestion
		}
		if question.ID == "" {
			question.ID = uuid.NewString()
		}
		for ai := range question.Answers {
			if question.Answers[ai].ID == "" {
				question.Answers[ai].ID = uuid.NewString()
			}
		}
	}

	now := time.Now().UTC()
	q.ID = primitive.NewObjectID()
	q.TitleCI = text.Fold(q.Title)
	q.CreatedAt = now
	q.UpdatedAt = &now

	if _, err := s.c.InsertOne(ctx, q); err != nil {
		return models.Quiz{}, err
	}
	return q, nil
}

// GetByID returns a quiz by its ID.
func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (models.Quiz, error) {
	var q models.Quiz
	err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&q)
	if err == mongo.ErrNoDocuments {
		return models.Quiz{}, ErrNotFound
	}
	if err != nil {
		return models.Quiz{}, err
	}
	return q, nil
}

// ListForCourse returns a course's quizzes sorted by folded title.
func (s *Store) ListForCourse(ctx context.Context, courseID primitive.ObjectID) ([]models.Quiz, error) {
	opts := options.Find().SetSort(bson.D{{Key: "title_ci", Value: 1}, {Key: "_id", Value: 1}})
	cur, err := s.c.Find(ctx, bson.M{"course_id": courseID}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []models.Quiz
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Update replaces a quiz's title, description, and questions.
func (s *Store) Update(ctx context.Context, id primitive.ObjectID, mut models.Quiz) error {
	set := bson.M{}
	if strings.TrimSpace(mut.Title) != "" {
		title := strings.TrimSpace(mut.Title)
		set["title"] = title
		set["title_ci"] = text.Fold(title)
	}
	set["description"] = mut.Description
	if mut.Questions != nil {
		for qi := range mut.Questions {
			question := &mut.Questions[qi]
			if !validQuestionType(question.Type) {
				return errBadQuestion
			}
			if question.ID == "" {
				question.ID = uuid.NewString()
			}
			for ai := range question.Answers {
				if question.Answers[ai].ID == "" {
					question.Answers[ai].ID = uuid.NewString()
				}
			}
		}
		set["questions"] = mut.Questions
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

// Delete removes a quiz by ID. Returns the number of documents deleted (0 or 1).
func (s *Store) Delete(ctx context.Context, id primitive.ObjectID) (int64, error) {
	res, err := s.c.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}
