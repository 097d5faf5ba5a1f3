// internal/domain/models/quiz.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Question/answer content types.
const (
	AnswerText  = "text"
	AnswerMath  = "math"
	AnswerMixed = "mixed"
	AnswerOpen  = "open"
)

// Quiz is referenced from content blocks by its hex ID. The content
// tree never checks that a quiz block's QuizID resolves here.
type Quiz struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Title       string             `bson:"title" json:"title"`
	TitleCI     string             `bson:"title_ci" json:"title_ci"`
	Description string             `bson:"description,omitempty" json:"description,omitempty"`
	Subject     string             `bson:"subject,omitempty" json:"subject,omitempty"`

	// CourseID scopes a quiz to the course whose blocks may reference it.
	CourseID primitive.ObjectID `bson:"course_id" json:"course_id"`

	Questions []Question `bson:"questions,omitempty" json:"questions,omitempty"`

	CreatedAt time.Time  `bson:"created_at" json:"created_at"`
	UpdatedAt *time.Time `bson:"updated_at,omitempty" json:"updated_at,omitempty"`

	CreatedByID   *primitive.ObjectID `bson:"created_by_id,omitempty" json:"created_by_id,omitempty"`
	CreatedByName string              `bson:"created_by_name,omitempty" json:"created_by_name,omitempty"`
}

// Question is one quiz question with its typed answers.
type Question struct {
	ID      string   `bson:"id" json:"id"`
	Prompt  string   `bson:"prompt" json:"prompt"`
	Type    string   `bson:"type" json:"type"` // text | math | mixed | open
	Points  int      `bson:"points,omitempty" json:"points,omitempty"`
	Answers []Answer `bson:"answers,omitempty" json:"answers,omitempty"`
}

// Answer is a candidate answer for a question.
type Answer struct {
	ID      string `bson:"id" json:"id"`
	Content string `bson:"content" json:"content"`
	Type    string `bson:"type" json:"type"` // text | math | mixed
	Correct bool   `bson:"correct" json:"correct"`
}
