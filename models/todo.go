package models

import (
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
)

type TodoStatus string

const (
	StatusPending   TodoStatus = "pending"
	StatusCompleted TodoStatus = "completed"
)

// ValidStatus reports whether s is one of the enumerated todo statuses.
func ValidStatus(s TodoStatus) bool {
	return s == StatusPending || s == StatusCompleted
}

type Todo struct {
	ID          bson.ObjectID `bson:"_id,omitempty" json:"_id"`
	Title       string        `bson:"title" json:"title"`
	Description string        `bson:"description" json:"description"`
	Status      TodoStatus    `bson:"status" json:"status"`
	DueDate     time.Time     `bson:"dueDate" json:"dueDate"`
	Owner       bson.ObjectID `bson:"owner" json:"owner"`
	CreatedAt   time.Time     `bson:"createdAt" json:"createdAt"`
	UpdatedAt   time.Time     `bson:"updatedAt" json:"updatedAt"`
}

// Overdue reports whether the todo is past its due date and still open.
// Completed todos are never overdue, regardless of due date.
func (t Todo) Overdue(now time.Time) bool {
	return t.Status != StatusCompleted && t.DueDate.Before(now)
}
