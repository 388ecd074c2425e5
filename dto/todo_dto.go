package dto

import "time"

type CreateTodoDTO struct {
	Title       string    `json:"title" binding:"required"`
	Description string    `json:"description" binding:"required"`
	Status      string    `json:"status"` // defaults to pending
	DueDate     time.Time `json:"dueDate" binding:"required"`
}

// UpdateTodoDTO — all fields are optional pointers
type UpdateTodoDTO struct {
	Title       *string    `json:"title"`
	Description *string    `json:"description"`
	Status      *string    `json:"status"`
	DueDate     *time.Time `json:"dueDate"`
}
