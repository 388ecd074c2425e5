package client

import (
	"context"
	"encoding/json"
	"net/http"
	"time"
)

type Todo struct {
	ID          string    `json:"_id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Status      string    `json:"status"`
	DueDate     time.Time `json:"dueDate"`
	Owner       string    `json:"owner"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// TodoItem is a Todo annotated for display: Overdue is derived at list
// time, never stored by the server.
type TodoItem struct {
	Todo
	Overdue bool `json:"overdue"`
}

type CreateTodoRequest struct {
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Status      string    `json:"status,omitempty"`
	DueDate     time.Time `json:"dueDate"`
}

type UpdateTodoRequest struct {
	Title       *string    `json:"title,omitempty"`
	Description *string    `json:"description,omitempty"`
	Status      *string    `json:"status,omitempty"`
	DueDate     *time.Time `json:"dueDate,omitempty"`
}

// ListTodos returns the caller's todos with the overdue flag computed: a
// pending todo past its due date is overdue; a completed one never is.
func (c *Client) ListTodos(ctx context.Context, token string) ([]TodoItem, error) {
	env, err := c.do(ctx, http.MethodGet, "/api/todos", nil, token)
	if err != nil {
		return nil, err
	}

	var todos []Todo
	if err := json.Unmarshal(env.Data, &todos); err != nil {
		return nil, err
	}

	now := time.Now()
	items := make([]TodoItem, 0, len(todos))
	for _, t := range todos {
		items = append(items, TodoItem{
			Todo:    t,
			Overdue: t.Status != "completed" && t.DueDate.Before(now),
		})
	}
	return items, nil
}

func (c *Client) CreateTodo(ctx context.Context, token string, req CreateTodoRequest) (*Todo, error) {
	env, err := c.do(ctx, http.MethodPost, "/api/todos", req, token)
	if err != nil {
		return nil, err
	}
	var todo Todo
	if err := json.Unmarshal(env.Data, &todo); err != nil {
		return nil, err
	}
	return &todo, nil
}

func (c *Client) GetTodo(ctx context.Context, token, id string) (*Todo, error) {
	env, err := c.do(ctx, http.MethodGet, "/api/todos/"+id, nil, token)
	if err != nil {
		return nil, err
	}
	var todo Todo
	if err := json.Unmarshal(env.Data, &todo); err != nil {
		return nil, err
	}
	return &todo, nil
}

func (c *Client) UpdateTodo(ctx context.Context, token, id string, req UpdateTodoRequest) (*Todo, error) {
	env, err := c.do(ctx, http.MethodPut, "/api/todos/"+id, req, token)
	if err != nil {
		return nil, err
	}
	var todo Todo
	if err := json.Unmarshal(env.Data, &todo); err != nil {
		return nil, err
	}
	return &todo, nil
}

func (c *Client) DeleteTodo(ctx context.Context, token, id string) error {
	_, err := c.do(ctx, http.MethodDelete, "/api/todos/"+id, nil, token)
	return err
}
