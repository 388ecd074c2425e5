package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestTodoOverdue(t *testing.T) {
	now := time.Now()
	yesterday := now.Add(-24 * time.Hour)
	tomorrow := now.Add(24 * time.Hour)

	tests := []struct {
		name    string
		status  TodoStatus
		dueDate time.Time
		want    bool
	}{
		{"pending past due", StatusPending, yesterday, true},
		{"pending not yet due", StatusPending, tomorrow, false},
		{"completed past due", StatusCompleted, yesterday, false},
		{"completed not yet due", StatusCompleted, tomorrow, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			todo := Todo{Status: tt.status, DueDate: tt.dueDate}
			assert.Equal(t, tt.want, todo.Overdue(now))
		})
	}
}

func TestValidStatus(t *testing.T) {
	assert.True(t, ValidStatus(StatusPending))
	assert.True(t, ValidStatus(StatusCompleted))
	assert.False(t, ValidStatus(TodoStatus("done")))
	assert.False(t, ValidStatus(TodoStatus("")))
}
