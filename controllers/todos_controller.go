package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/v2/bson"

	"github.com/princeade/taskvault/apperrors"
	"github.com/princeade/taskvault/dto"
	"github.com/princeade/taskvault/models"
	"github.com/princeade/taskvault/store"
)

// ownerID reads the authenticated user id the guard stored on the
// context. The guard runs before every todo route, so a decode failure
// here means a token was minted with a bogus subject.
func ownerID(c *gin.Context) (bson.ObjectID, bool) {
	id, err := bson.ObjectIDFromHex(c.GetString("userID"))
	if err != nil {
		abort(c, apperrors.TokenMalformed())
		return bson.ObjectID{}, false
	}
	return id, true
}

// loadOwnedTodo fetches the todo and enforces ownership. A foreign todo
// is Forbidden, never NotFound — existence is already proven by the
// lookup.
func loadOwnedTodo(c *gin.Context, todos store.TodoStore, action string) (*models.Todo, bool) {
	owner, ok := ownerID(c)
	if !ok {
		return nil, false
	}

	todoID, err := bson.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		abort(c, apperrors.InvalidInput("Invalid todo ID"))
		return nil, false
	}

	todo, err := todos.FindByID(c.Request.Context(), todoID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			abort(c, apperrors.NotFound("Todo not found"))
			return nil, false
		}
		abort(c, err)
		return nil, false
	}
	if todo.Owner != owner {
		abort(c, apperrors.Forbidden("Not authorized to "+action+" this todo"))
		return nil, false
	}
	return todo, true
}

func CreateTodo(todos store.TodoStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		owner, ok := ownerID(c)
		if !ok {
			return
		}

		var body dto.CreateTodoDTO
		if err := c.ShouldBindJSON(&body); err != nil {
			abort(c, apperrors.InvalidInput("Title, description and dueDate are required"))
			return
		}

		status := models.TodoStatus(body.Status)
		if body.Status == "" {
			status = models.StatusPending
		}
		if !models.ValidStatus(status) {
			abort(c, apperrors.InvalidInput("Status must be either pending or completed"))
			return
		}

		todo := models.Todo{
			Title:       body.Title,
			Description: body.Description,
			Status:      status,
			DueDate:     body.DueDate,
			Owner:       owner,
		}
		if err := todos.Insert(c.Request.Context(), &todo); err != nil {
			abort(c, err)
			return
		}

		c.JSON(http.StatusCreated, gin.H{
			"success": true,
			"data":    todo,
		})
	}
}

func GetAllTodos(todos store.TodoStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		owner, ok := ownerID(c)
		if !ok {
			return
		}

		list, err := todos.FindByOwner(c.Request.Context(), owner)
		if err != nil {
			abort(c, err)
			return
		}
		if len(list) == 0 {
			abort(c, apperrors.NotFound("No todos found for this user"))
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"success": true,
			"count":   len(list),
			"data":    list,
		})
	}
}

func GetTodoByID(todos store.TodoStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		todo, ok := loadOwnedTodo(c, todos, "access")
		if !ok {
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"success": true,
			"data":    todo,
		})
	}
}

func UpdateTodo(todos store.TodoStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		todo, ok := loadOwnedTodo(c, todos, "update")
		if !ok {
			return
		}

		var body dto.UpdateTodoDTO
		if err := c.ShouldBindJSON(&body); err != nil {
			abort(c, apperrors.InvalidInput("Invalid request body"))
			return
		}

		if body.Title != nil {
			todo.Title = *body.Title
		}
		if body.Description != nil {
			todo.Description = *body.Description
		}
		if body.Status != nil {
			status := models.TodoStatus(*body.Status)
			if !models.ValidStatus(status) {
				abort(c, apperrors.InvalidInput("Status must be either pending or completed"))
				return
			}
			todo.Status = status
		}
		if body.DueDate != nil {
			todo.DueDate = *body.DueDate
		}

		if err := todos.Update(c.Request.Context(), todo); err != nil {
			if errors.Is(err, store.ErrNotFound) {
				abort(c, apperrors.NotFound("Todo not found"))
				return
			}
			abort(c, err)
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"success": true,
			"data":    todo,
		})
	}
}

func DeleteTodo(todos store.TodoStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		todo, ok := loadOwnedTodo(c, todos, "delete")
		if !ok {
			return
		}

		if err := todos.Delete(c.Request.Context(), todo.ID); err != nil {
			if errors.Is(err, store.ErrNotFound) {
				abort(c, apperrors.NotFound("Todo not found"))
				return
			}
			abort(c, err)
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"success": true,
			"data":    gin.H{},
		})
	}
}
