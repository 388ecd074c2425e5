// Package router wires the gin engine: middleware stack, route tree and
// the 404 fallback. It is separate from main so tests can build the same
// engine against in-memory stores.
package router

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/princeade/taskvault/controllers"
	"github.com/princeade/taskvault/middleware"
	"github.com/princeade/taskvault/store"
	"github.com/princeade/taskvault/utils"
)

type Deps struct {
	Cfg    *utils.Config
	Users  store.UserStore
	Ledger store.TokenLedger
	Todos  store.TodoStore
}

func New(deps Deps) *gin.Engine {
	r := gin.New()

	allowedOrigins := map[string]bool{}
	for _, origin := range deps.Cfg.AllowedOrigins {
		allowedOrigins[origin] = true
	}
	r.Use(cors.New(cors.Config{
		AllowOriginFunc: func(origin string) bool {
			return allowedOrigins[origin]
		},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true, // refresh cookie
		MaxAge:           12 * time.Hour,
	}))
	r.Use(gin.Logger())
	r.Use(gin.Recovery())
	r.Use(middleware.ErrorHandler())

	r.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})

	guard := middleware.AuthMiddleware(deps.Ledger, deps.Cfg.JWTSecret)

	api := r.Group("/api")

	users := api.Group("/users")
	{
		users.POST("/register", controllers.Register(deps.Cfg, deps.Users))
		users.POST("/login", controllers.Login(deps.Cfg, deps.Users, deps.Ledger))
		users.POST("/refresh-token", controllers.RefreshToken(deps.Cfg, deps.Users, deps.Ledger))
		users.POST("/logout", controllers.Logout(deps.Cfg, deps.Ledger))

		users.GET("/protected", guard, controllers.Protected(deps.Users))
		users.GET("/:id", guard, controllers.GetCurrentUser(deps.Users))
	}

	todos := api.Group("/todos")
	todos.Use(guard)
	{
		todos.POST("", controllers.CreateTodo(deps.Todos))
		todos.GET("", controllers.GetAllTodos(deps.Todos))
		todos.GET("/:id", controllers.GetTodoByID(deps.Todos))
		todos.PUT("/:id", controllers.UpdateTodo(deps.Todos))
		todos.DELETE("/:id", controllers.DeleteTodo(deps.Todos))
	}

	// Unknown routes get a generic body; no route structure leaks.
	r.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"message": "Route not found",
		})
	})

	return r
}
