// Package router wires the HTTP routes to their handlers.
package router

import (
	"net/http"
	"reflect"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"

	"inkwell/internal/handlers"
	"inkwell/internal/middleware"
	"inkwell/internal/store"
	"inkwell/internal/token"
)

func init() {
	// Report validation errors under the wire field names, not the Go ones.
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		v.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			return name
		})
	}
}

type Deps struct {
	Users    store.UserStore
	Posts    store.PostStore
	Tags     store.TagStore
	Comments store.CommentStore
	Stats    store.StatsStore
	Tokens   *token.Service
	Log      zerolog.Logger
}

// New builds the gin engine with all routes registered.
func New(d Deps) *gin.Engine {
	r := gin.New()
	r.Use(middleware.RequestLogger(d.Log))
	r.Use(gin.Recovery())

	auth := handlers.NewAuthHandler(d.Users, d.Tokens, d.Log)
	users := handlers.NewUserHandler(d.Users, d.Log)
	posts := handlers.NewPostHandler(d.Posts, d.Users, d.Comments, d.Log)
	tags := handlers.NewTagHandler(d.Tags, d.Log)
	dashboard := handlers.NewDashboardHandler(d.Stats, d.Log)

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":    "ok",
			"timestamp": time.Now().UTC().Format(time.RFC3339),
		})
	})
	r.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"pong": true})
	})

	r.POST("/auth/register", auth.Register)
	r.POST("/auth/login", auth.Login)

	api := r.Group("/", middleware.AuthRequired(d.Tokens))
	{
		api.POST("/auth/logout", auth.Logout)
		api.GET("/auth/me", auth.Me)
		api.POST("/auth/refresh", auth.Refresh)

		api.GET("/users", users.Index)
		api.POST("/users", users.Store)
		api.GET("/users/:id", users.Show)
		api.PUT("/users/:id", users.Update)
		api.DELETE("/users/:id", users.Destroy)

		api.GET("/posts", posts.Index)
		api.POST("/posts", posts.Store)
		api.GET("/posts/:id", posts.Show)
		api.PUT("/posts/:id", posts.Update)
		api.DELETE("/posts/:id", posts.Destroy)
		api.POST("/posts/:id/comments", posts.AddComment)
		api.DELETE("/posts/:id/comments/:cid", posts.DeleteComment)

		api.GET("/tags", tags.Index)
		api.POST("/tags", tags.Store)
		api.GET("/tags/:id", tags.Show)
		api.PUT("/tags/:id", tags.Update)
		api.DELETE("/tags/:id", tags.Destroy)

		api.GET("/dashboard/stats", dashboard.Stats)
		api.GET("/dashboard/activity", dashboard.Activity)
	}

	return r
}
