// Package router contains routing and server setup for the HTTP delivery.
package router

import (
	"synnapse/internal/delivery/api/middleware"
	"synnapse/internal/delivery/api/router/handler"

	"github.com/labstack/echo/v4"
	"go.uber.org/fx"
)

type RouterParams struct {
	fx.In

	AuthHandler        *handler.AuthHandler
	PersonHandler      *handler.PersonHandler
	PermissionsHandler *handler.PermissionsHandler
	EntryHandler       *handler.EntryHandler
	HealthHandler      *handler.HealthHandler
	AccessGate         *middleware.AccessGate
}

// router holds all the handlers that need to be registered.
type router struct {
	authHandler        *handler.AuthHandler
	personHandler      *handler.PersonHandler
	permissionsHandler *handler.PermissionsHandler
	entryHandler       *handler.EntryHandler
	healthHandler      *handler.HealthHandler
	accessGate         *middleware.AccessGate
}

// NewRouter is the constructor for the Router.
// Fx will inject the required handlers here.
func NewRouter(params RouterParams) *router {
	return &router{
		authHandler:        params.AuthHandler,
		personHandler:      params.PersonHandler,
		permissionsHandler: params.PermissionsHandler,
		entryHandler:       params.EntryHandler,
		healthHandler:      params.HealthHandler,
		accessGate:         params.AccessGate,
	}
}

// RegisterRoutes sets up all the API routes for the application. Every route sits behind the access gate.
func (r *router) RegisterRoutes(e *echo.Echo) {
	e.GET("/health", r.healthHandler.Check, r.accessGate.Guard)

	api := e.Group("/api", r.accessGate.Guard)

	authGroup := api.Group("/auth")
	{
		authGroup.POST("/login", r.authHandler.Login)
		authGroup.POST("/register", r.authHandler.Register)
		authGroup.POST("/change-password", r.authHandler.ChangePassword)
		authGroup.POST("/forgot-password", r.authHandler.ForgotPassword)
		authGroup.POST("/verify-reset-token", r.authHandler.VerifyResetToken)
		authGroup.POST("/reset-password", r.authHandler.ResetPassword)
		authGroup.POST("/link-google", r.authHandler.LinkGoogle)
		authGroup.POST("/set-password", r.authHandler.SetPassword)
		authGroup.POST("/google-login", r.authHandler.GoogleLogin)
		authGroup.POST("/register-google", r.authHandler.GoogleRegister)
		authGroup.POST("/update-google-id", r.authHandler.UpdateGoogleID)
	}

	personGroup := api.Group("/person")
	{
		personGroup.GET("", r.personHandler.List)
		personGroup.GET("/:id", r.personHandler.Get)
		personGroup.GET("/by-google-id/:google_id", r.personHandler.GetByGoogleID)
		personGroup.POST("", r.personHandler.Create)
		personGroup.PUT("/:id", r.personHandler.Update)
		personGroup.DELETE("/:id", r.personHandler.Delete)
	}

	permissionsGroup := api.Group("/permissions")
	{
		permissionsGroup.GET("", r.permissionsHandler.List)
		permissionsGroup.GET("/:id", r.permissionsHandler.Get)
		permissionsGroup.GET("/by-person/:person_id", r.permissionsHandler.ListByPerson)
		permissionsGroup.POST("", r.permissionsHandler.Create)
		permissionsGroup.PUT("/:id", r.permissionsHandler.Update)
		permissionsGroup.DELETE("/:id", r.permissionsHandler.Delete)
	}

	entriesGroup := api.Group("/entries")
	{
		entriesGroup.GET("", r.entryHandler.List)
		entriesGroup.GET("/:id", r.entryHandler.Get)
		entriesGroup.GET("/by-person/:person_id", r.entryHandler.List)
		entriesGroup.GET("/by-date/:date", r.entryHandler.List)
		entriesGroup.GET("/by-date/:date/person/:person_id", r.entryHandler.List)
		entriesGroup.GET("/by-action/:action", r.entryHandler.List)
		entriesGroup.GET("/by-action/:action/person/:person_id", r.entryHandler.List)
		entriesGroup.POST("", r.entryHandler.Create)
		entriesGroup.PUT("/:id", r.entryHandler.Update)
		entriesGroup.DELETE("/:id", r.entryHandler.Delete)
	}
}
