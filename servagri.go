// Package servagri is the content engine behind the Serv'Agri marketing
// site. It serves a JSON CRUD API over SQLite for two entity types (news
// items and project showcases) and ships the admin-side building blocks
// that drive the dashboard: a typed API client, create/edit form
// controllers, a pruned local mirror cache, and a bounded image normalizer.
package servagri

import (
	"fmt"
	"log"
	"net/http"
	"os"

	"github.com/labstack/echo/v4"
)

// App is the central application. It wires together the store, limiter,
// middleware, and the request handler set.
type App struct {
	Config SiteConfig
	Echo   *echo.Echo
	Store  *Store

	writeLimiter *WriteLimiter
	customRoutes []func(*App)
	staticDir    string
}

// New creates a new App with the given configuration.
func New(cfg SiteConfig, opts ...Option) *App {
	cfg.setDefaults()

	a := &App{
		Config:    cfg,
		Echo:      echo.New(),
		staticDir: "public",
	}

	for _, opt := range opts {
		opt(a)
	}

	return a
}

// Start initializes the database, limiter, middleware, and routes, then
// starts the server.
func (a *App) Start() error {
	store, err := NewStore(a.Config.DatabasePath)
	if err != nil {
		return fmt.Errorf("servagri: init store: %w", err)
	}
	a.Store = store

	a.writeLimiter = NewWriteLimiter(a.Config.WriteLimit, a.Config.WriteLimitWindow)

	a.setupMiddleware()
	a.setupRoutes()

	for _, fn := range a.customRoutes {
		fn(a)
	}

	if err := a.Echo.Start(a.Config.Addr); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// setupRoutes registers one fixed path per (collection, verb) pair. A
// request with the wrong method on a registered path is rejected by the
// router before any handler or store access.
func (a *App) setupRoutes() {
	e := a.Echo

	// Marketing site static build
	e.Static("/public", a.staticDir)

	e.GET("/api/news", a.handleListNews)
	e.POST("/api/news/add", a.handleAddNews)
	e.PUT("/api/news/update", a.handleUpdateNews)
	e.DELETE("/api/news/delete", a.handleDeleteNews)

	e.GET("/api/projects", a.handleListProjects)
	e.POST("/api/projects/add", a.handleAddProject)
	e.PUT("/api/projects/update", a.handleUpdateProject)
	e.DELETE("/api/projects/delete", a.handleDeleteProject)
}

// Close cleans up resources. Call this when the app is shutting down.
func (a *App) Close() error {
	if a.writeLimiter != nil {
		a.writeLimiter.Stop()
	}
	if a.Store != nil {
		return a.Store.Close()
	}
	return nil
}

// EnvOr returns the value of the environment variable key, or fallback if empty.
func EnvOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// MustEnv returns the value of the environment variable key, or fatally exits if empty.
func MustEnv(key string) string {
	v := os.Getenv(key)
	if v == "" {
		log.Fatalf("servagri: required environment variable %s is not set", key)
	}
	return v
}
