// Package devserver assembles the development server that stands in for the
// remote catalog service.
package devserver

import (
	"github.com/explooosion/catalog-console/internal/devserver/handlers"
	"github.com/explooosion/catalog-console/internal/devserver/middleware"
	"github.com/explooosion/catalog-console/internal/devserver/repositories"
	"github.com/explooosion/catalog-console/internal/devserver/token"
	"github.com/explooosion/catalog-console/internal/models"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// Options collects the collaborators for the API router
type Options struct {
	Issuer   *token.Issuer
	Users    repositories.UserRepository
	Products repositories.ProductRepository
	Logger   *zap.Logger

	// CreateRequiresAdmin gates product creation on the admin role instead
	// of any authenticated session
	CreateRequiresAdmin bool
}

// NewRouter builds the /api route tree. The outer middleware chain (request
// id, logging, rate limiting, CORS) is applied by the caller.
func NewRouter(opts Options) chi.Router {
	authHandler := handlers.NewAuthHandler(opts.Users, opts.Issuer, opts.Logger)
	productHandler := handlers.NewProductHandler(opts.Products, opts.Logger)

	createMW := middleware.RequireAuth(opts.Issuer)
	if opts.CreateRequiresAdmin {
		createMW = middleware.RequireRole(opts.Issuer, models.RoleAdmin)
	}
	adminMW := middleware.RequireRole(opts.Issuer, models.RoleAdmin)

	r := chi.NewRouter()
	r.Route("/api", func(r chi.Router) {
		authHandler.RegisterRoutes(r)
		productHandler.RegisterRoutes(r, createMW, adminMW)
	})

	return r
}

// DefaultSeeds are the fixture accounts created when none are configured
func DefaultSeeds() []repositories.Seed {
	return []repositories.Seed{
		{Username: "robby", Password: "secret", Role: models.RoleAdmin},
		{Username: "alice", Password: "wonder", Role: models.RoleMember},
	}
}
