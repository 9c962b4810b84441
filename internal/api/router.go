package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/arneko/larder/internal/recipeservice"
)

// NewRouter creates a chi router with all API routes mounted.
// authEnabled controls whether Bearer token auth is enforced.
// sseHandler, if non-nil, is mounted at GET /events inside the auth group.
// notify, if non-nil, is called with the recipe count after a reindex.
func NewRouter(svc *recipeservice.Service, authEnabled bool, token string, sseHandler http.Handler, notify func(count int)) chi.Router {
	h := NewHandler(svc, notify)

	r := chi.NewRouter()
	r.Use(AuthMiddleware(authEnabled, token))

	// Recipes (read-only).
	r.Get("/recipes", h.ListRecipes)
	r.Get("/recipes/*", h.GetRecipe)

	// Search and navigation.
	r.Get("/search", h.Search)
	r.Get("/categories", h.Categories)

	// Index rebuild.
	r.Post("/reindex", h.Reindex)

	// SSE endpoint (protected by same auth middleware).
	if sseHandler != nil {
		r.Get("/events", sseHandler.ServeHTTP)
	}

	return r
}
