package api

import (
	"errors"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/arneko/larder/internal/apperr"
	"github.com/arneko/larder/internal/parser"
	"github.com/arneko/larder/internal/recipeservice"
	"github.com/arneko/larder/internal/render"
)

// Handler holds API route handlers.
type Handler struct {
	svc    *recipeservice.Service
	notify func(count int)
}

// NewHandler creates a new Handler. notify may be nil.
func NewHandler(svc *recipeservice.Service, notify func(count int)) *Handler {
	return &Handler{svc: svc, notify: notify}
}

// recipePath extracts the recipe path from the URL (everything after
// /api/recipes/). Supports encoded slashes from OpenAPI clients
// (e.g. Recipes%2Fsoup.md).
func recipePath(r *http.Request) string {
	raw := strings.TrimPrefix(chi.URLParam(r, "*"), "/")
	if raw == "" {
		return ""
	}
	decoded, err := url.PathUnescape(raw)
	if err != nil {
		return raw
	}
	return decoded
}

// ListRecipes handles GET /api/recipes.
//
//	@Summary		List indexed recipes with optional pagination and filtering
//	@Tags			recipes
//	@Produce		json
//	@Param			limit		query		int		false	"Page size"
//	@Param			offset		query		int		false	"Page offset"
//	@Param			category	query		string	false	"Filter by category"
//	@Param			tag			query		string	false	"Filter by tag"
//	@Success		200			{object}	RecipeListResponse
//	@Security		BearerAuth
//	@Router			/recipes [get]
func (h *Handler) ListRecipes(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	limit, _ := strconv.Atoi(q.Get("limit"))
	offset, _ := strconv.Atoi(q.Get("offset"))
	category := q.Get("category")
	tag := q.Get("tag")

	records, total, err := h.svc.ListRecipes(r.Context(), limit, offset, category, tag)
	if err != nil {
		slog.Error("list recipes failed", slog.String("error", err.Error()))
		writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"recipes": records,
		"total":   total,
	})
}

// GetRecipe handles GET /api/recipes/*.
//
//	@Summary		Get a single recipe by path
//	@Tags			recipes
//	@Produce		json
//	@Param			path	query		string	true	"Recipe path"
//	@Param			format	query		string	false	"Response format"	Enums(json, html)
//	@Success		200		{object}	RecipeDetail
//	@Failure		404		{object}	errResponse
//	@Security		BearerAuth
//	@Router			/recipes/{path} [get]
func (h *Handler) GetRecipe(w http.ResponseWriter, r *http.Request) {
	path := recipePath(r)
	if path == "" {
		writeJSON(w, http.StatusBadRequest, errorBody("path is required"))
		return
	}
	detail, err := h.svc.GetRecipe(r.Context(), path)
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			writeJSON(w, http.StatusNotFound, errorBody("not found"))
		} else {
			slog.Error("get recipe failed", slog.String("path", path), slog.String("error", err.Error()))
			writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
		}
		return
	}

	if r.URL.Query().Get("format") == "html" {
		body := parser.StripFrontmatter(detail.Content)
		out, err := render.ToHTML([]byte(body))
		if err != nil {
			slog.Error("render failed", slog.String("path", path), slog.String("error", err.Error()))
			writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
			return
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(out)
		return
	}

	writeJSON(w, http.StatusOK, detail)
}

// Search handles GET /api/search.
//
//	@Summary		Full-text search across recipes
//	@Tags			search
//	@Produce		json
//	@Param			q		query		string	true	"Search query"
//	@Param			limit	query		int		false	"Max results"
//	@Success		200		{object}	SearchResponse
//	@Failure		400		{object}	errResponse
//	@Security		BearerAuth
//	@Router			/search [get]
func (h *Handler) Search(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query().Get("q")
	if q == "" {
		writeJSON(w, http.StatusBadRequest, errorBody("query parameter 'q' is required"))
		return
	}
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	results, err := h.svc.Search(r.Context(), q, limit)
	if err != nil {
		slog.Error("search failed", slog.String("query", q), slog.String("error", err.Error()))
		writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
		return
	}
	hits := make([]SearchResult, len(results))
	for i, res := range results {
		hits[i] = SearchResult{Path: res.Path, Title: res.Title, Snippet: res.Snippet}
	}
	writeJSON(w, http.StatusOK, SearchResponse{Results: hits})
}

// Categories handles GET /api/categories.
//
//	@Summary		List recipe categories with counts
//	@Tags			recipes
//	@Produce		json
//	@Success		200	{object}	CategoriesResponse
//	@Security		BearerAuth
//	@Router			/categories [get]
func (h *Handler) Categories(w http.ResponseWriter, r *http.Request) {
	cats, err := h.svc.Categories(r.Context())
	if err != nil {
		slog.Error("categories failed", slog.String("error", err.Error()))
		writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
		return
	}
	out := make([]Category, len(cats))
	for i, c := range cats {
		out[i] = Category{Name: c.Name, Count: c.Count}
	}
	writeJSON(w, http.StatusOK, CategoriesResponse{Categories: out})
}

// Reindex handles POST /api/reindex.
//
//	@Summary		Rebuild the index artifact and the search catalog
//	@Tags			index
//	@Produce		json
//	@Success		200	{object}	ReindexResponse
//	@Security		BearerAuth
//	@Router			/reindex [post]
func (h *Handler) Reindex(w http.ResponseWriter, r *http.Request) {
	n, err := h.svc.Reindex(r.Context())
	if err != nil {
		slog.Error("reindex failed", slog.String("error", err.Error()))
		writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
		return
	}
	if h.notify != nil {
		h.notify(n)
	}
	writeJSON(w, http.StatusOK, ReindexResponse{Recipes: n})
}
