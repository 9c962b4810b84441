package api

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/arneko/larder/internal/catalog"
	"github.com/arneko/larder/internal/index"
	"github.com/arneko/larder/internal/recipeservice"
	"github.com/arneko/larder/internal/storage"
)

// testEnv sets up a temp vault, SQLite catalog, service, and router.
// An empty token means disabled auth mode.
func testEnv(t *testing.T, files map[string]string, token string) (*recipeservice.Service, http.Handler) {
	t.Helper()
	svc, router, _ := testEnvFull(t, files, token != "", token, nil, nil)
	return svc, router
}

func testEnvFull(t *testing.T, files map[string]string, authEnabled bool, token string, sseHandler http.Handler, notify func(int)) (*recipeservice.Service, http.Handler, *storage.FS) {
	t.Helper()

	vaultDir := t.TempDir()
	for name, content := range files {
		p := filepath.Join(vaultDir, filepath.FromSlash(name))
		if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(p, []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	store, err := storage.NewFS(vaultDir)
	if err != nil {
		t.Fatalf("NewFS: %v", err)
	}

	dbFile, err := os.CreateTemp("", "larder-api-test-*.db")
	if err != nil {
		t.Fatal(err)
	}
	dbFile.Close()
	t.Cleanup(func() { os.Remove(dbFile.Name()) })

	db, err := catalog.Open(dbFile.Name())
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	builder := index.New(store, index.Config{ScanDir: "Recipes", IndexFile: "Recipes/Recipe_Index.json"}, logger)
	svc := recipeservice.NewService(store, db, builder, logger)

	if len(files) > 0 {
		if _, err := svc.Reindex(context.Background()); err != nil {
			t.Fatalf("seed reindex: %v", err)
		}
	}

	router := NewRouter(svc, authEnabled, token, sseHandler, notify)
	return svc, router, store
}

var seedFiles = map[string]string{
	"Recipes/pho.md":      "---\ncategory: Soups\ntags:\n  - vietnamese\n---\n# Pho\n\n## Ingredients\n- [ ] Beef bones\n- Noodles\n",
	"Recipes/tiramisu.md": "---\ncategory: Desserts\n---\n# Tiramisu\n\n## Ingredients\n- Mascarpone\n",
}

func TestListRecipes(t *testing.T) {
	_, router := testEnv(t, seedFiles, "")

	req := httptest.NewRequest(http.MethodGet, "/recipes?limit=10", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("list = %d, body = %s", w.Code, w.Body.String())
	}
	var resp struct {
		Recipes []RecipeRecord `json:"recipes"`
		Total   int            `json:"total"`
	}
	_ = json.Unmarshal(w.Body.Bytes(), &resp)
	if resp.Total != 2 || len(resp.Recipes) != 2 {
		t.Errorf("total = %d, len = %d, want 2/2", resp.Total, len(resp.Recipes))
	}
	if resp.Recipes[0].Path != "Recipes/pho.md" {
		t.Errorf("first path = %q (lexical order expected)", resp.Recipes[0].Path)
	}
}

func TestListRecipes_CategoryFilter(t *testing.T) {
	_, router := testEnv(t, seedFiles, "")

	req := httptest.NewRequest(http.MethodGet, "/recipes?category=Desserts", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	var resp struct {
		Recipes []RecipeRecord `json:"recipes"`
		Total   int            `json:"total"`
	}
	_ = json.Unmarshal(w.Body.Bytes(), &resp)
	if resp.Total != 1 || len(resp.Recipes) != 1 || resp.Recipes[0].Title != "Tiramisu" {
		t.Errorf("filtered = %+v", resp)
	}
}

func TestGetRecipe(t *testing.T) {
	_, router := testEnv(t, seedFiles, "")

	req := httptest.NewRequest(http.MethodGet, "/recipes/Recipes/pho.md", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("get = %d, body = %s", w.Code, w.Body.String())
	}
	var detail RecipeDetail
	_ = json.Unmarshal(w.Body.Bytes(), &detail)
	if detail.Title != "Pho" || detail.Category != "Soups" {
		t.Errorf("detail = %+v", detail)
	}
	if !strings.Contains(detail.Content, "# Pho") {
		t.Errorf("content missing: %q", detail.Content)
	}
	if detail.Frontmatter["category"] != "Soups" {
		t.Errorf("frontmatter = %v", detail.Frontmatter)
	}
	if detail.Checksum == "" {
		t.Error("checksum missing")
	}
}

func TestGetRecipe_NotFound(t *testing.T) {
	_, router := testEnv(t, seedFiles, "")

	req := httptest.NewRequest(http.MethodGet, "/recipes/Recipes/nope.md", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusNotFound {
		t.Errorf("missing recipe = %d, want 404", w.Code)
	}
}

func TestGetRecipe_HTMLFormat(t *testing.T) {
	_, router := testEnv(t, seedFiles, "")

	req := httptest.NewRequest(http.MethodGet, "/recipes/Recipes/pho.md?format=html", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("get html = %d", w.Code)
	}
	if ct := w.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/html") {
		t.Errorf("Content-Type = %q", ct)
	}
	body := w.Body.String()
	if !strings.Contains(body, "<h1") || !strings.Contains(body, "Pho") {
		t.Errorf("html missing heading: %q", body)
	}
	if strings.Contains(body, "category: Soups") {
		t.Errorf("frontmatter leaked into html: %q", body)
	}
}

func TestSearchEndpoint(t *testing.T) {
	files := map[string]string{
		"Recipes/find.md": "# Findable\nuniquetoken here\n",
	}
	_, router := testEnv(t, files, "")

	req := httptest.NewRequest(http.MethodGet, "/search?q=uniquetoken", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("search = %d, body = %s", w.Code, w.Body.String())
	}
	var resp SearchResponse
	_ = json.Unmarshal(w.Body.Bytes(), &resp)
	if len(resp.Results) != 1 || resp.Results[0].Path != "Recipes/find.md" {
		t.Errorf("results = %+v", resp.Results)
	}
}

func TestSearchMissingQuery(t *testing.T) {
	_, router := testEnv(t, nil, "")

	req := httptest.NewRequest(http.MethodGet, "/search", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusBadRequest {
		t.Errorf("search no query = %d, want 400", w.Code)
	}
}

func TestCategoriesEndpoint(t *testing.T) {
	_, router := testEnv(t, seedFiles, "")

	req := httptest.NewRequest(http.MethodGet, "/categories", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("categories = %d", w.Code)
	}
	var resp CategoriesResponse
	_ = json.Unmarshal(w.Body.Bytes(), &resp)
	if len(resp.Categories) != 2 {
		t.Fatalf("categories = %+v, want 2", resp.Categories)
	}
	if resp.Categories[0].Name != "Desserts" || resp.Categories[0].Count != 1 {
		t.Errorf("first category = %+v", resp.Categories[0])
	}
}

func TestReindexEndpoint(t *testing.T) {
	var notified int
	_, router, store := testEnvFull(t, seedFiles, false, "", nil, func(n int) { notified = n })

	// Add a recipe after the seed sync, then reindex through the API.
	p := filepath.Join(store.Root(), "Recipes", "new_dish.md")
	if err := os.WriteFile(p, []byte("# New Dish\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	req := httptest.NewRequest(http.MethodPost, "/reindex", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("reindex = %d, body = %s", w.Code, w.Body.String())
	}
	var resp ReindexResponse
	_ = json.Unmarshal(w.Body.Bytes(), &resp)
	if resp.Recipes != 3 {
		t.Errorf("recipes = %d, want 3", resp.Recipes)
	}
	if notified != 3 {
		t.Errorf("notify called with %d, want 3", notified)
	}

	// The new recipe is now listable.
	req = httptest.NewRequest(http.MethodGet, "/recipes?category=Uncategorized", nil)
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	var list struct {
		Total int `json:"total"`
	}
	_ = json.Unmarshal(w.Body.Bytes(), &list)
	if list.Total != 1 {
		t.Errorf("uncategorized total = %d, want 1", list.Total)
	}

	// And the artifact on disk was replaced.
	data, err := store.Read("Recipes/Recipe_Index.json")
	if err != nil {
		t.Fatalf("artifact: %v", err)
	}
	if !strings.Contains(string(data), "new_dish.md") {
		t.Errorf("artifact missing new recipe:\n%s", data)
	}
}

func TestAuthMiddleware_ValidToken(t *testing.T) {
	_, router := testEnv(t, seedFiles, "secret123")

	req := httptest.NewRequest(http.MethodGet, "/recipes", nil)
	req.Header.Set("Authorization", "Bearer secret123")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Errorf("authed list = %d, want 200", w.Code)
	}
}

func TestAuthMiddleware_MissingToken(t *testing.T) {
	_, router := testEnv(t, seedFiles, "secret123")

	req := httptest.NewRequest(http.MethodGet, "/recipes", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusUnauthorized {
		t.Errorf("unauthed = %d, want 401", w.Code)
	}
}

func TestAuthMiddleware_WrongToken(t *testing.T) {
	_, router := testEnv(t, seedFiles, "secret123")

	req := httptest.NewRequest(http.MethodGet, "/recipes", nil)
	req.Header.Set("Authorization", "Bearer wrong")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusUnauthorized {
		t.Errorf("wrong token = %d, want 401", w.Code)
	}
}

func TestAuthMiddleware_Disabled(t *testing.T) {
	_, router := testEnv(t, nil, "")

	req := httptest.NewRequest(http.MethodGet, "/recipes", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Errorf("no auth = %d, want 200", w.Code)
	}
}

// SSE endpoint auth tests.

// sseStub writes headers and blocks until the request context is done.
var sseStub = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/event-stream")
	w.WriteHeader(http.StatusOK)
	if f, ok := w.(http.Flusher); ok {
		f.Flush()
	}
	<-r.Context().Done()
})

func TestSSEEvents_AuthProtected(t *testing.T) {
	_, router, _ := testEnvFull(t, nil, true, "secret", sseStub, nil)

	req := httptest.NewRequest(http.MethodGet, "/events", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusUnauthorized {
		t.Errorf("SSE no auth = %d, want 401", w.Code)
	}
}

func TestSSEEvents_ValidToken(t *testing.T) {
	_, router, _ := testEnvFull(t, nil, true, "tok", sseStub, nil)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	req := httptest.NewRequest(http.MethodGet, "/events", nil).WithContext(ctx)
	req.Header.Set("Authorization", "Bearer tok")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code == http.StatusUnauthorized {
		t.Error("SSE with valid token should not 401")
	}
}
