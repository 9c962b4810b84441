// Package mcpserver provides an MCP (Model Context Protocol) server
// that exposes larder recipe tools for LLM integration via stdio transport.
package mcpserver

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/arneko/larder/internal/catalog"
	"github.com/arneko/larder/internal/index"
	"github.com/arneko/larder/internal/storage"
)

// Server wraps the MCP server with larder tools.
type Server struct {
	mcp   *server.MCPServer
	store storage.Provider
	db    catalog.RecipeIndex
}

// New creates a new MCP server with all larder tools registered.
func New(store storage.Provider, db catalog.RecipeIndex) *Server {
	s := &Server{store: store, db: db}

	s.mcp = server.NewMCPServer(
		"larder",
		"1.0.0",
		server.WithToolCapabilities(false),
		server.WithResourceCapabilities(false, false),
	)

	s.mcp.AddTool(mcp.NewTool("search_recipes",
		mcp.WithDescription("Full-text search through recipe titles, bodies and tags."),
		mcp.WithString("query", mcp.Required(), mcp.Description("Search query string")),
	), s.searchRecipes)

	s.mcp.AddTool(mcp.NewTool("read_recipe",
		mcp.WithDescription("Read the full Markdown content of a recipe."),
		mcp.WithString("path", mcp.Required(), mcp.Description("Relative path to the recipe (e.g. Recipes/carbonara.md)")),
	), s.readRecipe)

	s.mcp.AddTool(mcp.NewTool("list_recipes",
		mcp.WithDescription("List all indexed recipes, optionally filtered by category. "+
			"Recipes follow the format described by the larder://recipe-format resource."),
		mcp.WithString("category", mcp.Description("Optional category to filter by (empty for all)")),
	), s.listRecipes)

	s.mcp.AddTool(mcp.NewTool("get_ingredients",
		mcp.WithDescription("Extract the ingredient list from a recipe's Ingredients section, one item per line."),
		mcp.WithString("path", mcp.Required(), mcp.Description("Relative path to the recipe")),
	), s.getIngredients)

	// Resource: recipe format contract.
	s.mcp.AddResource(
		mcp.NewResource("larder://recipe-format", "Recipe Format",
			mcp.WithResourceDescription("Canonical Markdown recipe format that vault files follow."),
			mcp.WithMIMEType("text/markdown"),
		),
		s.readRecipeFormatResource,
	)

	return s
}

// ServeStdio starts the MCP server on stdin/stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcp)
}

// MCPServer returns the underlying server for testing.
func (s *Server) MCPServer() *server.MCPServer {
	return s.mcp
}

func (s *Server) searchRecipes(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	query, err := req.RequireString("query")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	results, err := s.db.Search(query, 20)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if len(results) == 0 {
		return mcp.NewToolResultText("no recipes found"), nil
	}
	out, _ := json.MarshalIndent(results, "", "  ")
	return mcp.NewToolResultText(string(out)), nil
}

func (s *Server) readRecipe(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path, err := req.RequireString("path")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	data, err := s.store.Read(path)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("not found: %s", path)), nil
	}
	return mcp.NewToolResultText(string(data)), nil
}

func (s *Server) listRecipes(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	category := ""
	if c, err := req.RequireString("category"); err == nil {
		category = c
	}

	recipes, _, err := s.db.ListRecipes(500, 0, category, "")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if len(recipes) == 0 {
		return mcp.NewToolResultText("no recipes found"), nil
	}

	var lines []string
	for _, r := range recipes {
		lines = append(lines, fmt.Sprintf("%s\t%s\t%s", r.Path, r.Title, r.Category))
	}
	return mcp.NewToolResultText(strings.Join(lines, "\n")), nil
}

func (s *Server) getIngredients(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path, err := req.RequireString("path")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	data, err := s.store.Read(path)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("not found: %s", path)), nil
	}

	rec := index.NewRecord(path, data)
	if len(rec.Ingredients) == 0 {
		return mcp.NewToolResultText("no ingredients section found"), nil
	}
	return mcp.NewToolResultText(strings.Join(rec.Ingredients, "\n")), nil
}

func (s *Server) readRecipeFormatResource(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      "larder://recipe-format",
			MIMEType: "text/markdown",
			Text:     RecipeFormatContract,
		},
	}, nil
}
