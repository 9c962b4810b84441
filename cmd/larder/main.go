package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	_ "github.com/joho/godotenv/autoload"
	"github.com/urfave/cli/v3"

	"github.com/arneko/larder/internal"
	"github.com/arneko/larder/internal/catalog"
	"github.com/arneko/larder/internal/index"
	"github.com/arneko/larder/internal/logging"
	"github.com/arneko/larder/internal/mcpserver"
	"github.com/arneko/larder/internal/storage"
	pkgconfig "github.com/arneko/larder/pkg/config"
)

func loadConfig(cmd *cli.Command) (*internal.Config, error) {
	configPath := cmd.String("config")

	cfg := internal.NewDefaultConfig()
	err := pkgconfig.Load(configPath, cfg)
	if err == nil {
		return cfg, nil
	}
	// A missing file at the default location is fine: run on defaults.
	if errors.Is(err, os.ErrNotExist) && !cmd.IsSet("config") {
		return cfg, nil
	}
	return nil, fmt.Errorf("failed to parse config: %w", err)
}

// runIndex is the one-shot build: scan the vault, write the artifact, and
// sync the search catalog. The vault path may be overridden by a positional
// argument.
func runIndex(ctx context.Context, cmd *cli.Command) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if dir := cmd.Args().First(); dir != "" {
		cfg.Vault.Path = dir
	}

	logger := logging.Setup(os.Stderr, cfg.App.LogLevel, cfg.App.LogFile)
	slog.SetDefault(logger)

	store, err := storage.NewFS(cfg.Vault.Path)
	if err != nil {
		return fmt.Errorf("init storage: %w", err)
	}

	b := index.New(store, index.Config{
		ScanDir:   cfg.Vault.RecipesDir,
		IndexFile: cfg.Index.File,
		Workers:   cfg.Index.Workers,
	}, logger)

	n, err := b.Run(ctx)
	if err != nil {
		return err
	}

	// The artifact is the primary output; the catalog is best effort.
	if db, dbErr := catalog.Open(cfg.Catalog.Path); dbErr != nil {
		logger.Warn("catalog unavailable", slog.String("error", dbErr.Error()))
	} else {
		defer db.Close()
		if syncErr := catalog.Sync(db, store, b, logger); syncErr != nil {
			logger.Warn("catalog sync failed", slog.String("error", syncErr.Error()))
		}
	}

	fmt.Fprintf(cmd.Writer, "indexed %d recipes into %s\n", n, cfg.Index.File)
	return nil
}

func runServe(ctx context.Context, cmd *cli.Command) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	if err := internal.Run(ctx, internal.WithConfig(cfg)); err != nil {
		return fmt.Errorf("app run error: %w", err)
	}
	return nil
}

func runSearch(ctx context.Context, cmd *cli.Command) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	query := strings.TrimSpace(strings.Join(cmd.Args().Slice(), " "))
	if query == "" {
		return fmt.Errorf("usage: larder search <query>")
	}

	db, err := catalog.Open(cfg.Catalog.Path)
	if err != nil {
		return fmt.Errorf("init catalog: %w", err)
	}
	defer db.Close()

	results, err := db.Search(query, 20)
	if err != nil {
		return err
	}
	if len(results) == 0 {
		fmt.Fprintln(cmd.Writer, "no recipes found")
		return nil
	}
	for _, r := range results {
		fmt.Fprintf(cmd.Writer, "%s\t%s\n", r.Path, r.Title)
	}
	return nil
}

// runMCP serves recipe tools over stdio. Logs go to stderr because stdout
// carries the JSON-RPC stream.
func runMCP(ctx context.Context, cmd *cli.Command) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	logger := logging.Setup(os.Stderr, cfg.App.LogLevel, cfg.App.LogFile)
	slog.SetDefault(logger)

	store, err := storage.NewFS(cfg.Vault.Path)
	if err != nil {
		return fmt.Errorf("init storage: %w", err)
	}
	db, err := catalog.Open(cfg.Catalog.Path)
	if err != nil {
		return fmt.Errorf("init catalog: %w", err)
	}
	defer db.Close()

	b := index.New(store, index.Config{
		ScanDir:   cfg.Vault.RecipesDir,
		IndexFile: cfg.Index.File,
		Workers:   cfg.Index.Workers,
	}, logger)
	if err := catalog.Sync(db, store, b, logger); err != nil {
		logger.Warn("catalog sync failed", slog.String("error", err.Error()))
	}

	logger.Info("MCP server starting on stdio")
	return mcpserver.New(store, db).ServeStdio()
}

func main() {
	cmd := &cli.Command{
		Name:   "larder",
		Usage:  "Recipe vault indexer with full-text search, HTTP API, and MCP integration",
		Action: runIndex,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "config",
				Aliases:     []string{"c"},
				Usage:       "Path to config file",
				DefaultText: "config/config.yaml",
				Value:       "config/config.yaml",
				Sources:     cli.EnvVars("LARDER_CONFIG_FILE"),
			},
		},
		Commands: []*cli.Command{
			{
				Name:      "index",
				Usage:     "Scan the vault and write the recipe index artifact",
				ArgsUsage: "[vault-dir]",
				Action:    runIndex,
			},
			{
				Name:   "serve",
				Usage:  "Run the HTTP API with live vault watching",
				Action: runServe,
			},
			{
				Name:      "search",
				Usage:     "Search indexed recipes from the command line",
				ArgsUsage: "<query>",
				Action:    runSearch,
			},
			{
				Name:   "mcp",
				Usage:  "Serve recipe tools over the Model Context Protocol on stdio",
				Action: runMCP,
			},
		},
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		slog.Error("application error", slog.String("error", err.Error()))
		os.Exit(1)
	}
}
