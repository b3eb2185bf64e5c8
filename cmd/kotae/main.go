// Package main is the kotae CLI entry point.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/kotae-dev/kotae/internal/cli"
	"github.com/kotae-dev/kotae/internal/config"
	"github.com/kotae-dev/kotae/internal/indexer"
	"github.com/kotae-dev/kotae/internal/models"
	"github.com/kotae-dev/kotae/internal/registry"
	"github.com/kotae-dev/kotae/internal/search"
	"github.com/kotae-dev/kotae/internal/server"
	"github.com/kotae-dev/kotae/internal/watcher"
	"github.com/kotae-dev/kotae/pkg/utils"
)

var version = "dev"

const defaultConfigPath = "/usr/local/etc/kotae/config.yaml"

// loadConfig loads config from path. When path is the default, it first looks
// for config.yaml in the current directory (for development); if that exists
// it is used instead. Returns the config and the path actually loaded.
func loadConfig(path string) (*config.Config, string, error) {
	if path == defaultConfigPath {
		if cwd, cwdErr := os.Getwd(); cwdErr == nil {
			fallback := filepath.Join(cwd, "config.yaml")
			if _, statErr := os.Stat(fallback); statErr == nil {
				cfg, loadErr := config.Load(fallback)
				if loadErr != nil {
					return nil, "", loadErr
				}
				return cfg, fallback, nil
			}
		}
	}
	cfg, err := config.Load(path)
	if err != nil {
		return nil, "", err
	}
	return cfg, path, nil
}

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}
	command := os.Args[1]
	switch command {
	case "server":
		runServer()
	case "search":
		runSearch()
	case "status":
		runStatus()
	case "version", "--version", "-v":
		fmt.Printf("kotae version %s\n", version)
	case "help", "--help", "-h":
		printUsage()
	default:
		fmt.Printf("Unknown command: %s\n", command)
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Print(`kotae - tenant knowledge retrieval service

Usage:
  kotae server [-config path] [-debug]        start the HTTP API server
  kotae search [flags] <query>                query a tenant's documents directly
  kotae status [-config path]                 show per-tenant index sizes
  kotae version                               print version

Search flags:
  -config path    config file path
  -tenant id      tenant to query (required)
  -limit n        number of passages to return
  -output fmt     text, compact, or json
`)
}

// buildAllIndexes builds every configured tenant's index. Any failure is
// fatal: index construction is a hard startup dependency, and a partial
// registry would silently serve wrong "not found" answers.
func buildAllIndexes(cfg *config.Config, builder *indexer.Builder, logger *zap.Logger) *registry.Registry {
	reg := registry.New()
	for _, tenant := range cfg.Tenants {
		index, err := builder.BuildIndex(tenant.ID, tenant.DocumentsPath)
		if err != nil {
			logger.Fatal("index build failed",
				zap.String("tenant", tenant.ID),
				zap.String("path", tenant.DocumentsPath),
				zap.Error(err),
			)
		}
		reg.Set(index)
		logger.Info("tenant index built",
			zap.String("tenant", tenant.ID),
			zap.Int("documents", index.DocCount()),
			zap.Int("chunks", index.Len()),
		)
	}
	return reg
}

func runServer() {
	fs := flag.NewFlagSet("server", flag.ExitOnError)
	configPath := fs.String("config", defaultConfigPath, "config file path")
	debug := fs.Bool("debug", false, "enable debug logging (file events, per-query scoring)")
	_ = fs.Parse(os.Args[2:])

	cfg, resolvedConfigPath, err := loadConfig(*configPath)
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}
	debugMode := cfg.Debug || *debug
	logger, err := utils.NewLogger(debugMode)
	if err != nil {
		fmt.Printf("Failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("config loaded",
		zap.String("config_path", resolvedConfigPath),
		zap.Int("tenants", len(cfg.Tenants)),
		zap.Bool("debug", debugMode),
	)

	builderOpts := []indexer.BuilderOption{}
	engineOpts := []search.EngineOption{}
	if debugMode {
		builderOpts = append(builderOpts, indexer.WithLogger(logger))
		engineOpts = append(engineOpts, search.WithLogger(logger))
	}
	builder := indexer.NewBuilder(cfg.Search.MaxChunkChars, builderOpts...)
	reg := buildAllIndexes(cfg, builder, logger)
	engine := search.NewEngine(&cfg.Ranking, engineOpts...)

	watchCtx, watchCancel := context.WithCancel(context.Background())
	defer watchCancel()
	if cfg.Watch.Enabled {
		watchOpts := []watcher.WatcherOption{
			watcher.WithDebounce(time.Duration(cfg.Watch.DebounceMs) * time.Millisecond),
		}
		if debugMode {
			watchOpts = append(watchOpts, watcher.WithLogger(logger))
		}
		watchSvc := watcher.NewWatcher(cfg.TenantDirs(), func(tenantID string) {
			dir := cfg.TenantDirs()[tenantID]
			index, buildErr := builder.BuildIndex(tenantID, dir)
			if buildErr != nil {
				logger.Warn("watch rebuild failed", zap.String("tenant", tenantID), zap.Error(buildErr))
				return
			}
			reg.Set(index)
			logger.Info("tenant index rebuilt",
				zap.String("tenant", tenantID),
				zap.Int("chunks", index.Len()),
			)
		}, watchOpts...)
		if err := watchSvc.Start(watchCtx); err != nil {
			logger.Fatal("failed to start watcher", zap.Error(err))
		}
		defer watchSvc.Stop()
	}

	srv := server.NewServer(engine, reg, builder, cfg, logger)
	go func() {
		if err := srv.Start(); err != nil {
			logger.Fatal("server failed", zap.Error(err))
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	logger.Info("shutting down")
	watchCancel()
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_ = srv.Stop(ctx)
}

// buildSearchQuery joins all positional args with spaces so multi-word
// queries work the same with or without shell quoting.
func buildSearchQuery(args []string) string {
	return strings.TrimSpace(strings.Join(args, " "))
}

// searchArgsReorder moves any flags (and their values) that appear after the
// query to the front of the slice so that flag.Parse() sees them. Go's flag
// package stops at the first non-flag argument.
func searchArgsReorder(args []string) []string {
	for i, a := range args {
		if len(a) > 0 && a[0] == '-' {
			if i == 0 {
				return args
			}
			reordered := make([]string, 0, len(args))
			reordered = append(reordered, args[i:]...)
			reordered = append(reordered, args[:i]...)
			return reordered
		}
	}
	return args
}

func runSearch() {
	fs := flag.NewFlagSet("search", flag.ExitOnError)
	configPath := fs.String("config", defaultConfigPath, "config file path")
	tenantID := fs.String("tenant", "", "tenant to query (required)")
	limit := fs.Int("limit", 0, "number of passages to return (0 = config default)")
	outputFormat := fs.String("output", "text", "output format: text, compact, or json")
	_ = fs.Parse(searchArgsReorder(os.Args[2:]))

	queryStr := buildSearchQuery(fs.Args())
	if *tenantID == "" || queryStr == "" {
		fmt.Fprintln(os.Stderr, "Usage: kotae search -tenant <id> [flags] <query>")
		fs.PrintDefaults()
		os.Exit(1)
	}
	format, err := cli.ParseFormat(*outputFormat)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	cfg, _, err := loadConfig(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}
	dir, ok := cfg.TenantDirs()[*tenantID]
	if !ok {
		fmt.Fprintf(os.Stderr, "Unknown tenant %q\n", *tenantID)
		os.Exit(1)
	}

	builder := indexer.NewBuilder(cfg.Search.MaxChunkChars)
	index, err := builder.BuildIndex(*tenantID, dir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Index build failed: %v\n", err)
		os.Exit(1)
	}

	topK := *limit
	if topK <= 0 {
		topK = cfg.Search.DefaultTopK
	}
	engine := search.NewEngine(&cfg.Ranking)
	response := engine.Search(index, &models.SearchQuery{Query: queryStr, TopK: topK})
	if err := cli.WriteSearchResults(os.Stdout, response, format); err != nil {
		fmt.Fprintf(os.Stderr, "Output failed: %v\n", err)
		os.Exit(1)
	}
}

func runStatus() {
	fs := flag.NewFlagSet("status", flag.ExitOnError)
	configPath := fs.String("config", defaultConfigPath, "config file path")
	_ = fs.Parse(os.Args[2:])

	cfg, resolvedConfigPath, err := loadConfig(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Config: %s\n", resolvedConfigPath)

	builder := indexer.NewBuilder(cfg.Search.MaxChunkChars)
	for _, tenant := range cfg.Tenants {
		index, err := builder.BuildIndex(tenant.ID, tenant.DocumentsPath)
		if err != nil {
			fmt.Printf("  %-20s error: %v\n", tenant.ID, err)
			continue
		}
		fmt.Printf("  %-20s %d documents, %d chunks (%s)\n",
			tenant.ID, index.DocCount(), index.Len(), tenant.DocumentsPath)
	}
}
