// Package main is the careerchat CLI entry point.
package main

import (
	"bytes"
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/lmercier/careerchat/internal/chat"
	"github.com/lmercier/careerchat/internal/config"
	"github.com/lmercier/careerchat/internal/embedding"
	"github.com/lmercier/careerchat/internal/indexer"
	"github.com/lmercier/careerchat/internal/ingest"
	"github.com/lmercier/careerchat/internal/llm"
	"github.com/lmercier/careerchat/internal/server"
	"github.com/lmercier/careerchat/internal/storage"
	"github.com/lmercier/careerchat/internal/watcher"
	"github.com/lmercier/careerchat/pkg/utils"
)

var version = "dev"

const defaultConfigPath = "/usr/local/etc/careerchat/config.yaml"

// loadConfig loads config from path. When path is the default, it first looks
// for config.yaml in the current directory (for development); if that exists
// it is used. Returns the config and the path that was actually loaded.
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
	case "build":
		runBuild()
	case "serve":
		runServe()
	case "ask":
		runAsk()
	case "status":
		runStatus()
	case "version", "--version", "-v":
		fmt.Printf("careerchat version %s\n", version)
	case "help", "--help", "-h":
		printUsage()
	default:
		fmt.Printf("Unknown command: %s\n", command)
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Print(`Usage: careerchat <command> [flags]

Commands:
  build    Load the CV and network export, embed them and write the snapshot
  serve    Start the HTTP chat API
  ask      Answer a question from the local snapshot
  status   Query a running server for its status
  version  Print the version

Run 'careerchat <command> -h' for command flags.
`)
}

func newLogger(cfg *config.Config, debugFlag bool) *zap.Logger {
	logger, err := utils.NewLogger(cfg.Debug || debugFlag)
	if err != nil {
		fmt.Printf("Failed to create logger: %v\n", err)
		os.Exit(1)
	}
	return logger
}

func newEmbedder(cfg *config.Config) (embedding.Embedder, error) {
	return embedding.NewEmbedder(embedding.Options{
		Provider:   cfg.Embedding.Provider,
		ModelPath:  cfg.Embedding.ModelPath,
		BaseURL:    cfg.Embedding.BaseURL,
		Model:      cfg.Embedding.Model,
		Dimensions: cfg.Embedding.Dimensions,
		MaxTokens:  cfg.Embedding.MaxTokens,
		CacheSize:  cfg.Embedding.CacheSize,
	})
}

func newProvider(cfg *config.Config) (llm.Provider, error) {
	return llm.NewProvider(llm.FactoryOptions{
		Provider: cfg.LLM.Provider,
		APIKey:   cfg.LLM.APIKey,
		BaseURL:  cfg.LLM.BaseURL,
		Model:    cfg.LLM.Model,
		Timeout:  time.Duration(cfg.LLM.TimeoutSeconds) * time.Second,
	})
}

func runBuild() {
	fs := flag.NewFlagSet("build", flag.ExitOnError)
	configPath := fs.String("config", defaultConfigPath, "config file path")
	resumePath := fs.String("resume", "", "CV file path (overrides config)")
	exportDir := fs.String("export", "", "network export directory (overrides config)")
	debug := fs.Bool("debug", false, "enable debug logging")
	_ = fs.Parse(os.Args[2:])

	cfg, resolvedPath, err := loadConfig(*configPath)
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}
	logger := newLogger(cfg, *debug)
	defer logger.Sync()
	logger.Info("config loaded", zap.String("config_path", resolvedPath))

	if *resumePath != "" {
		cfg.Sources.ResumePath = *resumePath
	}
	if *exportDir != "" {
		cfg.Sources.ExportDir = *exportDir
	}
	if cfg.Sources.ResumePath == "" && cfg.Sources.ExportDir == "" {
		fmt.Println("Nothing to build: set sources in the config or pass -resume / -export")
		os.Exit(1)
	}

	embedder, err := newEmbedder(cfg)
	if err != nil {
		logger.Fatal("Failed to create embedder", zap.Error(err))
	}
	defer embedder.Close()

	store, err := storage.NewStore(cfg.Storage.SnapshotPath)
	if err != nil {
		logger.Fatal("Failed to open snapshot store", zap.Error(err))
	}
	defer store.Close()

	builder := indexer.NewBuilder(embedder, store, ingest.ChunkOptions{
		MaxChars: cfg.Chunking.MaxChars,
		MinChars: cfg.Chunking.MinChars,
	}, logger)

	res, err := builder.Build(context.Background(), indexer.Sources{
		ResumePath: cfg.Sources.ResumePath,
		ExportDir:  cfg.Sources.ExportDir,
	})
	if err != nil {
		logger.Fatal("Build failed", zap.Error(err))
	}
	fmt.Printf("Built %d chunks (%d resume, %d export) into %s\n",
		res.ChunkCount, res.ResumeChunk, res.ExportChunk, cfg.Storage.SnapshotPath)
}

func runServe() {
	fs := flag.NewFlagSet("serve", flag.ExitOnError)
	configPath := fs.String("config", defaultConfigPath, "config file path")
	debug := fs.Bool("debug", false, "enable debug logging")
	_ = fs.Parse(os.Args[2:])

	cfg, resolvedPath, err := loadConfig(*configPath)
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}
	logger := newLogger(cfg, *debug)
	defer logger.Sync()
	logger.Info("config loaded", zap.String("config_path", resolvedPath))

	embedder, err := newEmbedder(cfg)
	if err != nil {
		logger.Fatal("Failed to create embedder", zap.Error(err))
	}
	defer embedder.Close()

	provider, err := newProvider(cfg)
	if err != nil {
		logger.Fatal("Failed to create chat provider", zap.Error(err))
	}
	defer provider.Close()

	store, err := storage.NewStore(cfg.Storage.SnapshotPath)
	if err != nil {
		logger.Fatal("Failed to open snapshot store", zap.Error(err))
	}
	defer store.Close()

	srv := server.NewServer(nil, nil, "", cfg, logger)

	loadSnapshot := func() {
		idx, buildID, loadErr := indexer.LoadIndex(context.Background(), store)
		if loadErr != nil {
			logger.Warn("snapshot not loaded", zap.Error(loadErr))
			return
		}
		answerer := chat.NewAnswerer(embedder, idx, provider, cfg.Retrieval.TopK, logger)
		srv.SetAnswerer(answerer, idx, buildID)
		logger.Info("snapshot loaded",
			zap.String("build_id", buildID),
			zap.Int("chunks", idx.Size()))
	}
	loadSnapshot()

	watchCtx, watchCancel := context.WithCancel(context.Background())
	defer watchCancel()
	w := watcher.NewWatcher(cfg.Storage.SnapshotPath, loadSnapshot, logger)
	if err := w.Start(watchCtx); err != nil {
		logger.Warn("snapshot watcher not started", zap.Error(err))
	} else {
		defer w.Stop()
	}

	go func() {
		if err := srv.Start(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Server failed", zap.Error(err))
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	logger.Info("Shutting down...")
	watchCancel()
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_ = srv.Stop(ctx)
}

func runAsk() {
	fs := flag.NewFlagSet("ask", flag.ExitOnError)
	configPath := fs.String("config", defaultConfigPath, "config file path")
	debug := fs.Bool("debug", false, "enable debug logging")
	fs.Usage = func() {
		fmt.Fprintf(fs.Output(), "Usage: careerchat ask [flags] <question>\n\n")
		fs.PrintDefaults()
	}
	_ = fs.Parse(os.Args[2:])

	question := strings.TrimSpace(strings.Join(fs.Args(), " "))
	if question == "" {
		fs.Usage()
		os.Exit(1)
	}

	cfg, _, err := loadConfig(*configPath)
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}
	logger := newLogger(cfg, *debug)
	defer logger.Sync()

	embedder, err := newEmbedder(cfg)
	if err != nil {
		logger.Fatal("Failed to create embedder", zap.Error(err))
	}
	defer embedder.Close()

	provider, err := newProvider(cfg)
	if err != nil {
		logger.Fatal("Failed to create chat provider", zap.Error(err))
	}
	defer provider.Close()

	store, err := storage.NewStore(cfg.Storage.SnapshotPath)
	if err != nil {
		logger.Fatal("Failed to open snapshot store", zap.Error(err))
	}
	defer store.Close()

	idx, _, err := indexer.LoadIndex(context.Background(), store)
	if err != nil {
		fmt.Fprintf(os.Stderr, "No knowledge base yet (run 'careerchat build' first): %v\n", err)
		os.Exit(1)
	}

	answerer := chat.NewAnswerer(embedder, idx, provider, cfg.Retrieval.TopK, logger)
	answer, err := answerer.Answer(context.Background(), question)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Ask failed: %v\n", err)
		os.Exit(1)
	}
	fmt.Println(answer)
}

func runStatus() {
	fs := flag.NewFlagSet("status", flag.ExitOnError)
	serverURL := fs.String("server", "http://localhost:8080", "server URL")
	_ = fs.Parse(os.Args[2:])

	resp, err := http.Get(strings.TrimRight(*serverURL, "/") + "/api/v1/status")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Status request failed: %v\n", err)
		os.Exit(1)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to read response: %v\n", err)
		os.Exit(1)
	}
	var pretty bytes.Buffer
	if err := json.Indent(&pretty, body, "", "  "); err != nil {
		fmt.Println(string(body))
		return
	}
	fmt.Println(pretty.String())
}
