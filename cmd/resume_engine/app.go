package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/jonathan/resume-markup/internal/config"
	"github.com/jonathan/resume-markup/internal/db"
	"github.com/jonathan/resume-markup/internal/fetch"
	"github.com/jonathan/resume-markup/internal/jobanalysis"
	"github.com/jonathan/resume-markup/internal/llm"
	"github.com/jonathan/resume-markup/internal/logger"
	"github.com/jonathan/resume-markup/internal/normalize"
	"github.com/jonathan/resume-markup/internal/pipeline"
	"github.com/jonathan/resume-markup/internal/rendering"
	"github.com/jonathan/resume-markup/internal/schemas"
	"github.com/jonathan/resume-markup/internal/scoring"
	"github.com/jonathan/resume-markup/internal/templates"
	"github.com/jonathan/resume-markup/internal/types"
)

// app holds the components wired from configuration. Optional backends
// (AI client, Postgres, Redis) are nil when not configured.
type app struct {
	cfg *config.Config
	log logger.Logger
	zl  *zap.Logger

	client   llm.Client
	database *db.DB
	rdb      *redis.Client

	resolver  *templates.Resolver
	renderer  *rendering.Renderer
	extractor *jobanalysis.Extractor
	engine    *scoring.Engine
	svc       pipeline.Services
}

// newApp connects the configured backends and builds the engine services
func newApp(ctx context.Context, cfg *config.Config) (a *app, err error) {
	format := cfg.Logging.Format
	if format == "text" {
		format = "console"
	}
	zl, err := logger.New(cfg.Logging.Level, format)
	if err != nil {
		return nil, fmt.Errorf("failed to build logger: %w", err)
	}
	a = &app{cfg: cfg, zl: zl, log: logger.NewZapAdapter(zl)}
	defer func() {
		if err != nil {
			a.Close()
		}
	}()

	if cfg.LLM.APIKey != "" {
		a.client, err = llm.NewClient(ctx, cfg.ModelConfig(), cfg.LLM.APIKey, a.log)
		if err != nil {
			return nil, fmt.Errorf("failed to create AI client: %w", err)
		}
	} else {
		a.log.Debug("no AI key configured, using heuristic analysis and scoring", nil)
	}

	var stores templates.ChainStore
	if cfg.Templates.Dir != "" {
		stores = append(stores, templates.DirStore{Dir: cfg.Templates.Dir})
	}
	var archive pipeline.Archive
	if cfg.Database.URL != "" {
		a.database, err = db.Connect(ctx, cfg.Database.URL)
		if err != nil {
			return nil, err
		}
		if err = a.database.EnsureSchema(ctx); err != nil {
			return nil, err
		}
		stores = append(stores, a.database.Templates())
		archive = a.database
	}
	stores = append(stores, templates.EmbeddedStore{})

	var cache templates.Cache = templates.NewMemoryCache()
	if cfg.Redis.URL != "" {
		opts, perr := redis.ParseURL(cfg.Redis.URL)
		if perr != nil {
			return nil, fmt.Errorf("failed to parse redis url: %w", perr)
		}
		opts.DialTimeout = 5 * time.Second
		a.rdb = redis.NewClient(opts)
		cache = templates.NewRedisCache(a.rdb, cfg.Redis.KeyPrefix)
	}

	a.resolver = templates.NewResolver(stores,
		templates.WithCache(cache),
		templates.WithLogger(a.log),
		templates.WithDefaultID(cfg.Templates.DefaultID),
	)
	if err = a.resolver.Init(ctx); err != nil {
		return nil, fmt.Errorf("failed to initialize template cache: %w", err)
	}

	var fetcher jobanalysis.TextFetcher = fetch.NewClient(cfg.FetchOptions(), a.log)
	if a.rdb != nil {
		fetcher = fetch.NewCachedFetcher(fetcher, a.rdb, cfg.Fetch.CacheTTL, a.log)
	}

	a.renderer = rendering.NewRenderer(a.resolver, a.log)
	a.extractor = jobanalysis.NewExtractor(a.client, fetcher, a.log)
	a.engine = scoring.NewEngine(a.client, scoring.Options{
		Threshold: cfg.Scoring.QualityThreshold,
		Weights:   cfg.Scoring.Weights,
		Logger:    a.log,
	})
	a.svc = pipeline.NewServices(a.renderer, a.extractor, a.engine, archive, a.log)
	return a, nil
}

// Close releases backend connections
func (a *app) Close() {
	if a.client != nil {
		if err := a.client.Close(); err != nil {
			a.log.WithError(err).Warn("failed to close AI client", nil)
		}
	}
	if a.rdb != nil {
		if err := a.rdb.Close(); err != nil {
			a.log.WithError(err).Warn("failed to close redis client", nil)
		}
	}
	if a.database != nil {
		a.database.Close()
	}
	_ = a.zl.Sync()
}

// loadResume reads a resume document, checks it against the resume schema
// and normalizes it
func loadResume(path string) (*types.ResumeRecord, error) {
	if path == "" {
		return nil, fmt.Errorf("a resume file is required")
	}
	content, err := readInput(path)
	if err != nil {
		return nil, &normalize.LoadError{Message: fmt.Sprintf("failed to read file %s", path), Cause: err}
	}
	if err := schemas.ValidateResume(content); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return normalize.JSON(content)
}

// readInput reads path, or stdin when path is "-"
func readInput(path string) ([]byte, error) {
	if path == "-" {
		return io.ReadAll(os.Stdin)
	}
	return os.ReadFile(path)
}

// jobFlags select a job posting from a file, literal text or a URL
type jobFlags struct {
	file string
	text string
	url  string
}

func (j jobFlags) empty() bool {
	return j.file == "" && strings.TrimSpace(j.text) == "" && j.url == ""
}

// jobText returns literal or file text. A URL is left to the caller since
// fetching it is part of the analysis step.
func (j jobFlags) jobText() (string, error) {
	switch {
	case strings.TrimSpace(j.text) != "":
		return j.text, nil
	case j.file != "":
		content, err := readInput(j.file)
		if err != nil {
			return "", fmt.Errorf("failed to read job file: %w", err)
		}
		return string(content), nil
	default:
		return "", nil
	}
}

// writeJSON writes v as indented JSON
func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// writeOutput writes content to path, or to w when path is empty
func writeOutput(w io.Writer, path, content string) error {
	if path == "" {
		_, err := io.WriteString(w, content)
		return err
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return fmt.Errorf("failed to write output file: %w", err)
	}
	return nil
}
