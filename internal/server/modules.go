package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"go.uber.org/fx"
	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"

	"github.com/hsn0918/docindex/internal/clients/embedding"
	"github.com/hsn0918/docindex/internal/config"
	"github.com/hsn0918/docindex/internal/indexer"
	"github.com/hsn0918/docindex/internal/lexical"
	"github.com/hsn0918/docindex/internal/middleware"
	"github.com/hsn0918/docindex/internal/querycache"
	"github.com/hsn0918/docindex/internal/queryengine"
	"github.com/hsn0918/docindex/internal/redisqcache"
	"github.com/hsn0918/docindex/internal/semantic"
	"github.com/hsn0918/docindex/internal/snapshot"
	"github.com/hsn0918/docindex/internal/store"
	"github.com/hsn0918/docindex/internal/transport"
	"github.com/hsn0918/docindex/internal/vectorindex"
	"github.com/hsn0918/docindex/pkg/logger"
)

// Module is the root fx module, the same group-of-modules shape the teacher
// assembles its RAG server from.
var Module = fx.Options(
	InfrastructureModule,
	SearchModule,
	HTTPServerModule,
	fx.Invoke(StartHTTPServer),
)

// InfrastructureModule provides configuration, storage, and the (optional)
// shared caches/backup client.
var InfrastructureModule = fx.Module("infrastructure",
	fx.Provide(
		NewAppConfig,
		NewAppLogger,
		NewStore,
		NewVectorIndex,
		NewQueryCache,
		NewRedisCache,
		NewSnapshotClient,
	),
)

// SearchModule provides the lexical/semantic/query engine stack and the
// indexing runner built on top of it.
var SearchModule = fx.Module("search",
	fx.Provide(
		NewLexicalIndex,
		NewEmbeddingClient,
		NewSemanticRuntime,
		NewQueryEngine,
		NewIndexerRunner,
		NewTransportService,
	),
)

// HTTPServerModule builds the connect mux and wraps it in an http.Server.
var HTTPServerModule = fx.Module("http_server",
	fx.Provide(
		NewHTTPHandler,
	),
)

// ================================
// Infrastructure constructors
// ================================

// NewAppConfig loads configuration the same way the teacher's NewAppConfig
// does, from the working directory plus environment overrides.
func NewAppConfig() (*config.Config, error) {
	cfg, err := config.LoadConfig(".")
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	return cfg, nil
}

// NewAppLogger initializes the process-wide slog logger.
func NewAppLogger() (*slog.Logger, error) {
	if err := logger.Init(); err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	return logger.Get(), nil
}

// NewStore opens the metadata/pgvector Postgres connection pool, standing
// in for the teacher's NewVectorDatabase.
func NewStore(cfg *config.Config) (*store.Store, error) {
	st, err := store.Open(context.Background(), cfg.Database.DSN())
	if err != nil {
		return nil, fmt.Errorf("failed to open store: %w", err)
	}
	return st, nil
}

// NewVectorIndex opens the pgvector-backed ANN index against the same pool
// the metadata store uses.
func NewVectorIndex(cfg *config.Config, st *store.Store) *vectorindex.Index {
	dim := cfg.Embedding.Dimensions
	if dim == 0 {
		dim = embedding.GetDefaultDimensions(cfg.Embedding.Model)
	}
	logger.Get().Info("opening vector index", "model", cfg.Embedding.Model, "dimensions", dim)
	return vectorindex.Open(st.Pool, dim)
}

// NewQueryCache builds the in-process LRU query cache, sized from config
// (spec 4.10's 480-capacity / 120s-TTL defaults, already applied by
// Config.Validate).
func NewQueryCache(cfg *config.Config) *querycache.Cache {
	return querycache.New(cfg.QueryCache.Capacity, time.Duration(cfg.QueryCache.TTLSecs)*time.Second)
}

// NewRedisCache connects the shared second-tier query cache. Redis is
// optional: an empty address means single-process deployments run without
// it, so this returns (nil, nil) rather than failing startup.
func NewRedisCache(cfg *config.Config) (*redisqcache.Client, error) {
	if cfg.Redis.Address == "" {
		return nil, nil
	}
	client, err := redisqcache.New(redisqcache.Options{
		Address:  cfg.Redis.Address,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
		TTL:      time.Duration(cfg.QueryCache.TTLSecs) * time.Second,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect redis: %w", err)
	}
	return client, nil
}

// NewSnapshotClient connects the MinIO client backing pre-reset layout
// snapshots and capture backups. Like Redis, it's optional: a blank
// endpoint disables backups rather than failing startup.
func NewSnapshotClient(cfg *config.Config) (*snapshot.Client, error) {
	if cfg.MinIO.Endpoint == "" {
		return nil, nil
	}
	client, err := snapshot.NewClient(context.Background(), snapshot.Config{
		Endpoint:        cfg.MinIO.Endpoint,
		AccessKeyID:     cfg.MinIO.AccessKeyID,
		SecretAccessKey: cfg.MinIO.SecretAccessKey,
		BucketName:      cfg.MinIO.BucketName,
		UseSSL:          cfg.MinIO.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect minio: %w", err)
	}
	return client, nil
}

// ================================
// Search-stack constructors
// ================================

// NewLexicalIndex builds the empty in-memory lexical index; IndexRoot
// populates it on the first indexing pass.
func NewLexicalIndex() *lexical.Index {
	return lexical.New()
}

// NewEmbeddingClient creates the remote embedding client, the Go stand-in
// for the original's local transformer session (see DESIGN.md).
func NewEmbeddingClient(cfg *config.Config) *embedding.Client {
	return embedding.NewClient(cfg.Embedding)
}

// NewSemanticRuntime wires the embedder and vector index into the batching/
// truncation/ANN-search runtime described in spec 4.9.
func NewSemanticRuntime(cfg *config.Config, st *store.Store, idx *vectorindex.Index, embedder *embedding.Client) *semantic.Runtime {
	return semantic.NewRuntime(st, idx, embedder, cfg.Embedding.Model, cfg.Semantic.Nprobes, cfg.Semantic.RefineFactor)
}

// NewQueryEngine wires lexical, semantic, and both cache tiers into the
// dispatcher behind every search command.
func NewQueryEngine(lx *lexical.Index, sem *semantic.Runtime, st *store.Store, cache *querycache.Cache, redis *redisqcache.Client) *queryengine.Engine {
	if redis == nil {
		return queryengine.New(lx, sem, st, cache, nil)
	}
	return queryengine.New(lx, sem, st, cache, redis)
}

// NewIndexerRunner wires the metadata store, lexical/semantic indexes, and
// both cache-invalidation tiers into the Runner that every indexing command
// drives.
func NewIndexerRunner(st *store.Store, lx *lexical.Index, sem *semantic.Runtime, cache *querycache.Cache, redis *redisqcache.Client) *indexer.Runner {
	r := &indexer.Runner{
		Store:    st,
		Lexical:  lx,
		Semantic: sem,
		Cache:    cache,
	}
	if redis != nil {
		r.Redis = redis
	}
	return r
}

// NewTransportService assembles the command-surface Service every connect
// handler is registered against.
func NewTransportService(st *store.Store, engine *queryengine.Engine, runner *indexer.Runner, snap *snapshot.Client) *transport.Service {
	return &transport.Service{
		Store:    st,
		Engine:   engine,
		Indexer:  runner,
		Snapshot: snap,
	}
}

// ================================
// HTTP server constructor
// ================================

// NewHTTPHandler registers every command handler on one mux, the Go
// analogue of the teacher's ragv1connect.NewRagServiceHandler registration,
// minus the generated service (see DESIGN.md).
func NewHTTPHandler(svc *transport.Service, cfg *config.Config) *http.Server {
	mux := transport.NewMux(svc, middleware.HTTPValidator())

	serverAddr := fmt.Sprintf("%s:%s", cfg.Server.Host, cfg.Server.Port)
	logger.Get().Info("http server configured", "address", serverAddr)

	return &http.Server{
		Addr:    serverAddr,
		Handler: h2c.NewHandler(mux, &http2.Server{}),
	}
}

// ================================
// Lifecycle
// ================================

// StartHTTPServer registers the http.Server's start/stop hooks with fx,
// unchanged from the teacher's own lifecycle wiring.
func StartHTTPServer(httpServer *http.Server, lifecycle fx.Lifecycle, shutdowner fx.Shutdowner) {
	lifecycle.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			logger.Get().Info("starting http server", "addr", httpServer.Addr)
			go func() {
				if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					logger.Get().Error("http server failed", "error", err)
					if shutdownErr := shutdowner.Shutdown(); shutdownErr != nil {
						logger.Get().Error("application shutdown failed", "error", shutdownErr)
					}
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			logger.Get().Info("stopping http server")
			return httpServer.Shutdown(ctx)
		},
	})
}
