package app

import (
	"fmt"
	"net/http"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/uptrace/opentelemetry-go-extra/otelsql"
	"github.com/uptrace/opentelemetry-go-extra/otelsqlx"
	semconv "go.opentelemetry.io/otel/semconv/v1.21.0"

	"github.com/courtdata/atp-proxy/external/atptour"
	"github.com/courtdata/atp-proxy/internal/config"
	"github.com/courtdata/atp-proxy/internal/domain/snapshot"
	"github.com/courtdata/atp-proxy/internal/domain/tournament"
	filerepo "github.com/courtdata/atp-proxy/internal/infrastructure/repository/file"
	"github.com/courtdata/atp-proxy/internal/infrastructure/repository/memory"
	"github.com/courtdata/atp-proxy/internal/infrastructure/repository/postgres"
	"github.com/courtdata/atp-proxy/internal/interfaces/httpapi"
	"github.com/courtdata/atp-proxy/internal/platform/logging"
	"github.com/courtdata/atp-proxy/internal/platform/resilience"
	"github.com/courtdata/atp-proxy/internal/usecase"
)

// Backends bundles the registry store and snapshot archive selected by
// REGISTRY_BACKEND. Close releases whatever the backend holds open.
type Backends struct {
	Store   tournament.Store
	Archive snapshot.Archive
}

func (b *Backends) Close() error {
	if b == nil || b.Store == nil {
		return nil
	}
	return b.Store.Close()
}

func OpenBackends(cfg config.Config) (*Backends, error) {
	switch cfg.RegistryBackend {
	case config.RegistryBackendPostgres:
		db, err := openPostgres(cfg)
		if err != nil {
			return nil, err
		}
		return &Backends{
			Store:   postgres.NewTournamentStore(db),
			Archive: postgres.NewSnapshotArchive(db),
		}, nil
	case config.RegistryBackendMemory:
		return &Backends{
			Store:   memory.NewTournamentStore(nil),
			Archive: memory.NewSnapshotArchive(),
		}, nil
	default:
		store, err := filerepo.NewRegistryStore(cfg.RegistryFilePath)
		if err != nil {
			return nil, fmt.Errorf("open registry file store: %w", err)
		}
		return &Backends{
			Store:   store,
			Archive: filerepo.NewSnapshotArchive(cfg.SnapshotDir),
		}, nil
	}
}

func openPostgres(cfg config.Config) (*sqlx.DB, error) {
	dsn := normalizeDBURL(cfg.DBURL, cfg.DBDisablePreparedBinary)

	db, err := otelsqlx.Open("postgres", dsn,
		otelsql.WithAttributes(semconv.DBSystemPostgreSQL),
		otelsql.WithDBName(dbNameFromURL(dsn)),
		otelsql.WithQueryFormatter(formatDBQueryForTrace),
	)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}

	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(30 * time.Minute)

	return db, nil
}

func NewATPClient(cfg config.Config, logger *logging.Logger) *atptour.Client {
	return atptour.NewClient(atptour.ClientConfig{
		BaseURL:   cfg.ATPBaseURL,
		UserAgent: cfg.ATPUserAgent,
		Timeout:   cfg.ATPTimeout,
		Logger:    logger,
		CircuitBreaker: resilience.CircuitBreakerConfig{
			Enabled:          cfg.ATPCircuitEnabled,
			FailureThreshold: cfg.ATPCircuitFailureCount,
			OpenTimeout:      cfg.ATPCircuitOpenTimeout,
			HalfOpenMaxReq:   cfg.ATPCircuitHalfOpenMaxReq,
		},
	})
}

// NewRegistryRefresher wires the calendar refresh flow for CLI use. The
// returned close func releases the selected backend.
func NewRegistryRefresher(cfg config.Config, logger *logging.Logger) (*usecase.RegistryRefreshService, func() error, error) {
	backends, err := OpenBackends(cfg)
	if err != nil {
		return nil, nil, err
	}

	client := NewATPClient(cfg, logger)
	svc := usecase.NewRegistryRefreshService(client, backends.Store, backends.Archive, logger)

	return svc, backends.Close, nil
}

func NewHTTPServer(cfg config.Config, logger *logging.Logger) (*http.Server, func() error, error) {
	backends, err := OpenBackends(cfg)
	if err != nil {
		return nil, nil, err
	}

	client := NewATPClient(cfg, logger)

	tournamentSvc := usecase.NewTournamentService(backends.Store)
	matchSvc := usecase.NewMatchService(backends.Store, client, cfg.MatchWorkerPoolSize, logger)
	h2hSvc := usecase.NewH2HService(client)

	handler := httpapi.NewHandler(tournamentSvc, matchSvc, h2hSvc, logger)
	router := httpapi.NewRouter(handler, logger, cfg.SwaggerEnabled, cfg.CORSAllowedOrigins)

	server := &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}

	if server.Addr == "" {
		_ = backends.Close()
		return nil, nil, fmt.Errorf("http server addr cannot be empty")
	}

	return server, backends.Close, nil
}
