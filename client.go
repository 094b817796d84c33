// Package seriedex resolves Spanish free-text queries to unique BCRP
// statistical series and fetches their observations, without running the API
// server. The Client embeds the same resolution pipeline the server uses.
package seriedex

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/quipudata/seriedex/internal/db"
	dbFile "github.com/quipudata/seriedex/internal/db/file"
	dbRedis "github.com/quipudata/seriedex/internal/db/redis"
	domcat "github.com/quipudata/seriedex/internal/domain/catalog"
	catalogrepo "github.com/quipudata/seriedex/internal/repository/catalog"
	"github.com/quipudata/seriedex/internal/transport/bcrp"
	cataloguc "github.com/quipudata/seriedex/internal/usecase/catalog"
	resolveuc "github.com/quipudata/seriedex/internal/usecase/resolve"
	seriesuc "github.com/quipudata/seriedex/internal/usecase/series"
)

const defaultReadinessTimeout = 10 * time.Second

// Client is the seriedex SDK entry point.
type Client struct {
	store    db.Store
	manager  *cataloguc.Manager
	resolver *resolveuc.Service
	series   *seriesuc.Service
}

// New creates a seriedex Client. By default it caches the BCRP catalog in a
// file under the user cache directory and downloads it on first use; see the
// options for Redis-backed snapshots and offline operation.
func New(opts ...Option) (*Client, error) {
	cfg := &clientConfig{
		driver: "file",
		maxAge: 7 * 24 * time.Hour,
		logger: zap.NewNop(),
	}
	for _, o := range opts {
		o(cfg)
	}

	// A fixed record set needs no store and no upstream.
	if len(cfg.records) > 0 {
		return wireStatic(cfg)
	}

	store, err := createStore(cfg)
	if err != nil {
		return nil, err
	}

	client := bcrp.NewClient(&bcrp.Config{
		BaseURL:    cfg.baseURL,
		RequestGap: cfg.requestGap,
		UserAgent:  cfg.userAgent,
		Logger:     cfg.logger,
	})

	var fetcher cataloguc.Fetcher
	if !cfg.offline {
		fetcher = client
	}

	repo := catalogrepo.New(store)
	manager := cataloguc.NewManager(repo, fetcher, cfg.maxAge, cfg.logger)

	if err := manager.Load(context.Background()); err != nil {
		store.Close()
		return nil, fmt.Errorf("seriedex: load catalog: %w", err)
	}

	return &Client{
		store:    store,
		manager:  manager,
		resolver: resolveuc.New(manager),
		series:   seriesuc.New(client, manager),
	}, nil
}

func createStore(cfg *clientConfig) (db.Store, error) {
	switch cfg.driver {
	case "file":
		s, err := dbFile.NewStore(dbFile.DefaultPath(cfg.cacheDir))
		if err != nil {
			return nil, fmt.Errorf("seriedex: create file store: %w", err)
		}
		return s, nil
	case "redis":
		s, err := dbRedis.NewStore(dbRedis.Config{
			Addrs:    cfg.addrs,
			Password: cfg.password,
		})
		if err != nil {
			return nil, fmt.Errorf("seriedex: create redis store: %w", err)
		}
		if err := s.WaitForReady(context.Background(), defaultReadinessTimeout); err != nil {
			s.Close()
			return nil, fmt.Errorf("seriedex: redis not ready: %w", err)
		}
		return s, nil
	default:
		return nil, fmt.Errorf("seriedex: unknown driver %q", cfg.driver)
	}
}

// wireStatic builds a client over an in-memory catalog. Series data fetches
// still reach the upstream unless the client is offline.
func wireStatic(cfg *clientConfig) (*Client, error) {
	records := make([]domcat.Record, len(cfg.records))
	for i, r := range cfg.records {
		records[i] = r.toDomain()
	}

	manager := cataloguc.NewManager(staticRepo{records: records}, nil, cfg.maxAge, cfg.logger)
	if err := manager.Load(context.Background()); err != nil {
		return nil, fmt.Errorf("seriedex: build catalog: %w", err)
	}

	client := bcrp.NewClient(&bcrp.Config{
		BaseURL:    cfg.baseURL,
		RequestGap: cfg.requestGap,
		UserAgent:  cfg.userAgent,
		Logger:     cfg.logger,
	})

	return &Client{
		manager:  manager,
		resolver: resolveuc.New(manager),
		series:   seriesuc.New(client, manager),
	}, nil
}

// staticRepo serves a fixed record set as the catalog snapshot.
type staticRepo struct {
	records []domcat.Record
}

func (r staticRepo) Load(context.Context) (*domcat.Catalog, error) {
	return catalogrepo.Build(r.records, time.Now())
}

func (r staticRepo) Save(_ context.Context, records []domcat.Record, fetchedAt time.Time) (*domcat.Catalog, error) {
	return catalogrepo.Build(records, fetchedAt)
}

// Close releases all resources.
func (c *Client) Close() {
	if c.store != nil {
		c.store.Close()
	}
}

// Ping checks snapshot store connectivity. It is a no-op for clients built
// from a fixed record set.
func (c *Client) Ping(ctx context.Context) error {
	if c.store == nil {
		return nil
	}
	if err := c.store.Ping(ctx); err != nil {
		return fmt.Errorf("ping: %w", err)
	}
	return nil
}

// Refresh re-downloads the catalog from the upstream and atomically swaps it
// in. In-flight searches keep the snapshot they started with.
func (c *Client) Refresh(ctx context.Context) error {
	if err := c.manager.Refresh(ctx); err != nil {
		return fmt.Errorf("refresh: %w", err)
	}
	return nil
}

// Status reports the state of the loaded catalog.
func (c *Client) Status() CatalogStatus {
	st := c.manager.Status()
	return CatalogStatus{
		Loaded:      st.Loaded,
		RecordCount: st.RecordCount,
		IsStale:     st.IsStale,
		LoadedAt:    st.LoadedAt,
	}
}

// CatalogStatus is the state of the loaded catalog snapshot.
type CatalogStatus struct {
	Loaded      bool
	RecordCount int
	IsStale     bool
	LoadedAt    time.Time
}
