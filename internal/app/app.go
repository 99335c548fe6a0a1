package app

import (
	"context"
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"officegw/internal/domain"
	"officegw/internal/infra/catalog"
	"officegw/internal/infra/graph"
	"officegw/internal/infra/registry"
	"officegw/internal/infra/router"
	"officegw/internal/infra/storage"
	"officegw/internal/infra/telemetry"
	"officegw/internal/infra/transform"
	"officegw/internal/modules"
)

const version = "1.0.0"

// App builds and runs the gateway.
type App struct {
	logger *zap.Logger
}

func New(logger *zap.Logger) *App {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &App{logger: logger}
}

// ServeConfig carries command-line settings into Serve.
type ServeConfig struct {
	ConfigPath string
}

// runtime is the fully wired gateway.
type runtime struct {
	cfg         Config
	logger      *zap.Logger
	core        *telemetry.Core
	governor    *telemetry.MemoryGovernor
	registry    *registry.Registry
	catalog     *catalog.Catalog
	router      *router.Router
	transformer *transform.Transformer
	query       domain.ModuleDescriptor
	prometheus  *prometheus.Registry
	store       *storage.UserLogStore
}

// build wires the gateway in two phases: the observability core comes up
// with no collaborators, everything else is constructed against it, and
// the user-log store is attached last.
func (a *App) build(conf Config) (*runtime, error) {
	promRegistry := prometheus.NewRegistry()
	metrics := telemetry.NewPrometheusMetrics(promRegistry)

	var core *telemetry.Core
	governor := telemetry.NewMemoryGovernor(telemetry.MemoryGovernorOptions{
		OnEvent: func(event string, ratio float64) {
			if core == nil {
				return
			}
			switch event {
			case domain.EventEmergency:
				core.Error("memory emergency, non-critical logging suspended", domain.LogOptions{
					Category: "memory",
					Context:  map[string]any{"heapRatio": ratio},
				})
			case domain.EventMemoryWarning:
				core.Warn("memory usage high", domain.LogOptions{
					Category: "memory",
					Context:  map[string]any{"heapRatio": ratio},
				})
			}
		},
	})

	core = telemetry.NewCore(telemetry.CoreOptions{
		BufferSize: domain.DefaultLogBufferSize,
		Bus:        telemetry.NewBus(),
		Limiter:    telemetry.NewRateLimiter(domain.RateLimitThreshold, domain.RateLimitWindow),
		Governor:   governor,
		Filter:     telemetry.NewFilter(conf.Development(), conf.Silent),
		Sink: telemetry.NewSink(telemetry.SinkOptions{
			Path:        conf.LogPath,
			Development: conf.Development(),
			Silent:      conf.Silent,
		}),
		Metrics:     metrics,
		Version:     version,
		Development: conf.Development(),
	})

	reg := registry.New(registry.Options{
		Services: []string{"graph"},
		Observer: core,
	})

	client := graph.NewClient(graph.ClientOptions{
		BaseURL: conf.Upstream.BaseURL,
		Tokens:  staticTokenSource{token: conf.Upstream.Token},
		Logger:  a.logger.Named("graph"),
	})

	cat := catalog.New(reg, core)
	deps := modules.Deps{
		Client:      client,
		Catalog:     cat,
		Observer:    core,
		Metrics:     metrics,
		Development: conf.Development(),
	}
	for _, descriptor := range modules.All(deps) {
		if err := reg.Register(descriptor); err != nil {
			return nil, err
		}
	}

	var aliases map[string]domain.AliasEntry
	if conf.AliasPath != "" {
		table, err := LoadAliases(conf.AliasPath)
		if err != nil {
			return nil, err
		}
		aliases = table
	}

	rt := &runtime{
		cfg:      conf,
		logger:   a.logger,
		core:     core,
		governor: governor,
		registry: reg,
		catalog:  cat,
		router: router.New(reg, router.Options{
			Observer: core,
			Metrics:  metrics,
			Aliases:  aliases,
		}),
		transformer: transform.New(core),
		query:       modules.NewQuery(deps),
		prometheus:  promRegistry,
	}

	if conf.StorePath != "" {
		store, err := storage.OpenUserLogStore(conf.StorePath)
		if err != nil {
			return nil, fmt.Errorf("user log store: %w", err)
		}
		rt.store = store
		core.SetUserLogStore(store)
	}
	return rt, nil
}

// Serve wires the gateway and runs the stdio MCP server until ctx is done.
func (a *App) Serve(ctx context.Context, serveConf ServeConfig) error {
	conf, err := LoadConfig(serveConf.ConfigPath)
	if err != nil {
		return err
	}
	rt, err := a.build(conf)
	if err != nil {
		return err
	}
	defer rt.close()

	go rt.governor.Run(ctx)

	if conf.AliasPath != "" {
		err := WatchAliases(ctx, conf.AliasPath, a.logger, func(table map[string]domain.AliasEntry) {
			rt.router.SetAliases(table)
			rt.catalog.Refresh()
		})
		if err != nil {
			a.logger.Warn("alias watch unavailable", zap.Error(err))
		}
	}

	if conf.ListenAddress != "" {
		go func() {
			err := telemetry.StartHTTPServer(ctx, telemetry.HTTPServerOptions{
				Addr:     conf.ListenAddress,
				Registry: rt.prometheus,
				Core:     rt.core,
			}, a.logger.Named("observability"))
			if err != nil {
				a.logger.Warn("observability server stopped", zap.Error(err))
			}
		}()
	}

	rt.core.Info("gateway starting", domain.LogOptions{
		Category: "startup",
		Context: map[string]any{
			"env":   conf.Env,
			"tools": len(rt.catalog.Tools()),
		},
	})
	return rt.runMCP(ctx)
}

// Validate loads configuration and the alias table and materializes the
// catalog without serving. Broken aliases fail the command.
func (a *App) Validate(ctx context.Context, serveConf ServeConfig) error {
	conf, err := LoadConfig(serveConf.ConfigPath)
	if err != nil {
		return err
	}
	rt, err := a.build(conf)
	if err != nil {
		return err
	}
	defer rt.close()

	for _, descriptor := range rt.catalog.Tools() {
		if len(descriptor.Parameters) == 0 && descriptor.Method != domain.MethodGet && descriptor.Method != domain.MethodDelete {
			a.logger.Warn("tool has no parameters", zap.String("tool", descriptor.Name))
		}
		for _, name := range domain.Placeholders(descriptor.Endpoint) {
			schema, ok := descriptor.Parameters[name]
			if !ok || !schema.Required || descriptor.ParameterMapping[name] != domain.PlacePath {
				return fmt.Errorf("tool %q: endpoint placeholder :%s needs a required path parameter", descriptor.Name, name)
			}
		}
	}
	if conf.AliasPath != "" {
		table, err := LoadAliases(conf.AliasPath)
		if err != nil {
			return err
		}
		for name, entry := range table {
			module, ok := rt.registry.Get(entry.ModuleID)
			if !ok {
				return fmt.Errorf("alias %q: unknown module %q", name, entry.ModuleID)
			}
			if _, ok := module.HasCapability(entry.Method); !ok {
				return fmt.Errorf("alias %q: module %q has no method %q", name, entry.ModuleID, entry.Method)
			}
		}
	}
	a.logger.Info("configuration valid", zap.Int("tools", len(rt.catalog.Tools())))
	return nil
}

// Tools prints the materialized catalog.
func (a *App) Tools(ctx context.Context, serveConf ServeConfig) error {
	conf, err := LoadConfig(serveConf.ConfigPath)
	if err != nil {
		return err
	}
	rt, err := a.build(conf)
	if err != nil {
		return err
	}
	defer rt.close()

	for _, descriptor := range rt.catalog.Tools() {
		fmt.Printf("%-22s %-6s %s\n", descriptor.Name, descriptor.Method, descriptor.Endpoint)
	}
	return nil
}

func (rt *runtime) close() {
	if rt.store != nil {
		_ = rt.store.Close()
	}
}

// staticTokenSource serves a fixed bearer token from configuration. Token
// brokering against a real identity provider sits outside this process.
type staticTokenSource struct {
	token string
}

func (s staticTokenSource) Token(ctx context.Context, userID, sessionID string) (string, error) {
	if s.token == "" {
		return "", domain.E(domain.CategoryAuth, "no upstream token configured", domain.ErrorOptions{
			UserID: userID,
		})
	}
	return s.token, nil
}

var _ graph.TokenSource = staticTokenSource{}
