package main

import (
	"context"
	"errors"
	"net/http"

	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"

	"github.com/MrUltraEnder/pagelang"
	"github.com/MrUltraEnder/pagelang/internal/metrics"
	"github.com/MrUltraEnder/pagelang/internal/server"
	"github.com/MrUltraEnder/pagelang/notify"
	"github.com/MrUltraEnder/pagelang/state"
)

func newServeCmd(a *app) *cobra.Command {
	var (
		addr         string
		providerName string
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the translation API over HTTP",
		Long: `Serve exposes the Google-compatible translation proxy under /api/translate
and the page endpoints under /api/page, with health and Prometheus metrics.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			sc := a.cfg.Server

			m := metrics.New()

			p, err := a.newProvider(providerName)
			if err != nil {
				return err
			}
			p = a.withRetries(m.Provider(p), a.cfg.Provider.Retries)

			tm, err := a.newCache(ctx)
			if err != nil {
				return err
			}
			var c pagelang.TranslationCache
			if tm != nil {
				c = tm
			}

			stores, err := a.storeFactory(cmd)
			if err != nil {
				return err
			}

			loc, err := notify.NewLocalizer(a.cfg.Translation.SourceLang)
			if err != nil {
				return err
			}

			health := map[string]server.Pinger{}
			if a.redis != nil {
				health["redis"] = redisPinger{a.redis}
			}

			srv := server.New(server.Config{
				SourceLang:         a.cfg.Translation.SourceLang,
				TargetLang:         a.cfg.Translation.TargetLang,
				DetectionThreshold: a.cfg.Translation.DetectionThreshold,
				SampleSize:         a.cfg.Translation.SampleSize,
				MaxBodyBytes:       sc.MaxBodyBytes,
				SecureCookies:      sc.SecureCookies,
			}, server.Deps{
				Client:    a.newClient(p, c),
				Provider:  p,
				Stores:    stores,
				Localizer: loc,
				Metrics:   m,
				Limiter:   pagelang.NewRateLimiter(a.rateConfig()),
				Health:    health,
				Logger:    a.logger,
				Processor: a.newProcessor(),
			})

			if addr == "" {
				addr = sc.Addr()
			}
			httpSrv := &http.Server{
				Addr:         addr,
				ReadTimeout:  sc.ReadTimeout,
				WriteTimeout: sc.WriteTimeout,
				IdleTimeout:  sc.IdleTimeout,
			}

			a.logger.Info("starting server",
				"version", pagelang.FullVersion(),
				"provider", a.cfg.Provider.Name,
				"cache", a.cfg.Cache.Backend,
				"state", a.cfg.State.Backend)

			err = srv.ListenAndServe(ctx, httpSrv, sc.ShutdownTimeout)
			if errors.Is(err, http.ErrServerClosed) {
				return nil
			}
			return err
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "Listen address (default from config)")
	cmd.Flags().StringVar(&providerName, "provider", "", "Provider: google, openai or mock (default from config)")
	return cmd
}

// storeFactory maps the state backend onto per-session stores. The file
// backend holds one state for every visitor.
func (a *app) storeFactory(cmd *cobra.Command) (server.StoreFactory, error) {
	sc := a.cfg.State
	switch sc.Backend {
	case "memory":
		return server.MemorySessions(
			server.WithSessionTTL(sc.TTL),
			server.WithMaxSessions(a.cfg.Server.MaxSessions),
		), nil
	case "redis":
		client, err := a.redisClient(cmd.Context())
		if err != nil {
			return nil, err
		}
		return server.RedisSessions(client, state.WithTTL(sc.TTL)), nil
	default:
		return server.SharedStore(state.NewFileStore(sc.FilePath)), nil
	}
}

type redisPinger struct {
	client *redis.Client
}

func (p redisPinger) Ping(ctx context.Context) error {
	return p.client.Ping(ctx).Err()
}
