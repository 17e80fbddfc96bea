package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"hooked/internal/auth"
	"hooked/internal/cache"
	"hooked/internal/config"
	"hooked/internal/core/expiry"
	httpx "hooked/internal/http"
	"hooked/internal/metrics"
	"hooked/internal/services/data"
	"hooked/internal/services/social"
	"hooked/internal/store/memory"
	"hooked/internal/store/postgres"
	"hooked/internal/store/repositories"
)

const speciesCacheTTL = 10 * time.Minute

func serveCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the dev API",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.cfg.ValidateServer(); err != nil {
				return err
			}
			return serve(a.cfg)
		},
	}
}

func serve(cfg config.Cfg) error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var repos repositories.Repositories
	if cfg.DB.DSN != "" {
		pool := postgres.MustOpen(ctx, cfg.DB.DSN)
		defer pool.Close()
		if err := postgres.Migrate(ctx, pool); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
		if err := postgres.NewSpeciesRepository(pool).Seed(ctx, memory.SeedSpecies()); err != nil {
			return fmt.Errorf("seed species: %w", err)
		}
		repos = postgres.NewRepositories(pool)
		log.Info().Msg("using postgres store")
	} else {
		repos = memory.NewDemo().Repositories()
		log.Info().Str("user_id", memory.DemoUserID).Msg("using in-memory demo store")
	}

	deps := httpx.RouterDependencies{Config: cfg}
	if cfg.Redis.Addr != "" {
		rdb := cache.MustConnect(ctx, cfg.Redis.Addr)
		defer rdb.Close()
		repos.Species = cache.NewSpeciesCache(repos.Species, rdb, speciesCacheTTL)
		deps.Limiter = cache.NewRateLimiter(rdb, cfg.Sec.RateLimitPerMin)
	}
	deps.DataService = data.NewService(repos)
	deps.SocialService = social.NewService(repos)

	worker := expiry.NewWorker(repos.Stories, cfg.Worker.StorySweepEvery, metrics.StoriesSwept)
	go worker.Run(ctx)

	srv := &http.Server{
		Addr:         ":" + cfg.App.Port,
		Handler:      httpx.NewRouter(deps),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	if cfg.DB.DSN == "" {
		if tok, err := auth.Mint(cfg.Sec.JWTSecret, memory.DemoUserID, 24*time.Hour); err == nil {
			log.Info().Str("token", tok).Msg("demo bearer token")
		}
	}

	errc := make(chan error, 1)
	go func() {
		log.Info().Msgf("Hooked dev API listening on :%s", cfg.App.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errc <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	select {
	case <-quit:
	case err := <-errc:
		return fmt.Errorf("server failed: %w", err)
	}
	cancel()
	ctx2, cancel2 := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel2()
	_ = srv.Shutdown(ctx2)
	log.Info().Msg("server stopped")
	return nil
}

func tokenCmd(a *app) *cobra.Command {
	var (
		userID string
		ttl    time.Duration
	)
	cmd := &cobra.Command{
		Use:   "token",
		Short: "Mint a bearer token for the dev API",
		RunE: func(cmd *cobra.Command, args []string) error {
			tok, err := auth.Mint(a.cfg.Sec.JWTSecret, userID, ttl)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), tok)
			return nil
		},
	}
	cmd.Flags().StringVar(&userID, "user", memory.DemoUserID, "Subject user id")
	cmd.Flags().DurationVar(&ttl, "ttl", 24*time.Hour, "Token lifetime (0 for none)")
	return cmd
}
