package main

import (
	"context"
	"database/sql"
	"errors"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/lib/pq"
	"github.com/redis/go-redis/v9"

	"github.com/ignite/engage/internal/advisor"
	"github.com/ignite/engage/internal/api"
	"github.com/ignite/engage/internal/cache"
	"github.com/ignite/engage/internal/config"
	"github.com/ignite/engage/internal/mailing"
	"github.com/ignite/engage/internal/notifier"
	"github.com/ignite/engage/internal/repository/memory"
	"github.com/ignite/engage/internal/repository/postgres"
	"github.com/ignite/engage/internal/service/campaign"
	"github.com/ignite/engage/internal/service/customer"
	"github.com/ignite/engage/internal/service/delivery"
	"github.com/ignite/engage/internal/service/order"
	"github.com/ignite/engage/internal/service/stats"
)

func main() {
	configPath := flag.String("config", "config/config.yaml", "path to config file")
	flag.Parse()

	cfg, err := config.LoadFromEnv(*configPath)
	if err != nil {
		log.Fatalf("[Server] loading config: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	handlers, cleanup, err := wire(ctx, cfg)
	if err != nil {
		log.Fatalf("[Server] wiring: %v", err)
	}
	defer cleanup()

	srv := api.NewServer(handlers)
	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)

	errCh := make(chan error, 1)
	go func() {
		log.Printf("[Server] listening on %s", addr)
		errCh <- srv.ListenAndServe(addr)
	}()

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("[Server] serve: %v", err)
		}
	case <-ctx.Done():
		log.Println("[Server] shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Printf("[Server] shutdown: %v", err)
		}
	}
}

// wire builds the service graph. Without a database URL the server runs on
// the in-memory store, which is how local development and demos work.
func wire(ctx context.Context, cfg *config.Config) (*api.Handlers, func(), error) {
	cleanups := []func(){}
	cleanup := func() {
		for i := len(cleanups) - 1; i >= 0; i-- {
			cleanups[i]()
		}
	}

	var appCache cache.Cache
	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err := redisClient.Ping(ctx).Err(); err != nil {
		// Degraded but functional: every read becomes a recompute.
		log.Printf("[Server] redis unavailable at %s, running without cache: %v", cfg.Redis.Addr, err)
		_ = redisClient.Close()
	} else {
		appCache = cache.NewRedis(redisClient)
		cleanups = append(cleanups, func() { _ = redisClient.Close() })
	}

	var (
		customerRepo customer.Repository
		audienceRepo campaign.AudienceSource
		campaignRepo campaign.Repository
		logRepo      delivery.LogRepository
		orderRepo    order.Repository
		statsRepo    stats.Repository
	)
	if cfg.Database.URL != "" {
		db, err := sql.Open("postgres", cfg.Database.URL)
		if err != nil {
			cleanup()
			return nil, nil, fmt.Errorf("opening database: %w", err)
		}
		db.SetMaxOpenConns(cfg.Database.MaxOpenConns)
		if err := db.PingContext(ctx); err != nil {
			cleanup()
			return nil, nil, fmt.Errorf("pinging database: %w", err)
		}
		cleanups = append(cleanups, func() { _ = db.Close() })

		pgCustomers := postgres.NewCustomerRepository(db)
		customerRepo = pgCustomers
		audienceRepo = pgCustomers
		campaignRepo = postgres.NewCampaignRepository(db)
		logRepo = postgres.NewLogRepository(db)
		orderRepo = postgres.NewOrderRepository(db)
		statsRepo = postgres.NewStatsRepository(db)
		log.Println("[Server] using postgres store")
	} else {
		store := memory.NewStore()
		customerRepo = store
		audienceRepo = store
		campaignRepo = store.Campaigns()
		logRepo = store.Logs()
		orderRepo = store.Orders()
		statsRepo = store.Stats()
		log.Println("[Server] no database configured, using in-memory store")
	}

	var send notifier.Notifier
	if cfg.SES.Enabled {
		ses, err := notifier.NewSES(ctx, cfg.SES)
		if err != nil {
			cleanup()
			return nil, nil, fmt.Errorf("creating SES notifier: %w", err)
		}
		send = ses
		log.Printf("[Server] sending through SES as %s", cfg.SES.FromEmail)
	} else {
		send = notifier.NewSimulated(cfg.Delivery.SimulatedFailureRate, time.Now().UnixNano())
		log.Printf("[Server] SES disabled, simulating delivery (failure rate %.2f)", cfg.Delivery.SimulatedFailureRate)
	}

	var suggester advisor.RuleSuggester
	if cfg.Advisor.Enabled {
		b, err := advisor.NewBedrockAdvisor(ctx, cfg.Advisor)
		if err != nil {
			cleanup()
			return nil, nil, fmt.Errorf("creating advisor: %w", err)
		}
		suggester = b
	}

	customers := customer.NewService(customerRepo, appCache, cfg.Cache.CustomerTTL())
	orders := order.NewService(orderRepo, appCache)
	campaigns := campaign.NewService(campaignRepo, audienceRepo, appCache)
	sim := delivery.NewSimulator(logRepo, send, mailing.NewTemplateService(),
		appCache, cfg.Delivery.Workers, cfg.Delivery.Subject)
	agg := stats.NewAggregator(statsRepo, appCache, cfg.Cache.StatsTTL(), cfg.Cache.SummaryTTL())

	return api.NewHandlers(customers, orders, campaigns, sim, agg, suggester), cleanup, nil
}
