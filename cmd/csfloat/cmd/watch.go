package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	apiclient "github.com/donaldgifford/csfloat-tracker/internal/api/client"
	"github.com/donaldgifford/csfloat-tracker/internal/api/handlers"
	mw "github.com/donaldgifford/csfloat-tracker/internal/api/middleware"
	"github.com/donaldgifford/csfloat-tracker/internal/config"
	"github.com/donaldgifford/csfloat-tracker/internal/csfloat"
	"github.com/donaldgifford/csfloat-tracker/internal/notify"
	"github.com/donaldgifford/csfloat-tracker/internal/watch"
)

const shutdownTimeout = 10 * time.Second

func watchCmd() *cobra.Command {
	var (
		items       []string
		pollEvery   time.Duration
		pollOnStart bool
	)

	watchRoot := &cobra.Command{
		Use:   "watch [market-hash-name...]",
		Short: "Run the sale history watch daemon",
		Long: "Polls the sale history of every configured item on a fixed interval and\n" +
			"serves the results over HTTP:\n\n" +
			"  /healthz, /readyz    liveness and readiness probes\n" +
			"  /metrics             Prometheus metrics\n" +
			"  /api/v1/status       latest summary per item\n" +
			"  /api/v1/poll         POST to poll immediately\n\n" +
			"Items come from history.market_hash_names in --config, --item and\n" +
			"positional arguments.",
		Example: `  csfloat watch --config config.yaml
  csfloat watch "AK-47 | Redline (Field-Tested)" --poll-interval 15m`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			cfg.History.MarketHashNames = append(cfg.History.MarketHashNames, items...)
			cfg.History.MarketHashNames = append(cfg.History.MarketHashNames, args...)
			if cmd.Flags().Changed("poll-interval") {
				cfg.History.Interval = pollEvery
			}
			if len(cfg.History.MarketHashNames) == 0 {
				return fmt.Errorf("no items to watch: pass names or set history.market_hash_names")
			}
			return runWatch(cmd.Context(), cfg, pollOnStart)
		},
	}

	flags := watchRoot.Flags()
	flags.StringArrayVar(&items, "item", nil, "market hash name to watch (repeatable)")
	flags.DurationVar(&pollEvery, "poll-interval", 0, "sale history poll interval (default 10m)")
	flags.BoolVar(&pollOnStart, "poll-on-start", true, "poll once at startup")

	watchRoot.PersistentFlags().String("server", "http://localhost:9095", "watch daemon URL")
	cobra.CheckErr(viper.BindPFlag("server", watchRoot.PersistentFlags().Lookup("server")))

	watchRoot.AddCommand(watchStatusCmd(), watchPollCmd())

	return watchRoot
}

func newNotifier(cfg *config.Config, log *slog.Logger) notify.Notifier {
	if cfg.Alerts.DiscordWebhookURL == "" {
		return notify.NewNoOpNotifier(log)
	}
	return notify.NewDiscordNotifier(cfg.Alerts.DiscordWebhookURL)
}

func runWatch(ctx context.Context, cfg *config.Config, pollOnStart bool) error {
	log := newLogger(cfg)

	client, err := clientFromConfig(cfg, log)
	if err != nil {
		return err
	}
	defer client.Close()

	breaker := csfloat.NewBreaker(
		cfg.History.Breaker.Threshold,
		csfloat.WithLowWater(cfg.History.Breaker.LowWater),
	)
	opts := []watch.Option{
		watch.WithConcurrency(cfg.History.Concurrency),
		watch.WithBreakerCooldown(cfg.History.Breaker.Cooldown),
		watch.WithLogger(log),
	}
	thresholds, err := cfg.Alerts.Thresholds()
	if err != nil {
		return err
	}
	if len(thresholds) > 0 {
		opts = append(opts, watch.WithPriceAlerts(newNotifier(cfg, log), thresholds))
	}
	poller := watch.NewPoller(client, cfg.History.MarketHashNames, breaker, opts...)

	sched, err := watch.NewScheduler(poller, cfg.History.Interval, log)
	if err != nil {
		return fmt.Errorf("creating scheduler: %w", err)
	}

	e := newWatchServer(poller, log)
	e.Server.ReadTimeout = cfg.Server.ReadTimeout
	e.Server.WriteTimeout = cfg.Server.WriteTimeout

	addr := cfg.Server.Addr()
	log.Info("starting watch daemon",
		"addr", addr,
		"items", len(poller.Names()),
		"interval", cfg.History.Interval.String(),
	)

	go func() {
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("server error", "error", err)
		}
	}()

	sched.Start()
	if pollOnStart {
		go func() {
			if err := sched.RunNow(ctx); err != nil {
				log.Error("initial sale history poll failed", "error", err)
			}
		}()
	}

	<-ctx.Done()
	log.Info("shutting down watch daemon")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	select {
	case <-sched.Stop().Done():
	case <-shutdownCtx.Done():
		log.Warn("scheduled poll still running at shutdown")
	}

	if err := e.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutting down server: %w", err)
	}

	log.Info("watch daemon stopped")
	return nil
}

func newWatchServer(poller *watch.Poller, log *slog.Logger) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Use(mw.Recovery(log), mw.RequestLog(log), mw.Metrics())

	handlers.Register(e, handlers.NewHealthHandler(poller), handlers.NewStatusHandler(poller))
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	return e
}

func newDaemonClient() *apiclient.Client {
	return apiclient.New(viper.GetString("server"))
}

func watchStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status [market-hash-name]",
		Short: "Show the latest summaries from a running daemon",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c := newDaemonClient()

			var summaries []watch.Summary
			if len(args) == 1 {
				s, err := c.StatusFor(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				summaries = []watch.Summary{*s}
			} else {
				all, err := c.Status(cmd.Context())
				if err != nil {
					return err
				}
				summaries = all
			}

			if jsonOutput() {
				return outputJSON(summaries)
			}
			if len(summaries) == 0 {
				fmt.Println("No items polled yet.")
				return nil
			}
			return printSummaries(os.Stdout, summaries)
		},
	}
}

func watchPollCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "poll",
		Short: "Ask a running daemon to poll immediately",
		RunE: func(cmd *cobra.Command, _ []string) error {
			c := newDaemonClient()
			if err := c.Poll(cmd.Context()); err != nil {
				return err
			}
			ready, err := c.Ready(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Printf("Poll completed (ready: %v).\n", ready)
			return nil
		},
	}
}
