package commands

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/Incarcer/FFA/internal/api"
	"github.com/Incarcer/FFA/internal/config"
	"github.com/Incarcer/FFA/internal/draft"
	"github.com/Incarcer/FFA/internal/feed"
	"github.com/Incarcer/FFA/internal/httpapi"
	"github.com/Incarcer/FFA/internal/session"
)

var (
	watchSettingsPath string
	watchServerURL    string
	watchFeedURL      string
	watchListenAddr   string
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Connect to the draft server and track the session",
	Long: `Connect to the draft server, load the current snapshot, follow the
push stream and serve the reconciled view locally.

Examples:
  # Defaults from env / .env
  draftwatch watch

  # Explicit endpoints and league settings
  draftwatch watch --server http://localhost:8000 --settings league_settings.yaml`,
	RunE: runWatch,
}

func init() {
	watchCmd.Flags().StringVar(&watchSettingsPath, "settings", "", "Path to the league settings YAML")
	watchCmd.Flags().StringVar(&watchServerURL, "server", "", "Draft server base URL (overrides env)")
	watchCmd.Flags().StringVar(&watchFeedURL, "feed", "", "Push stream websocket URL (overrides env)")
	watchCmd.Flags().StringVar(&watchListenAddr, "listen", "", "Local listen address for the projection API (overrides env)")
	rootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(watchSettingsPath)
	if err != nil {
		return err
	}
	if watchServerURL != "" {
		cfg.ServerURL = watchServerURL
	}
	if watchFeedURL != "" {
		cfg.FeedURL = watchFeedURL
	}
	if watchListenAddr != "" {
		cfg.ListenAddr = watchListenAddr
	}

	logger, err := zap.NewProduction()
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	client := api.NewClient(cfg.ServerURL)
	sess := session.New(ctx, draft.NewEmptyState(), client.FetchHistory, logger.Named("session"))

	// Log every broadcast view so the sync progress is visible in ops output.
	views := make(chan session.View, 16)
	sess.Inbox() <- session.Join{ObserverID: session.NewObserverID(), Outbox: views}
	go func() {
		for v := range views {
			logger.Debug("view updated",
				zap.Int("version", v.Version),
				zap.String("status", string(v.State.Status)),
				zap.Int("current_pick_index", v.State.CurrentPickIndex))
		}
	}()

	go api.LoadSnapshot(ctx, client, sess.Inbox())

	resync := func(ctx context.Context) {
		api.LoadSnapshot(ctx, client, sess.Inbox())
	}
	stream := feed.New(cfg.FeedURL, sess.Inbox(), resync, logger.Named("feed"))
	go stream.Run(ctx)

	srv := &http.Server{
		Addr:    cfg.ListenAddr,
		Handler: httpapi.SetupRoutes(sess, cfg.League.RosterStructure),
	}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	logger.Info("draftwatch listening",
		zap.String("addr", cfg.ListenAddr),
		zap.String("server", cfg.ServerURL),
		zap.String("feed", cfg.FeedURL))
	if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
