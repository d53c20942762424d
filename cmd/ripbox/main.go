package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/yourusername/ripbox-go/api"
	"github.com/yourusername/ripbox-go/internal/app"
	"github.com/yourusername/ripbox-go/internal/domain"
	"github.com/yourusername/ripbox-go/internal/infrastructure"
	"github.com/yourusername/ripbox-go/pkg/logger"
)

var (
	configPath string
	rootCmd    = &cobra.Command{
		Use:   "ripbox",
		Short: "Ripbox - universal media downloader around yt-dlp",
		Long: `An interactive downloader that fetches video/audio from web sources
into a local folder, escalating through anonymous and cookie-based access
until a download succeeds.`,
		RunE: runInteractive,
	}
)

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Config file path")
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(serveCmd)

	historyCmd.Flags().Int("limit", 20, "Number of records to show")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// setup wires the shared pieces: config, logger, history store
func setup() (*domain.Config, *zap.Logger, error) {
	config, err := app.LoadConfig(configPath)
	if err != nil {
		return nil, nil, err
	}

	log, err := logger.New(logger.Config{
		Level:      config.Logging.Level,
		Format:     config.Logging.Format,
		OutputPath: config.Logging.OutputPath,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	return config, log, nil
}

// openHistory opens the history store. History is a convenience, not a
// requirement: failure to open it degrades to a nil repository.
func openHistory(config *domain.Config, log *zap.Logger) domain.HistoryRepository {
	if config.History.DatabasePath == "" {
		return nil
	}
	if err := os.MkdirAll(filepath.Dir(config.History.DatabasePath), 0755); err != nil {
		log.Warn("Failed to create state directory", zap.Error(err))
	}
	repo, err := infrastructure.NewSQLiteHistoryRepository(config.History.DatabasePath)
	if err != nil {
		log.Warn("Download history disabled", zap.Error(err))
		return nil
	}
	return repo
}

func runInteractive(cmd *cobra.Command, args []string) error {
	config, log, err := setup()
	if err != nil {
		return err
	}
	defer log.Sync()

	history := openHistory(config, log)
	if history != nil {
		defer history.Close()
	}

	registry := infrastructure.NewCookieRegistry(config.Download.CookieFile)
	builder := app.NewOptionsBuilder(config.Download, registry.CookieFile())
	executor := infrastructure.NewYTDLPExecutor(&config.Download, log)
	policy := app.NewAttemptPolicy(executor, infrastructure.NewPatternClassifier(), registry, builder, log)
	orchestrator := app.NewBatchOrchestrator(policy, infrastructure.NewURLPrechecker(), history, log, os.Stdout)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return runLoop(ctx, config, orchestrator)
}

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show recent download history",
	RunE: func(cmd *cobra.Command, args []string) error {
		config, log, err := setup()
		if err != nil {
			return err
		}
		defer log.Sync()

		repo, err := infrastructure.NewSQLiteHistoryRepository(config.History.DatabasePath)
		if err != nil {
			return fmt.Errorf("failed to open history: %w", err)
		}
		defer repo.Close()

		limit, _ := cmd.Flags().GetInt("limit")
		records, err := repo.FindRecent(limit)
		if err != nil {
			return err
		}

		stats, err := repo.Stats()
		if err != nil {
			return err
		}
		fmt.Printf("Total: %d  ok: %d  failed: %d  invalid: %d\n\n",
			stats.Total, stats.OK, stats.Failed, stats.Invalid)

		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "WHEN\tSTATUS\tFORMAT\tCREDENTIAL\tURL")
		for _, r := range records {
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
				r.CreatedAt.Format("2006-01-02 15:04"),
				r.Status,
				r.Format,
				r.Credential,
				truncate(r.URL, 60))
		}
		return w.Flush()
	},
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the read-only download history API",
	RunE: func(cmd *cobra.Command, args []string) error {
		config, log, err := setup()
		if err != nil {
			return err
		}
		defer log.Sync()

		repo, err := infrastructure.NewSQLiteHistoryRepository(config.History.DatabasePath)
		if err != nil {
			return fmt.Errorf("failed to open history: %w", err)
		}
		defer repo.Close()

		router := api.SetupRouter(repo, log)
		addr := fmt.Sprintf("%s:%d", config.Server.Host, config.Server.Port)
		log.Info("Serving history API", zap.String("addr", addr))
		return router.Run(addr)
	},
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max-3] + "..."
}

// errIsCancelled reports user-initiated interruption
func errIsCancelled(err error) bool {
	return errors.Is(err, domain.ErrCancelled) || errors.Is(err, context.Canceled)
}
