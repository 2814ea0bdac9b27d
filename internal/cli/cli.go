package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/appolinair2355/Plus-ou-moins-prediction/internal/bot"
	"github.com/appolinair2355/Plus-ou-moins-prediction/internal/config"
	"github.com/appolinair2355/Plus-ou-moins-prediction/internal/excel"
	"github.com/appolinair2355/Plus-ou-moins-prediction/internal/health"
	"github.com/appolinair2355/Plus-ou-moins-prediction/internal/logger"
	"github.com/appolinair2355/Plus-ou-moins-prediction/internal/prediction"
	"github.com/appolinair2355/Plus-ou-moins-prediction/internal/store"
	"github.com/appolinair2355/Plus-ou-moins-prediction/internal/telegram"
)

var (
	flagDataDir  string
	flagWatchDir string
	flagBaseDir  string
	flagDryRun   bool
	flagNoWatch  bool
	flagVerbose  bool
)

// NewRootCmd creates the root command
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "prediction-bot",
		Short: "Telegram bot predicting card game outcomes from an Excel schedule",
		Long: `A Telegram bot that imports a prediction schedule from Excel workbooks,
publishes predictions into a display channel when the source channel
approaches each scheduled game, and verifies results with offsets 0-2.`,
		RunE:          runBot,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.Flags().StringVar(&flagDataDir, "data-dir", ".", "Directory for persisted state (predictions, YAML store, config)")
	cmd.Flags().StringVar(&flagWatchDir, "watch-dir", ".", "Directory watched for new Excel workbooks")
	cmd.Flags().StringVar(&flagBaseDir, "base-dir", ".", "Project directory packaged by /deploy")
	cmd.Flags().BoolVar(&flagDryRun, "dry-run", false, "Log outgoing Telegram messages without sending")
	cmd.Flags().BoolVar(&flagNoWatch, "no-watch", false, "Disable the Excel directory watcher")
	cmd.Flags().BoolVar(&flagVerbose, "verbose", false, "Enable debug logging")

	return cmd
}

// runBot wires the components and blocks until shutdown.
func runBot(cmd *cobra.Command, args []string) error {
	if flagVerbose {
		logger.SetDefault(logger.New(logger.LevelDebug, os.Stdout))
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading configuration: %w", err)
	}
	logger.Info("démarrage du bot de prédiction", logger.Fields{
		"port":   cfg.Port,
		"hosted": cfg.RenderDeployment,
	})

	if err := os.MkdirAll(flagDataDir, 0755); err != nil {
		return fmt.Errorf("creating data directory: %w", err)
	}

	db, err := store.Open(filepath.Join(flagDataDir, "database.yaml"))
	if err != nil {
		return fmt.Errorf("opening YAML store: %w", err)
	}
	runtime, err := config.LoadRuntime(filepath.Join(flagDataDir, "bot_config.json"), db, cfg)
	if err != nil {
		return fmt.Errorf("loading runtime configuration: %w", err)
	}
	preds, err := prediction.NewStore(filepath.Join(flagDataDir, "predictions.json"))
	if err != nil {
		return fmt.Errorf("loading predictions: %w", err)
	}
	importer := excel.NewImporter(preds)

	client, err := telegram.NewClient(cfg.BotToken, flagDryRun)
	if err != nil {
		return fmt.Errorf("initializing Telegram client: %w", err)
	}
	logger.Info("connecté à Telegram", logger.Fields{"username": client.Username()})

	b := bot.New(client, cfg, runtime, preds, importer, db, flagBaseDir, os.TempDir())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	srv := health.New(cfg.Port, func() health.Status {
		stat, display, stats := b.Status()
		return health.Status{
			Status:           "running",
			StatChannel:      stat,
			DisplayChannel:   display,
			ExcelPredictions: stats,
			Metrics:          logger.GetMetricsSnapshot(),
		}
	})
	go func() {
		if err := srv.Run(ctx); err != nil {
			logger.Error("serveur web arrêté", nil, err)
			stop()
		}
	}()

	if !flagNoWatch {
		watcher := excel.NewWatcher(
			flagWatchDir,
			filepath.Join(flagDataDir, "processed_files.json"),
			importer,
			b.NotifyAutoImport,
		)
		go watcher.Run(ctx)
	}

	if cfg.HasAdmin() && !flagDryRun {
		if _, err := client.SendMessage(cfg.AdminID, "🚀 <b>Bot démarré avec succès !</b>"); err != nil {
			logger.Warn("notification de démarrage impossible", logger.Fields{"error": err.Error()})
		}
	}

	b.Run(ctx, client.Updates())
	client.Stop()
	logger.Info("arrêt du bot", nil)
	return nil
}
