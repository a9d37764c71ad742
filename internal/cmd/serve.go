package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/simons-plugins/logs-over-reflector/internal/filestore"
	"github.com/simons-plugins/logs-over-reflector/internal/livelog"
	"github.com/simons-plugins/logs-over-reflector/internal/server"
	"github.com/simons-plugins/logs-over-reflector/internal/tailer"
	"github.com/simons-plugins/logs-over-reflector/internal/watcher"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the log query API server",
	Long: `Run the JSON query API. Live feed files (JSON records, one per line)
are tailed into an in-memory recent-entries buffer served by /api/log;
historical per-day files are read on demand by /api/history.

Examples:
  logreflector serve --feed /var/lib/app/live.jsonl
  logreflector serve --feed "feeds/**/*.jsonl" --port 9090`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().String("port", "8787", "HTTP listen port")
	serveCmd.Flags().StringSlice("feed", nil, "live feed file or glob pattern (repeatable)")
	serveCmd.Flags().Int("live-buffer", livelog.DefaultCapacity, "how many live records to retain in memory")
	_ = viper.BindPFlag("port", serveCmd.Flags().Lookup("port"))
	_ = viper.BindPFlag("feeds", serveCmd.Flags().Lookup("feed"))
	_ = viper.BindPFlag("liveBuffer", serveCmd.Flags().Lookup("live-buffer"))
}

func runServe(cmd *cobra.Command, args []string) error {
	logger, err := zap.NewProduction()
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	defer logger.Sync()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		logger.Info("shutting down")
		cancel()
	}()

	// --- Live feed pipeline ---
	feeds := viper.GetStringSlice("feeds")
	w, err := watcher.New(feeds, logger)
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	if len(feeds) > 0 && w.FileCount() == 0 {
		return fmt.Errorf("no feed files matched the given patterns: %v", feeds)
	}

	ckpt, err := tailer.NewCheckpoint(".logreflector-state.json")
	if err != nil {
		return fmt.Errorf("failed to load checkpoint: %w", err)
	}
	t := tailer.New(w, ckpt, logger)

	buf := livelog.NewBuffer(viper.GetInt("liveBuffer"))
	ing := livelog.NewIngestor(buf, t.Lines(), w.FileCount, logger)

	go w.Start(ctx)
	go t.Start(ctx)
	go ing.Start(ctx)

	// --- Query API ---
	store := filestore.New(viper.GetString("logsDir"), logger)
	srv := server.New(buf, store, ing.Snapshot,
		server.Config{DefaultLines: viper.GetInt("defaultLineCount")},
		viper.GetString("port"), logger)

	logger.Info("serving log query API",
		zap.String("port", viper.GetString("port")),
		zap.Int("feeds", w.FileCount()),
		zap.String("logs_dir", viper.GetString("logsDir")))

	errCh := make(chan error, 1)
	go func() { errCh <- srv.Start() }()

	select {
	case <-ctx.Done():
		return nil
	case err := <-errCh:
		return err
	}
}
