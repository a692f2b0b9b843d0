// cmd/coach/main.go
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"rein-coach/internal/common/config"
	"rein-coach/internal/common/logger"
)

var (
	// Global flags
	configFile string
	logLevel   string

	cfg    *config.Config
	zapLog *zap.Logger
	log    logger.Logger
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "coach",
	Short: "Rein goal coaching pipeline",
	Long: `coach turns a free-form goal into a clarified goal, a SMART resolution,
a quality evaluation and a week-by-week execution plan.

Commands:
  run    - run the full pipeline once and print the result
  ask    - ask the coach a check-in question
  serve  - expose the pipeline over HTTP
  worker - run each stage as a Zeebe job worker
  activities - validate and print the activity registry`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		if configFile != "" {
			cfg, err = config.LoadFromFile(configFile)
		} else {
			cfg, err = config.Load()
		}
		if err != nil {
			return fmt.Errorf("config load failed: %w", err)
		}
		if logLevel != "" {
			cfg.Logging.Level = logLevel
		}

		zapLog = logger.New(cfg.Logging.Level, cfg.Logging.Format, cfg.Logging.Output)
		log = logger.NewZapAdapter(zapLog).With(map[string]interface{}{
			"service": cfg.App.Name,
			"command": cmd.Name(),
		})
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if zapLog != nil {
			_ = zapLog.Sync()
		}
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "", "path to a config file (default: configs/config.yaml)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "override logging.level (debug, info, warn, error)")

	rootCmd.AddCommand(runCmd, askCmd, serveCmd, workerCmd, activitiesCmd)
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
