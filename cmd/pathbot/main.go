// Command pathbot - демонстрационная оболочка движка навигации:
// разовый поиск пути (plan) и симуляция агента с отладочным API (run).
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/annel0/voxel-pathing/internal/config"
	"github.com/annel0/voxel-pathing/internal/logging"
	"github.com/spf13/cobra"
)

var (
	configPath string
	logLevel   string
	logDir     string

	cfg *config.Config
)

var rootCmd = &cobra.Command{
	Use:           "pathbot",
	Short:         "Навигация агента в воксельном мире",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		loaded, err := config.LoadOrDefault(configPath)
		if err != nil {
			return err
		}
		cfg = loaded

		level := cfg.Logging.Level
		if cmd.Flags().Changed("log-level") || level == "" {
			level = logLevel
		}
		dir := cfg.Logging.Directory
		if logDir != "" {
			dir = logDir
		}
		if err := logging.InitDefaultLogger(logging.ParseLevel(level), dir); err != nil {
			return fmt.Errorf("инициализация логирования: %w", err)
		}
		logging.GetLoggerManager().SetDirectory(dir)
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = logging.GetLoggerManager().CloseAll()
		logging.CloseDefaultLogger()
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "путь к YAML конфигу (или $"+config.ConfigEnv+")")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "INFO", "уровень логов консоли: TRACE, DEBUG, INFO, WARN, ERROR")
	rootCmd.PersistentFlags().StringVar(&logDir, "log-dir", "", "каталог для файлов логов")

	rootCmd.AddCommand(planCmd, runCmd)
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		stop()
		fmt.Fprintf(os.Stderr, "❌ %v\n", err)
		os.Exit(1)
	}
}
