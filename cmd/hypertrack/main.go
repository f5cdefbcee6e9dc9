package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/superx-labs/hypertrack"
	"github.com/superx-labs/hypertrack/pkg/core"
	str2duration "github.com/xhit/go-str2duration/v2"
)

const (
	defaultAPIURL         = "https://api.hyperliquid.xyz"
	defaultWSURL          = "wss://api.hyperliquid.xyz/ws"
	defaultRequestTimeout = "10s"
	defaultWriteTimeout   = "5s"
	defaultOrderCacheTTL  = "10m"
)

var envFile string

func main() {
	rootCmd := &cobra.Command{
		Use:     "hypertrack",
		Short:   "Hyperliquid wallet tracking bot for Telegram",
		Version: "1.0.0",
		RunE:    run,
	}

	rootCmd.Flags().StringVarP(&envFile, "env-file", "e", ".env", "Path to the environment file")

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(cmd *cobra.Command, _ []string) error {
	// Missing .env is fine when the environment is already populated.
	if err := godotenv.Load(envFile); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to load %s: %w", envFile, err)
	}

	settings, err := buildSettings()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	bot, err := hypertrack.NewBot(ctx, settings, hypertrack.DefaultLog)
	if err != nil {
		return err
	}

	return bot.Run(ctx)
}

func buildSettings() (*core.Settings, error) {
	requestTimeout, err := durationEnv("HYPERTRACK_REQUEST_TIMEOUT", defaultRequestTimeout)
	if err != nil {
		return nil, err
	}

	writeTimeout, err := durationEnv("HYPERTRACK_WS_WRITE_TIMEOUT", defaultWriteTimeout)
	if err != nil {
		return nil, err
	}

	orderCacheTTL, err := durationEnv("HYPERTRACK_ORDER_CACHE_TTL", defaultOrderCacheTTL)
	if err != nil {
		return nil, err
	}

	return &core.Settings{
		Telegram: core.TelegramSettings{
			Token: os.Getenv("TELEGRAM_BOT_TOKEN"),
		},
		Hyperliquid: core.HyperliquidSettings{
			APIURL:         envWithDefault("HYPERTRACK_API_URL", defaultAPIURL),
			WSURL:          envWithDefault("HYPERTRACK_WS_URL", defaultWSURL),
			RequestTimeout: requestTimeout,
			WriteTimeout:   writeTimeout,
			OrderCacheTTL:  orderCacheTTL,
		},
	}, nil
}

func envWithDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func durationEnv(key, defaultValue string) (time.Duration, error) {
	value, err := str2duration.ParseDuration(envWithDefault(key, defaultValue))
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return value, nil
}
