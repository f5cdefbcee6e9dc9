// Package hypertrack wires the wallet registry, the venue feed, and the
// Telegram front end into a running notification bot.
package hypertrack

import (
	"context"
	"fmt"

	"github.com/superx-labs/hypertrack/pkg/core"
	"github.com/superx-labs/hypertrack/pkg/hyperliquid"
	"github.com/superx-labs/hypertrack/pkg/logger"
	"github.com/superx-labs/hypertrack/pkg/notification"
	"github.com/superx-labs/hypertrack/pkg/registry"
	"github.com/superx-labs/hypertrack/pkg/storage"
	"github.com/superx-labs/hypertrack/pkg/watcher"
)

// Bot is the assembled application.
type Bot struct {
	settings *core.Settings
	registry *registry.Registry
	stream   *hyperliquid.Stream
	telegram *notification.Telegram
	orders   *storage.OrderCache
	log      logger.Logger
}

// NewBot builds every component and connects them: registry changes drive
// feed subscriptions, feed events flow through the watcher into the Telegram
// outbound queue. The spot token table is built once here; a failed fetch
// degrades spot alerts to raw market ids instead of aborting startup.
func NewBot(ctx context.Context, settings *core.Settings, log logger.Logger) (*Bot, error) {
	if err := validate(settings, log); err != nil {
		return nil, err
	}

	client := hyperliquid.NewClient(settings.Hyperliquid, log)
	tokens := hyperliquid.BuildTokenTable(ctx, client, log)

	reg := registry.New(log)

	orders, err := storage.NewOrderCache(settings.Hyperliquid.OrderCacheTTL)
	if err != nil {
		return nil, err
	}

	telegram, err := notification.NewTelegram(reg, client, settings, log)
	if err != nil {
		return nil, err
	}

	events := watcher.New(reg, telegram, tokens, orders, log)
	stream := hyperliquid.NewStream(settings.Hyperliquid, events.HandleMessage, log)
	reg.OnWalletAdded(stream)

	return &Bot{
		settings: settings,
		registry: reg,
		stream:   stream,
		telegram: telegram,
		orders:   orders,
		log:      log,
	}, nil
}

func validate(settings *core.Settings, log logger.Logger) error {
	if settings == nil {
		return fmt.Errorf("settings cannot be nil")
	}

	if settings.Telegram.Token == "" {
		return fmt.Errorf("telegram bot token is required")
	}

	if settings.Hyperliquid.APIURL == "" || settings.Hyperliquid.WSURL == "" {
		return fmt.Errorf("venue endpoints cannot be empty")
	}

	if log == nil {
		return fmt.Errorf("logger cannot be nil")
	}

	return nil
}

// Run starts the front end and consumes the feed until the context is
// canceled.
func (b *Bot) Run(ctx context.Context) error {
	b.telegram.Start(ctx)
	b.log.Info("hypertrack is running")

	b.stream.Run(ctx)

	return b.orders.Close()
}
