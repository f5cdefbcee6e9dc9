// Package watcher turns raw feed events into attributed, human-readable
// alerts.
package watcher

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/superx-labs/hypertrack/pkg/core"
	"github.com/superx-labs/hypertrack/pkg/hyperliquid"
	"github.com/superx-labs/hypertrack/pkg/logger"
	"github.com/superx-labs/hypertrack/pkg/registry"
	"github.com/superx-labs/hypertrack/pkg/storage"
)

const timestampLayout = "2006-01-02 15:04:05"

// Watcher consumes the streaming feed one event at a time, resolves the
// owning user and display names, and hands formatted alerts to the notifier.
type Watcher struct {
	registry *registry.Registry
	notifier core.Notifier
	tokens   hyperliquid.TokenTable
	orders   *storage.OrderCache
	log      logger.Logger
}

func New(
	reg *registry.Registry,
	notifier core.Notifier,
	tokens hyperliquid.TokenTable,
	orders *storage.OrderCache,
	log logger.Logger,
) *Watcher {
	return &Watcher{
		registry: reg,
		notifier: notifier,
		tokens:   tokens,
		orders:   orders,
		log:      log,
	}
}

// HandleMessage dispatches one raw frame by its channel tag. Malformed
// frames are logged and dropped; processing always continues with the next
// frame.
func (w *Watcher) HandleMessage(raw []byte) {
	var msg hyperliquid.Message
	if err := json.Unmarshal(raw, &msg); err != nil {
		w.log.WithError(err).Warn("dropping malformed feed message")
		return
	}

	switch msg.Channel {
	case hyperliquid.ChannelUserFills:
		w.handleUserFills(msg.Data)
	case hyperliquid.ChannelOrderUpdates:
		w.handleOrderUpdates(msg.Data)
	case hyperliquid.ChannelUserEvents:
		w.log.Debugf("user event: %s", msg.Data)
	case "subscriptionResponse":
		w.log.Debug("subscription acknowledged")
	default:
		w.log.Debugf("unhandled feed channel %q", msg.Channel)
	}
}

// handleUserFills produces one alert per live fill for a tracked wallet.
// Snapshot payloads replay historical fills on every subscribe and are
// dropped wholesale.
func (w *Watcher) handleUserFills(data json.RawMessage) {
	var update hyperliquid.FillsUpdate
	if err := json.Unmarshal(data, &update); err != nil {
		w.log.WithError(err).Warn("dropping malformed fills payload")
		return
	}

	if update.IsSnapshot {
		return
	}

	wallet := strings.ToLower(update.User)
	owner, ok := w.registry.ResolveOwner(wallet)
	if !ok {
		// Nobody tracks this wallet anymore.
		return
	}

	label := wallet
	if nickname, ok := w.registry.ResolveNickname(wallet); ok {
		label = nickname
	}

	for _, fill := range update.Fills {
		w.notifier.Deliver(owner, w.formatFill(fill, label))
	}
}

// formatFill renders the alert text for one fill.
func (w *Watcher) formatFill(fill hyperliquid.Fill, label string) string {
	side := "Sell"
	if fill.Side == "B" {
		side = "Buy"
	}

	coin := w.resolveCoin(fill, side)
	timestamp := time.UnixMilli(fill.Time).Local().Format(timestampLayout)

	return fmt.Sprintf(
		"📣 %s - %s (%s)\n%s %s @ %s\n🕒 %s",
		side, coin, label, side, fill.Sz, fill.Px, timestamp,
	)
}

// resolveCoin maps the fill's raw symbol to a display name. Spot markets
// arrive as "@<id>": on a buy the quote asset received is the fee token, on
// a sell the id resolves through the token table, falling back to the raw
// reference when the market is unknown.
func (w *Watcher) resolveCoin(fill hyperliquid.Fill, side string) string {
	if !strings.HasPrefix(fill.Coin, "@") {
		return fill.Coin
	}

	id, err := strconv.Atoi(fill.Coin[1:])
	if err != nil {
		return fill.Coin
	}

	if side == "Buy" {
		return fill.FeeToken
	}

	if name, ok := w.tokens.Name(id); ok {
		return name
	}
	return fill.Coin
}

// handleOrderUpdates records order id to market pairs for diagnostics. No
// alert is emitted.
func (w *Watcher) handleOrderUpdates(data json.RawMessage) {
	var updates []hyperliquid.OrderUpdate
	if err := json.Unmarshal(data, &updates); err != nil {
		w.log.WithError(err).Warn("dropping malformed order updates payload")
		return
	}

	for _, update := range updates {
		if update.Order.Oid == 0 || update.Order.Coin == "" {
			continue
		}
		if err := w.orders.Put(update.Order.Oid, update.Order.Coin); err != nil {
			w.log.WithError(err).Warn("failed to cache order update")
		}
	}

	w.log.Debugf("cached %d order updates", len(updates))
}
