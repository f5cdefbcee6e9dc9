// Package notification provides the Telegram front end: the command surface
// for managing tracked wallets and the outbound alert path.
package notification

import (
	"context"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/samber/lo"
	"github.com/superx-labs/hypertrack/pkg/core"
	"github.com/superx-labs/hypertrack/pkg/hyperliquid"
	"github.com/superx-labs/hypertrack/pkg/logger"
	"github.com/superx-labs/hypertrack/pkg/registry"
	tb "gopkg.in/tucnak/telebot.v2"
)

// outboundBuffer bounds the alert queue between the feed consumer and the
// Telegram send loop. A full queue drops alerts instead of blocking the feed.
const outboundBuffer = 64

const addInstructions = "To track a wallet, respond to this message with each wallet address on a new line. " +
	"If you'd like to assign a nickname (40 characters max), include a comma after the address. For example:\n\n" +
	"WalletAddress1, Name1\n" +
	"WalletAddress2, Name2\n\n" +
	"There's a current wallet limit of 2."

type outbound struct {
	user core.UserID
	text string
}

// Telegram implements the core.Notifier interface on top of a telebot client.
// Command handlers run on the poller's goroutines; alerts from the feed
// goroutine are marshaled through the outbound queue and sent by a dedicated
// loop, so the two contexts never call into each other directly.
type Telegram struct {
	client   *tb.Bot
	registry *registry.Registry
	venue    *hyperliquid.Client
	log      logger.Logger
	outbound chan outbound
}

// NewTelegram creates and initializes the Telegram front end.
func NewTelegram(
	reg *registry.Registry,
	venue *hyperliquid.Client,
	settings *core.Settings,
	log logger.Logger,
) (*Telegram, error) {
	poller := &tb.LongPoller{Timeout: 10 * time.Second}

	client, err := tb.NewBot(tb.Settings{
		ParseMode: tb.ModeMarkdown,
		Token:     settings.Telegram.Token,
		Poller:    poller,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create telegram bot: %w", err)
	}

	if err := setupCommands(client); err != nil {
		return nil, fmt.Errorf("failed to set commands: %w", err)
	}

	bot := &Telegram{
		client:   client,
		registry: reg,
		venue:    venue,
		log:      log,
		outbound: make(chan outbound, outboundBuffer),
	}

	registerHandlers(client, bot)

	return bot, nil
}

// setupCommands configures the command menu shown by the chat client.
func setupCommands(client *tb.Bot) error {
	return client.SetCommands([]tb.Command{
		{Text: "/start", Description: "Start the bot"},
		{Text: "/positions", Description: "View wallet positions"},
		{Text: "/add", Description: "Track a wallet"},
		{Text: "/show", Description: "Show tracked wallets"},
		{Text: "/remove", Description: "Remove a tracked wallet"},
	})
}

// registerHandlers registers all command and callback handlers.
func registerHandlers(client *tb.Bot, bot *Telegram) {
	client.Handle("/start", bot.StartHandle)
	client.Handle("/add", bot.AddHandle)
	client.Handle("/show", bot.ShowHandle)
	client.Handle("/remove", bot.RemoveHandle)
	client.Handle("/positions", bot.PositionsHandle)
	client.Handle(tb.OnText, bot.TextHandle)
	client.Handle(tb.OnCallback, bot.CallbackHandle)
}

// Start begins polling and launches the outbound send loop. Both stop when
// the context is canceled.
func (t *Telegram) Start(ctx context.Context) {
	go t.client.Start()
	go t.sendLoop(ctx)
}

// Deliver implements core.Notifier. Safe to call from the feed goroutine: it
// only enqueues, and drops the alert when the queue is full.
func (t *Telegram) Deliver(user core.UserID, text string) {
	select {
	case t.outbound <- outbound{user: user, text: text}:
	default:
		t.log.Warnf("outbound queue full, dropping alert for user %d", user)
	}
}

func (t *Telegram) sendLoop(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			t.client.Stop()
			return
		case msg := <-t.outbound:
			if _, err := t.client.Send(&tb.User{ID: int64(msg.user)}, msg.text); err != nil {
				t.log.WithError(err).Error("failed to send notification")
			}
		}
	}
}

func (t *Telegram) sendMessage(to *tb.User, text string, options ...interface{}) {
	_, err := t.client.Send(to, text, options...)
	if err != nil {
		t.log.WithError(err).Error("failed to send message")
	}
}

// StartHandle greets the user.
func (t *Telegram) StartHandle(m *tb.Message) {
	t.sendMessage(m.Sender,
		"🤖 SuperX | Hyperliquid Wallet Tracker\n\n"+
			"Monitor Hyperliquid wallets. Send the /add command to track and receive notifications for wallet activity.")
}

// AddHandle explains the wallet registration format.
func (t *Telegram) AddHandle(m *tb.Message) {
	t.sendMessage(m.Sender, addInstructions, backMarkup())
}

// ShowHandle lists the user's tracked wallets.
func (t *Telegram) ShowHandle(m *tb.Message) {
	wallets := t.registry.ListWallets(core.UserID(m.Sender.ID))

	if len(wallets) == 0 {
		markup := &tb.ReplyMarkup{InlineKeyboard: [][]tb.InlineButton{
			{{Text: "➕ Add Wallet", Data: "add_wallet"}},
			{{Text: "← Back", Data: "back"}},
		}}
		t.sendMessage(m.Sender, "No wallets to show. Please press the Add button below.", markup)
		return
	}

	lines := []string{
		fmt.Sprintf("Total wallets: %d / %d", len(wallets), core.MaxWalletsPerUser),
		"✅ - Wallet is active\n",
	}
	lines = append(lines, lo.Map(wallets, func(entry core.WalletEntry, _ int) string {
		if entry.Nickname != "" {
			return fmt.Sprintf("✅ %s (%s)", entry.Nickname, entry.Address)
		}
		return "✅ " + entry.Address
	})...)

	t.sendMessage(m.Sender, strings.Join(lines, "\n"), backMarkup())
}

// RemoveHandle offers one button per tracked wallet.
func (t *Telegram) RemoveHandle(m *tb.Message) {
	wallets := t.registry.ListWallets(core.UserID(m.Sender.ID))
	if len(wallets) == 0 {
		t.sendMessage(m.Sender, "❌ You don't have any wallets to remove.")
		return
	}

	t.sendMessage(m.Sender, savedWalletsText(wallets), walletKeyboard(wallets, "remove:"))
}

// PositionsHandle offers one button per tracked wallet.
func (t *Telegram) PositionsHandle(m *tb.Message) {
	wallets := t.registry.ListWallets(core.UserID(m.Sender.ID))
	if len(wallets) == 0 {
		t.sendMessage(m.Sender, "❗ You have no wallets saved. Use /add to register one.")
		return
	}

	t.sendMessage(m.Sender,
		"Please select the wallet you would like to view the positions of:",
		walletKeyboard(wallets, "positions:"))
}

// TextHandle interprets any non-command message as wallet registration input,
// one "address[, nickname]" per line.
func (t *Telegram) TextHandle(m *tb.Message) {
	lines := strings.Split(strings.TrimSpace(m.Text), "\n")
	accepted, rejected := t.registry.AddWallets(core.UserID(m.Sender.ID), lines)

	for _, rejection := range rejected {
		switch rejection.Reason {
		case core.RejectCapacityExceeded:
			t.sendMessage(m.Sender, fmt.Sprintf("❌ You can only track up to %d wallets.", core.MaxWalletsPerUser))
			return
		case core.RejectInvalidAddress:
			t.sendMessage(m.Sender, "❌ Invalid wallet address: "+strings.TrimSpace(strings.SplitN(rejection.Line, ",", 2)[0]))
		case core.RejectNicknameTooLong:
			t.sendMessage(m.Sender, "❌ Nickname too long for "+strings.TrimSpace(strings.SplitN(rejection.Line, ",", 2)[0])+".")
		}
	}

	if len(accepted) == 0 {
		return
	}

	confirmed := lo.Map(accepted, func(entry core.WalletEntry, _ int) string {
		if entry.Nickname != "" {
			return fmt.Sprintf("%s (%s)", entry.Address, entry.Nickname)
		}
		return entry.Address
	})

	t.sendMessage(m.Sender, "✅ Wallets saved:\n"+strings.Join(confirmed, "\n"))
}

// CallbackHandle dispatches inline keyboard actions by their data prefix.
func (t *Telegram) CallbackHandle(c *tb.Callback) {
	if err := t.client.Respond(c, &tb.CallbackResponse{}); err != nil {
		t.log.WithError(err).Error("failed to answer callback")
	}

	data := strings.TrimPrefix(strings.TrimSpace(c.Data), "\f")

	switch {
	case data == "back":
		t.edit(c.Message, "⬅️ Back to main menu.")
	case data == "add_wallet":
		t.edit(c.Message, addInstructions, backMarkup())
	case strings.HasPrefix(data, "remove:"):
		t.removeWallet(c, strings.TrimPrefix(data, "remove:"))
	case strings.HasPrefix(data, "positions:"):
		t.showPositions(c, strings.TrimPrefix(data, "positions:"))
	}
}

func (t *Telegram) removeWallet(c *tb.Callback, address string) {
	if t.registry.RemoveWallet(core.UserID(c.Sender.ID), address) {
		t.edit(c.Message, "Wallet removed successfully.")
		return
	}
	t.edit(c.Message, "❌ Wallet not found.")
}

func (t *Telegram) showPositions(c *tb.Callback, address string) {
	ctx := context.Background()

	perp, err := t.venue.UserState(ctx, address)
	if err != nil {
		t.log.WithError(err).Error("positions query failed")
		t.edit(c.Message, fmt.Sprintf("⚠️ Error fetching data for %s.", address))
		return
	}

	spot, err := t.venue.SpotUserState(ctx, address)
	if err != nil {
		t.log.WithError(err).Error("spot balances query failed")
		t.edit(c.Message, fmt.Sprintf("⚠️ Error fetching data for %s.", address))
		return
	}

	label := address
	if nickname, ok := t.registry.ResolveNickname(address); ok {
		label = nickname
	}

	t.edit(c.Message, formatPositions(label, perp, spot), backMarkup())
}

func (t *Telegram) edit(message *tb.Message, text string, options ...interface{}) {
	if _, err := t.client.Edit(message, text, options...); err != nil {
		t.log.WithError(err).Error("failed to edit message")
	}
}

// formatPositions renders the on-demand positions and balances reply.
func formatPositions(label string, perp *hyperliquid.UserState, spot *hyperliquid.SpotState) string {
	lines := []string{fmt.Sprintf("*Wallet:* %s", label)}

	if value, err := strconv.ParseFloat(perp.MarginSummary.AccountValue, 64); err == nil {
		lines = append(lines, fmt.Sprintf("💵 *Perp USDC Account Value:* $%s", formatUSD(value)))
	}

	if len(perp.AssetPositions) == 0 {
		lines = append(lines, "\n📭 No open perpetual positions found.")
	} else {
		lines = append(lines, "\n📈 *Perpetual Positions:*")
		for _, position := range perp.AssetPositions {
			p := position.Position
			size, _ := strconv.ParseFloat(p.Szi, 64)
			side := lo.Ternary(size > 0, "LONG", "SHORT")
			roe, _ := strconv.ParseFloat(p.ReturnOnEquity, 64)

			liq := "N/A"
			if p.LiquidationPx != nil {
				liq = *p.LiquidationPx
			}

			lines = append(lines, fmt.Sprintf(
				"- %s: %s %s @ %s | PnL: %s | ROE: %.2f%% | Liq: %s",
				p.Coin, side,
				strconv.FormatFloat(math.Abs(size), 'f', -1, 64),
				p.EntryPx, p.UnrealizedPnl, roe*100, liq,
			))
		}
	}

	nonzero := lo.Filter(spot.Balances, func(balance hyperliquid.SpotBalance, _ int) bool {
		total, err := strconv.ParseFloat(balance.Total, 64)
		return err == nil && total > 0
	})

	if len(nonzero) == 0 {
		lines = append(lines, "\n📭 No spot balances found.")
	} else {
		lines = append(lines, "\n💰 *Spot Balances:*")
		for _, balance := range nonzero {
			if value, err := strconv.ParseFloat(balance.EntryNtl, 64); err == nil && value > 0 {
				lines = append(lines, fmt.Sprintf("- %s: %s (≈ $%s)", balance.Coin, balance.Total, formatUSD(value)))
				continue
			}
			lines = append(lines, fmt.Sprintf("- %s: %s", balance.Coin, balance.Total))
		}
	}

	return strings.Join(lines, "\n")
}

// formatUSD renders a dollar amount with two decimals and thousands
// separators, e.g. 12345.678 -> "12,345.68".
func formatUSD(value float64) string {
	text := strconv.FormatFloat(value, 'f', 2, 64)

	sign := ""
	if strings.HasPrefix(text, "-") {
		sign, text = "-", text[1:]
	}

	intPart, frac, _ := strings.Cut(text, ".")

	var b strings.Builder
	for i, digit := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(digit)
	}

	return sign + b.String() + "." + frac
}

// savedWalletsText lists the tracked wallets above the removal keyboard.
func savedWalletsText(wallets []core.WalletEntry) string {
	lines := append([]string{"Saved Wallets"}, lo.Map(wallets, func(entry core.WalletEntry, _ int) string {
		return "✅ " + entry.Label()
	})...)
	return strings.Join(lines, "\n")
}

func backMarkup() *tb.ReplyMarkup {
	return &tb.ReplyMarkup{InlineKeyboard: [][]tb.InlineButton{
		{{Text: "← Back", Data: "back"}},
	}}
}

// walletKeyboard builds one row per wallet with the given action prefix in
// the callback data, plus a trailing back row.
func walletKeyboard(wallets []core.WalletEntry, prefix string) *tb.ReplyMarkup {
	rows := lo.Map(wallets, func(entry core.WalletEntry, _ int) []tb.InlineButton {
		return []tb.InlineButton{{Text: entry.Label(), Data: prefix + entry.Address}}
	})
	rows = append(rows, []tb.InlineButton{{Text: "← Back", Data: "back"}})

	return &tb.ReplyMarkup{InlineKeyboard: rows}
}
