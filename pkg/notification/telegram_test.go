package notification

import (
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
	"github.com/superx-labs/hypertrack/pkg/core"
	"github.com/superx-labs/hypertrack/pkg/hyperliquid"
	zl "github.com/superx-labs/hypertrack/pkg/logger/zerolog"
)

func testLog() *zl.Adapter {
	nop := zerolog.Nop()
	return zl.NewAdapter(&nop)
}

func liqPx(v string) *string { return &v }

func TestFormatPositions(t *testing.T) {
	perp := &hyperliquid.UserState{
		MarginSummary: hyperliquid.MarginSummary{AccountValue: "12345.678"},
		AssetPositions: []hyperliquid.AssetPosition{
			{Position: hyperliquid.Position{
				Coin:           "ETH",
				Szi:            "1.5",
				EntryPx:        "2000",
				LiquidationPx:  liqPx("1500"),
				UnrealizedPnl:  "120.5",
				ReturnOnEquity: "0.0456",
			}},
			{Position: hyperliquid.Position{
				Coin:           "BTC",
				Szi:            "-0.25",
				EntryPx:        "60000",
				UnrealizedPnl:  "-10",
				ReturnOnEquity: "-0.01",
			}},
		},
	}
	spot := &hyperliquid.SpotState{
		Balances: []hyperliquid.SpotBalance{
			{Coin: "PURR", Total: "100", EntryNtl: "25.5"},
			{Coin: "USDC", Total: "50"},
			{Coin: "DUST", Total: "0"},
		},
	}

	text := formatPositions("whale", perp, spot)

	require.Contains(t, text, "*Wallet:* whale")
	require.Contains(t, text, "💵 *Perp USDC Account Value:* $12,345.68")
	require.Contains(t, text, "- ETH: LONG 1.5 @ 2000 | PnL: 120.5 | ROE: 4.56% | Liq: 1500")
	require.Contains(t, text, "- BTC: SHORT 0.25 @ 60000 | PnL: -10 | ROE: -1.00% | Liq: N/A")
	require.Contains(t, text, "- PURR: 100 (≈ $25.50)")
	require.Contains(t, text, "- USDC: 50")
	require.NotContains(t, text, "DUST")
}

func TestFormatPositions_EmptyWallet(t *testing.T) {
	text := formatPositions("0xabc", &hyperliquid.UserState{}, &hyperliquid.SpotState{})

	require.Contains(t, text, "*Wallet:* 0xabc")
	require.Contains(t, text, "📭 No open perpetual positions found.")
	require.Contains(t, text, "📭 No spot balances found.")
	require.NotContains(t, text, "Account Value")
}

func TestDeliver_NeverBlocksTheFeed(t *testing.T) {
	bot := &Telegram{
		log:      testLog(),
		outbound: make(chan outbound, 1),
	}

	// Nothing drains the queue here; the second call must drop, not block.
	bot.Deliver(1, "first")
	bot.Deliver(1, "second")

	require.Len(t, bot.outbound, 1)
	msg := <-bot.outbound
	require.Equal(t, "first", msg.text)
}

func TestFormatUSD(t *testing.T) {
	tests := []struct {
		value float64
		want  string
	}{
		{value: 0, want: "0.00"},
		{value: 25.5, want: "25.50"},
		{value: 999.999, want: "1,000.00"},
		{value: 12345.678, want: "12,345.68"},
		{value: 1234567.8, want: "1,234,567.80"},
		{value: -12345.678, want: "-12,345.68"},
	}

	for _, tc := range tests {
		require.Equal(t, tc.want, formatUSD(tc.value))
	}
}

func TestSavedWalletsText(t *testing.T) {
	wallets := []core.WalletEntry{
		{Address: "0x1111111111111111111111111111111111111111", Nickname: "whale"},
		{Address: "0x2222222222222222222222222222222222222222"},
	}

	text := savedWalletsText(wallets)

	require.Equal(t,
		"Saved Wallets\n"+
			"✅ whale\n"+
			"✅ 0x2222222222222222222222222222222222222222",
		text)
}

func TestWalletKeyboard(t *testing.T) {
	wallets := []core.WalletEntry{
		{Address: "0x1111111111111111111111111111111111111111", Nickname: "whale"},
		{Address: "0x2222222222222222222222222222222222222222"},
	}

	markup := walletKeyboard(wallets, "remove:")

	require.Len(t, markup.InlineKeyboard, 3)
	require.Equal(t, "whale", markup.InlineKeyboard[0][0].Text)
	require.Equal(t, "remove:0x1111111111111111111111111111111111111111", markup.InlineKeyboard[0][0].Data)
	require.Equal(t, wallets[1].Address, markup.InlineKeyboard[1][0].Text)
	require.Equal(t, "← Back", markup.InlineKeyboard[2][0].Text)
	require.Equal(t, "back", markup.InlineKeyboard[2][0].Data)
}
