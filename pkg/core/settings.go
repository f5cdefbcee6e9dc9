package core

import "time"

// MaxWalletsPerUser bounds how many wallets a single chat user may track.
const MaxWalletsPerUser = 2

// MaxNicknameLen bounds the length of a user-supplied wallet nickname.
const MaxNicknameLen = 40

// Settings represents the main configuration for the application
type Settings struct {
	Telegram    TelegramSettings
	Hyperliquid HyperliquidSettings
}

// TelegramSettings holds configuration for the Telegram front end
type TelegramSettings struct {
	Token string // Telegram bot token
}

// HyperliquidSettings holds endpoints and bounds for the venue connection
type HyperliquidSettings struct {
	APIURL         string        // REST info endpoint base, e.g. https://api.hyperliquid.xyz
	WSURL          string        // streaming endpoint, e.g. wss://api.hyperliquid.xyz/ws
	RequestTimeout time.Duration // bound for every outbound REST call
	WriteTimeout   time.Duration // bound for every websocket write
	OrderCacheTTL  time.Duration // eviction window for the recent-order cache
}
