package hyperliquid

import "encoding/json"

// Message is one inbound frame from the streaming endpoint, tagged by
// channel with a channel-specific payload.
type Message struct {
	Channel string          `json:"channel"`
	Data    json.RawMessage `json:"data"`
}

// Streaming channels subscribed for every tracked wallet.
const (
	ChannelOrderUpdates = "orderUpdates"
	ChannelUserEvents   = "userEvents"
	ChannelUserFills    = "userFills"
)

// FillsUpdate is the userFills payload: the wallet the fills belong to, a
// flag marking the initial backfill sent on subscribe, and the fills.
type FillsUpdate struct {
	User       string `json:"user"`
	IsSnapshot bool   `json:"isSnapshot"`
	Fills      []Fill `json:"fills"`
}

// Fill is a single executed trade. Spot markets report Coin as "@<id>", a
// numeric market reference instead of a symbol.
type Fill struct {
	Coin     string `json:"coin"`
	Px       string `json:"px"`
	Sz       string `json:"sz"`
	Side     string `json:"side"` // "B" for buy, anything else is a sell
	Time     int64  `json:"time"` // millisecond epoch
	FeeToken string `json:"feeToken"`
	Oid      int64  `json:"oid"`
}

// OrderUpdate is one entry of the orderUpdates payload.
type OrderUpdate struct {
	Order  OrderInfo `json:"order"`
	Status string    `json:"status"`
}

type OrderInfo struct {
	Oid  int64  `json:"oid"`
	Coin string `json:"coin"`
}

// subscribeRequest is the outbound frame that opens one channel for one
// wallet.
type subscribeRequest struct {
	Method       string       `json:"method"`
	Subscription subscription `json:"subscription"`
}

type subscription struct {
	Type string `json:"type"`
	User string `json:"user"`
}

// SpotMeta is the venue's spot market metadata snapshot.
type SpotMeta struct {
	Universe []SpotPair  `json:"universe"`
	Tokens   []SpotToken `json:"tokens"`
}

// SpotPair is one spot market; Tokens lists positions into SpotMeta.Tokens,
// base token first.
type SpotPair struct {
	Name   string `json:"name"`
	Index  int    `json:"index"`
	Tokens []int  `json:"tokens"`
}

type SpotToken struct {
	Name  string `json:"name"`
	Index int    `json:"index"`
}

// UserState is the perpetual clearinghouse snapshot for a wallet.
type UserState struct {
	MarginSummary  MarginSummary   `json:"marginSummary"`
	AssetPositions []AssetPosition `json:"assetPositions"`
}

type MarginSummary struct {
	AccountValue string `json:"accountValue"`
}

type AssetPosition struct {
	Position Position `json:"position"`
}

// Position is one open perpetual position. Numeric fields arrive as strings;
// Szi is signed, negative for shorts. LiquidationPx is null for unleveraged
// positions.
type Position struct {
	Coin           string  `json:"coin"`
	Szi            string  `json:"szi"`
	EntryPx        string  `json:"entryPx"`
	LiquidationPx  *string `json:"liquidationPx"`
	UnrealizedPnl  string  `json:"unrealizedPnl"`
	ReturnOnEquity string  `json:"returnOnEquity"`
}

// SpotState is the spot balance snapshot for a wallet.
type SpotState struct {
	Balances []SpotBalance `json:"balances"`
}

type SpotBalance struct {
	Coin     string `json:"coin"`
	Total    string `json:"total"`
	EntryNtl string `json:"entryNtl"`
}
