package core

// UserID identifies a chat user on the front end.
type UserID int64

// WalletEntry is a tracked wallet as registered by a user. Address keeps the
// case the user typed for display; lookups always go through a lowercased
// form.
type WalletEntry struct {
	Address  string
	Nickname string
}

// Label returns the display name for the wallet: the nickname when one was
// assigned, the address otherwise.
func (w WalletEntry) Label() string {
	if w.Nickname != "" {
		return w.Nickname
	}
	return w.Address
}

// Rejection describes an input line refused by the registry.
type Rejection struct {
	Line   string
	Reason RejectReason
}

// Notifier delivers a formatted alert to a chat user. Implementations must be
// safe to call from the feed goroutine and must never block it.
type Notifier interface {
	Deliver(user UserID, text string)
}

// WalletSubscriber is notified whenever the registry accepts a new wallet,
// so the feed connection can start streaming events for it.
type WalletSubscriber interface {
	SubscribeWallet(address string)
}
