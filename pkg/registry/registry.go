// Package registry holds the authoritative mapping between chat users and the
// wallet addresses they track.
package registry

import (
	"regexp"
	"strings"
	"sync"
	"unicode/utf8"

	"github.com/samber/lo"
	"github.com/superx-labs/hypertrack/pkg/core"
	"github.com/superx-labs/hypertrack/pkg/logger"
)

// addressPattern matches a venue account address: 0x followed by 40 hex chars.
var addressPattern = regexp.MustCompile(`^0x[a-fA-F0-9]{40}$`)

// Registry is the in-memory wallet store shared between the front end and the
// feed consumer. One mutex guards the user sets together with both derived
// indexes, so an add or remove can never race an in-flight attribution lookup.
type Registry struct {
	mu        sync.Mutex
	wallets   map[core.UserID][]core.WalletEntry
	owners    map[string]core.UserID // normalized address -> owning user
	nicknames map[string]string      // normalized address -> nickname

	subscriber core.WalletSubscriber
	log        logger.Logger
}

func New(log logger.Logger) *Registry {
	return &Registry{
		wallets:   make(map[core.UserID][]core.WalletEntry),
		owners:    make(map[string]core.UserID),
		nicknames: make(map[string]string),
		log:       log,
	}
}

// OnWalletAdded registers the subscriber notified for every accepted address.
func (r *Registry) OnWalletAdded(s core.WalletSubscriber) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.subscriber = s
}

// AddWallets validates and stores one wallet per input line, each shaped as
// "address[, nickname]". The whole batch is refused when it would push the
// user past capacity; otherwise lines are accepted or rejected individually.
// Re-adding an address already owned by another user transfers ownership to
// the caller.
func (r *Registry) AddWallets(user core.UserID, lines []string) (accepted []core.WalletEntry, rejected []core.Rejection) {
	r.mu.Lock()

	if len(r.wallets[user])+len(lines) > core.MaxWalletsPerUser {
		r.mu.Unlock()
		return nil, lo.Map(lines, func(line string, _ int) core.Rejection {
			return core.Rejection{Line: line, Reason: core.RejectCapacityExceeded}
		})
	}

	for _, line := range lines {
		parts := strings.SplitN(line, ",", 2)
		address := strings.TrimSpace(parts[0])

		if !addressPattern.MatchString(address) {
			rejected = append(rejected, core.Rejection{Line: line, Reason: core.RejectInvalidAddress})
			continue
		}

		var nickname string
		if len(parts) > 1 {
			nickname = strings.TrimSpace(parts[1])
		}
		// The limit counts characters, not bytes; nicknames are often
		// non-ASCII.
		if utf8.RuneCountInString(nickname) > core.MaxNicknameLen {
			rejected = append(rejected, core.Rejection{Line: line, Reason: core.RejectNicknameTooLong})
			continue
		}

		entry := core.WalletEntry{Address: address, Nickname: nickname}
		normalized := strings.ToLower(address)

		r.wallets[user] = append(r.wallets[user], entry)
		r.owners[normalized] = user
		if nickname != "" {
			r.nicknames[normalized] = nickname
		}

		accepted = append(accepted, entry)
	}

	subscriber := r.subscriber
	r.mu.Unlock()

	if subscriber != nil {
		for _, entry := range accepted {
			subscriber.SubscribeWallet(entry.Address)
			r.log.Infof("tracking wallet %s for user %d", entry.Address, user)
		}
	}

	return accepted, rejected
}

// ListWallets returns the user's wallets in insertion order.
func (r *Registry) ListWallets(user core.UserID) []core.WalletEntry {
	r.mu.Lock()
	defer r.mu.Unlock()

	entries := make([]core.WalletEntry, len(r.wallets[user]))
	copy(entries, r.wallets[user])
	return entries
}

// RemoveWallet drops the address from the user's set and clears both derived
// indexes for it. It reports whether anything was removed.
func (r *Registry) RemoveWallet(user core.UserID, address string) bool {
	normalized := strings.ToLower(address)

	r.mu.Lock()
	defer r.mu.Unlock()

	current := r.wallets[user]
	remaining := lo.Filter(current, func(entry core.WalletEntry, _ int) bool {
		return strings.ToLower(entry.Address) != normalized
	})

	if len(remaining) == len(current) {
		return false
	}

	r.wallets[user] = remaining
	delete(r.owners, normalized)
	delete(r.nicknames, normalized)
	return true
}

// ResolveOwner returns the user tracking the address, if any. Used by the
// attribution path, which drops fills for unowned addresses.
func (r *Registry) ResolveOwner(address string) (core.UserID, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	user, ok := r.owners[strings.ToLower(address)]
	return user, ok
}

// ResolveNickname returns the display nickname for the address, if set.
func (r *Registry) ResolveNickname(address string) (string, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	nickname, ok := r.nicknames[strings.ToLower(address)]
	return nickname, ok
}
