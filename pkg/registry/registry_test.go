package registry

import (
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
	"github.com/superx-labs/hypertrack/pkg/core"
	zl "github.com/superx-labs/hypertrack/pkg/logger/zerolog"
)

const (
	addrA = "0x09864079acF6b8EBe2BcDd8304c4C76ee1E48C24"
	addrB = "0x1111111111111111111111111111111111111111"
	addrC = "0x2222222222222222222222222222222222222222"
)

func newTestRegistry() *Registry {
	nop := zerolog.Nop()
	return New(zl.NewAdapter(&nop))
}

type subscriberSpy struct {
	addresses []string
}

func (s *subscriberSpy) SubscribeWallet(address string) {
	s.addresses = append(s.addresses, address)
}

func TestRegistry_AddWallets(t *testing.T) {
	r := newTestRegistry()

	accepted, rejected := r.AddWallets(1, []string{
		addrA + ", whale one",
		"not-an-address",
	})

	require.Len(t, accepted, 1)
	require.Equal(t, addrA, accepted[0].Address)
	require.Equal(t, "whale one", accepted[0].Nickname)
	require.Len(t, rejected, 1)
	require.Equal(t, core.RejectInvalidAddress, rejected[0].Reason)
}

func TestRegistry_AddWallets_NicknameTooLong(t *testing.T) {
	r := newTestRegistry()

	long := strings.Repeat("x", core.MaxNicknameLen+1)

	accepted, rejected := r.AddWallets(1, []string{addrA + ", " + long})

	require.Empty(t, accepted)
	require.Len(t, rejected, 1)
	require.Equal(t, core.RejectNicknameTooLong, rejected[0].Reason)

	// The offending wallet is skipped entirely, not just its nickname.
	_, ok := r.ResolveOwner(addrA)
	require.False(t, ok)
}

func TestRegistry_AddWallets_NicknameLengthCountsCharacters(t *testing.T) {
	r := newTestRegistry()

	// Exactly at the limit but multibyte in UTF-8; must be accepted.
	accepted, rejected := r.AddWallets(1, []string{addrA + ", " + strings.Repeat("ф", core.MaxNicknameLen)})
	require.Len(t, accepted, 1)
	require.Empty(t, rejected)

	// One character over the limit is still rejected.
	_, rejected = r.AddWallets(2, []string{addrB + ", " + strings.Repeat("ф", core.MaxNicknameLen+1)})
	require.Len(t, rejected, 1)
	require.Equal(t, core.RejectNicknameTooLong, rejected[0].Reason)
}

func TestRegistry_AddWallets_CapacityIsAllOrNothing(t *testing.T) {
	r := newTestRegistry()

	accepted, _ := r.AddWallets(1, []string{addrA})
	require.Len(t, accepted, 1)

	accepted, rejected := r.AddWallets(1, []string{addrB, addrC, "garbage"})
	require.Empty(t, accepted)
	require.Len(t, rejected, 3)
	for _, rej := range rejected {
		require.Equal(t, core.RejectCapacityExceeded, rej.Reason)
	}

	// The existing wallet is untouched.
	require.Len(t, r.ListWallets(1), 1)
	_, ok := r.ResolveOwner(addrB)
	require.False(t, ok)
}

func TestRegistry_AddWallets_NotifiesSubscriber(t *testing.T) {
	r := newTestRegistry()
	spy := &subscriberSpy{}
	r.OnWalletAdded(spy)

	r.AddWallets(1, []string{addrA, "bogus line"})

	require.Equal(t, []string{addrA}, spy.addresses)
}

func TestRegistry_ListWallets_PreservesInsertionOrder(t *testing.T) {
	r := newTestRegistry()

	r.AddWallets(1, []string{addrB + ", second"})
	r.AddWallets(1, []string{addrA + ", first"})

	wallets := r.ListWallets(1)
	require.Len(t, wallets, 2)
	require.Equal(t, addrB, wallets[0].Address)
	require.Equal(t, addrA, wallets[1].Address)
}

func TestRegistry_RemoveWallet_ClearsIndexes(t *testing.T) {
	r := newTestRegistry()

	r.AddWallets(1, []string{addrA + ", whale"})

	// Removal normalizes case before lookup.
	require.True(t, r.RemoveWallet(1, addrA))

	require.Empty(t, r.ListWallets(1))
	_, ok := r.ResolveOwner(addrA)
	require.False(t, ok)
	_, ok = r.ResolveNickname(addrA)
	require.False(t, ok)

	require.False(t, r.RemoveWallet(1, addrA))
}

func TestRegistry_ResolveOwner_IsCaseInsensitive(t *testing.T) {
	r := newTestRegistry()

	r.AddWallets(7, []string{addrA})

	owner, ok := r.ResolveOwner("0X09864079ACF6B8EBE2BCDD8304C4C76EE1E48C24")
	require.True(t, ok)
	require.Equal(t, core.UserID(7), owner)
}

// Re-adding an address under a different user silently transfers ownership.
// This pins the current behavior while the product decision is pending.
func TestRegistry_ReAdd_TransfersOwnership(t *testing.T) {
	r := newTestRegistry()

	r.AddWallets(1, []string{addrA})
	r.AddWallets(2, []string{addrA})

	owner, ok := r.ResolveOwner(addrA)
	require.True(t, ok)
	require.Equal(t, core.UserID(2), owner)
}
