package hyperliquid

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
	zl "github.com/superx-labs/hypertrack/pkg/logger/zerolog"
)

type fakeMetaSource struct {
	meta *SpotMeta
	err  error
}

func (f *fakeMetaSource) SpotMetaAndAssetCtxs(context.Context) (*SpotMeta, error) {
	return f.meta, f.err
}

func testLog() *zl.Adapter {
	nop := zerolog.Nop()
	return zl.NewAdapter(&nop)
}

func TestBuildTokenTable(t *testing.T) {
	source := &fakeMetaSource{meta: &SpotMeta{
		Universe: []SpotPair{
			{Name: "PURR/USDC", Index: 0, Tokens: []int{1, 0}},
			{Name: "@3", Index: 3, Tokens: []int{2, 0}},
			{Name: "broken", Index: 5, Tokens: []int{42, 0}}, // token out of range
			{Name: "empty", Index: 6, Tokens: nil},
		},
		Tokens: []SpotToken{
			{Name: "USDC", Index: 0},
			{Name: "PURR", Index: 1},
			{Name: "HFUN", Index: 2},
		},
	}}

	table := BuildTokenTable(context.Background(), source, testLog())

	name, ok := table.Name(0)
	require.True(t, ok)
	require.Equal(t, "PURR", name)

	name, ok = table.Name(3)
	require.True(t, ok)
	require.Equal(t, "HFUN", name)

	_, ok = table.Name(5)
	require.False(t, ok)
	_, ok = table.Name(6)
	require.False(t, ok)
}

func TestBuildTokenTable_FetchFailureDegrades(t *testing.T) {
	source := &fakeMetaSource{err: errors.New("venue is down")}

	table := BuildTokenTable(context.Background(), source, testLog())

	require.Empty(t, table)
	_, ok := table.Name(3)
	require.False(t, ok)
}
