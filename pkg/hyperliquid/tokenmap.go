package hyperliquid

import (
	"context"

	"github.com/superx-labs/hypertrack/pkg/logger"
)

// TokenTable maps a spot market's numeric id to its base asset name. Built
// once at startup and never refreshed, so markets listed afterwards stay
// unresolved.
type TokenTable map[int]string

// Name resolves a spot market id to its base asset name.
func (t TokenTable) Name(id int) (string, bool) {
	name, ok := t[id]
	return name, ok
}

// SpotMetaSource provides the metadata snapshot the table is built from.
type SpotMetaSource interface {
	SpotMetaAndAssetCtxs(ctx context.Context) (*SpotMeta, error)
}

// BuildTokenTable builds the spot id table from the venue's metadata
// snapshot. Failure is non-fatal: alerts fall back to raw numeric market
// references and the bot keeps running.
func BuildTokenTable(ctx context.Context, source SpotMetaSource, log logger.Logger) TokenTable {
	table := TokenTable{}

	meta, err := source.SpotMetaAndAssetCtxs(ctx)
	if err != nil {
		log.WithError(err).Error("failed to load spot asset map, continuing with raw market ids")
		return table
	}

	for _, pair := range meta.Universe {
		if len(pair.Tokens) == 0 {
			continue
		}

		base := pair.Tokens[0]
		if base < 0 || base >= len(meta.Tokens) {
			log.Warnf("spot market %d references unknown token %d", pair.Index, base)
			continue
		}

		table[pair.Index] = meta.Tokens[base].Name
	}

	log.Infof("loaded %d spot market names", len(table))
	return table
}
