// Package storage provides the transient caches backing the feed consumer.
package storage

import (
	"fmt"
	"strconv"
	"time"

	"github.com/tidwall/buntdb"
)

// OrderCache keeps a short-lived order id to market symbol mapping fed by the
// orderUpdates channel. It exists for diagnostics only, so entries expire
// instead of accumulating for the process lifetime.
type OrderCache struct {
	db  *buntdb.DB
	ttl time.Duration
}

// NewOrderCache creates an in-memory cache whose entries expire after ttl.
func NewOrderCache(ttl time.Duration) (*OrderCache, error) {
	db, err := buntdb.Open(":memory:")
	if err != nil {
		return nil, fmt.Errorf("failed to open order cache: %w", err)
	}

	return &OrderCache{db: db, ttl: ttl}, nil
}

// Put records the market symbol for an order id.
func (c *OrderCache) Put(oid int64, coin string) error {
	return c.db.Update(func(tx *buntdb.Tx) error {
		_, _, err := tx.Set(strconv.FormatInt(oid, 10), coin, &buntdb.SetOptions{
			Expires: true,
			TTL:     c.ttl,
		})
		if err != nil {
			return fmt.Errorf("failed to store order %d: %w", oid, err)
		}
		return nil
	})
}

// Coin returns the market symbol recorded for the order id, if still cached.
func (c *OrderCache) Coin(oid int64) (string, bool) {
	var coin string

	err := c.db.View(func(tx *buntdb.Tx) error {
		value, err := tx.Get(strconv.FormatInt(oid, 10))
		if err != nil {
			return err
		}
		coin = value
		return nil
	})
	if err != nil {
		return "", false
	}

	return coin, true
}

// Close closes the underlying store.
func (c *OrderCache) Close() error {
	if c.db != nil {
		return c.db.Close()
	}
	return nil
}
