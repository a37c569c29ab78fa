package storage

import (
	"context"
	"encoding/binary"
	"io"

	"github.com/VictoriaMetrics/fastcache"
)

// Cached decorates a Storage with a process wide cache of contract bytecode.
// Bytecode is immutable once deployed, so entries never need invalidation.
type Cached struct {
	Storage
	bytecode *fastcache.Cache
}

// NewCached wraps store with a bytecode cache of maxBytes.
func NewCached(store Storage, maxBytes int) *Cached {
	return &Cached{
		Storage:  store,
		bytecode: fastcache.New(maxBytes),
	}
}

func (c *Cached) RuntimeBytecode(ctx context.Context, contractID int64) ([]byte, error) {
	var key [8]byte
	binary.BigEndian.PutUint64(key[:], uint64(contractID))
	if code := c.bytecode.GetBig(nil, key[:]); len(code) > 0 {
		return code, nil
	}
	code, err := c.Storage.RuntimeBytecode(ctx, contractID)
	if err != nil {
		return nil, err
	}
	if len(code) > 0 {
		c.bytecode.SetBig(key[:], code)
	}
	return code, nil
}

// Stats reports cache occupancy.
func (c *Cached) Stats() fastcache.Stats {
	var s fastcache.Stats
	c.bytecode.UpdateStats(&s)
	return s
}

// Close releases the cache and closes the wrapped store when it holds a
// connection.
func (c *Cached) Close() error {
	c.bytecode.Reset()
	if closer, ok := c.Storage.(io.Closer); ok {
		return closer.Close()
	}
	return nil
}
