package cache

import (
	"context"
	"crypto/md5"
	"encoding/hex"
	"fmt"
	"time"
)

// BytesCache is a minimal cache API storing raw bytes with TTL.
type BytesCache interface {
	GetBytes(ctx context.Context, key string) (b []byte, ok bool, err error)
	SetBytes(ctx context.Context, key string, value []byte, ttl time.Duration) error
}

// Key joins prefix and params and hashes the params part, so arbitrary
// series lists stay within key length limits.
func Key(prefix string, params ...interface{}) string {
	raw := ""
	for _, p := range params {
		raw = fmt.Sprintf("%s:%v", raw, p)
	}
	sum := md5.Sum([]byte(raw))
	return prefix + ":" + hex.EncodeToString(sum[:])
}
