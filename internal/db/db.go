// Package db defines the storage contract the repositories are written
// against. The concrete driver lives in db/redis.
package db

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// ErrKeyNotFound signals a missing key.
var ErrKeyNotFound = errors.New("key not found")

// Op identifies a storage operation for error reporting.
type Op string

// Storage operations.
const (
	OpGet    Op = "get"
	OpSet    Op = "set"
	OpDel    Op = "del"
	OpHSet   Op = "hset"
	OpHGet   Op = "hgetall"
	OpLPush  Op = "lpush"
	OpLRange Op = "lrange"
	OpLTrim  Op = "ltrim"
	OpExists Op = "exists"
)

// Error wraps a driver failure with the operation that produced it.
type Error struct {
	Op  Op
	Err error
}

func (e *Error) Error() string { return fmt.Sprintf("db %s: %v", e.Op, e.Err) }

func (e *Error) Unwrap() error { return e.Err }

// Store is the storage facade combining all sub-interfaces. Consumers
// declare the narrow subset they need.
type Store interface {
	Pinger
	KVStore
	HashStore
	ListStore
	Close()
	WaitForReady(ctx context.Context, timeout time.Duration) error
}

// Pinger checks database connectivity.
type Pinger interface {
	Ping(ctx context.Context) error
}

// KVStore provides simple key-value operations.
type KVStore interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Del(ctx context.Context, key string) error
	Exists(ctx context.Context, key string) (bool, error)
}

// HashStore provides hash field operations.
type HashStore interface {
	HSet(ctx context.Context, key string, fields map[string]string) error
	HGetAll(ctx context.Context, key string) (map[string]string, error)
}

// ListStore provides list operations for append-style records.
type ListStore interface {
	LPush(ctx context.Context, key string, values ...string) error
	LRange(ctx context.Context, key string, start, stop int64) ([]string, error)
	LTrim(ctx context.Context, key string, start, stop int64) error
}
