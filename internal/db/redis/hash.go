package redis

import (
	"context"

	"github.com/trinetra-labs/trinetra/internal/db"
)

// HSet writes hash fields at the given key.
func (s *Store) HSet(ctx context.Context, key string, fields map[string]string) error {
	builder := s.b().Hset().Key(key).FieldValue()
	for f, v := range fields {
		builder = builder.FieldValue(f, v)
	}
	if err := s.do(ctx, builder.Build()).Error(); err != nil {
		return &db.Error{Op: db.OpHSet, Err: err}
	}
	return nil
}

// HGetAll reads every hash field at the given key. A missing key yields
// an empty map, mirroring Redis semantics.
func (s *Store) HGetAll(ctx context.Context, key string) (map[string]string, error) {
	cmd := s.b().Hgetall().Key(key).Build()
	fields, err := s.do(ctx, cmd).AsStrMap()
	if err != nil {
		return nil, &db.Error{Op: db.OpHGet, Err: err}
	}
	return fields, nil
}
