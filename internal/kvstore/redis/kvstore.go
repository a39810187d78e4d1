package redis

import (
	"context"
	"errors"

	goredis "github.com/redis/go-redis/v9"

	"github.com/frahmantamala/roster-management/internal/kvstore"
)

type Options struct {
	Addr     string
	Password string
	DB       int
	Prefix   string
}

// KVStore keeps each document as a plain redis string under Prefix+key.
type KVStore struct {
	client *goredis.Client
	prefix string
}

func New(opts Options) kvstore.Store {
	return NewWithClient(goredis.NewClient(&goredis.Options{
		Addr:     opts.Addr,
		Password: opts.Password,
		DB:       opts.DB,
	}), opts.Prefix)
}

func NewWithClient(client *goredis.Client, prefix string) *KVStore {
	return &KVStore{client: client, prefix: prefix}
}

func (s *KVStore) Key(key string) string {
	return s.prefix + key
}

func (s *KVStore) Get(ctx context.Context, key string) ([]byte, bool, error) {
	v, err := s.client.Get(ctx, s.Key(key)).Bytes()
	if err != nil {
		if errors.Is(err, goredis.Nil) {
			return nil, false, nil
		}
		return nil, false, err
	}
	return v, true, nil
}

func (s *KVStore) Set(ctx context.Context, key string, value []byte) error {
	return s.client.Set(ctx, s.Key(key), value, 0).Err()
}

func (s *KVStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

func (s *KVStore) Close() error {
	return s.client.Close()
}
