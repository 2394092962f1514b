package store

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/valkey-io/valkey-go"
)

var _ fiber.Storage = (*ValkeyStore)(nil)

const valkeyOpTimeout = 2 * time.Second

// ValkeyStore keeps session data in a Valkey-compatible database so several
// server processes can share visitor preferences.
type ValkeyStore struct {
	client valkey.Client
	prefix string
}

// NewValkeyStore wraps an existing client. Keys are namespaced with prefix.
func NewValkeyStore(client valkey.Client, prefix string) *ValkeyStore {
	if prefix == "" {
		prefix = "session"
	}
	return &ValkeyStore{client: client, prefix: prefix}
}

// DialValkey connects to addr and checks the connection with PING.
func DialValkey(ctx context.Context, addr string) (valkey.Client, error) {
	client, err := valkey.NewClient(valkey.ClientOption{InitAddress: []string{addr}})
	if err != nil {
		return nil, err
	}
	if err := client.Do(ctx, client.B().Ping().Build()).Error(); err != nil {
		client.Close()
		return nil, err
	}
	return client, nil
}

func (s *ValkeyStore) Get(key string) ([]byte, error) {
	if key == "" {
		return nil, nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), valkeyOpTimeout)
	defer cancel()

	val, err := s.client.Do(ctx, s.client.B().Get().Key(s.key(key)).Build()).AsBytes()
	if err != nil {
		if valkey.IsValkeyNil(err) {
			return nil, nil
		}
		return nil, err
	}
	return val, nil
}

func (s *ValkeyStore) Set(key string, val []byte, exp time.Duration) error {
	if key == "" || len(val) == 0 {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), valkeyOpTimeout)
	defer cancel()

	builder := s.client.B().Set().Key(s.key(key)).Value(valkey.BinaryString(val))
	var cmd valkey.Completed
	if exp > 0 {
		if exp < time.Second {
			exp = time.Second
		}
		cmd = builder.Ex(exp).Build()
	} else {
		cmd = builder.Build()
	}
	return s.client.Do(ctx, cmd).Error()
}

func (s *ValkeyStore) Delete(key string) error {
	if key == "" {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), valkeyOpTimeout)
	defer cancel()
	return s.client.Do(ctx, s.client.B().Del().Key(s.key(key)).Build()).Error()
}

// Reset deletes every key under the store prefix.
func (s *ValkeyStore) Reset() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var cursor uint64
	for {
		entry, err := s.client.Do(ctx, s.client.B().Scan().Cursor(cursor).Match(s.prefix+":*").Count(100).Build()).AsScanEntry()
		if err != nil {
			return err
		}
		if len(entry.Elements) > 0 {
			if err := s.client.Do(ctx, s.client.B().Del().Key(entry.Elements...).Build()).Error(); err != nil {
				return err
			}
		}
		cursor = entry.Cursor
		if cursor == 0 {
			return nil
		}
	}
}

func (s *ValkeyStore) Close() error {
	s.client.Close()
	return nil
}

func (s *ValkeyStore) key(k string) string {
	return s.prefix + ":" + k
}
