package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/mcoot/sosgame/internal/model"
	"github.com/mcoot/sosgame/internal/storage"
)

// Storage is a Redis-backed implementation of the storage interface
type Storage struct {
	client *redis.Client
	cfg    Config
}

// New creates a new Redis storage instance
func New(cfg Config) (*Storage, error) {
	opts, err := redis.ParseURL(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}

	opts.PoolSize = cfg.PoolSize
	opts.MinIdleConns = cfg.MinIdleConns

	client := redis.NewClient(opts)

	// Verify connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}

	return NewWithClient(client, cfg), nil
}

// NewWithClient creates a Redis storage with an existing client (for testing)
func NewWithClient(client *redis.Client, cfg Config) *Storage {
	return &Storage{
		client: client,
		cfg:    cfg,
	}
}

// Close closes the Redis connection
func (s *Storage) Close() error {
	return s.client.Close()
}

var _ storage.Storage = (*Storage)(nil)

func (s *Storage) SaveMatch(ctx context.Context, match *model.Match) error {
	data, err := json.Marshal(match)
	if err != nil {
		return err
	}

	code := string(match.Code)

	// Match body and indexes are written in one transaction
	pipe := s.client.TxPipeline()
	pipe.Set(ctx, matchKey(match.Code), data, s.cfg.MatchTTL)
	pipe.SAdd(ctx, allMatchesIndexKey(), code)
	for _, p := range match.Players {
		pipe.SAdd(ctx, playerMatchesIndexKey(p.ID), code)
	}
	_, err = pipe.Exec(ctx)
	return err
}

func (s *Storage) GetMatch(ctx context.Context, code model.MatchCode) (*model.Match, error) {
	data, err := s.client.Get(ctx, matchKey(code)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, model.ErrNotFound
		}
		return nil, err
	}

	var match model.Match
	if err := json.Unmarshal(data, &match); err != nil {
		return nil, err
	}
	return &match, nil
}

func (s *Storage) DeleteMatch(ctx context.Context, code model.MatchCode) error {
	match, err := s.GetMatch(ctx, code)
	if err != nil && !errors.Is(err, model.ErrNotFound) {
		return err
	}

	pipe := s.client.TxPipeline()
	pipe.Del(ctx, matchKey(code))
	pipe.SRem(ctx, allMatchesIndexKey(), string(code))
	if match != nil {
		for _, p := range match.Players {
			pipe.SRem(ctx, playerMatchesIndexKey(p.ID), string(code))
		}
	}
	_, err = pipe.Exec(ctx)
	return err
}

func (s *Storage) MatchExists(ctx context.Context, code model.MatchCode) (bool, error) {
	exists, err := s.client.Exists(ctx, matchKey(code)).Result()
	if err != nil {
		return false, err
	}
	return exists > 0, nil
}

func (s *Storage) ListMatches(ctx context.Context) ([]*model.Match, error) {
	matches, err := s.loadIndexed(ctx, allMatchesIndexKey())
	if err != nil {
		return nil, err
	}
	storage.SortOldestFirst(matches)
	return matches, nil
}

func (s *Storage) ListMatchesForPlayer(ctx context.Context, id model.PlayerID) ([]*model.Match, error) {
	indexKey := playerMatchesIndexKey(id)
	candidates, err := s.loadIndexed(ctx, indexKey)
	if err != nil {
		return nil, err
	}

	// The index is append-only while a match lives, so drop departed seats
	matches := make([]*model.Match, 0, len(candidates))
	for _, m := range candidates {
		if m.HasPlayer(id) {
			matches = append(matches, m)
			continue
		}
		if err := s.client.SRem(ctx, indexKey, string(m.Code)).Err(); err != nil {
			return nil, err
		}
	}
	storage.SortOldestFirst(matches)
	return matches, nil
}

// loadIndexed fetches every match named in an index set, pruning codes whose
// match has expired or been deleted
func (s *Storage) loadIndexed(ctx context.Context, indexKey string) ([]*model.Match, error) {
	codes, err := s.client.SMembers(ctx, indexKey).Result()
	if err != nil {
		return nil, err
	}
	if len(codes) == 0 {
		return []*model.Match{}, nil
	}

	keys := make([]string, len(codes))
	for i, code := range codes {
		keys[i] = matchKey(model.MatchCode(code))
	}

	values, err := s.client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, err
	}

	matches := make([]*model.Match, 0, len(values))
	var stale []any
	for i, val := range values {
		raw, ok := val.(string)
		if !ok {
			stale = append(stale, codes[i])
			continue
		}
		var match model.Match
		if err := json.Unmarshal([]byte(raw), &match); err != nil {
			return nil, fmt.Errorf("decode match %s: %w", codes[i], err)
		}
		matches = append(matches, &match)
	}

	if len(stale) > 0 {
		if err := s.client.SRem(ctx, indexKey, stale...).Err(); err != nil {
			return nil, err
		}
	}
	return matches, nil
}
