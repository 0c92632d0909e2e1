// Package redis provides a Redis-backed score store, used when several
// servers share one leaderboard.
package redis

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/vovakirdan/merge2048/internal/config"
	"github.com/vovakirdan/merge2048/internal/registry"
	"github.com/vovakirdan/merge2048/internal/storage"
)

func init() {
	registry.Register(config.BackendRedis, "shared Redis leaderboard", func(ctx context.Context, sc config.StorageConfig) (storage.ScoreStore, error) {
		cfg := DefaultConfig()
		if sc.RedisURL != "" {
			cfg.URL = sc.RedisURL
		}
		if sc.RedisPrefix != "" {
			cfg.Prefix = sc.RedisPrefix
		}
		return New(ctx, cfg)
	})
}

// raiseBest sets KEYS[1] to ARGV[1] when the stored value is lower or
// not a number.
var raiseBest = redis.NewScript(`
local current = tonumber(redis.call("GET", KEYS[1]))
local score = tonumber(ARGV[1])
if current == nil or score > current then
	redis.call("SET", KEYS[1], ARGV[1])
	return 1
end
return 0
`)

// scoreRecord is the HASH layout of one finished game.
type scoreRecord struct {
	Mode      string `redis:"mode"`
	Player    string `redis:"player"`
	Score     int    `redis:"score"`
	MaxTile   int    `redis:"max_tile"`
	CreatedAt int64  `redis:"created_at"`
}

// Store is a Redis-backed implementation of storage.ScoreStore
type Store struct {
	client *redis.Client
	cfg    Config
	now    func() time.Time
}

// New creates a new Redis store and verifies the connection
func New(ctx context.Context, cfg Config) (*Store, error) {
	opts, err := redis.ParseURL(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("storage: invalid redis url: %w", err)
	}

	opts.PoolSize = cfg.PoolSize
	opts.MinIdleConns = cfg.MinIdleConns

	client := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("storage: cannot connect to redis: %w", err)
	}

	return NewWithClient(client, cfg), nil
}

// NewWithClient creates a Redis store with an existing client (for testing)
func NewWithClient(client *redis.Client, cfg Config) *Store {
	if cfg.Prefix == "" {
		cfg.Prefix = DefaultConfig().Prefix
	}
	return &Store{
		client: client,
		cfg:    cfg,
		now:    time.Now,
	}
}

// Close closes the Redis connection
func (s *Store) Close() error {
	return s.client.Close()
}

// Ensure Store implements the interface
var _ storage.ScoreStore = (*Store)(nil)

// SaveScore records a finished game and returns its sequence ID.
func (s *Store) SaveScore(ctx context.Context, entry storage.ScoreEntry) (int64, error) {
	id, err := s.client.Incr(ctx, s.sequenceKey()).Result()
	if err != nil {
		return 0, fmt.Errorf("storage: cannot allocate score id: %w", err)
	}

	createdAt := entry.CreatedAt
	if createdAt.IsZero() {
		createdAt = s.now()
	}

	rec := scoreRecord{
		Mode:      entry.Mode,
		Player:    entry.Player,
		Score:     entry.Score,
		MaxTile:   entry.MaxTile,
		CreatedAt: createdAt.UnixNano(),
	}

	// Use a transaction so the leaderboard never points at a missing hash
	_, err = s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.HSet(ctx, s.scoreKey(id), rec)
		pipe.ZAdd(ctx, s.leaderboardKey(entry.Mode), redis.Z{
			Score:  float64(entry.Score),
			Member: strconv.FormatInt(id, 10),
		})
		pipe.HIncrBy(ctx, s.statsKey(entry.Mode), "games", 1)
		pipe.HIncrBy(ctx, s.statsKey(entry.Mode), "total", int64(entry.Score))
		pipe.HSet(ctx, s.statsKey(entry.Mode), "last", rec.CreatedAt)
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("storage: cannot save score: %w", err)
	}
	return id, nil
}

// TopScores retrieves the top N scores for the given mode.
func (s *Store) TopScores(ctx context.Context, mode string, limit int) ([]storage.ScoreEntry, error) {
	if limit <= 0 {
		limit = storage.DefaultTopLimit
	}

	ids, err := s.client.ZRevRange(ctx, s.leaderboardKey(mode), 0, int64(limit-1)).Result()
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query scores: %w", err)
	}
	if len(ids) == 0 {
		return nil, nil
	}

	cmds := make([]*redis.MapStringStringCmd, len(ids))
	_, err = s.client.Pipelined(ctx, func(pipe redis.Pipeliner) error {
		for i, member := range ids {
			id, _ := strconv.ParseInt(member, 10, 64)
			cmds[i] = pipe.HGetAll(ctx, s.scoreKey(id))
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("storage: cannot load scores: %w", err)
	}

	entries := make([]storage.ScoreEntry, 0, len(ids))
	for i, cmd := range cmds {
		var rec scoreRecord
		if err := cmd.Scan(&rec); err != nil {
			return nil, fmt.Errorf("storage: cannot decode score %s: %w", ids[i], err)
		}
		id, _ := strconv.ParseInt(ids[i], 10, 64)
		entries = append(entries, storage.ScoreEntry{
			ID:        id,
			Mode:      rec.Mode,
			Player:    rec.Player,
			Score:     rec.Score,
			MaxTile:   rec.MaxTile,
			CreatedAt: time.Unix(0, rec.CreatedAt),
		})
	}
	return entries, nil
}

// HighScore returns the larger of the recorded best and the top finished
// game. A best value that isn't a number reads as 0.
func (s *Store) HighScore(ctx context.Context, mode string) (int, error) {
	best := 0
	raw, err := s.client.Get(ctx, s.bestKey(mode)).Result()
	switch {
	case errors.Is(err, redis.Nil):
	case err != nil:
		return 0, fmt.Errorf("storage: cannot query high score: %w", err)
	default:
		if v, err := strconv.Atoi(raw); err == nil && v > 0 {
			best = v
		}
	}

	top, err := s.client.ZRevRangeWithScores(ctx, s.leaderboardKey(mode), 0, 0).Result()
	if err != nil {
		return 0, fmt.Errorf("storage: cannot query high score: %w", err)
	}
	if len(top) > 0 {
		best = max(best, int(top[0].Score))
	}
	return best, nil
}

// SetHighScore raises the stored best score; lower values are ignored.
func (s *Store) SetHighScore(ctx context.Context, mode string, score int) error {
	if err := raiseBest.Run(ctx, s.client, []string{s.bestKey(mode)}, score).Err(); err != nil {
		return fmt.Errorf("storage: cannot save high score: %w", err)
	}
	return nil
}

// Stats retrieves aggregated statistics for the given mode.
func (s *Store) Stats(ctx context.Context, mode string) (storage.Stats, error) {
	stats := storage.Stats{Mode: mode}

	fields, err := s.client.HGetAll(ctx, s.statsKey(mode)).Result()
	if err != nil {
		return stats, fmt.Errorf("storage: cannot get stats: %w", err)
	}
	stats.GamesCount, _ = strconv.Atoi(fields["games"])
	stats.TotalScore, _ = strconv.ParseInt(fields["total"], 10, 64)
	if last, err := strconv.ParseInt(fields["last"], 10, 64); err == nil {
		stats.LastPlayed = time.Unix(0, last)
	}
	if stats.GamesCount > 0 {
		stats.AvgScore = float64(stats.TotalScore) / float64(stats.GamesCount)
	}

	top, err := s.client.ZRevRangeWithScores(ctx, s.leaderboardKey(mode), 0, 0).Result()
	if err != nil {
		return stats, fmt.Errorf("storage: cannot get stats: %w", err)
	}
	if len(top) > 0 {
		stats.HighScore = int(top[0].Score)
	}
	return stats, nil
}

// ClearScores deletes all scores, stats and the best score for the given mode.
func (s *Store) ClearScores(ctx context.Context, mode string) error {
	ids, err := s.client.ZRange(ctx, s.leaderboardKey(mode), 0, -1).Result()
	if err != nil {
		return fmt.Errorf("storage: cannot clear scores: %w", err)
	}

	keys := []string{s.leaderboardKey(mode), s.statsKey(mode), s.bestKey(mode)}
	for _, member := range ids {
		id, _ := strconv.ParseInt(member, 10, 64)
		keys = append(keys, s.scoreKey(id))
	}

	if err := s.client.Del(ctx, keys...).Err(); err != nil {
		return fmt.Errorf("storage: cannot clear scores: %w", err)
	}
	return nil
}
