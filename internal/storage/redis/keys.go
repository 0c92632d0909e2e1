package redis

import "fmt"

// Key generation functions for each entity type

// sequenceKey returns the Redis key for the score ID counter
func (s *Store) sequenceKey() string {
	return fmt.Sprintf("%s:seq", s.cfg.Prefix)
}

// scoreKey returns the Redis key for the HASH holding one finished game
func (s *Store) scoreKey(id int64) string {
	return fmt.Sprintf("%s:score:%d", s.cfg.Prefix, id)
}

// leaderboardKey returns the Redis key for the ZSET of score IDs in a mode
func (s *Store) leaderboardKey(mode string) string {
	return fmt.Sprintf("%s:leaderboard:%s", s.cfg.Prefix, mode)
}

// bestKey returns the Redis key for the best score of a mode
func (s *Store) bestKey(mode string) string {
	return fmt.Sprintf("%s:best:%s", s.cfg.Prefix, mode)
}

// statsKey returns the Redis key for the HASH of running totals in a mode
func (s *Store) statsKey(mode string) string {
	return fmt.Sprintf("%s:stats:%s", s.cfg.Prefix, mode)
}
