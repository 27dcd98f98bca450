package app

import (
	"context"

	"github.com/rs/zerolog/log"
)

// CacheStats summarizes the on-disk resolution cache.
func (s Service) CacheStats(ctx context.Context) (CacheStatsResult, error) {
	stats, err := s.Cache.Stats()
	if err != nil {
		return CacheStatsResult{}, err
	}
	return CacheStatsResult{
		Dir:        s.Cache.Dir,
		Entries:    stats.Entries,
		Expired:    stats.Expired,
		TotalBytes: stats.TotalBytes,
	}, nil
}

// CacheClear drops every cached resolution and returns the count.
func (s Service) CacheClear(ctx context.Context) (int, error) {
	removed, err := s.Cache.ClearAll()
	if err != nil {
		return removed, err
	}
	log.Ctx(ctx).Info().Int("removed", removed).Msg("resolution cache cleared")
	return removed, nil
}

// CachePrune drops expired and undecodable entries.
func (s Service) CachePrune(ctx context.Context) (int, error) {
	removed, err := s.Cache.PruneExpired()
	if err != nil {
		return removed, err
	}
	log.Ctx(ctx).Info().Int("removed", removed).Msg("resolution cache pruned")
	return removed, nil
}
