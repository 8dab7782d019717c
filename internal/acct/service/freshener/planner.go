package freshener

import (
	"math"

	"github.com/goodnatureofminers/acctmon/internal/acct/model"
)

// PlanInput holds what the scan range is derived from.
type PlanInput struct {
	Watches model.Watches
	// LastRecorded is the highest block the cache accounts for; valid when HasRecorded.
	LastRecorded uint64
	HasRecorded  bool
	// Override, when set, is the first block to scan regardless of the cache.
	Override    *uint64
	ChainHeight uint64
}

// ScanPlan is the outcome of Plan.
type ScanPlan struct {
	Stats model.BlockStats
	// Empty is set when there is nothing to scan.
	Empty bool
	// Resync asks for every watch balance to be reloaded from the node before scanning.
	Resync bool
}

// Plan computes the block range of a freshen cycle.
func Plan(in PlanInput) ScanPlan {
	var plan ScanPlan
	if len(in.Watches) == 0 {
		plan.Empty = true
		return plan
	}

	stats := &plan.Stats
	stats.MinWatchBlock = in.Watches.MinBlock()
	stats.MaxWatchBlock = in.Watches.MaxBlock()
	if stats.MaxWatchBlock == math.MaxUint64 {
		stats.MaxWatchBlock = in.ChainHeight
	}

	switch {
	case in.Override != nil:
		stats.FirstBlock = *in.Override
		plan.Resync = true
	case in.HasRecorded && in.LastRecorded < math.MaxUint64:
		stats.FirstBlock = max(stats.MinWatchBlock, in.LastRecorded+1)
	case in.HasRecorded:
		plan.Empty = true
		return plan
	default:
		stats.FirstBlock = stats.MinWatchBlock
	}
	stats.LastBlock = min(in.ChainHeight, stats.MaxWatchBlock)

	if stats.FirstBlock > stats.LastBlock {
		plan.Empty = true
		return plan
	}
	stats.NBlocks = stats.LastBlock - stats.FirstBlock
	if stats.FirstBlock > 0 {
		stats.PrevBlock = stats.FirstBlock - 1
	}
	return plan
}
