package usecase

import (
	"context"
	"sort"

	"github.com/riskibarqy/tennis-history/internal/domain/match"
	"github.com/riskibarqy/tennis-history/internal/platform/logging"
)

// The previous table holds, per current match i, a home block at
// [2in, 2in+n) followed by an away block at [2in+n, 2in+2n).

// Reorient flips history rows so that the tracked player of each block
// sits on the side it occupies in the block's current match.
func Reorient(current, previous []match.Record, n int) []match.Record {
	out := make([]match.Record, len(previous))
	copy(out, previous)
	if n <= 0 {
		return out
	}

	for i, cur := range current {
		homeStart := i * 2 * n
		awayStart := homeStart + n
		for j := homeStart; j < awayStart && j < len(out); j++ {
			if sameID(out[j].Away.PlayerID, cur.Home.PlayerID) {
				out[j] = out[j].Swapped()
			}
		}
		for j := awayStart; j < awayStart+n && j < len(out); j++ {
			if sameID(out[j].Home.PlayerID, cur.Away.PlayerID) {
				out[j] = out[j].Swapped()
			}
		}
	}
	return out
}

// ReverseBlocks reverses the rows inside each complete block of n rows,
// keeping the block order.
// A trailing partial block is dropped.
func ReverseBlocks(rows []match.Record, n int) []match.Record {
	if n <= 0 {
		return nil
	}
	blocks := len(rows) / n
	out := make([]match.Record, 0, blocks*n)
	for b := 0; b < blocks; b++ {
		start := b * n
		for j := start + n - 1; j >= start; j-- {
			out = append(out, rows[j])
		}
	}
	return out
}

// SortByStartTime orders current matches by start time, stable on ties
// and with unknown start times last, and moves each match's pair of
// history blocks along with it. Matches whose blocks fall outside the
// previous table are left out of both outputs; their original positions
// are returned in skipped.
func SortByStartTime(current, previous []match.Record, n int) (sortedCurrent, sortedPrevious []match.Record, skipped []int) {
	order := make([]int, len(current))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		ta, tb := current[order[a]].StartTimestamp, current[order[b]].StartTimestamp
		if ta == nil || tb == nil {
			return ta != nil && tb == nil
		}
		return *ta < *tb
	})

	span := 2 * n
	sortedCurrent = make([]match.Record, 0, len(current))
	sortedPrevious = make([]match.Record, 0, len(previous))
	for _, idx := range order {
		start := idx * span
		end := start + span
		if n <= 0 || start >= len(previous) || end > len(previous) {
			skipped = append(skipped, idx)
			continue
		}
		sortedCurrent = append(sortedCurrent, current[idx])
		sortedPrevious = append(sortedPrevious, previous[start:end]...)
	}
	return sortedCurrent, sortedPrevious, skipped
}

// AlignWindows runs Reorient, ReverseBlocks and SortByStartTime in turn.
func AlignWindows(ctx context.Context, current, previous []match.Record, n int, logger *logging.Logger) ([]match.Record, []match.Record) {
	if logger == nil {
		logger = logging.Default()
	}

	oriented := Reorient(current, previous, n)
	reversed := ReverseBlocks(oriented, n)
	if len(reversed) != len(oriented) {
		logger.WarnContext(ctx, "partial history block dropped", "rows", len(oriented), "block_size", n)
	}

	sortedCurrent, sortedPrevious, skipped := SortByStartTime(current, reversed, n)
	for _, idx := range skipped {
		logger.WarnContext(ctx, "history blocks out of range",
			"current_index", idx,
			"block_start", idx*2*n,
			"block_end", idx*2*n+2*n,
			"previous_rows", len(reversed),
		)
	}
	return sortedCurrent, sortedPrevious
}

func sameID(a, b *int64) bool {
	return a != nil && b != nil && *a == *b
}
