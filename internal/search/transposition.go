package search

import (
	"log"

	"github.com/hailam/chessplay/internal/chess"
)

const (
	minTTSizeMB = 1
	maxTTSizeMB = 1 << 16 // 64 GiB, comfortably above any real hash size
)

// TTFlag indicates the type of bound stored in the transposition table.
type TTFlag uint8

const (
	TTExact      TTFlag = iota // Exact score
	TTLowerBound               // Failed high (beta cutoff)
	TTUpperBound               // Failed low
)

// TTEntry is one transposition table slot.
type TTEntry struct {
	Key      uint32     // Upper 32 bits of the Zobrist hash, for collision checks
	BestMove chess.Move
	Score    int16
	Depth    int8
	Flag     TTFlag
	Age      uint8
}

// TranspositionTable is a fixed-size, single-slot-per-index hash table
// keyed by the low bits of the Zobrist hash.
type TranspositionTable struct {
	entries []TTEntry
	size    uint64
	mask    uint64
	age     uint8

	hits   uint64
	probes uint64
}

// NewTranspositionTable allocates a table sized to roughly sizeMB megabytes,
// rounded down to a power of two entry count so lookups can mask instead
// of mod. A sizeMB outside [minTTSizeMB, maxTTSizeMB] is clamped to the
// nearer bound and logged, rather than rejected.
func NewTranspositionTable(sizeMB int) *TranspositionTable {
	if sizeMB < minTTSizeMB || sizeMB > maxTTSizeMB {
		clamped := sizeMB
		if clamped < minTTSizeMB {
			clamped = minTTSizeMB
		} else if clamped > maxTTSizeMB {
			clamped = maxTTSizeMB
		}
		log.Printf("[search] TT size %dMB out of range, clamped to %dMB", sizeMB, clamped)
		sizeMB = clamped
	}

	const entrySize = 16
	numEntries := roundDownToPowerOf2(uint64(sizeMB) * 1024 * 1024 / entrySize)
	if numEntries == 0 {
		numEntries = 1
	}
	return &TranspositionTable{
		entries: make([]TTEntry, numEntries),
		size:    numEntries,
		mask:    numEntries - 1,
	}
}

func roundDownToPowerOf2(n uint64) uint64 {
	if n == 0 {
		return 0
	}
	n |= n >> 1
	n |= n >> 2
	n |= n >> 4
	n |= n >> 8
	n |= n >> 16
	n |= n >> 32
	return (n + 1) >> 1
}

// Probe looks up hash. The entry is only considered valid if its stored
// key matches the upper 32 bits of hash.
func (tt *TranspositionTable) Probe(hash uint64) (TTEntry, bool) {
	tt.probes++
	entry := tt.entries[hash&tt.mask]
	if entry.Key == uint32(hash>>32) && entry.Depth > 0 {
		tt.hits++
		return entry, true
	}
	return TTEntry{}, false
}

// Store records a search result. An entry from an older generation is
// always overwritten; one from the current generation is only overwritten
// by an equal-or-deeper result, so a shallow re-probe at a shrinking
// window doesn't evict a more expensive deep one.
func (tt *TranspositionTable) Store(hash uint64, depth, score int, flag TTFlag, bestMove chess.Move) {
	entry := &tt.entries[hash&tt.mask]
	if entry.Age != tt.age || depth >= int(entry.Depth) {
		entry.Key = uint32(hash >> 32)
		entry.BestMove = bestMove
		entry.Score = int16(score)
		entry.Depth = int8(depth)
		entry.Flag = flag
		entry.Age = tt.age
	}
}

// NewSearch bumps the table's generation counter, making every entry from
// the previous search eligible for replacement regardless of depth.
func (tt *TranspositionTable) NewSearch() {
	tt.age++
}

// Clear wipes every entry and resets statistics.
func (tt *TranspositionTable) Clear() {
	for i := range tt.entries {
		tt.entries[i] = TTEntry{}
	}
	tt.age = 0
	tt.hits = 0
	tt.probes = 0
}

// HashFull estimates occupancy in permille by sampling the first 1000
// slots, the same approximation UCI's "hashfull" info field expects.
func (tt *TranspositionTable) HashFull() int {
	sampleSize := 1000
	if uint64(sampleSize) > tt.size {
		sampleSize = int(tt.size)
	}
	used := 0
	for i := 0; i < sampleSize; i++ {
		if tt.entries[i].Depth > 0 && tt.entries[i].Age == tt.age {
			used++
		}
	}
	return used * 1000 / sampleSize
}

// HitRate returns the cumulative probe hit rate as a percentage.
func (tt *TranspositionTable) HitRate() float64 {
	if tt.probes == 0 {
		return 0
	}
	return float64(tt.hits) / float64(tt.probes) * 100
}

// Size returns the number of entries in the table.
func (tt *TranspositionTable) Size() uint64 { return tt.size }

// AdjustScoreFromTT converts a mate score stored relative to the probing
// node back to one relative to the root, by ply distance.
func AdjustScoreFromTT(score, ply int) int {
	switch {
	case score > MateScore-MaxPly:
		return score - ply
	case score < -MateScore+MaxPly:
		return score + ply
	default:
		return score
	}
}

// AdjustScoreToTT is the inverse of AdjustScoreFromTT, applied before a
// mate score is stored so it is independent of the storing node's ply.
func AdjustScoreToTT(score, ply int) int {
	switch {
	case score > MateScore-MaxPly:
		return score + ply
	case score < -MateScore+MaxPly:
		return score - ply
	default:
		return score
	}
}
