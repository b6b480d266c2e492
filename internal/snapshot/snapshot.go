// Package snapshot implements a heap dump/export facility: a JSON
// rendering of every block header currently on the allocator's free
// and allocated lists, tagged with a semver schema version so a future
// incompatible format change can be detected by tooling reading an old
// dump.
package snapshot

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/Masterminds/semver/v3"

	"github.com/orizon-lang/orizon-gc/internal/block"
	"github.com/orizon-lang/orizon-gc/internal/gcruntime"
)

// SchemaVersion is the current dump format version.
const SchemaVersion = "1.0.0"

// compatConstraint accepts any dump whose schema shares SchemaVersion's
// major version, matching the usual semver compatibility promise.
var compatConstraint = semver.MustParse(SchemaVersion)

// BlockRecord is the serializable form of one block.Block.
type BlockRecord struct {
	Addr        uintptr   `json:"addr"`
	Size        uintptr   `json:"size"`
	Allocated   bool      `json:"allocated"`
	Marked      bool      `json:"marked"`
	NumPointers int       `json:"num_pointers"`
	PtrOffsets  []uintptr `json:"ptr_offsets,omitempty"`
}

// Snapshot is a point-in-time export of heap state.
type Snapshot struct {
	Schema      string        `json:"schema"`
	RegionStart uintptr       `json:"region_start"`
	RegionEnd   uintptr       `json:"region_end"`
	Frontier    uintptr       `json:"frontier"`
	AllocCount  uint64        `json:"alloc_count"`
	FreeCount   uint64        `json:"free_count"`
	BytesLive   uint64        `json:"bytes_live"`
	BytesPeak   uint64        `json:"bytes_peak"`
	Allocated   []BlockRecord `json:"allocated"`
	Free        []BlockRecord `json:"free"`
}

// Capture builds a Snapshot of m's current heap state. It does not
// pause or otherwise affect m; the result reflects whatever state m is
// in at the moment of the call.
func Capture(m *gcruntime.Manager) *Snapshot {
	region := m.Region()
	stats := m.Stats()
	allocatedList, freeList := m.Blocks()

	s := &Snapshot{
		Schema:      SchemaVersion,
		RegionStart: region.Start(),
		RegionEnd:   region.End(),
		Frontier:    region.Frontier(),
		AllocCount:  stats.AllocCount,
		FreeCount:   stats.FreeCount,
		BytesLive:   stats.BytesLive,
		BytesPeak:   stats.BytesPeak,
	}

	allocatedList.Each(func(b *block.Block) {
		s.Allocated = append(s.Allocated, recordOf(b))
	})
	freeList.Each(func(b *block.Block) {
		s.Free = append(s.Free, recordOf(b))
	})

	return s
}

func recordOf(b *block.Block) BlockRecord {
	rec := BlockRecord{
		Addr:      b.Addr,
		Size:      b.Size,
		Allocated: b.Allocated,
		Marked:    b.Marked,
	}

	if b.HasLayout() {
		n := b.Layout.NumPointers()
		rec.NumPointers = n
		rec.PtrOffsets = make([]uintptr, n)

		for i := 0; i < n; i++ {
			rec.PtrOffsets[i] = b.Layout.PointerOffset(i)
		}
	}

	return rec
}

// WriteJSON encodes s as indented JSON to w.
func (s *Snapshot) WriteJSON(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")

	return enc.Encode(s)
}

// ReadJSON decodes a Snapshot from r and verifies its schema is
// compatible with this build's SchemaVersion before returning it.
func ReadJSON(r io.Reader) (*Snapshot, error) {
	var s Snapshot
	if err := json.NewDecoder(r).Decode(&s); err != nil {
		return nil, fmt.Errorf("snapshot: decode: %w", err)
	}

	if err := s.checkCompatible(); err != nil {
		return nil, err
	}

	return &s, nil
}

// checkCompatible rejects a dump from an incompatible schema major
// version, e.g. one produced by a future, breaking format revision.
func (s *Snapshot) checkCompatible() error {
	got, err := semver.NewVersion(s.Schema)
	if err != nil {
		return fmt.Errorf("snapshot: invalid schema version %q: %w", s.Schema, err)
	}

	if got.Major() != compatConstraint.Major() {
		return fmt.Errorf("snapshot: schema %s is incompatible with this build's schema %s",
			s.Schema, SchemaVersion)
	}

	return nil
}
