// Package gcruntime assembles the heap region, allocator, root stack
// and collector into the single public surface a client program
// drives: reserve, allocate, root, collect.
package gcruntime

import (
	"fmt"
	"io"
	"sync"

	"github.com/orizon-lang/orizon-gc/internal/allocator"
	"github.com/orizon-lang/orizon-gc/internal/block"
	"github.com/orizon-lang/orizon-gc/internal/collector"
	"github.com/orizon-lang/orizon-gc/internal/heap"
	"github.com/orizon-lang/orizon-gc/internal/layout"
	"github.com/orizon-lang/orizon-gc/internal/orzgcerr"
	"github.com/orizon-lang/orizon-gc/internal/roots"
)

// Manager is the facade a client program drives: one heap region, one
// allocator, one root stack, one collector. Not safe for concurrent
// use: every method assumes a single mutator thread, matching the
// single-threaded assumptions of the region and allocator it wraps.
type Manager struct {
	region *heap.Region
	alloc  *allocator.Allocator
	coll   *collector.Collector
	roots  roots.Stack
}

// New creates a Manager over a heap region of the given size. Passing
// 0 selects heap.DefaultSize. The backing mapping is reserved lazily,
// on first allocation.
func New(size uintptr) *Manager {
	region := heap.New(size)
	alloc := allocator.New(region)

	return &Manager{
		region: region,
		alloc:  alloc,
		coll:   collector.New(alloc),
	}
}

var (
	defaultOnce sync.Once
	defaultMgr  *Manager
)

// Default returns a lazily constructed, process-wide Manager sized at
// heap.DefaultSize. Convenience entry point for callers that want a
// single shared heap rather than managing their own Manager instance.
func Default() *Manager {
	defaultOnce.Do(func() {
		defaultMgr = New(heap.DefaultSize)
	})

	return defaultMgr
}

// Region exposes the underlying heap region, e.g. for a client program
// that wires up its own object graphs via ReadPointer/WritePointer.
func (m *Manager) Region() *heap.Region { return m.region }

// Alloc returns the address of a fresh, untyped (atomic) payload of
// size bytes, or 0 if size is 0 or the heap is exhausted.
func (m *Manager) Alloc(size uintptr) uintptr {
	b := m.alloc.Allocate(size)
	if b == nil {
		return 0
	}

	return b.Addr
}

// AllocTyped returns the address of a fresh payload described by desc,
// attaching desc to the resulting block so the collector can trace its
// outgoing pointers. Returns 0 on allocation failure.
func (m *Manager) AllocTyped(desc *layout.Descriptor) uintptr {
	b := m.alloc.New(desc)
	if b == nil {
		return 0
	}

	return b.Addr
}

// Deallocate returns the block at addr to the free list immediately,
// without waiting for a collection: a client that knows an object is
// dead doesn't have to wait for the next Collect to reclaim it. addr
// must be a live payload address previously returned by Alloc or
// AllocTyped; freeing it twice is fatal, since the allocator has no
// way to distinguish a reused address from a corrupt free list.
func (m *Manager) Deallocate(addr uintptr) {
	b, ok := m.alloc.Lookup(addr)
	if !ok {
		panic(orzgcerr.PointerOutOfHeap(addr))
	}

	m.alloc.Deallocate(b)
}

// RootInsert registers p as a root for the next Collect call. Passing
// 0 registers a null root, filtered out during mark.
func (m *Manager) RootInsert(p uintptr) {
	m.roots.Push(p)
}

// Collect runs one stop-the-world mark-and-sweep cycle, consuming
// every root registered since the last Collect. Callers that want the
// same roots traced again must call RootInsert again before the next
// Collect.
func (m *Manager) Collect() collector.Stats {
	return m.coll.Collect(&m.roots)
}

// Stats returns a point-in-time snapshot of allocator counters.
func (m *Manager) Stats() allocator.Stats {
	return m.alloc.Stats()
}

// Blocks exposes the allocator's allocated and free lists, mainly for
// internal/snapshot to walk when capturing heap state.
func (m *Manager) Blocks() (allocated, free *block.List) {
	return m.alloc.Allocated(), m.alloc.Free()
}

// Lookup resolves a payload address to its block header, mainly for
// tests and tooling that need to inspect a block's liveness or layout
// directly.
func (m *Manager) Lookup(addr uintptr) (*block.Block, bool) {
	return m.alloc.Lookup(addr)
}

// Dump writes a short human-readable summary of heap state to w:
// region bounds, frontier, and allocator counters. Used by cmd/gctest
// for quick diagnostics.
func (m *Manager) Dump(w io.Writer) error {
	stats := m.alloc.Stats()

	_, err := fmt.Fprintf(w,
		"heap region [0x%x, 0x%x) frontier=0x%x size=%d\n"+
			"blocks: allocated=%d live_bytes=%d peak_bytes=%d freed=%d\n",
		m.region.Start(), m.region.End(), m.region.Frontier(), m.region.Size(),
		stats.AllocCount-stats.FreeCount, stats.BytesLive, stats.BytesPeak, stats.FreeCount,
	)

	return err
}
