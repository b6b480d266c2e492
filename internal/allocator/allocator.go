// Package allocator implements a best-fit free-list allocator, plus
// typed allocation layered on top of it for clients that want the
// collector to trace an object's outgoing pointers automatically.
package allocator

import (
	"github.com/orizon-lang/orizon-gc/internal/block"
	"github.com/orizon-lang/orizon-gc/internal/heap"
	"github.com/orizon-lang/orizon-gc/internal/layout"
	"github.com/orizon-lang/orizon-gc/internal/orzgcerr"
)

// Allocator is a best-fit free-list allocator. It owns the free and
// allocated intrusive lists and the heap region they draw from. Not
// safe for concurrent use.
type Allocator struct {
	region    *heap.Region
	free      block.List
	allocated block.List
	stats     Stats
	// index maps a payload address to its header. Block headers live
	// on the Go heap rather than adjacent to the payload in the mmap'd
	// region (see the block package's doc comment for why), so
	// resolving an address to its header needs an explicit lookup
	// table instead of subtracting a fixed header size. Populated once
	// when a block is first bump-allocated and never removed, so a
	// freed-then-reused address still resolves to the same header.
	index map[uintptr]*block.Block
}

// New creates an Allocator drawing from region. The region is
// lazily reserved on first allocation (heap.Region.EnsureInitialized).
func New(region *heap.Region) *Allocator {
	return &Allocator{region: region, index: make(map[uintptr]*block.Block)}
}

// Lookup resolves a payload address to its header.
func (a *Allocator) Lookup(addr uintptr) (*block.Block, bool) {
	b, ok := a.index[addr]

	return b, ok
}

// Region returns the heap region this allocator draws from, e.g. so
// the collector can read pointer words out of payloads.
func (a *Allocator) Region() *heap.Region { return a.region }

// Allocated exposes the allocated list for the collector's sweep
// phase.
func (a *Allocator) Allocated() *block.List { return &a.allocated }

// Free exposes the free list, mainly for tests asserting allocator
// invariants.
func (a *Allocator) Free() *block.List { return &a.free }

// Stats returns a point-in-time snapshot of allocator counters.
func (a *Allocator) Stats() Stats { return a.stats }

// Allocate returns a fresh payload of `size` bytes, or nil if size is
// 0 or the heap is exhausted.
//
// Before searching, the frontier is unconditionally advanced so that a
// fresh payload placed there would begin on a 16-byte boundary — this
// padding is wasted if the request ends up served from the free list
// instead, but keeping one unconditional code path is simpler than
// deferring the pad until a bump allocation is actually needed, and
// the wasted bytes are bounded (at most 15 per call).
func (a *Allocator) Allocate(size uintptr) *block.Block {
	if size == 0 {
		return nil
	}

	a.padFrontierForAlignment()

	if b := a.takeBestFit(size); b != nil {
		a.stats.recordAlloc(b.Size)
		a.allocated.Prepend(b)

		return b
	}

	b := a.bumpAllocate(size)
	if b == nil {
		return nil
	}

	a.stats.recordAlloc(b.Size)
	a.allocated.Prepend(b)

	return b
}

// padFrontierForAlignment reserves whatever padding bytes sit between
// the frontier and the next block.Alignment boundary, so a
// bump-allocated payload always starts aligned.
func (a *Allocator) padFrontierForAlignment() {
	pad := block.PadBefore(a.region.Frontier())
	if pad == 0 {
		return
	}

	if _, ok := a.region.Reserve(pad); !ok {
		// Heap exhausted by padding alone; consume the unaligned tail
		// so the subsequent bump allocation attempt will also fail and
		// report nil rather than hand out a misaligned payload.
		a.region.Reserve(a.region.End() - a.region.Frontier())

		return
	}
}

// takeBestFit scans the entire free list for the smallest block whose
// size is >= request, breaking ties by encounter order, with an early
// exit on an exact match.
func (a *Allocator) takeBestFit(request uintptr) *block.Block {
	var best *block.Block

	for b := a.free.Head(); b != nil; b = b.Next {
		if b.Allocated {
			panic(orzgcerr.FreeListCorrupted(b.Addr))
		}

		if b.Size < request {
			continue
		}

		if b.Size == request {
			a.free.Remove(b)
			b.Allocated = true

			return b
		}

		if best == nil || b.Size < best.Size {
			best = b
		}
	}

	if best == nil {
		return nil
	}

	a.free.Remove(best)
	best.Allocated = true

	return best
}

// bumpAllocate places a brand new header at the (already aligned)
// frontier and advances it past the payload, or returns nil if doing
// so would run past the end of the region.
func (a *Allocator) bumpAllocate(size uintptr) *block.Block {
	addr, ok := a.region.Reserve(size)
	if !ok {
		return nil
	}

	b := &block.Block{Addr: addr, Size: size, Allocated: true}
	a.index[addr] = b

	return b
}

// Deallocate moves b from the allocated list to the free list. A nil
// block is a no-op. Deallocating an already-free block indicates a
// double free and is fatal: it usually means the caller is holding a
// stale address and continuing would silently corrupt the free list.
func (a *Allocator) Deallocate(b *block.Block) {
	if b == nil {
		return
	}

	if !b.Allocated {
		panic(orzgcerr.DoubleFree(b.Addr))
	}

	a.allocated.Remove(b)
	b.Allocated = false
	b.Layout = nil
	a.free.Prepend(b)
	a.stats.recordFree(b.Size)
}

// New allocates a payload of desc.Size and records desc on the
// resulting block's header so the collector can trace its outgoing
// pointers. Returns nil if the underlying allocation failed.
func (a *Allocator) New(desc *layout.Descriptor) *block.Block {
	b := a.Allocate(desc.PayloadSize())
	if b == nil {
		return nil
	}

	b.Layout = desc

	return b
}
