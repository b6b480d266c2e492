// Package block defines the per-object header metadata and the two
// intrusive lists (free, allocated) the allocator and collector share.
//
// A Block is an ordinary Go-heap value rather than bytes living inside
// the raw mmap'd region: Go's own collector cannot safely scan pointer
// fields (Layout, Prev, Next) embedded in unsafe/off-heap memory, so
// header bookkeeping stays on the Go heap while the payload bytes a
// block describes live in the mmap'd heap.Region.
package block

// Layout is the minimal view of a layout descriptor the block package
// needs: how many bytes the payload occupies and which of those bytes
// hold outgoing pointers. internal/layout.Descriptor implements this.
type Layout interface {
	PayloadSize() uintptr
	NumPointers() int
	PointerOffset(i int) uintptr
}

// Block is the header for one allocated-or-free payload region.
type Block struct {
	// Layout is a non-owning reference to the client-owned layout
	// descriptor; nil means zero outgoing pointers (an atomic block).
	Layout Layout
	Prev   *Block
	Next   *Block
	// Addr is the address of the first payload byte inside the owning
	// heap.Region.
	Addr uintptr
	// Size is the payload byte count, excluding this header.
	Size uintptr
	// Allocated is true while the block is live and on the allocated
	// list; false while it sits on the free list.
	Allocated bool
	// Marked is meaningful only between mark start and sweep end;
	// false for every block outside a collection in progress.
	Marked bool
}

// HasLayout reports whether the block has a layout descriptor
// attached, i.e. whether it was obtained through typed allocation.
func (b *Block) HasLayout() bool { return b.Layout != nil }
