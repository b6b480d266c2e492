// Package collector implements the precise mark phase and the sweep
// phase of a mark-and-sweep collection cycle, driven by a root-set
// stack that doubles as the mark phase's DFS worklist, and the block
// headers and layout descriptors the allocator produces.
package collector

import (
	"github.com/orizon-lang/orizon-gc/internal/allocator"
	"github.com/orizon-lang/orizon-gc/internal/block"
	"github.com/orizon-lang/orizon-gc/internal/heap"
	"github.com/orizon-lang/orizon-gc/internal/orzgcerr"
	"github.com/orizon-lang/orizon-gc/internal/roots"
)

// Stats summarizes one Collect call.
type Stats struct {
	Survived int
	Freed    int
}

// Collector runs mark-and-sweep over an Allocator's lists, using a
// caller-supplied root stack both as the public root registry and as
// the DFS worklist: the same entries a client pushed as roots are the
// ones popped and traced during marking, so no separate copy of the
// root set is needed.
type Collector struct {
	alloc *allocator.Allocator
}

// New creates a Collector bound to alloc.
func New(alloc *allocator.Allocator) *Collector {
	return &Collector{alloc: alloc}
}

// Collect drains worklist, marking every block reachable from it, then
// sweeps the allocated list, freeing every unmarked block and clearing
// the mark bit on every survivor.
//
// Precondition: worklist holds exactly the registered roots.
// Postcondition: worklist is empty, every surviving block has Marked
// == false, ready for the next collection cycle.
func (c *Collector) Collect(worklist *roots.Stack) Stats {
	c.mark(worklist)

	return c.sweep()
}

func (c *Collector) mark(worklist *roots.Stack) {
	region := c.alloc.Region()

	for {
		p, ok := worklist.Pop()
		if !ok {
			break
		}

		if p == 0 {
			continue
		}

		b, found := c.alloc.Lookup(p)
		if !found {
			panic(orzgcerr.PointerOutOfHeap(p))
		}

		if b.Marked {
			// Already visited: terminates cycles and avoids re-walking
			// a block reachable through more than one path.
			continue
		}

		b.Marked = true

		c.pushChildren(region, worklist, b)
	}
}

// pushChildren pushes every outgoing pointer field of b onto worklist.
// A block with no layout (atomic) contributes nothing. Offsets are
// pushed in ascending index order, so the last offset pushed — the
// highest index — is the first one visited; callers must not depend
// on this exact traversal order, only on every reachable block
// eventually being marked.
func (c *Collector) pushChildren(region *heap.Region, worklist *roots.Stack, b *block.Block) {
	if !b.HasLayout() {
		return
	}

	n := b.Layout.NumPointers()
	for i := 0; i < n; i++ {
		off := b.Layout.PointerOffset(i)
		worklist.Push(region.ReadPointer(b.Addr + off))
	}
}

func (c *Collector) sweep() Stats {
	var stats Stats

	c.alloc.Allocated().Each(func(b *block.Block) {
		if b.Marked {
			b.Marked = false
			stats.Survived++

			return
		}

		c.alloc.Deallocate(b)
		stats.Freed++
	})

	return stats
}
