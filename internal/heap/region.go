// Package heap manages the single large pre-reserved virtual address
// region backing the collector. It reserves a fixed-size range once,
// lazily, via a real anonymous private OS mapping, and exposes a bump
// frontier within that range.
package heap

import (
	"sync"

	"github.com/orizon-lang/orizon-gc/internal/orzgcerr"
)

// DefaultSize is the default heap reservation: 2 GiB of virtual
// address space, large enough that most workloads never hit the
// bump-frontier limit while staying a fixed, single value chosen once
// at initialization.
const DefaultSize = 2 << 30

// Region is a single reserved address range [Start, End) with a bump
// Frontier. Addresses in [Start, Frontier) have been issued at least
// once, either as current allocated blocks or current free blocks.
//
// A Region is not safe for concurrent use: it is driven by a single
// mutator thread that pauses for the full duration of any collection.
type Region struct {
	mem      []byte
	mapper   Mapper
	once     sync.Once
	initErr  *orzgcerr.Error
	start    uintptr
	end      uintptr
	frontier uintptr
	size     uintptr
}

// New returns a Region that reserves `size` bytes on first use via a
// real OS mapping. size should be a constant chosen once and held for
// the life of the Region; passing 0 selects DefaultSize.
func New(size uintptr) *Region {
	return NewWithMapper(size, osMapper{})
}

// NewWithMapper is New, but with the OS mapping call replaced by
// mapper — used by tests to exercise reservation failure without a
// real multi-gigabyte mapping.
func NewWithMapper(size uintptr, mapper Mapper) *Region {
	if size == 0 {
		size = DefaultSize
	}

	return &Region{size: size, mapper: mapper}
}

// EnsureInitialized reserves the backing mapping on the first call;
// subsequent calls are no-ops. Failure to reserve is fatal: it panics
// with a *orzgcerr.Error, since an unusable heap leaves nothing safe
// to recover into.
func (r *Region) EnsureInitialized() {
	r.once.Do(func() {
		mem, err := r.mapper.Reserve(r.size)
		if err != nil {
			r.initErr = orzgcerr.MappingFailed(r.size, err)

			return
		}

		r.mem = mem
		r.start = firstByteAddr(mem)
		r.end = r.start + r.size
		r.frontier = r.start
	})

	if r.initErr != nil {
		panic(r.initErr)
	}
}

// Start returns the first address of the reserved region.
func (r *Region) Start() uintptr { r.EnsureInitialized(); return r.start }

// End returns the address one past the last byte of the reserved
// region.
func (r *Region) End() uintptr { r.EnsureInitialized(); return r.end }

// Frontier returns the next unused byte inside the reserved region.
func (r *Region) Frontier() uintptr { r.EnsureInitialized(); return r.frontier }

// Size returns the configured size of the region.
func (r *Region) Size() uintptr { return r.size }

// Contains reports whether p lies within the portion of the region
// that has been issued so far: [Start, Frontier).
func (r *Region) Contains(p uintptr) bool {
	r.EnsureInitialized()

	return p >= r.start && p < r.frontier
}

// Reserve advances the frontier by n bytes and returns the address the
// frontier held before the advance. It returns ok=false, leaving the
// frontier untouched, if the advance would run past End.
func (r *Region) Reserve(n uintptr) (addr uintptr, ok bool) {
	r.EnsureInitialized()

	if n > r.end-r.frontier {
		return 0, false
	}

	addr = r.frontier
	r.frontier += n

	return addr, true
}

// BytePtrAt returns a pointer to the byte at address p, which must lie
// within [Start, End). Used to translate addresses recorded in block
// headers back into Go memory the allocator/collector can read and
// write.
func (r *Region) BytePtrAt(p uintptr) *byte {
	r.EnsureInitialized()

	return &r.mem[p-r.start]
}
