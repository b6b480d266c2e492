package allocator

import (
	"testing"

	"github.com/orizon-lang/orizon-gc/internal/heap"
	"github.com/orizon-lang/orizon-gc/internal/layout"
)

func newTestAllocator(t *testing.T) *Allocator {
	t.Helper()

	return New(heap.New(64 * 1024))
}

func TestAllocateZeroReturnsNil(t *testing.T) {
	a := newTestAllocator(t)

	if b := a.Allocate(0); b != nil {
		t.Fatalf("Allocate(0) = %+v, want nil", b)
	}
}

func TestAllocateMarksBlockAllocated(t *testing.T) {
	a := newTestAllocator(t)

	b := a.Allocate(32)
	if b == nil {
		t.Fatal("Allocate(32) returned nil")
	}

	if !b.Allocated {
		t.Fatal("freshly allocated block should have Allocated == true")
	}

	if a.Allocated().Len() != 1 {
		t.Fatalf("Allocated().Len() = %d, want 1", a.Allocated().Len())
	}
}

func TestDeallocateMovesToFreeList(t *testing.T) {
	a := newTestAllocator(t)

	b := a.Allocate(32)
	a.Deallocate(b)

	if b.Allocated {
		t.Fatal("deallocated block should have Allocated == false")
	}

	if a.Allocated().Len() != 0 {
		t.Fatalf("Allocated().Len() = %d, want 0", a.Allocated().Len())
	}

	if a.Free().Len() != 1 {
		t.Fatalf("Free().Len() = %d, want 1", a.Free().Len())
	}
}

func TestDeallocateNilIsNoOp(t *testing.T) {
	a := newTestAllocator(t)
	a.Deallocate(nil) // must not panic
}

func TestDoubleFreePanics(t *testing.T) {
	a := newTestAllocator(t)

	b := a.Allocate(16)
	a.Deallocate(b)

	defer func() {
		if recover() == nil {
			t.Fatal("second Deallocate of the same block should panic")
		}
	}()

	a.Deallocate(b)
}

func TestBestFitSelectsSmallestSufficientBlock(t *testing.T) {
	a := newTestAllocator(t)

	small := a.Allocate(16)
	mid := a.Allocate(64)
	large := a.Allocate(256)

	a.Deallocate(small)
	a.Deallocate(mid)
	a.Deallocate(large)

	// A request for 32 bytes should take the 64-byte free block, the
	// smallest free block that still fits, not the 256-byte one.
	got := a.Allocate(32)
	if got == nil {
		t.Fatal("Allocate(32) returned nil")
	}

	if got.Addr != mid.Addr {
		t.Fatalf("best-fit chose block at %#x, want the 64-byte block at %#x", got.Addr, mid.Addr)
	}

	if a.Free().Len() != 2 {
		t.Fatalf("Free().Len() after best-fit = %d, want 2", a.Free().Len())
	}
}

func TestBestFitExactMatch(t *testing.T) {
	a := newTestAllocator(t)

	exact := a.Allocate(48)
	a.Deallocate(exact)

	got := a.Allocate(48)
	if got.Addr != exact.Addr {
		t.Fatalf("exact-size request reused address %#x, want %#x", got.Addr, exact.Addr)
	}
}

func TestAllocateFallsBackToBumpWhenFreeListEmpty(t *testing.T) {
	a := newTestAllocator(t)

	first := a.Allocate(16)
	second := a.Allocate(16)

	if first.Addr == second.Addr {
		t.Fatal("two live allocations should not share an address")
	}
}

func TestNewTypedAttachesLayout(t *testing.T) {
	a := newTestAllocator(t)

	desc := layout.Atomic(8)

	b := a.New(desc)
	if b == nil {
		t.Fatal("New(desc) returned nil")
	}

	if b.Layout != desc {
		t.Fatal("typed allocation should attach the given descriptor")
	}

	if b.Size != 8 {
		t.Fatalf("b.Size = %d, want 8", b.Size)
	}
}

func TestDeallocateClearsLayout(t *testing.T) {
	a := newTestAllocator(t)

	b := a.New(layout.Atomic(8))
	a.Deallocate(b)

	if b.Layout != nil {
		t.Fatal("Deallocate should clear Layout so a reused block starts untyped")
	}
}

func TestHeapExhaustionReturnsNil(t *testing.T) {
	a := New(heap.New(64))

	if b := a.Allocate(64); b == nil {
		t.Fatal("Allocate(64) on a 64-byte heap should succeed")
	}

	if b := a.Allocate(1); b != nil {
		t.Fatal("Allocate(1) past heap exhaustion should return nil")
	}
}

func TestLookupResolvesAllocatedAddress(t *testing.T) {
	a := newTestAllocator(t)

	b := a.Allocate(16)

	got, ok := a.Lookup(b.Addr)
	if !ok || got != b {
		t.Fatalf("Lookup(%#x) = (%+v, %v), want (%+v, true)", b.Addr, got, ok, b)
	}
}

func TestStatsTrackLiveBytes(t *testing.T) {
	a := newTestAllocator(t)

	b1 := a.Allocate(16)
	b2 := a.Allocate(32)

	if got := a.Stats().BytesLive; got != 48 {
		t.Fatalf("BytesLive after two allocations = %d, want 48", got)
	}

	a.Deallocate(b1)

	if got := a.Stats().BytesLive; got != 32 {
		t.Fatalf("BytesLive after one deallocation = %d, want 32", got)
	}

	_ = b2
}
