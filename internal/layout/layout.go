// Package layout provides two related things: the client-facing GC
// pointer layout descriptor, and a struct field layout calculator used
// by cmd/layoutgen to derive pointer offsets automatically instead of
// requiring callers to hand-count them.
package layout

import (
	"fmt"

	"github.com/orizon-lang/orizon-gc/internal/block"
)

// Descriptor is the GC-facing, client-owned pointer layout: the byte
// size of a payload and the offsets within it that hold outgoing
// pointers. A Descriptor is immutable while any live block references
// it, and the collector only ever holds a non-owning reference to one,
// via the block.Layout interface.
type Descriptor struct {
	PtrOffsets []uintptr
	Size       uintptr
}

var _ block.Layout = (*Descriptor)(nil)

// NewDescriptor validates and constructs a Descriptor. Each offset
// must land a whole, in-bounds pointer word within the payload: it
// must fall in [0, size - pointer_width], so that reading a full
// pointer word starting at the offset never runs past the payload.
func NewDescriptor(size uintptr, ptrOffsets []uintptr) (*Descriptor, error) {
	for _, off := range ptrOffsets {
		if off > size || block.PointerWidth > size-off {
			return nil, fmt.Errorf("layout: pointer offset %d overruns payload of size %d", off, size)
		}
	}

	owned := make([]uintptr, len(ptrOffsets))
	copy(owned, ptrOffsets)

	return &Descriptor{Size: size, PtrOffsets: owned}, nil
}

// Atomic returns a Descriptor for a payload with zero outgoing
// pointers, so the collector can skip scanning it entirely during
// marking.
func Atomic(size uintptr) *Descriptor {
	return &Descriptor{Size: size}
}

// PayloadSize implements block.Layout.
func (d *Descriptor) PayloadSize() uintptr { return d.Size }

// NumPointers implements block.Layout.
func (d *Descriptor) NumPointers() int { return len(d.PtrOffsets) }

// PointerOffset implements block.Layout.
func (d *Descriptor) PointerOffset(i int) uintptr { return d.PtrOffsets[i] }

// ---- struct field layout calculator (drives cmd/layoutgen) ----

// FieldInfo describes one field of a Go struct being scanned for
// pointer layout generation.
type FieldInfo struct {
	Name      string
	Type      string
	Offset    int64
	Size      int64
	Alignment int64
	IsPointer bool
}

// PaddingInfo records padding bytes inserted between or after fields
// to satisfy alignment.
type PaddingInfo struct {
	Reason string
	Offset int64
	Size   int64
}

// StructLayout is the computed layout of a Go struct: field offsets,
// total size, and alignment.
type StructLayout struct {
	Name       string
	Fields     []FieldInfo
	PaddingMap []PaddingInfo
	TotalSize  int64
	Alignment  int64
}

// LayoutCalculator computes struct layouts for a fixed target ABI:
// 64-bit pointers, with a maximum alignment matching block.Alignment
// recorded in MaxAlignment. CalculateStructLayout takes each field's
// alignment as given and does not clamp it to MaxAlignment.
type LayoutCalculator struct {
	TargetPointerSize int64
	MaxAlignment      int64
}

// NewLayoutCalculator returns a calculator for the 64-bit target this
// module's heap region and block alignment assume.
func NewLayoutCalculator() *LayoutCalculator {
	return &LayoutCalculator{TargetPointerSize: 8, MaxAlignment: block.Alignment}
}

// CalculateStructLayout computes field offsets, total size (including
// trailing padding for self-alignment), and padding map for a struct
// whose fields are given in declaration order.
//
// The struct's own alignment is resolved up front, as the strictest
// alignment any field demands, rather than tracked incrementally while
// placing fields — placement and alignment-requirement discovery are
// independent passes over the same field list. Gaps are measured with
// the same remainder arithmetic block.PadBefore uses for the heap's
// bump frontier, rather than a round-up-then-subtract formula.
func (lc *LayoutCalculator) CalculateStructLayout(name string, fields []FieldInfo) (*StructLayout, error) {
	if len(fields) == 0 {
		return &StructLayout{Name: name, TotalSize: 0, Alignment: 1}, nil
	}

	normalized := make([]FieldInfo, len(fields))
	structAlignment := int64(1)

	for i, f := range fields {
		if f.Size <= 0 {
			return nil, fmt.Errorf("field %s has invalid size: %d", f.Name, f.Size)
		}

		if f.Alignment <= 0 {
			f.Alignment = 1
		}

		if f.Alignment > structAlignment {
			structAlignment = f.Alignment
		}

		normalized[i] = f
	}

	laidOut := make([]FieldInfo, len(normalized))

	var padding []PaddingInfo

	offset := int64(0)

	for i, f := range normalized {
		if gap := alignGap(offset, f.Alignment); gap > 0 {
			padding = append(padding, PaddingInfo{
				Offset: offset,
				Size:   gap,
				Reason: fmt.Sprintf("alignment for field %s", f.Name),
			})
			offset += gap
		}

		f.Offset = offset
		laidOut[i] = f
		offset += f.Size
	}

	if tail := alignGap(offset, structAlignment); tail > 0 {
		padding = append(padding, PaddingInfo{Offset: offset, Size: tail, Reason: "struct alignment"})
		offset += tail
	}

	return &StructLayout{
		Name:       name,
		Fields:     laidOut,
		TotalSize:  offset,
		Alignment:  structAlignment,
		PaddingMap: padding,
	}, nil
}

// alignGap returns the number of bytes needed to advance offset to the
// next multiple of alignment, the same remainder-based formula
// block.PadBefore applies to heap addresses.
func alignGap(offset, alignment int64) int64 {
	if alignment <= 1 {
		return 0
	}

	rem := offset % alignment
	if rem == 0 {
		return 0
	}

	return alignment - rem
}

// DeriveDescriptor builds a GC Descriptor from a computed StructLayout,
// taking every field marked IsPointer as contributing one pointer
// offset. This is the bridge cmd/layoutgen uses to avoid requiring
// clients to hand-count byte offsets.
func (sl *StructLayout) DeriveDescriptor() (*Descriptor, error) {
	var offsets []uintptr

	for _, f := range sl.Fields {
		if !f.IsPointer {
			continue
		}

		if f.Size != 8 {
			return nil, fmt.Errorf("field %s marked as pointer but has size %d, want 8", f.Name, f.Size)
		}

		offsets = append(offsets, uintptr(f.Offset))
	}

	return NewDescriptor(uintptr(sl.TotalSize), offsets)
}

// GetFieldOffset returns the byte offset of a named field.
func (sl *StructLayout) GetFieldOffset(fieldName string) (int64, bool) {
	for _, field := range sl.Fields {
		if field.Name == fieldName {
			return field.Offset, true
		}
	}

	return 0, false
}

// GetPaddingBytes returns the total number of padding bytes inserted.
func (sl *StructLayout) GetPaddingBytes() int64 {
	var total int64
	for _, pad := range sl.PaddingMap {
		total += pad.Size
	}

	return total
}

// String renders a short human-readable summary.
func (sl *StructLayout) String() string {
	return fmt.Sprintf("struct %s (%d fields, %d bytes, %d bytes padding)",
		sl.Name, len(sl.Fields), sl.TotalSize, sl.GetPaddingBytes())
}
