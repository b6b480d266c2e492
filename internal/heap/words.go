package heap

import "unsafe"

// ReadPointer reads the 8-byte pointer word stored at address addr.
// The caller is responsible for ensuring addr falls within the issued
// region and is 8-byte aligned, both guaranteed by construction for
// any address derived from a payload address plus a validated layout
// offset.
func (r *Region) ReadPointer(addr uintptr) uintptr {
	return *(*uintptr)(unsafe.Pointer(r.BytePtrAt(addr)))
}

// WritePointer stores value as the 8-byte pointer word at address
// addr. Used by tests and client code to wire up object graphs by
// writing addresses directly into allocated payloads.
func (r *Region) WritePointer(addr uintptr, value uintptr) {
	*(*uintptr)(unsafe.Pointer(r.BytePtrAt(addr))) = value
}
