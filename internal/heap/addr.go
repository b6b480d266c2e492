package heap

import "unsafe"

// firstByteAddr returns the address of mem[0] as a uintptr. Kept as a
// narrow, single-purpose helper so the only unsafe address-taking in
// this package is auditable in one place.
func firstByteAddr(mem []byte) uintptr {
	if len(mem) == 0 {
		return 0
	}

	return uintptr(unsafe.Pointer(unsafe.SliceData(mem)))
}
