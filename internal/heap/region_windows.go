//go:build windows

package heap

import (
	"unsafe"

	"golang.org/x/sys/windows"
)

// reserve obtains size bytes of committed, read/write memory via
// VirtualAlloc, the Windows counterpart to reserve's mmap-based
// implementation on Unix.
func reserve(size uintptr) ([]byte, error) {
	addr, err := windows.VirtualAlloc(0, size, windows.MEM_RESERVE|windows.MEM_COMMIT, windows.PAGE_READWRITE)
	if err != nil {
		return nil, err
	}

	return unsafe.Slice((*byte)(unsafe.Pointer(addr)), size), nil
}
