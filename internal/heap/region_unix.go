//go:build !windows

package heap

import "golang.org/x/sys/unix"

// reserve obtains size bytes of anonymous, private, read/write memory
// directly from the kernel via mmap. The mapping is never released for
// the lifetime of the process; unmapping it while any block may still
// hold a live pointer into it risks a use-after-unmap fault far harder
// to diagnose than simply never reclaiming the address space.
func reserve(size uintptr) ([]byte, error) {
	return unix.Mmap(-1, 0, int(size), unix.PROT_READ|unix.PROT_WRITE, unix.MAP_ANON|unix.MAP_PRIVATE)
}
