// Command gctest runs a basic smoke scenario: build an array of N
// pointers to individually allocated int objects, root the array, and
// run one collection. Every object should survive, since every int is
// reachable from the rooted array.
package main

import (
	"fmt"
	"os"
	"strconv"
	"unsafe"

	"github.com/orizon-lang/orizon-gc/internal/gcruntime"
	"github.com/orizon-lang/orizon-gc/internal/layout"
)

func main() {
	if len(os.Args) != 2 {
		fmt.Fprintf(os.Stderr, "USAGE: %s <number of objects>\n", os.Args[0])
		os.Exit(1)
	}

	numObjs, err := strconv.Atoi(os.Args[1])
	if err != nil || numObjs < 0 {
		fmt.Fprintf(os.Stderr, "USAGE: %s <number of objects>\n", os.Args[0])
		os.Exit(1)
	}

	if err := run(numObjs); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(numObjs int) error {
	const intSize = unsafe.Sizeof(int32(0))
	const ptrWidth = 8

	m := gcruntime.New(0)
	region := m.Region()

	intLayout := layout.Atomic(intSize)

	ptrOffsets := make([]uintptr, numObjs)
	for i := range ptrOffsets {
		ptrOffsets[i] = uintptr(i) * ptrWidth
	}

	arrayLayout, err := layout.NewDescriptor(uintptr(numObjs)*ptrWidth, ptrOffsets)
	if err != nil {
		return fmt.Errorf("gctest: %w", err)
	}

	arrayAddr := m.AllocTyped(arrayLayout)
	if arrayAddr == 0 {
		return fmt.Errorf("gctest: out of heap allocating array of %d objects", numObjs)
	}

	for i := 0; i < numObjs; i++ {
		intAddr := m.AllocTyped(intLayout)
		if intAddr == 0 {
			return fmt.Errorf("gctest: out of heap allocating int object %d", i)
		}

		*(*int32)(unsafe.Pointer(region.BytePtrAt(intAddr))) = int32(i)
		region.WritePointer(arrayAddr+uintptr(i)*ptrWidth, intAddr)
	}

	m.RootInsert(arrayAddr)

	stats := m.Collect()
	fmt.Printf("collected: survived=%d freed=%d\n", stats.Survived, stats.Freed)

	if stats.Survived != numObjs+1 {
		return fmt.Errorf("gctest: expected %d survivors (array + %d ints), got %d",
			numObjs+1, numObjs, stats.Survived)
	}

	return m.Dump(os.Stdout)
}
