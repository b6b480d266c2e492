package allocator

// Stats tracks cumulative allocator counters: how many allocations and
// frees have happened, and the live/peak byte counts they imply.
type Stats struct {
	AllocCount uint64
	FreeCount  uint64
	BytesLive  uint64
	BytesPeak  uint64
}

func (s *Stats) recordAlloc(size uintptr) {
	s.AllocCount++
	s.BytesLive += uint64(size)

	if s.BytesLive > s.BytesPeak {
		s.BytesPeak = s.BytesLive
	}
}

func (s *Stats) recordFree(size uintptr) {
	s.FreeCount++
	s.BytesLive -= uint64(size)
}
