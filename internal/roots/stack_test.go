package roots

import "testing"

func TestPushPopOrderIsLIFO(t *testing.T) {
	var s Stack

	s.Push(1)
	s.Push(2)
	s.Push(3)

	want := []Value{3, 2, 1}
	for i, w := range want {
		got, ok := s.Pop()
		if !ok {
			t.Fatalf("Pop() #%d: ok = false, want true", i)
		}

		if got != w {
			t.Fatalf("Pop() #%d = %d, want %d", i, got, w)
		}
	}

	if _, ok := s.Pop(); ok {
		t.Fatal("Pop() on an empty stack should report ok = false")
	}
}

func TestEmptyAndLen(t *testing.T) {
	var s Stack

	if !s.Empty() {
		t.Fatal("fresh stack should be Empty()")
	}

	s.Push(0)

	if s.Empty() {
		t.Fatal("stack with one entry (even a null root) should not be Empty()")
	}

	if s.Len() != 1 {
		t.Fatalf("Len() = %d, want 1", s.Len())
	}

	s.Pop()

	if !s.Empty() || s.Len() != 0 {
		t.Fatal("stack should be Empty() with Len() == 0 after draining its only entry")
	}
}
