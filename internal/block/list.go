package block

// List is a doubly-linked intrusive list of *Block, using each
// Block's own Prev/Next fields as the links. The head is always the
// most recently prepended block. A List is not safe for concurrent
// use.
type List struct {
	head *Block
	len  int
}

// Head returns the most recently prepended block, or nil if the list
// is empty.
func (l *List) Head() *Block { return l.head }

// Len returns the number of blocks currently on the list.
func (l *List) Len() int { return l.len }

// Prepend inserts b at the head of the list. b must be detached
// (Prev == nil && Next == nil) beforehand.
func (l *List) Prepend(b *Block) {
	b.Prev = nil
	b.Next = l.head

	if l.head != nil {
		l.head.Prev = b
	}

	l.head = b
	l.len++
}

// Remove detaches b from the list, fixing up its neighbors and the
// head pointer, and clears b's link fields. b must currently be a
// member of l.
func (l *List) Remove(b *Block) {
	if b.Prev != nil {
		b.Prev.Next = b.Next
	} else {
		l.head = b.Next
	}

	if b.Next != nil {
		b.Next.Prev = b.Prev
	}

	b.Prev = nil
	b.Next = nil
	l.len--
}

// Each calls fn for every block currently on the list, in head-to-tail
// order. fn may safely detach the current block from l by capturing
// its successor before acting on it, but must not otherwise mutate l.
func (l *List) Each(fn func(*Block)) {
	b := l.head
	for b != nil {
		next := b.Next
		fn(b)
		b = next
	}
}
