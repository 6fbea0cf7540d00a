package containers

// Slab is a slice that hands out the index of pushed elements and allows
// holes. Freed slots are reused lowest first.
type Slab[T any] struct {
	buf      []*T
	lastFree int
}

func NewSlab[T any]() *Slab[T] {
	return &Slab[T]{}
}

// Push stores t and returns its index.
func (s *Slab[T]) Push(t T) int {
	n := len(s.buf)
	if n <= s.lastFree {
		s.buf = append(s.buf, &t)
		s.lastFree = len(s.buf)
		return n
	}

	idx := s.lastFree
	s.buf[idx] = &t
	s.lastFree = n
	for i := idx; i < n; i++ {
		if s.buf[i] == nil {
			s.lastFree = i
			break
		}
	}
	return idx
}

// Take removes and returns the element at idx.
func (s *Slab[T]) Take(idx int) (T, bool) {
	var zero T
	if idx < 0 {
		return zero, false
	}
	if idx < s.lastFree {
		s.lastFree = idx
	}
	if idx >= len(s.buf) || s.buf[idx] == nil {
		return zero, false
	}
	v := s.buf[idx]
	s.buf[idx] = nil
	return *v, true
}

func (s *Slab[T]) Get(idx int) (T, bool) {
	if idx < 0 || idx >= len(s.buf) || s.buf[idx] == nil {
		var zero T
		return zero, false
	}
	return *s.buf[idx], true
}

// Set replaces an occupied slot. It reports false for holes.
func (s *Slab[T]) Set(idx int, t T) bool {
	if idx < 0 || idx >= len(s.buf) || s.buf[idx] == nil {
		return false
	}
	s.buf[idx] = &t
	return true
}

// Each calls fn for every occupied slot in index order until fn returns false.
func (s *Slab[T]) Each(fn func(idx int, v T) bool) {
	for i, v := range s.buf {
		if v == nil {
			continue
		}
		if !fn(i, *v) {
			return
		}
	}
}

// Len returns the number of occupied slots.
func (s *Slab[T]) Len() int {
	n := 0
	for _, v := range s.buf {
		if v != nil {
			n++
		}
	}
	return n
}
