// Package topk provides a bounded top-K selector over a stream of scored
// items. It keeps at most K items in a min-heap so that selecting the best K
// out of n candidates costs O(n log K) instead of a full O(n log n) sort.
//
// Ordering is decided purely by a lightweight key tuple (score, tie-break
// string, insertion sequence); payloads never enter the comparison, so any
// payload type works and equal-scoring items still have a total order.
package topk

import (
	"container/heap"
	"sort"
)

type entry[T any] struct {
	score   float64
	tie     string
	seq     uint64
	payload T
}

// worse reports whether a ranks strictly below b: lower score, then later
// tie-break string, then later insertion.
func worse[T any](a, b entry[T]) bool {
	if a.score != b.score {
		return a.score < b.score
	}
	if a.tie != b.tie {
		return a.tie > b.tie
	}
	return a.seq > b.seq
}

type minHeap[T any] []entry[T]

func (h minHeap[T]) Len() int           { return len(h) }
func (h minHeap[T]) Less(i, j int) bool { return worse(h[i], h[j]) }
func (h minHeap[T]) Swap(i, j int)      { h[i], h[j] = h[j], h[i] }
func (h *minHeap[T]) Push(x any)        { *h = append(*h, x.(entry[T])) }
func (h *minHeap[T]) Pop() any {
	old := *h
	n := len(old)
	e := old[n-1]
	*h = old[:n-1]
	return e
}

// Selector retains the K best-scoring items offered to it. The zero value is
// not usable; construct with New.
type Selector[T any] struct {
	k   int
	seq uint64
	h   minHeap[T]
}

// New returns a selector bounded to the best k items. k <= 0 yields a
// selector that retains nothing.
func New[T any](k int) *Selector[T] {
	if k < 0 {
		k = 0
	}
	return &Selector[T]{k: k, h: make(minHeap[T], 0, k)}
}

// Offer considers one item. Items with a higher score win; ties prefer the
// smaller tieBreak string, then earlier insertion. The heap root is the
// current worst of the best, so a full selector only admits an item that
// beats it.
func (s *Selector[T]) Offer(score float64, tieBreak string, payload T) {
	if s.k == 0 {
		return
	}
	e := entry[T]{score: score, tie: tieBreak, seq: s.seq, payload: payload}
	s.seq++
	if len(s.h) < s.k {
		heap.Push(&s.h, e)
		return
	}
	if worse(s.h[0], e) {
		s.h[0] = e
		heap.Fix(&s.h, 0)
	}
}

// Len returns the number of items currently retained.
func (s *Selector[T]) Len() int { return len(s.h) }

// Take drains the selector and returns the retained items best-first:
// score descending, tie-break ascending, insertion order ascending. The
// selector is empty afterwards.
func (s *Selector[T]) Take() []T {
	items := s.h
	s.h = nil
	sort.Slice(items, func(i, j int) bool { return worse(items[j], items[i]) })
	out := make([]T, len(items))
	for i, e := range items {
		out[i] = e.payload
	}
	return out
}
