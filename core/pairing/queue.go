package pairing

import "github.com/samber/lo"

// waitingQueue keeps searching users in arrival order without duplicates.
// It is not safe for concurrent use; Engine guards it.
type waitingQueue struct {
	ids []int64
}

func (q *waitingQueue) Len() int { return len(q.ids) }

func (q *waitingQueue) Contains(id int64) bool {
	return lo.Contains(q.ids, id)
}

// Enqueue appends id and reports false if it was already queued.
func (q *waitingQueue) Enqueue(id int64) bool {
	if q.Contains(id) {
		return false
	}
	q.ids = append(q.ids, id)
	return true
}

// Leave removes id by identity and reports whether it was present.
func (q *waitingQueue) Leave(id int64) bool {
	idx := lo.IndexOf(q.ids, id)
	if idx < 0 {
		return false
	}
	q.ids = append(q.ids[:idx], q.ids[idx+1:]...)
	return true
}

// At returns the id at position i.
func (q *waitingQueue) At(i int) int64 { return q.ids[i] }

// Snapshot returns a copy of the queue in arrival order.
func (q *waitingQueue) Snapshot() []int64 {
	return append([]int64(nil), q.ids...)
}
