package sim

import "container/heap"

// Continuation is one step of a cooperative "process": it runs from its
// previous suspension point to its next one, and resumes execution
// at simulated time `now`. A continuation that needs to suspend again
// schedules its remainder as a new continuation instead of blocking.
type Continuation func(now int64)

// schedEvent is a single entry in the scheduler's event queue: a
// continuation due to resume at `time`, tie-broken by `seq` for stable FIFO
// ordering among events scheduled for the same instant.
type schedEvent struct {
	time int64
	seq  uint64
	cont Continuation
}

// eventHeap is a container/heap ordered by (time, seq), generalized from a
// small fixed set of typed event structs to arbitrary continuations, since
// a station process here is a chain of closures rather than an enum of
// event kinds.
type eventHeap []*schedEvent

func (h eventHeap) Len() int { return len(h) }
func (h eventHeap) Less(i, j int) bool {
	if h[i].time != h[j].time {
		return h[i].time < h[j].time
	}
	return h[i].seq < h[j].seq
}
func (h eventHeap) Swap(i, j int) { h[i], h[j] = h[j], h[i] }
func (h *eventHeap) Push(x any)   { *h = append(*h, x.(*schedEvent)) }
func (h *eventHeap) Pop() any {
	old := *h
	n := len(old)
	item := old[n-1]
	old[n-1] = nil
	*h = old[:n-1]
	return item
}

// Scheduler is the single-threaded cooperative event scheduler: a min-heap
// of (time, seq, continuation) triples that advances simulated time and
// resumes one continuation at a time. No two continuations ever run
// concurrently, which is the only determinism guarantee this package relies
// on besides RandomSource.
type Scheduler struct {
	now     int64
	horizon int64
	queue   eventHeap
	nextSeq uint64
}

// NewScheduler creates a Scheduler with the given simulation horizon in
// seconds. Run stops processing events timestamped beyond it.
func NewScheduler(horizon int64) *Scheduler {
	s := &Scheduler{horizon: horizon}
	heap.Init(&s.queue)
	return s
}

// Now returns the scheduler's current simulated time.
func (s *Scheduler) Now() int64 { return s.now }

// Horizon returns the configured simulation horizon.
func (s *Scheduler) Horizon() int64 { return s.horizon }

// ScheduleAfter enqueues cont to run at now+deltaSeconds. deltaSeconds must
// be >= 0; a negative delta would let a continuation run before the event
// that scheduled it, breaking the single source of truth for simulated
// time, so this is an InternalInvariantError condition, not a config error.
func (s *Scheduler) ScheduleAfter(deltaSeconds int64, cont Continuation) {
	if deltaSeconds < 0 {
		panic(invariantViolation("schedule_after called with negative delta %d", deltaSeconds))
	}
	s.nextSeq++
	heap.Push(&s.queue, &schedEvent{time: s.now + deltaSeconds, seq: s.nextSeq, cont: cont})
}

// Run pops events in (time, seq) order, advances `now` to each popped
// event's timestamp, and resumes its continuation, until the queue is empty
// or the next event's time exceeds the horizon. Any continuations still
// waiting on a Resource/FilterStore/Store when the horizon is reached are
// discarded.
func (s *Scheduler) Run() {
	for s.queue.Len() > 0 {
		next := s.queue[0]
		if next.time > s.horizon {
			return
		}
		heap.Pop(&s.queue)
		if next.time < s.now {
			panic(invariantViolation("clock moved backwards: %d < %d", next.time, s.now))
		}
		s.now = next.time
		next.cont(s.now)
	}
}

// Resource is a counting semaphore with a FIFO wait queue (the charger-bay
// resource a station acquires during charging). Acquire either grants the
// caller a slot immediately or parks it; Release hands the freed slot
// directly to the oldest waiter rather than truly decrementing and letting
// a fresh Acquire race for it, so FIFO order is exact.
type Resource struct {
	capacity int
	held     int
	waiters  []Continuation
}

// NewResource creates a Resource with the given capacity (>= 1).
func NewResource(capacity int) *Resource {
	return &Resource{capacity: capacity}
}

// Held returns the number of currently-held slots.
func (r *Resource) Held() int { return r.held }

// Acquire grants cont a slot immediately (scheduled at +0) if one is free,
// otherwise parks cont on the FIFO wait queue until Release frees one.
func (r *Resource) Acquire(s *Scheduler, cont Continuation) {
	if r.held < r.capacity {
		r.held++
		s.ScheduleAfter(0, cont)
		return
	}
	r.waiters = append(r.waiters, cont)
}

// Release frees the caller's slot. If a continuation is waiting, the slot
// is hand-off directly to the oldest waiter (held count is unchanged — one
// holder relinquishes it, the next immediately takes it); otherwise held is
// decremented.
func (r *Resource) Release(s *Scheduler) {
	if len(r.waiters) > 0 {
		cont := r.waiters[0]
		r.waiters = r.waiters[1:]
		s.ScheduleAfter(0, cont)
		return
	}
	if r.held > 0 {
		r.held--
	}
}

// BatteryPredicate tests whether a battery satisfies a FilterStore.Get call.
type BatteryPredicate func(*Battery) bool

type filterWaiter struct {
	pred BatteryPredicate
	cont func(*Battery)
}

// FilterStore is the battery pool: a bag of batteries supporting
// predicate-filtered removal. Put wakes the first FIFO-registered waiter
// whose predicate the new item satisfies; among waiters whose predicate the
// item satisfies, the earliest registrant wins.
type FilterStore struct {
	items   []*Battery
	waiters []filterWaiter
}

// NewFilterStore creates an empty FilterStore.
func NewFilterStore() *FilterStore {
	return &FilterStore{}
}

// Get removes and passes the first item satisfying pred to cont at +0 if
// one is already present; otherwise parks (pred, cont) on the FIFO wait
// list until a matching Put arrives.
func (fs *FilterStore) Get(s *Scheduler, pred BatteryPredicate, cont func(*Battery)) {
	for i, it := range fs.items {
		if pred(it) {
			fs.items = append(fs.items[:i:i], fs.items[i+1:]...)
			item := it
			s.ScheduleAfter(0, func(int64) { cont(item) })
			return
		}
	}
	fs.waiters = append(fs.waiters, filterWaiter{pred: pred, cont: cont})
}

// Put inserts item, waking the first FIFO waiter whose predicate it
// satisfies (testing waiters in registration order); if none matches, item
// joins the bag. Put never suspends.
func (fs *FilterStore) Put(s *Scheduler, item *Battery) {
	for i, w := range fs.waiters {
		if w.pred(item) {
			fs.waiters = append(fs.waiters[:i:i], fs.waiters[i+1:]...)
			cont := w.cont
			s.ScheduleAfter(0, func(int64) { cont(item) })
			return
		}
	}
	fs.items = append(fs.items, item)
}

// CountMatching returns how many items currently in the bag satisfy pred,
// without removing any. Used for the stockout check: because the check and
// any immediately-following Get run in the same continuation with no
// intervening scheduler step, a non-stockout result here always means the
// following Get resolves at +0, never by suspension — a concurrent
// implementation might need to handle the Get actually suspending, but that
// case cannot arise under this package's single-threaded model.
func (fs *FilterStore) CountMatching(pred BatteryPredicate) int {
	n := 0
	for _, it := range fs.items {
		if pred(it) {
			n++
		}
	}
	return n
}

// Len returns the number of items currently in the bag (not counting
// parked waiters).
func (fs *FilterStore) Len() int { return len(fs.items) }

// Store is the charge queue: a plain FIFO without a predicate. Get returns
// the oldest item.
type Store struct {
	items   []*Battery
	waiters []func(*Battery)
}

// NewStore creates an empty Store.
func NewStore() *Store {
	return &Store{}
}

// Get removes and passes the oldest item to cont at +0 if one is present,
// otherwise parks cont on the FIFO wait list until a Put arrives.
func (q *Store) Get(s *Scheduler, cont func(*Battery)) {
	if len(q.items) > 0 {
		item := q.items[0]
		q.items = q.items[1:]
		s.ScheduleAfter(0, func(int64) { cont(item) })
		return
	}
	q.waiters = append(q.waiters, cont)
}

// Put appends item to the back of the queue, or — if a Get is already
// waiting — hands item directly to the oldest waiter. Put never suspends.
func (q *Store) Put(s *Scheduler, item *Battery) {
	if len(q.waiters) > 0 {
		cont := q.waiters[0]
		q.waiters = q.waiters[1:]
		s.ScheduleAfter(0, func(int64) { cont(item) })
		return
	}
	q.items = append(q.items, item)
}

// Len returns the number of items currently queued (not counting parked
// waiters).
func (q *Store) Len() int { return len(q.items) }
