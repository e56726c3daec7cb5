// Package sched implements the discrete-event scheduler that drives every
// timed transition in the game: the level clock, customer patience, spawn
// retries, processor delays and post-resolution removals.
//
// Time is virtual. The scheduler only moves when Advance is called, so a
// real-time driver and a test can feed it the same way. Events due at the
// same instant fire in the order they were scheduled. A Scheduler is not
// safe for concurrent use; its owner serializes access.
package sched

import (
	"container/heap"
	"time"
)

// Token identifies a scheduled event for cancellation. The zero Token is
// never issued.
type Token uint64

// Action is the callback of an event. now is the virtual time it fired at.
type Action func(now time.Duration)

type event struct {
	at     time.Duration
	seq    uint64
	token  Token
	period time.Duration // 0 for one-shot events
	fn     Action
	index  int
}

// Scheduler is a priority queue of (fireAt, action) pairs over virtual time.
type Scheduler struct {
	now    time.Duration
	seq    uint64
	tokens Token
	queue  eventQueue
	live   map[Token]*event
}

// New creates an empty scheduler at virtual time zero.
func New() *Scheduler {
	return &Scheduler{live: make(map[Token]*event)}
}

// Now returns the current virtual time.
func (s *Scheduler) Now() time.Duration { return s.now }

// After schedules fn to run once, d from now. Negative d is treated as zero.
func (s *Scheduler) After(d time.Duration, fn Action) Token {
	return s.schedule(d, 0, fn)
}

// Every schedules fn to run every period, first at now+period. The same
// token stays valid across repetitions until cancelled.
func (s *Scheduler) Every(period time.Duration, fn Action) Token {
	if period <= 0 {
		panic("sched: non-positive period")
	}
	return s.schedule(period, period, fn)
}

func (s *Scheduler) schedule(d, period time.Duration, fn Action) Token {
	if d < 0 {
		d = 0
	}
	s.tokens++
	s.seq++
	ev := &event{
		at:     s.now + d,
		seq:    s.seq,
		token:  s.tokens,
		period: period,
		fn:     fn,
	}
	heap.Push(&s.queue, ev)
	s.live[ev.token] = ev
	return ev.token
}

// Cancel removes a pending event. It reports whether anything was removed;
// cancelling a fired one-shot event or an unknown token is a no-op.
func (s *Scheduler) Cancel(tok Token) bool {
	ev, ok := s.live[tok]
	if !ok {
		return false
	}
	delete(s.live, tok)
	heap.Remove(&s.queue, ev.index)
	return true
}

// Scheduled reports whether tok is still pending.
func (s *Scheduler) Scheduled(tok Token) bool {
	_, ok := s.live[tok]
	return ok
}

// Due returns when tok fires next.
func (s *Scheduler) Due(tok Token) (time.Duration, bool) {
	ev, ok := s.live[tok]
	if !ok {
		return 0, false
	}
	return ev.at, true
}

// Clear drops every pending event and returns how many were dropped.
func (s *Scheduler) Clear() int {
	n := len(s.queue)
	s.queue = s.queue[:0]
	s.live = make(map[Token]*event)
	return n
}

// Pending returns the number of scheduled events.
func (s *Scheduler) Pending() int { return len(s.queue) }

// Advance moves virtual time forward by d, firing every event due on the
// way in (fireAt, scheduling order). Callbacks may schedule or cancel other
// events, including ones due within the same advance. Returns the number of
// callbacks run.
func (s *Scheduler) Advance(d time.Duration) int {
	if d < 0 {
		d = 0
	}
	target := s.now + d
	fired := 0
	for len(s.queue) > 0 {
		ev := s.queue[0]
		if ev.at > target {
			break
		}
		heap.Pop(&s.queue)
		s.now = ev.at
		if ev.period > 0 {
			// Re-arm before running so the callback can cancel itself.
			s.seq++
			ev.at += ev.period
			ev.seq = s.seq
			heap.Push(&s.queue, ev)
		} else {
			delete(s.live, ev.token)
		}
		ev.fn(s.now)
		fired++
	}
	s.now = target
	return fired
}

// eventQueue implements heap.Interface ordered by (at, seq).
type eventQueue []*event

func (q eventQueue) Len() int { return len(q) }

func (q eventQueue) Less(i, j int) bool {
	if q[i].at != q[j].at {
		return q[i].at < q[j].at
	}
	return q[i].seq < q[j].seq
}

func (q eventQueue) Swap(i, j int) {
	q[i], q[j] = q[j], q[i]
	q[i].index = i
	q[j].index = j
}

func (q *eventQueue) Push(x any) {
	ev := x.(*event)
	ev.index = len(*q)
	*q = append(*q, ev)
}

func (q *eventQueue) Pop() any {
	old := *q
	n := len(old)
	ev := old[n-1]
	old[n-1] = nil
	ev.index = -1
	*q = old[:n-1]
	return ev
}
