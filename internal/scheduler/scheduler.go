// Package scheduler implements the TaskScheduler described in
// spec.md §4.2: a single-threaded cooperative scheduler of deferred
// actions driven by an integer "global virtual time" clock.
//
// Grounded on the container/heap priority-queue shape used by
// other_examples' Dijkstra/AI schedulers (a Dijkstra pathfinder and a
// monster-AI reschedule queue) — no pack dependency wraps a reusable
// priority queue, so this is the one deliberate stdlib-only package
// (see DESIGN.md).
package scheduler

import "container/heap"

// Priority orders tasks scheduled for the same trigger time. Normal
// runs before Low, so entity-motion completion and damage resolution
// happen before monster AI reconsiders within the same tick.
type Priority int

const (
	Normal Priority = iota
	Low
)

// Task is a deferred action. Execute may itself schedule further tasks
// (including itself) at times >= the scheduler's current GVT.
type Task interface {
	Execute(s *Scheduler)
}

// TaskFunc adapts a plain function to Task.
type TaskFunc func(s *Scheduler)

func (f TaskFunc) Execute(s *Scheduler) { f(s) }

type entry struct {
	trigger  int32
	priority Priority
	seq      uint64 // insertion order, for stable tie-break
	task     Task
	index    int // heap.Interface bookkeeping
}

type taskHeap []*entry

func (h taskHeap) Len() int { return len(h) }

func (h taskHeap) Less(i, j int) bool {
	if h[i].trigger != h[j].trigger {
		return h[i].trigger < h[j].trigger
	}
	if h[i].priority != h[j].priority {
		return h[i].priority < h[j].priority
	}
	return h[i].seq < h[j].seq
}

func (h taskHeap) Swap(i, j int) {
	h[i], h[j] = h[j], h[i]
	h[i].index = i
	h[j].index = j
}

func (h *taskHeap) Push(x any) {
	e := x.(*entry)
	e.index = len(*h)
	*h = append(*h, e)
}

func (h *taskHeap) Pop() any {
	old := *h
	n := len(old)
	e := old[n-1]
	old[n-1] = nil
	e.index = -1
	*h = old[:n-1]
	return e
}

// Scheduler is the single-threaded cooperative task queue. It is not
// safe for concurrent use — per spec.md §5, all mutation happens on
// the engine tick goroutine.
type Scheduler struct {
	gvt   int32
	heap  taskHeap
	seq   uint64
}

func New() *Scheduler {
	s := &Scheduler{heap: make(taskHeap, 0, 256)}
	heap.Init(&s.heap)
	return s
}

// GVT returns the current global virtual time.
func (s *Scheduler) GVT() int32 { return s.gvt }

// AddTask schedules a task to run at triggerTimeGVT. It is a
// programmer error to schedule into the past; callers must ensure
// triggerTimeGVT >= s.GVT() for newly-added tasks originating outside
// Execute (spec.md §4.2's "must not add tasks in the past").
func (s *Scheduler) AddTask(task Task, priority Priority, triggerTimeGVT int32) {
	s.seq++
	heap.Push(&s.heap, &entry{
		trigger:  triggerTimeGVT,
		priority: priority,
		seq:      s.seq,
		task:     task,
	})
}

// RunUntil executes every task whose trigger time is <= endTimeGVT, in
// (trigger-time, priority, insertion-order) order, advancing GVT to
// each task's trigger time before executing it, then finally to
// endTimeGVT. An empty queue is a no-op that still advances GVT.
func (s *Scheduler) RunUntil(endTimeGVT int32) {
	for s.heap.Len() > 0 && s.heap[0].trigger <= endTimeGVT {
		e := heap.Pop(&s.heap).(*entry)
		s.gvt = e.trigger
		e.task.Execute(s)
	}
	if endTimeGVT > s.gvt {
		s.gvt = endTimeGVT
	}
}

// Pending reports the number of tasks still queued. Exposed for tests
// and diagnostics only.
func (s *Scheduler) Pending() int { return s.heap.Len() }
