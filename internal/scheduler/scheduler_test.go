package scheduler

import "testing"

// TestSchedulerOrdering replicates spec.md §8 scenario 1: add(A, Normal,
// 100); add(B, Low, 100); add(C, Normal, 50); run_until(200). Expected
// execution order: C(50), A(100), B(100); final GVT = 200.
func TestSchedulerOrdering(t *testing.T) {
	s := New()
	var order []string

	s.AddTask(TaskFunc(func(*Scheduler) { order = append(order, "A") }), Normal, 100)
	s.AddTask(TaskFunc(func(*Scheduler) { order = append(order, "B") }), Low, 100)
	s.AddTask(TaskFunc(func(*Scheduler) { order = append(order, "C") }), Normal, 50)

	s.RunUntil(200)

	want := []string{"C", "A", "B"}
	if len(order) != len(want) {
		t.Fatalf("got %v, want %v", order, want)
	}
	for i := range want {
		if order[i] != want[i] {
			t.Fatalf("got %v, want %v", order, want)
		}
	}
	if s.GVT() != 200 {
		t.Errorf("GVT = %d, want 200", s.GVT())
	}
}

func TestEmptyRunUntilIsNoOp(t *testing.T) {
	s := New()
	s.RunUntil(50)
	if s.GVT() != 50 {
		t.Errorf("GVT = %d, want 50", s.GVT())
	}
	if s.Pending() != 0 {
		t.Errorf("Pending = %d, want 0", s.Pending())
	}
}

func TestTaskCanRescheduleItself(t *testing.T) {
	s := New()
	count := 0
	var self TaskFunc
	self = func(sched *Scheduler) {
		count++
		if count < 3 {
			sched.AddTask(self, Normal, sched.GVT()+10)
		}
	}
	s.AddTask(self, Normal, 10)
	s.RunUntil(1000)
	if count != 3 {
		t.Errorf("count = %d, want 3", count)
	}
}

func TestSameTriggerTiesByInsertionOrder(t *testing.T) {
	s := New()
	var order []int
	for i := 0; i < 5; i++ {
		i := i
		s.AddTask(TaskFunc(func(*Scheduler) { order = append(order, i) }), Normal, 0)
	}
	s.RunUntil(0)
	for i, v := range order {
		if v != i {
			t.Fatalf("order = %v, want 0..4 in sequence", order)
		}
	}
}
