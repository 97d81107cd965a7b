package events

import (
	"runtime"
	"sync"
	"testing"

	"joypanel/panel"
)

func TestQueueTryRecvEmpty(t *testing.T) {
	var q Queue

	_, ok := q.TryRecv()
	if ok {
		t.Fatalf("TryRecv() ok = true, want false")
	}
}

func TestQueueTrySendFull(t *testing.T) {
	var q Queue
	ev := Press{Line: panel.ButtonA, On: true}

	for i := 0; i < queueSlots; i++ {
		if ok := q.TrySend(ev); !ok {
			t.Fatalf("TrySend() ok = false at slot %d, want true", i)
		}
	}
	if ok := q.TrySend(ev); ok {
		t.Fatalf("TrySend() ok = true when full, want false")
	}
	if got := q.Dropped(); got != 1 {
		t.Fatalf("Dropped() = %d, want 1", got)
	}
	if got := q.Dropped(); got != 0 {
		t.Fatalf("Dropped() after reset = %d, want 0", got)
	}

	for i := 0; i < queueSlots; i++ {
		if _, ok := q.TryRecv(); !ok {
			t.Fatalf("TryRecv() ok = false at slot %d, want true", i)
		}
	}
}

func TestQueueDrainKeepsOrder(t *testing.T) {
	var q Queue
	want := []Press{
		{Line: panel.JoystickButton, On: true},
		{Line: panel.ButtonA, On: false},
		{Line: panel.ButtonB, On: true},
	}
	for _, ev := range want {
		q.TrySend(ev)
	}

	var got []Press
	n := q.Drain(func(ev Press) { got = append(got, ev) })
	if n != len(want) {
		t.Fatalf("Drain() = %d, want %d", n, len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("event %d = %+v, want %+v", i, got[i], want[i])
		}
	}
}

func TestQueueWrapsAround(t *testing.T) {
	var q Queue
	for i := 0; i < queueSlots*5; i++ {
		ev := Press{Line: panel.Line(i % panel.NumLines), On: i%2 == 0}
		if !q.TrySend(ev) {
			t.Fatalf("TrySend() failed at %d", i)
		}
		got, ok := q.TryRecv()
		if !ok || got != ev {
			t.Fatalf("TryRecv() = %+v, %v, want %+v, true", got, ok, ev)
		}
	}
}

func TestQueueConcurrentProducers(t *testing.T) {
	oldProcs := runtime.GOMAXPROCS(1)
	defer runtime.GOMAXPROCS(oldProcs)

	const (
		producers = panel.NumLines
		perProd   = 2_000
		total     = producers * perProd
	)

	var q Queue

	start := make(chan struct{})
	var wg sync.WaitGroup
	wg.Add(producers)
	for producerID := 0; producerID < producers; producerID++ {
		go func(line panel.Line) {
			defer wg.Done()
			<-start
			for i := 0; i < perProd; i++ {
				for !q.TrySend(Press{Line: line, On: i%2 == 0}) {
					runtime.Gosched()
				}
			}
		}(panel.Line(producerID))
	}
	close(start)

	var counts [panel.NumLines]int
	var next [panel.NumLines]bool
	for i := range next {
		next[i] = true
	}
	for received := 0; received < total; {
		ev, ok := q.TryRecv()
		if !ok {
			runtime.Gosched()
			continue
		}
		if ev.On != next[ev.Line] {
			t.Fatalf("line %s out of order at %d", ev.Line, counts[ev.Line])
		}
		next[ev.Line] = !next[ev.Line]
		counts[ev.Line]++
		received++
	}
	wg.Wait()

	for l, n := range counts {
		if n != perProd {
			t.Fatalf("line %d received %d events, want %d", l, n, perProd)
		}
	}
	if _, ok := q.TryRecv(); ok {
		t.Fatalf("TryRecv() ok = true after draining, want false")
	}
}
