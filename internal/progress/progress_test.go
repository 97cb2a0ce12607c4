package progress

import (
	"sync"
	"testing"
	"time"
)

func collectUpdates() (func(Update), func() []Update) {
	var mu sync.Mutex
	var updates []Update
	record := func(u Update) {
		mu.Lock()
		updates = append(updates, u)
		mu.Unlock()
	}
	snapshot := func() []Update {
		mu.Lock()
		defer mu.Unlock()
		out := make([]Update, len(updates))
		copy(out, updates)
		return out
	}
	return record, snapshot
}

func TestIndicatorRunsThroughStages(t *testing.T) {
	stages := []Stage{
		{Label: "primeiro", Duration: 200 * time.Millisecond},
		{Label: "segundo", Duration: 200 * time.Millisecond},
	}
	record, snapshot := collectUpdates()

	ind := Start(stages, record, nil)
	time.Sleep(700 * time.Millisecond)
	ind.Stop()

	updates := snapshot()
	if len(updates) == 0 {
		t.Fatal("expected updates")
	}

	last := updates[len(updates)-1]
	if !last.Done {
		t.Errorf("last update should be done: %+v", last)
	}
	if last.Percent != 100 {
		t.Errorf("final percent = %d, want 100", last.Percent)
	}
	if last.Label != "segundo" {
		t.Errorf("final label = %q, want segundo", last.Label)
	}

	sawFirst := false
	for _, u := range updates {
		if u.Label == "primeiro" {
			sawFirst = true
		}
		if u.Percent < 0 || u.Percent > 100 {
			t.Errorf("percent out of range: %d", u.Percent)
		}
	}
	if !sawFirst {
		t.Error("first stage never shown")
	}

	// Percent must be monotonic: stages advance, never rewind.
	for i := 1; i < len(updates); i++ {
		if updates[i].Percent < updates[i-1].Percent {
			t.Errorf("percent went backwards at %d: %d -> %d", i, updates[i-1].Percent, updates[i].Percent)
		}
	}
}

func TestStopCancelsEarly(t *testing.T) {
	record, snapshot := collectUpdates()

	ind := Start([]Stage{{Label: "longo", Duration: time.Hour}}, record, nil)
	time.Sleep(250 * time.Millisecond)
	ind.Stop()

	before := len(snapshot())
	time.Sleep(250 * time.Millisecond)
	after := len(snapshot())
	if before != after {
		t.Errorf("updates continued after Stop: %d -> %d", before, after)
	}

	for _, u := range snapshot() {
		if u.Done {
			t.Error("cancelled indicator must not report done")
		}
	}
}

func TestStopIsIdempotent(t *testing.T) {
	ind := Start(nil, nil, nil)
	ind.Stop()
	ind.Stop() // must not panic or deadlock
}
