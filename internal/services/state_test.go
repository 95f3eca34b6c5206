package services_test

import (
	"errors"
	"sync"
	"testing"

	"github.com/abrezinsky/spwtrack/internal/services"
)

func TestState_SnapshotIsDeepCopy(t *testing.T) {
	state := services.NewState(services.DefaultSeed().Snapshot())

	snap := state.Snapshot()
	snap.Leaders[0].Name = "changed"
	snap.Leaders[0].KAIs[0].IsDone = !snap.Leaders[0].KAIs[0].IsDone
	snap.KAIs[0].Description = "changed"

	fresh := state.Snapshot()
	if fresh.Leaders[0].Name == "changed" {
		t.Error("leader name leaked into state")
	}
	if fresh.Leaders[0].KAIs[0].IsDone == snap.Leaders[0].KAIs[0].IsDone {
		t.Error("KAI flag leaked into state")
	}
	if fresh.KAIs[0].Description == "changed" {
		t.Error("catalog leaked into state")
	}
}

func TestState_UpdateCommitsAndVersions(t *testing.T) {
	state := services.NewState(services.DefaultSeed().Snapshot())
	before := state.Snapshot().Version

	snap, err := state.Update(func(cur *services.Snapshot) error {
		cur.SelectedID = "tl-002"
		return nil
	})
	if err != nil {
		t.Fatalf("Update() error = %v", err)
	}
	if snap.SelectedID != "tl-002" || snap.Version != before+1 {
		t.Errorf("committed = %q v%d, want tl-002 v%d", snap.SelectedID, snap.Version, before+1)
	}
	if state.Snapshot().SelectedID != "tl-002" {
		t.Error("update not visible in state")
	}
}

func TestState_UpdateErrorLeavesStateUnchanged(t *testing.T) {
	state := services.NewState(services.DefaultSeed().Snapshot())
	before := state.Snapshot()
	boom := errors.New("boom")

	_, err := state.Update(func(cur *services.Snapshot) error {
		cur.Leaders = nil
		cur.SelectedID = "tl-001"
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("Update() error = %v, want boom", err)
	}

	after := state.Snapshot()
	if len(after.Leaders) != len(before.Leaders) || after.SelectedID != "" || after.Version != before.Version {
		t.Error("failed update should not change state")
	}
}

func TestState_ReplaceKeepsVersionMonotonic(t *testing.T) {
	state := services.NewState(services.DefaultSeed().Snapshot())
	state.Update(func(cur *services.Snapshot) error { return nil })
	state.Update(func(cur *services.Snapshot) error { return nil })

	snap := state.Replace(services.Snapshot{Version: 0})
	if snap.Version != 3 {
		t.Errorf("Version = %d, want 3", snap.Version)
	}
	if len(snap.Leaders) != 0 {
		t.Errorf("Leaders = %d, want 0", len(snap.Leaders))
	}
}

func TestState_ConcurrentUpdates(t *testing.T) {
	state := services.NewState(services.DefaultSeed().Snapshot())

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			state.Update(func(cur *services.Snapshot) error {
				cur.Leaders[0].KPIs[0].Actual++
				return nil
			})
		}()
	}
	wg.Wait()

	snap := state.Snapshot()
	if snap.Version != 50 {
		t.Errorf("Version = %d, want 50", snap.Version)
	}
	if got := snap.Leaders[0].KPIs[0].Actual; got != 1.5+50 {
		t.Errorf("Actual = %v, want %v", got, 1.5+50)
	}
}
