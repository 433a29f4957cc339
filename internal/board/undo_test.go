package board

import (
	"testing"
	"time"
)

func undoFixture() UndoRecord {
	return UndoRecord{
		Task:     Task{ID: "task-1", Content: "Plan the week"},
		ColumnID: ColumnTodo,
		Index:    0,
		Profile:  ProfileWork,
	}
}

func TestUndoArmThenTake(t *testing.T) {
	var u UndoBuffer
	now := time.Now()

	u.Arm(undoFixture(), now)
	if !u.Armed(now) {
		t.Fatal("expected buffer armed")
	}

	rec, ok := u.Take(now.Add(time.Second))
	if !ok {
		t.Fatal("expected record within window")
	}
	if rec.Task.ID != "task-1" || rec.Profile != ProfileWork {
		t.Fatalf("unexpected record %+v", rec)
	}
	if u.Armed(now) {
		t.Fatal("buffer should clear after take")
	}
}

func TestUndoTakeAfterWindow(t *testing.T) {
	var u UndoBuffer
	now := time.Now()

	u.Arm(undoFixture(), now)
	if _, ok := u.Take(now.Add(UndoWindow + time.Millisecond)); ok {
		t.Fatal("expected expired record to be unavailable")
	}
}

func TestUndoTakeWhileEmpty(t *testing.T) {
	var u UndoBuffer

	if _, ok := u.Take(time.Now()); ok {
		t.Fatal("empty buffer should not yield a record")
	}
}

func TestUndoNewDeletionReplacesRecord(t *testing.T) {
	var u UndoBuffer
	now := time.Now()

	u.Arm(undoFixture(), now)
	second := undoFixture()
	second.Task.ID = "task-2"
	u.Arm(second, now)

	rec, ok := u.Take(now)
	if !ok || rec.Task.ID != "task-2" {
		t.Fatalf("expected latest record, got %+v ok=%v", rec, ok)
	}
}

func TestUndoStaleTimerIsHarmless(t *testing.T) {
	var u UndoBuffer
	now := time.Now()

	gen1 := u.Arm(undoFixture(), now)
	gen2 := u.Arm(undoFixture(), now)

	u.Expire(gen1)
	if !u.Armed(now) {
		t.Fatal("stale timer cleared a newer record")
	}
	u.Expire(gen2)
	if u.Armed(now) {
		t.Fatal("current timer should clear the buffer")
	}
	if gen1 == gen2 {
		t.Fatal("generations must differ")
	}
}

func TestUndoDismiss(t *testing.T) {
	var u UndoBuffer
	now := time.Now()

	u.Arm(undoFixture(), now)
	u.Dismiss()
	if u.Armed(now) {
		t.Fatal("dismiss should clear the buffer")
	}
}

func TestUndoRemaining(t *testing.T) {
	var u UndoBuffer
	now := time.Now()

	if u.Remaining(now) != 0 {
		t.Fatal("empty buffer has no remaining window")
	}
	u.Arm(undoFixture(), now)
	if got := u.Remaining(now.Add(2 * time.Second)); got != 3*time.Second {
		t.Fatalf("expected 3s remaining, got %v", got)
	}
}
