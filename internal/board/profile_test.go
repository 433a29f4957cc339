package board

import (
	"errors"
	"reflect"
	"testing"
)

// boardWith builds a three-column board holding the given task ids per
// column, each task's content mirroring its id.
func boardWith(todo, inprogress, done []string) Board {
	b := Board{
		Columns: map[string]Column{
			ColumnTodo:       {ID: ColumnTodo, Title: "To Do", TaskIDs: todo},
			ColumnInProgress: {ID: ColumnInProgress, Title: "In Progress", TaskIDs: inprogress},
			ColumnDone:       {ID: ColumnDone, Title: "Done", TaskIDs: done},
		},
		Tasks:       map[string]Task{},
		ColumnOrder: []string{ColumnTodo, ColumnInProgress, ColumnDone},
	}
	for _, ids := range [][]string{todo, inprogress, done} {
		for _, id := range ids {
			b.Tasks[id] = Task{ID: id, Content: "content of " + id}
		}
	}
	return b
}

func TestActivePassThrough(t *testing.T) {
	ps := Profiles{
		ProfileWork:     boardWith([]string{"task-1"}, nil, nil),
		ProfilePersonal: boardWith([]string{"task-5"}, nil, nil),
	}

	got := Active(ps, SelectWork)
	if !reflect.DeepEqual(got, ps[ProfileWork]) {
		t.Fatal("concrete selection should pass the profile board through")
	}
}

func TestMergedBoardSynthesis(t *testing.T) {
	ps := Profiles{
		ProfileWork:     boardWith([]string{"task-1"}, []string{"task-2"}, nil),
		ProfilePersonal: boardWith([]string{"task-5"}, nil, []string{"task-6"}),
	}

	m := Active(ps, SelectAll)
	if len(m.Tasks) != len(ps[ProfileWork].Tasks)+len(ps[ProfilePersonal].Tasks) {
		t.Fatalf("expected %d merged tasks, got %d",
			len(ps[ProfileWork].Tasks)+len(ps[ProfilePersonal].Tasks), len(m.Tasks))
	}
	if got := m.Columns[ColumnTodo].TaskIDs; !reflect.DeepEqual(got, []string{"work__task-1", "personal__task-5"}) {
		t.Fatalf("unexpected merged todo order: %v", got)
	}
	for _, colID := range m.ColumnOrder {
		want := len(ps[ProfileWork].Columns[colID].TaskIDs) + len(ps[ProfilePersonal].Columns[colID].TaskIDs)
		if got := len(m.Columns[colID].TaskIDs); got != want {
			t.Fatalf("column %s: expected %d entries, got %d", colID, want, got)
		}
	}
	if err := m.Check(); err != nil {
		t.Fatalf("merged invariants: %v", err)
	}
}

func TestParseRef(t *testing.T) {
	ref, err := ParseRef("personal__task-5")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if ref.Profile != ProfilePersonal || ref.LocalID != "task-5" {
		t.Fatalf("unexpected ref %+v", ref)
	}

	// Split happens on the first separator only.
	ref, err = ParseRef("work__a__b")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if ref.LocalID != "a__b" {
		t.Fatalf("expected local id a__b, got %q", ref.LocalID)
	}

	if _, err := ParseRef("ghost__task-1"); !errors.Is(err, ErrUnknownProfile) {
		t.Fatalf("expected ErrUnknownProfile, got %v", err)
	}
	if _, err := ParseRef("task-1"); !errors.Is(err, ErrUnknownProfile) {
		t.Fatalf("expected ErrUnknownProfile for missing separator, got %v", err)
	}
}

func TestApplyMoveConcreteProfile(t *testing.T) {
	ps := Profiles{
		ProfileWork:     boardWith([]string{"task-1", "task-2"}, nil, nil),
		ProfilePersonal: boardWith([]string{"task-5"}, nil, nil),
	}

	next, changed, err := ApplyMove(ps, SelectWork, DropEvent{
		DraggedID: "task-1", SourceColumnID: ColumnTodo, SourceIndex: 0,
		DestColumnID: ColumnDone, DestIndex: 0,
	})
	if err != nil {
		t.Fatalf("move: %v", err)
	}
	if changed != ProfileWork {
		t.Fatalf("expected work to change, got %q", changed)
	}
	if got := next[ProfileWork].Columns[ColumnDone].TaskIDs; !reflect.DeepEqual(got, []string{"task-1"}) {
		t.Fatalf("unexpected work done column: %v", got)
	}
	if !reflect.DeepEqual(next[ProfilePersonal], ps[ProfilePersonal]) {
		t.Fatal("personal profile was touched")
	}
}

func TestApplyMoveCancelledDrop(t *testing.T) {
	ps := DefaultProfiles()

	next, _, err := ApplyMove(ps, SelectWork, DropEvent{
		DraggedID: "task-1", SourceColumnID: ColumnTodo, SourceIndex: 0,
	})
	if err != nil {
		t.Fatalf("move: %v", err)
	}
	if !reflect.DeepEqual(next, ps) {
		t.Fatal("cancelled drop changed state")
	}
}

// A merged-view drop index counts positions in the combined column, but
// the owning profile's splice must count only that profile's entries.
// When the destination column interleaves owners, passing the merged
// index straight through would misplace the task; this pins the
// translated behavior.
func TestApplyMoveMergedInterleavedColumn(t *testing.T) {
	ps := Profiles{
		ProfileWork:     boardWith(nil, []string{"w2"}, nil),
		ProfilePersonal: boardWith([]string{"p1"}, []string{"q1"}, nil),
	}
	// Merged inprogress reads [work__w2, personal__q1]. Dropping
	// personal__p1 at merged index 1 places it between them, which in
	// personal-local terms is index 0, before q1.
	next, changed, err := ApplyMove(ps, SelectAll, DropEvent{
		DraggedID: "personal__p1", SourceColumnID: ColumnTodo, SourceIndex: 0,
		DestColumnID: ColumnInProgress, DestIndex: 1,
	})
	if err != nil {
		t.Fatalf("move: %v", err)
	}
	if changed != ProfilePersonal {
		t.Fatalf("expected personal to change, got %q", changed)
	}
	if got := next[ProfilePersonal].Columns[ColumnInProgress].TaskIDs; !reflect.DeepEqual(got, []string{"p1", "q1"}) {
		t.Fatalf("expected [p1 q1], got %v", got)
	}
	if !reflect.DeepEqual(next[ProfileWork], ps[ProfileWork]) {
		t.Fatal("work profile was touched")
	}
}

func TestApplyMoveMergedSameColumnReorder(t *testing.T) {
	ps := Profiles{
		ProfileWork:     boardWith([]string{"w1", "w2"}, nil, nil),
		ProfilePersonal: boardWith([]string{"p1"}, nil, nil),
	}
	// Merged todo reads [work__w1, work__w2, personal__p1]. Dragging w1
	// past p1 (post-removal merged index 2) can only land it at the end
	// of work's own sequence.
	next, _, err := ApplyMove(ps, SelectAll, DropEvent{
		DraggedID: "work__w1", SourceColumnID: ColumnTodo, SourceIndex: 0,
		DestColumnID: ColumnTodo, DestIndex: 2,
	})
	if err != nil {
		t.Fatalf("move: %v", err)
	}
	if got := next[ProfileWork].Columns[ColumnTodo].TaskIDs; !reflect.DeepEqual(got, []string{"w2", "w1"}) {
		t.Fatalf("expected [w2 w1], got %v", got)
	}
	if !reflect.DeepEqual(next[ProfilePersonal], ps[ProfilePersonal]) {
		t.Fatal("personal profile was touched")
	}
}

func TestApplyMoveMergedRejectsMalformedID(t *testing.T) {
	ps := DefaultProfiles()

	next, _, err := ApplyMove(ps, SelectAll, DropEvent{
		DraggedID: "ghost__task-1", SourceColumnID: ColumnTodo, SourceIndex: 0,
		DestColumnID: ColumnDone, DestIndex: 0,
	})
	if !errors.Is(err, ErrUnknownProfile) {
		t.Fatalf("expected ErrUnknownProfile, got %v", err)
	}
	if !reflect.DeepEqual(next, ps) {
		t.Fatal("state changed on rejected move")
	}
}

func TestApplyAddMergedTargetsWork(t *testing.T) {
	ps := DefaultProfiles()

	next, p, id, err := ApplyAdd(ps, SelectAll, "Merged add", ColumnTodo)
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	if p != ProfileWork {
		t.Fatalf("expected work owner, got %q", p)
	}
	if next[ProfileWork].Columns[ColumnTodo].TaskIDs[0] != id {
		t.Fatal("new task not at top of work todo")
	}
	if !reflect.DeepEqual(next[ProfilePersonal], ps[ProfilePersonal]) {
		t.Fatal("personal profile was touched")
	}
}

func TestApplyDeleteMergedDecodesOwner(t *testing.T) {
	ps := Profiles{
		ProfileWork:     boardWith([]string{"task-1"}, nil, nil),
		ProfilePersonal: boardWith([]string{"p1", "p2"}, nil, nil),
	}

	next, rec, err := ApplyDelete(ps, SelectAll, "personal__p2", ColumnTodo)
	if err != nil {
		t.Fatalf("delete: %v", err)
	}
	want := UndoRecord{Task: Task{ID: "p2", Content: "content of p2"}, ColumnID: ColumnTodo, Index: 1, Profile: ProfilePersonal}
	if !reflect.DeepEqual(rec, want) {
		t.Fatalf("unexpected record %+v", rec)
	}
	if got := next[ProfilePersonal].Columns[ColumnTodo].TaskIDs; !reflect.DeepEqual(got, []string{"p1"}) {
		t.Fatalf("unexpected personal todo: %v", got)
	}
	if !reflect.DeepEqual(next[ProfileWork], ps[ProfileWork]) {
		t.Fatal("work profile was touched")
	}

	restored, err := ApplyRestore(next, rec)
	if err != nil {
		t.Fatalf("restore: %v", err)
	}
	if !reflect.DeepEqual(restored, ps) {
		t.Fatal("delete/restore round trip diverged")
	}
}

func TestApplyDeleteMergedRejectsMalformedID(t *testing.T) {
	ps := DefaultProfiles()

	if _, _, err := ApplyDelete(ps, SelectAll, "task-1", ColumnTodo); !errors.Is(err, ErrUnknownProfile) {
		t.Fatalf("expected ErrUnknownProfile, got %v", err)
	}
}
