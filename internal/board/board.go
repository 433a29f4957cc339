package board

import (
	"errors"
	"strings"

	"github.com/google/uuid"
)

// The three workflow columns. The column set is fixed; boards are not
// user-extensible beyond task membership and order.
const (
	ColumnTodo       = "todo"
	ColumnInProgress = "inprogress"
	ColumnDone       = "done"
)

var (
	// ErrEmptyContent rejects blank or whitespace-only task content.
	ErrEmptyContent = errors.New("board: empty task content")
	// ErrNotFound signals an id absent from the expected column.
	ErrNotFound = errors.New("board: task not found")
)

// Task is a single board item. Tasks are immutable once created.
type Task struct {
	ID      string `json:"id"`
	Content string `json:"content"`
}

// Column is an ordered bucket of task ids. TaskIDs is the sole source
// of membership and ordering truth.
type Column struct {
	ID      string   `json:"id"`
	Title   string   `json:"title"`
	TaskIDs []string `json:"taskIds"`
}

// Board is one profile's full state. Values are persistent: every
// operation returns a new Board and never mutates its input, so callers
// may hold old snapshots freely.
type Board struct {
	Columns     map[string]Column `json:"columns"`
	Tasks       map[string]Task   `json:"tasks"`
	ColumnOrder []string          `json:"columnOrder"`
}

// DefaultBoard is the seed board used when no snapshot exists or a
// stored snapshot fails to parse.
func DefaultBoard() Board {
	return Board{
		Columns: map[string]Column{
			ColumnTodo:       {ID: ColumnTodo, Title: "To Do", TaskIDs: []string{"task-1", "task-2"}},
			ColumnInProgress: {ID: ColumnInProgress, Title: "In Progress", TaskIDs: []string{"task-3"}},
			ColumnDone:       {ID: ColumnDone, Title: "Done", TaskIDs: []string{}},
		},
		Tasks: map[string]Task{
			"task-1": {ID: "task-1", Content: "Plan the week"},
			"task-2": {ID: "task-2", Content: "Clear the inbox"},
			"task-3": {ID: "task-3", Content: "Draft status update"},
		},
		ColumnOrder: []string{ColumnTodo, ColumnInProgress, ColumnDone},
	}
}

// Move relocates taskID from (fromCol, fromIdx) to (toCol, toIdx). The
// caller supplies positions as reported by the drop event; Move verifies
// the source actually holds the id there and returns ErrNotFound when it
// does not. Moving a task onto its own position is a no-op returning the
// input board unchanged. A same-column move inserts into the sequence
// after removal, standard list reindexing semantics.
func (b Board) Move(taskID, fromCol string, fromIdx int, toCol string, toIdx int) (Board, error) {
	if fromCol == toCol && fromIdx == toIdx {
		return b, nil
	}
	src, ok := b.Columns[fromCol]
	if !ok || fromIdx < 0 || fromIdx >= len(src.TaskIDs) || src.TaskIDs[fromIdx] != taskID {
		return b, ErrNotFound
	}
	dst, ok := b.Columns[toCol]
	if !ok {
		return b, ErrNotFound
	}

	if fromCol == toCol {
		ids := removeAt(src.TaskIDs, fromIdx)
		ids = insertAt(ids, clamp(toIdx, len(ids)), taskID)
		src.TaskIDs = ids
		return b.withColumns(src), nil
	}

	src.TaskIDs = removeAt(src.TaskIDs, fromIdx)
	dst.TaskIDs = insertAt(dst.TaskIDs, clamp(toIdx, len(dst.TaskIDs)), taskID)
	return b.withColumns(src, dst), nil
}

// Add creates a task with the given content at the top of the target
// column and returns the new board plus the generated id. Blank content
// is rejected with ErrEmptyContent and the board is returned unchanged.
func (b Board) Add(content, toCol string) (Board, string, error) {
	if strings.TrimSpace(content) == "" {
		return b, "", ErrEmptyContent
	}
	col, ok := b.Columns[toCol]
	if !ok {
		return b, "", ErrNotFound
	}
	id := "task-" + uuid.NewString()
	col.TaskIDs = insertAt(col.TaskIDs, 0, id)

	out := b.withColumns(col)
	out.Tasks = cloneTasks(b.Tasks)
	out.Tasks[id] = Task{ID: id, Content: content}
	return out, id, nil
}

// Delete removes taskID from the named column and from the task table,
// returning the removed task and its prior index so the caller can arm
// an undo record. ErrNotFound leaves the board unchanged.
func (b Board) Delete(taskID, fromCol string) (Board, Task, int, error) {
	col, ok := b.Columns[fromCol]
	if !ok {
		return b, Task{}, 0, ErrNotFound
	}
	idx := indexOf(col.TaskIDs, taskID)
	if idx < 0 {
		return b, Task{}, 0, ErrNotFound
	}
	task, ok := b.Tasks[taskID]
	if !ok {
		return b, Task{}, 0, ErrNotFound
	}
	col.TaskIDs = removeAt(col.TaskIDs, idx)

	out := b.withColumns(col)
	out.Tasks = cloneTasks(b.Tasks)
	delete(out.Tasks, taskID)
	return out, task, idx, nil
}

// Restore is the inverse of Delete: it reinserts task into the named
// column at idx. The index is clamped to the sequence's current bounds,
// exact historical position is best-effort once other mutations have
// happened underneath.
func (b Board) Restore(task Task, toCol string, idx int) (Board, error) {
	col, ok := b.Columns[toCol]
	if !ok {
		return b, ErrNotFound
	}
	col.TaskIDs = insertAt(col.TaskIDs, clamp(idx, len(col.TaskIDs)), task.ID)

	out := b.withColumns(col)
	out.Tasks = cloneTasks(b.Tasks)
	out.Tasks[task.ID] = task
	return out, nil
}

// Check verifies the board's structural invariants: every id in every
// column exists in Tasks, every task appears in exactly one column, and
// ColumnOrder references existing columns. Used by tests after every
// transition sequence.
func (b Board) Check() error {
	seen := make(map[string]int, len(b.Tasks))
	for _, colID := range b.ColumnOrder {
		col, ok := b.Columns[colID]
		if !ok {
			return errors.New("board: columnOrder references missing column " + colID)
		}
		for _, id := range col.TaskIDs {
			if _, ok := b.Tasks[id]; !ok {
				return errors.New("board: column " + colID + " references missing task " + id)
			}
			seen[id]++
		}
	}
	for id, n := range seen {
		if n > 1 {
			return errors.New("board: task " + id + " appears in multiple positions")
		}
	}
	for id := range b.Tasks {
		if seen[id] == 0 {
			return errors.New("board: task " + id + " is orphaned")
		}
	}
	return nil
}

// withColumns returns a copy of the board with the given columns
// replaced. The Columns map is copied; Tasks and ColumnOrder are shared
// with the receiver and must be cloned by the caller before mutation.
func (b Board) withColumns(cols ...Column) Board {
	next := make(map[string]Column, len(b.Columns))
	for id, c := range b.Columns {
		next[id] = c
	}
	for _, c := range cols {
		next[c.ID] = c
	}
	b.Columns = next
	return b
}

func cloneTasks(ts map[string]Task) map[string]Task {
	next := make(map[string]Task, len(ts)+1)
	for id, t := range ts {
		next[id] = t
	}
	return next
}

func insertAt(ids []string, idx int, id string) []string {
	out := make([]string, 0, len(ids)+1)
	out = append(out, ids[:idx]...)
	out = append(out, id)
	return append(out, ids[idx:]...)
}

func removeAt(ids []string, idx int) []string {
	out := make([]string, 0, len(ids)-1)
	out = append(out, ids[:idx]...)
	return append(out, ids[idx+1:]...)
}

func indexOf(ids []string, id string) int {
	for i, v := range ids {
		if v == id {
			return i
		}
	}
	return -1
}

func clamp(idx, n int) int {
	if idx < 0 {
		return 0
	}
	if idx > n {
		return n
	}
	return idx
}
