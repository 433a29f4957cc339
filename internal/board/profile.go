package board

import (
	"errors"
	"strings"
)

// Profile names one of the two independently persisted boards.
type Profile string

const (
	ProfileWork     Profile = "work"
	ProfilePersonal Profile = "personal"
)

// ProfileOrder is the iteration order used when synthesizing the merged
// view: work first, then personal.
var ProfileOrder = []Profile{ProfileWork, ProfilePersonal}

// Selection is the board currently displayed and mutated: a concrete
// profile, or SelectAll for the merged projection.
type Selection string

const (
	SelectWork     Selection = Selection(ProfileWork)
	SelectPersonal Selection = Selection(ProfilePersonal)
	SelectAll      Selection = "all"
)

// ErrUnknownProfile rejects merged-view actions whose task id does not
// decode to a recognized profile.
var ErrUnknownProfile = errors.New("board: unknown profile in task id")

// Profiles maps each profile to its board.
type Profiles map[Profile]Board

// DefaultProfiles seeds both profiles with the default board.
func DefaultProfiles() Profiles {
	return Profiles{
		ProfileWork:     DefaultBoard(),
		ProfilePersonal: DefaultBoard(),
	}
}

// Ref is a tagged task identifier: the owning profile plus the task's
// id within that profile's board. Merged-view sequences carry the
// encoded string form; everything else works with the decoded parts.
type Ref struct {
	Profile Profile
	LocalID string
}

const refSep = "__"

// String encodes the ref as "<profile>__<localId>", the merged view's
// globally unique id form.
func (r Ref) String() string {
	return string(r.Profile) + refSep + r.LocalID
}

// ParseRef decodes a merged-view id. The split is on the first
// separator, so local ids containing "__" round-trip intact. An owner
// that is not a known profile yields ErrUnknownProfile.
func ParseRef(id string) (Ref, error) {
	i := strings.Index(id, refSep)
	if i < 0 {
		return Ref{}, ErrUnknownProfile
	}
	owner := Profile(id[:i])
	if owner != ProfileWork && owner != ProfilePersonal {
		return Ref{}, ErrUnknownProfile
	}
	return Ref{Profile: owner, LocalID: id[i+len(refSep):]}, nil
}

// DropEvent is the contract delivered by the drag collaborator: a
// completed gesture reporting where an item left and where it landed.
// An empty DestColumnID means the drag was cancelled or dropped outside
// any column and must cause no state change.
type DropEvent struct {
	DraggedID      string
	SourceColumnID string
	SourceIndex    int
	DestColumnID   string
	DestIndex      int
}

// Active resolves the board for the current selection. Concrete
// profiles pass through unchanged; SelectAll synthesizes the merged
// board from both profiles. The merged board is derived data,
// recomputed on every call and never mutated or persisted.
func Active(ps Profiles, sel Selection) Board {
	if sel != SelectAll {
		return ps[Profile(sel)]
	}
	return merged(ps)
}

func merged(ps Profiles) Board {
	out := Board{
		Columns:     make(map[string]Column, 3),
		Tasks:       make(map[string]Task),
		ColumnOrder: []string{ColumnTodo, ColumnInProgress, ColumnDone},
	}
	for _, colID := range out.ColumnOrder {
		var ids []string
		title := colID
		for _, p := range ProfileOrder {
			col, ok := ps[p].Columns[colID]
			if !ok {
				continue
			}
			title = col.Title
			for _, id := range col.TaskIDs {
				ref := Ref{Profile: p, LocalID: id}.String()
				ids = append(ids, ref)
				t := ps[p].Tasks[id]
				out.Tasks[ref] = Task{ID: ref, Content: t.Content}
			}
		}
		out.Columns[colID] = Column{ID: colID, Title: title, TaskIDs: ids}
	}
	return out
}

// ApplyMove routes a completed drop to the owning profile's board. For
// a concrete selection the event's ids and indices are used as-is. In
// the merged view the dragged id is decoded to its owner and the merged
// indices are translated to owner-local indices by counting only the
// owner's entries before each position; a drop can therefore never move
// a task between profiles, only reposition it within its own board.
func ApplyMove(ps Profiles, sel Selection, ev DropEvent) (Profiles, Profile, error) {
	if ev.DestColumnID == "" {
		return ps, "", nil
	}
	if sel != SelectAll {
		p := Profile(sel)
		next, err := ps[p].Move(ev.DraggedID, ev.SourceColumnID, ev.SourceIndex, ev.DestColumnID, ev.DestIndex)
		if err != nil {
			return ps, "", err
		}
		return ps.with(p, next), p, nil
	}

	ref, err := ParseRef(ev.DraggedID)
	if err != nil {
		return ps, "", err
	}
	m := merged(ps)

	srcSeq := m.Columns[ev.SourceColumnID].TaskIDs
	if ev.SourceIndex < 0 || ev.SourceIndex >= len(srcSeq) || srcSeq[ev.SourceIndex] != ev.DraggedID {
		return ps, "", ErrNotFound
	}
	localFrom := countOwned(srcSeq[:ev.SourceIndex], ref.Profile)

	// The drop index refers to the merged sequence with the dragged
	// item already removed when source and destination coincide.
	dstSeq := m.Columns[ev.DestColumnID].TaskIDs
	if ev.DestColumnID == ev.SourceColumnID {
		dstSeq = removeAt(dstSeq, ev.SourceIndex)
	}
	localTo := countOwned(dstSeq[:clamp(ev.DestIndex, len(dstSeq))], ref.Profile)

	next, err := ps[ref.Profile].Move(ref.LocalID, ev.SourceColumnID, localFrom, ev.DestColumnID, localTo)
	if err != nil {
		return ps, "", err
	}
	return ps.with(ref.Profile, next), ref.Profile, nil
}

// ApplyAdd creates a task in the selection's board. In the merged view
// new tasks land in the work profile, the first profile in merge order.
func ApplyAdd(ps Profiles, sel Selection, content, toCol string) (Profiles, Profile, string, error) {
	p := ProfileWork
	if sel != SelectAll {
		p = Profile(sel)
	}
	next, id, err := ps[p].Add(content, toCol)
	if err != nil {
		return ps, "", "", err
	}
	return ps.with(p, next), p, id, nil
}

// ApplyDelete removes a task from the selection's board and returns the
// undo record capturing its exact prior position and owner.
func ApplyDelete(ps Profiles, sel Selection, taskID, fromCol string) (Profiles, UndoRecord, error) {
	p := Profile(sel)
	localID := taskID
	if sel == SelectAll {
		ref, err := ParseRef(taskID)
		if err != nil {
			return ps, UndoRecord{}, err
		}
		p, localID = ref.Profile, ref.LocalID
	}
	next, task, idx, err := ps[p].Delete(localID, fromCol)
	if err != nil {
		return ps, UndoRecord{}, err
	}
	return ps.with(p, next), UndoRecord{Task: task, ColumnID: fromCol, Index: idx, Profile: p}, nil
}

// ApplyRestore reinserts an undo record's task into its owning profile.
func ApplyRestore(ps Profiles, rec UndoRecord) (Profiles, error) {
	next, err := ps[rec.Profile].Restore(rec.Task, rec.ColumnID, rec.Index)
	if err != nil {
		return ps, err
	}
	return ps.with(rec.Profile, next), nil
}

func (ps Profiles) with(p Profile, b Board) Profiles {
	next := make(Profiles, len(ps))
	for k, v := range ps {
		next[k] = v
	}
	next[p] = b
	return next
}

func countOwned(ids []string, owner Profile) int {
	n := 0
	prefix := string(owner) + refSep
	for _, id := range ids {
		if strings.HasPrefix(id, prefix) {
			n++
		}
	}
	return n
}
