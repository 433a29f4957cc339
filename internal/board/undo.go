package board

import "time"

// UndoWindow is how long a deletion stays reversible.
const UndoWindow = 5 * time.Second

// UndoRecord captures enough of a deleted task to reinsert it at its
// exact prior position in the owning profile's board.
type UndoRecord struct {
	Task     Task
	ColumnID string
	Index    int
	Profile  Profile
}

// UndoBuffer is a single-slot, time-limited record of the most recent
// deletion. Arming replaces any previous record; only the latest
// deletion is ever undoable.
type UndoBuffer struct {
	rec      UndoRecord
	armed    bool
	deadline time.Time
	gen      uint64
}

// Arm stores rec with a fresh expiry deadline and returns the buffer's
// new generation. Timer callbacks must present this generation to
// Expire so a timer left over from an earlier deletion cannot clear a
// newer record.
func (u *UndoBuffer) Arm(rec UndoRecord, now time.Time) uint64 {
	u.rec = rec
	u.armed = true
	u.deadline = now.Add(UndoWindow)
	u.gen++
	return u.gen
}

// Take consumes the armed record. It reports false when the buffer is
// empty or the record's window has lapsed, so a missed expiry tick can
// never resurrect a stale deletion.
func (u *UndoBuffer) Take(now time.Time) (UndoRecord, bool) {
	if !u.armed || now.After(u.deadline) {
		u.clear()
		return UndoRecord{}, false
	}
	rec := u.rec
	u.clear()
	return rec, true
}

// Expire clears the buffer only when gen matches the arming generation,
// making stale timers harmless.
func (u *UndoBuffer) Expire(gen uint64) {
	if u.armed && gen == u.gen {
		u.clear()
	}
}

// Dismiss clears the buffer without restoring.
func (u *UndoBuffer) Dismiss() {
	u.clear()
}

// Armed reports whether an unexpired record is held.
func (u *UndoBuffer) Armed(now time.Time) bool {
	return u.armed && !now.After(u.deadline)
}

// Remaining reports how long the armed record stays valid, zero when
// the buffer is empty or expired.
func (u *UndoBuffer) Remaining(now time.Time) time.Duration {
	if !u.Armed(now) {
		return 0
	}
	return u.deadline.Sub(now)
}

func (u *UndoBuffer) clear() {
	u.rec = UndoRecord{}
	u.armed = false
	u.deadline = time.Time{}
}
