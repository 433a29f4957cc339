package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	log "github.com/sirupsen/logrus"

	"plank/internal/board"
	"plank/internal/config"
	"plank/internal/storage"
)

type mode int

const (
	modeBoard mode = iota
	modeQuickAdd
)

// grabState tracks an in-flight keyboard drag: the task picked up and
// where it came from. The drop event is built from this plus the cursor
// position at drop time.
type grabState struct {
	taskID string
	srcCol string
	srcIdx int
}

// undoExpiredMsg fires when an armed deletion's window lapses. The
// generation lets the buffer ignore ticks from superseded deletions.
type undoExpiredMsg struct {
	gen uint64
}

type Model struct {
	store *storage.Store
	cfg   config.Config

	profiles  board.Profiles
	selection board.Selection
	undo      board.UndoBuffer

	mode      mode
	cursorCol int
	cursorRow int
	grabbed   *grabState

	input  textinput.Model
	status string
	dark   bool
	styles styles
	width  int
}

func Run(store *storage.Store, cfg config.Config) error {
	profiles := board.Profiles{
		board.ProfileWork:     store.LoadBoard(board.ProfileWork),
		board.ProfilePersonal: store.LoadBoard(board.ProfilePersonal),
	}
	dark := store.LoadDarkMode()

	ti := textinput.New()
	ti.Placeholder = "Task description"
	ti.CharLimit = 256
	ti.Width = 40

	m := Model{
		store:     store,
		cfg:       cfg,
		profiles:  profiles,
		selection: store.LoadSelection(),
		mode:      modeBoard,
		input:     ti,
		status:    "space grab, enter drop, ctrl+k add, d delete, tab profile",
		dark:      dark,
		styles:    newStyles(dark),
	}

	program := tea.NewProgram(m)
	_, err := program.Run()
	return err
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if m.mode == modeQuickAdd {
			return m.updateQuickAdd(msg.String(), msg)
		}
		return m.updateBoard(msg.String())
	case undoExpiredMsg:
		m.undo.Expire(msg.gen)
		return m, nil
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.input.Width = msg.Width - 10
	}
	return m, nil
}

func (m Model) updateBoard(key string) (tea.Model, tea.Cmd) {
	switch key {
	case "ctrl+c", m.cfg.Keys.Quit:
		if m.grabbed != nil {
			m.grabbed = nil
			m.status = "Move cancelled"
			return m, nil
		}
		return m, tea.Quit
	case m.cfg.Keys.Down, "down":
		m.cursorRow = clampCursor(m.cursorRow+1, m.rowLimit())
	case m.cfg.Keys.Up, "up":
		m.cursorRow = clampCursor(m.cursorRow-1, m.rowLimit())
	case m.cfg.Keys.Right, "right":
		m.cursorCol = clampCursor(m.cursorCol+1, 3)
		m.cursorRow = clampCursor(m.cursorRow, m.rowLimit())
	case m.cfg.Keys.Left, "left":
		m.cursorCol = clampCursor(m.cursorCol-1, 3)
		m.cursorRow = clampCursor(m.cursorRow, m.rowLimit())
	case m.cfg.Keys.Grab:
		return m.grabOrDrop()
	case m.cfg.Keys.Drop, "enter":
		if m.grabbed != nil {
			return m.drop()
		}
	case m.cfg.Keys.Cancel:
		if m.grabbed != nil {
			// Dropped outside any column: no state change.
			m.grabbed = nil
			m.status = "Move cancelled"
		}
	case m.cfg.Keys.QuickAdd:
		m.mode = modeQuickAdd
		m.input.Focus()
		m.status = "Quick add: enter to submit, esc to cancel"
	case m.cfg.Keys.Delete:
		return m.deleteUnderCursor()
	case m.cfg.Keys.Undo:
		return m.undoDelete()
	case m.cfg.Keys.DismissUndo:
		if m.undo.Armed(time.Now()) {
			m.undo.Dismiss()
			m.status = "Undo dismissed"
		}
	case m.cfg.Keys.Profile:
		return m.cycleProfile()
	case m.cfg.Keys.DarkMode:
		m.dark = !m.dark
		m.styles = newStyles(m.dark)
		if err := m.store.SaveDarkMode(m.dark); err != nil {
			log.WithError(err).Warn("dark mode preference not saved")
		}
	}
	return m, nil
}

func (m Model) updateQuickAdd(key string, msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch key {
	case m.cfg.Keys.Cancel:
		m.mode = modeBoard
		m.input.SetValue("")
		m.input.Blur()
		m.status = "Cancelled"
		return m, nil
	case "enter":
		content := m.input.Value()
		next, p, _, err := board.ApplyAdd(m.profiles, m.selection, content, m.cursorColumnID())
		if err != nil {
			// Blank input is ignored without closing the bar.
			return m, nil
		}
		m.profiles = next
		m.persist(p)
		m.input.SetValue("")
		m.input.Blur()
		m.mode = modeBoard
		m.cursorRow = 0
		m.status = "Added task"
		return m, nil
	default:
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd
	}
}

func (m Model) grabOrDrop() (tea.Model, tea.Cmd) {
	if m.grabbed != nil {
		return m.drop()
	}
	b := m.active()
	colID := m.cursorColumnID()
	ids := b.Columns[colID].TaskIDs
	if len(ids) == 0 {
		m.status = "Nothing to move"
		return m, nil
	}
	row := clampCursor(m.cursorRow, len(ids))
	m.grabbed = &grabState{taskID: ids[row], srcCol: colID, srcIdx: row}
	m.cursorRow = row
	m.status = "Moving: arrows to position, enter to drop, esc to cancel"
	return m, nil
}

func (m Model) drop() (tea.Model, tea.Cmd) {
	g := m.grabbed
	m.grabbed = nil
	ev := board.DropEvent{
		DraggedID:      g.taskID,
		SourceColumnID: g.srcCol,
		SourceIndex:    g.srcIdx,
		DestColumnID:   m.cursorColumnID(),
		DestIndex:      m.cursorRow,
	}
	next, p, err := board.ApplyMove(m.profiles, m.selection, ev)
	if err != nil {
		m.status = fmt.Sprintf("move failed: %v", err)
		return m, nil
	}
	m.profiles = next
	if p != "" {
		m.persist(p)
	}
	m.cursorRow = clampCursor(m.cursorRow, m.rowLimit())
	m.status = "Moved task"
	return m, nil
}

func (m Model) deleteUnderCursor() (tea.Model, tea.Cmd) {
	if m.grabbed != nil {
		return m, nil
	}
	b := m.active()
	colID := m.cursorColumnID()
	ids := b.Columns[colID].TaskIDs
	if len(ids) == 0 {
		m.status = "Nothing to delete"
		return m, nil
	}
	row := clampCursor(m.cursorRow, len(ids))
	next, rec, err := board.ApplyDelete(m.profiles, m.selection, ids[row], colID)
	if err != nil {
		m.status = fmt.Sprintf("delete failed: %v", err)
		return m, nil
	}
	m.profiles = next
	m.persist(rec.Profile)
	m.cursorRow = clampCursor(row, m.rowLimit())

	gen := m.undo.Arm(rec, time.Now())
	m.status = fmt.Sprintf("Deleted %q, %s to undo", rec.Task.Content, m.cfg.Keys.Undo)
	return m, tea.Tick(board.UndoWindow, func(time.Time) tea.Msg {
		return undoExpiredMsg{gen: gen}
	})
}

func (m Model) undoDelete() (tea.Model, tea.Cmd) {
	rec, ok := m.undo.Take(time.Now())
	if !ok {
		m.status = "Nothing to undo"
		return m, nil
	}
	next, err := board.ApplyRestore(m.profiles, rec)
	if err != nil {
		m.status = fmt.Sprintf("undo failed: %v", err)
		return m, nil
	}
	m.profiles = next
	m.persist(rec.Profile)
	m.status = fmt.Sprintf("Restored %q", rec.Task.Content)
	return m, nil
}

func (m Model) cycleProfile() (tea.Model, tea.Cmd) {
	switch m.selection {
	case board.SelectWork:
		m.selection = board.SelectPersonal
	case board.SelectPersonal:
		m.selection = board.SelectAll
	default:
		m.selection = board.SelectWork
	}
	m.grabbed = nil
	m.cursorRow = 0
	if err := m.store.SaveSelection(m.selection); err != nil {
		log.WithError(err).Warn("profile preference not saved")
	}
	m.status = "Viewing " + string(m.selection)
	return m, nil
}

// persist writes the changed profile's snapshot. Failures are logged
// only; the in-memory board stays authoritative and the next write
// recovers durability.
func (m Model) persist(p board.Profile) {
	if err := m.store.SaveBoard(p, m.profiles[p]); err != nil {
		log.WithError(err).WithField("profile", p).Warn("board snapshot not saved")
	}
}

func (m Model) active() board.Board {
	return board.Active(m.profiles, m.selection)
}

func (m Model) cursorColumnID() string {
	return m.active().ColumnOrder[clampCursor(m.cursorCol, 3)]
}

// rowLimit is the number of cursor positions in the current column.
// While a task is grabbed the cursor addresses insertion points, one
// more than the number of remaining entries.
func (m Model) rowLimit() int {
	ids := m.visibleIDs(m.cursorColumnID())
	if m.grabbed != nil {
		return len(ids) + 1
	}
	return len(ids)
}

// visibleIDs is the column's sequence with the grabbed task elided, so
// the drop index is naturally relative to the post-removal sequence.
func (m Model) visibleIDs(colID string) []string {
	ids := m.active().Columns[colID].TaskIDs
	if m.grabbed == nil || m.grabbed.srcCol != colID {
		return ids
	}
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if id != m.grabbed.taskID {
			out = append(out, id)
		}
	}
	return out
}

func (m Model) View() string {
	b := m.active()
	var cols []string
	for i, colID := range b.ColumnOrder {
		cols = append(cols, m.renderColumn(b, colID, i == clampCursor(m.cursorCol, 3)))
	}
	boardView := lipgloss.JoinHorizontal(lipgloss.Top, cols...)

	var out strings.Builder
	out.WriteString(m.styles.title.Render("plank • " + string(m.selection)))
	out.WriteString("\n\n")
	out.WriteString(boardView)
	out.WriteString("\n")

	if m.mode == modeQuickAdd {
		out.WriteString("\nAdd to " + b.Columns[m.cursorColumnID()].Title + ": ")
		out.WriteString(m.input.View())
		out.WriteString("\n")
	}
	if m.undo.Armed(time.Now()) {
		secs := int(m.undo.Remaining(time.Now()).Seconds()) + 1
		out.WriteString("\n" + m.styles.toast.Render(fmt.Sprintf("Task deleted • %s to undo (%ds)", m.cfg.Keys.Undo, secs)))
		out.WriteString("\n")
	}
	out.WriteString("\n" + m.styles.status.Render(m.status))
	out.WriteString("\n" + m.styles.help.Render(renderHelp(m.cfg.Keys)))
	return out.String()
}

func (m Model) renderColumn(b board.Board, colID string, selected bool) string {
	col := b.Columns[colID]
	ids := m.visibleIDs(colID)

	var lines []string
	lines = append(lines, m.styles.columnTitle.Render(col.Title))
	for i, id := range ids {
		if m.grabbed != nil && selected && i == m.cursorRow {
			lines = append(lines, m.styles.marker.Render("▸ "+m.grabbedContent()))
		}
		prefix := "  "
		style := m.styles.task
		if m.grabbed == nil && selected && i == clampCursor(m.cursorRow, len(ids)) {
			prefix = "> "
			style = m.styles.selected
		}
		content := b.Tasks[id].Content
		if m.selection == board.SelectAll {
			if ref, err := board.ParseRef(id); err == nil {
				content = "[" + string(ref.Profile)[:1] + "] " + content
			}
		}
		lines = append(lines, style.Render(prefix+content))
	}
	if m.grabbed != nil && selected && m.cursorRow >= len(ids) {
		lines = append(lines, m.styles.marker.Render("▸ "+m.grabbedContent()))
	}
	if len(ids) == 0 && (m.grabbed == nil || !selected) {
		lines = append(lines, m.styles.task.Render("  (empty)"))
	}

	border := m.styles.column
	if selected {
		border = m.styles.columnSelected
	}
	return border.Render(strings.Join(lines, "\n"))
}

func (m Model) grabbedContent() string {
	if m.grabbed == nil {
		return ""
	}
	return m.active().Tasks[m.grabbed.taskID].Content
}

func renderHelp(k config.Keymap) string {
	return fmt.Sprintf("%s/%s/%s/%s move • %s grab • %s drop • %s add • %s delete • %s undo • %s profile • %s theme • %s quit",
		k.Left, k.Down, k.Up, k.Right, nameKey(k.Grab), k.Drop, k.QuickAdd, k.Delete, k.Undo, k.Profile, k.DarkMode, k.Quit)
}

func nameKey(k string) string {
	if k == " " {
		return "space"
	}
	return k
}

func clampCursor(cur, n int) int {
	if n <= 0 {
		return 0
	}
	if cur < 0 {
		return 0
	}
	if cur >= n {
		return n - 1
	}
	return cur
}
