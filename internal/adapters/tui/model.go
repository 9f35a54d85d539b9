// Package tui provides an interactive terminal tree viewer bound to a session.
package tui

import (
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"go.trai.ch/mindmap/internal/adapters/linear"
	"go.trai.ch/mindmap/internal/core/domain"
	"go.trai.ch/mindmap/internal/engine/session"
)

const (
	// cellWidth and cellHeight convert terminal cells to layout units for the session viewport.
	cellWidth  = 8
	cellHeight = 18

	defaultFrameInterval = 16 * time.Millisecond
	maxLabelChars        = 200
)

// Mode is the input mode of the viewer.
type Mode int

const (
	// ModeBrowse moves the selection and runs node actions.
	ModeBrowse Mode = iota
	// ModeEdit collects a new label.
	ModeEdit
	// ModeConfirmDelete waits for a yes or no.
	ModeConfirmDelete
)

// Row is one visible node in the list.
type Row struct {
	ID          string
	Label       string
	Depth       int
	Kind        domain.NodeKind
	Color       domain.ColorToken
	Collapsed   bool
	HasChildren bool
	Nav         *domain.NavigationRef
}

// MsgGraph replaces the graph shown by the viewer.
type MsgGraph struct {
	Graph *domain.Graph
}

type msgFrame time.Time

// Model is the bubbletea model of the viewer. It owns the session: every
// session call happens inside Update.
type Model struct {
	Session *session.Session

	Rows        []Row
	SelectedIdx int
	ListOffset  int
	ListHeight  int
	Width       int

	Mode        Mode
	Input       textinput.Model
	PromptID    string
	PromptLabel string
	Status      string

	FrameInterval time.Duration
	// OnNavigate is called for every navigation request.
	OnNavigate func(domain.NavigateEvent)
	// OnEdit is called with the updated graph after a rename or deletion.
	OnEdit func(*domain.Graph)

	events []domain.Event
}

// NewModel binds a model to sess.
func NewModel(sess *session.Session) *Model {
	input := textinput.New()
	input.Prompt = ""
	input.CharLimit = maxLabelChars

	m := &Model{
		Session:       sess,
		Input:         input,
		FrameInterval: defaultFrameInterval,
	}
	sess.Subscribe(func(ev domain.Event) {
		m.events = append(m.events, ev)
	})
	m.rebuildRows()
	return m
}

// Init starts the animation ticker.
func (m *Model) Init() tea.Cmd {
	return m.tick()
}

func (m *Model) tick() tea.Cmd {
	return tea.Tick(m.FrameInterval, func(t time.Time) tea.Msg {
		return msgFrame(t)
	})
}

// Update handles incoming messages and updates the model state.
//
//nolint:cyclop // one case per message kind
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		var quit bool
		if quit, cmd = m.handleKey(msg); quit {
			return m, tea.Quit
		}

	case tea.WindowSizeMsg:
		m.Width = msg.Width
		headerHeight := lipgloss.Height(titleStyle.Render("MINDMAP") + "\n")
		m.ListHeight = max(msg.Height-headerHeight-2, 1)
		m.Session.Resize(domain.Size{
			Width:  float64(msg.Width * cellWidth),
			Height: float64(msg.Height * cellHeight),
		})
		m.ensureVisible()

	case MsgGraph:
		m.Session.SetGraph(msg.Graph)
		m.Status = fmt.Sprintf("loaded %d nodes", msg.Graph.Len())

	case msgFrame:
		if m.Session.Animating() {
			m.Session.Frame()
		}
		cmd = m.tick()
	}

	m.drainEvents()
	return m, cmd
}

// handleKey applies a key press and reports whether the viewer should quit.
func (m *Model) handleKey(msg tea.KeyMsg) (bool, tea.Cmd) {
	switch m.Mode {
	case ModeEdit:
		return false, m.handleEditKey(msg)
	case ModeConfirmDelete:
		m.handleConfirmKey(msg)
		return false, nil
	}

	switch msg.String() {
	case "q", "ctrl+c":
		return true, nil
	case "k", "up":
		if m.SelectedIdx > 0 {
			m.SelectedIdx--
			m.ensureVisible()
		}
	case "j", "down":
		if m.SelectedIdx < len(m.Rows)-1 {
			m.SelectedIdx++
			m.ensureVisible()
		}
	case "enter", " ":
		if row, ok := m.selected(); ok {
			m.Session.Click(row.ID)
		}
	case "e":
		if row, ok := m.selected(); ok {
			m.Session.DoubleClick(row.ID)
		}
	case "d", "delete":
		if row, ok := m.selected(); ok {
			m.Session.RequestDelete(row.ID)
		}
	case "+", "=":
		m.Session.ZoomIn()
	case "-":
		m.Session.ZoomOut()
	case "0":
		m.Session.CenterOnRoot()
	}
	return false, nil
}

func (m *Model) handleEditKey(msg tea.KeyMsg) tea.Cmd {
	switch msg.Type {
	case tea.KeyEnter:
		m.Mode = ModeBrowse
		m.Input.Blur()
		m.Session.ResolveEdit(m.PromptID, m.Input.Value(), true)
		return nil
	case tea.KeyEsc, tea.KeyCtrlC:
		m.Mode = ModeBrowse
		m.Input.Blur()
		m.Session.ResolveEdit(m.PromptID, "", false)
		return nil
	}

	var cmd tea.Cmd
	m.Input, cmd = m.Input.Update(msg)
	return cmd
}

func (m *Model) handleConfirmKey(msg tea.KeyMsg) {
	switch msg.String() {
	case "y", "Y":
		m.Mode = ModeBrowse
		m.Session.ResolveDelete(m.PromptID, true)
	case "n", "N", "esc", "ctrl+c":
		m.Mode = ModeBrowse
		m.Session.ResolveDelete(m.PromptID, false)
	}
}

func (m *Model) drainEvents() {
	rebuild := false
	for len(m.events) > 0 {
		ev := m.events[0]
		m.events = m.events[1:]

		switch e := ev.(type) {
		case domain.SceneChanged:
			rebuild = true
		case domain.EditRequested:
			m.Mode = ModeEdit
			m.PromptID = e.RequestID
			m.PromptLabel = e.Label
			m.Input.SetValue(e.Label)
			m.Input.CursorEnd()
			m.Input.Focus()
		case domain.DeleteRequested:
			m.Mode = ModeConfirmDelete
			m.PromptID = e.RequestID
			m.PromptLabel = e.Label
		case domain.NavigateEvent:
			m.Status = fmt.Sprintf("open %s page %d", e.FileName, e.Page)
			if m.OnNavigate != nil {
				m.OnNavigate(e)
			}
		case domain.GraphEdited:
			if e.Deleted {
				m.Status = "deleted " + e.NodeID
			} else {
				m.Status = "renamed " + e.NodeID
			}
			if m.OnEdit != nil {
				m.OnEdit(m.Session.Graph())
			}
		}
	}
	if rebuild {
		m.rebuildRows()
	}
}

func (m *Model) rebuildRows() {
	var keep string
	if row, ok := m.selected(); ok {
		keep = row.ID
	}

	tree := m.Session.Tree()
	rows := make([]Row, 0, tree.Len())
	for tn := range tree.Walk() {
		rows = append(rows, Row{
			ID:          tn.ID(),
			Label:       linear.Label(tn.Node),
			Depth:       tn.Depth,
			Kind:        tn.Node.Kind,
			Color:       tn.Node.Color,
			Collapsed:   tn.Collapsed,
			HasChildren: len(tn.Children) > 0,
			Nav:         tn.Node.Nav,
		})
	}
	m.Rows = rows

	m.SelectedIdx = min(m.SelectedIdx, max(len(rows)-1, 0))
	for i, row := range rows {
		if row.ID == keep {
			m.SelectedIdx = i
			break
		}
	}
	m.ensureVisible()
}

func (m *Model) selected() (Row, bool) {
	if m.SelectedIdx >= 0 && m.SelectedIdx < len(m.Rows) {
		return m.Rows[m.SelectedIdx], true
	}
	return Row{}, false
}

func (m *Model) ensureVisible() {
	if m.ListHeight <= 0 {
		return
	}
	if m.SelectedIdx < m.ListOffset {
		m.ListOffset = m.SelectedIdx
	} else if m.SelectedIdx >= m.ListOffset+m.ListHeight {
		m.ListOffset = m.SelectedIdx - m.ListHeight + 1
	}
}
