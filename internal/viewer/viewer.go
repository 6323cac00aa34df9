// Package viewer implements the interactive terminal view for browsing
// approval requests and acting on them.
package viewer

import (
	"context"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/mkarlsen/accessctl/internal/approval"
)

// Mode is the viewer's state-machine state.
type Mode int

const (
	// ModeBrowsing is the default: navigation keys move the cursor and
	// action keys are armed.
	ModeBrowsing Mode = iota
	// ModeConfirming waits for exactly one keypress to confirm or cancel
	// a captured action.
	ModeConfirming
	// ModeExiting is terminal; the render loop ends.
	ModeExiting
)

const defaultTimeout = 30 * time.Second

// ActionRunner executes one mutating action. Satisfied by
// *approval.Dispatcher.
type ActionRunner interface {
	Run(ctx context.Context, kind approval.ActionKind, name string) (approval.Request, error)
}

// Lister refetches the record list for the refresh key. Satisfied by
// *approval.Client.
type Lister interface {
	List(ctx context.Context, state approval.State) ([]approval.Request, error)
}

// Config assembles a viewer session.
type Config struct {
	Records     []approval.Request
	Runner      ActionRunner
	Lister      Lister // nil disables refresh
	StateFilter approval.State
	Timeout     time.Duration
}

// Model owns the in-memory record list, the selection cursor, and the
// action-dispatch state machine. Everything lives in one event loop; remote
// calls from the confirming state block it deliberately.
type Model struct {
	runner      ActionRunner
	lister      Lister
	stateFilter approval.State
	timeout     time.Duration

	records []approval.Request
	cursor  int
	offset  int
	mode    Mode
	status  string

	// captured while confirming
	pending approval.ActionKind
	target  int

	width  int
	height int
	keys   keyMap
}

// New creates a viewer session over the fetched records.
func New(cfg Config) Model {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	m := Model{
		runner:      cfg.Runner,
		lister:      cfg.Lister,
		stateFilter: cfg.StateFilter,
		timeout:     timeout,
		records:     cfg.Records,
		mode:        ModeBrowsing,
		width:       80,
		height:      24,
		keys:        defaultKeyMap(),
	}
	if len(m.records) == 0 {
		m.cursor = -1
	}
	return m
}

// Mode exposes the current state for tests.
func (m Model) Mode() Mode { return m.mode }

// Cursor exposes the selection index for tests; -1 means no selection.
func (m Model) Cursor() int { return m.cursor }

// Records exposes the record list for tests.
func (m Model) Records() []approval.Request { return m.records }

// Status exposes the transient status line for tests.
func (m Model) Status() string { return m.status }

func (m Model) Init() tea.Cmd { return nil }

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		if m.mode == ModeExiting {
			return m, nil
		}
		// A status message survives exactly one redraw: every keypress is
		// a transition, and transitions clear it before possibly setting
		// a new one.
		m.status = ""
		if m.mode == ModeConfirming {
			return m.updateConfirming(msg)
		}
		return m.updateBrowsing(msg)
	}

	return m, nil
}

func (m Model) updateBrowsing(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		m.mode = ModeExiting
		return m, tea.Quit

	case key.Matches(msg, m.keys.Up):
		if m.cursor > 0 {
			m.cursor--
			if m.cursor < m.offset {
				m.offset = m.cursor
			}
		}

	case key.Matches(msg, m.keys.Down):
		if m.cursor >= 0 && m.cursor < len(m.records)-1 {
			m.cursor++
			if m.cursor >= m.offset+m.listRows() {
				m.offset = m.cursor - m.listRows() + 1
			}
		}

	case key.Matches(msg, m.keys.Approve):
		return m.arm(approval.ActionApprove), nil

	case key.Matches(msg, m.keys.Dismiss):
		return m.arm(approval.ActionDismiss), nil

	case key.Matches(msg, m.keys.Revoke):
		return m.arm(approval.ActionRevoke), nil

	case key.Matches(msg, m.keys.Refresh):
		return m.refresh(), nil
	}

	return m, nil
}

// arm captures the pending action and target and moves to confirming.
// Action keys are no-ops while the list is empty.
func (m Model) arm(kind approval.ActionKind) Model {
	if m.cursor < 0 || m.cursor >= len(m.records) {
		return m
	}
	m.pending = kind
	m.target = m.cursor
	m.mode = ModeConfirming
	return m
}

func (m Model) updateConfirming(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// Any key but an explicit yes cancels: no remote call, back to browsing.
	if !key.Matches(msg, m.keys.Confirm) {
		m.mode = ModeBrowsing
		return m, nil
	}
	return m.execute(), nil
}

// execute runs the captured action synchronously, blocking the loop. An
// ActionError lands on the status line and never ends the session.
func (m Model) execute() Model {
	m.mode = ModeBrowsing
	if m.target < 0 || m.target >= len(m.records) {
		return m
	}
	record := m.records[m.target]

	ctx, cancel := context.WithTimeout(context.Background(), m.timeout)
	defer cancel()

	updated, err := m.runner.Run(ctx, m.pending, record.Name)
	if err != nil {
		m.status = err.Error()
		return m
	}

	// Only the state is refreshed; the rest of the record is immutable.
	m.records[m.target].State = updated.State
	m.status = m.pending.PastTense() + " " + record.ID()
	return m
}

func (m Model) refresh() Model {
	if m.lister == nil {
		return m
	}

	ctx, cancel := context.WithTimeout(context.Background(), m.timeout)
	defer cancel()

	records, err := m.lister.List(ctx, m.stateFilter)
	if err != nil {
		m.status = "refresh failed: " + err.Error()
		return m
	}

	m.records = records
	m.status = "Refreshed"
	switch {
	case len(m.records) == 0:
		m.cursor = -1
		m.offset = 0
	case m.cursor < 0:
		m.cursor = 0
	case m.cursor >= len(m.records):
		m.cursor = len(m.records) - 1
	}
	if m.offset > m.cursor && m.cursor >= 0 {
		m.offset = m.cursor
	}
	return m
}

// Run starts the interactive program. Bubble Tea owns the terminal's raw
// mode and restores it on every exit path, including errors and signals.
func Run(m Model) error {
	program := tea.NewProgram(m, tea.WithAltScreen())
	_, err := program.Run()
	return err
}
