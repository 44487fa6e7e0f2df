package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"seedround/internal/game"
	"seedround/internal/pitch"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

// AskFunc answers a question put to the current founder. Nil falls back
// to the canned founder answer.
type AskFunc func(ctx context.Context, p game.Pitch, question string) string

type Options struct {
	Engine *game.Engine
	Ask    AskFunc
	// Context bounds every engine call made from the UI.
	Context context.Context
}

type startedMsg struct {
	session *game.Session
	err     error
}

type stepMsg struct {
	err error
}

type revealedMsg struct {
	inv game.Investment
	err error
}

type answerMsg struct {
	question string
	answer   string
}

// Model plays one game in the terminal. Engine calls run as commands;
// while one is in flight the session is owned by that command and View
// shows only the spinner.
type Model struct {
	engine *game.Engine
	ask    AskFunc
	ctx    context.Context

	session *game.Session
	reveal  *game.Investment
	busy    bool
	busyMsg string

	input   textinput.Model
	spinner spinner.Model

	status string
	err    error
	answer string
	quit   bool
	width  int
}

func New(opts Options) *Model {
	if opts.Context == nil {
		opts.Context = context.Background()
	}
	in := textinput.New()
	in.Placeholder = "amount (30k, $25,000) or 0 to pass; ?question for the founder"
	in.CharLimit = 200
	in.Width = 60

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = accentStyle

	return &Model{
		engine:  opts.Engine,
		ask:     opts.Ask,
		ctx:     opts.Context,
		input:   in,
		spinner: sp,
	}
}

// Session is the played session once the game has started.
func (m *Model) Session() *game.Session {
	if m.busy {
		return nil
	}
	return m.session
}

func (m *Model) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.begin("Finding your first founder...", m.startCmd()))
}

func (m *Model) begin(label string, cmd tea.Cmd) tea.Cmd {
	m.busy = true
	m.busyMsg = label
	m.err = nil
	return cmd
}

func (m *Model) startCmd() tea.Cmd {
	engine, ctx := m.engine, m.ctx
	return func() tea.Msg {
		s, err := engine.Start(ctx)
		return startedMsg{session: s, err: err}
	}
}

func (m *Model) resumeCmd() tea.Cmd {
	engine, ctx, s := m.engine, m.ctx, m.session
	return func() tea.Msg {
		return stepMsg{err: engine.Resume(ctx, s)}
	}
}

func (m *Model) decideCmd(amount int64) tea.Cmd {
	engine, ctx, s := m.engine, m.ctx, m.session
	return func() tea.Msg {
		_, err := engine.Decide(ctx, s, amount)
		return stepMsg{err: err}
	}
}

func (m *Model) revealCmd() tea.Cmd {
	engine, ctx, s := m.engine, m.ctx, m.session
	return func() tea.Msg {
		inv, err := engine.Reveal(ctx, s)
		return revealedMsg{inv: inv, err: err}
	}
}

func (m *Model) advanceCmd() tea.Cmd {
	engine, ctx, s := m.engine, m.ctx, m.session
	return func() tea.Msg {
		return stepMsg{err: engine.Advance(ctx, s)}
	}
}

func (m *Model) askCmd(p game.Pitch, question string) tea.Cmd {
	ask, ctx := m.ask, m.ctx
	return func() tea.Msg {
		if ask == nil {
			return answerMsg{question: question, answer: pitch.AskFounder(ctx, nil, "", p, question)}
		}
		return answerMsg{question: question, answer: ask(ctx, p, question)}
	}
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case startedMsg:
		m.busy = false
		m.session = msg.session
		if msg.err != nil {
			m.err = msg.err
			if m.session == nil || errors.Is(msg.err, game.ErrNoPitchSource) {
				m.quit = true
				return m, tea.Quit
			}
		}
		return m, m.next()

	case stepMsg:
		m.busy = false
		if msg.err != nil {
			m.err = msg.err
		}
		return m, m.next()

	case revealedMsg:
		m.busy = false
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		inv := msg.inv
		m.reveal = &inv
		return m, nil

	case answerMsg:
		m.busy = false
		m.answer = fmt.Sprintf("You: %s\nFounder: %s", msg.question, msg.answer)
		return m, textinput.Blink

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	if m.input.Focused() {
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd
	}
	return m, nil
}

// next picks the follow-up command for the session's new state.
func (m *Model) next() tea.Cmd {
	if m.session == nil {
		return nil
	}
	switch m.session.State {
	case game.StateLoading:
		if m.err != nil {
			return nil
		}
		return m.begin("Finding the next founder...", m.resumeCmd())
	case game.StatePlaying:
		m.reveal = nil
		m.input.Reset()
		m.input.Focus()
		return textinput.Blink
	case game.StateRevealing:
		m.input.Blur()
		m.reveal = nil
		return m.begin("Checking in on your portfolio...", m.revealCmd())
	case game.StateFinished:
		m.input.Blur()
		m.reveal = nil
	}
	return nil
}

func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c", "esc":
		m.quit = true
		return m, tea.Quit
	}
	if m.busy || m.session == nil {
		return m, nil
	}

	switch m.session.State {
	case game.StatePlaying:
		if msg.Type != tea.KeyEnter {
			var cmd tea.Cmd
			m.input, cmd = m.input.Update(msg)
			return m, cmd
		}
		return m, m.submit(m.input.Value())

	case game.StateRevealing:
		if msg.Type == tea.KeyEnter || msg.String() == " " {
			if m.reveal == nil {
				return m, m.begin("Checking in on your portfolio...", m.revealCmd())
			}
			return m, m.begin("Moving on...", m.advanceCmd())
		}

	case game.StateFinished:
		if msg.Type == tea.KeyEnter || msg.String() == "q" {
			m.quit = true
			return m, tea.Quit
		}
	}
	return m, nil
}

func (m *Model) submit(value string) tea.Cmd {
	value = strings.TrimSpace(value)
	if value == "" || m.session.CurrentPitch == nil {
		return nil
	}
	if q, ok := strings.CutPrefix(value, "?"); ok {
		m.input.Reset()
		return m.begin("The founder is thinking...", m.askCmd(*m.session.CurrentPitch, strings.TrimSpace(q)))
	}
	amount, err := game.ParseDollars(value)
	if err != nil {
		m.err = err
		return nil
	}
	limits := game.ComputeLimits(m.session, *m.session.CurrentPitch, m.engine.Rules())
	if err := limits.Check(amount); err != nil {
		m.err = err
		return nil
	}
	m.answer = ""
	if amount == 0 {
		m.status = "Passed on " + m.session.CurrentPitch.Startup.Name
	} else {
		m.status = fmt.Sprintf("Wired %s to %s", game.FormatDollars(amount), m.session.CurrentPitch.Startup.Name)
	}
	return m.begin("Closing the round...", m.decideCmd(amount))
}
