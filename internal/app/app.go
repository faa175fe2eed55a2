package app

import (
	"context"
	"time"

	"charm.land/bubbles/v2/spinner"
	tea "charm.land/bubbletea/v2"
	"go.uber.org/zap"

	"github.com/abhisek/storymath/internal/gateway"
	"github.com/abhisek/storymath/internal/intent"
	"github.com/abhisek/storymath/internal/router"
	"github.com/abhisek/storymath/internal/screen"
	"github.com/abhisek/storymath/internal/screens/catalog"
	"github.com/abhisek/storymath/internal/screens/solve"
	"github.com/abhisek/storymath/internal/session"
	"github.com/abhisek/storymath/internal/ui/components"
	"github.com/abhisek/storymath/internal/ui/layout"
)

// Options holds dependencies for the app.
type Options struct {
	Gateway gateway.Gateway
	Logger  *zap.Logger
	// UserID defaults to one derived from the start time.
	UserID string
	// Now defaults to time.Now.
	Now func() time.Time
}

// AppModel is the root Bubble Tea model. It owns the session and is the
// only place session transitions happen.
type AppModel struct {
	ctx     context.Context
	gateway gateway.Gateway
	logger  *zap.Logger
	now     func() time.Time

	state   *session.State
	router  *router.Router
	spinner *components.Spinner

	width  int
	height int
}

// newAppModel creates a new AppModel on the catalog screen.
func newAppModel(ctx context.Context, opts Options) AppModel {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	if opts.UserID == "" {
		opts.UserID = session.NewUserID(opts.Now())
	}

	state := session.New(opts.UserID)
	spin := components.NewSpinner()
	return AppModel{
		ctx:     ctx,
		gateway: opts.Gateway,
		logger:  opts.Logger,
		now:     opts.Now,
		state:   state,
		router:  router.New(catalog.New(state, spin)),
		spinner: spin,
	}
}

func (m AppModel) Init() tea.Cmd {
	m.logger.Info("session started", zap.String("user_id", m.state.UserID))
	return tea.Batch(
		m.loadProblems(m.state.BeginLoad()),
		m.fetchProgress(),
	)
}

func (m AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyPressMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
		// Any key dismisses a notice and still does its normal job.
		m.state.DismissNotice()
		return m, m.router.Update(msg)

	case spinner.TickMsg:
		// Ticks stop when nothing is in flight; the next Begin restarts them.
		if !m.state.Busy() {
			return m, nil
		}
		return m, m.spinner.Update(msg)
	}

	if cmd, handled := m.handleResult(msg); handled {
		return m, cmd
	}
	if cmd, handled := m.handleIntent(msg); handled {
		return m, tea.Batch(cmd, m.syncRouter())
	}
	return m, m.router.Update(msg)
}

// handleResult folds gateway responses into the session.
func (m AppModel) handleResult(msg tea.Msg) (tea.Cmd, bool) {
	switch msg := msg.(type) {
	case problemsLoadedMsg:
		m.state.CompleteLoad(msg.req, msg.problems, msg.err)
		m.logResult("problems loaded", msg.err, zap.Int("count", len(msg.problems)))

	case progressLoadedMsg:
		m.state.ApplyProgress(msg.stats, msg.err)
		m.logResult("progress refreshed", msg.err)

	case submittedMsg:
		m.state.CompleteSubmit(msg.req, msg.result, msg.err)
		m.logResult("answer graded", msg.err, zap.String("problem_id", msg.req.Submission.ProblemID))
		if msg.err == nil {
			m.state.ApplyProgress(msg.stats, msg.statsErr)
		}

	case explainedMsg:
		m.state.CompleteExplain(msg.req, msg.exp, msg.err)
		m.logResult("explanation loaded", msg.err, zap.String("problem_id", msg.req.ProblemID))

	default:
		return nil, false
	}
	return nil, true
}

// handleIntent applies a screen's request. Guards live in the session:
// a refused transition returns a nil request and nothing is dispatched.
func (m AppModel) handleIntent(msg tea.Msg) (tea.Cmd, bool) {
	switch msg := msg.(type) {
	case intent.SelectMsg:
		if m.state.Select(msg.ProblemID, m.now()) {
			m.logger.Debug("problem selected", zap.String("problem_id", msg.ProblemID))
		}
		return nil, true

	case intent.AnswerChangedMsg:
		m.state.SetAnswer(msg.Text)
		return nil, true

	case intent.SubmitMsg:
		return m.submit(m.state.BeginSubmit(m.now())), true

	case intent.ExplainMsg:
		return m.explain(m.state.BeginExplain()), true

	case intent.BackMsg:
		if m.state.ReturnToCatalog() {
			// Not busy-guarded: a read-only refresh may run beside a pending call.
			return m.fetchProgress(), true
		}
		return nil, true

	case intent.RetryMsg:
		return m.loadProblems(m.state.BeginRetryLoad()), true
	}
	return nil, false
}

// syncRouter keeps the screen stack in step with the session view.
func (m AppModel) syncRouter() tea.Cmd {
	switch {
	case m.state.View == session.ViewProblem && m.router.Depth() == 1:
		return m.router.Push(solve.New(m.state, m.spinner))
	case m.state.View == session.ViewCatalog && m.router.Depth() > 1:
		m.router.PopToRoot()
	}
	return nil
}

func (m AppModel) logResult(event string, err error, fields ...zap.Field) {
	if err != nil {
		m.logger.Warn(event+" failed", append(fields, zap.Error(err))...)
		return
	}
	m.logger.Debug(event, fields...)
}

func (m AppModel) View() tea.View {
	v := tea.NewView("")
	v.AltScreen = true

	if m.width == 0 || m.height == 0 {
		return v
	}

	if layout.IsTooSmall(m.width, m.height) {
		v.SetContent(layout.RenderMinSizeMessage(m.width, m.height))
		return v
	}

	v.SetContent(m.render())
	return v
}

// render draws the full frame at the current size.
func (m AppModel) render() string {
	active := m.router.Active()

	header := layout.RenderHeader(active.Title(), m.state.Stats, m.width)

	var notice string
	if m.state.Notice != "" {
		notice = layout.RenderNotice(m.state.Notice, m.width)
	}

	var hints []layout.KeyHint
	if p, ok := active.(screen.KeyHintProvider); ok {
		hints = p.KeyHints()
	}
	if len(hints) == 0 || hints[len(hints)-1].Key != "Ctrl+C" {
		hints = append(hints, layout.KeyHint{Key: "Ctrl+C", Description: "Quit"})
	}
	footer := layout.RenderFooter(hints, m.width)

	content := m.router.View(m.width, layout.ContentHeight(header, notice, footer, m.height))
	return layout.RenderFrame(header, notice, content, footer, m.width, m.height)
}

// Run starts the Bubble Tea program and blocks until the user quits.
func Run(ctx context.Context, opts Options) error {
	p := tea.NewProgram(newAppModel(ctx, opts), tea.WithContext(ctx))
	_, err := p.Run()
	return err
}
