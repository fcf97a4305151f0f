// Package tui renders the analysis page in the terminal with Bubble Tea.
package tui

import (
	"context"
	"fmt"
	"log"
	"strings"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mwiater/scamlens/internal/appconfig"
	"github.com/mwiater/scamlens/internal/controller"
	"github.com/mwiater/scamlens/internal/detector"
	"github.com/mwiater/scamlens/internal/upload"
)

// viewState is the screen currently taking keyboard input.
type viewState int

const (
	// viewPage is the analysis page itself.
	viewPage viewState = iota
	// viewOpenFile prompts for the path of a screenshot.
	viewOpenFile
	// viewCorrection is the "incorrect" feedback form.
	viewCorrection
	// viewReport is the scam report form.
	viewReport
)

// modalState is the overlay drawn on top of the page.
type modalState int

const (
	modalNone modalState = iota
	modalProgress
	modalSuccess
)

// correctionOptions are the classifications offered by the correction form.
// The empty entry is the unselected placeholder.
var correctionOptions = []string{"", "scam", "legitimate"}

// One message per controller.View callback.
type (
	stateMsg           controller.Snapshot
	progressStartedMsg struct{}
	stepRevealedMsg    int
	progressHiddenMsg  struct{}
	successShownMsg    struct{}
	successIconMsg     struct{}
	errorMsg           string
	promptMsg          string
	slideMsg           struct {
		index int
		slide string
	}
)

// opDoneMsg is returned by commands that run a controller operation.
type opDoneMsg struct {
	op  string
	err error
}

// programView forwards controller callbacks into the Bubble Tea event loop.
// Callbacks arriving before the program is attached are dropped.
type programView struct {
	p atomic.Pointer[tea.Program]
}

func (v *programView) attach(p *tea.Program) { v.p.Store(p) }

func (v *programView) send(msg tea.Msg) {
	if p := v.p.Load(); p != nil {
		p.Send(msg)
	}
}

func (v *programView) StateChanged(s controller.Snapshot) { v.send(stateMsg(s)) }
func (v *programView) ProgressStarted()                   { v.send(progressStartedMsg{}) }
func (v *programView) StepRevealed(i int)                 { v.send(stepRevealedMsg(i)) }
func (v *programView) ProgressHidden()                    { v.send(progressHiddenMsg{}) }
func (v *programView) SuccessShown()                      { v.send(successShownMsg{}) }
func (v *programView) SuccessIconRevealed()               { v.send(successIconMsg{}) }
func (v *programView) ErrorShown(msg string)              { v.send(errorMsg(msg)) }
func (v *programView) Prompted(msg string)                { v.send(promptMsg(msg)) }
func (v *programView) SlideChanged(i int, slide string)   { v.send(slideMsg{index: i, slide: slide}) }

// model is the Bubble Tea model of the analysis page. Every controller call
// runs inside a tea.Cmd so that the callbacks it triggers can be delivered
// with Program.Send without blocking the event loop.
type model struct {
	ctx           context.Context
	cfg           *appconfig.Config
	ctrl          *controller.Controller
	metricsStatus metricsStatus

	state      viewState
	modal      modalState
	snap       controller.Snapshot
	stepsShown int
	iconShown  bool
	busy       bool
	notice     string
	noticeErr  bool

	pathInput    textinput.Model
	commentInput textinput.Model
	description  textarea.Model
	correction   int
	scamType     int

	spinner       spinner.Model
	bar           progress.Model
	viewport      viewport.Model
	width, height int
	requestStart  time.Time
}

// initialModel creates the page model around an existing controller.
func initialModel(ctx context.Context, cfg *appconfig.Config, ctrl *controller.Controller, status metricsStatus) *model {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))

	path := textinput.New()
	path.Placeholder = "/path/to/screenshot.png"
	path.Prompt = "Screenshot: "
	path.CharLimit = 4096

	comments := textinput.New()
	comments.Placeholder = "Optional comments"
	comments.Prompt = "Comments: "
	comments.CharLimit = 1000

	desc := textarea.New()
	desc.Placeholder = "Describe the scam..."
	desc.ShowLineNumbers = false
	desc.CharLimit = 2000
	desc.SetHeight(3)
	desc.KeyMap.InsertNewline.SetEnabled(false)

	return &model{
		ctx:           ctx,
		cfg:           cfg,
		ctrl:          ctrl,
		metricsStatus: status,
		state:         viewPage,
		snap:          ctrl.Snapshot(),
		pathInput:     path,
		commentInput:  comments,
		description:   desc,
		spinner:       s,
		bar:           progress.New(progress.WithDefaultGradient(), progress.WithWidth(40)),
		viewport:      viewport.New(100, 20),
	}
}

// do runs fn off the event loop.
func (m *model) do(fn func()) tea.Cmd {
	return func() tea.Msg {
		fn()
		return nil
	}
}

func (m *model) analyzeCmd() tea.Cmd {
	ctx, ctrl := m.ctx, m.ctrl
	return func() tea.Msg {
		return opDoneMsg{op: "analyze", err: ctrl.Analyze(ctx)}
	}
}

func (m *model) feedbackCmd(fb controller.Feedback) tea.Cmd {
	ctx, ctrl := m.ctx, m.ctrl
	return func() tea.Msg {
		return opDoneMsg{op: "feedback", err: ctrl.SubmitFeedback(ctx, fb)}
	}
}

func (m *model) reportCmd(scamType, description string) tea.Cmd {
	ctx, ctrl := m.ctx, m.ctrl
	return func() tea.Msg {
		return opDoneMsg{op: "report", err: ctrl.SubmitReport(ctx, scamType, description)}
	}
}

// openFileCmd reads path from disk and hands it to the controller.
func (m *model) openFileCmd(path string, maxBytes int64) tea.Cmd {
	ctrl := m.ctrl
	return func() tea.Msg {
		f, err := upload.Open(path, maxBytes)
		if err != nil {
			log.Printf("open %s: %v", path, err)
			return opDoneMsg{op: "open", err: err}
		}
		ctrl.SelectFile(f)
		return opDoneMsg{op: "open"}
	}
}

// Init starts the spinner.
func (m *model) Init() tea.Cmd {
	return m.spinner.Tick
}

// Update is the central update function for the Bubble Tea model.
func (m *model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}

	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.viewport.Width = msg.Width
		m.viewport.Height = max(msg.Height-6, 3)
		m.bar.Width = min(max(msg.Width-30, 10), 60)
		m.description.SetWidth(max(msg.Width-4, 20))
		return m, nil

	case stateMsg:
		m.snap = controller.Snapshot(msg)
		if m.state == viewCorrection && m.snap.Feedback != controller.FeedbackCorrecting {
			m.state = viewPage
		}
		if m.state == viewReport && m.snap.ReportSuccess {
			m.state = viewPage
		}
		return m, nil

	case progressStartedMsg:
		m.modal = modalProgress
		m.stepsShown = 0
		m.iconShown = false
		m.notice = ""
		m.requestStart = time.Now()
		return m, m.spinner.Tick

	case stepRevealedMsg:
		m.stepsShown = int(msg) + 1
		return m, nil

	case progressHiddenMsg:
		m.modal = modalNone
		return m, nil

	case successShownMsg:
		m.modal = modalSuccess
		return m, nil

	case successIconMsg:
		m.iconShown = true
		return m, nil

	case errorMsg:
		m.notice, m.noticeErr = string(msg), true
		return m, nil

	case promptMsg:
		m.notice, m.noticeErr = string(msg), false
		return m, nil

	case slideMsg:
		m.snap.SlideIndex, m.snap.Slide = msg.index, msg.slide
		return m, nil

	case opDoneMsg:
		m.busy = false
		if msg.op == "open" && msg.err != nil {
			m.notice, m.noticeErr = msg.err.Error(), true
		}
		return m, nil

	case spinner.TickMsg:
		if m.modal == modalProgress || m.busy {
			var cmd tea.Cmd
			m.spinner, cmd = m.spinner.Update(msg)
			return m, cmd
		}
		return m, nil
	}

	switch m.state {
	case viewOpenFile:
		return m.updateOpenFile(msg)
	case viewCorrection:
		return m.updateCorrection(msg)
	case viewReport:
		return m.updateReport(msg)
	default:
		return m.updatePage(msg)
	}
}

func (m *model) updatePage(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(msg)
		return m, cmd
	}

	switch m.modal {
	case modalProgress:
		return m, nil
	case modalSuccess:
		if key.String() == "enter" || key.String() == "esc" {
			m.modal = modalNone
			m.viewport.GotoTop()
		}
		return m, nil
	}

	switch key.String() {
	case "q":
		return m, tea.Quit
	case "o":
		m.state = viewOpenFile
		m.pathInput.SetValue("")
		return m, m.pathInput.Focus()
	case "a":
		if !m.snap.AnalyzeEnabled {
			return m, nil
		}
		return m, m.analyzeCmd()
	case "x":
		m.notice = ""
		return m, m.do(m.ctrl.ClearFile)
	case "left", "right":
		delta := 1
		if key.String() == "left" {
			delta = -1
		}
		return m, m.do(func() { m.ctrl.NudgeWeight(controller.AxisText, delta) })
	case "m":
		return m, m.do(func() { m.ctrl.CycleModel(controller.AxisText) })
	case "n":
		return m, m.do(func() { m.ctrl.CycleModel(controller.AxisImage) })
	case "c":
		if m.snap.Result == nil || m.snap.Feedback != controller.FeedbackChoosing || m.busy {
			return m, nil
		}
		m.busy = true
		return m, tea.Batch(m.spinner.Tick, m.feedbackCmd(controller.Feedback{Kind: detector.FeedbackCorrect}))
	case "i":
		if m.snap.Result == nil || (m.snap.Feedback != controller.FeedbackChoosing && m.snap.Feedback != controller.FeedbackCorrecting) {
			return m, nil
		}
		m.state = viewCorrection
		m.correction = 0
		m.commentInput.SetValue("")
		return m, tea.Batch(m.commentInput.Focus(), m.do(m.ctrl.OpenCorrection))
	case "r":
		if !m.snap.ReportEnabled {
			return m, nil
		}
		m.state = viewReport
		m.scamType = 0
		m.description.Reset()
		return m, m.description.Focus()
	case "[":
		return m, m.do(func() { m.ctrl.Carousel().Prev() })
	case "]":
		return m, m.do(func() { m.ctrl.Carousel().Next() })
	}

	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

func (m *model) updateOpenFile(msg tea.Msg) (tea.Model, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok {
		switch key.String() {
		case "esc":
			m.pathInput.Blur()
			m.state = viewPage
			return m, nil
		case "enter":
			path := strings.TrimSpace(m.pathInput.Value())
			m.pathInput.Blur()
			m.state = viewPage
			if path == "" {
				return m, nil
			}
			m.notice = ""
			return m, m.openFileCmd(path, m.cfg.Server.MaxUploadBytes())
		}
	}
	var cmd tea.Cmd
	m.pathInput, cmd = m.pathInput.Update(msg)
	return m, cmd
}

func (m *model) updateCorrection(msg tea.Msg) (tea.Model, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok {
		switch key.String() {
		case "esc":
			m.commentInput.Blur()
			m.state = viewPage
			return m, nil
		case "tab":
			m.correction = (m.correction + 1) % len(correctionOptions)
			return m, nil
		case "shift+tab":
			m.correction = (m.correction + len(correctionOptions) - 1) % len(correctionOptions)
			return m, nil
		case "enter":
			if m.busy {
				return m, nil
			}
			m.busy = true
			fb := controller.Feedback{
				Kind:       detector.FeedbackIncorrect,
				Correction: correctionOptions[m.correction],
				Comments:   m.commentInput.Value(),
			}
			return m, tea.Batch(m.spinner.Tick, m.feedbackCmd(fb))
		}
	}
	var cmd tea.Cmd
	m.commentInput, cmd = m.commentInput.Update(msg)
	return m, cmd
}

func (m *model) updateReport(msg tea.Msg) (tea.Model, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok {
		options := len(controller.ScamTypes) + 1
		switch key.String() {
		case "esc":
			m.description.Blur()
			m.state = viewPage
			return m, nil
		case "tab":
			m.scamType = (m.scamType + 1) % options
			return m, nil
		case "shift+tab":
			m.scamType = (m.scamType + options - 1) % options
			return m, nil
		case "enter":
			if m.busy {
				return m, nil
			}
			m.busy = true
			return m, tea.Batch(m.spinner.Tick, m.reportCmd(m.selectedScamType(), m.description.Value()))
		}
	}
	var cmd tea.Cmd
	m.description, cmd = m.description.Update(msg)
	return m, cmd
}

// selectedScamType returns the chosen report category, "" for the placeholder.
func (m *model) selectedScamType() string {
	if m.scamType <= 0 || m.scamType > len(controller.ScamTypes) {
		return ""
	}
	return controller.ScamTypes[m.scamType-1]
}

// Start runs the interactive page until the user quits. svc is closed by the caller.
func Start(ctx context.Context, cfg *appconfig.Config, svc detector.Service) error {
	if cfg == nil {
		return fmt.Errorf("configuration is not loaded")
	}
	f, err := tea.LogToFile(cfg.LogFilePath(), "scamlens")
	if err != nil {
		return fmt.Errorf("could not open log file: %w", err)
	}
	defer f.Close()

	ctx, cancel := context.WithCancel(ctx)
	defer func() {
		log.Println("Cancelling running requests...")
		cancel()
	}()

	view := &programView{}
	ctrl := controller.New(svc, view, cfg)
	m := initialModel(ctx, cfg, ctrl, deriveMetricsStatus(cfg, svc))

	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx))
	view.attach(p)

	go ctrl.Carousel().Run(ctx, cfg.Timing.CarouselInterval())

	if _, err := p.Run(); err != nil && ctx.Err() == nil {
		return fmt.Errorf("error running program: %w", err)
	}
	return nil
}
