// Package controller holds the state of the screenshot analysis page: the
// selected file, classifier weights and models, the analysis lifecycle, the
// feedback and report panels and the tips carousel. Rendering is delegated to
// a View so the same controller drives the terminal UI and the line console.
package controller

import (
	"context"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/mwiater/scamlens/internal/appconfig"
	"github.com/mwiater/scamlens/internal/detector"
	"github.com/mwiater/scamlens/internal/logging"
	"github.com/mwiater/scamlens/internal/upload"
)

// Feedback is the user's opinion of the result on screen.
type Feedback struct {
	Kind       detector.FeedbackKind
	Correction string
	Comments   string
}

// Controller owns the page state. All methods are safe for concurrent use.
type Controller struct {
	svc        detector.Service
	view       View
	timing     appconfig.Timing
	textModels []string
	cnnModels  []string
	carousel   *Carousel

	mu              sync.Mutex
	phase           Phase
	file            *upload.SelectedFile
	weights         Weights
	textModel       string
	cnnModel        string
	inFlight        bool
	result          *ResultPanel
	feedback        FeedbackPanel
	feedbackNote    string
	reportSubmitted bool
	reportSending   bool
	// generation changes whenever the result on screen is replaced or
	// discarded, so late feedback completions can tell they are stale.
	generation uint64
}

// New builds a controller in PhaseIdle. A nil view discards output and a nil
// cfg uses defaults.
func New(svc detector.Service, view View, cfg *appconfig.Config) *Controller {
	if view == nil {
		view = NopView{}
	}
	if cfg == nil {
		cfg = &appconfig.Config{}
	}
	c := &Controller{
		svc:        svc,
		view:       view,
		timing:     cfg.Timing,
		textModels: append([]string(nil), cfg.TextModelOptions()...),
		cnnModels:  append([]string(nil), cfg.CNNModelOptions()...),
		weights:    NewWeights(cfg.InitialTextWeight()),
	}
	c.textModel = c.textModels[0]
	c.cnnModel = c.cnnModels[0]
	c.carousel = NewCarousel(cfg.CarouselTips(), func(i int, slide string) {
		c.view.SlideChanged(i, slide)
	})
	return c
}

// Carousel returns the tips carousel.
func (c *Controller) Carousel() *Carousel { return c.carousel }

// TextModels returns the selectable text model identifiers.
func (c *Controller) TextModels() []string { return slices.Clone(c.textModels) }

// CNNModels returns the selectable image model identifiers.
func (c *Controller) CNNModels() []string { return slices.Clone(c.cnnModels) }

// SelectFile makes f the current screenshot. Files whose declared media type
// is not an image are ignored, as is any selection while an analysis runs.
func (c *Controller) SelectFile(f upload.SelectedFile) bool {
	if !f.IsImage() {
		logging.LogEvent("ignored non-image selection name=%s type=%s", f.Name, f.MediaType)
		return false
	}
	c.mu.Lock()
	if c.inFlight {
		c.mu.Unlock()
		return false
	}
	f.Data = slices.Clone(f.Data)
	c.file = &f
	c.discardResultLocked()
	c.phase = PhaseFileSelected
	snap := c.snapshotLocked()
	c.mu.Unlock()

	logging.LogEvent("selected file name=%s type=%s size=%d", f.Name, f.MediaType, f.Size())
	c.view.StateChanged(snap)
	return true
}

// ClearFile discards the screenshot and any result and returns to PhaseIdle.
func (c *Controller) ClearFile() {
	c.mu.Lock()
	if c.inFlight {
		c.mu.Unlock()
		return
	}
	c.file = nil
	c.discardResultLocked()
	c.phase = PhaseIdle
	snap := c.snapshotLocked()
	c.mu.Unlock()
	c.view.StateChanged(snap)
}

// SetWeight moves one weight; the other becomes its complement.
func (c *Controller) SetWeight(axis Axis, value float64) Weights {
	c.mu.Lock()
	c.weights = c.weights.With(axis, value)
	w := c.weights
	snap := c.snapshotLocked()
	c.mu.Unlock()
	c.view.StateChanged(snap)
	return w
}

// NudgeWeight moves axis by delta steps of WeightStep.
func (c *Controller) NudgeWeight(axis Axis, delta int) Weights {
	c.mu.Lock()
	current := c.weights.Get(axis)
	c.mu.Unlock()
	return c.SetWeight(axis, current+float64(delta)*WeightStep)
}

// SetModels selects the text and image classifiers. An empty identifier
// keeps the current choice.
func (c *Controller) SetModels(text, image string) error {
	if text != "" && !slices.Contains(c.textModels, text) {
		return &modelError{kind: "text", name: text}
	}
	if image != "" && !slices.Contains(c.cnnModels, image) {
		return &modelError{kind: "image", name: image}
	}
	c.mu.Lock()
	if text != "" {
		c.textModel = text
	}
	if image != "" {
		c.cnnModel = image
	}
	snap := c.snapshotLocked()
	c.mu.Unlock()
	c.view.StateChanged(snap)
	return nil
}

// CycleModel advances the text or image model to the next option.
func (c *Controller) CycleModel(axis Axis) string {
	c.mu.Lock()
	var next string
	if axis == AxisImage {
		next = cycle(c.cnnModels, c.cnnModel)
		c.cnnModel = next
	} else {
		next = cycle(c.textModels, c.textModel)
		c.textModel = next
	}
	snap := c.snapshotLocked()
	c.mu.Unlock()
	c.view.StateChanged(snap)
	return next
}

func cycle(options []string, current string) string {
	i := slices.Index(options, current)
	return options[(i+1)%len(options)]
}

// Analyze classifies the selected screenshot. Without a file, or while
// another analysis runs, it returns nil immediately. ctx is only meant to
// stop the flow on shutdown.
func (c *Controller) Analyze(ctx context.Context) error {
	c.mu.Lock()
	if c.file == nil || c.inFlight {
		c.mu.Unlock()
		return nil
	}
	c.inFlight = true
	c.phase = PhaseAnalyzing
	c.discardResultLocked()
	req := detector.AnalysisRequest{
		File:       *c.file,
		TextModel:  c.textModel,
		CNNModel:   c.cnnModel,
		TextWeight: c.weights.Text,
		CNNWeight:  c.weights.Image,
	}
	snap := c.snapshotLocked()
	c.mu.Unlock()

	c.view.StateChanged(snap)
	c.view.ProgressStarted()
	logging.LogEvent("analysis started file=%s models=%s weights=%.1f/%.1f",
		req.File.Name, req.ModelPair(), req.TextWeight, req.CNNWeight)

	stepCtx, stopSteps := context.WithCancel(ctx)
	stepsDone := make(chan struct{})
	go func() {
		defer close(stepsDone)
		c.revealSteps(stepCtx)
	}()
	stop := func() {
		stopSteps()
		<-stepsDone
	}

	start := time.Now()
	res, err := c.svc.Analyze(ctx, req)
	if err != nil {
		stop()
		c.view.ProgressHidden()
		c.failAnalysis()
		logging.LogEvent("analysis failed file=%s: %v", req.File.Name, err)
		c.view.ErrorShown("Analysis failed: " + detector.UserMessage(err))
		return err
	}

	if err := wait(ctx, c.timing.MinDisplay()-time.Since(start)); err != nil {
		stop()
		c.view.ProgressHidden()
		c.failAnalysis()
		return err
	}
	stop()
	c.view.ProgressHidden()

	panel := NewResultPanel(res)
	c.mu.Lock()
	c.result = &panel
	c.feedback = FeedbackChoosing
	c.phase = PhaseResults
	snap = c.snapshotLocked()
	c.mu.Unlock()
	c.view.StateChanged(snap)
	logging.LogEvent("analysis finished file=%s is_scam=%t confidence=%.1f elapsed=%s",
		req.File.Name, res.IsScam, res.Confidence, time.Since(start).Round(time.Millisecond))

	// The result is committed; the acknowledgement is cosmetic and a
	// cancelled ctx only cuts it short.
	if wait(ctx, c.timing.ModalTransition()) == nil {
		c.view.SuccessShown()
		if wait(ctx, c.timing.IconReveal()) == nil {
			c.view.SuccessIconRevealed()
		}
	}

	c.mu.Lock()
	c.inFlight = false
	snap = c.snapshotLocked()
	c.mu.Unlock()
	c.view.StateChanged(snap)
	return nil
}

func (c *Controller) failAnalysis() {
	c.mu.Lock()
	c.inFlight = false
	c.phase = PhaseFileSelected
	snap := c.snapshotLocked()
	c.mu.Unlock()
	c.view.StateChanged(snap)
}

// revealSteps highlights one progress step per interval until all are shown
// or ctx is done.
func (c *Controller) revealSteps(ctx context.Context) {
	ticker := time.NewTicker(c.timing.StepInterval())
	defer ticker.Stop()
	for i := range ProgressSteps {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			c.view.StepRevealed(i)
		}
	}
}

// OpenCorrection switches the feedback panel to the correction form.
func (c *Controller) OpenCorrection() {
	c.mu.Lock()
	if c.result == nil || c.feedback != FeedbackChoosing {
		c.mu.Unlock()
		return
	}
	c.feedback = FeedbackCorrecting
	snap := c.snapshotLocked()
	c.mu.Unlock()
	c.view.StateChanged(snap)
}

// SubmitFeedback sends the user's verdict on the result on screen.
func (c *Controller) SubmitFeedback(ctx context.Context, fb Feedback) error {
	if !fb.Kind.Valid() {
		return ErrInvalidFeedbackKind
	}
	c.mu.Lock()
	switch {
	case c.result == nil:
		c.mu.Unlock()
		return ErrNoResult
	case c.feedback == FeedbackThanked:
		c.mu.Unlock()
		return ErrFeedbackAlreadySent
	}
	correction := strings.TrimSpace(fb.Correction)
	if fb.Kind == detector.FeedbackIncorrect && correction == "" {
		c.feedback = FeedbackCorrecting
		snap := c.snapshotLocked()
		c.mu.Unlock()
		c.view.StateChanged(snap)
		c.view.Prompted(PromptCorrection)
		return ErrCorrectionRequired
	}
	gen := c.generation
	c.mu.Unlock()

	req := detector.FeedbackRequest{
		FeedbackType: fb.Kind,
		Comments:     strings.TrimSpace(fb.Comments),
	}
	if fb.Kind == detector.FeedbackIncorrect {
		req.CorrectClassification = correction
	}
	if err := c.svc.SendFeedback(ctx, req); err != nil {
		logging.LogEvent("feedback failed kind=%s: %v", fb.Kind, err)
		c.view.ErrorShown("Feedback failed: " + detector.UserMessage(err))
		return err
	}

	c.mu.Lock()
	if gen != c.generation {
		c.mu.Unlock()
		return nil
	}
	c.feedback = FeedbackThanked
	c.feedbackNote = ThanksCorrect
	if fb.Kind == detector.FeedbackIncorrect {
		c.feedbackNote = ThanksCorrection
	}
	snap := c.snapshotLocked()
	c.mu.Unlock()
	logging.LogEvent("feedback sent kind=%s", fb.Kind)
	c.view.StateChanged(snap)
	return nil
}

// SubmitReport sends a scam report. After one success the report control
// stays disabled for the life of the controller.
func (c *Controller) SubmitReport(ctx context.Context, scamType, description string) error {
	scamType = strings.TrimSpace(scamType)
	description = strings.TrimSpace(description)

	c.mu.Lock()
	if c.reportSubmitted || c.reportSending {
		c.mu.Unlock()
		return ErrReportAlreadySubmitted
	}
	if scamType == "" || description == "" {
		c.mu.Unlock()
		c.view.Prompted(PromptReportFields)
		return ErrReportFieldsRequired
	}
	c.reportSending = true
	c.mu.Unlock()

	err := c.svc.SendReport(ctx, detector.ReportRequest{ScamType: scamType, Description: description})

	c.mu.Lock()
	c.reportSending = false
	if err == nil {
		c.reportSubmitted = true
	}
	snap := c.snapshotLocked()
	c.mu.Unlock()

	if err != nil {
		logging.LogEvent("report failed type=%s: %v", scamType, err)
		c.view.ErrorShown("Report failed: " + detector.UserMessage(err))
		return err
	}
	logging.LogEvent("report sent type=%s", scamType)
	c.view.StateChanged(snap)
	return nil
}

// Snapshot returns a copy of the current state.
func (c *Controller) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snapshotLocked()
}

func (c *Controller) discardResultLocked() {
	c.result = nil
	c.feedback = FeedbackHidden
	c.feedbackNote = ""
	c.generation++
}

func (c *Controller) snapshotLocked() Snapshot {
	slideIndex, slide := c.carousel.current()
	s := Snapshot{
		Phase:         c.phase,
		Weights:       c.weights,
		TextModel:     c.textModel,
		CNNModel:      c.cnnModel,
		Feedback:      c.feedback,
		FeedbackNote:  c.feedbackNote,
		ReportEnabled: !c.reportSubmitted && !c.reportSending,
		ReportLabel:   LabelReport,
		ReportSuccess: c.reportSubmitted,
		SlideIndex:    slideIndex,
		Slide:         slide,
		SlideCount:    c.carousel.Len(),
	}
	if c.reportSubmitted {
		s.ReportLabel = LabelReportSubmitted
	}
	if c.file != nil {
		f := *c.file
		s.File = &f
	}
	if c.result != nil {
		r := *c.result
		r.Chips = slices.Clone(r.Chips)
		s.Result = &r
	}
	switch {
	case c.inFlight:
		s.AnalyzeLabel = LabelAnalyzing
	case c.file == nil:
		s.AnalyzeLabel = LabelSelectImage
	default:
		s.AnalyzeLabel = LabelAnalyze
		s.AnalyzeEnabled = true
	}
	return s
}

// wait sleeps for d or until ctx is done. A non-positive d returns at once.
func wait(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

type modelError struct {
	kind string
	name string
}

func (e *modelError) Error() string {
	return "unknown " + e.kind + " model " + e.name
}

func (e *modelError) Unwrap() error { return ErrUnknownModel }
