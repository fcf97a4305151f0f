package controller

import "github.com/mwiater/scamlens/internal/upload"

// ProgressSteps are the labels of the staged progress indication.
var ProgressSteps = []string{
	"Uploading screenshot",
	"Extracting text",
	"Analyzing visual patterns",
	"Combining model predictions",
}

// ScamTypes are the categories offered by the report form.
var ScamTypes = []string{
	"phishing",
	"impersonation",
	"investment",
	"romance",
	"tech-support",
	"lottery",
	"shopping",
	"other",
}

// Button labels of the analyze trigger and the report control.
const (
	LabelSelectImage     = "Select an image to analyze"
	LabelAnalyze         = "Analyze Screenshot"
	LabelAnalyzing       = "Analyzing..."
	LabelReport          = "Report Scam"
	LabelReportSubmitted = "Report Submitted ✓"
)

// Feedback thank-you messages.
const (
	ThanksCorrect    = "Thank you for confirming! This helps improve our model accuracy."
	ThanksCorrection = "Thank you for the correction! This helps improve our model accuracy."
	ReportThanks     = "Thank you for your report! It helps protect other users."
)

// Snapshot is a copy of everything a view needs to draw the page.
type Snapshot struct {
	Phase          Phase
	File           *upload.SelectedFile
	Weights        Weights
	TextModel      string
	CNNModel       string
	AnalyzeEnabled bool
	AnalyzeLabel   string
	Result         *ResultPanel
	Feedback       FeedbackPanel
	FeedbackNote   string
	ReportEnabled  bool
	ReportLabel    string
	ReportSuccess  bool
	SlideIndex     int
	Slide          string
	SlideCount     int
}

// View receives the controller's output. Methods may be called from any
// goroutine; implementations must be safe for that.
type View interface {
	// StateChanged is called after every change of the page state.
	StateChanged(Snapshot)
	// ProgressStarted opens the progress modal with every step dimmed.
	ProgressStarted()
	// StepRevealed highlights progress step i (0-based).
	StepRevealed(i int)
	// ProgressHidden closes the progress modal.
	ProgressHidden()
	// SuccessShown opens the success acknowledgement.
	SuccessShown()
	// SuccessIconRevealed pops in the success icon.
	SuccessIconRevealed()
	// ErrorShown displays a failure message.
	ErrorShown(message string)
	// Prompted displays an inline prompt for invalid local input.
	Prompted(message string)
	// SlideChanged moves the carousel.
	SlideChanged(index int, slide string)
}

// NopView discards everything. Embed it to implement only part of View.
type NopView struct{}

func (NopView) StateChanged(Snapshot)    {}
func (NopView) ProgressStarted()         {}
func (NopView) StepRevealed(int)         {}
func (NopView) ProgressHidden()          {}
func (NopView) SuccessShown()            {}
func (NopView) SuccessIconRevealed()     {}
func (NopView) ErrorShown(string)        {}
func (NopView) Prompted(string)          {}
func (NopView) SlideChanged(int, string) {}
