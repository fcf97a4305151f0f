package controller

// Phase is the set of panels visible on the page.
type Phase int

const (
	// PhaseIdle shows the empty drop zone.
	PhaseIdle Phase = iota
	// PhaseFileSelected shows the screenshot preview and an enabled trigger.
	PhaseFileSelected
	// PhaseAnalyzing shows the progress modal.
	PhaseAnalyzing
	// PhaseResults shows the result panel with feedback and report panels.
	PhaseResults
	// PhaseFeedback is part of the page's vocabulary but never entered:
	// the feedback panel is layered on PhaseResults and tracked by FeedbackPanel.
	PhaseFeedback
)

func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseFileSelected:
		return "file-selected"
	case PhaseAnalyzing:
		return "analyzing"
	case PhaseResults:
		return "results"
	case PhaseFeedback:
		return "feedback"
	default:
		return "unknown"
	}
}

// FeedbackPanel is the state of the "was this correct?" panel.
type FeedbackPanel int

const (
	FeedbackHidden FeedbackPanel = iota
	// FeedbackChoosing shows the correct/incorrect buttons.
	FeedbackChoosing
	// FeedbackCorrecting shows the correction form.
	FeedbackCorrecting
	// FeedbackThanked shows the thank-you message.
	FeedbackThanked
)

func (f FeedbackPanel) String() string {
	switch f {
	case FeedbackHidden:
		return "hidden"
	case FeedbackChoosing:
		return "choosing"
	case FeedbackCorrecting:
		return "correcting"
	case FeedbackThanked:
		return "thanked"
	default:
		return "unknown"
	}
}
