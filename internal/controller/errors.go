package controller

import "errors"

// Prompts shown inline when local input blocks a request.
const (
	PromptCorrection   = "Please select the correct classification."
	PromptReportFields = "Please fill in all required fields."
)

var (
	// ErrCorrectionRequired blocks "incorrect" feedback without a correction.
	ErrCorrectionRequired = errors.New("correct classification is required")
	// ErrReportFieldsRequired blocks a report missing its type or description.
	ErrReportFieldsRequired = errors.New("scam type and description are required")
	// ErrReportAlreadySubmitted is returned once a report went through.
	ErrReportAlreadySubmitted = errors.New("report already submitted")
	// ErrNoResult is returned by feedback without a result on screen.
	ErrNoResult = errors.New("no analysis result to give feedback on")
	// ErrFeedbackAlreadySent is returned after the panel flipped to thank-you.
	ErrFeedbackAlreadySent = errors.New("feedback already sent")
	// ErrInvalidFeedbackKind is returned for kinds other than correct/incorrect.
	ErrInvalidFeedbackKind = errors.New("feedback kind must be correct or incorrect")
	// ErrUnknownModel is returned by SetModels for identifiers not on offer.
	ErrUnknownModel = errors.New("unknown model")
)
