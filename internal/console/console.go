// Package console renders the analysis page as plain lines for the
// non-interactive commands, and writes results as text, JSON or YAML.
package console

import (
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/fatih/color"
	"github.com/k0kubun/pp"
	"github.com/mwiater/scamlens/internal/controller"
	"github.com/mwiater/scamlens/internal/textfmt"
)

// panelWidth is the wrap column for extracted text.
const panelWidth = 76

var (
	successText = color.New(color.FgGreen).SprintFunc()
	failedText  = color.New(color.FgRed).SprintFunc()
	noticeText  = color.New(color.FgYellow).SprintFunc()
	boldText    = color.New(color.Bold).SprintFunc()
	mutedText   = color.New(color.Faint).SprintFunc()
)

// View prints controller callbacks as they arrive. It is safe for
// concurrent use.
type View struct {
	mu        sync.Mutex
	out       io.Writer
	debug     bool
	showTips  bool
	lastPhase controller.Phase
}

// NewView writes to out. With debug set every state change is dumped.
func NewView(out io.Writer, debug bool) *View {
	return &View{out: out, debug: debug, lastPhase: -1}
}

// ShowTips turns carousel output on or off.
func (v *View) ShowTips(on bool) {
	v.mu.Lock()
	v.showTips = on
	v.mu.Unlock()
}

func (v *View) println(a ...any) {
	v.mu.Lock()
	defer v.mu.Unlock()
	fmt.Fprintln(v.out, a...)
}

func (v *View) StateChanged(s controller.Snapshot) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if !v.debug || s.Phase == v.lastPhase {
		return
	}
	v.lastPhase = s.Phase
	fmt.Fprintln(v.out, mutedText("phase: "+s.Phase.String()))
	pp.Fprintln(v.out, s.Weights)
}

func (v *View) ProgressStarted() {
	v.println(boldText("Analyzing screenshot..."))
}

func (v *View) StepRevealed(i int) {
	if i < 0 || i >= len(controller.ProgressSteps) {
		return
	}
	v.println(fmt.Sprintf("  [%d/%d] %s", i+1, len(controller.ProgressSteps), controller.ProgressSteps[i]))
}

func (v *View) ProgressHidden() {}

func (v *View) SuccessShown() {
	v.println(successText("✓ Analysis complete"))
}

func (v *View) SuccessIconRevealed() {}

func (v *View) ErrorShown(message string) {
	v.println(failedText(message))
}

func (v *View) Prompted(message string) {
	v.println(noticeText(message))
}

func (v *View) SlideChanged(_ int, slide string) {
	v.mu.Lock()
	show := v.showTips
	v.mu.Unlock()
	if show {
		v.println(mutedText("Tip: " + slide))
	}
}

// WritePanel prints a result panel the way the page lays it out.
func WritePanel(out io.Writer, p controller.ResultPanel) {
	title := successText(p.Title)
	if p.IsScam {
		title = failedText(p.Title)
	}
	fmt.Fprintln(out, boldText(title))
	fmt.Fprintln(out, p.Description)
	fmt.Fprintf(out, "Confidence: %s %s\n", bar(p.BarWidth, 20), p.Confidence)
	fmt.Fprintf(out, "Text: %s  Image: %s\n", p.TextConfidence, p.ImgConfidence)
	if len(p.Chips) > 0 {
		fmt.Fprintf(out, "Key features: %s\n", strings.Join(p.Chips, ", "))
	}
	if p.ExtractedText != "" {
		fmt.Fprintf(out, "Extracted text:\n%s\n", textfmt.Indent(textfmt.WrapToWidth(p.ExtractedText, panelWidth), "  "))
	}
}

// bar draws width cells filled in proportion to percent (0–100).
func bar(percent float64, width int) string {
	filled := int(percent/100*float64(width) + 0.5)
	filled = min(max(filled, 0), width)
	return "[" + strings.Repeat("#", filled) + strings.Repeat("-", width-filled) + "]"
}

// Dump pretty-prints v for debugging.
func Dump(out io.Writer, v any) {
	pp.Fprintln(out, v)
}
