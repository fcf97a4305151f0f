package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/mwiater/scamlens/internal/controller"
	"github.com/mwiater/scamlens/internal/textfmt"
)

var (
	titleStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("230")).Background(lipgloss.Color("57")).Padding(0, 1)
	labelStyle    = lipgloss.NewStyle().Background(lipgloss.Color("0")).Foreground(lipgloss.Color("255")).Padding(0, 1)
	mutedStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("244"))
	activeStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("205")).Bold(true)
	errorStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	promptStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
	scamStyle     = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("9"))
	legitStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("40"))
	chipStyle     = lipgloss.NewStyle().Background(lipgloss.Color("236")).Foreground(lipgloss.Color("229")).Padding(0, 1).MarginRight(1)
	boxStyle      = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("62")).Padding(0, 1)
	modalStyle    = lipgloss.NewStyle().Border(lipgloss.DoubleBorder()).BorderForeground(lipgloss.Color("205")).Padding(1, 3)
	buttonStyle   = lipgloss.NewStyle().Background(lipgloss.Color("57")).Foreground(lipgloss.Color("230")).Padding(0, 2)
	disabledStyle = lipgloss.NewStyle().Background(lipgloss.Color("240")).Foreground(lipgloss.Color("250")).Padding(0, 2)
)

// View renders the page, or the modal covering it.
func (m *model) View() string {
	if m.width == 0 {
		return "Initializing..."
	}

	switch m.modal {
	case modalProgress:
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, m.progressView())
	case modalSuccess:
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, m.successView())
	}

	var b strings.Builder
	b.WriteString(m.headerView() + "\n\n")

	switch m.state {
	case viewOpenFile:
		b.WriteString(m.pathInput.View() + "\n" + mutedStyle.Render("enter to open, esc to cancel"))
	case viewCorrection:
		b.WriteString(m.correctionView())
	case viewReport:
		b.WriteString(m.reportView())
	default:
		m.viewport.SetContent(m.pageBody())
		b.WriteString(m.viewport.View())
	}

	if m.notice != "" {
		style := promptStyle
		if m.noticeErr {
			style = errorStyle
		}
		b.WriteString("\n" + style.Render(m.notice))
	}
	if m.busy {
		b.WriteString("\n" + m.spinner.View() + " Sending...")
	}
	b.WriteString("\n" + mutedStyle.Render(m.helpLine()))
	return b.String()
}

func (m *model) headerView() string {
	return lipgloss.JoinHorizontal(lipgloss.Top,
		titleStyle.Render("ScamLens"),
		renderServerBadge(m.cfg.BaseURL()),
		renderMetricsBadge(m.metricsStatus),
	)
}

func (m *model) helpLine() string {
	switch m.state {
	case viewOpenFile:
		return ""
	case viewCorrection:
		return "tab: choose classification, enter: submit, esc: back"
	case viewReport:
		return "tab: choose scam type, enter: submit, esc: back"
	}
	parts := []string{"o: open", "a: analyze", "x: clear", "←/→: weights", "m/n: models"}
	if m.snap.Result != nil && m.snap.Feedback == controller.FeedbackChoosing {
		parts = append(parts, "c: correct", "i: incorrect")
	}
	if m.snap.ReportEnabled {
		parts = append(parts, "r: report")
	}
	parts = append(parts, "[/]: tips", "q: quit")
	return strings.Join(parts, " • ")
}

// pageBody renders the drop zone, settings, results and the tips carousel.
func (m *model) pageBody() string {
	s := m.snap
	var b strings.Builder

	if s.File == nil {
		b.WriteString(boxStyle.Render("Drop a screenshot here: press o to choose a file") + "\n\n")
	} else {
		info := fmt.Sprintf("%s  %s, %s", textfmt.TruncateMiddle(s.File.Name, 48), s.File.MediaType, formatSize(s.File.Size()))
		b.WriteString(boxStyle.Render(info+"\n"+mutedStyle.Render("x to clear")) + "\n\n")
	}

	b.WriteString(labelStyle.Render("Weights") + fmt.Sprintf(" text %.1f  image %.1f", s.Weights.Text, s.Weights.Image) + "\n")
	b.WriteString(labelStyle.Render("Models ") + " text " + modelChoices(m.ctrl.TextModels(), s.TextModel) + "\n")
	b.WriteString(labelStyle.Render("       ") + " image " + modelChoices(m.ctrl.CNNModels(), s.CNNModel) + "\n\n")

	button := disabledStyle.Render(s.AnalyzeLabel)
	if s.AnalyzeEnabled {
		button = buttonStyle.Render(s.AnalyzeLabel)
	}
	b.WriteString(button + "\n\n")

	if s.Result != nil {
		b.WriteString(m.resultView(*s.Result) + "\n")
		b.WriteString(m.feedbackView() + "\n\n")
	}
	if s.ReportSuccess {
		b.WriteString(disabledStyle.Render(s.ReportLabel) + " " + legitStyle.Render(controller.ReportThanks) + "\n\n")
	}

	if s.SlideCount > 0 {
		b.WriteString(labelStyle.Render("Tip") + " " + s.Slide + "\n" + carouselDots(s.SlideIndex, s.SlideCount))
	}
	return b.String()
}

func (m *model) resultView(r controller.ResultPanel) string {
	title := legitStyle.Render(r.Title)
	if r.IsScam {
		title = scamStyle.Render(r.Title)
	}
	lines := []string{
		title,
		r.Description,
		"",
		fmt.Sprintf("Confidence %s %s", m.bar.ViewAs(r.BarWidth/100), r.Confidence),
		fmt.Sprintf("Text  %s   Image %s", r.TextConfidence, r.ImgConfidence),
	}
	if len(r.Chips) > 0 {
		chips := make([]string, len(r.Chips))
		for i, c := range r.Chips {
			chips[i] = chipStyle.Render(c)
		}
		lines = append(lines, "", "Key features:", lipgloss.JoinHorizontal(lipgloss.Top, chips...))
	}
	if r.ExtractedText != "" {
		width := max(m.width-6, 20)
		lines = append(lines, "", "Extracted text:", lipgloss.NewStyle().Width(width).Render(r.ExtractedText))
	}
	return boxStyle.Render(strings.Join(lines, "\n"))
}

func (m *model) feedbackView() string {
	switch m.snap.Feedback {
	case controller.FeedbackChoosing:
		return "Was this analysis correct?  " + mutedStyle.Render("c: yes   i: no")
	case controller.FeedbackCorrecting:
		return "Was this analysis correct?  " + mutedStyle.Render("i: open correction form")
	case controller.FeedbackThanked:
		return legitStyle.Render(m.snap.FeedbackNote)
	default:
		return ""
	}
}

func (m *model) correctionView() string {
	var opts []string
	for i, o := range correctionOptions {
		if o == "" {
			o = "(select)"
		}
		if i == m.correction {
			opts = append(opts, activeStyle.Render("["+o+"]"))
		} else {
			opts = append(opts, " "+o+" ")
		}
	}
	return "What is the correct classification?\n" + strings.Join(opts, " ") + "\n\n" + m.commentInput.View()
}

func (m *model) reportView() string {
	current := m.selectedScamType()
	if current == "" {
		current = "(select)"
	}
	return labelStyle.Render("Report Scam") + "\n\nScam type: " + activeStyle.Render(current) +
		"\n\n" + m.description.View()
}

func (m *model) progressView() string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("%s Analyzing screenshot... %.1fs\n\n", m.spinner.View(), time.Since(m.requestStart).Seconds()))
	for i, step := range controller.ProgressSteps {
		if i < m.stepsShown {
			b.WriteString(activeStyle.Render("● "+step) + "\n")
		} else {
			b.WriteString(mutedStyle.Render("○ "+step) + "\n")
		}
	}
	return modalStyle.Render(strings.TrimRight(b.String(), "\n"))
}

func (m *model) successView() string {
	icon := " "
	if m.iconShown {
		icon = legitStyle.Render("✓")
	}
	return modalStyle.Render(icon + "  Analysis Complete\n\n" + mutedStyle.Render("enter: view results"))
}

func carouselDots(index, n int) string {
	dots := make([]string, n)
	for i := range dots {
		if i == index {
			dots[i] = activeStyle.Render("●")
		} else {
			dots[i] = mutedStyle.Render("○")
		}
	}
	return strings.Join(dots, " ")
}

func formatSize(n int) string {
	switch {
	case n >= 1<<20:
		return fmt.Sprintf("%.1f MB", float64(n)/(1<<20))
	case n >= 1<<10:
		return fmt.Sprintf("%.1f KB", float64(n)/(1<<10))
	default:
		return fmt.Sprintf("%d B", n)
	}
}

// modelChoices lists every option, highlighting the current one in brackets.
func modelChoices(options []string, current string) string {
	parts := make([]string, 0, len(options))
	for _, opt := range options {
		if opt == current {
			parts = append(parts, activeStyle.Render("["+opt+"]"))
			continue
		}
		parts = append(parts, mutedStyle.Render(opt))
	}
	return strings.Join(parts, " ")
}
