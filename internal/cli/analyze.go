// internal/cli/analyze.go
package scamlens

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"

	"github.com/mwiater/scamlens/internal/appconfig"
	"github.com/mwiater/scamlens/internal/console"
	"github.com/mwiater/scamlens/internal/controller"
	"github.com/mwiater/scamlens/internal/detector"
	"github.com/mwiater/scamlens/internal/upload"
	"github.com/spf13/cobra"
)

// analyzeOptions are the per-run page settings given on the command line.
type analyzeOptions struct {
	textModel  string
	cnnModel   string
	textWeight float64
	weightSet  bool
	feedback   string
	correction string
	comments   string
	tips       bool
}

var analyzeOpts analyzeOptions

// analyzeCmd classifies screenshots without the full-screen page.
var analyzeCmd = &cobra.Command{
	Use:   "analyze FILE...",
	Short: "Analyze screenshots for scams",
	Long: `Analyze one or more screenshots with the configured detection service and print
the verdict for each. Use --jsonMode or --yamlMode for machine-readable output.

Examples:
  scamlens analyze message.png
  scamlens analyze --text-model roberta --text-weight 0.7 a.png b.jpg
  scamlens analyze --feedback incorrect --correction legitimate receipt.png`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := getConfig()
		opts := analyzeOpts
		opts.weightSet = cmd.Flags().Changed("text-weight")

		svc := newService(cfg)
		defer svc.Close()
		return runAnalyze(cmd.Context(), cmd.OutOrStdout(), cmd.ErrOrStderr(), cfg, svc, opts, args)
	},
}

func init() {
	analyzeCmd.Flags().StringVar(&analyzeOpts.textModel, "text-model", "", "text classifier (default: first configured)")
	analyzeCmd.Flags().StringVar(&analyzeOpts.cnnModel, "cnn-model", "", "image classifier (default: first configured)")
	analyzeCmd.Flags().Float64Var(&analyzeOpts.textWeight, "text-weight", 0.5, "text weight in [0,1]; the image weight is the complement")
	analyzeCmd.Flags().StringVar(&analyzeOpts.feedback, "feedback", "", "send feedback after the analysis: correct or incorrect")
	analyzeCmd.Flags().StringVar(&analyzeOpts.correction, "correction", "", "correct classification when --feedback=incorrect (scam or legitimate)")
	analyzeCmd.Flags().StringVar(&analyzeOpts.comments, "comments", "", "optional feedback comments")
	analyzeCmd.Flags().BoolVar(&analyzeOpts.tips, "tips", false, "print a safety tip while waiting")
	rootCmd.AddCommand(analyzeCmd)
}

// runAnalyze analyzes paths one by one and writes a report for each. Progress
// goes to progress in JSON/YAML mode so out stays machine-readable.
func runAnalyze(ctx context.Context, out, progress io.Writer, cfg *appconfig.Config, svc detector.Service, opts analyzeOptions, paths []string) error {
	format := console.FormatFor(cfg)
	if format == console.FormatText {
		progress = out
	}

	var errs []error
	for _, path := range paths {
		if err := ctx.Err(); err != nil {
			errs = append(errs, err)
			break
		}
		report, err := analyzeFile(ctx, progress, cfg, svc, opts, path)
		if werr := console.WriteReport(out, format, report); werr != nil {
			return werr
		}
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", path, err))
		}
	}
	return errors.Join(errs...)
}

// analyzeFile drives a fresh page through one file: select, analyze and,
// when asked, send feedback on the verdict.
func analyzeFile(ctx context.Context, progress io.Writer, cfg *appconfig.Config, svc detector.Service, opts analyzeOptions, path string) (console.Report, error) {
	view := console.NewView(progress, cfg.Debug)
	ctrl := controller.New(svc, view, cfg)

	if err := ctrl.SetModels(opts.textModel, opts.cnnModel); err != nil {
		return failedReport(ctrl, path, err), err
	}
	if opts.weightSet {
		ctrl.SetWeight(controller.AxisText, opts.textWeight)
	}

	file, err := upload.Open(path, cfg.Server.MaxUploadBytes())
	if err != nil {
		return failedReport(ctrl, path, err), err
	}
	if !ctrl.SelectFile(file) {
		err := fmt.Errorf("%s (%s): %w", file.Name, file.MediaType, upload.ErrNotImage)
		return failedReport(ctrl, path, err), err
	}

	if opts.tips {
		view.ShowTips(true)
		ctrl.Carousel().Next()
		view.ShowTips(false)
	}

	err = ctrl.Analyze(ctx)
	report := console.NewReport(ctrl.Snapshot(), err)
	if err != nil {
		// The controller reports a failed analysis through the view.
		report.ErrorShown = true
		return report, err
	}

	if opts.feedback != "" {
		fb := controller.Feedback{
			Kind:       detector.FeedbackKind(opts.feedback),
			Correction: opts.correction,
			Comments:   opts.comments,
		}
		if err := ctrl.SubmitFeedback(ctx, fb); err != nil {
			log.Printf("feedback for %s not sent: %v", path, err)
			return report, fmt.Errorf("feedback: %w", err)
		}
	}
	return report, nil
}

func failedReport(ctrl *controller.Controller, path string, err error) console.Report {
	report := console.NewReport(ctrl.Snapshot(), err)
	report.File = path
	report.Error = err.Error()
	return report
}
