package progress

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/briandowns/spinner"
	"github.com/fatih/color"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/trebuchet-org/artigen/internal/usecase"
)

// SpinnerProgressReporter shows a spinner with a timeline of stages
type SpinnerProgressReporter struct {
	spinner *spinner.Spinner
	out     io.Writer
	stages  []stageInfo
	title   cases.Caser
}

type stageInfo struct {
	Stage     string
	StartTime time.Time
	EndTime   time.Time
	Status    string
	Message   string
	Current   int
	Total     int
}

// NewSpinnerProgressReporter creates a spinner writing to stderr
func NewSpinnerProgressReporter() *SpinnerProgressReporter {
	return newSpinnerProgressReporter(os.Stderr)
}

func newSpinnerProgressReporter(w io.Writer) *SpinnerProgressReporter {
	s := spinner.New(spinner.CharSets[14], 100*time.Millisecond, spinner.WithWriter(w))
	s.HideCursor = false

	return &SpinnerProgressReporter{
		spinner: s,
		out:     w,
		title:   cases.Title(language.English),
	}
}

// OnProgress handles progress events. A new stage completes the previous
// one; "completed" stops the spinner.
func (r *SpinnerProgressReporter) OnProgress(ctx context.Context, event usecase.ProgressEvent) {
	if event.Stage == "completed" {
		r.completeCurrentStage()
		r.spinner.Stop()
		return
	}

	if cur := r.current(); cur == nil || cur.Stage != event.Stage {
		r.completeCurrentStage()
		r.stages = append(r.stages, stageInfo{
			Stage:     event.Stage,
			StartTime: time.Now(),
			Status:    "running",
		})
	}
	cur := r.current()
	cur.Message = event.Message
	cur.Current = event.Current
	cur.Total = event.Total

	if event.Spinner {
		r.spinner.Suffix = " " + r.display()
		if !r.spinner.Active() {
			r.spinner.Start()
		}
	} else if r.spinner.Active() {
		r.spinner.Stop()
	}
}

// Info prints an info message
func (r *SpinnerProgressReporter) Info(message string) {
	r.pause(func() { color.New(color.FgCyan).Fprintln(r.out, message) })
}

// Error prints an error message
func (r *SpinnerProgressReporter) Error(message string) {
	r.pause(func() { color.New(color.FgRed).Fprintln(r.out, message) })
}

func (r *SpinnerProgressReporter) pause(fn func()) {
	wasActive := r.spinner.Active()
	if wasActive {
		r.spinner.Stop()
	}
	fn()
	if wasActive {
		r.spinner.Start()
	}
}

func (r *SpinnerProgressReporter) current() *stageInfo {
	if len(r.stages) == 0 {
		return nil
	}
	return &r.stages[len(r.stages)-1]
}

func (r *SpinnerProgressReporter) completeCurrentStage() {
	if cur := r.current(); cur != nil && cur.Status == "running" {
		cur.EndTime = time.Now()
		cur.Status = "completed"
	}
}

// display renders "✓ Building (1.2s) → ● Emitting 3/10 (0s) contracts/A.sol"
func (r *SpinnerProgressReporter) display() string {
	parts := make([]string, 0, len(r.stages))
	for _, stage := range r.stages {
		var icon string
		var stageColor *color.Color
		switch stage.Status {
		case "completed":
			icon = "✓"
			stageColor = color.New(color.FgGreen)
		default:
			icon = "●"
			stageColor = color.New(color.FgYellow)
		}

		name := r.title.String(stage.Stage)
		if stage.Total > 0 && stage.Status == "running" {
			name = fmt.Sprintf("%s %d/%d", name, stage.Current, stage.Total)
		}

		var duration string
		if !stage.EndTime.IsZero() {
			duration = fmt.Sprintf(" (%s)", stage.EndTime.Sub(stage.StartTime).Round(time.Millisecond))
		} else {
			duration = fmt.Sprintf(" (%s)", time.Since(stage.StartTime).Round(time.Second))
		}
		parts = append(parts, fmt.Sprintf("%s %s%s", icon, stageColor.Sprint(name), duration))
	}

	line := strings.Join(parts, " → ")
	if cur := r.current(); cur != nil && cur.Message != "" {
		line += " " + color.New(color.Faint).Sprint(cur.Message)
	}
	return line
}

var _ usecase.ProgressSink = (*SpinnerProgressReporter)(nil)
