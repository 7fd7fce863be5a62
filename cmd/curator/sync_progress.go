package main

import (
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/schollz/progressbar/v3"

	"curator/internal/dispatch"
	"curator/internal/logging"
)

// progressRenderer adapts dispatch progress events for the terminal: a live
// bar on TTYs, sampled plain lines everywhere else. Every mode also writes
// sampled progress to the run log so tailing the file shows pass pace.
type progressRenderer struct {
	out     io.Writer
	logger  *slog.Logger
	quiet   bool
	useBar  bool
	bar     *progressbar.ProgressBar
	sampler *logging.ProgressSampler
}

func newProgressRenderer(out io.Writer, logger *slog.Logger, quiet, useBar bool) *progressRenderer {
	return &progressRenderer{
		out:     out,
		logger:  logger,
		quiet:   quiet,
		useBar:  useBar,
		sampler: logging.NewProgressSampler(10),
	}
}

func (p *progressRenderer) plan(candidates, planned int) {
	if p.quiet {
		return
	}
	switch {
	case candidates == 0:
		fmt.Fprintln(p.out, "No uncategorized records to submit")
	case planned < candidates:
		fmt.Fprintf(p.out, "Submitting %d of %d uncategorized records\n", planned, candidates)
	default:
		fmt.Fprintf(p.out, "Submitting %d uncategorized records\n", planned)
	}
}

func (p *progressRenderer) observe(event dispatch.Event) {
	sampled := p.sampler.ShouldLog(event.Percent(), "submit")
	if sampled {
		attrs := []logging.Attr{
			logging.Int(logging.FieldCandidateIndex, event.Index),
			logging.Int(logging.FieldCandidateTotal, event.Total),
			logging.Float64(logging.FieldProgressPercent, event.Percent()),
		}
		if event.HasETA {
			attrs = append(attrs, logging.Duration(logging.FieldProgressETA, event.ETA))
		}
		p.logger.Info("submission progress", logging.Args(attrs...)...)
	}

	if p.quiet {
		return
	}
	if p.useBar {
		p.renderBar(event)
		return
	}
	if sampled {
		line := fmt.Sprintf("  [%d/%d] %s", event.Index, event.Total, event.DisplayName)
		if event.HasETA {
			line += fmt.Sprintf(" (about %s left)", formatETA(event.ETA))
		}
		fmt.Fprintln(p.out, line)
	}
}

func (p *progressRenderer) renderBar(event dispatch.Event) {
	if p.bar == nil {
		p.bar = progressbar.NewOptions(event.Total,
			progressbar.OptionSetWriter(p.out),
			progressbar.OptionSetDescription("Submitting"),
			progressbar.OptionShowCount(),
			progressbar.OptionSetWidth(24),
			progressbar.OptionSetPredictTime(true),
		)
	}
	p.bar.Describe("Submitting " + trimLabel(event.DisplayName, 32))
	_ = p.bar.Set(event.Index - 1)
}

// finish clears any live bar so the summary prints on a clean line.
func (p *progressRenderer) finish() {
	if p.bar == nil {
		return
	}
	_ = p.bar.Clear()
	p.bar = nil
}

func formatETA(eta time.Duration) string {
	rounded := eta.Round(time.Second)
	if rounded < time.Second {
		return "a second"
	}
	return rounded.String()
}

func trimLabel(label string, max int) string {
	runes := []rune(strings.TrimSpace(label))
	if len(runes) <= max {
		return string(runes)
	}
	return string(runes[:max-1]) + "..."
}
