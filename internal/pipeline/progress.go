package pipeline

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/dustin/go-humanize"
	"golang.org/x/time/rate"

	"github.com/ppiankov/ntclean/internal/model"
)

// Progress reports conversion counters at most once per interval
type Progress struct {
	logger     *slog.Logger
	totalLines int64
	start      time.Time
	every      *rate.Sometimes // nil disables periodic reports
}

// NewProgress creates a reporter. A non-positive interval disables periodic
// reports; totalLines enables percentage and ETA when known.
func NewProgress(logger *slog.Logger, interval time.Duration, totalLines int64) *Progress {
	p := &Progress{
		logger:     logger,
		totalLines: totalLines,
		start:      time.Now(),
	}
	if interval > 0 {
		// Skip the report that Sometimes would emit on the very first call
		p.every = &rate.Sometimes{Interval: interval}
		p.every.Do(func() {})
	}
	return p
}

// Observe logs s if the interval has elapsed since the last report
func (p *Progress) Observe(s model.Stats) {
	if p.every == nil {
		return
	}
	p.every.Do(func() {
		p.logger.Info("Progress", p.attrs(s)...)
	})
}

// Report logs s unconditionally at debug level
func (p *Progress) Report(s model.Stats) {
	p.logger.Debug("Conversion finished", p.attrs(s)...)
}

func (p *Progress) attrs(s model.Stats) []any {
	elapsed := time.Since(p.start)
	attrs := []any{
		"lines", humanize.Comma(s.Lines),
		"facts", humanize.Comma(s.Facts),
		"labels", humanize.Comma(s.Labels),
		"dropped", humanize.Comma(s.Dropped),
		"malformed", humanize.Comma(s.ParseFailures),
		"rate", LineRate(s.Lines, elapsed),
	}
	if pct, eta, ok := p.Estimate(s.Lines, elapsed); ok {
		attrs = append(attrs, "done", fmt.Sprintf("%.1f%%", pct), "eta", eta.Round(time.Second).String())
	}
	return attrs
}

// Estimate returns completion percentage and remaining time for lines read
// after elapsed, if a total was configured
func (p *Progress) Estimate(lines int64, elapsed time.Duration) (float64, time.Duration, bool) {
	if p.totalLines <= 0 || lines <= 0 {
		return 0, 0, false
	}
	pct := float64(lines) / float64(p.totalLines) * 100
	if pct > 100 {
		pct = 100
	}
	remaining := p.totalLines - lines
	if remaining < 0 {
		remaining = 0
	}
	eta := time.Duration(float64(elapsed) / float64(lines) * float64(remaining))
	return pct, eta, true
}

// LineRate formats a lines-per-second figure
func LineRate(lines int64, elapsed time.Duration) string {
	if elapsed <= 0 {
		return "0 lines/s"
	}
	perSecond := float64(lines) / elapsed.Seconds()
	return humanize.CommafWithDigits(perSecond, 0) + " lines/s"
}
