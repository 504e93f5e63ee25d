package pipeline

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"golang.org/x/time/rate"

	"github.com/ppiankov/ntclean/internal/classify"
	"github.com/ppiankov/ntclean/internal/extract"
	"github.com/ppiankov/ntclean/internal/model"
	"github.com/ppiankov/ntclean/internal/output"
	"github.com/ppiankov/ntclean/internal/route"
)

const (
	readBufferSize = 4 << 20
	// progressEvery is how many lines pass between progress checks
	progressEvery = 4096
)

// Pipeline converts N-Triple lines into fact and label records
type Pipeline struct {
	config   *model.Config
	sink     *output.Sink
	logger   *slog.Logger
	progress *Progress
	failures *rate.Sometimes // Throttles parse failure warnings
}

// Option configures a Pipeline
type Option func(*Pipeline)

// WithLogger sets the logger used for warnings and progress
func WithLogger(logger *slog.Logger) Option {
	return func(p *Pipeline) {
		p.logger = logger
	}
}

// WithProgress replaces the default progress reporter
func WithProgress(progress *Progress) Option {
	return func(p *Pipeline) {
		p.progress = progress
	}
}

// Open creates the output files described by cfg and returns a pipeline
// that owns them. The caller must Close it.
func Open(cfg *model.Config, opts ...Option) (*Pipeline, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	sink, err := output.Create(cfg.Output.Dir, cfg.Output.Name, cfg.Output.Delimiter)
	if err != nil {
		return nil, err
	}

	p := &Pipeline{
		config:   cfg,
		sink:     sink,
		logger:   slog.Default(),
		failures: &rate.Sometimes{First: 10, Interval: 10 * time.Second},
	}
	for _, opt := range opts {
		opt(p)
	}
	if p.progress == nil {
		p.progress = NewProgress(p.logger, cfg.Progress.Interval, cfg.Progress.TotalLines)
	}

	return p, nil
}

// Sink returns the output files owned by the pipeline
func (p *Pipeline) Sink() *output.Sink {
	return p.sink
}

// Close flushes and closes the output files
func (p *Pipeline) Close() error {
	return p.sink.Close()
}

// Run reads r to the end and writes every routed statement. It stops between
// lines when ctx is cancelled; what was written so far stays valid.
func (p *Pipeline) Run(ctx context.Context, r io.Reader) (*model.Stats, error) {
	start := time.Now()
	br := bufio.NewReaderSize(r, readBufferSize)

	var (
		stats *model.Stats
		err   error
	)
	if p.config.Concurrency.Workers > 1 {
		stats, err = p.runParallel(ctx, br)
	} else {
		stats, err = p.runSequential(ctx, br)
	}

	stats.FactBytes, stats.LabelBytes = p.sink.Bytes()
	stats.Elapsed = time.Since(start)
	p.progress.Report(*stats)

	return stats, err
}

func (p *Pipeline) runSequential(ctx context.Context, br *bufio.Reader) (*model.Stats, error) {
	stats := &model.Stats{}

	for {
		select {
		case <-ctx.Done():
			return stats, ctx.Err()
		default:
		}

		line, readErr := br.ReadString('\n')
		if len(line) > 0 {
			stats.Lines++
			decision, err := p.process(stats.Lines, line, stats)
			if err == nil && decision.Disposition != model.Dropped {
				if err := p.sink.Write(decision.Disposition, decision.Record); err != nil {
					return stats, err
				}
			}
			if stats.Lines%progressEvery == 0 {
				p.progress.Observe(*stats)
			}
		}

		if readErr == io.EOF {
			return stats, nil
		}
		if readErr != nil {
			return stats, fmt.Errorf("read input at line %d: %w", stats.Lines+1, readErr)
		}
	}
}

// process runs extract, classify and route for one line and counts the
// outcome. A non-nil error means the line produced no statement.
func (p *Pipeline) process(lineNo int64, line string, stats *model.Stats) (route.Decision, error) {
	triple, err := extract.ParseLine(line)
	if errors.Is(err, extract.ErrEmpty) {
		stats.Blank++
		return route.Decision{}, err
	}
	if err != nil {
		stats.ParseFailures++
		p.failures.Do(func() {
			p.logger.Warn("Skipping malformed line", "line", lineNo, "error", err)
		})
		return route.Decision{}, err
	}

	decision := route.Route(classify.Statement(triple))
	stats.Count(decision.Disposition)
	return decision, nil
}
