package pipeline

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"

	"github.com/ppiankov/ntclean/internal/input"
	"github.com/ppiankov/ntclean/internal/model"
)

// Report describes one completed or aborted conversion
type Report struct {
	RunID       string        `yaml:"run_id"`
	Input       string        `yaml:"input"`
	InputBytes  int64         `yaml:"input_bytes"`
	Compression string        `yaml:"compression"`
	Workers     int           `yaml:"workers"`
	StartedAt   time.Time     `yaml:"started_at"`
	FinishedAt  time.Time     `yaml:"finished_at"`
	Outputs     ReportOutputs `yaml:"outputs"`
	Stats       model.Stats   `yaml:"stats"`
	Error       string        `yaml:"error,omitempty"`
}

// ReportOutputs lists the files a run produced
type ReportOutputs struct {
	Facts  string `yaml:"facts"`
	Labels string `yaml:"labels"`
}

// ReportPath returns <dir>/<name>_stats.yaml
func ReportPath(dir, name string) string {
	return filepath.Join(dir, name+"_stats.yaml")
}

// WriteFile stores the report as YAML
func (r *Report) WriteFile(path string) error {
	data, err := yaml.Marshal(r)
	if err != nil {
		return fmt.Errorf("marshal report: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write report %s: %w", path, err)
	}
	return nil
}

// Convert runs a complete conversion of inputPath with cfg: it opens the
// input, creates both outputs, streams every line through the pipeline and
// closes everything on every exit path. The returned report is non-nil
// whenever the outputs were created, even if the run failed.
func Convert(ctx context.Context, cfg *model.Config, inputPath string, opts ...Option) (report *Report, err error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	src, err := input.Open(inputPath)
	if err != nil {
		return nil, err
	}
	defer func() {
		if closeErr := src.Close(); closeErr != nil && err == nil {
			err = closeErr
		}
	}()

	p, err := Open(cfg, opts...)
	if err != nil {
		return nil, err
	}

	factPath, labelPath := p.Sink().Paths()
	report = &Report{
		RunID:       uuid.NewString(),
		Input:       src.Path(),
		InputBytes:  src.Size(),
		Compression: string(src.Compression()),
		Workers:     cfg.Concurrency.Workers,
		StartedAt:   time.Now().UTC(),
		Outputs:     ReportOutputs{Facts: factPath, Labels: labelPath},
	}

	p.logger.Debug("Conversion started", "run_id", report.RunID, "input", report.Input, "workers", report.Workers)

	stats, runErr := p.Run(ctx, src)
	closeErr := p.Close()

	report.FinishedAt = time.Now().UTC()
	report.Stats = *stats

	if runErr == nil {
		runErr = closeErr
	}
	if runErr != nil {
		report.Error = runErr.Error()
	}

	if cfg.Output.Stats {
		if err := report.WriteFile(ReportPath(cfg.Output.Dir, cfg.Output.Name)); err != nil && runErr == nil {
			runErr = err
		}
	}

	return report, runErr
}
