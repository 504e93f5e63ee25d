package pipeline

import (
	"bufio"
	"context"
	"fmt"
	"io"

	"github.com/ppiankov/ntclean/internal/model"
	"github.com/ppiankov/ntclean/internal/output"
	"github.com/ppiankov/ntclean/internal/worker"
)

// chunkJob converts a contiguous range of input lines
type chunkJob struct {
	pipeline  *Pipeline
	firstLine int64 // 1-based number of lines[0]
	lines     []string
}

// chunkResult holds the rendered output of one chunk
type chunkResult struct {
	facts  []byte
	labels []byte
	stats  model.Stats
}

func (r *chunkResult) GetError() error { return nil }

// Execute renders every line of the chunk into private buffers. Nothing is
// shared with other chunks except the failure log throttle.
func (j *chunkJob) Execute(ctx context.Context) worker.Result {
	res := &chunkResult{}
	delimiter := j.pipeline.config.Output.Delimiter

	for i, line := range j.lines {
		res.stats.Lines++
		decision, err := j.pipeline.process(j.firstLine+int64(i), line, &res.stats)
		if err != nil {
			continue
		}
		switch decision.Disposition {
		case model.Fact:
			res.facts = output.AppendRecord(res.facts, decision.Record, delimiter)
		case model.Label:
			res.labels = output.AppendRecord(res.labels, decision.Record, delimiter)
		}
	}

	return res
}

// runParallel cuts the input into chunks, converts them on a worker pool and
// appends each chunk's output from this goroutine only, so whole lines are
// never interleaved. Line order across chunks is not preserved.
func (p *Pipeline) runParallel(ctx context.Context, br *bufio.Reader) (*model.Stats, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	pool := worker.NewPool(p.config.Concurrency.Workers)
	pool.Start()
	defer pool.Shutdown()

	produced := make(chan error, 1)
	go func() {
		defer pool.Close()
		produced <- p.produce(ctx, br, pool)
	}()

	stats := &model.Stats{}
	var writeErr error
	for res := range pool.Results() {
		if writeErr != nil || ctx.Err() != nil {
			continue // drain
		}
		chunk := res.(*chunkResult)
		if err := p.sink.WriteChunk(model.Fact, chunk.facts); err != nil {
			writeErr = err
			cancel()
			continue
		}
		if err := p.sink.WriteChunk(model.Label, chunk.labels); err != nil {
			writeErr = err
			cancel()
			continue
		}
		stats.Add(chunk.stats)
		p.progress.Observe(*stats)
	}

	readErr := <-produced
	switch {
	case writeErr != nil:
		return stats, writeErr
	case readErr != nil:
		return stats, readErr
	default:
		return stats, ctx.Err()
	}
}

// produce reads chunk-sized batches of lines and submits them to the pool
func (p *Pipeline) produce(ctx context.Context, br *bufio.Reader, pool *worker.Pool) error {
	size := p.config.Concurrency.ChunkSize
	next := int64(1)
	lines := make([]string, 0, size)

	submit := func() bool {
		if len(lines) == 0 {
			return true
		}
		job := &chunkJob{pipeline: p, firstLine: next, lines: lines}
		next += int64(len(lines))
		lines = make([]string, 0, size)
		return pool.Submit(ctx, job)
	}

	for {
		if ctx.Err() != nil {
			return ctx.Err()
		}

		line, err := br.ReadString('\n')
		if len(line) > 0 {
			lines = append(lines, line)
			if len(lines) == size && !submit() {
				return ctx.Err()
			}
		}

		if err == io.EOF {
			if !submit() {
				return ctx.Err()
			}
			return nil
		}
		if err != nil {
			return fmt.Errorf("read input at line %d: %w", next+int64(len(lines)), err)
		}
	}
}
