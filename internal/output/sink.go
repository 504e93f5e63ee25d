package output

import (
	"bufio"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/ppiankov/ntclean/internal/model"
)

const bufferSize = 1 << 20

// fieldEscaper keeps every record on one line with a fixed field count
// and lets a backslash in the source be told apart from an escape
var fieldEscaper = strings.NewReplacer(`\`, `\\`, "\n", `\n`, "\r", `\r`, "\t", `\t`)

// FactPath returns <dir>/<name>_triple.nt
func FactPath(dir, name string) string {
	return filepath.Join(dir, name+"_triple.nt")
}

// LabelPath returns <dir>/<name>_label.nt
func LabelPath(dir, name string) string {
	return filepath.Join(dir, name+"_label.nt")
}

// stream is one buffered output file
type stream struct {
	path   string
	file   *os.File
	writer *bufio.Writer
	bytes  int64
}

func createStream(path string) (*stream, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, pathError("create", path, err)
	}
	return &stream{path: path, file: f, writer: bufio.NewWriterSize(f, bufferSize)}, nil
}

func (s *stream) write(p []byte) error {
	n, err := s.writer.Write(p)
	s.bytes += int64(n)
	if err != nil {
		return pathError("write", s.path, err)
	}
	return nil
}

func (s *stream) close() error {
	flushErr := s.writer.Flush()
	closeErr := s.file.Close()
	if flushErr != nil {
		return pathError("flush", s.path, flushErr)
	}
	if closeErr != nil {
		return pathError("close", s.path, closeErr)
	}
	return nil
}

// pathError names op and path once. Errors from the file already carry both.
func pathError(op, path string, err error) error {
	var pe *fs.PathError
	if errors.As(err, &pe) {
		return err
	}
	return &fs.PathError{Op: op, Path: path, Err: err}
}

// Sink owns the fact and label output files
type Sink struct {
	facts     *stream
	labels    *stream
	delimiter string
	line      []byte
	closeOnce sync.Once
	closeErr  error
}

// Create creates dir if needed and truncates both output files
func Create(dir, name, delimiter string) (*Sink, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create output directory: %w", err)
	}

	facts, err := createStream(FactPath(dir, name))
	if err != nil {
		return nil, err
	}
	labels, err := createStream(LabelPath(dir, name))
	if err != nil {
		_ = facts.close()
		return nil, err
	}

	return &Sink{
		facts:     facts,
		labels:    labels,
		delimiter: delimiter,
	}, nil
}

// Write appends one record to the stream chosen by d. Dropped records are ignored.
func (s *Sink) Write(d model.Disposition, rec model.Record) error {
	st := s.stream(d)
	if st == nil {
		return nil
	}
	s.line = AppendRecord(s.line[:0], rec, s.delimiter)
	return st.write(s.line)
}

// WriteChunk appends pre-rendered whole lines to the stream chosen by d
func (s *Sink) WriteChunk(d model.Disposition, lines []byte) error {
	st := s.stream(d)
	if st == nil || len(lines) == 0 {
		return nil
	}
	return st.write(lines)
}

func (s *Sink) stream(d model.Disposition) *stream {
	switch d {
	case model.Fact:
		return s.facts
	case model.Label:
		return s.labels
	default:
		return nil
	}
}

// Bytes returns the number of bytes accepted by each stream so far
func (s *Sink) Bytes() (facts, labels int64) {
	return s.facts.bytes, s.labels.bytes
}

// Paths returns the fact and label file paths
func (s *Sink) Paths() (facts, labels string) {
	return s.facts.path, s.labels.path
}

// Close flushes and closes both files. Safe to call more than once.
func (s *Sink) Close() error {
	s.closeOnce.Do(func() {
		factErr := s.facts.close()
		labelErr := s.labels.close()
		if factErr != nil {
			s.closeErr = factErr
		} else {
			s.closeErr = labelErr
		}
	})
	return s.closeErr
}

// AppendRecord renders rec as one delimiter-joined, newline-terminated line
func AppendRecord(dst []byte, rec model.Record, delimiter string) []byte {
	for i, field := range rec {
		if i > 0 {
			dst = append(dst, delimiter...)
		}
		if strings.ContainsAny(field, "\\\n\r\t") {
			field = fieldEscaper.Replace(field)
		}
		dst = append(dst, field...)
	}
	return append(dst, '\n')
}
