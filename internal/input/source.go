package input

import (
	"compress/bzip2"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
)

// Compression identifies how the dump is encoded on disk
type Compression string

const (
	CompressionNone  Compression = "none"
	CompressionGzip  Compression = "gzip"
	CompressionZstd  Compression = "zstd"
	CompressionBzip2 Compression = "bzip2"
)

// Stdin is the path that selects standard input
const Stdin = "-"

// DetectCompression picks the decoder from the file extension
func DetectCompression(path string) Compression {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".gz", ".gzip":
		return CompressionGzip
	case ".zst", ".zstd":
		return CompressionZstd
	case ".bz2":
		return CompressionBzip2
	default:
		return CompressionNone
	}
}

// Source is an opened N-Triple dump
type Source struct {
	io.Reader
	path        string
	size        int64
	compression Compression
	closers     []func() error
}

// Open opens path for reading, decompressing by extension.
// The caller must Close the returned Source.
func Open(path string) (*Source, error) {
	if path == Stdin {
		return &Source{Reader: os.Stdin, path: path, compression: CompressionNone}, nil
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open input: %w", err)
	}
	info, err := f.Stat()
	if err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("stat input: %w", err)
	}

	src := &Source{
		path:        path,
		size:        info.Size(),
		compression: DetectCompression(path),
		closers:     []func() error{f.Close},
	}

	switch src.compression {
	case CompressionGzip:
		zr, err := gzip.NewReader(f)
		if err != nil {
			_ = f.Close()
			return nil, fmt.Errorf("open gzip stream %s: %w", path, err)
		}
		src.Reader = zr
		src.closers = append([]func() error{zr.Close}, src.closers...)
	case CompressionZstd:
		zr, err := zstd.NewReader(f)
		if err != nil {
			_ = f.Close()
			return nil, fmt.Errorf("open zstd stream %s: %w", path, err)
		}
		src.Reader = zr
		src.closers = append([]func() error{func() error { zr.Close(); return nil }}, src.closers...)
	case CompressionBzip2:
		src.Reader = bzip2.NewReader(f)
	default:
		src.Reader = f
	}

	return src, nil
}

// Path returns the path the source was opened from
func (s *Source) Path() string { return s.path }

// Size returns the on-disk size in bytes, 0 for stdin
func (s *Source) Size() int64 { return s.size }

// Compression returns the detected encoding
func (s *Source) Compression() Compression { return s.compression }

// Close releases the decoder and the underlying file
func (s *Source) Close() error {
	var first error
	for _, c := range s.closers {
		if err := c(); err != nil && first == nil {
			first = fmt.Errorf("close input %s: %w", s.path, err)
		}
	}
	s.closers = nil
	return first
}
