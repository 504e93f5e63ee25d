package model

import "time"

// Disposition is the terminal outcome of a single statement
type Disposition int

const (
	Dropped Disposition = 0 // Written nowhere
	Fact    Disposition = 1 // Written to <name>_triple.nt
	Label   Disposition = 2 // Written to <name>_label.nt
)

func (d Disposition) String() string {
	switch d {
	case Fact:
		return "fact"
	case Label:
		return "label"
	default:
		return "dropped"
	}
}

// Stats summarizes one conversion run
type Stats struct {
	Lines         int64         `yaml:"lines"`          // Lines read from the input
	Blank         int64         `yaml:"blank"`          // Empty and comment-only lines
	ParseFailures int64         `yaml:"parse_failures"` // Lines skipped as malformed
	Facts         int64         `yaml:"facts"`          // Statements written to the fact stream
	Labels        int64         `yaml:"labels"`         // Statements written to the label stream
	Dropped       int64         `yaml:"dropped"`        // Rejected statements
	FactBytes     int64         `yaml:"fact_bytes"`     // Bytes written to the fact stream
	LabelBytes    int64         `yaml:"label_bytes"`    // Bytes written to the label stream
	Elapsed       time.Duration `yaml:"elapsed"`
}

// Count records one disposition
func (s *Stats) Count(d Disposition) {
	switch d {
	case Fact:
		s.Facts++
	case Label:
		s.Labels++
	default:
		s.Dropped++
	}
}

// Add merges another set of counters into s (elapsed time is not summed)
func (s *Stats) Add(o Stats) {
	s.Lines += o.Lines
	s.Blank += o.Blank
	s.ParseFailures += o.ParseFailures
	s.Facts += o.Facts
	s.Labels += o.Labels
	s.Dropped += o.Dropped
	s.FactBytes += o.FactBytes
	s.LabelBytes += o.LabelBytes
}

// Statements returns the number of lines that parsed into a statement
func (s *Stats) Statements() int64 {
	return s.Facts + s.Labels + s.Dropped
}
