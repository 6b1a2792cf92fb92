// Package split partitions date-ordered feature frames into train and test
// sets without shuffling.
package split

import (
	"fmt"
	"math"

	"github.com/sirupsen/logrus"

	"github.com/yourusername/flowcast/internal/features"
	"github.com/yourusername/flowcast/internal/models"
)

// Config holds the split thresholds. Defaults: test fraction 0.2, at least 30
// total samples, at least 10 test samples.
type Config struct {
	TestFraction    float64
	MinTotalSamples int
	MinTestSamples  int
}

// DefaultConfig returns the documented default thresholds.
func DefaultConfig() Config {
	return Config{
		TestFraction:    0.2,
		MinTotalSamples: 30,
		MinTestSamples:  10,
	}
}

// Split is a chronological train/test partition. Every train date precedes
// every test date.
type Split struct {
	Train features.Frame
	Test  features.Frame
	Index int
}

// Splitter performs leakage-free chronological splits. Shuffling is never an
// option here: it would leak future information into training.
type Splitter struct {
	cfg    Config
	logger *logrus.Logger
}

// NewSplitter creates a splitter with the given thresholds.
func NewSplitter(cfg Config, logger *logrus.Logger) (*Splitter, error) {
	if cfg.TestFraction <= 0 || cfg.TestFraction >= 1 {
		return nil, fmt.Errorf("test fraction must be in (0, 1), got %v", cfg.TestFraction)
	}
	if logger == nil {
		logger = logrus.New()
	}
	return &Splitter{cfg: cfg, logger: logger}, nil
}

// Split cuts the frame at floor(N * (1 - test_fraction)). The first part is
// train, the remainder test.
func (s *Splitter) Split(frame features.Frame) (Split, error) {
	n := frame.Len()
	index := int(math.Floor(float64(n) * (1 - s.cfg.TestFraction)))

	// A near-1 fraction can leave the train partition empty even when both
	// minimums pass; that is a data problem, not a panic.
	if n < s.cfg.MinTotalSamples || n-index < s.cfg.MinTestSamples || index == 0 {
		return Split{}, &models.InsufficientDataError{
			ObservedTotal: n,
			RequiredTotal: s.cfg.MinTotalSamples,
			ObservedTest:  n - index,
			RequiredTest:  s.cfg.MinTestSamples,
		}
	}

	result := Split{
		Train: frame.Slice(0, index),
		Test:  frame.Slice(index, n),
		Index: index,
	}

	s.logger.WithFields(logrus.Fields{
		"train_start": result.Train.Dates[0].Format("2006-01-02"),
		"train_end":   result.Train.Dates[result.Train.Len()-1].Format("2006-01-02"),
		"test_start":  result.Test.Dates[0].Format("2006-01-02"),
		"test_end":    result.Test.Dates[result.Test.Len()-1].Format("2006-01-02"),
		"train_rows":  result.Train.Len(),
		"test_rows":   result.Test.Len(),
	}).Info("Chronological split boundaries")

	return result, nil
}
