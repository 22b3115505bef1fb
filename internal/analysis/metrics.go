package analysis

import (
	"fmt"
	"math"
	"math/cmplx"
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/RyanBlaney/fft-golden/pkg/fixed"
	"github.com/RyanBlaney/fft-golden/pkg/logging"
)

// MetricsCalculator summarizes per-bin error against a reference
type MetricsCalculator struct {
	logger logging.Logger
}

// NewMetricsCalculator creates a new metrics calculator
func NewMetricsCalculator(logger logging.Logger) *MetricsCalculator {
	if logger == nil {
		logger = logging.NewDefaultLogger()
	}

	return &MetricsCalculator{
		logger: logger,
	}
}

// ErrorStats represents statistical measures of the per-bin error, in LSB
type ErrorStats struct {
	Mean   float64   `json:"mean" yaml:"mean"`
	Median float64   `json:"median" yaml:"median"`
	P95    float64   `json:"p95" yaml:"p95"`
	Max    float64   `json:"max" yaml:"max"`
	MaxBin int       `json:"max_bin" yaml:"max_bin"`
	StdDev float64   `json:"std_dev" yaml:"std_dev"`
	SQNRdB float64   `json:"sqnr_db" yaml:"sqnr_db"`
	Exact  bool      `json:"exact" yaml:"exact"`
	Count  int       `json:"count" yaml:"count"`
	PerBin []float64 `json:"per_bin,omitempty" yaml:"per_bin,omitempty"`
}

// Within reports whether the worst bin error is at most tolerance LSB.
func (s *ErrorStats) Within(tolerance float64) bool {
	return s.Max <= tolerance
}

// Compare measures spectrum against ref bin by bin.
func (mc *MetricsCalculator) Compare(spectrum []fixed.Complex, ref []complex128) (*ErrorStats, error) {
	if len(spectrum) != len(ref) {
		return nil, fmt.Errorf("length mismatch: spectrum %d, reference %d", len(spectrum), len(ref))
	}
	if len(spectrum) == 0 {
		return &ErrorStats{Count: 0}, nil
	}

	errs := make([]float64, len(spectrum))
	var signal, noise float64
	for k, c := range spectrum {
		errs[k] = errorLSB(c, ref[k])

		a := cmplx.Abs(ref[k]) * fixed.Scale
		signal += a * a
		noise += errs[k] * errs[k]
	}

	stats := mc.calculateStats(errs)
	stats.PerBin = errs

	switch {
	case noise == 0:
		stats.Exact = true
	case signal > 0:
		stats.SQNRdB = 10 * math.Log10(signal/noise)
	}

	mc.logger.Debug("Reference comparison completed", logging.Fields{
		"bins":     stats.Count,
		"mean_lsb": stats.Mean,
		"max_lsb":  stats.Max,
		"max_bin":  stats.MaxBin,
		"sqnr_db":  stats.SQNRdB,
	})

	return mc.sanitizeStats(stats), nil
}

// calculateStats calculates statistical measures for a dataset
func (mc *MetricsCalculator) calculateStats(data []float64) *ErrorStats {
	sorted := make([]float64, len(data))
	copy(sorted, data)
	sort.Float64s(sorted)

	stats := &ErrorStats{
		Count:  len(data),
		Max:    floats.Max(data),
		MaxBin: floats.MaxIdx(data),
		Mean:   stat.Mean(data, nil),
		Median: stat.Quantile(0.5, stat.Empirical, sorted, nil),
		P95:    stat.Quantile(0.95, stat.Empirical, sorted, nil),
	}

	if len(data) > 1 {
		stats.StdDev = stat.PopStdDev(data, nil)
	}

	return stats
}

// sanitizeStats removes infinite and NaN values to prevent JSON serialization errors
func (mc *MetricsCalculator) sanitizeStats(stats *ErrorStats) *ErrorStats {
	for _, v := range []*float64{&stats.Mean, &stats.Median, &stats.P95, &stats.Max, &stats.StdDev, &stats.SQNRdB} {
		if math.IsNaN(*v) || math.IsInf(*v, 0) {
			*v = 0
		}
	}
	return stats
}
