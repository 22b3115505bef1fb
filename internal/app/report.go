package app

import (
	"fmt"
	"math"
	"reflect"
	"strings"
	"time"

	"github.com/RyanBlaney/fft-golden/configs"
	"github.com/RyanBlaney/fft-golden/internal/analysis"
	"github.com/RyanBlaney/fft-golden/internal/golden"
	"github.com/RyanBlaney/fft-golden/internal/sweep"
	"github.com/RyanBlaney/fft-golden/pkg/export"
	"github.com/RyanBlaney/fft-golden/pkg/logging"
)

// buildRunReport turns a golden result into the nested map the formatters
// render. Raw arrays are only included when verbose.
func buildRunReport(result *golden.Result, stats *analysis.ErrorStats, exported []string, cfg *configs.Config, ideal bool) map[string]any {
	run := map[string]any{
		"size":            result.Config.Transform.Size,
		"scale_per_stage": result.Config.Transform.ScalePerStage,
		"window":          result.Config.Transform.Window,
		"stimulus": map[string]any{
			"kind":      result.Config.Stimulus.Kind,
			"bin":       result.Config.Stimulus.Bin,
			"amplitude": result.Config.Stimulus.Amplitude,
		},
		"peak_bin":       result.PeakBin,
		"peak_magnitude": result.PeakMagnitude,
		"mirror_bin":     result.MirrorBin(),
		"duration_us":    result.Duration.Microseconds(),
	}

	if len(result.Stages) > 0 {
		run["stages_traced"] = len(result.Stages)
	}

	if cfg.Verbose {
		lines := export.FormatUARTLines(result.Spectrum)
		spectrum := make([]any, len(lines))
		for i, l := range lines {
			spectrum[i] = l
		}
		run["spectrum"] = spectrum
	}

	report := map[string]any{
		"golden_run": run,
		"timestamp":  result.Timestamp.Format(time.RFC3339),
	}

	if stats != nil {
		reference := "quantized_input"
		if ideal {
			reference = "ideal"
		}
		report["analysis"] = map[string]any{
			"reference":        reference,
			"mean_lsb":         stats.Mean,
			"median_lsb":       stats.Median,
			"p95_lsb":          stats.P95,
			"max_lsb":          stats.Max,
			"max_bin":          stats.MaxBin,
			"std_dev_lsb":      stats.StdDev,
			"sqnr_db":          stats.SQNRdB,
			"exact":            stats.Exact,
			"tolerance_lsb":    cfg.Analysis.MaxErrorLSB,
			"within_tolerance": stats.Within(cfg.Analysis.MaxErrorLSB),
		}
	}

	if len(exported) > 0 {
		files := make([]any, len(exported))
		for i, p := range exported {
			files[i] = p
		}
		report["exported"] = files
	}

	return report
}

// cleanSweepSummary drops the per-bin rows from a sweep summary
func cleanSweepSummary(summary *sweep.Summary) map[string]any {
	missed := make([]any, len(summary.Missed))
	for i, b := range summary.Missed {
		missed[i] = b
	}

	return map[string]any{
		"sweep": map[string]any{
			"size":             summary.Size,
			"from":             summary.From,
			"to":               summary.To,
			"bins":             len(summary.Results),
			"detected":         summary.Detected,
			"missed":           missed,
			"detection_rate":   summary.DetectionRate,
			"total_duration_s": summary.TotalDuration.Seconds(),
		},
	}
}

// collectRunMetrics sends the run's results to DogStatsD
func (app *GoldenApp) collectRunMetrics(result *golden.Result, stats *analysis.ErrorStats) {
	tags := []string{"stimulus:" + result.Config.Stimulus.Kind}

	app.gauge("run.peak_bin", float64(result.PeakBin), tags)
	app.gauge("run.peak_magnitude", float64(result.PeakMagnitude), tags)
	app.timing("run.duration", result.Duration, tags)

	if stats != nil {
		app.gauge("analysis.max_error_lsb", stats.Max, tags)
		app.gauge("analysis.mean_error_lsb", stats.Mean, tags)
		app.gauge("analysis.sqnr_db", stats.SQNRdB, tags)
	}
}

func (app *GoldenApp) gauge(name string, value float64, tags []string) {
	if err := app.metrics.Gauge(name, value, app.withTags(tags), 1); err != nil {
		app.logger.Warn("Failed to send metric", logging.Fields{"metric": name, "error": err.Error()})
	}
}

func (app *GoldenApp) count(name string, value int64, tags []string) {
	if err := app.metrics.Count(name, value, app.withTags(tags), 1); err != nil {
		app.logger.Warn("Failed to send metric", logging.Fields{"metric": name, "error": err.Error()})
	}
}

func (app *GoldenApp) timing(name string, value time.Duration, tags []string) {
	if err := app.metrics.Timing(name, value, app.withTags(tags), 1); err != nil {
		app.logger.Warn("Failed to send metric", logging.Fields{"metric": name, "error": err.Error()})
	}
}

func (app *GoldenApp) withTags(tags []string) []string {
	out := make([]string, 0, len(app.tags)+len(tags))
	out = append(out, app.tags...)
	return append(out, tags...)
}

// sanitizeForJSON recursively cleans infinite and NaN values from any data structure
func sanitizeForJSON(data any) any {
	switch v := data.(type) {
	case float64:
		if math.IsInf(v, 0) || math.IsNaN(v) {
			return 0.0
		}
		return v
	case map[string]any:
		result := make(map[string]any, len(v))
		for k, val := range v {
			result[k] = sanitizeForJSON(val)
		}
		return result
	case []any:
		result := make([]any, len(v))
		for i, val := range v {
			result[i] = sanitizeForJSON(val)
		}
		return result
	case []float64:
		result := make([]float64, len(v))
		for i, val := range v {
			if !math.IsInf(val, 0) && !math.IsNaN(val) {
				result[i] = val
			}
		}
		return result
	default:
		return sanitizeWithReflection(data)
	}
}

// sanitizeWithReflection uses reflection to sanitize struct fields
func sanitizeWithReflection(data any) any {
	if data == nil {
		return nil
	}

	val := reflect.ValueOf(data)
	if val.Kind() == reflect.Ptr {
		if val.IsNil() {
			return nil
		}
		val = val.Elem()
	}

	switch val.Kind() {
	case reflect.Struct:
		if _, ok := val.Interface().(time.Time); ok {
			return val.Interface()
		}
		result := make(map[string]any)
		typ := val.Type()
		for i := 0; i < val.NumField(); i++ {
			field := val.Field(i)
			if !field.CanInterface() {
				continue
			}

			// Get JSON tag name or use field name
			fieldName := typ.Field(i).Name
			if tag := typ.Field(i).Tag.Get("json"); tag != "" {
				name := strings.Split(tag, ",")[0]
				if name == "-" {
					continue
				}
				if name != "" {
					fieldName = name
				}
			}

			result[fieldName] = sanitizeForJSON(field.Interface())
		}
		return result
	case reflect.Slice:
		result := make([]any, val.Len())
		for i := 0; i < val.Len(); i++ {
			result[i] = sanitizeForJSON(val.Index(i).Interface())
		}
		return result
	case reflect.Map:
		result := make(map[string]any)
		for _, key := range val.MapKeys() {
			result[fmt.Sprintf("%v", key.Interface())] = sanitizeForJSON(val.MapIndex(key).Interface())
		}
		return result
	case reflect.Float64, reflect.Float32:
		f := val.Float()
		if math.IsInf(f, 0) || math.IsNaN(f) {
			return 0.0
		}
		return f
	default:
		return val.Interface()
	}
}
