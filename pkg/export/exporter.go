package export

import (
	"context"
	"fmt"
	"io"
	"path/filepath"

	"github.com/spf13/afero"
	"go.uber.org/multierr"
	"golang.org/x/sync/errgroup"

	"github.com/RyanBlaney/fft-golden/pkg/fft"
	"github.com/RyanBlaney/fft-golden/pkg/fixed"
	"github.com/RyanBlaney/fft-golden/pkg/logging"
)

// Artifact is one file to produce.
type Artifact struct {
	Name  string
	Kind  string
	Write func(w io.Writer) error
}

// TwiddleFiles names the twiddle artifacts. Empty names are skipped.
type TwiddleFiles struct {
	RealCOE        string `mapstructure:"real_coe" json:"real_coe" yaml:"real_coe"`
	ImagCOE        string `mapstructure:"imag_coe" json:"imag_coe" yaml:"imag_coe"`
	InterleavedCOE string `mapstructure:"interleaved_coe" json:"interleaved_coe" yaml:"interleaved_coe"`
	RealMem        string `mapstructure:"real_mem" json:"real_mem" yaml:"real_mem"`
	ImagMem        string `mapstructure:"imag_mem" json:"imag_mem" yaml:"imag_mem"`
}

// StimulusFiles names the stimulus artifacts. Empty names are skipped.
type StimulusFiles struct {
	RealMem string `mapstructure:"real_mem" json:"real_mem" yaml:"real_mem"`
	ImagMem string `mapstructure:"imag_mem" json:"imag_mem" yaml:"imag_mem"`
}

// Exporter writes artifacts below a root directory of an afero filesystem.
type Exporter struct {
	fs     afero.Fs
	dir    string
	logger logging.Logger
}

// NewExporter creates an exporter rooted at dir.
func NewExporter(fs afero.Fs, dir string, logger logging.Logger) *Exporter {
	if fs == nil {
		fs = afero.NewOsFs()
	}
	if logger == nil {
		logger = logging.NewDefaultLogger()
	}
	return &Exporter{fs: fs, dir: dir, logger: logger}
}

// Path returns the full path for an artifact name.
func (e *Exporter) Path(name string) string {
	return filepath.Join(e.dir, name)
}

// WriteFile creates name under the root and fills it with write.
func (e *Exporter) WriteFile(name string, write func(w io.Writer) error) (err error) {
	path := e.Path(name)

	if err := e.fs.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return NewExportError(name, path, "failed to create output directory", err)
	}

	f, err := e.fs.Create(path)
	if err != nil {
		return NewExportError(name, path, "failed to create file", err)
	}
	defer multierr.AppendInvoke(&err, multierr.Close(f))

	if err := write(f); err != nil {
		return NewExportError(name, path, "failed to write file", err)
	}

	e.logger.Debug("Artifact written", logging.Fields{"path": path})
	return nil
}

// ExportBundle writes all artifacts concurrently and returns the first
// failure. Artifacts must have distinct names.
func (e *Exporter) ExportBundle(ctx context.Context, artifacts []Artifact) error {
	g, ctx := errgroup.WithContext(ctx)

	for _, a := range artifacts {
		a := a
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			return e.WriteFile(a.Name, a.Write)
		})
	}

	if err := g.Wait(); err != nil {
		return err
	}

	e.logger.Info("Export complete", logging.Fields{
		"dir":       e.dir,
		"artifacts": len(artifacts),
	})
	return nil
}

// ExportTwiddles writes the twiddle table for length n.
func (e *Exporter) ExportTwiddles(ctx context.Context, n int, files TwiddleFiles) error {
	artifacts, err := TwiddleArtifacts(n, files)
	if err != nil {
		return err
	}
	return e.ExportBundle(ctx, artifacts)
}

// ExportStimulus writes the real and imaginary parts of a stimulus.
func (e *Exporter) ExportStimulus(ctx context.Context, x []fixed.Complex, files StimulusFiles) error {
	return e.ExportBundle(ctx, StimulusArtifacts(x, files))
}

// ExportSpectrum writes UART style "bin,magnitude" lines.
func (e *Exporter) ExportSpectrum(name string, y []fixed.Complex) error {
	a := SpectrumArtifact(name, y)
	return e.WriteFile(a.Name, a.Write)
}

// TwiddleArtifacts builds the twiddle artifacts for length n.
func TwiddleArtifacts(n int, files TwiddleFiles) ([]Artifact, error) {
	tw, err := fft.Twiddles(n)
	if err != nil {
		return nil, fmt.Errorf("failed to generate twiddles: %w", err)
	}
	re, im := Real(tw), Imag(tw)

	var artifacts []Artifact
	add := func(name, kind string, write func(io.Writer) error) {
		if name != "" {
			artifacts = append(artifacts, Artifact{Name: name, Kind: kind, Write: write})
		}
	}

	add(files.RealCOE, "twiddle_real_coe", func(w io.Writer) error { return WriteCOE(w, re) })
	add(files.ImagCOE, "twiddle_imag_coe", func(w io.Writer) error { return WriteCOE(w, im) })
	add(files.InterleavedCOE, "twiddle_interleaved_coe", func(w io.Writer) error { return WriteInterleavedCOE(w, tw) })
	add(files.RealMem, "twiddle_real_mem", func(w io.Writer) error { return WriteHexMem(w, re) })
	add(files.ImagMem, "twiddle_imag_mem", func(w io.Writer) error { return WriteHexMem(w, im) })

	return artifacts, nil
}

// StimulusArtifacts builds hex .mem artifacts for a stimulus.
func StimulusArtifacts(x []fixed.Complex, files StimulusFiles) []Artifact {
	re, im := Real(x), Imag(x)

	var artifacts []Artifact
	if files.RealMem != "" {
		artifacts = append(artifacts, Artifact{
			Name: files.RealMem, Kind: "stimulus_real_mem",
			Write: func(w io.Writer) error { return WriteHexMem(w, re) },
		})
	}
	if files.ImagMem != "" {
		artifacts = append(artifacts, Artifact{
			Name: files.ImagMem, Kind: "stimulus_imag_mem",
			Write: func(w io.Writer) error { return WriteHexMem(w, im) },
		})
	}
	return artifacts
}

// SpectrumArtifact builds the UART line artifact for a spectrum.
func SpectrumArtifact(name string, y []fixed.Complex) Artifact {
	return Artifact{
		Name:  name,
		Kind:  "spectrum_uart_lines",
		Write: func(w io.Writer) error { return WriteUARTLines(w, y) },
	}
}
