package fft

import (
	"fmt"

	"github.com/RyanBlaney/fft-golden/pkg/fixed"
)

// StageObserver is called after each butterfly stage with the 1-based stage
// number, the stage size m and the working buffer. The buffer is reused by
// the next stage and must not be retained.
type StageObserver func(stage, m int, buf []fixed.Complex)

// Plan holds the tables for one transform length: the twiddle table and the
// bit-reversal indices. A Plan is read-only after construction and may be
// shared by concurrent transforms unless a StageObserver is set.
type Plan struct {
	n        int
	stages   int
	twiddles []fixed.Complex
	bitrev   []int
	observer StageObserver
}

// NewPlan prepares a radix-2 DIT plan for length n (a power of two, n >= 2).
func NewPlan(n int) (*Plan, error) {
	twiddles, err := Twiddles(n)
	if err != nil {
		return nil, err
	}

	return &Plan{
		n:        n,
		stages:   Log2(n),
		twiddles: twiddles,
		bitrev:   BitReversalIndices(n),
	}, nil
}

// Len returns the transform length.
func (p *Plan) Len() int { return p.n }

// Stages returns log2 of the transform length.
func (p *Plan) Stages() int { return p.stages }

// Twiddles returns a copy of the plan's twiddle table.
func (p *Plan) Twiddles() []fixed.Complex {
	out := make([]fixed.Complex, len(p.twiddles))
	copy(out, p.twiddles)
	return out
}

// SetStageObserver installs fn to receive the buffer after every stage.
// Pass nil to disable tracing.
func (p *Plan) SetStageObserver(fn StageObserver) {
	p.observer = fn
}

// Transform computes the forward transform of src into dst. dst and src may
// be the same slice. When scalePerStage is set, both butterfly outputs are
// shifted right by one bit at every stage regardless of signal level.
func (p *Plan) Transform(dst, src []fixed.Complex, scalePerStage bool) error {
	if len(dst) != p.n || len(src) != p.n {
		return fmt.Errorf("%w: plan size %d, dst %d, src %d", ErrLengthMismatch, p.n, len(dst), len(src))
	}

	if &dst[0] != &src[0] {
		copy(dst, src)
	}

	// In-place swap pass over the cached indices; same order as
	// BitReversePermute.
	for i, j := range p.bitrev {
		if j > i {
			dst[i], dst[j] = dst[j], dst[i]
		}
	}

	stage := 0
	for m := 2; m <= p.n; m <<= 1 {
		half := m / 2
		step := p.n / m

		for k := 0; k < p.n; k += m {
			for j := 0; j < half; j++ {
				top := k + j
				bottom := top + half

				t := fixed.CMul(dst[bottom], p.twiddles[j*step])
				u := fixed.CAdd(dst[top], t)
				v := fixed.CSub(dst[top], t)

				if scalePerStage {
					u = fixed.CRShift1(u)
					v = fixed.CRShift1(v)
				}

				dst[top] = u
				dst[bottom] = v
			}
		}

		stage++
		if p.observer != nil {
			p.observer(stage, m, dst)
		}
	}

	return nil
}

// Transform returns the radix-2 DIT transform of x in natural frequency
// order. x is not modified. The twiddle table is generated once for the
// call and shared by all stages.
func Transform(x []fixed.Complex, scalePerStage bool) ([]fixed.Complex, error) {
	plan, err := NewPlan(len(x))
	if err != nil {
		return nil, err
	}

	out := make([]fixed.Complex, len(x))
	if err := plan.Transform(out, x, scalePerStage); err != nil {
		return nil, err
	}
	return out, nil
}
