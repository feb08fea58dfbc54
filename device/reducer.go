package device

import (
	"fmt"
	"sync"

	"github.com/notargets/emadjoint/runner"
	"github.com/notargets/emadjoint/runner/builder"
	"github.com/notargets/gocca"
	"gonum.org/v1/gonum/floats"
)

const numChunks = 64

const partialSumSource = `
@kernel void partialSum(
	%s
) {
	for (int part = 0; part < NPART; ++part; @outer) {
		for (int i = 0; i < 1; ++i; @inner) {
			const real_t* v = vals_PART(part);
			real_t s = REAL_ZERO;
			for (int_t k = 0; k < K[part]; ++k) {
				s += v[k];
			}
			partial_PART(part)[0] = s;
		}
	}
}`

// Reducer sums integrand samples on an OCCA device. Samples are split into
// 64 equal partitions, each partition is summed on the device and the
// partial sums are combined on the host. The partition size grows in powers
// of two and the tail is zero padded, so the kernel is rebuilt only when a
// larger input arrives. It is safe for concurrent use; calls are serialized
// on the device.
type Reducer struct {
	mu      sync.Mutex
	dev     *gocca.OCCADevice
	kr      *runner.Runner
	chunk   int
	vals    []float64
	partial []float64
	closed  bool
}

// NewReducer builds the partial sum kernel on dev. The device stays owned by
// the caller.
func NewReducer(dev *gocca.OCCADevice) (*Reducer, error) {
	if dev == nil {
		return nil, fmt.Errorf("nil device")
	}
	r := &Reducer{dev: dev}
	if err := r.resize(1); err != nil {
		return nil, err
	}
	return r, nil
}

// Mode is the backend the reducer runs on
func (r *Reducer) Mode() string { return r.dev.Mode() }

// Chunk is the current per-partition capacity
func (r *Reducer) Chunk() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.chunk
}

func (r *Reducer) Sum(values []float64) (float64, error) {
	n := len(values)
	if n == 0 {
		return 0, nil
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return 0, fmt.Errorf("reducer is closed")
	}

	if need := (n + numChunks - 1) / numChunks; need > r.chunk {
		if err := r.resize(need); err != nil {
			return 0, err
		}
	}
	copy(r.vals, values)
	clear(r.vals[n:])

	if err := r.kr.RunKernel("partialSum"); err != nil {
		return 0, fmt.Errorf("partialSum over %d values: %w", n, err)
	}
	return floats.Sum(r.partial), nil
}

// resize rebuilds the runner with partitions of at least need elements
func (r *Reducer) resize(need int) error {
	chunk := 1
	for chunk < need {
		chunk <<= 1
	}
	k := make([]int, numChunks)
	for i := range k {
		k[i] = chunk
	}
	kr, err := runner.NewRunner(r.dev, builder.Config{K: k})
	if err != nil {
		return fmt.Errorf("reducer for %d partitions of %d: %w", numChunks, chunk, err)
	}
	vals := make([]float64, numChunks*chunk)
	partial := make([]float64, numChunks)
	err = kr.DefineKernel("partialSum",
		builder.Input("vals").Bind(vals).CopyTo(),
		builder.Output("partial").Bind(partial).PerPartition(1).CopyBack(),
	)
	if err == nil {
		var sig string
		if sig, err = kr.GetKernelSignature("partialSum"); err == nil {
			_, err = kr.BuildKernel(fmt.Sprintf(partialSumSource, sig), "partialSum")
		}
	}
	if err != nil {
		kr.Free()
		return err
	}

	if r.kr != nil {
		r.kr.Free()
	}
	r.kr, r.chunk, r.vals, r.partial = kr, chunk, vals, partial
	return nil
}

// Close releases the kernel and device buffers
func (r *Reducer) Close() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return
	}
	r.kr.Free()
	r.closed = true
}
