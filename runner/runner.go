// Package runner compiles and executes partition-parallel OCCA kernels. Data
// is split into NPART partitions of K[part] elements; every array lives in a
// single device allocation addressed through per-partition offsets.
package runner

import (
	"fmt"
	"sort"
	"strings"
	"unsafe"

	"github.com/notargets/emadjoint/runner/builder"
	"github.com/notargets/gocca"
)

// KernelDefinition holds all information about a defined kernel
type KernelDefinition struct {
	Name       string
	Parameters []builder.ParamSpec
	Signature  string
}

// Runner orchestrates kernel compilation and execution
type Runner struct {
	*builder.Builder
	IsPartitioned     bool
	Device            *gocca.OCCADevice
	Kernels           map[string]*gocca.OCCAKernel
	PooledMemory      map[string]*gocca.OCCAMemory
	arrays            map[string]builder.ArraySpec
	hostOffsets       map[string][]int64
	kernelDefinitions map[string]*KernelDefinition
}

// NewRunner creates a new Runner instance and copies K to the device
func NewRunner(device *gocca.OCCADevice, cfg builder.Config) (*Runner, error) {
	if device == nil {
		return nil, fmt.Errorf("nil device")
	}
	bld, err := builder.NewBuilder(cfg)
	if err != nil {
		return nil, err
	}
	kr := &Runner{
		Builder:           bld,
		IsPartitioned:     len(cfg.K) > 1,
		Device:            device,
		Kernels:           make(map[string]*gocca.OCCAKernel),
		PooledMemory:      make(map[string]*gocca.OCCAMemory),
		arrays:            make(map[string]builder.ArraySpec),
		hostOffsets:       make(map[string][]int64),
		kernelDefinitions: make(map[string]*KernelDefinition),
	}
	kr.PooledMemory["K"] = kr.mallocInts(toInt64(bld.K))
	return kr, nil
}

// DefineKernel validates params, allocates any arrays not yet on the device
// and records the kernel signature
func (kr *Runner) DefineKernel(kernelName string, params ...*builder.ParamBuilder) error {
	specs := make([]builder.ParamSpec, len(params))
	for i, p := range params {
		specs[i] = p.Spec
		if err := specs[i].Validate(); err != nil {
			return fmt.Errorf("parameter %d: %w", i, err)
		}
	}
	for _, spec := range specs {
		if spec.Direction == builder.DirectionScalar {
			continue
		}
		if err := kr.allocateArray(spec); err != nil {
			return fmt.Errorf("failed to process parameter %s: %w", spec.Name, err)
		}
	}
	kr.kernelDefinitions[kernelName] = &KernelDefinition{
		Name:       kernelName,
		Parameters: specs,
		Signature:  kr.generateSignature(specs),
	}
	return nil
}

// GetKernelSignature returns the parameter list a kernel source must declare
func (kr *Runner) GetKernelSignature(kernelName string) (string, error) {
	def, exists := kr.kernelDefinitions[kernelName]
	if !exists {
		return "", fmt.Errorf("kernel %s not defined", kernelName)
	}
	return def.Signature, nil
}

// BuildKernel compiles and registers a kernel with the preamble prepended
func (kr *Runner) BuildKernel(kernelSource, kernelName string) (*gocca.OCCAKernel, error) {
	kr.GeneratePreamble()
	fullSource := kr.KernelPreamble + "\n" + kernelSource

	var (
		kernel *gocca.OCCAKernel
		err    error
	)
	if kr.Device.Mode() == "OpenMP" {
		// OpenMP builds do not get -O3 by default
		props := gocca.JsonParse(`{"compiler_flags": "-O3"}`)
		defer props.Free()
		kernel, err = kr.Device.BuildKernelFromString(fullSource, kernelName, props)
	} else {
		kernel, err = kr.Device.BuildKernelFromString(fullSource, kernelName, nil)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to build kernel %s: %w", kernelName, err)
	}
	if kernel == nil {
		return nil, fmt.Errorf("kernel build returned nil for %s", kernelName)
	}
	kr.Kernels[kernelName] = kernel
	return kernel, nil
}

// RunKernel copies bound inputs to the device, runs the kernel and copies
// bound outputs back. Scalars are passed in definition order.
func (kr *Runner) RunKernel(kernelName string, scalarValues ...interface{}) error {
	def, exists := kr.kernelDefinitions[kernelName]
	if !exists {
		return fmt.Errorf("kernel %s not defined - use DefineKernel first", kernelName)
	}
	kernel, exists := kr.Kernels[kernelName]
	if !exists {
		return fmt.Errorf("kernel %s not compiled", kernelName)
	}

	for _, p := range def.Parameters {
		if p.Direction != builder.DirectionScalar && p.NeedsCopyTo() {
			if err := kr.copyToDevice(p); err != nil {
				return fmt.Errorf("pre-kernel copy failed: %w", err)
			}
		}
	}

	args, err := kr.buildKernelArguments(def, scalarValues)
	if err != nil {
		return fmt.Errorf("failed to build arguments: %w", err)
	}
	if err := kernel.RunWithArgs(args...); err != nil {
		return fmt.Errorf("kernel execution failed: %w", err)
	}
	kr.Device.Finish()

	for _, p := range def.Parameters {
		if p.Direction != builder.DirectionScalar && p.NeedsCopyBack() {
			if err := kr.copyFromDevice(p); err != nil {
				return fmt.Errorf("post-kernel copy failed: %w", err)
			}
		}
	}
	return nil
}

// GetMemory returns the device memory for a named array
func (kr *Runner) GetMemory(arrayName string) *gocca.OCCAMemory {
	return kr.PooledMemory[arrayName+"_global"]
}

// GetAllocatedArrays returns a sorted list of allocated array names
func (kr *Runner) GetAllocatedArrays() []string {
	names := make([]string, 0, len(kr.arrays))
	for name := range kr.arrays {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Free releases all kernels and device memory
func (kr *Runner) Free() {
	for name, kernel := range kr.Kernels {
		kernel.Free()
		delete(kr.Kernels, name)
	}
	for name, mem := range kr.PooledMemory {
		mem.Free()
		delete(kr.PooledMemory, name)
	}
}

func (kr *Runner) allocateArray(spec builder.ParamSpec) error {
	arr := spec.ArraySpec()
	if existing, ok := kr.arrays[spec.Name]; ok {
		if existing.Size != arr.Size || existing.DataType != arr.DataType ||
			existing.PerPartition != arr.PerPartition {
			return fmt.Errorf("array %s already allocated with a different layout", spec.Name)
		}
		return nil
	}
	offsets, totalSize := kr.CalculateAlignedOffsetsAndSize(arr)
	if totalSize == 0 {
		return fmt.Errorf("array %s has no storage", spec.Name)
	}
	kr.PooledMemory[spec.Name+"_global"] = kr.Device.Malloc(totalSize, nil, nil)
	kr.PooledMemory[spec.Name+"_offsets"] = kr.mallocInts(offsets)
	kr.hostOffsets[spec.Name] = offsets
	kr.arrays[spec.Name] = arr
	kr.AllocatedArrays = append(kr.AllocatedArrays, spec.Name)
	return nil
}

func (kr *Runner) generateSignature(specs []builder.ParamSpec) string {
	parts := []string{"const int_t* K"}
	for _, p := range specs {
		if p.Direction == builder.DirectionScalar {
			continue
		}
		constStr := ""
		if p.IsConst() {
			constStr = "const "
		}
		typeStr := builder.TypeName(p.DataType)
		parts = append(parts,
			fmt.Sprintf("%s%s* %s_global", constStr, typeStr, p.Name),
			fmt.Sprintf("const int_t* %s_offsets", p.Name))
	}
	for _, p := range specs {
		if p.Direction == builder.DirectionScalar {
			parts = append(parts, fmt.Sprintf("const %s %s", builder.TypeName(p.DataType), p.Name))
		}
	}
	return strings.Join(parts, ",\n\t")
}

func (kr *Runner) buildKernelArguments(def *KernelDefinition,
	scalarValues []interface{}) ([]interface{}, error) {
	args := []interface{}{kr.PooledMemory["K"]}
	for _, p := range def.Parameters {
		if p.Direction == builder.DirectionScalar {
			continue
		}
		globalMem, exists := kr.PooledMemory[p.Name+"_global"]
		if !exists {
			return nil, fmt.Errorf("memory for %s not found", p.Name)
		}
		offsetMem, exists := kr.PooledMemory[p.Name+"_offsets"]
		if !exists {
			return nil, fmt.Errorf("offsets for %s not found", p.Name)
		}
		args = append(args, globalMem, offsetMem)
	}

	scalarIdx := 0
	for _, p := range def.Parameters {
		if p.Direction != builder.DirectionScalar {
			continue
		}
		switch {
		case scalarIdx < len(scalarValues):
			args = append(args, scalarValues[scalarIdx])
			scalarIdx++
		case p.HostBinding != nil:
			args = append(args, p.HostBinding)
		default:
			return nil, fmt.Errorf("no value provided for scalar %s", p.Name)
		}
	}
	return args, nil
}

func (kr *Runner) mallocInts(values []int64) *gocca.OCCAMemory {
	if kr.GetIntSize() == 4 {
		v32 := make([]int32, len(values))
		for i, v := range values {
			v32[i] = int32(v)
		}
		return kr.Device.Malloc(int64(len(v32)*4), unsafe.Pointer(&v32[0]), nil)
	}
	return kr.Device.Malloc(int64(len(values)*8), unsafe.Pointer(&values[0]), nil)
}

func toInt64(k []int) []int64 {
	out := make([]int64, len(k))
	for i, v := range k {
		out[i] = int64(v)
	}
	return out
}
