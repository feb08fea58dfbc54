package runner

import (
	"fmt"
	"unsafe"

	"github.com/notargets/emadjoint/runner/builder"
	"github.com/notargets/gocca"
)

// Host bindings are flat slices holding the partitions back to back. Each
// partition is moved separately so device-side alignment padding is skipped.

func (kr *Runner) copyToDevice(spec builder.ParamSpec) error {
	return kr.copyPartitions(spec, func(mem *gocca.OCCAMemory, ptr unsafe.Pointer, bytes, offset int64) {
		mem.CopyFromWithOffset(ptr, bytes, offset)
	})
}

func (kr *Runner) copyFromDevice(spec builder.ParamSpec) error {
	return kr.copyPartitions(spec, func(mem *gocca.OCCAMemory, ptr unsafe.Pointer, bytes, offset int64) {
		mem.CopyToWithOffset(ptr, bytes, offset)
	})
}

func (kr *Runner) copyPartitions(spec builder.ParamSpec,
	move func(mem *gocca.OCCAMemory, ptr unsafe.Pointer, bytes, offset int64)) error {
	mem := kr.GetMemory(spec.Name)
	if mem == nil {
		return fmt.Errorf("memory for %s not found", spec.Name)
	}
	arr, offsets := kr.arrays[spec.Name], kr.hostOffsets[spec.Name]

	var (
		base     unsafe.Pointer
		length   int
		elemSize = builder.SizeOfType(arr.DataType)
	)
	switch data := spec.HostBinding.(type) {
	case []float64:
		if arr.DataType != builder.Float64 {
			return fmt.Errorf("%s: host []float64 does not match device type %d", spec.Name, arr.DataType)
		}
		if len(data) > 0 {
			base = unsafe.Pointer(&data[0])
		}
		length = len(data)
	case []int64:
		if arr.DataType != builder.INT64 {
			return fmt.Errorf("%s: host []int64 does not match device type %d", spec.Name, arr.DataType)
		}
		if len(data) > 0 {
			base = unsafe.Pointer(&data[0])
		}
		length = len(data)
	default:
		return fmt.Errorf("unsupported type for copy: %T", data)
	}

	var want int64
	for part := 0; part < kr.NumPartitions; part++ {
		want += kr.PartitionValues(arr, part)
	}
	if int64(length) != want {
		return fmt.Errorf("%s: host binding has %d values, partitions hold %d", spec.Name, length, want)
	}

	var hostIndex int64
	for part := 0; part < kr.NumPartitions; part++ {
		n := kr.PartitionValues(arr, part)
		if n == 0 {
			continue
		}
		ptr := unsafe.Add(base, hostIndex*elemSize)
		move(mem, ptr, n*elemSize, offsets[part]*elemSize)
		hostIndex += n
	}
	return nil
}
