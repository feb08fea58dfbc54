package builder

import (
	"fmt"
	"strings"
)

// DataType represents the precision of numerical data
type DataType int

const (
	Float32 DataType = iota + 1
	Float64
	INT32
	INT64
)

// AlignmentType specifies memory alignment requirements
type AlignmentType int

const (
	NoAlignment    AlignmentType = 1
	CacheLineAlign AlignmentType = 64
	WarpAlign      AlignmentType = 128
	PageAlign      AlignmentType = 4096
)

// MaxKpart bounds the elements a single partition may hold. Larger values
// usually mean an unbalanced split.
const MaxKpart = 1 << 20

// ArraySpec defines user requirements for array allocation. Size is in
// bytes. PerPartition, when set, gives every partition that many values
// regardless of K.
type ArraySpec struct {
	Name         string
	Size         int64
	Alignment    AlignmentType
	DataType     DataType
	PerPartition int
}

// Builder manages code generation for partition-parallel kernels
type Builder struct {
	NumPartitions int
	K             []int
	KpartMax      int

	FloatType DataType
	IntType   DataType

	// Array tracking for macro generation
	AllocatedArrays []string

	KernelPreamble string
}

// Config holds configuration for creating a Builder
type Config struct {
	K         []int
	FloatType DataType
	IntType   DataType
}

// NewBuilder creates a new Builder instance
func NewBuilder(cfg Config) (*Builder, error) {
	if len(cfg.K) == 0 {
		return nil, fmt.Errorf("K array cannot be empty")
	}
	kpartMax := 0
	for i, k := range cfg.K {
		if k < 0 {
			return nil, fmt.Errorf("partition %d has negative K=%d", i, k)
		}
		if k > kpartMax {
			kpartMax = k
		}
	}
	if kpartMax > MaxKpart {
		return nil, fmt.Errorf("KpartMax=%d exceeds %d, balance K values or add partitions",
			kpartMax, MaxKpart)
	}
	floatType := cfg.FloatType
	if floatType == 0 {
		floatType = Float64
	}
	intType := cfg.IntType
	if intType == 0 {
		intType = INT64
	}
	kb := &Builder{
		NumPartitions:   len(cfg.K),
		K:               make([]int, len(cfg.K)),
		KpartMax:        kpartMax,
		FloatType:       floatType,
		IntType:         intType,
		AllocatedArrays: []string{},
	}
	copy(kb.K, cfg.K)
	return kb, nil
}

// GetTotalElements returns sum of all K values
func (kb *Builder) GetTotalElements() int {
	total := 0
	for _, k := range kb.K {
		total += k
	}
	return total
}

// PartitionValues is the number of values partition part holds for spec
func (kb *Builder) PartitionValues(spec ArraySpec, part int) int64 {
	if spec.PerPartition > 0 {
		return int64(spec.PerPartition)
	}
	total := kb.GetTotalElements()
	if total == 0 {
		return 0
	}
	valuesPerElement := spec.Size / SizeOfType(spec.DataType) / int64(total)
	return int64(kb.K[part]) * valuesPerElement
}

// CalculateAlignedOffsetsAndSize computes partition offsets with alignment.
// Offsets are in values, not bytes, so kernels can use ptr + offset.
func (kb *Builder) CalculateAlignedOffsetsAndSize(spec ArraySpec) ([]int64, int64) {
	offsets := make([]int64, kb.NumPartitions+1)
	valueSize := SizeOfType(spec.DataType)
	alignment := int64(spec.Alignment)
	if alignment == 0 {
		alignment = int64(NoAlignment)
	}
	align := func(b int64) int64 {
		if b%alignment != 0 {
			return ((b + alignment - 1) / alignment) * alignment
		}
		return b
	}

	current := int64(0)
	for i := 0; i < kb.NumPartitions; i++ {
		current = align(current)
		offsets[i] = current / valueSize
		current += kb.PartitionValues(spec, i) * valueSize
	}
	current = align(current)
	offsets[kb.NumPartitions] = current / valueSize
	return offsets, offsets[kb.NumPartitions] * valueSize
}

// GeneratePreamble generates the type definitions and partition macros
// prepended to every kernel
func (kb *Builder) GeneratePreamble() string {
	var sb strings.Builder
	sb.WriteString(kb.generateTypeDefinitions())
	sb.WriteString(kb.generatePartitionMacros())
	kb.KernelPreamble = sb.String()
	return kb.KernelPreamble
}

func (kb *Builder) generateTypeDefinitions() string {
	var sb strings.Builder

	floatTypeStr, floatSuffix := "double", ""
	if kb.FloatType == Float32 {
		floatTypeStr, floatSuffix = "float", "f"
	}
	intTypeStr := "long"
	if kb.IntType == INT32 {
		intTypeStr = "int"
	}

	fmt.Fprintf(&sb, "typedef %s real_t;\n", floatTypeStr)
	fmt.Fprintf(&sb, "typedef %s int_t;\n", intTypeStr)
	fmt.Fprintf(&sb, "#define REAL_ZERO 0.0%s\n", floatSuffix)
	fmt.Fprintf(&sb, "#define REAL_ONE 1.0%s\n", floatSuffix)
	sb.WriteString("\n")
	fmt.Fprintf(&sb, "#define NPART %d\n", kb.NumPartitions)
	fmt.Fprintf(&sb, "#define KpartMax %d\n", kb.KpartMax)
	sb.WriteString("\n")
	return sb.String()
}

func (kb *Builder) generatePartitionMacros() string {
	var sb strings.Builder
	sb.WriteString("// Partition access macros\n")
	for _, name := range kb.AllocatedArrays {
		fmt.Fprintf(&sb, "#define %s_PART(part) (%s_global + %s_offsets[part])\n",
			name, name, name)
	}
	if len(kb.AllocatedArrays) > 0 {
		sb.WriteString("\n")
	}
	return sb.String()
}

// GetIntSize returns the size of int type in bytes
func (kb *Builder) GetIntSize() int {
	if kb.IntType == INT32 {
		return 4
	}
	return 8
}

// SizeOfType returns the size in bytes of a data type
func SizeOfType(dt DataType) int64 {
	switch dt {
	case Float32, INT32:
		return 4
	default:
		return 8
	}
}

// TypeName returns the kernel type name for a data type
func TypeName(dt DataType) string {
	switch dt {
	case Float32, Float64:
		return "real_t"
	default:
		return "int_t"
	}
}
