package serialization

import "time"

// Format constants.
const (
	MagicBytes      = "BORN"
	FormatVersion   = 2
	FixedHeaderSize = 52 // magic + version + flags + header size + checksum
	ChecksumSize    = 32
)

// DTypeFloat64 is the only element type written.
const DTypeFloat64 = "float64"

// Flags for the .born format.
const (
	FlagHasCheckpoint uint32 = 1 << 1 // bit 1: training state included
	FlagHasMetadata   uint32 = 1 << 2 // bit 2: custom metadata included
)

// Header represents the JSON header in a .born file.
type Header struct {
	FormatVersion  int               `json:"format_version"`
	ModelType      string            `json:"model_type"`
	CreatedAt      time.Time         `json:"created_at"`
	Tensors        []TensorMeta      `json:"tensors"`
	Metadata       map[string]string `json:"metadata,omitempty"`
	CheckpointMeta *CheckpointMeta   `json:"checkpoint,omitempty"`
}

// CheckpointMeta contains training state information for checkpoints.
type CheckpointMeta struct {
	Step            int64          `json:"step"`
	Loss            float64        `json:"loss"`
	OptimizerType   string         `json:"optimizer_type"`
	OptimizerConfig map[string]any `json:"optimizer_config,omitempty"`
}

// TensorMeta describes a tensor in the .born file.
type TensorMeta struct {
	Name   string `json:"name"`   // e.g. "hidden.weight"
	DType  string `json:"dtype"`  // always "float64"
	Shape  []int  `json:"shape"`  // e.g. [24, 64]
	Offset int64  `json:"offset"` // bytes from the start of the data section
	Size   int64  `json:"size"`   // bytes
}

// Tensor is one named block of values.
type Tensor struct {
	Shape []int
	Data  []float64
}

// NumElements returns the product of Shape.
func (t Tensor) NumElements() int {
	n := 1
	for _, d := range t.Shape {
		n *= d
	}
	return n
}

// StateDict maps parameter names to values.
type StateDict map[string]Tensor
