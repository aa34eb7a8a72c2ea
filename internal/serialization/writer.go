package serialization

import (
	"bytes"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"os"
	"sort"
	"time"
)

// WriteOptions configures Write.
type WriteOptions struct {
	ModelType  string
	Metadata   map[string]string
	Checkpoint *CheckpointMeta
	CreatedAt  time.Time // zero means now
}

// Write encodes state to w. Tensors are stored in name order.
func Write(w io.Writer, state StateDict, opts WriteOptions) error {
	names := make([]string, 0, len(state))
	for name := range state {
		if err := ValidateTensorName(name); err != nil {
			return err
		}
		names = append(names, name)
	}
	sort.Strings(names)

	created := opts.CreatedAt
	if created.IsZero() {
		created = time.Now().UTC()
	}
	header := Header{
		FormatVersion:  FormatVersion,
		ModelType:      opts.ModelType,
		CreatedAt:      created,
		Tensors:        make([]TensorMeta, 0, len(names)),
		Metadata:       opts.Metadata,
		CheckpointMeta: opts.Checkpoint,
	}

	var data bytes.Buffer
	buf := make([]byte, 8)
	for _, name := range names {
		t := state[name]
		if t.NumElements() != len(t.Data) {
			return &ValidationError{
				Type:    "size_mismatch",
				Tensor:  name,
				Details: fmt.Sprintf("shape %v holds %d values, got %d", t.Shape, t.NumElements(), len(t.Data)),
			}
		}
		header.Tensors = append(header.Tensors, TensorMeta{
			Name:   name,
			DType:  DTypeFloat64,
			Shape:  append([]int(nil), t.Shape...),
			Offset: int64(data.Len()),
			Size:   int64(len(t.Data) * 8),
		})
		for _, v := range t.Data {
			binary.LittleEndian.PutUint64(buf, math.Float64bits(v))
			data.Write(buf)
		}
	}

	headerJSON, err := json.Marshal(header)
	if err != nil {
		return fmt.Errorf("failed to marshal header: %w", err)
	}

	var flags uint32
	if len(opts.Metadata) > 0 {
		flags |= FlagHasMetadata
	}
	if opts.Checkpoint != nil {
		flags |= FlagHasCheckpoint
	}
	checksum := ComputeChecksum(data.Bytes())

	fixed := make([]byte, FixedHeaderSize)
	copy(fixed[0:4], MagicBytes)
	binary.LittleEndian.PutUint32(fixed[4:8], FormatVersion)
	binary.LittleEndian.PutUint32(fixed[8:12], flags)
	binary.LittleEndian.PutUint64(fixed[12:20], uint64(len(headerJSON)))
	copy(fixed[20:52], checksum[:])

	for _, part := range [][]byte{fixed, headerJSON, data.Bytes()} {
		if _, err := w.Write(part); err != nil {
			return fmt.Errorf("failed to write: %w", err)
		}
	}
	return nil
}

// WriteFile writes state to path, replacing any existing file.
func WriteFile(path string, state StateDict, opts WriteOptions) (err error) {
	//nolint:gosec // G304: File path comes from user input, which is expected for model saving
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	defer func() {
		if cerr := file.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}()
	return Write(file, state, opts)
}
