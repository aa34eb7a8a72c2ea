package serialization

import (
	"bytes"
	"encoding/hex"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleState() StateDict {
	return StateDict{
		"hidden.weight": {Shape: []int{2, 3}, Data: []float64{1, 2, 3, 4, 5, 6}},
		"hidden.bias":   {Shape: []int{1, 3}, Data: []float64{0.1, -0.2, 1e-300}},
	}
}

func TestRoundTrip(t *testing.T) {
	created := time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)
	var buf bytes.Buffer
	err := Write(&buf, sampleState(), WriteOptions{
		ModelType:  "mlp",
		Metadata:   map[string]string{"vocab_size": "27"},
		Checkpoint: &CheckpointMeta{Step: 100, Loss: 2.5, OptimizerType: "SGD"},
		CreatedAt:  created,
	})
	require.NoError(t, err)

	flags := buf.Bytes()[8]
	assert.Equal(t, byte(FlagHasCheckpoint|FlagHasMetadata), flags)

	header, state, err := Read(&buf, ReaderOptions{})
	require.NoError(t, err)
	assert.Equal(t, "mlp", header.ModelType)
	assert.True(t, created.Equal(header.CreatedAt))
	assert.Equal(t, "27", header.Metadata["vocab_size"])
	require.NotNil(t, header.CheckpointMeta)
	assert.Equal(t, int64(100), header.CheckpointMeta.Step)
	assert.Equal(t, sampleState(), state)

	// name order
	require.Len(t, header.Tensors, 2)
	assert.Equal(t, "hidden.bias", header.Tensors[0].Name)
	assert.Equal(t, int64(24), header.Tensors[1].Offset)
}

func TestWriteFileReadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "model.born")
	require.NoError(t, WriteFile(path, sampleState(), WriteOptions{ModelType: "mlp"}))

	header, state, err := ReadFile(path, ReaderOptions{})
	require.NoError(t, err)
	assert.Nil(t, header.CheckpointMeta)
	assert.Equal(t, sampleState(), state)

	_, _, err = ReadFile(filepath.Join(t.TempDir(), "missing.born"), ReaderOptions{})
	assert.Error(t, err)
}

func TestRead_Corruption(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, sampleState(), WriteOptions{}))
	good := buf.Bytes()

	flip := func(i int) []byte {
		b := append([]byte(nil), good...)
		b[i] ^= 0xff
		return b
	}

	_, _, err := Read(bytes.NewReader(flip(0)), ReaderOptions{})
	assert.ErrorIs(t, err, ErrInvalidMagic)

	_, _, err = Read(bytes.NewReader(flip(4)), ReaderOptions{})
	assert.ErrorIs(t, err, ErrUnsupportedVersion)

	last := len(good) - 1
	_, _, err = Read(bytes.NewReader(flip(last)), ReaderOptions{})
	assert.ErrorIs(t, err, ErrChecksumMismatch)

	_, _, err = Read(bytes.NewReader(flip(last)), ReaderOptions{SkipChecksumValidation: true})
	assert.NoError(t, err)

	_, _, err = Read(bytes.NewReader(good[:last]), ReaderOptions{})
	var verr *ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, "out_of_bounds", verr.Type)

	_, _, err = Read(bytes.NewReader(good[:10]), ReaderOptions{})
	assert.Error(t, err)
}

func TestWrite_Invalid(t *testing.T) {
	var buf bytes.Buffer
	err := Write(&buf, StateDict{"w": {Shape: []int{2, 2}, Data: []float64{1}}}, WriteOptions{})
	var verr *ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, "size_mismatch", verr.Type)

	err = Write(&buf, StateDict{"../w": {Shape: []int{1}, Data: []float64{1}}}, WriteOptions{})
	assert.Error(t, err)
}

func TestKnownVectorSHA256(t *testing.T) {
	sum := ComputeChecksum([]byte("abc"))
	assert.Equal(t, "ba7816bf8f01cfea414140de5dae2223b00361a396177a9cb410ff61f20015ad", hex.EncodeToString(sum[:]))
	assert.ErrorIs(t, ValidateChecksum(sum, [32]byte{}), ErrChecksumMismatch)
}

func TestValidateTensorOffsets(t *testing.T) {
	tests := []struct {
		name    string
		tensors []TensorMeta
		size    int64
		want    string
	}{
		{"ok", []TensorMeta{{Name: "a", Offset: 0, Size: 8}, {Name: "b", Offset: 8, Size: 8}}, 16, ""},
		{"overlap", []TensorMeta{{Name: "a", Offset: 0, Size: 16}, {Name: "b", Offset: 8, Size: 8}}, 16, "offset_overlap"},
		{"bounds", []TensorMeta{{Name: "a", Offset: 8, Size: 16}}, 16, "out_of_bounds"},
		{"negative", []TensorMeta{{Name: "a", Offset: -8, Size: 8}}, 16, "negative_offset"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateTensorOffsets(tt.tensors, tt.size)
			if tt.want == "" {
				assert.NoError(t, err)
				return
			}
			var verr *ValidationError
			require.True(t, errors.As(err, &verr))
			assert.Equal(t, tt.want, verr.Type)
		})
	}
}

func TestValidateTensorName(t *testing.T) {
	for _, name := range []string{"C.weight", "hidden.bias", "layer_0"} {
		assert.NoError(t, ValidateTensorName(name))
	}
	for _, name := range []string{"../x", "a/b", `a\b`, "a\x00"} {
		assert.Error(t, ValidateTensorName(name))
	}
}

func TestValidateHeader(t *testing.T) {
	h := &Header{Tensors: []TensorMeta{{Name: "a", DType: "float32", Shape: []int{1}, Size: 4}}}
	assert.ErrorIs(t, ValidateHeader(h, 4), ErrUnsupportedDType)

	h = &Header{Tensors: []TensorMeta{{Name: "a", DType: DTypeFloat64, Shape: []int{2}, Size: 8}}}
	assert.Error(t, ValidateHeader(h, 8))

	h = &Header{Tensors: []TensorMeta{
		{Name: "a", DType: DTypeFloat64, Shape: []int{1}, Size: 8},
		{Name: "a", DType: DTypeFloat64, Shape: []int{1}, Offset: 8, Size: 8},
	}}
	assert.Error(t, ValidateHeader(h, 16))
}
