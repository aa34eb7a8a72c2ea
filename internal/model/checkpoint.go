package model

import (
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/born-ml/autograd/internal/serialization"
)

// ModelType is the model_type recorded in checkpoints.
const ModelType = "char-mlp"

// StateDict returns a copy of every parameter keyed by name.
func (m *MLP) StateDict() serialization.StateDict {
	state := make(serialization.StateDict)
	for _, p := range m.Parameters() {
		rows, cols := p.Shape()
		state[p.Name()] = serialization.Tensor{
			Shape: []int{rows, cols},
			Data:  append([]float64(nil), p.Data()...),
		}
	}
	return state
}

// LoadStateDict copies values from state into the parameters. Every
// parameter must be present with a matching shape.
func (m *MLP) LoadStateDict(state serialization.StateDict) error {
	for _, p := range m.Parameters() {
		t, ok := state[p.Name()]
		if !ok {
			return fmt.Errorf("load state: missing %s", p.Name())
		}
		rows, cols := p.Shape()
		if len(t.Shape) != 2 || t.Shape[0] != rows || t.Shape[1] != cols {
			return fmt.Errorf("load state: %s has shape %v, want [%d %d]", p.Name(), t.Shape, rows, cols)
		}
		copy(p.Data(), t.Data)
	}
	return nil
}

// Save writes the model and its configuration to path. checkpoint may be nil.
func (m *MLP) Save(path string, checkpoint *serialization.CheckpointMeta) error {
	cfg, err := json.Marshal(m.cfg)
	if err != nil {
		return fmt.Errorf("save: %w", err)
	}
	return serialization.WriteFile(path, m.StateDict(), serialization.WriteOptions{
		ModelType: ModelType,
		Metadata: map[string]string{
			"config":     string(cfg),
			"vocab_size": strconv.Itoa(m.vocab),
		},
		Checkpoint: checkpoint,
	})
}

// Load reads a model written by Save.
func Load(path string) (*MLP, *serialization.Header, error) {
	header, state, err := serialization.ReadFile(path, serialization.ReaderOptions{})
	if err != nil {
		return nil, nil, fmt.Errorf("load %s: %w", path, err)
	}
	if header.ModelType != ModelType {
		return nil, nil, fmt.Errorf("load %s: model type %q, want %q", path, header.ModelType, ModelType)
	}

	var cfg Config
	if err := json.Unmarshal([]byte(header.Metadata["config"]), &cfg); err != nil {
		return nil, nil, fmt.Errorf("load %s: config: %w", path, err)
	}
	vocab, err := strconv.Atoi(header.Metadata["vocab_size"])
	if err != nil {
		return nil, nil, fmt.Errorf("load %s: vocab_size: %w", path, err)
	}

	m, err := NewMLP(cfg, vocab)
	if err != nil {
		return nil, nil, fmt.Errorf("load %s: %w", path, err)
	}
	if err := m.LoadStateDict(state); err != nil {
		return nil, nil, fmt.Errorf("load %s: %w", path, err)
	}
	return m, header, nil
}
