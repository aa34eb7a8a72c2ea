// Package serialization provides the native .born format for saving and
// loading model parameters.
//
// The .born format is a simple binary format:
//
//	Format Structure:
//	  [4 bytes: Magic "BORN"]
//	  [4 bytes: Version (uint32 LE)]
//	  [4 bytes: Flags (uint32 LE)]
//	  [8 bytes: Header Size (uint64 LE)]
//	  [32 bytes: SHA-256 of the data section]
//	  [Header: JSON metadata]
//	  [Tensor data: float64 LE, tensors back to back in header order]
//
// Example usage:
//
//	state := serialization.StateDict{
//	    "C.weight": {Shape: []int{27, 8}, Data: values},
//	}
//	err := serialization.WriteFile("names.born", state, serialization.WriteOptions{
//	    ModelType: "mlp",
//	})
//
//	header, state, err := serialization.ReadFile("names.born", serialization.ReaderOptions{})
package serialization
