// Package matrix arranges autograd scalars into 2-D matrices and 3-D batches.
//
// A Matrix is a row-major buffer of Tensor handles. Operations never copy
// nodes: elementwise operators append one node per output cell, while
// broadcasting, views and reductions like Max reuse existing handles, so
// Backward on any derived scalar reaches every source element.
package matrix

import (
	"fmt"
	"strings"

	"github.com/born-ml/autograd/internal/autograd"
	"github.com/born-ml/autograd/internal/diag"
)

// VectorDim is the value Shape reports for both dimensions of a vector-mode
// matrix. Only Len is meaningful for such a matrix.
const VectorDim = -1

// Matrix is a 2-D (or flat vector) container of scalar tensors.
//
// Several matrices may share one buffer (see View). Set writes through to
// every alias.
type Matrix struct {
	g    *autograd.Graph
	rows int
	cols int
	size int
	data []autograd.Tensor
}

// Full creates a rows×cols matrix of distinct leaves holding fill.
func Full(g *autograd.Graph, rows, cols int, fill float64) (*Matrix, error) {
	if err := checkDims("Full", rows, cols); err != nil {
		return nil, err
	}
	data := make([]autograd.Tensor, rows*cols)
	for i := range data {
		data[i] = g.Scalar(fill)
	}
	return &Matrix{g: g, rows: rows, cols: cols, size: rows * cols, data: data}, nil
}

// FromValues creates a rows×cols matrix of leaves from row-major values.
func FromValues(g *autograd.Graph, rows, cols int, values []float64) (*Matrix, error) {
	if err := checkDims("FromValues", rows, cols); err != nil {
		return nil, err
	}
	if len(values) != rows*cols {
		return nil, fail("FromValues", fmt.Errorf("FromValues: %d values for shape (%d, %d): %w",
			len(values), rows, cols, autograd.ErrShapeMismatch))
	}
	return &Matrix{g: g, rows: rows, cols: cols, size: rows * cols, data: g.Scalars(values)}, nil
}

// New wraps buffer as a rows×cols matrix. The buffer is shared, not copied.
func New(rows, cols int, buffer []autograd.Tensor) (*Matrix, error) {
	if err := checkDims("New", rows, cols); err != nil {
		return nil, err
	}
	if len(buffer) != rows*cols {
		return nil, fail("New", fmt.Errorf("New: buffer of %d for shape (%d, %d): %w",
			len(buffer), rows, cols, autograd.ErrShapeMismatch))
	}
	return &Matrix{g: buffer[0].Graph(), rows: rows, cols: cols, size: rows * cols, data: buffer}, nil
}

// NewVector wraps buffer as a vector-mode matrix.
func NewVector(buffer []autograd.Tensor) (*Matrix, error) {
	if len(buffer) == 0 {
		return nil, fail("NewVector", fmt.Errorf("NewVector: empty buffer: %w", autograd.ErrShapeMismatch))
	}
	return newVector(buffer), nil
}

func newVector(buffer []autograd.Tensor) *Matrix {
	return &Matrix{g: buffer[0].Graph(), rows: VectorDim, cols: VectorDim, size: len(buffer), data: buffer}
}

func newMatrix(g *autograd.Graph, rows, cols int, buffer []autograd.Tensor) *Matrix {
	return &Matrix{g: g, rows: rows, cols: cols, size: rows * cols, data: buffer}
}

// like returns a matrix with m's layout over buffer.
func (m *Matrix) like(buffer []autograd.Tensor) *Matrix {
	return &Matrix{g: m.g, rows: m.rows, cols: m.cols, size: m.size, data: buffer}
}

// OnesLike creates a matrix of fresh leaves holding 1 with m's layout.
func OnesLike(m *Matrix) *Matrix {
	return m.like(m.g.Scalars(fill(m.size, 1)))
}

// ZerosLike creates a matrix of fresh leaves holding 0 with m's layout.
func ZerosLike(m *Matrix) *Matrix {
	return m.like(m.g.Scalars(fill(m.size, 0)))
}

func fill(n int, v float64) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = v
	}
	return out
}

// Graph returns the graph the elements belong to.
func (m *Matrix) Graph() *autograd.Graph {
	return m.g
}

// Shape returns (rows, cols), or (VectorDim, VectorDim) in vector mode.
func (m *Matrix) Shape() (rows, cols int) {
	return m.rows, m.cols
}

// Dim returns a single dimension of Shape. Valid indices are 0 and 1.
func (m *Matrix) Dim(i int) (int, error) {
	switch i {
	case 0:
		return m.rows, nil
	case 1:
		return m.cols, nil
	default:
		return 0, fail("Dim", fmt.Errorf("Dim: index %d: %w", i, autograd.ErrIndexOutOfRange))
	}
}

// Len returns the number of elements.
func (m *Matrix) Len() int {
	return m.size
}

// IsVector reports whether m is in vector mode.
func (m *Matrix) IsVector() bool {
	return m.rows == VectorDim
}

// dims returns the 2-D layout used for reading m. A vector reads as a single
// row.
func (m *Matrix) dims() (rows, cols int) {
	if m.IsVector() {
		return 1, m.size
	}
	return m.rows, m.cols
}

// At returns the element at (i, j). Vectors are addressed as row 0.
func (m *Matrix) At(i, j int) (autograd.Tensor, error) {
	idx, err := m.index("At", i, j)
	if err != nil {
		return autograd.Tensor{}, err
	}
	return m.data[idx], nil
}

// Set stores t at (i, j). The write is visible through every matrix that
// shares m's buffer.
func (m *Matrix) Set(i, j int, t autograd.Tensor) error {
	idx, err := m.index("Set", i, j)
	if err != nil {
		return err
	}
	m.data[idx] = t
	return nil
}

// Get returns the element at flat row-major position k.
func (m *Matrix) Get(k int) (autograd.Tensor, error) {
	if k < 0 || k >= m.size {
		return autograd.Tensor{}, fail("Get", fmt.Errorf("Get: position %d of %d: %w",
			k, m.size, autograd.ErrIndexOutOfRange))
	}
	return m.data[k], nil
}

func (m *Matrix) index(op string, i, j int) (int, error) {
	rows, cols := m.dims()
	if i < 0 || i >= rows || j < 0 || j >= cols {
		return 0, fail(op, fmt.Errorf("%s: (%d, %d) for shape (%d, %d): %w",
			op, i, j, rows, cols, autograd.ErrIndexOutOfRange))
	}
	return i*cols + j, nil
}

// Row returns the handles of row i.
func (m *Matrix) Row(i int) ([]autograd.Tensor, error) {
	rows, cols := m.dims()
	if i < 0 || i >= rows {
		return nil, fail("Row", fmt.Errorf("Row: %d of %d rows: %w", i, rows, autograd.ErrIndexOutOfRange))
	}
	row := make([]autograd.Tensor, cols)
	copy(row, m.data[i*cols:(i+1)*cols])
	return row, nil
}

// Elements returns the handles in row-major order.
func (m *Matrix) Elements() []autograd.Tensor {
	out := make([]autograd.Tensor, m.size)
	copy(out, m.data)
	return out
}

// Values returns the forward values in row-major order.
func (m *Matrix) Values() []float64 {
	out := make([]float64, m.size)
	for i, t := range m.data {
		out[i] = t.Value()
	}
	return out
}

// Grads returns the accumulated gradients in row-major order.
func (m *Matrix) Grads() []float64 {
	out := make([]float64, m.size)
	for i, t := range m.data {
		out[i] = t.Grad()
	}
	return out
}

// SharesBuffer reports whether m and other are views of the same buffer.
func (m *Matrix) SharesBuffer(other *Matrix) bool {
	return m.size > 0 && other.size > 0 && &m.data[0] == &other.data[0]
}

// String formats the values row by row.
func (m *Matrix) String() string {
	var sb strings.Builder
	if m.IsVector() {
		writeRow(&sb, m.data)
		return sb.String()
	}
	sb.WriteString("[\n")
	for i := 0; i < m.rows; i++ {
		writeRow(&sb, m.data[i*m.cols:(i+1)*m.cols])
		sb.WriteString("\n")
	}
	sb.WriteString("]")
	return sb.String()
}

func writeRow(sb *strings.Builder, row []autograd.Tensor) {
	sb.WriteString("[")
	for j, t := range row {
		if j > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(t.String())
	}
	sb.WriteString("]")
}

func checkDims(op string, rows, cols int) error {
	if rows <= 0 || cols <= 0 {
		return fail(op, fmt.Errorf("%s: invalid shape (%d, %d) (dimensions must be > 0): %w",
			op, rows, cols, autograd.ErrShapeMismatch))
	}
	return nil
}

// fail records err on the diagnostic sink and returns it.
func fail(op string, err error) error {
	diag.Record(diag.LevelError, "matrix operation failed", "op", op, "err", err)
	return err
}

// done records a successful operation at debug level.
func done(op string, m *Matrix) {
	if diag.Enabled(diag.LevelDebug) {
		diag.Record(diag.LevelDebug, "matrix operation complete", "op", op, "rows", m.rows, "cols", m.cols)
	}
}
