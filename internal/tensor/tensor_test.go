package tensor

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestShape_NumElements tests element count computation.
func TestShape_NumElements(t *testing.T) {
	assert.Equal(t, 784, Shape{28, 28}.NumElements())
	assert.Equal(t, 32*28*28, Shape{32, 28, 28, 1}.NumElements())
	assert.Equal(t, 1, Shape{}.NumElements())
}

// TestShape_Validate tests rejection of non-positive dimensions.
func TestShape_Validate(t *testing.T) {
	require.NoError(t, Shape{2, 3}.Validate())
	assert.Error(t, Shape{0, 3}.Validate())
	assert.Error(t, Shape{2, -1}.Validate())
}

// TestShape_ComputeStrides tests row-major stride computation.
func TestShape_ComputeStrides(t *testing.T) {
	strides := Shape{2, 28, 28, 1}.ComputeStrides()
	assert.Equal(t, []int{784, 28, 1, 1}, strides)
}

// TestNew_ZeroFilled tests that New allocates a zeroed tensor.
func TestNew_ZeroFilled(t *testing.T) {
	x := New(Shape{2, 3})
	require.Equal(t, 6, x.NumElements())
	for _, v := range x.Data() {
		assert.Zero(t, v)
	}
}

// TestNew_InvalidShapePanics tests that invalid shapes are rejected.
func TestNew_InvalidShapePanics(t *testing.T) {
	assert.Panics(t, func() { New(Shape{2, 0}) })
	assert.Panics(t, func() { FromSlice(Shape{2, 2}, []float32{1, 2, 3}) })
}

// TestReshape_SharesData tests that Reshape returns a view.
func TestReshape_SharesData(t *testing.T) {
	x := FromSlice(Shape{2, 2}, []float32{1, 2, 3, 4})
	y := x.Reshape(4)

	require.True(t, y.Shape().Equal(Shape{4}))
	y.Data()[0] = 9
	assert.Equal(t, float32(9), x.At(0, 0))

	assert.Panics(t, func() { x.Reshape(3) })
}

// TestClone_Independent tests that Clone copies the backing data.
func TestClone_Independent(t *testing.T) {
	x := FromSlice(Shape{3}, []float32{1, 2, 3})
	y := x.Clone()
	y.Data()[0] = 9
	assert.Equal(t, float32(1), x.At(0))
}

// TestAtSet_RowMajor tests multi-dimensional indexing.
func TestAtSet_RowMajor(t *testing.T) {
	x := New(Shape{2, 3})
	x.Set(7, 1, 2)
	assert.Equal(t, float32(7), x.Data()[5])
	assert.Equal(t, float32(7), x.At(1, 2))

	assert.Panics(t, func() { x.At(2, 0) })
	assert.Panics(t, func() { x.At(0) })
}

// TestUniform_Range tests that sampled values respect the bounds.
func TestUniform_Range(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	x := Uniform(Shape{1000}, -0.5, 0.5, rng)
	for _, v := range x.Data() {
		assert.GreaterOrEqual(t, v, float32(-0.5))
		assert.Less(t, v, float32(0.5))
	}
}

// TestCopyFrom_ShapeChecked tests the shape guard on CopyFrom.
func TestCopyFrom_ShapeChecked(t *testing.T) {
	x := New(Shape{2, 2})
	x.CopyFrom(FromSlice(Shape{2, 2}, []float32{1, 2, 3, 4}))
	assert.Equal(t, float32(4), x.At(1, 1))

	assert.Panics(t, func() { x.CopyFrom(New(Shape{4})) })
}
