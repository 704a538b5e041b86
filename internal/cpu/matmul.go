package cpu

import (
	"fmt"

	"github.com/inkwell-ml/inkwell/internal/tensor"
)

// MatMul computes the matrix product of two 2D tensors.
//
// a: [m, k], b: [k, n] -> [m, n].
func MatMul(a, b *tensor.Tensor) *tensor.Tensor {
	aShape := a.Shape()
	bShape := b.Shape()
	if len(aShape) != 2 || len(bShape) != 2 {
		panic(fmt.Sprintf("cpu: matmul requires 2D tensors, got %v and %v", aShape, bShape))
	}
	if aShape[1] != bShape[0] {
		panic(fmt.Sprintf("cpu: matmul inner dimensions do not match: %v @ %v", aShape, bShape))
	}

	m, k, n := aShape[0], aShape[1], bShape[1]
	out := tensor.New(tensor.Shape{m, n})

	ad := a.Data()
	bd := b.Data()
	od := out.Data()

	for i := 0; i < m; i++ {
		for l := 0; l < k; l++ {
			av := ad[i*k+l]
			if av == 0 {
				continue
			}
			row := bd[l*n:]
			outRow := od[i*n:]
			for j := 0; j < n; j++ {
				outRow[j] += av * row[j]
			}
		}
	}
	return out
}

// MatMulTransposeA computes transpose(a) @ b for 2D tensors.
//
// a: [k, m], b: [k, n] -> [m, n]. Used by the dense layer backward pass to
// form weight gradients without materializing the transpose.
func MatMulTransposeA(a, b *tensor.Tensor) *tensor.Tensor {
	aShape := a.Shape()
	bShape := b.Shape()
	if len(aShape) != 2 || len(bShape) != 2 {
		panic(fmt.Sprintf("cpu: matmul requires 2D tensors, got %v and %v", aShape, bShape))
	}
	if aShape[0] != bShape[0] {
		panic(fmt.Sprintf("cpu: matmul outer dimensions do not match: %v vs %v", aShape, bShape))
	}

	k, m, n := aShape[0], aShape[1], bShape[1]
	out := tensor.New(tensor.Shape{m, n})

	ad := a.Data()
	bd := b.Data()
	od := out.Data()

	for l := 0; l < k; l++ {
		for i := 0; i < m; i++ {
			av := ad[l*m+i]
			if av == 0 {
				continue
			}
			row := bd[l*n:]
			outRow := od[i*n:]
			for j := 0; j < n; j++ {
				outRow[j] += av * row[j]
			}
		}
	}
	return out
}

// MatMulTransposeB computes a @ transpose(b) for 2D tensors.
//
// a: [m, k], b: [n, k] -> [m, n].
func MatMulTransposeB(a, b *tensor.Tensor) *tensor.Tensor {
	aShape := a.Shape()
	bShape := b.Shape()
	if len(aShape) != 2 || len(bShape) != 2 {
		panic(fmt.Sprintf("cpu: matmul requires 2D tensors, got %v and %v", aShape, bShape))
	}
	if aShape[1] != bShape[1] {
		panic(fmt.Sprintf("cpu: matmul inner dimensions do not match: %v vs %v", aShape, bShape))
	}

	m, k, n := aShape[0], aShape[1], bShape[0]
	out := tensor.New(tensor.Shape{m, n})

	ad := a.Data()
	bd := b.Data()
	od := out.Data()

	for i := 0; i < m; i++ {
		for j := 0; j < n; j++ {
			sum := float32(0)
			aRow := ad[i*k : (i+1)*k]
			bRow := bd[j*k : (j+1)*k]
			for l := 0; l < k; l++ {
				sum += aRow[l] * bRow[l]
			}
			od[i*n+j] = sum
		}
	}
	return out
}
