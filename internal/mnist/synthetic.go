package mnist

import (
	"math/rand"
)

// Synthetic generates a deterministic in-memory dataset of n samples.
//
// Each sample carries a bright horizontal band whose vertical position
// encodes the digit, plus low-amplitude noise from rng. The patterns are
// not realistic digits; they give the pipeline and the tests something
// learnable without the real files.
func Synthetic(n int, rng *rand.Rand) *Dataset {
	images := make([][]byte, n)
	labels := make([]byte, n)

	for i := 0; i < n; i++ {
		label := byte(i % NumClasses)
		labels[i] = label

		img := make([]byte, ImageSize)
		startRow := int(label) * 2
		for row := startRow; row < startRow+6 && row < ImageRows; row++ {
			for col := 4; col < ImageCols-4; col++ {
				img[row*ImageCols+col] = 200
			}
		}
		for j := range img {
			img[j] += byte(rng.Intn(32))
		}
		images[i] = img
	}
	return &Dataset{Images: images, Labels: labels}
}
