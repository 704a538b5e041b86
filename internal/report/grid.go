package report

import (
	"fmt"
	"image"
	"image/color"
	"image/png"
	"os"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"github.com/inkwell-ml/inkwell/internal/mnist"
)

const (
	tileScale  = 2  // pixels per source pixel
	tilePad    = 6  // gap between tiles
	tileHeader = 14 // space above each tile for the label text
)

// SampleGrid renders the first rows*cols images as a labeled grid and
// writes it as a PNG file at path. Each tile shows the grayscale image with
// its class label printed above it.
func SampleGrid(ds *mnist.Dataset, rows, cols int, path string) error {
	n := rows * cols
	if len(ds.Images) < n {
		return fmt.Errorf("report: grid needs %d samples, dataset has %d", n, len(ds.Images))
	}

	tileW := mnist.ImageCols * tileScale
	tileH := mnist.ImageRows * tileScale
	width := cols*(tileW+tilePad) + tilePad
	height := rows*(tileH+tileHeader+tilePad) + tilePad

	img := image.NewRGBA(image.Rect(0, 0, width, height))
	fill(img, color.White)

	for i := 0; i < n; i++ {
		r, c := i/cols, i%cols
		x0 := tilePad + c*(tileW+tilePad)
		y0 := tilePad + r*(tileH+tileHeader+tilePad) + tileHeader

		drawTile(img, ds.Images[i], x0, y0)
		drawLabel(img, fmt.Sprintf("%d", ds.Labels[i]), x0+tileW/2, y0-3)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("report: creating %s: %w", path, err)
	}
	defer f.Close()
	if err := png.Encode(f, img); err != nil {
		return fmt.Errorf("report: encoding %s: %w", path, err)
	}
	return nil
}

func fill(img *image.RGBA, c color.Color) {
	b := img.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			img.Set(x, y, c)
		}
	}
}

func drawTile(img *image.RGBA, pixels []byte, x0, y0 int) {
	for row := 0; row < mnist.ImageRows; row++ {
		for col := 0; col < mnist.ImageCols; col++ {
			g := color.Gray{Y: pixels[row*mnist.ImageCols+col]}
			for dy := 0; dy < tileScale; dy++ {
				for dx := 0; dx < tileScale; dx++ {
					img.Set(x0+col*tileScale+dx, y0+row*tileScale+dy, g)
				}
			}
		}
	}
}

func drawLabel(img *image.RGBA, text string, centerX, baselineY int) {
	face := basicfont.Face7x13
	width := font.MeasureString(face, text).Ceil()
	d := &font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(color.Black),
		Face: face,
		Dot:  fixed.P(centerX-width/2, baselineY),
	}
	d.DrawString(text)
}
