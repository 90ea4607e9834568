// Package imaging converts between encoded images, RGB pixel grids and the
// normalized tensors consumed by style networks.
package imaging

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/color"
	_ "image/gif"
	"image/jpeg"
	_ "image/png"
	"math"

	"github.com/nfnt/resize"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	"stylerd/internal/tensor"
)

const (
	// Channels is the number of color planes fed to a network.
	Channels = 3
	// Scale multiplies unit-range pixel values into the range the networks were trained on.
	Scale = 255

	// sampleScale folds the [0,1] normalization and Scale into one exact constant.
	sampleScale = Scale / 255.0
)

// ErrEmpty is returned when there are no bytes to decode.
var ErrEmpty = errors.New("imaging: empty input")

// DefaultMaxPixels bounds width*height of a decoded image (4096x4096).
const DefaultMaxPixels = 4096 * 4096

// TooLargeError reports an image header whose dimensions exceed the pixel limit.
type TooLargeError struct {
	Width, Height int
	Limit         int
}

func (e TooLargeError) Error() string {
	return fmt.Sprintf("imaging: %dx%d image exceeds %d pixels", e.Width, e.Height, e.Limit)
}

// Decode decodes raw bytes in any registered format (JPEG, PNG, GIF, TIFF, BMP, WebP)
// and reports the format name. The header is read first and images with more
// than maxPixels pixels are rejected before any pixel buffer is allocated;
// maxPixels <= 0 disables the check.
func Decode(raw []byte, maxPixels int) (image.Image, string, error) {
	if len(raw) == 0 {
		return nil, "", ErrEmpty
	}
	cfg, format, err := image.DecodeConfig(bytes.NewReader(raw))
	if err != nil {
		return nil, "", fmt.Errorf("imaging: decode header: %w", err)
	}
	if cfg.Width <= 0 || cfg.Height <= 0 {
		return nil, format, fmt.Errorf("imaging: %s header declares %dx%d", format, cfg.Width, cfg.Height)
	}
	if maxPixels > 0 && int64(cfg.Width)*int64(cfg.Height) > int64(maxPixels) {
		return nil, format, TooLargeError{Width: cfg.Width, Height: cfg.Height, Limit: maxPixels}
	}
	img, format, err := image.Decode(bytes.NewReader(raw))
	if err != nil {
		return nil, "", fmt.Errorf("imaging: decode: %w", err)
	}
	if b := img.Bounds(); b.Empty() {
		return nil, format, fmt.Errorf("imaging: decoded %s image has no pixels", format)
	}
	return img, format, nil
}

// ToRGB copies img into an opaque RGBA grid anchored at the origin. Alpha is
// dropped without compositing; color channels keep their straight values.
func ToRGB(img image.Image) *image.RGBA {
	b := img.Bounds()
	out := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			c := color.NRGBAModel.Convert(img.At(x, y)).(color.NRGBA)
			i := out.PixOffset(x-b.Min.X, y-b.Min.Y)
			out.Pix[i+0] = c.R
			out.Pix[i+1] = c.G
			out.Pix[i+2] = c.B
			out.Pix[i+3] = 0xff
		}
	}
	return out
}

// Fit shrinks img so neither side exceeds maxDim, preserving aspect ratio.
// maxDim <= 0 disables resizing.
func Fit(img *image.RGBA, maxDim int) *image.RGBA {
	b := img.Bounds()
	if maxDim <= 0 || (b.Dx() <= maxDim && b.Dy() <= maxDim) {
		return img
	}
	out := resize.Thumbnail(uint(maxDim), uint(maxDim), img, resize.Lanczos3)
	if rgba, ok := out.(*image.RGBA); ok && rgba.Bounds().Min == (image.Point{}) {
		return rgba
	}
	return ToRGB(out)
}

// ToTensor lays img out as a [1, 3, H, W] float32 tensor in RGB plane order,
// each value being the 8-bit sample mapped to [0,1] and multiplied by Scale.
func ToTensor(img *image.RGBA) *tensor.Tensor {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	plane := w * h
	data := make([]float32, Channels*plane)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			i := img.PixOffset(b.Min.X+x, b.Min.Y+y)
			p := y*w + x
			for c := 0; c < Channels; c++ {
				data[c*plane+p] = float32(img.Pix[i+c]) * sampleScale
			}
		}
	}
	return &tensor.Tensor{Shape: []int64{1, Channels, int64(h), int64(w)}, Data: data}
}

// FromTensor converts a network output back into pixels. It accepts [N, 3, H, W]
// (only the first batch element is used) or [3, H, W]. Values are clamped to
// [0, 255] and truncated; NaN becomes 0.
func FromTensor(t *tensor.Tensor) (*image.RGBA, error) {
	if t == nil {
		return nil, fmt.Errorf("imaging: nil tensor")
	}
	chw := t
	switch t.Rank() {
	case 4:
		first, err := t.Batch(0)
		if err != nil {
			return nil, fmt.Errorf("imaging: %w", err)
		}
		chw = first
	case 3:
	default:
		return nil, fmt.Errorf("imaging: expected CHW or NCHW tensor, got %s", tensor.FormatShape(t.Shape))
	}
	if chw.Shape[0] != Channels {
		return nil, fmt.Errorf("imaging: expected %d channels, got %s", Channels, tensor.FormatShape(t.Shape))
	}
	h, w := int(chw.Shape[1]), int(chw.Shape[2])
	if len(chw.Data) != Channels*h*w {
		return nil, fmt.Errorf("imaging: tensor %s holds %d values", tensor.FormatShape(t.Shape), len(chw.Data))
	}
	plane := w * h
	out := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			i := out.PixOffset(x, y)
			p := y*w + x
			for c := 0; c < Channels; c++ {
				out.Pix[i+c] = toByte(chw.Data[c*plane+p])
			}
			out.Pix[i+3] = 0xff
		}
	}
	return out, nil
}

func toByte(v float32) uint8 {
	switch {
	case math.IsNaN(float64(v)):
		return 0
	case v <= 0:
		return 0
	case v >= 255:
		return 255
	default:
		return uint8(v)
	}
}

// EncodeJPEG encodes img and returns a reader positioned at its first byte.
// quality <= 0 selects jpeg.DefaultQuality.
func EncodeJPEG(img image.Image, quality int) (*bytes.Reader, error) {
	if quality <= 0 {
		quality = jpeg.DefaultQuality
	}
	if quality > 100 {
		quality = 100
	}
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: quality}); err != nil {
		return nil, fmt.Errorf("imaging: encode jpeg: %w", err)
	}
	return bytes.NewReader(buf.Bytes()), nil
}
