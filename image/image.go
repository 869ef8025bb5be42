package image

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	"image/jpeg"
	_ "image/png"
	"net/http"

	"github.com/apex/log"
	"github.com/rwcarlsen/goexif/exif"
	"golang.org/x/image/draw"
)

const (
	maxImageDimension = 512 // Maximum width or height sent to the vision API
	jpegQuality       = 85

	// ModelInputSize is the square edge length the local classifier expects.
	ModelInputSize = 224
)

// ErrEmptyImage is returned for zero-length uploads.
var ErrEmptyImage = errors.New("empty image")

// Tensor is a [height][width][channels] array of normalized pixel values.
type Tensor [][][]float64

// Orientation extracts the EXIF orientation tag, defaulting to 1.
func Orientation(data []byte) int {
	x, err := exif.Decode(bytes.NewReader(data))
	if err != nil {
		return 1
	}
	tag, err := x.Get(exif.Orientation)
	if err != nil {
		return 1
	}
	v, err := tag.Int(0)
	if err != nil || v < 1 || v > 8 {
		return 1
	}
	return v
}

// Orient applies an EXIF orientation so the image is upright.
func Orient(img image.Image, orientation int) image.Image {
	if orientation <= 1 || orientation > 8 {
		return img
	}
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()

	dw, dh := w, h
	if orientation >= 5 {
		dw, dh = h, w
	}
	out := image.NewRGBA(image.Rect(0, 0, dw, dh))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			var dx, dy int
			switch orientation {
			case 2: // mirror horizontal
				dx, dy = w-1-x, y
			case 3: // rotate 180
				dx, dy = w-1-x, h-1-y
			case 4: // mirror vertical
				dx, dy = x, h-1-y
			case 5: // transpose
				dx, dy = y, x
			case 6: // rotate 90 cw
				dx, dy = h-1-y, x
			case 7: // transverse
				dx, dy = h-1-y, w-1-x
			case 8: // rotate 90 ccw
				dx, dy = y, w-1-x
			}
			out.Set(dx, dy, img.At(b.Min.X+x, b.Min.Y+y))
		}
	}
	return out
}

// decode decodes data and applies its EXIF orientation.
func decode(data []byte) (image.Image, error) {
	if len(data) == 0 {
		return nil, ErrEmptyImage
	}
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}
	if o := Orientation(data); o != 1 {
		img = Orient(img, o)
		log.Debugf("Applied orientation correction: %d", o)
	}
	return img, nil
}

// CompressImage scales an image down to fit within 512 pixels and re-encodes
// it as JPEG. Images already small enough are returned unchanged.
func CompressImage(data []byte) ([]byte, error) {
	img, err := decode(data)
	if err != nil {
		return nil, err
	}

	b := img.Bounds()
	ow, oh := b.Dx(), b.Dy()
	if ow <= maxImageDimension && oh <= maxImageDimension {
		return data, nil
	}

	scale := float64(maxImageDimension) / float64(ow)
	if s := float64(maxImageDimension) / float64(oh); s < scale {
		scale = s
	}
	nw := min(max(int(float64(ow)*scale), 1), maxImageDimension)
	nh := min(max(int(float64(oh)*scale), 1), maxImageDimension)

	dst := image.NewRGBA(image.Rect(0, 0, nw, nh))
	draw.ApproxBiLinear.Scale(dst, dst.Bounds(), img, b, draw.Over, nil)

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, dst, &jpeg.Options{Quality: jpegQuality}); err != nil {
		return nil, fmt.Errorf("failed to encode compressed image: %w", err)
	}
	log.Infof("Image compressed: %d bytes -> %d bytes (%dx%d -> %dx%d)",
		len(data), buf.Len(), ow, oh, nw, nh)
	return buf.Bytes(), nil
}

// Preprocess converts an encoded image into the classifier's input tensor:
// upright, grayscale, resized to size x size, scaled to [0,1].
func Preprocess(data []byte, size int) (Tensor, error) {
	if size <= 0 {
		return nil, fmt.Errorf("invalid tensor size %d", size)
	}
	img, err := decode(data)
	if err != nil {
		return nil, err
	}

	gray := image.NewGray(image.Rect(0, 0, size, size))
	draw.CatmullRom.Scale(gray, gray.Bounds(), img, img.Bounds(), draw.Src, nil)

	t := make(Tensor, size)
	for y := 0; y < size; y++ {
		row := make([][]float64, size)
		for x := 0; x < size; x++ {
			v := gray.GrayAt(x, y).Y
			row[x] = []float64{float64(v) / 255}
		}
		t[y] = row
	}
	return t, nil
}

// DetectMimeType sniffs the content type of an upload, falling back to
// image/jpeg for anything that is not recognized as an image.
func DetectMimeType(data []byte) string {
	switch ct := http.DetectContentType(data); ct {
	case "image/jpeg", "image/png", "image/gif", "image/webp":
		return ct
	}
	return "image/jpeg"
}
