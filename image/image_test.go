package image

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"testing"
)

func encodePNG(t *testing.T, w, h int, c color.Color) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, c)
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("png.Encode: %v", err)
	}
	return buf.Bytes()
}

func TestPreprocessShapeAndRange(t *testing.T) {
	data := encodePNG(t, 40, 30, color.White)

	tensor, err := Preprocess(data, ModelInputSize)
	if err != nil {
		t.Fatalf("Preprocess: %v", err)
	}
	if len(tensor) != ModelInputSize || len(tensor[0]) != ModelInputSize || len(tensor[0][0]) != 1 {
		t.Fatalf("unexpected tensor shape %dx%dx%d", len(tensor), len(tensor[0]), len(tensor[0][0]))
	}
	for _, row := range tensor {
		for _, px := range row {
			if px[0] < 0 || px[0] > 1 {
				t.Fatalf("pixel out of range: %v", px[0])
			}
		}
	}
	if v := tensor[ModelInputSize/2][ModelInputSize/2][0]; v < 0.99 {
		t.Errorf("white image center = %v, want ~1", v)
	}
}

func TestPreprocessRejectsBadInput(t *testing.T) {
	if _, err := Preprocess(nil, ModelInputSize); !errors.Is(err, ErrEmptyImage) {
		t.Errorf("expected ErrEmptyImage, got %v", err)
	}
	if _, err := Preprocess([]byte("not an image"), ModelInputSize); err == nil {
		t.Error("expected decode error")
	}
	if _, err := Preprocess(encodePNG(t, 2, 2, color.Black), 0); err == nil {
		t.Error("expected size error")
	}
}

func TestCompressImage(t *testing.T) {
	small := encodePNG(t, 100, 80, color.Black)
	out, err := CompressImage(small)
	if err != nil {
		t.Fatalf("CompressImage: %v", err)
	}
	if !bytes.Equal(out, small) {
		t.Error("small image should be returned unchanged")
	}

	large := encodePNG(t, 1024, 600, color.Black)
	out, err = CompressImage(large)
	if err != nil {
		t.Fatalf("CompressImage: %v", err)
	}
	img, err := jpeg.Decode(bytes.NewReader(out))
	if err != nil {
		t.Fatalf("compressed output is not JPEG: %v", err)
	}
	if b := img.Bounds(); b.Dx() != 512 || b.Dy() != 300 {
		t.Errorf("compressed size = %dx%d, want 512x300", b.Dx(), b.Dy())
	}
}

func TestOrient(t *testing.T) {
	src := image.NewRGBA(image.Rect(0, 0, 3, 2))
	src.Set(0, 0, color.White)

	tests := []struct {
		orientation int
		w, h        int
		x, y        int
	}{
		{orientation: 1, w: 3, h: 2, x: 0, y: 0},
		{orientation: 2, w: 3, h: 2, x: 2, y: 0},
		{orientation: 3, w: 3, h: 2, x: 2, y: 1},
		{orientation: 4, w: 3, h: 2, x: 0, y: 1},
		{orientation: 6, w: 2, h: 3, x: 1, y: 0},
		{orientation: 8, w: 2, h: 3, x: 0, y: 2},
	}
	for _, tt := range tests {
		out := Orient(src, tt.orientation)
		b := out.Bounds()
		if b.Dx() != tt.w || b.Dy() != tt.h {
			t.Errorf("orientation %d: size %dx%d, want %dx%d", tt.orientation, b.Dx(), b.Dy(), tt.w, tt.h)
			continue
		}
		r, _, _, _ := out.At(tt.x, tt.y).RGBA()
		if r != 0xffff {
			t.Errorf("orientation %d: marker not at (%d,%d)", tt.orientation, tt.x, tt.y)
		}
	}
}

func TestOrientationWithoutExif(t *testing.T) {
	if o := Orientation(encodePNG(t, 2, 2, color.Black)); o != 1 {
		t.Errorf("Orientation = %d, want 1", o)
	}
}

func TestDetectMimeType(t *testing.T) {
	if got := DetectMimeType(encodePNG(t, 2, 2, color.Black)); got != "image/png" {
		t.Errorf("DetectMimeType(png) = %q", got)
	}
	if got := DetectMimeType([]byte("plain text")); got != "image/jpeg" {
		t.Errorf("DetectMimeType(text) = %q", got)
	}
}
