// Package glitch holds a handful of glitch art generators & the small amount
// of image plumbing they share.
package glitch

import (
	"bytes"
	"fmt"
	"image"
	"image/draw"
	_ "image/gif"
	_ "image/jpeg"
	"image/png"
	"io"
	"io/ioutil"
	"os"
	"path/filepath"

	"github.com/nfnt/resize"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// Decode an image in any of the registered formats
// (png, jpeg, gif, bmp, tiff, webp).
func Decode(in io.Reader) (image.Image, error) {
	im, _, err := image.Decode(in)
	return im, err
}

// LoadImage reads & decodes the image at fpath.
func LoadImage(fpath string) (image.Image, error) {
	imgdata, err := ioutil.ReadFile(fpath)
	if err != nil {
		return nil, err
	}

	im, err := Decode(bytes.NewBuffer(imgdata))
	if err != nil {
		return nil, fmt.Errorf("decoding %s: %w", fpath, err)
	}
	return im, nil
}

// SavePNG to disk, creating parent directories as required.
func SavePNG(fpath string, in image.Image) error {
	buff := new(bytes.Buffer)
	err := png.Encode(buff, in)
	if err != nil {
		return err
	}

	dir := filepath.Dir(fpath)
	if dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return err
		}
	}
	return ioutil.WriteFile(fpath, buff.Bytes(), 0644)
}

// ToNRGBA copies `in` into a new NRGBA image whose bounds start at (0,0).
func ToNRGBA(in image.Image) *image.NRGBA {
	b := in.Bounds()
	out := image.NewNRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(out, out.Bounds(), in, b.Min, draw.Src)
	return out
}

// ScaleTo resizes `in` by factor (1 returns the image unchanged).
// Dimensions never drop below a single pixel.
func ScaleTo(in image.Image, factor float64) image.Image {
	if factor == 1 || factor <= 0 {
		return in
	}

	w := int(float64(in.Bounds().Dx()) * factor)
	h := int(float64(in.Bounds().Dy()) * factor)
	if w < 1 {
		w = 1
	}
	if h < 1 {
		h = 1
	}

	return resize.Resize(uint(w), uint(h), in, resize.Lanczos3)
}

// FileExists checks if a regular file exists at filename.
func FileExists(filename string) bool {
	info, err := os.Stat(filename)
	if os.IsNotExist(err) {
		return false
	}
	return err == nil && !info.IsDir()
}

// RenderFile loads `in`, renders it with r & writes the result to `out` as PNG.
func RenderFile(r Renderer, in, out string) error {
	src, err := LoadImage(in)
	if err != nil {
		return err
	}

	img, err := r.Render(src)
	if err != nil {
		return err
	}

	return SavePNG(out, img)
}
