package glitch

import (
	"bytes"
	"image"
	"image/color"
	"image/jpeg"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSaveAndLoadPNG(t *testing.T) {
	fpath := filepath.Join(t.TempDir(), "nested", "dir", "out.png")
	src := gradientImage(6, 4)

	require.Nil(t, SavePNG(fpath, src))
	assert.True(t, FileExists(fpath))
	assert.False(t, FileExists(filepath.Dir(fpath)))

	img, err := LoadImage(fpath)
	require.Nil(t, err)
	assert.Equal(t, src.Pix, ToNRGBA(img).Pix)
}

func TestLoadImageMissing(t *testing.T) {
	_, err := LoadImage(filepath.Join(t.TempDir(), "nope.png"))
	assert.NotNil(t, err)
}

func TestDecodeJPEG(t *testing.T) {
	buff := bytes.NewBuffer([]byte{})
	require.Nil(t, jpeg.Encode(buff, gradientImage(8, 8), nil))

	img, err := Decode(buff)
	require.Nil(t, err)
	assert.Equal(t, image.Rect(0, 0, 8, 8), img.Bounds())
}

func TestToNRGBAMovesOrigin(t *testing.T) {
	src := image.NewNRGBA(image.Rect(5, 5, 7, 6))
	src.SetNRGBA(5, 5, color.NRGBA{1, 2, 3, 255})

	out := ToNRGBA(src)
	assert.Equal(t, image.Rect(0, 0, 2, 1), out.Bounds())
	assert.Equal(t, color.NRGBA{1, 2, 3, 255}, out.NRGBAAt(0, 0))
}

func TestScaleTo(t *testing.T) {
	src := gradientImage(10, 4)

	assert.True(t, ScaleTo(src, 1) == image.Image(src))
	assert.Equal(t, image.Rect(0, 0, 20, 8), ScaleTo(src, 2).Bounds())
	assert.Equal(t, image.Rect(0, 0, 1, 1), ScaleTo(src, 0.01).Bounds())
}

type fixedRenderer struct{}

func (fixedRenderer) Render(src image.Image) (image.Image, error) {
	return solid(src.Bounds().Dx(), src.Bounds().Dy(), color.White), nil
}

func (fixedRenderer) Params() *Params { return NewParams() }

func TestRenderFile(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "in.png")
	out := filepath.Join(dir, "done", "out.png")
	require.Nil(t, SavePNG(in, gradientImage(3, 3)))

	require.Nil(t, RenderFile(fixedRenderer{}, in, out))

	img, err := LoadImage(out)
	require.Nil(t, err)
	assert.Equal(t, color.NRGBA{255, 255, 255, 255}, ToNRGBA(img).NRGBAAt(2, 2))
}
