package glitch

import (
	"fmt"
	"image"
	"sort"
	"strconv"
	"strings"
)

// SortMode picks which pixels start & continue a sorted span
type SortMode int

const (
	// SortWhite spans run over pixels whose r*g*b is above the white threshold
	SortWhite SortMode = iota
	// SortBlack spans run over pixels whose r*g*b is below the black threshold
	SortBlack
	// SortBright spans run over pixels brighter than the bright threshold
	SortBright
	// SortDark spans run over pixels darker than the dark threshold
	SortDark
)

var sortModeNames = []string{"white", "black", "bright", "dark"}

func (m SortMode) String() string {
	if m < 0 || int(m) >= len(sortModeNames) {
		return fmt.Sprintf("SortMode(%d)", int(m))
	}
	return sortModeNames[m]
}

// ParseSortMode accepts a mode name or its number (0-3)
func ParseSortMode(s string) (SortMode, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for i, name := range sortModeNames {
		if s == name || s == strconv.Itoa(i) {
			return SortMode(i), nil
		}
	}
	return 0, fmt.Errorf("unknown sort mode %q (want one of %s)", s, strings.Join(sortModeNames, ", "))
}

// PixelSorter sorts spans of pixels along every column then every row.
type PixelSorter struct {
	cfg       PixelSortConfig
	mode      SortMode
	threshold float64
}

// NewPixelSorter returns a sorter for cfg
func NewPixelSorter(cfg PixelSortConfig) (*PixelSorter, error) {
	mode, err := ParseSortMode(cfg.Mode)
	if err != nil {
		return nil, err
	}
	if cfg.Loops < 1 {
		cfg.Loops = 1
	}

	ps := &PixelSorter{cfg: cfg, mode: mode}
	switch mode {
	case SortWhite:
		ps.threshold = cfg.WhiteValue
	case SortBlack:
		ps.threshold = cfg.BlackValue
	case SortBright:
		ps.threshold = cfg.BrightValue
	case SortDark:
		ps.threshold = cfg.DarkValue
	}
	return ps, nil
}

// Mode the sorter runs in
func (ps *PixelSorter) Mode() SortMode {
	return ps.mode
}

// Params implements Renderer
func (ps *PixelSorter) Params() *Params {
	p := NewParams()
	p.SetString("mode", ps.mode.String())
	p.SetFloat("threshold", ps.threshold)
	p.SetInt("loops", ps.cfg.Loops)
	p.SetBool("sort_pixels", ps.cfg.SortPixels)
	return p
}

// Render implements Renderer
func (ps *PixelSorter) Render(src image.Image) (image.Image, error) {
	img := ToNRGBA(src)
	width, height := img.Rect.Dx(), img.Rect.Dy()

	for l := 0; l < ps.cfg.Loops; l++ {
		Logger().Info("sorting columns", "loop", l+1, "mode", ps.mode.String())
		for x := 0; x < width-1; x++ {
			ps.sortLine(&line{pix: img.Pix, base: x * 4, step: img.Stride, n: height})
		}

		Logger().Info("sorting rows", "loop", l+1, "mode", ps.mode.String())
		for y := 0; y < height-1; y++ {
			ps.sortLine(&line{pix: img.Pix, base: y * img.Stride, step: 4, n: width})
		}
	}

	return img, nil
}

// line is a view over one row or column of NRGBA pixels
type line struct {
	pix  []uint8
	base int
	step int
	n    int
}

// at returns the offset of pixel k
func (l *line) at(k int) int {
	return l.base + k*l.step
}

// metric of pixel k, r*g*b for white/black & brightness for bright/dark
func (ps *PixelSorter) metric(l *line, k int) float64 {
	i := l.at(k)
	r, g, b := l.pix[i], l.pix[i+1], l.pix[i+2]
	if ps.mode == SortWhite || ps.mode == SortBlack {
		return float64(int32(r) * int32(g) * int32(b))
	}
	return luma(r, g, b)
}

// above reports whether spans are made of pixels over the threshold
func (ps *PixelSorter) above() bool {
	return ps.mode == SortWhite || ps.mode == SortBright
}

// spanStart returns the first pixel at or after k that may begin a span, or -1
func (ps *PixelSorter) spanStart(l *line, k int) int {
	for ; k < l.n; k++ {
		v := ps.metric(l, k)
		if ps.above() && v >= ps.threshold {
			return k
		}
		if !ps.above() && v <= ps.threshold {
			return k
		}
	}
	return -1
}

// spanEnd returns the last pixel of the span beginning at k
func (ps *PixelSorter) spanEnd(l *line, k int) int {
	k++
	for k < l.n {
		v := ps.metric(l, k)
		if ps.above() && !(v > ps.threshold) {
			break
		}
		if !ps.above() && !(v < ps.threshold) {
			break
		}
		k++
	}
	if k-1 > l.n-1 {
		return l.n - 1
	}
	return k - 1
}

func (ps *PixelSorter) sortLine(l *line) {
	p, end := 0, 0
	for end < l.n-1 {
		start := ps.spanStart(l, p)
		if start < 0 {
			break
		}
		end = ps.spanEnd(l, start)

		if end-start > 0 {
			if ps.cfg.SortPixels {
				ps.sortPixels(l, start, end)
			} else {
				sortChannels(l, start, end)
			}
		}
		p = end + 1
	}
}

// sortChannels sorts each of r, g & b over [start, end) independently.
func sortChannels(l *line, start, end int) {
	vals := make([]int, end-start)
	for ch := 0; ch < 3; ch++ {
		for k := start; k < end; k++ {
			vals[k-start] = int(l.pix[l.at(k)+ch])
		}
		sort.Ints(vals)
		for k := start; k < end; k++ {
			l.pix[l.at(k)+ch] = uint8(vals[k-start])
		}
	}
}

// sortPixels sorts whole pixels over [start, end) by the sorter's metric.
func (ps *PixelSorter) sortPixels(l *line, start, end int) {
	type px struct {
		v    float64
		rgba [4]uint8
	}

	seg := make([]px, end-start)
	for k := start; k < end; k++ {
		i := l.at(k)
		seg[k-start] = px{v: ps.metric(l, k)}
		copy(seg[k-start].rgba[:], l.pix[i:i+4])
	}

	sort.SliceStable(seg, func(i, j int) bool { return seg[i].v < seg[j].v })

	for k := start; k < end; k++ {
		i := l.at(k)
		copy(l.pix[i:i+4], seg[k-start].rgba[:])
	}
}
