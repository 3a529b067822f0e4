package glitch

import (
	"fmt"
	"math/rand"
	"sort"
	"strings"
)

// Method is a single glitch effect. Effects work on one row segment of a
// frame buffer at a time, touching the first three bytes of every 4 byte
// pixel (block-transfer ignores pixel boundaries).
type Method int

const (
	// simple methods
	SwapChannels Method = iota
	InvertColors
	ChannelShift
	ChannelSeparation
	PixelSorting
	RandomNoise
	ChannelWrap
	ExtremeContrast
	ColorReduction
	ChannelZeroing

	// complex methods
	PixelSortEffect
	DataBending
	NoiseInjection
	ChannelManipulation
	BlockTransfer
	ScanlineEffect

	numMethods
)

var methodNames = [numMethods]string{
	"swap-channels",
	"invert-colors",
	"channel-shift",
	"channel-separation",
	"pixel-sorting",
	"random-noise",
	"channel-wrap",
	"extreme-contrast",
	"color-reduction",
	"channel-zeroing",
	"pixel-sort-effect",
	"data-bending",
	"noise-injection",
	"channel-manipulation",
	"block-transfer",
	"scanline-effect",
}

const (
	noiseChance = 0.3
	zeroChance  = 0.2

	separationStep = 50

	minBlock = 4
	maxBlock = 32
)

func (m Method) String() string {
	if m < 0 || m >= numMethods {
		return fmt.Sprintf("Method(%d)", int(m))
	}
	return methodNames[m]
}

// Complex reports if m is applied to sub-regions (rather than whole screen bands)
func (m Method) Complex() bool {
	return m >= PixelSortEffect && m < numMethods
}

// SimpleMethods lists the simple methods in order
func SimpleMethods() []Method {
	out := []Method{}
	for m := SwapChannels; m < PixelSortEffect; m++ {
		out = append(out, m)
	}
	return out
}

// ComplexMethods lists the complex methods in order
func ComplexMethods() []Method {
	out := []Method{}
	for m := PixelSortEffect; m < numMethods; m++ {
		out = append(out, m)
	}
	return out
}

// ParseMethod reads a method name, underscores & dashes are interchangeable
func ParseMethod(s string) (Method, error) {
	s = strings.ReplaceAll(strings.ToLower(strings.TrimSpace(s)), "_", "-")
	for i, name := range methodNames {
		if s == name {
			return Method(i), nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownMethod, s)
}

// MethodSet holds which methods may be picked
type MethodSet struct {
	on [numMethods]bool
}

// AllMethods returns a set with every method enabled
func AllMethods() *MethodSet {
	s := &MethodSet{}
	for i := range s.on {
		s.on[i] = true
	}
	return s
}

// NewMethodSet returns a set holding exactly `in`
func NewMethodSet(in ...Method) *MethodSet {
	s := &MethodSet{}
	for _, m := range in {
		s.on[m] = true
	}
	return s
}

// Configure enables / disables methods by name. Naming anything to enable
// first clears the set, so only named methods remain; disabled names are
// then removed.
func (s *MethodSet) Configure(enable, disable []string) error {
	if len(enable) > 0 {
		on := [numMethods]bool{}
		for _, name := range enable {
			m, err := ParseMethod(name)
			if err != nil {
				return err
			}
			on[m] = true
		}
		s.on = on
	}

	for _, name := range disable {
		m, err := ParseMethod(name)
		if err != nil {
			return err
		}
		s.on[m] = false
	}
	return nil
}

// Has reports if m is enabled
func (s *MethodSet) Has(m Method) bool {
	return m >= 0 && m < numMethods && s.on[m]
}

// Simple lists enabled simple methods in order
func (s *MethodSet) Simple() []Method {
	out := []Method{}
	for _, m := range SimpleMethods() {
		if s.on[m] {
			out = append(out, m)
		}
	}
	return out
}

// Complex lists enabled complex methods in order
func (s *MethodSet) Complex() []Method {
	out := []Method{}
	for _, m := range ComplexMethods() {
		if s.on[m] {
			out = append(out, m)
		}
	}
	return out
}

// Names of all enabled methods, in order
func (s *MethodSet) Names() []string {
	out := []string{}
	for m := Method(0); m < numMethods; m++ {
		if s.on[m] {
			out = append(out, m.String())
		}
	}
	return out
}

// Apply m to data[offset:end], one row of a glitch region.
func (m Method) Apply(data []byte, offset, end, row int, rng *rand.Rand) {
	switch m {
	case SwapChannels:
		for i := offset; i < end-2; i += 4 {
			data[i], data[i+1], data[i+2] = data[i+2], data[i], data[i+1]
		}
	case InvertColors:
		for i := offset; i < end-2; i += 4 {
			data[i] = 255 - data[i]
			data[i+1] = 255 - data[i+1]
			data[i+2] = 255 - data[i+2]
		}
	case ChannelShift, DataBending:
		// reads past the segment wrap around to the start of the buffer
		for i := offset; i < end-2; i += 4 {
			shift := randint(rng, 1, 3)
			data[i], data[i+1], data[i+2] =
				data[(i+shift)%end], data[(i+1+shift)%end], data[(i+2+shift)%end]
		}
	case ChannelSeparation:
		for i := offset; i < end-2; i += 4 {
			data[i] = Clamp255(int(data[i]) + separationStep)
			data[i+1] = Clamp255(int(data[i+1]) - separationStep)
		}
	case PixelSorting, PixelSortEffect:
		for i := offset; i < end-2; i += 4 {
			ch := []int{int(data[i]), int(data[i+1]), int(data[i+2])}
			sort.Ints(ch)
			data[i], data[i+1], data[i+2] = uint8(ch[0]), uint8(ch[1]), uint8(ch[2])
		}
	case RandomNoise, NoiseInjection:
		for i := offset; i < end-2; i += 4 {
			if rng.Float64() < noiseChance {
				data[i] = uint8(randint(rng, 0, 255))
				data[i+1] = uint8(randint(rng, 0, 255))
				data[i+2] = uint8(randint(rng, 0, 255))
			}
		}
	case ChannelWrap:
		for i := offset; i < end-2; i += 4 {
			data[i], data[i+1], data[i+2] = data[i+1], data[i+2], data[i]
		}
	case ExtremeContrast:
		for i := offset; i < end-2; i += 4 {
			for c := i; c < i+3; c++ {
				if data[c] > 127 {
					data[c] = 255
				} else {
					data[c] = 0
				}
			}
		}
	case ColorReduction:
		for i := offset; i < end-2; i += 4 {
			data[i] &= 0xF8
			data[i+1] &= 0xFC
			data[i+2] &= 0xF8
		}
	case ChannelZeroing, ChannelManipulation:
		for i := offset; i < end-2; i += 4 {
			for c := i; c < i+3; c++ {
				if rng.Float64() < zeroChance {
					data[c] = 0
				}
			}
		}
	case BlockTransfer:
		size := randint(rng, minBlock, maxBlock)
		for i := offset; i < end-size; i += size {
			src := randint(rng, offset, end-size)
			copy(data[i:i+size], data[src:src+size])
		}
	case ScanlineEffect:
		if row%2 != 0 {
			return
		}
		for i := offset; i < end-2; i += 4 {
			data[i] /= 2
			data[i+1] /= 2
			data[i+2] /= 2
		}
	}
}
