package glitch

import (
	"context"
	"image"
	"math/rand"
	"time"
)

// Renderer represents something that turns one image into another
type Renderer interface {
	// Render a new image from src. src is never modified.
	Render(src image.Image) (image.Image, error)

	// Params reports the settings the renderer runs with (for the journal)
	Params() *Params
}

// Capturer represents somewhere we can grab a raw frame from
type Capturer interface {
	// Capture a single frame
	Capture(ctx context.Context) (*Frame, error)
}

// NewRand returns a random source for `seed` along with the seed used.
// A zero seed is replaced with one derived from the clock.
func NewRand(seed int64) (*rand.Rand, int64) {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return rand.New(rand.NewSource(seed)), seed
}

// randint returns an int in [a, b] (inclusive on both ends)
func randint(rng *rand.Rand, a, b int) int {
	if b <= a {
		return a
	}
	return a + rng.Intn(b-a+1)
}

// uniform returns a float in [a, b)
func uniform(rng *rand.Rand, a, b float64) float64 {
	return a + (b-a)*rng.Float64()
}
