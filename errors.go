package glitch

import "errors"

var (
	// ErrNoDisplay is returned when no X server can be reached.
	ErrNoDisplay = errors.New("no X display available")

	// ErrUnsupportedDepth is returned for captures that are not 32 bits per pixel.
	ErrUnsupportedDepth = errors.New("unsupported screen depth")

	// ErrUnknownMethod is returned for glitch method names we don't know.
	ErrUnknownMethod = errors.New("unknown glitch method")

	// ErrUnknownFormat is returned for pixel format names we don't know.
	ErrUnknownFormat = errors.New("unknown pixel format")

	// ErrBadColor is returned for colours that are not hex codes.
	ErrBadColor = errors.New("invalid hex colour")
)
