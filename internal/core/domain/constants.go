package domain

import "errors"

var (
	ErrNoImage            = errors.New("no image loaded")
	ErrInvalidDimension   = errors.New("invalid image dimension")
	ErrIO                 = errors.New("image i/o failed")
	ErrUnsupportedFormat  = errors.New("unsupported image format")
	ErrSendingReplyFailed = errors.New("failed to send reply")
)

// DefaultResolution is used whenever an image carries no usable resolution.
const DefaultResolution = 96.0

// DefaultMaxPixels bounds decoded and resized images, about 160 MB of NRGBA.
const DefaultMaxPixels = 40_000_000
