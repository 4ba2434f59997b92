package domain

import (
	"image"
	"math"
)

type Message struct {
	ID       int
	ChatID   int64
	Username string
	ImageURL string
	Text     string
}

type Size struct {
	Width  int
	Height int
}

func (s Size) Empty() bool {
	return s.Width <= 0 || s.Height <= 0
}

func (s Size) Pixels() int64 {
	return int64(s.Width) * int64(s.Height)
}

type Point struct {
	X int
	Y int
}

type PointF struct {
	X float64
	Y float64
}

// Pt rounds p to the nearest integer pixel.
func (p PointF) Pt() image.Point {
	return image.Pt(int(math.Round(p.X)), int(math.Round(p.Y)))
}

// Viewport describes the host's drawable area at paint time.
type Viewport struct {
	DpiX          float64
	DpiY          float64
	VisibleWidth  float64
	VisibleHeight float64
	// Location is the surface's top-left corner in its parent's coordinate space.
	Location Point
}

// Drawable returns the integer pixel size of the visible area.
func (v Viewport) Drawable() Size {
	return Size{Width: int(v.VisibleWidth), Height: int(v.VisibleHeight)}
}

type Action string

const (
	Typing       Action = "typing"
	SendingPhoto Action = "sending_photo"
)
