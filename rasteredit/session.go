// Package rasteredit is a single-image annotation tool, independent of
// the document pipeline: vector-style tools drawn into a full-resolution
// raster buffer, pinch zoom/pan, and bounded undo/redo over full-frame
// snapshots.
package rasteredit

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"math"
	"time"

	"github.com/google/uuid"
	colorful "github.com/lucasb-eyer/go-colorful"

	"github.com/hauspek/reportkit/coords"
	"github.com/hauspek/reportkit/geo"
	"github.com/hauspek/reportkit/observability"
	"github.com/hauspek/reportkit/raster"
	"github.com/hauspek/reportkit/text"
)

// Tool selects the active drawing tool.
type Tool int

const (
	ToolPen Tool = iota
	ToolArrow
	ToolCircle
	ToolText
)

// Zoom clamp range.
const (
	MinZoom = 0.5
	MaxZoom = 8.0
)

// doubleTapWindow is how close together two taps must land to reset the
// view.
const doubleTapWindow = 300 * time.Millisecond

// Session is one single-image editing session. It is discarded on
// save/cancel; loading a new image resets history, zoom and pan.
type Session struct {
	id  string
	img *image.RGBA

	history *History
	tool    Tool
	col     color.RGBA
	width   int

	zoom float64
	pan  geo.Point

	// Single-pointer drawing state, in image space.
	drawing   bool
	last      geo.Point
	start     geo.Point
	preStroke *image.RGBA

	// Text tool insertion point.
	caret    geo.Point
	hasCaret bool

	// Two-finger gesture state, in screen space.
	touches      map[int]geo.Point
	lastDist     float64
	lastCentroid geo.Point
	lastTapAt    time.Time
	lastTapPos   geo.Point

	measurer *text.Measurer
	logger   observability.Logger
}

// Option configures a session.
type Option func(*Session)

// WithHistoryCapacity overrides the undo window size.
func WithHistoryCapacity(n int) Option {
	return func(s *Session) { s.history = NewHistory(n, s.img) }
}

// WithTool sets the initial tool.
func WithTool(t Tool) Option {
	return func(s *Session) { s.tool = t }
}

// WithLogger installs a logger.
func WithLogger(l observability.Logger) Option {
	return func(s *Session) { s.logger = l }
}

// NewSession starts a session over a copy of the given image.
func NewSession(img image.Image, opts ...Option) (*Session, error) {
	m, err := text.NewMeasurer()
	if err != nil {
		return nil, fmt.Errorf("rasteredit: %w", err)
	}
	s := &Session{
		id:       uuid.NewString(),
		img:      toRGBA(img),
		tool:     ToolPen,
		col:      color.RGBA{192, 57, 43, 255},
		width:    4,
		zoom:     1,
		touches:  make(map[int]geo.Point),
		measurer: m,
		logger:   observability.NopLogger{},
	}
	s.history = NewHistory(DefaultHistoryCapacity, s.img)
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// ID returns the session id.
func (s *Session) ID() string { return s.id }

// Image returns the current full-resolution buffer. Callers own the
// returned copy.
func (s *Session) Image() *image.RGBA { return cloneRGBA(s.img) }

// LoadImage swaps in a new image, resetting history, zoom and pan.
// Gesture pointers are cleared too; nothing leaks across image swaps.
func (s *Session) LoadImage(img image.Image) {
	s.img = toRGBA(img)
	s.history.Reset(s.img)
	s.zoom = 1
	s.pan = geo.Point{}
	s.touches = make(map[int]geo.Point)
	s.drawing = false
	s.preStroke = nil
	s.hasCaret = false
}

// SetTool switches the active tool. An in-flight stroke is abandoned.
func (s *Session) SetTool(t Tool) {
	s.tool = t
	s.drawing = false
	s.preStroke = nil
}

// SetColor sets the drawing color from a hex string like "#c0392b".
func (s *Session) SetColor(hex string) error {
	c, err := colorful.Hex(hex)
	if err != nil {
		return fmt.Errorf("rasteredit: parse color %q: %w", hex, err)
	}
	r, g, b := c.RGB255()
	s.col = color.RGBA{r, g, b, 255}
	return nil
}

// SetStrokeWidth sets the pen/arrow/circle stroke width in image pixels.
func (s *Session) SetStrokeWidth(w int) {
	if w < 1 {
		w = 1
	}
	s.width = w
}

// View returns the image→screen transform.
func (s *Session) View() coords.Matrix {
	return coords.Scale(s.zoom, s.zoom).Multiply(coords.Translate(s.pan.X, s.pan.Y))
}

// Zoom returns the current zoom factor.
func (s *Session) Zoom() float64 { return s.zoom }

// Pan returns the current pan offset in screen pixels.
func (s *Session) Pan() geo.Point { return s.pan }

// toImage maps a screen point through the inverse of the view transform
// into the full-resolution buffer, so edits stay crisp at any zoom.
func (s *Session) toImage(p geo.Point) geo.Point {
	inv, err := s.View().Inverse()
	if err != nil {
		return p
	}
	return inv.Apply(p)
}

// PointerDown starts a draw gesture at the screen point.
func (s *Session) PointerDown(p geo.Point) {
	ip := s.toImage(p)
	s.drawing = true
	s.start = ip
	s.last = ip
	// Live preview for arrow/circle redraws from this snapshot each
	// move, so the shape never leaves trails. It doubles as the
	// committed pre-state check.
	s.preStroke = cloneRGBA(s.img)

	switch s.tool {
	case ToolPen:
		raster.Disc(s.img, round(ip.X), round(ip.Y), s.width/2, s.col)
	case ToolText:
		s.caret = ip
		s.hasCaret = true
		s.drawing = false
		s.preStroke = nil
	}
}

// PointerMove extends the gesture.
func (s *Session) PointerMove(p geo.Point) {
	if !s.drawing {
		return
	}
	ip := s.toImage(p)
	switch s.tool {
	case ToolPen:
		raster.ThickLine(s.img, round(s.last.X), round(s.last.Y), round(ip.X), round(ip.Y), s.width, s.col)
		s.last = ip
	case ToolArrow:
		copy(s.img.Pix, s.preStroke.Pix)
		raster.Arrow(s.img, round(s.start.X), round(s.start.Y), round(ip.X), round(ip.Y), s.width, s.col)
		s.last = ip
	case ToolCircle:
		copy(s.img.Pix, s.preStroke.Pix)
		raster.Ellipse(s.img, boundingBox(s.start, ip), s.width, s.col)
		s.last = ip
	}
}

// PointerUp ends the gesture and commits it to history.
func (s *Session) PointerUp() {
	if !s.drawing {
		return
	}
	s.drawing = false
	s.preStroke = nil
	s.history.Commit(s.img)
}

// CommitText draws the pending text at the insertion point with an
// outline stroke then a fill, legible over any background.
func (s *Session) CommitText(str string) error {
	if !s.hasCaret || str == "" {
		return nil
	}
	size := float64(14 + 3*s.width)
	face, err := s.measurer.Face(text.Bold, size)
	if err != nil {
		return err
	}
	outline := contrastColor(s.col)
	raster.OutlinedText(s.img, str, round(s.caret.X), round(s.caret.Y), face, s.col, outline)
	s.hasCaret = false
	s.history.Commit(s.img)
	return nil
}

// Undo restores the previous snapshot.
func (s *Session) Undo() bool {
	snap, ok := s.history.Undo()
	if ok {
		s.img = cloneRGBA(snap)
	}
	return ok
}

// Redo restores the next snapshot.
func (s *Session) Redo() bool {
	snap, ok := s.history.Redo()
	if ok {
		s.img = cloneRGBA(snap)
	}
	return ok
}

// TouchDown registers a touch pointer for the pinch/pan gesture layer.
func (s *Session) TouchDown(id int, p geo.Point, at time.Time) {
	s.touches[id] = p
	if len(s.touches) == 1 {
		if at.Sub(s.lastTapAt) < doubleTapWindow && geo.Dist(p, s.lastTapPos) < 40 {
			s.ResetView()
		}
		s.lastTapAt = at
		s.lastTapPos = p
	}
	if len(s.touches) == 2 {
		// Two fingers cancel any drawing in progress.
		s.drawing = false
		if s.preStroke != nil {
			copy(s.img.Pix, s.preStroke.Pix)
			s.preStroke = nil
		}
		a, b := s.twoTouches()
		s.lastDist = geo.Dist(a, b)
		s.lastCentroid = geo.Midpoint(a, b)
	}
}

// TouchMove updates the pinch gesture: the distance ratio drives zoom
// (clamped), the centroid delta drives pan.
func (s *Session) TouchMove(id int, p geo.Point) {
	if _, ok := s.touches[id]; !ok {
		return
	}
	s.touches[id] = p
	if len(s.touches) != 2 {
		return
	}
	a, b := s.twoTouches()
	dist := geo.Dist(a, b)
	centroid := geo.Midpoint(a, b)

	if s.lastDist > 0 && dist > 0 {
		ratio := dist / s.lastDist
		s.zoomAt(centroid, ratio)
	}
	s.pan.X += centroid.X - s.lastCentroid.X
	s.pan.Y += centroid.Y - s.lastCentroid.Y

	s.lastDist = dist
	s.lastCentroid = centroid
}

// TouchUp removes a touch pointer. Unknown ids are cleared defensively.
func (s *Session) TouchUp(id int) {
	delete(s.touches, id)
	s.lastDist = 0
}

// ResetView restores zoom and pan to identity.
func (s *Session) ResetView() {
	s.zoom = 1
	s.pan = geo.Point{}
}

// zoomAt scales the view about the given screen point, keeping that point
// fixed.
func (s *Session) zoomAt(c geo.Point, ratio float64) {
	z := s.zoom * ratio
	if z < MinZoom {
		z = MinZoom
	}
	if z > MaxZoom {
		z = MaxZoom
	}
	r := z / s.zoom
	s.pan.X = c.X - (c.X-s.pan.X)*r
	s.pan.Y = c.Y - (c.Y-s.pan.Y)*r
	s.zoom = z
}

func (s *Session) twoTouches() (geo.Point, geo.Point) {
	pts := make([]geo.Point, 0, 2)
	for _, p := range s.touches {
		pts = append(pts, p)
		if len(pts) == 2 {
			break
		}
	}
	return pts[0], pts[1]
}

// contrastColor picks white or black, whichever reads better against c.
func contrastColor(c color.RGBA) color.Color {
	cc, _ := colorful.MakeColor(c)
	if _, _, l := cc.Hsl(); l > 0.5 {
		return color.Black
	}
	return color.White
}

func boundingBox(a, b geo.Point) image.Rectangle {
	return image.Rect(round(a.X), round(a.Y), round(b.X), round(b.Y)).Canon()
}

func round(v float64) int { return int(math.Round(v)) }

func toRGBA(img image.Image) *image.RGBA {
	if m, ok := img.(*image.RGBA); ok {
		return cloneRGBA(m)
	}
	dst := image.NewRGBA(img.Bounds().Sub(img.Bounds().Min))
	draw.Draw(dst, dst.Bounds(), img, img.Bounds().Min, draw.Src)
	return dst
}
