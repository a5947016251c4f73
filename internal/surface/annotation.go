package surface

import (
	"image/color"

	"github.com/google/uuid"
)

// Kind identifies the primitive type.
type Kind int

const (
	KindLine Kind = iota
	KindBox
	KindAxisMarker
	KindGlyph
	KindLabel
)

func (k Kind) String() string {
	switch k {
	case KindLine:
		return "line"
	case KindBox:
		return "box"
	case KindAxisMarker:
		return "axis-marker"
	case KindGlyph:
		return "glyph"
	case KindLabel:
		return "label"
	}
	return "unknown"
}

// CoordMode says how a primitive's coordinates are interpreted.
type CoordMode int

const (
	DataValue CoordMode = iota // axis data values
	Pixel                      // pixels relative to the surface
	Relative                   // 0..1 fraction of the plot rectangle
)

// Annotation is a drawable primitive. Position fields on the concrete types
// are mutated in place between redraws.
type Annotation interface {
	ID() string
	Kind() Kind
	Hidden() bool
	SetHidden(hidden bool)
}

type base struct {
	id     string
	hidden bool
}

func newBase() base { return base{id: uuid.NewString()} }

func (b *base) ID() string            { return b.id }
func (b *base) Hidden() bool          { return b.hidden }
func (b *base) SetHidden(hidden bool) { b.hidden = hidden }

// Line is a straight segment.
type Line struct {
	base
	X1, Y1, X2, Y2 float64
	XMode, YMode   CoordMode
	Stroke         color.RGBA
	Thickness      int
	Dashed         bool
}

// NewLine creates a data-space line.
func NewLine(stroke color.RGBA) *Line {
	return &Line{base: newBase(), Stroke: stroke, Thickness: 1}
}

func (l *Line) Kind() Kind { return KindLine }

// Box is an axis-aligned rectangle between two opposite corners.
type Box struct {
	base
	X1, Y1, X2, Y2 float64
	XMode, YMode   CoordMode
	Fill, Stroke   color.RGBA
	Thickness      int
}

// NewBox creates a data-space box.
func NewBox(fill, stroke color.RGBA) *Box {
	return &Box{base: newBase(), Fill: fill, Stroke: stroke, Thickness: 1}
}

func (b *Box) Kind() Kind { return KindBox }

// MarkerEdge says which side of a range an axis marker labels.
type MarkerEdge int

const (
	EdgeNone MarkerEdge = iota
	EdgeStart
	EdgeEnd
)

// AxisMarker is a value label pinned to one axis.
type AxisMarker struct {
	base
	Axis       Axis
	Value      float64
	Text       string
	Edge       MarkerEdge
	Background color.RGBA
	Foreground color.RGBA
}

// NewAxisMarker creates a marker on axis.
func NewAxisMarker(axis Axis, edge MarkerEdge, bg, fg color.RGBA) *AxisMarker {
	return &AxisMarker{base: newBase(), Axis: axis, Edge: edge, Background: bg, Foreground: fg}
}

func (m *AxisMarker) Kind() Kind { return KindAxisMarker }

// GlyphShape is the small icon drawn by a Glyph.
type GlyphShape int

const (
	GlyphArrow GlyphShape = iota
	GlyphDelete
	GlyphHandle
)

// Glyph is a small icon centred on a point. Rotation is in degrees,
// 0 pointing right, 90 pointing down.
type Glyph struct {
	base
	X, Y         float64
	XMode, YMode CoordMode
	Shape        GlyphShape
	Rotation     float64
	Size         float64
	Color        color.RGBA
}

// NewGlyph creates a glyph.
func NewGlyph(shape GlyphShape, size float64, col color.RGBA) *Glyph {
	return &Glyph{base: newBase(), Shape: shape, Size: size, Color: col}
}

func (g *Glyph) Kind() Kind { return KindGlyph }

// HAnchor is the horizontal anchor of a label relative to its point.
type HAnchor int

const (
	AnchorCenter HAnchor = iota
	AnchorLeft
	AnchorRight
)

// VAnchor is the vertical anchor of a label relative to its point.
type VAnchor int

const (
	AnchorMiddle VAnchor = iota
	AnchorTop
	AnchorBottom
)

// Label is a floating multi-line text box such as the stats tooltip.
type Label struct {
	base
	X, Y         float64
	XMode, YMode CoordMode
	HAnchor      HAnchor
	VAnchor      VAnchor
	Width        float64
	Height       float64
	Lines        []string
	Background   color.RGBA
	Foreground   color.RGBA
	Accent       color.RGBA
}

// NewLabel creates a label.
func NewLabel(width, height float64, bg, fg color.RGBA) *Label {
	return &Label{base: newBase(), Width: width, Height: height, Background: bg, Foreground: fg}
}

func (l *Label) Kind() Kind { return KindLabel }
