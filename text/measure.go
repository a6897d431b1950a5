// Package text wraps x/image/font for the measuring and face handling the
// layout and render stages share. All widths are expressed in the same
// unit as the requested size, so the layout engine can work in document
// units while the renderer works in pixels.
package text

import (
	"fmt"
	"strings"
	"sync"

	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goitalic"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
)

// Style selects one of the embedded faces.
type Style int

const (
	Regular Style = iota
	Bold
	Italic
)

// referenceSize is the pixel size widths are measured at; widths scale
// linearly from it.
const referenceSize = 64.0

// Measurer measures text and vends font faces. The parsed fonts are
// immutable and shared; faces are not, because an opentype face reuses
// internal glyph buffers across calls. Measurement is serialized
// internally, and Face returns a fresh face per call, so a Measurer is
// safe for concurrent use by the per-page rasterization tasks as long as
// no single face crosses goroutines.
type Measurer struct {
	fonts [3]*opentype.Font

	mu      sync.Mutex
	measure [3]font.Face // referenceSize faces, guarded by mu
}

// NewMeasurer parses the embedded Go fonts. Failure here is fatal for the
// generation attempt; there is no fallback face.
func NewMeasurer() (*Measurer, error) {
	m := &Measurer{}
	for style, data := range map[Style][]byte{
		Regular: goregular.TTF,
		Bold:    gobold.TTF,
		Italic:  goitalic.TTF,
	} {
		f, err := opentype.Parse(data)
		if err != nil {
			return nil, fmt.Errorf("text: parse embedded font: %w", err)
		}
		m.fonts[style] = f
		face, err := opentype.NewFace(f, &opentype.FaceOptions{
			Size:    referenceSize,
			DPI:     72,
			Hinting: font.HintingNone,
		})
		if err != nil {
			return nil, fmt.Errorf("text: measuring face %v: %w", style, err)
		}
		m.measure[style] = face
	}
	return m, nil
}

// Face returns a new face at the given pixel size. Each call allocates:
// faces buffer glyph rasterization and must stay confined to one
// goroutine, so every rasterization task requests its own.
func (m *Measurer) Face(style Style, px float64) (font.Face, error) {
	f, err := opentype.NewFace(m.fonts[style], &opentype.FaceOptions{
		Size:    px,
		DPI:     72,
		Hinting: font.HintingNone,
	})
	if err != nil {
		return nil, fmt.Errorf("text: face %v@%.2f: %w", style, px, err)
	}
	return f, nil
}

// Width returns the advance of s at the given size, in the size's unit.
func (m *Measurer) Width(s string, size float64) float64 {
	return m.WidthStyled(s, size, Regular)
}

// WidthStyled measures with a specific face.
func (m *Measurer) WidthStyled(s string, size float64, style Style) float64 {
	m.mu.Lock()
	adv := font.MeasureString(m.measure[style], s)
	m.mu.Unlock()
	px := float64(adv) / 64.0
	return px * size / referenceSize
}

// Wrap splits s into lines no wider than maxWidth at the given size.
// Words longer than a full line break mid-word.
func (m *Measurer) Wrap(s string, size, maxWidth float64) []string {
	return m.WrapStyled(s, size, maxWidth, Regular)
}

// WrapStyled is Wrap with an explicit face.
func (m *Measurer) WrapStyled(s string, size, maxWidth float64, style Style) []string {
	words := strings.Fields(s)
	if len(words) == 0 {
		return nil
	}
	spaceW := m.WidthStyled(" ", size, style)

	var lines []string
	var line strings.Builder
	lineW := 0.0

	flush := func() {
		if line.Len() > 0 {
			lines = append(lines, line.String())
			line.Reset()
			lineW = 0
		}
	}

	for _, word := range words {
		w := m.WidthStyled(word, size, style)
		if w > maxWidth {
			// Break the word rune-by-rune.
			flush()
			for _, r := range word {
				rw := m.WidthStyled(string(r), size, style)
				if lineW+rw > maxWidth {
					flush()
				}
				line.WriteRune(r)
				lineW += rw
			}
			continue
		}
		add := w
		if line.Len() > 0 {
			add += spaceW
		}
		if lineW+add > maxWidth {
			flush()
			add = w
		}
		if line.Len() > 0 {
			line.WriteByte(' ')
		}
		line.WriteString(word)
		lineW += add
	}
	flush()
	return lines
}
