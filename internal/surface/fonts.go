package surface

import (
	"fmt"
	"sync"

	"github.com/gogpu/gg/text"
	"golang.org/x/image/font/gofont/goregular"
)

// Fonts caches faces of one font source by pixel size.
type Fonts struct {
	mu     sync.Mutex
	source *text.FontSource
	faces  map[float64]text.Face
}

// LoadFonts parses the bundled Go Regular font.
func LoadFonts() (*Fonts, error) {
	src, err := text.NewFontSource(goregular.TTF)
	if err != nil {
		return nil, fmt.Errorf("loading go regular font: %w", err)
	}
	return &Fonts{source: src, faces: make(map[float64]text.Face)}, nil
}

// Face returns the face for a device pixel size.
func (f *Fonts) Face(px float64) text.Face {
	f.mu.Lock()
	defer f.mu.Unlock()
	if face, ok := f.faces[px]; ok {
		return face
	}
	face := f.source.Face(px)
	f.faces[px] = face
	return face
}

// Close releases the font source.
func (f *Fonts) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.faces = nil
	return f.source.Close()
}
