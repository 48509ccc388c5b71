package raster

import (
	"fmt"
	"sync"

	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/gobolditalic"
	"golang.org/x/image/font/gofont/goitalic"
	"golang.org/x/image/font/gofont/gomono"
	"golang.org/x/image/font/gofont/goregular"
)

type fontVariant int

const (
	regular fontVariant = iota
	bold
	italic
	boldItalic
	mono
)

var (
	parseOnce   sync.Once
	parsedFonts map[fontVariant]*truetype.Font
	parseErr    error
)

func loadFonts() (map[fontVariant]*truetype.Font, error) {
	parseOnce.Do(func() {
		sources := map[fontVariant][]byte{
			regular:    goregular.TTF,
			bold:       gobold.TTF,
			italic:     goitalic.TTF,
			boldItalic: gobolditalic.TTF,
			mono:       gomono.TTF,
		}
		parsedFonts = make(map[fontVariant]*truetype.Font, len(sources))
		for v, ttf := range sources {
			f, err := truetype.Parse(ttf)
			if err != nil {
				parseErr = fmt.Errorf("parsing font %d: %w", v, err)
				return
			}
			parsedFonts[v] = f
		}
	})
	return parsedFonts, parseErr
}

type faceKey struct {
	variant fontVariant
	size    float64
}

// faceCache hands out faces per capture; truetype faces are not safe for
// concurrent use.
type faceCache struct {
	fonts map[fontVariant]*truetype.Font
	faces map[faceKey]font.Face
}

func newFaceCache() (*faceCache, error) {
	fonts, err := loadFonts()
	if err != nil {
		return nil, err
	}
	return &faceCache{fonts: fonts, faces: make(map[faceKey]font.Face)}, nil
}

// face returns the face for s at the given device pixel size.
func (c *faceCache) face(s style, px float64) font.Face {
	v := regular
	switch {
	case s.mono:
		v = mono
	case s.bold && s.italic:
		v = boldItalic
	case s.bold:
		v = bold
	case s.italic:
		v = italic
	}

	key := faceKey{variant: v, size: px}
	if f, ok := c.faces[key]; ok {
		return f
	}
	f := truetype.NewFace(c.fonts[v], &truetype.Options{
		Size:    px,
		DPI:     72,
		Hinting: font.HintingFull,
	})
	c.faces[key] = f
	return f
}
