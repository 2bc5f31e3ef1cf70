package chef

import (
	"bytes"
	"fmt"
	"hash/fnv"
	"image"
	"image/color"
	"image/png"
	"math/rand/v2"
	"strings"

	"kitchen-assistant/internal/recipe"

	"golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

const (
	placeholderSize   = 512
	placeholderMargin = 20
	textScale         = 3
)

var placeholderColors = []color.RGBA{
	{0xD0, 0x8A, 0x3E, 0xFF}, // autumn orange
	{0xA0, 0x52, 0x2D, 0xFF},
	{0x6B, 0x3A, 0x28, 0xFF},
	{0x8B, 0x45, 0x13, 0xFF},
	{0xCD, 0x85, 0x3F, 0xFF},
}

// Placeholder draws a 512x512 PNG with a warm background, soft circles and
// the title, and returns it as a data URI. The same title always yields the
// same image.
func Placeholder(title string) (string, error) {
	h := fnv.New64a()
	_, _ = h.Write([]byte(title))
	seed := h.Sum64()

	img := image.NewRGBA(image.Rect(0, 0, placeholderSize, placeholderSize))
	bg := placeholderColors[seed%uint64(len(placeholderColors))]
	draw.Draw(img, img.Bounds(), &image.Uniform{C: bg}, image.Point{}, draw.Src)

	rng := rand.New(rand.NewPCG(seed, seed>>1))
	for i := 0; i < 10; i++ {
		x := rng.IntN(placeholderSize)
		y := rng.IntN(placeholderSize)
		r := 50 + rng.IntN(100)
		fillCircle(img, x, y, r, 0.1)
	}
	fillCircle(img, placeholderSize/2, placeholderSize-100, 50, 0.2)

	drawTitle(img, title)

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return "", fmt.Errorf("failed to encode placeholder: %w", err)
	}
	return recipe.EncodePNGDataURI(buf.Bytes()), nil
}

// fillCircle blends white into the disc at the given opacity.
func fillCircle(img *image.RGBA, cx, cy, r int, alpha float64) {
	b := img.Bounds()
	for y := max(cy-r, b.Min.Y); y < min(cy+r, b.Max.Y); y++ {
		for x := max(cx-r, b.Min.X); x < min(cx+r, b.Max.X); x++ {
			dx, dy := x-cx, y-cy
			if dx*dx+dy*dy > r*r {
				continue
			}
			c := img.RGBAAt(x, y)
			c.R = blend(c.R, alpha)
			c.G = blend(c.G, alpha)
			c.B = blend(c.B, alpha)
			img.SetRGBA(x, y, c)
		}
	}
}

func blend(v uint8, alpha float64) uint8 {
	return uint8(float64(v)*(1-alpha) + 255*alpha)
}

// drawTitle renders the title in white, wrapped and centered, using the
// basic bitmap face scaled up.
func drawTitle(dst *image.RGBA, title string) {
	face := basicfont.Face7x13
	lines := wrapWords(title, (placeholderSize-2*placeholderMargin)/(face.Advance*textScale))
	if len(lines) == 0 {
		return
	}

	lineHeight := face.Height * textScale
	y := placeholderSize/2 - lineHeight*min(len(lines), 3)/2
	for _, line := range lines {
		w := font.MeasureString(face, line).Ceil()
		if w <= 0 {
			continue
		}
		small := image.NewRGBA(image.Rect(0, 0, w, face.Height))
		d := &font.Drawer{
			Dst:  small,
			Src:  image.White,
			Face: face,
			Dot:  fixed.P(0, face.Ascent),
		}
		d.DrawString(line)

		sw, sh := w*textScale, face.Height*textScale
		x := (placeholderSize - sw) / 2
		draw.NearestNeighbor.Scale(dst, image.Rect(x, y, x+sw, y+sh), small, small.Bounds(), draw.Over, nil)
		y += lineHeight
	}
}

// wrapWords splits s into lines of at most width characters, breaking on
// spaces. A single word longer than width gets its own line.
func wrapWords(s string, width int) []string {
	var lines []string
	var cur string
	for _, word := range strings.Fields(s) {
		switch {
		case cur == "":
			cur = word
		case len(cur)+1+len(word) <= width:
			cur += " " + word
		default:
			lines = append(lines, cur)
			cur = word
		}
	}
	if cur != "" {
		lines = append(lines, cur)
	}
	return lines
}
