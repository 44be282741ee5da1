package countrybed

import (
	"context"
	"fmt"
	"image"
	_ "image/gif"  // register gif
	_ "image/jpeg" // register jpeg
	_ "image/png"  // register png
	"io"
	"net/http"
	"strings"

	"golang.org/x/image/draw"
)

// Renderer turns a flag image into lines of text.
type Renderer interface {
	Render(ctx context.Context, imageURL string) ([]string, error)
}

// DefaultFlagWidth is the art width in characters.
const DefaultFlagWidth = 40

// maxFlagBytes caps a single flag download.
const maxFlagBytes = 4 << 20

// asciiRamp goes from dark to light.
const asciiRamp = "@%#*+=-:. "

// ASCIIRenderer downloads an image and maps its luminance onto asciiRamp.
type ASCIIRenderer struct {
	Client *http.Client
	Width  int
}

// NewASCIIRenderer uses cfg.HTTPClient and DefaultFlagWidth.
func NewASCIIRenderer(cfg *Config) *ASCIIRenderer {
	return &ASCIIRenderer{Client: cfg.HTTPClient, Width: DefaultFlagWidth}
}

// Render fetches imageURL and returns the art, one string per row.
// SVG is not decodable here and fails like any other unknown format.
func (r *ASCIIRenderer) Render(ctx context.Context, imageURL string) ([]string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, imageURL, nil)
	if err != nil {
		return nil, &FetchError{URL: imageURL, Err: err}
	}
	resp, err := r.Client.Do(req)
	if err != nil {
		return nil, &FetchError{URL: imageURL, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return nil, &FetchError{URL: imageURL, StatusCode: resp.StatusCode, Body: string(body)}
	}

	img, _, err := image.Decode(io.LimitReader(resp.Body, maxFlagBytes))
	if err != nil {
		return nil, fmt.Errorf("decoding %s: %w", imageURL, err)
	}
	return asciiArt(img, r.Width), nil
}

// asciiArt scales img to width columns. Rows are halved because a
// terminal cell is roughly twice as tall as it is wide.
func asciiArt(img image.Image, width int) []string {
	if width <= 0 {
		width = DefaultFlagWidth
	}
	b := img.Bounds()
	if b.Dx() == 0 || b.Dy() == 0 {
		return nil
	}
	height := b.Dy() * width / b.Dx() / 2
	if height < 1 {
		height = 1
	}

	dst := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.ApproxBiLinear.Scale(dst, dst.Bounds(), img, b, draw.Over, nil)

	lines := make([]string, 0, height)
	ramp := []byte(asciiRamp)
	for y := 0; y < height; y++ {
		var sb strings.Builder
		sb.Grow(width)
		for x := 0; x < width; x++ {
			c := dst.RGBAAt(x, y)
			// Rec. 601 luma, 0..255.
			lum := (299*int(c.R) + 587*int(c.G) + 114*int(c.B)) / 1000
			sb.WriteByte(ramp[lum*(len(ramp)-1)/255])
		}
		lines = append(lines, sb.String())
	}
	return lines
}
