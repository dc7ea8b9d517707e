package render

import (
	"fmt"
	"io"
	"sync"

	"github.com/gogpu/gg"
	"github.com/gogpu/gg/text"
	"golang.org/x/image/font/gofont/goregular"

	"go.ngs.io/surface3d/internal/domain"
)

// Colorbar layout in pixels, shared with the Surface3D widget.
const (
	colorbarWidth  = 150
	colorbarBarX   = 35
	colorbarBarW   = 30
	colorbarTicks  = 5
	colorbarStops  = 256
	colorbarLabel  = 12
	colorbarHeader = 13
)

var fontSource = sync.OnceValues(func() (*text.FontSource, error) {
	return text.NewFontSource(goregular.TTF)
})

// ColorbarRenderer draws the vertical color scale as a PNG strip: vmax at
// the top, vmin at the bottom, five labelled ticks and the title above.
type ColorbarRenderer struct{}

func (*ColorbarRenderer) Format() string      { return FormatColorbar }
func (*ColorbarRenderer) ContentType() string { return "image/png" }

// Render implements Renderer. It returns ErrNothingToRender when the
// colorbar is hidden.
func (*ColorbarRenderer) Render(w io.Writer, p domain.Properties) error {
	if !p.ShowColorbar {
		return ErrNothingToRender
	}

	src, err := fontSource()
	if err != nil {
		return fmt.Errorf("failed to load colorbar font: %w", err)
	}

	width := float64(colorbarWidth)
	height := float64(dimension(p.Height, domain.DefaultHeight))
	dc := gg.NewContext(colorbarWidth, int(height))
	defer dc.Close()

	bg := colorOr(p.BackgroundColor, mustHex(domain.DefaultBackgroundColor))
	fg := colorOr(p.ColorbarTextColor, mustHex(domain.DefaultColorbarTextColor))
	dc.ClearWithColor(gg.FromColor(bg))

	barH := height * 0.7
	barY := (height - barH) / 2

	var errs drawErrors
	colors := Colors(p.Palette, colorbarStops)
	step := barH / float64(len(colors))
	for i := range colors {
		dc.SetColor(colors[len(colors)-1-i])
		dc.DrawRectangle(colorbarBarX, barY+float64(i)*step, colorbarBarW, step+1)
		errs.add(dc.Fill())
	}

	dc.SetColor(fg)
	dc.SetLineWidth(1)
	dc.DrawRectangle(colorbarBarX, barY, colorbarBarW, barH)
	errs.add(dc.Stroke())

	lo, hi := colorRange(p)
	dc.SetFont(src.Face(colorbarLabel))
	for i := range colorbarTicks {
		frac := float64(i) / (colorbarTicks - 1)
		value := lo + (hi-lo)*(1-frac)
		y := barY + frac*barH

		dc.MoveTo(colorbarBarX+colorbarBarW, y)
		dc.LineTo(colorbarBarX+colorbarBarW+5, y)
		errs.add(dc.Stroke())
		dc.DrawString(fmt.Sprintf("%.1f", value), colorbarBarX+colorbarBarW+10, y+4)
	}

	if p.ColorbarTitle != "" {
		dc.SetFont(src.Face(colorbarHeader))
		dc.DrawStringAnchored(p.ColorbarTitle, width/2, barY-12, 0.5, 0)
	}

	if errs.err != nil {
		return fmt.Errorf("failed to draw colorbar: %w", errs.err)
	}
	return dc.EncodePNG(w)
}

// drawErrors keeps the first drawing error.
type drawErrors struct {
	err error
}

func (e *drawErrors) add(err error) {
	if e.err == nil {
		e.err = err
	}
}
