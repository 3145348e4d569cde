package frames

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"os"

	"github.com/golang/freetype"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"

	"github.com/tingwen/newscast/internal/logging"
	"github.com/tingwen/newscast/internal/script"
)

// Renderer produces one visual frame per allocated frame slot. The engine
// only depends on this contract; the default implementation below is
// decoration, not correctness.
type Renderer interface {
	Render(block *script.Block, subtitle string, progress float64) (image.Image, error)
}

// candidate CJK-capable fonts, first hit wins
var fontCandidates = []string{
	"/usr/share/fonts/truetype/wqy/wqy-zenhei.ttf",
	"/usr/share/fonts/truetype/wqy/wqy-microhei.ttf",
	"/usr/share/fonts/truetype/arphic/uming.ttf",
	"/usr/share/fonts/truetype/dejavu/DejaVuSans-Bold.ttf",
	"C:/Windows/Fonts/simhei.ttf",
}

// DefaultRenderer draws the broadcast look of the upstream show: dark blue
// gradient, header bar, golden titles, subtitle line, progress bar.
type DefaultRenderer struct {
	width  int
	height int
	font   *truetype.Font
	logger *logging.Logger
}

func NewDefaultRenderer(width, height int, logger *logging.Logger) *DefaultRenderer {
	if logger == nil {
		logger = logging.NewNop()
	}
	r := &DefaultRenderer{
		width:  width,
		height: height,
		logger: logger,
	}
	r.font = findFont(logger)
	return r
}

func findFont(logger *logging.Logger) *truetype.Font {
	if p := os.Getenv("NEWSCAST_FONT_PATH"); p != "" {
		if f := parseFontFile(p); f != nil {
			return f
		}
		logger.Warnw("NEWSCAST_FONT_PATH could not be loaded", "path", p)
	}
	for _, p := range fontCandidates {
		if f := parseFontFile(p); f != nil {
			logger.Debugw("using font", "path", p)
			return f
		}
	}
	logger.Warnw("no usable font found, frames will omit text")
	return nil
}

func parseFontFile(path string) *truetype.Font {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil
	}
	f, err := freetype.ParseFont(data)
	if err != nil {
		return nil
	}
	return f
}

var (
	backgroundTop = color.RGBA{R: 10, G: 22, B: 40, A: 255}
	headerColor   = color.RGBA{R: 0, G: 0, B: 0, A: 255}
	titleGold     = color.RGBA{R: 255, G: 215, B: 0, A: 255}
	subtitleWhite = color.RGBA{R: 240, G: 240, B: 240, A: 255}
	counterGray   = color.RGBA{R: 170, G: 170, B: 170, A: 255}
	progressRed   = color.RGBA{R: 255, G: 51, B: 51, A: 255}
	progressBase  = color.RGBA{R: 51, G: 51, B: 51, A: 255}
)

func (r *DefaultRenderer) Render(block *script.Block, subtitle string, progress float64) (image.Image, error) {
	img := image.NewRGBA(image.Rect(0, 0, r.width, r.height))
	r.drawGradient(img)

	switch block.Scene {
	case script.SceneIntro, script.SceneOutro, script.SceneSection:
		r.drawText(img, block.Title, 96, r.height/2-140, titleGold, true)
	case script.SceneTopic:
		r.drawHeader(img)
		r.drawText(img, block.Title, 56, 220, titleGold, false)
		if block.Total > 0 {
			counter := fmt.Sprintf("%d / %d", block.Index, block.Total)
			r.drawText(img, counter, 28, 90, counterGray, false)
		}
	}

	r.drawText(img, subtitle, 44, r.height-220, subtitleWhite, true)
	r.drawProgressBar(img, progress)

	return img, nil
}

func (r *DefaultRenderer) drawGradient(img *image.RGBA) {
	for y := 0; y < r.height; y++ {
		t := float64(y) / float64(r.height)
		c := color.RGBA{
			R: uint8(float64(backgroundTop.R) + t*15),
			G: uint8(float64(backgroundTop.G) + t*20),
			B: uint8(float64(backgroundTop.B) + t*30),
			A: 255,
		}
		for x := 0; x < r.width; x++ {
			img.SetRGBA(x, y, c)
		}
	}
}

func (r *DefaultRenderer) drawHeader(img *image.RGBA) {
	header := image.Rect(0, 0, r.width, 120)
	draw.Draw(img, header, &image.Uniform{C: headerColor}, image.Point{}, draw.Over)
}

func (r *DefaultRenderer) drawProgressBar(img *image.RGBA, progress float64) {
	if progress < 0 {
		progress = 0
	}
	if progress > 1 {
		progress = 1
	}

	barY := r.height - 80
	barX := 100
	barWidth := r.width - 2*barX
	barHeight := 8

	base := image.Rect(barX, barY, barX+barWidth, barY+barHeight)
	draw.Draw(img, base, &image.Uniform{C: progressBase}, image.Point{}, draw.Over)

	fill := image.Rect(barX, barY, barX+int(float64(barWidth)*progress), barY+barHeight)
	draw.Draw(img, fill, &image.Uniform{C: progressRed}, image.Point{}, draw.Over)
}

// drawText renders one line; centered lays it out horizontally centered,
// otherwise it starts at a fixed left margin. Silently a no-op without a
// usable font.
func (r *DefaultRenderer) drawText(img *image.RGBA, text string, size float64, y int, c color.Color, centered bool) {
	if text == "" || r.font == nil {
		return
	}

	ctx := freetype.NewContext()
	ctx.SetDPI(72)
	ctx.SetFont(r.font)
	ctx.SetFontSize(size)
	ctx.SetClip(img.Bounds())
	ctx.SetDst(img)
	ctx.SetSrc(&image.Uniform{C: c})
	ctx.SetHinting(font.HintingFull)

	x := 100
	if centered {
		width := r.measure(text, size)
		x = (r.width - width) / 2
		if x < 0 {
			x = 0
		}
	}

	pt := freetype.Pt(x, y+int(ctx.PointToFixed(size)>>6))
	if _, err := ctx.DrawString(text, pt); err != nil {
		r.logger.Debugw("draw text failed", "error", err)
	}
}

func (r *DefaultRenderer) measure(text string, size float64) int {
	face := truetype.NewFace(r.font, &truetype.Options{Size: size, DPI: 72})
	defer face.Close()
	return font.MeasureString(face, text).Ceil()
}
