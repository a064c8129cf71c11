package isomap

import (
	"fmt"
	"image"
	"image/color"
	"os"
	"path/filepath"
	"sync"

	"github.com/gogpu/gg"

	"github.com/stuarthighley/rott/rtl"
	"github.com/stuarthighley/rott/wad"
)

// labelFontName is the archive font all annotations are set in.
const labelFontName = "NEWFNT1"

// Renderer turns levels into isometric map images against one archive.
// Levels may render concurrently on one Renderer; all per-level state
// is created per render.
type Renderer struct {
	wad  *wad.WAD
	opts Options

	// Policy overrides the occlusion policy named in the options when
	// set. Set it before the first render.
	Policy OcclusionPolicy

	fontMu sync.Mutex
	fonts  map[color.RGBA]*labelFont
}

// New builds a renderer over an open archive.
func New(w *wad.WAD, opts Options) (*Renderer, error) {
	if _, err := policyFor(opts.Occlusion); err != nil {
		return nil, err
	}
	if opts.SpriteScale <= 0 {
		opts.SpriteScale = DefaultOptions().SpriteScale
	}
	return &Renderer{wad: w, opts: opts, fonts: map[color.RGBA]*labelFont{}}, nil
}

func (r *Renderer) policy() OcclusionPolicy {
	if r.Policy != nil {
		return r.Policy
	}
	policy, err := policyFor(r.opts.Occlusion)
	if err != nil {
		return OverlapObscures
	}
	return policy
}

func (r *Renderer) font(tint color.RGBA) (*labelFont, error) {
	r.fontMu.Lock()
	defer r.fontMu.Unlock()
	if f, ok := r.fonts[tint]; ok {
		return f, nil
	}
	font, err := r.wad.GetFont(labelFontName)
	if err != nil {
		return nil, err
	}
	f, err := newLabelFont(font, r.wad.Palette, tint)
	if err != nil {
		return nil, err
	}
	r.fonts[tint] = f
	return f, nil
}

// RenderLevel draws one level to an image cropped to its drawn extent.
func (r *Renderer) RenderLevel(level *rtl.Level) (image.Image, error) {
	logger.Printf("Rendering level %v (%v)", level.Index+1, level.Name)
	height := level.Height
	if height < 64 {
		logger.Printf("Level %v: wall height %v unusable, drawing at 64", level.Index+1, height)
		height = 64
	}

	ts, err := r.newTileSet(level.Floor, height)
	if err != nil {
		return nil, fmt.Errorf("level %v (%v): %w", level.Index+1, level.Name, err)
	}
	markFont, err := r.font(markColor)
	if err != nil {
		logger.Printf("Level %v: no annotation font: %v", level.Index+1, err)
		markFont = nil
	}
	ss := r.newSpriteSet(height, markFont)

	p := &projector{level: level, ts: ts, ss: ss, height: height}
	p.run()
	if p.extent.Empty() {
		logger.Printf("Level %v: nothing to draw", level.Index+1)
		return image.NewNRGBA(image.Rect(0, 0, 1, 1)), nil
	}

	ctx := gg.NewContext(p.extent.Dx(), p.extent.Dy())
	ctx.SetColor(r.opts.background())
	ctx.DrawRectangle(0, 0, float64(p.extent.Dx()), float64(p.extent.Dy()))
	if err := ctx.Fill(); err != nil {
		return nil, err
	}

	origin := p.extent.Min
	for i := range p.items {
		item := &p.items[i]
		blit(ctx, item.img, item.at.Sub(origin))
		if item.hasEdge {
			if err := line(ctx, item.edge[0].Sub(origin), item.edge[1].Sub(origin), edgeGray); err != nil {
				return nil, err
			}
		}
	}
	if err := r.pointObscured(ctx, p, origin); err != nil {
		return nil, err
	}
	if err := r.annotate(ctx, p, origin); err != nil {
		return nil, err
	}
	return ctx.Image(), nil
}

// pointObscured finds important items hidden behind later-drawn walls
// and redraws them above the map with a pointer to the true position.
func (r *Renderer) pointObscured(ctx *gg.Context, p *projector, origin image.Point) error {
	policy := r.policy()
	for i := range p.items {
		item := &p.items[i]
		if item.kind != itemSprite || !item.important {
			continue
		}
		if !r.obscured(p.items[i+1:], itemBounds(item), policy) {
			continue
		}
		blit(ctx, item.img, image.Pt(item.at.X, item.anchor.Y-72).Sub(origin))
		to := image.Pt(item.anchor.X, item.anchor.Y+p.height-24-item.elev)
		if err := twoTone(ctx, item.anchor.Sub(origin), to.Sub(origin), obscuredTones); err != nil {
			return err
		}
	}
	return nil
}

func (r *Renderer) obscured(later []drawItem, box image.Rectangle, policy OcclusionPolicy) bool {
	for i := range later {
		item := &later[i]
		if item.kind != itemWall && item.kind != itemThin {
			continue
		}
		if policy(box, itemBounds(item)) {
			return true
		}
	}
	return false
}

func itemBounds(item *drawItem) image.Rectangle {
	b := item.img.Bounds()
	return image.Rectangle{Min: item.at, Max: item.at.Add(image.Pt(b.Dx(), b.Dy()))}
}

func (r *Renderer) annotate(ctx *gg.Context, p *projector, origin image.Point) error {
	for _, note := range p.notes {
		if note.hasLine {
			if err := twoTone(ctx, note.line[0].Sub(origin), note.line[1].Sub(origin), note.tones); err != nil {
				return err
			}
		}
		if note.img != nil {
			blit(ctx, note.img, note.at.Sub(origin))
			continue
		}
		font, err := r.font(note.tint)
		if err != nil {
			logger.Printf("Dropping %q annotation: %v", note.text, err)
			continue
		}
		size := font.Measure(note.text)
		if size.X == 0 {
			continue
		}
		overlay := newNRGBA(size.X, size.Y)
		font.Write(overlay, image.Point{}, note.text)
		blit(ctx, overlay, note.at.Sub(origin))
	}
	return nil
}

func blit(ctx *gg.Context, img *image.NRGBA, at image.Point) {
	ctx.DrawImage(gg.ImageBufFromImage(img), float64(at.X), float64(at.Y))
}

func line(ctx *gg.Context, from, to image.Point, c color.RGBA) error {
	ctx.SetColor(c)
	ctx.DrawLine(float64(from.X), float64(from.Y), float64(to.X), float64(to.Y))
	return ctx.Stroke()
}

func twoTone(ctx *gg.Context, from, to image.Point, tones [2]color.RGBA) error {
	if err := line(ctx, from, to, tones[0]); err != nil {
		return err
	}
	return line(ctx, from.Add(image.Pt(1, 0)), to.Add(image.Pt(1, 0)), tones[1])
}

// OutputName is the image file name for a level: slot number plus the
// stored level name.
func OutputName(level *rtl.Level) string {
	return fmt.Sprintf("%02d-%s.png", level.Index+1, level.Name)
}

// WritePNG renders a level into the directory and returns the path.
func (r *Renderer) WritePNG(level *rtl.Level, dir string) (string, error) {
	img, err := r.RenderLevel(level)
	if err != nil {
		return "", err
	}
	path := filepath.Join(dir, OutputName(level))
	f, err := os.Create(path)
	if err != nil {
		return "", err
	}
	if err := gg.NewContextForImage(img).EncodePNG(f); err != nil {
		f.Close()
		return "", err
	}
	return path, f.Close()
}
