package panel

import (
	"fmt"
	"image/color"
	"math"
	"strconv"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"github.com/lucasb-eyer/go-colorful"

	"github.com/iburimskiy/galaxy/internal/config"
)

// Pointer is the mouse state for one tick.
type Pointer struct {
	X, Y         int
	Pressed      bool
	JustPressed  bool
	JustReleased bool
}

type Kind int

const (
	KindSlider Kind = iota
	KindColor
)

// Field is one editable value bound to a variable elsewhere.
type Field struct {
	Label string
	Kind  Kind
	Range config.Range

	Get      func() float64
	Set      func(float64)
	GetColor func() colorful.Color
	SetColor func(colorful.Color)
}

// Slider binds a float variable.
func Slider(label string, r config.Range, v *float64) *Field {
	return &Field{
		Label: label,
		Kind:  KindSlider,
		Range: r,
		Get:   func() float64 { return *v },
		Set:   func(x float64) { *v = x },
	}
}

// IntSlider binds an int variable; the range step should be integral.
func IntSlider(label string, r config.Range, v *int) *Field {
	return &Field{
		Label: label,
		Kind:  KindSlider,
		Range: r,
		Get:   func() float64 { return float64(*v) },
		Set:   func(x float64) { *v = int(math.Round(x)) },
	}
}

// ColorField binds a color edited through the panel's ColorPicker.
func ColorField(label string, c *colorful.Color) *Field {
	return &Field{
		Label:    label,
		Kind:     KindColor,
		GetColor: func() colorful.Color { return *c },
		SetColor: func(x colorful.Color) { *c = x },
	}
}

// Text is the displayed value.
func (f *Field) Text() string {
	if f.Kind == KindColor {
		return f.GetColor().Hex()
	}
	return strconv.FormatFloat(f.Get(), 'f', f.Range.Decimals(), 64)
}

type Folder struct {
	Title  string
	Open   bool
	Fields []*Field
}

// ColorPicker asks the user for a color. ok is false when the user cancels.
type ColorPicker func(title string, current colorful.Color) (picked colorful.Color, ok bool, err error)

// Panel is a collapsible list of folders. Drags update values live;
// OnFinishChange fires once when an edit completes with a changed value.
type Panel struct {
	X, Y      int
	Width     int
	RowHeight int
	Title     string
	Open      bool
	Folders   []*Folder

	OnFinishChange func()
	PickColor      ColorPicker

	active     *Field
	startValue float64
}

type row struct {
	y      int
	folder *Folder // nil for the title row
	field  *Field  // nil for folder rows
}

func (p *Panel) rows() []row {
	rows := []row{{y: p.Y}}
	if !p.Open {
		return rows
	}
	y := p.Y + p.RowHeight
	for _, f := range p.Folders {
		rows = append(rows, row{y: y, folder: f})
		y += p.RowHeight
		if !f.Open {
			continue
		}
		for _, fld := range f.Fields {
			rows = append(rows, row{y: y, folder: f, field: fld})
			y += p.RowHeight
		}
	}
	return rows
}

// Height is the panel's current on-screen height.
func (p *Panel) Height() int { return len(p.rows()) * p.RowHeight }

// Contains reports whether (x, y) is over the panel.
func (p *Panel) Contains(x, y int) bool {
	return x >= p.X && x < p.X+p.Width && y >= p.Y && y < p.Y+p.Height()
}

func (p *Panel) rowAt(x, y int) (row, bool) {
	if !p.Contains(x, y) {
		return row{}, false
	}
	for _, r := range p.rows() {
		if y >= r.y && y < r.y+p.RowHeight {
			return r, true
		}
	}
	return row{}, false
}

// Dragging reports whether a slider is being dragged.
func (p *Panel) Dragging() bool { return p.active != nil }

func (p *Panel) labelWidth() int { return p.Width * 2 / 5 }
func (p *Panel) valueWidth() int { return 64 }

func (p *Panel) track() (x, w int) {
	x = p.X + p.labelWidth()
	w = p.Width - p.labelWidth() - p.valueWidth() - config.PanelMargin
	return x, max(w, 1)
}

func (p *Panel) setFromX(f *Field, x int) {
	tx, tw := p.track()
	frac := float64(x-tx) / float64(tw)
	f.Set(f.Range.Snap(f.Range.Min + frac*(f.Range.Max-f.Range.Min)))
}

// Update feeds one tick of pointer input. captured is true while the pointer
// is over the panel or dragging one of its sliders.
func (p *Panel) Update(ptr Pointer) (captured bool, err error) {
	if p.active != nil {
		if ptr.Pressed || ptr.JustReleased {
			p.setFromX(p.active, ptr.X)
		}
		if !ptr.Pressed || ptr.JustReleased {
			p.release()
		}
		return true, nil
	}

	r, ok := p.rowAt(ptr.X, ptr.Y)
	if !ok {
		return false, nil
	}
	if !ptr.JustPressed {
		return true, nil
	}

	switch {
	case r.folder == nil:
		p.Open = !p.Open
	case r.field == nil:
		r.folder.Open = !r.folder.Open
	case r.field.Kind == KindSlider:
		p.active = r.field
		p.startValue = r.field.Get()
		p.setFromX(r.field, ptr.X)
		if ptr.JustReleased {
			p.release()
		}
	case r.field.Kind == KindColor:
		if p.PickColor == nil {
			return true, nil
		}
		c, ok, err := p.PickColor(r.field.Label, r.field.GetColor())
		if err != nil {
			return true, fmt.Errorf("pick %s: %w", r.field.Label, err)
		}
		if ok && c != r.field.GetColor() {
			r.field.SetColor(c)
			p.finish()
		}
	}
	return true, nil
}

func (p *Panel) release() {
	f := p.active
	p.active = nil
	if f.Get() != p.startValue {
		p.finish()
	}
}

func (p *Panel) finish() {
	if p.OnFinishChange != nil {
		p.OnFinishChange()
	}
}

var (
	panelBg     = color.RGBA{R: 20, G: 20, B: 26, A: 220}
	folderBg    = color.RGBA{R: 34, G: 34, B: 44, A: 230}
	trackBg     = color.RGBA{R: 50, G: 52, B: 64, A: 255}
	trackFill   = color.RGBA{R: 47, G: 161, B: 214, A: 255}
	borderColor = color.RGBA{R: 70, G: 80, B: 100, A: 255}
)

// Draw renders the panel onto screen.
func (p *Panel) Draw(screen *ebiten.Image) {
	rows := p.rows()
	h := float32(len(rows) * p.RowHeight)
	x, w := float32(p.X), float32(p.Width)
	vector.DrawFilledRect(screen, x, float32(p.Y), w, h, panelBg, false)

	for _, r := range rows {
		y := float32(r.y)
		textY := r.y + (p.RowHeight-16)/2
		switch {
		case r.folder == nil:
			title := "Open " + p.Title
			if p.Open {
				title = "Close " + p.Title
			}
			ebitenutil.DebugPrintAt(screen, title, p.X+config.PanelMargin, textY)
		case r.field == nil:
			vector.DrawFilledRect(screen, x, y, w, float32(p.RowHeight), folderBg, false)
			mark := "+ "
			if r.folder.Open {
				mark = "- "
			}
			ebitenutil.DebugPrintAt(screen, mark+r.folder.Title, p.X+config.PanelMargin, textY)
		default:
			p.drawField(screen, r.field, r.y, textY)
		}
	}
	vector.StrokeRect(screen, x, float32(p.Y), w, h, 1, borderColor, false)
}

func (p *Panel) drawField(screen *ebiten.Image, f *Field, y, textY int) {
	ebitenutil.DebugPrintAt(screen, f.Label, p.X+2*config.PanelMargin, textY)
	tx, tw := p.track()
	top := float32(y + 3)
	height := float32(p.RowHeight - 6)

	switch f.Kind {
	case KindSlider:
		vector.DrawFilledRect(screen, float32(tx), top, float32(tw), height, trackBg, false)
		fill := float32(f.Range.Fraction(f.Get())) * float32(tw)
		vector.DrawFilledRect(screen, float32(tx), top, fill, height, trackFill, false)
	case KindColor:
		vector.DrawFilledRect(screen, float32(tx), top, float32(tw), height, f.GetColor().Clamped(), false)
		vector.StrokeRect(screen, float32(tx), top, float32(tw), height, 1, borderColor, false)
	}
	ebitenutil.DebugPrintAt(screen, f.Text(), tx+tw+config.PanelMargin/2, textY)
}
