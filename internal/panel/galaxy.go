package panel

import (
	"errors"
	"fmt"

	"github.com/lucasb-eyer/go-colorful"
	"github.com/ncruces/zenity"

	"github.com/iburimskiy/galaxy/internal/config"
	"github.com/iburimskiy/galaxy/internal/galaxy"
)

// NewGalaxyPanel binds every galaxy parameter. onFinish runs after each
// completed edit. The panel starts closed, with Particles and Galaxy collapsed.
func NewGalaxyPanel(params *galaxy.Parameters, onFinish func(), picker ColorPicker) *Panel {
	return &Panel{
		Width:     config.PanelWidth,
		RowHeight: config.PanelRowHeight,
		Title:     "Controls",
		Folders: []*Folder{
			{
				Title: "Particles",
				Fields: []*Field{
					IntSlider("count", config.CountRange, &params.Count),
					Slider("size", config.SizeRange, &params.Size),
				},
			},
			{
				Title: "Galaxy",
				Fields: []*Field{
					Slider("radius", config.RadiusRange, &params.Radius),
					IntSlider("branches", config.BranchesRange, &params.Branches),
					Slider("spin", config.SpinRange, &params.Spin),
				},
			},
			{
				Title: "Randomness",
				Open:  true,
				Fields: []*Field{
					Slider("randomness", config.RandomnessRange, &params.Randomness),
					Slider("power", config.RandomnessPowerRange, &params.RandomnessPower),
				},
			},
			{
				Title: "Colors",
				Open:  true,
				Fields: []*Field{
					ColorField("insideColor", &params.InsideColor),
					ColorField("outsideColor", &params.OutsideColor),
				},
			},
			{
				Title: "Animation",
				Open:  true,
				Fields: []*Field{
					Slider("speed", config.SpeedRotationRange, &params.SpeedRotation),
				},
			},
		},
		OnFinishChange: onFinish,
		PickColor:      picker,
	}
}

// Anchor pins the panel to the top right corner of a screen of the given width.
func (p *Panel) Anchor(screenWidth int) {
	p.X = screenWidth - p.Width - config.PanelMargin
	p.Y = config.PanelMargin
}

// ZenityColorPicker opens the native color dialog.
func ZenityColorPicker(title string, current colorful.Color) (colorful.Color, bool, error) {
	c, err := zenity.SelectColor(
		zenity.Title(title),
		zenity.Color(current.Clamped()),
	)
	if err != nil {
		if errors.Is(err, zenity.ErrCanceled) {
			return current, false, nil
		}
		return current, false, err
	}
	picked, ok := colorful.MakeColor(c)
	if !ok {
		return current, false, fmt.Errorf("color %v is fully transparent", c)
	}
	return picked, true, nil
}
