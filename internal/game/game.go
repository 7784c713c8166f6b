package game

import (
	"fmt"
	"image/color"
	"math/rand/v2"
	"time"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"

	"github.com/iburimskiy/galaxy/internal/config"
	"github.com/iburimskiy/galaxy/internal/galaxy"
	"github.com/iburimskiy/galaxy/internal/logging"
	"github.com/iburimskiy/galaxy/internal/panel"
	"github.com/iburimskiy/galaxy/internal/render"
	"github.com/iburimskiy/galaxy/internal/soundtrack"
)

// Game is the ebiten.Game driving the galaxy scene.
type Game struct {
	log logging.Logger

	galaxy   *galaxy.Galaxy
	points   *render.Points
	camera   *render.OrbitCamera
	viewport render.Viewport
	panel    *panel.Panel
	music    *soundtrack.Player

	elapsed float64 // seconds of animation

	// orbit drag
	orbiting     bool
	lastX, lastY int

	width, height int
	lastErr       error
}

// New builds the scene and generates the first galaxy.
func New(opts config.Options, log logging.Logger) *Game {
	log = logging.OrNop(log)
	seed := opts.Seed
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}
	log.Debugf("seed %d", seed)

	g := &Game{
		log:      log,
		points:   render.NewPoints(),
		viewport: render.Viewport{MaxPixelRatio: config.MaxPixelRatio},
		music:    soundtrack.NewPlayer(log, config.VisualRingSize, config.SmoothingFactor),
	}
	g.galaxy = galaxy.New(opts.Params, rand.New(rand.NewPCG(seed, seed>>1|1)), g.points, log)

	g.camera = render.NewOrbitCamera(
		mgl32.Vec3{config.CameraStartPos, config.CameraStartPos, config.CameraStartPos},
		mgl32.Vec3{},
		config.CameraFOV, config.CameraNear, config.CameraFar,
	)
	g.camera.Damping = config.CameraDamping

	g.panel = panel.NewGalaxyPanel(g.galaxy.Params(), g.regenerate, panel.ZenityColorPicker)
	g.resize(config.WindowWidth, config.WindowHeight, 1)

	g.regenerate()
	return g
}

func (g *Game) regenerate() {
	g.galaxy.Regenerate()
}

func (g *Game) Update() error {
	if inpututil.IsKeyJustPressed(ebiten.KeyEscape) || inpututil.IsKeyJustPressed(ebiten.KeyQ) {
		g.Close()
		return ebiten.Termination
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyH) {
		g.panel.Open = !g.panel.Open
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyR) {
		g.regenerate()
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyO) {
		if err := g.music.OpenDialog(); err != nil {
			g.fail(err)
		}
	}
	if inpututil.IsKeyJustPressed(ebiten.KeySpace) {
		g.music.TogglePause()
	}

	x, y := ebiten.CursorPosition()
	ptr := panel.Pointer{
		X:            x,
		Y:            y,
		Pressed:      ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft),
		JustPressed:  inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft),
		JustReleased: inpututil.IsMouseButtonJustReleased(ebiten.MouseButtonLeft),
	}
	_, wheelY := ebiten.Wheel()
	g.handlePointer(ptr, wheelY)

	g.tick(1 / float64(ebiten.TPS()))
	return nil
}

// handlePointer routes mouse input to the panel first, then to the orbit.
func (g *Game) handlePointer(ptr panel.Pointer, wheelY float64) {
	captured := false
	if !g.orbiting {
		var err error
		captured, err = g.panel.Update(ptr)
		if err != nil {
			g.fail(err)
		}
	}
	g.updateOrbit(ptr, captured)
	if !captured {
		g.camera.Dolly(wheelY)
	}
}

func (g *Game) updateOrbit(ptr panel.Pointer, captured bool) {
	if g.orbiting {
		if !ptr.Pressed {
			g.orbiting = false
			return
		}
		g.camera.Rotate(float32(ptr.X-g.lastX), float32(ptr.Y-g.lastY), float32(g.height))
		g.lastX, g.lastY = ptr.X, ptr.Y
		return
	}
	if ptr.JustPressed && !captured {
		g.orbiting = true
		g.lastX, g.lastY = ptr.X, ptr.Y
	}
}

// tick advances everything that moves on its own.
func (g *Game) tick(dt float64) {
	g.camera.Update()
	g.music.Update()
	g.elapsed += dt
}

func (g *Game) fail(err error) {
	g.lastErr = err
	g.log.Errorf("%v", err)
}

func (g *Game) Draw(screen *ebiten.Image) {
	screen.Fill(color.Black)

	g.points.Draw(screen, g.frame())
	g.panel.Draw(screen)
	ebitenutil.DebugPrintAt(screen, g.status(), 12, 12)
}

func (g *Game) frame() render.Frame {
	return render.Frame{
		View:       g.camera.View(),
		Projection: g.camera.Projection(),
		Model:      mgl32.HomogRotate3DY(float32(g.galaxy.Rotation(g.elapsed))),
		Gain:       float32(1 + config.PulseGain*clamp01(g.music.Level())),
	}
}

func (g *Game) status() string {
	p := g.galaxy.Params()
	status := fmt.Sprintf("%s particles, %d arms | FPS %.0f", formatCount(p.Count), p.Branches, ebiten.ActualFPS())
	switch {
	case g.music.Paused():
		status += " | " + g.music.Name() + " (paused, Space to resume)"
	case g.music.Playing():
		status += " | " + g.music.Name()
	default:
		status += " | O: add music"
	}
	if g.lastErr != nil {
		status += " | Error: " + g.lastErr.Error()
	}
	return status
}

func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	return g.resize(outsideWidth, outsideHeight, ebiten.Monitor().DeviceScaleFactor())
}

// resize keeps the camera aspect and panel anchor in step with the window.
func (g *Game) resize(width, height int, deviceScale float64) (int, int) {
	w, h, changed := g.viewport.Resize(width, height, deviceScale)
	if changed {
		g.width, g.height = w, h
		g.camera.Resize(w, h)
		g.panel.Anchor(w)
		g.log.Debugf("viewport %dx%d at pixel ratio %.2f", w, h, g.viewport.PixelRatio())
	}
	return w, h
}

// Close releases the galaxy and stops the music.
func (g *Game) Close() {
	g.music.Close()
	g.galaxy.Dispose()
}
