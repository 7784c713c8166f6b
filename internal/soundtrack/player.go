package soundtrack

import (
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"time"

	"github.com/faiface/beep"
	"github.com/faiface/beep/flac"
	"github.com/faiface/beep/mp3"
	"github.com/faiface/beep/speaker"
	"github.com/faiface/beep/wav"
	"github.com/ncruces/zenity"

	"github.com/iburimskiy/galaxy/internal/logging"
)

// window is how many recent samples feed one loudness reading.
const window = 2048

var ErrUnsupported = errors.New("unsupported audio format")

// Player plays one track at a time and reports how loud it currently is.
type Player struct {
	log       logging.Logger
	ringSize  int
	smoothing float64

	currentFile *os.File
	streamer    beep.StreamSeekCloser
	format      beep.Format
	ctrl        *beep.Ctrl
	tap         *tap
	name        string

	finished atomic.Bool
	paused   bool
	initDone bool
	level    float64
}

// NewPlayer returns an idle player. smoothing in [0, 1) damps level changes
// between ticks; higher is smoother.
func NewPlayer(log logging.Logger, ringSize int, smoothing float64) *Player {
	return &Player{
		log:       logging.OrNop(log),
		ringSize:  max(ringSize, window),
		smoothing: smoothing,
	}
}

// OpenDialog lets the user pick a track. Cancelling is not an error.
func (p *Player) OpenDialog() error {
	filename, err := zenity.SelectFile(
		zenity.Title("Open Soundtrack"),
		zenity.FileFilters{{
			Name:     "Audio",
			Patterns: []string{"*.wav", "*.mp3", "*.flac"},
		}},
	)
	if err != nil {
		if errors.Is(err, zenity.ErrCanceled) {
			return nil
		}
		return fmt.Errorf("select soundtrack: %w", err)
	}
	return p.Load(filename)
}

func decode(path string, rc io.ReadCloser) (beep.StreamSeekCloser, beep.Format, error) {
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".wav":
		return wav.Decode(rc)
	case ".mp3":
		return mp3.Decode(rc)
	case ".flac":
		return flac.Decode(rc)
	default:
		return nil, beep.Format{}, fmt.Errorf("%w: %q", ErrUnsupported, ext)
	}
}

// Load replaces the current track with the file at path and starts playing it.
func (p *Player) Load(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open soundtrack: %w", err)
	}
	streamer, format, err := decode(path, f)
	if err != nil {
		_ = f.Close()
		return fmt.Errorf("decode %s: %w", filepath.Base(path), err)
	}

	if err := p.initSpeaker(format); err != nil {
		_ = streamer.Close()
		_ = f.Close()
		return fmt.Errorf("init speaker: %w", err)
	}
	p.closeCurrent()

	t := newTap(streamer, p.ringSize)
	ctrl := &beep.Ctrl{Streamer: t}

	p.currentFile = f
	p.streamer = streamer
	p.format = format
	p.ctrl = ctrl
	p.tap = t
	p.name = filepath.Base(path)
	p.paused = false
	p.finished.Store(false)

	speaker.Play(beep.Seq(ctrl, beep.Callback(func() {
		// runs on the audio goroutine; Update closes the files
		p.finished.Store(true)
	})))

	p.log.Infof("soundtrack %s: %d Hz, %s", p.name, format.SampleRate, format.SampleRate.D(streamer.Len()).Round(time.Second))
	return nil
}

func (p *Player) initSpeaker(format beep.Format) error {
	bufferSize := format.SampleRate.N(time.Second / 20)
	switch {
	case !p.initDone:
		if err := speaker.Init(format.SampleRate, bufferSize); err != nil {
			return err
		}
		p.initDone = true
	case p.format.SampleRate != format.SampleRate:
		speaker.Clear()
		if err := speaker.Init(format.SampleRate, bufferSize); err != nil {
			return err
		}
	default:
		speaker.Clear()
	}
	return nil
}

func (p *Player) closeCurrent() {
	if p.streamer != nil {
		_ = p.streamer.Close()
		p.streamer = nil
	}
	if p.currentFile != nil {
		_ = p.currentFile.Close()
		p.currentFile = nil
	}
	p.ctrl = nil
	p.tap = nil
	p.name = ""
}

// TogglePause pauses or resumes the current track.
func (p *Player) TogglePause() {
	if p.ctrl == nil {
		return
	}
	speaker.Lock()
	p.paused = !p.paused
	p.ctrl.Paused = p.paused
	speaker.Unlock()
}

// Update refreshes the level. Call once per tick.
func (p *Player) Update() {
	if p.finished.Load() {
		p.log.Debugf("soundtrack %s finished", p.name)
		p.finished.Store(false)
		p.closeCurrent()
	}
	if p.tap == nil || p.paused {
		p.observe(0)
		return
	}
	p.observe(math.Pow(p.tap.rms(window), 0.3))
}

// observe folds one loudness reading into the smoothed level.
func (p *Player) observe(mag float64) {
	p.level = p.smoothing*p.level + (1-p.smoothing)*mag
	p.level = min(max(p.level, 0), 1)
}

// Level is the smoothed loudness in [0, 1]; 0 when nothing plays.
func (p *Player) Level() float64 { return p.level }

func (p *Player) Playing() bool { return p.ctrl != nil && !p.paused }

func (p *Player) Paused() bool { return p.ctrl != nil && p.paused }

// Name is the current track's file name, empty when idle.
func (p *Player) Name() string { return p.name }

// Close stops playback and releases the current track.
func (p *Player) Close() {
	if p.initDone {
		speaker.Clear()
	}
	p.closeCurrent()
}
