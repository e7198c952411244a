// Package sound plays the engine's audio through a beep mixer. The Player
// is itself a beep.Streamer: the host hands it to the speaker, tests read
// samples from it directly.
package sound

import (
	"math"
	"sync"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/effects"
	"github.com/gopxl/beep/generators"

	"github.com/zeusync/snakecore/internal/core/observability/log"
	"github.com/zeusync/snakecore/internal/core/platform"
)

// Ids of the sounds and track installed by RegisterDefaults.
const (
	SoundEat    = "eat"
	SoundHit    = "hit"
	SoundSelect = "select"
	TrackTheme  = "theme"
)

var (
	_ platform.Audio = (*Player)(nil)
	_ beep.Streamer  = (*Player)(nil)
)

// Source builds a fresh stream for one playback. Sound sources should end;
// music sources are restarted whenever they end.
type Source func(sr beep.SampleRate) beep.Streamer

type Player struct {
	mu     sync.Mutex
	log    log.Log
	sr     beep.SampleRate
	mixer  *beep.Mixer
	sounds map[string]Source
	tracks map[string]Source

	music     *beep.Ctrl
	musicGain *effects.Volume
	musicID   string

	soundVolume float64
	musicVolume float64
}

func NewPlayer(logger log.Log, sr beep.SampleRate) *Player {
	return &Player{
		log:         logger.Named("audio"),
		sr:          sr,
		mixer:       &beep.Mixer{},
		sounds:      make(map[string]Source),
		tracks:      make(map[string]Source),
		soundVolume: 1,
		musicVolume: 1,
	}
}

func (p *Player) SampleRate() beep.SampleRate { return p.sr }

func (p *Player) RegisterSound(id string, src Source) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.sounds[id] = src
}

func (p *Player) RegisterTrack(id string, src Source) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.tracks[id] = src
}

// PlaySound mixes a one-shot at the current sound volume. Unknown ids are
// skipped.
func (p *Player) PlaySound(id string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	src, ok := p.sounds[id]
	if !ok {
		p.log.Debug("unknown sound", log.String("id", id))
		return
	}
	p.mixer.Add(gain(src(p.sr), p.soundVolume))
}

// PlayMusic starts looping id, replacing any other track. Asking for the
// track already playing does nothing.
func (p *Player) PlayMusic(id string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.music != nil && p.musicID == id {
		return
	}
	src, ok := p.tracks[id]
	if !ok {
		p.log.Debug("unknown track", log.String("id", id))
		return
	}
	p.stopMusic()

	p.musicGain = gain(&loop{src: src, sr: p.sr}, p.musicVolume)
	p.music = &beep.Ctrl{Streamer: p.musicGain}
	p.musicID = id
	p.mixer.Add(p.music)
}

func (p *Player) StopMusic() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.stopMusic()
}

// MusicID is the track playing, or "".
func (p *Player) MusicID() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.musicID
}

func (p *Player) SetSoundVolume(v float64) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.soundVolume = platform.ClampVolume(v)
}

// SetMusicVolume applies to the playing track immediately.
func (p *Player) SetMusicVolume(v float64) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.musicVolume = platform.ClampVolume(v)
	if p.musicGain != nil {
		setGain(p.musicGain, p.musicVolume)
	}
}

func (p *Player) SoundVolume() float64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.soundVolume
}

func (p *Player) MusicVolume() float64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.musicVolume
}

// Active counts streams still in the mixer.
func (p *Player) Active() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.mixer.Len()
}

func (p *Player) Stream(samples [][2]float64) (int, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.mixer.Stream(samples)
}

func (p *Player) Err() error { return nil }

// Close silences everything.
func (p *Player) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.stopMusic()
	p.mixer.Clear()
}

func (p *Player) stopMusic() {
	if p.music == nil {
		return
	}
	// a nil streamer makes the ctrl drain, so the mixer drops it
	p.music.Streamer = nil
	p.music, p.musicGain, p.musicID = nil, nil, ""
}

func gain(s beep.Streamer, v float64) *effects.Volume {
	vol := &effects.Volume{Streamer: s, Base: 2}
	setGain(vol, v)
	return vol
}

func setGain(vol *effects.Volume, v float64) {
	if v <= 0 {
		vol.Volume, vol.Silent = 0, true
		return
	}
	vol.Volume, vol.Silent = math.Log2(v), false
}

// loop restarts its source whenever the current stream ends.
type loop struct {
	src Source
	sr  beep.SampleRate
	cur beep.Streamer
}

func (l *loop) Stream(samples [][2]float64) (int, bool) {
	filled := 0
	for filled < len(samples) {
		fresh := l.cur == nil
		if fresh {
			l.cur = l.src(l.sr)
		}
		n, ok := l.cur.Stream(samples[filled:])
		filled += n
		if !ok || n == 0 {
			l.cur = nil
			// a source that yields nothing would spin forever
			if fresh && n == 0 {
				return filled, filled > 0
			}
		}
	}
	return filled, true
}

func (l *loop) Err() error { return nil }

// Tone is a Source for a sine tone of freq Hz lasting d.
func Tone(freq float64, d time.Duration) Source {
	return func(sr beep.SampleRate) beep.Streamer {
		sine, err := generators.SineTone(sr, freq)
		if err != nil {
			return beep.Silence(sr.N(d))
		}
		return beep.Take(sr.N(d), sine)
	}
}

// Melody plays the notes one after another, each lasting step.
func Melody(step time.Duration, freqs ...float64) Source {
	return func(sr beep.SampleRate) beep.Streamer {
		parts := make([]beep.Streamer, 0, len(freqs))
		for _, f := range freqs {
			parts = append(parts, Tone(f, step)(sr))
		}
		return beep.Seq(parts...)
	}
}

// RegisterDefaults installs the synthesized sounds and track the game uses
// when no assets are loaded.
func (p *Player) RegisterDefaults() {
	p.RegisterSound(SoundEat, Tone(880, 60*time.Millisecond))
	p.RegisterSound(SoundHit, Tone(160, 200*time.Millisecond))
	p.RegisterSound(SoundSelect, Tone(660, 40*time.Millisecond))
	p.RegisterTrack(TrackTheme, Melody(180*time.Millisecond, 262, 330, 392, 523, 392, 330))
}
