package app

import (
	"image/color"

	"github.com/zeusync/snakecore/internal/config"
	"github.com/zeusync/snakecore/internal/core/platform"
	"github.com/zeusync/snakecore/internal/core/platform/sound"
	"github.com/zeusync/snakecore/internal/core/scene"
	"github.com/zeusync/snakecore/internal/core/systems/physics"
)

const volumeStep = 0.1

func newMenuScene(a *App) (*scene.Base, error) {
	return scene.NewBase(SceneMenu, a.log, scene.WithHooks(scene.Hooks{
		Setup: func(*scene.Base) error {
			a.host.Audio.PlayMusic(sound.TrackTheme)
			return nil
		},
		Update: func(*scene.Base, float64) { a.menuInput() },
		Render: func(_ *scene.Base, s platform.Surface) { a.renderMenu(s) },
	}))
}

func (a *App) menuInput() {
	in := a.host.Input
	switch {
	case in.WasPressed(platform.KeyEnter), in.WasPressed(platform.KeySpace):
		a.host.Audio.PlaySound(sound.SoundSelect)
		a.changeScene(SceneGame)
	case in.WasPressed(platform.KeyEscape):
		a.Quit()
	case in.WasPressed(platform.KeyLeft):
		a.adjustMusic(-volumeStep)
	case in.WasPressed(platform.KeyRight):
		a.adjustMusic(volumeStep)
	case in.WasPressed(platform.KeyDown):
		a.adjustSound(-volumeStep)
	case in.WasPressed(platform.KeyUp):
		a.adjustSound(volumeStep)
	}
}

func (a *App) adjustMusic(delta float64) {
	a.settings.SetMusicVolume(a.settings.MusicVolume() + delta)
	a.host.Audio.SetMusicVolume(a.settings.MusicVolume())
}

func (a *App) adjustSound(delta float64) {
	a.settings.SetSoundVolume(a.settings.SoundVolume() + delta)
	a.host.Audio.SetSoundVolume(a.settings.SoundVolume())
	a.host.Audio.PlaySound(sound.SoundSelect)
}

func (a *App) renderMenu(s platform.Surface) {
	b := s.Bounds()
	w, h := b[0], b[1]
	s.FillRect(physics.V(w/2, h/3), physics.V(w*0.6, 3), colorTitle)

	bar := w / 2
	level(s, physics.V(w/4, h/2), bar, a.settings.MusicVolume(), colorMusic)
	level(s, physics.V(w/4, h/2+2), bar, a.settings.SoundVolume(), colorSound)

	mode := colorKeyboard
	if a.settings.ControlMode() == config.ControlPointer {
		mode = colorPointer
	}
	s.FillRect(physics.V(w/2, h*3/4), physics.V(2, 1), mode)
}

func newGameOverScene(a *App) (*scene.Base, error) {
	return scene.NewBase(SceneGameOver, a.log, scene.WithHooks(scene.Hooks{
		Update: func(*scene.Base, float64) {
			in := a.host.Input
			switch {
			case in.WasPressed(platform.KeyEnter), in.WasPressed(platform.KeySpace):
				a.changeScene(SceneGame)
			case in.WasPressed(platform.KeyEscape):
				a.changeScene(SceneMenu)
			}
		},
		Render: func(_ *scene.Base, s platform.Surface) {
			b := s.Bounds()
			w, h := b[0], b[1]
			s.FillRect(physics.V(w/2, h/3), physics.V(w*0.6, 3), colorDanger)

			width := w - 4
			top := float64(max(a.session.Best, 1))
			level(s, physics.V(2, h/2), width, float64(a.session.Score)/top, colorScore)
			level(s, physics.V(2, h/2+2), width, 1, colorBest)
		},
	}))
}

// newPauseScene builds the overlay pushed over the game. It is kept on the
// overlay stack, not registered with the state machine.
func newPauseScene(a *App) (*scene.Base, error) {
	return scene.NewBase(ScenePause, a.log, scene.WithHooks(scene.Hooks{
		Update: func(*scene.Base, float64) {
			in := a.host.Input
			switch {
			case in.WasPressed(platform.KeyP), in.WasPressed(platform.KeyEnter):
				a.Resume()
			case in.WasPressed(platform.KeyEscape):
				a.Resume()
				a.changeScene(SceneMenu)
			}
		},
		Render: func(_ *scene.Base, s platform.Surface) {
			b := s.Bounds()
			s.SetAlpha(0.6)
			s.FillRect(b.Mul(0.5), b, colorShade)
			s.SetAlpha(1)
			s.FillRect(physics.V(b[0]/2-1, b[1]/2), physics.V(1, 3), colorKeyboard)
			s.FillRect(physics.V(b[0]/2+1, b[1]/2), physics.V(1, 3), colorKeyboard)
		},
	}))
}

// level draws a horizontal bar starting at left, filled to fraction of
// width.
func level(s platform.Surface, left physics.Vec2, width, fraction float64, c color.RGBA) {
	fill := width * min(max(fraction, 0), 1)
	if fill <= 0 {
		return
	}
	s.FillRect(physics.V(left[0]+fill/2, left[1]), physics.V(fill, 1), c)
}
