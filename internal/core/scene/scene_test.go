package scene

import (
	"errors"

	"github.com/zeusync/snakecore/internal/core/platform"
	"github.com/zeusync/snakecore/internal/core/systems/physics"
)

// probe records its lifecycle calls.
type probe struct {
	name     string
	state    State
	inits    int
	disposes int
	updates  int
	renders  int
	failInit bool
}

func newProbe(name string) *probe { return &probe{name: name} }

func (p *probe) Name() string { return p.name }
func (p *probe) State() State { return p.state }

func (p *probe) Initialize() error {
	if p.failInit {
		return errors.New("assets missing")
	}
	p.inits++
	p.state = StateInitialized
	return nil
}

func (p *probe) Update(float64) { p.updates++ }

func (p *probe) Render(s platform.Surface) {
	p.renders++
	s.DrawSprite(nil, physics.Vec2{}, physics.Vec2{}, 0)
}

func (p *probe) Dispose() {
	if p.state != StateInitialized {
		p.state = StateDisposed
		return
	}
	p.disposes++
	p.state = StateDisposed
}
