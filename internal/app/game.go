package app

import (
	"errors"
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/zeusync/snakecore/internal/core/models"
	"github.com/zeusync/snakecore/internal/core/observability/log"
	"github.com/zeusync/snakecore/internal/core/platform"
	"github.com/zeusync/snakecore/internal/core/platform/sound"
	"github.com/zeusync/snakecore/internal/core/registry"
	"github.com/zeusync/snakecore/internal/core/scene"
	"github.com/zeusync/snakecore/internal/core/systems/movement"
	"github.com/zeusync/snakecore/internal/core/systems/physics"
	"github.com/zeusync/snakecore/internal/core/systems/segment"
)

const (
	tagSnake = "snake"
	tagFood  = "food"
	tagWall  = "wall"
	tagRock  = "rock"

	layerScenery = 0
	layerSnake   = 1
	layerFood    = 3

	wallThickness  = 1.0
	foodSize       = 1.0
	rockSize       = 1.0
	sensorScale    = 0.8
	pointsPerLevel = 5
	placeAttempts  = 16

	// Arenas smaller than this cannot fit the walls, rocks and starting snake.
	minArenaWidth  = 12.0
	minArenaHeight = 8.0
)

var ErrArenaTooSmall = errors.New("app: arena too small")

// game is the playing field: a snake steered by the movement manager, food
// it eats through the overlap scan, walls that end the run on overlap and
// rocks that end it through a physics contact with the head sensor.
type game struct {
	app *App
	rng *rand.Rand
	log log.Log

	arena  physics.Vec2
	snake  *models.Entity
	body   *segment.Body
	sensor *movement.Component
	food   *models.Entity
	rocks  []physics.Vec2

	dead bool
	over bool
}

func newGameScene(a *App) (*scene.Base, error) {
	seed := uint64(time.Now().UnixNano())
	g := &game{
		app: a,
		rng: rand.New(rand.NewPCG(seed, seed>>1|1)),
		log: a.log.Named("game"),
	}
	return scene.NewBase(SceneGame, a.log,
		scene.WithWorld(a.world),
		scene.WithHooks(scene.Hooks{
			Setup:    g.setup,
			Update:   g.update,
			Render:   g.render,
			Teardown: g.teardown,
		}),
	)
}

func (g *game) setup(b *scene.Base) error {
	a := g.app
	if g.snake != nil {
		a.movement.Unregister(g.snake.ID())
	}
	g.dead, g.over = false, false
	g.arena = a.host.Surface.Bounds()
	if g.arena[0] < minArenaWidth || g.arena[1] < minArenaHeight {
		return fmt.Errorf("%w: %.0fx%.0f", ErrArenaTooSmall, g.arena[0], g.arena[1])
	}

	em := b.Entities()
	for _, add := range []func(*registry.EntityManager) error{g.addWalls, g.addRocks, g.addSnake, g.addSensor, g.addFood} {
		if err := add(em); err != nil {
			return err
		}
	}
	if err := a.movement.Register(g.snake); err != nil {
		return err
	}

	a.session.Score, a.session.Level = 0, 0
	a.session.Games++
	g.log.Info("run started", log.Int("game", a.session.Games), log.Int("entities", em.Count()))
	return nil
}

func (g *game) addWalls(em *registry.EntityManager) error {
	w, h, t := g.arena[0], g.arena[1], wallThickness
	walls := []struct{ pos, size physics.Vec2 }{
		{physics.V(w/2, t/2), physics.V(w, t)},
		{physics.V(w/2, h-t/2), physics.V(w, t)},
		{physics.V(t/2, h/2), physics.V(t, h-2*t)},
		{physics.V(w-t/2, h/2), physics.V(t, h-2*t)},
	}
	for i, wall := range walls {
		e := models.NewEntity(fmt.Sprintf("wall-%d", i), models.KindTrigger,
			models.WithPosition(wall.pos),
			models.WithSize(wall.size[0], wall.size[1]),
			models.WithTexture(TexWall),
			models.WithTags(tagWall),
		)
		e.MustAddComponent(models.NewBoundingBox(0, 0))
		e.MustAddComponent(models.NewSprite(layerScenery))
		if err := em.AddEntity(e); err != nil {
			return err
		}
	}
	return nil
}

// addRocks places one rock in each quadrant, off the snake's starting row.
func (g *game) addRocks(em *registry.EntityManager) error {
	w, h := g.arena[0], g.arena[1]
	g.rocks = []physics.Vec2{
		physics.V(w/4, h/4),
		physics.V(w*3/4, h/4),
		physics.V(w/4, h*3/4),
		physics.V(w*3/4, h*3/4),
	}
	for i, pos := range g.rocks {
		e := models.NewEntity(fmt.Sprintf("rock-%d", i), models.KindStatic,
			models.WithPosition(pos),
			models.WithSize(rockSize, rockSize),
			models.WithTexture(TexRock),
			models.WithTags(tagRock),
			models.WithGeometry(),
		)
		e.MustAddComponent(models.NewSprite(layerScenery))
		if err := em.AddEntity(e); err != nil {
			return err
		}
	}
	return nil
}

func (g *game) addSnake(em *registry.EntityManager) error {
	cfg := g.app.cfg.Snake
	start := g.arena.Mul(0.5)

	g.body = segment.NewBody(cfg,
		segment.WithHeading(physics.V(1, 0)),
		segment.WithTexture(TexSnakeBody),
		segment.WithLayer(layerSnake),
	)
	g.snake = models.NewEntity("snake", models.KindSegmented,
		models.WithPosition(start),
		models.WithSize(cfg.SegmentSize, cfg.SegmentSize),
		models.WithTexture(TexSnakeHead),
		models.WithTags(tagSnake),
	)
	if err := g.snake.AddComponent(g.body); err != nil {
		return err
	}
	g.snake.MustAddComponent(models.NewSprite(layerSnake + 1))
	g.snake.MustAddComponent(models.OnCollision(g.onSnakeCollision))
	return em.AddEntity(g.snake)
}

// addSensor gives the head a dynamic sensor body that follows it, so rocks
// are hit through physics contacts while the snake itself moves outside the
// simulation.
func (g *game) addSensor(em *registry.EntityManager) error {
	world := g.app.world
	size := g.app.cfg.Snake.SegmentSize * sensorScale
	e := models.NewEntity("snake-sensor", models.KindMovable,
		models.WithPosition(g.snake.Position()),
		models.WithSize(size, size),
	)
	body, err := world.CreateBody(physics.BodyDef{
		Type:     physics.BodyDynamic,
		Shape:    physics.ShapeBox,
		Position: g.snake.Position(),
		Width:    size,
		Height:   size,
		Mass:     1,
		Sensor:   true,
		UserData: e,
	})
	if err != nil {
		return err
	}

	g.sensor = movement.NewComponent(body)
	if err = e.AddComponent(g.sensor); err != nil {
		world.DestroyBody(body)
		return err
	}
	e.MustAddComponent(models.OnCollision(g.onSensorCollision))
	if err = em.AddEntity(e); err != nil {
		world.DestroyBody(body)
		return err
	}
	return nil
}

func (g *game) addFood(em *registry.EntityManager) error {
	g.food = models.NewEntity("food", models.KindTrigger,
		models.WithSize(foodSize, foodSize),
		models.WithTexture(TexFood),
		models.WithTags(tagFood),
	)
	g.food.MustAddComponent(models.NewBoundingBox(0, 0))
	g.food.MustAddComponent(models.NewSprite(layerFood))
	if err := em.AddEntity(g.food); err != nil {
		return err
	}
	g.placeFood()
	return nil
}

func (g *game) onSnakeCollision(_, other *models.Entity) {
	switch {
	case other.HasTag(tagFood):
		g.eat()
	case other.HasTag(tagWall):
		g.die("wall")
	}
}

func (g *game) onSensorCollision(_, other *models.Entity) {
	if other.HasTag(tagRock) {
		g.die("rock")
	}
}

func (g *game) eat() {
	if g.dead {
		return
	}
	a := g.app
	a.session.Score++
	g.body.Grow(1)
	if lvl := a.session.Score / pointsPerLevel; lvl != g.body.Level() {
		g.body.SetLevel(lvl)
		size := g.body.SegmentSize()
		g.snake.SetSize(physics.V(size, size))
		a.session.Level = lvl
		g.log.Debug("level up", log.Int("level", lvl))
	}
	a.host.Audio.PlaySound(sound.SoundEat)
	g.placeFood()
}

func (g *game) die(reason string) {
	if g.dead {
		return
	}
	g.dead = true
	g.log.Info("run ended",
		log.String("reason", reason),
		log.Int("score", g.app.session.Score),
		log.Int("length", g.body.Len()))
}

// placeFood moves the food to a random free spot inside the walls. After
// placeAttempts misses the last candidate is used anyway.
func (g *game) placeFood() {
	margin := wallThickness + foodSize
	w, h := g.arena[0]-2*margin, g.arena[1]-2*margin
	var p physics.Vec2
	for range placeAttempts {
		p = physics.V(margin+g.rng.Float64()*w, margin+g.rng.Float64()*h)
		if g.free(p) {
			break
		}
	}
	g.food.SetPosition(p)
}

func (g *game) free(p physics.Vec2) bool {
	if physics.Distance(p, g.snake.Position()) < 2*foodSize {
		return false
	}
	for _, r := range g.rocks {
		if physics.Distance(p, r) < rockSize+foodSize {
			return false
		}
	}
	for _, s := range g.body.Segments() {
		if physics.Distance(p, s) < foodSize {
			return false
		}
	}
	return true
}

func (g *game) update(_ *scene.Base, _ float64) {
	a := g.app
	if !g.dead {
		g.sensor.SetPosition(g.snake.Position())
		g.sensor.Stop()
		if g.body.HeadTouchesBody() {
			g.die("self")
		} else if !g.inside(g.snake.Position()) {
			g.die("bounds")
		}
	}

	if g.dead {
		if !g.over {
			g.over = true
			a.session.Best = max(a.session.Best, a.session.Score)
			a.host.Audio.PlaySound(sound.SoundHit)
			a.changeScene(SceneGameOver)
		}
		return
	}

	in := a.host.Input
	if in.WasPressed(platform.KeyP) || in.WasPressed(platform.KeyEscape) {
		a.Pause()
	}
}

func (g *game) inside(p physics.Vec2) bool {
	return p[0] > 0 && p[1] > 0 && p[0] < g.arena[0] && p[1] < g.arena[1]
}

func (g *game) render(_ *scene.Base, s platform.Surface) {
	score := g.app.session.Score
	if score == 0 {
		return
	}
	width := min(float64(score), g.arena[0]-2)
	s.FillRect(physics.V(1+width/2, wallThickness/2), physics.V(width, wallThickness), colorScore)
}

func (g *game) teardown(*scene.Base) {
	if g.snake != nil {
		g.app.movement.Unregister(g.snake.ID())
	}
	g.snake, g.body, g.sensor, g.food = nil, nil, nil, nil
	g.rocks = nil
}
