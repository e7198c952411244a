package app

import "image/color"

// Texture names a visual the host registers under the same name.
type Texture string

func (t Texture) Name() string { return string(t) }

const (
	TexSnakeHead Texture = "snake-head"
	TexSnakeBody Texture = "snake-body"
	TexFood      Texture = "food"
	TexWall      Texture = "wall"
	TexRock      Texture = "rock"
)

// Textures lists every texture the game draws.
func Textures() []Texture {
	return []Texture{TexSnakeHead, TexSnakeBody, TexFood, TexWall, TexRock}
}

var (
	colorTitle    = color.RGBA{R: 0x3c, G: 0xb3, B: 0x71, A: 0xff}
	colorMusic    = color.RGBA{R: 0x46, G: 0x82, B: 0xb4, A: 0xff}
	colorSound    = color.RGBA{R: 0xda, G: 0xa5, B: 0x20, A: 0xff}
	colorKeyboard = color.RGBA{R: 0xee, G: 0xee, B: 0xee, A: 0xff}
	colorPointer  = color.RGBA{R: 0xba, G: 0x55, B: 0xd3, A: 0xff}
	colorScore    = color.RGBA{R: 0xff, G: 0xd7, B: 0x00, A: 0xff}
	colorBest     = color.RGBA{R: 0x80, G: 0x80, B: 0x80, A: 0xff}
	colorDanger   = color.RGBA{R: 0xb2, G: 0x22, B: 0x22, A: 0xff}
	colorShade    = color.RGBA{A: 0xff}
)
