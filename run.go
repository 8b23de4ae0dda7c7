package aspen

import (
	"github.com/hajimehoshi/ebiten/v2"
)

// RunConfig configures the Run convenience wrapper.
type RunConfig struct {
	Title  string
	Width  int
	Height int
}

// Run opens a window and drives the engine on ebiten's frame clock: each
// update ticks the active transition by one frame's delta, each draw renders
// the engine's current tree. For full control, implement ebiten.Game
// yourself and call Engine.Tick and Render directly.
func Run(e *Engine, cfg RunConfig) error {
	if cfg.Width <= 0 {
		cfg.Width = 640
	}
	if cfg.Height <= 0 {
		cfg.Height = 480
	}
	ebiten.SetWindowSize(cfg.Width, cfg.Height)
	ebiten.SetWindowTitle(cfg.Title)
	return ebiten.RunGame(&game{engine: e})
}

type game struct {
	engine *Engine
}

func (g *game) Update() error {
	g.engine.Tick(1000.0 / float64(ebiten.TPS()))
	return nil
}

func (g *game) Draw(screen *ebiten.Image) {
	Render(screen, g.engine.Tree())
}

func (g *game) Layout(w, h int) (int, int) {
	return w, h
}
