package behave

import (
	"github.com/go-gl/mathgl/mgl64"

	"github.com/san-kum/vizanim/internal/scene"
)

// LightToCamera keeps the light at the camera position plus Offset so that
// visible surfaces stay lit. Ticks where the light is already there request
// no repaint.
type LightToCamera struct {
	Offset mgl64.Vec3
}

func NewLightToCamera(offset mgl64.Vec3) *LightToCamera {
	return &LightToCamera{Offset: offset}
}

func (l *LightToCamera) Behave(ctx *TickContext) error {
	pos := ctx.Scene.CameraPosition.Add(l.Offset)
	if pos.Sub(ctx.Scene.Light).Len() < 1e-8 {
		return nil
	}
	ctx.Scene.Light = pos
	ctx.RequestRefresh(true)
	return nil
}

// SceneInit runs a setup function on the first tick, removes itself and ends
// that tick's pass so later behaviours first see the initialised scene.
type SceneInit struct {
	Init func(s *scene.Scene) error
}

func NewSceneInit(init func(s *scene.Scene) error) *SceneInit {
	return &SceneInit{Init: init}
}

func (i *SceneInit) Behave(ctx *TickContext) error {
	if err := i.Init(ctx.Scene); err != nil {
		return err
	}
	ctx.Done = true
	ctx.StopPropagation = true
	ctx.RequestRefresh(true)
	return nil
}
