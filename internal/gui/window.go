// Package gui hosts an animated scene in a raylib window with keyboard and
// mouse input.
package gui

import (
	"fmt"
	"image"
	"image/color"

	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/rs/zerolog/log"

	"github.com/san-kum/vizanim/internal/behave"
	"github.com/san-kum/vizanim/internal/frames"
	"github.com/san-kum/vizanim/internal/scene"
)

// WindowOptions configures the raylib host.
type WindowOptions struct {
	Title string
	// Frames bounds the run; zero runs until the window is closed.
	Frames int
	FPS    int
}

// windowKeys maps raylib key codes to behaviour key names.
var windowKeys = func() map[int32]string {
	keys := map[int32]string{
		rl.KeySpace:        "<space>",
		rl.KeyEnter:        "<enter>",
		rl.KeyTab:          "<tab>",
		rl.KeyBackspace:    "<backspace>",
		rl.KeyLeft:         "<left>",
		rl.KeyRight:        "<right>",
		rl.KeyUp:           "<up>",
		rl.KeyDown:         "<down>",
		rl.KeyLeftShift:    "<shift>",
		rl.KeyRightShift:   "<shift>",
		rl.KeyLeftControl:  "<ctrl>",
		rl.KeyRightControl: "<ctrl>",
		rl.KeyLeftAlt:      "<alt>",
		rl.KeyRightAlt:     "<alt>",
	}
	for k := int32(rl.KeyA); k <= rl.KeyZ; k++ {
		keys[k] = string(rune('A' + k - rl.KeyA))
	}
	for k := int32(rl.KeyZero); k <= rl.KeyNine; k++ {
		keys[k] = string(rune('0' + k - rl.KeyZero))
	}
	return keys
}()

func pollKeyboard() behave.Keyboard {
	kb := behave.NewKeyboard()
	for code, name := range windowKeys {
		if rl.IsKeyDown(code) {
			kb.Down.Add(name)
		}
		if rl.IsKeyReleased(code) {
			kb.Up.Add(name)
		}
	}
	return kb
}

func pollMouse() behave.Mouse {
	return behave.Mouse{
		X:             float64(rl.GetMouseX()),
		Y:             float64(rl.GetMouseY()),
		LeftPressed:   rl.IsMouseButtonDown(rl.MouseLeftButton),
		MiddlePressed: rl.IsMouseButtonDown(rl.MouseMiddleButton),
		RightPressed:  rl.IsMouseButtonDown(rl.MouseRightButton),
		Wheel:         float64(rl.GetMouseWheelMove()),
	}
}

// captureScreen reads the last drawn frame back from the GPU.
func captureScreen() (*image.RGBA, error) {
	img := rl.LoadImageFromScreen()
	if img == nil || img.Width == 0 {
		return nil, fmt.Errorf("window: empty screen capture")
	}
	defer rl.UnloadImage(img)
	return frames.TopDown(img.ToImage(), false), nil
}

// rlDrawer draws renderables with raylib in world space. The scene rotation
// is applied to every vertex because the raylib camera only knows the
// look-at part of the view.
type rlDrawer struct {
	rot mgl64.Mat4
}

func (d rlDrawer) vec(p mgl64.Vec3) rl.Vector3 {
	q := mgl64.TransformCoordinate(p, d.rot)
	return rl.NewVector3(float32(q[0]), float32(q[1]), float32(q[2]))
}

func (d rlDrawer) Point(p mgl64.Vec3, radius float64, c color.RGBA) {
	rl.DrawSphere(d.vec(p), float32(radius), c)
}

func (d rlDrawer) Line(a, b mgl64.Vec3, c color.RGBA) {
	rl.DrawLine3D(d.vec(a), d.vec(b), c)
}

func (d rlDrawer) Triangle(a, b, c mgl64.Vec3, col color.RGBA) {
	va, vb, vc := d.vec(a), d.vec(b), d.vec(c)
	// both windings, raylib culls back faces
	rl.DrawTriangle3D(va, vb, vc, col)
	rl.DrawTriangle3D(va, vc, vb, col)
}

func camera(s *scene.Scene) rl.Camera3D {
	v := func(p mgl64.Vec3) rl.Vector3 { return rl.NewVector3(float32(p[0]), float32(p[1]), float32(p[2])) }
	return rl.NewCamera3D(v(s.CameraPosition), v(s.CameraTarget), v(s.Up), float32(s.FOV), rl.CameraPerspective)
}

// Window opens a raylib window the size of s and runs one dispatch pass per
// displayed frame. Raylib double-buffers, so the scene is drawn every frame
// and the refresh flag is only logged.
func Window(s *scene.Scene, d *behave.Dispatcher, opts WindowOptions) error {
	if opts.Title == "" {
		opts.Title = "vizanim"
	}
	if opts.FPS <= 0 {
		opts.FPS = 60
	}
	w, h := s.Size()
	rl.SetConfigFlags(rl.FlagWindowResizable)
	rl.InitWindow(int32(w), int32(h), opts.Title)
	defer rl.CloseWindow()
	rl.SetTargetFPS(int32(opts.FPS))
	rl.SetExitKey(rl.KeyEscape)

	frame := 0
	for ; !rl.WindowShouldClose(); frame++ {
		if rl.IsWindowResized() {
			s.Resize(rl.GetScreenWidth(), rl.GetScreenHeight())
		}
		last := opts.Frames > 0 && frame == opts.Frames-1
		if err := pass(s, d, frame, last); err != nil {
			return err
		}

		rl.BeginDrawing()
		rl.ClearBackground(s.Background)
		rl.BeginMode3D(camera(s))
		s.Draw(rlDrawer{rot: s.Rotation})
		rl.EndMode3D()
		rl.EndDrawing()

		if last {
			return nil
		}
	}

	// closed by the user: the closing tick is the last call
	log.Debug().Int("frame", frame).Msg("window closed")
	return pass(s, d, frame, true)
}

func pass(s *scene.Scene, d *behave.Dispatcher, frame int, last bool) error {
	tc := behave.NewTickContext(s, captureScreen)
	tc.Keyboard = pollKeyboard()
	tc.Mouse = pollMouse()
	tc.LastCall = last

	refresh, err := d.Pass(tc)
	if err != nil {
		return fmt.Errorf("frame %d: %w", frame, err)
	}
	if refresh {
		log.Trace().Int("frame", frame).Msg("refresh")
	}
	return nil
}
