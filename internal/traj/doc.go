// Package traj provides composable trajectories: pure mappings from a
// progress value to a position, color or scalar.
//
// The package defines the trajectory interface and its variants:
//
//   - [Linear]: straight segment between two values, t in [0, 1]
//   - [Join]: weighted concatenation of trajectories, t in [0, 1]
//   - [Repeat]: periodic wrapping of a closed trajectory
//   - [BackAndForth]: ping-pong traversal with period 2
//   - [Circle]: clockwise rotation of a point around an axis, period 1
//   - [QuadraticBezier]: quadratic Bezier curve, t in [0, 1]
//   - [StartStop]: remaps [start, stop] to [0, 1] and clamps outside
//
// [Lines] and [QuadraticBezierCurves] stitch equal-weight segments through a
// list of points.
//
// # Example
//
//	path := traj.Must(traj.Lines(
//		mgl64.Vec3{-4, -4, 1},
//		mgl64.Vec3{-4, 4, 1},
//		mgl64.Vec3{4, 4, 1},
//		mgl64.Vec3{-4, -4, 1},
//	))
//	loop := traj.NewRepeat(path)
//	p, _ := loop.At(2.25)
//
// # Domains
//
// Bounded variants return an error wrapping [ErrOutOfDomain] when called with
// t outside [0, 1]. They never clamp silently; use [StartStop] for that.
package traj
