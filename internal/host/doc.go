// Package host runs dispatch loops for animated scenes.
//
// Two hosts are provided here; the raylib window host lives in package gui:
//
//   - [Offline]: renders a bounded number of frames with the software
//     rasterizer, without input
//   - [Live]: a bubbletea terminal view drawn on a braille canvas
//
// Each host builds one [behave.TickContext] per frame, runs one dispatch
// pass and repaints when the pass asked for it. Bounded runs set LastCall on
// the final frame.
package host
