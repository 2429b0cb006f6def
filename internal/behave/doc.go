// Package behave animates a scene by ticking an ordered list of behaviours
// once per displayed frame.
//
// The package defines the behaviour protocol and its building blocks:
//
//   - [Behaviour]: a stateful unit ticked once per frame
//   - [TickContext]: the per-tick input snapshot and output flags
//   - [Dispatcher]: runs one dispatch pass over the ordered list
//   - [TrajectoryMovement]: drives a scene property along a trajectory
//   - [OnKeys]: edge-triggered reaction to a key combination
//
// # Dispatch pass
//
// A host builds one [TickContext] per frame and calls [Dispatcher.Pass].
// Behaviours run in order and share the context, so scene writes made by one
// behaviour are visible to the ones after it. After each behaviour the
// dispatcher reads the output flags:
//
//	Done            - remove this behaviour after the pass
//	StopPropagation - skip the remaining behaviours this pass
//	refresh         - sticky; any request repaints the frame
//
// When [TickContext.LastCall] is set the list is cleared after the pass.
//
// # Errors
//
// An error returned by a behaviour aborts the pass and is returned to the
// host wrapped in a [TickError]. Removals requested earlier in the same pass
// are still applied.
//
// # Thread Safety
//
// Dispatchers and behaviours are NOT thread-safe. A pass runs on the host's
// frame loop and behaviours must return promptly.
package behave
