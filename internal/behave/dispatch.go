package behave

import (
	"fmt"
	"reflect"
	"slices"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// TickError reports the behaviour that failed during a dispatch pass.
type TickError struct {
	Index int
	Name  string
	Err   error
}

func (e *TickError) Error() string {
	return fmt.Sprintf("behaviour %d (%s): %v", e.Index, e.Name, e.Err)
}

func (e *TickError) Unwrap() error { return e.Err }

// DispatchStats provides statistics about dispatch passes.
type DispatchStats struct {
	Passes          int64
	LastPass        time.Duration
	BehaviourCount  int
	TotalExecutions int64
	Behaviours      []BehaviourStats
}

// BehaviourStats provides execution statistics for a single behaviour.
type BehaviourStats struct {
	Name           string
	ExecutionCount int64
	MinDuration    time.Duration
	MaxDuration    time.Duration
	AvgDuration    time.Duration
	LastDuration   time.Duration
	TotalDuration  time.Duration
}

type behaviourStats struct {
	name           string
	executionCount int64
	minDuration    time.Duration
	maxDuration    time.Duration
	totalDuration  time.Duration
	lastDuration   time.Duration
}

func (s *behaviourStats) record(d time.Duration) {
	s.executionCount++
	s.lastDuration = d
	s.totalDuration += d
	if d < s.minDuration {
		s.minDuration = d
	}
	if d > s.maxDuration {
		s.maxDuration = d
	}
}

// Dispatcher owns the ordered behaviour list of one host.
type Dispatcher struct {
	behaviours []Behaviour
	stats      []*behaviourStats
	passes     int64
	lastPass   time.Duration
	log        zerolog.Logger
}

// NewDispatcher returns a dispatcher ticking the given behaviours in order.
func NewDispatcher(behaviours ...Behaviour) *Dispatcher {
	d := &Dispatcher{log: log.Logger}
	for _, b := range behaviours {
		d.Add(b)
	}
	return d
}

// WithLogger replaces the logger used for dispatch events.
func (d *Dispatcher) WithLogger(l zerolog.Logger) *Dispatcher {
	d.log = l
	return d
}

// Add appends b to the end of the list.
func (d *Dispatcher) Add(b Behaviour) {
	d.behaviours = append(d.behaviours, b)
	d.stats = append(d.stats, &behaviourStats{
		name:        Name(b),
		minDuration: time.Duration(1<<63 - 1),
	})
}

// Len returns the number of live behaviours.
func (d *Dispatcher) Len() int { return len(d.behaviours) }

// Behaviours returns a copy of the live list in tick order.
func (d *Dispatcher) Behaviours() []Behaviour { return slices.Clone(d.behaviours) }

// Clear drops every behaviour.
func (d *Dispatcher) Clear() {
	d.behaviours = nil
	d.stats = nil
}

// Pass ticks every behaviour in order with ctx and reports whether a repaint
// was requested. A behaviour that sets ctx.Done is removed after the pass; a
// behaviour that sets ctx.StopPropagation ends the pass early. If
// ctx.LastCall is set the list is cleared afterwards.
func (d *Dispatcher) Pass(ctx *TickContext) (bool, error) {
	d.passes++
	passStart := time.Now()
	defer func() { d.lastPass = time.Since(passStart) }()
	var remove []int
	var err error

	for i, b := range d.behaviours {
		ctx.Done = false
		start := time.Now()
		berr := b.Behave(ctx)
		d.stats[i].record(time.Since(start))

		if berr != nil {
			err = &TickError{Index: i, Name: d.stats[i].name, Err: berr}
			break
		}
		if ctx.Done {
			remove = append(remove, i)
		}
		if ctx.StopPropagation {
			d.log.Debug().Str("behaviour", d.stats[i].name).Msg("propagation stopped")
			break
		}
	}
	ctx.Done = false

	// Descending order keeps the remaining indices valid.
	for _, i := range slices.Backward(remove) {
		d.log.Debug().Str("behaviour", d.stats[i].name).Int("index", i).Msg("behaviour done")
		d.behaviours = slices.Delete(d.behaviours, i, i+1)
		d.stats = slices.Delete(d.stats, i, i+1)
	}

	if err != nil {
		return ctx.Refresh(), err
	}
	if ctx.LastCall {
		d.log.Debug().Int("behaviours", len(d.behaviours)).Msg("last call, clearing")
		d.Clear()
	}
	return ctx.Refresh(), nil
}

// Stats returns execution statistics for the live behaviours.
func (d *Dispatcher) Stats() *DispatchStats {
	out := &DispatchStats{
		Passes:         d.passes,
		LastPass:       d.lastPass,
		BehaviourCount: len(d.behaviours),
		Behaviours:     make([]BehaviourStats, len(d.stats)),
	}
	for i, s := range d.stats {
		var avg, lo time.Duration
		if s.executionCount > 0 {
			avg = s.totalDuration / time.Duration(s.executionCount)
			lo = s.minDuration
		}
		out.Behaviours[i] = BehaviourStats{
			Name:           s.name,
			ExecutionCount: s.executionCount,
			MinDuration:    lo,
			MaxDuration:    s.maxDuration,
			AvgDuration:    avg,
			LastDuration:   s.lastDuration,
			TotalDuration:  s.totalDuration,
		}
		out.TotalExecutions += s.executionCount
	}
	return out
}

// Name returns a display name for b: its own Name method if it has one,
// otherwise its type name.
func Name(b Behaviour) string {
	if n, ok := b.(interface{ Name() string }); ok {
		return n.Name()
	}
	t := reflect.TypeOf(b)
	if t == nil {
		return "<nil>"
	}
	if t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	if t.Name() == "" {
		return t.String()
	}
	return t.Name()
}
