package behave_test

import (
	"errors"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/rs/zerolog"

	"github.com/san-kum/vizanim/internal/behave"
	"github.com/san-kum/vizanim/internal/scene"
)

type recorder struct {
	name    string
	calls   *[]string
	done    bool
	stop    bool
	refresh bool
	err     error
}

func (r *recorder) Behave(ctx *behave.TickContext) error {
	*r.calls = append(*r.calls, r.name)
	if r.err != nil {
		return r.err
	}
	if r.done {
		ctx.Done = true
	}
	if r.stop {
		ctx.StopPropagation = true
	}
	ctx.RequestRefresh(r.refresh)
	return nil
}

func (r *recorder) Name() string { return r.name }

var _ = Describe("Dispatcher", func() {
	var (
		calls []string
		sc    *scene.Scene
		d     *behave.Dispatcher
	)

	rec := func(name string) *recorder { return &recorder{name: name, calls: &calls} }
	names := func() []string {
		var out []string
		for _, b := range d.Behaviours() {
			out = append(out, behave.Name(b))
		}
		return out
	}
	pass := func(lastCall bool) (bool, error) {
		ctx := behave.NewTickContext(sc, nil)
		ctx.LastCall = lastCall
		return d.Pass(ctx)
	}

	BeforeEach(func() {
		calls = nil
		sc = scene.New(64, 64)
		d = behave.NewDispatcher().WithLogger(zerolog.Nop())
	})

	It("ticks behaviours in insertion order", func() {
		d.Add(rec("a"))
		d.Add(rec("b"))
		d.Add(rec("c"))

		_, err := pass(false)
		Expect(err).NotTo(HaveOccurred())
		_, err = pass(false)
		Expect(err).NotTo(HaveOccurred())
		Expect(calls).To(Equal([]string{"a", "b", "c", "a", "b", "c"}))
	})

	It("shares scene writes with later behaviours in the same pass", func() {
		var seen float64
		d.Add(behave.BehaviourFunc(func(ctx *behave.TickContext) error {
			ctx.Scene.CameraPosition[0] = 7
			return nil
		}))
		d.Add(behave.BehaviourFunc(func(ctx *behave.TickContext) error {
			seen = ctx.Scene.CameraPosition[0]
			return nil
		}))

		_, err := pass(false)
		Expect(err).NotTo(HaveOccurred())
		Expect(seen).To(Equal(7.0))
	})

	It("stops the pass when propagation is stopped", func() {
		a := rec("a")
		a.stop = true
		d.Add(a)
		d.Add(rec("b"))

		_, err := pass(false)
		Expect(err).NotTo(HaveOccurred())
		Expect(calls).To(Equal([]string{"a"}))
		Expect(d.Len()).To(Equal(2))
	})

	It("removes done behaviours after the pass", func() {
		a, c := rec("a"), rec("c")
		a.done, c.done = true, true
		d.Add(a)
		d.Add(rec("b"))
		d.Add(c)
		d.Add(rec("d"))

		_, err := pass(false)
		Expect(err).NotTo(HaveOccurred())
		Expect(calls).To(Equal([]string{"a", "b", "c", "d"}))
		Expect(names()).To(Equal([]string{"b", "d"}))
	})

	It("resets done between behaviours", func() {
		a := rec("a")
		a.done = true
		d.Add(a)
		d.Add(rec("b"))

		_, err := pass(false)
		Expect(err).NotTo(HaveOccurred())
		Expect(names()).To(Equal([]string{"b"}))
	})

	It("runs the initialiser alone on the first tick", func() {
		initialised := false
		d.Add(behave.NewSceneInit(func(s *scene.Scene) error {
			initialised = true
			s.CameraPosition[2] = 5
			return nil
		}))
		d.Add(rec("move"))

		refresh, err := pass(false)
		Expect(err).NotTo(HaveOccurred())
		Expect(refresh).To(BeTrue())
		Expect(initialised).To(BeTrue())
		Expect(calls).To(BeEmpty())
		Expect(names()).To(Equal([]string{"move"}))

		_, err = pass(false)
		Expect(err).NotTo(HaveOccurred())
		Expect(calls).To(Equal([]string{"move"}))
	})

	Describe("refresh", func() {
		It("is sticky once requested", func() {
			a, b := rec("a"), rec("b")
			a.refresh = true
			d.Add(a)
			d.Add(b)

			refresh, err := pass(false)
			Expect(err).NotTo(HaveOccurred())
			Expect(refresh).To(BeTrue())
		})

		It("is false when nobody asks", func() {
			d.Add(rec("a"))
			refresh, err := pass(false)
			Expect(err).NotTo(HaveOccurred())
			Expect(refresh).To(BeFalse())
		})
	})

	It("clears the list on the last call", func() {
		d.Add(rec("a"))
		d.Add(rec("b"))

		_, err := pass(true)
		Expect(err).NotTo(HaveOccurred())
		Expect(calls).To(Equal([]string{"a", "b"}))
		Expect(d.Len()).To(BeZero())
	})

	Describe("errors", func() {
		var boom = errors.New("boom")

		It("aborts the pass and reports the failing behaviour", func() {
			a, b := rec("a"), rec("b")
			a.done = true
			b.err = boom
			d.Add(a)
			d.Add(b)
			d.Add(rec("c"))

			_, err := pass(false)
			Expect(err).To(MatchError(boom))

			var te *behave.TickError
			Expect(errors.As(err, &te)).To(BeTrue())
			Expect(te.Index).To(Equal(1))
			Expect(te.Name).To(Equal("b"))
			Expect(calls).To(Equal([]string{"a", "b"}))
			Expect(names()).To(Equal([]string{"b", "c"}))
		})

		It("does not clear the list when the last call fails", func() {
			a := rec("a")
			a.err = boom
			d.Add(a)

			_, err := pass(true)
			Expect(err).To(HaveOccurred())
			Expect(d.Len()).To(Equal(1))
		})
	})

	It("collects per-behaviour statistics", func() {
		d.Add(rec("a"))
		d.Add(rec("b"))
		for range 3 {
			_, err := pass(false)
			Expect(err).NotTo(HaveOccurred())
		}

		stats := d.Stats()
		Expect(stats.Passes).To(Equal(int64(3)))
		Expect(stats.BehaviourCount).To(Equal(2))
		Expect(stats.TotalExecutions).To(Equal(int64(6)))
		Expect(stats.Behaviours[0].Name).To(Equal("a"))
		Expect(stats.Behaviours[1].ExecutionCount).To(Equal(int64(3)))
		Expect(stats.Behaviours[0].MaxDuration).To(BeNumerically(">=", stats.Behaviours[0].MinDuration))
		Expect(stats.LastPass).To(BeNumerically(">=", stats.Behaviours[1].LastDuration))
	})
})
