package main

import (
	"context"
	"errors"
	"fmt"
	"image/color"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/guptarohit/asciigraph"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/san-kum/vizanim/internal/behave"
	"github.com/san-kum/vizanim/internal/config"
	"github.com/san-kum/vizanim/internal/export"
	"github.com/san-kum/vizanim/internal/gui"
	"github.com/san-kum/vizanim/internal/host"
	"github.com/san-kum/vizanim/internal/scene"
	"github.com/san-kum/vizanim/internal/storage"
	"github.com/san-kum/vizanim/internal/traj"
)

var (
	dataDir    string
	logLevel   string
	configFile string
	preset     string
	frames     int
	width      int
	height     int
	frameRate  int
	// render outputs
	framePattern string
	gifPath      string
	every        int
	gifDelay     int
	noRecord     bool
	// sample
	behaviourIdx int
	samples      int
	svgPath      string
	presetOut    string
)

func main() {
	rootCmd := &cobra.Command{
		Use:           "vizanim",
		Short:         "scripted 3D scene animation",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return setupLogging(logLevel)
		},
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".vizanim", "data directory")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "log level (trace, debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "animation file path (yaml)")
	rootCmd.PersistentFlags().StringVar(&preset, "preset", "orbit", "preset animation, used without --config")
	rootCmd.PersistentFlags().IntVar(&frames, "frames", 0, "number of frames (0 uses the animation's)")
	rootCmd.PersistentFlags().IntVar(&width, "width", 0, "frame width in pixels")
	rootCmd.PersistentFlags().IntVar(&height, "height", 0, "frame height in pixels")

	renderCmd := &cobra.Command{
		Use:   "render",
		Short: "render frames offline",
		RunE:  runRender,
	}
	renderCmd.Flags().StringVarP(&framePattern, "out", "o", "", "frame path pattern, e.g. frames/f_%04d.png")
	renderCmd.Flags().StringVar(&gifPath, "gif", "", "write an animated gif")
	renderCmd.Flags().IntVar(&every, "every", 1, "keep every n-th frame")
	renderCmd.Flags().IntVar(&gifDelay, "delay", 0, "gif frame delay in 1/100 s (0 derives it from fps)")
	renderCmd.Flags().BoolVar(&noRecord, "no-record", false, "do not store a run record")

	liveCmd := &cobra.Command{
		Use:   "live",
		Short: "play the animation in the terminal",
		RunE:  runLive,
	}
	liveCmd.Flags().IntVar(&frameRate, "fps", 0, "ticks per second")

	windowCmd := &cobra.Command{
		Use:   "window",
		Short: "play the animation in a window",
		RunE:  runWindow,
	}
	windowCmd.Flags().IntVar(&frameRate, "fps", 0, "frames per second")

	previewCmd := &cobra.Command{
		Use:   "preview",
		Short: "print the first frame as braille",
		RunE:  runPreview,
	}
	previewCmd.Flags().StringVar(&svgPath, "svg", "", "also write the first frame as svg")

	presetsCmd := &cobra.Command{
		Use:   "presets [name]",
		Short: "list presets or print one as yaml",
		Args:  cobra.MaximumNArgs(1),
		RunE:  listPresets,
	}
	presetsCmd.Flags().StringVarP(&presetOut, "out", "o", "", "write the preset to a yaml file instead")

	sampleCmd := &cobra.Command{
		Use:   "sample",
		Short: "plot the trajectory of a behaviour",
		RunE:  sampleTrajectory,
	}
	sampleCmd.Flags().IntVar(&behaviourIdx, "behaviour", 0, "behaviour index")
	sampleCmd.Flags().IntVar(&samples, "n", 200, "number of samples")
	sampleCmd.Flags().StringVar(&svgPath, "svg", "", "also write the path over the scene as svg")

	runsCmd := &cobra.Command{
		Use:   "runs",
		Short: "list recorded renders",
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot the camera path of a recorded render",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}
	plotCmd.Flags().StringVar(&svgPath, "svg", "", "also write the camera and light tracks as svg")

	exportCmd := &cobra.Command{
		Use:   "export [run_id]",
		Short: "export a recorded render as json",
		Args:  cobra.ExactArgs(1),
		RunE:  exportRun,
	}

	rootCmd.AddCommand(renderCmd, liveCmd, windowCmd, previewCmd, presetsCmd, sampleCmd, runsCmd, plotCmd, exportCmd)

	if err := rootCmd.Execute(); err != nil {
		log.Error().Err(err).Msg("vizanim failed")
		os.Exit(1)
	}
}

func setupLogging(level string) error {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil {
		return fmt.Errorf("log level: %w", err)
	}
	zerolog.SetGlobalLevel(lvl)
	zerolog.TimeFieldFormat = time.RFC3339
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen})
	return nil
}

// loadConfig reads --config, or the --preset, and applies the size and
// frame overrides.
func loadConfig() (*config.Config, string, error) {
	var (
		cfg    *config.Config
		source string
		err    error
	)
	if configFile != "" {
		cfg, err = config.Load(configFile)
		if err != nil {
			return nil, "", err
		}
		source = strings.TrimSuffix(filepath.Base(configFile), filepath.Ext(configFile))
	} else {
		cfg = config.GetPreset(preset)
		if cfg == nil {
			return nil, "", fmt.Errorf("unknown preset %q (have %s)", preset, strings.Join(config.ListPresets(), ", "))
		}
		source = preset
	}
	if frames > 0 {
		cfg.Frames = frames
	}
	if width > 0 {
		cfg.Width = width
	}
	if height > 0 {
		cfg.Height = height
	}
	if frameRate > 0 {
		cfg.FPS = frameRate
	}
	return cfg, source, nil
}

func buildAnimation() (*config.Animation, string, error) {
	cfg, source, err := loadConfig()
	if err != nil {
		return nil, "", err
	}
	anim, err := cfg.Build()
	if err != nil {
		return nil, "", fmt.Errorf("%s: %w", source, err)
	}
	log.Debug().Str("source", source).Int("objects", len(anim.Objects)).Int("behaviours", len(anim.Behaviours)).Msg("animation built")
	return anim, source, nil
}

func runRender(cmd *cobra.Command, args []string) error {
	anim, source, err := buildAnimation()
	if err != nil {
		return err
	}
	if framePattern == "" && gifPath == "" && noRecord {
		return errors.New("nothing to write: pass --out, --gif or drop --no-record")
	}

	d := behave.NewDispatcher(anim.Behaviours...)
	var outputs []string
	if framePattern != "" {
		sf, err := behave.NewSaveFrames(framePattern, every)
		if err != nil {
			return err
		}
		d.Add(sf)
		outputs = append(outputs, framePattern)
	}
	if gifPath != "" {
		delay := gifDelay
		if delay <= 0 {
			delay = max(1, 100*every/anim.FPS)
		}
		sg, err := behave.NewSaveGif(gifPath, every, delay)
		if err != nil {
			return err
		}
		d.Add(sg)
		outputs = append(outputs, gifPath)
	}
	rec := &storage.Recorder{}
	d.Add(rec)

	var names []string
	for _, b := range d.Behaviours() {
		names = append(names, behave.Name(b))
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	start := time.Now()
	if err := host.Offline(ctx, anim.Scene, d, anim.Frames); err != nil {
		return err
	}
	elapsed := time.Since(start)
	w, h := anim.Scene.Size()
	fmt.Printf("rendered %d frames (%dx%d) in %s\n", anim.Frames, w, h, elapsed.Round(time.Millisecond))
	for _, o := range outputs {
		fmt.Printf("  %s\n", o)
	}

	if noRecord {
		return nil
	}
	st := storage.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}
	runID, err := st.Save(storage.RunMetadata{
		Source:     source,
		Frames:     anim.Frames,
		Width:      w,
		Height:     h,
		Elapsed:    elapsed.Seconds(),
		Behaviours: names,
		Outputs:    outputs,
	}, &rec.Track)
	if err != nil {
		return err
	}
	fmt.Printf("run: %s\n", runID)
	return nil
}

func runLive(cmd *cobra.Command, args []string) error {
	anim, source, err := buildAnimation()
	if err != nil {
		return err
	}
	bounded := 0
	if frames > 0 {
		bounded = anim.Frames
	}
	return host.Live(anim.Scene, behave.NewDispatcher(anim.Behaviours...), host.LiveOptions{
		Title:  source,
		Frames: bounded,
		FPS:    frameRate,
	})
}

func runWindow(cmd *cobra.Command, args []string) error {
	anim, source, err := buildAnimation()
	if err != nil {
		return err
	}
	bounded := 0
	if frames > 0 {
		bounded = anim.Frames
	}
	return gui.Window(anim.Scene, behave.NewDispatcher(anim.Behaviours...), gui.WindowOptions{
		Title:  "vizanim - " + source,
		Frames: bounded,
		FPS:    frameRate,
	})
}

func runPreview(cmd *cobra.Command, args []string) error {
	anim, _, err := buildAnimation()
	if err != nil {
		return err
	}
	canvas := scene.NewCanvas(80, 24)
	canvas.Frame(anim.Scene)
	anim.Scene.Draw(canvas)
	fmt.Println(canvas.String())

	if svgPath != "" {
		return writeSVG(svgPath, export.SceneSVG(anim.Scene))
	}
	return nil
}

func listPresets(cmd *cobra.Command, args []string) error {
	if len(args) == 1 {
		cfg := config.GetPreset(args[0])
		if cfg == nil {
			return fmt.Errorf("unknown preset %q", args[0])
		}
		if presetOut != "" {
			if err := config.Save(presetOut, cfg); err != nil {
				return err
			}
			fmt.Printf("wrote %s\n", presetOut)
			return nil
		}
		data, err := yaml.Marshal(cfg)
		if err != nil {
			return err
		}
		_, err = os.Stdout.Write(data)
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tFRAMES\tSIZE\tBEHAVIOURS")
	for _, name := range config.ListPresets() {
		cfg := config.Presets[name]
		kinds := make([]string, len(cfg.Behaviours))
		for i, b := range cfg.Behaviours {
			kinds[i] = b.Kind
		}
		fmt.Fprintf(w, "%s\t%d\t%dx%d\t%s\n", name, cfg.Frames, cfg.Width, cfg.Height, strings.Join(kinds, ","))
	}
	return w.Flush()
}

func sampleTrajectory(cmd *cobra.Command, args []string) error {
	cfg, source, err := loadConfig()
	if err != nil {
		return err
	}
	if behaviourIdx < 0 || behaviourIdx >= len(cfg.Behaviours) {
		return fmt.Errorf("%s has %d behaviours, no index %d", source, len(cfg.Behaviours), behaviourIdx)
	}
	bc := cfg.Behaviours[behaviourIdx]
	if bc.Trajectory == nil {
		return fmt.Errorf("behaviour %d (%s) has no trajectory", behaviourIdx, bc.Kind)
	}
	tr, err := bc.Trajectory.Build()
	if err != nil {
		return err
	}
	// periodic trajectories accept any time; sample one period
	points, err := traj.Sample(tr, 0, 1, samples)
	if err != nil {
		return err
	}

	fmt.Printf("source: %s\n", source)
	fmt.Printf("behaviour: %d (%s, %s)\n", behaviourIdx, bc.Kind, bc.Trajectory.Kind)
	fmt.Printf("samples: %d\n\n", len(points))
	plotAxes(points, "progress")

	if svgPath != "" {
		anim, err := cfg.Build()
		if err != nil {
			return err
		}
		return writeSVG(svgPath, export.SceneSVG(anim.Scene, export.Path{
			Points: points,
			Color:  color.RGBA{0, 200, 120, 255},
			Label:  fmt.Sprintf("behaviour %d (%s)", behaviourIdx, bc.Trajectory.Kind),
		}))
	}
	return nil
}

func plotAxes(points []mgl64.Vec3, over string) {
	for axis, name := range []string{"x", "y", "z"} {
		data := make([]float64, len(points))
		for i, p := range points {
			data[i] = p[axis]
		}
		graph := asciigraph.Plot(data,
			asciigraph.Height(8),
			asciigraph.Width(80),
			asciigraph.Caption(fmt.Sprintf("%s vs %s", name, over)),
		)
		fmt.Println(graph)
		fmt.Println()
	}
}

func listRuns(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	runs, err := st.List()
	if err != nil {
		return err
	}

	if len(runs) == 0 {
		fmt.Println("no runs found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tSOURCE\tTIME\tFRAMES\tSIZE\tELAPSED")
	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%dx%d\t%.2fs\n",
			run.ID,
			run.Source,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.Frames,
			run.Width, run.Height,
			run.Elapsed,
		)
	}
	return w.Flush()
}

func plotRun(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	meta, err := st.Load(args[0])
	if err != nil {
		return err
	}
	track, err := st.LoadTrack(args[0])
	if err != nil {
		return err
	}
	if track.Len() == 0 {
		return fmt.Errorf("no data to plot")
	}

	fmt.Printf("run: %s\n", meta.ID)
	fmt.Printf("source: %s\n", meta.Source)
	fmt.Printf("behaviours: %s\n", strings.Join(meta.Behaviours, ", "))
	fmt.Printf("frames: %d\n\n", track.Len())
	plotAxes(track.Camera, "frame")

	if svgPath != "" {
		paths := []export.Path{
			{Points: track.Camera, Color: color.RGBA{0, 120, 255, 255}, Label: "camera"},
			{Points: track.Light, Color: color.RGBA{255, 160, 0, 255}, Label: "light"},
		}
		s := scene.New(meta.Width, meta.Height)
		export.Fit(s, paths...)
		return writeSVG(svgPath, export.SceneSVG(s, paths...))
	}
	return nil
}

func writeSVG(path, svg string) error {
	if err := os.WriteFile(path, []byte(svg), 0644); err != nil {
		return err
	}
	fmt.Printf("wrote %s\n", path)
	return nil
}

func exportRun(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	meta, err := st.Load(args[0])
	if err != nil {
		return err
	}
	track, err := st.LoadTrack(args[0])
	if err != nil {
		return err
	}
	return storage.ExportJSON(os.Stdout, meta, track)
}
