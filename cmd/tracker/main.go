// Command tracker runs the marker tracking coordinator against simulated
// collaborators. The real headset integration supplies its own camera,
// detector and input source; this binary exists to exercise the full
// startup sequence and frame pipeline, optionally persisting poses to
// SQLite and writing trajectory plots.
package main

import (
	"flag"
	"log"
	"math"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "modernc.org/sqlite"

	"github.com/TakashiYoshinaga/QuestArUcoMarkerTracking/internal/config"
	"github.com/TakashiYoshinaga/QuestArUcoMarkerTracking/internal/marker"
	"github.com/TakashiYoshinaga/QuestArUcoMarkerTracking/internal/marker/monitor"
	"github.com/TakashiYoshinaga/QuestArUcoMarkerTracking/internal/marker/pipeline"
	"github.com/TakashiYoshinaga/QuestArUcoMarkerTracking/internal/marker/sim"
	"github.com/TakashiYoshinaga/QuestArUcoMarkerTracking/internal/marker/storage/sqlite"

	"gonum.org/v1/gonum/spatial/r3"
)

var (
	configPath = flag.String("config", "", "Path to tracker config JSON (optional)")
	ticks      = flag.Int("ticks", 600, "Number of scheduling ticks to run (0 = until interrupted)")
	warmup     = flag.Int("warmup", 30, "Simulated camera warm-up polls before streaming")
	verbose    = flag.Bool("verbose", false, "Enable diagnostic logging")
	trace      = flag.Bool("trace", false, "Enable per-frame trace logging")
)

func main() {
	flag.Parse()

	diag := func() *os.File {
		if *verbose || *trace {
			return os.Stderr
		}
		return nil
	}()
	traceW := func() *os.File {
		if *trace {
			return os.Stderr
		}
		return nil
	}()
	pipeline.SetLogWriters(os.Stderr, diag, traceW)

	cfg, err := config.LoadTrackingConfig(*configPath)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	pcfg, targets := buildPipelineConfig(cfg)

	// Simulated collaborators: a camera that warms up, and a detector
	// replaying a slow orbit of each bound marker.
	cam := sim.NewCamera(
		marker.Intrinsics{Fx: 600, Fy: 600, Cx: 320, Cy: 240, RefWidth: 640, RefHeight: 480},
		marker.Resolution{Width: 1280, Height: 960},
	)
	cam.WarmupPolls = *warmup
	pcfg.Camera = cam
	pcfg.Detector = scriptedDetector(cfg, *ticks)
	pcfg.Input = sim.NewInput(pipeline.Button(cfg.GetToggleButton()))

	var store *sqlite.Store
	if path := cfg.GetDatabasePath(); path != "" {
		store, err = sqlite.Open(path)
		if err != nil {
			log.Fatalf("open pose database: %v", err)
		}
		defer store.Close()

		sess, err := store.BeginSession(cfg.GetMode())
		if err != nil {
			log.Fatalf("begin session: %v", err)
		}
		log.Printf("recording session %s to %s", sess.SessionID, path)
		defer func() {
			if err := store.EndSession(); err != nil {
				log.Printf("end session: %v", err)
			}
		}()
		pcfg.Observations = store
	}

	var plots *monitor.TrajectoryPlotter
	if dir := cfg.GetPlotDir(); dir != "" {
		plots = monitor.NewTrajectoryPlotter()
		if err := plots.Start(dir); err != nil {
			log.Fatalf("start trajectory plotter: %v", err)
		}
		pcfg.Recorder = plots
	}

	coord := pipeline.New(pcfg)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	ticker := time.NewTicker(cfg.GetTickInterval())
	defer ticker.Stop()

	done := 0
loop:
	for {
		select {
		case <-sigCh:
			log.Printf("interrupted")
			break loop
		case <-ticker.C:
			coord.Tick()
			if coord.Phase() == pipeline.PhaseFailed {
				log.Printf("coordinator halted on configuration error")
				break loop
			}
			done++
			if *ticks > 0 && done >= *ticks {
				break loop
			}
		}
	}

	stats := coord.Stats()
	log.Printf("phase=%s ticks=%d frames=%d skipped=%d toggles=%d targets=%d",
		coord.Phase(), stats.Ticks, stats.FramesProcessed, stats.FramesSkipped, stats.Toggles, len(targets))

	if plots != nil {
		plots.Stop()
		drawn, err := plots.GeneratePlots()
		if err != nil {
			log.Printf("generate plots: %v", err)
		} else if drawn > 0 {
			log.Printf("wrote %d marker trajectories to %s", drawn, cfg.GetPlotDir())
		}
	}
}

// buildPipelineConfig resolves the config file's named targets into scene
// nodes and assembles the coordinator configuration.
func buildPipelineConfig(cfg *config.TrackingConfig) (pipeline.Config, map[string]*marker.Node) {
	targets := make(map[string]*marker.Node)
	node := func(name string) *marker.Node {
		if n, ok := targets[name]; ok {
			return n
		}
		n := marker.NewNode(name)
		targets[name] = n
		return n
	}

	bindings := make([]marker.Binding, 0, len(cfg.Bindings))
	for _, b := range cfg.Bindings {
		bindings = append(bindings, marker.Binding{MarkerID: b.MarkerID, Target: node(b.Target)})
	}
	if len(bindings) == 0 && cfg.GetMode() == "registry" {
		// Default sample scene: three markers, three objects.
		for id, name := range map[int]string{1: "cube", 2: "sphere", 3: "cone"} {
			bindings = append(bindings, marker.Binding{MarkerID: id, Target: node(name)})
		}
	}

	pcfg := pipeline.Config{
		Bindings:           bindings,
		ToggleButton:       pipeline.Button(cfg.GetToggleButton()),
		EnableDebugSurface: cfg.GetDebugSurface(),
		InitialVisibility:  pipeline.Visibility(cfg.GetInitialVisibility()),
	}
	if cfg.GetMode() == "board" {
		pcfg.Mode = pipeline.ModeBoard
		pcfg.BoardTarget = node(cfg.GetBoardTarget())
	}
	return pcfg, targets
}

// scriptedDetector builds a detection script that orbits each bound
// marker slowly in front of the camera so persisted sessions and plots
// have realistic content.
func scriptedDetector(cfg *config.TrackingConfig, frames int) *sim.Detector {
	if frames <= 0 {
		frames = 600
	}

	ids := make([]int, 0, len(cfg.Bindings))
	seen := make(map[int]bool)
	for _, b := range cfg.Bindings {
		if !seen[b.MarkerID] {
			ids = append(ids, b.MarkerID)
			seen[b.MarkerID] = true
		}
	}
	if len(ids) == 0 {
		ids = []int{0, 1, 2, 3}
	}

	script := make([][]sim.Detection, frames)
	for f := range script {
		angle := float64(f) * 0.01
		for i, id := range ids {
			phase := angle + float64(i)*2*math.Pi/float64(len(ids))
			script[f] = append(script[f], sim.Detection{
				MarkerID: id,
				Pose: marker.Pose{
					Position: r3.Vec{
						X: 0.4 * math.Cos(phase),
						Y: 0.1 * float64(i),
						Z: -1.2 - 0.2*math.Sin(phase),
					},
					Orientation: r3.NewRotation(phase, r3.Vec{Y: 1}),
				},
			})
		}
	}
	return &sim.Detector{Script: script, Factor: 2}
}
