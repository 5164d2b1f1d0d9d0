// Package monitor provides optional post-session visualisation of marker
// trajectories. It records every applied pose and renders a top-down
// (X/Z plane) path per marker after the run.
package monitor

import (
	"fmt"
	"image/color"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/TakashiYoshinaga/QuestArUcoMarkerTracking/internal/marker"
)

// PoseSample is one recorded placement, projected onto the X/Z plane.
type PoseSample struct {
	FrameIdx int
	X, Z     float64
}

// TrajectoryPlotter accumulates applied poses per marker. It implements
// the pipeline's PoseRecorder; call GeneratePlots after the session to
// write the output image.
type TrajectoryPlotter struct {
	mu        sync.Mutex
	enabled   bool
	outputDir string
	frameIdx  int
	lastFrame map[int]int
	samples   map[int][]PoseSample
}

// NewTrajectoryPlotter creates a disabled plotter; call Start to begin
// recording.
func NewTrajectoryPlotter() *TrajectoryPlotter {
	return &TrajectoryPlotter{
		samples:   make(map[int][]PoseSample),
		lastFrame: make(map[int]int),
	}
}

// Start enables recording and sets the directory plots are written to.
func (tp *TrajectoryPlotter) Start(outputDir string) error {
	tp.mu.Lock()
	defer tp.mu.Unlock()

	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}
	tp.outputDir = outputDir
	tp.enabled = true
	tp.frameIdx = 0
	tp.samples = make(map[int][]PoseSample)
	tp.lastFrame = make(map[int]int)
	return nil
}

// Stop disables recording. Call GeneratePlots to produce output files.
func (tp *TrajectoryPlotter) Stop() {
	tp.mu.Lock()
	defer tp.mu.Unlock()
	tp.enabled = false
}

// Record captures one applied pose. The frame index advances whenever a
// marker repeats, so markers recorded together share an index.
func (tp *TrajectoryPlotter) Record(markerID int, pose marker.Pose) {
	tp.mu.Lock()
	defer tp.mu.Unlock()

	if !tp.enabled {
		return
	}
	if last, ok := tp.lastFrame[markerID]; ok && last == tp.frameIdx {
		tp.frameIdx++
	}
	tp.lastFrame[markerID] = tp.frameIdx
	tp.samples[markerID] = append(tp.samples[markerID], PoseSample{
		FrameIdx: tp.frameIdx,
		X:        pose.Position.X,
		Z:        pose.Position.Z,
	})
}

// SampleCount returns the number of recorded samples for a marker.
func (tp *TrajectoryPlotter) SampleCount(markerID int) int {
	tp.mu.Lock()
	defer tp.mu.Unlock()
	return len(tp.samples[markerID])
}

// GeneratePlots writes a top-down trajectory plot with one line per
// marker. Returns the number of marker paths drawn.
func (tp *TrajectoryPlotter) GeneratePlots() (int, error) {
	tp.mu.Lock()
	defer tp.mu.Unlock()

	if len(tp.samples) == 0 {
		return 0, nil
	}

	p := plot.New()
	p.Title.Text = "Marker trajectories (top-down)"
	p.X.Label.Text = "X (m)"
	p.Y.Label.Text = "Z (m)"

	var ids []int
	for id := range tp.samples {
		ids = append(ids, id)
	}
	sort.Ints(ids)

	colors := palette(len(ids))

	drawn := 0
	for i, id := range ids {
		samples := tp.samples[id]
		pts := make(plotter.XYs, 0, len(samples))
		for _, s := range samples {
			pts = append(pts, plotter.XY{X: s.X, Y: s.Z})
		}
		if len(pts) == 0 {
			continue
		}

		line, err := plotter.NewLine(pts)
		if err != nil {
			return drawn, fmt.Errorf("marker %d: %w", id, err)
		}
		line.Color = colors[i]
		line.Width = vg.Points(1)
		p.Add(line)
		p.Legend.Add(fmt.Sprintf("marker %d", id), line)
		drawn++
	}

	p.Legend.Top = true

	out := filepath.Join(tp.outputDir, "trajectories.png")
	if err := p.Save(8*vg.Inch, 8*vg.Inch, out); err != nil {
		return drawn, fmt.Errorf("save trajectory plot: %w", err)
	}
	return drawn, nil
}

// palette creates n distinct line colors spread around the hue wheel.
func palette(n int) []color.Color {
	if n <= 0 {
		return nil
	}
	colors := make([]color.Color, n)
	for i := 0; i < n; i++ {
		r, g, b := hslToRGB(float64(i)/float64(n), 0.7, 0.45)
		colors[i] = color.RGBA{R: r, G: g, B: b, A: 255}
	}
	return colors
}

func hslToRGB(h, s, l float64) (uint8, uint8, uint8) {
	c := (1 - abs(2*l-1)) * s
	hp := h * 6
	x := c * (1 - abs(mod2(hp)-1))

	var r, g, b float64
	switch {
	case hp < 1:
		r, g, b = c, x, 0
	case hp < 2:
		r, g, b = x, c, 0
	case hp < 3:
		r, g, b = 0, c, x
	case hp < 4:
		r, g, b = 0, x, c
	case hp < 5:
		r, g, b = x, 0, c
	default:
		r, g, b = c, 0, x
	}

	m := l - c/2
	return uint8((r + m) * 255), uint8((g + m) * 255), uint8((b + m) * 255)
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}

func mod2(v float64) float64 {
	for v >= 2 {
		v -= 2
	}
	return v
}
