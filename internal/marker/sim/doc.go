// Package sim provides scriptable stand-ins for the external
// collaborators: a camera that comes up after a configurable warm-up, a
// detector that replays a per-frame detection script, and an input source
// that fires button edges on chosen ticks. They back the tracker's dev
// mode and the pipeline tests.
package sim
