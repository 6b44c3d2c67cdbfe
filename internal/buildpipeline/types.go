package buildpipeline

import (
	"time"

	"lowc/internal/driver"
)

// Stage describes a high-level pipeline phase.
type Stage string

const (
	StageDecode   = Stage(driver.StageDecode)
	StageFold     = Stage(driver.StageFold)
	StageCheck    = Stage(driver.StageCheck)
	StageLower    = Stage(driver.StageLower)
	StageValidate = Stage(driver.StageValidate)
	StageSimplify = Stage(driver.StageSimplify)
	StageRender   = Stage(driver.StageRender)
	// StageWrite stores the rendered output.
	StageWrite Stage = "write"
	// StageBuild covers the whole request.
	StageBuild Stage = "build"
)

// Status captures progress state within a stage.
type Status string

const (
	// StatusQueued indicates the task is waiting to start.
	StatusQueued Status = "queued"
	// StatusWorking indicates the task is currently working.
	StatusWorking Status = "working"
	// StatusDone indicates the task is done.
	StatusDone Status = "done"
	// StatusError indicates the task encountered an error.
	StatusError Status = "error"
)

// Event reports progress for a file (or for the overall pipeline when File is empty).
type Event struct {
	File    string
	Stage   Stage
	Status  Status
	Err     error
	Elapsed time.Duration
	Cached  bool
}

// ProgressSink consumes progress events. Implementations must be safe for
// concurrent use; files are compiled in parallel.
type ProgressSink interface {
	OnEvent(Event)
}

// Timings holds stage durations.
type Timings struct {
	stages map[Stage]time.Duration
}

func (t *Timings) ensure() {
	if t.stages == nil {
		t.stages = make(map[Stage]time.Duration)
	}
}

// Set stores a duration for the given stage.
func (t *Timings) Set(stage Stage, dur time.Duration) {
	if t == nil {
		return
	}
	t.ensure()
	t.stages[stage] = dur
}

// Has reports whether a duration for stage is recorded.
func (t Timings) Has(stage Stage) bool {
	if t.stages == nil {
		return false
	}
	_, ok := t.stages[stage]
	return ok
}

// Duration returns the recorded duration for stage.
func (t Timings) Duration(stage Stage) time.Duration {
	if t.stages == nil {
		return 0
	}
	return t.stages[stage]
}
