package pipeline

import (
	"errors"
	"fmt"
)

// ErrEmptyInput means the episode had zero usable blocks; nothing was
// produced.
var ErrEmptyInput = errors.New("no usable script blocks")

// Stage names the pipeline step an error escaped from. Per-block synthesis
// troubles are absorbed before they reach this level, so only the shared
// episode-wide steps appear in failures.
type Stage string

const (
	StageCollect Stage = "collect-blocks"
	StageSynth   Stage = "synthesize"
	StageConcat  Stage = "concatenate-audio"
	StageProbe   Stage = "probe-duration"
	StageRender  Stage = "render-frames"
	StageMux     Stage = "mux"
)

// StageError wraps a fatal error with the stage that raised it.
type StageError struct {
	Stage Stage
	Err   error
}

func (e *StageError) Error() string {
	return fmt.Sprintf("stage %s: %v", e.Stage, e.Err)
}

func (e *StageError) Unwrap() error { return e.Err }

func stageErr(stage Stage, err error) error {
	return &StageError{Stage: stage, Err: err}
}
