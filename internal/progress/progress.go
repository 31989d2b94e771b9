// Package progress plays a fixed sequence of named stages alongside a
// single in-flight request. The stages are timed, not event-driven: they
// approximate perceived work and are deliberately not synchronized to real
// server progress.
package progress

import (
	"context"
	"errors"
	"sync"
	"time"
)

// ErrBusy is returned when Run is called while a run is already in flight.
// This is the double-submission lockout: one active run per sequencer.
var ErrBusy = errors.New("a run is already in progress")

// StageIdle is reported after a run settles (success or failure).
const StageIdle = ""

// StageComplete is the terminal stage shown briefly before reset.
const StageComplete = "complete"

// Stage is one phase of the simulated sequence.
type Stage struct {
	Name     string
	Duration time.Duration
}

// PaperStages returns the document-analysis stage sequence.
func PaperStages() []Stage {
	return []Stage{
		{Name: "extracting", Duration: 1500 * time.Millisecond},
		{Name: "analyzing", Duration: 2000 * time.Millisecond},
		{Name: "structuring", Duration: 1500 * time.Millisecond},
		{Name: StageComplete, Duration: 1000 * time.Millisecond},
	}
}

// VideoStages returns the video-analysis stage sequence.
func VideoStages() []Stage {
	return []Stage{
		{Name: "fetching", Duration: 1200 * time.Millisecond},
		{Name: "transcribing", Duration: 1500 * time.Millisecond},
		{Name: "analyzing", Duration: 2000 * time.Millisecond},
		{Name: StageComplete, Duration: 1000 * time.Millisecond},
	}
}

// Sequencer drives the stage sequence for one submission at a time.
type Sequencer struct {
	stages   []Stage
	onChange func(stage string)

	mu      sync.Mutex
	current string
	running bool
}

// NewSequencer creates a sequencer. onChange is invoked for every stage
// transition, including the reset to StageIdle; it may be nil.
func NewSequencer(stages []Stage, onChange func(stage string)) *Sequencer {
	return &Sequencer{
		stages:   stages,
		onChange: onChange,
	}
}

// Current returns the stage being displayed, or StageIdle.
func (s *Sequencer) Current() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current
}

// Run starts work concurrently, plays every pre-completion stage for its
// fixed duration, then awaits the real result. On success the terminal
// stage is shown for its duration before the reset to idle; on failure or
// cancellation the sequencer resets immediately and returns the error.
// Stages advance monotonically and never rewind mid-run.
func (s *Sequencer) Run(ctx context.Context, work func(ctx context.Context) error) error {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		return ErrBusy
	}
	s.running = true
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		s.running = false
		s.mu.Unlock()
		s.set(StageIdle)
	}()

	done := make(chan error, 1)
	go func() {
		done <- work(ctx)
	}()

	// Play the simulated stages, racing the real request.
	for _, stage := range s.stages {
		if stage.Name == StageComplete {
			break
		}
		s.set(stage.Name)
		if err := sleep(ctx, stage.Duration); err != nil {
			<-done // let the worker observe cancellation
			return err
		}
	}

	// The simulation is ahead of the wire; now block on the real result.
	select {
	case err := <-done:
		if err != nil {
			return err
		}
	case <-ctx.Done():
		<-done
		return ctx.Err()
	}

	if final := s.finalStage(); final != nil {
		s.set(final.Name)
		if err := sleep(ctx, final.Duration); err != nil {
			return err
		}
	}
	return nil
}

func (s *Sequencer) finalStage() *Stage {
	for i := range s.stages {
		if s.stages[i].Name == StageComplete {
			return &s.stages[i]
		}
	}
	return nil
}

func (s *Sequencer) set(stage string) {
	s.mu.Lock()
	s.current = stage
	cb := s.onChange
	s.mu.Unlock()
	if cb != nil {
		cb(stage)
	}
}

func sleep(ctx context.Context, d time.Duration) error {
	select {
	case <-time.After(d):
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
