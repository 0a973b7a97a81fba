package transcription

import (
	"context"

	"github.com/looplab/fsm"
)

// Stage is a step of one processing request.
type Stage string

const (
	StageIdle         Stage = "idle"
	StageUploading    Stage = "uploading"
	StageDiarizing    Stage = "diarizing"
	StageTranscribing Stage = "transcribing"
	StageMerging      Stage = "merging"
	StageCompleted    Stage = "completed"
	StageError        Stage = "error"
)

const (
	eventUpload     = "upload"
	eventDiarize    = "diarize"
	eventTranscribe = "transcribe"
	eventMerge      = "merge"
	eventComplete   = "complete"
	eventFail       = "fail"
)

// Terminal reports whether a new request may start from s.
func (s Stage) Terminal() bool {
	return s == StageIdle || s == StageCompleted || s == StageError
}

// Observer is told synchronously about every stage entered.
type Observer func(Stage)

// session is the state machine for one client session:
//
//	idle -> uploading -> diarizing -> transcribing -> merging -> completed
//
// with any in-flight stage able to fail into error. A new upload is only
// accepted from idle, completed or error.
type session struct {
	machine *fsm.FSM
}

func newSession(onEnter func(Stage)) *session {
	return &session{
		machine: fsm.NewFSM(
			string(StageIdle),
			fsm.Events{
				{Name: eventUpload, Src: []string{string(StageIdle), string(StageCompleted), string(StageError)}, Dst: string(StageUploading)},
				{Name: eventDiarize, Src: []string{string(StageUploading)}, Dst: string(StageDiarizing)},
				{Name: eventTranscribe, Src: []string{string(StageDiarizing)}, Dst: string(StageTranscribing)},
				{Name: eventMerge, Src: []string{string(StageTranscribing)}, Dst: string(StageMerging)},
				{Name: eventComplete, Src: []string{string(StageMerging)}, Dst: string(StageCompleted)},
				{Name: eventFail, Src: []string{
					string(StageUploading), string(StageDiarizing), string(StageTranscribing), string(StageMerging),
				}, Dst: string(StageError)},
			},
			fsm.Callbacks{
				"enter_state": func(_ context.Context, e *fsm.Event) {
					if onEnter != nil {
						onEnter(Stage(e.Dst))
					}
					if len(e.Args) > 0 {
						if observe, ok := e.Args[0].(Observer); ok && observe != nil {
							observe(Stage(e.Dst))
						}
					}
				},
			},
		),
	}
}

func (s *session) current() Stage {
	return Stage(s.machine.Current())
}

func (s *session) canStart() bool {
	return s.machine.Can(eventUpload)
}

// fire ignores cancellation of ctx so a failed request still lands in error.
func (s *session) fire(ctx context.Context, event string, observe Observer) error {
	return s.machine.Event(context.WithoutCancel(ctx), event, observe)
}
