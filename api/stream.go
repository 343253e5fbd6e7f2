package api

import "time"

// MsgType is a message type for job lifecycle events
type MsgType string

const (
	StartJobMsg  MsgType = "job_start"
	FinishJobMsg MsgType = "job_finish"
)

// Size constraints for strings embedded in events
const (
	MaxEventTextHeight = 40
	MaxEventTextWidth  = 80
)

// Header is the common header for all lifecycle events
type Header struct {
	JobID   string  `json:"job_id"`
	MsgType MsgType `json:"msg_type"`
}

// StartJobEvent is sent right before the job is handed to the scheduler
type StartJobEvent struct {
	Header
	Cmd         string  `json:"cmd"`
	Cpus        float64 `json:"cpus"`
	Mem         int     `json:"mem"`
	Disk        int     `json:"disk"`
	StartedTime string  `json:"started_time"`
}

// FinishJobEvent is sent once the scheduler reported the outcome
type FinishJobEvent struct {
	Header
	Passed       bool    `json:"passed"`
	ErrorMessage *string `json:"error_message"`
	FinishedTime string  `json:"finished_time"`
}

func NewHeader(jobID string, msgType MsgType) Header {
	return Header{
		JobID:   jobID,
		MsgType: msgType,
	}
}

func NewStartJobEvent(job Job) StartJobEvent {
	return StartJobEvent{
		Header:      NewHeader(job.ID, StartJobMsg),
		Cmd:         job.Run.Cmd,
		Cpus:        job.Run.Cpus,
		Mem:         job.Run.Mem,
		Disk:        job.Run.Disk,
		StartedTime: time.Now().Format(time.RFC3339),
	}
}

func NewFinishJobEvent(jobID string, errorMessage *string) FinishJobEvent {
	return FinishJobEvent{
		Header:       NewHeader(jobID, FinishJobMsg),
		Passed:       errorMessage == nil,
		ErrorMessage: errorMessage,
		FinishedTime: time.Now().Format(time.RFC3339),
	}
}
