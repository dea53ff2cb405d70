package model

import (
	"fmt"
	"runtime/debug"
)

type CustomError struct {
	Processor  string                 `json:"processor"`
	Inner      error                  `json:"innerError"`
	Message    string                 `json:"message"`
	StackTrace string                 `json:"stackTrace"`
	Misc       map[string]interface{} `json:"misc"`
}

func GenError(proc string, err error, misc map[string]interface{}, messagef string, args ...interface{}) CustomError {
	return CustomError{
		Processor:  proc,
		Inner:      err,
		Message:    fmt.Sprintf(messagef, args...),
		StackTrace: string(debug.Stack()),
		Misc:       misc,
	}
}

// Keypoint is a detected 2D facial reference point in frame pixel space.
// Its slot within a Face's keypoint slice is its topology index; indices are
// stable across frames for the same topology version.
type Keypoint struct {
	X float32 `json:"x"`
	Y float32 `json:"y"`
}

// Face is one detected face: an ordered, index-addressable keypoint
// collection plus the detector's presence score. Faces are not retained
// across frames; each frame's result is consumed and discarded.
type Face struct {
	Keypoints []Keypoint `json:"keypoints"`
	Score     float32    `json:"score"`
}

type FramerStats struct {
	Name      string `json:"name"`
	Source    string `json:"source"`
	Frames    int    `json:"frames"`
	Dropped   int    `json:"dropped"`
	Errors    int    `json:"errors"`
	Uptime    int64  `json:"uptime"`
	FPS       int    `json:"fps"`
	Timestamp int64  `json:"timestamp"`
}

type LoopStats struct {
	Name        string  `json:"name"`
	Frames      int     `json:"frames"`
	Skipped     int     `json:"skipped"`
	NoFaceTicks int     `json:"noFaceTicks"`
	Errors      int     `json:"errors"`
	Uptime      int64   `json:"uptime"`
	FPS         int     `json:"fps"`
	AvgTickTime float64 `json:"avgTickTime"`
	Timestamp   int64   `json:"timestamp"`
}
