package api

import "github.com/skillsenselab/ytscribe/internal/subtitle"

// transcribeRequest is the query contract for GET /transcribe.
type transcribeRequest struct {
	VideoURL string `form:"video_url" validate:"required"`
	Language string `form:"language" validate:"max=16"`
}

// segmentRequest is the query contract for GET /transcribe-segment.
type segmentRequest struct {
	VideoURL        string  `form:"video_url" validate:"required"`
	StartSeconds    float64 `form:"start_seconds" validate:"gte=0"`
	DurationSeconds float64 `form:"duration_seconds" validate:"gt=0,lte=3600"`
	Language        string  `form:"language" validate:"max=16"`
}

// TranscribeResponse is the success payload for whole-video transcription.
type TranscribeResponse struct {
	Subtitles []subtitle.Segment `json:"subtitles"`
	VideoID   string             `json:"video_id"`
	Status    string             `json:"status"`
	Message   string             `json:"message,omitempty"`
}

// SegmentResponse is the success payload for bounded-range transcription.
// Subtitle timestamps are absolute positions in the original video.
type SegmentResponse struct {
	Subtitles       []subtitle.Segment `json:"subtitles"`
	VideoID         string             `json:"video_id"`
	SegmentStart    float64            `json:"segment_start"`
	SegmentDuration float64            `json:"segment_duration"`
	Status          string             `json:"status"`
	Message         string             `json:"message,omitempty"`
}

// HealthResponse is the payload for GET /health.
type HealthResponse struct {
	Status  string `json:"status"`
	Service string `json:"service"`
}
