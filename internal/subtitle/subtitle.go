// Package subtitle holds the timestamped segment type and the timeline
// stitching that maps per-chunk transcription results onto the original
// video's clock.
package subtitle

// Segment is one timestamped piece of transcribed text. Start and End are
// seconds relative to whatever asset produced it: the chunk's own zero point
// before stitching, the original video's zero point after.
type Segment struct {
	Start float64 `json:"start"`
	End   float64 `json:"end"`
	Text  string  `json:"text"`
}
