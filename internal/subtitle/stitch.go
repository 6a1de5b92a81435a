package subtitle

// StitchChunks merges per-chunk transcription results into one timeline. The
// chunk at index i contributes its segments shifted by i*chunkSeconds.
// Segment order is preserved; no merging or overlap resolution happens across
// chunk boundaries, so a word spoken across a boundary may appear truncated
// or duplicated in adjacent chunks.
func StitchChunks(chunks [][]Segment, chunkSeconds float64) []Segment {
	var out []Segment
	for i, segments := range chunks {
		offset := float64(i) * chunkSeconds
		for _, s := range segments {
			out = append(out, Segment{
				Start: s.Start + offset,
				End:   s.End + offset,
				Text:  s.Text,
			})
		}
	}
	return out
}

// OffsetBy shifts every segment by a single offset. Used on the
// bounded-range path, where the submitted asset began at startSeconds of the
// original video.
func OffsetBy(segments []Segment, offset float64) []Segment {
	out := make([]Segment, len(segments))
	for i, s := range segments {
		out[i] = Segment{
			Start: s.Start + offset,
			End:   s.End + offset,
			Text:  s.Text,
		}
	}
	return out
}
