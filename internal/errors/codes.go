package errors

// ErrorCode represents a machine-readable error code.
type ErrorCode string

// Pipeline stage errors
const (
	// ErrCodeInvalidReference indicates the video reference could not be parsed.
	ErrCodeInvalidReference ErrorCode = "INVALID_REFERENCE"
	// ErrCodeDownloadFailed indicates the whole-video audio download failed.
	ErrCodeDownloadFailed ErrorCode = "DOWNLOAD_FAILED"
	// ErrCodeSegmentDownloadFailed indicates all bounded-range fetch strategies failed.
	ErrCodeSegmentDownloadFailed ErrorCode = "SEGMENT_DOWNLOAD_FAILED"
	// ErrCodeTranscodeFailed indicates the audio conversion failed.
	ErrCodeTranscodeFailed ErrorCode = "TRANSCODE_FAILED"
	// ErrCodeChunkingFailed indicates splitting produced no output pieces.
	ErrCodeChunkingFailed ErrorCode = "CHUNKING_FAILED"
	// ErrCodeEmptyAsset indicates the audio file is missing or zero-size.
	ErrCodeEmptyAsset ErrorCode = "EMPTY_ASSET"
	// ErrCodeTranscriptionService indicates a remote transcription failure.
	ErrCodeTranscriptionService ErrorCode = "TRANSCRIPTION_SERVICE_ERROR"
)

// Request and catch-all errors
const (
	// ErrCodeInvalidInput indicates the request input is invalid.
	ErrCodeInvalidInput ErrorCode = "INVALID_INPUT"
	// ErrCodeInternal indicates an internal server error.
	ErrCodeInternal ErrorCode = "INTERNAL_ERROR"
)
