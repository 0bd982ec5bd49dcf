package domain

// Token is one decoded increment of generated text. Done marks the end of the
// stream and carries no text guarantee.
type Token struct {
	Text string
	Done bool
}

// StreamWriter receives generated text as it arrives.
type StreamWriter interface {
	WriteChunk(text string)
	Done()
}

// TranscriptSink is a StreamWriter that also retains everything written, in
// order, for post-stream processing.
type TranscriptSink interface {
	StreamWriter
	Transcript() string
}
