package entities

// SpeakerCandidate is one entry of the platform's ranked speaker guess
// list for a diarized segment
type SpeakerCandidate struct {
	Name       string  `json:"name"`
	Confidence float64 `json:"confidence"`
}

// TranscriptSegment is the boundary schema for one segment of the
// platform transcript. The stored raw transcript keeps the platform's
// full payload opaque; this type only declares the fields this system
// reads when rendering a speaker-labeled view.
type TranscriptSegment struct {
	Start                 *float64           `json:"start,omitempty"`
	End                   *float64           `json:"end,omitempty"`
	Speaker               *int               `json:"speaker,omitempty"`
	SpeakerName           *string            `json:"speaker_name,omitempty"`
	PotentialSpeakerNames []SpeakerCandidate `json:"potential_speaker_names,omitempty"`
	Transcript            string             `json:"transcript"`
	Confidence            *float64           `json:"confidence,omitempty"`
}
