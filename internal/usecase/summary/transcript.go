package summary

import (
	"encoding/json"
	"fmt"
	"math"
	"strings"

	"github.com/summario-team/summario-api/internal/domain/entities"
)

// FormatTranscript renders a diarized platform transcript as
// speaker-labeled lines. Returns nil when the payload does not parse as
// a segment array; callers then fall back to embedding the raw JSON.
func FormatTranscript(raw json.RawMessage) []string {
	segments := decodeSegments(raw)
	if segments == nil {
		return nil
	}

	lines := make([]string, 0, len(segments))
	for _, segment := range segments {
		text := strings.TrimSpace(segment.Transcript)
		if text == "" {
			continue
		}

		label := speakerLabel(segment)
		ts := timestampPrefix(segment.Start, segment.End)
		lines = append(lines, ts+label+": "+text)
	}
	return lines
}

// decodeSegments tolerates the transcript arriving either as a JSON
// array or as a JSON string wrapping one
func decodeSegments(raw json.RawMessage) []entities.TranscriptSegment {
	if len(raw) == 0 {
		return nil
	}

	var segments []entities.TranscriptSegment
	if err := json.Unmarshal(raw, &segments); err == nil {
		return segments
	}

	var wrapped string
	if err := json.Unmarshal(raw, &wrapped); err != nil {
		return nil
	}
	if err := json.Unmarshal([]byte(wrapped), &segments); err != nil {
		return nil
	}
	return segments
}

// speakerLabel picks the most probable speaker for a segment. An
// explicit name wins; otherwise the highest-confidence candidate with
// its confidence appended; then the numeric speaker slot; "Unknown"
// as a last resort.
func speakerLabel(segment entities.TranscriptSegment) string {
	if segment.SpeakerName != nil {
		if name := strings.TrimSpace(*segment.SpeakerName); name != "" {
			return name
		}
	}

	if len(segment.PotentialSpeakerNames) > 0 {
		best := segment.PotentialSpeakerNames[0]
		for _, candidate := range segment.PotentialSpeakerNames[1:] {
			if candidate.Confidence > best.Confidence {
				best = candidate
			}
		}
		return fmt.Sprintf("%s (%d%%)", best.Name, int(math.Round(best.Confidence*100)))
	}

	if segment.Speaker != nil {
		return fmt.Sprintf("Speaker %d", *segment.Speaker)
	}
	return "Unknown"
}

func timestampPrefix(start, end *float64) string {
	startTS := formatTimestamp(start)
	endTS := formatTimestamp(end)
	switch {
	case startTS != "" && endTS != "":
		return "[" + startTS + "-" + endTS + "] "
	case startTS != "":
		return "[" + startTS + "] "
	default:
		return ""
	}
}

func formatTimestamp(seconds *float64) string {
	if seconds == nil || *seconds < 0 || math.IsNaN(*seconds) {
		return ""
	}
	total := int(*seconds)
	return fmt.Sprintf("%02d:%02d", total/60, total%60)
}
