package summary

import (
	"encoding/json"
	"testing"
)

func TestFormatTranscript_SpeakerPriority(t *testing.T) {
	raw := json.RawMessage(`[
		{"start": 0, "end": 2.9, "speaker": 0, "speaker_name": "Alice", "transcript": "Welcome everyone."},
		{"start": 3, "end": 65, "speaker": 1, "potential_speaker_names": [
			{"name": "Bob", "confidence": 0.42},
			{"name": "Carol", "confidence": 0.87}
		], "transcript": "Thanks for having me."},
		{"start": 66, "end": 70, "speaker": 2, "transcript": "Hello."},
		{"transcript": "Background noise."},
		{"start": 71, "end": 72, "speaker": 0, "transcript": "   "}
	]`)

	lines := FormatTranscript(raw)
	if len(lines) != 4 {
		t.Fatalf("expected 4 lines, got %d: %v", len(lines), lines)
	}
	if lines[0] != "[00:00-00:02] Alice: Welcome everyone." {
		t.Fatalf("explicit speaker name should win: %q", lines[0])
	}
	if lines[1] != "[00:03-01:05] Carol (87%): Thanks for having me." {
		t.Fatalf("highest-confidence candidate with confidence expected: %q", lines[1])
	}
	if lines[2] != "[01:06-01:10] Speaker 2: Hello." {
		t.Fatalf("numeric speaker fallback expected: %q", lines[2])
	}
	if lines[3] != "Unknown: Background noise." {
		t.Fatalf("unknown speaker without timestamps expected: %q", lines[3])
	}
}

func TestFormatTranscript_StringWrappedArray(t *testing.T) {
	inner := `[{"start": 1, "end": 2, "speaker": 0, "transcript": "Hi."}]`
	raw, _ := json.Marshal(inner)

	lines := FormatTranscript(raw)
	if len(lines) != 1 || lines[0] != "[00:01-00:02] Speaker 0: Hi." {
		t.Fatalf("wrapped array should be unwrapped, got %v", lines)
	}
}

func TestFormatTranscript_Unparseable(t *testing.T) {
	if lines := FormatTranscript(json.RawMessage(`{"not": "an array"}`)); lines != nil {
		t.Fatalf("non-array transcript should yield nil, got %v", lines)
	}
	if lines := FormatTranscript(json.RawMessage(`"plain text, not json"`)); lines != nil {
		t.Fatalf("non-json string should yield nil, got %v", lines)
	}
	if lines := FormatTranscript(nil); lines != nil {
		t.Fatalf("empty input should yield nil, got %v", lines)
	}
}
