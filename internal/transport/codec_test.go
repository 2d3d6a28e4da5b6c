package transport

import (
	"strings"
	"testing"
)

func TestSonicCodecRoundTrip(t *testing.T) {
	codec := sonicCodec{}
	if codec.Name() != "json" {
		t.Fatalf("expected codec name json, got %q", codec.Name())
	}

	original := AddRootRequest{Path: "/tmp/docs"}
	data, err := codec.Marshal(original)
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}

	var decoded AddRootRequest
	if err := codec.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}
	if decoded != original {
		t.Fatalf("round-trip mismatch: got %+v, want %+v", decoded, original)
	}
}

func TestSonicCodecUsesSnakeCaseFieldNames(t *testing.T) {
	codec := sonicCodec{}
	data, err := codec.Marshal(AddCaptureHeadingRequest{
		RootPath:     "/tmp",
		TargetPath:   "notes.docx",
		HeadingLevel: 2,
		HeadingText:  "Section",
	})
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}
	for _, field := range []string{`"root_path"`, `"target_path"`, `"heading_level"`, `"heading_text"`} {
		if !strings.Contains(string(data), field) {
			t.Fatalf("expected %s in marshaled output %s", field, data)
		}
	}
}
