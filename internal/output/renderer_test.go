package output

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/simons-plugins/logs-over-reflector/internal/model"
)

func TestJSONRenderer(t *testing.T) {
	var buf bytes.Buffer
	renderer := &JSONRenderer{enc: json.NewEncoder(&buf)}

	entry := model.Entry{
		Timestamp: "2024-01-01 10:00:00.000",
		Source:    "Plugin",
		Message:   "something broke\n  detail",
	}

	if err := renderer.Render(entry); err != nil {
		t.Fatal(err)
	}

	var got model.Entry
	if err := json.Unmarshal(buf.Bytes(), &got); err != nil {
		t.Fatalf("invalid JSON output: %v\nraw: %s", err, buf.String())
	}

	if got.Source != "Plugin" {
		t.Errorf("expected source Plugin, got %q", got.Source)
	}
	if got.Message != "something broke\n  detail" {
		t.Errorf("embedded newline lost: %q", got.Message)
	}
	if got.Severity != nil {
		t.Errorf("expected null typeVal, got %v", got.Severity)
	}
}

func TestTextRendererWritesEveryField(t *testing.T) {
	var buf bytes.Buffer
	renderer := &TextRenderer{w: &buf}

	entry := model.Entry{
		Timestamp: "2024-01-01 10:00:00.000",
		Source:    "Z-Wave",
		Message:   "node 12 awake",
	}

	if err := renderer.Render(entry); err != nil {
		t.Fatal(err)
	}

	out := buf.String()
	for _, want := range []string{"2024-01-01 10:00:00.000", "Z-Wave", "node 12 awake"} {
		if !bytes.Contains(buf.Bytes(), []byte(want)) {
			t.Errorf("output missing %q: %s", want, out)
		}
	}
}
