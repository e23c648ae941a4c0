package cli

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestPromptInt(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    int
		wantErr bool
	}{
		{"valid", "12\n", 12, false},
		{"retries until in range", "abc\n0\n99\n7\n", 7, false},
		{"no trailing newline", "5", 5, false},
		{"eof", "", 0, true},
		{"eof after bad input", "x\n", 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out bytes.Buffer
			got, err := PromptInt(strings.NewReader(tt.input), &out, "Width", 2, 74)
			if (err != nil) != tt.wantErr {
				t.Fatalf("err = %v, wantErr %v", err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("got %d, want %d", got, tt.want)
			}
			if !strings.Contains(out.String(), "Width (2-74): ") {
				t.Errorf("prompt missing: %q", out.String())
			}
		})
	}
}

func TestWriteJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "out.json")
	n, err := WriteJSON(path, []map[string]int{{"x": 3}})
	if err != nil {
		t.Fatalf("WriteJSON failed: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if n != len(data) {
		t.Errorf("reported %d bytes, file has %d", n, len(data))
	}
	var got []map[string]int
	if err := json.Unmarshal(data, &got); err != nil || got[0]["x"] != 3 {
		t.Errorf("round trip = %v (%v)", got, err)
	}
	if !strings.Contains(string(data), "\n  {") {
		t.Errorf("expected two-space indentation:\n%s", data)
	}
}

func TestCount(t *testing.T) {
	if got := Count(1234567); got != "1,234,567" {
		t.Errorf("Count = %q", got)
	}
}
