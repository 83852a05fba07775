package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestRunReadsStdin(t *testing.T) {
	var out bytes.Buffer
	err := run([]string{"-rate", "0.5"}, strings.NewReader("Soarele răsare. Apoi apune."), &out)
	if err != nil {
		t.Fatalf("run: %v", err)
	}

	var result struct {
		Summary         string `json:"summary"`
		SelectedIndices []int  `json:"selected_indices"`
	}
	if err := json.Unmarshal(out.Bytes(), &result); err != nil {
		t.Fatalf("output is not JSON: %v\n%s", err, out.String())
	}
	if result.Summary != "Soarele răsare." {
		t.Errorf("summary = %q", result.Summary)
	}
}

func TestRunReadsFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "text.txt")
	if err := os.WriteFile(path, []byte("Prima idee. A doua idee. A treia idee."), 0o644); err != nil {
		t.Fatal(err)
	}

	var out bytes.Buffer
	if err := run([]string{"-rate", "1.0", path}, strings.NewReader(""), &out); err != nil {
		t.Fatalf("run: %v", err)
	}
	if !strings.Contains(out.String(), `"selected_indices": [`) {
		t.Errorf("unexpected output:\n%s", out.String())
	}
}

func TestRunRejectsBadRate(t *testing.T) {
	var out bytes.Buffer
	if err := run([]string{"-rate", "3"}, strings.NewReader("Unu. Doi."), &out); err == nil {
		t.Error("expected error for compression rate 3")
	}
}
