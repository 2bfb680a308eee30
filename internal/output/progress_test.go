package output

import (
	"bytes"
	"strings"
	"testing"
)

func TestProgressBar_NonTTYOnlyEmitsCompletion(t *testing.T) {
	var buf bytes.Buffer
	bar := NewProgress(4, "Importing rows")
	bar.SetWriter(&buf)

	bar.Increment()
	bar.Increment()
	if buf.Len() != 0 {
		t.Errorf("expected no output before completion on non-TTY, got %q", buf.String())
	}

	bar.IncrementBy(2)
	out := buf.String()
	if !strings.Contains(out, "100%") {
		t.Errorf("expected completion line, got %q", out)
	}
	if !strings.Contains(out, "Importing rows") {
		t.Errorf("expected description, got %q", out)
	}

	// Finish after an already-emitted 100% line must not duplicate it.
	bar.Finish()
	if strings.Count(buf.String(), "100%") != 1 {
		t.Errorf("expected exactly one completion line, got %q", buf.String())
	}
}

func TestProgressBar_ClampsPastTotal(t *testing.T) {
	var buf bytes.Buffer
	bar := NewProgress(2, "work")
	bar.SetWriter(&buf)

	bar.IncrementBy(10)
	if !strings.Contains(buf.String(), "100%") {
		t.Errorf("expected clamped 100%%, got %q", buf.String())
	}
}

func TestSpinner_NonTTYPrintsOnce(t *testing.T) {
	var buf bytes.Buffer
	s := NewSpinner("Mining frequent itemsets")
	s.SetWriter(&buf)

	s.Start()
	s.Start() // double Start is a no-op
	s.Stop()

	out := buf.String()
	if strings.Count(out, "Mining frequent itemsets") != 1 {
		t.Errorf("expected message printed exactly once, got %q", out)
	}
}

func TestWriterIsTTY_PlainBuffer(t *testing.T) {
	var buf bytes.Buffer
	if writerIsTTY(&buf) {
		t.Error("bytes.Buffer must not look like a TTY")
	}
}
