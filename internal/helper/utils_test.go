package helper

import (
	"bytes"
	"strings"
	"testing"

	"github.com/google/uuid"
)

func TestGenerateUUID(t *testing.T) {
	a, err := GenerateUUID()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := uuid.Parse(a); err != nil {
		t.Fatalf("expected a valid uuid, got %q", a)
	}
	b, _ := GenerateUUID()
	if a == b {
		t.Fatal("expected distinct ids")
	}
}

func TestPrettyPrint(t *testing.T) {
	var buf bytes.Buffer
	PrettyPrint(&buf, map[string]int{"rows": 2})
	if got := buf.String(); got != "{\n  \"rows\": 2\n}\n" {
		t.Fatalf("unexpected output %q", got)
	}
}

func TestRenderMarkdown(t *testing.T) {
	got, err := RenderMarkdown("**Alice** is 30\n\n| a | b |\n|---|---|\n| 1 | 2 |")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(got, "<strong>Alice</strong>") {
		t.Errorf("expected bold rendering, got %q", got)
	}
	if !strings.Contains(got, "<table>") {
		t.Errorf("expected GFM table rendering, got %q", got)
	}
}
