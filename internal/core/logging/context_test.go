package logging

import (
	"context"
	"testing"
)

func TestWithSessionID(t *testing.T) {
	ctx := context.Background()
	sessionID := "sess-a1b2c3"

	ctx = WithSessionID(ctx, sessionID)
	got := GetSessionID(ctx)

	if got != sessionID {
		t.Errorf("GetSessionID() = %q, want %q", got, sessionID)
	}
}

func TestWithDocument(t *testing.T) {
	ctx := context.Background()
	doc := "/tmp/notes.md"

	ctx = WithDocument(ctx, doc)
	got := GetDocument(ctx)

	if got != doc {
		t.Errorf("GetDocument() = %q, want %q", got, doc)
	}
}

func TestGetSessionID_NotPresent(t *testing.T) {
	if got := GetSessionID(context.Background()); got != "" {
		t.Errorf("GetSessionID() = %q, want empty string", got)
	}
}

func TestGetDocument_NotPresent(t *testing.T) {
	if got := GetDocument(context.Background()); got != "" {
		t.Errorf("GetDocument() = %q, want empty string", got)
	}
}

func TestBothValues(t *testing.T) {
	ctx := context.Background()
	ctx = WithSessionID(ctx, "sess-1")
	ctx = WithDocument(ctx, "doc.md")

	if got := GetSessionID(ctx); got != "sess-1" {
		t.Errorf("GetSessionID() = %q, want %q", got, "sess-1")
	}

	if got := GetDocument(ctx); got != "doc.md" {
		t.Errorf("GetDocument() = %q, want %q", got, "doc.md")
	}
}
