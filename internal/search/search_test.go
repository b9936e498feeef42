package search

import (
	"strings"
	"testing"
)

func TestMakeSnippetMarksMatch(t *testing.T) {
	text := "we should definitely meet at the usual place tomorrow morning"
	snippet := makeSnippet(text, "usual place", 10)
	if !strings.Contains(snippet, ">>>usual place<<<") {
		t.Fatalf("match not marked: %q", snippet)
	}
	if !strings.HasPrefix(snippet, "...") || !strings.HasSuffix(snippet, "...") {
		t.Fatalf("expected ellipses around window: %q", snippet)
	}
}

func TestMakeSnippetNoMatchReturnsHead(t *testing.T) {
	text := strings.Repeat("x", 100)
	snippet := makeSnippet(text, "zzz", 10)
	if !strings.HasSuffix(snippet, "...") || len(snippet) >= len(text) {
		t.Fatalf("expected truncated head, got %q", snippet)
	}
}

func TestMakeSnippetCaseInsensitive(t *testing.T) {
	snippet := makeSnippet("Hello There", "hello", 5)
	if !strings.Contains(snippet, ">>>Hello<<<") {
		t.Fatalf("case-insensitive match failed: %q", snippet)
	}
}

func TestContainsCJK(t *testing.T) {
	if containsCJK("hello world") {
		t.Fatal("ascii text flagged as CJK")
	}
	if !containsCJK("明天见") {
		t.Fatal("CJK text not detected")
	}
}
