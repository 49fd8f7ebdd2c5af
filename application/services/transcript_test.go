package services

import (
	"testing"
	"time"
)

func TestParseTranscript_BracketCues(t *testing.T) {
	content := "[00:00] Welcome back.\n[00:12] In this lesson we look at loops.\n[01:05] Let's recap."

	segments, err := ParseTranscript(content)
	if err != nil {
		t.Fatal("parse failed:", err)
	}
	if len(segments) != 3 {
		t.Fatalf("expected 3 segments, got %d", len(segments))
	}
	if segments[0].Start != 0 || segments[0].Text != "Welcome back." {
		t.Errorf("unexpected first segment: %+v", segments[0])
	}
	if segments[1].Start != 12*time.Second {
		t.Errorf("expected 12s offset, got %s", segments[1].Start)
	}
	if segments[2].Start != time.Minute+5*time.Second {
		t.Errorf("expected 1m5s offset, got %s", segments[2].Start)
	}
}

func TestParseTranscript_SRTBlocks(t *testing.T) {
	content := `1
00:00:00,000 --> 00:00:04,500
Welcome back.

2
00:00:04,500 --> 00:00:10,000
In this lesson
we look at loops.`

	segments, err := ParseTranscript(content)
	if err != nil {
		t.Fatal("parse failed:", err)
	}
	if len(segments) != 2 {
		t.Fatalf("expected 2 segments, got %d", len(segments))
	}
	if segments[1].Start != 4500*time.Millisecond {
		t.Errorf("expected 4.5s offset, got %s", segments[1].Start)
	}
	if segments[1].Text != "In this lesson we look at loops." {
		t.Errorf("multi-line cue text not joined: %q", segments[1].Text)
	}
}

func TestParseTranscript_VTTHeaderSkipped(t *testing.T) {
	content := "WEBVTT\n\n00:05.250 --> 00:09.000\nHello there."

	segments, err := ParseTranscript(content)
	if err != nil {
		t.Fatal("parse failed:", err)
	}
	if len(segments) != 1 {
		t.Fatalf("expected 1 segment, got %d", len(segments))
	}
	if segments[0].Start != 5250*time.Millisecond {
		t.Errorf("expected 5.25s offset, got %s", segments[0].Start)
	}
}

func TestParseTranscript_RejectsBadSeconds(t *testing.T) {
	if _, err := ParseTranscript("[00:75] bad clock"); err == nil {
		t.Error("expected error for seconds >= 60")
	}
}

func TestParseTranscript_RejectsEmpty(t *testing.T) {
	if _, err := ParseTranscript("no timecodes here at all"); err == nil {
		t.Error("expected error for transcript without cues")
	}
}
