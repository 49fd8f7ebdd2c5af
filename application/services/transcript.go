package services

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// TranscriptSegment is one narration cue: where it starts on the subtopic
// timeline and what is spoken.
type TranscriptSegment struct {
	Start time.Duration
	Text  string
}

var (
	// [MM:SS] text, optionally ranged: [MM:SS - MM:SS] text
	bracketCueRe = regexp.MustCompile(`^\[(\d{1,2}):(\d{2})(?:\s*-\s*\d{1,2}:\d{2})?\]\s*(.*)$`)
	// SRT/VTT cue timing line: 00:00:05,000 --> 00:00:10,000 (or . for ms,
	// or MM:SS.mmm without hours)
	rangeCueRe = regexp.MustCompile(`^(\d{1,2}:)?(\d{1,2}):(\d{2})(?:[.,](\d{1,3}))?\s*-->`)
	// bare SRT cue index
	cueIndexRe = regexp.MustCompile(`^\d+$`)
)

// ParseTranscript turns a generated narration into timed segments. It
// accepts SRT/VTT-style ranged blocks and falls back to [MM:SS] prefixed
// lines. Only the start timecode matters: clips are placed at their offset
// and run for their natural length.
func ParseTranscript(content string) ([]TranscriptSegment, error) {
	lines := strings.Split(strings.ReplaceAll(content, "\r\n", "\n"), "\n")

	segments := make([]TranscriptSegment, 0)
	var current *TranscriptSegment

	flush := func() {
		if current != nil && strings.TrimSpace(current.Text) != "" {
			current.Text = strings.TrimSpace(current.Text)
			segments = append(segments, *current)
		}
		current = nil
	}

	for _, line := range lines {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" || strings.EqualFold(trimmed, "WEBVTT") {
			continue
		}

		if m := rangeCueRe.FindStringSubmatch(trimmed); m != nil {
			flush()
			start, err := parseRangeStart(m)
			if err != nil {
				return nil, err
			}
			current = &TranscriptSegment{Start: start}
			continue
		}

		if m := bracketCueRe.FindStringSubmatch(trimmed); m != nil {
			flush()
			minutes, _ := strconv.Atoi(m[1])
			seconds, _ := strconv.Atoi(m[2])
			if seconds >= 60 {
				return nil, fmt.Errorf("invalid timecode in line %q", trimmed)
			}
			current = &TranscriptSegment{
				Start: time.Duration(minutes)*time.Minute + time.Duration(seconds)*time.Second,
				Text:  m[3],
			}
			continue
		}

		// A bare number between cues is an SRT index, not narration.
		if current == nil && cueIndexRe.MatchString(trimmed) {
			continue
		}

		if current != nil {
			if current.Text != "" {
				current.Text += " "
			}
			current.Text += trimmed
		}
	}
	flush()

	if len(segments) == 0 {
		return nil, fmt.Errorf("transcript contains no timed segments")
	}
	return segments, nil
}

func parseRangeStart(m []string) (time.Duration, error) {
	hours := 0
	if m[1] != "" {
		hours, _ = strconv.Atoi(strings.TrimSuffix(m[1], ":"))
	}
	minutes, _ := strconv.Atoi(m[2])
	seconds, _ := strconv.Atoi(m[3])
	if seconds >= 60 {
		return 0, fmt.Errorf("invalid timecode %q", m[0])
	}
	millis := 0
	if m[4] != "" {
		padded := m[4] + strings.Repeat("0", 3-len(m[4]))
		millis, _ = strconv.Atoi(padded)
	}
	return time.Duration(hours)*time.Hour +
		time.Duration(minutes)*time.Minute +
		time.Duration(seconds)*time.Second +
		time.Duration(millis)*time.Millisecond, nil
}
