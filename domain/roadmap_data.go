package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

// RoadmapData is the flat draft payload: an ordered list of topics, each
// carrying an ordered list of subtopic titles. It marshals to and from a
// plain JSON object so the LLM contract stays "topic name -> array of
// subtopic strings", but unlike a Go map it keeps the object's key order.
type RoadmapData []TopicEntry

type TopicEntry struct {
	Topic     string
	Subtopics []string
}

func (d RoadmapData) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, entry := range d {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(entry.Topic)
		if err != nil {
			return nil, err
		}
		val, err := json.Marshal(entry.Subtopics)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func (d *RoadmapData) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	delim, ok := tok.(json.Delim)
	if !ok || delim != '{' {
		return fmt.Errorf("roadmap data must be a JSON object")
	}

	out := make(RoadmapData, 0)
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return err
		}
		key, ok := keyTok.(string)
		if !ok {
			return fmt.Errorf("roadmap data has a non-string key")
		}
		var subtopics []string
		if err := dec.Decode(&subtopics); err != nil {
			return fmt.Errorf("topic %q: value must be an array of strings: %w", key, err)
		}
		out = append(out, TopicEntry{Topic: key, Subtopics: subtopics})
	}
	if _, err := dec.Token(); err != nil {
		return err
	}

	*d = out
	return nil
}

// Normalize trims every topic and subtopic title in place.
func (d RoadmapData) Normalize() {
	for i := range d {
		d[i].Topic = strings.TrimSpace(d[i].Topic)
		for j := range d[i].Subtopics {
			d[i].Subtopics[j] = strings.TrimSpace(d[i].Subtopics[j])
		}
	}
}

// Validate enforces the draft plan rules: at least one topic, every topic
// named, every topic holding at least one non-empty subtopic title.
func (d RoadmapData) Validate() error {
	if len(d) == 0 {
		return &ValidationError{Reason: "plan has no topics"}
	}
	for _, entry := range d {
		if strings.TrimSpace(entry.Topic) == "" {
			return &ValidationError{Reason: "plan contains an unnamed topic"}
		}
		if len(entry.Subtopics) == 0 {
			return &ValidationError{Reason: fmt.Sprintf("topic %q has no subtopics", entry.Topic)}
		}
		for _, sub := range entry.Subtopics {
			if strings.TrimSpace(sub) == "" {
				return &ValidationError{Reason: fmt.Sprintf("topic %q contains an empty subtopic title", entry.Topic)}
			}
		}
	}
	return nil
}

func (d RoadmapData) TotalSubtopics() int {
	total := 0
	for _, entry := range d {
		total += len(entry.Subtopics)
	}
	return total
}
