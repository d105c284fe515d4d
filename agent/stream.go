package agent

import "strings"

// Stream markers recognized by ThinkScanner.
const (
	ThinkOpen  = "<think>"
	ThinkClose = "</think>"
	Separator  = "-----"
)

// SegmentType classifies a piece of streamed model output.
type SegmentType int

const (
	// SegmentText is ordinary answer text.
	SegmentText SegmentType = iota
	// SegmentThink is text inside a think block.
	SegmentThink
	// SegmentTag is a think block opening or closing tag.
	SegmentTag
	// SegmentSeparator is the line separating an answer from its sources.
	SegmentSeparator
)

// Segment is a classified piece of streamed output.
type Segment struct {
	Type SegmentType
	Text string
}

// ThinkScanner splits streamed model output into segments as it arrives.
// It is plain or inside a think block, and holds back at most one marker's
// length of text that might still complete a marker.
type ThinkScanner struct {
	buf     string
	inThink bool
}

// InThink reports whether the scanner is inside a think block.
func (s *ThinkScanner) InThink() bool {
	return s.inThink
}

// Write consumes a fragment and returns the segments it completes.
func (s *ThinkScanner) Write(fragment string) []Segment {
	s.buf += fragment

	var segments []Segment
	for {
		markers := s.markers()

		at, marker := -1, ""
		for _, m := range markers {
			if i := strings.Index(s.buf, m); i >= 0 && (at < 0 || i < at) {
				at, marker = i, m
			}
		}

		if at < 0 {
			hold := partialMarker(s.buf, markers)
			segments = s.emit(segments, s.buf[:len(s.buf)-hold])
			s.buf = s.buf[len(s.buf)-hold:]
			return segments
		}

		segments = s.emit(segments, s.buf[:at])
		switch marker {
		case ThinkOpen:
			segments = append(segments, Segment{Type: SegmentTag, Text: marker})
			s.inThink = true
		case ThinkClose:
			segments = append(segments, Segment{Type: SegmentTag, Text: marker})
			s.inThink = false
		default:
			segments = append(segments, Segment{Type: SegmentSeparator, Text: marker})
		}
		s.buf = s.buf[at+len(marker):]
	}
}

// Flush returns any text held back waiting for a marker.
func (s *ThinkScanner) Flush() []Segment {
	segments := s.emit(nil, s.buf)
	s.buf = ""
	return segments
}

func (s *ThinkScanner) markers() []string {
	if s.inThink {
		return []string{ThinkClose}
	}
	return []string{ThinkOpen, Separator}
}

func (s *ThinkScanner) emit(segments []Segment, text string) []Segment {
	if text == "" {
		return segments
	}
	typ := SegmentText
	if s.inThink {
		typ = SegmentThink
	}
	return append(segments, Segment{Type: typ, Text: text})
}

// partialMarker returns the length of the longest suffix of buf that is a
// proper prefix of one of markers.
func partialMarker(buf string, markers []string) int {
	longest := 0
	for _, m := range markers {
		for n := min(len(buf), len(m)-1); n > longest; n-- {
			if strings.HasSuffix(buf, m[:n]) {
				longest = n
				break
			}
		}
	}
	return longest
}
