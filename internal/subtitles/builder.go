package subtitles

import (
	"fmt"
	"strings"

	"subgen/internal/transcription"
)

// Granularity selects whether blocks are emitted per segment or per word.
type Granularity int

const (
	GranularitySegment Granularity = iota
	GranularityWord
)

func (g Granularity) String() string {
	if g == GranularityWord {
		return "word"
	}
	return "segment"
}

// ParseGranularity maps a config value onto a Granularity.
func ParseGranularity(value string) (Granularity, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "", "segment":
		return GranularitySegment, nil
	case "word":
		return GranularityWord, nil
	default:
		return GranularitySegment, fmt.Errorf("unknown granularity %q", value)
	}
}

// Block is one numbered, timed subtitle entry.
type Block struct {
	ID    int
	Start float64
	End   float64
	Text  string
}

// Build converts segments into blocks numbered from 1. Blocks keep the order of
// the input; nothing is sorted or merged. Entries whose text is blank are
// dropped without consuming an id. In word mode a segment that carries no
// words falls back to a single segment-level block.
func Build(segments []transcription.Segment, granularity Granularity) []Block {
	blocks := make([]Block, 0, len(segments))
	emit := func(start, end float64, text string) {
		text = cleanText(text)
		if text == "" {
			return
		}
		blocks = append(blocks, Block{ID: len(blocks) + 1, Start: start, End: end, Text: text})
	}
	for _, seg := range segments {
		if granularity == GranularityWord && len(seg.Words) > 0 {
			for _, word := range seg.Words {
				emit(word.Start, word.End, word.Text)
			}
			continue
		}
		emit(seg.Start, seg.End, seg.Text)
	}
	return blocks
}

// cleanText normalizes line endings, trims each line, and drops blank lines
// so a block's text can never terminate the block early.
func cleanText(text string) string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.ReplaceAll(text, "\r", "\n")
	lines := strings.Split(text, "\n")
	kept := lines[:0]
	for _, line := range lines {
		if line = strings.TrimSpace(line); line != "" {
			kept = append(kept, line)
		}
	}
	return strings.Join(kept, "\n")
}

// Render serializes blocks as SRT text. An empty slice renders as "".
func Render(blocks []Block) string {
	var b strings.Builder
	for _, block := range blocks {
		fmt.Fprintf(&b, "%d\n%s --> %s\n%s\n\n",
			block.ID,
			FormatTimestamp(block.Start),
			FormatTimestamp(block.End),
			block.Text,
		)
	}
	return b.String()
}

// Format builds and renders segments in one step.
func Format(segments []transcription.Segment, granularity Granularity) string {
	return Render(Build(segments, granularity))
}
