// Package chunker splits loaded documents into overlapping text segments.
package chunker

import (
	"strings"
	"unicode/utf8"

	"github.com/bull/rag-assistant/internal/document"
)

const (
	// DefaultChunkSize is the maximum chunk length in runes.
	DefaultChunkSize = 600

	// DefaultChunkOverlap is the maximum number of runes shared by adjacent chunks.
	DefaultChunkOverlap = 50
)

// Strategy selects how text is split.
type Strategy string

const (
	// StrategyRecursive prefers paragraph, then line, sentence and word boundaries.
	StrategyRecursive Strategy = "recursive"
	// StrategyFixed cuts every chunk-size runes regardless of structure.
	StrategyFixed Strategy = "fixed"
)

// ParseStrategy maps a user-supplied name to a Strategy. Empty and unknown names
// fall back to StrategyRecursive; ok is false only for a non-empty unknown name.
func ParseStrategy(name string) (s Strategy, ok bool) {
	switch Strategy(strings.ToLower(strings.TrimSpace(name))) {
	case StrategyRecursive:
		return StrategyRecursive, true
	case StrategyFixed:
		return StrategyFixed, true
	case "":
		return StrategyRecursive, true
	default:
		return StrategyRecursive, false
	}
}

// Chunk is a contiguous span of document text with its provenance.
type Chunk struct {
	Index  int // position across the whole document (0, 1, 2...)
	Text   string
	Source string
	Page   int
}

// separators are tried coarsest first: paragraph, line, sentence, word, rune.
var separators = []string{"\n\n", "\n", ". ", " ", ""}

// Chunker splits text with a fixed size and overlap.
type Chunker struct {
	size    int
	overlap int
}

// New creates a Chunker. Non-positive size uses DefaultChunkSize; an overlap that
// is negative or not smaller than size is clamped.
func New(size, overlap int) *Chunker {
	if size <= 0 {
		size = DefaultChunkSize
	}
	if overlap < 0 {
		overlap = 0
	}
	if overlap >= size {
		overlap = size / 4
	}
	return &Chunker{size: size, overlap: overlap}
}

// Size returns the configured maximum chunk length.
func (c *Chunker) Size() int { return c.size }

// Overlap returns the configured overlap.
func (c *Chunker) Overlap() int { return c.overlap }

// Split chunks every page of doc in order. Pages are split independently so each
// chunk keeps its page number.
func (c *Chunker) Split(doc *document.Document, strategy Strategy) []Chunk {
	if doc == nil {
		return nil
	}

	var chunks []Chunk
	for _, page := range doc.Pages {
		for _, text := range c.SplitText(page.Text, strategy) {
			chunks = append(chunks, Chunk{
				Index:  len(chunks),
				Text:   text,
				Source: doc.Source,
				Page:   page.Number,
			})
		}
	}
	return chunks
}

// SplitText splits a single text. Whitespace-only input yields no chunks.
func (c *Chunker) SplitText(text string, strategy Strategy) []string {
	if strings.TrimSpace(text) == "" {
		return nil
	}
	if strategy == StrategyFixed {
		return c.splitFixed(text)
	}
	return c.splitRecursive(text, separators)
}

func (c *Chunker) splitFixed(text string) []string {
	runes := []rune(text)
	step := c.size - c.overlap

	var out []string
	for start := 0; start < len(runes); start += step {
		end := min(start+c.size, len(runes))
		if s := string(runes[start:end]); strings.TrimSpace(s) != "" {
			out = append(out, s)
		}
		if end == len(runes) {
			break
		}
	}
	return out
}

func (c *Chunker) splitRecursive(text string, seps []string) []string {
	separator := seps[len(seps)-1]
	var finer []string
	for i, s := range seps {
		if s == "" {
			separator = s
			break
		}
		if strings.Contains(text, s) {
			separator = s
			finer = seps[i+1:]
			break
		}
	}

	var out, fitting []string
	for _, piece := range splitKeep(text, separator) {
		if runeLen(piece) <= c.size {
			fitting = append(fitting, piece)
			continue
		}
		if len(fitting) > 0 {
			out = append(out, c.merge(fitting)...)
			fitting = nil
		}
		if len(finer) == 0 {
			out = append(out, c.splitFixed(piece)...)
			continue
		}
		out = append(out, c.splitRecursive(piece, finer)...)
	}
	if len(fitting) > 0 {
		out = append(out, c.merge(fitting)...)
	}
	return out
}

// merge packs consecutive pieces into chunks of at most c.size runes. When a chunk
// is emitted, its trailing pieces totalling at most c.overlap runes start the next one.
func (c *Chunker) merge(pieces []string) []string {
	var out, current []string
	total := 0

	for _, piece := range pieces {
		n := runeLen(piece)
		if total+n > c.size && len(current) > 0 {
			if chunk := strings.TrimSpace(strings.Join(current, "")); chunk != "" {
				out = append(out, chunk)
			}
			for total > c.overlap || (total+n > c.size && total > 0) {
				total -= runeLen(current[0])
				current = current[1:]
			}
		}
		current = append(current, piece)
		total += n
	}

	if chunk := strings.TrimSpace(strings.Join(current, "")); chunk != "" {
		out = append(out, chunk)
	}
	return out
}

// splitKeep splits text after every separator occurrence so that joining the
// pieces reproduces text exactly. An empty separator splits into runes.
func splitKeep(text, sep string) []string {
	if sep == "" {
		pieces := make([]string, 0, len(text))
		for _, r := range text {
			pieces = append(pieces, string(r))
		}
		return pieces
	}

	parts := strings.SplitAfter(text, sep)
	pieces := parts[:0]
	for _, p := range parts {
		if p != "" {
			pieces = append(pieces, p)
		}
	}
	return pieces
}

func runeLen(s string) int {
	return utf8.RuneCountInString(s)
}
