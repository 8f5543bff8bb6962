package assistant

import (
	"log/slog"
	"strings"
	"sync"
	"unicode/utf8"

	"github.com/pkoukk/tiktoken-go"
	tiktoken_loader "github.com/pkoukk/tiktoken-go-loader"
)

// contextEncoding approximates the tokenizers of the hosted chat models.
const contextEncoding = "cl100k_base"

func init() {
	tiktoken.SetBpeLoader(tiktoken_loader.NewOfflineLoader())
}

type tokenizer interface {
	Encode(text string, allowedSpecial []string, disallowedSpecial []string) []int
	Decode(tokens []int) string
}

var (
	encodingOnce sync.Once
	encoding     *tiktoken.Tiktoken
	encodingErr  error
)

// defaultTokenizer returns the shared encoding, or nil when it cannot be
// loaded, in which case truncation estimates four bytes per token.
func defaultTokenizer(logger *slog.Logger) tokenizer {
	encodingOnce.Do(func() {
		encoding, encodingErr = tiktoken.GetEncoding(contextEncoding)
	})
	if encodingErr != nil {
		logger.Warn("token encoding unavailable, estimating context size", "error", encodingErr)
		return nil
	}
	return encoding
}

// truncateContext keeps the context within maxContextTokens.
func (o *Orchestrator) truncateContext(content string) string {
	if o.tokenizer == nil {
		return o.truncateByBytes(content)
	}

	tokens := o.tokenizer.Encode(content, nil, nil)
	if len(tokens) <= o.maxContextTokens {
		return content
	}
	o.logger.Warn("Truncating context",
		"from_tokens", len(tokens), "max_tokens", o.maxContextTokens)

	// a token boundary can fall inside a multi-byte rune
	return strings.ToValidUTF8(o.tokenizer.Decode(tokens[:o.maxContextTokens]), "")
}

func (o *Orchestrator) truncateByBytes(content string) string {
	maxChars := o.maxContextTokens * 4
	if len(content) <= maxChars {
		return content
	}
	o.logger.Warn("Truncating context",
		"from_chars", len(content), "to_chars", maxChars, "max_tokens", o.maxContextTokens)

	cut := maxChars
	for cut > 0 && !utf8.RuneStart(content[cut]) {
		cut--
	}
	return content[:cut]
}
