// Package tokens provides token counting using tiktoken-go.
// Used to report how much of the summarizer's context a request consumes.
package tokens

import (
	"sync"

	"github.com/pkoukk/tiktoken-go"
)

// Counter provides token counting for text.
// Uses cl100k_base encoding (used by Claude and GPT-4).
type Counter struct {
	enc  *tiktoken.Tiktoken
	once sync.Once
	err  error
}

// Global counter instance
var defaultCounter = &Counter{}

// Count returns the number of tokens in the given text.
func Count(text string) int {
	return defaultCounter.Count(text)
}

// Count returns the number of tokens in the given text.
func (c *Counter) Count(text string) int {
	c.init()
	if c.err != nil || c.enc == nil {
		// Fallback: rough estimate (4 chars per token)
		return len(text) / 4
	}
	return len(c.enc.Encode(text, nil, nil))
}

func (c *Counter) init() {
	c.once.Do(func() {
		// cl100k_base is used by Claude and GPT-4
		c.enc, c.err = tiktoken.GetEncoding("cl100k_base")
	})
}
