package ai

import (
	"context"
)

// Option allows for optional parameters like Temperature, MaxTokens, etc.
type Option func(*Options)

type Options struct {
	Temperature float32
	MaxTokens   int
	Model       string // Override default model
}

func WithTemperature(temp float32) Option {
	return func(o *Options) {
		o.Temperature = temp
	}
}

func WithMaxTokens(n int) Option {
	return func(o *Options) {
		o.MaxTokens = n
	}
}

func WithModel(model string) Option {
	return func(o *Options) {
		o.Model = model
	}
}

// CompletionGateway defines the contract for the AI backend the diagnosis
// service talks to. Implementations must honor ctx deadlines.
type CompletionGateway interface {
	// Complete sends a system + user prompt pair and returns the answer text.
	Complete(ctx context.Context, systemPrompt, userPrompt string, options ...Option) (string, error)

	// CompleteWithImage sends a prompt alongside an image data URI.
	CompleteWithImage(ctx context.Context, systemPrompt, userPrompt, imageDataURI string, options ...Option) (string, error)

	// Transcribe converts an audio payload to text.
	Transcribe(ctx context.Context, filename string, audio []byte) (string, error)
}
