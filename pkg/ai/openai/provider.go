package openai

import (
	"bytes"
	"context"
	"errors"
	"fmt"

	"symptom-checker-be/pkg/ai"

	goopenai "github.com/sashabaranov/go-openai"
)

// Provider implements ai.CompletionGateway on top of the OpenAI API.
type Provider struct {
	client             *goopenai.Client
	chatModel          string
	visionModel        string
	transcriptionModel string
}

type Config struct {
	ApiKey             string
	ChatModel          string
	VisionModel        string
	TranscriptionModel string
}

func NewProvider(cfg Config) *Provider {
	chatModel := cfg.ChatModel
	if chatModel == "" {
		chatModel = "gpt-4o-mini"
	}
	visionModel := cfg.VisionModel
	if visionModel == "" {
		visionModel = "gpt-4.1-mini"
	}
	transcriptionModel := cfg.TranscriptionModel
	if transcriptionModel == "" {
		transcriptionModel = goopenai.Whisper1
	}

	return &Provider{
		client:             goopenai.NewClient(cfg.ApiKey),
		chatModel:          chatModel,
		visionModel:        visionModel,
		transcriptionModel: transcriptionModel,
	}
}

func applyOptions(options []ai.Option) ai.Options {
	opts := ai.Options{}
	for _, opt := range options {
		opt(&opts)
	}
	return opts
}

func (p *Provider) Complete(ctx context.Context, systemPrompt, userPrompt string, options ...ai.Option) (string, error) {
	opts := applyOptions(options)

	model := p.chatModel
	if opts.Model != "" {
		model = opts.Model
	}

	req := goopenai.ChatCompletionRequest{
		Model: model,
		Messages: []goopenai.ChatCompletionMessage{
			{
				Role:    goopenai.ChatMessageRoleSystem,
				Content: systemPrompt,
			},
			{
				Role:    goopenai.ChatMessageRoleUser,
				Content: userPrompt,
			},
		},
		MaxTokens:   opts.MaxTokens,
		Temperature: opts.Temperature,
	}

	resp, err := p.client.CreateChatCompletion(ctx, req)
	if err != nil {
		return "", fmt.Errorf("chat completion failed: %w", err)
	}

	if len(resp.Choices) == 0 {
		return "", errors.New("no choices found")
	}

	return resp.Choices[0].Message.Content, nil
}

func (p *Provider) CompleteWithImage(ctx context.Context, systemPrompt, userPrompt, imageDataURI string, options ...ai.Option) (string, error) {
	opts := applyOptions(options)

	model := p.visionModel
	if opts.Model != "" {
		model = opts.Model
	}

	req := goopenai.ChatCompletionRequest{
		Model: model,
		Messages: []goopenai.ChatCompletionMessage{
			{
				Role:    goopenai.ChatMessageRoleSystem,
				Content: systemPrompt,
			},
			{
				Role: goopenai.ChatMessageRoleUser,
				MultiContent: []goopenai.ChatMessagePart{
					{
						Type: goopenai.ChatMessagePartTypeText,
						Text: userPrompt,
					},
					{
						Type: goopenai.ChatMessagePartTypeImageURL,
						ImageURL: &goopenai.ChatMessageImageURL{
							URL: imageDataURI,
						},
					},
				},
			},
		},
		MaxTokens:   opts.MaxTokens,
		Temperature: opts.Temperature,
	}

	resp, err := p.client.CreateChatCompletion(ctx, req)
	if err != nil {
		return "", fmt.Errorf("vision completion failed: %w", err)
	}

	if len(resp.Choices) == 0 {
		return "", errors.New("no choices found")
	}

	return resp.Choices[0].Message.Content, nil
}

func (p *Provider) Transcribe(ctx context.Context, filename string, audio []byte) (string, error) {
	if filename == "" {
		filename = "audio.wav"
	}

	resp, err := p.client.CreateTranscription(ctx, goopenai.AudioRequest{
		Model:    p.transcriptionModel,
		FilePath: filename,
		Reader:   bytes.NewReader(audio),
		Format:   goopenai.AudioResponseFormatText,
	})
	if err != nil {
		return "", fmt.Errorf("transcription failed: %w", err)
	}

	return resp.Text, nil
}
