package tts

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"io"

	"voxlate/core"

	"github.com/sashabaranov/go-openai"
)

const defaultModel = string(openai.TTSModel1)

// Config holds configuration for the OpenAI speech synthesizer.
type Config struct {
	APIKey  string  `json:"api_key"`
	BaseURL string  `json:"base_url"`
	Model   string  `json:"model"`
	Speed   float64 `json:"speed"`
}

// Synthesizer produces raw PCM speech audio via the OpenAI speech endpoint.
// The PCM response format is s16le mono at 24 kHz, matching
// core.SynthesisSampleRate.
type Synthesizer struct {
	client *openai.Client
	config Config
	logger *core.Logger
}

// NewSynthesizer creates a synthesizer with sensible defaults.
func NewSynthesizer(config Config, logger *core.Logger) (*Synthesizer, error) {
	if config.APIKey == "" {
		return nil, errors.New("OpenAI API key is required")
	}
	if config.Model == "" {
		config.Model = defaultModel
	}
	if logger == nil {
		logger = core.NewDevelopmentLogger()
	}

	var client *openai.Client
	if config.BaseURL != "" {
		clientConfig := openai.DefaultConfig(config.APIKey)
		clientConfig.BaseURL = config.BaseURL
		client = openai.NewClientWithConfig(clientConfig)
	} else {
		client = openai.NewClient(config.APIKey)
	}

	return &Synthesizer{client: client, config: config, logger: logger}, nil
}

// Synthesize requests audio for text with the given voice and returns the
// raw PCM bytes base64-encoded. An empty payload is a hard failure.
func (s *Synthesizer) Synthesize(ctx context.Context, text string, voice core.Voice) (string, error) {
	resp, err := s.client.CreateSpeech(ctx, openai.CreateSpeechRequest{
		Model:          openai.SpeechModel(s.config.Model),
		Input:          text,
		Voice:          openai.SpeechVoice(voice.ID),
		ResponseFormat: openai.SpeechResponseFormatPcm,
		Speed:          s.config.Speed,
	})
	if err != nil {
		return "", fmt.Errorf("create speech: %w", err)
	}
	defer resp.Close()

	raw, err := io.ReadAll(resp)
	if err != nil {
		return "", fmt.Errorf("read audio response: %w", err)
	}
	if len(raw) == 0 {
		return "", errors.New("no audio data returned")
	}

	s.logger.Debug("speech synthesized", "voice", voice.ID, "bytes", len(raw))
	return base64.StdEncoding.EncodeToString(raw), nil
}
