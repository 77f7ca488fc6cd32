package translate

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"voxlate/core"

	"github.com/sashabaranov/go-openai"
)

const defaultModel = openai.GPT4oMini

// Config holds configuration for the OpenAI translator.
type Config struct {
	APIKey      string  `json:"api_key"`
	BaseURL     string  `json:"base_url"`
	Model       string  `json:"model"`
	MaxTokens   int     `json:"max_tokens"`
	Temperature float32 `json:"temperature"`
}

// Translator renders text in another language via OpenAI chat completions.
type Translator struct {
	client *openai.Client
	config Config
	logger *core.Logger
}

// NewTranslator creates a translator with sensible defaults.
func NewTranslator(config Config, logger *core.Logger) (*Translator, error) {
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

	return &Translator{client: client, config: config, logger: logger}, nil
}

// Translate returns text rendered in the target language. When source and
// target codes match, the input is returned unchanged without a network call.
func (t *Translator) Translate(ctx context.Context, text, sourceLang, targetLang string) (string, error) {
	if sourceLang == targetLang {
		return text, nil
	}

	system := fmt.Sprintf(
		"You are a translator. Translate the user's text from %s to %s. "+
			"Return only the translated text, with no explanations or extra formatting.",
		core.LanguageName(sourceLang), core.LanguageName(targetLang),
	)

	resp, err := t.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: t.config.Model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: system},
			{Role: openai.ChatMessageRoleUser, Content: text},
		},
		MaxTokens:   t.config.MaxTokens,
		Temperature: t.config.Temperature,
	})
	if err != nil {
		return "", fmt.Errorf("chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", errors.New("no completion choices returned")
	}

	translated := strings.TrimSpace(resp.Choices[0].Message.Content)
	if translated == "" {
		return "", errors.New("empty translation returned")
	}
	t.logger.Debug("text translated", "source", sourceLang, "target", targetLang, "chars", len(translated))
	return translated, nil
}
