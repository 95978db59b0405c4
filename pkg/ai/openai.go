package ai

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/sashabaranov/go-openai"
	"go.uber.org/zap"

	apperrors "github.com/johnquangdev/voice-receptionist/errors"
	"github.com/johnquangdev/voice-receptionist/internal/domain/entities"
	"github.com/johnquangdev/voice-receptionist/pkg/config"
)

// AudioStore persists synthesized clips and hands back a fetchable URL
type AudioStore interface {
	Lookup(ctx context.Context, key string) (string, bool)
	PutAudio(ctx context.Context, key string, data []byte, contentType string) (string, error)
}

// OpenAIClient implements language detection, translation, sentiment
// scoring and speech synthesis on the OpenAI API
type OpenAIClient struct {
	client   *openai.Client
	model    string
	ttsModel string
	ttsVoice string
	audio    AudioStore
	logger   *zap.Logger
}

// NewOpenAIClient creates a client. audio may be nil, in which case
// Synthesize is unavailable.
func NewOpenAIClient(cfg *config.OpenAIConfig, audio AudioStore, logger *zap.Logger) *OpenAIClient {
	if logger == nil {
		logger = zap.NewNop()
	}
	clientCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = cfg.BaseURL
	}
	model := cfg.Model
	if model == "" {
		model = openai.GPT4oMini
	}
	ttsModel := cfg.TTSModel
	if ttsModel == "" {
		ttsModel = string(openai.TTSModel1)
	}
	voice := cfg.TTSVoice
	if voice == "" {
		voice = string(openai.VoiceAlloy)
	}
	return &OpenAIClient{
		client:   openai.NewClientWithConfig(clientCfg),
		model:    model,
		ttsModel: ttsModel,
		ttsVoice: voice,
		audio:    audio,
		logger:   logger,
	}
}

const detectPrompt = `Identify the language of the user's text. Reply with JSON only: {"language": "<ISO 639-1 code>", "confidence": <0..1>}`

const scorePrompt = `Rate the sentiment of the user's text from -1 (very negative) to 1 (very positive). Reply with JSON only: {"score": <number>}`

// Detect returns the ISO 639-1 code of text
func (c *OpenAIClient) Detect(ctx context.Context, text string) (entities.LanguageDetection, error) {
	var out struct {
		Language   string  `json:"language"`
		Confidence float64 `json:"confidence"`
	}
	if err := c.completeJSON(ctx, detectPrompt, text, &out); err != nil {
		return entities.LanguageDetection{}, err
	}
	return entities.LanguageDetection{
		Code:       strings.ToLower(strings.TrimSpace(out.Language)),
		Confidence: out.Confidence,
	}, nil
}

// Score returns a sentiment score in [-1, 1]
func (c *OpenAIClient) Score(ctx context.Context, text string) (float64, error) {
	var out struct {
		Score *float64 `json:"score"`
	}
	if err := c.completeJSON(ctx, scorePrompt, text, &out); err != nil {
		return 0, err
	}
	if out.Score == nil {
		return 0, fmt.Errorf("openai: sentiment response missing score")
	}
	return *out.Score, nil
}

// Translate renders text from one language into another
func (c *OpenAIClient) Translate(ctx context.Context, text, from, to string) (string, error) {
	system := fmt.Sprintf("Translate the user's text from %s to %s. Reply with the translation only, without quotes or commentary.", from, to)
	resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: c.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: system},
			{Role: openai.ChatMessageRoleUser, Content: text},
		},
		Temperature: 0,
	})
	if err != nil {
		return "", apperrors.ErrExternalAPIFailed("openai translate", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("openai translate: no choices returned")
	}
	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}

// Synthesize renders text as speech, stores the clip and returns its URL.
// Identical text in the same language and voice reuses the stored clip.
func (c *OpenAIClient) Synthesize(ctx context.Context, text, lang string) (string, error) {
	if c.audio == nil {
		return "", fmt.Errorf("openai synthesize: no audio store configured")
	}

	key := AudioKey(lang, c.ttsVoice, text)
	if u, ok := c.audio.Lookup(ctx, key); ok {
		c.logger.Debug("♻️ Reusing synthesized audio", zap.String("key", key))
		return u, nil
	}

	resp, err := c.client.CreateSpeech(ctx, openai.CreateSpeechRequest{
		Model:          openai.SpeechModel(c.ttsModel),
		Input:          text,
		Voice:          openai.SpeechVoice(c.ttsVoice),
		ResponseFormat: openai.SpeechResponseFormatMp3,
	})
	if err != nil {
		return "", apperrors.ErrExternalAPIFailed("openai speech", err)
	}
	defer resp.Close()

	data, err := io.ReadAll(resp)
	if err != nil {
		return "", fmt.Errorf("openai synthesize: read audio: %w", err)
	}
	if len(data) == 0 {
		return "", fmt.Errorf("openai synthesize: empty audio")
	}

	u, err := c.audio.PutAudio(ctx, key, data, "audio/mpeg")
	if err != nil {
		return "", err
	}
	c.logger.Info("🔊 Synthesized voice response",
		zap.String("language", lang),
		zap.Int("bytes", len(data)),
	)
	return u, nil
}

// AudioKey names the object for a synthesized clip
func AudioKey(lang, voice, text string) string {
	sum := sha256.Sum256([]byte(voice + "\x00" + text))
	if lang == "" {
		lang = "und"
	}
	return "tts/" + lang + "/" + hex.EncodeToString(sum[:16]) + ".mp3"
}

func (c *OpenAIClient) completeJSON(ctx context.Context, system, user string, out interface{}) error {
	resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: c.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: system},
			{Role: openai.ChatMessageRoleUser, Content: user},
		},
		Temperature: 0,
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
	})
	if err != nil {
		return apperrors.ErrExternalAPIFailed("openai chat", err)
	}
	if len(resp.Choices) == 0 {
		return fmt.Errorf("openai: no choices returned")
	}
	content := extractJSON(resp.Choices[0].Message.Content)
	if err := json.Unmarshal([]byte(content), out); err != nil {
		return fmt.Errorf("openai: parse response: %w", err)
	}
	return nil
}

// extractJSON strips markdown code fences some models wrap JSON in
func extractJSON(content string) string {
	content = strings.TrimSpace(content)
	if strings.HasPrefix(content, "```json") {
		content = strings.TrimSuffix(strings.TrimPrefix(content, "```json"), "```")
	} else if strings.HasPrefix(content, "```") {
		content = strings.TrimSuffix(strings.TrimPrefix(content, "```"), "```")
	}
	return strings.TrimSpace(content)
}
