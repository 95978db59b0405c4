package ai

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	aai "github.com/AssemblyAI/assemblyai-go-sdk"

	apperrors "github.com/johnquangdev/voice-receptionist/errors"
	"github.com/johnquangdev/voice-receptionist/pkg/config"
)

// AssemblyAIClient scores caller sentiment with LeMUR
type AssemblyAIClient struct {
	client *aai.Client
}

// NewAssemblyAIClient creates an AssemblyAI client using the provided config.
// If cfg is nil, falls back to environment variables.
func NewAssemblyAIClient(cfg *config.AssemblyAIConfig, opts ...aai.ClientOption) *AssemblyAIClient {
	var apiKey string
	if cfg != nil {
		apiKey = cfg.APIKey
	}
	if apiKey == "" {
		apiKey = os.Getenv("ASSEMBLYAI_API_KEY")
	}
	opts = append([]aai.ClientOption{aai.WithAPIKey(apiKey)}, opts...)
	return &AssemblyAIClient{client: aai.NewClientWithOptions(opts...)}
}

// Score returns a sentiment score in [-1, 1] for a caller utterance
func (c *AssemblyAIClient) Score(ctx context.Context, text string) (float64, error) {
	resp, err := c.client.LeMUR.Task(ctx, aai.LeMURTaskParams{
		Prompt: aai.String(scorePrompt),
		LeMURBaseParams: aai.LeMURBaseParams{
			InputText: aai.String(text),
		},
	})
	if err != nil {
		return 0, apperrors.ErrExternalAPIFailed("assemblyai lemur", err)
	}
	if resp.Response == nil {
		return 0, fmt.Errorf("assemblyai lemur: empty response")
	}

	var out struct {
		Score *float64 `json:"score"`
	}
	if err := json.Unmarshal([]byte(extractJSON(*resp.Response)), &out); err != nil {
		return 0, fmt.Errorf("assemblyai lemur: parse response: %w", err)
	}
	if out.Score == nil {
		return 0, fmt.Errorf("assemblyai lemur: response missing score")
	}
	return *out.Score, nil
}
