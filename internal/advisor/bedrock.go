package advisor

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime"

	appconfig "github.com/ignite/engage/internal/config"
	"github.com/ignite/engage/internal/segment"
)

const systemPrompt = `You translate audience descriptions into segment rule documents.
The document is a JSON object whose keys are the fields totalSpend, totalOrders,
lastOrderDate and createdAt, each mapped to an object with one or more of the
operators $gt, $gte, $lt, $lte, $eq. Numeric fields take numbers; date fields take
ISO 8601 strings. Respond with a JSON object of the shape
{"rules": {...}, "explanation": "..."} and nothing else.`

// BedrockAdvisor suggests segment rules with a Claude model on AWS Bedrock.
type BedrockAdvisor struct {
	client  *bedrockruntime.Client
	modelID string
}

type bedrockMessage struct {
	Role    string                `json:"role"`
	Content []bedrockContentBlock `json:"content"`
}

type bedrockContentBlock struct {
	Type string `json:"type"`
	Text string `json:"text,omitempty"`
}

type bedrockRequest struct {
	AnthropicVersion string           `json:"anthropic_version"`
	MaxTokens        int              `json:"max_tokens"`
	System           string           `json:"system,omitempty"`
	Messages         []bedrockMessage `json:"messages"`
	Temperature      float64          `json:"temperature,omitempty"`
}

type bedrockResponse struct {
	Content []struct {
		Type string `json:"type"`
		Text string `json:"text"`
	} `json:"content"`
	StopReason string `json:"stop_reason"`
}

// NewBedrockAdvisor creates a Bedrock-backed advisor.
func NewBedrockAdvisor(ctx context.Context, cfg appconfig.AdvisorConfig) (*BedrockAdvisor, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(cfg.Region))
	if err != nil {
		return nil, fmt.Errorf("loading AWS config: %w", err)
	}

	log.Printf("[Advisor] using model %s in %s", cfg.ModelID, cfg.Region)
	return &BedrockAdvisor{
		client:  bedrockruntime.NewFromConfig(awsCfg),
		modelID: cfg.ModelID,
	}, nil
}

// Suggest asks the model for a rule document and validates it before
// returning. A model reply that fails validation is an error, never a
// silently broken suggestion.
func (b *BedrockAdvisor) Suggest(ctx context.Context, description string) (*Suggestion, error) {
	body, err := json.Marshal(bedrockRequest{
		AnthropicVersion: "bedrock-2023-05-31",
		MaxTokens:        1024,
		System:           systemPrompt,
		Messages: []bedrockMessage{{
			Role:    "user",
			Content: []bedrockContentBlock{{Type: "text", Text: description}},
		}},
		Temperature: 0.2,
	})
	if err != nil {
		return nil, fmt.Errorf("encoding advisor request: %w", err)
	}

	out, err := b.client.InvokeModel(ctx, &bedrockruntime.InvokeModelInput{
		ModelId:     aws.String(b.modelID),
		ContentType: aws.String("application/json"),
		Accept:      aws.String("application/json"),
		Body:        body,
	})
	if err != nil {
		return nil, fmt.Errorf("invoking advisor model: %w", err)
	}

	var resp bedrockResponse
	if err := json.Unmarshal(out.Body, &resp); err != nil {
		return nil, fmt.Errorf("decoding advisor response: %w", err)
	}
	if len(resp.Content) == 0 {
		return nil, fmt.Errorf("advisor returned no content")
	}

	return parseSuggestion(resp.Content[0].Text)
}

// parseSuggestion decodes the model's reply and runs the rule document
// through standard validation.
func parseSuggestion(text string) (*Suggestion, error) {
	// Models occasionally wrap JSON in a code fence.
	text = strings.TrimSpace(text)
	text = strings.TrimPrefix(text, "```json")
	text = strings.TrimPrefix(text, "```")
	text = strings.TrimSuffix(text, "```")

	var s Suggestion
	if err := json.Unmarshal([]byte(strings.TrimSpace(text)), &s); err != nil {
		return nil, fmt.Errorf("advisor reply is not valid JSON: %w", err)
	}
	if s.Rules == nil {
		return nil, fmt.Errorf("advisor reply has no rules")
	}
	if _, err := segment.Validate(s.Rules); err != nil {
		return nil, fmt.Errorf("advisor suggested an invalid rule: %w", err)
	}
	return &s, nil
}
