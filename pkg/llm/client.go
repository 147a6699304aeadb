// Package llm queries Bedrock foundation models with the Anthropic messages
// format and builds the analysis and recommendation prompts.
package llm

import (
	"context"
	"errors"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime"
	"github.com/goccy/go-json"
)

// AnthropicVersion is the messages API version Bedrock expects for Claude models
const AnthropicVersion = "bedrock-2023-05-31"

// DefaultModelID is used when no model is configured
const DefaultModelID = "anthropic.claude-v2:1"

// Message is one conversation turn
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Prompt is an Anthropic messages request body
type Prompt struct {
	AnthropicVersion string    `json:"anthropic_version"`
	MaxTokens        int       `json:"max_tokens"`
	Messages         []Message `json:"messages"`
}

// NewPrompt creates a single user-turn prompt
func NewPrompt(content string, maxTokens int) Prompt {
	return Prompt{
		AnthropicVersion: AnthropicVersion,
		MaxTokens:        maxTokens,
		Messages:         []Message{{Role: "user", Content: content}},
	}
}

// Client sends a prompt to a language model and returns the text reply
type Client interface {
	Query(ctx context.Context, prompt Prompt) (string, error)
}

// InvokeModelAPI is the subset of the Bedrock runtime client used here
type InvokeModelAPI interface {
	InvokeModel(ctx context.Context, params *bedrockruntime.InvokeModelInput, optFns ...func(*bedrockruntime.Options)) (*bedrockruntime.InvokeModelOutput, error)
}

// BedrockClient queries a Bedrock model
type BedrockClient struct {
	api     InvokeModelAPI
	modelID string
}

type response struct {
	Content []struct {
		Type string `json:"type"`
		Text string `json:"text"`
	} `json:"content"`
}

// NewBedrockClient creates a Client for a Bedrock model
func NewBedrockClient(api InvokeModelAPI, modelID string) *BedrockClient {
	if modelID == "" {
		modelID = DefaultModelID
	}
	return &BedrockClient{api: api, modelID: modelID}
}

// NewRuntimeClient creates a Bedrock runtime client in a region
func NewRuntimeClient(ctx context.Context, region string, optFns ...func(*config.LoadOptions) error) (*bedrockruntime.Client, error) {
	opts := append([]func(*config.LoadOptions) error{config.WithRegion(region)}, optFns...)
	cfg, err := config.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config for region %s: %w", region, err)
	}
	return bedrockruntime.NewFromConfig(cfg), nil
}

// Query invokes the model and returns the text of the first content block
func (c *BedrockClient) Query(ctx context.Context, prompt Prompt) (string, error) {
	body, err := json.Marshal(prompt)
	if err != nil {
		return "", fmt.Errorf("error encoding prompt: %w", err)
	}

	out, err := c.api.InvokeModel(ctx, &bedrockruntime.InvokeModelInput{
		ModelId:     aws.String(c.modelID),
		Body:        body,
		ContentType: aws.String("application/json"),
		Accept:      aws.String("application/json"),
	})
	if err != nil {
		return "", fmt.Errorf("error querying Bedrock: %w", err)
	}

	var resp response
	if err := json.Unmarshal(out.Body, &resp); err != nil {
		return "", fmt.Errorf("error decoding Bedrock response: %w", err)
	}
	if len(resp.Content) == 0 {
		return "", errors.New("empty Bedrock response")
	}
	return resp.Content[0].Text, nil
}
