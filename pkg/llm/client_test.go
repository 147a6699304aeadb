package llm

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime"
	"github.com/goccy/go-json"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeBedrock struct {
	body  []byte
	err   error
	input *bedrockruntime.InvokeModelInput
}

func (f *fakeBedrock) InvokeModel(_ context.Context, in *bedrockruntime.InvokeModelInput, _ ...func(*bedrockruntime.Options)) (*bedrockruntime.InvokeModelOutput, error) {
	f.input = in
	if f.err != nil {
		return nil, f.err
	}
	return &bedrockruntime.InvokeModelOutput{Body: f.body}, nil
}

func TestBedrockClient_Query(t *testing.T) {
	api := &fakeBedrock{body: []byte(`{"content":[{"type":"text","text":"EC2 and S3"}],"stop_reason":"end_turn"}`)}
	c := NewBedrockClient(api, "anthropic.claude-3-haiku-20240307-v1:0")

	text, err := c.Query(context.Background(), NewPrompt("hello", 100))
	require.NoError(t, err)
	assert.Equal(t, "EC2 and S3", text)
	assert.Equal(t, "anthropic.claude-3-haiku-20240307-v1:0", aws.ToString(api.input.ModelId))

	var sent map[string]interface{}
	require.NoError(t, json.Unmarshal(api.input.Body, &sent))
	assert.Equal(t, AnthropicVersion, sent["anthropic_version"])
	assert.Equal(t, float64(100), sent["max_tokens"])
}

func TestBedrockClient_Errors(t *testing.T) {
	tests := []struct {
		name string
		api  *fakeBedrock
	}{
		{"invoke error", &fakeBedrock{err: errors.New("ThrottlingException")}},
		{"bad body", &fakeBedrock{body: []byte("not json")}},
		{"no content", &fakeBedrock{body: []byte(`{"content":[]}`)}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewBedrockClient(tt.api, "").Query(context.Background(), NewPrompt("x", 1))
			assert.Error(t, err)
			assert.Equal(t, DefaultModelID, aws.ToString(tt.api.input.ModelId))
		})
	}
}

// scriptedClient fails the first failures calls
type scriptedClient struct {
	failures int
	calls    int
}

func (s *scriptedClient) Query(context.Context, Prompt) (string, error) {
	s.calls++
	if s.calls <= s.failures {
		return "", errors.New("model unavailable")
	}
	return "ok", nil
}

func newTestRetrying(client Client, maxRetries int, delays *[]time.Duration) *Retrying {
	r := WithRetry(client, maxRetries, 2*time.Second, zerolog.Nop())
	r.sleep = func(_ context.Context, d time.Duration) error {
		*delays = append(*delays, d)
		return nil
	}
	return r
}

func TestWithRetry_Backoff(t *testing.T) {
	var delays []time.Duration
	client := &scriptedClient{failures: 2}

	text, err := newTestRetrying(client, 3, &delays).Query(context.Background(), Prompt{})
	require.NoError(t, err)
	assert.Equal(t, "ok", text)
	assert.Equal(t, 3, client.calls)
	assert.Equal(t, []time.Duration{2 * time.Second, 4 * time.Second}, delays)
}

func TestWithRetry_FinalErrorPropagates(t *testing.T) {
	var delays []time.Duration
	client := &scriptedClient{failures: 10}

	_, err := newTestRetrying(client, 3, &delays).Query(context.Background(), Prompt{})
	require.EqualError(t, err, "model unavailable")
	assert.Equal(t, 3, client.calls)
	assert.Len(t, delays, 2, "no wait after the last attempt")
}

func TestWithRetry_AtLeastOneAttempt(t *testing.T) {
	var delays []time.Duration
	client := &scriptedClient{}

	_, err := newTestRetrying(client, 0, &delays).Query(context.Background(), Prompt{})
	require.NoError(t, err)
	assert.Equal(t, 1, client.calls)
}

func TestWithRetry_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	client := &scriptedClient{failures: 10}

	_, err := WithRetry(client, 3, time.Hour, zerolog.Nop()).Query(ctx, Prompt{})
	require.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 1, client.calls)
}
