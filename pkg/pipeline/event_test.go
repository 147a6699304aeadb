package pipeline

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEventLocation(t *testing.T) {
	tests := []struct {
		name       string
		raw        string
		wantBucket string
		wantKey    string
		wantErr    bool
	}{
		{
			name:       "direct invocation",
			raw:        `{"bucket":"uploads","key":"docs/my+arch%281%29.txt"}`,
			wantBucket: "uploads",
			wantKey:    "docs/my arch(1).txt",
		},
		{
			name:       "s3 notification",
			raw:        `{"Records":[{"eventSource":"aws:s3","s3":{"bucket":{"name":"uploads"},"object":{"key":"diagrams/Prod+VPC.png","size":1024}}}]}`,
			wantBucket: "uploads",
			wantKey:    "diagrams/Prod VPC.png",
		},
		{
			name:       "malformed escape kept",
			raw:        `{"bucket":"uploads","key":"100%.txt"}`,
			wantBucket: "uploads",
			wantKey:    "100%.txt",
		},
		{name: "empty object", raw: `{}`, wantErr: true},
		{name: "bucket only", raw: `{"bucket":"uploads"}`, wantErr: true},
		{name: "empty records", raw: `{"Records":[]}`, wantErr: true},
		{name: "empty key", raw: `{"bucket":"uploads","key":""}`, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			event, err := DecodeEvent([]byte(tt.raw))
			require.NoError(t, err)

			bucket, key, err := event.Location()
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidEvent)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantBucket, bucket)
			assert.Equal(t, tt.wantKey, key)
		})
	}
}

func TestDecodeEvent_Malformed(t *testing.T) {
	_, err := DecodeEvent([]byte(`not json`))
	assert.ErrorIs(t, err, ErrInvalidEvent)
}
