package report

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/younsl/archcost/internal/models"
)

type memoryObjects struct {
	objects map[string][]byte
	err     error
}

func (m *memoryObjects) PutJSON(_ context.Context, bucket, key string, body []byte) error {
	if m.err != nil {
		return m.err
	}
	m.objects[bucket+"/"+key] = body
	return nil
}

func newTestWriter(objects ObjectWriter, prefix string) *Writer {
	w := NewWriter(objects, "reports", prefix)
	w.now = func() time.Time { return time.Date(2025, 4, 15, 9, 30, 5, 0, time.UTC) }
	w.newID = func() string { return "11111111-2222-3333-4444-555555555555" }
	return w
}

func TestWriter_Key(t *testing.T) {
	tests := []struct {
		prefix string
		want   string
	}{
		{"", "analysis/20250415-093005-11111111-2222-3333-4444-555555555555.json"},
		{"team-a", "team-a/analysis/20250415-093005-11111111-2222-3333-4444-555555555555.json"},
		{"team-a//", "team-a/analysis/20250415-093005-11111111-2222-3333-4444-555555555555.json"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, newTestWriter(nil, tt.prefix).Key())
	}
}

func TestWriter_KeysAreUnique(t *testing.T) {
	w := NewWriter(nil, "reports", "")
	assert.NotEqual(t, w.Key(), w.Key())
}

func TestWriter_Write(t *testing.T) {
	objects := &memoryObjects{objects: make(map[string][]byte)}
	w := newTestWriter(objects, "out")

	r := &models.PipelineReport{
		Source:   "s3://in/arch.txt",
		Services: []string{"rds"},
		Pricing:  map[string]models.ServicePricing{"rds": {Error: "throttled"}},
		Quotas:   map[string][]models.QuotaRecord{},
		CostEstimate: models.CostEstimate{
			ServiceCosts: map[string]models.ServiceCost{"rds": {Assumptions: []string{"Could not estimate cost for rds: throttled"}}},
		},
		Timestamp: 1744709405,
	}

	location, err := w.Write(context.Background(), r)
	require.NoError(t, err)
	assert.Equal(t, "s3://reports/out/analysis/20250415-093005-11111111-2222-3333-4444-555555555555.json", location)

	body := objects.objects["reports/out/analysis/20250415-093005-11111111-2222-3333-4444-555555555555.json"]
	require.NotEmpty(t, body)

	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal(body, &decoded))
	assert.Equal(t, map[string]interface{}{"error": "throttled"}, decoded["pricing"].(map[string]interface{})["rds"])
	assert.Equal(t, "s3://in/arch.txt", decoded["source"])
	assert.NotContains(t, decoded, "degradations")
}

func TestWriter_WriteError(t *testing.T) {
	objects := &memoryObjects{err: errors.New("access denied")}

	_, err := newTestWriter(objects, "").Write(context.Background(), &models.PipelineReport{})
	assert.ErrorContains(t, err, "access denied")
}
