package pipeline

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/pricing"
	"github.com/goccy/go-json"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/younsl/archcost/internal/models"
	"github.com/younsl/archcost/pkg/cache"
	"github.com/younsl/archcost/pkg/catalog"
	"github.com/younsl/archcost/pkg/detect"
	"github.com/younsl/archcost/pkg/llm"
	pricingpkg "github.com/younsl/archcost/pkg/pricing"
	"github.com/younsl/archcost/pkg/quota"
	"github.com/younsl/archcost/pkg/report"
)

type staticText struct {
	text string
	err  error
}

func (s staticText) Extract(context.Context, string, string) (string, error) {
	return s.text, s.err
}

// scriptedModel answers the analysis prompt with analysis and any other
// prompt with recommendations
type scriptedModel struct {
	analysis        string
	recommendations string
	err             error
	prompts         []llm.Prompt
}

func (m *scriptedModel) Query(_ context.Context, p llm.Prompt) (string, error) {
	m.prompts = append(m.prompts, p)
	if m.err != nil {
		return "", m.err
	}
	if p.MaxTokens == 1500 {
		return m.analysis, nil
	}
	return m.recommendations, nil
}

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

// productsAPI returns one hourly product for EC2 and throttles RDS
type productsAPI struct {
	calls int
}

func (f *productsAPI) GetProducts(_ context.Context, in *pricing.GetProductsInput, _ ...func(*pricing.Options)) (*pricing.GetProductsOutput, error) {
	f.calls++
	switch aws.ToString(in.ServiceCode) {
	case "AmazonEC2":
		return &pricing.GetProductsOutput{PriceList: []string{`{
			"product": {"sku": "EC2SKU", "attributes": {"instanceType": "t3.medium"}},
			"terms": {"OnDemand": {"a": {"priceDimensions": {"b": {"unit": "Hrs", "pricePerUnit": {"USD": "0.0416"}}}}}}
		}`}}, nil
	case "AmazonRDS":
		return nil, errors.New("throttled")
	}
	return &pricing.GetProductsOutput{}, nil
}

type fixture struct {
	pipeline *Pipeline
	model    *scriptedModel
	objects  *memoryObjects
	products *productsAPI
}

func newFixture(t *testing.T, text string, model *scriptedModel) *fixture {
	t.Helper()

	c, err := catalog.Load(context.Background(), catalog.EmbeddedEnumerator{})
	require.NoError(t, err)

	objects := &memoryObjects{objects: make(map[string][]byte)}
	products := &productsAPI{}
	logger := zerolog.Nop()

	p := New(Deps{
		Extractor: staticText{text: text},
		Model:     model,
		Detector:  detect.NewDetector(c, logger),
		Pricing:   pricingpkg.NewResolver(products, c, pricingpkg.WithCache(cache.NewMemoryStore())),
		Quotas:    quota.NewResolver(nil, c, logger),
		Reports:   report.NewWriter(objects, "reports", "out"),
	}, logger)
	p.now = func() time.Time { return time.Unix(1744709405, 0) }

	return &fixture{pipeline: p, model: model, objects: objects, products: products}
}

func TestRun_EndToEnd(t *testing.T) {
	model := &scriptedModel{
		analysis:        "We use 3 EC2 t3.medium instances and an RDS MySQL database.",
		recommendations: "1. Cost optimization: buy a savings plan.",
	}
	f := newFixture(t, "architecture document", model)

	result, err := f.pipeline.Run(context.Background(), "uploads", "arch.txt")
	require.NoError(t, err)

	r := result.Report
	assert.Equal(t, "s3://uploads/arch.txt", r.Source)
	assert.Equal(t, []string{"ec2", "rds"}, r.Services)
	assert.InDelta(t, 91.1, r.CostEstimate.TotalEstimatedMonthlyCost, 1e-9)
	assert.True(t, r.Pricing["rds"].Failed())
	assert.Contains(t, r.CostEstimate.ServiceCosts["rds"].Assumptions[0], "Could not estimate cost")
	assert.Contains(t, r.Quotas, "ec2")
	assert.Contains(t, r.Quotas, "rds")
	assert.Equal(t, "1. Cost optimization: buy a savings plan.", r.Recommendations)
	assert.Equal(t, float64(1744709405), r.Timestamp)

	assert.Contains(t, r.Degradations, models.Degradation{
		Service: "rds", Stage: models.StagePricing, Reason: models.ReasonPricingQueryFailed,
		Detail: r.Pricing["rds"].Error,
	})

	require.Len(t, model.prompts, 2)
	assert.Contains(t, model.prompts[0].Messages[0].Content, "architecture document")
	assert.Contains(t, model.prompts[1].Messages[0].Content, "ESTIMATED MONTHLY COST: $91.10 USD")

	assert.True(t, strings.HasPrefix(result.Location, "s3://reports/out/analysis/"))
	key := strings.TrimPrefix(result.Location, "s3://")
	require.Contains(t, f.objects.objects, key)

	var stored map[string]interface{}
	require.NoError(t, json.Unmarshal(f.objects.objects[key], &stored))
	assert.Equal(t, map[string]interface{}{"error": r.Pricing["rds"].Error}, stored["pricing"].(map[string]interface{})["rds"])
}

func TestRun_ScenarioD_EmptyAnalysis(t *testing.T) {
	model := &scriptedModel{analysis: "", recommendations: "none"}
	f := newFixture(t, "", model)

	result, err := f.pipeline.Run(context.Background(), "uploads", "empty.txt")
	require.NoError(t, err)

	assert.Empty(t, result.Report.Services)
	assert.Empty(t, result.Report.Pricing)
	assert.Empty(t, result.Report.Quotas)
	assert.Equal(t, 0.0, result.Report.CostEstimate.TotalEstimatedMonthlyCost)
	assert.Zero(t, f.products.calls)
	assert.Len(t, f.objects.objects, 1)
}

func TestRun_Failures(t *testing.T) {
	t.Run("extraction", func(t *testing.T) {
		f := newFixture(t, "", &scriptedModel{})
		f.pipeline.deps.Extractor = staticText{err: errors.New("Textract job failed with status: FAILED")}

		_, err := f.pipeline.Run(context.Background(), "uploads", "a.pdf")
		assert.ErrorContains(t, err, "FAILED")
	})

	t.Run("model", func(t *testing.T) {
		f := newFixture(t, "text", &scriptedModel{err: errors.New("model unavailable")})

		_, err := f.pipeline.Run(context.Background(), "uploads", "a.txt")
		assert.ErrorContains(t, err, "model unavailable")
	})

	t.Run("storage", func(t *testing.T) {
		f := newFixture(t, "text", &scriptedModel{analysis: "EC2"})
		f.objects.err = errors.New("access denied")

		_, err := f.pipeline.Run(context.Background(), "uploads", "a.txt")
		assert.ErrorContains(t, err, "access denied")
	})

	t.Run("setup", func(t *testing.T) {
		f := newFixture(t, "text", &scriptedModel{})
		f.pipeline.deps.Setup = func(context.Context) error { return errors.New("bucket creation failed") }

		_, err := f.pipeline.Run(context.Background(), "uploads", "a.txt")
		assert.ErrorContains(t, err, "bucket creation failed")
		assert.Empty(t, f.model.prompts)
	})
}

func TestHandle(t *testing.T) {
	model := &scriptedModel{analysis: "We use 3 EC2 t3.medium instances", recommendations: "ok"}
	f := newFixture(t, "doc", model)

	resp, err := f.pipeline.Handle(context.Background(), Event{Bucket: aws.String("uploads"), Key: aws.String("arch.txt")})
	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)

	var body SuccessBody
	require.NoError(t, json.Unmarshal([]byte(resp.Body), &body))
	assert.Equal(t, "Analysis complete", body.Message)
	assert.True(t, strings.HasPrefix(body.OutputLocation, "s3://reports/"))
	assert.InDelta(t, 91.1, body.EstimatedMonthlyCost, 1e-9)
	assert.Equal(t, []string{"ec2"}, body.ServicesDetected)
	assert.Equal(t, 1, body.QuotasProvided)
}

func TestHandle_InvalidEvent(t *testing.T) {
	f := newFixture(t, "doc", &scriptedModel{})

	resp, err := f.pipeline.Handle(context.Background(), Event{})
	require.NoError(t, err)
	assert.Equal(t, 500, resp.StatusCode)

	var body ErrorBody
	require.NoError(t, json.Unmarshal([]byte(resp.Body), &body))
	assert.Equal(t, ErrInvalidEvent.Error(), body.Error)
}
