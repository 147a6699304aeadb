package detect

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/younsl/archcost/pkg/catalog"
)

func embeddedCatalog(t *testing.T) *catalog.ServiceCatalog {
	t.Helper()
	c, err := catalog.Load(context.Background(), catalog.EmbeddedEnumerator{})
	require.NoError(t, err)
	return c
}

func TestDetector_Scenarios(t *testing.T) {
	d := NewDetector(embeddedCatalog(t), zerolog.Nop())

	tests := []struct {
		name string
		text string
		want []string
	}{
		{
			name: "ec2 and s3",
			text: "We use 3 EC2 t3.medium instances and an S3 bucket with 500GB storage",
			want: []string{"ec2", "s3"},
		},
		{
			name: "empty text",
			text: "",
			want: []string{},
		},
		{
			name: "full names map to abbreviations",
			text: "Objects live in Simple Storage Service behind an Application Load Balancer",
			want: []string{"alb", "s3"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, d.Detect(tt.text).Sorted())
		})
	}
}

func TestCatalogRegex(t *testing.T) {
	h := NewCatalogRegex(catalog.New([]string{"acm-pca", "acm", "dynamodb"}))

	found, err := h.Detect("Certificates come from ACM PCA and Acm-Pca; state is in DynamoDB.")
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"acm-pca", "acm-pca", "dynamodb"}, found)
}

func TestVendorPhrase(t *testing.T) {
	found, err := VendorPhrase{}.Detect("Orders flow through AWS Step Functions into Amazon DynamoDB tables.")
	require.NoError(t, err)
	assert.Equal(t, []string{"step functions", "dynamodb"}, found)
}

func TestDiagramCaption(t *testing.T) {
	h := NewDiagramCaption(catalog.New([]string{"lambda", "dynamodb", "sqs", "cognito-idp"}))

	t.Run("match inside caption", func(t *testing.T) {
		found, err := h.Detect("The diagram includes a Lambda function writing to DynamoDB.")
		require.NoError(t, err)
		assert.ElementsMatch(t, []string{"lambda", "dynamodb"}, found)
	})

	t.Run("hyphen variant", func(t *testing.T) {
		found, err := h.Detect("Architecture diagram shows cognito idp user pools")
		require.NoError(t, err)
		assert.Equal(t, []string{"cognito-idp"}, found)
	})

	t.Run("text outside captions is ignored", func(t *testing.T) {
		found, err := h.Detect("We use SQS. The diagram includes nothing else.")
		require.NoError(t, err)
		assert.Empty(t, found)
	})
}

func TestLegacyRegex(t *testing.T) {
	found, err := LegacyRegex{}.Detect("API Gateway fronts Secrets Manager and ElastiCache")
	require.NoError(t, err)
	assert.Equal(t, []string{"api gateway", "secrets manager", "elasticache"}, found)
}

func TestOverrideSubstring(t *testing.T) {
	found, err := OverrideSubstring{}.Detect("Events go to EventBridge then to CloudTrail")
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"eventbridge", "cloudtrail"}, found)
}

type brokenHeuristic struct{}

func (brokenHeuristic) Name() string { return "broken" }

func (brokenHeuristic) Detect(string) ([]string, error) {
	return nil, errors.New("pattern too large")
}

func TestUnion_SkipsFailingHeuristic(t *testing.T) {
	u := NewUnion(zerolog.Nop(), brokenHeuristic{}, LegacyRegex{})

	got := u.Detect("Lambda and SQS")

	assert.Equal(t, []string{"lambda", "sqs"}, got.Sorted())
}
