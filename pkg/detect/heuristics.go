package detect

import (
	"fmt"
	"regexp"
	"sort"
	"strings"
	"sync"

	"github.com/younsl/archcost/pkg/catalog"
)

// Heuristic is one method of finding service names in free text
type Heuristic interface {
	Name() string
	Detect(text string) ([]string, error)
}

// abbreviationPairs maps well-known full service names to their abbreviation
var abbreviationPairs = map[string]string{
	"elastic compute cloud":              "ec2",
	"simple storage service":             "s3",
	"relational database service":        "rds",
	"simple queue service":               "sqs",
	"simple notification service":        "sns",
	"simple email service":               "ses",
	"elastic file system":                "efs",
	"elastic block store":                "ebs",
	"elastic container service":          "ecs",
	"elastic kubernetes service":         "eks",
	"elastic container registry":         "ecr",
	"elastic load balancing":             "elb",
	"application load balancer":          "alb",
	"network load balancer":              "nlb",
	"identity and access management":     "iam",
	"key management service":             "kms",
	"certificate manager":                "acm",
	"managed streaming for apache kafka": "msk",
	"elastic mapreduce":                  "emr",
	"virtual private cloud":              "vpc",
	"web application firewall":           "waf",
}

// CatalogRegex matches every catalog identifier, its hyphen variants and the
// abbreviation pairs as whole words
type CatalogRegex struct {
	catalog *catalog.ServiceCatalog

	once      sync.Once
	pattern   *regexp.Regexp
	canonical map[string]string
	err       error
}

// NewCatalogRegex creates the heuristic; the pattern is compiled on first use
func NewCatalogRegex(c *catalog.ServiceCatalog) *CatalogRegex {
	return &CatalogRegex{catalog: c}
}

// Name implements Heuristic
func (h *CatalogRegex) Name() string { return "catalog-regex" }

func (h *CatalogRegex) compile() {
	h.canonical = make(map[string]string)
	for _, id := range h.catalog.Identifiers() {
		for _, alias := range catalog.Aliases(id) {
			h.canonical[alias] = id
		}
	}
	for full, abbr := range abbreviationPairs {
		h.canonical[full] = abbr
		h.canonical[abbr] = abbr
	}

	alternatives := make([]string, 0, len(h.canonical))
	for alias := range h.canonical {
		alternatives = append(alternatives, alias)
	}
	// Longest first so that "acm pca" wins over "acm"
	sort.Slice(alternatives, func(i, j int) bool {
		if len(alternatives[i]) != len(alternatives[j]) {
			return len(alternatives[i]) > len(alternatives[j])
		}
		return alternatives[i] < alternatives[j]
	})
	for i, alt := range alternatives {
		alternatives[i] = regexp.QuoteMeta(alt)
	}

	h.pattern, h.err = regexp.Compile(`(?i)\b(?:` + strings.Join(alternatives, "|") + `)\b`)
	if h.err != nil {
		h.err = fmt.Errorf("error compiling catalog pattern: %w", h.err)
	}
}

// Detect implements Heuristic
func (h *CatalogRegex) Detect(text string) ([]string, error) {
	h.once.Do(h.compile)
	if h.err != nil {
		return nil, h.err
	}

	var found []string
	for _, m := range h.pattern.FindAllString(text, -1) {
		key := strings.Join(strings.Fields(strings.ToLower(m)), " ")
		if id, ok := h.canonical[key]; ok {
			found = append(found, id)
		}
	}
	return found, nil
}

var vendorPhrasePattern = regexp.MustCompile(`\b(?:AWS|Amazon)\s+([A-Z][A-Za-z0-9]*(?:[ \t]+[A-Z][A-Za-z0-9]*){0,2})`)

// VendorPhrase picks up "AWS <Words>" and "Amazon <Words>" phrases
type VendorPhrase struct{}

// Name implements Heuristic
func (VendorPhrase) Name() string { return "vendor-phrase" }

// Detect implements Heuristic
func (VendorPhrase) Detect(text string) ([]string, error) {
	var found []string
	for _, m := range vendorPhrasePattern.FindAllStringSubmatch(text, -1) {
		found = append(found, strings.ToLower(strings.Join(strings.Fields(m[1]), " ")))
	}
	return found, nil
}

var captionPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)architecture diagram shows\s+([^.\n]+)`),
	regexp.MustCompile(`(?i)the diagram includes\s+([^.\n]+)`),
	regexp.MustCompile(`(?i)the diagram (?:depicts|illustrates)\s+([^.\n]+)`),
	regexp.MustCompile(`(?i)components (?:shown|depicted) in the diagram (?:are|include)\s+([^.\n]+)`),
	regexp.MustCompile(`(?i)diagram contains\s+([^.\n]+)`),
}

// DiagramCaption looks for catalog identifiers inside diagram description phrases
type DiagramCaption struct {
	catalog *catalog.ServiceCatalog
}

// NewDiagramCaption creates the heuristic
func NewDiagramCaption(c *catalog.ServiceCatalog) *DiagramCaption {
	return &DiagramCaption{catalog: c}
}

// Name implements Heuristic
func (h *DiagramCaption) Name() string { return "diagram-caption" }

// Detect implements Heuristic
func (h *DiagramCaption) Detect(text string) ([]string, error) {
	var phrases []string
	for _, p := range captionPatterns {
		for _, m := range p.FindAllStringSubmatch(text, -1) {
			phrases = append(phrases, strings.ToLower(m[1]))
		}
	}
	if len(phrases) == 0 {
		return nil, nil
	}

	var found []string
	for _, id := range h.catalog.Identifiers() {
		for _, alias := range catalog.Aliases(id) {
			if containsAny(phrases, alias) {
				found = append(found, id)
				break
			}
		}
	}
	return found, nil
}

func containsAny(phrases []string, s string) bool {
	for _, p := range phrases {
		if strings.Contains(p, s) {
			return true
		}
	}
	return false
}

// legacyPattern is a fixed list of well-known services, kept so that names mapped
// by earlier pricing tables keep being detected
var legacyPattern = regexp.MustCompile(`(?i)\b(EC2|S3|RDS|Lambda|DynamoDB|ECS|EKS|SQS|SNS|CloudFront|API Gateway|Route53|CloudWatch|IAM|VPC|ELB|ALB|NLB|CloudFormation|Step Functions|Kinesis|Glue|Athena|EMR|Redshift|ElastiCache|Neptune|DocumentDB|MSK|OpenSearch|Elasticsearch|CodePipeline|CodeBuild|CodeDeploy|CodeCommit|Amplify|AppSync|EventBridge|CloudTrail|GuardDuty|WAF|Shield|Secrets Manager|KMS|ACM|Cognito|SES|Pinpoint)\b`)

// LegacyRegex matches the fixed list of well-known service names
type LegacyRegex struct{}

// Name implements Heuristic
func (LegacyRegex) Name() string { return "legacy-regex" }

// Detect implements Heuristic
func (LegacyRegex) Detect(text string) ([]string, error) {
	var found []string
	for _, m := range legacyPattern.FindAllString(text, -1) {
		found = append(found, strings.ToLower(m))
	}
	return found, nil
}

// OverrideSubstring checks whether each manually mapped service name occurs
// anywhere in the text
type OverrideSubstring struct{}

// Name implements Heuristic
func (OverrideSubstring) Name() string { return "override-substring" }

// Detect implements Heuristic
func (OverrideSubstring) Detect(text string) ([]string, error) {
	lower := strings.ToLower(text)
	var found []string
	for _, name := range catalog.OverrideNames() {
		if strings.Contains(lower, name) {
			found = append(found, name)
		}
	}
	return found, nil
}
