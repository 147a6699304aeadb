package estimate

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/younsl/archcost/internal/models"
	"github.com/younsl/archcost/pkg/utils"
)

// defaultUsage is the assumed monthly usage when the analysis text says nothing
var defaultUsage = map[string]models.UsagePattern{
	"ec2":         {models.UsageHours: utils.HoursPerMonth, models.UsageInstances: 1},
	"rds":         {models.UsageHours: utils.HoursPerMonth, models.UsageInstances: 1, models.UsageStorageGB: 20},
	"elasticache": {models.UsageHours: utils.HoursPerMonth, models.UsageInstances: 1},
	"s3":          {models.UsageStorageGB: 100, models.UsageRequests: 10000},
	"lambda":      {models.UsageInvocations: 1000000, models.UsageAvgDurationMs: 200, models.UsageMemoryMB: 128},
	"dynamodb":    {models.UsageStorageGB: 10, models.UsageRequests: 300000},
	"cloudfront":  {models.UsageStorageGB: 100, models.UsageRequests: 1000000},
	"eks":         {models.UsageHours: utils.HoursPerMonth, models.UsageInstances: 1},
	"ecs":         {models.UsageInstances: 3},
	"sqs":         {models.UsageRequests: 1000000},
	"sns":         {models.UsageRequests: 1000000},
	"cloudwatch":  {models.UsageInstances: 10, models.UsageStorageGB: 5},
}

var (
	storagePattern     = regexp.MustCompile(`(?i)(\d+(?:\.\d+)?)\s*(GB|TB|PB)\s+(?:of\s+)?(?:S3|storage)`)
	invocationsPattern = regexp.MustCompile(`(?i)(\d[\d,]*)\s+(?:lambda\s+)?invocations`)
	lambdaMemPattern   = regexp.MustCompile(`(?is)lambda.*?(\d+)\s*MB`)
)

// instanceCountPattern matches "<n> [type] <service> [type] instances"
func instanceCountPattern(service string) *regexp.Regexp {
	return regexp.MustCompile(`(?i)\b(\d+)\s+(?:[a-z0-9.-]+\s+)?` + regexp.QuoteMeta(service) + `(?:\s+[a-z0-9.-]+)?\s+instances?\b`)
}

// ExtractUsagePatterns estimates the monthly usage of a service from the
// analysis text, falling back to per-service defaults
func ExtractUsagePatterns(service, analysis string) models.UsagePattern {
	service = strings.ToLower(service)

	switch service {
	case "ec2", "rds", "elasticache":
		if m := instanceCountPattern(service).FindStringSubmatch(analysis); m != nil {
			if n, err := strconv.ParseFloat(m[1], 64); err == nil {
				return models.UsagePattern{models.UsageHours: utils.HoursPerMonth, models.UsageInstances: n}
			}
		}
	case "s3":
		if m := storagePattern.FindStringSubmatch(analysis); m != nil {
			if size, err := strconv.ParseFloat(m[1], 64); err == nil {
				switch strings.ToUpper(m[2]) {
				case "TB":
					size *= 1000
				case "PB":
					size *= 1000000
				}
				return models.UsagePattern{models.UsageStorageGB: size, models.UsageRequests: 10000}
			}
		}
	case "lambda":
		usage := defaultUsage["lambda"].Clone()
		if m := invocationsPattern.FindStringSubmatch(analysis); m != nil {
			if n, err := strconv.ParseFloat(strings.ReplaceAll(m[1], ",", ""), 64); err == nil {
				usage[models.UsageInvocations] = n
			}
		}
		if m := lambdaMemPattern.FindStringSubmatch(analysis); m != nil {
			if n, err := strconv.ParseFloat(m[1], 64); err == nil {
				usage[models.UsageMemoryMB] = n
			}
		}
		return usage
	}

	if usage, ok := defaultUsage[service]; ok {
		return usage.Clone()
	}
	return models.UsagePattern{models.UsageInstances: 1}
}
