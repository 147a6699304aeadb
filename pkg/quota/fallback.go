package quota

import (
	"sort"

	"github.com/younsl/archcost/internal/models"
)

// keywords selects the relevant quotas of a service by name. Matching is
// case-insensitive substring.
var keywords = map[string][]string{
	"ec2":                  {"instances", "vcpu", "volume", "elastic ip", "security group"},
	"lambda":               {"concurrent", "function", "storage", "memory", "timeout"},
	"s3":                   {"bucket", "object"},
	"rds":                  {"instances", "storage", "snapshots", "read replicas", "parameter groups"},
	"dynamodb":             {"table", "capacity", "index", "throughput"},
	"sqs":                  {"queue", "message"},
	"sns":                  {"topic", "subscription"},
	"ecs":                  {"cluster", "service", "task"},
	"eks":                  {"cluster", "node", "fargate"},
	"apigateway":           {"throttle", "rate", "api", "resource"},
	"cloudfront":           {"distribution", "origin", "cache"},
	"elasticache":          {"node", "cluster"},
	"kinesis":              {"shard", "stream"},
	"vpc":                  {"vpc", "subnet", "gateway", "security group"},
	"elasticloadbalancing": {"load balancer", "listener", "target"},
}

// fallbackQuotas are published default quotas used when the Service Quotas
// API cannot be queried
var fallbackQuotas = map[string][]models.QuotaRecord{
	"ec2": {
		{Name: "Running On-Demand Standard (A, C, D, H, I, M, R, T, Z) instances", Value: 5, Adjustable: true, Unit: "vCPU"},
		{Name: "EC2-VPC Elastic IPs", Value: 5, Adjustable: true, Unit: "None"},
		{Name: "Storage for General Purpose SSD (gp3) volumes, in TiB", Value: 50, Adjustable: true, Unit: "TiB"},
	},
	"lambda": {
		{Name: "Concurrent executions", Value: 1000, Adjustable: true, Unit: "None"},
		{Name: "Function and layer storage", Value: 75, Adjustable: true, Unit: "Gigabytes"},
		{Name: "Function timeout", Value: 900, Adjustable: false, Unit: "Seconds"},
		{Name: "Function memory maximum", Value: 10240, Adjustable: false, Unit: "Megabytes"},
	},
	"s3": {
		{Name: "General purpose buckets", Value: 10000, Adjustable: true, Unit: "None"},
		{Name: "Objects per bucket", Value: models.UnlimitedQuota, Adjustable: false, Unit: "None"},
	},
	"rds": {
		{Name: "DB instances", Value: 40, Adjustable: true, Unit: "None"},
		{Name: "Total storage for all DB instances", Value: 100000, Adjustable: true, Unit: "Gigabytes"},
		{Name: "Read replicas per primary", Value: 15, Adjustable: false, Unit: "None"},
	},
	"dynamodb": {
		{Name: "Maximum number of tables", Value: 2500, Adjustable: true, Unit: "None"},
		{Name: "Table-level read throughput limit", Value: 40000, Adjustable: true, Unit: "None"},
		{Name: "Global secondary indexes per table", Value: 20, Adjustable: true, Unit: "None"},
	},
	"sqs": {
		{Name: "Messages per queue (in flight)", Value: 120000, Adjustable: false, Unit: "None"},
		{Name: "Maximum message size", Value: 256, Adjustable: false, Unit: "Kilobytes"},
	},
	"sns": {
		{Name: "Topics per account", Value: 100000, Adjustable: true, Unit: "None"},
		{Name: "Subscriptions per topic", Value: 12500000, Adjustable: true, Unit: "None"},
	},
	"ecs": {
		{Name: "Clusters per account", Value: 10000, Adjustable: true, Unit: "None"},
		{Name: "Services per cluster", Value: 5000, Adjustable: true, Unit: "None"},
		{Name: "Tasks launched per run-task", Value: 10, Adjustable: false, Unit: "None"},
	},
	"eks": {
		{Name: "Clusters", Value: 100, Adjustable: true, Unit: "None"},
		{Name: "Managed node groups per cluster", Value: 30, Adjustable: true, Unit: "None"},
		{Name: "Nodes per managed node group", Value: 450, Adjustable: true, Unit: "None"},
	},
	"apigateway": {
		{Name: "Throttle rate", Value: 10000, Adjustable: true, Unit: "Requests per second"},
		{Name: "Regional APIs per account", Value: 600, Adjustable: true, Unit: "None"},
	},
	"cloudfront": {
		{Name: "Distributions per AWS account", Value: 200, Adjustable: true, Unit: "None"},
		{Name: "Origins per distribution", Value: 25, Adjustable: true, Unit: "None"},
	},
	"elasticache": {
		{Name: "Nodes per Region", Value: 300, Adjustable: true, Unit: "None"},
		{Name: "Nodes per cluster", Value: 40, Adjustable: true, Unit: "None"},
	},
	"kinesis": {
		{Name: "Shards per Region", Value: 500, Adjustable: true, Unit: "None"},
		{Name: "On-demand data streams per account", Value: 50, Adjustable: true, Unit: "None"},
	},
	"vpc": {
		{Name: "VPCs per Region", Value: 5, Adjustable: true, Unit: "None"},
		{Name: "Subnets per VPC", Value: 200, Adjustable: true, Unit: "None"},
		{Name: "Internet gateways per Region", Value: 5, Adjustable: true, Unit: "None"},
	},
	"elasticloadbalancing": {
		{Name: "Application Load Balancers per Region", Value: 50, Adjustable: true, Unit: "None"},
		{Name: "Network Load Balancers per Region", Value: 50, Adjustable: true, Unit: "None"},
		{Name: "Listeners per Application Load Balancer", Value: 50, Adjustable: true, Unit: "None"},
	},
}

// lookup finds a per-service table entry by detected name first, then by
// quota code
func lookup[T any](table map[string]T, service, quotaCode string) (T, bool) {
	if v, ok := table[service]; ok {
		return v, true
	}
	v, ok := table[quotaCode]
	return v, ok
}

// FallbackServices returns the services covered by the static quota table
func FallbackServices() []string {
	names := make([]string, 0, len(fallbackQuotas))
	for name := range fallbackQuotas {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
