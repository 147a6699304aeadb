package pricing

import (
	"regexp"
	"strconv"
	"strings"

	ec2types "github.com/aws/aws-sdk-go-v2/service/ec2/types"
	"github.com/younsl/archcost/internal/models"
	"github.com/younsl/archcost/pkg/catalog"
)

// Resource configuration defaults
const (
	DefaultRegion          = "us-east-1"
	DefaultEC2InstanceType = "t3.micro"
	DefaultRDSInstanceType = "db.t3.micro"
	DefaultRDSEngine       = "mysql"
	DefaultS3StorageClass  = "General Purpose"
	DefaultLambdaMemoryMB  = "128"
	DefaultLambdaTimeout   = "3"
	DefaultConfiguration   = "standard"
)

// MapServiceToCode returns the Price List API service code of a detected
// service. It never fails: unknown names get a heuristically derived code.
func MapServiceToCode(c *catalog.ServiceCatalog, service string) string {
	return c.ResolvePricingCode(service)
}

var (
	instanceSizes = `(?:nano|micro|small|medium|large|xlarge|[0-9]+xlarge|metal)`

	ec2NearPattern     = regexp.MustCompile(`(?is)ec2.*?(?:instance|type).*?\b([a-z][a-z0-9-]*[0-9][a-z0-9-]*\.` + instanceSizes + `)\b`)
	ec2AnyPattern      = regexp.MustCompile(`(?i)\b([a-z][a-z0-9-]*[0-9][a-z0-9-]*\.` + instanceSizes + `)\b`)
	rdsClassPattern    = regexp.MustCompile(`(?i)\b(db\.[a-z][a-z0-9-]*\.` + instanceSizes + `)\b`)
	rdsEnginePattern   = regexp.MustCompile(`(?i)\b(aurora[- ]postgres(?:ql)?|aurora[- ]mysql|aurora|postgres(?:ql)?|mysql|mariadb|oracle|sql ?server)\b`)
	regionPattern      = regexp.MustCompile(`(?i)\b((?:us|eu|ap|sa|ca|me|af)-(?:east|west|north|south|central|northeast|southeast|northwest|southwest)-[0-9])\b`)
	lambdaMemPattern   = regexp.MustCompile(`(?is)lambda.*?(?:memory\D{0,20})?\b([0-9]+)\s*MB\b`)
	lambdaTimeoutPattn = regexp.MustCompile(`(?i)timeout\D{0,20}([0-9]+)\s*(seconds|second|secs|sec|s|minutes|minute|mins|min)\b`)
	windowsPattern     = regexp.MustCompile(`(?i)\bwindows\b`)
)

// ec2InstanceTypes is the set of instance types known to the EC2 SDK
var ec2InstanceTypes = func() map[string]bool {
	known := make(map[string]bool)
	for _, t := range ec2types.InstanceType("").Values() {
		known[string(t)] = true
	}
	return known
}()

// ExtractResourceConfig pulls configuration hints for a service out of the
// analysis text. Fields that cannot be extracted get documented defaults, so
// the result is never empty.
func ExtractResourceConfig(service, analysis string) models.ResourceConfig {
	cfg := models.ResourceConfig{
		"region": strings.ToLower(firstSubmatch(regionPattern, analysis, DefaultRegion)),
	}

	switch strings.ToLower(service) {
	case "ec2":
		cfg["instanceType"] = extractEC2InstanceType(analysis)
		cfg["operatingSystem"] = "Linux"
		if windowsPattern.MatchString(analysis) {
			cfg["operatingSystem"] = "Windows"
		}
	case "rds":
		cfg["instanceType"] = strings.ToLower(firstSubmatch(rdsClassPattern, analysis, DefaultRDSInstanceType))
		cfg["engine"] = strings.ToLower(firstSubmatch(rdsEnginePattern, analysis, DefaultRDSEngine))
		cfg["deploymentOption"] = "Single-AZ"
		if strings.Contains(strings.ToLower(analysis), "multi-az") {
			cfg["deploymentOption"] = "Multi-AZ"
		}
	case "s3":
		cfg["storageClass"] = extractS3StorageClass(analysis)
	case "lambda":
		cfg["memory"] = firstSubmatch(lambdaMemPattern, analysis, DefaultLambdaMemoryMB)
		cfg["timeout"] = extractLambdaTimeout(analysis)
		cfg["group"] = "AWS-Lambda-Duration"
	default:
		cfg["configuration"] = DefaultConfiguration
	}

	return cfg
}

func extractEC2InstanceType(analysis string) string {
	if m := ec2NearPattern.FindStringSubmatch(analysis); m != nil {
		if t := strings.ToLower(m[1]); ec2InstanceTypes[t] {
			return t
		}
	}
	for _, m := range ec2AnyPattern.FindAllStringSubmatch(analysis, -1) {
		if t := strings.ToLower(m[1]); ec2InstanceTypes[t] {
			return t
		}
	}
	return DefaultEC2InstanceType
}

func extractS3StorageClass(analysis string) string {
	lower := strings.ToLower(analysis)
	switch {
	case strings.Contains(lower, "intelligent-tiering"), strings.Contains(lower, "intelligent tiering"):
		return "Intelligent-Tiering"
	case strings.Contains(lower, "infrequent access"):
		return "Infrequent Access"
	case strings.Contains(lower, "deep archive"):
		return "Archive"
	case strings.Contains(lower, "glacier"):
		return "Archive"
	}
	return DefaultS3StorageClass
}

// extractLambdaTimeout returns the configured timeout in seconds
func extractLambdaTimeout(analysis string) string {
	m := lambdaTimeoutPattn.FindStringSubmatch(analysis)
	if m == nil {
		return DefaultLambdaTimeout
	}
	if strings.HasPrefix(strings.ToLower(m[2]), "m") {
		return multiplyString(m[1], 60)
	}
	return m[1]
}

func firstSubmatch(p *regexp.Regexp, s, def string) string {
	if m := p.FindStringSubmatch(s); m != nil {
		return m[1]
	}
	return def
}

func multiplyString(n string, factor int) string {
	v, err := strconv.Atoi(n)
	if err != nil {
		return n
	}
	return strconv.Itoa(v * factor)
}
