package utils

import "os"

// DefaultLocationName is the Price List API location used when a region is unknown
const DefaultLocationName = "US East (N. Virginia)"

// RegionLocationNames maps AWS region codes to Price List API location names
var RegionLocationNames = map[string]string{
	"us-east-1":      "US East (N. Virginia)",
	"us-east-2":      "US East (Ohio)",
	"us-west-1":      "US West (N. California)",
	"us-west-2":      "US West (Oregon)",
	"af-south-1":     "Africa (Cape Town)",
	"ap-east-1":      "Asia Pacific (Hong Kong)",
	"ap-south-1":     "Asia Pacific (Mumbai)",
	"ap-northeast-1": "Asia Pacific (Tokyo)",
	"ap-northeast-2": "Asia Pacific (Seoul)",
	"ap-northeast-3": "Asia Pacific (Osaka)",
	"ap-southeast-1": "Asia Pacific (Singapore)",
	"ap-southeast-2": "Asia Pacific (Sydney)",
	"ca-central-1":   "Canada (Central)",
	"eu-central-1":   "EU (Frankfurt)",
	"eu-west-1":      "EU (Ireland)",
	"eu-west-2":      "EU (London)",
	"eu-west-3":      "EU (Paris)",
	"eu-north-1":     "EU (Stockholm)",
	"sa-east-1":      "South America (Sao Paulo)",
}

// GetRegionLocationName returns the Price List API location name for a region code
func GetRegionLocationName(region string) string {
	if name, ok := RegionLocationNames[region]; ok {
		return name
	}
	return DefaultLocationName
}

// IsValidRegion checks if a region is known to the location table
func IsValidRegion(region string) bool {
	_, ok := RegionLocationNames[region]
	return ok
}

// GetDefaultRegion returns AWS_REGION, falling back to us-east-1
func GetDefaultRegion() string {
	if region := os.Getenv("AWS_REGION"); region != "" {
		return region
	}
	return "us-east-1"
}
