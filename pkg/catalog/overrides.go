package catalog

import "sort"

// override pins the pricing and quota codes of a well-known service
type override struct {
	pricingCode string
	quotaCode   string
}

// manualOverrides takes precedence over heuristic derivation for both maps
var manualOverrides = map[string]override{
	"ec2":             {"AmazonEC2", "ec2"},
	"s3":              {"AmazonS3", "s3"},
	"rds":             {"AmazonRDS", "rds"},
	"lambda":          {"AWSLambda", "lambda"},
	"dynamodb":        {"AmazonDynamoDB", "dynamodb"},
	"ecs":             {"AmazonECS", "ecs"},
	"eks":             {"AmazonEKS", "eks"},
	"sqs":             {"AmazonSQS", "sqs"},
	"sns":             {"AmazonSNS", "sns"},
	"cloudfront":      {"AmazonCloudFront", "cloudfront"},
	"api gateway":     {"AmazonApiGateway", "apigateway"},
	"apigateway":      {"AmazonApiGateway", "apigateway"},
	"route53":         {"AmazonRoute53", "route53"},
	"cloudwatch":      {"AmazonCloudWatch", "monitoring"},
	"iam":             {"AWSIdentityAndAccessManagement", "iam"},
	"vpc":             {"AmazonVPC", "vpc"},
	"elb":             {"AWSELB", "elasticloadbalancing"},
	"alb":             {"AWSELB", "elasticloadbalancing"},
	"nlb":             {"AWSELB", "elasticloadbalancing"},
	"cloudformation":  {"AWSCloudFormation", "cloudformation"},
	"step functions":  {"AWSStepFunctions", "states"},
	"stepfunctions":   {"AWSStepFunctions", "states"},
	"kinesis":         {"AmazonKinesis", "kinesis"},
	"glue":            {"AWSGlue", "glue"},
	"athena":          {"AmazonAthena", "athena"},
	"emr":             {"ElasticMapReduce", "elasticmapreduce"},
	"redshift":        {"AmazonRedshift", "redshift"},
	"elasticache":     {"AmazonElastiCache", "elasticache"},
	"neptune":         {"AmazonNeptune", "neptune"},
	"documentdb":      {"AmazonDocDB", "docdb"},
	"msk":             {"AmazonMSK", "kafka"},
	"opensearch":      {"AmazonES", "es"},
	"elasticsearch":   {"AmazonES", "es"},
	"codepipeline":    {"AWSCodePipeline", "codepipeline"},
	"codebuild":       {"CodeBuild", "codebuild"},
	"codedeploy":      {"AWSCodeDeploy", "codedeploy"},
	"codecommit":      {"AWSCodeCommit", "codecommit"},
	"amplify":         {"AWSAmplify", "amplify"},
	"appsync":         {"AWSAppSync", "appsync"},
	"eventbridge":     {"AWSEvents", "events"},
	"cloudtrail":      {"AWSCloudTrail", "cloudtrail"},
	"guardduty":       {"AmazonGuardDuty", "guardduty"},
	"waf":             {"awswaf", "waf"},
	"shield":          {"AWSShield", "shield"},
	"secrets manager": {"AWSSecretsManager", "secretsmanager"},
	"kms":             {"awskms", "kms"},
	"acm":             {"AWSCertificateManager", "acm"},
	"cognito":         {"AmazonCognito", "cognito-idp"},
	"ses":             {"AmazonSES", "ses"},
	"pinpoint":        {"AmazonPinpoint", "mobiletargeting"},
}

// OverrideNames returns the names of all manually mapped services, sorted
func OverrideNames() []string {
	names := make([]string, 0, len(manualOverrides))
	for name := range manualOverrides {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
