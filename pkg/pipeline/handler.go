package pipeline

import (
	"context"
	"net/http"

	"github.com/goccy/go-json"
)

// Response is the invocation result. Body is a JSON document.
type Response struct {
	StatusCode int    `json:"statusCode"`
	Body       string `json:"body"`
}

// SuccessBody is the body of a 200 response
type SuccessBody struct {
	Message              string   `json:"message"`
	OutputLocation       string   `json:"output_location"`
	EstimatedMonthlyCost float64  `json:"estimated_monthly_cost"`
	ServicesDetected     []string `json:"services_detected"`
	QuotasProvided       int      `json:"quotas_provided"`
}

// ErrorBody is the body of a 500 response
type ErrorBody struct {
	Error string `json:"error"`
}

// Handle runs the pipeline for an invocation event. Every failure becomes
// a 500 response; Handle itself never returns an error.
func (p *Pipeline) Handle(ctx context.Context, event Event) (Response, error) {
	bucket, key, err := event.Location()
	if err != nil {
		return p.failure(err), nil
	}

	result, err := p.Run(ctx, bucket, key)
	if err != nil {
		return p.failure(err), nil
	}

	services := result.Report.Services
	if services == nil {
		services = []string{}
	}
	return respond(http.StatusOK, SuccessBody{
		Message:              "Analysis complete",
		OutputLocation:       result.Location,
		EstimatedMonthlyCost: result.Report.CostEstimate.TotalEstimatedMonthlyCost,
		ServicesDetected:     services,
		QuotasProvided:       len(result.Report.Quotas),
	}), nil
}

func (p *Pipeline) failure(err error) Response {
	p.logger.Error().Err(err).Msg("Error processing document")
	return respond(http.StatusInternalServerError, ErrorBody{Error: err.Error()})
}

func respond(status int, body interface{}) Response {
	data, err := json.Marshal(body)
	if err != nil {
		return Response{StatusCode: http.StatusInternalServerError, Body: `{"error":"error encoding response"}`}
	}
	return Response{StatusCode: status, Body: string(data)}
}
