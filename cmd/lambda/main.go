package main

import (
	"context"
	"encoding/base64"
	"encoding/json"

	"github.com/aws/aws-lambda-go/lambda"

	"github.com/otm-exchange/otmctl/internal/layout"
	"github.com/otm-exchange/otmctl/internal/otm"
	"github.com/otm-exchange/otmctl/internal/result"
	"github.com/otm-exchange/otmctl/internal/schema"
)

// LambdaEvent is the invocation payload (e.g. from API Gateway).
type LambdaEvent struct {
	Body        string `json:"body"` // OTM YAML (raw or base64 if isBase64)
	IsBase64    bool   `json:"isBase64,omitempty"`
	StripLayout bool   `json:"stripLayout,omitempty"`
}

// LambdaResponse is returned to the client (API Gateway).
type LambdaResponse struct {
	StatusCode int            `json:"statusCode"`
	Valid      bool           `json:"valid"`
	Outcome    string         `json:"outcome"` // passed | failed | skipped
	Errors     []result.Error `json:"errors,omitempty"`
	HasLayout  bool           `json:"hasLayout"`
	Summary    *otm.Summary   `json:"summary,omitempty"`
	Document   string         `json:"document,omitempty"` // stripped OTM YAML (base64), when stripLayout is set
}

// APIGatewayResponse is the shape expected by API Gateway proxy integration (body = JSON string).
type APIGatewayResponse struct {
	StatusCode int               `json:"statusCode"`
	Headers    map[string]string `json:"headers,omitempty"`
	Body       string            `json:"body"`
}

func handler(ctx context.Context, event LambdaEvent) (APIGatewayResponse, error) {
	out := LambdaResponse{StatusCode: 200}

	body := event.Body
	if event.IsBase64 {
		dec, err := base64.StdEncoding.DecodeString(body)
		if err != nil {
			out.StatusCode = 400
			out.Outcome = schema.OutcomeFailed.String()
			out.Errors = []result.Error{{Type: "invalid_input", Severity: "error", Message: "invalid base64 body: " + err.Error()}}
			return wrap(out), nil
		}
		body = string(dec)
	}
	src := []byte(body)

	validator, err := schema.NewSchemaValidator()
	if err != nil {
		out.StatusCode = 500
		out.Outcome = schema.OutcomeFailed.String()
		out.Errors = []result.Error{{Type: "schema_error", Severity: "error", Message: err.Error()}}
		return wrap(out), nil
	}

	rep := validator.Validate(src)
	out.Outcome = rep.Outcome.String()
	out.Valid = rep.Outcome == schema.OutcomePassed
	for _, msg := range rep.Errors {
		out.Errors = append(out.Errors, result.Error{Type: "validation_error", Severity: "error", Message: msg})
	}
	if rep.Outcome == schema.OutcomeFailed {
		out.StatusCode = 422
		return wrap(out), nil
	}

	doc, err := otm.Parse(src)
	if err != nil {
		out.StatusCode = 422
		out.Outcome = schema.OutcomeFailed.String()
		out.Valid = false
		out.Errors = append(out.Errors, result.Error{Type: "parse_error", Severity: "error", Message: err.Error()})
		return wrap(out), nil
	}

	out.HasLayout = layout.HasLayout(doc)
	summary := otm.Summarize(doc)
	out.Summary = &summary

	if event.StripLayout {
		stripped, err := otm.Marshal(layout.Strip(doc))
		if err != nil {
			out.StatusCode = 500
			out.Errors = append(out.Errors, result.Error{Type: "encoding_error", Severity: "error", Message: err.Error()})
			return wrap(out), nil
		}
		out.Document = base64.StdEncoding.EncodeToString(stripped)
	}
	return wrap(out), nil
}

func wrap(out LambdaResponse) APIGatewayResponse {
	bodyBytes, _ := json.Marshal(out)
	return APIGatewayResponse{
		StatusCode: out.StatusCode,
		Headers:    map[string]string{"Content-Type": "application/json"},
		Body:       string(bodyBytes),
	}
}

func main() {
	lambda.Start(handler)
}
