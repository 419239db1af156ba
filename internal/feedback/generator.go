// Package feedback turns an interview transcript into a scored, narrative
// assessment produced by an external structured-generation service.
package feedback

import (
	"context"
	"encoding/json"
	"errors"
)

var ErrGeneratorUnavailable = errors.New("feedback generator is not configured")

// Request is one structured-generation call.
type Request struct {
	System     string
	Prompt     string
	SchemaName string
	Schema     json.Marshaler
}

// Generator fills out with a result matching req.Schema. Implementations
// may fail or time out.
type Generator interface {
	Generate(ctx context.Context, req Request, out any) error
}

// GeneratorFunc adapts a function to Generator.
type GeneratorFunc func(ctx context.Context, req Request, out any) error

func (f GeneratorFunc) Generate(ctx context.Context, req Request, out any) error {
	return f(ctx, req, out)
}

// NewUnavailableGenerator fails every call with ErrGeneratorUnavailable.
func NewUnavailableGenerator() Generator {
	return GeneratorFunc(func(context.Context, Request, any) error {
		return ErrGeneratorUnavailable
	})
}

// NewAssessmentRequest builds the request for scoring transcript.
func NewAssessmentRequest(transcript []Message) Request {
	return Request{
		System:     SystemPrompt,
		Prompt:     BuildPrompt(transcript),
		SchemaName: AssessmentSchemaName,
		Schema:     AssessmentSchema(),
	}
}

// Assess runs the generator over transcript and validates the result.
func Assess(ctx context.Context, gen Generator, transcript []Message) (*Assessment, error) {
	var out Assessment
	if err := gen.Generate(ctx, NewAssessmentRequest(transcript), &out); err != nil {
		return nil, err
	}
	if err := out.Validate(); err != nil {
		return nil, err
	}
	return &out, nil
}
