package queue

import (
	_ "embed"
	"fmt"
	"strings"
	"sync"

	"github.com/xeipuuv/gojsonschema"
)

//go:embed schemas/job_v1.schema.json
var jobSchemaJSON []byte

var (
	jobSchemaOnce sync.Once
	jobSchema     *gojsonschema.Schema
	jobSchemaErr  error
)

// SchemaError reports a payload that is not valid JSON or breaks the job schema.
type SchemaError struct {
	Issues []string
	Err    error
}

func (e *SchemaError) Error() string {
	if e.Err != nil {
		return "invalid job message: " + e.Err.Error()
	}
	return "invalid job message: " + strings.Join(e.Issues, "; ")
}

func (e *SchemaError) Unwrap() error { return e.Err }

// ValidateJob checks payload against the embedded job schema.
func ValidateJob(payload []byte) error {
	jobSchemaOnce.Do(func() {
		jobSchema, jobSchemaErr = gojsonschema.NewSchema(gojsonschema.NewBytesLoader(jobSchemaJSON))
	})
	if jobSchemaErr != nil {
		return fmt.Errorf("load job schema: %w", jobSchemaErr)
	}

	result, err := jobSchema.Validate(gojsonschema.NewBytesLoader(payload))
	if err != nil {
		return &SchemaError{Err: err}
	}
	if result.Valid() {
		return nil
	}
	issues := make([]string, 0, len(result.Errors()))
	for _, desc := range result.Errors() {
		issues = append(issues, desc.String())
	}
	return &SchemaError{Issues: issues}
}
