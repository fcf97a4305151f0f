package detector

import (
	"fmt"
	"strings"
	"sync"

	"github.com/xeipuuv/gojsonschema"
)

// envelopeSchema applies to every /analyze body.
const envelopeSchema = `{
  "type": "object",
  "required": ["success"],
  "properties": {
    "success": {"type": "boolean"},
    "error": {"type": ["string", "null"]}
  }
}`

// resultSchema applies to /analyze bodies that report success.
const resultSchema = `{
  "type": "object",
  "required": ["success", "is_scam", "confidence", "text_confidence", "image_confidence"],
  "properties": {
    "success": {"type": "boolean"},
    "is_scam": {"type": "boolean"},
    "confidence": {"type": "number"},
    "text_confidence": {"type": "number"},
    "image_confidence": {"type": "number"},
    "feature_importance": {
      "type": ["array", "null"],
      "items": {
        "type": "object",
        "required": ["word", "importance"],
        "properties": {
          "word": {"type": "string"},
          "importance": {"type": "number"}
        }
      }
    },
    "extracted_text": {"type": ["string", "null"]}
  }
}`

type analyzeSchemas struct {
	envelope *gojsonschema.Schema
	result   *gojsonschema.Schema
}

var loadSchemas = sync.OnceValues(func() (analyzeSchemas, error) {
	envelope, err := gojsonschema.NewSchema(gojsonschema.NewStringLoader(envelopeSchema))
	if err != nil {
		return analyzeSchemas{}, fmt.Errorf("compile envelope schema: %w", err)
	}
	result, err := gojsonschema.NewSchema(gojsonschema.NewStringLoader(resultSchema))
	if err != nil {
		return analyzeSchemas{}, fmt.Errorf("compile result schema: %w", err)
	}
	return analyzeSchemas{envelope: envelope, result: result}, nil
})

// validateAnalyzeBody checks body against the envelope schema and, when
// success is true, against the result schema.
func validateAnalyzeBody(body []byte, success bool) error {
	schemas, err := loadSchemas()
	if err != nil {
		return err
	}
	schema := schemas.envelope
	if success {
		schema = schemas.result
	}
	res, err := schema.Validate(gojsonschema.NewBytesLoader(body))
	if err != nil {
		return fmt.Errorf("decode /analyze response: %w", err)
	}
	if res.Valid() {
		return nil
	}
	problems := make([]string, 0, len(res.Errors()))
	for _, e := range res.Errors() {
		problems = append(problems, e.String())
	}
	return fmt.Errorf("unexpected /analyze response: %s", strings.Join(problems, "; "))
}
