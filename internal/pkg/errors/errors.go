package errors

import "errors"

var (
	// ErrNoStructuredPayload means model output contained no JSON object at all.
	ErrNoStructuredPayload = errors.New("no structured payload")
	// ErrMalformedPayload means a JSON island was found but did not parse.
	ErrMalformedPayload = errors.New("malformed structured payload")
	// ErrSchemaViolation means a parsed payload did not match the target
	// entity shape even after soft repair.
	ErrSchemaViolation = errors.New("schema violation")
	// ErrRetrievalUnavailable means the retrieval backend is unreachable.
	// Engines degrade to empty-context generation; never fatal.
	ErrRetrievalUnavailable = errors.New("retrieval unavailable")
	// ErrJudgmentUnavailable means a model-assisted grading call failed.
	// Grading resolves it fail-closed (incorrect / feedback unavailable).
	ErrJudgmentUnavailable = errors.New("judgment unavailable")
	// ErrGenerationUnavailable means the generation provider could not be
	// reached or refused the call. Fatal for the current request.
	ErrGenerationUnavailable = errors.New("generation unavailable")
)
