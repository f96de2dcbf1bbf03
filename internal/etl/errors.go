package etl

import (
	"errors"
	"fmt"
)

// Kind classifies a stage failure.
type Kind string

const (
	KindExtraction Kind = "ExtractionError" // source unreadable or unparseable
	KindSchema     Kind = "SchemaError"     // required column absent
	KindTransform  Kind = "TransformError"  // derive, dedup or filter failure
	KindLoad       Kind = "LoadError"       // connect, DDL or write failure
	KindValidation Kind = "ValidationError" // aggregate query failure
	KindProcessing Kind = "ProcessingError" // recovered panic in the driver
)

// Stage names a pipeline stage.
type Stage string

const (
	StageExtract   Stage = "extract"
	StageTransform Stage = "transform"
	StageLoad      Stage = "load"
	StageValidate  Stage = "validate"
)

// StageError is the failure carried by a Result.
type StageError struct {
	Kind  Kind
	Stage Stage
	Err   error
}

func (e *StageError) Error() string {
	return fmt.Sprintf("%s during %s: %v", e.Kind, e.Stage, e.Err)
}

func (e *StageError) Unwrap() error { return e.Err }

func fail(kind Kind, stage Stage, err error) *StageError {
	return &StageError{Kind: kind, Stage: stage, Err: err}
}

// KindOf returns the Kind of the first *StageError in err's chain.
func KindOf(err error) (Kind, bool) {
	var se *StageError
	if errors.As(err, &se) {
		return se.Kind, true
	}
	return "", false
}
