package errors

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConvertToBPMNError(t *testing.T) {
	tests := []struct {
		name          string
		err           *StandardError
		wantCode      string
		wantRetries   int
		wantRetryable bool
	}{
		{
			name:     "prediction failure is thrown",
			err:      NewPredictionFailedError(fmt.Errorf("schema mismatch")),
			wantCode: "PREDICTION_FAILED",
		},
		{
			name:     "validation failure is thrown",
			err:      NewValidationFailedError("year: value must be >= 1970"),
			wantCode: "VALIDATION_FAILED",
		},
		{
			name:          "database failure is retried",
			err:           NewDatabaseConnectionFailedError(fmt.Errorf("refused")),
			wantCode:      "DATABASE_CONNECTION_FAILED",
			wantRetries:   3,
			wantRetryable: true,
		},
		{
			name:     "unmapped code falls back to itself",
			err:      &StandardError{Code: "SOMETHING_ELSE", Message: "m"},
			wantCode: "SOMETHING_ELSE",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := ConvertToBPMNError(tt.err)
			assert.Equal(t, tt.wantCode, b.Code)
			assert.Equal(t, tt.wantRetries, b.Retries)
			assert.Equal(t, tt.wantRetryable, b.Retryable)
			assert.Equal(t, string(tt.err.Code), b.ErrorVariables["originalErrorCode"])
		})
	}
}

func TestPredictionFailedMessageIsGeneric(t *testing.T) {
	err := NewPredictionFailedError(fmt.Errorf("prediction failed at schema: feature 0"))
	assert.Equal(t, PredictionFailedMessage, err.Message)
	assert.NotContains(t, err.Message, "schema")
	assert.Contains(t, err.Details, "schema")
	assert.False(t, err.Retryable)
}

func TestToErrorVariables(t *testing.T) {
	vars := ConvertToBPMNError(NewValidationFailedError("brand: required field missing")).ToErrorVariables()
	assert.Equal(t, "VALIDATION_FAILED", vars["errorCode"])
	assert.Equal(t, "Vehicle details are invalid", vars["errorMessage"])
	assert.Equal(t, "brand: required field missing", vars["errorDetails"])
	assert.Equal(t, false, vars["retryable"])
	assert.Contains(t, vars, "timestamp")
}

func TestNormalize(t *testing.T) {
	std := NewValidationFailedError("x")
	assert.Same(t, std, Normalize(std))
	assert.Same(t, std, Normalize(fmt.Errorf("wrapped: %w", std)))

	other := Normalize(fmt.Errorf("boom"))
	require.NotNil(t, other)
	assert.Equal(t, ErrCodeInternal, other.Code)
	assert.Equal(t, "boom", other.Details)
}

func TestRetriesFor(t *testing.T) {
	db := NewDatabaseConnectionFailedError(fmt.Errorf("x"))
	assert.Equal(t, 3, retriesFor(db, 5))
	assert.Equal(t, 1, retriesFor(db, 1))
	assert.Equal(t, 0, retriesFor(db, 0))
	assert.Equal(t, 0, retriesFor(NewPredictionFailedError(fmt.Errorf("x")), 3))
}

func TestGetErrorCategory(t *testing.T) {
	assert.Equal(t, "ESTIMATION", GetErrorCategory(ErrCodePredictionFailed))
	assert.Equal(t, "ESTIMATION", GetErrorCategory(ErrCodeArtifactLoadFailed))
	assert.Equal(t, "VALIDATION", GetErrorCategory(ErrCodeInputParsingFailed))
	assert.Equal(t, "DATABASE", GetErrorCategory(ErrCodeDatabaseConnectionFailed))
	assert.Equal(t, "TIMEOUT", GetErrorCategory(ErrCodeJobTimeout))
	assert.Equal(t, "OTHER", GetErrorCategory(ErrCodeInternal))
	assert.False(t, IsRetryableErrorCode(ErrCodePredictionFailed))
	assert.True(t, IsRetryableErrorCode(ErrCodeJobTimeout))
}
