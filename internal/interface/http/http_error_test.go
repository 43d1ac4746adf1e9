package http

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"

	apperrors "github.com/yanqian/solarcook/pkg/errors"
)

func TestFromDomainError(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		status  int
		code    string
		message string
	}{
		{
			name:    "wrapped client error keeps cause",
			err:     fmt.Errorf("handler: %w", apperrors.Wrap(apperrors.CodeLengthMismatch, "lists differ", errors.New("2 != 3"))),
			status:  http.StatusBadRequest,
			code:    apperrors.CodeLengthMismatch,
			message: "lists differ: 2 != 3",
		},
		{
			name:    "server error hides cause",
			err:     apperrors.Wrap(apperrors.CodeInference, "model failed", errors.New("nan row")),
			status:  http.StatusInternalServerError,
			code:    apperrors.CodeInference,
			message: "model failed",
		},
		{
			name:    "plain error",
			err:     errors.New("boom"),
			status:  http.StatusInternalServerError,
			code:    codeInternal,
			message: "something went wrong",
		},
		{
			name:    "unmapped code",
			err:     apperrors.Wrap("mystery", "odd", nil),
			status:  http.StatusInternalServerError,
			code:    codeInternal,
			message: "something went wrong",
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := fromDomainError(tc.err)
			require.Equal(t, tc.status, got.Status)
			require.Equal(t, tc.code, got.Code)
			require.Equal(t, tc.message, got.Message)
			require.Equal(t, tc.err, got.Err)
		})
	}
}
