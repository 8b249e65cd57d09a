package csfloat

import (
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassify(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		status     int
		mediaType  string
		rawType    string
		body       string
		wantNil    bool
		wantIs     error
		wantErrMsg string
	}{
		{
			name:      "200 json passes",
			status:    http.StatusOK,
			mediaType: "application/json",
			rawType:   "application/json; charset=utf-8",
			body:      `{}`,
			wantNil:   true,
		},
		{
			name:       "401 is classified",
			status:     http.StatusUnauthorized,
			mediaType:  "application/json",
			body:       `{"message":"bad key"}`,
			wantIs:     ErrUnauthorized,
			wantErrMsg: `Unauthorized -- Your API key is wrong., {"message":"bad key"}`,
		},
		{
			name:       "429 is classified",
			status:     http.StatusTooManyRequests,
			mediaType:  "application/json",
			body:       "slow down",
			wantIs:     ErrRateLimited,
			wantErrMsg: "Too Many Requests -- You're requesting too many resources! Slow down!, slow down",
		},
		{
			name:      "classified status wins over content type",
			status:    http.StatusServiceUnavailable,
			mediaType: "text/html",
			rawType:   "text/html",
			body:      "<html>",
			wantIs:    ErrClassifiedHTTP,
		},
		{
			name:       "unlisted status is unexpected",
			status:     http.StatusBadRequest,
			mediaType:  "application/json",
			body:       `{"code":4}`,
			wantIs:     ErrUnexpectedStatus,
			wantErrMsg: `Error: 400, {"code":4}`,
		},
		{
			name:      "201 is unexpected",
			status:    http.StatusCreated,
			mediaType: "application/json",
			body:      `{}`,
			wantIs:    ErrUnexpectedStatus,
		},
		{
			name:       "200 html is unexpected content type",
			status:     http.StatusOK,
			mediaType:  "text/html",
			rawType:    "text/html; charset=utf-8",
			body:       "<html></html>",
			wantIs:     ErrUnexpectedContentType,
			wantErrMsg: "Expected JSON, got text/html; charset=utf-8, <html></html>",
		},
		{
			name:      "200 without content type is unexpected",
			status:    http.StatusOK,
			mediaType: "",
			body:      `{}`,
			wantIs:    ErrUnexpectedContentType,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			err := classify(tt.status, tt.mediaType, tt.rawType, []byte(tt.body))
			if tt.wantNil {
				require.NoError(t, err)
				return
			}

			require.Error(t, err)
			assert.ErrorIs(t, err, tt.wantIs)
			if tt.wantErrMsg != "" {
				assert.Equal(t, tt.wantErrMsg, err.Error())
			}
		})
	}
}

func TestClassify_EveryTableStatus(t *testing.T) {
	t.Parallel()

	for _, status := range []int{401, 403, 404, 405, 406, 410, 418, 429, 500, 503} {
		err := classify(status, "application/json", "application/json", []byte("body"))

		var httpErr *HTTPError
		require.ErrorAs(t, err, &httpErr, "status %d", status)
		assert.Equal(t, status, httpErr.StatusCode)
		assert.Equal(t, "body", httpErr.Body)

		msg, ok := StatusMessage(status)
		require.True(t, ok)
		assert.Equal(t, msg, httpErr.Category)
	}
}

func TestErrorTaxonomy_Disjoint(t *testing.T) {
	t.Parallel()

	sentinels := []error{
		ErrInvalidParameter,
		ErrClassifiedHTTP,
		ErrUnexpectedStatus,
		ErrUnexpectedContentType,
		ErrOperationFailed,
	}
	errs := []error{
		&InvalidParameterError{Param: "sort_by", Value: "cheapest"},
		&HTTPError{StatusCode: 404, Category: "Not Found"},
		&UnexpectedStatusError{StatusCode: 400},
		&UnexpectedContentTypeError{ContentType: "text/plain"},
		&OperationFailedError{Operation: OpDeleteBuyOrder},
	}

	for i, err := range errs {
		for j, s := range sentinels {
			assert.Equal(t, i == j, errors.Is(err, s), "%T vs %v", err, s)
		}
	}
}

func TestInvalidParameterError_Message(t *testing.T) {
	t.Parallel()

	err := &InvalidParameterError{Param: "type", Value: "raffle"}
	assert.Equal(t, `unknown type parameter "raffle"`, err.Error())
}

func TestHTTPError_StatusSentinels(t *testing.T) {
	t.Parallel()

	notFound := &HTTPError{StatusCode: http.StatusNotFound}
	assert.NotErrorIs(t, notFound, ErrUnauthorized)
	assert.NotErrorIs(t, notFound, ErrRateLimited)
	assert.ErrorIs(t, notFound, ErrClassifiedHTTP)
}

func TestErrorKind(t *testing.T) {
	t.Parallel()

	tests := []struct {
		err  error
		want string
	}{
		{&InvalidParameterError{}, "invalid_parameter"},
		{&HTTPError{}, "classified_http"},
		{&UnexpectedStatusError{}, "unexpected_status"},
		{&UnexpectedContentTypeError{}, "unexpected_content_type"},
		{&OperationFailedError{}, "operation_failed"},
		{errors.New("dial tcp: refused"), "transport"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, errorKind(tt.err))
	}
}
