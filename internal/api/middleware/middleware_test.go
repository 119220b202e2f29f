package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mcoot/sosgame/internal/api/apierr"
	"github.com/mcoot/sosgame/internal/testutil"
)

func chain(h http.Handler) (http.Handler, *testutil.LogCapture) {
	logger, logs := testutil.CaptureLogger()
	return Recovery(logger)(Logging(logger)(h)), logs
}

func TestLoggingRecordsStatusAndSize(t *testing.T) {
	h, logs := chain(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
		_, _ = w.Write([]byte("short"))
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/matches", nil))

	assert.Equal(t, http.StatusTeapot, rec.Code)
	record := logs.Find("http request")
	require.NotNil(t, record)
	assert.Equal(t, "/api/v1/matches", record["path"])
	assert.EqualValues(t, http.StatusTeapot, record["status"])
	assert.EqualValues(t, 5, record["size"])
}

func TestRecoveryWritesJSONError(t *testing.T) {
	h, logs := chain(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/health", nil))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	var body apierr.ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, apierr.CodeInternalError, body.Error.Code)

	record := logs.Find("panic recovered")
	require.NotNil(t, record)
	assert.Equal(t, "boom", record["error"])
}

func TestRecoveryLeavesStartedResponseAlone(t *testing.T) {
	h, _ := chain(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusAccepted)
		panic("late")
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusAccepted, rec.Code)
	assert.Empty(t, rec.Body.String())
}

func TestHijackUnsupported(t *testing.T) {
	rw := wrap(httptest.NewRecorder())

	_, _, err := rw.Hijack()
	assert.Error(t, err)
	assert.False(t, rw.Hijacked())
}

func TestWrapReusesWriter(t *testing.T) {
	rw := wrap(httptest.NewRecorder())
	assert.Same(t, rw, wrap(rw))
}
