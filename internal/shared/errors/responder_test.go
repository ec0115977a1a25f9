package errors

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Apurer/daycare-api/internal/shared/actor"
)

var errDogMissing = fmt.Errorf("dog missing")

func serve(t *testing.T, handler gin.HandlerFunc) (*httptest.ResponseRecorder, ProblemDetail) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.GET("/dogs/:id", func(c *gin.Context) {
		c.Header(RequestIDHeader, "req-1")
		handler(c)
	})
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/dogs/9", nil))

	var body ProblemDetail
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return rec, body
}

func TestChainedResponderUsesMapper(t *testing.T) {
	responder := NewChainedResponder("", func(err error) (ProblemDetail, bool) {
		if err == errDogMissing {
			return ErrNotFound.WithDetail(err.Error()), true
		}
		return ProblemDetail{}, false
	})

	rec, body := serve(t, func(c *gin.Context) { responder.RespondError(c, errDogMissing) })

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, ContentTypeProblemJSON, rec.Header().Get("Content-Type"))
	assert.Equal(t, TypeNotFound, body.Type)
	assert.Equal(t, "/dogs/9", body.Instance)
	assert.Equal(t, "dog missing", body.Detail)
}

func TestChainedResponderMapsActorErrorsFirst(t *testing.T) {
	responder := NewChainedResponder("")

	rec, body := serve(t, func(c *gin.Context) {
		responder.RespondError(c, fmt.Errorf("assign: %w", actor.ErrPermissionDenied))
	})
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, TypeForbidden, body.Type)

	rec, body = serve(t, func(c *gin.Context) { responder.RespondError(c, actor.ErrUnauthenticated) })
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, TypeUnauthorized, body.Type)
}

func TestUnknownErrorsDoNotLeakCause(t *testing.T) {
	rec, body := serve(t, func(c *gin.Context) { RespondError(c, fmt.Errorf("pq: password authentication failed")) })

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, TypeInternal, body.Type)
	assert.NotContains(t, body.Detail, "password")
	assert.Equal(t, "req-1", body.Extensions["requestId"])
}

func TestBaseURIPrefixesRelativeTypes(t *testing.T) {
	responder := NewResponder("https://daycare.example")
	_, body := serve(t, func(c *gin.Context) { responder.BadRequest(c, "date is required") })
	assert.Equal(t, "https://daycare.example"+TypeBadRequest, body.Type)
}

func TestWithExtensionCopies(t *testing.T) {
	base := ErrValidation.WithExtension("field", "date")
	derived := base.WithExtension("reason", "missing")

	assert.Len(t, base.Extensions, 1)
	assert.Len(t, derived.Extensions, 2)
	assert.Nil(t, ErrValidation.Extensions)
}
