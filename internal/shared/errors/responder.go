package errors

import (
	"errors"
	"log/slog"

	"github.com/gin-gonic/gin"

	"github.com/Apurer/daycare-api/internal/shared/actor"
)

// ContentTypeProblemJSON is the media type for problem documents.
const ContentTypeProblemJSON = "application/problem+json"

// RequestIDHeader is echoed into internal-error problems so operators can find the matching log line.
const RequestIDHeader = "X-Request-ID"

// Responder writes problem documents, prefixing relative type URIs with BaseURI when set.
type Responder struct {
	BaseURI string
}

func NewResponder(baseURI string) *Responder {
	return &Responder{BaseURI: baseURI}
}

var DefaultResponder = NewResponder("")

// Respond writes problem with its own status code and the request path as instance.
func (r *Responder) Respond(c *gin.Context, problem ProblemDetail) {
	if r.BaseURI != "" && len(problem.Type) > 0 && problem.Type[0] == '/' {
		problem.Type = r.BaseURI + problem.Type
	}
	if problem.Instance == "" {
		problem.Instance = c.Request.URL.Path
	}
	c.Header("Content-Type", ContentTypeProblemJSON)
	c.JSON(problem.Status, problem)
}

// RespondError writes err as-is when it is a ProblemDetail. Anything else is logged and answered with a 500
// that does not echo the cause.
func (r *Responder) RespondError(c *gin.Context, err error) {
	var problem ProblemDetail
	if errors.As(err, &problem) {
		r.Respond(c, problem)
		return
	}
	requestID := c.Writer.Header().Get(RequestIDHeader)
	slog.ErrorContext(c.Request.Context(), "unhandled request error",
		slog.String("error", err.Error()),
		slog.String("http.route", c.FullPath()),
		slog.String("request.id", requestID),
	)
	internal := ErrInternal.WithDetail("unexpected error")
	if requestID != "" {
		internal = internal.WithExtension("requestId", requestID)
	}
	r.Respond(c, internal)
}

// BadRequest answers 400 for malformed input the handler rejected before reaching a service.
func (r *Responder) BadRequest(c *gin.Context, detail string) {
	r.Respond(c, ErrBadRequest.WithDetail(detail))
}

func Respond(c *gin.Context, problem ProblemDetail) {
	DefaultResponder.Respond(c, problem)
}

func RespondError(c *gin.Context, err error) {
	DefaultResponder.RespondError(c, err)
}

// ErrorMapper translates an application error into a problem, reporting false when it does not recognise err.
type ErrorMapper func(err error) (ProblemDetail, bool)

// ChainedResponder consults its mappers in order before falling back to RespondError.
type ChainedResponder struct {
	*Responder
	mappers []ErrorMapper
}

// NewChainedResponder always consults ActorErrorMapper first.
func NewChainedResponder(baseURI string, mappers ...ErrorMapper) *ChainedResponder {
	return &ChainedResponder{
		Responder: NewResponder(baseURI),
		mappers:   append([]ErrorMapper{ActorErrorMapper}, mappers...),
	}
}

func (r *ChainedResponder) RespondError(c *gin.Context, err error) {
	for _, mapper := range r.mappers {
		if problem, ok := mapper(err); ok {
			r.Respond(c, problem)
			return
		}
	}
	r.Responder.RespondError(c, err)
}

// ActorErrorMapper turns missing identity into 401 and missing capability into 403.
func ActorErrorMapper(err error) (ProblemDetail, bool) {
	switch {
	case errors.Is(err, actor.ErrUnauthenticated):
		return ErrUnauthorized.WithDetail(err.Error()), true
	case errors.Is(err, actor.ErrPermissionDenied):
		return ErrForbidden.WithDetail(err.Error()), true
	default:
		return ProblemDetail{}, false
	}
}
