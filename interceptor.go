package bearer

import (
	"github.com/goliatone/go-router"
)

// EnvelopeHandler is the controller shape the interceptor understands:
// return a resource, a *resource.PaginatedResources, or an error, and the
// wrapper decides the envelope.
type EnvelopeHandler func(ctx router.Context) (any, error)

// WrapHandler adapts an EnvelopeHandler onto the router. No handler formats
// its own error response; this is the single point converting outcomes to
// the wire shape.
func (s *EnvelopeService) WrapHandler(h EnvelopeHandler) router.HandlerFunc {
	return func(ctx router.Context) error {
		result, err := h(ctx)
		envelope := s.Map(result, err)
		return ctx.JSON(s.StatusFor(envelope), envelope)
	}
}

// ErrorHandler turns middleware-raised errors (auth rejections mostly) into
// enveloped responses, for use as the ProtectedRoute error handler.
func (s *EnvelopeService) ErrorHandler() router.ErrorHandler {
	return func(ctx router.Context, err error) error {
		envelope := s.MapError(err)
		return ctx.JSON(s.StatusFor(envelope), envelope)
	}
}
