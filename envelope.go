package bearer

import (
	"fmt"
	"net/http"

	"github.com/goliatone/go-bearer/resource"
	goerrors "github.com/goliatone/go-errors"
)

// Envelope is the single outward response shape. All three fields are always
// serialized; error is mutually exclusive with meaningful data/pagination.
type Envelope struct {
	Data       any                 `json:"data"`
	Pagination *PaginationEnvelope `json:"pagination"`
	Error      *ErrorEnvelope      `json:"error"`
}

// PaginationEnvelope is present only on collection responses.
type PaginationEnvelope struct {
	Page             int `json:"page"`
	NbPages          int `json:"nbPages"`
	NbResults        int `json:"nbResults"`
	NbResultsPerPage int `json:"nbResultsPerPage"`
}

// ErrorEnvelope is the wire error shape. Trace is a development-only
// disclosure; production responses never carry it.
type ErrorEnvelope struct {
	Message string `json:"message"`
	Code    int    `json:"code"`
	Data    any    `json:"data"`
	Trace   any    `json:"trace,omitempty"`
}

// EnvelopeService maps handler outcomes onto envelopes. The mapping is a pure
// function of (result-or-error, environment) and is total: every outcome
// lands in exactly one of the three shapes.
type EnvelopeService struct {
	environment string
}

func NewEnvelopeService(cfg Config) *EnvelopeService {
	return &EnvelopeService{environment: cfg.GetEnvironment()}
}

// MapResource wraps a single resource (or nil).
func (s *EnvelopeService) MapResource(res any) *Envelope {
	return &Envelope{Data: res}
}

// MapPaginatedResources wraps one repository page as a collection response.
func (s *EnvelopeService) MapPaginatedResources(page *resource.PaginatedResources) *Envelope {
	if page == nil {
		return &Envelope{Data: []resource.Resource{}}
	}

	return &Envelope{
		Data: page.Resources,
		Pagination: &PaginationEnvelope{
			Page:             page.Page,
			NbPages:          page.NbPages,
			NbResults:        page.NbResults,
			NbResultsPerPage: page.NbResultsPerPage,
		},
	}
}

// MapError wraps any raised error. Rich errors contribute their status code
// and category; everything else defaults to the internal-error class.
func (s *EnvelopeService) MapError(err error) *Envelope {
	envelope := &Envelope{
		Error: &ErrorEnvelope{
			Message: "An error occurred",
			Code:    http.StatusInternalServerError,
		},
	}

	if err == nil {
		return envelope
	}

	envelope.Error.Message = err.Error()

	var richErr *goerrors.Error
	if goerrors.As(err, &richErr) {
		// err.Error() carries the [category:textcode] diagnostic prefix;
		// the wire message stays human readable.
		if richErr.Message != "" {
			envelope.Error.Message = richErr.Message
		}
		if richErr.Code != 0 {
			envelope.Error.Code = richErr.Code
		}
		envelope.Error.Data = richErr.Category
	}

	if s.environment == EnvDevelopment {
		envelope.Error.Trace = fmt.Sprintf("%+v", err)
	}

	return envelope
}

// Map funnels any handler outcome through the right shape.
func (s *EnvelopeService) Map(result any, err error) *Envelope {
	if err != nil {
		return s.MapError(err)
	}

	if page, ok := result.(*resource.PaginatedResources); ok {
		return s.MapPaginatedResources(page)
	}

	return s.MapResource(result)
}

// StatusFor answers the HTTP status an envelope should travel with.
func (s *EnvelopeService) StatusFor(env *Envelope) int {
	if env == nil || env.Error == nil {
		return http.StatusOK
	}

	if env.Error.Code >= 400 && env.Error.Code < 600 {
		return env.Error.Code
	}

	return http.StatusInternalServerError
}
