package bearer

import "fmt"

// Logger is the minimal logging surface the package needs. The examples wire
// glog here; anything with leveled printf methods works.
type Logger interface {
	Debug(format string, args ...any)
	Info(format string, args ...any)
	Error(format string, args ...any)
}

// Config holds the externally provided knobs.
type Config interface {
	// GetTokenTTL is the token time-to-live in milliseconds.
	GetTokenTTL() int
	// GetTokenLookup describes where the credential travels, e.g.
	// "header:Authorization".
	GetTokenLookup() string
	GetAuthScheme() string
	// GetContextKey is the router locals key the resolved user is stored under.
	GetContextKey() string
	// GetResultsPerPage is the pagination default page size.
	GetResultsPerPage() int
	// GetEnvironment gates development-only disclosures such as error traces.
	GetEnvironment() string
}

// EnvDevelopment is the environment value that enables error traces in
// responses. Any other value is treated as production.
const EnvDevelopment = "development"

type defLogger struct{}

func (d defLogger) Error(format string, args ...any) {
	fmt.Printf("[ERR] BEARER "+newline(format), args...)
}

func (d defLogger) Info(format string, args ...any) {
	fmt.Printf("[INF] BEARER "+newline(format), args...)
}

func (d defLogger) Debug(format string, args ...any) {
	fmt.Printf("[DBG] BEARER "+newline(format), args...)
}

func newline(s string) string {
	if len(s) > 0 && s[len(s)-1] != '\n' {
		s += "\n"
	}
	return s
}
