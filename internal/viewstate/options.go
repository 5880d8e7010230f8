package viewstate

import "github.com/okian/medalboard/pkg/logger"

const (
	defaultName     = "screen"
	defaultLoading  = "Chargement..."
	defaultFallback = "Une erreur est survenue"
)

type settings struct {
	name      string
	paginated bool
	loading   string
	fallback  string
	absent    func(v any) bool
	notFound  string
	logger    logger.Logger
}

func defaultSettings() settings {
	return settings{
		name:     defaultName,
		loading:  defaultLoading,
		fallback: defaultFallback,
	}
}

// Option configures a Controller.
type Option func(*settings)

// WithName labels logs and metrics of the controller.
func WithName(name string) Option {
	return func(s *settings) {
		if name != "" {
			s.name = name
		}
	}
}

// WithPagination makes the controller track Page and HasNext and enables
// Next and Prev.
func WithPagination() Option {
	return func(s *settings) { s.paginated = true }
}

// WithLoadingMessage sets the message shown while a load is in flight.
func WithLoadingMessage(msg string) Option {
	return func(s *settings) { s.loading = msg }
}

// WithFallbackMessage sets the error message used when a failure carries no
// server-supplied message.
func WithFallbackMessage(msg string) Option {
	return func(s *settings) { s.fallback = msg }
}

// WithNotFound marks settled data for which absent returns true as a
// not-found view with msg. The type parameter must match the controller's.
func WithNotFound[T any](absent func(T) bool, msg string) Option {
	return func(s *settings) {
		s.absent = func(v any) bool {
			t, ok := v.(T)
			return ok && absent(t)
		}
		s.notFound = msg
	}
}

// WithLogger sets the logger; the global logger is used otherwise.
func WithLogger(l logger.Logger) Option {
	return func(s *settings) { s.logger = l }
}
