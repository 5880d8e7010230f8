package viewstate

// State is the view state of one screen.
type State[T any] struct {
	Data    T
	Loading bool
	// Err is the display message of the last failed load; empty on success.
	Err string
	// Page is the last successfully loaded page (1-based). It stays 1 for
	// controllers without pagination.
	Page    int
	HasNext bool

	Paginated bool
}

// CanPrev reports whether the previous-page control is enabled.
func (s State[T]) CanPrev() bool { return s.Paginated && s.Page > 1 }

// CanNext reports whether the next-page control is enabled.
func (s State[T]) CanNext() bool { return s.Paginated && s.HasNext }

// Result is what a fetch produces for one target.
type Result[T any] struct {
	Data    T
	HasNext bool
}

// Kind is the exclusive rendering branch of a state.
type Kind int

const (
	KindLoading Kind = iota
	KindError
	KindNotFound
	KindReady
)

func (k Kind) String() string {
	switch k {
	case KindLoading:
		return "loading"
	case KindError:
		return "error"
	case KindNotFound:
		return "not_found"
	case KindReady:
		return "ready"
	default:
		return "unknown"
	}
}

// View is a state resolved to the branch that must be rendered.
type View[T any] struct {
	Kind Kind
	// Message is the loading, error or not-found text; empty when ready.
	Message string
	State   State[T]
}
