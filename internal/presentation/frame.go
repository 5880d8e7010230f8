package presentation

import "github.com/okian/medalboard/internal/viewstate"

// Frame is the render input derived from a screen's resolved view state.
type Frame struct {
	Kind    viewstate.Kind
	Message string
	// Pager is nil for screens without pagination.
	Pager *Pager
	Data  any
}

// Pager drives the pagination component.
type Pager struct {
	Page    int
	CanPrev bool
	CanNext bool
}

// FrameOf converts a resolved view into a Frame.
func FrameOf[T any](v viewstate.View[T]) Frame {
	f := Frame{Kind: v.Kind, Message: v.Message, Data: v.State.Data}
	if v.State.Paginated {
		f.Pager = &Pager{Page: v.State.Page, CanPrev: v.State.CanPrev(), CanNext: v.State.CanNext()}
	}
	return f
}

func (f Frame) IsLoading() bool  { return f.Kind == viewstate.KindLoading }
func (f Frame) IsError() bool    { return f.Kind == viewstate.KindError }
func (f Frame) IsNotFound() bool { return f.Kind == viewstate.KindNotFound }
func (f Frame) IsReady() bool    { return f.Kind == viewstate.KindReady }

// Page is the data passed to the layout template.
type Page struct {
	Lang  string
	Title string
	// Nav is the active navbar entry: home, countries, games, athletes,
	// predictions or medals.
	Nav string
	// Action is the form target for retry and pagination; the retry button is
	// omitted when empty.
	Action string
	// Refresh, when positive, adds a meta refresh of that many seconds.
	Refresh int
	// Filter holds the active medal filters.
	Filter map[string]string
	Frame  Frame
}

// Banner is the input of the error_banner component.
type Banner struct {
	Message string
	Action  string
}
