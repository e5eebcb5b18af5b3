package handler

const (
	// BaseLayout is the default path for layout templates.
	BaseLayout = "layouts/base"

	// RootPath is the root path the route group.
	RootPath = "/"

	// ErrNilFatalLogMsg is used if app, cfg or services pointer is nil.
	ErrNilFatalLogMsg = "app, cfg or services is nil"

	// ErrInvalidID is returned when an {id} path parameter is not a positive integer.
	ErrInvalidID = "Invalid id"
)
