package sources

import "errors"

var (
	// ErrUnexpectedStatus is returned when a source answers with a non-2xx status.
	ErrUnexpectedStatus = errors.New("unexpected http status")

	// ErrUnknownSource is returned by Select for a name that is not registered.
	ErrUnknownSource = errors.New("unknown source")

	// ErrMissingPageData is returned when a page lacks the element an adapter parses.
	ErrMissingPageData = errors.New("page data not found")
)
