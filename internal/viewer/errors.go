package viewer

import "errors"

var (
	// ErrMissingContainer is returned by New when no Surface is configured.
	ErrMissingContainer = errors.New("viewer: render container not found")
	// ErrMissingCollaborator is returned by New when the camera, controls or fetcher is nil.
	ErrMissingCollaborator = errors.New("viewer: missing collaborator")
)

// LoadErrorMessage is the indicator text shown when the latest load fails.
const LoadErrorMessage = "Error loading image"
