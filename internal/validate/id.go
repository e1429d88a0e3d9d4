// Package validate holds request-level input validation shared by the API
// and the streaming layers.
package validate

import (
	"errors"
	"fmt"
	"regexp"
)

// ErrInvalidIdentifier marks a client-supplied video identifier that fails
// shape validation. Checked before any network call is made.
var ErrInvalidIdentifier = errors.New("invalid video identifier")

var videoIDPattern = regexp.MustCompile(`^[A-Za-z0-9_-]+$`)

// VideoID checks that id is a plausible video identifier. The accepted
// alphabet is [A-Za-z0-9_-]; anything else is rejected.
func VideoID(id string) error {
	if id == "" || !videoIDPattern.MatchString(id) {
		return fmt.Errorf("%w: %q", ErrInvalidIdentifier, id)
	}
	return nil
}
