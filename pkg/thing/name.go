package thing

import (
	"errors"
	"fmt"
	"regexp"
)

// ErrBadName indicates a thing name does not follow the PREFIX_shortId
// pattern.
var ErrBadName = errors.New("malformed thing name")

// fullToShort extracts the human-facing short form of a thing name. The
// prefix before the first underscore is the owner's short id and carries no
// external meaning.
var fullToShort = regexp.MustCompile(`^[A-Z0-9]+_(.*)`)

// ShortName returns the short form of a full thing name, failing if the
// name does not match the fixed PREFIX_shortId pattern.
func ShortName(thingName string) (string, error) {
	m := fullToShort.FindStringSubmatch(thingName)
	if m == nil {
		return "", fmt.Errorf("%w: %q", ErrBadName, thingName)
	}
	return m[1], nil
}
