package api

import domainerrors "github.com/notesapp/notes-server/internal/errors"

// parseBoolQuery reads an optional "true"/"false" query flag. An empty value means unset.
func parseBoolQuery(name, value string) (*bool, error) {
	var b bool
	switch value {
	case "":
		return nil, nil
	case "true":
		b = true
	case "false":
		b = false
	default:
		return nil, domainerrors.FieldError(name, "must be true or false")
	}
	return &b, nil
}
