// Package id generates the prefixed identifiers used for every stored entity.
package id

import (
	"fmt"

	gonanoid "github.com/matoous/go-nanoid/v2"
)

// Prefix tags an identifier with the kind of entity it names.
type Prefix string

// Entity prefixes.
const (
	User    Prefix = "user"
	Note    Prefix = "note"
	Tag     Prefix = "tag"
	NoteTag Prefix = "notetag"
)

// alphabet excludes '-' and '_' so the prefix separator stays unambiguous.
const (
	alphabet = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz"
	size     = 21
)

// Generate returns "<prefix>-<nanoid>", e.g. "note-4f9TbQx2LrW0aZk8PcVnE".
func Generate(prefix Prefix) (string, error) {
	s, err := gonanoid.Generate(alphabet, size)
	if err != nil {
		return "", fmt.Errorf("generate %s id: %w", prefix, err)
	}
	return string(prefix) + "-" + s, nil
}

// MustGenerate is like Generate but panics when the system entropy source fails.
func MustGenerate(prefix Prefix) string {
	s, err := Generate(prefix)
	if err != nil {
		panic(err)
	}
	return s
}
