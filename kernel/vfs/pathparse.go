package vfs

import (
	"strings"

	"github.com/Mek101/meetixos-sub000/kernel"
)

// ParsePath splits a raw absolute path into the normalized component slice
// VfsResolver, PathTable and PathCache operate on internally (the root
// itself is represented by a nil/empty slice, never stored as a
// component). It enforces the precondition find and friends otherwise
// silently assumed: raw must be non-empty, start with exactly one leading
// "/", and contain no empty component, which a doubled or trailing
// separator (e.g. "/a//b") would otherwise produce.
func ParsePath(raw string) ([]string, *kernel.Error) {
	if raw == "" || raw[0] != '/' {
		return nil, ErrInvalidPath
	}
	if raw == "/" {
		return nil, nil
	}

	components := strings.Split(raw[1:], "/")
	for _, c := range components {
		if c == "" {
			return nil, ErrInvalidPath
		}
	}
	return components, nil
}
