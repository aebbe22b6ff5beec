package action

import (
	"strings"

	"github.com/odvcencio/octyl/pkg/errors"
)

// Tag names a Custom action with dot-separated segments, e.g. "palette.selected".
type Tag string

// ParseTag validates s: non-empty segments of letters, digits, '-' or '_'.
func ParseTag(s string) (Tag, error) {
	if s == "" {
		return "", errors.New(errors.ErrCodeInvalidInput, "empty action tag")
	}
	for _, seg := range strings.Split(s, ".") {
		if seg == "" {
			return "", errors.Newf(errors.ErrCodeInvalidInput, "action tag %q has an empty segment", s)
		}
		for _, r := range seg {
			if !validTagRune(r) {
				return "", errors.Newf(errors.ErrCodeInvalidInput, "action tag %q contains %q", s, r)
			}
		}
	}
	return Tag(s), nil
}

// MustTag is ParseTag that panics on error. For package-level tag constants.
func MustTag(s string) Tag {
	t, err := ParseTag(s)
	if err != nil {
		panic(err)
	}
	return t
}

func validTagRune(r rune) bool {
	return r == '-' || r == '_' ||
		(r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9')
}

// Segments splits the tag on dots.
func (t Tag) Segments() []string {
	if t == "" {
		return nil
	}
	return strings.Split(string(t), ".")
}

// HasPrefix reports whether prefix names t or one of its ancestors:
// "palette" matches "palette.selected" but not "palettes".
func (t Tag) HasPrefix(prefix Tag) bool {
	if prefix == "" || prefix == t {
		return true
	}
	return strings.HasPrefix(string(t), string(prefix)+".")
}

func (t Tag) String() string { return string(t) }
