package document

import (
	"errors"
	"fmt"
	"strings"
)

// ErrMalformedScope is returned when a scope is not well formed.
var ErrMalformedScope = errors.New("malformed scope")

// Scope restricts iteration to a subtree of the document space.
// A nil *Scope means every document of every wiki.
type Scope struct {
	// Wiki restricts to a single partition. Required for any non-nil scope.
	Wiki string `json:"wiki"`
	// Space restricts to a space and all its nested spaces.
	Space []string `json:"space,omitempty"`
	// Name restricts to a single document of Space.
	Name string `json:"name,omitempty"`
	// Locale restricts a single document to one translation.
	// When empty, all translations of the document are in scope.
	Locale string `json:"locale,omitempty"`
}

// WikiScope returns a scope covering a whole wiki.
func WikiScope(wiki string) *Scope {
	return &Scope{Wiki: wiki}
}

// SpaceScope returns a scope covering a space subtree.
func SpaceScope(wiki string, space ...string) *Scope {
	return &Scope{Wiki: wiki, Space: space}
}

// DocumentScope returns a scope naming exactly one document.
func DocumentScope(key Key) *Scope {
	return &Scope{Wiki: key.Wiki, Space: key.SpacePath(), Name: key.Name, Locale: key.Locale}
}

// Validate checks the scope is well formed. A nil scope is valid.
func (s *Scope) Validate() error {
	if s == nil {
		return nil
	}
	if s.Wiki == "" {
		return fmt.Errorf("%w: wiki is required", ErrMalformedScope)
	}
	if s.Name != "" && len(s.Space) == 0 {
		return fmt.Errorf("%w: document scope requires a space", ErrMalformedScope)
	}
	if s.Locale != "" && s.Name == "" {
		return fmt.Errorf("%w: locale requires a document name", ErrMalformedScope)
	}
	return nil
}

// SpaceString returns the serialized space path of the scope.
func (s *Scope) SpaceString() string {
	if s == nil {
		return ""
	}
	return JoinSpace(s.Space)
}

// Document returns the key of the single document named by the scope.
// The locale of the returned key is the scope locale, possibly empty.
func (s *Scope) Document() (Key, bool) {
	if s == nil || s.Name == "" {
		return Key{}, false
	}
	return Key{Wiki: s.Wiki, Space: s.SpaceString(), Name: s.Name, Locale: s.Locale}, true
}

// Contains reports whether key falls under the scope.
func (s *Scope) Contains(key Key) bool {
	if s == nil {
		return true
	}
	if key.Wiki != s.Wiki {
		return false
	}
	if len(s.Space) == 0 {
		return true
	}
	space := s.SpaceString()
	if s.Name != "" {
		if key.Space != space || key.Name != s.Name {
			return false
		}
		return s.Locale == "" || key.Locale == s.Locale
	}
	return key.Space == space || strings.HasPrefix(key.Space, space+string(SpaceSeparator))
}

// Segments returns the scope as a list of reference segments, from the wiki
// down to the document name.
func (s *Scope) Segments() []string {
	if s == nil {
		return nil
	}
	segments := append([]string{s.Wiki}, s.Space...)
	if s.Name != "" {
		segments = append(segments, s.Name)
	}
	if s.Locale != "" {
		segments = append(segments, s.Locale)
	}
	return segments
}

// String renders the scope for logs.
func (s *Scope) String() string {
	if s == nil {
		return "*"
	}
	if key, ok := s.Document(); ok {
		return key.String()
	}
	if len(s.Space) == 0 {
		return s.Wiki
	}
	return s.Wiki + ":" + s.SpaceString()
}
