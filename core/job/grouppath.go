package job

import (
	"strings"

	"search-sync/core/document"
)

// GroupPath is the coordination key used to serialize jobs touching
// overlapping scopes.
type GroupPath []string

// DefaultGroupPath is the group path of jobs without scope. It overlaps with
// every other indexer job.
var DefaultGroupPath = GroupPath{"search", "indexer"}

// NewGroupPath derives the group path of a job from its scope.
func NewGroupPath(scope *document.Scope) GroupPath {
	path := make(GroupPath, 0, len(DefaultGroupPath)+len(scope.Segments()))
	path = append(path, DefaultGroupPath...)
	return append(path, scope.Segments()...)
}

// Overlaps reports whether one path is a prefix of the other.
func (p GroupPath) Overlaps(other GroupPath) bool {
	shorter, longer := p, other
	if len(shorter) > len(longer) {
		shorter, longer = longer, shorter
	}
	for i := range shorter {
		if shorter[i] != longer[i] {
			return false
		}
	}
	return true
}

func (p GroupPath) String() string {
	return strings.Join(p, "/")
}
