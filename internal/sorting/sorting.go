package sorting

import "fmt"

// Role tags a highlighted index with what the algorithm is doing there.
type Role uint8

const (
	// RoleCandidate marks an index currently being compared or moved.
	RoleCandidate Role = iota + 1

	// RoleTracker marks the pivot or the running minimum.
	RoleTracker

	// RolePlacement marks the position being written or filled.
	RolePlacement
)

// String returns the lowercase role name used in traces.
func (r Role) String() string {
	switch r {
	case RoleCandidate:
		return "candidate"
	case RoleTracker:
		return "tracker"
	case RolePlacement:
		return "placement"
	default:
		return fmt.Sprintf("role(%d)", uint8(r))
	}
}

// Highlight is one index of interest in an observation step.
type Highlight struct {
	Index int
	Role  Role
}

// String renders the highlight as "role=index".
func (h Highlight) String() string {
	return fmt.Sprintf("%s=%d", h.Role, h.Index)
}

// Emit receives the highlights of one observation step.
// Returning a non-nil error stops the running algorithm.
type Emit func(highlights ...Highlight) error

// Func is the common signature of all algorithms in this package.
type Func[T any] func(data []T, cmp func(a, b T) int, emit Emit) error

func swap[T any](data []T, i, j int) {
	data[i], data[j] = data[j], data[i]
}
