package eventbus

import "github.com/hay-kot/organizer/internal/core/action"

// Pattern selects the actions a subscription is interested in.
type Pattern func(a action.Action) bool

// MatchAll accepts every action.
func MatchAll(action.Action) bool { return true }

// Match accepts actions carrying one of the given tags.
func Match(types ...action.Type) Pattern {
	set := make(map[action.Type]struct{}, len(types))
	for _, t := range types {
		set[t] = struct{}{}
	}
	return func(a action.Action) bool {
		_, ok := set[a.Type()]
		return ok
	}
}
