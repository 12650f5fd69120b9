package gesture

import (
	"fmt"
	"os"
)

// debugf prints one diagnostic line to stderr. Callers check their debug flag
// first so nothing is formatted in release mode.
func debugf(format string, args ...any) {
	_, _ = fmt.Fprintf(os.Stderr, "[gesture] "+format+"\n", args...)
}

// debugCheckTreeDepth warns on stderr if tree depth exceeds the threshold.
const debugMaxTreeDepth = 32

func debugCheckTreeDepth(a *Actor) {
	depth := 0
	for p := a; p != nil; p = p.Parent {
		depth++
	}
	if depth > debugMaxTreeDepth {
		debugf("warning: tree depth %d exceeds %d (actor %q)", depth, debugMaxTreeDepth, a.Name)
	}
}

// debugCheckChildCount warns on stderr if an actor has more than 1000 children.
const debugMaxChildCount = 1000

func debugCheckChildCount(a *Actor) {
	if len(a.children) > debugMaxChildCount {
		debugf("warning: actor %q has %d children (threshold %d)",
			a.Name, len(a.children), debugMaxChildCount)
	}
}

// actorLabel formats an actor for debug output.
func actorLabel(a *Actor) string {
	if a == nil {
		return "<none>"
	}
	return fmt.Sprintf("%q#%d", a.Name, a.handle.index())
}
