package decorate

import "github.com/charmbracelet/log"

// DefaultSelectionWindow is how many lines around the cursor line the
// whole-document engine keeps free of decorations.
const DefaultSelectionWindow = 1

// Options configures an engine.
type Options struct {
	// Logger receives debug output about dropped decorations.
	// Nil uses the charmbracelet/log default logger.
	Logger *log.Logger

	// SelectionWindow is the line distance from the cursor line within
	// which the whole-document engine suppresses decorations. Negative
	// values disable the line check, leaving only selection intersection.
	SelectionWindow int

	// RecomputeOnDocChange makes the whole-document engine recompute on
	// every edit. When false, edits that keep the tree and selection only
	// map the existing set.
	RecomputeOnDocChange bool
}

// DefaultOptions returns the default engine options.
func DefaultOptions() Options {
	return Options{
		SelectionWindow:      DefaultSelectionWindow,
		RecomputeOnDocChange: true,
	}
}

func (o Options) logger() *log.Logger {
	if o.Logger != nil {
		return o.Logger
	}
	return log.Default()
}
