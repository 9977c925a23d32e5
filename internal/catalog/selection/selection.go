// Package selection tracks which drop and level a visitor is browsing, plus
// the hide-sold-out display filter. The state round-trips through URL query
// parameters so catalog views stay shareable and bookmarkable; the available
// drop set is threaded in explicitly instead of read from ambient state.
package selection

import (
	"net/url"
	"strconv"
)

// Query parameter names understood by FromQuery and emitted by Query.
const (
	ParamDrop        = "drop"
	ParamLevel       = "level"
	ParamHideSoldOut = "hide_sold_out"
)

// BaseLevel is where navigation restarts whenever the drop changes.
const BaseLevel = 1

// Selection is the current browsing position within the catalog.
type Selection struct {
	drops       []string
	dropID      string
	level       int
	hideSoldOut bool
}

// New returns a selection positioned at the first available drop, base level.
// An empty drop set yields a selection with no drop; setters stay no-ops until
// a drop set is known.
func New(availableDrops []string) *Selection {
	s := &Selection{
		drops: append([]string{}, availableDrops...),
		level: BaseLevel,
	}
	if len(s.drops) > 0 {
		s.dropID = s.drops[0]
	}
	return s
}

// FromQuery builds a selection from incoming query parameters. A drop that is
// not in the available set is silently ignored (stale bookmarks and manual URL
// edits are expected), falling back to the first available drop.
func FromQuery(params url.Values, availableDrops []string) *Selection {
	s := New(availableDrops)

	if drop := params.Get(ParamDrop); drop != "" {
		s.SetDrop(drop)
	}
	if raw := params.Get(ParamLevel); raw != "" {
		if level, err := strconv.Atoi(raw); err == nil && level >= 1 {
			s.SetLevel(level)
		}
	}
	if raw := params.Get(ParamHideSoldOut); raw != "" {
		if hide, err := strconv.ParseBool(raw); err == nil {
			s.SetHideSoldOut(hide)
		}
	}

	return s
}

// DropID returns the currently selected drop, or "" when none is available.
func (s *Selection) DropID() string { return s.dropID }

// Level returns the currently selected level.
func (s *Selection) Level() int { return s.level }

// HideSoldOut returns the display filter flag.
func (s *Selection) HideSoldOut() bool { return s.hideSoldOut }

// AvailableDrops returns the known drop set.
func (s *Selection) AvailableDrops() []string {
	return append([]string{}, s.drops...)
}

// SetDrop switches to another drop. Unknown drops are rejected as a no-op.
// Switching always resets the level to BaseLevel: a new collection restarts
// navigation at the beginning of its sequence.
func (s *Selection) SetDrop(dropID string) bool {
	for _, d := range s.drops {
		if d == dropID {
			s.dropID = dropID
			s.level = BaseLevel
			return true
		}
	}
	return false
}

// SetLevel sets the level without validating that the level exists in the
// current drop; an empty result set is handled by the display layer.
func (s *Selection) SetLevel(level int) {
	if level < 1 {
		level = 1
	}
	s.level = level
}

// SetHideSoldOut toggles the out-of-stock display filter.
func (s *Selection) SetHideSoldOut(hide bool) {
	s.hideSoldOut = hide
}

// Query re-encodes the selection as canonical query parameters, so a response
// can hand the client the exact representation that reproduces this view.
func (s *Selection) Query() url.Values {
	params := url.Values{}
	if s.dropID != "" {
		params.Set(ParamDrop, s.dropID)
	}
	params.Set(ParamLevel, strconv.Itoa(s.level))
	if s.hideSoldOut {
		params.Set(ParamHideSoldOut, "true")
	}
	return params
}
