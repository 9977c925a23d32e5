package selection

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
)

var drops = []string{"summer-24", "winter-24", "archive"}

func TestNew(t *testing.T) {
	s := New(drops)
	assert.Equal(t, "summer-24", s.DropID())
	assert.Equal(t, BaseLevel, s.Level())
	assert.False(t, s.HideSoldOut())
}

func TestNewWithoutDrops(t *testing.T) {
	s := New(nil)
	assert.Equal(t, "", s.DropID())
	assert.False(t, s.SetDrop("anything"))
	assert.Equal(t, "", s.DropID())
}

func TestFromQuery(t *testing.T) {
	tests := []struct {
		name     string
		query    string
		wantDrop string
		wantLvl  int
		wantHide bool
	}{
		{"empty query uses defaults", "", "summer-24", 1, false},
		{"full selection", "drop=winter-24&level=3&hide_sold_out=true", "winter-24", 3, true},
		{"unknown drop falls back to first", "drop=nope&level=2", "summer-24", 2, false},
		{"invalid level ignored", "level=abc", "summer-24", 1, false},
		{"zero level ignored", "level=0", "summer-24", 1, false},
		{"invalid hide flag ignored", "hide_sold_out=banana", "summer-24", 1, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			params, err := url.ParseQuery(tt.query)
			assert.NoError(t, err)

			s := FromQuery(params, drops)
			assert.Equal(t, tt.wantDrop, s.DropID())
			assert.Equal(t, tt.wantLvl, s.Level())
			assert.Equal(t, tt.wantHide, s.HideSoldOut())
		})
	}
}

func TestSetDropResetsLevel(t *testing.T) {
	s := New(drops)
	s.SetLevel(5)

	assert.True(t, s.SetDrop("winter-24"))
	assert.Equal(t, "winter-24", s.DropID())
	assert.Equal(t, BaseLevel, s.Level())
}

func TestSetDropUnknownIsNoOp(t *testing.T) {
	s := New(drops)
	s.SetLevel(4)

	assert.False(t, s.SetDrop("does-not-exist"))
	assert.Equal(t, "summer-24", s.DropID())
	assert.Equal(t, 4, s.Level())
}

func TestSetLevelClamps(t *testing.T) {
	s := New(drops)
	s.SetLevel(-2)
	assert.Equal(t, 1, s.Level())

	s.SetLevel(7)
	assert.Equal(t, 7, s.Level())
}

func TestQueryRoundTrip(t *testing.T) {
	s := New(drops)
	s.SetDrop("archive")
	s.SetLevel(2)
	s.SetHideSoldOut(true)

	params := s.Query()
	rebuilt := FromQuery(params, drops)

	assert.Equal(t, s.DropID(), rebuilt.DropID())
	assert.Equal(t, s.Level(), rebuilt.Level())
	assert.Equal(t, s.HideSoldOut(), rebuilt.HideSoldOut())
}

func TestQueryOmitsDefaultHideFlag(t *testing.T) {
	s := New(drops)
	params := s.Query()

	assert.Equal(t, "summer-24", params.Get(ParamDrop))
	assert.Equal(t, "1", params.Get(ParamLevel))
	assert.Empty(t, params.Get(ParamHideSoldOut))
}
