package verticals

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParse(t *testing.T) {
	for _, v := range All() {
		got, err := Parse(v.String())
		assert.NoError(t, err)
		assert.Equal(t, v, got)
	}

	_, err := Parse("astrology")
	assert.Error(t, err)
	_, err = Parse("")
	assert.Error(t, err)
}

func TestOptionsImplementNamed(t *testing.T) {
	options := []Named{
		&AccommodationOption{DisplayName: "Hotel, 3 nights"},
		&SessionOption{DisplayName: "Keynote track"},
	}

	for _, o := range options {
		before := o.GetDisplayName()
		o.SetDisplayName(before + " (updated)")
		assert.Equal(t, before+" (updated)", o.GetDisplayName())
	}
}
