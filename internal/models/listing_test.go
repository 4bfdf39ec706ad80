package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCloneKeepsEmptySlices(t *testing.T) {
	l := Listing{ID: "a", Images: []string{}, Sightings: []Sighting{}}
	out := l.Clone()
	assert.NotNil(t, out.Images)
	assert.NotNil(t, out.Sightings)

	raw, err := json.Marshal(out)
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"sightings":[]`)

	// nil input also comes back as an empty list
	assert.NotNil(t, Listing{}.Clone().Sightings)
}

func TestCloneCopiesSlices(t *testing.T) {
	l := Listing{Images: []string{"a.jpg"}, Sightings: []Sighting{{ID: "s1"}}}
	out := l.Clone()
	out.Images[0] = "b.jpg"
	out.Sightings[0].ID = "s2"
	assert.Equal(t, "a.jpg", l.Images[0])
	assert.Equal(t, "s1", l.Sightings[0].ID)
}
