package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultCatalog(t *testing.T) {
	c := DefaultCatalog()
	require.NoError(t, c.Validate())

	assert.Len(t, c.Phases, 5)
	assert.Equal(t, 15, c.TotalSteps())
	for i, p := range c.Phases {
		assert.Equal(t, i+1, p.Number)
		assert.Len(t, p.Steps, 3)
		assert.Equal(t, Colors[i], p.Color)
	}

	assert.True(t, c.HasStep(2, 5))
	assert.False(t, c.HasStep(2, 1))
	assert.False(t, c.HasStep(9, 1))
	assert.Equal(t, 3, c.PhaseStepCount(4))
	assert.Equal(t, 0, c.PhaseStepCount(42))
}

func TestDefaultCatalogIsFresh(t *testing.T) {
	a := DefaultCatalog()
	a.Phases[0].Title = "changed"
	assert.Equal(t, "Escaping the Notebook", DefaultCatalog().Phases[0].Title)
}

func TestParseColor(t *testing.T) {
	for _, c := range Colors {
		got, err := ParseColor(string(c))
		require.NoError(t, err)
		assert.Equal(t, c, got)
	}

	got, err := ParseColor(" Purple ")
	require.NoError(t, err)
	assert.Equal(t, ColorPurple, got)

	_, err = ParseColor("teal")
	assert.ErrorIs(t, err, ErrUnknownColor)
}

func TestColorUnmarshalRejectsUnknown(t *testing.T) {
	var p Phase
	err := json.Unmarshal([]byte(`{"number":1,"color":"magenta"}`), &p)
	assert.ErrorIs(t, err, ErrUnknownColor)

	require.NoError(t, json.Unmarshal([]byte(`{"number":1,"color":"red"}`), &p))
	assert.Equal(t, ColorRed, p.Color)
}

func TestCatalogValidate(t *testing.T) {
	dupPhase := &Catalog{Phases: []Phase{{Number: 1, Color: ColorBlue}, {Number: 1, Color: ColorRed}}}
	assert.Error(t, dupPhase.Validate())

	dupStep := &Catalog{Phases: []Phase{{Number: 1, Color: ColorBlue, Steps: []Step{{Number: 2}, {Number: 2}}}}}
	assert.Error(t, dupStep.Validate())

	badColor := &Catalog{Phases: []Phase{{Number: 1, Color: Color("teal")}}}
	assert.ErrorIs(t, badColor.Validate(), ErrUnknownColor)

	// step numbers only need to be unique within a phase
	shared := &Catalog{Phases: []Phase{
		{Number: 1, Color: ColorBlue, Steps: []Step{{Number: 1}}},
		{Number: 2, Color: ColorGreen, Steps: []Step{{Number: 1}}},
	}}
	assert.NoError(t, shared.Validate())
}
