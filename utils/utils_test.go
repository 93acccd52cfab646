package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type Base struct {
	Label string `json:"label"`
}

type visitRow struct {
	Base
	Visits   int     `json:"nb_visits"`
	Bounce   float64 `json:"bounce_rate,omitempty"`
	Internal string  `json:"-"`
	Plain    bool
	hidden   string
}

func TestStructToFields(t *testing.T) {
	t.Run("ordered fields with tags", func(t *testing.T) {
		fields, err := StructToFields(visitRow{Base: Base{Label: "Paris"}, Visits: 12, Internal: "x", hidden: "y"})
		require.NoError(t, err)
		assert.Equal(t, []Field{
			{Name: "label", Value: "Paris"},
			{Name: "nb_visits", Value: 12},
			{Name: "Plain", Value: false},
		}, fields)
	})

	t.Run("pointer input", func(t *testing.T) {
		fields, err := StructToFields(&visitRow{Visits: 3, Bounce: 0.5})
		require.NoError(t, err)
		assert.Contains(t, fields, Field{Name: "bounce_rate", Value: 0.5})
	})

	t.Run("invalid inputs", func(t *testing.T) {
		_, err := StructToFields(nil)
		assert.Error(t, err)

		var nilPtr *visitRow
		_, err = StructToFields(nilPtr)
		assert.Error(t, err)

		_, err = StructToFields(42)
		assert.Error(t, err)
	})
}
