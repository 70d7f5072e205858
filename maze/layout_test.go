package maze

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLayout(t *testing.T) {
	m, err := Parse(sampleRows)
	require.NoError(t, err)

	t.Run("ToLayout", func(t *testing.T) {
		l := m.ToLayout("level-1")
		assert.Equal(t, "level-1", l.Name)
		assert.Equal(t, 10, l.Width)
		assert.Equal(t, 9, l.Height)
		assert.Equal(t, sampleRows, l.Rows)
		assert.NoError(t, l.Validate())

		assert.Equal(t, DefaultName, m.ToLayout("  ").Name)
	})

	t.Run("json field names", func(t *testing.T) {
		data, err := m.ToLayout("level-1").MarshalIndent()
		require.NoError(t, err)

		var raw map[string]any
		require.NoError(t, json.Unmarshal(data, &raw))
		assert.Equal(t, "level-1", raw["name"])
		assert.EqualValues(t, 10, raw["width"])
		assert.EqualValues(t, 9, raw["height"])
		assert.Len(t, raw["layout"], 9)
	})

	t.Run("Maze", func(t *testing.T) {
		back, err := m.ToLayout("x").Maze()
		require.NoError(t, err)
		assert.Equal(t, m.Rows(), back.Rows())
		assert.Equal(t, m.EndPos, back.EndPos)
	})

	t.Run("Validate", func(t *testing.T) {
		cases := []struct {
			name   string
			layout Layout
			want   error
		}{
			{"no rows", Layout{Width: 2, Height: 1}, ErrEmptyLayout},
			{"zero width", Layout{Width: 0, Height: 1, Rows: []string{""}}, ErrInvalidDimension},
			{"height mismatch", Layout{Width: 2, Height: 3, Rows: []string{"S.", ".E"}}, ErrInvalidDimension},
			{"ragged", Layout{Width: 2, Height: 2, Rows: []string{"S.", ".E."}}, ErrRaggedLayout},
		}
		for _, tc := range cases {
			t.Run(tc.name, func(t *testing.T) {
				assert.ErrorIs(t, tc.layout.Validate(), tc.want)
				_, err := tc.layout.Maze()
				assert.ErrorIs(t, err, tc.want)
			})
		}
	})
}
