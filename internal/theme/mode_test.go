package theme

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseMode(t *testing.T) {
	m, err := ParseMode("Dark")
	require.NoError(t, err)
	assert.Equal(t, ModeDark, m)

	m, err = ParseMode(" light ")
	require.NoError(t, err)
	assert.Equal(t, ModeLight, m)

	_, err = ParseMode("sepia")
	assert.Error(t, err)
}

func TestMode_Toggle(t *testing.T) {
	tests := []struct {
		mode   Mode
		toggle Mode
		icon   string
	}{
		{ModeLight, ModeDark, "moon"},
		{ModeDark, ModeLight, "sun"},
		{"", ModeDark, "moon"},
		{"purple", ModeDark, "moon"},
	}

	for _, tt := range tests {
		t.Run(string(tt.mode), func(t *testing.T) {
			assert.Equal(t, tt.toggle, tt.mode.Toggle())
			assert.Equal(t, tt.icon, tt.mode.ToggleIcon())
		})
	}

	assert.Equal(t, ModeLight, ModeLight.Toggle().Toggle())
	assert.Equal(t, DefaultMode, Mode("").OrDefault())
}
