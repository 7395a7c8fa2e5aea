package analysis

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMonthLabeler(t *testing.T) {
	pt, err := NewMonthLabeler("pt")
	require.NoError(t, err)
	en, err := NewMonthLabeler("en")
	require.NoError(t, err)

	for m := 1; m <= 12; m++ {
		name, err := pt.Label(m)
		require.NoError(t, err)
		assert.NotEmpty(t, name)
	}

	name, _ := pt.Label(3)
	assert.Equal(t, "Março", name)
	name, _ = en.Label(12)
	assert.Equal(t, "December", name)

	_, err = en.Label(0)
	assert.Error(t, err)
	_, err = en.Label(13)
	assert.Error(t, err)

	_, err = NewMonthLabeler("de")
	assert.Error(t, err)
}
