package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPlural(t *testing.T) {
	assert.Equal(t, "orders", Plural(ResourceOrder))
	assert.Equal(t, "products", Plural(ResourceProduct))
	assert.Equal(t, "customers", Plural(ResourceCustomer))
	assert.Equal(t, "categories", Plural(ResourceCategory))
}

func TestParseWCTime(t *testing.T) {
	for _, s := range []string{
		"2024-03-01T10:00:00Z",
		"2024-03-01T10:00:00",
		"2024-03-01 10:00:00",
	} {
		parsed, err := ParseWCTime(s)
		require.NoError(t, err, s)
		assert.Equal(t, 2024, parsed.Year())
		assert.Equal(t, 10, parsed.Hour())
	}

	_, err := ParseWCTime("yesterday")
	assert.Error(t, err)

	_, err = ParseWCTime("")
	assert.Error(t, err)
}
