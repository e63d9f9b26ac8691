package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetModeName(t *testing.T) {
	a, b := "", ""
	vars := map[string]*string{"Crossings": &a, "Rock": &b}

	_, err := getModeName(vars)
	assert.Error(t, err)

	a = "crossings.cfg"
	name, err := getModeName(vars)
	require.NoError(t, err)
	assert.Equal(t, "Crossings", name)

	b = "rock.cfg"
	_, err = getModeName(vars)
	assert.Error(t, err)
}
