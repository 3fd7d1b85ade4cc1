package main

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/demographics-cli/internal/config"
)

func TestTaxonomyCmd_ListsVariables(t *testing.T) {
	cfg = &config.Config{}

	var out bytes.Buffer
	taxonomyCmd.SetOut(&out)
	require.NoError(t, taxonomyCmd.RunE(taxonomyCmd, nil))

	for _, v := range []string{"age", "gender", "income", "education", "profession", "race"} {
		assert.Contains(t, out.String(), v)
	}
}

func TestTaxonomyCmd_SingleVariable(t *testing.T) {
	cfg = &config.Config{}

	var out bytes.Buffer
	taxonomyCmd.SetOut(&out)
	require.NoError(t, taxonomyCmd.RunE(taxonomyCmd, []string{"income"}))

	assert.Contains(t, out.String(), "$50,000 to $59,999")
	assert.Contains(t, out.String(), "B19037")
	assert.Contains(t, out.String(), "B20005")
	assert.Contains(t, out.String(), "B24011")
}

func TestTaxonomyCmd_UnknownVariable(t *testing.T) {
	cfg = &config.Config{}

	err := taxonomyCmd.RunE(taxonomyCmd, []string{"shoe_size"})
	assert.Error(t, err)
}
