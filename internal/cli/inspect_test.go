package cli

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/entitygraph/internal/graphdoc"
)

func TestInspect_Text(t *testing.T) {
	out, _, err := execute(t, "inspect", "testdata/cycle.yaml")
	require.NoError(t, err)

	assert.Contains(t, out, "testdata/cycle.yaml\n")
	assert.Contains(t, out, "root:        http://example.org/x")
	assert.Contains(t, out, "entities:    3")
	assert.Contains(t, out, "references:  2 (0 external)")
	assert.Contains(t, out, "fingerprint: ")
}

func TestInspect_CUE(t *testing.T) {
	out, _, err := execute(t, "--format", "json", "inspect", "testdata/account.cue")
	require.NoError(t, err)

	var resp struct {
		Status string        `json:"status"`
		Data   InspectResult `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, "ok", resp.Status)
	assert.Equal(t, "local:Account#7", resp.Data.Root)
	assert.Equal(t, graphdoc.Stats{
		Entities:   2,
		Properties: 3,
		Literals:   2,
		References: 2,
		External:   1,
	}, resp.Data.Stats)
}

func TestInspect_Verbose(t *testing.T) {
	_, errOut, err := execute(t, "-v", "inspect", "testdata/cycle.yaml")
	require.NoError(t, err)
	assert.Contains(t, errOut, "entity http://example.org/island (1 values)")
}

func TestInspect_Errors(t *testing.T) {
	out, _, err := execute(t, "inspect", "testdata/broken.yaml")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, out, "Error [E004]")

	_, _, err = execute(t, "inspect")
	require.Error(t, err)
}
