package display

import (
	"bytes"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestShouldOutputJSON(t *testing.T) {
	newCmds := func() (*cobra.Command, *cobra.Command) {
		root := &cobra.Command{Use: "wmsnav"}
		root.PersistentFlags().Bool("json", false, "")
		child := &cobra.Command{Use: "tabs", Run: func(*cobra.Command, []string) {}}
		root.AddCommand(child)
		return root, child
	}

	assert.False(t, ShouldOutputJSON(nil))

	root, child := newCmds()
	require.NoError(t, root.PersistentFlags().Set("json", "true"))
	assert.True(t, ShouldOutputJSON(child))

	_, child = newCmds()
	child.Flags().Bool("json", false, "")
	require.NoError(t, child.Flags().Set("json", "false"))
	assert.False(t, ShouldOutputJSON(child))

	_, child = newCmds()
	assert.False(t, ShouldOutputJSON(child))
}

func TestOutputJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, OutputJSON(&buf, map[string]string{"tab": "dashboard"}))
	assert.Equal(t, "{\n  \"tab\": \"dashboard\"\n}\n", buf.String())
}
