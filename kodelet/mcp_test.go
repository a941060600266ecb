package kodelet

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestMarshalMCPConfig(t *testing.T) {
	t.Parallel()

	data, err := marshalMCPConfig([]MCPServer{
		StdioServer{
			Name:          "fs",
			Command:       "docker",
			Args:          []string{"run", "-i", "--rm", "mcp/filesystem", "/"},
			ToolWhitelist: []string{"list_directory", "read_file"},
		},
		SSEServer{
			Name:    "search",
			BaseURL: "http://localhost:8080",
			Headers: map[string]string{"Authorization": "Bearer token"},
		},
	})
	require.NoError(t, err)

	var decoded struct {
		MCP struct {
			Servers map[string]map[string]interface{} `yaml:"servers"`
		} `yaml:"mcp"`
	}
	require.NoError(t, yaml.Unmarshal(data, &decoded))
	require.Len(t, decoded.MCP.Servers, 2)

	fs := decoded.MCP.Servers["fs"]
	require.NotNil(t, fs)
	assert.Equal(t, "docker", fs["command"])
	assert.Equal(t, []interface{}{"list_directory", "read_file"}, fs["tool_white_list"])
	assert.NotContains(t, fs, "base_url")

	search := decoded.MCP.Servers["search"]
	require.NotNil(t, search)
	assert.Equal(t, "http://localhost:8080", search["base_url"])
	assert.Equal(t, map[string]interface{}{"Authorization": "Bearer token"}, search["headers"])
	assert.NotContains(t, search, "command")
	assert.NotContains(t, search, "tool_white_list")
}
