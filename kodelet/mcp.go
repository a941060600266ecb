package kodelet

import (
	"gopkg.in/yaml.v3"
)

// MCPServer is an external tool server configuration passed to the
// CLI. The configured servers are serialized to a temporary YAML
// config file whose path reaches the CLI via the KODELET_CONFIG
// environment variable, created per query and removed on cleanup.
type MCPServer interface {
	serverName() string
	serverConfig() mcpServerConfig
}

// StdioServer runs an executable speaking MCP over stdin/stdout.
type StdioServer struct {
	Name          string
	Command       string
	Args          []string
	ToolWhitelist []string
}

func (s StdioServer) serverName() string { return s.Name }

func (s StdioServer) serverConfig() mcpServerConfig {
	return mcpServerConfig{
		Command:       s.Command,
		Args:          s.Args,
		ToolWhiteList: s.ToolWhitelist,
	}
}

// SSEServer connects to an HTTP server speaking MCP over Server-Sent
// Events.
type SSEServer struct {
	Name          string
	BaseURL       string
	Headers       map[string]string
	ToolWhitelist []string
}

func (s SSEServer) serverName() string { return s.Name }

func (s SSEServer) serverConfig() mcpServerConfig {
	return mcpServerConfig{
		BaseURL:       s.BaseURL,
		Headers:       s.Headers,
		ToolWhiteList: s.ToolWhitelist,
	}
}

// mcpServerConfig is the YAML shape of one server entry under
// mcp.servers in the kodelet config file.
type mcpServerConfig struct {
	Command       string            `yaml:"command,omitempty"`
	Args          []string          `yaml:"args,omitempty"`
	BaseURL       string            `yaml:"base_url,omitempty"`
	Headers       map[string]string `yaml:"headers,omitempty"`
	ToolWhiteList []string          `yaml:"tool_white_list,omitempty"`
}

type mcpConfigFile struct {
	MCP struct {
		Servers map[string]mcpServerConfig `yaml:"servers"`
	} `yaml:"mcp"`
}

// marshalMCPConfig renders the config file content for the given
// servers.
func marshalMCPConfig(servers []MCPServer) ([]byte, error) {
	var cfg mcpConfigFile
	cfg.MCP.Servers = make(map[string]mcpServerConfig, len(servers))
	for _, server := range servers {
		cfg.MCP.Servers[server.serverName()] = server.serverConfig()
	}
	return yaml.Marshal(cfg)
}
