package kodelet

// Option configures a Client.
type Option func(*Client)

// WithConfig replaces the client's configuration wholesale. Callers
// usually start from DefaultConfig and adjust fields.
func WithConfig(config Config) Option {
	return func(c *Client) {
		c.config = config
	}
}

// WithKodeletPath points the client at an explicit CLI binary instead
// of resolving "kodelet" from PATH.
func WithKodeletPath(path string) Option {
	return func(c *Client) {
		c.config.KodeletPath = path
	}
}

// WithWorkDir sets the working directory for CLI processes.
func WithWorkDir(dir string) Option {
	return func(c *Client) {
		c.config.WorkDir = dir
	}
}

// WithModel overrides the primary model.
func WithModel(model string) Option {
	return func(c *Client) {
		c.config.Model = model
	}
}

// WithProvider overrides the LLM provider.
func WithProvider(provider string) Option {
	return func(c *Client) {
		c.config.Provider = provider
	}
}

// WithMaxTurns caps the number of agent turns per query.
func WithMaxTurns(turns int) Option {
	return func(c *Client) {
		c.config.MaxTurns = turns
	}
}

// WithAllowedTools restricts the CLI to a set of tools.
func WithAllowedTools(tools ...string) Option {
	return func(c *Client) {
		c.config.AllowedTools = tools
	}
}

// WithResume continues an existing conversation by ID. Takes
// precedence over WithFollow.
func WithResume(conversationID string) Option {
	return func(c *Client) {
		c.resume = conversationID
	}
}

// WithFollow continues the most recent conversation.
func WithFollow() Option {
	return func(c *Client) {
		c.follow = true
	}
}

// WithMCPServers registers MCP servers to expose to the CLI. The
// client materializes them into a temporary config file per query.
func WithMCPServers(servers ...MCPServer) Option {
	return func(c *Client) {
		c.mcpServers = append(c.mcpServers, servers...)
	}
}

// WithHooks registers lifecycle hooks. Hook scripts are written under
// the working directory's .kodelet/hooks before each query and removed
// when the session ends. The host binary must call RunHookProcess
// early in main for the hooks to execute.
func WithHooks(hooks ...Hook) Option {
	return func(c *Client) {
		c.hooks = append(c.hooks, hooks...)
	}
}

// WithEnv adds environment variables to CLI processes.
func WithEnv(env map[string]string) Option {
	return func(c *Client) {
		if c.config.Env == nil {
			c.config.Env = make(map[string]string, len(env))
		}
		for k, v := range env {
			c.config.Env[k] = v
		}
	}
}
