package kodelet

import (
	"context"
	"encoding/json"
	"os"
	"os/exec"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/kodelet/kodelet-go/internal/logger"
)

// terminateGrace is how long a cancelled session waits for the CLI to
// exit after SIGTERM before escalating to SIGKILL.
const terminateGrace = 2 * time.Second

// Client drives the kodelet CLI. A client runs at most one query at a
// time; the conversation ID discovered from the first query is reused
// for subsequent ones, so a client represents a single conversation.
type Client struct {
	config     Config
	binary     string
	resume     string
	follow     bool
	mcpServers []MCPServer
	hooks      []Hook

	inFlight atomic.Bool

	mu             sync.Mutex
	conversationID string

	convOnce      sync.Once
	conversations *ConversationManager
}

// New creates a client, resolving the CLI binary up front. An explicit
// KodeletPath must exist; otherwise "kodelet" is looked up on PATH.
func New(opts ...Option) (*Client, error) {
	c := &Client{config: DefaultConfig()}
	for _, opt := range opts {
		opt(c)
	}

	binary, err := resolveBinary(c.config.KodeletPath)
	if err != nil {
		return nil, err
	}
	c.binary = binary
	return c, nil
}

func resolveBinary(path string) (string, error) {
	if path != "" {
		if _, err := os.Stat(path); err != nil {
			return "", &BinaryNotFoundError{Path: path, Cause: err}
		}
		return path, nil
	}
	found, err := exec.LookPath("kodelet")
	if err != nil {
		return "", &BinaryNotFoundError{Path: "kodelet", Cause: err}
	}
	return found, nil
}

// ConversationID returns the ID discovered from a previous query, or
// the explicit resume target. Empty until the CLI reports one.
func (c *Client) ConversationID() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.conversationID != "" {
		return c.conversationID
	}
	return c.resume
}

func (c *Client) setConversationID(id string) {
	c.mu.Lock()
	c.conversationID = id
	c.mu.Unlock()
}

// Conversations returns the conversation directory backed by the same
// CLI binary.
func (c *Client) Conversations() *ConversationManager {
	c.convOnce.Do(func() {
		c.conversations = &ConversationManager{binary: c.binary, workDir: c.config.WorkDir}
	})
	return c.conversations
}

// Query sends one message and streams the resulting events. Only one
// query may be in flight per client. Cancelling ctx terminates the CLI
// process group; the stream then closes with ctx's error.
func (c *Client) Query(ctx context.Context, message string) (*Stream, error) {
	if !c.inFlight.CompareAndSwap(false, true) {
		return nil, ErrQueryInFlight
	}

	stream, err := c.startQuery(ctx, message)
	if err != nil {
		c.inFlight.Store(false)
		return nil, err
	}
	return stream, nil
}

// Run sends one message and returns the assistant's complete text.
// Only terminal text events are joined; deltas are a streaming-time
// preview of the same content. The whole stream is consumed.
func (c *Client) Run(ctx context.Context, message string) (string, error) {
	stream, err := c.Query(ctx, message)
	if err != nil {
		return "", err
	}

	var b strings.Builder
	for ev := range stream.Events() {
		if text, ok := ev.(TextEvent); ok {
			b.WriteString(text.Content)
		}
	}
	if err := stream.Err(); err != nil {
		return "", err
	}
	return b.String(), nil
}

// startQuery materializes per-query artifacts and spawns the CLI. Any
// setup failure is surfaced before the subprocess exists, with
// already-created artifacts rolled back.
func (c *Client) startQuery(ctx context.Context, message string) (*Stream, error) {
	cwd := c.config.WorkDir
	if cwd == "" {
		var err error
		cwd, err = os.Getwd()
		if err != nil {
			return nil, &ProcessError{Message: "failed to resolve working directory", Cause: err}
		}
	}

	env := make(map[string]string, len(c.config.Env)+1)
	for k, v := range c.config.Env {
		env[k] = v
	}

	var cleanups []func()
	cleanup := func() {
		for i := len(cleanups) - 1; i >= 0; i-- {
			cleanups[i]()
		}
	}

	if len(c.mcpServers) > 0 && !c.config.NoMCP {
		path, err := writeMCPConfigFile(c.mcpServers)
		if err != nil {
			return nil, err
		}
		cleanups = append(cleanups, func() {
			if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
				logger.G(context.Background()).WithError(err).WithField("path", path).Warn("failed to remove MCP config")
			}
		})
		env["KODELET_CONFIG"] = path
	}

	if len(c.hooks) > 0 && !c.config.NoHooks {
		paths, err := writeHookScripts(cwd, c.hooks)
		if err != nil {
			cleanup()
			return nil, err
		}
		cleanups = append(cleanups, func() {
			removeHookScripts(context.Background(), paths)
		})
	}

	args := buildArgs(c.config, c.resume, c.follow, c.currentConversationID(), message)
	proc := newQueryProcess(c.binary, args, c.config.WorkDir, env)

	if err := proc.Start(); err != nil {
		cleanup()
		return nil, err
	}

	stream := newStream(c.config.EventBufferSize)
	go c.runSession(ctx, proc, stream, cleanup)
	return stream, nil
}

func (c *Client) currentConversationID() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.conversationID
}

// runSession pumps events from the CLI to the stream and guarantees
// that the process is reaped and artifacts are removed on every path.
func (c *Client) runSession(ctx context.Context, proc *queryProcess, stream *Stream, cleanup func()) {
	defer func() {
		cleanup()
		c.inFlight.Store(false)
		close(stream.events)
	}()

	// Cancellation watcher: SIGTERM the group, escalate to SIGKILL if
	// the CLI does not exit within the grace period.
	watchDone := make(chan struct{})
	defer close(watchDone)
	go func() {
		select {
		case <-watchDone:
		case <-ctx.Done():
			proc.Terminate()
			select {
			case <-proc.Exited():
			case <-time.After(terminateGrace):
				proc.Kill()
			case <-watchDone:
			}
		}
	}()

	for {
		line, err := proc.ReadLine()
		if err != nil {
			// EOF or a pipe torn down by termination; either way the
			// stream is over and the exit status decides the outcome.
			break
		}

		var data map[string]interface{}
		if err := json.Unmarshal(line, &data); err != nil {
			// The CLI occasionally interleaves plain diagnostics.
			logger.G(ctx).WithField("line", string(line)).Debug("skipping non-JSON output line")
			continue
		}

		ev := ParseEvent(data)
		if id := ev.Meta().ConversationID; id != "" {
			c.setConversationID(id)
		}

		select {
		case stream.events <- ev:
		case <-ctx.Done():
			// Receiver is gone. Drop the event; the watcher is already
			// tearing the process down.
			_, _, _ = proc.Wait()
			stream.err = ctx.Err()
			return
		}
	}

	exitCode, stderr, waitErr := proc.Wait()

	switch {
	case ctx.Err() != nil:
		stream.err = ctx.Err()
	case waitErr != nil:
		stream.err = &ProcessError{Message: "kodelet process failed", Cause: waitErr}
	case exitCode != 0:
		stream.err = &ExecError{ExitCode: exitCode, Stderr: stderr}
	}
}

// writeMCPConfigFile renders the MCP server set to a temp YAML file
// and returns its path. The caller owns removal.
func writeMCPConfigFile(servers []MCPServer) (string, error) {
	data, err := marshalMCPConfig(servers)
	if err != nil {
		return "", err
	}

	f, err := os.CreateTemp("", "kodelet-config-*.yaml")
	if err != nil {
		return "", &ProcessError{Message: "failed to create MCP config file", Cause: err}
	}

	if _, err := f.Write(data); err != nil {
		f.Close()
		os.Remove(f.Name())
		return "", &ProcessError{Message: "failed to write MCP config file", Cause: err}
	}
	if err := f.Close(); err != nil {
		os.Remove(f.Name())
		return "", &ProcessError{Message: "failed to write MCP config file", Cause: err}
	}
	return f.Name(), nil
}
