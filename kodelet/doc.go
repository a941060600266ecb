// Package kodelet provides a Go SDK for driving the kodelet CLI.
//
// The SDK spawns `kodelet run` in headless mode, streams its NDJSON
// event output as typed events, and manages per-query artifacts (MCP
// server config, hook scripts) with guaranteed cleanup. It also wraps
// the CLI's conversation directory (list, show, delete, fork).
//
// # Quick Start
//
// For a simple query returning the assistant's text:
//
//	client, err := kodelet.New()
//	if err != nil {
//	    log.Fatal(err)
//	}
//	text, err := client.Run(ctx, "What is 2+2?")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(text)
//
// # Streaming Usage
//
// For the full event stream, including tool calls and typed tool
// results:
//
//	stream, err := client.Query(ctx, "Summarize the repo layout")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	for event := range stream.Events() {
//	    switch e := event.(type) {
//	    case kodelet.TextDeltaEvent:
//	        fmt.Print(e.Delta)
//	    case kodelet.ToolUseEvent:
//	        fmt.Printf("\n[tool: %s]\n", e.ToolName)
//	    case kodelet.ToolResultEvent:
//	        if result, err := e.DecodeResult(); err == nil {
//	            if bash, ok := result.(kodelet.BashResult); ok {
//	                fmt.Printf("exit %d in %s\n", bash.ExitCode, bash.ExecutionTime)
//	            }
//	        }
//	    }
//	}
//	if err := stream.Err(); err != nil {
//	    log.Fatal(err)
//	}
//
// # Hooks
//
// Hooks run inside the SDK host process. The CLI invokes small shim
// scripts that re-exec the host binary, so main must hand control to
// RunHookProcess before doing anything else:
//
//	func main() {
//	    kodelet.RunHookProcess(auditHook)
//	    // normal startup continues when not invoked as a hook
//	}
//
// Register hooks on the client with WithHooks; the SDK writes the shim
// scripts under <workdir>/.kodelet/hooks for the duration of each
// query.
package kodelet
