// Package server implements the MCP (Model Context Protocol) server for alpha-bleed repair.
//
// This package provides a JSON-RPC 2.0 server that exposes the repair pipeline
// through the MCP protocol, so MCP-compatible clients can inspect and fix
// sprite sheets and textures without shelling out to the CLI.
//
// # Protocol
//
// The server communicates over stdio using JSON-RPC 2.0:
//   - Input: JSON-RPC requests on stdin (one per line)
//   - Output: JSON-RPC responses on stdout
//
// Supported MCP methods:
//   - initialize: Protocol handshake
//   - tools/list: Enumerate available tools
//   - tools/call: Execute a tool with arguments
//   - ping: Health check
//
// # Available Tools
//
//   - alpha_bleed_inspect: Classify a file and report border/transparent counts
//   - alpha_bleed_fix: Repair files or directories with the nearest or flood strategy
//   - alpha_bleed_restore: Put back the original saved by a fix with backup enabled
//
// alpha_bleed_fix options that the call omits fall back to the defaults the
// server was created with, which the CLI takes from its flags and environment.
//
// # Error Handling
//
// Tool execution errors are returned as JSON-RPC error responses with:
//   - code: -32000 (tool execution failure) or standard JSON-RPC codes
//   - message: Human-readable error description
//   - data: Additional error details (typically the Go error string)
//
// A batch in which some files fail is still a successful tool call: each
// failure is listed in the result's outcomes with its cause.
//
// # Usage
//
//	srv := server.New(version, batch.Options{})
//	if err := srv.Run(); err != nil {
//	    log.Fatal(err)
//	}
package server
