package server

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/ironsheep/alphableed/internal/batch"
	"github.com/ironsheep/alphableed/internal/bleed"
	"github.com/ironsheep/alphableed/internal/imaging"
)

// ToolCallParams represents the parameters for a tools/call MCP request.
type ToolCallParams struct {
	// Name is the tool to invoke (e.g., "alpha_bleed_fix").
	Name string `json:"name"`

	// Arguments contains the tool-specific parameters as JSON.
	Arguments json.RawMessage `json:"arguments"`
}

// handleToolsCall processes a tools/call request and executes the specified tool.
//
// The response wraps the tool result in MCP's content format:
//
//	{
//	  "content": [{"type": "text", "text": "<JSON result>"}]
//	}
//
// Tool execution errors return a JSON-RPC error response with code -32000.
// Per-file repair failures are not tool errors; they are listed in the result.
func (s *Server) handleToolsCall(req *MCPRequest) *MCPResponse {
	var params ToolCallParams
	if err := json.Unmarshal(req.Params, &params); err != nil {
		return s.errorResponse(req.ID, -32602, "Invalid params", err.Error())
	}

	result, err := s.executeTool(params.Name, params.Arguments)
	if err != nil {
		s.logger.Warn("tool failed", "tool", params.Name, "error", err)
		return s.errorResponse(req.ID, -32000, "Tool execution failed", err.Error())
	}

	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      req.ID,
		Result: map[string]interface{}{
			"content": []map[string]interface{}{
				{
					"type": "text",
					"text": mustMarshalJSON(result),
				},
			},
		},
	}
}

func (s *Server) executeTool(name string, args json.RawMessage) (interface{}, error) {
	switch name {
	case "alpha_bleed_inspect":
		return s.handleInspect(args)
	case "alpha_bleed_fix":
		return s.handleFix(args)
	case "alpha_bleed_restore":
		return s.handleRestore(args)
	default:
		return nil, fmt.Errorf("unknown tool: %s", name)
	}
}

// errorResponse creates a JSON-RPC error response with the given details.
func (s *Server) errorResponse(id interface{}, code int, message, data string) *MCPResponse {
	resp := &MCPResponse{
		JSONRPC: "2.0",
		ID:      id,
		Error: &MCPError{
			Code:    code,
			Message: message,
		},
	}
	if data != "" {
		resp.Error.Data = data
	}
	return resp
}

// mustMarshalJSON converts a value to pretty-printed JSON string.
// On marshal failure, returns an empty string.
func mustMarshalJSON(v interface{}) string {
	b, _ := json.MarshalIndent(v, "", "  ")
	return string(b)
}

type pathArgs struct {
	Path string `json:"path"`
}

func decodePathArgs(args json.RawMessage) (string, error) {
	var a pathArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return "", err
	}
	if a.Path == "" {
		return "", errors.New("path is required")
	}
	return a.Path, nil
}

// InspectResult is the result of alpha_bleed_inspect.
type InspectResult struct {
	Path   string `json:"path"`
	Format string `json:"format"`
	*bleed.Report
	NeedsRepair bool `json:"needs_repair"`
}

func (s *Server) handleInspect(args json.RawMessage) (interface{}, error) {
	path, err := decodePathArgs(args)
	if err != nil {
		return nil, err
	}

	r, format, err := imaging.Load(path)
	if err != nil {
		return nil, err
	}

	report := bleed.Inspect(r)
	return &InspectResult{
		Path:        path,
		Format:      format.String(),
		Report:      report,
		NeedsRepair: report.NeedsRepair(),
	}, nil
}

type fixArgs struct {
	Paths    []string `json:"paths"`
	Strategy *string  `json:"strategy"`
	Debug    *bool    `json:"debug"`
	Backup   *bool    `json:"backup"`
	DryRun   *bool    `json:"dry_run"`
	Workers  *int     `json:"workers"`
}

// options merges the call arguments over the server defaults.
func (a *fixArgs) options(defaults batch.Options) (batch.Options, error) {
	opts := defaults
	if a.Strategy != nil {
		strategy, err := bleed.ParseStrategy(*a.Strategy)
		if err != nil {
			return opts, err
		}
		opts.Strategy = strategy
	}
	if a.Debug != nil {
		opts.Debug = *a.Debug
	}
	if a.Backup != nil {
		opts.Backup = *a.Backup
	}
	if a.DryRun != nil {
		opts.DryRun = *a.DryRun
	}
	if a.Workers != nil {
		opts.Workers = *a.Workers
	}
	return opts, nil
}

// FixResult is the result of alpha_bleed_fix.
type FixResult struct {
	*batch.Summary
	Rejected []batch.Rejection `json:"rejected,omitempty"`
}

func (s *Server) handleFix(args json.RawMessage) (interface{}, error) {
	var a fixArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	if len(a.Paths) == 0 {
		return nil, errors.New("paths is required")
	}

	opts, err := a.options(s.defaults)
	if err != nil {
		return nil, err
	}

	res := batch.Resolve(a.Paths)
	summary, err := batch.Run(res.Files, opts)
	if err != nil {
		return nil, err
	}
	return &FixResult{Summary: summary, Rejected: res.Rejected}, nil
}

// RestoreResult is the result of alpha_bleed_restore.
type RestoreResult struct {
	Path     string `json:"path"`
	Backup   string `json:"backup"`
	Restored bool   `json:"restored"`
}

func (s *Server) handleRestore(args json.RawMessage) (interface{}, error) {
	path, err := decodePathArgs(args)
	if err != nil {
		return nil, err
	}
	if err := imaging.RestoreBackup(path); err != nil {
		return nil, err
	}
	return &RestoreResult{Path: path, Backup: imaging.BackupPath(path), Restored: true}, nil
}
