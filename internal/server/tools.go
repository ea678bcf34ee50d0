package server

import "github.com/ironsheep/alphableed/internal/bleed"

// Tool represents an MCP tool definition
type Tool struct {
	Name        string                 `json:"name"`
	Description string                 `json:"description"`
	InputSchema map[string]interface{} `json:"inputSchema"`
}

func strategyNames() []string {
	names := make([]string, len(bleed.Strategies))
	for i, s := range bleed.Strategies {
		names[i] = string(s)
	}
	return names
}

// GetToolDefinitions returns all available tools
func GetToolDefinitions() []Tool {
	return []Tool{
		{
			Name:        "alpha_bleed_inspect",
			Description: "Classify the pixels of a PNG or TIFF file without modifying it. Reports border and transparent pixel counts, the most common border colors, and whether the file needs repair.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": map[string]interface{}{
						"type":        "string",
						"description": "Absolute path to the image file",
					},
				},
				"required": []string{"path"},
			},
		},
		{
			Name:        "alpha_bleed_fix",
			Description: "Fill the color channels of fully transparent pixels from nearby visible pixels so the image no longer shows dark fringes when filtered. Files are rewritten in place. Directories are expanded one level deep.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"paths": map[string]interface{}{
						"type":        "array",
						"items":       map[string]interface{}{"type": "string"},
						"description": "Image files or directories to repair",
					},
					"strategy": map[string]interface{}{
						"type":        "string",
						"enum":        strategyNames(),
						"description": "Fill algorithm. Default nearest",
					},
					"debug": map[string]interface{}{
						"type":        "boolean",
						"description": "Make filled pixels opaque so the result can be inspected. Default false",
					},
					"backup": map[string]interface{}{
						"type":        "boolean",
						"description": "Keep a compressed copy of each original next to it (.orig.zst). Default false",
					},
					"dry_run": map[string]interface{}{
						"type":        "boolean",
						"description": "Compute the repair but write nothing. Default false",
					},
					"workers": map[string]interface{}{
						"type":        "integer",
						"description": "Maximum number of files processed at once. Default: number of CPUs",
					},
				},
				"required": []string{"paths"},
			},
		},
		{
			Name:        "alpha_bleed_restore",
			Description: "Restore an image from the backup written by alpha_bleed_fix with backup enabled.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": map[string]interface{}{
						"type":        "string",
						"description": "Absolute path to the repaired image file",
					},
				},
				"required": []string{"path"},
			},
		},
	}
}

// handleToolsList returns the list of available tools
func (s *Server) handleToolsList(req *MCPRequest) *MCPResponse {
	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      req.ID,
		Result: map[string]interface{}{
			"tools": GetToolDefinitions(),
		},
	}
}
