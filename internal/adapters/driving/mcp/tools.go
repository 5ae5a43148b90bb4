package mcp

import (
	"context"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/custodia-labs/xwb/internal/core/domain"
)

// ImportInput is the input schema for the import_xws tool.
type ImportInput struct {
	XWS string `json:"xws" jsonschema:"the XWS squad as JSON text"`
}

// ImportOutput is the output schema for the import_xws tool.
type ImportOutput struct {
	ID          string             `json:"id"`
	XWS         map[string]any     `json:"xws"`
	Diagnostics []DiagnosticOutput `json:"diagnostics"`
	PilotsIn    int                `json:"pilots_in"`
	PilotsOut   int                `json:"pilots_out"`
}

// DiagnosticOutput is one finding reported by import_xws.
type DiagnosticOutput struct {
	Code     string `json:"code"`
	Severity string `json:"severity"`
	Message  string `json:"message"`
	Pilot    string `json:"pilot,omitempty"`
	Slot     string `json:"slot,omitempty"`
}

// registerTools registers all tool handlers with the MCP server.
func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name: "import_xws",
		Description: "Validate an XWS squad list and cleanse it against the reference card data. " +
			"Returns the normalised squad with recomputed pilot points and the list of corrections made.",
	}, s.handleImport)
}

// handleImport handles the import_xws tool invocation.
func (s *Server) handleImport(
	_ context.Context,
	_ *mcp.CallToolRequest,
	input ImportInput,
) (*mcp.CallToolResult, ImportOutput, error) {
	if strings.TrimSpace(input.XWS) == "" {
		return nil, ImportOutput{}, ErrEmptySquad
	}

	result, err := s.ports.Import.ImportJSON([]byte(input.XWS))
	if err != nil {
		return nil, ImportOutput{}, err
	}

	output := ImportOutput{
		ID:          result.ID,
		XWS:         map[string]any(result.Squad),
		Diagnostics: make([]DiagnosticOutput, len(result.Diagnostics)),
		PilotsIn:    result.PilotsIn,
		PilotsOut:   result.PilotsOut,
	}
	for i, d := range result.Diagnostics {
		output.Diagnostics[i] = toDiagnosticOutput(d)
	}

	return nil, output, nil
}

func toDiagnosticOutput(d domain.Diagnostic) DiagnosticOutput {
	return DiagnosticOutput{
		Code:     string(d.Code),
		Severity: string(d.Severity),
		Message:  d.Message,
		Pilot:    d.Pilot,
		Slot:     d.Slot,
	}
}
