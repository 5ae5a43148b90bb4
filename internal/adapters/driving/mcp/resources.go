package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// uriScheme is the custom URI scheme for xwb resources.
const uriScheme = "xwb://"

// Card kinds addressable through xwb://cards/{kind}/{xws}.
const (
	cardPilot     = "pilot"
	cardShip      = "ship"
	cardUpgrade   = "upgrade"
	cardCondition = "condition"
)

// registerResources registers all resource handlers with the MCP server.
func (s *Server) registerResources() {
	s.server.AddResource(&mcp.Resource{
		URI:         uriScheme + "slots",
		Name:        "slots",
		Description: "XWS upgrade slot codes and their card slot names",
		MIMEType:    "application/json",
	}, s.handleSlotsResource)

	s.server.AddResourceTemplate(&mcp.ResourceTemplate{
		URITemplate: uriScheme + "cards/{kind}/{xws}",
		Name:        "card",
		Description: "Reference record for a pilot, ship, upgrade or condition by XWS id",
		MIMEType:    "application/json",
	}, s.handleCardResource)
}

// slotInfo is one entry of the xwb://slots listing.
type slotInfo struct {
	Code string `json:"code"`
	Name string `json:"name"`
}

// handleSlotsResource lists the slot bijection in code order.
func (s *Server) handleSlotsResource(
	_ context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	codes := s.ports.Catalog.SlotCodes()
	slots := make([]slotInfo, 0, len(codes))
	for _, code := range codes {
		name, _ := s.ports.Catalog.SlotNameFor(code)
		slots = append(slots, slotInfo{Code: code, Name: name})
	}

	return jsonResource(req.Params.URI, slots)
}

// handleCardResource returns one reference record.
func (s *Server) handleCardResource(
	_ context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	kind, id := extractCard(req.Params.URI)
	if id == "" {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}

	catalog := s.ports.Catalog
	var (
		record any
		ok     bool
	)
	switch kind {
	case cardPilot:
		record, ok = catalog.Pilot(id)
	case cardShip:
		record, ok = catalog.Ship(id)
	case cardUpgrade:
		record, ok = catalog.Upgrade(id)
	case cardCondition:
		record, ok = catalog.Condition(id)
	}
	if !ok {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}

	return jsonResource(req.Params.URI, record)
}

func jsonResource(uri string, v any) (*mcp.ReadResourceResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshalling %s: %w", uri, err)
	}

	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      uri,
			MIMEType: "application/json",
			Text:     string(data),
		}},
	}, nil
}

// extractCard splits a URI like xwb://cards/{kind}/{xws}.
func extractCard(uri string) (kind, id string) {
	const prefix = uriScheme + "cards/"

	rest, ok := strings.CutPrefix(uri, prefix)
	if !ok {
		return "", ""
	}

	kind, id, ok = strings.Cut(rest, "/")
	if !ok || kind == "" || strings.Contains(id, "/") {
		return "", ""
	}
	return kind, id
}
