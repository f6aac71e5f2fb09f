package mcp

import (
	"context"

	"popmcp/internal/docs"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
)

// registerResources publishes the type-hints document. It is the same text
// call_chain appends to metadata output, exposed so clients can read the
// argument encoding rules without running a command first.
func (s *Server) registerResources() {
	s.MCPServer.AddResource(&sdkmcp.Resource{
		URI:         docs.TypeHintsURI,
		Name:        docs.TypeHintsName,
		Title:       docs.TypeHintsTitle,
		Description: docs.TypeHintsDescription,
		MIMEType:    docs.TypeHintsMIMEType,
	}, s.readTypeHints)
}

func (s *Server) readTypeHints(_ context.Context, req *sdkmcp.ReadResourceRequest) (*sdkmcp.ReadResourceResult, error) {
	return &sdkmcp.ReadResourceResult{
		Contents: []*sdkmcp.ResourceContents{{
			URI:      req.Params.URI,
			MIMEType: docs.TypeHintsMIMEType,
			Text:     docs.TypeHints,
		}},
	}, nil
}
