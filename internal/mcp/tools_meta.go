package mcp

import (
	"context"
	"fmt"
	"strings"

	"popmcp/internal/display"
	"popmcp/internal/docs"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
)

// maxDocResults caps how many hits search_documentation returns.
const maxDocResults = 5

type checkInstallInput struct{}

func (s *Server) handleCheckInstallation(ctx context.Context, _ *sdkmcp.CallToolRequest, _ checkInstallInput) (*sdkmcp.CallToolResult, any, error) {
	out, err := s.runner.Run(ctx, "--version")
	if err != nil {
		return errorResult(fmt.Sprintf(
			"Pop CLI is not installed.\n\nError: %s\n\nTo install Pop CLI, use the install_pop_instructions tool.",
			err)), nil, nil
	}
	return textResult("Pop CLI is installed!\n\n" + out), nil, nil
}

type installInstructionsInput struct {
	Platform string `json:"platform,omitempty" jsonschema:"Platform: 'macos', 'linux', or 'source'"`
}

func (s *Server) handleInstallInstructions(_ context.Context, _ *sdkmcp.CallToolRequest, in installInstructionsInput) (*sdkmcp.CallToolResult, any, error) {
	return textResult(docs.InstallInstructions(in.Platform)), nil, nil
}

type popHelpInput struct {
	Command string `json:"command,omitempty" jsonschema:"Command to get help for"`
}

func (s *Server) handlePopHelp(ctx context.Context, _ *sdkmcp.CallToolRequest, in popHelpInput) (*sdkmcp.CallToolResult, any, error) {
	out, err := s.runner.Run(ctx, popHelpArgs(in.Command)...)
	if err != nil {
		return errorResult(fmt.Sprintf("Failed to get help: %s", err)), nil, nil
	}
	return textResult("Pop CLI Help:\n\n" + out), nil, nil
}

type searchDocsInput struct {
	Query string `json:"query" jsonschema:"Topic or keywords to search for"`
}

func (s *Server) handleSearchDocumentation(_ context.Context, _ *sdkmcp.CallToolRequest, in searchDocsInput) (*sdkmcp.CallToolResult, any, error) {
	if strings.TrimSpace(in.Query) == "" {
		return nil, nil, invalidInput("Query cannot be empty")
	}
	hits := s.docs.Search(in.Query, maxDocResults)
	if len(hits) == 0 {
		return textResult(fmt.Sprintf(
			"No documentation found for %q. Try broader keywords like 'contract', 'node', or 'zombienet'.",
			in.Query)), nil, nil
	}
	var b strings.Builder
	fmt.Fprintf(&b, "Documentation matching %q:\n", in.Query)
	for _, e := range hits {
		fmt.Fprintf(&b, "\n**%s**\n%s\n%s\n", e.Topic, e.URL, e.Summary)
	}
	return textResult(b.String()), nil, nil
}

type listTemplatesInput struct{}

func (s *Server) handleListTemplates(_ context.Context, _ *sdkmcp.CallToolRequest, _ listTemplatesInput) (*sdkmcp.CallToolResult, any, error) {
	return textResult(display.TemplateList()), nil, nil
}
