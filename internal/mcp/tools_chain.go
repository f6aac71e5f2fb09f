package mcp

import (
	"context"
	"fmt"
	"strings"

	"popmcp/internal/docs"
	"popmcp/internal/pop"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
)

type createChainInput struct {
	Name     string `json:"name" jsonschema:"Name of the chain project directory (alphanumeric characters and underscores only)"`
	Provider string `json:"provider" jsonschema:"Template provider: 'pop', 'openzeppelin', or 'parity'"`
	Template string `json:"template" jsonschema:"Full template path: 'r0gue-io/base-parachain', 'r0gue-io/assets-parachain', 'r0gue-io/contracts-parachain' (pop), 'openzeppelin/generic-template', 'openzeppelin/evm-template' (openzeppelin), 'paritytech/polkadot-sdk-parachain-template' (parity)"`
	Symbol   string `json:"symbol,omitempty" jsonschema:"Native token symbol (default: 'UNIT') - only applies to Pop templates"`
	Decimals *int   `json:"decimals,omitempty" jsonschema:"Token decimals (default: 12) - only applies to Pop templates"`
}

// templatePrefixes maps each provider to the org prefix its templates
// carry.
var templatePrefixes = map[string]string{
	"pop":          "r0gue-io/",
	"openzeppelin": "openzeppelin/",
	"parity":       "paritytech/",
}

func validateCreateChain(in createChainInput) error {
	if in.Name == "" {
		return invalidInput("Chain name cannot be empty")
	}
	if !validName(in.Name) {
		return invalidInput("Chain names can only contain alphanumeric characters and underscores")
	}
	prefix, ok := templatePrefixes[strings.ToLower(in.Provider)]
	if !ok {
		return invalidInput(fmt.Sprintf("Invalid provider '%s'. Valid providers: pop, openzeppelin, parity", in.Provider))
	}
	if !strings.HasPrefix(strings.ToLower(in.Template), prefix) {
		return invalidInput(fmt.Sprintf("Template '%s' does not match provider '%s'. Use a template from the correct provider.", in.Template, in.Provider))
	}
	return nil
}

// createChainFailures are output fragments that mean the scaffold did not
// happen even though pop exited zero.
var createChainFailures = []string{
	"directory already exists",
	"doesn't support",
	"incorrect initial endowment",
}

func (s *Server) handleCreateChain(ctx context.Context, _ *sdkmcp.CallToolRequest, in createChainInput) (*sdkmcp.CallToolResult, any, error) {
	if err := validateCreateChain(in); err != nil {
		return nil, nil, err
	}
	out, err := s.runner.Run(ctx, createChainArgs(in)...)
	if err != nil {
		return errorResult(fmt.Sprintf("Failed to create chain: %s", err)), nil, nil
	}
	for _, marker := range createChainFailures {
		if strings.Contains(out, marker) {
			return errorResult(fmt.Sprintf("Failed to create chain: %s", out)), nil, nil
		}
	}
	return textResult(fmt.Sprintf(
		"Successfully created chain project: %s\n\nNext steps:\n1. cd %s\n2. pop build --release\n3. pop up network -f ./network.toml\n\n%s",
		in.Name, in.Name, out)), nil, nil
}

type buildChainInput struct {
	Path    string `json:"path" jsonschema:"Path to the chain project directory"`
	Release *bool  `json:"release,omitempty" jsonschema:"Build in release mode with optimizations (default: true)"`
}

func (s *Server) handleBuildChain(ctx context.Context, _ *sdkmcp.CallToolRequest, in buildChainInput) (*sdkmcp.CallToolResult, any, error) {
	if in.Path == "" {
		return nil, nil, invalidInput("Path cannot be empty")
	}
	if _, err := s.runner.Run(ctx, buildChainArgs(in.Path, in.Release)...); err != nil {
		return errorResult(fmt.Sprintf("Chain build failed: %s", err)), nil, nil
	}
	return textResult("Chain build successful!"), nil, nil
}

type testChainInput struct {
	Path string `json:"path" jsonschema:"Path to the chain project directory"`
}

func (s *Server) handleTestChain(ctx context.Context, _ *sdkmcp.CallToolRequest, in testChainInput) (*sdkmcp.CallToolResult, any, error) {
	if in.Path == "" {
		return nil, nil, invalidInput("Path cannot be empty")
	}
	out, err := s.runner.Run(ctx, testChainArgs(in.Path)...)
	if err != nil {
		return errorResult(fmt.Sprintf("Tests failed: %s", err)), nil, nil
	}
	return textResult("Tests completed!\n\n" + out), nil, nil
}

type callChainInput struct {
	URL      string   `json:"url" jsonschema:"WebSocket URL of the chain node (e.g., ws://localhost:9944)"`
	Pallet   string   `json:"pallet,omitempty" jsonschema:"Pallet name (e.g., 'system', 'balances'). Use with metadata=true to list all pallets."`
	Function string   `json:"function,omitempty" jsonschema:"Extrinsic, storage key, or constant name to call. Not allowed with metadata=true."`
	Args     []string `json:"args,omitempty" jsonschema:"Arguments for the call as separate list entries"`
	Sudo     bool     `json:"sudo,omitempty" jsonschema:"Execute with root origin via sudo pallet. Not allowed with metadata=true."`
	Metadata bool     `json:"metadata,omitempty" jsonschema:"Display chain metadata. Use alone to list all pallets, or with pallet to show pallet details (extrinsics, storage, constants). Cannot be used with function, args, or sudo."`
}

func validateCallChain(in callChainInput) error {
	if in.Metadata {
		if in.Function != "" {
			return invalidInput("Cannot use 'function' with metadata=true")
		}
		if in.Args != nil {
			return invalidInput("Cannot use 'args' with metadata=true")
		}
		if in.Sudo {
			return invalidInput("Cannot use 'sudo' with metadata=true")
		}
		return nil
	}
	if in.Pallet == "" {
		return invalidInput("'pallet' is required when metadata is not set")
	}
	if in.Function == "" {
		return invalidInput("'function' is required when metadata is not set")
	}
	return nil
}

// metadataMissingPallet is the one failure pop reports inline when asked
// to describe a pallet it cannot find.
const metadataMissingPallet = "Failed to find the pallet"

func (s *Server) handleCallChain(ctx context.Context, _ *sdkmcp.CallToolRequest, in callChainInput) (*sdkmcp.CallToolResult, any, error) {
	if err := validateCallChain(in); err != nil {
		return nil, nil, err
	}
	out, err := s.runner.Run(ctx, callChainArgs(in, suriFromEnv())...)
	if err != nil {
		return errorResult(fmt.Sprintf("Chain call failed: %s", err)), nil, nil
	}
	if in.Metadata {
		if strings.Contains(out, metadataMissingPallet) {
			return errorResult(fmt.Sprintf("Chain call failed:\n\n%s", out)), nil, nil
		}
		return textResult(fmt.Sprintf("Chain metadata\n\n%s%s", out, docs.TypeHints)), nil, nil
	}
	// pop can exit zero while reporting a dispatch failure in its output.
	if pop.IsErrorOutput(out) {
		return errorResult(fmt.Sprintf("Chain call failed:\n\n%s", out)), nil, nil
	}
	return textResult("Chain call successful!\n\n" + out), nil, nil
}

type convertAddressInput struct {
	Address string `json:"address" jsonschema:"The Substrate or Ethereum address to convert (supports SS58 format or raw 32-byte hex)"`
}

func (s *Server) handleConvertAddress(ctx context.Context, _ *sdkmcp.CallToolRequest, in convertAddressInput) (*sdkmcp.CallToolResult, any, error) {
	if in.Address == "" {
		return nil, nil, invalidInput("Address cannot be empty")
	}
	out, err := s.runner.Run(ctx, convertAddressArgs(in.Address)...)
	if err != nil {
		return errorResult(fmt.Sprintf("Address conversion failed:\n\n%s", err)), nil, nil
	}
	return textResult(out), nil, nil
}
