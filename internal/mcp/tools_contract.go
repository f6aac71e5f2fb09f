package mcp

import (
	"context"
	"fmt"
	"os"
	"unicode"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
)

// EnvPrivateKey names the signing key used for on-chain execution:
// deploy_contract requires it when execute=true, and call_chain picks it
// up as the default suri.
const EnvPrivateKey = "PRIVATE_KEY"

func suriFromEnv() string { return os.Getenv(EnvPrivateKey) }

// validName accepts project names made of letters, digits, and
// underscores.
func validName(name string) bool {
	for _, r := range name {
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '_' {
			return false
		}
	}
	return true
}

type createContractInput struct {
	Name     string `json:"name" jsonschema:"Name of the contract project (alphanumeric characters and underscores only)"`
	Template string `json:"template,omitempty" jsonschema:"Template to use (standard, erc20, erc721, erc1155, dns, cross-contract-calls, multisig)"`
	Path     string `json:"path,omitempty" jsonschema:"Directory to create the project in (defaults to the server working directory)"`
}

func (s *Server) handleCreateContract(ctx context.Context, _ *sdkmcp.CallToolRequest, in createContractInput) (*sdkmcp.CallToolResult, any, error) {
	if in.Name == "" {
		return nil, nil, invalidInput("Contract name cannot be empty")
	}
	if !validName(in.Name) {
		return nil, nil, invalidInput("Contract names can only contain alphanumeric characters and underscores")
	}
	runner := s.runner
	if in.Path != "" {
		runner = s.runnerAt(in.Path)
	}
	if _, err := runner.Run(ctx, createContractArgs(in.Name, in.Template)...); err != nil {
		return errorResult(fmt.Sprintf("Failed to create contract: %s", err)), nil, nil
	}
	return textResult(fmt.Sprintf("Successfully created contract: %s", in.Name)), nil, nil
}

type buildContractInput struct {
	Path    string `json:"path" jsonschema:"Path to the contract directory"`
	Release bool   `json:"release,omitempty" jsonschema:"Build in release mode with optimizations"`
}

func (s *Server) handleBuildContract(ctx context.Context, _ *sdkmcp.CallToolRequest, in buildContractInput) (*sdkmcp.CallToolResult, any, error) {
	if in.Path == "" {
		return nil, nil, invalidInput("Path cannot be empty")
	}
	if _, err := s.runner.Run(ctx, buildContractArgs(in.Path, in.Release)...); err != nil {
		return errorResult(fmt.Sprintf("Build failed: %s", err)), nil, nil
	}
	return textResult("Build successful!"), nil, nil
}

type testContractInput struct {
	Path string `json:"path" jsonschema:"Path to the contract directory"`
	E2E  bool   `json:"e2e,omitempty" jsonschema:"Run end-to-end tests"`
}

func (s *Server) handleTestContract(ctx context.Context, _ *sdkmcp.CallToolRequest, in testContractInput) (*sdkmcp.CallToolResult, any, error) {
	if in.Path == "" {
		return nil, nil, invalidInput("Path cannot be empty")
	}
	out, err := s.runner.Run(ctx, testContractArgs(in.Path, in.E2E)...)
	if err != nil {
		return errorResult(fmt.Sprintf("Tests failed: %s", err)), nil, nil
	}
	return textResult("Tests completed!\n\n" + out), nil, nil
}

type deployContractInput struct {
	Path        string     `json:"path" jsonschema:"Path to the contract directory (e.g., './my_contract' or 'my_contract')"`
	Constructor string     `json:"constructor,omitempty" jsonschema:"Constructor function to call"`
	Args        flexString `json:"args,omitempty" jsonschema:"Constructor arguments as space-separated values"`
	Value       string     `json:"value,omitempty" jsonschema:"Initial balance to transfer to the contract (in tokens)"`
	Execute     bool       `json:"execute,omitempty" jsonschema:"Submit an extrinsic for on-chain execution"`
	URL         string     `json:"url,omitempty" jsonschema:"WebSocket URL of the node"`
}

func (s *Server) handleDeployContract(ctx context.Context, _ *sdkmcp.CallToolRequest, in deployContractInput) (*sdkmcp.CallToolResult, any, error) {
	suri := suriFromEnv()
	if in.Execute && suri == "" {
		return nil, nil, invalidInput("PRIVATE_KEY environment variable is required when execute=true")
	}
	args := deployContractArgs(in, s.session.NodeURL())
	if in.Execute {
		args = append(args, "--suri", suri)
	}
	out, err := s.runner.Run(ctx, args...)
	if err != nil {
		return errorResult(fmt.Sprintf("Deployment failed:\n\n%s", err)), nil, nil
	}
	return textResult(out), nil, nil
}

type callContractInput struct {
	Path     string     `json:"path" jsonschema:"Path to the contract directory (needed for contract metadata)"`
	Contract string     `json:"contract" jsonschema:"Contract address"`
	Message  string     `json:"message" jsonschema:"Message/method to call"`
	Args     flexString `json:"args,omitempty" jsonschema:"Method arguments as space-separated values"`
	Value    string     `json:"value,omitempty" jsonschema:"Value to transfer with the call (in tokens)"`
	Execute  bool       `json:"execute,omitempty" jsonschema:"Submit an extrinsic for on-chain execution"`
	Suri     string     `json:"suri,omitempty" jsonschema:"Secret key URI for signing"`
	URL      string     `json:"url,omitempty" jsonschema:"WebSocket URL of the node"`
}

func (s *Server) handleCallContract(ctx context.Context, _ *sdkmcp.CallToolRequest, in callContractInput) (*sdkmcp.CallToolResult, any, error) {
	out, err := s.runner.Run(ctx, callContractArgs(in, s.session.NodeURL())...)
	if err != nil {
		return errorResult(fmt.Sprintf("Contract call failed: %s", err)), nil, nil
	}
	return textResult("Contract call successful!\n\n" + out), nil, nil
}
