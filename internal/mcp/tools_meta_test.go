package mcp

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCheckInstallation(t *testing.T) {
	s, runner, _ := newTestServer(t)
	ctx := context.Background()

	runner.out = "pop-cli 0.12.0"
	res, _, err := s.handleCheckInstallation(ctx, nil, checkInstallInput{})
	require.NoError(t, err)
	require.False(t, res.IsError)
	require.Equal(t, "Pop CLI is installed!\n\npop-cli 0.12.0", resultText(t, res))

	runner.err = errors.New(`exec: "pop": executable file not found in $PATH`)
	res, _, err = s.handleCheckInstallation(ctx, nil, checkInstallInput{})
	require.NoError(t, err)
	require.True(t, res.IsError)
	text := resultText(t, res)
	require.Contains(t, text, "Pop CLI is not installed.")
	require.Contains(t, text, "install_pop_instructions")
}

func TestInstallInstructions(t *testing.T) {
	s, _, _ := newTestServer(t)
	ctx := context.Background()

	res, _, err := s.handleInstallInstructions(ctx, nil, installInstructionsInput{})
	require.NoError(t, err)
	require.False(t, res.IsError)
	require.Contains(t, resultText(t, res), "brew install", "default platform is macos")

	res, _, err = s.handleInstallInstructions(ctx, nil, installInstructionsInput{Platform: "source"})
	require.NoError(t, err)
	require.Contains(t, resultText(t, res), "git clone")

	// Unknown platforms still answer, pointing at the valid ones.
	res, _, err = s.handleInstallInstructions(ctx, nil, installInstructionsInput{Platform: "windows"})
	require.NoError(t, err)
	require.False(t, res.IsError)
	require.Contains(t, resultText(t, res), "Use 'macos', 'linux', or 'source'")
}

func TestPopHelp(t *testing.T) {
	s, runner, _ := newTestServer(t)
	ctx := context.Background()

	runner.out = "Usage: pop new contract [OPTIONS]"
	res, _, err := s.handlePopHelp(ctx, nil, popHelpInput{Command: "new contract"})
	require.NoError(t, err)
	require.False(t, res.IsError)
	require.Equal(t, "Pop CLI Help:\n\nUsage: pop new contract [OPTIONS]", resultText(t, res))
	require.Equal(t, []string{"new", "contract", "--help"}, runner.last())

	runner.err = errors.New("no pop")
	res, _, err = s.handlePopHelp(ctx, nil, popHelpInput{})
	require.NoError(t, err)
	require.True(t, res.IsError)
	require.Contains(t, resultText(t, res), "Failed to get help:")
	require.Equal(t, []string{"--help"}, runner.last())
}

func TestSearchDocumentation(t *testing.T) {
	s, _, _ := newTestServer(t)
	ctx := context.Background()

	_, _, err := s.handleSearchDocumentation(ctx, nil, searchDocsInput{Query: "  "})
	require.EqualError(t, err, "Invalid input: Query cannot be empty")

	res, _, err := s.handleSearchDocumentation(ctx, nil, searchDocsInput{Query: "contract"})
	require.NoError(t, err)
	require.False(t, res.IsError)
	text := resultText(t, res)
	require.Contains(t, text, `Documentation matching "contract":`)
	require.Contains(t, text, "https://", "entries carry their URLs")

	res, _, err = s.handleSearchDocumentation(ctx, nil, searchDocsInput{Query: "qqqxyzzy"})
	require.NoError(t, err)
	require.False(t, res.IsError)
	require.Contains(t, resultText(t, res), `No documentation found for "qqqxyzzy"`)
}

func TestListTemplates(t *testing.T) {
	s, _, _ := newTestServer(t)
	res, _, err := s.handleListTemplates(context.Background(), nil, listTemplatesInput{})
	require.NoError(t, err)
	require.False(t, res.IsError)
	text := resultText(t, res)
	for _, code := range []string{"standard", "erc20", "erc721", "erc1155", "dns", "cross-contract-calls", "multisig"} {
		require.Contains(t, text, code)
	}
}
