package mcp

import (
	"strconv"
	"strings"
)

// Argument vectors for pop invocations, kept as pure functions so the
// exact CLI surface each tool hits is pinned by tests.

func createContractArgs(name, template string) []string {
	args := []string{"new", "contract", name}
	if template != "" {
		args = append(args, "--template", template)
	}
	return args
}

func createChainArgs(in createChainInput) []string {
	args := []string{"new", "chain", in.Name, in.Provider, "--template", in.Template}
	if in.Symbol != "" {
		args = append(args, "--symbol", in.Symbol)
	}
	if in.Decimals != nil {
		args = append(args, "--decimals", strconv.Itoa(*in.Decimals))
	}
	return args
}

func buildContractArgs(path string, release bool) []string {
	args := []string{"build", "--path", path}
	if release {
		args = append(args, "--release")
	}
	return args
}

// buildChainArgs defaults to release mode: chain artifacts are only useful
// as production builds.
func buildChainArgs(path string, release *bool) []string {
	args := []string{"build", "--path", path}
	if release == nil || *release {
		args = append(args, "--release")
	}
	return args
}

func testContractArgs(path string, e2e bool) []string {
	args := []string{"test", "--path", path}
	if e2e {
		args = append(args, "--e2e")
	}
	return args
}

func testChainArgs(path string) []string {
	return []string{"test", "--path", path}
}

func deployContractArgs(in deployContractInput, storedURL string) []string {
	args := []string{"up", in.Path, "-y"}
	if in.Constructor != "" {
		args = append(args, "--constructor", in.Constructor)
	}
	if in.Args != "" {
		args = append(args, "--args")
		args = append(args, strings.Fields(string(in.Args))...)
	}
	if in.Value != "" {
		args = append(args, "--value", in.Value)
	}
	if in.Execute {
		args = append(args, "--execute")
	}
	switch {
	case in.URL != "":
		args = append(args, "--url", in.URL)
	case storedURL != "":
		args = append(args, "--url", storedURL)
	}
	return args
}

func callContractArgs(in callContractInput, storedURL string) []string {
	args := []string{
		"call", "contract",
		"--path", in.Path,
		"--contract", in.Contract,
		"--message", in.Message,
		"-y",
	}
	if in.Args != "" {
		args = append(args, "--args")
		args = append(args, strings.Fields(string(in.Args))...)
	}
	if in.Value != "" {
		args = append(args, "--value", in.Value)
	}
	if in.Suri != "" {
		args = append(args, "--suri", in.Suri)
	}
	switch {
	case in.URL != "":
		args = append(args, "--url", in.URL)
	case storedURL != "":
		args = append(args, "--url", storedURL)
	}
	if in.Execute {
		args = append(args, "--execute")
	}
	return args
}

func callChainArgs(in callChainInput, suri string) []string {
	args := []string{"call", "chain", "--url", in.URL}

	if in.Metadata {
		args = append(args, "--metadata")
		if in.Pallet != "" {
			args = append(args, "--pallet", in.Pallet)
		}
		return args
	}

	if in.Pallet != "" {
		args = append(args, "--pallet", in.Pallet)
	}
	if in.Function != "" {
		args = append(args, "--function", in.Function)
	}
	if len(in.Args) > 0 {
		args = append(args, "--args")
		args = append(args, in.Args...)
	}
	if suri != "" {
		args = append(args, "--suri", suri)
	}
	if in.Sudo {
		args = append(args, "--sudo")
	}
	// Dispatch is always non-interactive.
	return append(args, "-y")
}

func convertAddressArgs(address string) []string {
	return []string{"convert", "address", address}
}

func popHelpArgs(command string) []string {
	if command == "" {
		return []string{"--help"}
	}
	return append(strings.Fields(command), "--help")
}
