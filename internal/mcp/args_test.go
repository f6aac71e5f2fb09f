package mcp

import (
	"encoding/json"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func intPtr(n int) *int    { return &n }
func boolPtr(b bool) *bool { return &b }

func TestCreateContractArgs(t *testing.T) {
	got := createContractArgs("my_token", "erc20")
	want := []string{"new", "contract", "my_token", "--template", "erc20"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("args mismatch (-want +got):\n%s", diff)
	}

	got = createContractArgs("flipper", "")
	want = []string{"new", "contract", "flipper"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("args mismatch (-want +got):\n%s", diff)
	}
}

func TestCreateChainArgs(t *testing.T) {
	got := createChainArgs(createChainInput{
		Name:     "my_chain",
		Provider: "pop",
		Template: "r0gue-io/base-parachain",
		Symbol:   "POP",
		Decimals: intPtr(6),
	})
	want := []string{
		"new", "chain", "my_chain", "pop",
		"--template", "r0gue-io/base-parachain",
		"--symbol", "POP",
		"--decimals", "6",
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("args mismatch (-want +got):\n%s", diff)
	}

	got = createChainArgs(createChainInput{
		Name:     "lean",
		Provider: "parity",
		Template: "paritytech/polkadot-sdk-parachain-template",
	})
	want = []string{
		"new", "chain", "lean", "parity",
		"--template", "paritytech/polkadot-sdk-parachain-template",
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("args mismatch (-want +got):\n%s", diff)
	}
}

func TestBuildArgs(t *testing.T) {
	if diff := cmp.Diff(
		[]string{"build", "--path", "./c", "--release"},
		buildContractArgs("./c", true),
	); diff != "" {
		t.Errorf("contract release (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(
		[]string{"build", "--path", "./c"},
		buildContractArgs("./c", false),
	); diff != "" {
		t.Errorf("contract debug (-want +got):\n%s", diff)
	}

	// Chain builds default to release; only an explicit false disables it.
	if diff := cmp.Diff(
		[]string{"build", "--path", "./p", "--release"},
		buildChainArgs("./p", nil),
	); diff != "" {
		t.Errorf("chain default (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(
		[]string{"build", "--path", "./p"},
		buildChainArgs("./p", boolPtr(false)),
	); diff != "" {
		t.Errorf("chain debug (-want +got):\n%s", diff)
	}
}

func TestTestArgs(t *testing.T) {
	if diff := cmp.Diff(
		[]string{"test", "--path", "./c", "--e2e"},
		testContractArgs("./c", true),
	); diff != "" {
		t.Errorf("contract e2e (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(
		[]string{"test", "--path", "./p"},
		testChainArgs("./p"),
	); diff != "" {
		t.Errorf("chain (-want +got):\n%s", diff)
	}
}

func TestDeployContractArgs(t *testing.T) {
	got := deployContractArgs(deployContractInput{Path: "./my_contract"}, "")
	want := []string{"up", "./my_contract", "-y"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("minimal (-want +got):\n%s", diff)
	}

	got = deployContractArgs(deployContractInput{
		Path:        "./my_contract",
		Constructor: "new",
		Args:        "false 42",
		Value:       "100",
		Execute:     true,
		URL:         "ws://localhost:9944",
	}, "")
	want = []string{
		"up", "./my_contract", "-y",
		"--constructor", "new",
		"--args", "false", "42",
		"--value", "100",
		"--execute",
		"--url", "ws://localhost:9944",
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("full (-want +got):\n%s", diff)
	}
}

func TestDeployContractArgsURLFallback(t *testing.T) {
	// The remembered node URL fills in only when the caller gave none.
	got := deployContractArgs(deployContractInput{Path: "./c"}, "ws://localhost:9944")
	want := []string{"up", "./c", "-y", "--url", "ws://localhost:9944"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("fallback (-want +got):\n%s", diff)
	}

	got = deployContractArgs(deployContractInput{Path: "./c", URL: "ws://other:9944"}, "ws://localhost:9944")
	want = []string{"up", "./c", "-y", "--url", "ws://other:9944"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("explicit wins (-want +got):\n%s", diff)
	}
}

func TestCallContractArgs(t *testing.T) {
	got := callContractArgs(callContractInput{
		Path:     "./c",
		Contract: "5Gxyz",
		Message:  "transfer",
		Args:     "5Fabc 100",
		Value:    "10",
		Execute:  true,
		Suri:     "//Alice",
	}, "ws://localhost:9944")
	want := []string{
		"call", "contract",
		"--path", "./c",
		"--contract", "5Gxyz",
		"--message", "transfer",
		"-y",
		"--args", "5Fabc", "100",
		"--value", "10",
		"--suri", "//Alice",
		"--url", "ws://localhost:9944",
		"--execute",
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("full (-want +got):\n%s", diff)
	}

	got = callContractArgs(callContractInput{
		Path:     "./c",
		Contract: "5Gxyz",
		Message:  "get",
	}, "")
	want = []string{
		"call", "contract",
		"--path", "./c",
		"--contract", "5Gxyz",
		"--message", "get",
		"-y",
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("dry query (-want +got):\n%s", diff)
	}
}

func TestCallChainArgs(t *testing.T) {
	got := callChainArgs(callChainInput{URL: "ws://localhost:9944", Metadata: true}, "//Alice")
	want := []string{"call", "chain", "--url", "ws://localhost:9944", "--metadata"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("metadata ignores suri (-want +got):\n%s", diff)
	}

	got = callChainArgs(callChainInput{URL: "ws://localhost:9944", Metadata: true, Pallet: "balances"}, "")
	want = []string{"call", "chain", "--url", "ws://localhost:9944", "--metadata", "--pallet", "balances"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("metadata pallet (-want +got):\n%s", diff)
	}

	got = callChainArgs(callChainInput{
		URL:      "ws://localhost:9944",
		Pallet:   "balances",
		Function: "transfer_allow_death",
		Args:     []string{"Id(5Fabc)", "100"},
		Sudo:     true,
	}, "//Alice")
	want = []string{
		"call", "chain", "--url", "ws://localhost:9944",
		"--pallet", "balances",
		"--function", "transfer_allow_death",
		"--args", "Id(5Fabc)", "100",
		"--suri", "//Alice",
		"--sudo",
		"-y",
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("dispatch (-want +got):\n%s", diff)
	}
}

func TestConvertAddressArgs(t *testing.T) {
	got := convertAddressArgs("0xdeadbeef")
	want := []string{"convert", "address", "0xdeadbeef"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("args mismatch (-want +got):\n%s", diff)
	}
}

func TestPopHelpArgs(t *testing.T) {
	if diff := cmp.Diff([]string{"--help"}, popHelpArgs("")); diff != "" {
		t.Errorf("bare (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"new", "contract", "--help"}, popHelpArgs("new contract")); diff != "" {
		t.Errorf("subcommand (-want +got):\n%s", diff)
	}
}

func TestFlexString(t *testing.T) {
	var f flexString
	if err := json.Unmarshal([]byte(`"false 42"`), &f); err != nil {
		t.Fatalf("string: %v", err)
	}
	if f != "false 42" {
		t.Errorf("string: got %q", f)
	}

	if err := json.Unmarshal([]byte(`true`), &f); err != nil {
		t.Fatalf("bool: %v", err)
	}
	if f != "true" {
		t.Errorf("bool: got %q", f)
	}

	if err := json.Unmarshal([]byte(`42`), &f); err == nil {
		t.Error("number should be rejected")
	}
}
