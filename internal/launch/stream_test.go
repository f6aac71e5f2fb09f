package launch

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

const nodeLaunchOutput = "\n" +
	"┌   Pop CLI : Launch a local node\n" +
	"│\n" +
	"⚙  Local node started successfully:\n" +
	"│  portal: https://polkadot.js.org/apps/?rpc=ws://localhost:9944/#/explorer\n" +
	"│  url: ws://localhost:9944/\n" +
	"│  logs: tail -f /tmp/.tmpDGAoYa\n" +
	"│\n" +
	"⚙  Ethereum RPC node started successfully:\n" +
	"│  url: ws://localhost:8545\n" +
	"│  logs: tail -f /tmp/.tmptLAPcC\n" +
	"│\n" +
	"└  Node bootstrapped successfully. Run `kill -9 11040 11253` to terminate it.\n"

func TestParseNodeURL(t *testing.T) {
	url, ok := ParseNodeURL(nodeLaunchOutput, 9944)
	if !ok {
		t.Fatal("expected a URL")
	}
	if want := "ws://localhost:9944"; url != want {
		t.Errorf("url = %q, want %q", url, want)
	}
}

func TestParseNodeURL_IgnoresEthRPCLine(t *testing.T) {
	// With a custom node port the 8545 url line must not win.
	output := "│  url: ws://localhost:8545\n│  url: ws://localhost:9945/\n"
	url, ok := ParseNodeURL(output, 9945)
	if !ok || url != "ws://localhost:9945" {
		t.Errorf("ParseNodeURL = %q, %v; want the node line", url, ok)
	}
	if _, ok := ParseNodeURL("│  url: ws://localhost:8545\n", 9945); ok {
		t.Error("the Ethereum RPC line alone should not match")
	}
}

func TestParseNodeURL_Missing(t *testing.T) {
	if url, ok := ParseNodeURL("Some error occurred", 9944); ok {
		t.Errorf("expected no URL, got %q", url)
	}
}

func TestParsePIDs(t *testing.T) {
	tests := []struct {
		name   string
		output string
		want   []int
	}{
		{
			name:   "kill hint",
			output: nodeLaunchOutput,
			want:   []int{11040, 11253},
		},
		{
			name:   "pids line",
			output: "│ pids: 4242 4343\n",
			want:   []int{4242, 4343},
		},
		{
			name:   "kill hint with backtick",
			output: "Run `kill -9 999` to stop it\n",
			want:   []int{999},
		},
		{
			name:   "no pids",
			output: "nothing to see here\n",
			want:   nil,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ParsePIDs(tt.output)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("pids mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestFunnelLines(t *testing.T) {
	stdout := strings.NewReader("a1\na2\na3\n")
	stderr := strings.NewReader("b1\nb2\n")

	var outs, errs []string
	for ln := range funnelLines(stdout, stderr) {
		switch ln.stream {
		case "stdout":
			outs = append(outs, ln.text)
		case "stderr":
			errs = append(errs, ln.text)
		}
	}

	if diff := cmp.Diff([]string{"a1", "a2", "a3"}, outs); diff != "" {
		t.Errorf("stdout order mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"b1", "b2"}, errs); diff != "" {
		t.Errorf("stderr order mismatch (-want +got):\n%s", diff)
	}
}
