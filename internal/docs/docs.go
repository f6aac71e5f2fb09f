// Package docs implements deterministic documentation lookup for the
// Polkadot/ink ecosystem. Entries are curated and matched locally by tag,
// so search results do not depend on any remote service being up.
package docs

import (
	"sort"
	"strings"
)

// Entry maps a topic to its documentation location.
type Entry struct {
	Topic   string   // short human label (e.g. "ink! smart contracts")
	URL     string   // canonical documentation URL
	Summary string   // one-line description shown in results
	Tags    []string // terms that trigger this entry
}

// Registry holds documentation entries and resolves them by search terms.
type Registry struct {
	Entries []Entry
}

// NewRegistry creates a Registry from the given entries.
func NewRegistry(entries []Entry) *Registry {
	return &Registry{Entries: entries}
}

// Search finds entries matching the query. Terms are matched
// case-insensitively against tags (exact) and against topic and summary
// text (substring). Results are ordered by how many terms matched, best
// first, capped at limit when limit is positive.
func (r *Registry) Search(query string, limit int) []Entry {
	terms := searchTerms(query)
	if len(terms) == 0 {
		return nil
	}

	type scored struct {
		entry Entry
		score int
	}
	var matched []scored
	for _, e := range r.Entries {
		if s := scoreEntry(e, terms); s > 0 {
			matched = append(matched, scored{entry: e, score: s})
		}
	}
	sort.SliceStable(matched, func(i, j int) bool {
		if matched[i].score != matched[j].score {
			return matched[i].score > matched[j].score
		}
		return matched[i].entry.Topic < matched[j].entry.Topic
	})

	out := make([]Entry, 0, len(matched))
	for _, m := range matched {
		out = append(out, m.entry)
		if limit > 0 && len(out) == limit {
			break
		}
	}
	return out
}

func searchTerms(query string) []string {
	seen := map[string]bool{}
	var terms []string
	for _, f := range strings.Fields(query) {
		lower := strings.ToLower(strings.Trim(f, ".,;:!?\"'"))
		if lower != "" && !seen[lower] {
			seen[lower] = true
			terms = append(terms, lower)
		}
	}
	return terms
}

func scoreEntry(e Entry, terms []string) int {
	topic := strings.ToLower(e.Topic)
	summary := strings.ToLower(e.Summary)
	score := 0
	for _, term := range terms {
		hit := false
		for _, tag := range e.Tags {
			if strings.ToLower(tag) == term {
				hit = true
				break
			}
		}
		if !hit && (strings.Contains(topic, term) || strings.Contains(summary, term)) {
			hit = true
		}
		if hit {
			score++
		}
	}
	return score
}

// Default returns the curated registry served by search_documentation.
func Default() *Registry {
	return NewRegistry([]Entry{
		{
			Topic:   "Pop CLI reference",
			URL:     "https://learn.onpop.io/",
			Summary: "Command reference and guides for pop: new, build, test, up, call, clean.",
			Tags:    []string{"pop", "cli", "pop-cli", "command", "commands"},
		},
		{
			Topic:   "ink! smart contracts",
			URL:     "https://use.ink/",
			Summary: "The ink! language book: contract structure, storage, messages, events.",
			Tags:    []string{"ink", "ink!", "contract", "contracts", "smart-contract"},
		},
		{
			Topic:   "Contract build and deployment",
			URL:     "https://use.ink/getting-started/deploy-your-contract",
			Summary: "Building contracts and deploying them to a local node or live chain.",
			Tags:    []string{"deploy", "deployment", "instantiate", "build", "constructor", "salt"},
		},
		{
			Topic:   "Local dev nodes",
			URL:     "https://learn.onpop.io/contracts/guides/launch-a-local-node",
			Summary: "Running a local ink node for development, default RPC on ws://localhost:9944.",
			Tags:    []string{"node", "ink-node", "local", "dev", "9944"},
		},
		{
			Topic:   "Zombienet topologies",
			URL:     "https://paritytech.github.io/zombienet/",
			Summary: "Multi-node test networks: network config files, relay and parachain setup.",
			Tags:    []string{"zombienet", "network", "topology", "relay", "parachain", "collator"},
		},
		{
			Topic:   "Chain metadata and extrinsics",
			URL:     "https://docs.polkadot.com/develop/",
			Summary: "Pallets, extrinsics, storage queries and constants; how calls are encoded.",
			Tags:    []string{"pallet", "extrinsic", "metadata", "storage", "constant", "call"},
		},
		{
			Topic:   "Addresses and keys",
			URL:     "https://wiki.polkadot.network/docs/learn-account-advanced",
			Summary: "SS58 and Ethereum-style addresses, dev accounts, key derivation paths.",
			Tags:    []string{"address", "ss58", "account", "accountid", "key", "suri", "convert"},
		},
		{
			Topic:   "polkadot.js API",
			URL:     "https://polkadot.js.org/docs/",
			Summary: "JavaScript API for talking to nodes over the WebSocket RPC endpoint.",
			Tags:    []string{"polkadot.js", "polkadotjs", "api", "rpc", "websocket"},
		},
		{
			Topic:   "Polkadot wiki",
			URL:     "https://wiki.polkadot.network/",
			Summary: "Protocol-level concepts: staking, governance, parachains, XCM.",
			Tags:    []string{"polkadot", "wiki", "xcm", "governance", "staking"},
		},
		{
			Topic:   "Substrate FRAME pallets",
			URL:     "https://docs.polkadot.com/develop/parachains/customize-parachain/overview/",
			Summary: "Runtime development with FRAME: writing and composing pallets.",
			Tags:    []string{"frame", "runtime", "substrate", "pallets"},
		},
	})
}
