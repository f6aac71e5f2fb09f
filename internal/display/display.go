// Package display provides human-readable names for machine codes.
//
// Rule: code is for machines, words are for humans.
// Use these functions in CLI output, markdown reports, logs, and docs.
// Keep raw codes for JSON fields, map keys, and equality comparisons.
package display

import (
	"fmt"
	"strings"
)

// --- Contract Templates ---

// templateCatalog lists the ink! templates pop can scaffold, in the
// order they are presented to users.
var templateCatalog = []struct {
	Code    string
	Summary string
}{
	{"standard", "Basic flipper contract (boolean toggle)"},
	{"erc20", "ERC20 fungible token implementation"},
	{"erc721", "ERC721 NFT implementation"},
	{"erc1155", "ERC1155 multi-token implementation"},
	{"dns", "Domain Name Service contract"},
	{"cross-contract-calls", "Example of calling other contracts"},
	{"multisig", "Multi-signature wallet contract"},
}

// Template returns the one-line summary for a template code.
// Unknown codes are returned as-is.
func Template(code string) string {
	for _, t := range templateCatalog {
		if t.Code == code {
			return t.Summary
		}
	}
	return code
}

// TemplateCodes returns the template codes in presentation order.
func TemplateCodes() []string {
	codes := make([]string, len(templateCatalog))
	for i, t := range templateCatalog {
		codes[i] = t.Code
	}
	return codes
}

// TemplateList renders the numbered markdown catalog shown by the
// list_templates tool.
func TemplateList() string {
	var b strings.Builder
	b.WriteString("Available ink! Contract Templates:\n")
	for i, t := range templateCatalog {
		fmt.Fprintf(&b, "\n%d. **%s** - %s", i+1, t.Code, t.Summary)
	}
	return b.String()
}

// --- Launch Kinds ---

var kinds = map[string]string{
	"node":    "Ink Node",
	"network": "Zombienet Network",
}

// Kind returns the human-readable name for a launch kind code.
// Unknown codes are returned as-is.
func Kind(code string) string {
	if name, ok := kinds[code]; ok {
		return name
	}
	return code
}

// --- Launch States ---

var states = map[string]string{
	"ready":     "Ready",
	"failed":    "Failed",
	"timed_out": "Timed Out",
}

// State returns the human-readable name for a launch state code.
// "timed_out" -> "Timed Out".
func State(code string) string {
	if name, ok := states[code]; ok {
		return name
	}
	return code
}

// --- Endpoint Roles ---

var roles = map[string]string{
	"relay": "Relay",
	"chain": "Chain",
}

// Role returns the human-readable name for an endpoint role code.
func Role(code string) string {
	if name, ok := roles[code]; ok {
		return name
	}
	return code
}
