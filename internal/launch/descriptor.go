package launch

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"
)

// DescriptorName is the topology file zombienet drops into its base
// directory once every node in the network has been provisioned.
const DescriptorName = "zombie.json"

// NodeRecord is one node entry in the descriptor. Nodes that have not
// published an RPC endpoint leave ws_uri empty.
type NodeRecord struct {
	Name  string `json:"name,omitempty"`
	WSURI string `json:"ws_uri,omitempty"`
}

// RelaySection lists the relay chain's validator nodes.
type RelaySection struct {
	Nodes []NodeRecord `json:"nodes,omitempty"`
}

// ParachainRecord groups the collators serving one parachain.
type ParachainRecord struct {
	Collators []NodeRecord `json:"collators,omitempty"`
}

// Parachains accepts both shapes the descriptor is seen with in the wild:
// a flat list of parachain records, or a map keyed by parachain id whose
// values are lists. Map keys are walked in sorted order so extraction is
// deterministic.
type Parachains []ParachainRecord

func (p *Parachains) UnmarshalJSON(data []byte) error {
	var list []ParachainRecord
	if err := json.Unmarshal(data, &list); err == nil {
		*p = list
		return nil
	}
	var byID map[string][]ParachainRecord
	if err := json.Unmarshal(data, &byID); err != nil {
		return fmt.Errorf("parachains section: %w", err)
	}
	ids := make([]string, 0, len(byID))
	for id := range byID {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	var out []ParachainRecord
	for _, id := range ids {
		out = append(out, byID[id]...)
	}
	*p = out
	return nil
}

// TopologyDescriptor is the parsed zombie.json shape.
type TopologyDescriptor struct {
	Relay      RelaySection `json:"relay"`
	Parachains Parachains   `json:"parachains,omitempty"`
}

// ParseDescriptor decodes descriptor JSON, normalizing the parachain
// section as it goes.
func ParseDescriptor(data []byte) (*TopologyDescriptor, error) {
	var d TopologyDescriptor
	if err := json.Unmarshal(data, &d); err != nil {
		return nil, &ParseError{Op: "parse", Err: err}
	}
	return &d, nil
}

// ReadDescriptor loads and decodes the descriptor at path.
func ReadDescriptor(path string) (*TopologyDescriptor, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &ParseError{Op: "read", Path: path, Err: err}
	}
	d, err := ParseDescriptor(data)
	if err != nil {
		var pe *ParseError
		if errors.As(err, &pe) {
			pe.Path = path
		}
		return nil, err
	}
	return d, nil
}

// RelayEndpoint returns the first relay node with a published endpoint.
func (d *TopologyDescriptor) RelayEndpoint() (Endpoint, error) {
	for _, n := range d.Relay.Nodes {
		if n.WSURI == "" {
			continue
		}
		ep, err := ParseEndpoint(RoleRelay, n.WSURI)
		if err != nil {
			continue
		}
		return ep, nil
	}
	return Endpoint{}, &ParseError{Field: "relay ws_uri"}
}

// ChainEndpoints returns the first published collator endpoint of each
// parachain. Parachains whose collators have no endpoint yet are skipped.
func (d *TopologyDescriptor) ChainEndpoints() []Endpoint {
	var eps []Endpoint
	for _, para := range d.Parachains {
		for _, c := range para.Collators {
			if c.WSURI == "" {
				continue
			}
			ep, err := ParseEndpoint(RoleChain, c.WSURI)
			if err != nil {
				continue
			}
			eps = append(eps, ep)
			break
		}
	}
	return eps
}

// Endpoints extracts the relay endpoint followed by one endpoint per
// parachain. Only the relay is mandatory; a topology without parachains
// yields a single-element slice.
func (d *TopologyDescriptor) Endpoints() ([]Endpoint, error) {
	relay, err := d.RelayEndpoint()
	if err != nil {
		return nil, err
	}
	return append([]Endpoint{relay}, d.ChainEndpoints()...), nil
}

// FindDescriptor scans dir for zombie-* base directories containing a
// descriptor and returns the path of the newest one by directory mtime.
// Several can coexist when earlier networks were not cleaned up; the
// freshest belongs to the launch in progress.
func FindDescriptor(dir string) (string, bool) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return "", false
	}
	var newestPath string
	var newestMod time.Time
	for _, entry := range entries {
		if !entry.IsDir() || !strings.HasPrefix(entry.Name(), "zombie-") {
			continue
		}
		path := filepath.Join(dir, entry.Name(), DescriptorName)
		fi, err := os.Stat(path)
		if err != nil || fi.IsDir() {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		if newestPath == "" || info.ModTime().After(newestMod) {
			newestPath, newestMod = path, info.ModTime()
		}
	}
	return newestPath, newestPath != ""
}

// networkEndpoints reads the descriptor and requires both a relay and at
// least one parachain endpoint, which is what a zombienet launch through
// pop always provisions.
func networkEndpoints(path string) ([]Endpoint, error) {
	d, err := ReadDescriptor(path)
	if err != nil {
		return nil, err
	}
	relay, err := d.RelayEndpoint()
	if err != nil {
		return nil, err
	}
	chains := d.ChainEndpoints()
	if len(chains) == 0 {
		return nil, &ParseError{Field: "chain ws_uri"}
	}
	return append([]Endpoint{relay}, chains...), nil
}

// WaitNetworkEndpoints polls the descriptor until it parses with the
// required endpoints. zombienet writes the file before the nodes have
// registered their RPC URLs, so absence and partial content are both
// "not yet" rather than errors until the budget runs out.
func WaitNetworkEndpoints(ctx context.Context, path string, timeout time.Duration) ([]Endpoint, error) {
	if timeout <= 0 {
		timeout = DefaultEndpointTimeout
	}
	deadline := time.Now().Add(timeout)
	for {
		eps, err := networkEndpoints(path)
		if err == nil {
			return eps, nil
		}
		if !time.Now().Before(deadline) {
			return nil, &TimeoutError{Stage: "zombie.json to be readable/valid", Budget: timeout, Err: err}
		}
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(pollInterval):
		}
	}
}
