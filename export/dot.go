package export

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/hupe1980/vaultgraph"
)

// WriteDOT renders every vault of s, in name order, as a Graphviz digraph.
// Vertices are keyed by id and labeled with their label; edges are labeled
// with their relation.
func WriteDOT(w io.Writer, s *vaultgraph.Store) error {
	bw := bufio.NewWriter(w)

	for _, vault := range s.Vaults() {
		edges, err := s.Edges(vaultgraph.InVault(vault))
		if err != nil {
			return err
		}

		fmt.Fprintf(bw, "digraph %s {\n", quoteDOT(vault))
		bw.WriteString("    node [shape=box];\n")

		seen := make(map[string]struct{})
		for _, e := range edges {
			from, to := e.Endpoints()
			for _, v := range [2]struct{ id, label string }{{from.ID(), from.Label()}, {to.ID(), to.Label()}} {
				if _, ok := seen[v.id]; ok {
					continue
				}
				seen[v.id] = struct{}{}
				fmt.Fprintf(bw, "    %s [label=%s];\n", quoteDOT(v.id), quoteDOT(v.label))
			}
		}
		for _, e := range edges {
			from, to := e.Endpoints()
			fmt.Fprintf(bw, "    %s -> %s [label=%s];\n", quoteDOT(from.ID()), quoteDOT(to.ID()), quoteDOT(e.Relation()))
		}

		bw.WriteString("}\n")
	}

	return bw.Flush()
}

var dotEscaper = strings.NewReplacer(`\`, `\\`, `"`, `\"`, "\n", `\n`)

func quoteDOT(s string) string {
	return `"` + dotEscaper.Replace(s) + `"`
}
