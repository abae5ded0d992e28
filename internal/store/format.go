package store

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

// Format writes a human-readable dump of snap: a header line followed by
// every entity in insertion order with its handle, properties and values.
// The output depends only on the snapshot's content, so stores built with
// a fixed ID and scripted handles produce stable dumps.
//
// Example:
//
//	store 00000000-0000-0000-0000-000000000001 (strategy=value, version=1, entities=2)
//	- http://example.org/a [handle 00000000-0000-0000-0000-00000000000a]
//	    http://www.w3.org/2000/01/rdf-schema#label
//	      "A"^^string
//	    http://example.org/vocab#linkedTo
//	      <http://example.org/b>
//	- http://example.org/b [handle 00000000-0000-0000-0000-00000000000b]
//	    (no properties)
func Format(w io.Writer, snap *Snapshot) error {
	bw := bufio.NewWriter(w)
	fmt.Fprintf(bw, "store %s (strategy=%s, version=%d, entities=%d)\n",
		snap.StoreID(), snap.Strategy(), snap.Version(), snap.Len())
	for _, r := range snap.All() {
		fmt.Fprintf(bw, "- %s [handle %s]\n", r.Identity(), r.Handle())
		if len(r.properties) == 0 {
			bw.WriteString("    (no properties)\n")
			continue
		}
		for _, p := range r.properties {
			fmt.Fprintf(bw, "    %s\n", p.Predicate())
			for _, v := range p.Values() {
				fmt.Fprintf(bw, "      %s\n", v)
			}
		}
	}
	return bw.Flush()
}

// FormatString returns the Format dump as a string.
func FormatString(snap *Snapshot) string {
	var b strings.Builder
	_ = Format(&b, snap) // strings.Builder never fails
	return b.String()
}
