package diagfmt

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"scenec/internal/ast"
)

// FormatTree prints the simplified tree as an indented outline:
//
//	scene attr="1 & >"
//	└── gltf-model
func FormatTree(w io.Writer, root *ast.SimpleNode) error {
	if root == nil {
		_, err := fmt.Fprintln(w, "(empty document)")
		return err
	}
	var b strings.Builder
	writeTreeNode(&b, root, "", "", true)
	_, err := io.WriteString(w, b.String())
	return err
}

func writeTreeNode(b *strings.Builder, n *ast.SimpleNode, prefix, branch string, root bool) {
	b.WriteString(prefix)
	b.WriteString(branch)
	b.WriteString(n.Tag)
	keys := make([]string, 0, len(n.Attrs))
	for k := range n.Attrs {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		fmt.Fprintf(b, " %s=%q", k, n.Attrs[k])
	}
	b.WriteByte('\n')

	childPrefix := prefix
	if !root {
		if branch == "└── " {
			childPrefix += "    "
		} else {
			childPrefix += "│   "
		}
	}
	for i, c := range n.Children {
		next := "├── "
		if i == len(n.Children)-1 {
			next = "└── "
		}
		writeTreeNode(b, c, childPrefix, next, false)
	}
}

// FormatTreeJSON writes the simplified tree as indented JSON.
func FormatTreeJSON(w io.Writer, root *ast.SimpleNode) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(root)
}

// FormatTreeYAML writes the simplified tree as YAML.
func FormatTreeYAML(w io.Writer, root *ast.SimpleNode) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(root); err != nil {
		return fmt.Errorf("encode yaml: %w", err)
	}
	return enc.Close()
}
