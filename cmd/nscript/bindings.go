package main

import (
	"io"
	"sort"
	"strconv"

	"gopkg.in/yaml.v3"

	"github.com/agenthands/nscript/pkg/core/env"
	"github.com/agenthands/nscript/pkg/core/value"
)

// writeBindings renders bindings as a YAML document with one mapping per
// non-empty namespace, in print precedence order. Names are sorted; struct
// fields keep their declaration order.
func writeBindings(w io.Writer, bindings map[value.Type]map[string]value.Value) error {
	doc := &yaml.Node{Kind: yaml.MappingNode}
	for _, t := range env.ResolveOrder {
		names := bindings[t]
		if len(names) == 0 {
			continue
		}
		keys := make([]string, 0, len(names))
		for name := range names {
			keys = append(keys, name)
		}
		sort.Strings(keys)

		ns := &yaml.Node{Kind: yaml.MappingNode}
		for _, name := range keys {
			ns.Content = append(ns.Content, scalar("!!str", name), valueNode(names[name]))
		}
		doc.Content = append(doc.Content, scalar("!!str", t.String()), ns)
	}

	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(doc); err != nil {
		return err
	}
	return enc.Close()
}

func valueNode(v value.Value) *yaml.Node {
	switch v.Type {
	case value.TypeInt:
		return intNode(v.Int)
	case value.TypeFloat:
		switch s := value.FormatFloat(v.Float); s {
		case "inf":
			return scalar("!!float", ".inf")
		case "-inf":
			return scalar("!!float", "-.inf")
		case "NaN":
			return scalar("!!float", ".nan")
		default:
			return scalar("!!float", s)
		}
	case value.TypeArray:
		n := &yaml.Node{Kind: yaml.SequenceNode, Style: yaml.FlowStyle}
		for _, el := range v.Array.Values() {
			n.Content = append(n.Content, intNode(el))
		}
		return n
	case value.TypeStruct:
		n := &yaml.Node{Kind: yaml.MappingNode}
		for _, f := range v.Struct.Fields() {
			n.Content = append(n.Content, scalar("!!str", f.Name), intNode(f.Value))
		}
		return n
	default:
		return scalar("!!str", v.Str)
	}
}

func intNode(i int32) *yaml.Node {
	return scalar("!!int", strconv.FormatInt(int64(i), 10))
}

func scalar(tag, v string) *yaml.Node {
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: tag, Value: v}
}
