package lockfile

import (
	"gopkg.in/yaml.v3"

	errs "github.com/matzehuels/lockparse/pkg/errors"
)

// decodeYAMLStrict decodes text into plain Go values, rejecting duplicate
// mapping keys.
func decodeYAMLStrict(text string) (any, error) {
	var v any
	if err := yaml.Unmarshal([]byte(text), &v); err != nil {
		return nil, errs.Wrap(errs.ErrCodeInvalidYAML, err, "failed to parse YAML")
	}
	return normalizeYAML(v), nil
}

// decodeYAMLLenient decodes text through the node tree so that repeated
// mapping keys are accepted; the last occurrence wins.
func decodeYAMLLenient(text string) (any, error) {
	var root yaml.Node
	if err := yaml.Unmarshal([]byte(text), &root); err != nil {
		return nil, errs.Wrap(errs.ErrCodeInvalidYAML, err, "failed to parse YAML")
	}
	v, err := nodeValue(&root, 0)
	if err != nil {
		return nil, errs.Wrap(errs.ErrCodeInvalidYAML, err, "failed to parse YAML")
	}
	return v, nil
}

// maxAliasDepth bounds alias chains so self-referencing anchors cannot
// recurse forever.
const maxAliasDepth = 64

func nodeValue(n *yaml.Node, aliasDepth int) (any, error) {
	switch n.Kind {
	case yaml.DocumentNode:
		if len(n.Content) == 0 {
			return nil, nil
		}
		return nodeValue(n.Content[0], aliasDepth)

	case yaml.MappingNode:
		m := make(map[string]any, len(n.Content)/2)
		for i := 0; i+1 < len(n.Content); i += 2 {
			k, err := nodeValue(n.Content[i], aliasDepth)
			if err != nil {
				return nil, err
			}
			v, err := nodeValue(n.Content[i+1], aliasDepth)
			if err != nil {
				return nil, err
			}
			m[scalarString(k)] = v
		}
		return m, nil

	case yaml.SequenceNode:
		s := make([]any, 0, len(n.Content))
		for _, c := range n.Content {
			v, err := nodeValue(c, aliasDepth)
			if err != nil {
				return nil, err
			}
			s = append(s, v)
		}
		return s, nil

	case yaml.AliasNode:
		if n.Alias == nil || aliasDepth >= maxAliasDepth {
			return nil, nil
		}
		return nodeValue(n.Alias, aliasDepth+1)

	case yaml.ScalarNode:
		var v any
		if err := n.Decode(&v); err != nil {
			return nil, err
		}
		return v, nil
	}
	return nil, nil
}

// normalizeYAML rewrites map[any]any (non-string keys) into map[string]any so
// every decoded mapping has one shape.
func normalizeYAML(v any) any {
	switch x := v.(type) {
	case map[string]any:
		for k, e := range x {
			x[k] = normalizeYAML(e)
		}
		return x
	case map[any]any:
		m := make(map[string]any, len(x))
		for k, e := range x {
			m[scalarString(k)] = normalizeYAML(e)
		}
		return m
	case []any:
		for i, e := range x {
			x[i] = normalizeYAML(e)
		}
		return x
	}
	return v
}
