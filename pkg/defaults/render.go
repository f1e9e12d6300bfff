package defaults

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"

	"sitecms/pkg/document"
	"sitecms/pkg/models"
)

// indent is the per-level indentation of default-content files.
const indent = " "

func render(doc object, fields []models.Field) ([]byte, error) {
	node, err := valueNode("", doc, fields)
	if err != nil {
		return nil, err
	}
	return []byte(document.Render(indent, node)), nil
}

// valueNode renders value behind prefix. fields, when known, fixes the key
// order of objects; keys the schema does not know follow in sorted order.
func valueNode(prefix string, value any, fields []models.Field) (document.Node, error) {
	switch v := value.(type) {
	case object:
		return objectNode(prefix, v, fields)
	case models.Record:
		return objectNode(prefix, orderedMembers(v, fields), fields)
	case map[string]any:
		return objectNode(prefix, orderedMembers(v, fields), fields)
	case map[any]any:
		m := make(map[string]any, len(v))
		for k, inner := range v {
			m[fmt.Sprint(k)] = inner
		}
		return objectNode(prefix, orderedMembers(m, fields), fields)
	case []any:
		if len(v) == 0 {
			return document.Line(prefix + "[]"), nil
		}
		items := make([]document.Node, 0, len(v))
		for _, item := range v {
			n, err := valueNode("", item, fields)
			if err != nil {
				return nil, err
			}
			items = append(items, n)
		}
		return document.Block{Open: prefix + "[", Body: document.Join(items, ","), Close: "]"}, nil
	default:
		scalar, err := marshalScalar(v)
		if err != nil {
			return nil, err
		}
		return document.Line(prefix + scalar), nil
	}
}

func objectNode(prefix string, members []member, fields []models.Field) (document.Node, error) {
	if len(members) == 0 {
		return document.Line(prefix + "{}"), nil
	}
	body := make([]document.Node, 0, len(members))
	for _, m := range members {
		key, err := marshalScalar(m.key)
		if err != nil {
			return nil, err
		}
		n, err := valueNode(key+": ", m.value, subFields(fields, m.key))
		if err != nil {
			return nil, err
		}
		body = append(body, n)
	}
	return document.Block{Open: prefix + "{", Body: document.Join(body, ","), Close: "}"}, nil
}

// orderedMembers lists m in schema field order, then the remaining keys sorted.
func orderedMembers(m map[string]any, fields []models.Field) []member {
	out := make([]member, 0, len(m))
	seen := make(map[string]bool, len(fields))
	for _, f := range fields {
		if v, ok := m[f.Name]; ok && !seen[f.Name] {
			out = append(out, member{key: f.Name, value: v})
			seen[f.Name] = true
		}
	}
	rest := make([]string, 0, len(m)-len(out))
	for k := range m {
		if !seen[k] {
			rest = append(rest, k)
		}
	}
	sort.Strings(rest)
	for _, k := range rest {
		out = append(out, member{key: k, value: m[k]})
	}
	return out
}

func subFields(fields []models.Field, name string) []models.Field {
	for i := range fields {
		if fields[i].Name != name {
			continue
		}
		if len(fields[i].Fields) > 0 {
			return fields[i].Fields
		}
		if fields[i].Field != nil {
			return fields[i].Field.Fields
		}
		return nil
	}
	return nil
}

func marshalScalar(v any) (string, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return "", err
	}
	return string(bytes.TrimRight(buf.Bytes(), "\n")), nil
}
