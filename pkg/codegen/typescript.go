package codegen

import (
	"regexp"
	"strconv"
	"strings"

	"sitecms/pkg/document"
)

const typeScriptHeader = "// THESE TYPES WERE AUTOMATICALLY GENERATED"

var tsIdentifier = regexp.MustCompile(`^[A-Za-z_$][A-Za-z0-9_$]*$`)

// TypeScript renders the module as a global ambient declaration file.
type TypeScript struct{}

func (TypeScript) Render(m *TypeModule) ([]byte, error) {
	body := make([]document.Node, 0, 2*len(m.Declarations))
	for _, d := range m.Declarations {
		body = append(body, tsDeclaration(d), document.Line(""))
	}

	doc := []document.Node{
		document.Line(typeScriptHeader),
		document.Line(""),
		document.Block{Open: "declare global {", Body: body, Close: "}"},
		document.Line(""),
		document.Line("export {};"),
	}
	return []byte(document.Render("    ", doc...)), nil
}

func tsDeclaration(d Declaration) document.Node {
	return document.Block{
		Open:  "export type " + d.Name + " = {",
		Body:  tsProperties(d.Type.Properties),
		Close: "};",
	}
}

func tsProperties(props []Property) []document.Node {
	nodes := make([]document.Node, 0, len(props))
	for _, p := range props {
		nodes = append(nodes, tsProperty(p))
	}
	return nodes
}

func tsProperty(p Property) document.Node {
	name := tsPropertyName(p.Name)
	base, depth := arrayBase(p.Type)
	if base.Kind == KindObject && len(base.Properties) > 0 {
		return document.Block{
			Open:  name + ": {",
			Body:  tsProperties(base.Properties),
			Close: "}" + strings.Repeat("[]", depth) + ";",
		}
	}
	return document.Line(name + ": " + tsInline(p.Type) + ";")
}

func tsInline(t TypeExpr) string {
	switch t.Kind {
	case KindBoolean:
		return "boolean"
	case KindString:
		return "string"
	case KindNumber:
		return "number"
	case KindRef:
		return t.Ref
	case KindOption:
		return "{ label: string; value: string }"
	case KindArray:
		return tsInline(*t.Elem) + "[]"
	case KindObject:
		if len(t.Properties) == 0 {
			return "{}"
		}
		parts := make([]string, 0, len(t.Properties))
		for _, p := range t.Properties {
			parts = append(parts, tsPropertyName(p.Name)+": "+tsInline(p.Type))
		}
		return "{ " + strings.Join(parts, "; ") + " }"
	default:
		return "any"
	}
}

func tsPropertyName(name string) string {
	if tsIdentifier.MatchString(name) {
		return name
	}
	return strconv.Quote(name)
}
