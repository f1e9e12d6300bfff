package codegen

import (
	"go/format"
	"strconv"
	"strings"
	"unicode"

	"sitecms/pkg/document"
)

const goHeader = "// Code generated by sitecms; DO NOT EDIT."

// Go renders the module as Go struct declarations with json tags.
type Go struct {
	Package string
}

func (g Go) Render(m *TypeModule) ([]byte, error) {
	doc := []document.Node{
		document.Line(goHeader),
		document.Line(""),
		document.Line("package " + g.Package),
		document.Line(""),
	}
	if m.UsesOptions() {
		doc = append(doc, document.Block{
			Open: "type SelectOption struct {",
			Body: []document.Node{
				document.Line("Label string `json:\"label\"`"),
				document.Line("Value string `json:\"value\"`"),
			},
			Close: "}",
		}, document.Line(""))
	}
	for _, d := range m.Declarations {
		doc = append(doc, document.Block{
			Open:  "type " + d.Name + " struct {",
			Body:  goFields(d.Type.Properties),
			Close: "}",
		}, document.Line(""))
	}

	return format.Source([]byte(document.Render("\t", doc...)))
}

func goFields(props []Property) []document.Node {
	nodes := make([]document.Node, 0, len(props))
	for _, p := range props {
		nodes = append(nodes, goField(p))
	}
	return nodes
}

func goField(p Property) document.Node {
	name := goFieldName(p.Name)
	tag := " `json:" + strconv.Quote(p.Name) + "`"
	base, depth := arrayBase(p.Type)
	if base.Kind == KindObject && len(base.Properties) > 0 {
		return document.Block{
			Open:  name + " " + strings.Repeat("[]", depth) + "struct {",
			Body:  goFields(base.Properties),
			Close: "}" + tag,
		}
	}
	return document.Line(name + " " + goType(p.Type, true) + tag)
}

// goType renders t inline. Direct references become pointers so that
// collections referencing each other still form valid Go types.
func goType(t TypeExpr, direct bool) string {
	switch t.Kind {
	case KindBoolean:
		return "bool"
	case KindString:
		return "string"
	case KindNumber:
		return "float64"
	case KindRef:
		if direct {
			return "*" + t.Ref
		}
		return t.Ref
	case KindOption:
		return "SelectOption"
	case KindArray:
		return "[]" + goType(*t.Elem, false)
	case KindObject:
		if len(t.Properties) == 0 {
			return "struct{}"
		}
		parts := make([]string, 0, len(t.Properties))
		for _, p := range t.Properties {
			parts = append(parts, goFieldName(p.Name)+" "+goType(p.Type, true)+" `json:"+strconv.Quote(p.Name)+"`")
		}
		return "struct { " + strings.Join(parts, "; ") + " }"
	default:
		return "any"
	}
}

func goFieldName(name string) string {
	var b strings.Builder
	for _, part := range strings.FieldsFunc(name, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	}) {
		runes := []rune(part)
		runes[0] = unicode.ToUpper(runes[0])
		b.WriteString(string(runes))
	}
	out := b.String()
	if out == "" || !unicode.IsLetter([]rune(out)[0]) {
		out = "F" + out
	}
	return out
}
