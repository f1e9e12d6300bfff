package codegen

import (
	"fmt"
	"strings"
)

// Language selects the output syntax of a rendered module.
type Language string

const (
	LanguageTypeScript Language = "typescript"
	LanguageGo         Language = "go"
)

// Renderer turns a compiled module into source text.
type Renderer interface {
	Render(m *TypeModule) ([]byte, error)
}

// NewRenderer returns the renderer for lang. goPackage is only used by the
// Go renderer.
func NewRenderer(lang Language, goPackage string) (Renderer, error) {
	parsed, err := ParseLanguage(string(lang))
	if err != nil {
		return nil, err
	}
	if parsed == LanguageGo {
		if goPackage == "" {
			goPackage = "content"
		}
		return Go{Package: goPackage}, nil
	}
	return TypeScript{}, nil
}

// ParseLanguage accepts typescript (also ts or empty) and go, in any case.
func ParseLanguage(s string) (Language, error) {
	switch Language(strings.ToLower(strings.TrimSpace(s))) {
	case "", LanguageTypeScript, "ts":
		return LanguageTypeScript, nil
	case LanguageGo:
		return LanguageGo, nil
	default:
		return "", fmt.Errorf("unsupported type language: %s", s)
	}
}

// arrayBase unwraps nested arrays, returning the element type and depth.
func arrayBase(t TypeExpr) (TypeExpr, int) {
	depth := 0
	for t.Kind == KindArray && t.Elem != nil {
		t = *t.Elem
		depth++
	}
	return t, depth
}
