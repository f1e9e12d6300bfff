package codegen

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const wantTypeScript = `// THESE TYPES WERE AUTOMATICALLY GENERATED

declare global {
    export type HomeData = {
        title: string;
        hero: AuthorsData;
        published: boolean;
        count: number;
        rating: string;
        links: {
            label: string;
            url: string;
        }[];
        tags: string[];
        level: { label: string; value: string };
        contact: AuthorsData;
        extra: any;
    };

    export type BlogPostData = {
        authors: AuthorsData[];
    };

    export type AuthorsData = {
        name: string;
    };

}

export {};
`

func TestTypeScriptRender(t *testing.T) {
	out, err := TypeScript{}.Render(compileSchema(t, siteSchema))
	require.NoError(t, err)
	assert.Equal(t, wantTypeScript, string(out))
}

func TestRenderIsDeterministic(t *testing.T) {
	for _, lang := range []Language{LanguageTypeScript, LanguageGo} {
		r, err := NewRenderer(lang, "")
		require.NoError(t, err)

		first, err := r.Render(compileSchema(t, siteSchema))
		require.NoError(t, err)
		second, err := r.Render(compileSchema(t, siteSchema))
		require.NoError(t, err)
		assert.Equal(t, first, second, lang)
	}
}

func TestTypeScriptQuotesInvalidPropertyNames(t *testing.T) {
	assert.Equal(t, "title", tsPropertyName("title"))
	assert.Equal(t, `"og-image"`, tsPropertyName("og-image"))
	assert.Equal(t, `"1st"`, tsPropertyName("1st"))
}

const wantGo = "// Code generated by sitecms; DO NOT EDIT.\n" + `
package site

type SelectOption struct {
	Label string ` + "`json:\"label\"`" + `
	Value string ` + "`json:\"value\"`" + `
}

type HomeData struct {
	Title     string       ` + "`json:\"title\"`" + `
	Hero      *AuthorsData ` + "`json:\"hero\"`" + `
	Published bool         ` + "`json:\"published\"`" + `
	Count     float64      ` + "`json:\"count\"`" + `
	Rating    string       ` + "`json:\"rating\"`" + `
	Links     []struct {
		Label string ` + "`json:\"label\"`" + `
		Url   string ` + "`json:\"url\"`" + `
	} ` + "`json:\"links\"`" + `
	Tags    []string     ` + "`json:\"tags\"`" + `
	Level   SelectOption ` + "`json:\"level\"`" + `
	Contact *AuthorsData ` + "`json:\"contact\"`" + `
	Extra   any          ` + "`json:\"extra\"`" + `
}

type BlogPostData struct {
	Authors []AuthorsData ` + "`json:\"authors\"`" + `
}

type AuthorsData struct {
	Name string ` + "`json:\"name\"`" + `
}
`

func TestGoRender(t *testing.T) {
	out, err := Go{Package: "site"}.Render(compileSchema(t, siteSchema))
	require.NoError(t, err)
	assert.Equal(t, wantGo, string(out))
}

func TestGoFieldName(t *testing.T) {
	assert.Equal(t, "PublishDate", goFieldName("publish_date"))
	assert.Equal(t, "OgImage", goFieldName("og-image"))
	assert.Equal(t, "F1st", goFieldName("1st"))
}

func TestNewRendererRejectsUnknownLanguage(t *testing.T) {
	_, err := NewRenderer("rust", "")
	assert.Error(t, err)
}

func TestParseLanguage(t *testing.T) {
	for in, want := range map[string]Language{"": LanguageTypeScript, "ts": LanguageTypeScript, "TypeScript": LanguageTypeScript, "GO": LanguageGo} {
		got, err := ParseLanguage(in)
		assert.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}
	_, err := ParseLanguage("rust")
	assert.Error(t, err)
}
