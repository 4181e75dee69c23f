// Package typegen compiles a Contentful content model into TypeScript
// declarations.
//
// The compiler is pure: the same content types and options always produce the
// same text, nothing is mutated, and no input makes it fail. Fetching the
// model and writing the file live in package generate.
package typegen

import (
	"strings"

	"github.com/teranos/contentful-typegen/contentful"
)

// CreateFile renders the complete declaration file for contentTypes, in
// input order: banner, core stubs, then a Fields interface and an entry type
// per content type.
func CreateFile(contentTypes []contentful.ContentType, opts *RenderOptions) string {
	r := opts.Resolve()
	all := TypeSetOf(contentTypes)

	blocks := make([]string, len(contentTypes))
	for i, ct := range contentTypes {
		blocks[i] = contentTypeBlock(ct, all, r)
	}

	var b strings.Builder
	b.WriteString(FileHeader(len(contentTypes)))
	b.WriteString(CoreTypes)
	b.WriteString("\n\n")
	b.WriteString(strings.Join(blocks, "\n"))
	return b.String()
}

// contentTypeBlock renders `<Base>Fields` and the entry type `<Base>`.
func contentTypeBlock(ct contentful.ContentType, all TypeSet, r Resolved) string {
	base := r.Prefix + ToPascal(ct.ID())
	mapOpts := r.MapOptions()

	lines := make([]string, len(ct.Fields))
	for i, f := range ct.Fields {
		lines[i] = memberLine(f, all, mapOpts, r.IncludeUndefinedOnOptional)
	}

	var b strings.Builder
	if ct.Description != "" {
		b.WriteString("/** " + ct.Description + " */\n")
	}
	b.WriteString("export interface " + base + "Fields {\n")
	b.WriteString(strings.Join(lines, "\n"))
	b.WriteString("\n}\n")

	if r.BrandContentTypeID {
		b.WriteString(brandedEntry(base, ct.ID()))
	} else {
		b.WriteString("export type " + base + " = Entry<" + base + "Fields>;\n")
	}
	return b.String()
}

func memberLine(f contentful.Field, all TypeSet, opts MapOptions, undefinedOnOptional bool) string {
	res := FieldToTS(f, all, opts)

	var b strings.Builder
	if note := strings.TrimSpace(f.Note); note != "" {
		b.WriteString("  /** " + note + " */\n")
	}
	b.WriteString("  " + res.Name)
	if !res.Required {
		b.WriteByte('?')
	}
	b.WriteString(": " + res.TSType)
	if !res.Required && undefinedOnOptional {
		b.WriteString(" | undefined")
	}
	b.WriteByte(';')
	return b.String()
}

// brandedEntry pins the literal content type id so unions of entries can be
// narrowed on sys.contentType.sys.id.
func brandedEntry(base, id string) string {
	fields := "Entry<" + base + "Fields>"
	return "export interface " + base + " extends " + fields + " {\n" +
		"  sys: " + fields + "[\"sys\"] & {\n" +
		"    contentType: {\n" +
		"      sys: {\n" +
		"        id: '" + id + "';\n" +
		"        linkType: 'ContentType';\n" +
		"        type: 'Link';\n" +
		"      };\n" +
		"    };\n" +
		"  };\n" +
		"}\n"
}
