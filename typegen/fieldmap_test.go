package typegen

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/teranos/contentful-typegen/contentful"
)

var aliasOpts = MapOptions{Prefix: "I", PreferLinkedAliases: true}

func TestFieldToTSPrimitives(t *testing.T) {
	all := NewTypeSet("known", "task")

	tests := []struct {
		fieldType contentful.FieldType
		want      string
	}{
		{contentful.FieldSymbol, "string"},
		{contentful.FieldText, "string"},
		{contentful.FieldSlug, "string"},
		{contentful.FieldDate, "string"},
		{contentful.FieldInteger, "number"},
		{contentful.FieldNumber, "number"},
		{contentful.FieldBoolean, "boolean"},
		{contentful.FieldObject, "Record<string, unknown>"},
		{contentful.FieldLocation, "{ lat: number; lon: number }"},
		{contentful.FieldRichText, "Document"},
		{"TotallyUnknownType", "unknown"},
		{"", "unknown"},
	}

	for _, tt := range tests {
		t.Run(string(tt.fieldType), func(t *testing.T) {
			res := FieldToTS(contentful.Field{ID: "f", Type: tt.fieldType}, all, aliasOpts)
			assert.Equal(t, tt.want, res.TSType)
			assert.Equal(t, "f", res.Name)
		})
	}
}

func TestFieldToTSUnknownTypeKeepsName(t *testing.T) {
	res := FieldToTS(contentful.Field{ID: "mystery", Type: "TotallyUnknownType", Required: true}, NewTypeSet(), aliasOpts)
	assert.Equal(t, FieldResult{Name: "mystery", TSType: "unknown", Required: true}, res)
}

func TestFieldToTSName(t *testing.T) {
	assert.Equal(t, "title", FieldToTS(contentful.Field{Name: "title", Type: contentful.FieldSymbol}, NewTypeSet(), aliasOpts).Name)
	assert.Equal(t, "Hero_Image", FieldToTS(contentful.Field{Name: "Hero Image"}, NewTypeSet(), aliasOpts).Name)
	assert.Equal(t, "field", FieldToTS(contentful.Field{Type: contentful.FieldSymbol}, NewTypeSet(), aliasOpts).Name)
	assert.Equal(t, "heroImage", FieldToTS(contentful.Field{ID: "heroImage", Name: "Hero Image"}, NewTypeSet(), aliasOpts).Name)
}

func TestFieldToTSLiteralUnions(t *testing.T) {
	all := NewTypeSet()

	t.Run("strings in order", func(t *testing.T) {
		f := symbol("status", false, contentful.InValidation("a", "b"))
		assert.Equal(t, `"a" | "b"`, FieldToTS(f, all, aliasOpts).TSType)
	})

	t.Run("numbers", func(t *testing.T) {
		f := contentful.Field{ID: "rank", Type: contentful.FieldInteger, Validations: []contentful.Validation{contentful.InValidation(1, 2, 3)}}
		assert.Equal(t, "1 | 2 | 3", FieldToTS(f, all, aliasOpts).TSType)
	})

	t.Run("overrides the type tag", func(t *testing.T) {
		for _, tag := range []contentful.FieldType{contentful.FieldBoolean, contentful.FieldLink, contentful.FieldArray, "Bogus"} {
			f := contentful.Field{ID: "x", Type: tag, LinkType: contentful.LinkEntry, Validations: []contentful.Validation{contentful.InValidation("only")}}
			assert.Equal(t, `"only"`, FieldToTS(f, all, aliasOpts).TSType, string(tag))
		}
	})

	t.Run("flattened across validations", func(t *testing.T) {
		f := symbol("mixed", false,
			contentful.InValidation("a"),
			contentful.Validation{},
			contentful.LinkContentTypeValidation("known"),
			contentful.InValidation(2, "c"),
		)
		assert.Equal(t, `"a" | 2 | "c"`, FieldToTS(f, all, aliasOpts).TSType)
	})

	t.Run("escaped strings", func(t *testing.T) {
		f := symbol("quote", false, contentful.InValidation(`say "hi"`))
		assert.Equal(t, `"say \"hi\""`, FieldToTS(f, all, aliasOpts).TSType)
	})

	t.Run("empty in falls back to type", func(t *testing.T) {
		f := symbol("s", false, contentful.InValidation(true, nil))
		assert.Equal(t, "string", FieldToTS(f, all, aliasOpts).TSType)
	})
}

func TestFieldToTSLinks(t *testing.T) {
	all := NewTypeSet("known", "task")
	entryOpts := MapOptions{Prefix: "I", PreferLinkedAliases: false}

	tests := []struct {
		name  string
		field contentful.Field
		opts  MapOptions
		want  string
	}{
		{
			name:  "asset",
			field: contentful.Field{ID: "a", Type: contentful.FieldLink, LinkType: contentful.LinkAsset},
			opts:  aliasOpts,
			want:  "Asset",
		},
		{
			name:  "present and missing targets keep present only",
			field: entryLink("mix", "known", "missing"),
			opts:  aliasOpts,
			want:  "IKnown",
		},
		{
			name:  "multiple present targets in order",
			field: entryLink("multi", "task", "known"),
			opts:  aliasOpts,
			want:  "ITask | IKnown",
		},
		{
			name:  "container form",
			field: entryLink("multiEntry", "known", "task"),
			opts:  entryOpts,
			want:  "Entry<IKnownFields> | Entry<ITaskFields>",
		},
		{
			name:  "only missing targets",
			field: entryLink("u", "missing"),
			opts:  aliasOpts,
			want:  "Entry<unknown>",
		},
		{
			name:  "no validations",
			field: contentful.Field{ID: "any", Type: contentful.FieldLink, LinkType: contentful.LinkEntry},
			opts:  aliasOpts,
			want:  "Entry<unknown>",
		},
		{
			name: "validations without link restriction",
			field: contentful.Field{
				ID: "mixed", Type: contentful.FieldLink, LinkType: contentful.LinkEntry,
				Validations: []contentful.Validation{{}, {}, contentful.LinkContentTypeValidation("known")},
			},
			opts: aliasOpts,
			want: "IKnown",
		},
		{
			name:  "custom prefix",
			field: entryLink("p", "known"),
			opts:  MapOptions{Prefix: "Cf", PreferLinkedAliases: true},
			want:  "CfKnown",
		},
		{
			name:  "unrecognized link type",
			field: contentful.Field{ID: "x", Type: contentful.FieldLink, LinkType: "SomethingElse"},
			opts:  aliasOpts,
			want:  "unknown",
		},
		{
			name:  "missing link type",
			field: contentful.Field{ID: "x", Type: contentful.FieldLink},
			opts:  aliasOpts,
			want:  "unknown",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FieldToTS(tt.field, all, tt.opts).TSType)
		})
	}
}

func TestFieldToTSMixedValidationsFromJSON(t *testing.T) {
	types, err := contentful.DecodeContentTypes([]byte(`[{
		"sys": {"id": "consumer"},
		"name": "Consumer",
		"fields": [{
			"id": "mixed",
			"type": "Link",
			"linkType": "Entry",
			"validations": [{}, {"foo": 1}, {"linkContentType": ["known"]}]
		}]
	}]`))
	if !assert.NoError(t, err) {
		return
	}

	res := FieldToTS(types[0].Fields[0], NewTypeSet("known"), aliasOpts)
	assert.Equal(t, "IKnown", res.TSType)
}

func TestFieldToTSArrays(t *testing.T) {
	all := NewTypeSet("known")
	unionItem := symbol("choice", false, contentful.InValidation("x", "y"))
	readonlyOpts := MapOptions{Prefix: "I", ArraysReadonly: true, PreferLinkedAliases: true}

	t.Run("missing items", func(t *testing.T) {
		f := contentful.Field{ID: "arr", Type: contentful.FieldArray}
		assert.Equal(t, "unknown[]", FieldToTS(f, all, aliasOpts).TSType)
		assert.Equal(t, "ReadonlyArray<unknown>", FieldToTS(f, all, readonlyOpts).TSType)
	})

	t.Run("union items are parenthesized", func(t *testing.T) {
		f := contentful.Field{ID: "choices", Type: contentful.FieldArray, Items: &unionItem}
		assert.Equal(t, `("x" | "y")[]`, FieldToTS(f, all, aliasOpts).TSType)
		assert.Equal(t, `ReadonlyArray<"x" | "y">`, FieldToTS(f, all, readonlyOpts).TSType)
	})

	t.Run("outer field without id", func(t *testing.T) {
		f := contentful.Field{Type: contentful.FieldArray, Items: &unionItem}
		res := FieldToTS(f, all, aliasOpts)
		assert.Equal(t, `("x" | "y")[]`, res.TSType)
		assert.Equal(t, "field", res.Name)
	})

	t.Run("symbols", func(t *testing.T) {
		item := contentful.Field{Type: contentful.FieldSymbol}
		f := contentful.Field{ID: "tags", Type: contentful.FieldArray, Items: &item}
		assert.Equal(t, "string[]", FieldToTS(f, all, aliasOpts).TSType)
	})

	t.Run("entry links", func(t *testing.T) {
		f := entryLinks("refs", "known")
		assert.Equal(t, "IKnown[]", FieldToTS(f, all, aliasOpts).TSType)
		assert.Equal(t, "ReadonlyArray<IKnown>", FieldToTS(f, all, readonlyOpts).TSType)
		assert.Equal(t, "Entry<IKnownFields>[]", FieldToTS(f, all, MapOptions{Prefix: "I"}).TSType)
	})

	t.Run("unresolved entry links", func(t *testing.T) {
		f := entryLinks("refs", "missing")
		assert.Equal(t, "Entry<unknown>[]", FieldToTS(f, all, aliasOpts).TSType)
	})

	t.Run("nested arrays", func(t *testing.T) {
		inner := contentful.Field{Type: contentful.FieldArray, Items: &unionItem}
		f := contentful.Field{ID: "grid", Type: contentful.FieldArray, Items: &inner}
		assert.Equal(t, `(("x" | "y")[])[]`, FieldToTS(f, all, aliasOpts).TSType)
		assert.Equal(t, `ReadonlyArray<ReadonlyArray<"x" | "y">>`, FieldToTS(f, all, readonlyOpts).TSType)
	})

	t.Run("depth guard", func(t *testing.T) {
		leaf := contentful.Field{Type: contentful.FieldSymbol}
		f := leaf
		for i := 0; i < MaxArrayDepth+5; i++ {
			item := f
			f = contentful.Field{Type: contentful.FieldArray, Items: &item}
		}
		got := FieldToTS(f, all, aliasOpts).TSType
		assert.Contains(t, got, "unknown[]")
		assert.NotContains(t, got, "string")
	})

	t.Run("items are not mutated", func(t *testing.T) {
		item := contentful.Field{Type: contentful.FieldSymbol}
		f := contentful.Field{ID: "tags", Type: contentful.FieldArray, Items: &item}
		FieldToTS(f, all, aliasOpts)
		assert.Empty(t, item.ID)
		assert.Empty(t, item.Name)
	})
}

func TestPreferLinkedAliasesOnlyChangesLinks(t *testing.T) {
	model := basicModel()
	all := TypeSetOf(model)

	for _, ct := range model {
		for _, f := range ct.Fields {
			alias := FieldToTS(f, all, MapOptions{Prefix: "I", PreferLinkedAliases: true})
			container := FieldToTS(f, all, MapOptions{Prefix: "I", PreferLinkedAliases: false})
			assert.Equal(t, alias.Name, container.Name)
			assert.Equal(t, alias.Required, container.Required)

			isEntryRef := f.LinkType == contentful.LinkEntry ||
				(f.Items != nil && f.Items.LinkType == contentful.LinkEntry)
			if isEntryRef {
				assert.NotEqual(t, alias.TSType, container.TSType, f.ID)
			} else {
				assert.Equal(t, alias.TSType, container.TSType, f.ID)
			}
		}
	}
}

func TestWrapArray(t *testing.T) {
	assert.Equal(t, "string[]", wrapArray("string", false))
	assert.Equal(t, "(A | B)[]", wrapArray("A | B", false))
	assert.Equal(t, "(A & B)[]", wrapArray("A & B", false))
	assert.Equal(t, "ReadonlyArray<A | B>", wrapArray("A | B", true))
	assert.Equal(t, "{ lat: number; lon: number }[]", wrapArray("{ lat: number; lon: number }", false))
}
