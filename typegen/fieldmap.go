package typegen

import (
	"strings"

	"github.com/teranos/contentful-typegen/contentful"
)

// MaxArrayDepth bounds Array-of-Array recursion. Items nested deeper than
// this map to `unknown`.
const MaxArrayDepth = 32

// MapOptions controls how a single field is mapped.
type MapOptions struct {
	// Prefix is prepended to generated type names ("I" -> IArticle)
	Prefix string
	// ArraysReadonly renders arrays as ReadonlyArray<T> instead of T[]
	ArraysReadonly bool
	// PreferLinkedAliases renders entry links as IThing instead of Entry<IThingFields>
	PreferLinkedAliases bool
}

// FieldResult is one mapped field: the property name, its TypeScript type and
// whether it is required. The caller decides how optionality is rendered.
type FieldResult struct {
	Name     string
	TSType   string
	Required bool
}

// FieldToTS maps a content type field to a TypeScript type expression.
// It never fails: shapes it does not recognize map to `unknown`.
func FieldToTS(field contentful.Field, allTypeIDs TypeSet, opts MapOptions) FieldResult {
	name := field.ID
	if name == "" {
		name = field.Name
	}
	return FieldResult{
		Name:     SafeProp(name),
		TSType:   fieldType(field, allTypeIDs, opts, 0),
		Required: field.Required,
	}
}

func fieldType(field contentful.Field, allTypeIDs TypeSet, opts MapOptions, depth int) string {
	// `in` validations override the field type
	if union := literalUnion(field.Validations); union != "" {
		return union
	}

	switch field.Type {
	case contentful.FieldSymbol, contentful.FieldText, contentful.FieldSlug, contentful.FieldDate:
		return "string"
	case contentful.FieldInteger, contentful.FieldNumber:
		return "number"
	case contentful.FieldBoolean:
		return "boolean"
	case contentful.FieldObject:
		return "Record<string, unknown>"
	case contentful.FieldLocation:
		return "{ lat: number; lon: number }"
	case contentful.FieldRichText:
		return "Document"
	case contentful.FieldLink:
		return linkType(field, allTypeIDs, opts)
	case contentful.FieldArray:
		if field.Items == nil || depth >= MaxArrayDepth {
			return wrapArray("unknown", opts.ArraysReadonly)
		}
		item := *field.Items
		if field.ID != "" {
			item.ID = field.ID + "Item"
		} else {
			item.ID = "item"
		}
		if item.Name == "" {
			item.Name = item.ID
		}
		return wrapArray(fieldType(item, allTypeIDs, opts, depth+1), opts.ArraysReadonly)
	default:
		return "unknown"
	}
}

// literalUnion joins the string and number values of every `in` validation,
// in order. Returns "" when there are none.
func literalUnion(validations []contentful.Validation) string {
	var parts []string
	for _, v := range validations {
		for _, lit := range v.In {
			parts = append(parts, renderLiteral(lit))
		}
	}
	return strings.Join(parts, " | ")
}

func linkType(field contentful.Field, allTypeIDs TypeSet, opts MapOptions) string {
	switch field.LinkType {
	case contentful.LinkAsset:
		return "Asset"
	case contentful.LinkEntry:
	default:
		return "unknown"
	}

	var targets []string
	for _, v := range field.Validations {
		for _, id := range v.LinkContentType {
			if id == "" || !allTypeIDs.Has(id) {
				continue
			}
			base := opts.Prefix + ToPascal(id)
			if opts.PreferLinkedAliases {
				targets = append(targets, base)
			} else {
				targets = append(targets, "Entry<"+base+"Fields>")
			}
		}
	}
	if len(targets) == 0 {
		return "Entry<unknown>"
	}
	return strings.Join(targets, " | ")
}

// wrapArray renders an array of inner. Mutable arrays of unions or
// intersections are parenthesized.
func wrapArray(inner string, readonly bool) string {
	if readonly {
		return "ReadonlyArray<" + inner + ">"
	}
	if strings.ContainsAny(inner, "|&") {
		return "(" + inner + ")[]"
	}
	return inner + "[]"
}
