// Package contentful holds the content model types returned by the
// Contentful Management API and a client that fetches them.
//
// The types decode the CMA wire format tolerantly: unknown field types,
// unknown validation keys and missing optional members never fail decoding.
package contentful

// FieldType is the `type` tag of a content type field.
type FieldType string

// Field types known to the declaration generator. Any other value is
// carried through unchanged and maps to `unknown`.
const (
	FieldSymbol   FieldType = "Symbol"
	FieldText     FieldType = "Text"
	FieldSlug     FieldType = "Slug"
	FieldDate     FieldType = "Date"
	FieldInteger  FieldType = "Integer"
	FieldNumber   FieldType = "Number"
	FieldBoolean  FieldType = "Boolean"
	FieldObject   FieldType = "Object"
	FieldLocation FieldType = "Location"
	FieldRichText FieldType = "RichText"
	FieldLink     FieldType = "Link"
	FieldArray    FieldType = "Array"
)

// LinkType is the target kind of a Link field.
type LinkType string

const (
	LinkAsset LinkType = "Asset"
	LinkEntry LinkType = "Entry"
)

// Sys is the system metadata block of a CMA resource.
type Sys struct {
	ID        string `json:"id,omitempty"`
	Type      string `json:"type,omitempty"`
	Version   int    `json:"version,omitempty"`
	CreatedAt string `json:"createdAt,omitempty"`
	UpdatedAt string `json:"updatedAt,omitempty"`
}

// ContentType is one content model definition.
type ContentType struct {
	Sys          Sys     `json:"sys"`
	Name         string  `json:"name"`
	Description  string  `json:"description,omitempty"`
	DisplayField string  `json:"displayField,omitempty"`
	Fields       []Field `json:"fields"`
}

// ID returns the content type id (sys.id).
func (ct ContentType) ID() string {
	return ct.Sys.ID
}

// Field is a content type field. Array items reuse the same shape; item
// definitions usually carry no id or name.
type Field struct {
	ID          string       `json:"id,omitempty"`
	Name        string       `json:"name,omitempty"`
	Type        FieldType    `json:"type,omitempty"`
	LinkType    LinkType     `json:"linkType,omitempty"`
	Items       *Field       `json:"items,omitempty"`
	Required    bool         `json:"required,omitempty"`
	Localized   bool         `json:"localized,omitempty"`
	Disabled    bool         `json:"disabled,omitempty"`
	Omitted     bool         `json:"omitted,omitempty"`
	Note        string       `json:"note,omitempty"`
	Validations []Validation `json:"validations,omitempty"`
}

// LiteralKind distinguishes string from numeric literals in an `in` validation.
type LiteralKind int

const (
	LiteralString LiteralKind = iota
	LiteralNumber
)

// Literal is one allowed value of an `in` validation. Numbers keep their
// source text so they render exactly as written.
type Literal struct {
	Kind  LiteralKind
	Value string
}

// StringLiteral builds a string literal.
func StringLiteral(s string) Literal {
	return Literal{Kind: LiteralString, Value: s}
}

// NumberLiteral builds a numeric literal from its textual form (e.g. "3", "2.5").
func NumberLiteral(n string) Literal {
	return Literal{Kind: LiteralNumber, Value: n}
}

// Validation is one entry of a field's `validations` list. Only the two
// shapes the generator understands are retained; everything else decodes
// to an empty Validation.
type Validation struct {
	// In holds the allowed literal values (`{"in": [...]}`).
	In []Literal
	// LinkContentType restricts entry links to these content type ids.
	LinkContentType []string
}

// InValidation builds an `in` validation from Go values; values that are
// neither strings nor numbers are dropped.
func InValidation(values ...interface{}) Validation {
	return Validation{In: literalsFrom(values)}
}

// LinkContentTypeValidation builds a `linkContentType` validation.
func LinkContentTypeValidation(ids ...string) Validation {
	return Validation{LinkContentType: nonEmpty(ids)}
}
