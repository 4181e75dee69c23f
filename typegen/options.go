package typegen

// DefaultPrefix is the interface name prefix used when none is given.
const DefaultPrefix = "I"

// RenderOptions governs how declarations are rendered. Nil fields take the
// defaults listed on each field; a nil *RenderOptions means all defaults.
type RenderOptions struct {
	// Prefix for generated names ("I" -> IArticleFields, IArticle). Default: "I"
	Prefix *string
	// IncludeUndefinedOnOptional appends " | undefined" to optional members. Default: true
	IncludeUndefinedOnOptional *bool
	// ArraysReadonly renders ReadonlyArray<T> instead of T[]. Default: false
	ArraysReadonly *bool
	// PreferLinkedAliases renders IThing instead of Entry<IThingFields> for links. Default: true
	PreferLinkedAliases *bool
	// BrandContentTypeID pins sys.contentType.sys.id on each entry type. Default: true
	BrandContentTypeID *bool
}

// Resolved holds RenderOptions with every default applied.
type Resolved struct {
	Prefix                     string
	IncludeUndefinedOnOptional bool
	ArraysReadonly             bool
	PreferLinkedAliases        bool
	BrandContentTypeID         bool
}

// Resolve applies defaults. Safe on a nil receiver.
func (o *RenderOptions) Resolve() Resolved {
	r := Resolved{
		Prefix:                     DefaultPrefix,
		IncludeUndefinedOnOptional: true,
		ArraysReadonly:             false,
		PreferLinkedAliases:        true,
		BrandContentTypeID:         true,
	}
	if o == nil {
		return r
	}
	if o.Prefix != nil {
		r.Prefix = *o.Prefix
	}
	if o.IncludeUndefinedOnOptional != nil {
		r.IncludeUndefinedOnOptional = *o.IncludeUndefinedOnOptional
	}
	if o.ArraysReadonly != nil {
		r.ArraysReadonly = *o.ArraysReadonly
	}
	if o.PreferLinkedAliases != nil {
		r.PreferLinkedAliases = *o.PreferLinkedAliases
	}
	if o.BrandContentTypeID != nil {
		r.BrandContentTypeID = *o.BrandContentTypeID
	}
	return r
}

// MapOptions returns the subset of options the field mapper needs.
func (r Resolved) MapOptions() MapOptions {
	return MapOptions{
		Prefix:              r.Prefix,
		ArraysReadonly:      r.ArraysReadonly,
		PreferLinkedAliases: r.PreferLinkedAliases,
	}
}

// Bool returns a pointer to b, for building RenderOptions literals.
func Bool(b bool) *bool { return &b }

// String returns a pointer to s, for building RenderOptions literals.
func String(s string) *string { return &s }
