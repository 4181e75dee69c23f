package contentful

import (
	"bytes"
	"encoding/json"
	"strconv"

	"gopkg.in/yaml.v3"

	"github.com/teranos/contentful-typegen/errors"
)

// UnmarshalJSON keeps the `in` and `linkContentType` shapes and ignores
// every other validation key. Malformed values inside a recognized key are
// dropped rather than reported.
func (v *Validation) UnmarshalJSON(data []byte) error {
	*v = Validation{}

	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		// Non-object validations (null, arrays, scalars) carry nothing we use
		return nil
	}

	if in, ok := raw["in"]; ok {
		var values []interface{}
		dec := json.NewDecoder(bytes.NewReader(in))
		dec.UseNumber()
		if err := dec.Decode(&values); err == nil {
			v.In = literalsFrom(values)
		}
	}

	if link, ok := raw["linkContentType"]; ok {
		var ids []interface{}
		if err := json.Unmarshal(link, &ids); err == nil {
			for _, id := range ids {
				if s, ok := id.(string); ok && s != "" {
					v.LinkContentType = append(v.LinkContentType, s)
				}
			}
		} else {
			var single string
			if err := json.Unmarshal(link, &single); err == nil && single != "" {
				v.LinkContentType = []string{single}
			}
		}
	}

	return nil
}

// MarshalJSON writes the validation back in CMA form.
func (v Validation) MarshalJSON() ([]byte, error) {
	out := make(map[string]interface{}, 2)
	if len(v.In) > 0 {
		values := make([]interface{}, len(v.In))
		for i, lit := range v.In {
			if lit.Kind == LiteralNumber {
				values[i] = json.Number(lit.Value)
			} else {
				values[i] = lit.Value
			}
		}
		out["in"] = values
	}
	if len(v.LinkContentType) > 0 {
		out["linkContentType"] = v.LinkContentType
	}
	return json.Marshal(out)
}

// literalsFrom keeps strings and numbers, in order.
func literalsFrom(values []interface{}) []Literal {
	var out []Literal
	for _, value := range values {
		switch n := value.(type) {
		case string:
			out = append(out, StringLiteral(n))
		case json.Number:
			out = append(out, NumberLiteral(n.String()))
		case float64:
			out = append(out, NumberLiteral(strconv.FormatFloat(n, 'f', -1, 64)))
		case float32:
			out = append(out, NumberLiteral(strconv.FormatFloat(float64(n), 'f', -1, 32)))
		case int:
			out = append(out, NumberLiteral(strconv.Itoa(n)))
		case int64:
			out = append(out, NumberLiteral(strconv.FormatInt(n, 10)))
		case int32:
			out = append(out, NumberLiteral(strconv.FormatInt(int64(n), 10)))
		case uint64:
			out = append(out, NumberLiteral(strconv.FormatUint(n, 10)))
		}
	}
	return out
}

func nonEmpty(ids []string) []string {
	var out []string
	for _, id := range ids {
		if id != "" {
			out = append(out, id)
		}
	}
	return out
}

// collection covers the envelopes content types arrive in: a CMA page
// (`items`) and a `contentful space export` file (`contentTypes`).
type collection struct {
	Total        int            `json:"total"`
	Skip         int            `json:"skip"`
	Limit        int            `json:"limit"`
	Items        []ContentType  `json:"items"`
	ContentTypes []ContentType  `json:"contentTypes"`
	Sys          map[string]any `json:"sys"`
}

// DecodeContentTypes decodes a JSON document holding content types. It
// accepts a bare array, a CMA collection ({"items": [...]}) or a space
// export ({"contentTypes": [...]}).
func DecodeContentTypes(data []byte) ([]ContentType, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return nil, errors.NewInvalidRequestError("empty content model document")
	}

	if trimmed[0] == '[' {
		var types []ContentType
		if err := json.Unmarshal(trimmed, &types); err != nil {
			return nil, errors.Wrap(err, "decode content type array")
		}
		return types, nil
	}

	var raw map[string]json.RawMessage
	if err := json.Unmarshal(trimmed, &raw); err != nil {
		return nil, errors.Wrap(err, "decode content model document")
	}

	var c collection
	if err := json.Unmarshal(trimmed, &c); err != nil {
		return nil, errors.Wrap(err, "decode content model document")
	}

	switch {
	case raw["items"] != nil:
		return c.Items, nil
	case raw["contentTypes"] != nil:
		return c.ContentTypes, nil
	default:
		return nil, errors.WithHint(
			errors.NewInvalidRequestError("document has neither \"items\" nor \"contentTypes\""),
			"pass a CMA content_types response or a `contentful space export` file",
		)
	}
}

// DecodeContentTypesYAML decodes the same shapes as DecodeContentTypes
// from YAML.
func DecodeContentTypesYAML(data []byte) ([]ContentType, error) {
	var doc interface{}
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, errors.Wrap(err, "decode YAML content model")
	}
	if doc == nil {
		return nil, errors.NewInvalidRequestError("empty content model document")
	}

	asJSON, err := json.Marshal(doc)
	if err != nil {
		return nil, errors.Wrap(err, "convert YAML content model")
	}
	return DecodeContentTypes(asJSON)
}
