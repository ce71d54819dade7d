package hxhydrate

import (
	"context"
	"io"

	"github.com/a-h/templ"
)

// PlaceholderAttrs builds the attributes that turn an element into a
// placeholder for ref. payload, if non-nil, is marshalled to JSON and
// carried as a data-object token; id, if non-empty, makes the placeholder
// addressable by Trigger.
//
//	attrs, err := hxhydrate.PlaceholderAttrs("/harbor/viewer", map[string]string{"id": "42"}, "viewer")
//	// <div { attrs... }></div>
func PlaceholderAttrs(ref string, payload any, id string) (templ.Attributes, error) {
	attrs := templ.Attributes{AttrComponent: ref}
	if payload != nil {
		token, err := EncodeJSON(payload)
		if err != nil {
			return nil, err
		}
		attrs[AttrObject] = token
	}
	if id != "" {
		attrs[AttrID] = id
	}
	return attrs, nil
}

// BindingAttrs builds the attributes of an action binding that submits
// form group to endpoint when activated.
func BindingAttrs(group, endpoint string) templ.Attributes {
	return templ.Attributes{
		AttrForm:         group,
		AttrActionTarget: endpoint,
	}
}

// FieldAttrs tags a form control as member of group under the given id.
func FieldAttrs(group, id string) templ.Attributes {
	return templ.Attributes{
		AttrForm: group,
		AttrID:   id,
	}
}

// Defer returns a templ component rendering a placeholder div for ref.
// fallback is rendered inside it until the component loads.
//
//	hxhydrate.Defer("/harbor/search_result", nil, "", loadingSpinner())
func Defer(ref string, payload any, id string, fallback templ.Component) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		attrs, err := PlaceholderAttrs(ref, payload, id)
		if err != nil {
			return err
		}
		if _, err := io.WriteString(w, "<div"); err != nil {
			return err
		}
		if err := templ.RenderAttributes(ctx, w, attrs); err != nil {
			return err
		}
		if _, err := io.WriteString(w, ">"); err != nil {
			return err
		}
		if fallback != nil {
			if err := fallback.Render(ctx, w); err != nil {
				return err
			}
		}
		_, err = io.WriteString(w, "</div>")
		return err
	})
}
