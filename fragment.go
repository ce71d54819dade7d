package hxhydrate

import (
	"context"
	"html"
	"io"

	"github.com/a-h/templ"
)

// ErrorClass is the class carried by inline error fragments.
const ErrorClass = "hx-error"

// ErrorFragment renders the inline marker shown in place of a placeholder
// whose load failed:
//
//	<p class="hx-error" style="color: red;" data-error-ref="/c1">Failed to load component: /c1</p>
//
// The data-error-ref attribute lets pages and tests locate which
// component failed without parsing the message.
func ErrorFragment(ref string) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		escaped := html.EscapeString(ref)
		_, err := io.WriteString(w, `<p class="`+ErrorClass+`" style="color: red;" data-error-ref="`+
			escaped+`">Failed to load component: `+escaped+`</p>`)
		return err
	})
}
