package hxhydrate

import (
	"context"
	"errors"
	"net/http"
	"reflect"
	"testing"

	"github.com/pthm/hxhydrate/lib/encoding"
)

const itemForm = `
	<input data-form="item_update" id="title" value="Invoice">
	<input data-form="item_update" id="amount" value="12.50">
	<button id="save" data-form="item_update" data-action-target="/save">Save</button>`

func TestActivate_SubmitsCBOR(t *testing.T) {
	srv := NewTestServer().Status("/save", http.StatusNoContent)
	defer srv.Close()

	result, err := HydrateHTML(context.Background(), srv, itemForm, quiet())
	if err != nil {
		t.Fatal(err)
	}

	if err := result.Engine.ActivateByID(context.Background(), "save"); err != nil {
		t.Fatalf("ActivateByID() error = %v", err)
	}

	reqs := srv.RequestsTo("/save")
	if len(reqs) != 1 {
		t.Fatalf("got %d submissions, want 1", len(reqs))
	}
	if reqs[0].Method != http.MethodPost {
		t.Errorf("method = %s, want POST", reqs[0].Method)
	}
	if reqs[0].ContentType != encoding.ContentTypeCBOR {
		t.Errorf("content type = %q, want %q", reqs[0].ContentType, encoding.ContentTypeCBOR)
	}

	fields, err := encoding.CBOR.Unmarshal(reqs[0].Body)
	if err != nil {
		t.Fatalf("decoding body: %v", err)
	}
	want := map[string]string{"title": "Invoice", "amount": "12.50"}
	if !reflect.DeepEqual(fields, want) {
		t.Errorf("fields = %v, want %v", fields, want)
	}
}

func TestActivate_CollectsCurrentValues(t *testing.T) {
	srv := NewTestServer().Status("/save", http.StatusNoContent)
	defer srv.Close()

	result, err := HydrateHTML(context.Background(), srv, itemForm, quiet())
	if err != nil {
		t.Fatal(err)
	}
	ctx := context.Background()

	if err := result.Engine.ActivateByID(ctx, "save"); err != nil {
		t.Fatal(err)
	}
	result.Document.SetValue("title", "Receipt")
	if err := result.Engine.ActivateByID(ctx, "save"); err != nil {
		t.Fatal(err)
	}

	reqs := srv.RequestsTo("/save")
	if len(reqs) != 2 {
		t.Fatalf("got %d submissions, want 2", len(reqs))
	}
	second, err := encoding.CBOR.Unmarshal(reqs[1].Body)
	if err != nil {
		t.Fatal(err)
	}
	if second["title"] != "Receipt" {
		t.Errorf("second submission title = %q, want Receipt", second["title"])
	}
}

func TestActivate_FieldsAnywhereInDocument(t *testing.T) {
	srv := NewTestServer().
		Fragment("/editor", `<button id="save" data-form="g" data-action-target="/save">Save</button>`).
		Status("/save", http.StatusOK)
	defer srv.Close()

	page := `<input data-form="g" id="outside" value="yes"><div data-component="/editor"></div>`
	result, err := HydrateHTML(context.Background(), srv, page, quiet())
	if err != nil {
		t.Fatal(err)
	}

	if err := result.Engine.ActivateByID(context.Background(), "save"); err != nil {
		t.Fatal(err)
	}
	fields, _ := encoding.CBOR.Unmarshal(srv.RequestsTo("/save")[0].Body)
	if fields["outside"] != "yes" {
		t.Errorf("fields = %v, want the field outside the fragment", fields)
	}
}

func TestActivate_MsgPack(t *testing.T) {
	srv := NewTestServer().Status("/save", http.StatusNoContent)
	defer srv.Close()

	result, err := HydrateHTML(context.Background(), srv, itemForm, WithFormCodec(encoding.MsgPack), quiet())
	if err != nil {
		t.Fatal(err)
	}
	if err := result.Engine.ActivateByID(context.Background(), "save"); err != nil {
		t.Fatal(err)
	}

	req := srv.RequestsTo("/save")[0]
	if req.ContentType != encoding.ContentTypeMsgPack {
		t.Errorf("content type = %q", req.ContentType)
	}
	fields, err := encoding.MsgPack.Unmarshal(req.Body)
	if err != nil {
		t.Fatal(err)
	}
	if fields["title"] != "Invoice" {
		t.Errorf("fields = %v", fields)
	}
}

func TestActivate_NonSuccessStatus(t *testing.T) {
	srv := NewTestServer().Status("/save", http.StatusUnprocessableEntity)
	defer srv.Close()

	result, err := HydrateHTML(context.Background(), srv, itemForm, quiet())
	if err != nil {
		t.Fatal(err)
	}
	before := result.Document.String()

	err = result.Engine.ActivateByID(context.Background(), "save")
	code, ok := IsResponseError(err)
	if !ok || code != http.StatusUnprocessableEntity {
		t.Fatalf("ActivateByID() error = %v, want a 422 response error", err)
	}
	if after := result.Document.String(); after != before {
		t.Error("a failed update must not modify the document")
	}
}

func TestActivate_NetworkError(t *testing.T) {
	doc := mustParse(t, itemForm)
	eng := New(doc, WithHTTPClient(doerFunc(func(*http.Request) (*http.Response, error) {
		return nil, errors.New("connection reset")
	})), quiet())
	if err := eng.Hydrate(context.Background(), nil); err != nil {
		t.Fatal(err)
	}

	if err := eng.ActivateByID(context.Background(), "save"); !IsNetworkError(err) {
		t.Errorf("ActivateByID() error = %v, want network error", err)
	}
}

func TestActivate_MissingConfiguration(t *testing.T) {
	srv := NewTestServer().Status("/save", http.StatusNoContent)
	defer srv.Close()

	result, err := HydrateHTML(context.Background(), srv, itemForm, quiet())
	if err != nil {
		t.Fatal(err)
	}

	// The attribute is re-read at activation time.
	save := result.Document.GetElementByID("save")
	removeAttr(save, AttrForm)

	err = result.Engine.Activate(context.Background(), save)
	if !errors.Is(err, ErrBindingConfig) {
		t.Fatalf("Activate() error = %v, want ErrBindingConfig", err)
	}
	if len(srv.Requests()) != 0 {
		t.Errorf("requests = %v, want none", srv.Paths())
	}
}

func TestActivate_EmptyEndpointIsMisconfigured(t *testing.T) {
	srv := NewTestServer()
	defer srv.Close()

	result, err := HydrateHTML(context.Background(), srv,
		`<button id="b" data-form="g" data-action-target="">Go</button>`, quiet())
	if err != nil {
		t.Fatal(err)
	}
	if err := result.Engine.ActivateByID(context.Background(), "b"); !errors.Is(err, ErrBindingConfig) {
		t.Errorf("ActivateByID() error = %v, want ErrBindingConfig", err)
	}
}

func TestActivate_UnboundIsNoop(t *testing.T) {
	srv := NewTestServer().Status("/save", http.StatusNoContent)
	defer srv.Close()

	doc := mustParse(t, itemForm)
	eng := srv.Engine(doc, quiet())

	// Not hydrated yet, so no handler is attached.
	if err := eng.ActivateByID(context.Background(), "save"); err != nil {
		t.Errorf("ActivateByID() error = %v, want nil", err)
	}
	if err := eng.ActivateByID(context.Background(), "missing"); err != nil {
		t.Errorf("ActivateByID(missing) error = %v, want nil", err)
	}
	if len(srv.Requests()) != 0 {
		t.Errorf("requests = %v, want none", srv.Paths())
	}
}

func TestBind_Dedupes(t *testing.T) {
	srv := NewTestServer().Status("/save", http.StatusNoContent)
	defer srv.Close()

	result, err := HydrateHTML(context.Background(), srv, itemForm, quiet())
	if err != nil {
		t.Fatal(err)
	}
	eng := result.Engine
	if err := eng.Hydrate(context.Background(), nil); err != nil {
		t.Fatal(err)
	}

	save := result.Document.GetElementByID("save")
	if !result.Document.Bound(save) {
		t.Fatal("save button is not bound")
	}
	if n := len(result.Document.bound); n != 1 {
		t.Errorf("bound handlers = %d, want 1", n)
	}

	if err := eng.Activate(context.Background(), save); err != nil {
		t.Fatal(err)
	}
	if n := len(srv.RequestsTo("/save")); n != 1 {
		t.Errorf("submissions per activation = %d, want 1", n)
	}
}

func TestBind_InsideLoadedFragment(t *testing.T) {
	srv := NewTestServer().
		Fragment("/form", `<input data-form="f" id="q" value="v"><button id="go" data-form="f" data-action-target="/go">Go</button>`).
		Status("/go", http.StatusNoContent)
	defer srv.Close()

	result, err := HydrateHTML(context.Background(), srv, `<div data-component="/form"></div>`, quiet())
	if err != nil {
		t.Fatal(err)
	}

	if !result.Document.Bound(result.Document.GetElementByID("go")) {
		t.Fatal("binding inside a loaded fragment was not attached")
	}
	if err := result.Engine.ActivateByID(context.Background(), "go"); err != nil {
		t.Fatal(err)
	}
	if n := len(srv.RequestsTo("/go")); n != 1 {
		t.Errorf("submissions = %d, want 1", n)
	}
}
