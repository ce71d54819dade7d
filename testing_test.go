package hxhydrate

import (
	"context"
	"net/http"
	"reflect"
	"strings"
	"testing"
)

func TestTestServer_RecordsRequests(t *testing.T) {
	srv := NewTestServer().Fragment("/a", "a")
	defer srv.Close()

	for _, path := range []string{"/a", "/missing", "/a"} {
		resp, err := srv.Client().Post(srv.URL+path, "application/json", strings.NewReader(`{"n":1}`))
		if err != nil {
			t.Fatal(err)
		}
		resp.Body.Close()
	}

	if got, want := srv.Paths(), []string{"/a", "/missing", "/a"}; !reflect.DeepEqual(got, want) {
		t.Errorf("Paths() = %v, want %v", got, want)
	}
	if n := len(srv.RequestsTo("/a")); n != 2 {
		t.Errorf("RequestsTo(/a) = %d requests, want 2", n)
	}

	r := srv.Requests()[0]
	if r.Method != http.MethodPost || r.ContentType != "application/json" || string(r.Body) != `{"n":1}` {
		t.Errorf("recorded request = %+v", r)
	}
}

func TestTestServer_Status(t *testing.T) {
	srv := NewTestServer().Status("/gone", http.StatusGone)
	defer srv.Close()

	resp, err := srv.Client().Post(srv.URL+"/gone", "application/json", nil)
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusGone {
		t.Errorf("status = %d, want 410", resp.StatusCode)
	}
}

func TestTestServer_UnknownPathIsNotFound(t *testing.T) {
	srv := NewTestServer()
	defer srv.Close()

	result, err := HydrateHTML(context.Background(), srv, `<div data-component="/nowhere"></div>`, quiet())
	if err != nil {
		t.Fatal(err)
	}
	if !result.HasError("/nowhere") {
		t.Errorf("missing error marker: %s", result.HTML)
	}
}

func TestHydrateHTML_Result(t *testing.T) {
	srv := NewTestServer().Fragment("/c", `<span>done</span>`)
	defer srv.Close()

	result, err := HydrateHTML(context.Background(), srv, `<div data-component="/c"></div>`, quiet())
	if err != nil {
		t.Fatal(err)
	}

	if result.Document == nil || result.Engine == nil {
		t.Fatal("result is missing the document or engine")
	}
	if result.Engine.Document() != result.Document {
		t.Error("engine works against a different document")
	}
	if len(result.Requests) != 1 {
		t.Errorf("Requests = %d, want 1", len(result.Requests))
	}
	if result.HTML != result.Document.String() {
		t.Error("HTML does not match the rendered document")
	}
}

func TestTestResult_HTMLContains(t *testing.T) {
	result := &TestResult{HTML: `<div class="container"><span>Hello World</span></div>`}

	tests := []struct {
		substr string
		want   bool
	}{
		{"Hello World", true},
		{"container", true},
		{"<span>", true},
		{"Missing", false},
		{"", true}, // empty string is always contained
	}

	for _, tt := range tests {
		t.Run(tt.substr, func(t *testing.T) {
			if got := result.HTMLContains(tt.substr); got != tt.want {
				t.Errorf("HTMLContains(%q) = %v, want %v", tt.substr, got, tt.want)
			}
		})
	}
}

func TestTestResult_HTMLContainsAll(t *testing.T) {
	result := &TestResult{HTML: `<div class="container"><span>Hello World</span></div>`}

	if !result.HTMLContainsAll("Hello", "World", "container") {
		t.Error("expected HTMLContainsAll to return true for all present substrings")
	}

	if result.HTMLContainsAll("Hello", "Missing") {
		t.Error("expected HTMLContainsAll to return false when any substring is missing")
	}
}

func TestTestResult_Unresolved(t *testing.T) {
	doc := mustParse(t, `<div data-component="/a"></div><div data-component=""></div><div data-component="/b"></div>`)
	result := &TestResult{Document: doc, HTML: doc.String()}

	if got, want := result.Unresolved(), []string{"/a", "/b"}; !reflect.DeepEqual(got, want) {
		t.Errorf("Unresolved() = %v, want %v", got, want)
	}
}
