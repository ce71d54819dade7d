package hxhydrate

import (
	"reflect"
	"testing"
)

func TestCollectForm(t *testing.T) {
	doc := mustParse(t, `
		<input data-form="g" id="c" value="3">
		<div>
			<input data-form="g" id="a" value="1">
			<input data-form="other" id="x" value="ignored">
		</div>
		<input data-form="g" id="b" value="2">
		<input data-form="g" value="no id">
		<button data-form="g" id="save" data-action-target="/save" value="not a field">Save</button>`)

	got := doc.CollectForm("g")
	want := map[string]string{"a": "1", "b": "2", "c": "3"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("CollectForm() = %v, want %v", got, want)
	}
}

func TestCollectForm_EmptyGroup(t *testing.T) {
	doc := mustParse(t, `<input data-form="g" id="a" value="1">`)

	got := doc.CollectForm("missing")
	if got == nil || len(got) != 0 {
		t.Errorf("CollectForm() = %v, want empty non-nil map", got)
	}
	if got := CollectForm(nil, "g"); got == nil || len(got) != 0 {
		t.Errorf("CollectForm(nil) = %v, want empty map", got)
	}
}

func TestCollectForm_Controls(t *testing.T) {
	doc := mustParse(t, `
		<textarea data-form="g" id="notes">line one
line two</textarea>
		<select data-form="g" id="status">
			<option value="open">Open</option>
			<option value="closed" selected>Closed</option>
		</select>
		<select data-form="g" id="first">
			<option>  Alpha </option>
			<option>Beta</option>
		</select>
		<select data-form="g" id="none"></select>
		<input data-form="g" id="blank">`)

	want := map[string]string{
		"notes":  "line one\nline two",
		"status": "closed",
		"first":  "Alpha",
		"none":   "",
		"blank":  "",
	}
	if got := doc.CollectForm("g"); !reflect.DeepEqual(got, want) {
		t.Errorf("CollectForm() = %v, want %v", got, want)
	}
}

func TestCollectForm_DuplicateIDLastWins(t *testing.T) {
	doc := mustParse(t, `<input data-form="g" id="a" value="1"><input data-form="g" id="a" value="2">`)

	if got := doc.CollectForm("g")["a"]; got != "2" {
		t.Errorf("a = %q, want 2", got)
	}
}

func TestSetValue(t *testing.T) {
	doc := mustParse(t, `
		<input data-form="g" id="title" value="old">
		<textarea data-form="g" id="notes">old</textarea>
		<select data-form="g" id="status">
			<option value="open" selected>Open</option>
			<option value="closed">Closed</option>
		</select>`)

	for id, v := range map[string]string{"title": "new", "notes": "fresh", "status": "closed"} {
		if !doc.SetValue(id, v) {
			t.Fatalf("SetValue(%q) = false", id)
		}
	}
	if doc.SetValue("missing", "x") {
		t.Error("SetValue on a missing id should report false")
	}

	want := map[string]string{"title": "new", "notes": "fresh", "status": "closed"}
	if got := doc.CollectForm("g"); !reflect.DeepEqual(got, want) {
		t.Errorf("CollectForm() = %v, want %v", got, want)
	}
}
