package html

import (
	"net/url"
	"testing"

	"github.com/domlife/domlife/dom"
)

func TestBuildForm(t *testing.T) {
	doc := dom.NewHTMLDocument(nil)
	form := BuildForm(doc, "/submit", "", url.Values{
		"b": {"2"},
		"a": {"1"},
	})

	if form.GetAttribute("action") != "/submit" {
		t.Errorf("unexpected action %q", form.GetAttribute("action"))
	}
	if form.GetAttribute("method") != "post" {
		t.Errorf("method should default to post, got %q", form.GetAttribute("method"))
	}
	if form.AsNode().IsConnected() {
		t.Error("built form must be detached")
	}

	inputs := form.GetElementsByTagName("input")
	if inputs.Length() != 2 {
		t.Fatalf("expected 2 inputs, got %d", inputs.Length())
	}
	first := inputs.Item(0).AsElement()
	if first.GetAttribute("name") != "a" || first.GetAttribute("value") != "1" {
		t.Error("keys should be emitted in sorted order")
	}
	if first.GetAttribute("type") != "hidden" {
		t.Error("inputs should be hidden")
	}
}

func TestBuildFormRepeatedValuesKeepOrder(t *testing.T) {
	doc := dom.NewHTMLDocument(nil)
	form := BuildForm(doc, "/submit", "GET", url.Values{
		"tag": {"x", "y", "x"},
	})

	if form.GetAttribute("method") != "get" {
		t.Errorf("method should be lowercased, got %q", form.GetAttribute("method"))
	}
	inputs := form.GetElementsByTagName("input")
	if inputs.Length() != 3 {
		t.Fatalf("expected 3 inputs, got %d", inputs.Length())
	}
	var values []string
	inputs.ForEach(func(n *dom.Node, _ int) {
		values = append(values, n.AsElement().GetAttribute("value"))
	})
	if values[0] != "x" || values[1] != "y" || values[2] != "x" {
		t.Errorf("repeated values must keep their order, got %v", values)
	}
}

func TestFormMarkup(t *testing.T) {
	got := FormMarkup("/go?x=1", "", url.Values{
		"msg": {`a "quote" & more`},
	})
	want := `<form action="/go?x=1" method="post">` +
		`<input type="hidden" name="msg" value="a &#34;quote&#34; &amp; more">` +
		`</form>`
	if got != want {
		t.Errorf("expected %q, got %q", want, got)
	}
}

func TestFormMarkupMatchesBuiltForm(t *testing.T) {
	doc := dom.NewHTMLDocument(nil)
	fields := url.Values{"a": {"1"}, "b": {"2"}}

	built := Serialize(BuildForm(doc, "/submit", "post", fields).AsNode())
	direct := FormMarkup("/submit", "post", fields)
	if built != direct {
		t.Errorf("both renderings should agree:\n built: %s\ndirect: %s", built, direct)
	}
}
