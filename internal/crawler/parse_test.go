package crawler

import (
	"strings"
	"testing"
)

func TestParseHTMLLinks(t *testing.T) {
	html := `<html><body>
		<a href="/about">About</a>
		<a href="contact.html">Contact</a>
		<a href="http://example.com/about">Duplicate</a>
		<a href="mailto:x@example.com">Mail</a>
		<a href="javascript:void(0)">JS</a>
		<a href="/search?q=term#results">Search</a>
	</body></html>`

	content, err := ParseHTML(strings.NewReader(html), "http://example.com/index.html")
	if err != nil {
		t.Fatalf("ParseHTML failed: %v", err)
	}

	want := []string{
		"http://example.com/about",
		"http://example.com/contact.html",
		"http://example.com/search?q=term",
	}
	if len(content.Links) != len(want) {
		t.Fatalf("links = %v, want %v", content.Links, want)
	}
	for i := range want {
		if content.Links[i] != want[i] {
			t.Fatalf("links = %v, want %v", content.Links, want)
		}
	}
}

func TestParseHTMLForms(t *testing.T) {
	html := `<html><body>
		<form action="/login" method="POST">
			<input type="text" name="username">
			<input type="password" name="password">
			<input type="submit" value="Go">
			<textarea name="comment"></textarea>
			<select name="role"><option>user</option></select>
		</form>
	</body></html>`

	content, err := ParseHTML(strings.NewReader(html), "http://example.com/login")
	if err != nil {
		t.Fatalf("ParseHTML failed: %v", err)
	}

	if len(content.Forms) != 1 {
		t.Fatalf("expected 1 form, got %d", len(content.Forms))
	}

	form := content.Forms[0]
	if form.ActionURL != "http://example.com/login" {
		t.Errorf("action = %q", form.ActionURL)
	}
	if form.Method != "post" {
		t.Errorf("method = %q, want post", form.Method)
	}

	wantInputs := []string{"username", "password", "comment", "role"}
	if len(form.Inputs) != len(wantInputs) {
		t.Fatalf("inputs = %v, want %v", form.Inputs, wantInputs)
	}
	for i := range wantInputs {
		if form.Inputs[i] != wantInputs[i] {
			t.Fatalf("inputs = %v, want %v", form.Inputs, wantInputs)
		}
	}
}

func TestParseHTMLFormFallbacks(t *testing.T) {
	t.Run("empty action falls back to page URL", func(t *testing.T) {
		html := `<form method="get"><input name="q"></form>`
		content, err := ParseHTML(strings.NewReader(html), "http://example.com/search")
		if err != nil {
			t.Fatalf("ParseHTML failed: %v", err)
		}
		if got := content.Forms[0].ActionURL; got != "http://example.com/search" {
			t.Errorf("action = %q, want the hosting page URL", got)
		}
	})

	t.Run("unnormalizable action falls back to page URL", func(t *testing.T) {
		html := `<form action="javascript:submit()" method="post"><input name="q"></form>`
		content, err := ParseHTML(strings.NewReader(html), "http://example.com/page")
		if err != nil {
			t.Fatalf("ParseHTML failed: %v", err)
		}
		if got := content.Forms[0].ActionURL; got != "http://example.com/page" {
			t.Errorf("action = %q, want the hosting page URL", got)
		}
	})

	t.Run("unknown method treated as get", func(t *testing.T) {
		for _, method := range []string{"PUT", "delete", "dialog", ""} {
			html := `<form action="/x" method="` + method + `"><input name="q"></form>`
			content, err := ParseHTML(strings.NewReader(html), "http://example.com/")
			if err != nil {
				t.Fatalf("ParseHTML failed: %v", err)
			}
			if got := content.Forms[0].Method; got != "get" {
				t.Errorf("method %q mapped to %q, want get", method, got)
			}
		}
	})

	t.Run("post preserved", func(t *testing.T) {
		html := `<form action="/x" method="post"><input name="q"></form>`
		content, err := ParseHTML(strings.NewReader(html), "http://example.com/")
		if err != nil {
			t.Fatalf("ParseHTML failed: %v", err)
		}
		if got := content.Forms[0].Method; got != "post" {
			t.Errorf("method = %q, want post", got)
		}
	})
}

func TestParseHTMLUnnamedFieldsSkipped(t *testing.T) {
	html := `<form action="/x"><input type="submit"><input name=""><input name="real"></form>`
	content, err := ParseHTML(strings.NewReader(html), "http://example.com/")
	if err != nil {
		t.Fatalf("ParseHTML failed: %v", err)
	}
	if len(content.Forms[0].Inputs) != 1 || content.Forms[0].Inputs[0] != "real" {
		t.Errorf("inputs = %v, want [real]", content.Forms[0].Inputs)
	}
}
