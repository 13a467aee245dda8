package server

import (
	"net/http/httptest"
	"regexp"
	"strings"
	"testing"
)

func TestNewTemplates(t *testing.T) {
	tmpl, err := NewTemplates()
	if err != nil {
		t.Fatalf("NewTemplates() error = %v", err)
	}
	if tmpl.templates.Lookup("index.html") == nil {
		t.Error("index.html template not parsed")
	}
}

func TestTemplates_Render(t *testing.T) {
	tmpl, err := NewTemplates()
	if err != nil {
		t.Fatalf("NewTemplates() error = %v", err)
	}

	rec := httptest.NewRecorder()
	if err := tmpl.Render(rec, "index.html", IndexPageData{
		Title:    "Fixtures <&>",
		Endpoint: "/api/schedules",
		LinkBase: "https://hamariweb.com/cricket/schedules.aspx",
	}); err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	if !strings.Contains(rec.Body.String(), "Fixtures &lt;&amp;&gt;") {
		t.Error("title should be HTML-escaped")
	}
	base := regexp.MustCompile(`linkBase = "https:\\?/\\?/hamariweb\.com\\?/cricket\\?/schedules\.aspx"`)
	if !base.MatchString(rec.Body.String()) {
		t.Error("link base should be rendered as a JS string")
	}
	if !strings.Contains(rec.Body.String(), `u.protocol === "http:" || u.protocol === "https:"`) {
		t.Error("links should be limited to http and https")
	}

	if err := tmpl.Render(httptest.NewRecorder(), "missing.html", nil); err == nil {
		t.Error("Render() of unknown template should fail")
	}
}
