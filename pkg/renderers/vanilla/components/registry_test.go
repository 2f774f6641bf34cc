package components

import (
	"bytes"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-quicksetup/pkg/widget"
	"github.com/goliatone/go-quicksetup/pkg/widgets"
)

func noop(*bytes.Buffer, widget.Widget, ComponentData) error { return nil }

func TestRegistry_DescriptorClone(t *testing.T) {
	reg := New()
	if err := reg.Register(widgets.RendererText, Descriptor{Renderer: noop, Stylesheets: []string{"/a.css"}}); err != nil {
		t.Fatalf("register: %v", err)
	}

	desc, ok := reg.Descriptor(widgets.RendererText)
	if !ok {
		t.Fatalf("descriptor not found")
	}
	desc.Stylesheets = append(desc.Stylesheets, "/mutated.css")

	original, _ := reg.Descriptor(widgets.RendererText)
	if diff := cmp.Diff([]string{"/a.css"}, original.Stylesheets); diff != "" {
		t.Fatalf("registry descriptor mutated (-want +got):\n%s", diff)
	}
	if original.ID != widgets.RendererText {
		t.Fatalf("descriptor id not recorded, got %q", original.ID)
	}
}

func TestRegistry_RegisterValidation(t *testing.T) {
	reg := New()
	if err := reg.Register("", Descriptor{Renderer: noop}); err == nil {
		t.Fatalf("expected error for empty id")
	}
	if err := reg.Register(widgets.RendererText, Descriptor{}); err == nil {
		t.Fatalf("expected error for nil renderer")
	}
}

func TestRegistry_ComponentFallsBackToNone(t *testing.T) {
	reg := New()
	reg.MustRegister(widgets.RendererNone, Descriptor{Renderer: noop})

	desc, ok := reg.Component(widgets.RendererCollapsible)
	if !ok || desc.ID != widgets.RendererNone {
		t.Fatalf("expected none fallback, got %+v (ok=%v)", desc, ok)
	}
	if _, ok := New().Component(widgets.RendererText); ok {
		t.Fatalf("empty registry should not resolve")
	}
}

func TestRegistry_StylesheetsDeduplicate(t *testing.T) {
	reg := New()
	reg.MustRegister(widgets.RendererText, Descriptor{Renderer: noop, Stylesheets: []string{"/shared.css", "/text.css"}})
	reg.MustRegister(widgets.RendererList, Descriptor{Renderer: noop, Stylesheets: []string{"/shared.css", "", "/list.css"}})

	got := reg.Stylesheets([]widgets.RendererID{widgets.RendererText, widgets.RendererList, widgets.RendererFormSpec})
	if diff := cmp.Diff([]string{"/shared.css", "/text.css", "/list.css"}, got); diff != "" {
		t.Fatalf("stylesheets mismatch (-want +got):\n%s", diff)
	}
}

func TestRegistry_Clone(t *testing.T) {
	reg := NewDefaultRegistry()
	clone := reg.Clone()
	clone.MustRegister("custom-widget", Descriptor{Renderer: noop})

	if _, ok := reg.Descriptor("custom-widget"); ok {
		t.Fatalf("clone mutation leaked into original")
	}
	if len(clone.IDs()) != len(reg.IDs())+1 {
		t.Fatalf("clone should keep original entries")
	}
}

func TestSanitizeText(t *testing.T) {
	got := SanitizeText(` <b>bold</b> <a href="https://checkmk.com" onclick="x()">docs</a><script>alert(1)</script> `)
	if strings.Contains(got, "script") || strings.Contains(got, "onclick") {
		t.Fatalf("unsafe markup kept: %q", got)
	}
	if !strings.Contains(got, "<b>bold</b>") || !strings.Contains(got, `href="https://checkmk.com"`) {
		t.Fatalf("safe markup dropped: %q", got)
	}
	if SanitizeText("   ") != "" {
		t.Fatalf("blank text should sanitize to empty")
	}
}

func TestCollapsibleIDStable(t *testing.T) {
	a := CollapsibleID(1, "0.2")
	if a != CollapsibleID(1, "0.2") {
		t.Fatalf("collapsible id not deterministic")
	}
	if a == CollapsibleID(2, "0.2") || a == CollapsibleID(1, "0.3") {
		t.Fatalf("collapsible ids should differ by position")
	}
	if !strings.HasPrefix(a, "qs-collapsible-") {
		t.Fatalf("unexpected prefix %q", a)
	}
}
