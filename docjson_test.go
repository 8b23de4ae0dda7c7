package aspen

import "testing"

func TestLoadDocumentRejectsBadInput(t *testing.T) {
	if _, err := LoadDocument([]byte(`{`)); err == nil {
		t.Error("truncated JSON should fail")
	}
	if _, err := LoadDocument([]byte(`{"id": "d"}`)); err == nil {
		t.Error("document without a root should fail")
	}
}

func TestLoadDocumentRootID(t *testing.T) {
	doc := loadTestDoc(t, buttonDoc)
	if doc.RootID() != "main" {
		t.Errorf("RootID = %q, want main", doc.RootID())
	}
	if doc.DocumentID() != "doc-1" {
		t.Errorf("DocumentID = %q, want doc-1", doc.DocumentID())
	}
}

func TestLoadDocumentStyleParsing(t *testing.T) {
	doc := loadTestDoc(t, `{
		"id": "d",
		"root": {"id": "r", "style": {
			"width": {"pct": 50}, "height": {"px": 80},
			"direction": "column", "justify": "space-between", "align": "stretch",
			"gap": 8, "padding": 4, "grow": 2,
			"fill": {"r": 0.2, "g": 0.4, "b": 0.6, "a": 0.5},
			"opacity": 0.75, "rotation": 1.5
		}}
	}`)
	v, err := doc.View("r")
	if err != nil {
		t.Fatalf("View: %v", err)
	}
	s := v.Style
	if s.Width != Percent(50) || s.Height != Fixed(80) {
		t.Errorf("dims = %v / %v", s.Width, s.Height)
	}
	if s.Direction != Column || s.Justify != JustifySpaceBetween || s.Align != AlignStretch {
		t.Errorf("container props = %v %v %v", s.Direction, s.Justify, s.Align)
	}
	if s.Gap != 8 || s.Padding != EdgeAll(4) || s.Grow != 2 {
		t.Errorf("spacing = gap %v padding %v grow %v", s.Gap, s.Padding, s.Grow)
	}
	if s.Fill != (Color{R: 0.2, G: 0.4, B: 0.6, A: 0.5}) {
		t.Errorf("fill = %v", s.Fill)
	}
	if s.Opacity != 0.75 || s.Rotation != 1.5 {
		t.Errorf("paint = opacity %v rotation %v", s.Opacity, s.Rotation)
	}
}

func TestComponentDefinitionSelectorMatch(t *testing.T) {
	doc := loadTestDoc(t, buttonDoc)

	def, ok, err := doc.ComponentDefinition("buttonSet", map[string]string{"state": "active"})
	if err != nil || !ok {
		t.Fatalf("active variant: ok=%v err=%v", ok, err)
	}
	if def.Style.Width != Fixed(200) {
		t.Errorf("active width = %v, want 200", def.Style.Width)
	}

	// Unknown selection falls back to the default variant with ok=false.
	def, ok, err = doc.ComponentDefinition("buttonSet", map[string]string{"state": "hovering"})
	if err != nil || ok {
		t.Fatalf("fallback: ok=%v err=%v", ok, err)
	}
	if def.Style.Width != Fixed(120) {
		t.Errorf("fallback width = %v, want default 120", def.Style.Width)
	}

	if _, _, err := doc.ComponentDefinition("nope", nil); err == nil {
		t.Error("unknown set should fail")
	}
}
