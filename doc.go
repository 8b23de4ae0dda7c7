// Package aspen renders externally-authored design documents into live,
// animatable UI trees.
//
// A design document is a tree of styled views with component variants,
// parameter bindings, and list/grid content slots. Aspen resolves a document
// view against the active customization context into a concrete tree,
// computes its geometry through a pluggable layout oracle, and when state
// changes, diffs the old and new trees to build an animated transition that
// runs on the host frame clock.
//
// # Quick start
//
// Load a document, create an engine over a layout oracle, and apply a
// context:
//
//	doc, _ := aspen.LoadDocument(data)
//	engine := aspen.NewEngine(doc, doc.RootID(), flexlayout.New(640, 480), nil)
//	engine.Apply(&aspen.Context{Variants: map[string]string{"state": "idle"}})
//
// A later Apply with a different context builds a transition; tick it on
// your frame clock until it completes:
//
//	engine.Apply(&aspen.Context{Variants: map[string]string{"state": "active"}})
//	for engine.Tick(16.6) {
//		aspen.Render(screen, engine.Tree())
//	}
//
// The [Run] wrapper does the window and frame loop for you with [Ebitengine]:
//
//	aspen.Run(engine, aspen.RunConfig{Title: "Demo", Width: 640, Height: 480})
//
// # Resolution
//
// [Resolve] follows component and variant references: an instance picks the
// variant matching the context's selections (falling back to the set's
// default), instance overrides win over the variant's base style, and
// list/grid nodes splice in generated content keyed by caller-supplied item
// keys. Problems degrade to placeholders and are collected as diagnostics,
// never thrown.
//
// # Transitions
//
// [BuildTransition] matches nodes across two trees by identity. Matched
// nodes animate position, size, rotation, scale, and opacity (tweens via
// [gween], or springs); kind changes cross-fade; removed nodes fade out at
// their last geometry; added nodes fade in. Superseding a running transition
// continues from the current interpolated values, so nothing snaps.
//
// All entry points are single-threaded and frame-driven; there is no
// background work.
//
// [Ebitengine]: https://ebitengine.org
// [gween]: https://github.com/tanema/gween
package aspen
