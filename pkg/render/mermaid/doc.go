// Package mermaid renders architecture graphs as Mermaid flowcharts.
//
// # Usage
//
//	g := graph.Build(reg.Modules)
//	src := mermaid.Render(g, mermaid.Options{Direction: mermaid.LeftRight})
//
// # Output Shape
//
// The diagram is a single "graph <dir>" block:
//
//	graph TD
//	  apps_web["🚀 apps/web"]:::critical
//	  packages_legacy["packages/legacy"]:::missing
//
//	  apps_web -->|"📥 imports"| packages_legacy
//
//	  classDef critical fill:#ffe3e3,...
//
// Node display text is the category glyph followed by the node label.
// Importance selects the CSS class. Edge labels carry the relationship glyph
// and type name. Every importance class and the missing class are always
// defined, even if unused, so the styling block is stable across graphs.
//
// # Identifiers
//
// Module ids are arbitrary strings, while Mermaid node identifiers must be
// plain words. [SanitizeID] replaces every other character with "_". When two
// ids sanitize to the same identifier, later ones get a numeric suffix.
//
// # Validation
//
// The renderer trusts the graph as given. Dangling references are drawn
// rather than dropped so that authoring mistakes stay visible in the diagram.
package mermaid
