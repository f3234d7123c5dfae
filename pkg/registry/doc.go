// Package registry defines the architecture registry: the ordered list of
// module records that archgraph analyzes.
//
// A registry is authored by hand, so the package is strict about shape and
// lenient about references:
//
//   - Category, importance and relationship type are closed enums
//     ([Category], [Importance], [RelationType]) checked by [Registry.Validate].
//   - Module ids must be present and unique.
//   - Relationship targets are not resolved here. A target that names no
//     module is a structural finding surfaced by the analysis validator, so
//     the author sees it next to the rest of the graph diagnostics.
//
// # File Formats
//
// Registries can be stored as JSON, YAML or TOML with the same shape:
//
//	{
//	  "modules": [
//	    {"id": "packages/core", "category": "package", "importance": "critical"},
//	    {"id": "packages/ui", "category": "package", "importance": "important",
//	     "relationships": [{"target": "packages/core", "type": "dependency"}]}
//	  ]
//	}
//
// Use [Load] to read and validate a file, or [Read] for an io.Reader.
package registry
