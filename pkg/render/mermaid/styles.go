package mermaid

import "github.com/matzehuels/archgraph/pkg/registry"

var categoryGlyphs = map[registry.Category]string{
	registry.CategorySource:         "📄",
	registry.CategoryPackage:        "📦",
	registry.CategoryService:        "🚀",
	registry.CategoryLibrary:        "📚",
	registry.CategoryTooling:        "🔧",
	registry.CategoryScript:         "📜",
	registry.CategoryConfig:         "⚙️",
	registry.CategoryDocumentation:  "📖",
	registry.CategoryTesting:        "🧪",
	registry.CategoryExample:        "💡",
	registry.CategoryTemplate:       "📋",
	registry.CategoryData:           "🗄️",
	registry.CategoryInfrastructure: "🏗️",
	registry.CategoryThirdParty:     "🔌",
	registry.CategoryExperimental:   "🧬",
}

var relationGlyphs = map[registry.RelationType]string{
	registry.RelationDependency:     "🔗",
	registry.RelationDevDependency:  "🛠️",
	registry.RelationPeerDependency: "🤝",
	registry.RelationImports:        "📥",
	registry.RelationExtends:        "⬆️",
	registry.RelationImplements:     "🧩",
	registry.RelationUses:           "🔧",
	registry.RelationConfigures:     "⚙️",
	registry.RelationTests:          "🧪",
	registry.RelationDocuments:      "📖",
	registry.RelationBuilds:         "🏗️",
	registry.RelationDeploys:        "🚀",
	registry.RelationGenerates:      "✨",
	registry.RelationRelated:        "↔️",
}

const fallbackGlyph = "•"

// CategoryGlyph returns the node prefix for a category.
func CategoryGlyph(c registry.Category) string {
	if g, ok := categoryGlyphs[c]; ok {
		return g
	}
	return fallbackGlyph
}

// RelationGlyph returns the edge label prefix for a relationship type.
func RelationGlyph(t registry.RelationType) string {
	if g, ok := relationGlyphs[t]; ok {
		return g
	}
	return fallbackGlyph
}

var classStyles = map[registry.Importance]string{
	registry.ImportanceCritical:  "fill:#ffe3e3,stroke:#c92a2a,stroke-width:3px,color:#000",
	registry.ImportanceImportant: "fill:#fff3bf,stroke:#e67700,stroke-width:2px,color:#000",
	registry.ImportanceOptional:  "fill:#e7f5ff,stroke:#1971c2,stroke-width:1px,color:#000",
	registry.ImportanceExcluded:  "fill:#f1f3f5,stroke:#868e96,stroke-width:1px,color:#495057",
}

const missingStyle = "fill:#ffffff,stroke:#fa5252,stroke-width:2px,stroke-dasharray:5 5,color:#c92a2a"
