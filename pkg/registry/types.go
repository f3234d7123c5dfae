package registry

import "slices"

// Category classifies what kind of module a record describes.
// It is used for styling and report breakdowns only.
type Category string

// Known categories, in the order reports list them.
const (
	CategorySource         Category = "source"
	CategoryPackage        Category = "package"
	CategoryService        Category = "service"
	CategoryLibrary        Category = "library"
	CategoryTooling        Category = "tooling"
	CategoryScript         Category = "script"
	CategoryConfig         Category = "config"
	CategoryDocumentation  Category = "documentation"
	CategoryTesting        Category = "testing"
	CategoryExample        Category = "example"
	CategoryTemplate       Category = "template"
	CategoryData           Category = "data"
	CategoryInfrastructure Category = "infrastructure"
	CategoryThirdParty     Category = "third-party"
	CategoryExperimental   Category = "experimental"
)

// Categories lists every known category in declaration order.
var Categories = []Category{
	CategorySource,
	CategoryPackage,
	CategoryService,
	CategoryLibrary,
	CategoryTooling,
	CategoryScript,
	CategoryConfig,
	CategoryDocumentation,
	CategoryTesting,
	CategoryExample,
	CategoryTemplate,
	CategoryData,
	CategoryInfrastructure,
	CategoryThirdParty,
	CategoryExperimental,
}

// Valid reports whether c is one of the known categories.
func (c Category) Valid() bool { return slices.Contains(Categories, c) }

// Importance ranks how central a module is to the project.
type Importance string

const (
	ImportanceCritical  Importance = "critical"
	ImportanceImportant Importance = "important"
	ImportanceOptional  Importance = "optional"
	ImportanceExcluded  Importance = "excluded"
)

// Importances lists every known importance level, most important first.
var Importances = []Importance{
	ImportanceCritical,
	ImportanceImportant,
	ImportanceOptional,
	ImportanceExcluded,
}

// Valid reports whether i is one of the known importance levels.
func (i Importance) Valid() bool { return slices.Contains(Importances, i) }

// RelationType tags a declared relationship between two modules.
type RelationType string

const (
	RelationDependency     RelationType = "dependency"
	RelationDevDependency  RelationType = "dev-dependency"
	RelationPeerDependency RelationType = "peer-dependency"
	RelationImports        RelationType = "imports"
	RelationExtends        RelationType = "extends"
	RelationImplements     RelationType = "implements"
	RelationUses           RelationType = "uses"
	RelationConfigures     RelationType = "configures"
	RelationTests          RelationType = "tests"
	RelationDocuments      RelationType = "documents"
	RelationBuilds         RelationType = "builds"
	RelationDeploys        RelationType = "deploys"
	RelationGenerates      RelationType = "generates"
	RelationRelated        RelationType = "related"
)

// RelationTypes lists every known relationship type.
var RelationTypes = []RelationType{
	RelationDependency,
	RelationDevDependency,
	RelationPeerDependency,
	RelationImports,
	RelationExtends,
	RelationImplements,
	RelationUses,
	RelationConfigures,
	RelationTests,
	RelationDocuments,
	RelationBuilds,
	RelationDeploys,
	RelationGenerates,
	RelationRelated,
}

// Valid reports whether t is one of the known relationship types.
func (t RelationType) Valid() bool { return slices.Contains(RelationTypes, t) }
