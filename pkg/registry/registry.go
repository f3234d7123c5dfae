package registry

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	apperrors "github.com/matzehuels/archgraph/pkg/errors"
)

// Relationship is one typed declaration from a module to another module id.
// The target may name a module that does not exist; that is reported by
// analysis, not rejected here.
type Relationship struct {
	Target      string       `json:"target" yaml:"target" toml:"target" validate:"required"`
	Type        RelationType `json:"type" yaml:"type" toml:"type" validate:"reltype"`
	Description string       `json:"description,omitempty" yaml:"description,omitempty" toml:"description,omitempty"`
}

// Module is a single registry record.
type Module struct {
	ID            string         `json:"id" yaml:"id" toml:"id" validate:"required"`
	Category      Category       `json:"category" yaml:"category" toml:"category" validate:"category"`
	Importance    Importance     `json:"importance" yaml:"importance" toml:"importance" validate:"importance"`
	Relationships []Relationship `json:"relationships,omitempty" yaml:"relationships,omitempty" toml:"relationships,omitempty" validate:"dive"`
}

// Registry is the ordered list of module records. Order is significant:
// every downstream output is ordered by it.
type Registry struct {
	Modules []Module `json:"modules" yaml:"modules" toml:"modules" validate:"dive"`
}

// RelationshipCount returns the total number of declared relationships.
func (r *Registry) RelationshipCount() int {
	n := 0
	for _, m := range r.Modules {
		n += len(m.Relationships)
	}
	return n
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	_ = v.RegisterValidation("category", func(fl validator.FieldLevel) bool {
		return Category(fl.Field().String()).Valid()
	})
	_ = v.RegisterValidation("importance", func(fl validator.FieldLevel) bool {
		return Importance(fl.Field().String()).Valid()
	})
	_ = v.RegisterValidation("reltype", func(fl validator.FieldLevel) bool {
		return RelationType(fl.Field().String()).Valid()
	})
	return v
}

// Validate checks the registry at ingestion time: required fields, closed
// enum values and id uniqueness. All problems are collected into a single
// INVALID_REGISTRY error.
//
// Relationship targets are only required to be non-empty. Whether they name a
// declared module, or anything path-like at all, is a structural finding
// reported by the analysis validator.
func (r *Registry) Validate() error {
	var problems []string

	if err := validate.Struct(r); err != nil {
		verrs, ok := err.(validator.ValidationErrors)
		if !ok {
			return apperrors.Wrap(apperrors.ErrCodeInvalidRegistry, err, "validate registry")
		}
		for _, fe := range verrs {
			problems = append(problems, describe(r, fe))
		}
	}

	seen := make(map[string]int, len(r.Modules))
	for i, m := range r.Modules {
		if m.ID == "" {
			continue
		}
		if err := apperrors.ValidateModuleID(m.ID); err != nil {
			problems = append(problems, fmt.Sprintf("modules[%d]: %s", i, apperrors.UserMessage(err)))
		}
		if first, dup := seen[m.ID]; dup {
			problems = append(problems, fmt.Sprintf("modules[%d]: duplicate id %q (first declared at modules[%d])", i, m.ID, first))
			continue
		}
		seen[m.ID] = i
	}

	if len(problems) > 0 {
		return apperrors.New(apperrors.ErrCodeInvalidRegistry, "%d problem(s):\n  %s",
			len(problems), strings.Join(problems, "\n  "))
	}
	return nil
}

// describe turns a validator field error into a message naming the record.
func describe(r *Registry, fe validator.FieldError) string {
	// Namespace looks like "Registry.Modules[3].Relationships[0].Type".
	path := strings.TrimPrefix(fe.Namespace(), "Registry.")
	path = strings.ToLower(path[:1]) + path[1:]

	var idx int
	owner := ""
	if _, err := fmt.Sscanf(path, "modules[%d]", &idx); err == nil && idx < len(r.Modules) {
		owner = r.Modules[idx].ID
	}

	var msg string
	switch fe.Tag() {
	case "required":
		msg = "is required"
	case "category", "importance":
		msg = fmt.Sprintf("unknown %s %q", fe.Tag(), fe.Value())
	case "reltype":
		msg = fmt.Sprintf("unknown relationship type %q", fe.Value())
	default:
		msg = fmt.Sprintf("failed %q check", fe.Tag())
	}

	if owner != "" {
		return fmt.Sprintf("%s (%s): %s", path, owner, msg)
	}
	return fmt.Sprintf("%s: %s", path, msg)
}
