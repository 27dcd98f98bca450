package core

import (
	"context"
	"fmt"

	assert "github.com/ZanzyTHEbar/assert-lib"
	"github.com/ZanzyTHEbar/errbuilder-go"

	"vx/internal/types"
)

// ValidateToolSpec checks the structural invariants a catalog entry
// must hold before the resolver or installer acts on it. Catalog
// entries are compiled into the binary, so a violation here is a
// programming error rather than user input.
func ValidateToolSpec(ctx context.Context, spec types.ToolSpec) error {
	assert.NotEmpty(ctx, spec.Name, "runtime name must be set")

	for _, dep := range spec.Dependencies {
		if dep.Runtime == "" {
			return errbuilder.New().
				WithCode(errbuilder.CodeInvalidArgument).
				WithMsg(fmt.Sprintf("dependency of %s has no runtime name", spec.Name))
		}
		if dep.Runtime == spec.Name {
			return errbuilder.New().
				WithCode(errbuilder.CodeInvalidArgument).
				WithMsg(fmt.Sprintf("%s lists itself as a dependency", spec.Name))
		}
	}

	for _, alias := range spec.Aliases {
		if alias == "" {
			return errbuilder.New().
				WithCode(errbuilder.CodeInvalidArgument).
				WithMsg(fmt.Sprintf("%s has an empty alias", spec.Name))
		}
		if alias == spec.Name {
			return errbuilder.New().
				WithCode(errbuilder.CodeInvalidArgument).
				WithMsg(fmt.Sprintf("%s aliases its own name", spec.Name))
		}
	}

	for _, platform := range spec.SupportedPlatforms {
		if platform.OS == "" || platform.Arch == "" {
			return errbuilder.New().
				WithCode(errbuilder.CodeInvalidArgument).
				WithMsg(fmt.Sprintf("%s has a platform entry with missing os or arch", spec.Name))
		}
	}

	return nil
}
