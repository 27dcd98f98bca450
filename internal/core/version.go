package core

import (
	"fmt"
	"strings"

	semver "github.com/Masterminds/semver/v3"
	"github.com/ZanzyTHEbar/errbuilder-go"
	pep440 "github.com/aquasecurity/go-pep440-version"

	"vx/internal/types"
)

// constraintMatcher is a pre-parsed version constraint ready for
// repeated comparison. Python-ecosystem runtimes use PEP 440 specifier
// semantics; every other ecosystem uses semver ranges.
type constraintMatcher struct {
	any bool
	sem *semver.Constraints
	pep *pep440.Specifiers
}

// newConstraintMatcher parses a raw constraint string for the given
// ecosystem. An empty or "latest" constraint matches any version.
func newConstraintMatcher(eco types.Ecosystem, raw string) (constraintMatcher, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" || raw == "latest" {
		return constraintMatcher{any: true}, nil
	}
	if eco == types.EcosystemPython {
		spec, err := pep440.NewSpecifiers(normalizePep440Spec(raw))
		if err != nil {
			return constraintMatcher{}, errbuilder.New().
				WithCode(errbuilder.CodeInvalidArgument).
				WithMsg(fmt.Sprintf("invalid version constraint: %s", raw)).
				WithCause(err)
		}
		return constraintMatcher{pep: &spec}, nil
	}
	constraints, err := semver.NewConstraint(raw)
	if err != nil {
		return constraintMatcher{}, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg(fmt.Sprintf("invalid version constraint: %s", raw)).
			WithCause(err)
	}
	return constraintMatcher{sem: constraints}, nil
}

// Matches reports whether version satisfies the constraint. Versions
// that fail to parse never match a non-any constraint.
func (m constraintMatcher) Matches(version string) bool {
	if m.any {
		return true
	}
	if m.pep != nil {
		parsed, err := pep440.Parse(version)
		if err != nil {
			return false
		}
		return m.pep.Check(parsed)
	}
	parsed, err := semver.NewVersion(version)
	if err != nil {
		return false
	}
	return m.sem.Check(parsed)
}

// normalizePep440Spec turns a bare version into an exact PEP 440
// specifier so "3.12.1" pins rather than failing to parse.
func normalizePep440Spec(raw string) string {
	if len(raw) > 0 && (raw[0] >= '0' && raw[0] <= '9') {
		return "== " + raw
	}
	return raw
}
