package core

import (
	"fmt"
	"strings"

	"github.com/ZanzyTHEbar/errbuilder-go"
)

// ParseToolRequest splits a CLI-style "tool@version" request into the
// runtime name and optional version constraint. A bare name yields an
// empty constraint, which resolution treats as "any version".
//
// Examples: "node", "node@20", "yarn@1.22.19", "python@>=3.11".
func ParseToolRequest(raw string) (string, string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", "", errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("empty tool request")
	}
	name, constraint, found := strings.Cut(raw, "@")
	name = strings.TrimSpace(name)
	constraint = strings.TrimSpace(constraint)
	if name == "" || (found && constraint == "") {
		return "", "", errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg(fmt.Sprintf("invalid tool request: %s", raw))
	}
	return name, constraint, nil
}
