package cli

import (
	"fmt"
	"regexp"
	"strings"
)

var varPairStart = regexp.MustCompile(`^\s*[A-Za-z_][A-Za-z0-9_.-]*\s*=`)

// parseVars parses repeated key=value flags. A flag may hold several comma
// separated pairs; a comma not followed by key= belongs to the current value.
func parseVars(values []string) (map[string]string, error) {
	vars := make(map[string]string)
	for _, value := range values {
		key := ""
		for i, segment := range strings.Split(value, ",") {
			if i > 0 && key != "" && !varPairStart.MatchString(segment) {
				vars[key] += "," + segment
				continue
			}
			pair := strings.TrimSpace(segment)
			if pair == "" {
				continue
			}
			k, val, ok := strings.Cut(pair, "=")
			if !ok {
				return nil, fmt.Errorf("invalid variable %q (expected key=value)", pair)
			}
			k = strings.TrimSpace(k)
			if k == "" {
				return nil, fmt.Errorf("invalid variable %q (empty key)", pair)
			}
			key = k
			vars[key] = val
		}
	}
	return vars, nil
}

const maxProjectNameLength = 214

var projectNamePattern = regexp.MustCompile(`^[a-z0-9][a-z0-9._~-]*$`)

// validateProjectName checks name against npm package naming rules, since the
// name ends up in package.json.
func validateProjectName(name string) error {
	switch {
	case name == "":
		return fmt.Errorf("project name is required")
	case len(name) > maxProjectNameLength:
		return fmt.Errorf("project name must be at most %d characters", maxProjectNameLength)
	case strings.ToLower(name) != name:
		return fmt.Errorf("project name %q must be lowercase", name)
	case !projectNamePattern.MatchString(name):
		return fmt.Errorf("project name %q may only contain lowercase letters, digits, '-', '.', '_' and '~', and must start with a letter or digit", name)
	}
	return nil
}
