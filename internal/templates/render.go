package templates

import (
	"bytes"
	"fmt"
	"regexp"
	"strings"
)

var (
	placeholderKey   = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_.-]*$`)
	placeholderToken = regexp.MustCompile(`\{\{\s*([A-Za-z_][A-Za-z0-9_.-]*)\s*\}\}`)
)

// MissingPlaceholderError is returned by Render when content references a key
// that has no value.
type MissingPlaceholderError struct {
	Name string
}

func (e *MissingPlaceholderError) Error() string {
	return fmt.Sprintf("missing value for placeholder %q", e.Name)
}

// Render replaces every {{key}} token in content with vars[key]. The first
// token without an entry in vars aborts rendering.
func Render(content []byte, vars map[string]string) ([]byte, error) {
	matches := placeholderToken.FindAllSubmatchIndex(content, -1)
	if len(matches) == 0 {
		return content, nil
	}

	var out bytes.Buffer
	out.Grow(len(content))
	last := 0
	for _, m := range matches {
		key := string(content[m[2]:m[3]])
		value, ok := vars[key]
		if !ok {
			return nil, &MissingPlaceholderError{Name: key}
		}
		out.Write(content[last:m[0]])
		out.WriteString(value)
		last = m[1]
	}
	out.Write(content[last:])
	return out.Bytes(), nil
}

// Placeholders returns the distinct keys referenced by content in order of
// first appearance.
func Placeholders(content []byte) []string {
	var keys []string
	seen := make(map[string]bool)
	for _, m := range placeholderToken.FindAllSubmatch(content, -1) {
		key := string(m[1])
		if seen[key] {
			continue
		}
		seen[key] = true
		keys = append(keys, key)
	}
	return keys
}

// ApplyDefaults returns a copy of vars with declared defaults filled in for
// keys that are absent or blank.
func ApplyDefaults(tmpl *Template, vars map[string]string) map[string]string {
	data := make(map[string]string, len(vars))
	for key, value := range vars {
		data[key] = value
	}
	if tmpl == nil {
		return data
	}
	for _, p := range tmpl.Placeholders {
		if strings.TrimSpace(data[p.Name]) == "" && p.Default != "" {
			data[p.Name] = p.Default
		}
	}
	return data
}

// MissingPlaceholders lists required declared placeholders without a
// non-blank value in vars.
func MissingPlaceholders(tmpl *Template, vars map[string]string) []string {
	if tmpl == nil {
		return nil
	}
	var missing []string
	for _, p := range tmpl.Placeholders {
		if p.Required && strings.TrimSpace(vars[p.Name]) == "" {
			missing = append(missing, p.Name)
		}
	}
	return missing
}

// InvalidPlaceholderError reports a value that does not match its declared pattern.
type InvalidPlaceholderError struct {
	Name    string
	Value   string
	Pattern string
}

func (e *InvalidPlaceholderError) Error() string {
	return fmt.Sprintf("value %q for placeholder %q does not match %s", e.Value, e.Name, e.Pattern)
}

// CheckPlaceholders validates supplied values against declared patterns.
// Absent values are left to MissingPlaceholders.
func CheckPlaceholders(tmpl *Template, vars map[string]string) error {
	if tmpl == nil {
		return nil
	}
	for _, p := range tmpl.Placeholders {
		value, ok := vars[p.Name]
		if !ok || p.Pattern == "" {
			continue
		}
		re, err := regexp.Compile(p.Pattern)
		if err != nil {
			return fmt.Errorf("template %s: placeholder %q: invalid pattern: %w", tmpl.Name, p.Name, err)
		}
		if !re.MatchString(value) {
			return &InvalidPlaceholderError{Name: p.Name, Value: value, Pattern: p.Pattern}
		}
	}
	return nil
}
