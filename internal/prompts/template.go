package prompts

import "regexp"

// variablePattern matches {{var}} placeholders with optional inner
// whitespace. Names are lowercase snake_case.
var variablePattern = regexp.MustCompile(`\{\{\s*([a-z_][a-z0-9_]*)\s*\}\}`)

// ExtractVariables returns unique variable names from a template, in
// order of first appearance.
func ExtractVariables(template string) []string {
	seen := make(map[string]bool)
	var result []string
	for _, match := range variablePattern.FindAllStringSubmatch(template, -1) {
		name := match[1]
		if !seen[name] {
			seen[name] = true
			result = append(result, name)
		}
	}
	return result
}

// FillTemplate replaces {{var}} placeholders with values. Placeholders
// without a value are left as-is.
func FillTemplate(template string, variables map[string]string) string {
	return variablePattern.ReplaceAllStringFunc(template, func(match string) string {
		name := variablePattern.FindStringSubmatch(match)[1]
		if value, ok := variables[name]; ok {
			return value
		}
		return match
	})
}

// ValidateVariables returns the template variables missing from the
// provided values.
func ValidateVariables(template string, variables map[string]string) []string {
	var missing []string
	for _, name := range ExtractVariables(template) {
		if _, ok := variables[name]; !ok {
			missing = append(missing, name)
		}
	}
	return missing
}
