package utils

import (
	"fmt"
	"strings"
)

// RenderTemplate substitutes {name} placeholders in template with values
// from data. Placeholders with no matching key are left as literal text,
// so a malformed template degrades to a readable message instead of
// failing the send.
func RenderTemplate(template string, data map[string]interface{}) string {
	message := template
	for key, value := range data {
		message = strings.ReplaceAll(message, "{"+key+"}", fmt.Sprint(value))
	}
	return message
}

// MergeData merges data maps left to right; later maps win on key clashes.
func MergeData(maps ...map[string]interface{}) map[string]interface{} {
	merged := make(map[string]interface{})
	for _, m := range maps {
		for key, value := range m {
			merged[key] = value
		}
	}
	return merged
}
