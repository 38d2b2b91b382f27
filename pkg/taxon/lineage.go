// ============================================================================
// taxon - Taxonomy Service Client
// ============================================================================
//
// Package:     taxon
// Description: Lineage normalization
// Created:     2025-12-15
// License:     MIT
// ============================================================================

package taxon

import (
	"fmt"
	"strconv"
	"strings"
)

// SplitLineage converts a raw lineage value into its ranks. The value is
// coerced to text the way string concatenation does in dynamic clients:
// null becomes "null", objects "[object Object]", and list items are joined
// with "," where null items are empty. The text is then split on "," and
// every element trimmed. Nothing is rejected: "" yields [""].
func SplitLineage(raw interface{}) []string {
	parts := strings.Split(lineageText(raw), ",")
	for i, p := range parts {
		parts[i] = strings.TrimSpace(p)
	}
	return parts
}

const objectText = "[object Object]"

func lineageText(v interface{}) string {
	if v == nil {
		return "null"
	}
	return itemText(v)
}

// itemText renders v as a list element; null elements join as empty
func itemText(v interface{}) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case bool:
		return strconv.FormatBool(x)
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case int64:
		return strconv.FormatInt(x, 10)
	case int:
		return strconv.Itoa(x)
	case []string:
		return strings.Join(x, ",")
	case []interface{}:
		items := make([]string, len(x))
		for i, item := range x {
			items[i] = itemText(item)
		}
		return strings.Join(items, ",")
	case map[string]interface{}:
		return objectText
	default:
		return fmt.Sprint(x)
	}
}
