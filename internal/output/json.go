package output

import (
	"encoding/json"

	"github.com/temirov/foldertodo/internal/types"
)

const jsonIndentPrefix = ""

// RenderJSON marshals the checklist tree with two-space indentation.
func RenderJSON(root *types.ChecklistNode) (string, error) {
	encoded, jsonEncodeError := json.MarshalIndent(root, jsonIndentPrefix, indentSpacer)
	if jsonEncodeError != nil {
		return "", jsonEncodeError
	}
	return string(encoded), nil
}
