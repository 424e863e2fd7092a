package presenter

import (
	"strings"

	"github.com/soocke/roi-annotator/domain/roi"
)

// keysyms maps Tk keysym names onto the editor's key names.
var keysyms = map[string]string{
	"BackSpace": roi.KeyBackspace,
	"Delete":    roi.KeyDelete,
	"KP_Delete": roi.KeyDelete,
	"Escape":    roi.KeyEscape,
}

// NormalizeKey converts a Tk keysym to the name roi.KeyDown expects.
// Printable single-character keysyms pass through lower-cased; anything
// else is returned unchanged and ignored by the editor.
func NormalizeKey(keysym string) string {
	if k, ok := keysyms[keysym]; ok {
		return k
	}
	if len(keysym) == 1 {
		return strings.ToLower(keysym)
	}
	return keysym
}
