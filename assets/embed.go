package assets

import (
	"embed"
	"fmt"
	"strings"
)

//go:embed help/*.txt
var helpFS embed.FS

// Help returns the embedded help text for topic ("polygon", "freehand",
// "shortcuts") with surrounding whitespace trimmed.
func Help(topic string) (string, error) {
	b, err := helpFS.ReadFile("help/" + topic + ".txt")
	if err != nil {
		return "", fmt.Errorf("help topic %q: %w", topic, err)
	}
	return strings.TrimSpace(string(b)), nil
}

// MustHelp is Help for topics known to be embedded.
func MustHelp(topic string) string {
	s, err := Help(topic)
	if err != nil {
		panic(err)
	}
	return s
}
