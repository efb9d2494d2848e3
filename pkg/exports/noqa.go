package exports

import (
	"regexp"
	"strings"
)

// noqaPattern matches "# noqa: ALL" and "# noqa: ALL[name, other]".
var noqaPattern = regexp.MustCompile(`#\s*noqa:\s*ALL(?:\[([A-Za-z0-9_, ]*)\])?`)

// ParseSuppression reads a suppression directive from one source line.
// A bare "ALL" disables checking; a bracketed list exempts those names.
func ParseSuppression(line string) Suppression {
	match := noqaPattern.FindStringSubmatchIndex(line)
	if match == nil {
		return Suppression{}
	}

	// Group 1 is unset (-1) for the bare form.
	if match[2] < 0 {
		return Suppression{All: true}
	}

	names := make(Names)

	for name := range strings.SplitSeq(line[match[2]:match[3]], ",") {
		name = strings.TrimSpace(name)
		if name != "" {
			names.Add(name)
		}
	}

	return Suppression{Names: names}
}

func isDirective(comment string) bool {
	return noqaPattern.MatchString(comment)
}

// suppressionOf parses the first suppression directive among comments.
func suppressionOf(comments []string) Suppression {
	for _, comment := range comments {
		if isDirective(comment) {
			return ParseSuppression(comment)
		}
	}

	return Suppression{}
}

// Directive renders the suppression comment that would silence names.
func Directive(names []string) string {
	if len(names) == 0 {
		return "# noqa: ALL"
	}

	return "# noqa: ALL[" + strings.Join(names, ",") + "]"
}
