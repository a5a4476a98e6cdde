package runner

import (
	"fmt"
	"path/filepath"
	"sort"
	"strings"
)

// isPattern matches the wildcard characters the encoder front-end has
// always expanded itself.
func isPattern(arg string) bool {
	return strings.ContainsAny(arg, "*?")
}

// ExpandArgs replaces the first wildcard argument with the sorted list of
// files it matches. Arguments without a wildcard pass through unchanged.
func ExpandArgs(args []string) ([]string, error) {
	idx := -1
	for i, arg := range args {
		if isPattern(arg) {
			idx = i
			break
		}
	}
	if idx < 0 {
		return append([]string(nil), args...), nil
	}

	matches, err := Match(args[idx])
	if err != nil {
		return nil, err
	}

	out := make([]string, 0, len(args)-1+len(matches))
	out = append(out, args[:idx]...)
	out = append(out, matches...)
	out = append(out, args[idx+1:]...)
	return out, nil
}

// Match returns the files pattern matches in lexicographic order, or
// ErrNoInputFiles when there are none.
func Match(pattern string) ([]string, error) {
	matches, err := filepath.Glob(pattern)
	if err != nil {
		return nil, fmt.Errorf("expand %q: %w", pattern, err)
	}
	if len(matches) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrNoInputFiles, pattern)
	}
	sort.Strings(matches)
	return matches, nil
}

// outputPath returns the value following the last "-o".
func outputPath(args []string) string {
	for i := len(args) - 2; i >= 0; i-- {
		if args[i] == "-o" {
			return args[i+1]
		}
	}
	return ""
}
