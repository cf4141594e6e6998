package spine

import (
	"fmt"
	"sort"
	"strings"

	"github.com/fatih/color"
)

// Difference implements spec.md §6's difference(left, right): a
// printable summary of object class, relationship class, and parameter
// names present in left but not in right.
func Difference(left, right *Environment) string {
	var b strings.Builder
	heading := color.New(color.FgYellow, color.Bold)
	item := color.New(color.FgRed)

	section := func(title string, leftNames, rightNames []string) {
		rightSet := make(map[string]bool, len(rightNames))
		for _, n := range rightNames {
			rightSet[n] = true
		}
		var missing []string
		for _, n := range leftNames {
			if !rightSet[n] {
				missing = append(missing, n)
			}
		}
		if len(missing) == 0 {
			return
		}
		sort.Strings(missing)
		b.WriteString(heading.Sprintf("%s only in %q:\n", title, left.name))
		for _, n := range missing {
			b.WriteString(item.Sprintf("  - %s\n", n))
		}
	}

	section("object classes", names(left.objectClasses), names(right.objectClasses))
	section("relationship classes", namesRC(left.relationshipClasses), namesRC(right.relationshipClasses))
	section("parameters", namesP(left.parameters), namesP(right.parameters))

	if b.Len() == 0 {
		return fmt.Sprintf("%q has nothing that %q lacks", left.name, right.name)
	}
	return b.String()
}

func names(m map[string]*ObjectClass) []string {
	out := make([]string, 0, len(m))
	for n := range m {
		out = append(out, n)
	}
	return out
}

func namesRC(m map[string]*RelationshipClass) []string {
	out := make([]string, 0, len(m))
	for n := range m {
		out = append(out, n)
	}
	return out
}

func namesP(m map[string]*Parameter) []string {
	out := make([]string, 0, len(m))
	for n := range m {
		out = append(out, n)
	}
	return out
}
