// Command spine is a reference driver over the engine: it loads one of
// a small number of bundled demo datasets and either runs a fixed
// query battery, drops into an interactive REPL, or answers a single
// -query string (SPEC_FULL.md §4.7). It is a convenience harness, not
// part of the engine's contract.
package main

import (
	"bufio"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/arvihall/spine"
	"github.com/arvihall/spine/format"
)

func main() {
	var interactive bool
	var help bool
	var verbose bool
	var queryStr string
	var seed string

	flag.BoolVar(&interactive, "i", false, "interactive mode")
	flag.BoolVar(&help, "h", false, "show help")
	flag.BoolVar(&verbose, "verbose", false, "verbose mode (print every query before its result)")
	flag.StringVar(&queryStr, "query", "", "run a single query and exit")
	flag.StringVar(&seed, "seed", "energy", "demo dataset to load: energy or grid")
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s [options]\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Reference driver for the spine EAV query engine.\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  %s                      # run the demo query battery\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s -i                   # interactive mode\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s -seed grid -i        # interactive mode over the larger synthetic grid\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s -query 'oc commodity'\n", os.Args[0])
	}
	flag.Parse()

	if help {
		flag.Usage()
		os.Exit(0)
	}

	var env *spine.Environment
	switch seed {
	case "energy":
		env = buildEnergySeed()
	case "grid":
		env = buildGridSeed(20, 5)
	default:
		fmt.Fprintf(os.Stderr, "unknown -seed %q (want energy or grid)\n", seed)
		os.Exit(1)
	}

	switch {
	case queryStr != "":
		runQuery(env, queryStr, verbose)
	case interactive:
		runInteractive(env, verbose)
	default:
		runDemo(env)
	}
}

func runDemo(env *spine.Environment) {
	fmt.Printf("=== spine demo (%s) ===\n\n", env.Name())

	queries := []string{
		"oc commodity",
		"oc commodity state_of_matter=gas",
		"rc node__commodity commodity=water",
		"rc node__commodity node=anything",
		"p tax_net_flow node=Sthlm commodity=water",
	}
	for _, q := range queries {
		fmt.Printf("> %s\n", q)
		runQuery(env, q, false)
		fmt.Println()
	}
}

func runInteractive(env *spine.Environment, verbose bool) {
	fmt.Println("=== spine interactive mode ===")
	fmt.Println("Commands:")
	fmt.Println("  oc <class> [filters...]  - query an object class")
	fmt.Println("  rc <class> [filters...]  - query a relationship class")
	fmt.Println("  p  <name>  [filters...]  - invoke a parameter")
	fmt.Println("  .exit                    - exit")
	fmt.Println()

	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print("> ")
		if !scanner.Scan() {
			return
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if line == ".exit" {
			return
		}
		runQuery(env, line, verbose)
	}
}

func runQuery(env *spine.Environment, q string, verbose bool) {
	if verbose {
		fmt.Printf("query: %s\n", q)
	}
	fields := strings.Fields(q)
	if len(fields) < 2 {
		fmt.Println("expected: <oc|rc|p> <name> [label=value ...]")
		return
	}
	kind, name, rest := fields[0], fields[1], fields[2:]
	filters, err := parseFilters(env, rest)
	if err != nil {
		fmt.Printf("error: %v\n", err)
		return
	}

	switch kind {
	case "oc":
		runObjectClassQuery(env, name, filters)
	case "rc":
		runRelationshipClassQuery(env, name, filters)
	case "p":
		runParameterQuery(env, name, filters)
	default:
		fmt.Printf("unknown query kind %q (want oc, rc, or p)\n", kind)
	}
}

func runObjectClassQuery(env *spine.Environment, name string, filters map[string]interface{}) {
	oc, ok := env.ObjectClass(name)
	if !ok {
		fmt.Printf("no object class %q\n", name)
		return
	}
	matches, err := oc.Filter(filters)
	if err != nil {
		fmt.Printf("error: %v\n", err)
		return
	}
	fmt.Print(format.ObjectsTable(name, matches))
}

func runRelationshipClassQuery(env *spine.Environment, name string, filters map[string]interface{}) {
	rc, ok := env.RelationshipClass(name)
	if !ok {
		fmt.Printf("no relationship class %q\n", name)
		return
	}
	result, err := rc.Query(filters, true, nil)
	if err != nil {
		fmt.Printf("error: %v\n", err)
		return
	}
	switch v := result.(type) {
	case []*spine.Object:
		fmt.Print(format.ObjectsTable("result", v))
	case []map[string]*spine.Object:
		fmt.Print(format.RowsTable(remainingLabels(rc.Labels(), filters), v))
	default:
		fmt.Printf("%v\n", v)
	}
}

func runParameterQuery(env *spine.Environment, name string, filters map[string]interface{}) {
	p, ok := env.Parameter(name)
	if !ok {
		fmt.Printf("no parameter %q\n", name)
		return
	}
	got, err := p.Call(spine.CallArgs{Dims: filters})
	if err != nil {
		fmt.Printf("error: %v\n", err)
		return
	}
	fmt.Printf("%v\n", got)
}

func remainingLabels(labels []string, filters map[string]interface{}) []string {
	var out []string
	for _, l := range labels {
		if _, ok := filters[l]; !ok {
			out = append(out, l)
		}
	}
	return out
}

// parseFilters resolves "label=value" tokens against env's registered
// object classes: value "anything" becomes the wildcard, anything else
// is looked up by name within the class sharing the filter's label,
// falling back to every registered object class if none matches.
func parseFilters(env *spine.Environment, tokens []string) (map[string]interface{}, error) {
	out := make(map[string]interface{}, len(tokens))
	for _, tok := range tokens {
		parts := strings.SplitN(tok, "=", 2)
		if len(parts) != 2 {
			return nil, fmt.Errorf("malformed filter %q (want label=value)", tok)
		}
		label, val := parts[0], parts[1]
		if val == "anything" {
			out[label] = spine.Anything
			continue
		}
		obj := lookupObjectByName(env, label, val)
		if obj != nil {
			out[label] = obj
			continue
		}
		if f, err := parseNumber(val); err == nil {
			out[label] = f
			continue
		}
		out[label] = val
	}
	return out, nil
}

func lookupObjectByName(env *spine.Environment, label, val string) *spine.Object {
	if oc, ok := env.ObjectClass(label); ok {
		if o := oc.ByName(val); o != nil {
			return o
		}
	}
	for _, oc := range env.ObjectClasses() {
		if o := oc.ByName(val); o != nil {
			return o
		}
	}
	return nil
}

func parseNumber(s string) (float64, error) {
	var f float64
	_, err := fmt.Sscanf(s, "%g", &f)
	if err != nil {
		return 0, err
	}
	return f, nil
}
