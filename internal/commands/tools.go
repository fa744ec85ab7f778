// internal/commands/tools.go
package orderbridge

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/mwiater/orderbridge/internal/tools"
)

var (
	toolName     = color.New(color.FgCyan, color.Bold).SprintFunc()
	requiredMark = color.New(color.FgYellow).SprintFunc()
	dimText      = color.New(color.Faint).SprintFunc()
)

var (
	toolsJSON    bool
	toolsSchemas bool
)

// toolsCmd prints the discovery catalog.
var toolsCmd = &cobra.Command{
	Use:   "tools",
	Short: "List the registered tools and their input fields",
	RunE: func(cmd *cobra.Command, args []string) error {
		b, err := newBridge(GetConfig())
		if err != nil {
			return err
		}
		catalog, _ := b.local.Discover("")
		if toolsJSON {
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(catalog)
		}
		printCatalog(cmd.OutOrStdout(), catalog.Tools, toolsSchemas)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(toolsCmd)
	toolsCmd.Flags().BoolVar(&toolsJSON, "json", false, "print the discovery document as JSON")
	toolsCmd.Flags().BoolVar(&toolsSchemas, "schemas", false, "also print each tool's input and output schema")
}

func printCatalog(out io.Writer, defs []tools.Definition, withSchemas bool) {
	for i, def := range defs {
		if i > 0 {
			fmt.Fprintln(out)
		}
		fmt.Fprintf(out, "%s\n  %s\n", toolName(def.Name), def.Description)
		fields := schemaFields(def.InputSchema)
		if len(fields) == 0 {
			fmt.Fprintf(out, "  %s\n", dimText("(no input)"))
		}
		for _, f := range fields {
			mark := ""
			if f.required {
				mark = " " + requiredMark("required")
			}
			fmt.Fprintf(out, "  - %s %s%s\n", f.name, dimText(f.kind), mark)
		}
		if withSchemas {
			fmt.Fprintf(out, "  input schema:\n%s\n", indent(def.InputSchema.MarshalIndent(), "    "))
			fmt.Fprintf(out, "  output schema:\n%s\n", indent(def.OutputSchema.MarshalIndent(), "    "))
		}
	}
}

func indent(s, prefix string) string {
	return prefix + strings.ReplaceAll(s, "\n", "\n"+prefix)
}

type schemaField struct {
	name     string
	kind     string
	required bool
}

// schemaFields lists the top-level properties of an object schema, sorted by name.
func schemaFields(s tools.Schema) []schemaField {
	props, _ := s["properties"].(map[string]any)
	required := map[string]bool{}
	switch req := s["required"].(type) {
	case []string:
		for _, name := range req {
			required[name] = true
		}
	case []any:
		for _, name := range req {
			if n, ok := name.(string); ok {
				required[n] = true
			}
		}
	}

	fields := make([]schemaField, 0, len(props))
	for name, raw := range props {
		kind := "any"
		if prop, ok := raw.(map[string]any); ok {
			switch t := prop["type"].(type) {
			case string:
				kind = t
			case []any:
				parts := make([]string, 0, len(t))
				for _, p := range t {
					parts = append(parts, fmt.Sprint(p))
				}
				kind = strings.Join(parts, "|")
			case []string:
				kind = strings.Join(t, "|")
			}
		}
		fields = append(fields, schemaField{name: name, kind: kind, required: required[name]})
	}
	sort.Slice(fields, func(i, j int) bool { return fields[i].name < fields[j].name })
	return fields
}
