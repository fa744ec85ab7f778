// internal/commands/call.go
package orderbridge

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/k0kubun/pp"
	"github.com/spf13/cobra"

	"github.com/mwiater/orderbridge/internal/dispatch"
)

var (
	successfulResult = color.New(color.FgGreen).SprintFunc()
	failedResult     = color.New(color.FgRed).SprintFunc()
)

// callCmd runs one tool in-process through the same dispatch path the servers use.
var callCmd = &cobra.Command{
	Use:   "call <tool> [input-json]",
	Short: "Call a tool once and print the response envelope",
	Example: `  orderbridge call get_menu
  orderbridge call create_order '{"item":"taco","quantity":2,"address":"1 Main St"}'`,
	Args: cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		input, err := parseInput(args[1:])
		if err != nil {
			return err
		}
		b, err := newBridge(GetConfig())
		if err != nil {
			return err
		}

		resp := b.local.Call(cmd.Context(), "", dispatch.Request{Tool: args[0], Input: input})
		if DebugEnabled() {
			pp.Fprintln(cmd.ErrOrStderr(), resp)
		}

		data, err := json.MarshalIndent(resp, "", "  ")
		if err != nil {
			return fmt.Errorf("encode response: %w", err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), string(data))

		if !resp.OK {
			fmt.Fprintf(cmd.ErrOrStderr(), "%s %s: %s\n", failedResult("FAILED"), resp.Error, resp.Details)
			return fmt.Errorf("tool %s failed with %s", args[0], resp.Error)
		}
		fmt.Fprintln(cmd.ErrOrStderr(), successfulResult("OK"))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(callCmd)
}

// parseInput decodes the optional JSON object argument. No argument means {}.
func parseInput(args []string) (map[string]any, error) {
	if len(args) == 0 || strings.TrimSpace(args[0]) == "" {
		return map[string]any{}, nil
	}
	var input map[string]any
	if err := json.Unmarshal([]byte(args[0]), &input); err != nil {
		return nil, fmt.Errorf("input must be a JSON object: %w", err)
	}
	if input == nil {
		input = map[string]any{}
	}
	return input, nil
}
