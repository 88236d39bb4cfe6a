package cmd

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var connectCmd = &cobra.Command{
	Use:   "connect ID",
	Short: "Connect an integration",
	Long: `Connect an integration with provider configuration.

Config values are passed as repeated --set key=value flags:

  hookhub-admin connect github --set webhookUrl=https://example.com/hook --set webhookSecret=s3cret`,
	Args: cobra.ExactArgs(1),
	RunE: runConnect,
}

var disconnectCmd = &cobra.Command{
	Use:   "disconnect ID",
	Short: "Disconnect an integration and clear its configuration",
	Args:  cobra.ExactArgs(1),
	RunE:  runDisconnect,
}

var testCmd = &cobra.Command{
	Use:   "test ID",
	Short: "Probe an integration's connection",
	Args:  cobra.ExactArgs(1),
	RunE:  runTest,
}

var triggerCmd = &cobra.Command{
	Use:   "trigger ID ACTION",
	Short: "Trigger an action on a connected integration",
	Long: `Trigger an action on a connected integration.

The optional payload is passed as JSON:

  hookhub-admin trigger slack send_message --data '{"text":"deploy done"}'`,
	Args: cobra.ExactArgs(2),
	RunE: runTrigger,
}

func init() {
	connectCmd.Flags().StringArray("set", nil, "Config entry as key=value (repeatable)")
	triggerCmd.Flags().String("data", "", "Action payload as a JSON object")
}

func runConnect(cmd *cobra.Command, args []string) error {
	client := mustClient()

	pairs, _ := cmd.Flags().GetStringArray("set")
	config := make(map[string]string, len(pairs))
	for _, p := range pairs {
		k, v, ok := strings.Cut(p, "=")
		if !ok || k == "" {
			return fmt.Errorf("invalid --set entry %q, expected key=value", p)
		}
		config[k] = v
	}

	data, err := client.Post("/api/v1/integrations/"+args[0]+"/connect", map[string]any{
		"config": config,
	})
	if err != nil {
		return err
	}

	var resp IntegrationResponse
	if err := unmarshal(data, &resp); err != nil {
		return err
	}

	switch flagOutput {
	case outputJSON:
		printJSON(resp)
	case outputYAML:
		printYAML(resp)
	default:
		fmt.Printf("Integration %s is now %s.\n", resp.ID, resp.Status)
	}
	return nil
}

func runDisconnect(cmd *cobra.Command, args []string) error {
	client := mustClient()

	data, err := client.Post("/api/v1/integrations/"+args[0]+"/disconnect", nil)
	if err != nil {
		return err
	}

	var resp IntegrationResponse
	if err := unmarshal(data, &resp); err != nil {
		return err
	}

	switch flagOutput {
	case outputJSON:
		printJSON(resp)
	case outputYAML:
		printYAML(resp)
	default:
		fmt.Printf("Integration %s is now %s.\n", resp.ID, resp.Status)
	}
	return nil
}

func runTest(cmd *cobra.Command, args []string) error {
	client := mustClient()

	data, err := client.Post("/api/v1/integrations/"+args[0]+"/test", nil)
	if err != nil {
		return err
	}

	var resp TestConnectionResponse
	if err := unmarshal(data, &resp); err != nil {
		return err
	}

	switch flagOutput {
	case outputJSON:
		printJSON(resp)
	case outputYAML:
		printYAML(resp)
	default:
		if resp.Success {
			fmt.Printf("Connection test for %s: OK\n", args[0])
		} else {
			fmt.Printf("Connection test for %s: FAILED\n", args[0])
		}
	}
	return nil
}

func runTrigger(cmd *cobra.Command, args []string) error {
	client := mustClient()

	body := map[string]any{"action": args[1]}
	if raw, _ := cmd.Flags().GetString("data"); raw != "" {
		var payload map[string]any
		if err := json.Unmarshal([]byte(raw), &payload); err != nil {
			return fmt.Errorf("parse --data: %w", err)
		}
		body["data"] = payload
	}

	data, err := client.Post("/api/v1/integrations/"+args[0]+"/actions", body)
	if err != nil {
		return err
	}

	var resp TriggerActionResponse
	if err := unmarshal(data, &resp); err != nil {
		return err
	}

	switch flagOutput {
	case outputJSON:
		printJSON(resp)
	case outputYAML:
		printYAML(resp)
	default:
		fmt.Printf("Action %s dispatched to %s.\n", resp.Action, args[0])
		if len(resp.Result) > 0 {
			printJSON(resp.Result)
		}
	}
	return nil
}
