package cmd

import (
	"net/url"
	"strconv"

	"github.com/spf13/cobra"
)

var eventsCmd = &cobra.Command{
	Use:   "events [ID]",
	Short: "List recorded events",
	Long: `List recorded events.

Without an argument, shows the integration event log (connections,
actions, errors). With an integration ID, shows that integration's
webhook deliveries, most recent first.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runEvents,
}

func init() {
	eventsCmd.Flags().Int("limit", 50, "Maximum number of events to show")
}

func runEvents(cmd *cobra.Command, args []string) error {
	if len(args) == 1 {
		return runWebhookEvents(cmd, args[0])
	}
	return runBusEvents(cmd)
}

func runWebhookEvents(cmd *cobra.Command, id string) error {
	client := mustClient()

	params := url.Values{}
	if v, _ := cmd.Flags().GetInt("limit"); v > 0 {
		params.Set("limit", strconv.Itoa(v))
	}

	path := "/api/v1/integrations/" + id + "/events"
	if q := params.Encode(); q != "" {
		path += "?" + q
	}

	data, err := client.Get(path)
	if err != nil {
		return err
	}

	var resp WebhookEventListResponse
	if err := unmarshal(data, &resp); err != nil {
		return err
	}

	switch flagOutput {
	case outputJSON:
		printJSON(resp)
	case outputYAML:
		printYAML(resp)
	case outputWide:
		t := newTable("ID", "EVENT", "PROCESSED", "TIME")
		for _, e := range resp.Data {
			t.AddRow(e.ID, e.Event, processedStr(e.Processed), shortTime(e.Timestamp))
		}
		t.Flush()
		printTotal(resp.Total)
	default:
		t := newTable("ID", "EVENT", "PROCESSED", "TIME")
		for _, e := range resp.Data {
			t.AddRow(truncate(e.ID, 12), e.Event, processedStr(e.Processed), shortTime(e.Timestamp))
		}
		t.Flush()
		printTotal(resp.Total)
	}
	return nil
}

func runBusEvents(cmd *cobra.Command) error {
	client := mustClient()

	params := url.Values{}
	if v, _ := cmd.Flags().GetInt("limit"); v > 0 {
		params.Set("limit", strconv.Itoa(v))
	}

	path := "/api/v1/events"
	if q := params.Encode(); q != "" {
		path += "?" + q
	}

	data, err := client.Get(path)
	if err != nil {
		return err
	}

	var resp BusEventListResponse
	if err := unmarshal(data, &resp); err != nil {
		return err
	}

	switch flagOutput {
	case outputJSON:
		printJSON(resp)
	case outputYAML:
		printYAML(resp)
	case outputWide:
		t := newTable("ID", "TYPE", "INTEGRATION", "ERROR", "TIME")
		for _, e := range resp.Data {
			t.AddRow(e.ID, e.Type, e.IntegrationID, e.Error, shortTime(e.Timestamp))
		}
		t.Flush()
		printTotal(resp.Total)
	default:
		t := newTable("TYPE", "INTEGRATION", "TIME")
		for _, e := range resp.Data {
			t.AddRow(e.Type, e.IntegrationID, shortTime(e.Timestamp))
		}
		t.Flush()
		printTotal(resp.Total)
	}
	return nil
}
