package cmd

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/spf13/cobra"
)

var listCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List integrations",
	RunE:    runList,
}

var getCmd = &cobra.Command{
	Use:   "get ID",
	Short: "Show one integration",
	Args:  cobra.ExactArgs(1),
	RunE:  runGet,
}

func init() {
	listCmd.Flags().String("category", "", "Filter by category (development, communication, automation, storage, analytics, security)")
	listCmd.Flags().String("status", "", "Filter by status (connected, disconnected, pending, error)")
}

func runList(cmd *cobra.Command, args []string) error {
	client := mustClient()

	params := url.Values{}
	if v, _ := cmd.Flags().GetString("category"); v != "" {
		params.Set("category", v)
	}
	if v, _ := cmd.Flags().GetString("status"); v != "" {
		params.Set("status", v)
	}

	path := "/api/v1/integrations"
	if q := params.Encode(); q != "" {
		path += "?" + q
	}

	data, err := client.Get(path)
	if err != nil {
		return err
	}

	var resp IntegrationListResponse
	if err := unmarshal(data, &resp); err != nil {
		return err
	}

	switch flagOutput {
	case outputJSON:
		printJSON(resp)
	case outputYAML:
		printYAML(resp)
	case outputWide:
		t := newTable("ID", "NAME", "TYPE", "CATEGORY", "STATUS", "CAPABILITIES", "UPDATED")
		for _, i := range resp.Data {
			t.AddRow(i.ID, i.Name, i.Type, i.Category, i.Status,
				strings.Join(i.Capabilities, ","), shortTime(i.UpdatedAt))
		}
		t.Flush()
		printTotal(resp.Total)
	default:
		t := newTable("ID", "NAME", "TYPE", "STATUS")
		for _, i := range resp.Data {
			t.AddRow(i.ID, truncate(i.Name, 24), i.Type, i.Status)
		}
		t.Flush()
		printTotal(resp.Total)
	}
	return nil
}

func runGet(cmd *cobra.Command, args []string) error {
	client := mustClient()

	data, err := client.Get("/api/v1/integrations/" + args[0])
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
		fmt.Printf("ID:           %s\n", resp.ID)
		fmt.Printf("Name:         %s\n", resp.Name)
		if resp.Description != "" {
			fmt.Printf("Description:  %s\n", resp.Description)
		}
		fmt.Printf("Type:         %s\n", resp.Type)
		fmt.Printf("Category:     %s\n", resp.Category)
		fmt.Printf("Status:       %s\n", resp.Status)
		if len(resp.Capabilities) > 0 {
			fmt.Printf("Capabilities: %s\n", strings.Join(resp.Capabilities, ", "))
		}
		if len(resp.Config) > 0 {
			fmt.Printf("Config:\n")
			for k, v := range resp.Config {
				fmt.Printf("  %s: %s\n", k, v)
			}
		}
		fmt.Printf("Created:      %s\n", shortTime(resp.CreatedAt))
		fmt.Printf("Updated:      %s\n", shortTime(resp.UpdatedAt))
	}
	return nil
}
