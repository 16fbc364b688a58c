package main

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func slotsCmd() *cobra.Command {
	var date string
	cmd := &cobra.Command{
		Use:   "slots",
		Short: "List open appointment slots for a date",
		RunE: func(cmd *cobra.Command, args []string) error {
			if date == "" {
				date = time.Now().Format("2006-01-02")
			}
			resp, err := newAPIClient(viper.GetString("server")).Slots(cmd.Context(), date)
			if err != nil {
				return err
			}
			if viper.GetBool("json") {
				return printJSON(resp)
			}
			renderSlots(os.Stdout, resp)
			return nil
		},
	}
	cmd.Flags().StringVar(&date, "date", "", "date as YYYY-MM-DD (default today)")
	return cmd
}

func renderSlots(w io.Writer, resp slotsResponse) {
	if len(resp.Slots) == 0 {
		fmt.Fprintf(w, "No open slots on %s.\n", resp.Date)
		return
	}
	tw := table.NewWriter()
	tw.SetOutputMirror(w)
	tw.SetTitle("Open slots on " + resp.Date)
	tw.AppendHeader(table.Row{"#", "Start"})
	for i, slot := range resp.Slots {
		tw.AppendRow(table.Row{i + 1, slot})
	}
	tw.AppendFooter(table.Row{"", fmt.Sprintf("%d open", len(resp.Slots))})
	tw.Render()
}
