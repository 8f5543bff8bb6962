package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/bull/rag-assistant/internal/app"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show knowledge base and booking counts",
	Args:  cobra.NoArgs,
	RunE:  runStatus,
}

var bookingsCmd = &cobra.Command{
	Use:   "bookings",
	Short: "List recorded interview bookings",
	Args:  cobra.NoArgs,
	RunE:  runBookings,
}

func init() {
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(bookingsCmd)
}

func runStatus(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	out := cmd.OutOrStdout()

	a, err := openApp(ctx, app.WithoutChat())
	if err != nil {
		return err
	}
	defer a.Close()

	chunks, err := a.VectorStore.CountChunks(ctx)
	if err != nil {
		return fmt.Errorf("failed to count chunks: %w", err)
	}
	bookings, err := a.Bookings.Count(ctx)
	if err != nil {
		return fmt.Errorf("failed to count bookings: %w", err)
	}

	fmt.Fprintf(out, "Vector store: %s (%s)\n", a.Config.Qdrant.Type, a.Config.Qdrant.Collection)
	fmt.Fprintf(out, "  Chunks: %d\n", chunks)
	fmt.Fprintf(out, "Bookings: %s\n", a.Config.Storage.BookingDriver)
	fmt.Fprintf(out, "  Records: %d\n", bookings)
	return nil
}

func runBookings(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	out := cmd.OutOrStdout()

	a, err := openApp(ctx, app.WithoutChat())
	if err != nil {
		return err
	}
	defer a.Close()

	records, err := a.Bookings.List(ctx)
	if err != nil {
		return fmt.Errorf("failed to list bookings: %w", err)
	}
	if len(records) == 0 {
		fmt.Fprintln(out, "No bookings recorded.")
		return nil
	}

	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tEMAIL\tDATE\tTIME\tCREATED")
	for _, r := range records {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\t%s\n",
			r.ID, r.Name, r.Email, r.Date, r.Time, r.CreatedAt.Local().Format("2006-01-02 15:04"))
	}
	return tw.Flush()
}
