package commands

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/dukerupert/shoppinglist/internal/model"
)

var (
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#10B981")).Bold(true)
	warningStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#F59E0B")).Bold(true)
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#EF4444")).Bold(true)
)

func printSuccess(w io.Writer, format string, args ...any) {
	fmt.Fprintf(w, "%s%s\n", successStyle.Render("✓ "), fmt.Sprintf(format, args...))
}

func printWarning(w io.Writer, format string, args ...any) {
	fmt.Fprintf(w, "%s%s\n", warningStyle.Render("⚠ "), fmt.Sprintf(format, args...))
}

func printError(w io.Writer, format string, args ...any) {
	fmt.Fprintf(w, "%s%s\n", errorStyle.Render("✗ "), fmt.Sprintf(format, args...))
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func printItems(w io.Writer, items []model.ShoppingListItem) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tCATEGORY\tCHECKED\tPRICE\tDATE ADDED")
	for _, item := range items {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%t\t%s\t%s\n",
			item.ID, item.Name, item.Category, item.Checked, item.Price,
			item.DateAdded.Format(time.RFC3339))
	}
	return tw.Flush()
}

func printArticles(w io.Writer, articles []model.Article) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tTITLE\tPUBLISHED\tLENGTH")
	for _, a := range articles {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%d\n", a.ID, a.Title, a.DatePublished.Format(time.RFC3339), len(a.Content))
	}
	return tw.Flush()
}
