// Package output provides utilities for formatting and displaying optimization results.
package output

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"text/tabwriter"

	"github.com/iwvelando/portfolio-optimizer/internal/api"
	"github.com/iwvelando/portfolio-optimizer/pkg/constants"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"gopkg.in/yaml.v3"
)

// Write renders resp in the named format.
func Write(w io.Writer, format string, req api.Request, resp api.Response) error {
	switch format {
	case constants.OutputFormatPretty:
		return PrettyFormat(w, req, resp)
	case constants.OutputFormatCSV:
		return CsvFormat(w, req, resp)
	case constants.OutputFormatJSON:
		return JSONFormat(w, resp)
	case constants.OutputFormatYAML:
		return YAMLFormat(w, resp)
	default:
		return fmt.Errorf("unsupported output format: %s", format)
	}
}

// PrettyFormat outputs a human-readable rather than machine-readable table.
func PrettyFormat(w io.Writer, req api.Request, resp api.Response) error {
	p := message.NewPrinter(language.English)
	items := itemsByName(req)

	_, _ = p.Fprintf(w, "--- Portfolio for budget %.2f ---\n", req.Capacity)
	if len(resp.Selected) == 0 {
		_, _ = p.Fprintf(w, "No project fits the budget (%d candidates)\n", len(req.Items))
	}

	tw := tabwriter.NewWriter(w, 0, 0, 1, ' ', 0)
	_, _ = fmt.Fprintf(tw, "Project\t| Cost\t| Gain\n")
	_, _ = fmt.Fprintf(tw, "_______\t| ____\t| ____\n")
	for _, name := range resp.Selected {
		item := items[name]
		_, _ = p.Fprintf(tw, "%s\t| %.2f\t| %.2f\n", name, item.Cost, item.Gain)
	}
	_, _ = p.Fprintf(tw, "Total\t| %.2f\t| %.2f\n", resp.TotalCost, resp.TotalGain)
	if err := tw.Flush(); err != nil {
		return err
	}

	_, err := p.Fprintf(w, "Selected %d of %d projects, unused budget %.2f\n",
		len(resp.Selected), len(req.Items), req.Capacity-resp.TotalCost)
	return err
}

// CsvFormat outputs in comma-separated value format, one row per selected
// project followed by a total row.
func CsvFormat(w io.Writer, req api.Request, resp api.Response) error {
	items := itemsByName(req)
	cw := csv.NewWriter(w)

	if err := cw.Write([]string{"project", "cost", "gain"}); err != nil {
		return err
	}
	for _, name := range resp.Selected {
		item := items[name]
		if err := cw.Write([]string{name, formatAmount(item.Cost), formatAmount(item.Gain)}); err != nil {
			return err
		}
	}
	if err := cw.Write([]string{"total", formatAmount(resp.TotalCost), formatAmount(resp.TotalGain)}); err != nil {
		return err
	}

	cw.Flush()
	return cw.Error()
}

// JSONFormat outputs the same document the HTTP API returns.
func JSONFormat(w io.Writer, resp api.Response) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(resp)
}

// YAMLFormat outputs the response as YAML using the wire field names.
func YAMLFormat(w io.Writer, resp api.Response) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(resp); err != nil {
		return err
	}
	return enc.Close()
}

func itemsByName(req api.Request) map[string]api.Item {
	items := make(map[string]api.Item, len(req.Items))
	for _, item := range req.Items {
		items[item.Name] = item
	}
	return items
}

func formatAmount(value float64) string {
	return strconv.FormatFloat(value, 'f', 2, 64)
}
