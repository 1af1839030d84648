package build

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/shopspring/decimal"

	"github.com/meenmo/oiscurve/utils"
)

func fixed(v float64, places int32) string {
	return decimal.NewFromFloat(v).StringFixed(places)
}

// percent renders a decimal rate in percent.
func percent(v float64, places int32) string {
	return decimal.NewFromFloat(v).Shift(2).StringFixed(places)
}

// WriteText prints the helper dates, nodes and residuals of every result.
func WriteText(w io.Writer, results []*Result) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	for _, r := range results {
		fmt.Fprintf(tw, "Evaluation date: %s  passes: %d\n", r.EvaluationDate.Format(utils.DateLayout), r.Passes)
		for _, d := range r.EarliestDates {
			fmt.Fprintf(tw, "    Helper date: %s\n", d.Format(utils.DateLayout))
		}
		fmt.Fprintf(tw, "    Calendar advanced date: %s\n", r.Advanced.Format(utils.DateLayout))
		fmt.Fprintln(tw, "tenor\tticker\tfreq\tearliest\tlatest\tquote(%)\timplied(%)\tresidual(bp)")
		for _, h := range r.Helpers {
			fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
				h.Tenor, h.Ticker, h.Frequency,
				h.Earliest.Format(utils.DateLayout), h.Latest.Format(utils.DateLayout),
				percent(h.Quote, 4), percent(h.Implied, 4),
				decimal.NewFromFloat(h.Residual).Shift(4).StringFixed(8))
		}
		fmt.Fprintln(tw)
		fmt.Fprintln(tw, "date\ttime\tdiscount\tzero(%)")
		for _, n := range r.Nodes {
			fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n",
				n.Date.Format(utils.DateLayout), fixed(n.Time, 6), fixed(n.DF, 12), percent(n.Zero, 6))
		}
		fmt.Fprintln(tw)
	}
	return tw.Flush()
}

type jsonHelper struct {
	Tenor     string          `json:"tenor"`
	Ticker    string          `json:"ticker"`
	Frequency string          `json:"frequency"`
	Earliest  string          `json:"earliest_date"`
	Latest    string          `json:"latest_date"`
	Pillar    string          `json:"pillar_date"`
	Quote     decimal.Decimal `json:"quote"`
	Implied   decimal.Decimal `json:"implied"`
	Residual  float64         `json:"residual"`
}

type jsonNode struct {
	Date     string          `json:"date"`
	Time     decimal.Decimal `json:"time"`
	Discount decimal.Decimal `json:"discount"`
	Zero     decimal.Decimal `json:"zero"`
}

type jsonResult struct {
	EvaluationDate string       `json:"evaluation_date"`
	EarliestDates  []string     `json:"earliest_dates"`
	AdvancedDate   string       `json:"calendar_advanced_date"`
	Passes         int          `json:"passes"`
	Helpers        []jsonHelper `json:"helpers"`
	Nodes          []jsonNode   `json:"nodes"`
}

// WriteJSON prints results as a JSON array. Rates are decimals, not percent.
func WriteJSON(w io.Writer, results []*Result) error {
	out := make([]jsonResult, 0, len(results))
	for _, r := range results {
		jr := jsonResult{
			EvaluationDate: r.EvaluationDate.Format(utils.DateLayout),
			AdvancedDate:   r.Advanced.Format(utils.DateLayout),
			Passes:         r.Passes,
		}
		for _, d := range r.EarliestDates {
			jr.EarliestDates = append(jr.EarliestDates, d.Format(utils.DateLayout))
		}
		for _, h := range r.Helpers {
			jr.Helpers = append(jr.Helpers, jsonHelper{
				Tenor:     h.Tenor,
				Ticker:    h.Ticker,
				Frequency: h.Frequency.String(),
				Earliest:  h.Earliest.Format(utils.DateLayout),
				Latest:    h.Latest.Format(utils.DateLayout),
				Pillar:    h.Pillar.Format(utils.DateLayout),
				Quote:     decimal.NewFromFloat(h.Quote).Round(8),
				Implied:   decimal.NewFromFloat(h.Implied).Round(12),
				Residual:  h.Residual,
			})
		}
		for _, n := range r.Nodes {
			jr.Nodes = append(jr.Nodes, jsonNode{
				Date:     n.Date.Format(utils.DateLayout),
				Time:     decimal.NewFromFloat(n.Time).Round(8),
				Discount: decimal.NewFromFloat(n.DF).Round(14),
				Zero:     decimal.NewFromFloat(n.Zero).Round(10),
			})
		}
		out = append(out, jr)
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}
