package cli

import (
	"encoding/json"
	"io"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/felixgeelhaar/loadline/pkg/application"
)

// queryFlags are the window flags shared by the query commands.
type queryFlags struct {
	start     string
	end       string
	months    int
	resources string
	json      bool
}

func (f *queryFlags) register(cmd *cobra.Command, withResources bool) {
	cmd.Flags().StringVar(&f.start, "start", "", "First day of the window (YYYY-MM-DD, default today)")
	cmd.Flags().StringVar(&f.end, "end", "", "Last day of the window (YYYY-MM-DD); overrides --months")
	cmd.Flags().IntVar(&f.months, "months", 0, "Number of months after the start date (default from config)")
	if withResources {
		cmd.Flags().StringVar(&f.resources, "resources", "", "Comma separated resource ids to include")
	}
	cmd.Flags().BoolVar(&f.json, "json", false, "Output in JSON format")
}

// query builds the service query. --months only counts when given, so an
// explicit --months 0 is rejected rather than replaced by the default.
func (f *queryFlags) query(cmd *cobra.Command) (application.Query, error) {
	p := application.QueryParams{
		StartDate:   f.start,
		EndDate:     f.end,
		ResourceIDs: f.resources,
	}
	if cmd.Flags().Changed("months") {
		p.Months = strconv.Itoa(f.months)
	}
	q, err := p.Query()
	if err != nil {
		return application.Query{}, MapError(err)
	}
	return q, nil
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
