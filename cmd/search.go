package main

import (
	"fmt"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/cmc-agency/policy-cli/internal/store"
	"github.com/cmc-agency/policy-cli/internal/text"
)

// searchReport is the JSON result contract of an archive query.
type searchReport struct {
	Status  string               `json:"status"`
	Count   int                  `json:"count"`
	Data    []store.StoredRecord `json:"data"`
	Message string               `json:"message,omitempty"`
}

var searchCmd = &cobra.Command{
	Use:   "search [anahtar=değer ...] [veritabanı]",
	Short: "Query the policy archive",
	Long: `Filters: customer_no, name, policy_no, plate, date, date_from, date_to, type.
Name, policy number and plate match as substrings; dates match exactly or as a
from/to range. Results come newest first.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		filter, dbPath, err := parseSearchArgs(args, cfg.Store.Path, cfg.Search.Limit)
		if err != nil {
			_ = printJSON(searchReport{Status: "error", Message: err.Error()})
			return err
		}

		st, err := store.NewSQLite(dbPath)
		if err != nil {
			_ = printJSON(searchReport{Status: "error", Message: fmt.Sprintf("veritabanı açılamadı: %s", eris.Cause(err))})
			return err
		}
		defer st.Close()

		if err := st.Migrate(ctx); err != nil {
			_ = printJSON(searchReport{Status: "error", Message: fmt.Sprintf("veritabanı hazırlanamadı: %s", eris.Cause(err))})
			return err
		}

		records, err := st.Search(ctx, filter)
		if err != nil {
			_ = printJSON(searchReport{Status: "error", Message: fmt.Sprintf("sorgu başarısız: %s", eris.Cause(err))})
			return err
		}

		return printJSON(searchReport{
			Status: "success",
			Count:  len(records),
			Data:   records,
		})
	},
}

// parseSearchArgs turns key=value arguments into a filter. A bare trailing
// argument selects the database file. At least one filter is required; an
// unfiltered dump of the archive is never what the operator meant.
func parseSearchArgs(args []string, defaultDB string, limit int) (store.Filter, string, error) {
	filter := store.Filter{Limit: limit}
	dbPath := defaultDB
	applied := 0
	for _, arg := range args {
		key, value, ok := strings.Cut(arg, "=")
		if !ok {
			dbPath = arg
			continue
		}
		if err := applyFilter(&filter, key, value); err != nil {
			return filter, dbPath, err
		}
		applied++
	}
	if applied == 0 {
		return filter, dbPath, eris.New("arama kriteri belirtilmedi")
	}
	return filter, dbPath, nil
}

func applyFilter(f *store.Filter, key, value string) error {
	switch strings.ToLower(key) {
	case "customer_no":
		f.CustomerNo = value
	case "name":
		f.Insured = text.Upper(value)
	case "policy_no":
		f.PolicyNo = value
	case "plate":
		f.Plate = text.Upper(value)
	case "date":
		f.Date = value
	case "date_from":
		f.DateFrom = value
	case "date_to":
		f.DateTo = value
	case "type":
		f.Type = text.Upper(value)
	default:
		return eris.Errorf("search: unknown filter %q", key)
	}
	return nil
}

func init() {
	rootCmd.AddCommand(searchCmd)
}
