package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/cmc-agency/policy-cli/internal/ingest"
	"github.com/cmc-agency/policy-cli/internal/store"
	"github.com/cmc-agency/policy-cli/internal/textsource"
)

// batchReport is the JSON result contract of a batch run. Only environment
// failures produce status "error"; duplicates and unreadable documents are
// counts inside a "success" result.
type batchReport struct {
	Status       string `json:"status"`
	Added        int    `json:"added"`
	Rejected     int    `json:"rejected"`
	Unclassified int    `json:"unclassified"`
	Message      string `json:"message"`
	ExcelPath    string `json:"excel_path,omitempty"`
	DBPath       string `json:"db_path,omitempty"`
	BatchID      string `json:"batch_id,omitempty"`
}

var batchCmd = &cobra.Command{
	Use:   "batch <kaynak_klasör> <çıktı_klasörü> <acente> [veritabanı]",
	Short: "Process every PDF in a folder into the archive",
	Args:  cobra.RangeArgs(3, 4),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		sourceDir, outputDir, agent := args[0], args[1], args[2]
		dbPath := cfg.Store.Path
		if len(args) == 4 {
			dbPath = args[3]
		}
		excelPath := filepath.Join(outputDir, cfg.Export.File)

		st, err := store.NewSQLite(dbPath)
		if err != nil {
			return batchFail(err, "veritabanı açılamadı")
		}
		defer st.Close()

		if err := st.Migrate(ctx); err != nil {
			return batchFail(err, "veritabanı hazırlanamadı")
		}

		c := &ingest.Controller{
			Source:   textsource.New(cfg.PDF.MaxPages, cfg.PDF.MinTextLen),
			Store:    st,
			Progress: os.Stdout,
		}

		res, err := c.Run(ctx, ingest.Options{
			SourceDir: sourceDir,
			ExcelPath: excelPath,
			Agent:     agent,
		})
		if err != nil {
			return batchFail(err, "toplu işlem başarısız")
		}

		return printJSON(batchReport{
			Status:       "success",
			Added:        len(res.Accepted),
			Rejected:     len(res.Rejected),
			Unclassified: len(res.ClassificationFailures),
			Message:      fmt.Sprintf("%d poliçe eklendi, %d mükerrer, %d tanımsız", len(res.Accepted), len(res.Rejected), len(res.ClassificationFailures)),
			ExcelPath:    excelPath,
			DBPath:       dbPath,
			BatchID:      res.BatchID,
		})
	},
}

// batchFail emits the error-shaped result before handing the error back to
// cobra for the exit code.
func batchFail(err error, msg string) error {
	zap.L().Error("batch aborted", zap.Error(err))
	_ = printJSON(batchReport{
		Status:  "error",
		Message: fmt.Sprintf("%s: %s", msg, eris.Cause(err)),
	})
	return err
}

func init() {
	rootCmd.AddCommand(batchCmd)
}
