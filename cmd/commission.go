package main

import (
	"strconv"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/cmc-agency/policy-cli/internal/commission"
	"github.com/cmc-agency/policy-cli/internal/model"
	"github.com/cmc-agency/policy-cli/internal/text"
)

// commissionReport echoes the inputs next to the computed breakdown so the
// result is self-describing in accounting exports.
type commissionReport struct {
	Status       string                    `json:"status"`
	Agent        string                    `json:"agent"`
	Type         model.PolicyType          `json:"type"`
	GrossPremium float64                   `json:"gross_premium"`
	Deductible   float64                   `json:"deductible"`
	Breakdown    model.CommissionBreakdown `json:"breakdown"`
}

var commissionCmd = &cobra.Command{
	Use:   "commission <acente> <tür> <brüt_prim> [muafiyet]",
	Short: "Compute the commission breakdown for one policy",
	Args:  cobra.RangeArgs(3, 4),
	RunE: func(cmd *cobra.Command, args []string) error {
		agent := args[0]
		policyType := model.PolicyType(text.Upper(args[1]))

		gross, err := strconv.ParseFloat(args[2], 64)
		if err != nil {
			return eris.Wrap(err, "commission: parse gross premium")
		}
		deductible := 0.0
		if len(args) == 4 {
			if deductible, err = strconv.ParseFloat(args[3], 64); err != nil {
				return eris.Wrap(err, "commission: parse deductible")
			}
		}

		calc := commission.NewCalculator(cfg.Commission.Table())

		return printJSON(commissionReport{
			Status:       "success",
			Agent:        agent,
			Type:         policyType,
			GrossPremium: gross,
			Deductible:   deductible,
			Breakdown:    calc.Compute(agent, policyType, gross, deductible),
		})
	},
}

func init() {
	rootCmd.AddCommand(commissionCmd)
}
