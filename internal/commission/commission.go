// Package commission computes the agency's commission and payout breakdown
// for a sold policy. Rates come from an immutable table injected at
// construction; unrecognized agents fall to the table defaults.
package commission

import (
	"github.com/shopspring/decimal"

	"github.com/cmc-agency/policy-cli/internal/model"
	"github.com/cmc-agency/policy-cli/internal/text"
)

// AgentRates holds the per-agent overrides of the default rates.
type AgentRates struct {
	Commission float64
	Payout     float64
}

// Table is the full rate configuration. Traffic policies carry a uniform
// commission rate regardless of agent.
type Table struct {
	TrafficCommission float64
	DefaultCommission float64
	DefaultPayout     float64
	Agents            map[string]AgentRates
}

// DefaultTable returns the agency's standing rates.
func DefaultTable() Table {
	return Table{
		TrafficCommission: 0.10,
		DefaultCommission: 0.15,
		DefaultPayout:     0.50,
		Agents: map[string]AgentRates{
			"TEZER": {Commission: 0.13, Payout: 0.50},
			"YAŞAR": {Commission: 0.15, Payout: 0.60},
		},
	}
}

// Calculator derives commission breakdowns from gross premiums.
type Calculator struct {
	table Table
}

// NewCalculator builds a Calculator. Agent names in the table are folded to
// Turkish upper case so lookups are case-insensitive.
func NewCalculator(table Table) *Calculator {
	folded := make(map[string]AgentRates, len(table.Agents))
	for name, rates := range table.Agents {
		folded[text.Upper(name)] = rates
	}
	table.Agents = folded
	return &Calculator{table: table}
}

// Compute returns the breakdown for one policy. It is total: any agent and
// any policy type produce a result. Deductible defaults to zero at call
// sites that have none.
func (c *Calculator) Compute(agent string, policyType model.PolicyType, grossPremium, deductible float64) model.CommissionBreakdown {
	rates, known := c.table.Agents[text.Upper(agent)]

	commissionRate := c.table.DefaultCommission
	if known && rates.Commission > 0 {
		commissionRate = rates.Commission
	}
	if policyType == model.TypeTraffic {
		commissionRate = c.table.TrafficCommission
	}

	payoutRate := c.table.DefaultPayout
	if known && rates.Payout > 0 {
		payoutRate = rates.Payout
	}

	net := decimal.NewFromFloat(grossPremium).Sub(decimal.NewFromFloat(deductible))
	commission := net.Mul(decimal.NewFromFloat(commissionRate)).Round(2)
	payout := commission.Mul(decimal.NewFromFloat(payoutRate)).Round(2)

	return model.CommissionBreakdown{
		NetPremium:       net.Round(2).InexactFloat64(),
		CommissionRate:   commissionRate,
		CommissionAmount: commission.InexactFloat64(),
		PayoutRate:       payoutRate,
		PayoutAmount:     payout.InexactFloat64(),
	}
}
