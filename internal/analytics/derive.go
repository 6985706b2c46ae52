package analytics

import (
	"fmt"
	"math"
	"strconv"

	"tapid-connect/internal/fixture"
	"tapid-connect/internal/format"
	"tapid-connect/internal/icon"
)

// DefaultDay is the hourly series used when a requested day is unknown.
const DefaultDay = "Monday"

// CalculateTrend classifies the sign of v.
func CalculateTrend(v float64) Trend {
	switch {
	case v > 0:
		return TrendUp
	case v < 0:
		return TrendDown
	default:
		return TrendStable
	}
}

// CalculateStaffWorkload classifies staffing from the efficiency score
// (0-100) and throughput in customers per hour.
func CalculateStaffWorkload(efficiency, customersPerHour float64) WorkloadStatus {
	switch {
	case efficiency < 70:
		return WorkloadOverworked
	case efficiency <= 90:
		return WorkloadOptimal
	case customersPerHour < 12:
		return WorkloadUnderutilized
	default:
		return WorkloadExcellent
	}
}

// ResolveWorkload classifies and attaches the fixture descriptor.
func ResolveWorkload(data *fixture.ConnectData, efficiency, customersPerHour float64) (Workload, error) {
	status := CalculateStaffWorkload(efficiency, customersPerHour)
	desc, ok := data.QueueEfficiency.WorkloadStatus[string(status)]
	if !ok {
		return Workload{}, fmt.Errorf("no workload descriptor for %q", status)
	}
	return Workload{
		Status:           status,
		Label:            desc.Label,
		Color:            desc.Color,
		Description:      desc.Description,
		RecommendedStaff: desc.RecommendedStaff,
	}, nil
}

// CalculatePaymentCosts compares the monthly card fees of the current
// provider against the alternative one.
func CalculatePaymentCosts(a fixture.PaymentRateAnalysis, f *format.Formatter) PaymentCosts {
	totalSales := float64(a.MonthlyTransactions) * a.AverageSpend
	currentCost := totalSales * a.CurrentProvider.Rate / 100
	alternativeCost := totalSales * a.AlternativeProvider.Rate / 100
	monthlySavings := currentCost - alternativeCost
	annualSavings := monthlySavings * 12

	var savingsPct float64
	if currentCost > 0 {
		savingsPct = round1(monthlySavings / currentCost * 100)
	}

	return PaymentCosts{
		CurrentProvider:            a.CurrentProvider,
		AlternativeProvider:        a.AlternativeProvider,
		MonthlyTransactions:        a.MonthlyTransactions,
		AverageSpend:               a.AverageSpend,
		TotalSales:                 totalSales,
		CurrentCost:                currentCost,
		AlternativeCost:            alternativeCost,
		MonthlySavings:             monthlySavings,
		AnnualSavings:              annualSavings,
		SavingsPercentage:          savingsPct,
		FormattedTotalSales:        f.Currency(totalSales, ""),
		FormattedCurrentCost:       f.Currency(currentCost, ""),
		FormattedAlternativeCost:   f.Currency(alternativeCost, ""),
		FormattedMonthlySavings:    f.Currency(monthlySavings, ""),
		FormattedAnnualSavings:     f.Currency(annualSavings, ""),
		FormattedSavingsPercentage: f.Percentage(savingsPct, false),
	}
}

// TransformTerminals lists available providers followed by coming-soon
// ones, each merged with its connection state.
func TransformTerminals(data *fixture.ConnectData, connected map[string]bool, statuses map[string]string) []TerminalView {
	all := make([]TerminalView, 0, len(data.Terminals.Available)+len(data.Terminals.ComingSoon))
	add := func(t fixture.TerminalDescriptor, fallback fixture.TerminalStatus) {
		status := t.Status
		if status == "" {
			status = fallback
		}
		all = append(all, TerminalView{
			ID:               t.ID,
			Name:             t.Name,
			Description:      t.Description,
			Icon:             icon.Resolve(t.Icon),
			Features:         t.Features,
			Status:           status,
			Color:            t.Color,
			IsConnected:      connected[t.ID],
			ConnectionStatus: statuses[t.ID],
		})
	}
	for _, t := range data.Terminals.Available {
		add(t, fixture.TerminalAvailable)
	}
	for _, t := range data.Terminals.ComingSoon {
		add(t, fixture.TerminalComingSoon)
	}
	return all
}

// FormatValue renders a raw KPI value according to its declared type.
func FormatValue(v float64, t fixture.ValueType, f *format.Formatter) string {
	switch t {
	case fixture.ValueCurrency:
		return f.Currency(v, "")
	case fixture.ValuePercentage:
		return f.Percentage(v, false)
	case fixture.ValueNumber:
		return f.Number(v)
	default:
		return strconv.FormatFloat(v, 'f', -1, 64)
	}
}

func TransformKPIs(kpis []fixture.KPI, f *format.Formatter) []KPIView {
	out := make([]KPIView, 0, len(kpis))
	for _, k := range kpis {
		out = append(out, KPIView{
			ID:              k.ID,
			Title:           k.Title,
			Value:           FormatValue(k.Value, k.ValueType, f),
			RawValue:        k.Value,
			Change:          k.Change,
			FormattedChange: f.Percentage(k.Change, true),
			Trend:           CalculateTrend(k.Change),
			Icon:            icon.Resolve(k.Icon),
			Description:     k.Description,
		})
	}
	return out
}

func TransformTrendingItems(items []fixture.TrendingItem, f *format.Formatter) []TrendingItemView {
	out := make([]TrendingItemView, 0, len(items))
	for _, it := range items {
		out = append(out, TrendingItemView{
			Name:             it.Name,
			Category:         it.Category,
			Sales:            it.Sales,
			Revenue:          it.Revenue,
			FormattedRevenue: f.Currency(it.Revenue, ""),
			Change:           it.Change,
			FormattedChange:  f.Percentage(it.Change, true),
			Trend:            CalculateTrend(it.Change),
		})
	}
	return out
}

func TransformCustomerMetrics(m fixture.CustomerMetrics, f *format.Formatter) CustomerMetricsView {
	var loyaltyRate float64
	if m.TotalCustomers > 0 {
		loyaltyRate = round1(float64(m.LoyaltyMembers) / float64(m.TotalCustomers) * 100)
	}
	return CustomerMetricsView{
		TotalCustomers:          m.TotalCustomers,
		FormattedTotalCustomers: f.Number(float64(m.TotalCustomers)),
		NewCustomers:            m.NewCustomers,
		ReturningRate:           m.ReturningRate,
		FormattedReturningRate:  f.Percentage(m.ReturningRate, false),
		AverageSpend:            m.AverageSpend,
		FormattedAverageSpend:   f.Currency(m.AverageSpend, ""),
		LoyaltyMembers:          m.LoyaltyMembers,
		LoyaltyRate:             loyaltyRate,
		FormattedLoyaltySpend:   f.Currency(m.LoyaltyMemberSpend, ""),
	}
}

func TransformPaymentMethods(methods []fixture.PaymentMethod, f *format.Formatter) []PaymentMethodView {
	out := make([]PaymentMethodView, 0, len(methods))
	for _, m := range methods {
		out = append(out, PaymentMethodView{
			Method:              m.Method,
			Percentage:          m.Percentage,
			FormattedPercentage: f.Percentage(m.Percentage, false),
			Amount:              m.Amount,
			FormattedAmount:     f.Currency(m.Amount, ""),
			Transactions:        m.Transactions,
			Icon:                icon.Resolve(m.Icon),
		})
	}
	return out
}

// HourlyForDay returns the hourly series for a weekday name, or the
// Monday series when the day is not in the fixture.
func HourlyForDay(data *fixture.ConnectData, day string) []fixture.HourlyPoint {
	if points, ok := data.HourlyActivity[day]; ok {
		return points
	}
	return data.HourlyActivity[DefaultDay]
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
