package analytics

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tapid-connect/internal/fixture"
	"tapid-connect/internal/format"
	"tapid-connect/internal/icon"
)

func loadFixture(t *testing.T) *fixture.ConnectData {
	t.Helper()
	data, err := fixture.Default()
	require.NoError(t, err)
	return data
}

func TestCalculateTrend(t *testing.T) {
	testCases := []struct {
		value    float64
		expected Trend
	}{
		{value: 12.5, expected: TrendUp},
		{value: 0.0001, expected: TrendUp},
		{value: -0.0001, expected: TrendDown},
		{value: -40, expected: TrendDown},
		{value: 0, expected: TrendStable},
	}
	for _, tc := range testCases {
		assert.Equal(t, tc.expected, CalculateTrend(tc.value), "value %v", tc.value)
	}
}

func TestCalculateStaffWorkload(t *testing.T) {
	testCases := []struct {
		name             string
		efficiency       float64
		customersPerHour float64
		expected         WorkloadStatus
	}{
		{name: "Below seventy", efficiency: 69.9, customersPerHour: 30, expected: WorkloadOverworked},
		{name: "Exactly seventy", efficiency: 70, customersPerHour: 5, expected: WorkloadOptimal},
		{name: "Exactly ninety", efficiency: 90, customersPerHour: 5, expected: WorkloadOptimal},
		{name: "Ninety one, slow", efficiency: 91, customersPerHour: 11, expected: WorkloadUnderutilized},
		{name: "Ninety one, twelve per hour", efficiency: 91, customersPerHour: 12, expected: WorkloadExcellent},
		{name: "Just above ninety", efficiency: 90.01, customersPerHour: 11.99, expected: WorkloadUnderutilized},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, CalculateStaffWorkload(tc.efficiency, tc.customersPerHour))
		})
	}
}

func TestResolveWorkloadMissingDescriptor(t *testing.T) {
	data := &fixture.ConnectData{}
	_, err := ResolveWorkload(data, 80, 10)
	assert.Error(t, err)
}

func TestCalculatePaymentCosts(t *testing.T) {
	costs := CalculatePaymentCosts(fixture.PaymentRateAnalysis{
		MonthlyTransactions: 1000,
		AverageSpend:        10,
		CurrentProvider:     fixture.ProviderRate{Name: "SumUp", Rate: 1.69},
		AlternativeProvider: fixture.ProviderRate{Name: "Tapid Pay", Rate: 0.99},
	}, format.New("en-GB", "GBP"))

	assert.InDelta(t, 10000, costs.TotalSales, 1e-9)
	assert.InDelta(t, 169, costs.CurrentCost, 1e-9)
	assert.InDelta(t, 99, costs.AlternativeCost, 1e-9)
	assert.InDelta(t, 70, costs.MonthlySavings, 1e-9)
	assert.InDelta(t, 840, costs.AnnualSavings, 1e-9)
	assert.Equal(t, 41.4, costs.SavingsPercentage)
	assert.Equal(t, "£10,000.00", costs.FormattedTotalSales)
	assert.Equal(t, "£840.00", costs.FormattedAnnualSavings)
	assert.Equal(t, "41.4%", costs.FormattedSavingsPercentage)
}

func TestCalculatePaymentCostsNoSales(t *testing.T) {
	costs := CalculatePaymentCosts(fixture.PaymentRateAnalysis{}, format.New("en-GB", "GBP"))
	assert.Zero(t, costs.SavingsPercentage)
	assert.Equal(t, "£0.00", costs.FormattedMonthlySavings)
}

func TestTransformTerminals(t *testing.T) {
	data := loadFixture(t)
	views := TransformTerminals(data,
		map[string]bool{"sumup": true},
		map[string]string{"sumup": "connected", "square": "error"})

	require.Len(t, views, len(data.Terminals.Available)+len(data.Terminals.ComingSoon))
	byID := make(map[string]TerminalView)
	for _, v := range views {
		byID[v.ID] = v
	}

	assert.True(t, byID["sumup"].IsConnected)
	assert.Equal(t, "connected", byID["sumup"].ConnectionStatus)
	assert.Equal(t, icon.CreditCard, byID["sumup"].Icon)
	assert.False(t, byID["square"].IsConnected)
	assert.Equal(t, "error", byID["square"].ConnectionStatus)
	assert.Equal(t, fixture.TerminalComingSoon, byID["clover"].Status)
	assert.Empty(t, byID["clover"].ConnectionStatus)
}

func TestTransformKPIs(t *testing.T) {
	f := format.New("en-GB", "GBP")
	kpis := TransformKPIs([]fixture.KPI{
		{ID: "revenue", Value: 24567.89, Change: 12.5, ValueType: fixture.ValueCurrency, Icon: "PoundSterling"},
		{ID: "retention", Value: 68.4, Change: -2.1, ValueType: fixture.ValuePercentage, Icon: "Users"},
		{ID: "transactions", Value: 2847, Change: 0, ValueType: fixture.ValueNumber, Icon: "Unknown"},
		{ID: "peak", Value: 13, ValueType: "time"},
	}, f)

	want := []struct {
		value, change string
		trend         Trend
		icon          icon.Icon
	}{
		{"£24,567.89", "+12.5%", TrendUp, icon.PoundSterling},
		{"68.4%", "-2.1%", TrendDown, icon.Users},
		{"2,847", "0%", TrendStable, icon.Info},
		{"13", "0%", TrendStable, icon.Info},
	}
	require.Len(t, kpis, len(want))
	for i, w := range want {
		assert.Equal(t, w.value, kpis[i].Value, kpis[i].ID)
		assert.Equal(t, w.change, kpis[i].FormattedChange, kpis[i].ID)
		assert.Equal(t, w.trend, kpis[i].Trend, kpis[i].ID)
		assert.Equal(t, w.icon, kpis[i].Icon, kpis[i].ID)
	}
}

func TestHourlyForDay(t *testing.T) {
	data := loadFixture(t)
	assert.Equal(t, data.HourlyActivity["Friday"], HourlyForDay(data, "Friday"))
	assert.Equal(t, HourlyForDay(data, "Monday"), HourlyForDay(data, "NotARealDay"))
	assert.Equal(t, HourlyForDay(data, "Monday"), HourlyForDay(data, ""))
}

func TestGenerate(t *testing.T) {
	data := loadFixture(t)
	now := time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC)

	bundle, err := Generate(data, format.New("en-GB", "GBP"), "Saturday", now)
	require.NoError(t, err)

	assert.Equal(t, now, bundle.LastUpdated)
	assert.Equal(t, "Saturday", bundle.SelectedDay)
	assert.Equal(t, data.HourlyActivity["Saturday"], bundle.HourlyData)
	assert.Len(t, bundle.TrendingItems, len(data.TrendingItems))
	assert.Len(t, bundle.KPIs, len(data.KPIs))
	assert.Len(t, bundle.PaymentMethods, len(data.PaymentMethods))

	assert.Equal(t, WorkloadOptimal, bundle.QueueAnalytics.Workload.Status)
	assert.Equal(t, 0, bundle.QueueAnalytics.StaffDelta)

	var statuses []WorkloadStatus
	for _, p := range bundle.WeeklyTrend {
		statuses = append(statuses, p.Workload.Status)
	}
	expected := []WorkloadStatus{
		WorkloadOptimal, WorkloadUnderutilized, WorkloadOptimal, WorkloadOptimal,
		WorkloadOverworked, WorkloadOverworked, WorkloadExcellent,
	}
	if diff := cmp.Diff(expected, statuses); diff != "" {
		t.Errorf("weekly workload mismatch (-want +got):\n%s", diff)
	}

	assert.InDelta(t, 2847*8.63, bundle.PaymentCosts.TotalSales, 1e-6)
	assert.InDelta(t, bundle.PaymentCosts.MonthlySavings*12, bundle.PaymentCosts.AnnualSavings, 1e-9)
}

func TestGenerateErrors(t *testing.T) {
	_, err := Generate(nil, format.New("en-GB", "GBP"), "Monday", time.Now())
	assert.Error(t, err)

	data := loadFixture(t)
	delete(data.QueueEfficiency.WorkloadStatus, "overworked")
	_, err = Generate(data, format.New("en-GB", "GBP"), "Monday", time.Now())
	assert.Error(t, err)
}
