package analytics

import (
	"errors"
	"fmt"
	"time"

	"tapid-connect/internal/fixture"
	"tapid-connect/internal/format"
)

// Generate assembles the analytics bundle from the fixture for the
// selected weekday and stamps it with now.
func Generate(data *fixture.ConnectData, f *format.Formatter, day string, now time.Time) (*Bundle, error) {
	if data == nil {
		return nil, errors.New("no connect data loaded")
	}
	if day == "" {
		day = DefaultDay
	}

	queue, err := buildQueueAnalytics(data, f)
	if err != nil {
		return nil, fmt.Errorf("queue analytics: %w", err)
	}
	weekly, err := buildWeeklyTrend(data)
	if err != nil {
		return nil, fmt.Errorf("weekly trend: %w", err)
	}

	return &Bundle{
		TrendingItems:   TransformTrendingItems(data.TrendingItems, f),
		CustomerMetrics: TransformCustomerMetrics(data.CustomerMetrics, f),
		PaymentMethods:  TransformPaymentMethods(data.PaymentMethods, f),
		SelectedDay:     day,
		HourlyData:      HourlyForDay(data, day),
		QueueAnalytics:  queue,
		WeeklyTrend:     weekly,
		PaymentCosts:    CalculatePaymentCosts(data.QueueEfficiency.PaymentRateAnalysis, f),
		KPIs:            TransformKPIs(data.KPIs, f),
		LastUpdated:     now,
	}, nil
}

func buildQueueAnalytics(data *fixture.ConnectData, f *format.Formatter) (QueueAnalytics, error) {
	perf := data.QueueEfficiency.CurrentPerformance
	workload, err := ResolveWorkload(data, perf.EfficiencyScore, perf.CustomersPerHour)
	if err != nil {
		return QueueAnalytics{}, err
	}
	return QueueAnalytics{
		EfficiencyScore:     perf.EfficiencyScore,
		FormattedEfficiency: f.Percentage(perf.EfficiencyScore, false),
		CustomersPerHour:    perf.CustomersPerHour,
		AverageWaitTime:     perf.AverageWaitTime,
		AverageServeTime:    perf.AverageServeTime,
		CurrentStaff:        perf.CurrentStaff,
		StaffDelta:          workload.RecommendedStaff - perf.CurrentStaff,
		PeakHours:           perf.PeakHours,
		Workload:            workload,
	}, nil
}

func buildWeeklyTrend(data *fixture.ConnectData) ([]WeeklyTrendPoint, error) {
	out := make([]WeeklyTrendPoint, 0, len(data.QueueEfficiency.WeeklyTrend))
	for _, p := range data.QueueEfficiency.WeeklyTrend {
		workload, err := ResolveWorkload(data, p.Efficiency, p.CustomersPerHour)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", p.Day, err)
		}
		out = append(out, WeeklyTrendPoint{
			Day:              p.Day,
			Efficiency:       p.Efficiency,
			CustomersPerHour: p.CustomersPerHour,
			StaffCount:       p.StaffCount,
			Workload:         workload,
		})
	}
	return out, nil
}
