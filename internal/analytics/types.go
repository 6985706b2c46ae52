package analytics

import (
	"time"

	"tapid-connect/internal/fixture"
	"tapid-connect/internal/icon"
)

// Trend is the direction of a change value.
type Trend string

const (
	TrendUp     Trend = "up"
	TrendDown   Trend = "down"
	TrendStable Trend = "stable"
)

// WorkloadStatus classifies staffing adequacy.
type WorkloadStatus string

const (
	WorkloadOverworked    WorkloadStatus = "overworked"
	WorkloadOptimal       WorkloadStatus = "optimal"
	WorkloadUnderutilized WorkloadStatus = "underutilized"
	WorkloadExcellent     WorkloadStatus = "excellent"
)

// Workload is a classification joined with its fixture descriptor.
type Workload struct {
	Status           WorkloadStatus `json:"status"`
	Label            string         `json:"label"`
	Color            string         `json:"color"`
	Description      string         `json:"description"`
	RecommendedStaff int            `json:"recommendedStaff"`
}

// TerminalView is a provider descriptor merged with live connection state.
type TerminalView struct {
	ID               string                 `json:"id"`
	Name             string                 `json:"name"`
	Description      string                 `json:"description"`
	Icon             icon.Icon              `json:"icon"`
	Features         []string               `json:"features"`
	Status           fixture.TerminalStatus `json:"status"`
	Color            string                 `json:"color"`
	IsConnected      bool                   `json:"isConnected"`
	ConnectionStatus string                 `json:"connectionStatus,omitempty"`
}

type KPIView struct {
	ID              string    `json:"id"`
	Title           string    `json:"title"`
	Value           string    `json:"value"`
	RawValue        float64   `json:"rawValue"`
	Change          float64   `json:"change"`
	FormattedChange string    `json:"formattedChange"`
	Trend           Trend     `json:"trend"`
	Icon            icon.Icon `json:"icon"`
	Description     string    `json:"description"`
}

type TrendingItemView struct {
	Name             string  `json:"name"`
	Category         string  `json:"category"`
	Sales            int     `json:"sales"`
	Revenue          float64 `json:"revenue"`
	FormattedRevenue string  `json:"formattedRevenue"`
	Change           float64 `json:"change"`
	FormattedChange  string  `json:"formattedChange"`
	Trend            Trend   `json:"trend"`
}

type CustomerMetricsView struct {
	TotalCustomers          int     `json:"totalCustomers"`
	FormattedTotalCustomers string  `json:"formattedTotalCustomers"`
	NewCustomers            int     `json:"newCustomers"`
	ReturningRate           float64 `json:"returningRate"`
	FormattedReturningRate  string  `json:"formattedReturningRate"`
	AverageSpend            float64 `json:"averageSpend"`
	FormattedAverageSpend   string  `json:"formattedAverageSpend"`
	LoyaltyMembers          int     `json:"loyaltyMembers"`
	LoyaltyRate             float64 `json:"loyaltyRate"`
	FormattedLoyaltySpend   string  `json:"formattedLoyaltySpend"`
}

type PaymentMethodView struct {
	Method              string    `json:"method"`
	Percentage          float64   `json:"percentage"`
	FormattedPercentage string    `json:"formattedPercentage"`
	Amount              float64   `json:"amount"`
	FormattedAmount     string    `json:"formattedAmount"`
	Transactions        int       `json:"transactions"`
	Icon                icon.Icon `json:"icon"`
}

// QueueAnalytics is the current staffing picture.
type QueueAnalytics struct {
	EfficiencyScore     float64  `json:"efficiencyScore"`
	FormattedEfficiency string   `json:"formattedEfficiency"`
	CustomersPerHour    float64  `json:"customersPerHour"`
	AverageWaitTime     float64  `json:"averageWaitTime"`
	AverageServeTime    float64  `json:"averageServeTime"`
	CurrentStaff        int      `json:"currentStaff"`
	StaffDelta          int      `json:"staffDelta"`
	PeakHours           []string `json:"peakHours"`
	Workload            Workload `json:"workload"`
}

type WeeklyTrendPoint struct {
	Day              string   `json:"day"`
	Efficiency       float64  `json:"efficiency"`
	CustomersPerHour float64  `json:"customersPerHour"`
	StaffCount       int      `json:"staffCount"`
	Workload         Workload `json:"workload"`
}

// PaymentCosts compares card processing costs between two providers.
type PaymentCosts struct {
	CurrentProvider            fixture.ProviderRate `json:"currentProvider"`
	AlternativeProvider        fixture.ProviderRate `json:"alternativeProvider"`
	MonthlyTransactions        int                  `json:"monthlyTransactions"`
	AverageSpend               float64              `json:"averageSpend"`
	TotalSales                 float64              `json:"totalSales"`
	CurrentCost                float64              `json:"currentCost"`
	AlternativeCost            float64              `json:"alternativeCost"`
	MonthlySavings             float64              `json:"monthlySavings"`
	AnnualSavings              float64              `json:"annualSavings"`
	SavingsPercentage          float64              `json:"savingsPercentage"`
	FormattedTotalSales        string               `json:"formattedTotalSales"`
	FormattedCurrentCost       string               `json:"formattedCurrentCost"`
	FormattedAlternativeCost   string               `json:"formattedAlternativeCost"`
	FormattedMonthlySavings    string               `json:"formattedMonthlySavings"`
	FormattedAnnualSavings     string               `json:"formattedAnnualSavings"`
	FormattedSavingsPercentage string               `json:"formattedSavingsPercentage"`
}

// Bundle is the full analytics view handed to the dashboard.
type Bundle struct {
	TrendingItems   []TrendingItemView    `json:"trendingItems"`
	CustomerMetrics CustomerMetricsView   `json:"customerMetrics"`
	PaymentMethods  []PaymentMethodView   `json:"paymentMethods"`
	SelectedDay     string                `json:"selectedDay"`
	HourlyData      []fixture.HourlyPoint `json:"hourlyData"`
	QueueAnalytics  QueueAnalytics        `json:"queueAnalytics"`
	WeeklyTrend     []WeeklyTrendPoint    `json:"weeklyTrend"`
	PaymentCosts    PaymentCosts          `json:"paymentCosts"`
	KPIs            []KPIView             `json:"kpis"`
	LastUpdated     time.Time             `json:"lastUpdated"`
}
