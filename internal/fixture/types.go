package fixture

// ConnectData is the static business dataset behind the Connect page.
type ConnectData struct {
	Terminals       Terminals                `json:"terminals"`
	KPIs            []KPI                    `json:"kpis"`
	TrendingItems   []TrendingItem           `json:"trendingItems"`
	CustomerMetrics CustomerMetrics          `json:"customerMetrics"`
	PaymentMethods  []PaymentMethod          `json:"paymentMethods"`
	QueueEfficiency QueueEfficiency          `json:"queueEfficiency"`
	HourlyActivity  map[string][]HourlyPoint `json:"hourlyActivity"`
}

// Terminals groups the POS provider descriptors by availability.
type Terminals struct {
	Available  []TerminalDescriptor `json:"available"`
	ComingSoon []TerminalDescriptor `json:"comingSoon"`
}

// TerminalStatus is the availability of a provider.
type TerminalStatus string

const (
	TerminalAvailable  TerminalStatus = "available"
	TerminalComingSoon TerminalStatus = "coming_soon"
)

// TerminalDescriptor describes a POS provider integration.
type TerminalDescriptor struct {
	ID          string         `json:"id"`
	Name        string         `json:"name"`
	Description string         `json:"description"`
	Icon        string         `json:"icon"`
	Features    []string       `json:"features"`
	Status      TerminalStatus `json:"status"`
	Color       string         `json:"color"`
}

// ValueType tells the KPI formatter how to render a raw value.
type ValueType string

const (
	ValueCurrency   ValueType = "currency"
	ValuePercentage ValueType = "percentage"
	ValueNumber     ValueType = "number"
)

// KPI is a raw key performance indicator.
type KPI struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Value       float64   `json:"value"`
	Change      float64   `json:"change"`
	ValueType   ValueType `json:"valueType"`
	Icon        string    `json:"icon"`
	Description string    `json:"description"`
}

type TrendingItem struct {
	Name     string  `json:"name"`
	Category string  `json:"category"`
	Sales    int     `json:"sales"`
	Revenue  float64 `json:"revenue"`
	Change   float64 `json:"change"`
}

type CustomerMetrics struct {
	TotalCustomers     int     `json:"totalCustomers"`
	NewCustomers       int     `json:"newCustomers"`
	ReturningRate      float64 `json:"returningRate"`
	AverageSpend       float64 `json:"averageSpend"`
	LoyaltyMembers     int     `json:"loyaltyMembers"`
	LoyaltyMemberSpend float64 `json:"loyaltyMemberSpend"`
}

type PaymentMethod struct {
	Method       string  `json:"method"`
	Percentage   float64 `json:"percentage"`
	Amount       float64 `json:"amount"`
	Transactions int     `json:"transactions"`
	Icon         string  `json:"icon"`
}

// QueueEfficiency holds the staffing and payment-rate parameters.
type QueueEfficiency struct {
	CurrentPerformance  Performance                   `json:"currentPerformance"`
	WeeklyTrend         []WeeklyPoint                 `json:"weeklyTrend"`
	WorkloadStatus      map[string]WorkloadDescriptor `json:"workloadStatus"`
	PaymentRateAnalysis PaymentRateAnalysis           `json:"paymentRateAnalysis"`
}

type Performance struct {
	EfficiencyScore  float64  `json:"efficiencyScore"`
	CustomersPerHour float64  `json:"customersPerHour"`
	AverageWaitTime  float64  `json:"averageWaitTime"`
	AverageServeTime float64  `json:"averageServeTime"`
	CurrentStaff     int      `json:"currentStaff"`
	PeakHours        []string `json:"peakHours"`
}

type WeeklyPoint struct {
	Day              string  `json:"day"`
	Efficiency       float64 `json:"efficiency"`
	CustomersPerHour float64 `json:"customersPerHour"`
	StaffCount       int     `json:"staffCount"`
}

// WorkloadDescriptor is the presentation of one workload classification.
type WorkloadDescriptor struct {
	Label            string `json:"label"`
	Color            string `json:"color"`
	Description      string `json:"description"`
	RecommendedStaff int    `json:"recommendedStaff"`
}

type PaymentRateAnalysis struct {
	MonthlyTransactions int          `json:"monthlyTransactions"`
	AverageSpend        float64      `json:"averageSpend"`
	CurrentProvider     ProviderRate `json:"currentProvider"`
	AlternativeProvider ProviderRate `json:"alternativeProvider"`
}

// ProviderRate is a card processing rate expressed as a percentage.
type ProviderRate struct {
	Name string  `json:"name"`
	Rate float64 `json:"rate"`
}

type HourlyPoint struct {
	Hour      string  `json:"hour"`
	Customers int     `json:"customers"`
	Sales     float64 `json:"sales"`
}

// FindAvailable returns the available provider with the given id.
func (d *ConnectData) FindAvailable(id string) (TerminalDescriptor, bool) {
	for _, t := range d.Terminals.Available {
		if t.ID == id {
			return t, true
		}
	}
	return TerminalDescriptor{}, false
}

// Known reports whether id names any provider, available or coming soon.
func (d *ConnectData) Known(id string) bool {
	if _, ok := d.FindAvailable(id); ok {
		return true
	}
	for _, t := range d.Terminals.ComingSoon {
		if t.ID == id {
			return true
		}
	}
	return false
}
