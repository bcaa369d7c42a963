// Package reports holds the payload types the report proxy endpoints relay
// or compose, and the empty shapes they degrade to when the upstream fails.
package reports

// GrossValue is one day of gross revenue in a date series.
type GrossValue struct {
	Date  string  `json:"date"`
	Gross float64 `json:"gross"`
}

// CountValue is one day of a count series (e.g. online ticket sales).
type CountValue struct {
	Date  string `json:"date"`
	Count int    `json:"count"`
}

// KPISummary is the upstream key-figure payload backing the dashboard page.
type KPISummary struct {
	Visitors       int     `json:"visitors"`
	TicketCount    int     `json:"ticketCount"`
	TicketRevenue  float64 `json:"ticketRevenue"`
	ArticleRevenue float64 `json:"articleRevenue"`
}

// DashboardStats is the composed statistics object returned by the
// dashboard-aggregate endpoint. Every numeric field defaults to zero when
// the corresponding upstream call failed or returned no data.
type DashboardStats struct {
	Visitors          int          `json:"visitors"`
	TicketCount       int          `json:"ticketCount"`
	TicketRevenue     float64      `json:"ticketRevenue"`
	ArticleRevenue    float64      `json:"articleRevenue"`
	RevenuePerVisitor float64      `json:"revenuePerVisitor"`
	OnlineTickets     int          `json:"onlineTickets"`
	Last30Days        []GrossValue `json:"last30Days"`
}

// EmptyDashboardStats returns the zeroed stats object with an empty (but
// non-null) 30-day series.
func EmptyDashboardStats() *DashboardStats {
	return &DashboardStats{Last30Days: []GrossValue{}}
}
