package dto

// ReportQuery holds the shared filter parameters of the report endpoints.
type ReportQuery struct {
	UserID   string `form:"userId"`
	ClientID string `form:"clientId"`
	Status   string `form:"status"`
	Year     int    `form:"year"`
	Month    int    `form:"month"`
	DateFrom string `form:"dateFrom"`
	DateTo   string `form:"dateTo"`

	// Period buckets the trend chart: day, week, month or year
	Period string `form:"period"`

	// Type selects the export format of /reports; only json is implemented
	Type string `form:"type"`
}
