package listing

// Stats summarizes a seller's listings for the dashboard
type Stats struct {
	TotalListings   int `json:"total_listings"`
	ActiveListings  int `json:"active_listings"`
	DraftListings   int `json:"draft_listings"`
	SoldListings    int `json:"sold_listings"`
	ExpiredListings int `json:"expired_listings"`
	Auctions        int `json:"auctions"`
	TotalViews      int `json:"total_views"`
}

// Summarize counts items by stored status and adds up their views
func Summarize(items []*Listing) Stats {
	var stats Stats
	for _, l := range items {
		if l == nil {
			continue
		}
		stats.TotalListings++
		stats.TotalViews += l.Views
		if l.IsAuction() {
			stats.Auctions++
		}
		switch l.Status {
		case StatusActive:
			stats.ActiveListings++
		case StatusDraft:
			stats.DraftListings++
		case StatusSold:
			stats.SoldListings++
		case StatusExpired:
			stats.ExpiredListings++
		}
	}
	return stats
}
