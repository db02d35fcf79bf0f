package domain

// DashboardStats are the aggregates the dashboard screen derives from
// whatever collections it managed to load. Derived only after all
// fetches have settled, so partial results still produce usable counts.
type DashboardStats struct {
	Products       int
	ActiveProducts int
	Categories     int
	Orders         int
	PendingOrders  int
	Revenue        float64
}

// ComputeDashboardStats derives dashboard aggregates from the loaded
// collections. Empty slices (degraded fetches) simply contribute zero.
func ComputeDashboardStats(products []Product, categories []Category, orders []Order) DashboardStats {
	stats := DashboardStats{
		Products:   len(products),
		Categories: len(categories),
		Orders:     len(orders),
	}
	for _, p := range products {
		if p.IsActive {
			stats.ActiveProducts++
		}
	}
	for _, o := range orders {
		if o.Status == OrderPending {
			stats.PendingOrders++
		}
		if o.Status != OrderCancelled {
			stats.Revenue += o.Total
		}
	}
	return stats
}
