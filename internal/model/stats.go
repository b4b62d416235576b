package model

// Stats はステータス別の予約件数です
type Stats struct {
	Total    int
	Pending  int
	Approved int
	Rejected int
	Unknown  int
}

// CountByStatus は予約をステータス別に集計します
func CountByStatus(reservations []Reservation) Stats {
	stats := Stats{Total: len(reservations)}
	for _, r := range reservations {
		switch r.Status {
		case StatusPending:
			stats.Pending++
		case StatusApproved:
			stats.Approved++
		case StatusRejected:
			stats.Rejected++
		default:
			stats.Unknown++
		}
	}
	return stats
}

// ApprovalRate は承認率(%)を返します。0件の場合は0です
func (s Stats) ApprovalRate() float64 {
	if s.Total == 0 {
		return 0
	}
	return float64(s.Approved) / float64(s.Total) * 100
}
