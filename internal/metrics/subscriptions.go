package metrics

import (
	"sort"
	"time"

	"github.com/julianstephens/theseus/internal/constants"
	"github.com/julianstephens/theseus/internal/models"
)

// MonthlyCost normalizes a subscription's cost to a monthly amount.
func MonthlyCost(s models.Subscription) float64 {
	switch s.BillingCycle {
	case constants.BillingYearly:
		return s.Cost / 12
	case constants.BillingWeekly:
		return s.Cost * 52 / 12
	default:
		return s.Cost
	}
}

// Renewal is an upcoming charge.
type Renewal struct {
	models.Subscription
	DaysUntil int `json:"days_until"`
}

type SubscriptionStats struct {
	MonthlyTotal     float64   `json:"monthly_total"`
	YearlyTotal      float64   `json:"yearly_total"`
	Count            int       `json:"count"`
	UpcomingRenewals []Renewal `json:"upcoming_renewals"`
}

// ComputeSubscriptionStats totals active subscriptions and lists the ones
// renewing within [today, today+windowDays], soonest first.
func ComputeSubscriptionStats(subs []models.Subscription, windowDays int, today time.Time) SubscriptionStats {
	st := SubscriptionStats{UpcomingRenewals: []Renewal{}}
	var monthly float64
	for _, s := range subs {
		if !s.Active {
			continue
		}
		st.Count++
		monthly += MonthlyCost(s)
	}
	st.MonthlyTotal = round(monthly, 2)
	st.YearlyTotal = round(monthly*12, 2)
	st.UpcomingRenewals = UpcomingRenewals(subs, windowDays, today)
	return st
}

// UpcomingRenewals lists active subscriptions renewing within the window.
func UpcomingRenewals(subs []models.Subscription, windowDays int, today time.Time) []Renewal {
	now := dayOf(today)
	out := []Renewal{}
	for _, s := range subs {
		if !s.Active {
			continue
		}
		d, ok := parseDay(s.NextRenewal)
		if !ok || d < now || d > now+day(windowDays) {
			continue
		}
		out = append(out, Renewal{Subscription: s, DaysUntil: int(d - now)})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].DaysUntil < out[j].DaysUntil })
	return out
}
