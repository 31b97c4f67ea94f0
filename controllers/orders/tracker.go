package orderControllers

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/federeito/valentino-api/models"
)

type statusStyle struct {
	Icon  string
	Color string
}

// Fixed status vocabulary → presentation mapping. Anything else renders
// neutral.
var statusStyles = map[string]statusStyle{
	models.StatusPending:          {Icon: "clock", Color: "amber"},
	models.StatusPaymentConfirmed: {Icon: "credit-card", Color: "green"},
	models.StatusPreparing:        {Icon: "package", Color: "blue"},
	models.StatusDispatched:       {Icon: "truck", Color: "indigo"},
	models.StatusDelivered:        {Icon: "check-circle", Color: "green"},
	models.StatusCancelled:        {Icon: "x-circle", Color: "red"},
}

var neutralStyle = statusStyle{Icon: "circle", Color: "gray"}

type TimelineEntry struct {
	Status string    `json:"status"`
	Icon   string    `json:"icon"`
	Color  string    `json:"color"`
	At     time.Time `json:"at"`
	Latest bool      `json:"latest"`
	Muted  bool      `json:"muted"`
}

// BuildTimeline sorts the status history ascending by timestamp and styles
// each event; only the most recent event renders un-muted.
func BuildTimeline(events []models.StatusEvent) []TimelineEntry {
	sorted := make([]models.StatusEvent, len(events))
	copy(sorted, events)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].CreatedAt.Before(sorted[j].CreatedAt)
	})

	timeline := make([]TimelineEntry, len(sorted))
	for i, ev := range sorted {
		style, ok := statusStyles[ev.Status]
		if !ok {
			style = neutralStyle
		}
		timeline[i] = TimelineEntry{
			Status: ev.Status,
			Icon:   style.Icon,
			Color:  style.Color,
			At:     ev.CreatedAt,
			Latest: i == len(sorted)-1,
			Muted:  i != len(sorted)-1,
		}
	}
	return timeline
}

// OrderTotal sums the snapshotted line totals.
func OrderTotal(items []models.LineItem) decimal.Decimal {
	total := decimal.Zero
	for _, item := range items {
		total = total.Add(item.TotalPrice)
	}
	return total
}

// IsValidStatus reports whether s belongs to the status vocabulary.
func IsValidStatus(s string) bool {
	_, ok := statusStyles[s]
	return ok
}
