package schedule

import (
	"context"
	"sort"
	"time"
)

const defaultLookaheadWeeks = 3

type (
	// TradeRollup counts a week's items for one trade.
	TradeRollup struct {
		Trade string `json:"trade"`
		Count int    `json:"count"`
	}

	// LookaheadWeek is one workweek bucket: items whose scheduled window
	// touches the week, with per-trade counts.
	LookaheadWeek struct {
		WeekStart time.Time     `json:"week_start"` // Monday
		Trades    []TradeRollup `json:"trades"`
		Items     []Item        `json:"items"`
	}

	// Lookahead is the N-week field rollup of a project schedule.
	Lookahead struct {
		ProjectID string          `json:"project_id"`
		From      time.Time       `json:"from"`
		To        time.Time       `json:"to"`
		Weeks     []LookaheadWeek `json:"weeks"`
	}
)

var lookaheadNowFunc = time.Now // mockable

func (svc *service) Lookahead(ctx context.Context, projectID string, weeks int) (*Lookahead, error) {
	if weeks <= 0 {
		weeks = defaultLookaheadWeeks
	}
	items, err := svc.repo.QueryItems(ctx, projectID, nil, nil)
	if err != nil {
		return nil, err
	}
	return buildLookahead(projectID, lookaheadNowFunc(), weeks, items), nil
}

// buildLookahead buckets items into workweeks over [monday(now), +weeks).
// An item lands in every week its early start..finish window touches; done
// items are left out.
func buildLookahead(projectID string, now time.Time, weeks int, items []Item) *Lookahead {
	from := mondayOf(now)
	la := &Lookahead{
		ProjectID: projectID,
		From:      from,
		To:        from.AddDate(0, 0, 7*weeks),
		Weeks:     make([]LookaheadWeek, 0, weeks),
	}

	for w := 0; w < weeks; w++ {
		weekStart := from.AddDate(0, 0, 7*w)
		weekEnd := weekStart.AddDate(0, 0, 5) // Mon..Fri
		week := LookaheadWeek{WeekStart: weekStart, Items: []Item{}}

		tradeCounts := make(map[string]int)
		for _, itm := range items {
			if itm.Status == StatusDone {
				continue
			}
			if itm.EarlyStart.IsZero() || !overlaps(itm.EarlyStart, itm.EarlyFinish, weekStart, weekEnd) {
				continue
			}
			week.Items = append(week.Items, itm)
			tradeCounts[itm.Trade]++
		}
		sortItemsByStart(week.Items)

		trades := make([]string, 0, len(tradeCounts))
		for trade := range tradeCounts {
			trades = append(trades, trade)
		}
		sort.Strings(trades)
		for _, trade := range trades {
			week.Trades = append(week.Trades, TradeRollup{Trade: trade, Count: tradeCounts[trade]})
		}

		la.Weeks = append(la.Weeks, week)
	}
	return la
}

// overlaps reports whether [aStart, aEnd] intersects [bStart, bEnd).
func overlaps(aStart, aEnd, bStart, bEnd time.Time) bool {
	if aEnd.IsZero() {
		aEnd = aStart
	}
	return aStart.Before(bEnd) && !aEnd.Before(bStart)
}

// mondayOf returns the Monday of t's week at UTC midnight.
func mondayOf(t time.Time) time.Time {
	t = dateOnly(t)
	offset := (int(t.Weekday()) + 6) % 7 // Monday=0 .. Sunday=6
	return t.AddDate(0, 0, -offset)
}

func sortItems(items []Item, less func(a, b Item) bool) {
	sort.SliceStable(items, func(i, j int) bool { return less(items[i], items[j]) })
}
