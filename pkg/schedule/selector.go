package schedule

import (
	"sort"
	"time"

	"github.com/mampfes/ha-epex-spot-sensor/pkg/api/v1/marketdata"
)

// slot is a marketprice clipped to the selection window.
type slot struct {
	start time.Time
	end   time.Time
	price float64
}

func clip(w Window, prices []marketdata.Marketprice) []slot {
	out := make([]slot, 0, len(prices))
	for _, m := range prices {
		start := m.StartTime
		if start.Before(w.Start) {
			start = w.Start
		}
		end := m.EndTime
		if end.After(w.End) {
			end = w.End
		}
		if !end.After(start) {
			continue
		}
		out = append(out, slot{start: start, end: end, price: m.Price})
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].start.Before(out[j].start)
	})
	return out
}

func better(cost, best float64, pm PriceMode) bool {
	if pm == PriceModeMostExpensive {
		return cost > best
	}
	return cost < best
}

// Select computes the optimal set of intervals covering duration within
// the window. It is a pure function of its inputs: identical inputs give
// an identical, order-stable result. When the available slots cannot
// supply the full duration the maximal achievable selection is returned
// with Incomplete set instead of failing.
func Select(w Window, prices []marketdata.Marketprice, duration time.Duration, pm PriceMode, im IntervalMode) Result {
	if duration <= 0 {
		return Result{}
	}
	cl := clip(w, prices)
	if len(cl) == 0 {
		return Result{Incomplete: true}
	}
	if im == IntervalModeIntermittent {
		return selectIntermittent(cl, duration, pm)
	}
	return selectContiguous(cl, duration, pm)
}

func selectContiguous(cl []slot, duration time.Duration, pm PriceMode) Result {
	found := false
	var bestStart time.Time
	var bestCost float64
	for i := range cl {
		cost, ok := runCost(cl, i, duration)
		if !ok {
			continue
		}
		// strictly better only, so the earliest start wins ties
		if !found || better(cost, bestCost, pm) {
			found = true
			bestStart = cl[i].start
			bestCost = cost
		}
	}
	if !found {
		return bestEffortContiguous(cl, pm)
	}

	return Result{Intervals: []Interval{{
		Start: bestStart,
		End:   bestStart.Add(duration),
		Price: bestCost / duration.Hours(),
	}}}
}

// runCost prices the run [cl[i].start, cl[i].start+duration) as the sum
// of slot price times overlap hours, or reports that the consecutive
// slots starting at i cannot cover the run.
func runCost(cl []slot, i int, duration time.Duration) (float64, bool) {
	end := cl[i].start.Add(duration)
	cost := 0.0
	for j := i; j < len(cl); j++ {
		if j > i && !cl[j].start.Equal(cl[j-1].end) {
			return 0, false
		}
		e := cl[j].end
		if e.After(end) {
			e = end
		}
		cost += cl[j].price * e.Sub(cl[j].start).Hours()
		if !cl[j].end.Before(end) {
			return cost, true
		}
	}
	return 0, false
}

// bestEffortContiguous runs when no consecutive run can cover the full
// duration: the longest run wins, equal lengths are decided by price
// preference, remaining ties by earliest start.
func bestEffortContiguous(cl []slot, pm PriceMode) Result {
	bestIdx := -1
	var bestLen time.Duration
	var bestCost float64
	for i := range cl {
		length, cost := runSpan(cl, i)
		if length > bestLen || (bestIdx >= 0 && length == bestLen && better(cost, bestCost, pm)) {
			bestIdx = i
			bestLen = length
			bestCost = cost
		}
	}
	if bestIdx < 0 {
		return Result{Incomplete: true}
	}

	return Result{
		Intervals: []Interval{{
			Start: cl[bestIdx].start,
			End:   cl[bestIdx].start.Add(bestLen),
			Price: bestCost / bestLen.Hours(),
		}},
		Incomplete: true,
	}
}

// runSpan measures the consecutive run starting at i and its total cost.
func runSpan(cl []slot, i int) (time.Duration, float64) {
	end := cl[i].start
	cost := 0.0
	for j := i; j < len(cl); j++ {
		if j > i && !cl[j].start.Equal(cl[j-1].end) {
			break
		}
		cost += cl[j].price * cl[j].end.Sub(cl[j].start).Hours()
		end = cl[j].end
	}
	return end.Sub(cl[i].start), cost
}

func selectIntermittent(cl []slot, duration time.Duration, pm PriceMode) Result {
	order := make([]slot, len(cl))
	copy(order, cl)
	// stable sort keeps chronological order as the tie-break on equal prices
	sort.SliceStable(order, func(i, j int) bool {
		if pm == PriceModeMostExpensive {
			return order[i].price > order[j].price
		}
		return order[i].price < order[j].price
	})

	res := Result{}
	remaining := duration
	for _, s := range order {
		if remaining <= 0 {
			break
		}
		d := s.end.Sub(s.start)
		if d > remaining {
			// the least favorable block is truncated at its end so the
			// total matches the required duration exactly
			d = remaining
		}
		res.Intervals = append(res.Intervals, Interval{
			Start: s.start,
			End:   s.start.Add(d),
			Rank:  len(res.Intervals) + 1,
			Price: s.price,
		})
		remaining -= d
	}
	res.Incomplete = remaining > 0
	return res
}
