package domain

import (
	"sort"
	"time"
)

const (
	// CrossTabThreshold is the record count above which the cross tables are shown.
	CrossTabThreshold = 10
	RecentLimit       = 5
)

type Count struct {
	Label string
	Count int
	Share float64
}

type HourRate struct {
	Hour    int
	Records int
	Rate    float64
}

// CrossRow is the engaged/distracted split of one label, as percentages.
type CrossRow struct {
	Label         string
	Records       int
	EngagedPct    float64
	DistractedPct float64
}

type Breakdown struct {
	Summary      Summary
	Contexts     []Count
	Emotions     []Count
	Hourly       []HourRate
	ContextCross []CrossRow
	EmotionCross []CrossRow
	Recent       []Observation
	SessionTime  time.Duration
}

// NewBreakdown derives the dashboard tables from a snapshot. interval is the
// tick period used to estimate session time.
func NewBreakdown(snapshot []Observation, params Params, interval time.Duration) Breakdown {
	b := Breakdown{
		Summary:     Compute(snapshot, params),
		SessionTime: time.Duration(len(snapshot)) * interval,
	}
	if len(snapshot) == 0 {
		return b
	}
	b.Contexts = distribution(snapshot, func(o Observation) string { return o.Context })
	b.Emotions = distribution(snapshot, func(o Observation) string { return o.Emotion })
	b.Hourly = hourly(snapshot)
	if len(snapshot) > CrossTabThreshold {
		b.ContextCross = crossTab(snapshot, func(o Observation) string { return o.Context })
		b.EmotionCross = crossTab(snapshot, func(o Observation) string { return o.Emotion })
	}
	start := max(0, len(snapshot)-RecentLimit)
	b.Recent = append([]Observation(nil), snapshot[start:]...)
	return b
}

func distribution(snapshot []Observation, key func(Observation) string) []Count {
	counts := map[string]int{}
	for _, o := range snapshot {
		counts[key(o)]++
	}
	out := make([]Count, 0, len(counts))
	for lbl, n := range counts {
		out = append(out, Count{Label: lbl, Count: n, Share: float64(n) / float64(len(snapshot))})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Label < out[j].Label
	})
	return out
}

func hourly(snapshot []Observation) []HourRate {
	type acc struct{ n, engaged int }
	byHour := map[int]*acc{}
	for _, o := range snapshot {
		h := o.Timestamp.Hour()
		a, ok := byHour[h]
		if !ok {
			a = &acc{}
			byHour[h] = a
		}
		a.n++
		if o.Engaged {
			a.engaged++
		}
	}
	out := make([]HourRate, 0, len(byHour))
	for h, a := range byHour {
		out = append(out, HourRate{Hour: h, Records: a.n, Rate: float64(a.engaged) / float64(a.n)})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Hour < out[j].Hour })
	return out
}

func crossTab(snapshot []Observation, key func(Observation) string) []CrossRow {
	type acc struct{ n, engaged int }
	rows := map[string]*acc{}
	for _, o := range snapshot {
		k := key(o)
		a, ok := rows[k]
		if !ok {
			a = &acc{}
			rows[k] = a
		}
		a.n++
		if o.Engaged {
			a.engaged++
		}
	}
	out := make([]CrossRow, 0, len(rows))
	for lbl, a := range rows {
		engaged := 100 * float64(a.engaged) / float64(a.n)
		out = append(out, CrossRow{Label: lbl, Records: a.n, EngagedPct: engaged, DistractedPct: 100 - engaged})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Records != out[j].Records {
			return out[i].Records > out[j].Records
		}
		return out[i].Label < out[j].Label
	})
	return out
}
