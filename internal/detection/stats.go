// Palisade - Security Event and Threat Mitigation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/palisade

package detection

import "sort"

// topOffenderLimit is the number of addresses reported in Stats.TopOffenders.
const topOffenderLimit = 10

// Stats aggregates retained events inside r. Offenders are ranked by the
// number of failed or blocked events; ties sort by address.
func (e *Engine) Stats(r TimeRange) Stats {
	if r == "" {
		r = Range24h
	}
	now := e.now()
	since := now.Add(-r.Duration())

	st := Stats{
		Range:      r,
		Since:      since,
		BySeverity: make(map[Severity]int),
		ByCategory: make(map[string]int),
		ByType:     make(map[EventType]int),
		ByResult:   make(map[Result]int),
	}
	offenders := make(map[string]int)

	e.events.each(func(ev *Event) bool {
		if ev.Timestamp.Before(since) {
			return false
		}
		st.TotalEvents++
		st.BySeverity[ev.Severity]++
		st.ByCategory[ev.Type.Category()]++
		st.ByType[ev.Type]++
		st.ByResult[ev.Result]++
		if ev.Result == ResultFailure || ev.Result == ResultBlocked {
			offenders[ev.IPAddress]++
		}
		return true
	})

	st.TopOffenders = rankOffenders(offenders, topOffenderLimit)
	st.BlockedAddresses = e.blocks.len()
	st.ActiveRules = e.activeRuleCount()
	st.RetainedEvents = e.events.len()
	if oldest, ok := e.events.oldest(); ok {
		ts := oldest.Timestamp
		st.OldestRetained = &ts
	}
	return st
}

func rankOffenders(counts map[string]int, limit int) []OffenderCount {
	out := make([]OffenderCount, 0, len(counts))
	for addr, n := range counts {
		out = append(out, OffenderCount{Address: addr, Count: n})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Address < out[j].Address
	})
	if len(out) > limit {
		out = out[:limit]
	}
	return out
}
