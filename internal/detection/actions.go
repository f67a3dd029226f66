// Palisade - Security Event and Threat Mitigation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/palisade

package detection

import (
	"context"
	"fmt"
	"maps"
	"net/netip"
	"time"

	"github.com/tomtom215/palisade/internal/logging"
	"github.com/tomtom215/palisade/internal/metrics"
)

func (e *Engine) executeAction(ctx context.Context, cr *compiledRule, ev *Event) {
	metrics.RecordRuleMatch(cr.ID, string(cr.Action))
	logging.Ctx(ctx).WithLevel(severityLevel(cr.Severity)).
		Str("rule_id", cr.ID).
		Str("action", string(cr.Action)).
		Str("event_id", ev.ID).
		Str("ip", logging.SanitizeIP(ev.IPAddress)).
		Msg("Detection rule matched")

	switch cr.Action {
	case ActionBlock:
		e.block(ctx, ev.IPAddress, "rule: "+cr.Name, BlockSourceRule)
		e.recordDerived(ctx, EventInput{
			Type:      EventIntrusionAttempt,
			Severity:  cr.Severity,
			UserID:    ev.UserID,
			UserEmail: ev.UserEmail,
			IPAddress: ev.IPAddress,
			UserAgent: ev.UserAgent,
			Action:    "block",
			Result:    ResultBlocked,
			Details: map[string]interface{}{
				"rule_id":          cr.ID,
				"rule_name":        cr.Name,
				"trigger_event_id": ev.ID,
			},
		})
	case ActionAlert:
		e.dispatchAlert(cr, ev)
	case ActionChallenge:
		if ev.IPAddress != UnknownAddress {
			e.risk.set(ev.IPAddress, RiskHigh, e.now())
		}
	case ActionLog:
	}
}

func (e *Engine) dispatchAlert(cr *compiledRule, ev *Event) {
	payload := &AlertPayload{
		AlertType: cr.Name,
		Event:     *ev,
		Severity:  cr.Severity,
		RuleID:    cr.ID,
		Timestamp: e.now(),
		Source:    e.cfg.Source,
	}
	payload.Event.Details = maps.Clone(ev.Details)

	e.notifiersMu.RLock()
	notifiers := make([]Notifier, len(e.notifiers))
	copy(notifiers, e.notifiers)
	e.notifiersMu.RUnlock()

	for _, n := range notifiers {
		if !n.Enabled() {
			continue
		}
		e.lifeMu.RLock()
		if e.closed {
			e.lifeMu.RUnlock()
			return
		}
		e.wg.Add(1)
		e.lifeMu.RUnlock()
		go e.deliver(n, payload)
	}
}

// deliver sends payload through one notifier. Failures are logged and
// counted; delivery is never retried.
func (e *Engine) deliver(n Notifier, payload *AlertPayload) {
	defer e.wg.Done()
	defer func() {
		if r := recover(); r != nil {
			logging.Error().Str("notifier", n.Name()).Interface("panic", r).Msg("Notifier panicked")
			metrics.RecordNotification(n.Name(), fmt.Errorf("panic: %v", r), 0)
		}
	}()

	ctx, cancel := context.WithTimeout(context.Background(), e.cfg.NotifyTimeout)
	defer cancel()

	start := time.Now()
	err := n.Send(ctx, payload)
	metrics.RecordNotification(n.Name(), err, time.Since(start))
	if err != nil {
		logging.Warn().Err(err).
			Str("notifier", n.Name()).
			Str("rule_id", payload.RuleID).
			Msg("Alert delivery failed")
	}
}

// block adds addr to the block set and persists it. It reports whether the
// address was newly blocked.
func (e *Engine) block(ctx context.Context, addr, reason string, source BlockSource) bool {
	addr = normalizeAddress(addr)
	if addr == "" || addr == UnknownAddress {
		logging.Ctx(ctx).Warn().Str("source", string(source)).Msg("Refusing to block an unknown address")
		return false
	}
	entry := BlockEntry{Address: addr, Reason: reason, Source: source, BlockedAt: e.now()}
	if !e.blocks.add(entry) {
		return false
	}
	metrics.RecordBlock(string(source))
	metrics.SetBlockedAddresses(e.blocks.len())
	logging.Ctx(ctx).Warn().
		Str("ip", logging.SanitizeIP(addr)).
		Str("source", string(source)).
		Str("reason", logging.SanitizeValue(reason)).
		Msg("Address blocked")

	if e.blockStore != nil {
		sctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), e.cfg.StoreTimeout)
		defer cancel()
		if err := e.blockStore.SaveBlock(sctx, &entry); err != nil {
			metrics.RecordBlockStoreError("save")
			logging.Error().Err(err).Str("ip", logging.SanitizeIP(addr)).Msg("Failed to persist blocked address")
		}
	}
	return true
}

// BlockIP blocks a parseable IP address on behalf of an administrator and
// reports whether it was newly blocked.
func (e *Engine) BlockIP(ctx context.Context, addr, reason string) (bool, error) {
	ip, err := netip.ParseAddr(addr)
	if err != nil {
		return false, fmt.Errorf("%w: %q", ErrInvalidAddress, logging.SanitizeValue(addr))
	}
	if reason == "" {
		reason = "manual block"
	}
	return e.block(ctx, ip.Unmap().String(), reason, BlockSourceAdmin), nil
}

// UnblockIP removes addr from the block set and drops its cached risk
// level. It reports whether the address was blocked.
func (e *Engine) UnblockIP(ctx context.Context, addr string) bool {
	addr = normalizeAddress(addr)
	if !e.blocks.remove(addr) {
		return false
	}
	e.risk.delete(addr)
	metrics.RecordUnblock()
	metrics.SetBlockedAddresses(e.blocks.len())
	logging.Ctx(ctx).Info().Str("ip", logging.SanitizeIP(addr)).Msg("Address unblocked")

	if e.blockStore != nil {
		sctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), e.cfg.StoreTimeout)
		defer cancel()
		if err := e.blockStore.DeleteBlock(sctx, addr); err != nil {
			metrics.RecordBlockStoreError("delete")
			logging.Error().Err(err).Str("ip", logging.SanitizeIP(addr)).Msg("Failed to delete persisted block")
		}
	}
	return true
}

// IsBlocked reports whether addr is in the block set.
func (e *Engine) IsBlocked(addr string) bool {
	return e.blocks.contains(normalizeAddress(addr))
}

// BlockedIPs lists the block set, newest first.
func (e *Engine) BlockedIPs() []BlockEntry {
	return e.blocks.list()
}

// SyncBlocks merges entries from the block store that other instances
// added. Local entries are never removed. It returns the number of new
// entries.
func (e *Engine) SyncBlocks(ctx context.Context) (int, error) {
	if e.blockStore == nil {
		return 0, nil
	}
	entries, err := e.blockStore.ListBlocks(ctx)
	if err != nil {
		metrics.RecordBlockStoreError("list")
		return 0, fmt.Errorf("list blocked addresses: %w", err)
	}
	added := e.blocks.merge(entries)
	if added > 0 {
		metrics.SetBlockedAddresses(e.blocks.len())
		logging.Info().Int("added", added).Msg("Synchronized blocked addresses from store")
	}
	return added, nil
}
