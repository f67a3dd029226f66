// Palisade - Security Event and Threat Mitigation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/palisade

package detection

import (
	"context"
	"fmt"
	"maps"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/tomtom215/palisade/internal/logging"
	"github.com/tomtom215/palisade/internal/metrics"
)

// UnknownAddress is stored when an event arrives without a source address.
// It is never blocked.
const UnknownAddress = "unknown"

// Config holds engine tuning. Zero fields take the DefaultConfig value.
type Config struct {
	MaxEvents             int
	FailedLoginThreshold  int
	FailedLoginWindow     time.Duration
	FailedLoginRetention  time.Duration
	RiskCacheTTL          time.Duration
	RiskWindow            time.Duration
	NotifyTimeout         time.Duration
	StoreTimeout          time.Duration
	MaintenanceInterval   time.Duration
	BlockSyncInterval     time.Duration // 0 disables periodic resync from the block store
	KeepFailuresOnSuccess bool          // keep failed-login counts after a successful login
	Source                string        // AlertPayload.Source
}

// DefaultConfig returns the production defaults.
func DefaultConfig() Config {
	return Config{
		MaxEvents:            10000,
		FailedLoginThreshold: 5,
		FailedLoginWindow:    15 * time.Minute,
		FailedLoginRetention: time.Hour,
		RiskCacheTTL:         time.Hour,
		RiskWindow:           60 * time.Minute,
		NotifyTimeout:        10 * time.Second,
		StoreTimeout:         5 * time.Second,
		MaintenanceInterval:  time.Minute,
		Source:               "palisade",
	}
}

func (c Config) withDefaults() Config {
	d := DefaultConfig()
	if c.MaxEvents <= 0 {
		c.MaxEvents = d.MaxEvents
	}
	if c.FailedLoginThreshold <= 0 {
		c.FailedLoginThreshold = d.FailedLoginThreshold
	}
	if c.FailedLoginWindow <= 0 {
		c.FailedLoginWindow = d.FailedLoginWindow
	}
	if c.FailedLoginRetention <= 0 {
		c.FailedLoginRetention = d.FailedLoginRetention
	}
	if c.RiskCacheTTL <= 0 {
		c.RiskCacheTTL = d.RiskCacheTTL
	}
	if c.RiskWindow <= 0 {
		c.RiskWindow = d.RiskWindow
	}
	if c.NotifyTimeout <= 0 {
		c.NotifyTimeout = d.NotifyTimeout
	}
	if c.StoreTimeout <= 0 {
		c.StoreTimeout = d.StoreTimeout
	}
	if c.MaintenanceInterval <= 0 {
		c.MaintenanceInterval = d.MaintenanceInterval
	}
	if c.Source == "" {
		c.Source = d.Source
	}
	return c
}

// Engine records security events, evaluates detection rules against each
// new event and enforces the resulting mitigations. All methods are safe
// for concurrent use.
type Engine struct {
	cfg Config

	events   *eventStore
	failures *failedAuthTracker
	blocks   *blockRegistry
	risk     *riskCache

	rulesMu sync.RWMutex
	rules   []*compiledRule

	notifiersMu sync.RWMutex
	notifiers   []Notifier

	subsMu  sync.RWMutex
	subs    map[uint64]func(Event)
	nextSub uint64

	blockStore BlockStore
	ruleStore  RuleStore

	brokenLogged sync.Map // rule ID -> error text already logged

	lifeMu sync.RWMutex
	closed bool
	wg     sync.WaitGroup

	now func() time.Time
}

// NewEngine creates an engine seeded with DefaultRules. Either store may be
// nil, in which case that state is memory only. Call Load to restore
// persisted state.
func NewEngine(cfg Config, blockStore BlockStore, ruleStore RuleStore) *Engine {
	cfg = cfg.withDefaults()
	e := &Engine{
		cfg:        cfg,
		events:     newEventStore(cfg.MaxEvents),
		failures:   newFailedAuthTracker(cfg.FailedLoginThreshold, cfg.FailedLoginWindow, cfg.FailedLoginRetention),
		blocks:     newBlockRegistry(),
		risk:       newRiskCache(cfg.RiskCacheTTL),
		subs:       make(map[uint64]func(Event)),
		blockStore: blockStore,
		ruleStore:  ruleStore,
		now:        time.Now,
	}
	e.setRules(DefaultRules(e.now()))
	return e
}

// Load restores rules and blocked addresses from the stores. When the rule
// store is empty the default rules are written to it.
func (e *Engine) Load(ctx context.Context) error {
	if e.ruleStore != nil {
		stored, err := e.ruleStore.ListRules(ctx)
		if err != nil {
			return fmt.Errorf("load rules: %w", err)
		}
		if len(stored) == 0 {
			defaults := e.Rules()
			for i := range defaults {
				r := &defaults[i]
				if err := e.ruleStore.SaveRule(ctx, r); err != nil {
					return fmt.Errorf("seed rule %s: %w", r.ID, err)
				}
			}
			logging.Info().Int("rules", len(defaults)).Msg("Seeded default detection rules")
		} else {
			for i := range stored {
				if err := validateRule(&stored[i]); err != nil {
					logging.Warn().Err(err).Str("rule_id", stored[i].ID).Msg("Stored rule is invalid and will never match")
				}
			}
			e.setRules(stored)
			logging.Info().Int("rules", len(stored)).Msg("Loaded detection rules")
		}
	}

	if e.blockStore != nil {
		entries, err := e.blockStore.ListBlocks(ctx)
		if err != nil {
			return fmt.Errorf("load blocked addresses: %w", err)
		}
		added := e.blocks.merge(entries)
		logging.Info().Int("blocked", added).Msg("Loaded blocked addresses")
	}
	metrics.SetBlockedAddresses(e.blocks.len())
	return nil
}

// RegisterNotifier adds an alert transport.
func (e *Engine) RegisterNotifier(n Notifier) {
	e.notifiersMu.Lock()
	e.notifiers = append(e.notifiers, n)
	e.notifiersMu.Unlock()
}

// Subscribe registers fn to receive every recorded event and returns a
// function that removes it. fn is called synchronously from Record and
// must not block.
func (e *Engine) Subscribe(fn func(Event)) (unsubscribe func()) {
	e.subsMu.Lock()
	id := e.nextSub
	e.nextSub++
	e.subs[id] = fn
	e.subsMu.Unlock()

	return func() {
		e.subsMu.Lock()
		delete(e.subs, id)
		e.subsMu.Unlock()
	}
}

// Record finalizes in, appends it to the event store and runs the
// failed-login tracker and rule evaluation for it. Missing fields are
// filled with defaults; input is never rejected.
func (e *Engine) Record(ctx context.Context, in EventInput) Event {
	ev := e.events.append(finalizeEvent(in), e.now)

	metrics.RecordSecurityEvent(string(ev.Type), string(ev.Severity), string(ev.Result))
	e.logEvent(ctx, &ev)

	switch ev.Type {
	case EventFailedLogin:
		e.trackFailedLogin(ctx, &ev)
	case EventLogin:
		if ev.Result == ResultSuccess && !e.cfg.KeepFailuresOnSuccess {
			e.failures.clear(failedLoginKey(&ev))
		}
	}

	if !ev.Derived {
		e.evaluateRules(ctx, &ev)
	}

	e.publish(ev)
	return ev
}

func finalizeEvent(in EventInput) Event {
	ev := Event{
		ID:        uuid.New().String(),
		Type:      in.Type,
		Severity:  in.Severity,
		UserID:    in.UserID,
		UserEmail: in.UserEmail,
		IPAddress: normalizeAddress(in.IPAddress),
		UserAgent: in.UserAgent,
		Action:    in.Action,
		Resource:  in.Resource,
		Result:    in.Result,
		Details:   maps.Clone(in.Details),
		Derived:   in.Derived,
	}
	if !ev.Severity.Valid() {
		ev.Severity = SeverityLow
	}
	if !ev.Result.Valid() {
		ev.Result = ResultSuccess
	}
	if ev.Action == "" {
		ev.Action = string(ev.Type)
	}
	if ev.IPAddress == "" {
		ev.IPAddress = UnknownAddress
	}
	return ev
}

func severityLevel(s Severity) zerolog.Level {
	switch s {
	case SeverityCritical:
		return zerolog.ErrorLevel
	case SeverityHigh:
		return zerolog.WarnLevel
	case SeverityMedium:
		return zerolog.InfoLevel
	default:
		return zerolog.DebugLevel
	}
}

func (e *Engine) logEvent(ctx context.Context, ev *Event) {
	entry := logging.Ctx(ctx).WithLevel(severityLevel(ev.Severity)).
		Str("event_id", ev.ID).
		Str("type", string(ev.Type)).
		Str("severity", string(ev.Severity)).
		Str("result", string(ev.Result)).
		Str("ip", logging.SanitizeIP(ev.IPAddress))
	if ev.UserEmail != "" {
		entry = entry.Str("user", logging.SanitizeEmail(ev.UserEmail))
	}
	if ev.Resource != "" {
		entry = entry.Str("resource", logging.SanitizeValue(ev.Resource))
	}
	if ev.Derived {
		entry = entry.Bool("derived", true)
	}
	entry.Msg("Security event")
}

func (e *Engine) publish(ev Event) {
	e.subsMu.RLock()
	defer e.subsMu.RUnlock()
	for _, fn := range e.subs {
		fn(ev)
	}
}

// recordDerived records an engine-generated event. Derived events are never
// evaluated against rules.
func (e *Engine) recordDerived(ctx context.Context, in EventInput) Event {
	in.Derived = true
	return e.Record(ctx, in)
}

func (e *Engine) trackFailedLogin(ctx context.Context, ev *Event) {
	count, exceeded := e.failures.record(failedLoginKey(ev), e.now())
	if !exceeded {
		return
	}
	reason := fmt.Sprintf("%d failed logins within %s", count, e.cfg.FailedLoginWindow)
	if !e.block(ctx, ev.IPAddress, reason, BlockSourceFailedLogin) {
		return
	}
	e.recordDerived(ctx, EventInput{
		Type:      EventIntrusionAttempt,
		Severity:  SeverityHigh,
		UserID:    ev.UserID,
		UserEmail: ev.UserEmail,
		IPAddress: ev.IPAddress,
		UserAgent: ev.UserAgent,
		Action:    "block",
		Result:    ResultBlocked,
		Details: map[string]interface{}{
			"reason":           "failed_login_threshold",
			"attempts":         count,
			"trigger_event_id": ev.ID,
		},
	})
}

// evaluateRules runs every enabled rule against ev in rule order. Actions
// run outside the rule lock because they may record further events.
func (e *Engine) evaluateRules(ctx context.Context, ev *Event) {
	e.rulesMu.RLock()
	snapshot := make([]*compiledRule, len(e.rules))
	copy(snapshot, e.rules)
	e.rulesMu.RUnlock()

	for _, cr := range snapshot {
		if cr.broken != nil {
			e.logBrokenRule(cr)
			continue
		}
		if !cr.matchesStatic(ev) {
			continue
		}
		if th := cr.Condition.Threshold; th != nil {
			if e.CountRecentEvents(ev.IPAddress, cr.Condition.EventTypes, th.WindowMinutes) < th.Count {
				continue
			}
		}
		e.executeAction(ctx, cr, ev)
	}
}

func (e *Engine) logBrokenRule(cr *compiledRule) {
	msg := cr.broken.Error()
	if prev, loaded := e.brokenLogged.LoadOrStore(cr.ID, msg); loaded && prev == msg {
		return
	}
	e.brokenLogged.Store(cr.ID, msg)
	logging.Error().Err(cr.broken).Str("rule_id", cr.ID).Msg("Rule pattern does not compile; rule disabled")
}

func (e *Engine) setRules(rules []Rule) {
	compiled := make([]*compiledRule, 0, len(rules))
	for _, r := range rules {
		compiled = append(compiled, compileRule(r))
	}
	sortRules(compiled)

	e.rulesMu.Lock()
	e.rules = compiled
	e.rulesMu.Unlock()
}

func (e *Engine) activeRuleCount() int {
	e.rulesMu.RLock()
	defer e.rulesMu.RUnlock()
	n := 0
	for _, cr := range e.rules {
		if cr.Enabled {
			n++
		}
	}
	return n
}

// RunWithContext runs periodic maintenance until ctx is canceled: pruning
// stale failed-login records and expired risk entries, refreshing gauges,
// and (when BlockSyncInterval is set) merging blocks added by other
// instances.
func (e *Engine) RunWithContext(ctx context.Context) error {
	maintenance := time.NewTicker(e.cfg.MaintenanceInterval)
	defer maintenance.Stop()

	var syncC <-chan time.Time
	if e.cfg.BlockSyncInterval > 0 && e.blockStore != nil {
		syncTicker := time.NewTicker(e.cfg.BlockSyncInterval)
		defer syncTicker.Stop()
		syncC = syncTicker.C
	}

	logging.Info().
		Dur("maintenance_interval", e.cfg.MaintenanceInterval).
		Dur("block_sync_interval", e.cfg.BlockSyncInterval).
		Msg("Detection engine started")

	for {
		select {
		case <-ctx.Done():
			logging.Info().Msg("Detection engine stopped")
			return ctx.Err()
		case <-maintenance.C:
			e.maintain()
		case <-syncC:
			if _, err := e.SyncBlocks(ctx); err != nil {
				logging.Warn().Err(err).Msg("Block synchronization failed")
			}
		}
	}
}

func (e *Engine) maintain() {
	now := e.now()
	failures := e.failures.prune(now)
	risks := e.risk.prune(now)
	metrics.SetEventStoreSize(e.events.len())
	metrics.SetBlockedAddresses(e.blocks.len())
	if failures > 0 || risks > 0 {
		logging.Debug().
			Int("failed_login_records", failures).
			Int("risk_entries", risks).
			Msg("Pruned expired detection state")
	}
}

// Close stops alert dispatch and waits for in-flight notifications.
func (e *Engine) Close() {
	e.lifeMu.Lock()
	e.closed = true
	e.lifeMu.Unlock()
	e.wg.Wait()
}

// Notifiers lists the names of registered notifiers.
func (e *Engine) Notifiers() []string {
	e.notifiersMu.RLock()
	defer e.notifiersMu.RUnlock()
	names := make([]string, 0, len(e.notifiers))
	for _, n := range e.notifiers {
		names = append(names, n.Name())
	}
	sort.Strings(names)
	return names
}
