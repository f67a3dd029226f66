// Palisade - Security Event and Threat Mitigation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/palisade

package services

import (
	"context"
)

// DetectionEngine is satisfied by *detection.Engine. RunWithContext performs
// periodic maintenance (failed-login and risk pruning, gauge refresh) and
// block synchronization until ctx is canceled.
type DetectionEngine interface {
	RunWithContext(ctx context.Context) error
}

// DetectionService supervises the engine's background loop. Event recording
// and rule evaluation happen on the caller's goroutine and keep working
// while the loop restarts.
type DetectionService struct {
	engine DetectionEngine
	name   string
}

// NewDetectionService wraps engine.
func NewDetectionService(engine DetectionEngine) *DetectionService {
	return &DetectionService{
		engine: engine,
		name:   "detection-engine",
	}
}

// Serve implements suture.Service.
func (d *DetectionService) Serve(ctx context.Context) error {
	return d.engine.RunWithContext(ctx)
}

func (d *DetectionService) String() string {
	return d.name
}
