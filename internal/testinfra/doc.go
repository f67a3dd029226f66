// Palisade - Security Event and Threat Mitigation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/palisade

// Package testinfra provides test infrastructure for integration testing.
//
// # Redis Container
//
// RedisContainer starts a real Redis through testcontainers-go so the shared
// block store can be exercised against the server it runs on in production:
//
//	func TestSharedBlocks(t *testing.T) {
//	    testinfra.SkipIfNoDocker(t)
//	    ctx := context.Background()
//	    redisC, err := testinfra.NewRedisContainer(ctx)
//	    if err != nil {
//	        t.Fatal(err)
//	    }
//	    defer testinfra.CleanupContainer(t, ctx, redisC)
//
//	    client, err := store.ConnectRedis(ctx, redisC.URL)
//	    // ...
//	}
//
// Container helpers build only with the integration tag and skip when Docker
// is unavailable.
//
// # Alert Receiver
//
// AlertReceiver is an httptest server that captures webhook alert
// deliveries. It needs no Docker and is available to every test.
package testinfra
