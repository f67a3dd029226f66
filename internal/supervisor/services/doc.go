// Palisade - Security Event and Threat Mitigation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/palisade

/*
Package services adapts Palisade components to suture.Service.

Each wrapper translates a component lifecycle into suture's context-aware
Serve method and names itself through fmt.Stringer so supervisor logs
identify it:

  - DetectionService runs detection.Engine.RunWithContext.
  - WebSocketHubService runs websocket.Hub.RunWithContext.
  - HTTPServerService turns ListenAndServe plus Shutdown into Serve, with a
    bounded drain on cancellation.

Serve returns ctx.Err() on a requested shutdown. Any other error is a
failure and suture restarts the service with backoff.
*/
package services
