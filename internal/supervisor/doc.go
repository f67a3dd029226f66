// Palisade - Security Event and Threat Mitigation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/palisade

/*
Package supervisor provides process supervision for Palisade using suture v4.

The tree groups long-running services into three layers so that a failure in
one restarts only that layer:

	RootSupervisor ("palisade")
	├── DetectionSupervisor ("detection-layer")
	│   └── DetectionService (engine maintenance, block sync)
	├── StreamSupervisor ("stream-layer")
	│   └── WebSocketHubService
	└── APISupervisor ("api-layer")
	    └── HTTPServerService

Supervisor events (service start, failure, restart, backoff) are logged
through sutureslog into the zerolog-backed slog logger from the logging
package.

# Usage

	logger := logging.NewSlogLogger()
	tree, err := supervisor.NewSupervisorTree(logger, supervisor.DefaultTreeConfig())
	if err != nil {
	    return err
	}

	tree.AddDetectionService(services.NewDetectionService(engine))
	tree.AddStreamService(services.NewWebSocketHubService(hub))
	tree.AddAPIService(services.NewHTTPServerService(server, cfg.Server.ShutdownTimeout))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if err := tree.Serve(ctx); err != nil && !errors.Is(err, context.Canceled) {
	    return err
	}

Services live in the services subpackage.
*/
package supervisor
