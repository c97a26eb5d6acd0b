/*
Package bench load-tests a single Sihui endpoint through the authenticated client.

# Overview

A run sends Config.Requests calls with Config.Concurrency workers. Requests can be
spread over a ramp-up window and the whole run can be capped by a duration.

Calls go through client.Client, so the bearer token, rate limit and prometheus
collectors apply exactly as for regular commands. Nothing is retried.

# Measurement

Stats are built from the exchanges the client reports, not from worker timers.
Register the Collector as a client.Recorder on the client passed to the Runner:

	collector := bench.NewCollector()
	c, _ := client.New(client.Config{BaseURL: url, Recorders: []client.Recorder{collector}})
	runner, _ := bench.NewRunner(c, collector, cfg)
	report, err := runner.Run(ctx)

Each exchange lands in one of three buckets:
  - succeeded: 2xx status
  - rejected: any other status
  - failed: no response (connection error, timeout, cancellation)

# Persistence

Store keeps one row per finished run in the bench_runs table of the request log
database (see internal/migrations).
*/
package bench
