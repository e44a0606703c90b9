/*
Package runner executes batches of simulated sessions.

Sessions run one after another. Each job is built only once its session ID
has been claimed, so the policies it carries start fresh. With a
DistributedLocker configured, several runners can share one batch: a
session already claimed by another host waits for its lock, and a session
whose report is already in the store is skipped.

# Usage

	r := runner.New(
		runner.WithStore(store),
		runner.WithLocker(locker),
		runner.WithLogger(logger),
	)

	summary, err := r.Run(ctx, jobs)
*/
package runner
