// Package shutdown coordinates graceful process teardown: it waits for a
// termination signal (or a programmatic trigger), then runs registered
// hooks in reverse order under a deadline.
package shutdown
