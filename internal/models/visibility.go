package models

import "time"

// DefaultVisibilityGrace is how long a job stays listed after its deadline
const DefaultVisibilityGrace = 4 * 24 * time.Hour

// VisibilityPolicy decides whether a job is publicly listed at a given time.
// A job is listed while its owner keeps it visible and its deadline is no
// older than the grace window.
type VisibilityPolicy struct {
	Grace time.Duration
}

// NewVisibilityPolicy returns a policy with the given grace window
func NewVisibilityPolicy(grace time.Duration) VisibilityPolicy {
	return VisibilityPolicy{Grace: grace}
}

// Threshold is the oldest deadline still listed at now
func (p VisibilityPolicy) Threshold(now time.Time) time.Time {
	return now.Add(-p.Grace)
}

// IsExpired reports whether a deadline is past the grace window.
// A deadline exactly at the threshold is not expired.
func (p VisibilityPolicy) IsExpired(deadline, now time.Time) bool {
	if deadline.IsZero() {
		return false
	}
	return deadline.Before(p.Threshold(now))
}

// IsListed reports whether the job is publicly visible at now
func (p VisibilityPolicy) IsListed(job *Job, now time.Time) bool {
	return job.Visible && !p.IsExpired(job.DeadlineDate, now)
}

// Apply replaces the stored flag with the effective visibility
func (p VisibilityPolicy) Apply(job *Job, now time.Time) {
	job.Visible = p.IsListed(job, now)
}
