package constants

import "time"

// DefaultPollInterval is the interval between state checks while waiting for convergence.
const DefaultPollInterval = 5 * time.Second

// DefaultInstanceRunningTimeout bounds the wait for a launched instance to reach running.
const DefaultInstanceRunningTimeout = 5 * time.Minute

// DefaultInstanceTerminatedTimeout bounds the wait for an instance to be fully terminated.
const DefaultInstanceTerminatedTimeout = 10 * time.Minute

// DefaultIdentitySettleDelay is how long to wait after creating an IAM role before using it.
// IAM is eventually consistent and the function service rejects roles it cannot see yet.
const DefaultIdentitySettleDelay = 10 * time.Second

// DefaultCommandTimeout is the default timeout for a whole CLI command.
const DefaultCommandTimeout = 30 * time.Minute

// SecondsPerMinute is the number of seconds in a minute.
const SecondsPerMinute = 60

// MinutesPerHour is the number of minutes in an hour.
const MinutesPerHour = 60
