package curation

// Credentials holds the client-credentials pair used for the token grant.
// Immutable for the lifetime of the process.
type Credentials struct {
	ClientID     string
	ClientSecret string
}

// Session holds the current bearer token and the authority that issued it.
// It is owned by a single orchestrator instance and passed by pointer into
// each stage; only the authenticator writes to it.
type Session struct {
	Token        string
	AuthEndpoint string
}

// Job describes one unit of submitted work. It is created by the presigner
// and never mutated afterwards; the upload, poll, and fetch stages only read
// from it. The put and get URLs are single-use and time-limited.
type Job struct {
	JobID  string `json:"job_id"`
	PutURL string `json:"put_url"`
	GetURL string `json:"get_url"`
}

// JobStatus is the client-side view of a job's service-reported state. The
// authoritative state lives server-side; this value is a point-in-time
// snapshot that may be stale between polls.
type JobStatus int

const (
	// StatusPending is reported while the service is still working.
	StatusPending JobStatus = iota
	// StatusDone is the only terminal status.
	StatusDone
	// StatusUnknown covers any service-reported value this client does not
	// recognize. Unknown statuses keep the polling loop running so that new
	// service states degrade to "still pending" rather than hard failures.
	StatusUnknown
)

// String returns the string representation of JobStatus.
func (js JobStatus) String() string {
	switch js {
	case StatusPending:
		return "Pending"
	case StatusDone:
		return "Done"
	default:
		return "Unknown"
	}
}

// Terminal reports whether no further status transition can occur.
func (js JobStatus) Terminal() bool {
	return js == StatusDone
}

// ParseStatus maps a raw service-reported status string onto the closed
// JobStatus enum.
func ParseStatus(raw string) JobStatus {
	switch raw {
	case "Done":
		return StatusDone
	case "Processing":
		return StatusPending
	default:
		return StatusUnknown
	}
}
