package types

import "time"

// RunRecord is the durable artifact of one summarization run; regeneration
// works from it instead of the live tree.
type RunRecord struct {
	ID        string    `json:"id"`
	Root      string    `json:"root"`
	Ignore    []string  `json:"ignore,omitempty"`
	Model     string    `json:"model,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	Report    Report    `json:"report"`
}

// Entry returns the context entry stored for path.
func (r RunRecord) Entry(path string) (ContextEntry, bool) {
	for _, e := range r.Report.Context {
		if e.Path == path {
			return e, true
		}
	}
	return ContextEntry{}, false
}
