package pipeline

// Step names reported through ProgressCallback.
const (
	StepResolve   = "resolve"
	StepClassify  = "classify"
	StepFetch     = "fetch"
	StepNormalize = "normalize"
)

// ProgressEvent represents a progress update during a lookup
type ProgressEvent struct {
	Step     string `json:"step"`
	Message  string `json:"message"`
	LookupID string `json:"lookup_id,omitempty"`
	Query    string `json:"query,omitempty"`
	Content  any    `json:"content,omitempty"`
}

// ProgressCallback is called when lookup progress occurs. During a batch it
// may be called from several goroutines at once.
type ProgressCallback func(event ProgressEvent)

// emitProgress calls the progress callback if configured
func (c *Client) emitProgress(step, lookupID, query, message string, content any) {
	if c.opts.OnProgress != nil {
		c.opts.OnProgress(ProgressEvent{
			Step:     step,
			Message:  message,
			LookupID: lookupID,
			Query:    query,
			Content:  content,
		})
	}
}
