package dto

// AggregateRequest describes one aggregation run. The CLI fills it from
// arguments, the scheduler and trigger endpoint from configuration.
type AggregateRequest struct {
	Pattern        string
	OutputTemplate string
	Scope          string
	Force          bool
	BuildIndex     bool
	Cleanup        bool
}
