package types

// Summary is rendered markdown ready for display; Length is one of
// short, medium, long.
type Summary struct {
	Topic     string `json:"topic"`
	Length    string `json:"length"`
	SummaryMD string `json:"summary_md"`
}
