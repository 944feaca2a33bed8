package types

import "time"

// TestResult is the wire representation of one stored submission.
// Duration is rendered as H:MM:SS, matching what the submitting client
// and the admin pages expect.
type TestResult struct {
	ID               int64             `json:"id"`
	ProjectName      string            `json:"project_name"`
	Name             string            `json:"name"`
	IP               string            `json:"ip"`
	EndTime          time.Time         `json:"end_time"`
	Duration         string            `json:"duration"`
	ResultParameters map[string]string `json:"result_parameters"`
}
