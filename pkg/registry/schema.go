// pkg/registry/schema.go
package registry

// ActivityRegistry documents the job workers a process model may reference.
type ActivityRegistry struct {
	Version     string     `json:"version"`
	LastUpdated string     `json:"lastUpdated"`
	Activities  []Activity `json:"activities"`
}

// Activity describes one task type: the variables it reads and writes and
// the error codes a failed job can carry.
type Activity struct {
	ID              string   `json:"id"`
	DisplayName     string   `json:"displayName"`
	Description     string   `json:"description"`
	TaskType        string   `json:"taskType"`
	Operation       string   `json:"operation"`
	InputVariables  []string `json:"inputVariables"`
	OutputVariables []string `json:"outputVariables"`
	ErrorCodes      []string `json:"errorCodes"`
	Timeout         string   `json:"timeout"`
	Retries         int      `json:"retries"`
	Tags            []string `json:"tags,omitempty"`
}
