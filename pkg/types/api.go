package types

// StatusResponse is returned by GET /status.
type StatusResponse struct {
	// Active and recently finished progress runs.
	Runs []ProgressStatus `json:"runs"`
	// Number of runs still draining.
	// example: 1
	ActiveRuns int `json:"active_runs" example:"1"`
	// Uptime of the server in seconds.
	// example: 3600
	UptimeSeconds int64 `json:"uptime_seconds" example:"3600"`
	// Server time in unix seconds.
	// example: 1700000000
	ServerTimeUnix int64 `json:"server_time_unix" example:"1700000000"`
}

// PriorsResponse wraps the list of priors returned by GET /priors.
type PriorsResponse struct {
	Priors []PriorInfo `json:"priors"`
}

// TransformRequest is the body of POST /priors/{name}/transform.
type TransformRequest struct {
	// Unit-cube values, flattened in row-major order.
	// example: [0.1,0.5,0.9]
	U []float64 `json:"u" example:"[0.1,0.5,0.9]"`
	// Shape of U; omitted means a flat vector.
	// example: [3]
	Shape []int `json:"shape,omitempty" example:"[3]"`
}

// TransformResponse carries the transformed values.
type TransformResponse struct {
	// Prior name the values were transformed by.
	// example: theta
	Name string `json:"name" example:"theta"`
	// Transformed values, flattened in row-major order.
	// example: [1.0,5.0,9.0]
	X []float64 `json:"x" example:"[1.0,5.0,9.0]"`
	// Shape of X.
	// example: [3]
	Shape []int `json:"shape" example:"[3]"`
}

// ErrorResponse is a consistent JSON error payload.
type ErrorResponse struct {
	// Error message.
	// example: invalid JSON body
	Error string `json:"error" example:"invalid JSON body"`
	// HTTP status code.
	// example: 400
	Code int `json:"code" example:"400"`
}
