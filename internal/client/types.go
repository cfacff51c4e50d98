package client

// Request/response shapes shared by the API server and the CLI client.

type RegisterFunctionRequest struct {
	Name    string `json:"name"`
	Image   string `json:"image"`
	Command string `json:"command"`
	// Optional static warming applied right after registration:
	// "pre-warmed" or "warmed".
	Warming string `json:"warming,omitempty"`
}

type RegisterNodeRequest struct {
	Name     string `json:"name"`
	Host     string `json:"host"`
	Port     int    `json:"port"`
	Username string `json:"username"`
	Password string `json:"password"`
}

type WarmingRequest struct {
	Function string `json:"function"`
	Node     string `json:"node"`
}

type InvocationResult struct {
	Node            string  `json:"node"`
	ExecutionMode   string  `json:"execution_mode"`
	DurationSeconds float64 `json:"duration_seconds"`
	Output          string  `json:"output"`
}

type StatusResponse struct {
	Functions int    `json:"functions"`
	Nodes     int    `json:"nodes"`
	Records   int    `json:"records"`
	Policy    string `json:"policy"`
}
