package types

// ModelsResponse wraps the list of models returned by GET /models.
type ModelsResponse struct {
	// Loaded style variants in load order.
	Models []Model `json:"models"`
}

// ErrorResponse is a consistent JSON error payload.
type ErrorResponse struct {
	// Error message.
	// example: unknown model "not_a_real_model"; valid models: mosaic, candy, rain_princess, udnie
	Error string `json:"error" example:"unknown model \"not_a_real_model\"; valid models: mosaic, candy, rain_princess, udnie"`
	// HTTP status code.
	// example: 400
	Code int `json:"code" example:"400"`
}

// ModelStatus summarizes one loaded variant for /status.
type ModelStatus struct {
	// Wire name of the variant.
	// example: candy
	ModelID string `json:"model_id" example:"candy"`
	// Requests that reached inference for this variant.
	// example: 42
	Requests uint64 `json:"requests" example:"42"`
	// Requests for this variant that failed after model resolution.
	// example: 1
	Failures uint64 `json:"failures" example:"1"`
	// Last time this variant served a request (unix seconds, 0 if never).
	// example: 1700000000
	LastUsed int64 `json:"last_used_unix" example:"1700000000"`
}

// StatusResponse is returned by GET /status.
type StatusResponse struct {
	// Overall service state (ready once every variant is loaded).
	// example: ready
	State string `json:"state" example:"ready"`
	// Per-variant counters.
	Models []ModelStatus `json:"models"`
	// Variant used when a request omits the model.
	// example: mosaic
	DefaultModel string `json:"default_model" example:"mosaic"`
	// Forward passes currently running.
	// example: 1
	Inflight int `json:"inflight" example:"1"`
	// Maximum concurrent forward passes (0 = unlimited).
	// example: 4
	MaxConcurrent int `json:"max_concurrent" example:"4"`
	// Total stylize requests handled.
	// example: 120
	RequestsTotal uint64 `json:"requests_total" example:"120"`
	// Total stylize requests that failed for any reason.
	// example: 3
	FailuresTotal uint64 `json:"failures_total" example:"3"`
	// Total requests rejected because no slot freed up in time.
	// example: 0
	RejectedTotal uint64 `json:"rejected_total" example:"0"`
	// Uptime of the server in seconds.
	// example: 3600
	UptimeSeconds int64 `json:"uptime_seconds" example:"3600"`
	// Server time in unix seconds.
	// example: 1700000000
	ServerTimeUnix int64 `json:"server_time_unix" example:"1700000000"`
}

// Metadata describes the served model family for GET /model/metadata.
type Metadata struct {
	// example: max-fast-neural-style-transfer
	ID string `json:"id" example:"max-fast-neural-style-transfer"`
	// example: MAX Fast Neural Style Transfer
	Name string `json:"name" example:"MAX Fast Neural Style Transfer"`
	// example: Pytorch Neural Style Transfer model trained on COCO 2014
	Description string `json:"description" example:"Pytorch Neural Style Transfer model trained on COCO 2014"`
	// example: Image-To-Image Translation
	Type string `json:"type" example:"Image-To-Image Translation"`
	// example: BSD-3-Clause
	License string `json:"license" example:"BSD-3-Clause"`
	// example: https://developer.ibm.com/exchanges/models/all/max-fast-neural-style-transfer/
	Source string `json:"source" example:"https://developer.ibm.com/exchanges/models/all/max-fast-neural-style-transfer/"`
	// Nominal input size the networks were trained at. Inputs are not resized to it.
	// example: [256,256]
	InputSize [2]int `json:"input_size" example:"256,256"`
	// Names accepted in the `model` field.
	Models []string `json:"models"`
	// example: mosaic
	DefaultModel string `json:"default_model" example:"mosaic"`
}
