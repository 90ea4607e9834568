package types

// Model describes one style variant and the weight file backing it.
type Model struct {
	// Wire name of the style, as accepted in the `model` form field.
	// example: mosaic
	ID string `json:"id" example:"mosaic"`
	// Human-friendly name.
	// example: Mosaic
	Name string `json:"name" example:"Mosaic"`
	// Absolute path to the weight file on disk.
	// example: /srv/stylerd/assets/mosaic.onnx
	Path string `json:"path" example:"/srv/stylerd/assets/mosaic.onnx"`
	// Size of the weight file in bytes.
	// example: 6728531
	SizeBytes int64 `json:"size_bytes" example:"6728531"`
	// True for the variant used when a request omits the model.
	// example: true
	Default bool `json:"default,omitempty" example:"true"`
}
