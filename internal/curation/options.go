package curation

import jsoniter "github.com/json-iterator/go"

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// NormalizationOptions selects text-normalization passes applied server-side.
type NormalizationOptions struct {
	Quotations bool `json:"quotations"`
	Dashes     bool `json:"dashes"`
}

// ChunkingOptions controls content chunking. ChunkSize is documented by the
// service as 100-5000; the client passes whatever the caller supplied without
// clamping, leaving range enforcement to the service.
type ChunkingOptions struct {
	Enabled   bool `json:"enabled"`
	ChunkSize int  `json:"chunk_size,omitempty"`
}

// ProcessingOptions is the presign request body. Pure value object: no
// identity, no lifecycle beyond the presign call.
type ProcessingOptions struct {
	Normalization NormalizationOptions `json:"normalization"`
	Chunking      ChunkingOptions      `json:"chunking"`
	Embedding     bool                 `json:"embedding"`
	JSONSchema    bool                 `json:"json_schema"`
}

// Payload serializes the options to the presign request body.
func (po *ProcessingOptions) Payload() ([]byte, error) {
	return json.Marshal(po)
}
