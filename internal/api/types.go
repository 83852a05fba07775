package api

// SummarizeRequest is the POST /summarize body. Omitted fields take the
// configured defaults.
type SummarizeRequest struct {
	Text            string   `json:"text"`
	CompressionRate *float64 `json:"compression_rate,omitempty"`
	EmbeddingType   string   `json:"embedding_type,omitempty"`
}

type HealthResponse struct {
	Embeddings       []string `json:"embeddings"`
	DefaultEmbedding string   `json:"default_embedding"`
}
