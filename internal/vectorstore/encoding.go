package vectorstore

import (
	"encoding/binary"
	"encoding/json"
	"math"
)

// serializeEmbedding and deserializeEmbedding are taken directly from the
// teacher's internal/storage/chunk_writer.go / chunk_reader.go: float32
// little-endian encoding, 4 bytes per dimension.
func serializeEmbedding(emb []float32) []byte {
	b := make([]byte, len(emb)*4)
	for i, f := range emb {
		binary.LittleEndian.PutUint32(b[i*4:], math.Float32bits(f))
	}
	return b
}

func deserializeEmbedding(b []byte) []float32 {
	if len(b)%4 != 0 {
		return nil
	}
	out := make([]float32, len(b)/4)
	for i := range out {
		out[i] = math.Float32frombits(binary.LittleEndian.Uint32(b[i*4:]))
	}
	return out
}

func marshalMetadata(m map[string]string) string {
	if len(m) == 0 {
		return "{}"
	}
	b, err := json.Marshal(m)
	if err != nil {
		return "{}"
	}
	return string(b)
}

func unmarshalMetadata(s string) map[string]string {
	if s == "" {
		return map[string]string{}
	}
	var m map[string]string
	if err := json.Unmarshal([]byte(s), &m); err != nil {
		return map[string]string{}
	}
	return m
}

// normalize returns an L2-normalized copy of an embedding, grounded on
// Aman-CERP-amanmcp's internal/embed/ollama.go normalizeVector: the store
// normalizes on write so every stored embedding is unit-length regardless
// of whether the originating provider already normalized it.
func normalize(v []float32) []float32 {
	var sumSq float64
	for _, x := range v {
		sumSq += float64(x) * float64(x)
	}
	if sumSq == 0 {
		return v
	}
	norm := float32(math.Sqrt(sumSq))
	out := make([]float32, len(v))
	for i, x := range v {
		out[i] = x / norm
	}
	return out
}

// cosineSimilarity assumes both vectors are already normalized (callers in
// this package always normalize before storing or comparing), so it
// collapses to a dot product.
func cosineSimilarity(a, b []float32) float64 {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	var dot float64
	for i := 0; i < n; i++ {
		dot += float64(a[i]) * float64(b[i])
	}
	return dot
}
