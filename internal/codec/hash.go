package codec

import (
	"crypto/sha256"
	"encoding/hex"

	"github.com/hgir-dev/hgir/internal/graph"
)

// DomainModule is the domain prefix for module content identity. The
// version suffix leaves room for algorithm migration.
const DomainModule = "hgir/module/v1"

// hashWithDomain computes SHA256(domain + 0x00 + data). The null separator
// prevents domain/data boundary ambiguity.
func hashWithDomain(domain string, data []byte) string {
	h := sha256.New()
	h.Write([]byte(domain))
	h.Write([]byte{0x00})
	h.Write(data)
	return hex.EncodeToString(h.Sum(nil))
}

// ModuleHash computes the content-addressed identity of a module: the
// domain-separated SHA-256 of its canonical envelope. Two modules that
// encode identically hash identically, regardless of construction order.
func ModuleHash(g *graph.Graph) (string, error) {
	data, err := EncodeJSON(g)
	if err != nil {
		return "", err
	}
	canonical, err := Canonicalize(data)
	if err != nil {
		return "", err
	}
	return hashWithDomain(DomainModule, canonical), nil
}

// EnvelopeHash computes the identity of an already serialized envelope.
// Decode-free, so archives can verify stored payloads cheaply.
func EnvelopeHash(data []byte) (string, error) {
	canonical, err := Canonicalize(data)
	if err != nil {
		return "", err
	}
	return hashWithDomain(DomainModule, canonical), nil
}
