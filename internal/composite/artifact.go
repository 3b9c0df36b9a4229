package composite

import (
	"encoding/base64"
	"fmt"
	"strings"
)

// Artifact is an encoded raster ready for transport.
type Artifact struct {
	MIME string
	Data []byte
}

// DataURI encodes the artifact as a base64 data URI.
func (a *Artifact) DataURI() string {
	if a == nil {
		return ""
	}
	return "data:" + a.MIME + ";base64," + base64.StdEncoding.EncodeToString(a.Data)
}

// ParseDataURI decodes a base64 data URI produced by DataURI.
func ParseDataURI(uri string) (*Artifact, error) {
	rest, ok := strings.CutPrefix(uri, "data:")
	if !ok {
		return nil, fmt.Errorf("not a data URI")
	}
	meta, payload, ok := strings.Cut(rest, ",")
	if !ok {
		return nil, fmt.Errorf("data URI has no payload")
	}
	mime, ok := strings.CutSuffix(meta, ";base64")
	if !ok {
		return nil, fmt.Errorf("data URI is not base64 encoded")
	}
	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to decode data URI: %w", err)
	}
	return &Artifact{MIME: mime, Data: data}, nil
}
