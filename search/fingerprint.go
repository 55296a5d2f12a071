package search

import (
	"crypto/sha256"
	"encoding/hex"
	"strconv"

	"github.com/jonwraymond/apidocs/index"
)

// computeFingerprint hashes the document slice. It changes whenever any
// document's content or the slice order changes.
func computeFingerprint(docs []index.SearchDoc) string {
	h := sha256.New()

	for _, doc := range docs {
		for _, part := range []string{
			doc.ID,
			doc.DocText,
			doc.Summary.ID,
			doc.Summary.Name,
			doc.Summary.Namespace,
			doc.Summary.ShortDescription,
			strconv.FormatBool(doc.Summary.Deprecated),
		} {
			h.Write([]byte(part))
			h.Write([]byte{0})
		}
	}

	return hex.EncodeToString(h.Sum(nil))
}
