// Package docid derives stable chunk and document identifiers.
package docid

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"path/filepath"
)

// hashLen is the number of hex characters kept from the document hash.
// 48 bits is plenty for collision resistance at tens of documents per tenant.
const hashLen = 12

// DocHash returns a deterministic short hash for a document, derived from the
// tenant, source filename, and title. Same inputs always yield the same hash.
func DocHash(tenantID, sourceFile, title string) string {
	h := sha256.New()
	// NUL separators keep ("a","bc") and ("ab","c") distinct.
	h.Write([]byte(tenantID))
	h.Write([]byte{0})
	h.Write([]byte(filepath.Base(sourceFile)))
	h.Write([]byte{0})
	h.Write([]byte(title))
	return hex.EncodeToString(h.Sum(nil))[:hashLen]
}

// ChunkID returns the identifier of the chunk at position idx within its
// document: "<docHash>#<idx>".
func ChunkID(docHash string, idx int) string {
	return fmt.Sprintf("%s#%d", docHash, idx)
}

// DocID returns the document identifier "<tenant>:<base filename>".
func DocID(tenantID, sourceFile string) string {
	return tenantID + ":" + filepath.Base(sourceFile)
}
