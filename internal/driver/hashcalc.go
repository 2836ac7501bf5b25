package driver

import (
	"crypto/sha256"
	"encoding/binary"
)

// combineDigest: H(content || dep1 || dep2 ...). Порядок входов значим.
func combineDigest(content Digest, parts ...[]byte) Digest {
	h := sha256.New()
	_, _ = h.Write(content[:])
	for _, p := range parts {
		_, _ = h.Write(p)
	}
	var out Digest
	copy(out[:], h.Sum(nil))
	return out
}

// cacheKey binds a content hash to everything that changes the diagnostics
// computed from it.
func cacheKey(content Digest, opts *Options) Digest {
	var flags byte
	if opts.Strict {
		flags |= 1
	}
	if opts.CamelCase {
		flags |= 2
	}
	schema := binary.BigEndian.AppendUint16(nil, diskCacheSchemaVersion)
	return combineDigest(content, schema, []byte{flags})
}
