package badger

import "encoding/binary"

// Key prefixes for different data types
const (
	documentPrefix = "docrec"
	corpusMetaKey  = "corpmeta:current"
)

// makeGenerationPrefix generates the prefix shared by all documents of a generation.
// Format: prefix:generation
func makeGenerationPrefix(generation uint64) []byte {
	prefix := documentPrefix + ":"
	buf := make([]byte, len(prefix)+8)
	offset := copy(buf, prefix)
	// Write in BigEndian order so lexicographic sort works correctly
	binary.BigEndian.PutUint64(buf[offset:], generation)
	return buf
}

// makeDocumentKey generates a key for the document at position index.
// Format: prefix:generation:index
func makeDocumentKey(generation uint64, index int) []byte {
	prefix := makeGenerationPrefix(generation)
	buf := make([]byte, len(prefix)+8)
	offset := copy(buf, prefix)
	binary.BigEndian.PutUint64(buf[offset:], uint64(index))
	return buf
}
