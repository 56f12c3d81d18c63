package ledger

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
)

// GenesisHash is the defined predecessor hash of entry 0.
const GenesisHash = "genesis"

// #region canonical

// canonicalData round-trips a payload through a generic JSON tree so map
// keys come out sorted and the stored bytes equal the hashed bytes.
func canonicalData(raw json.RawMessage) (json.RawMessage, error) {
	var tree any
	if err := json.Unmarshal(raw, &tree); err != nil {
		return nil, fmt.Errorf("decode data payload: %w", err)
	}
	out, err := json.Marshal(tree)
	if err != nil {
		return nil, fmt.Errorf("encode data payload: %w", err)
	}
	return out, nil
}

// #endregion canonical

// #region entry-hash

// entryHash computes the chain hash for e: SHA-256 over the canonical
// JSON encoding of the entry (entry_hash blanked, previous_hash included)
// concatenated with the predecessor hash, hex encoded.
func entryHash(e Entry) string {
	e.EntryHash = ""
	payload, err := json.Marshal(e)
	if err != nil {
		// Entries built by Record always encode. A non-encodable entry can
		// only come from hand-built input, and an empty hash never matches
		// a stored one.
		return ""
	}
	sum := sha256.Sum256(append(payload, []byte(e.PrevHash)...))
	return hex.EncodeToString(sum[:])
}

// #endregion entry-hash
