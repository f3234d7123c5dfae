package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
)

// graphPrefixLen is how much of the graph hash stays readable in a key.
const graphPrefixLen = 12

// graphKey builds "<type>:<graph>:<digest>". graph is the leading part of
// the registry's graph hash, so every entry derived from one registry shares
// a prefix; digest covers the full graph hash and the options.
func graphKey(keyType, graphHash string, opts any) string {
	data, _ := json.Marshal(struct {
		Graph string `json:"graph"`
		Opts  any    `json:"opts"`
	}{graphHash, opts})

	short := graphHash
	if len(short) > graphPrefixLen {
		short = short[:graphPrefixLen]
	}
	return keyType + ":" + short + ":" + Hash(data)
}

// Hash returns the hex SHA-256 of data. Graph hashes and file cache shard
// names are derived with it.
func Hash(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}
