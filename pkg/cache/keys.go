package cache

import (
	"crypto/md5"
	"encoding/hex"
	"fmt"
	"strings"
)

const keySep = ":"

// GenerateKey joins prefix and id as "prefix:id".
func GenerateKey(prefix, id string) string {
	return prefix + keySep + id
}

// GenerateKeyWithParams appends every param to prefix, colon separated.
func GenerateKeyWithParams(prefix string, params ...any) string {
	var b strings.Builder
	b.WriteString(prefix)
	for _, p := range params {
		b.WriteString(keySep)
		fmt.Fprint(&b, p)
	}
	return b.String()
}

// HashKey digests an arbitrarily long key component into 32 hex chars.
func HashKey(key string) string {
	sum := md5.Sum([]byte(key))
	return hex.EncodeToString(sum[:])
}

// BuildPattern matches every key under prefix in a SCAN.
func BuildPattern(prefix string) string {
	return prefix + "*"
}
