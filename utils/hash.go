package utils

import (
	"crypto/md5"
	"encoding/hex"
	"strings"
)

// MD5Hex returns the hex encoded md5 digest of s
func MD5Hex(s string) string {
	sum := md5.Sum([]byte(s))
	return hex.EncodeToString(sum[:])
}

// GenerateMD5Hash hashes the concatenation of parts, e.g. a namespace followed by a key
func GenerateMD5Hash(parts ...string) string {
	return MD5Hex(strings.Join(parts, ""))
}
