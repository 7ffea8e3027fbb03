package utils

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
)

// HashHeader carries the hex HMAC-SHA256 of a request or response body.
const HashHeader = "HashSHA256"

// HashString computes an HMAC-SHA256 signature over data with hashKey and
// returns it hex-encoded.
//
//	signature := utils.HashString(`["What is Go?"]`, "my-secret-key")
func HashString(data string, hashKey string) string {
	return HashBytes([]byte(data), hashKey)
}

// HashBytes is HashString for a byte slice.
func HashBytes(data []byte, hashKey string) string {
	return hex.EncodeToString(hashBytes(data, hashKey))
}

// VerifyHash reports whether hexDigest is the HMAC-SHA256 of data. The
// comparison is constant-time.
func VerifyHash(data []byte, hashKey, hexDigest string) bool {
	digest, err := hex.DecodeString(hexDigest)
	if err != nil {
		return false
	}
	return hmac.Equal(digest, hashBytes(data, hashKey))
}

func hashBytes(data []byte, hashKey string) []byte {
	hasher := hmac.New(sha256.New, []byte(hashKey))
	hasher.Write(data)
	return hasher.Sum(nil)
}
