package methods

import (
	"crypto/md5"
	"encoding/hex"
)

// Md5Bytes 内容哈希，用于识别重复上传
func Md5Bytes(data []byte) string {
	hash := md5.Sum(data)
	return hex.EncodeToString(hash[:])
}
