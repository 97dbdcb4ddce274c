// Package accesscode 生成签到用的短访问码。
//
// 访问码不保证全局唯一，唯一性由 events.access_code 唯一索引在插入时保证。
package accesscode

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"strings"
)

// Length 访问码长度
const Length = 6

// Alphabet 访问码字符集（大写字母 + 数字）
const Alphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// Generate 生成一个随机访问码
func Generate() (string, error) {
	var sb strings.Builder
	sb.Grow(Length)
	max := big.NewInt(int64(len(Alphabet)))
	for i := 0; i < Length; i++ {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", fmt.Errorf("生成访问码失败: %w", err)
		}
		sb.WriteByte(Alphabet[n.Int64()])
	}
	return sb.String(), nil
}

// Normalize 规范化用户输入的访问码（去空白、转大写）
func Normalize(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// Valid 判断字符串是否符合访问码格式
func Valid(code string) bool {
	if len(code) != Length {
		return false
	}
	for i := 0; i < len(code); i++ {
		if strings.IndexByte(Alphabet, code[i]) < 0 {
			return false
		}
	}
	return true
}
