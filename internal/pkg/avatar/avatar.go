package avatar

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"math/big"
	"strings"
)

// randomVariant 生成 [min, max] 范围内补零的变体编号
func randomVariant(min, max int64) string {
	n, err := rand.Int(rand.Reader, big.NewInt(max-min+1))
	if err != nil {
		return fmt.Sprintf("%02d", min)
	}
	return fmt.Sprintf("%02d", min+n.Int64())
}

// URL 根据姓名生成 dicebear 头像地址
func URL(name, lastName string) string {
	brows := "variant" + randomVariant(1, 13)
	glasses := "variant" + randomVariant(0, 100)
	lips := "variant" + randomVariant(1, 30)
	nose := "variant" + randomVariant(1, 20)

	return fmt.Sprintf(
		"https://api.dicebear.com/9.x/notionists-neutral/svg?seed=%s,%s&radius=40&brows=%s&glassesProbability=%s&lips=%s&nose=%s",
		name, lastName, brows, glasses, lips, nose,
	)
}

// Username 根据邮箱生成唯一用户名（邮箱前缀 + 随机后缀）
func Username(email string) string {
	prefix := email
	if i := strings.Index(email, "@"); i > 0 {
		prefix = email[:i]
	}

	suffix := make([]byte, 3)
	if _, err := rand.Read(suffix); err != nil {
		return prefix
	}
	return prefix + "_" + hex.EncodeToString(suffix)[:5]
}
