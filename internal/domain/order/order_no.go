package order

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// GenerateOrderNo 生成订单号
// 格式:ORD-日期-8位随机十六进制,如 ORD-20260901-a1b2c3d4
//
// 设计要点:
// 1. 日期前缀便于人工识别与按天归档
// 2. 随机后缀取自uuid(32位熵),按预期下单速率冲突概率可忽略
// 3. 唯一性最终由orders.order_no唯一索引保证,冲突时换号重试
func GenerateOrderNo() string {
	date := time.Now().Format("20060102")
	suffix := strings.ReplaceAll(uuid.NewString(), "-", "")[:8]
	return fmt.Sprintf("ORD-%s-%s", date, suffix)
}
