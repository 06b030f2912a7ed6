package utils

import "time"

// GenerateReceipt 以傳入時間產生收據號碼，格式為 YYYYMMDD-HHMMSS（精度到秒）。
// 已知限制：同一秒內兩次進場會產生相同號碼，靠資料表的唯一索引擋下後者
func GenerateReceipt(now time.Time) string {
	return now.Format("20060102-150405")
}
