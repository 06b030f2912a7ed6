package services

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

// 計費參數：前 15 分鐘一價、前 60 分鐘一價，之後每滿（或不滿）15 分鐘加收一段
var (
	feeFirst15Minutes  = decimal.RequireFromString("5.00")
	feeFirst60Minutes  = decimal.RequireFromString("9.25")
	feeAdditional15Min = decimal.RequireFromString("1.75")
	discountPercentage = decimal.RequireFromString("0.30")
)

// ErrInvalidInterval 出場時間早於進場時間，屬於時鐘或程式錯誤
var ErrInvalidInterval = errors.New("departure time cannot be earlier than entry time")

// CalculateCost 依進出場時間計算停車費。以整分鐘計（不足一分鐘捨去），
// 超過一小時的部分每 15 分鐘為一段、不足一段以一段計，
// 金額以 decimal 運算並用四捨六入五成雙取到小數第二位
func CalculateCost(entry, departure time.Time) (decimal.Decimal, error) {
	if departure.Before(entry) {
		return decimal.Zero, ErrInvalidInterval
	}

	minutes := int64(departure.Sub(entry) / time.Minute)

	var total decimal.Decimal
	switch {
	case minutes <= 15:
		total = feeFirst15Minutes
	case minutes <= 60:
		total = feeFirst60Minutes
	default:
		additionalMinutes := minutes - 60
		blocks := (additionalMinutes + 14) / 15
		total = feeFirst60Minutes.Add(feeAdditional15Min.Mul(decimal.NewFromInt(blocks)))
	}

	return total.RoundBank(2), nil
}

// CalculateDiscount 每累積 10 次已完成的停車給一次 30% 折扣。
// completedSessions 是本次出場「之前」已完成的次數，折扣只回傳金額，不從費用扣除
func CalculateDiscount(cost decimal.Decimal, completedSessions int64) decimal.Decimal {
	if completedSessions > 0 && completedSessions%10 == 0 {
		return cost.Mul(discountPercentage).RoundBank(2)
	}
	return decimal.Zero.RoundBank(2)
}
