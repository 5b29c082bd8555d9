package money

import "github.com/shopspring/decimal"

// Tolerance 金额比较容差：一个最小货币单位
var Tolerance = decimal.New(1, -2)

var hundred = decimal.NewFromInt(100)

// Equal 两个金额相差不超过一个最小货币单位即视为相等 (网关返回值可能有浮点误差)
func Equal(a, b decimal.Decimal) bool {
	return a.Sub(b).Abs().LessThanOrEqual(Tolerance)
}

// ToMinor 主单位转最小单位 (卢比 -> 派士)，四舍五入
func ToMinor(amount decimal.Decimal) int64 {
	return amount.Mul(hundred).Round(0).IntPart()
}

// FromMinor 最小单位转主单位
func FromMinor(minor int64) decimal.Decimal {
	return decimal.New(minor, -2)
}
