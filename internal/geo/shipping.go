package geo

import "github.com/shopspring/decimal"

// ShippingMethod identifies a delivery tier.
type ShippingMethod string

// Supported shipping methods.
const (
	ShippingStandard ShippingMethod = "standard"
	ShippingExpress  ShippingMethod = "express"
	ShippingEconomy  ShippingMethod = "economy"
)

// MethodInfo describes a shipping method for display.
type MethodInfo struct {
	Method        ShippingMethod
	EstimatedDays string
}

// Methods returns the selectable shipping methods with their delivery
// windows.
func Methods() []MethodInfo {
	return []MethodInfo{
		{Method: ShippingStandard, EstimatedDays: "3-5"},
		{Method: ShippingExpress, EstimatedDays: "1-2"},
		{Method: ShippingEconomy, EstimatedDays: "5-7"},
	}
}

// Base fees per method, in VND. The multipliers the UI promises
// (express ≈ 1.67× standard, economy ≈ 0.67×) fall out of this table.
var baseFees = map[ShippingMethod]int64{
	ShippingStandard: 30000,
	ShippingExpress:  50000,
	ShippingEconomy:  20000,
}

// Major cities ship at a discount.
var majorCities = map[string]bool{
	"Thành phố Hà Nội":      true,
	"Thành phố Hồ Chí Minh": true,
	"Thành phố Đà Nẵng":     true,
	"Thành phố Hải Phòng":   true,
	"Thành phố Cần Thơ":     true,
}

// Remote provinces carry a surcharge.
var remoteProvinces = map[string]bool{
	"Tỉnh Cao Bằng":     true,
	"Tỉnh Hà Giang":     true,
	"Tỉnh Lai Châu":     true,
	"Tỉnh Lào Cai":      true,
	"Tỉnh Điện Biên":    true,
	"Tỉnh Sơn La":       true,
	"Tỉnh Yên Bái":      true,
	"Tỉnh Tuyên Quang":  true,
	"Tỉnh Bắc Kạn":      true,
	"Tỉnh Thái Nguyên":  true,
	"Tỉnh Lạng Sơn":     true,
	"Tỉnh Quảng Ninh":   true,
	"Tỉnh Bắc Giang":    true,
	"Tỉnh Phú Thọ":      true,
	"Tỉnh Vĩnh Phúc":    true,
	"Tỉnh Bắc Ninh":     true,
	"Tỉnh Hải Dương":    true,
	"Tỉnh Hưng Yên":     true,
	"Tỉnh Thái Bình":    true,
	"Tỉnh Hà Nam":       true,
	"Tỉnh Nam Định":     true,
	"Tỉnh Ninh Bình":    true,
}

// ShippingFee computes the fee for a province and method: base fee times a
// location multiplier (0.8 for major cities, 1.5 for remote provinces),
// rounded to whole VND. An empty province yields the plain base fee, which
// is the fallback before a province is chosen. Recompute whenever the
// province or method changes.
func ShippingFee(province string, method ShippingMethod) decimal.Decimal {
	base, ok := baseFees[method]
	if !ok {
		base = baseFees[ShippingStandard]
	}
	fee := decimal.NewFromInt(base)

	switch {
	case province == "":
		return fee
	case majorCities[province]:
		return fee.Mul(decimal.NewFromFloat(0.8)).Round(0)
	case remoteProvinces[province]:
		return fee.Mul(decimal.NewFromFloat(1.5)).Round(0)
	default:
		return fee
	}
}
