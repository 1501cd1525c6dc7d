package service

import (
	"math"
	"sort"

	"github.com/bitfantasy/procure/internal/procurement/entity"
)

// 纯函数报价分析：无副作用，可被任意数量的并发读方调用。

// CompliantQuotes 过滤技术合规报价，保持输入顺序
func CompliantQuotes(quotes []entity.Quote) []entity.Quote {
	var out []entity.Quote
	for _, q := range quotes {
		if q.TechnicalCompliance {
			out = append(out, q)
		}
	}
	return out
}

// BestCompliantQuote 合规报价中的最低价，同价取先录入者。
// 无合规报价时返回nil，调用方必须区分"无合规报价"与"报价偏贵"。
func BestCompliantQuote(quotes []entity.Quote) *entity.Quote {
	var best *entity.Quote
	for i := range quotes {
		q := &quotes[i]
		if !q.TechnicalCompliance {
			continue
		}
		if best == nil || q.Price < best.Price {
			best = q
		}
	}
	return best
}

// PackageComplianceRate 合规报价占比（百分比），空集合为0
func PackageComplianceRate(quotes []entity.Quote) float64 {
	if len(quotes) == 0 {
		return 0
	}
	compliant := 0
	for _, q := range quotes {
		if q.TechnicalCompliance {
			compliant++
		}
	}
	return float64(compliant) / float64(len(quotes)) * 100
}

// SupplierRollupResult 单一供应商在采购包内的汇总
type SupplierRollupResult struct {
	SupplierID            string  `json:"supplier_id"`
	QuotedItemCount       int     `json:"quoted_item_count"`
	CompliantItemCount    int     `json:"compliant_item_count"`
	TotalValue            float64 `json:"total_value"`
	Currency              string  `json:"currency"`
	AvgDeliveryDays       float64 `json:"avg_delivery_days"`
	ComplianceRatePercent float64 `json:"compliance_rate_percent"`
}

// SupplierRollup 按供应商汇总采购包内的报价情况。
// 金额与交期只统计合规报价；非合规报价计入已报价行项数。
// 合规报价跨币种时返回MixedCurrencyError，不做静默求和。
func SupplierRollup(items []entity.Item, quotesByItem map[string][]entity.Quote, supplierID string) (*SupplierRollupResult, error) {
	result := &SupplierRollupResult{SupplierID: supplierID}

	var deliveryDaysSum int
	var compliantQuoteCount int
	currencies := map[string]bool{}

	for _, item := range items {
		for _, q := range quotesByItem[item.ID] {
			if q.SupplierID != supplierID {
				continue
			}
			result.QuotedItemCount++
			if !q.TechnicalCompliance {
				continue
			}
			result.CompliantItemCount++
			compliantQuoteCount++
			result.TotalValue += q.Price * item.Quantity
			deliveryDaysSum += q.DeliveryDays
			currencies[q.Currency] = true
		}
	}

	if len(currencies) > 1 {
		return nil, &MixedCurrencyError{Currencies: sortedKeys(currencies)}
	}
	for c := range currencies {
		result.Currency = c
	}

	if compliantQuoteCount > 0 {
		result.AvgDeliveryDays = float64(deliveryDaysSum) / float64(compliantQuoteCount)
	}
	if result.QuotedItemCount > 0 {
		result.ComplianceRatePercent = math.Round(float64(result.CompliantItemCount)/float64(result.QuotedItemCount)*100*100) / 100
	}

	return result, nil
}

// GroupQuotesByItem 报价按行项分组，保持录入顺序
func GroupQuotesByItem(quotes []entity.Quote) map[string][]entity.Quote {
	grouped := make(map[string][]entity.Quote)
	for _, q := range quotes {
		grouped[q.ItemID] = append(grouped[q.ItemID], q)
	}
	return grouped
}

// singleCurrency 校验报价集合币种一致，返回该币种
func singleCurrency(quotes []*entity.Quote) (string, error) {
	currencies := map[string]bool{}
	for _, q := range quotes {
		currencies[q.Currency] = true
	}
	if len(currencies) > 1 {
		return "", &MixedCurrencyError{Currencies: sortedKeys(currencies)}
	}
	for c := range currencies {
		return c, nil
	}
	return "", nil
}

func sortedKeys(m map[string]bool) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
