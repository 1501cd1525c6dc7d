package service

import (
	"fmt"
	"strings"
)

// ValidationError 必填字段缺失或取值非法，调用方应重新提交
type ValidationError struct {
	Fields []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed: %s", strings.Join(e.Fields, ", "))
}

// IneligibleItemError 行项未通过BOD审批+技术合规联合校验，不可下单
type IneligibleItemError struct {
	ItemID string
}

func (e *IneligibleItemError) Error() string {
	return fmt.Sprintf("item %s is not eligible for purchase order", e.ItemID)
}

// TransitionError 状态机不允许的流转
type TransitionError struct {
	From string
	To   string
}

func (e *TransitionError) Error() string {
	return fmt.Sprintf("状态不允许从 %s 流转到 %s", e.From, e.To)
}

// MixedCurrencyError 跨币种聚合，属上游数据完整性问题，不做静默换算
type MixedCurrencyError struct {
	Currencies []string
}

func (e *MixedCurrencyError) Error() string {
	return fmt.Sprintf("mixed currencies in aggregation: %s", strings.Join(e.Currencies, ", "))
}
