// Package wizard 提供通用的线性多步表单进度模型：
// 记录步骤序列、当前步索引与字段填写情况，不关心具体控件。
package wizard

import (
	"fmt"
	"math"
	"strings"
)

// Step 向导步骤
type Step struct {
	Name     string   `json:"name"`
	Fields   []string `json:"fields"`
	Required []string `json:"required"`
}

// ValidationError 当前步必填字段缺失
type ValidationError struct {
	Step    string
	Missing []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("step %s: missing required fields: %s", e.Step, strings.Join(e.Missing, ", "))
}

// ValidateFunc 字段校验钩子，返回true表示字段已填写有效
type ValidateFunc func(field, value string) bool

// State 向导状态
type State struct {
	Steps    []Step            `json:"steps"`
	Index    int               `json:"index"` // 0-based
	Values   map[string]string `json:"values"`
	validate ValidateFunc
}

// New 创建向导状态，默认校验为非空
func New(steps []Step) *State {
	return &State{
		Steps:  steps,
		Values: map[string]string{},
		validate: func(_, value string) bool {
			return strings.TrimSpace(value) != ""
		},
	}
}

// SetValidate 替换字段校验钩子
func (s *State) SetValidate(fn ValidateFunc) {
	if fn != nil {
		s.validate = fn
	}
}

// SetField 记录字段值
func (s *State) SetField(name, value string) {
	s.Values[name] = value
}

// Current 当前步骤
func (s *State) Current() Step {
	return s.Steps[s.Index]
}

// missingRequired 当前步缺失的必填字段
func (s *State) missingRequired() []string {
	var missing []string
	for _, f := range s.Current().Required {
		if !s.validate(f, s.Values[f]) {
			missing = append(missing, f)
		}
	}
	return missing
}

// Advance 前进一步。当前步必填字段不满足时返回ValidationError，不前进；
// 已在最后一步时同样失败（没有下一步）。
func (s *State) Advance() error {
	if missing := s.missingRequired(); len(missing) > 0 {
		return &ValidationError{Step: s.Current().Name, Missing: missing}
	}
	if s.Index >= len(s.Steps)-1 {
		return &ValidationError{Step: s.Current().Name, Missing: []string{"(no next step)"}}
	}
	s.Index++
	return nil
}

// Retreat 后退一步，到第0步后不再后退，永不校验
func (s *State) Retreat() {
	if s.Index > 0 {
		s.Index--
	}
}

// CompletionPercent 全部步骤字段的填写进度，四舍五入到整数
func (s *State) CompletionPercent() int {
	total := 0
	filled := 0
	for _, step := range s.Steps {
		for _, f := range step.Fields {
			total++
			if s.validate(f, s.Values[f]) {
				filled++
			}
		}
	}
	if total == 0 {
		return 0
	}
	return int(math.Round(float64(filled) / float64(total) * 100))
}

// Finalize 终结向导：仅当处于最后一步且其必填字段满足时返回已采集的字段，
// 由调用方组装领域对象
func (s *State) Finalize() (map[string]string, error) {
	if s.Index != len(s.Steps)-1 {
		return nil, &ValidationError{Step: s.Current().Name, Missing: []string{"(not on final step)"}}
	}
	if missing := s.missingRequired(); len(missing) > 0 {
		return nil, &ValidationError{Step: s.Current().Name, Missing: missing}
	}

	out := make(map[string]string, len(s.Values))
	for k, v := range s.Values {
		out[k] = v
	}
	return out, nil
}
