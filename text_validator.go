package main

import (
	"fmt"
	"strings"
)

////////////////////////////////////////////////////////////////////////////////
// 文本校验模块
////////////////////////////////////////////////////////////////////////////////

// TextValidateFunc 文本校验钩子
// 在排版之前调用；返回错误则整个书写任务被拒绝。
// 内容策略与几何流水线解耦，调用方可以替换成自己的实现。
type TextValidateFunc func(text string) error

// TextValidator 关键词内容校验器
// 拒绝书写包含禁写关键词的文本（例如代签名类内容）
type TextValidator struct {
	blockedWords []string
}

// NewTextValidator 创建新的文本校验器（内置关键词 + 配置追加的关键词）
func NewTextValidator(extraWords []string) *TextValidator {
	words := make([]string, 0, len(defaultBlockedWords)+len(extraWords))
	words = append(words, defaultBlockedWords...)
	words = append(words, extraWords...)
	return &TextValidator{blockedWords: words}
}

// Validate 校验文本（大小写不敏感的子串匹配）
func (tv *TextValidator) Validate(text string) error {
	lower := strings.ToLower(text)
	for _, word := range tv.blockedWords {
		if word == "" {
			continue
		}
		if strings.Contains(lower, strings.ToLower(word)) {
			return fmt.Errorf("文本包含禁写关键词 '%s'，已拒绝", word)
		}
	}
	return nil
}
