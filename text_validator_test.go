package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateBlockedWords(t *testing.T) {
	tv := NewTextValidator(nil)

	// 内置关键词：大小写不敏感的子串匹配
	assert.Error(t, tv.Validate("please forge my signature"))
	assert.Error(t, tv.Validate("SIGNATURE here"))
	assert.Error(t, tv.Validate("Sincerely yours"))
	// "sign"作为子串也命中（design含sign）
	assert.Error(t, tv.Validate("a new design"))
}

func TestValidateCleanText(t *testing.T) {
	tv := NewTextValidator(nil)

	require.NoError(t, tv.Validate("Hello World"))
	require.NoError(t, tv.Validate("Dear friend, how are you?"))
	require.NoError(t, tv.Validate(""))
}

func TestValidateExtraWords(t *testing.T) {
	tv := NewTextValidator([]string{"secret"})

	assert.Error(t, tv.Validate("this is a Secret message"))
	assert.NoError(t, tv.Validate("this is a public message"))

	// 内置关键词依然生效
	assert.Error(t, tv.Validate("sincerely"))
}

func TestValidateEmptyExtraWordIgnored(t *testing.T) {
	tv := NewTextValidator([]string{""})

	// 空关键词不应导致所有文本都被拒绝
	assert.NoError(t, tv.Validate("Hello"))
}
