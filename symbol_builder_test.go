package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildAllSymbols(t *testing.T) {
	sb := NewSymbolBuilder()
	glyphs := sb.BuildAll()

	wantChars := []string{"!", ",", ";", "-", "(", ")", "[", "]", "{", "}", "&", "%"}
	require.Equal(t, len(wantChars), len(glyphs))
	for _, char := range wantChars {
		glyph, exists := glyphs[char]
		require.True(t, exists, "缺少符号 %s", char)
		require.NotEmpty(t, glyph.Strokes, "符号 %s 没有笔画", char)
		assert.Greater(t, glyph.Width, 0.0, "符号 %s 宽度无效", char)
	}
}

func TestSymbolsWithinNormalizedSpace(t *testing.T) {
	sb := NewSymbolBuilder()

	for char, glyph := range sb.BuildAll() {
		for _, stroke := range glyph.Strokes {
			require.GreaterOrEqual(t, len(stroke), 2, "符号 %s 的笔画太短", char)
			for _, p := range stroke {
				// 规范化空间：允许弧线略微越界，但不应严重超出
				assert.GreaterOrEqual(t, p.Y, -10.0, "符号 %s 越过顶部", char)
				assert.LessOrEqual(t, p.Y, 110.0, "符号 %s 越过底部", char)
				assert.GreaterOrEqual(t, p.X, -50.0, "符号 %s X越界", char)
			}
		}
	}
}

func TestExclamationShape(t *testing.T) {
	sb := NewSymbolBuilder()
	glyph := sb.BuildAll()["!"]

	// 竖笔 + 圆点两条笔画
	require.Equal(t, 2, len(glyph.Strokes))

	// 竖笔在上，圆点在下
	stemMaxY := glyph.Strokes[0][0].Y
	for _, p := range glyph.Strokes[0] {
		if p.Y > stemMaxY {
			stemMaxY = p.Y
		}
	}
	dotMinY := glyph.Strokes[1][0].Y
	for _, p := range glyph.Strokes[1] {
		if p.Y < dotMinY {
			dotMinY = p.Y
		}
	}
	assert.Less(t, stemMaxY, dotMinY)
}

func TestBracketStrokesConnected(t *testing.T) {
	sb := NewSymbolBuilder()

	// 方括号是单条连续笔画（三段直线相接）
	for _, char := range []string{"[", "]"} {
		glyph := sb.BuildAll()[char]
		assert.Equal(t, 1, len(glyph.Strokes), "符号 %s 应为单条笔画", char)
	}
}
