package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeGlyphHeight(t *testing.T) {
	n := NewNormalizer()
	strokes := []Stroke{
		{{10, 20}, {40, 80}},
		{{15, 30}, {35, 60}},
	}

	glyph := n.NormalizeGlyph("a", strokes)
	require.NotNil(t, glyph)

	// 高度缩放到0-100，原点平移到(0,0)
	minX, minY, maxY := 1e18, 1e18, -1e18
	for _, stroke := range glyph.Strokes {
		for _, p := range stroke {
			if p.X < minX {
				minX = p.X
			}
			if p.Y < minY {
				minY = p.Y
			}
			if p.Y > maxY {
				maxY = p.Y
			}
		}
	}
	assert.InDelta(t, 0.0, minX, 0.01)
	assert.InDelta(t, 0.0, minY, 0.01)
	assert.InDelta(t, TargetHeight, maxY, 0.01)
}

func TestNormalizeGlyphEmpty(t *testing.T) {
	n := NewNormalizer()

	assert.Nil(t, n.NormalizeGlyph("a", nil))
	assert.Nil(t, n.NormalizeGlyph("a", []Stroke{}))
	assert.Nil(t, n.NormalizeGlyph("a", []Stroke{{}}))
}

func TestNormalizeGlyphIdempotent(t *testing.T) {
	n := NewNormalizer()
	// 宽度接近理想值的字形（"a"理想宽度65），纠偏不触发
	strokes := []Stroke{
		{{0, 0}, {32.5, 25}, {65, 50}, {32.5, 100}},
	}

	first := n.NormalizeGlyph("a", strokes)
	require.NotNil(t, first)
	second := n.NormalizeGlyph("a", first.Strokes)
	require.NotNil(t, second)

	// 对已规范化的字形重复调用是不动点
	assert.Equal(t, first.Width, second.Width)
	assert.Equal(t, first.Strokes, second.Strokes)
}

func TestNormalizeIdealWidthCorrection(t *testing.T) {
	n := NewNormalizer()
	// 严重过宽的"a"：宽300高100，超过理想宽度65的1.5倍
	strokes := []Stroke{
		{{0, 0}, {300, 100}},
	}

	glyph := n.NormalizeGlyph("a", strokes)
	require.NotNil(t, glyph)

	// 纠偏目标：理想宽度 × 1.15 = 74.75
	assert.InDelta(t, 65*1.15, glyph.Width, 0.01)
}

func TestNormalizeIdealWidthTooNarrow(t *testing.T) {
	n := NewNormalizer()
	// 严重过窄的"m"：宽20高100，不足理想宽度90的一半
	strokes := []Stroke{
		{{0, 0}, {20, 100}},
	}

	glyph := n.NormalizeGlyph("m", strokes)
	require.NotNil(t, glyph)

	// 纠偏目标：理想宽度 × 0.85 = 76.5
	assert.InDelta(t, 90*0.85, glyph.Width, 0.01)
}

func TestNormalizeAspectHardCap(t *testing.T) {
	n := NewNormalizer()
	// 没有理想宽度的符号，极端过宽：只受类别宽高比上限约束
	strokes := []Stroke{
		{{0, 0}, {500, 100}},
	}

	glyph := n.NormalizeGlyph("@", strokes)
	require.NotNil(t, glyph)
	assert.InDelta(t, TargetHeight*MaxAspectSymbol, glyph.Width, 0.01)
}

func TestNormalizeAspectSpecialOverride(t *testing.T) {
	n := NewNormalizer()
	// "&"的上限覆盖为0.80，比符号类别默认值更严
	strokes := []Stroke{
		{{0, 0}, {500, 100}},
	}

	glyph := n.NormalizeGlyph("&", strokes)
	require.NotNil(t, glyph)
	assert.InDelta(t, TargetHeight*0.80, glyph.Width, 0.01)
}

func TestNormalizeModerateDeviationUntouched(t *testing.T) {
	n := NewNormalizer()
	// 偏差在±50%以内的字形保持等比缩放，不做纠偏
	// "a"理想宽度65，宽80在65×1.5=97.5以内
	strokes := []Stroke{
		{{0, 0}, {80, 100}},
	}

	glyph := n.NormalizeGlyph("a", strokes)
	require.NotNil(t, glyph)
	assert.InDelta(t, 80.0, glyph.Width, 0.01)
}
