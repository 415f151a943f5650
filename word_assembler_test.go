package main

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// 测试用排版配置：关闭所有随机量，几何位置完全确定
func testLayoutConfig() LayoutConfig {
	return LayoutConfig{
		CapHeightScale:     0.07,
		XHeightRatio:       0.62,
		AscenderRatio:      1.12,
		DescenderDropRatio: 0.28,
		PageWidth:          210,
		LeftMargin:         10,
		LineTop:            25,
		LineHeight:         13,
		CharPadding:        1.8,
	}
}

// 测试用字形库：两点笔画不触发平滑流水线，位置可精确断言
func testLibrary() *GlyphLibrary {
	return NewGlyphLibrary(map[string]*Glyph{
		"H": {Strokes: []Stroke{
			{{0, 0}, {0, 100}},
			{{70, 0}, {70, 100}},
		}, Width: 70},
		"i": {Strokes: []Stroke{
			{{0, 0}, {0, 100}},
		}, Width: 10},
		"g": {Strokes: []Stroke{
			{{0, 0}, {40, 100}},
		}, Width: 40},
		"!": {Strokes: []Stroke{
			{{3, 0}, {2.5, 72}},
			{{3, 85}, {3, 92}},
		}, Width: 6},
	})
}

func newTestAssembler(layout LayoutConfig, seed int64) *WordAssembler {
	return NewWordAssembler(testLibrary(), layout, SmoothConfig{}, rand.New(rand.NewSource(seed)))
}

func TestAssembleStrokeCountAndOrder(t *testing.T) {
	wa := newTestAssembler(testLayoutConfig(), 1)

	// H(2条) + i(1条) + !(2条) = 5条，且保持阅读顺序
	strokes := wa.AssembleText("Hi!")
	require.Equal(t, 5, len(strokes))

	// 每个字符的首条笔画起点X应严格递增
	charStarts := []float64{strokes[0][0].X, strokes[2][0].X, strokes[3][0].X}
	assert.Less(t, charStarts[0], charStarts[1])
	assert.Less(t, charStarts[1], charStarts[2])
}

func TestAssemblePlacementExact(t *testing.T) {
	l := testLayoutConfig()
	wa := newTestAssembler(l, 1)

	strokes := wa.AssembleText("H")
	require.Equal(t, 2, len(strokes))

	capHeight := TargetHeight * l.CapHeightScale // 7
	baseline := l.LineTop + capHeight            // 32

	// 大写字母：顶部在基线上方一个大写字高处
	first := strokes[0]
	assert.InDelta(t, l.LeftMargin, first[0].X, 1e-9)
	assert.InDelta(t, baseline-capHeight, first[0].Y, 1e-9)
	assert.InDelta(t, baseline, first[len(first)-1].Y, 1e-9)
}

func TestAssembleLowercaseXHeight(t *testing.T) {
	l := testLayoutConfig()
	wa := newTestAssembler(l, 1)

	strokes := wa.AssembleText("i")
	require.Equal(t, 1, len(strokes))

	capHeight := TargetHeight * l.CapHeightScale
	xHeight := capHeight * l.XHeightRatio
	baseline := l.LineTop + capHeight

	// 普通小写字母：只占x字高，底部落在基线上
	assert.InDelta(t, baseline-xHeight, strokes[0][0].Y, 1e-9)
	assert.InDelta(t, baseline, strokes[0][1].Y, 1e-9)
}

func TestAssembleDescenderBelowBaseline(t *testing.T) {
	l := testLayoutConfig()
	wa := newTestAssembler(l, 1)

	strokes := wa.AssembleText("g")
	require.Equal(t, 1, len(strokes))

	capHeight := TargetHeight * l.CapHeightScale
	baseline := l.LineTop + capHeight

	// 降部字母的最低点应落在基线之下
	maxY := strokes[0][0].Y
	for _, p := range strokes[0] {
		if p.Y > maxY {
			maxY = p.Y
		}
	}
	assert.Greater(t, maxY, baseline)
}

func TestAssembleAbsentCharSkipped(t *testing.T) {
	wa1 := newTestAssembler(testLayoutConfig(), 1)
	wa2 := newTestAssembler(testLayoutConfig(), 1)

	// "z"不在库中：跳过且不占前进宽度，结果与不含"z"的文本一致
	withAbsent := wa1.AssembleText("HzH")
	without := wa2.AssembleText("HH")

	require.Equal(t, len(without), len(withAbsent))
	assert.Equal(t, without, withAbsent)
}

func TestAssembleWrapping(t *testing.T) {
	l := testLayoutConfig()
	l.PageWidth = 20 // 一行只放得下一个词
	wa := newTestAssembler(l, 1)

	strokes := wa.AssembleText("H H")
	require.Equal(t, 4, len(strokes))

	// 第二个词换到下一行：Y整体下移一个行距
	firstWordY := strokes[0][0].Y
	secondWordY := strokes[2][0].Y
	assert.InDelta(t, l.LineHeight, secondWordY-firstWordY, 1e-9)

	// 换行后X回到左边距
	assert.InDelta(t, l.LeftMargin, strokes[2][0].X, 1e-9)
}

func TestAssembleFirstWordNeverWrapped(t *testing.T) {
	l := testLayoutConfig()
	l.PageWidth = 1 // 任何词都放不下
	wa := newTestAssembler(l, 1)

	// 超宽的词也必须被放置（在左边距处），不允许死循环
	strokes := wa.AssembleText("HHHH HHHH")
	require.Equal(t, 16, len(strokes))
	assert.InDelta(t, l.LeftMargin, strokes[0][0].X, 1e-9)
}

func TestAssembleSeedDeterminism(t *testing.T) {
	l := testLayoutConfig()
	// 打开全部随机量
	l.Shear = 0.10
	l.SizeJitter = 0.015
	l.JitterX = 0.12
	l.JitterY = 0.06
	l.StrokeOffset = 0.15
	l.BaselineDrift = 0.6

	a := newTestAssembler(l, 42)
	b := newTestAssembler(l, 42)
	c := newTestAssembler(l, 43)

	text := "Hi! Hi! Hi!"
	out1 := a.AssembleText(text)
	out2 := b.AssembleText(text)
	out3 := c.AssembleText(text)

	// 同种子完全一致（包括并发平滑阶段）
	assert.Equal(t, out1, out2)
	// 不同种子产生不同轨迹
	assert.NotEqual(t, out1, out3)
}

func TestAssembleEmptyText(t *testing.T) {
	wa := newTestAssembler(testLayoutConfig(), 1)

	assert.Empty(t, wa.AssembleText(""))
	assert.Empty(t, wa.AssembleText("   \n\t  "))
}

func TestEstimateWordWidth(t *testing.T) {
	l := testLayoutConfig()
	wa := newTestAssembler(l, 1)

	// H的前进宽度75（理想宽度表） × 0.07 + 字距1.8
	want := 75*l.CapHeightScale + l.CharPadding
	assert.InDelta(t, want, wa.estimateWordWidth("H"), 1e-9)

	// 库中没有的字符不计宽度
	assert.InDelta(t, want, wa.estimateWordWidth("Hz"), 1e-9)
}
