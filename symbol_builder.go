package main

import "math"

////////////////////////////////////////////////////////////////////////////////
// 符号字形构建器模块
////////////////////////////////////////////////////////////////////////////////

// SymbolBuilder 符号字形构建器
// 特殊符号的骨架提取结果噪声很大，这里用数学曲线直接生成
// 干净的符号字形，坐标在规范化空间：高度100，原点(0,0)，y轴向下
type SymbolBuilder struct{}

// NewSymbolBuilder 创建新的符号字形构建器
func NewSymbolBuilder() *SymbolBuilder {
	return &SymbolBuilder{}
}

// BuildAll 生成全部符号字形，可直接合并进字形库
func (sb *SymbolBuilder) BuildAll() map[string]*Glyph {
	return map[string]*Glyph{
		"!": sb.buildExclamation(),
		",": sb.buildComma(),
		";": sb.buildSemicolon(),
		"-": sb.buildDash(),
		"(": sb.buildLeftParen(),
		")": sb.buildRightParen(),
		"[": sb.buildLeftBracket(),
		"]": sb.buildRightBracket(),
		"{": sb.buildLeftBrace(),
		"}": sb.buildRightBrace(),
		"&": sb.buildAmpersand(),
		"%": sb.buildPercent(),
	}
}

// arc 生成椭圆弧
// 坐标系：x向右，y向下（y=0顶部，y=100底部）
// 角度约定：0°=右(+x)，90°=下(+y)，180°=左(-x)，270°=上(-y)
func (sb *SymbolBuilder) arc(cx, cy, rx, ry, startDeg, endDeg float64, n int) Stroke {
	pts := make(Stroke, 0, n)
	for i := 0; i < n; i++ {
		t := float64(i) / float64(n-1)
		a := (startDeg + (endDeg-startDeg)*t) * math.Pi / 180
		pts = append(pts, Point{
			X: roundTo(cx+rx*math.Cos(a), CoordPrecision),
			Y: roundTo(cy+ry*math.Sin(a), CoordPrecision),
		})
	}
	return pts
}

// line 生成带轻微弧度的直线（微小正弦起伏模拟手写感）
func (sb *SymbolBuilder) line(x0, y0, x1, y1 float64, n int) Stroke {
	pts := make(Stroke, 0, n)
	for i := 0; i < n; i++ {
		t := float64(i) / float64(n-1)
		wobble := math.Sin(t*math.Pi) * 0.3
		pts = append(pts, Point{
			X: roundTo(x0+(x1-x0)*t+wobble, CoordPrecision),
			Y: roundTo(y0+(y1-y0)*t, CoordPrecision),
		})
	}
	return pts
}

// buildExclamation ! — 竖笔 + 下方圆点
func (sb *SymbolBuilder) buildExclamation() *Glyph {
	stem := sb.line(3, 0, 2.5, 72, 20)
	dot := sb.arc(3, 88, 3, 4, 0, 360, 16)
	return &Glyph{Strokes: []Stroke{stem, dot}, Width: 6}
}

// buildComma , — 小弯尾
func (sb *SymbolBuilder) buildComma() *Glyph {
	tail := sb.arc(4, 75, 3, 12, -60, 200, 20)
	return &Glyph{Strokes: []Stroke{tail}, Width: 8}
}

// buildSemicolon ; — 上圆点 + 下弯尾
func (sb *SymbolBuilder) buildSemicolon() *Glyph {
	dot := sb.arc(5, 30, 3, 3.5, 0, 360, 16)
	tail := sb.arc(5, 70, 3, 15, -60, 200, 20)
	return &Glyph{Strokes: []Stroke{dot, tail}, Width: 10}
}

// buildDash - — 水平横笔
func (sb *SymbolBuilder) buildDash() *Glyph {
	stroke := sb.line(0, 50, 35, 49, 12)
	return &Glyph{Strokes: []Stroke{stroke}, Width: 35}
}

// buildLeftParen ( — 向右开口的C形弧
// 弧心在右侧，从右上270°经左侧鼓起180°扫到右下90°
func (sb *SymbolBuilder) buildLeftParen() *Glyph {
	pts := sb.arc(15, 50, 15, 50, 270, 90, 40)
	return &Glyph{Strokes: []Stroke{pts}, Width: 15}
}

// buildRightParen ) — 向左开口的C形弧
// 弧心在左侧，从左上-90°经右侧鼓起0°扫到左下90°
func (sb *SymbolBuilder) buildRightParen() *Glyph {
	pts := sb.arc(0, 50, 15, 50, -90, 90, 40)
	return &Glyph{Strokes: []Stroke{pts}, Width: 15}
}

// buildLeftBracket [ — 三段相连直线
func (sb *SymbolBuilder) buildLeftBracket() *Glyph {
	top := sb.line(15, 2, 3, 2, 6)
	side := sb.line(3, 2, 3, 98, 15)
	bot := sb.line(3, 98, 15, 98, 6)
	combined := append(append(append(Stroke{}, top...), side[1:]...), bot[1:]...)
	return &Glyph{Strokes: []Stroke{combined}, Width: 15}
}

// buildRightBracket ] — 三段相连直线
func (sb *SymbolBuilder) buildRightBracket() *Glyph {
	top := sb.line(0, 2, 12, 2, 6)
	side := sb.line(12, 2, 12, 98, 15)
	bot := sb.line(12, 98, 0, 98, 6)
	combined := append(append(append(Stroke{}, top...), side[1:]...), bot[1:]...)
	return &Glyph{Strokes: []Stroke{combined}, Width: 15}
}

// buildLeftBrace { — 上下两段弧在中部左侧尖点相接
func (sb *SymbolBuilder) buildLeftBrace() *Glyph {
	top := sb.arc(18, 25, 14, 25, 270, 180, 25)
	bot := sb.arc(18, 75, 14, 25, 180, 90, 25)
	return &Glyph{Strokes: []Stroke{top, bot}, Width: 18}
}

// buildRightBrace } — 左花括号的镜像
func (sb *SymbolBuilder) buildRightBrace() *Glyph {
	top := sb.arc(0, 25, 14, 25, 270, 360, 25)
	bot := sb.arc(0, 75, 14, 25, 0, 90, 25)
	return &Glyph{Strokes: []Stroke{top, bot}, Width: 18}
}

// buildAmpersand & — 风格化的环形
func (sb *SymbolBuilder) buildAmpersand() *Glyph {
	upper := sb.arc(22, 25, 14, 20, 30, 390, 40)
	diag := sb.line(33, 35, 8, 90, 15)
	tail := sb.arc(18, 85, 14, 10, 140, 30, 20)
	return &Glyph{Strokes: []Stroke{upper, diag, tail}, Width: 42}
}

// buildPercent % — 左上小圆 + 斜线 + 右下小圆
func (sb *SymbolBuilder) buildPercent() *Glyph {
	topO := sb.arc(12, 18, 10, 10, 0, 360, 28)
	diag := sb.line(30, 10, 8, 90, 15)
	botO := sb.arc(28, 78, 10, 10, 0, 360, 28)
	return &Glyph{Strokes: []Stroke{topO, diag, botO}, Width: 40}
}
