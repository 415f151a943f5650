package main

import (
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"
	"unicode"
)

////////////////////////////////////////////////////////////////////////////////
// 字形规范化器模块
////////////////////////////////////////////////////////////////////////////////

// Normalizer 字形规范化器
// 把数字化器输出的任意比例原始笔画规范化为高度0-100的标准字形
type Normalizer struct {
	fileReader *FileReader
}

// NewNormalizer 创建新的字形规范化器
func NewNormalizer() *Normalizer {
	return &Normalizer{
		fileReader: NewFileReader(),
	}
}

// NormalizeGlyph 规范化单个字符的笔画
// 算法：包围盒 → 高度缩放到100 → 理想宽度纠偏 → 宽高比硬上限 →
// 平移到原点 → 固定精度取整。空输入返回nil（缺失），不报错。
// 对已规范化的字形重复调用是不动点。
func (n *Normalizer) NormalizeGlyph(char string, strokes []Stroke) *Glyph {
	total := 0
	for _, stroke := range strokes {
		total += len(stroke)
	}
	if total == 0 {
		return nil
	}

	// 计算全部点的包围盒
	minX, minY := math.Inf(1), math.Inf(1)
	maxX, maxY := math.Inf(-1), math.Inf(-1)
	for _, stroke := range strokes {
		for _, p := range stroke {
			minX = math.Min(minX, p.X)
			maxX = math.Max(maxX, p.X)
			minY = math.Min(minY, p.Y)
			maxY = math.Max(maxY, p.Y)
		}
	}

	height := maxY - minY
	width := maxX - minX
	scaleY := TargetHeight / math.Max(height, 1)

	// 先用等比缩放（保持宽高比）
	scaleX := scaleY

	// 理想宽度纠偏：只处理偏差超过50%的极端字形，
	// 纠偏目标取理想宽度的±15%容差边界
	rawWidth := width * scaleX
	if ideal, exists := idealWidth[char]; exists {
		if rawWidth > ideal*1.50 {
			scaleX = ideal * 1.15 / math.Max(width, 1)
		} else if rawWidth < ideal*0.50 {
			scaleX = ideal * 0.85 / math.Max(width, 1)
		}
	}

	// 宽高比硬上限：无论如何不允许超过类别上限
	maxWidth := TargetHeight * n.maxAspect(char)
	if width*scaleX > maxWidth {
		scaleX = maxWidth / math.Max(width, 1)
	}

	// 平移到原点并取整
	normStrokes := make([]Stroke, 0, len(strokes))
	for _, stroke := range strokes {
		norm := make(Stroke, 0, len(stroke))
		for _, p := range stroke {
			norm = append(norm, Point{
				X: roundTo((p.X-minX)*scaleX, CoordPrecision),
				Y: roundTo((p.Y-minY)*scaleY, CoordPrecision),
			})
		}
		normStrokes = append(normStrokes, norm)
	}

	return &Glyph{
		Strokes: normStrokes,
		Width:   roundTo(width*scaleX, CoordPrecision),
	}
}

// maxAspect 查字符的宽高比上限
func (n *Normalizer) maxAspect(char string) float64 {
	if asp, exists := maxAspectSpecial[char]; exists {
		return asp
	}
	r := firstRune(char)
	switch {
	case unicode.IsLower(r):
		return MaxAspectLower
	case unicode.IsUpper(r):
		return MaxAspectUpper
	}
	return MaxAspectSymbol
}

// BuildLibraryFromDir 从笔画库目录构建完整字形库
// 目录中每个{名称}_strokes.json对应一个字符；
// 两字符且以"1"结尾的名称（如"a1"）映射为对应的大写字母
func (n *Normalizer) BuildLibraryFromDir(dir string) (map[string]*Glyph, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("无法读取笔画库目录 %s: %v", dir, err)
	}

	library := make(map[string]*Glyph)
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasSuffix(name, "_strokes.json") {
			continue
		}

		rawName := strings.SplitN(name, "_", 2)[0]
		char := rawName
		if len(rawName) == 2 && strings.HasSuffix(rawName, "1") {
			char = strings.ToUpper(rawName[:1])
		}

		raw, err := n.fileReader.LoadRawStrokes(filepath.Join(dir, name))
		if err != nil {
			fmt.Printf("⚠️  跳过 %s: %v\n", name, err)
			continue
		}

		library[char] = n.NormalizeGlyph(char, raw[rawName])
		fmt.Printf("✅ 已规范化 %s -> %s\n", rawName, char)
	}

	// 用数学生成的干净符号字形覆盖噪声较大的骨架提取结果
	symbolBuilder := NewSymbolBuilder()
	for char, glyph := range symbolBuilder.BuildAll() {
		library[char] = glyph
	}

	return library, nil
}

// roundTo 按小数位取整
func roundTo(v float64, digits int) float64 {
	pow := math.Pow(10, float64(digits))
	return math.Round(v*pow) / pow
}

// firstRune 取字符串首个rune
func firstRune(s string) rune {
	for _, r := range s {
		return r
	}
	return 0
}
