package main

import (
	"fmt"
	"math"
	"math/rand"
	"strings"
	"sync"
	"unicode"
)

////////////////////////////////////////////////////////////////////////////////
// 排版组装器模块
////////////////////////////////////////////////////////////////////////////////

// WordAssembler 排版组装器
// 把文本和字形库组装成页面坐标下的笔画序列：
// 逐词换行、基线对齐（大写/小写/升部/降部分层）、
// 平滑后再做拟人化处理（前倾、抖动、基线漂移）。
// 随机量全部来自注入的随机源，固定种子时输出完全可复现。
type WordAssembler struct {
	library  *GlyphLibrary
	smoother *StrokeSmoother
	layout   LayoutConfig
	smooth   SmoothConfig
	rng      *rand.Rand
}

// strokeJob 单条笔画的处理任务（平滑+拟人化在并发阶段执行）
type strokeJob struct {
	points Stroke
	seed   int64   // 子随机源种子（并发下保证确定性）
	offset float64 // 单笔画基线偏移
}

// NewWordAssembler 创建新的排版组装器
func NewWordAssembler(library *GlyphLibrary, layout LayoutConfig, smooth SmoothConfig, rng *rand.Rand) *WordAssembler {
	return &WordAssembler{
		library:  library,
		smoother: NewStrokeSmoother(),
		layout:   layout,
		smooth:   smooth,
		rng:      rng,
	}
}

// AssembleText 组装整段文本
// 输出笔画严格保持阅读顺序：逐词、逐字符、字符内逐笔画，
// 与内部并发执行顺序无关
func (wa *WordAssembler) AssembleText(text string) []Stroke {
	l := wa.layout
	capHeight := TargetHeight * l.CapHeightScale
	xHeight := capHeight * l.XHeightRatio
	ascHeight := capHeight * l.AscenderRatio
	descDrop := capHeight * l.DescenderDropRatio

	cursorX := l.LeftMargin
	lineIndex := 0
	lineDrift := 0.0

	var jobs []strokeJob
	for _, word := range strings.Fields(text) {
		// 换行判断用前进宽度估算，而不是字形实际宽度
		estimated := wa.estimateWordWidth(word)
		if cursorX > l.LeftMargin && cursorX+estimated > l.PageWidth {
			cursorX = l.LeftMargin
			lineIndex++
			// 每行一点基线漂移，模拟手写行高的不稳定
			lineDrift = wa.symmetric(l.BaselineDrift)
		}

		baseline := l.LineTop + float64(lineIndex)*l.LineHeight + capHeight + lineDrift

		for _, r := range word {
			char := string(r)
			glyph, exists := wa.library.Lookup(char)
			if !exists {
				// 库中没有的字符直接跳过，不占前进宽度
				fmt.Printf("⚠️  字形库中没有字符 '%s'，已跳过\n", char)
				continue
			}

			// 垂直分层：字符类别决定高度与顶部位置
			target, top := wa.verticalPlacement(r, baseline, capHeight, xHeight, ascHeight, descDrop)

			// 单字尺寸抖动（等比）
			scale := target / TargetHeight * (1 + wa.symmetric(l.SizeJitter))

			for _, stroke := range glyph.Strokes {
				placed := make(Stroke, 0, len(stroke))
				for _, p := range stroke {
					placed = append(placed, Point{
						X: cursorX + p.X*scale,
						Y: top + p.Y*scale,
					})
				}
				// 随机量在这里按阅读顺序抽取，之后的并发阶段不再碰主随机源
				jobs = append(jobs, strokeJob{
					points: placed,
					seed:   wa.rng.Int63(),
					offset: wa.symmetric(l.StrokeOffset),
				})
			}

			cursorX += advanceWidthFor(char)*l.CapHeightScale + l.CharPadding
		}

		cursorX += SpaceAdvance * l.CapHeightScale
	}

	// 平滑与拟人化按笔画独立，可安全并发；结果按任务下标回填保持顺序
	result := make([]Stroke, len(jobs))
	var wg sync.WaitGroup
	for i := range jobs {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()
			smoothed := wa.smoother.SmoothStroke(jobs[idx].points, wa.smooth)
			result[idx] = wa.naturalizeStroke(smoothed, jobs[idx])
		}(i)
	}
	wg.Wait()

	return result
}

// estimateWordWidth 估算整词占用宽度（前进宽度表 + 字距）
// 与组装逻辑一致：库中没有的字符不计宽度
func (wa *WordAssembler) estimateWordWidth(word string) float64 {
	width := 0.0
	for _, r := range word {
		char := string(r)
		if _, exists := wa.library.Lookup(char); !exists {
			continue
		}
		width += advanceWidthFor(char)*wa.layout.CapHeightScale + wa.layout.CharPadding
	}
	return width
}

// verticalPlacement 计算字符的目标高度与顶部位置（相对当前行基线）
func (wa *WordAssembler) verticalPlacement(r rune, baseline, capHeight, xHeight, ascHeight, descDrop float64) (target, top float64) {
	if !unicode.IsLower(r) {
		// 大写、数字、符号统一按大写字高处理；
		// 逗号分号等字形在规范化空间里本来就靠下
		return capHeight, baseline - capHeight
	}

	asc := ascenderSet[r]
	desc := descenderSet[r]
	switch {
	case asc && desc:
		return ascHeight + descDrop, baseline - ascHeight
	case asc:
		return ascHeight, baseline - ascHeight
	case desc:
		return xHeight + descDrop, baseline - xHeight
	}
	return xHeight, baseline - xHeight
}

// naturalizeStroke 平滑后的拟人化处理
// 顺序：前倾剪切 → 正弦包络的锥形抖动（端点处为零）→ 单笔画基线偏移
func (wa *WordAssembler) naturalizeStroke(stroke Stroke, job strokeJob) Stroke {
	n := len(stroke)
	if n == 0 {
		return stroke
	}

	rng := rand.New(rand.NewSource(job.seed))
	l := wa.layout

	meanY := 0.0
	for _, p := range stroke {
		meanY += p.Y
	}
	meanY /= float64(n)

	out := make(Stroke, n)
	for i, p := range stroke {
		x, y := p.X, p.Y

		// 前倾剪切
		x += (y - meanY) * l.Shear

		// 锥形抖动：包络在端点为零，中段最大；X方向幅度大于Y
		env := 1.0
		if n > 1 {
			env = math.Sin(math.Pi * float64(i) / float64(n-1))
		}
		x += (rng.Float64()*2 - 1) * l.JitterX * env
		y += (rng.Float64()*2 - 1) * l.JitterY * env

		// 整笔画的基线偏移
		y += job.offset

		out[i] = Point{X: x, Y: y}
	}
	return out
}

// symmetric 在[-amp, +amp]内均匀抽取
func (wa *WordAssembler) symmetric(amp float64) float64 {
	return (wa.rng.Float64()*2 - 1) * amp
}
