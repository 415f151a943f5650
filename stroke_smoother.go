package main

import (
	"math"
	"sort"
)

////////////////////////////////////////////////////////////////////////////////
// 笔画平滑器模块
////////////////////////////////////////////////////////////////////////////////

// StrokeSmoother 笔画平滑器
// 把数字化的原始笔画处理成流畅自然的手写轨迹，
// 对字母、数字、符号全部适用。各阶段都保持点的顺序不变，
// 只改变点的数量；退化输入原样返回，流水线不会因此中断。
//
// 流水线顺序：
//  1. RemoveDuplicates — 清除重合点
//  2. RemoveOutliers   — 清除骨架提取产生的尖刺噪声
//  3. Resample         — 按弧长均匀重采样
//  4. ChaikinSmooth    — 几何切角
//  5. CubicSplineSmooth — C²连续的样条曲线
//  6. GaussianSmooth   — 最终低通柔化
//  7. Resample         — 粗采样控制输出点数
type StrokeSmoother struct{}

// NewStrokeSmoother 创建新的笔画平滑器
func NewStrokeSmoother() *StrokeSmoother {
	return &StrokeSmoother{}
}

// SmoothStroke 对单条笔画执行完整平滑流水线
// 少于3个点的笔画原样返回
func (ss *StrokeSmoother) SmoothStroke(stroke Stroke, cfg SmoothConfig) Stroke {
	if len(stroke) < 3 {
		return stroke
	}

	// 阶段0：清理原始数据
	s := ss.RemoveDuplicates(stroke, cfg.MinDist)
	s = ss.RemoveOutliers(s, cfg.OutlierThreshold)
	if len(s) < 3 {
		return stroke
	}

	// 阶段1：弧长均匀重采样
	s = ss.Resample(s, 0, cfg.ResampleSpacing)

	// 阶段2：切角平滑（磨圆尖角）
	s = ss.ChaikinSmooth(s, cfg.ChaikinIters)

	// 阶段3：自然三次样条（C²连续）
	s = ss.CubicSplineSmooth(s, 0, cfg.SplineFactor)

	// 阶段4：高斯低通（去掉残余的细微毛刺）
	s = ss.GaussianSmooth(s, cfg.GaussianSigma)

	// 阶段5：最终重采样，控制G代码点数
	s = ss.Resample(s, 0, cfg.FinalSpacing)

	return s
}

// RemoveDuplicates 清除间距小于minDist的连续重合点，末尾点始终保留
func (ss *StrokeSmoother) RemoveDuplicates(stroke Stroke, minDist float64) Stroke {
	if len(stroke) < 2 {
		return stroke
	}

	kept := Stroke{stroke[0]}
	for i := 1; i < len(stroke); i++ {
		last := kept[len(kept)-1]
		if math.Hypot(stroke[i].X-last.X, stroke[i].Y-last.Y) > minDist {
			kept = append(kept, stroke[i])
		}
	}

	// 末尾点必须保留，保证笔画端点不漂移
	last := stroke[len(stroke)-1]
	if kept[len(kept)-1] != last {
		kept = append(kept, last)
	}
	return kept
}

// RemoveOutliers 清除离群点
// 内部点到前后邻居中点的偏差超过 threshold × 中位段长 时视为尖刺，
// 端点始终保留；少于5个点不处理
func (ss *StrokeSmoother) RemoveOutliers(stroke Stroke, threshold float64) Stroke {
	if len(stroke) < 5 {
		return stroke
	}

	medianSeg := median(segmentLengths(stroke))
	if medianSeg < 1e-6 {
		return stroke
	}

	kept := Stroke{stroke[0]}
	for i := 1; i < len(stroke)-1; i++ {
		midX := (stroke[i-1].X + stroke[i+1].X) / 2
		midY := (stroke[i-1].Y + stroke[i+1].Y) / 2
		dev := math.Hypot(stroke[i].X-midX, stroke[i].Y-midY)
		if dev < threshold*medianSeg {
			kept = append(kept, stroke[i])
		}
	}
	kept = append(kept, stroke[len(stroke)-1])
	return kept
}

// Resample 按累积弧长均匀重采样
// numPoints > 0 时输出固定点数，否则由spacing决定点数；
// 总长接近零的笔画原样返回
func (ss *StrokeSmoother) Resample(stroke Stroke, numPoints int, spacing float64) Stroke {
	if len(stroke) < 2 {
		return stroke
	}

	cum := cumulativeLengths(stroke)
	total := cum[len(cum)-1]
	if total < 1e-6 {
		return stroke
	}

	if numPoints <= 0 {
		numPoints = int(total / spacing)
		if numPoints < 4 {
			numPoints = 4
		}
	}
	if numPoints < 2 {
		numPoints = 2
	}

	out := make(Stroke, 0, numPoints)
	for i := 0; i < numPoints; i++ {
		target := total * float64(i) / float64(numPoints-1)
		out = append(out, interpAt(stroke, cum, target))
	}
	return out
}

// ChaikinSmooth Chaikin切角平滑
// 每轮迭代在每个线段的25%/75%处生成新点，严格保留首尾端点，
// 逐步磨圆尖角而不改变整体形状。n个点一轮后变为2n-1个点。
func (ss *StrokeSmoother) ChaikinSmooth(stroke Stroke, iterations int) Stroke {
	if len(stroke) < 3 {
		return stroke
	}

	pts := stroke
	for iter := 0; iter < iterations; iter++ {
		out := make(Stroke, 0, 2*len(pts)-1)
		out = append(out, pts[0])
		for i := 0; i < len(pts)-1; i++ {
			p0, p1 := pts[i], pts[i+1]
			out = append(out, lerpPoint(p0, p1, 0.25))
			if i < len(pts)-2 {
				out = append(out, lerpPoint(p0, p1, 0.75))
			}
		}
		out = append(out, pts[len(pts)-1])
		pts = out
	}
	return pts
}

// CubicSplineSmooth 自然三次样条平滑
// 以弦长为参数拟合经过所有点的自然样条（二阶导连续），
// 再按更高密度重新取值。少于4个点不处理。
func (ss *StrokeSmoother) CubicSplineSmooth(stroke Stroke, numPoints int, factor float64) Stroke {
	if len(stroke) < 4 {
		return stroke
	}

	// 弦长参数化
	t := cumulativeLengths(stroke)
	total := t[len(t)-1]
	if total < 1e-6 {
		return stroke
	}

	// 参数必须严格递增（重合点已在前面的阶段清除）
	for i := 1; i < len(t); i++ {
		if t[i] <= t[i-1] {
			return stroke
		}
	}

	xs := make([]float64, len(stroke))
	ys := make([]float64, len(stroke))
	for i, p := range stroke {
		xs[i] = p.X
		ys[i] = p.Y
	}

	mx := naturalSplineSecondDerivs(t, xs)
	my := naturalSplineSecondDerivs(t, ys)

	if numPoints <= 0 {
		numPoints = int(float64(len(stroke)) * factor)
		if numPoints < len(stroke) {
			numPoints = len(stroke)
		}
	}

	out := make(Stroke, 0, numPoints)
	for i := 0; i < numPoints; i++ {
		u := total * float64(i) / float64(numPoints-1)
		out = append(out, Point{
			X: evalSpline(t, xs, mx, u),
			Y: evalSpline(t, ys, my, u),
		})
	}
	return out
}

// GaussianSmooth 一维高斯低通滤波
// 对X和Y独立滤波，边界用最近值延拓；滤波后把端点钉回原位，
// 避免笔画整体收缩。少于4个点不处理。
func (ss *StrokeSmoother) GaussianSmooth(stroke Stroke, sigma float64) Stroke {
	if len(stroke) < 4 || sigma <= 0 {
		return stroke
	}

	radius := int(4*sigma + 0.5)
	kernel := make([]float64, 2*radius+1)
	sum := 0.0
	for i := -radius; i <= radius; i++ {
		w := math.Exp(-float64(i*i) / (2 * sigma * sigma))
		kernel[i+radius] = w
		sum += w
	}
	for i := range kernel {
		kernel[i] /= sum
	}

	n := len(stroke)
	out := make(Stroke, n)
	for i := 0; i < n; i++ {
		var sx, sy float64
		for k := -radius; k <= radius; k++ {
			j := i + k
			// 边界最近值延拓
			if j < 0 {
				j = 0
			} else if j >= n {
				j = n - 1
			}
			sx += stroke[j].X * kernel[k+radius]
			sy += stroke[j].Y * kernel[k+radius]
		}
		out[i] = Point{X: sx, Y: sy}
	}

	// 端点钉回原位
	out[0] = stroke[0]
	out[n-1] = stroke[n-1]
	return out
}

////////////////////////////////////////////////////////////////////////////////
// 几何辅助函数
////////////////////////////////////////////////////////////////////////////////

// segmentLengths 相邻点的段长列表
func segmentLengths(stroke Stroke) []float64 {
	lens := make([]float64, 0, len(stroke)-1)
	for i := 1; i < len(stroke); i++ {
		lens = append(lens, math.Hypot(stroke[i].X-stroke[i-1].X, stroke[i].Y-stroke[i-1].Y))
	}
	return lens
}

// cumulativeLengths 累积弧长（首元素为0）
func cumulativeLengths(stroke Stroke) []float64 {
	cum := make([]float64, len(stroke))
	for i := 1; i < len(stroke); i++ {
		cum[i] = cum[i-1] + math.Hypot(stroke[i].X-stroke[i-1].X, stroke[i].Y-stroke[i-1].Y)
	}
	return cum
}

// median 中位数
func median(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)
	mid := len(sorted) / 2
	if len(sorted)%2 == 0 {
		return (sorted[mid-1] + sorted[mid]) / 2
	}
	return sorted[mid]
}

// lerpPoint 线段上按比例取点
func lerpPoint(p0, p1 Point, t float64) Point {
	return Point{
		X: p0.X + (p1.X-p0.X)*t,
		Y: p0.Y + (p1.Y-p0.Y)*t,
	}
}

// interpAt 在累积弧长cum上对目标弧长位置做线性插值
func interpAt(stroke Stroke, cum []float64, target float64) Point {
	if target <= 0 {
		return stroke[0]
	}
	if target >= cum[len(cum)-1] {
		return stroke[len(stroke)-1]
	}

	i := sort.SearchFloat64s(cum, target)
	if cum[i] == target {
		return stroke[i]
	}
	// target位于(i-1, i)段内
	span := cum[i] - cum[i-1]
	if span < 1e-12 {
		return stroke[i]
	}
	return lerpPoint(stroke[i-1], stroke[i], (target-cum[i-1])/span)
}

// naturalSplineSecondDerivs 求自然三次样条的二阶导数（Thomas三对角解法）
// 边界条件：两端二阶导为0
func naturalSplineSecondDerivs(t, y []float64) []float64 {
	n := len(t)
	m := make([]float64, n)
	if n < 3 {
		return m
	}

	diag := make([]float64, n)
	sup := make([]float64, n)
	rhs := make([]float64, n)
	for i := 1; i < n-1; i++ {
		h0 := t[i] - t[i-1]
		h1 := t[i+1] - t[i]
		diag[i] = 2 * (h0 + h1)
		sup[i] = h1
		rhs[i] = 6 * ((y[i+1]-y[i])/h1 - (y[i]-y[i-1])/h0)
	}

	// 前向消元
	for i := 2; i < n-1; i++ {
		factor := (t[i] - t[i-1]) / diag[i-1]
		diag[i] -= factor * sup[i-1]
		rhs[i] -= factor * rhs[i-1]
	}

	// 回代
	for i := n - 2; i >= 1; i-- {
		m[i] = (rhs[i] - sup[i]*m[i+1]) / diag[i]
	}
	return m
}

// evalSpline 在参数u处取样条值
func evalSpline(t, y, m []float64, u float64) float64 {
	n := len(t)
	if u <= t[0] {
		return y[0]
	}
	if u >= t[n-1] {
		return y[n-1]
	}

	i := sort.SearchFloat64s(t, u)
	if t[i] == u {
		return y[i]
	}
	lo, hi := i-1, i
	h := t[hi] - t[lo]

	a := (t[hi] - u) / h
	b := (u - t[lo]) / h
	return a*y[lo] + b*y[hi] +
		((a*a*a-a)*m[lo]+(b*b*b-b)*m[hi])*h*h/6
}
