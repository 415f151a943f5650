package main

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// 测试用默认平滑配置
func testSmoothConfig() SmoothConfig {
	return SmoothConfig{
		MinDist:          0.005,
		OutlierThreshold: 2.5,
		ResampleSpacing:  0.25,
		ChaikinIters:     3,
		SplineFactor:     2.5,
		GaussianSigma:    2.0,
		FinalSpacing:     0.4,
	}
}

func TestChaikinPointCount(t *testing.T) {
	ss := NewStrokeSmoother()
	stroke := Stroke{{0, 0}, {1, 2}, {2, 0}, {3, 2}, {4, 0}}

	// 每轮迭代：n个点 → 2n-1个点
	for _, tc := range []struct {
		iters int
		want  int
	}{
		{1, 9},
		{2, 17},
		{3, 33},
	} {
		out := ss.ChaikinSmooth(stroke, tc.iters)
		assert.Equal(t, tc.want, len(out), "迭代%d轮后点数", tc.iters)
	}
}

func TestChaikinPreservesEndpoints(t *testing.T) {
	ss := NewStrokeSmoother()
	stroke := Stroke{{0, 0}, {5, 10}, {10, 0}}

	out := ss.ChaikinSmooth(stroke, 3)
	assert.Equal(t, stroke[0], out[0])
	assert.Equal(t, stroke[len(stroke)-1], out[len(out)-1])
}

func TestResampleExactCount(t *testing.T) {
	ss := NewStrokeSmoother()
	stroke := Stroke{{0, 0}, {10, 0}}

	out := ss.Resample(stroke, 11, 0)
	require.Equal(t, 11, len(out))

	// 端点精确保留
	assert.Equal(t, stroke[0], out[0])
	assert.Equal(t, stroke[1], out[len(out)-1])

	// 直线上重采样应均匀分布
	for i, p := range out {
		assert.InDelta(t, float64(i), p.X, 1e-9)
		assert.InDelta(t, 0.0, p.Y, 1e-9)
	}
}

func TestResampleBySpacing(t *testing.T) {
	ss := NewStrokeSmoother()
	stroke := Stroke{{0, 0}, {10, 0}}

	// 总长10，间距0.25 → 40个点
	out := ss.Resample(stroke, 0, 0.25)
	assert.Equal(t, 40, len(out))
}

func TestSmoothShortStrokePassthrough(t *testing.T) {
	ss := NewStrokeSmoother()
	cfg := testSmoothConfig()

	for _, stroke := range []Stroke{
		{},
		{{1, 1}},
		{{1, 1}, {2, 2}},
	} {
		out := ss.SmoothStroke(stroke, cfg)
		assert.Equal(t, stroke, out)
	}
}

func TestCubicSplineFewPointsUnchanged(t *testing.T) {
	ss := NewStrokeSmoother()
	stroke := Stroke{{0, 0}, {1, 1}, {2, 0}}

	out := ss.CubicSplineSmooth(stroke, 0, 2.5)
	assert.Equal(t, stroke, out)
}

func TestCubicSplinePassesThroughKnots(t *testing.T) {
	ss := NewStrokeSmoother()
	stroke := Stroke{{0, 0}, {1, 2}, {2, 3}, {3, 2}, {4, 0}}

	// 取值密度等于原点数时，样条在节点处应精确还原原坐标
	out := ss.CubicSplineSmooth(stroke, 0, 4)
	assert.Equal(t, stroke[0], out[0])
	last := out[len(out)-1]
	assert.InDelta(t, stroke[len(stroke)-1].X, last.X, 1e-9)
	assert.InDelta(t, stroke[len(stroke)-1].Y, last.Y, 1e-9)
}

func TestGaussianEndpointsPinned(t *testing.T) {
	ss := NewStrokeSmoother()
	stroke := Stroke{{0, 0}, {1, 5}, {2, -5}, {3, 5}, {4, 0}}

	out := ss.GaussianSmooth(stroke, 2.0)
	require.Equal(t, len(stroke), len(out))
	assert.Equal(t, stroke[0], out[0])
	assert.Equal(t, stroke[len(stroke)-1], out[len(out)-1])

	// 中间点的锯齿应被压平
	assert.Less(t, math.Abs(out[2].Y), math.Abs(stroke[2].Y))
}

func TestRemoveDuplicatesKeepsLastPoint(t *testing.T) {
	ss := NewStrokeSmoother()
	stroke := Stroke{{0, 0}, {0.001, 0}, {5, 5}, {5.0001, 5.0001}}

	out := ss.RemoveDuplicates(stroke, 0.005)
	assert.Equal(t, Point{0, 0}, out[0])
	// 末尾点无论间距多近都保留
	assert.Equal(t, stroke[len(stroke)-1], out[len(out)-1])
	assert.Equal(t, 3, len(out))
}

func TestRemoveOutliersDropsSpike(t *testing.T) {
	ss := NewStrokeSmoother()
	// 均匀直线中插入一个远离轨迹的尖刺
	stroke := Stroke{{0, 0}, {1, 0}, {2, 50}, {3, 0}, {4, 0}, {5, 0}}

	out := ss.RemoveOutliers(stroke, 2.5)
	for _, p := range out {
		assert.NotEqual(t, Point{2, 50}, p, "尖刺点应被清除")
	}
	// 端点保留
	assert.Equal(t, stroke[0], out[0])
	assert.Equal(t, stroke[len(stroke)-1], out[len(out)-1])
}

func TestSmoothStraightLineStaysClose(t *testing.T) {
	ss := NewStrokeSmoother()
	cfg := testSmoothConfig()

	stroke := make(Stroke, 21)
	for i := range stroke {
		stroke[i] = Point{X: float64(i) * 0.5, Y: 3}
	}

	out := ss.SmoothStroke(stroke, cfg)
	require.GreaterOrEqual(t, len(out), 2)

	// 直线平滑后仍应是直线：所有点贴着y=3
	for _, p := range out {
		assert.InDelta(t, 3.0, p.Y, 0.01)
	}
	// 端点不漂移
	assert.InDelta(t, 0.0, out[0].X, 1e-9)
	assert.InDelta(t, 10.0, out[len(out)-1].X, 1e-9)
}

func TestSmoothOrderPreserved(t *testing.T) {
	ss := NewStrokeSmoother()
	cfg := testSmoothConfig()

	stroke := make(Stroke, 30)
	for i := range stroke {
		stroke[i] = Point{X: float64(i), Y: math.Sin(float64(i) * 0.4)}
	}

	out := ss.SmoothStroke(stroke, cfg)
	// 单调前进的笔画平滑后X仍应单调不减（样条允许极小的数值过冲）
	for i := 1; i < len(out); i++ {
		assert.GreaterOrEqual(t, out[i].X, out[i-1].X-0.01)
	}
}
