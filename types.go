package main

import (
	"encoding/json"
	"fmt"
	"sync"
	"time"
)

////////////////////////////////////////////////////////////////////////////////
// 配置与数据结构定义
////////////////////////////////////////////////////////////////////////////////

// Config 主配置
type Config struct {
	LibraryPath  string   `yaml:"library_path"`  // 规范化字形库JSON文件路径
	StrokeDir    string   `yaml:"stroke_dir"`    // 原始笔画库目录（离线规范化用）
	OutputDir    string   `yaml:"output_dir"`    // G代码输出目录
	DryRun       bool     `yaml:"dry_run"`       // 调试模式：只生成G代码不发送
	Seed         int64    `yaml:"seed"`          // 随机种子（0表示按当前时间）
	BlockedWords []string `yaml:"blocked_words"` // 禁止书写的关键词（附加到内置列表）

	Layout LayoutConfig `yaml:"layout"` // 排版配置
	Smooth SmoothConfig `yaml:"smooth"` // 平滑配置
	GCode  GCodeConfig  `yaml:"gcode"`  // G代码编码配置
	Serial SerialConfig `yaml:"serial"` // 串口配置
}

// LayoutConfig 排版配置（长度单位：毫米，比例无量纲）
type LayoutConfig struct {
	CapHeightScale     float64 `yaml:"cap_height_scale"`     // 大写字高 = 100 × 该比例
	XHeightRatio       float64 `yaml:"x_height_ratio"`       // 小写字高 / 大写字高
	AscenderRatio      float64 `yaml:"ascender_ratio"`       // 升部字高 / 大写字高
	DescenderDropRatio float64 `yaml:"descender_drop_ratio"` // 降部深度 / 大写字高
	PageWidth          float64 `yaml:"page_width"`           // 页面宽度
	LeftMargin         float64 `yaml:"left_margin"`          // 左边距
	LineTop            float64 `yaml:"line_top"`             // 首行顶部位置
	LineHeight         float64 `yaml:"line_height"`          // 行距
	CharPadding        float64 `yaml:"char_padding"`         // 字符间距
	Shear              float64 `yaml:"shear"`                // 前倾剪切系数
	SizeJitter         float64 `yaml:"size_jitter"`          // 单字尺寸抖动比例（±）
	JitterX            float64 `yaml:"jitter_x"`             // 笔画X方向抖动幅度
	JitterY            float64 `yaml:"jitter_y"`             // 笔画Y方向抖动幅度
	StrokeOffset       float64 `yaml:"stroke_offset"`        // 单笔画基线偏移幅度（±）
	BaselineDrift      float64 `yaml:"baseline_drift"`       // 换行基线漂移幅度（±）
}

// SmoothConfig 笔画平滑配置
type SmoothConfig struct {
	MinDist          float64 `yaml:"min_dist"`          // 重复点判定距离
	OutlierThreshold float64 `yaml:"outlier_threshold"` // 离群点阈值（×中位段长）
	ResampleSpacing  float64 `yaml:"resample_spacing"`  // 重采样点间距（毫米）
	ChaikinIters     int     `yaml:"chaikin_iters"`     // 切角平滑迭代次数
	SplineFactor     float64 `yaml:"spline_factor"`     // 样条加密倍数
	GaussianSigma    float64 `yaml:"gaussian_sigma"`    // 高斯低通滤波强度
	FinalSpacing     float64 `yaml:"final_spacing"`     // 最终重采样点间距（毫米）
}

// GCodeConfig G代码编码配置
type GCodeConfig struct {
	FeedRate     int `yaml:"feed_rate"`      // 进给速度（毫米/分钟）
	PenDownPower int `yaml:"pen_down_power"` // 落笔舵机功率（M3 S值）
}

// SerialConfig 串口配置
type SerialConfig struct {
	PortName      string `yaml:"port_name"`       // 串口名称（如：/dev/ttyUSB0，留空自动探测）
	BaudRate      int    `yaml:"baud_rate"`       // 波特率
	LineTimeoutMS int    `yaml:"line_timeout_ms"` // 单条指令应答超时（毫秒）
	WakeDelayMS   int    `yaml:"wake_delay_ms"`   // 打开串口后的唤醒等待（毫秒）
}

////////////////////////////////////////////////////////////////////////////////
// 几何数据结构
////////////////////////////////////////////////////////////////////////////////

// Point 二维点（毫米坐标）
type Point struct {
	X float64
	Y float64
}

// MarshalJSON 序列化为[x, y]数组，与字形库文件格式保持一致
func (p Point) MarshalJSON() ([]byte, error) {
	return json.Marshal([2]float64{p.X, p.Y})
}

// UnmarshalJSON 从[x, y]数组反序列化
func (p *Point) UnmarshalJSON(data []byte) error {
	var v [2]float64
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	p.X, p.Y = v[0], v[1]
	return nil
}

// Stroke 一条连续落笔轨迹（有序点列）
type Stroke []Point

// Glyph 规范化字形：高度0-100空间内的笔画集合
type Glyph struct {
	Strokes []Stroke `json:"strokes"` // 笔画列表
	Width   float64  `json:"width"`   // 规范化宽度
}

// GlyphLibrary 字形库：字符 → 字形的只读映射
// 构建完成后不可修改，可在多个并发排版任务间安全共享
type GlyphLibrary struct {
	glyphs map[string]*Glyph
}

// NewGlyphLibrary 创建字形库（空字形条目视为缺失，不会进入库中）
func NewGlyphLibrary(glyphs map[string]*Glyph) *GlyphLibrary {
	m := make(map[string]*Glyph, len(glyphs))
	for char, glyph := range glyphs {
		if glyph == nil || len(glyph.Strokes) == 0 {
			continue
		}
		m[char] = glyph
	}
	return &GlyphLibrary{glyphs: m}
}

// Lookup 查找字符对应的字形
func (gl *GlyphLibrary) Lookup(char string) (*Glyph, bool) {
	glyph, exists := gl.glyphs[char]
	return glyph, exists
}

// Size 库中字形数量
func (gl *GlyphLibrary) Size() int {
	return len(gl.glyphs)
}

// Chars 返回库中全部字符（Web接口与测试用）
func (gl *GlyphLibrary) Chars() []string {
	chars := make([]string, 0, len(gl.glyphs))
	for char := range gl.glyphs {
		chars = append(chars, char)
	}
	return chars
}

////////////////////////////////////////////////////////////////////////////////
// 运动指令数据结构
////////////////////////////////////////////////////////////////////////////////

// CommandKind 运动指令类型
type CommandKind int

const (
	CmdSetSpeed CommandKind = iota // 设置进给速度
	CmdPenUp                       // 抬笔
	CmdPenDown                     // 落笔
	CmdRapidTo                     // 快速定位（抬笔状态移动）
	CmdLineTo                      // 直线插补（落笔状态移动）
	CmdHome                        // 回原点
	CmdEnd                         // 程序结束
)

// String 指令类型名称
func (k CommandKind) String() string {
	switch k {
	case CmdSetSpeed:
		return "SetSpeed"
	case CmdPenUp:
		return "PenUp"
	case CmdPenDown:
		return "PenDown"
	case CmdRapidTo:
		return "RapidTo"
	case CmdLineTo:
		return "LineTo"
	case CmdHome:
		return "Home"
	case CmdEnd:
		return "End"
	}
	return fmt.Sprintf("CommandKind(%d)", int(k))
}

// MotionCommand 单条运动指令
type MotionCommand struct {
	Kind CommandKind
	X    float64
	Y    float64
	Feed int
}

////////////////////////////////////////////////////////////////////////////////
// 串口传输数据结构
////////////////////////////////////////////////////////////////////////////////

// StreamResult 传输结果
type StreamResult struct {
	PortName     string   `json:"port_name"`     // 实际使用的串口
	SentLines    int      `json:"sent_lines"`    // 已确认的指令数
	FailedLine   int      `json:"failed_line"`   // 出错指令序号（1起，0表示无）
	FailedCmd    string   `json:"failed_cmd"`    // 出错的指令内容
	ResponseTail []string `json:"response_tail"` // 最近收到的设备响应（诊断用）
}

////////////////////////////////////////////////////////////////////////////////
// Web服务相关结构体
////////////////////////////////////////////////////////////////////////////////

// GCodeFileInfo G代码文件信息
type GCodeFileInfo struct {
	Filename    string `json:"filename"`     // 文件名
	FilePath    string `json:"file_path"`    // 完整文件路径
	FileSize    int64  `json:"file_size"`    // 文件大小
	ModifiedAt  string `json:"modified_at"`  // 修改时间
	LineCount   int    `json:"line_count"`   // 指令行数
	StrokeCount int    `json:"stroke_count"` // 笔画数量
}

// PlotStatus 书写状态
type PlotStatus struct {
	IsStreaming bool    `json:"is_streaming"` // 是否正在向设备传输
	CurrentFile string  `json:"current_file"` // 当前G代码文件
	SentLines   int     `json:"sent_lines"`   // 已确认指令数
	TotalLines  int     `json:"total_lines"`  // 总指令数
	Progress    float64 `json:"progress"`     // 传输进度（0-100）
	PortName    string  `json:"port_name"`    // 使用的串口
	ElapsedTime string  `json:"elapsed_time"` // 已耗时
	LastError   string  `json:"last_error"`   // 最近一次错误信息
}

// PlotController 书写任务控制器
type PlotController struct {
	mutex     sync.RWMutex
	status    PlotStatus
	stopChan  chan bool
	isRunning bool
	startTime time.Time
}

// 全局书写任务控制器（仅跟踪Web服务的任务状态，字形库不在其中）
var plotController = &PlotController{
	stopChan: make(chan bool, 1),
}
