package main

import (
	"encoding/json"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

////////////////////////////////////////////////////////////////////////////////
// 文件读取器模块
////////////////////////////////////////////////////////////////////////////////

// FileReader 文件读取器
type FileReader struct{}

// NewFileReader 创建新的文件读取器
func NewFileReader() *FileReader {
	return &FileReader{}
}

// LoadConfig 加载主配置文件
func (fr *FileReader) LoadConfig(path string) Config {
	data, err := os.ReadFile(path)
	if err != nil {
		fmt.Printf("❌ 错误: 无法读取配置文件 %s: %v\n", path, err)
		os.Exit(1)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		fmt.Printf("❌ 错误: 配置文件格式错误 %s: %v\n", path, err)
		os.Exit(1)
	}

	applyConfigDefaults(&cfg)
	return cfg
}

// applyConfigDefaults 填充缺省配置
func applyConfigDefaults(cfg *Config) {
	if cfg.LibraryPath == "" {
		cfg.LibraryPath = "normalized_library.json"
	}
	if cfg.StrokeDir == "" {
		cfg.StrokeDir = "stroke_library"
	}
	if cfg.OutputDir == "" {
		cfg.OutputDir = "output_gcode"
	}

	// 排版缺省值：A4页面，7毫米大写字高，13毫米行距（与预览标尺一致）
	l := &cfg.Layout
	if l.CapHeightScale <= 0 {
		l.CapHeightScale = 0.07
	}
	if l.XHeightRatio <= 0 {
		l.XHeightRatio = 0.62
	}
	if l.AscenderRatio <= 0 {
		l.AscenderRatio = 1.12
	}
	if l.DescenderDropRatio <= 0 {
		l.DescenderDropRatio = 0.28
	}
	if l.PageWidth <= 0 {
		l.PageWidth = 210
	}
	if l.LeftMargin <= 0 {
		l.LeftMargin = 10
	}
	if l.LineTop <= 0 {
		l.LineTop = 25
	}
	if l.LineHeight <= 0 {
		l.LineHeight = 13
	}
	if l.CharPadding <= 0 {
		l.CharPadding = 1.8
	}
	if l.Shear <= 0 {
		l.Shear = 0.10
	}
	if l.SizeJitter <= 0 {
		l.SizeJitter = 0.015
	}
	if l.JitterX <= 0 {
		l.JitterX = 0.12
	}
	if l.JitterY <= 0 {
		l.JitterY = 0.06
	}
	if l.StrokeOffset <= 0 {
		l.StrokeOffset = 0.15
	}
	if l.BaselineDrift <= 0 {
		l.BaselineDrift = 0.6
	}

	// 平滑缺省值
	s := &cfg.Smooth
	if s.MinDist <= 0 {
		s.MinDist = 0.005
	}
	if s.OutlierThreshold <= 0 {
		s.OutlierThreshold = 2.5
	}
	if s.ResampleSpacing <= 0 {
		s.ResampleSpacing = 0.25
	}
	if s.ChaikinIters <= 0 {
		s.ChaikinIters = 3
	}
	if s.SplineFactor <= 0 {
		s.SplineFactor = 2.5
	}
	if s.GaussianSigma <= 0 {
		s.GaussianSigma = 2.0
	}
	if s.FinalSpacing <= 0 {
		s.FinalSpacing = 0.4
	}

	// G代码缺省值
	if cfg.GCode.FeedRate <= 0 {
		cfg.GCode.FeedRate = 1000
	}
	if cfg.GCode.PenDownPower <= 0 {
		cfg.GCode.PenDownPower = 500
	}

	// 串口缺省值
	if cfg.Serial.BaudRate <= 0 {
		cfg.Serial.BaudRate = 115200
	}
	if cfg.Serial.LineTimeoutMS <= 0 {
		cfg.Serial.LineTimeoutMS = 8000
	}
	if cfg.Serial.WakeDelayMS <= 0 {
		cfg.Serial.WakeDelayMS = 2000
	}
}

// LoadGlyphLibrary 加载规范化字形库
// 文件格式：{"a": {"strokes": [[[x,y],...],...], "width": 65}, ...}
// null条目表示该字符规范化失败（缺失），不会进入库中
func (fr *FileReader) LoadGlyphLibrary(path string) (*GlyphLibrary, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("无法读取字形库文件 %s: %v", path, err)
	}

	var glyphs map[string]*Glyph
	if err := json.Unmarshal(data, &glyphs); err != nil {
		return nil, fmt.Errorf("字形库文件格式错误 %s: %v", path, err)
	}

	library := NewGlyphLibrary(glyphs)
	if library.Size() == 0 {
		return nil, fmt.Errorf("字形库为空 %s", path)
	}

	return library, nil
}

// LoadRawStrokes 加载数字化器输出的单字符原始笔画文件
// 文件格式：{"a": [[[x,y],...],...]}，键为字符名
func (fr *FileReader) LoadRawStrokes(path string) (map[string][]Stroke, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("无法读取笔画文件 %s: %v", path, err)
	}

	var raw map[string][]Stroke
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("笔画文件格式错误 %s: %v", path, err)
	}

	return raw, nil
}

// SaveGlyphLibrary 保存规范化字形库
func (fr *FileReader) SaveGlyphLibrary(glyphs map[string]*Glyph, path string) error {
	data, err := json.MarshalIndent(glyphs, "", "  ")
	if err != nil {
		return fmt.Errorf("字形库序列化失败: %v", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("字形库保存失败 %s: %v", path, err)
	}

	return nil
}

// CheckFileExists 检查文件是否存在
func (fr *FileReader) CheckFileExists(path string) error {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return fmt.Errorf("文件不存在: %s", path)
	}
	return nil
}
