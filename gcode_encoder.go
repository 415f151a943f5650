package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

////////////////////////////////////////////////////////////////////////////////
// G代码编码器模块
////////////////////////////////////////////////////////////////////////////////

// GCodeEncoder G代码编码器
// 纯函数式编码：笔画序列 → 运动指令程序 → G代码文本。
// 输出确定且完整，同样的输入永远产生同样的程序。
type GCodeEncoder struct {
	cfg GCodeConfig
}

// NewGCodeEncoder 创建新的G代码编码器
func NewGCodeEncoder(cfg GCodeConfig) *GCodeEncoder {
	return &GCodeEncoder{cfg: cfg}
}

// EncodeStrokes 把笔画序列编码为运动指令程序
// 结构：设速 → 每条笔画{抬笔、快速定位到起点、落笔、逐点直线插补、抬笔}
// → 回原点 → 结束。少于2个点的笔画直接丢弃（非致命）。
func (ge *GCodeEncoder) EncodeStrokes(strokes []Stroke) []MotionCommand {
	cmds := []MotionCommand{
		{Kind: CmdSetSpeed, Feed: ge.cfg.FeedRate},
	}

	for _, stroke := range strokes {
		if len(stroke) < 2 {
			continue
		}

		cmds = append(cmds,
			MotionCommand{Kind: CmdPenUp},
			MotionCommand{Kind: CmdRapidTo, X: stroke[0].X, Y: stroke[0].Y},
			MotionCommand{Kind: CmdPenDown},
		)
		for _, p := range stroke[1:] {
			cmds = append(cmds, MotionCommand{Kind: CmdLineTo, X: p.X, Y: p.Y})
		}
		cmds = append(cmds, MotionCommand{Kind: CmdPenUp})
	}

	cmds = append(cmds,
		MotionCommand{Kind: CmdHome},
		MotionCommand{Kind: CmdEnd},
	)
	return cmds
}

// FormatProgram 把运动指令程序格式化为G代码文本行
// 开头固定声明毫米单位与绝对坐标模式；坐标固定1位小数
func (ge *GCodeEncoder) FormatProgram(cmds []MotionCommand) []string {
	lines := []string{
		"G21", // 毫米单位
		"G90", // 绝对坐标模式
	}

	for _, cmd := range cmds {
		switch cmd.Kind {
		case CmdSetSpeed:
			lines = append(lines, fmt.Sprintf("G1 F%d", cmd.Feed))
		case CmdPenUp:
			lines = append(lines, "M5")
		case CmdPenDown:
			lines = append(lines, fmt.Sprintf("M3 S%d", ge.cfg.PenDownPower))
		case CmdRapidTo:
			lines = append(lines, fmt.Sprintf("G0 X%.1f Y%.1f", cmd.X, cmd.Y))
		case CmdLineTo:
			lines = append(lines, fmt.Sprintf("G1 X%.1f Y%.1f", cmd.X, cmd.Y))
		case CmdHome:
			lines = append(lines, "G0 X0 Y0")
		case CmdEnd:
			lines = append(lines, "M2")
		}
	}
	return lines
}

// GenerateGCode 笔画序列 → G代码文本行（编码+格式化）
func (ge *GCodeEncoder) GenerateGCode(strokes []Stroke) []string {
	return ge.FormatProgram(ge.EncodeStrokes(strokes))
}

// SaveGCode 保存G代码文件，返回完整路径
func (ge *GCodeEncoder) SaveGCode(lines []string, outputDir, name string) (string, error) {
	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return "", fmt.Errorf("创建输出目录失败 %s: %v", outputDir, err)
	}

	path := filepath.Join(outputDir, name+".gcode")
	content := strings.Join(lines, "\n") + "\n"
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		return "", fmt.Errorf("保存G代码失败 %s: %v", path, err)
	}

	fmt.Printf("🚀 G代码已保存: %s (%d行)\n", path, len(lines))
	return path, nil
}

// ParseGCode 把G代码文本行解析回笔画序列
// 只认本编码器输出的指令字；用于往返校验与文件分析
func (ge *GCodeEncoder) ParseGCode(lines []string) []Stroke {
	var strokes []Stroke
	var current Stroke
	var pos Point
	penDown := false

	for _, raw := range lines {
		line := raw
		if idx := strings.Index(line, ";"); idx >= 0 {
			line = line[:idx]
		}
		fields := strings.Fields(line)
		if len(fields) == 0 {
			continue
		}

		switch fields[0] {
		case "M3":
			penDown = true
			current = Stroke{pos}
		case "M5":
			if penDown && len(current) >= 2 {
				strokes = append(strokes, current)
			}
			penDown = false
			current = nil
		case "G0", "G1":
			x, okX := parseCoord(fields, "X")
			y, okY := parseCoord(fields, "Y")
			if !okX || !okY {
				continue // 设速行等没有坐标
			}
			pos = Point{X: x, Y: y}
			if penDown {
				current = append(current, pos)
			}
		}
	}
	return strokes
}

// parseCoord 从G代码字段中取出指定轴的坐标
func parseCoord(fields []string, axis string) (float64, bool) {
	for _, f := range fields[1:] {
		if strings.HasPrefix(f, axis) {
			v, err := strconv.ParseFloat(f[len(axis):], 64)
			if err != nil {
				return 0, false
			}
			return v, true
		}
	}
	return 0, false
}
