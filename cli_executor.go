package main

import (
	"flag"
	"fmt"
	"math/rand"
	"time"
)

////////////////////////////////////////////////////////////////////////////////
// 命令行执行模块
////////////////////////////////////////////////////////////////////////////////

// CLIExecutor 命令行执行器
type CLIExecutor struct {
	fileReader *FileReader
}

// NewCLIExecutor 创建新的命令行执行器
func NewCLIExecutor() *CLIExecutor {
	return &CLIExecutor{
		fileReader: NewFileReader(),
	}
}

// PrintUsage 打印使用说明
func (cli *CLIExecutor) PrintUsage() {
	fmt.Println("✍️  手写机器人控制系统")
	fmt.Println("\n用法:")
	fmt.Println("  1. 直接书写模式:")
	fmt.Println("    ./handwriting -text \"Hello World\" -port /dev/ttyUSB0")
	fmt.Println("    → 排版、生成G代码并发送到设备")
	fmt.Println("\n  2. 调试模式（只生成G代码不发送）:")
	fmt.Println("    ./handwriting -text \"Hello World\" -dry -out hello")
	fmt.Println("    → 生成: output_gcode/hello.gcode")
	fmt.Println("\n  3. 离线规范化模式（重建字形库）:")
	fmt.Println("    ./handwriting -normalize")
	fmt.Println("    → 扫描stroke_library/目录并重建normalized_library.json")
	fmt.Println("\n  4. Web服务模式:")
	fmt.Println("    ./handwriting")
	fmt.Println("    ./handwriting -config config.yaml")
	fmt.Println("\n参数说明:")
	flag.PrintDefaults()
	fmt.Println("\n完整示例:")
	fmt.Println("  # 固定种子书写（同样文本每次轨迹完全一致）")
	fmt.Println("  ./handwriting -text \"Dear friend\" -seed 42 -port /dev/ttyUSB0")
	fmt.Println("")
	fmt.Println("  # 只生成G代码，不连接设备")
	fmt.Println("  ./handwriting -text \"Dear friend\" -dry -out letter_draft")
	fmt.Println("")
	fmt.Println("  # 启动Web服务（默认监听8088端口）")
	fmt.Println("  ./handwriting")
}

// RunNormalize 离线规范化：扫描原始笔画库目录，重建规范化字形库文件
func (cli *CLIExecutor) RunNormalize(configFile string) error {
	cfg := cli.fileReader.LoadConfig(configFile)

	fmt.Printf("🔄 正在规范化笔画库: %s\n", cfg.StrokeDir)
	normalizer := NewNormalizer()
	library, err := normalizer.BuildLibraryFromDir(cfg.StrokeDir)
	if err != nil {
		return err
	}

	if err := cli.fileReader.SaveGlyphLibrary(library, cfg.LibraryPath); err != nil {
		return err
	}

	fmt.Printf("✅ 字形库已保存: %s (%d个字形)\n", cfg.LibraryPath, len(library))
	return nil
}

// RunDirectPlot 直接书写模式：排版 → 生成G代码 → 发送到设备
func (cli *CLIExecutor) RunDirectPlot(text, configFile, port, outName string, seed int64, baud int, dryRun bool) error {
	cfg := cli.fileReader.LoadConfig(configFile)

	// 应用命令行覆盖
	if dryRun {
		cfg.DryRun = true
	}
	if baud > 0 {
		cfg.Serial.BaudRate = baud
	}
	if seed == 0 {
		seed = cfg.Seed
		if seed == 0 {
			seed = time.Now().UnixNano()
		}
	}

	// 内容校验
	validator := NewTextValidator(cfg.BlockedWords)
	if err := validator.Validate(text); err != nil {
		return err
	}

	// 加载字形库
	library, err := cli.fileReader.LoadGlyphLibrary(cfg.LibraryPath)
	if err != nil {
		return err
	}
	fmt.Printf("✅ 字形库已加载: %d个字形\n", library.Size())

	// 排版
	assembler := NewWordAssembler(library, cfg.Layout, cfg.Smooth, rand.New(rand.NewSource(seed)))
	strokes := assembler.AssembleText(text)
	if len(strokes) == 0 {
		return fmt.Errorf("文本没有可书写的内容")
	}
	fmt.Printf("✅ 排版完成: %d条笔画 (种子%d)\n", len(strokes), seed)

	// 生成并保存G代码
	encoder := NewGCodeEncoder(cfg.GCode)
	lines := encoder.GenerateGCode(strokes)
	path, err := encoder.SaveGCode(lines, cfg.OutputDir, sanitizeFilename(outName))
	if err != nil {
		return err
	}

	if cfg.DryRun {
		fmt.Printf("🔧 调试模式: G代码已生成，未发送 (%s)\n", path)
		return nil
	}

	// 发送到设备
	streamer := NewDeviceStreamer(cfg.Serial)
	streamer.SetProgressCallback(func(sent, total int) {
		if sent%50 == 0 || sent == total {
			fmt.Printf("🔄 进度: %d/%d\n", sent, total)
		}
	})

	result, err := streamer.Stream(lines, port, plotController.stopChan)
	if err != nil {
		if len(result.ResponseTail) > 0 {
			fmt.Println("📋 设备最近响应:")
			for _, resp := range result.ResponseTail {
				fmt.Printf("    %s\n", resp)
			}
		}
		return err
	}

	fmt.Printf("✅ 书写完成: %d条指令 (串口%s)\n", result.SentLines, result.PortName)
	return nil
}
