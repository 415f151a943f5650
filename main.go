package main

import (
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
)

////////////////////////////////////////////////////////////////////////////////
// 主程序入口
////////////////////////////////////////////////////////////////////////////////

func main() {
	// 设置信号处理：退出前向传输任务发送停止信号，保证抬笔并关闭串口
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigChan
		fmt.Println("\n🛑 收到退出信号，正在停止书写任务...")
		select {
		case plotController.stopChan <- true:
		default:
		}
		os.Exit(0)
	}()

	// 定义命令行参数
	var (
		text       = flag.String("text", "", "要书写的文本 (例: \"Hello World\")")
		configFile = flag.String("config", "config.yaml", "配置文件路径")
		port       = flag.String("port", "", "串口名称 (留空时自动探测)")
		baud       = flag.Int("baud", 0, "波特率 (0表示使用配置文件中的值)")
		outName    = flag.String("out", "", "输出G代码文件名 (不含扩展名，留空自动命名)")
		seed       = flag.Int64("seed", 0, "随机种子 (0表示使用配置文件或当前时间)")
		dryRun     = flag.Bool("dry", false, "调试模式，只生成G代码不发送")
		normalize  = flag.Bool("normalize", false, "离线规范化模式，重建字形库后退出")
		help       = flag.Bool("help", false, "显示帮助信息")
	)

	flag.Parse()

	if *help {
		cliExecutor := NewCLIExecutor()
		cliExecutor.PrintUsage()
		return
	}

	// 离线规范化模式
	if *normalize {
		cliExecutor := NewCLIExecutor()
		if err := cliExecutor.RunNormalize(*configFile); err != nil {
			fmt.Printf("❌ 规范化失败: %v\n", err)
			os.Exit(1)
		}
		return
	}

	// 如果指定了文本，直接书写模式
	if *text != "" {
		cliExecutor := NewCLIExecutor()
		if err := cliExecutor.RunDirectPlot(*text, *configFile, *port, *outName, *seed, *baud, *dryRun); err != nil {
			fmt.Printf("❌ 书写失败: %v\n", err)
			os.Exit(1)
		}
		return
	}

	// 否则启动Web服务
	fileReader := NewFileReader()
	cfg := fileReader.LoadConfig(*configFile)
	library, err := fileReader.LoadGlyphLibrary(cfg.LibraryPath)
	if err != nil {
		fmt.Printf("❌ 错误: %v\n", err)
		fmt.Println("   请先运行 -normalize 重建字形库")
		os.Exit(1)
	}
	fmt.Printf("✅ 字形库已加载: %d个字形\n", library.Size())

	webServer := NewWebServer(cfg, library)
	webServer.StartWebServer()
}
