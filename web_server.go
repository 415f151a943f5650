package main

import (
	"fmt"
	"math/rand"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
)

////////////////////////////////////////////////////////////////////////////////
// Web服务模块
////////////////////////////////////////////////////////////////////////////////

// WebServer Web服务器
type WebServer struct {
	fileReader   *FileReader
	gcodeScanner *GCodeFileScanner
	config       Config
	library      *GlyphLibrary
	validator    *TextValidator
}

// NewWebServer 创建新的Web服务器
func NewWebServer(cfg Config, library *GlyphLibrary) *WebServer {
	return &WebServer{
		fileReader:   NewFileReader(),
		gcodeScanner: NewGCodeFileScanner(),
		config:       cfg,
		library:      library,
		validator:    NewTextValidator(cfg.BlockedWords),
	}
}

// StartWebServer 启动Web服务器
func (ws *WebServer) StartWebServer() {
	// 设置Gin为发布模式（减少日志输出）
	gin.SetMode(gin.ReleaseMode)

	// 创建轻量级路由（不使用默认的Logger和Recovery中间件）
	r := gin.New()

	// 只添加必要的中间件
	r.Use(gin.Recovery()) // 只保留错误恢复，移除详细日志

	// 允许跨域
	r.Use(func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Content-Type")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	})

	// API路由
	r.GET("/api/ports", ws.getPorts)
	r.GET("/api/library", ws.getLibraryInfo)
	r.POST("/api/preview", ws.previewText)
	r.POST("/api/process", ws.processText)
	r.GET("/api/status", ws.getPlotStatus)
	r.POST("/api/stop", ws.stopPlot)
	r.GET("/api/gcode/files", ws.getGCodeFiles)

	// 静态文件服务（前端）
	r.Static("/static", "./web/static")
	r.LoadHTMLGlob("web/templates/*")

	r.GET("/", func(c *gin.Context) {
		c.HTML(http.StatusOK, "index.html", nil)
	})

	fmt.Println("✍️  手写机器人Web服务启动成功!")
	fmt.Println("🌐 访问地址: http://localhost:8088")

	// 启动服务器
	if err := r.Run(":8088"); err != nil {
		fmt.Printf("❌ Web服务启动失败: %v\n", err)
	}
}

// getPorts 枚举可用串口
func (ws *WebServer) getPorts(c *gin.Context) {
	ports, err := ListPorts()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"ports": ports,
		"total": len(ports),
	})
}

// getLibraryInfo 获取字形库信息
func (ws *WebServer) getLibraryInfo(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"size":  ws.library.Size(),
		"chars": ws.library.Chars(),
	})
}

// previewText 预览排版结果（只排版，不生成G代码不发送）
func (ws *WebServer) previewText(c *gin.Context) {
	var request struct {
		Text string `json:"text"`
		Seed int64  `json:"seed"` // 0表示随机
	}

	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "无效的请求参数"})
		return
	}

	if strings.TrimSpace(request.Text) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "文本不能为空"})
		return
	}

	if err := ws.validator.Validate(request.Text); err != nil {
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
		return
	}

	seed := request.Seed
	if seed == 0 {
		seed = ws.plotSeed()
	}

	assembler := NewWordAssembler(ws.library, ws.config.Layout, ws.config.Smooth, rand.New(rand.NewSource(seed)))
	strokes := assembler.AssembleText(request.Text)

	c.JSON(http.StatusOK, gin.H{
		"strokes":      strokes,
		"stroke_count": len(strokes),
		"seed":         seed,
		"page_width":   ws.config.Layout.PageWidth,
	})
}

// processText 排版+生成G代码，并（非调试模式下）发送到设备
func (ws *WebServer) processText(c *gin.Context) {
	var request struct {
		Text     string `json:"text"`
		Filename string `json:"filename"`
		DryRun   bool   `json:"dry_run"`
		Port     string `json:"port"`
		Seed     int64  `json:"seed"`
	}

	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "无效的请求参数"})
		return
	}

	if strings.TrimSpace(request.Text) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "文本不能为空"})
		return
	}

	if err := ws.validator.Validate(request.Text); err != nil {
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
		return
	}

	// 检查是否已有任务在进行
	plotController.mutex.RLock()
	isRunning := plotController.isRunning
	plotController.mutex.RUnlock()

	if isRunning {
		c.JSON(http.StatusConflict, gin.H{"error": "书写任务正在进行中，请先停止当前任务"})
		return
	}

	filename := sanitizeFilename(request.Filename)
	seed := request.Seed
	if seed == 0 {
		seed = ws.plotSeed()
	}

	// 排版与编码同步完成，保证出错能立即反馈给调用方
	assembler := NewWordAssembler(ws.library, ws.config.Layout, ws.config.Smooth, rand.New(rand.NewSource(seed)))
	strokes := assembler.AssembleText(request.Text)
	if len(strokes) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "文本没有可书写的内容"})
		return
	}

	encoder := NewGCodeEncoder(ws.config.GCode)
	lines := encoder.GenerateGCode(strokes)
	path, err := encoder.SaveGCode(lines, ws.config.OutputDir, filename)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	if request.DryRun || ws.config.DryRun {
		c.JSON(http.StatusOK, gin.H{
			"message":      "调试模式：G代码已生成，未发送",
			"gcode_file":   filepath.Base(path),
			"line_count":   len(lines),
			"stroke_count": len(strokes),
			"seed":         seed,
		})
		return
	}

	// 传输耗时很长，异步执行；状态通过 /api/status 查询
	go startStreamAsync(lines, request.Port, filepath.Base(path), ws.config.Serial)

	c.JSON(http.StatusOK, gin.H{
		"message":      "书写任务已开始",
		"gcode_file":   filepath.Base(path),
		"line_count":   len(lines),
		"stroke_count": len(strokes),
		"seed":         seed,
	})
}

// getPlotStatus 获取书写任务状态
func (ws *WebServer) getPlotStatus(c *gin.Context) {
	plotController.mutex.RLock()
	status := plotController.status
	if plotController.isRunning {
		status.ElapsedTime = time.Since(plotController.startTime).Round(time.Second).String()
	}
	plotController.mutex.RUnlock()

	c.JSON(http.StatusOK, status)
}

// stopPlot 停止书写任务
func (ws *WebServer) stopPlot(c *gin.Context) {
	plotController.mutex.RLock()
	isRunning := plotController.isRunning
	plotController.mutex.RUnlock()

	if !isRunning {
		c.JSON(http.StatusBadRequest, gin.H{"error": "当前没有书写任务在进行"})
		return
	}

	select {
	case plotController.stopChan <- true:
	default:
	}

	c.JSON(http.StatusOK, gin.H{"message": "停止请求已发送，当前指令完成后终止"})
}

// getGCodeFiles 获取G代码文件列表
func (ws *WebServer) getGCodeFiles(c *gin.Context) {
	search := c.Query("search") // 搜索关键词

	files, err := ws.gcodeScanner.GetGCodeFileList(ws.config.OutputDir, search)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": fmt.Sprintf("扫描G代码文件失败: %v", err),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"files": files,
		"total": len(files),
	})
}

// plotSeed 确定随机种子（配置优先，否则按当前时间）
func (ws *WebServer) plotSeed() int64 {
	if ws.config.Seed != 0 {
		return ws.config.Seed
	}
	return time.Now().UnixNano()
}

// sanitizeFilename 清理文件名，只保留安全字符
func sanitizeFilename(name string) string {
	name = strings.TrimSpace(name)
	if name == "" {
		return fmt.Sprintf("handwriting_%s", time.Now().Format("20060102_150405"))
	}

	var b strings.Builder
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
			b.WriteRune(r)
		default:
			b.WriteRune('_')
		}
	}
	return b.String()
}

////////////////////////////////////////////////////////////////////////////////
// 异步传输任务
////////////////////////////////////////////////////////////////////////////////

// startStreamAsync 异步执行设备传输，状态写入全局控制器
func startStreamAsync(lines []string, port string, filename string, serialCfg SerialConfig) {
	// 清掉上一次任务可能残留的停止信号
	select {
	case <-plotController.stopChan:
	default:
	}

	plotController.mutex.Lock()
	plotController.isRunning = true
	plotController.startTime = time.Now()
	plotController.status = PlotStatus{
		IsStreaming: true,
		CurrentFile: filename,
		TotalLines:  len(lines),
	}
	plotController.mutex.Unlock()

	streamer := NewDeviceStreamer(serialCfg)
	streamer.SetProgressCallback(func(sent, total int) {
		plotController.mutex.Lock()
		plotController.status.SentLines = sent
		plotController.status.TotalLines = total
		if total > 0 {
			plotController.status.Progress = float64(sent) / float64(total) * 100
		}
		plotController.mutex.Unlock()
	})

	result, err := streamer.Stream(lines, port, plotController.stopChan)

	plotController.mutex.Lock()
	plotController.isRunning = false
	plotController.status.IsStreaming = false
	plotController.status.SentLines = result.SentLines
	plotController.status.PortName = result.PortName
	plotController.status.ElapsedTime = time.Since(plotController.startTime).Round(time.Second).String()
	if err != nil {
		plotController.status.LastError = err.Error()
	} else {
		plotController.status.LastError = ""
		plotController.status.Progress = 100
	}
	plotController.mutex.Unlock()

	if err != nil {
		fmt.Printf("❌ 书写任务终止: %v\n", err)
		return
	}
	fmt.Printf("✅ 书写任务完成: %s (%d条指令)\n", filename, result.SentLines)
}
