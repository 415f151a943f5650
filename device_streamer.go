package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	serial "go.bug.st/serial.v1"
)

////////////////////////////////////////////////////////////////////////////////
// 设备传输模块
////////////////////////////////////////////////////////////////////////////////

// StreamState 传输状态机状态
type StreamState int

const (
	StateDisconnected StreamState = iota // 未连接
	StateConnecting                      // 正在打开串口
	StateFlushing                        // 唤醒设备并清空缓冲区
	StateReady                           // 就绪
	StateSending                         // 正在发送指令
	StateAwaitingAck                     // 等待设备应答
	StateClosed                          // 已正常关闭
	StateFaulted                         // 出错终止
)

// String 状态名称
func (s StreamState) String() string {
	switch s {
	case StateDisconnected:
		return "Disconnected"
	case StateConnecting:
		return "Connecting"
	case StateFlushing:
		return "Flushing"
	case StateReady:
		return "Ready"
	case StateSending:
		return "Sending"
	case StateAwaitingAck:
		return "AwaitingAck"
	case StateClosed:
		return "Closed"
	case StateFaulted:
		return "Faulted"
	}
	return fmt.Sprintf("StreamState(%d)", int(s))
}

// ErrUserStopped 用户主动停止任务
var ErrUserStopped = errors.New("用户停止了书写任务")

// ProtocolError 设备返回了错误或报警应答
type ProtocolError struct {
	Line     int      // 出错指令序号（1起）
	Cmd      string   // 出错的指令内容
	Response string   // 触发错误的设备应答
	Tail     []string // 最近收到的设备响应
}

func (e *ProtocolError) Error() string {
	return fmt.Sprintf("设备在第%d条指令 '%s' 返回异常应答: %s", e.Line, e.Cmd, e.Response)
}

// AckTimeoutError 等待设备应答超时
type AckTimeoutError struct {
	Line int      // 超时指令序号（1起）
	Cmd  string   // 超时的指令内容
	Tail []string // 最近收到的设备响应
}

func (e *AckTimeoutError) Error() string {
	return fmt.Sprintf("第%d条指令 '%s' 等待应答超时", e.Line, e.Cmd)
}

// LineTransport 行式传输通道
// go.bug.st/serial.v1的Port天然满足该接口；测试时注入脚本化实现
type LineTransport interface {
	io.ReadWriteCloser
	ResetInputBuffer() error
	ResetOutputBuffer() error
}

// responseTail 设备响应环形缓冲区（只保留最近几条，诊断用）
type responseTail struct {
	entries []string
}

// Push 追加一条响应，超出容量时丢弃最旧的
func (rt *responseTail) Push(line string) {
	rt.entries = append(rt.entries, line)
	if len(rt.entries) > ResponseTailSize {
		rt.entries = rt.entries[len(rt.entries)-ResponseTailSize:]
	}
}

// Snapshot 返回当前内容的拷贝
func (rt *responseTail) Snapshot() []string {
	out := make([]string, len(rt.entries))
	copy(out, rt.entries)
	return out
}

// DeviceStreamer 设备传输器
// 按严格的逐条应答协议发送G代码：发送一条，等设备"ok"再发下一条。
// 任何异常应答或超时立即终止，不做重试；串口保证被关闭。
type DeviceStreamer struct {
	cfg SerialConfig

	// openPort 串口打开函数（测试时替换为脚本化传输通道）
	openPort func(portName string, baudRate int) (LineTransport, error)

	// onProgress 每条指令确认后的进度回调（可为nil）
	onProgress func(sent, total int)
}

// NewDeviceStreamer 创建新的设备传输器
func NewDeviceStreamer(cfg SerialConfig) *DeviceStreamer {
	return &DeviceStreamer{
		cfg: cfg,
		openPort: func(portName string, baudRate int) (LineTransport, error) {
			return serial.Open(portName, &serial.Mode{BaudRate: baudRate})
		},
	}
}

// SetProgressCallback 设置进度回调
func (ds *DeviceStreamer) SetProgressCallback(fn func(sent, total int)) {
	ds.onProgress = fn
}

// ListPorts 枚举系统中的串口
func ListPorts() ([]string, error) {
	ports, err := serial.GetPortsList()
	if err != nil {
		return nil, fmt.Errorf("枚举串口失败: %v", err)
	}
	return ports, nil
}

// ResolvePort 确定要使用的串口
// 优先级：显式指定 → 配置文件 → 系统中唯一的串口（多个或没有则报错）
func (ds *DeviceStreamer) ResolvePort(explicit string) (string, error) {
	if explicit != "" {
		return explicit, nil
	}
	if ds.cfg.PortName != "" {
		return ds.cfg.PortName, nil
	}

	ports, err := ListPorts()
	if err != nil {
		return "", err
	}
	switch len(ports) {
	case 0:
		return "", fmt.Errorf("没有找到可用串口，请检查设备连接")
	case 1:
		fmt.Printf("🔄 自动选择串口: %s\n", ports[0])
		return ports[0], nil
	}
	return "", fmt.Errorf("找到多个串口 %v，请在配置或参数中指定一个", ports)
}

// Stream 把G代码程序逐条发送到设备
// portName为空时按ResolvePort规则自动确定。
// stop通道只在两条指令之间检查；当前指令一旦发出必须等到应答或超时。
// 无论成功失败，返回前串口一定被关闭。
func (ds *DeviceStreamer) Stream(lines []string, portName string, stop <-chan bool) (result StreamResult, err error) {
	tail := &responseTail{}

	port, err := ds.ResolvePort(portName)
	if err != nil {
		return result, err
	}
	result.PortName = port

	// 预处理：去掉注释与空行，只发送有效指令
	commands := make([]string, 0, len(lines))
	for _, raw := range lines {
		line := raw
		if idx := strings.Index(line, ";"); idx >= 0 {
			line = line[:idx]
		}
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		commands = append(commands, line)
	}
	total := len(commands)

	state := StateConnecting
	fmt.Printf("🔄 正在连接设备 %s (波特率%d)...\n", port, ds.cfg.BaudRate)
	transport, err := ds.openPort(port, ds.cfg.BaudRate)
	if err != nil {
		state = StateFaulted
		return result, fmt.Errorf("打开串口 %s 失败: %v", port, err)
	}

	defer func() {
		transport.Close()
		if state != StateFaulted {
			state = StateClosed
		}
		result.ResponseTail = tail.Snapshot()
	}()

	// 唤醒：很多控制器上电/打开串口后会复位，需要等它启动完成，
	// 再清掉启动横幅，避免残留数据干扰应答判定
	state = StateFlushing
	time.Sleep(time.Duration(ds.cfg.WakeDelayMS) * time.Millisecond)
	if _, err := transport.Write([]byte("\r\n")); err != nil {
		state = StateFaulted
		return result, fmt.Errorf("设备唤醒失败: %v", err)
	}
	time.Sleep(200 * time.Millisecond)
	if err := transport.ResetInputBuffer(); err != nil {
		state = StateFaulted
		return result, fmt.Errorf("清空接收缓冲区失败: %v", err)
	}
	if err := transport.ResetOutputBuffer(); err != nil {
		state = StateFaulted
		return result, fmt.Errorf("清空发送缓冲区失败: %v", err)
	}

	// 读取协程：串口库没有读超时，把行读取挪到协程里用通道配合超时。
	// 串口关闭后Read返回错误，协程随之退出
	lineChan := make(chan string, 16)
	go func() {
		defer close(lineChan)
		scanner := bufio.NewScanner(transport)
		for scanner.Scan() {
			lineChan <- scanner.Text()
		}
	}()

	state = StateReady
	fmt.Printf("✅ 设备就绪，开始发送 %d 条指令\n", total)
	timeout := time.Duration(ds.cfg.LineTimeoutMS) * time.Millisecond

	for i, cmd := range commands {
		// 停止请求只在指令间隔生效
		select {
		case <-stop:
			fmt.Println("🛑 收到停止请求，终止发送")
			return result, ErrUserStopped
		default:
		}

		state = StateSending
		if _, err := transport.Write([]byte(cmd + "\n")); err != nil {
			state = StateFaulted
			result.FailedLine = i + 1
			result.FailedCmd = cmd
			return result, fmt.Errorf("发送第%d条指令失败: %v", i+1, err)
		}

		state = StateAwaitingAck
		deadline := time.Now().Add(timeout)
		acked := false
		for !acked {
			remaining := time.Until(deadline)
			if remaining <= 0 {
				state = StateFaulted
				result.FailedLine = i + 1
				result.FailedCmd = cmd
				return result, &AckTimeoutError{Line: i + 1, Cmd: cmd, Tail: tail.Snapshot()}
			}

			select {
			case resp, open := <-lineChan:
				if !open {
					state = StateFaulted
					result.FailedLine = i + 1
					result.FailedCmd = cmd
					return result, fmt.Errorf("第%d条指令应答前串口读取中断", i+1)
				}
				resp = strings.TrimSpace(resp)
				if resp == "" {
					continue
				}
				tail.Push(resp)

				lower := strings.ToLower(resp)
				switch {
				case strings.HasPrefix(lower, "ok"):
					acked = true
				case strings.Contains(lower, "error") || strings.Contains(lower, "alarm"):
					state = StateFaulted
					result.FailedLine = i + 1
					result.FailedCmd = cmd
					return result, &ProtocolError{Line: i + 1, Cmd: cmd, Response: resp, Tail: tail.Snapshot()}
				default:
					// 状态上报等无关输出，记入诊断缓冲后继续等待
				}

			case <-time.After(remaining):
				state = StateFaulted
				result.FailedLine = i + 1
				result.FailedCmd = cmd
				return result, &AckTimeoutError{Line: i + 1, Cmd: cmd, Tail: tail.Snapshot()}
			}
		}

		result.SentLines++
		if ds.onProgress != nil {
			ds.onProgress(result.SentLines, total)
		}
	}

	fmt.Printf("✅ 全部 %d 条指令发送完成\n", total)
	return result, nil
}
