package main

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

////////////////////////////////////////////////////////////////////////////////
// G代码文件扫描器模块
////////////////////////////////////////////////////////////////////////////////

// GCodeFileScanner G代码文件扫描器
type GCodeFileScanner struct {
	fileReader *FileReader
}

// NewGCodeFileScanner 创建新的G代码文件扫描器
func NewGCodeFileScanner() *GCodeFileScanner {
	return &GCodeFileScanner{
		fileReader: NewFileReader(),
	}
}

// ScanGCodeFiles 扫描G代码输出目录
func (gfs *GCodeFileScanner) ScanGCodeFiles(dir string, search string) ([]GCodeFileInfo, error) {
	var files []GCodeFileInfo

	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		// 只处理G代码文件
		if d.IsDir() || !strings.HasSuffix(strings.ToLower(d.Name()), ".gcode") {
			return nil
		}

		// 搜索过滤
		if search != "" && !strings.Contains(strings.ToLower(d.Name()), strings.ToLower(search)) {
			return nil
		}

		fileInfo := gfs.ExtractGCodeFileInfo(path)
		if fileInfo != nil {
			files = append(files, *fileInfo)
		}

		return nil
	})

	if err != nil {
		return nil, err
	}

	// 按文件名排序
	sort.Slice(files, func(i, j int) bool {
		return files[i].Filename < files[j].Filename
	})

	return files, nil
}

// ExtractGCodeFileInfo 提取G代码文件信息
// 笔画数按落笔指令(M3)出现次数统计
func (gfs *GCodeFileScanner) ExtractGCodeFileInfo(fpath string) *GCodeFileInfo {
	data, err := os.ReadFile(fpath)
	if err != nil {
		return nil
	}

	stat, err := os.Stat(fpath)
	if err != nil {
		return nil
	}

	lineCount := 0
	strokeCount := 0
	for _, raw := range strings.Split(string(data), "\n") {
		line := strings.TrimSpace(raw)
		if line == "" {
			continue
		}
		lineCount++
		if strings.HasPrefix(line, "M3") {
			strokeCount++
		}
	}

	return &GCodeFileInfo{
		Filename:    filepath.Base(fpath),
		FilePath:    fpath,
		FileSize:    stat.Size(),
		ModifiedAt:  stat.ModTime().Format("2006-01-02 15:04:05"),
		LineCount:   lineCount,
		StrokeCount: strokeCount,
	}
}

// GetGCodeFileList 获取G代码文件列表（用于Web API）
func (gfs *GCodeFileScanner) GetGCodeFileList(dir string, search string) ([]GCodeFileInfo, error) {
	return gfs.ScanGCodeFiles(dir, search)
}

// ValidateGCodeFile 验证G代码文件内容
func (gfs *GCodeFileScanner) ValidateGCodeFile(fpath string) error {
	// 检查文件是否存在
	if err := gfs.fileReader.CheckFileExists(fpath); err != nil {
		return err
	}

	data, err := os.ReadFile(fpath)
	if err != nil {
		return fmt.Errorf("无法读取文件: %v", err)
	}

	encoder := NewGCodeEncoder(GCodeConfig{})
	strokes := encoder.ParseGCode(strings.Split(string(data), "\n"))
	if len(strokes) == 0 {
		return fmt.Errorf("文件中没有有效笔画")
	}

	return nil
}
