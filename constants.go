package main

////////////////////////////////////////////////////////////////////////////////
// 常量定义
////////////////////////////////////////////////////////////////////////////////

const (
	// TargetHeight 规范化字形的目标高度
	TargetHeight = 100.0

	// CoordPrecision 规范化坐标的小数位数（保证结果可复现）
	CoordPrecision = 2

	// SpaceAdvance 空格的规范化前进宽度
	SpaceAdvance = 60.0

	// ResponseTailSize 设备响应环形缓冲区大小（诊断用）
	ResponseTailSize = 5
)

// 宽高比上限（宽度/高度），按字符类别
// 自然手写中大多数字母宽度约为字高的0.5-0.9倍，超限的字形会被压缩X方向
const (
	MaxAspectLower  = 1.00 // 小写字母
	MaxAspectUpper  = 1.05 // 大写字母（M、W天生偏宽）
	MaxAspectSymbol = 1.20 // 符号与数字
)

// 个别字符的宽高比上限覆盖（天生偏宽或偏窄的字形）
var maxAspectSpecial = map[string]float64{
	"m": 1.30, "w": 1.20, "M": 1.30, "W": 1.20,
	"-": 1.50, "%": 1.00, "&": 0.80,
}

// 理想宽度表（以字高100为基准）
// 用于把数字化时严重变形的字符拉回自然比例：
// 偏差在±50%以内的字符不做处理，只纠正极端离群的字形
var idealWidth = map[string]float64{
	// 小写字母
	"a": 65, "b": 60, "c": 55, "d": 60, "e": 55, "f": 40,
	"g": 55, "h": 60, "i": 30, "j": 35, "k": 55, "l": 30,
	"m": 90, "n": 60, "o": 55, "p": 60, "q": 60, "r": 45,
	"s": 50, "t": 40, "u": 60, "v": 55, "w": 80, "x": 55,
	"y": 50, "z": 55,
	// 大写字母
	"A": 75, "B": 65, "C": 65, "D": 70, "E": 60, "F": 55,
	"G": 65, "H": 75, "I": 40, "J": 45, "K": 65, "L": 60,
	"M": 90, "N": 75, "O": 70, "P": 60, "Q": 70, "R": 65,
	"S": 55, "T": 65, "U": 70, "V": 70, "W": 90, "X": 65,
	"Y": 60, "Z": 60,
}

// 前进宽度表（规范化单位，以字高100为基准）
// 排版时字符占位宽度查这张表，而不是字形自身的渲染宽度，
// 这样无论数字化样本比例如何，字距都保持均匀
var advanceWidth = map[string]float64{
	// 字母复用理想宽度表（见advanceWidthFor）
	// 符号与数字
	"!": 6, ",": 8, ";": 10, "-": 35,
	"(": 15, ")": 15, "[": 15, "]": 15,
	"{": 18, "}": 18, "&": 42, "%": 40,
	".": 8, "?": 45, "'": 6, ":": 10,
	"0": 55, "1": 35, "2": 55, "3": 55, "4": 55,
	"5": 55, "6": 55, "7": 55, "8": 55, "9": 55,
}

// DefaultAdvanceWidth 未知字符的前进宽度
const DefaultAdvanceWidth = 55.0

// advanceWidthFor 查字符的前进宽度
func advanceWidthFor(char string) float64 {
	if w, exists := idealWidth[char]; exists {
		return w
	}
	if w, exists := advanceWidth[char]; exists {
		return w
	}
	return DefaultAdvanceWidth
}

// 小写字母分类集合
// 注意'f'同时出现在两个集合中（既有升部又有降部）
var descenderSet = map[rune]bool{
	'f': true, 'g': true, 'j': true, 'p': true, 'q': true, 'y': true, 'z': true,
}

var ascenderSet = map[rune]bool{
	'b': true, 'd': true, 'f': true, 'h': true, 'k': true, 'l': true, 't': true,
}

// 内置禁写关键词（内容安全检查，可通过配置追加）
var defaultBlockedWords = []string{"signature", "sign", "sincerely"}
