package strutil

import "strconv"

// 中文数字映射表，含大写（壹贰叁）与异体（兩/两、陸/陆）变体
var chineseDigits = map[rune]int{
	'零': 0, '〇': 0,
	'一': 1, '壹': 1,
	'二': 2, '贰': 2, '貳': 2, '两': 2, '兩': 2,
	'三': 3, '叁': 3, '參': 3, '参': 3,
	'四': 4, '肆': 4,
	'五': 5, '伍': 5,
	'六': 6, '陆': 6, '陸': 6,
	'七': 7, '柒': 7,
	'八': 8, '捌': 8,
	'九': 9, '玖': 9,
}

var chineseTens = map[rune]int{
	'十': 10, '拾': 10,
}

// ChineseToNumber 将中文数字或阿拉伯数字字符串转换为整数
// 支持: 一二三...九十、大写壹贰叁、阿拉伯数字、组合形式
// "十"按惯例组合: 十五=15、二十=20、二十五=25
// 解析失败返回0
func ChineseToNumber(str string) int {
	if str == "" {
		return 0
	}

	// 先尝试直接转换阿拉伯数字
	if num, err := strconv.Atoi(str); err == nil {
		return num
	}

	runes := []rune(str)

	// 单字符
	if len(runes) == 1 {
		if n, ok := chineseDigits[runes[0]]; ok {
			return n
		}
		if n, ok := chineseTens[runes[0]]; ok {
			return n
		}
		return 0
	}

	// "十X" 格式（十一、十二...十九）
	if _, ok := chineseTens[runes[0]]; ok && len(runes) == 2 {
		if ones, ok := chineseDigits[runes[1]]; ok {
			return 10 + ones
		}
		return 0
	}

	// "X十" 格式（二十、三十...九十）
	if len(runes) == 2 {
		tens, okTens := chineseDigits[runes[0]]
		if _, okTen := chineseTens[runes[1]]; okTens && okTen && tens > 0 {
			return tens * 10
		}
		return 0
	}

	// "X十Y" 格式（二十一、三十五...）
	if len(runes) == 3 {
		tens, okTens := chineseDigits[runes[0]]
		_, okTen := chineseTens[runes[1]]
		ones, okOnes := chineseDigits[runes[2]]
		if okTens && okTen && okOnes && tens > 0 && ones > 0 {
			return tens*10 + ones
		}
	}

	return 0
}

// IsChineseNumeral 判断字符是否为受支持的中文数字字符
func IsChineseNumeral(r rune) bool {
	if _, ok := chineseDigits[r]; ok {
		return true
	}
	_, ok := chineseTens[r]
	return ok
}
