package utils

import "strings"

// TruncateString cuts str to num characters, ending in "..." when there is room.
func TruncateString(str string, num int) string {
	if len(str) <= num {
		return str
	}
	if num <= 3 {
		return str[:num]
	}
	return str[0:num-3] + "..."
}

// AddCommas groups the integer part of a decimal string in thousands.
func AddCommas(s string) string {
	if len(s) == 0 {
		return s
	}
	parts := strings.Split(s, ".")
	integerPart := parts[0]
	sign := ""
	if strings.HasPrefix(integerPart, "-") {
		sign = "-"
		integerPart = integerPart[1:]
	}

	n := len(integerPart)
	if n <= 3 {
		return s
	}

	var result strings.Builder
	result.WriteString(sign)
	remainder := n % 3
	if remainder > 0 {
		result.WriteString(integerPart[:remainder])
		result.WriteString(",")
	}
	for i := remainder; i < n; i += 3 {
		if i > remainder {
			result.WriteString(",")
		}
		result.WriteString(integerPart[i : i+3])
	}

	if len(parts) > 1 {
		result.WriteString(".")
		result.WriteString(parts[1])
	}
	return result.String()
}

// ShortAddress abbreviates a hex address as 0x1234...abcd.
func ShortAddress(addr string) string {
	if len(addr) <= 13 {
		return addr
	}
	return addr[:6] + "..." + addr[len(addr)-4:]
}
