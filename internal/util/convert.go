// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package util

// IntToString converts an int to its decimal string without fmt.
// Used in render paths that run once per frame.
func IntToString(n int) string {
	if n == 0 {
		return "0"
	}
	// math.MinInt64 cannot be negated without overflow
	if n == -9223372036854775808 {
		return "-9223372036854775808"
	}

	negative := n < 0
	if negative {
		n = -n
	}

	var digits []byte
	for n > 0 {
		digits = append([]byte{byte('0' + n%10)}, digits...)
		n /= 10
	}

	if negative {
		return "-" + string(digits)
	}
	return string(digits)
}

// FormatByteSize renders a byte count as a short human-readable string
// ("412 B", "1.2 KB", "3.4 MB").
func FormatByteSize(n int64) string {
	const unit = 1024
	if n < unit {
		return IntToString(int(n)) + " B"
	}
	div, exp := int64(unit), 0
	for v := n / unit; v >= unit; v /= unit {
		div *= unit
		exp++
	}
	whole := n / div
	frac := (n % div) * 10 / div
	return IntToString(int(whole)) + "." + IntToString(int(frac)) + " " + string("KMGTPE"[exp]) + "B"
}
