package util

import (
	"fmt"
)

// DumpByteSlice dumps a byte slice in hex with ASCII at the end of each
// row, like xxd. Rows whose positions all fall outside showOnlyBytes are
// skipped; a nil showOnlyBytes shows every row.
func DumpByteSlice(b []byte, bytesPerRow int, showOnlyBytes []int) (out string) {
	showOnlyMap := make(map[int]bool)
	for _, v := range showOnlyBytes {
		showOnlyMap[v] = true
	}
	numRows := (len(b) + bytesPerRow - 1) / bytesPerRow
	var ascii []byte
	for i := 0; i < numRows; i++ {
		firstByte := i * bytesPerRow
		lastByte := firstByte + bytesPerRow
		row := fmt.Sprintf("%08x : ", firstByte)
		for j := firstByte; j < lastByte; j++ {
			// every 8 bytes add extra spacing to make it easier to read
			if j%8 == 0 {
				row += " "
			}
			switch {
			case j >= len(b):
				row += "   "
				ascii = append(ascii, ' ')
			default:
				hex := fmt.Sprintf(" %02x", b[j])
				if showOnlyBytes != nil && showOnlyMap[j] {
					hex = "\033[1m\033[31m" + hex + "\033[0m"
				}
				row += hex
				if b[j] < 32 || b[j] > 126 {
					ascii = append(ascii, '.')
				} else {
					ascii = append(ascii, b[j])
				}
			}
		}
		row += fmt.Sprintf("  %s\n", string(ascii))
		ascii = ascii[:0]

		includeRow := showOnlyBytes == nil
		for j := firstByte; !includeRow && j < lastByte; j++ {
			includeRow = showOnlyMap[j]
		}
		if includeRow {
			out += row
		}
	}
	return out
}

// DumpByteSlicesWithDiffs shows two byte slices in hex and ASCII format,
// with only the rows containing differences, differences highlighted. A
// position past the end of the shorter slice counts as a difference.
func DumpByteSlicesWithDiffs(a, b []byte, bytesPerRow int) (different bool, out string) {
	longest := len(a)
	if len(b) > longest {
		longest = len(b)
	}
	var showOnlyBytes []int
	for i := 0; i < longest; i++ {
		if i >= len(a) || i >= len(b) || a[i] != b[i] {
			showOnlyBytes = append(showOnlyBytes, i)
		}
	}
	if len(showOnlyBytes) == 0 {
		return false, ""
	}
	out = DumpByteSlice(a, bytesPerRow, showOnlyBytes)
	out += "\n"
	out += DumpByteSlice(b, bytesPerRow, showOnlyBytes)
	return true, out
}
