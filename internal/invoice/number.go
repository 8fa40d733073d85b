package invoice

import "fmt"

// Number formats a sequential invoice number as the issue year followed by
// the counter padded to four digits, e.g. 20240042.
func Number(year, counter int) string {
	return fmt.Sprintf("%d%04d", year, counter)
}
