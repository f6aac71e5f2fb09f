package pop

import "strings"

// errorIndicators are substrings the CLI prints on semantic failures that
// still exit zero. Output classification catches those.
var errorIndicators = []string{
	"Error:",
	"error:",
	"Failed to",
	"failed to",
	"Unable to",
	"not found in pallet", // "Call with name X not found in pallet Y"
}

// IsErrorOutput reports whether combined CLI output carries a known error
// indicator even though the process exited successfully.
func IsErrorOutput(output string) bool {
	for _, indicator := range errorIndicators {
		if strings.Contains(output, indicator) {
			return true
		}
	}
	return false
}
