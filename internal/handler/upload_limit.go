package handler

import "strconv"

// formatUploadLimit renders the document upload cap for the rejection
// message shown when a fund file exceeds it.
func formatUploadLimit(bytes int64) string {
	const mb = 1024 * 1024
	if bytes <= 0 {
		return "0MB"
	}
	value := bytes / mb
	if value <= 0 {
		value = 1
	}
	return strconv.FormatInt(value, 10) + "MB"
}
