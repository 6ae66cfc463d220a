package segmenter

import "strings"

// browserSuffixes maps well-known window-title suffixes to canonical
// application names. Checked before the generic " - " split because browser
// tab titles routinely contain their own separators.
var browserSuffixes = []struct {
	suffix string
	name   string
}{
	{" - Google Chrome", "Google Chrome"},
	{" - Mozilla Firefox", "Mozilla Firefox"},
	{" - Microsoft Edge", "Microsoft Edge"},
}

// DeriveAppName estimates an application name from a raw window title. This
// is a heuristic: ambiguous titles degrade to the title itself.
func DeriveAppName(title string) string {
	for _, b := range browserSuffixes {
		if strings.Contains(title, b.suffix) {
			return b.name
		}
	}

	if strings.Contains(title, "Excel") {
		return "Microsoft Excel"
	}
	if strings.Contains(title, "Word") {
		return "Microsoft Word"
	}

	parts := strings.Split(title, " - ")
	if len(parts) > 1 {
		last := strings.TrimSpace(parts[len(parts)-1])
		if last != "" {
			return last
		}
		// Titles like "document - app - " leave a blank tail after the
		// trailing separator; fall back to the part before it.
		prev := strings.TrimSpace(parts[len(parts)-2])
		if prev != "" {
			return prev
		}
	}

	return title
}
