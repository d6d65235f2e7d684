package library

import (
	"regexp"
	"strings"
)

// cleanupPatterns are removed from folder names, in order, to derive a title.
var cleanupPatterns = compile(
	`\[FitGirl.*?\]`,
	`\[DODI.*?\]`,
	`\[.*?Repack.*?\]`,
	`\[.*?Monkey.*?\]`,
	`\[BluRay\]`,
	`\[720p\]`,
	`\[1080p\]`,
	`\[YTS.*?\]`,
	`\[YIFY\]`,
	`Portable\s+by\s+\w+`,
	`\bby\s+\w+$`,
	`\s*\bv\d+(\.\d+)*\w*`,
	`\s*-\s*(HRTP|EE|NG|MCE|CGC)$`,
	`\s*NG\s*-\s*HRTP$`,
	`\s*-\s*Dilogy$`,
	`\s*\(.*?\)`,
)

// exclusionPatterns mark non-game content. They are matched against the raw
// folder name, before any cleanup.
var exclusionPatterns = compile(
	`(?i)\[BluRay\]`,
	`(?i)\[720p\]`,
	`(?i)\[1080p\]`,
	`(?i)\[2160p\]`,
	`(?i)\[4K\]`,
	`(?i)\[YTS`,
	`(?i)\[YIFY`,
	`(?i)\[RARBG\]`,
	`(?i)\[WEB-?DL\]`,
	`(?i)\[HDRip\]`,
	`(?i)\[BRRip\]`,
	`(?i)\[DVDRip\]`,
	`(?i)\.mkv$`,
	`(?i)\.avi$`,
	`(?i)\.mp4$`,
	`(?i)S\d{2}E\d{2}`,
)

// reservedNames are housekeeping folders that never hold a game.
var reservedNames = map[string]bool{
	"game-library-app":          true,
	"GameVault":                 true,
	"Adult":                     true,
	"$RECYCLE.BIN":              true,
	"System Volume Information": true,
}

// archiveSuffixes mark folders that are really unpacked-archive leftovers.
var archiveSuffixes = []string{".rar", ".zip", ".7z"}

var (
	multiSpace   = regexp.MustCompile(`\s+`)
	trailingDash = regexp.MustCompile(`\s*-\s*$`)
)

func compile(patterns ...string) []*regexp.Regexp {
	out := make([]*regexp.Regexp, len(patterns))
	for i, p := range patterns {
		out[i] = regexp.MustCompile(p)
	}
	return out
}

// Normalize turns a raw folder name into a candidate title and reports
// whether the folder should be treated as a game at all.
func Normalize(raw string) (string, bool) {
	if reason := exclusionReason(raw); reason != "" {
		return cleanTitle(raw), false
	}
	title := cleanTitle(raw)
	return title, title != ""
}

// ExclusionReason returns why raw is not a game folder, or "" if it may be one.
func ExclusionReason(raw string) string {
	if reason := exclusionReason(raw); reason != "" {
		return reason
	}
	if cleanTitle(raw) == "" {
		return "empty title"
	}
	return ""
}

func exclusionReason(raw string) string {
	if strings.HasPrefix(raw, ".") {
		return "hidden folder"
	}
	if reservedNames[raw] {
		return "reserved name"
	}
	lower := strings.ToLower(raw)
	for _, suffix := range archiveSuffixes {
		if strings.HasSuffix(lower, suffix) {
			return "archive name"
		}
	}
	for _, re := range exclusionPatterns {
		if re.MatchString(raw) {
			return "non-game content"
		}
	}
	return ""
}

// cleanTitle applies the cleanup rules until the title stops changing, so
// cleaning an already clean title is a no-op. A pass never lengthens the
// title, so the loop ends.
func cleanTitle(raw string) string {
	title := cleanOnce(raw)
	for {
		next := cleanOnce(title)
		if next == title {
			return title
		}
		title = next
	}
}

func cleanOnce(s string) string {
	for _, re := range cleanupPatterns {
		s = re.ReplaceAllString(s, "")
	}
	s = multiSpace.ReplaceAllString(s, " ")
	s = trailingDash.ReplaceAllString(s, "")
	return strings.TrimSpace(s)
}
