package report

import (
	"bytes"
	"fmt"
	"path/filepath"
	"regexp"
	"strings"
)

// UnknownBlock labels lots whose file name does not name a block.
const UnknownBlock = "QUADRA (DESCONHECIDA)"

var (
	blockNamePattern   = regexp.MustCompile(`(?i)(QUADRA|SITE|QD)[ _\-]*([A-Z0-9]+)`)
	blockSuffixPattern = regexp.MustCompile(`[_\- ]([A-Z0-9])\.(HTM|HTML|TXT)$`)
	unificationPattern = regexp.MustCompile(`(?i)\bUNIFICA(?:Ç|C)(?:Ã|A)?O\b`)
)

// InferBlock derives the block label ("QUADRA B") of a lot report from its
// file name: "QUADRA_B.txt", "QD-07.html" and "lotes_C.txt" all name a block.
func InferBlock(filename string) string {
	up := strings.ToUpper(filepath.Base(filename))
	if m := blockNamePattern.FindStringSubmatch(up); m != nil {
		return "QUADRA " + m[2]
	}
	if m := blockSuffixPattern.FindStringSubmatch(up); m != nil {
		return "QUADRA " + m[1]
	}
	return UnknownBlock
}

// IsCivilReport reports whether a file is an HTML civil report of named
// areas rather than a lot report.
func IsCivilReport(filename string) bool {
	return strings.Contains(strings.ToUpper(filepath.Base(filename)), "CIVILREPORT")
}

// IsUnification reports whether an item name marks a unification parcel.
func IsUnification(name string) bool {
	return unificationPattern.MatchString(name)
}

// DetectDialect chooses a dialect from the file extension, falling back to
// sniffing the content. HTML lot reports are numbered; civil reports keep
// their names.
func DetectDialect(filename string, b []byte) (Dialect, error) {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".txt":
		return DialectText, nil
	case ".htm", ".html":
		return htmlDialect(filename), nil
	}

	head := bytes.ToLower(b[:min(len(b), 4096)])
	switch {
	case bytes.Contains(head, []byte("<table")) || bytes.Contains(head, []byte("<html")):
		return htmlDialect(filename), nil
	case bytes.Contains(head, []byte("name:")):
		return DialectText, nil
	}
	return "", fmt.Errorf("%s: %w", filename, ErrUnknownDialect)
}

func htmlDialect(filename string) Dialect {
	if IsCivilReport(filename) {
		return DialectHTML
	}
	return DialectNumberedHTML
}
