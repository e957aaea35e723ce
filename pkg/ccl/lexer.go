package ccl

import "strings"

// Parse lexes raw CCL text into a flat sequence of entries. It performs no
// hierarchy folding and no recursive re-parsing of values; that is Build's
// job. Parse only:
//
//   - normalizes line endings and tabs per opts,
//   - splits the text into logical lines,
//   - treats any line that starts with a space or tab as a continuation of
//     the current entry, appending it verbatim (indentation included) to
//     that entry's value after a '\n' — regardless of whether the
//     continuation line itself contains '='; this is what lets a
//     continuation block read as nested CCL when Build re-parses it,
//   - splits every other (unindented) line on its first '=' into key and
//     value, each trimmed of exactly one leading/trailing space (per
//     Spacing).
//
// A blank line terminates the current entry's continuation run but does not
// itself produce an entry or an error.
func Parse(text string, opts Options) ([]Entry, error) {
	if opts.LineEndings == NormalizeLineEndings {
		text = strings.ReplaceAll(text, "\r\n", "\n")
		text = strings.ReplaceAll(text, "\r", "\n")
	}
	if opts.Tabs == NormalizeTabs {
		text = strings.ReplaceAll(text, "\t", " ")
	}

	lines := strings.Split(text, "\n")
	entries := make([]Entry, 0, len(lines))
	haveCurrent := false

	for lineNo, line := range lines {
		if line == "" {
			haveCurrent = false
			continue
		}

		if haveCurrent && (line[0] == ' ' || line[0] == '\t') {
			entries[len(entries)-1].Value += "\n" + line
			continue
		}

		eq := strings.Index(line, "=")
		if eq < 0 {
			// An unindented line with no '=' and no open entry is stray
			// prose; skip it rather than error, matching CCL's tolerance
			// for free-form text outside any entry.
			continue
		}

		key := line[:eq]
		value := line[eq+1:]

		switch opts.Spacing {
		case StrictSpacing:
			key = strings.TrimSuffix(key, " ")
			value = strings.TrimPrefix(value, " ")
		default:
			key = strings.TrimRight(key, " \t")
			value = strings.TrimLeft(value, " \t")
		}

		if key != "" && strings.TrimSpace(key) == "" {
			return nil, &ParseError{Line: lineNo + 1, Column: 1, Reason: "key is all whitespace before '='"}
		}

		entries = append(entries, Entry{Key: key, Value: value})
		haveCurrent = true
	}

	return entries, nil
}
