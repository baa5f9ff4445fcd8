package display

import "unicode/utf8"

// EachLine splits text into display lines of at most cols runes and calls
// fn for each until it returns false. Newlines always break. With wordBreak
// lines break at the last space that fits; a word longer than cols is cut.
func EachLine(text string, cols int, wordBreak bool, fn func(line string) bool) {
	if cols <= 0 {
		return
	}
	for {
		para, rest, more := cutLine(text)
		if !eachWrapped(para, cols, wordBreak, fn) {
			return
		}
		if !more {
			return
		}
		text = rest
	}
}

func cutLine(s string) (line, rest string, more bool) {
	for i := 0; i < len(s); i++ {
		if s[i] == '\n' {
			return s[:i], s[i+1:], true
		}
	}
	return s, "", false
}

func eachWrapped(p string, cols int, wordBreak bool, fn func(string) bool) bool {
	if !wordBreak {
		line, _ := takeRunes(p, cols)
		return fn(line)
	}
	for {
		if utf8.RuneCountInString(p) <= cols {
			return fn(p)
		}
		head, _ := takeRunes(p, cols+1)
		cut := -1
		for i := len(head) - 1; i > 0; i-- {
			if head[i] == ' ' {
				cut = i
				break
			}
		}
		var line string
		if cut > 0 {
			line, p = p[:cut], p[cut+1:]
			for len(line) > 0 && line[len(line)-1] == ' ' {
				line = line[:len(line)-1]
			}
		} else {
			line, p = takeRunes(p, cols)
		}
		if !fn(line) {
			return false
		}
		for len(p) > 0 && p[0] == ' ' {
			p = p[1:]
		}
		if p == "" {
			return true
		}
	}
}

// takeRunes splits s after n runes.
func takeRunes(s string, n int) (prefix, rest string) {
	if n <= 0 || s == "" {
		return "", s
	}
	i, count := 0, 0
	for i < len(s) && count < n {
		_, size := utf8.DecodeRuneInString(s[i:])
		i += size
		count++
	}
	return s[:i], s[i:]
}
