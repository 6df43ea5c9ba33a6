/* print2scale - print-accurate render size and camera scale calculator
 *
 * Copyright (C) 2020 and up by Alexander Pevzner (pzz@apevzner.com)
 * See LICENSE for license terms and conditions
 *
 * Glob-style preset search
 */

package main

import (
	"sort"
)

// GlobMatch matches preset identifier against glob-style pattern,
// ignoring ASCII case. Pattern syntax:
//
//	?   - matches exactly one character
//	*   - matches any sequence of characters
//	\C  - matches character C
//	C   - matches character C (C is not *, ? or \)
//
// It returns the match weight, which is the count of matched
// non-wildcard characters, so more specific patterns weigh more.
// If there is no match, it returns -1.
func GlobMatch(id, pattern string) int {
	var n, p, weight int
	starN, starP, starWeight := -1, -1, 0

	for n < len(id) {
		if p < len(pattern) {
			switch c := pattern[p]; c {
			case '*':
				starN, starP, starWeight = n, p, weight
				p++
				continue

			case '?':
				n++
				p++
				continue

			default:
				next := p + 1
				if c == '\\' && next < len(pattern) {
					c = pattern[next]
					next++
				}

				if globFold(c) == globFold(id[n]) {
					n++
					p = next
					weight++
					continue
				}
			}
		}

		// Mismatch: let the last '*' swallow one more character
		if starP < 0 {
			return -1
		}

		starN++
		n, p, weight = starN, starP+1, starWeight
	}

	for p < len(pattern) && pattern[p] == '*' {
		p++
	}

	if p != len(pattern) {
		return -1
	}

	return weight
}

// globFold folds ASCII letters to lower case
func globFold(c byte) byte {
	if 'A' <= c && c <= 'Z' {
		c += 'a' - 'A'
	}
	return c
}

// Find returns presets with identifiers matching the glob-style
// pattern. The most specific matches come first, presets of equal
// weight are kept in catalog order
func (cat *PresetCatalog) Find(pattern string) []PaperPreset {
	type match struct {
		preset PaperPreset
		weight int
	}

	var matches []match
	for _, p := range cat.list {
		if w := GlobMatch(p.ID, pattern); w >= 0 {
			matches = append(matches, match{p, w})
		}
	}

	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].weight > matches[j].weight
	})

	found := make([]PaperPreset, len(matches))
	for i, m := range matches {
		found[i] = m.preset
	}

	return found
}
