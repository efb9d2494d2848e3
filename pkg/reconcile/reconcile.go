package reconcile

import (
	"bytes"
	"errors"
	"fmt"
	"slices"

	"github.com/Sumatoshi-tech/initall/pkg/exports"
	"github.com/Sumatoshi-tech/initall/pkg/levenshtein"
)

// maxSuggestDistance bounds the edits between a stale name and a suggested
// replacement.
const maxSuggestDistance = 2

// ErrMalformed marks an __all__ that is not a rewritable literal sequence.
var ErrMalformed = errors.New("malformed export list")

// Verdict is the outcome of reconciling one file.
type Verdict int

// Verdicts.
const (
	InSync Verdict = iota
	OutOfSync
	Malformed
	Suppressed
)

var verdictNames = map[Verdict]string{
	InSync:     "in-sync",
	OutOfSync:  "out-of-sync",
	Malformed:  "malformed",
	Suppressed: "suppressed",
}

func (v Verdict) String() string {
	if name, ok := verdictNames[v]; ok {
		return name
	}

	return fmt.Sprintf("verdict(%d)", int(v))
}

// MarshalText encodes the verdict by name.
func (v Verdict) MarshalText() ([]byte, error) {
	return []byte(v.String()), nil
}

// Result describes how a file's __all__ relates to its public names.
type Result struct {
	// Canonical is the sorted, duplicate-free target list.
	Canonical  []string
	Missing    []string
	Extra      []string
	Duplicates []string
	// Suggestions maps an extra name to a missing name it is likely a typo of.
	Suggestions map[string]string
	// Reason explains a Malformed verdict.
	Reason string
	// NewListText is the rendered declaration; empty unless OutOfSync.
	NewListText string
	// NewContent is the full file with NewListText spliced in; nil unless OutOfSync.
	NewContent []byte
	// Directive is a "# noqa: ALL[...]" comment that would silence the
	// reported differences; empty when there is nothing to silence.
	Directive string
	// Line is the 1-based line of the declared __all__, or 0 when absent.
	Line     int
	Verdict  Verdict
	Unsorted bool
	// Inserted is true when no __all__ existed and one is added.
	Inserted bool
}

// Changed reports whether applying the result would modify the file.
func (r Result) Changed() bool {
	return r.Verdict == OutOfSync
}

// Err returns an ErrMalformed-wrapping error for a Malformed result, nil otherwise.
func (r Result) Err() error {
	if r.Verdict != Malformed {
		return nil
	}

	return fmt.Errorf("%w: %s", ErrMalformed, r.Reason)
}

// Reconcile compares mod against its declared list and, when they differ,
// renders the canonical declaration into a copy of content.
func Reconcile(mod *exports.Module, content []byte, cfg FormatConfig) Result {
	if mod.Suppression.All {
		return Result{Verdict: Suppressed}
	}

	declared := mod.Declared
	if !declared.Rewritable() {
		return Result{Verdict: Malformed, Reason: declared.Reason, Line: declared.Line}
	}

	canonical := canonicalNames(mod)
	result := Result{Canonical: canonical}

	if declared.Present {
		result.Missing, result.Extra = difference(canonical, declared.Values)
		result.Duplicates = duplicates(declared.Values)
		result.Suggestions = suggestions(result.Extra, result.Missing)
		result.Unsorted = !slices.IsSorted(declared.Values)
		result.Line = declared.Line
		result.Directive = silencing(mod, result.Missing, result.Extra)

		if slices.Equal(declared.Values, canonical) {
			result.Verdict = InSync

			return result
		}
	} else {
		result.Missing = canonical
		result.Inserted = true
	}

	result.Verdict = OutOfSync

	newline := lineEnding(content)
	result.NewListText = string(bytes.ReplaceAll(
		[]byte(formatDeclaration(declarationHead(declared), canonical, declarationComments(declared), cfg)), []byte("\n"), []byte(newline)))
	result.NewContent = Splice(content, mod, result.NewListText)

	return result
}

// canonicalNames applies suppression exemptions: exempt names are kept only
// when already declared.
func canonicalNames(mod *exports.Module) []string {
	exempt := mod.Suppression.Names
	target := make(exports.Names, len(mod.Public))

	for name := range mod.Public {
		if !exempt.Has(name) {
			target.Add(name)
		}
	}

	for _, name := range mod.Declared.Values {
		if exempt.Has(name) {
			target.Add(name)
		}
	}

	return target.Sorted()
}

// silencing returns the directive exempting every differing name on top of
// those already exempt.
func silencing(mod *exports.Module, missing, extra []string) string {
	if len(missing) == 0 && len(extra) == 0 {
		return ""
	}

	names := exports.NewNames(missing...)
	for _, name := range extra {
		names.Add(name)
	}

	for name := range mod.Suppression.Names {
		names.Add(name)
	}

	return exports.Directive(names.Sorted())
}

func difference(canonical, declared []string) (missing, extra []string) {
	want := exports.NewNames(canonical...)
	have := exports.NewNames(declared...)

	for _, name := range canonical {
		if !have.Has(name) {
			missing = append(missing, name)
		}
	}

	for _, name := range have.Sorted() {
		if !want.Has(name) {
			extra = append(extra, name)
		}
	}

	return missing, extra
}

func duplicates(values []string) []string {
	seen := make(map[string]int, len(values))
	for _, value := range values {
		seen[value]++
	}

	dups := make(exports.Names)

	for value, count := range seen {
		if count > 1 {
			dups.Add(value)
		}
	}

	if len(dups) == 0 {
		return nil
	}

	return dups.Sorted()
}

func lineEnding(content []byte) string {
	if bytes.Contains(content, []byte("\r\n")) {
		return "\r\n"
	}

	return "\n"
}

func suggestions(extra, missing []string) map[string]string {
	var out map[string]string

	for _, name := range extra {
		match, ok := levenshtein.Closest(name, missing, maxSuggestDistance)
		if !ok {
			continue
		}

		if out == nil {
			out = make(map[string]string)
		}

		out[name] = match
	}

	return out
}
