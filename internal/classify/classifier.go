// Package classify turns a crawler job's captured output into a verdict,
// an item count, and human-facing detail lines.
//
// The marker sets below are the exact phrases the crawler scripts print.
// They are matched literally and must not be extended or normalized:
// compatibility with existing jobs depends on them as-is.
package classify

import (
	"strconv"
	"strings"

	"github.com/polibrief/newscrawl/internal/domain"
)

// Verdict is the classification of one job's output.
type Verdict string

const (
	// VerdictSuccess means the output reported a completed collection
	// with a positive article count.
	VerdictSuccess Verdict = "success"
	// VerdictFailure means the output contained a failure marker.
	VerdictFailure Verdict = "failure"
	// VerdictAmbiguous means no rule matched; the result is unclear.
	VerdictAmbiguous Verdict = "ambiguous"
)

// Status maps a verdict to the job status recorded in reports.
func (v Verdict) Status() domain.Status {
	switch v {
	case VerdictSuccess:
		return domain.StatusSuccess
	case VerdictFailure:
		return domain.StatusFailed
	default:
		return domain.StatusUnclear
	}
}

// Result is the outcome of classifying one job's output.
type Result struct {
	Verdict        Verdict
	ItemsCollected int
	// DetailLines are the output lines worth echoing in summaries.
	// They play no part in the verdict.
	DetailLines []string
}

// successMarkers are phrases the scripts print on completed collection.
var successMarkers = []string{
	"수집 결과:",
	"총 수집:",
	"기사 수집 완료",
	"저장 완료",
	"크롤링 완료",
	"수집 완료",
	"완료",
	"성공",
}

// failureMarkers are phrases the scripts print on errors.
var failureMarkers = []string{
	"오류 발생",
	"실패",
	"에러",
	"Error",
	"Exception",
	"연결 실패",
	"인증 실패",
	"권한 없음",
}

// countMarkers precede the collected-article count, in lookup order.
var countMarkers = []string{
	"총 수집:",
	"수집된 기사:",
}

// detailKeywords select lines for DetailLines.
var detailKeywords = []string{
	"수집",
	"저장",
	"완료",
	"성공",
	"오류",
	"실패",
}

// countUnit terminates the numeric span after a count marker.
const countUnit = "개"

// Classify analyzes a job's captured stdout in a single pass.
//
// Decision order: a success marker together with a positive parsed count is
// a success even when a failure marker also appears in the same output;
// otherwise any failure marker means failure; anything else is ambiguous.
func Classify(output string) Result {
	hasSuccess := containsAny(output, successMarkers)
	hasFailure := containsAny(output, failureMarkers)
	count := extractCount(output)

	var verdict Verdict
	switch {
	case hasSuccess && count > 0:
		verdict = VerdictSuccess
	case hasFailure:
		verdict = VerdictFailure
	default:
		verdict = VerdictAmbiguous
	}

	return Result{
		Verdict:        verdict,
		ItemsCollected: count,
		DetailLines:    detailLines(output),
	}
}

// containsAny reports whether s contains any of the markers.
func containsAny(s string, markers []string) bool {
	for _, marker := range markers {
		if strings.Contains(s, marker) {
			return true
		}
	}
	return false
}

// extractCount finds the first line carrying a count marker and parses the
// integer between the marker and the unit token. A marker line that fails
// to parse yields 0; later markers are not consulted once a line matched.
func extractCount(output string) int {
	for _, marker := range countMarkers {
		for _, line := range strings.Split(output, "\n") {
			idx := strings.Index(line, marker)
			if idx < 0 {
				continue
			}

			span := line[idx+len(marker):]
			if unit := strings.Index(span, countUnit); unit >= 0 {
				span = span[:unit]
			}

			count, err := strconv.Atoi(strings.TrimSpace(span))
			if err != nil || count < 0 {
				return 0
			}
			return count
		}
	}
	return 0
}

// detailLines keeps every line containing a topical keyword.
func detailLines(output string) []string {
	var lines []string
	for _, line := range strings.Split(output, "\n") {
		if containsAny(line, detailKeywords) {
			lines = append(lines, strings.TrimSpace(line))
		}
	}
	return lines
}
