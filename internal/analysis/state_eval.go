package analysis

import (
	"fmt"
	"os"
	"regexp"
	"strconv"
	"strings"

	"github.com/tidwall/gjson"

	"github.com/ShayCichocki/attest/pkg/models"
)

// expectedValueRe pulls the asserted value out of a condition or failure
// pattern, e.g. "score equals 30", "status is game_over", "score == 30".
var expectedValueRe = regexp.MustCompile(`(?i)(?:==|equals|is|shows|displays|set to|to be|becomes)\s+"?([A-Za-z0-9_.\-]+)"?`)

// evaluateState checks a claim against a structured state dump. The field
// is located via the search hint (a gjson path), or inferred from the
// condition text when the hint is absent. Mismatch, absent field, and
// unparseable expectations are all ISSUES; ambiguity never converts to
// PASS.
func evaluateState(claim models.Claim) models.Outcome {
	data, err := os.ReadFile(*claim.Artifact)
	if err != nil {
		if os.IsNotExist(err) {
			return models.Outcome{
				Claim:    claim,
				Status:   models.OutcomeSkip,
				Reason:   models.SkipMissingArtifact,
				Evidence: fmt.Sprintf("state dump %s does not exist", *claim.Artifact),
			}
		}
		return issuesOutcome(claim, fmt.Sprintf("read state dump: %v", err))
	}

	if !gjson.ValidBytes(data) {
		return issuesOutcome(claim, "state dump is not valid JSON")
	}
	doc := string(data)

	field := claim.Search
	if field == "" {
		field = inferField(doc, claim.Condition)
	}
	if field == "" {
		return issuesOutcome(claim, "cannot locate a state field for this condition; add a search hint")
	}

	val := gjson.Get(doc, field)
	if !val.Exists() {
		return issuesOutcome(claim, fmt.Sprintf("field %q absent from state dump", field))
	}

	// Failure evidence takes precedence over pass evidence.
	if want, ok := assertedValue(claim.FailurePattern); ok && valueMatches(val, want) {
		return issuesOutcome(claim, fmt.Sprintf("failure pattern matched: %s = %s", field, val.String()))
	}

	want, ok := assertedValue(claim.Condition)
	if !ok {
		return issuesOutcome(claim, fmt.Sprintf("condition states no comparable expected value for %q", field))
	}
	if !valueMatches(val, want) {
		return issuesOutcome(claim, fmt.Sprintf("%s = %s, expected %s", field, val.String(), want))
	}

	return models.Outcome{
		Claim:    claim,
		Status:   models.OutcomePass,
		Evidence: fmt.Sprintf("%s = %s", field, val.String()),
	}
}

func issuesOutcome(claim models.Claim, evidence string) models.Outcome {
	return models.Outcome{Claim: claim, Status: models.OutcomeIssues, Evidence: evidence}
}

// assertedValue extracts the value a sentence asserts, if any.
func assertedValue(text string) (string, bool) {
	m := expectedValueRe.FindStringSubmatch(text)
	if m == nil {
		return "", false
	}
	return m[1], true
}

// valueMatches compares the actual gjson value to the asserted one,
// numerically when both sides parse as numbers, case-insensitively
// otherwise.
func valueMatches(val gjson.Result, want string) bool {
	if wantNum, err := strconv.ParseFloat(want, 64); err == nil {
		if val.Type == gjson.Number {
			return val.Float() == wantNum
		}
		if actualNum, err := strconv.ParseFloat(val.String(), 64); err == nil {
			return actualNum == wantNum
		}
	}
	return strings.EqualFold(strings.TrimSpace(val.String()), want)
}

// inferField finds a token from the condition text that names an existing
// field in the document, scanning in word order so the subject of the
// sentence wins.
func inferField(doc, condition string) string {
	for _, tok := range strings.Fields(condition) {
		tok = strings.Trim(strings.ToLower(tok), ".,:;\"'()")
		if tok == "" {
			continue
		}
		if gjson.Get(doc, tok).Exists() {
			return tok
		}
	}
	return ""
}
