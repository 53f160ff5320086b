package api

import (
	"context"
	"encoding/base64"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
)

// Judge inspects screenshot artifacts against claim conditions using
// Claude vision. It implements the analysis.VisualJudge interface.
type Judge struct {
	client *Client
}

// NewJudge creates a visual judge backed by the given client.
func NewJudge(client *Client) *Judge {
	return &Judge{client: client}
}

const judgePromptTemplate = `You are verifying a screenshot from an automated test run against one acceptance claim.

## Pass condition
%s

## Failure pattern
%s

Inspect the screenshot. Decide:
- If the failure pattern is visible, the claim FAILS, even if the pass condition also appears satisfied. Failure evidence always wins.
- If the pass condition cannot be confirmed from the screenshot, the claim FAILS.
- Only if the pass condition is clearly confirmed and the failure pattern is absent does the claim pass.

Respond with EXACTLY one of:
- PASS: [one sentence describing what you observed]
- ISSUES: [one sentence describing what you observed]`

// Judge evaluates the image at path against the claim's condition and
// failure pattern. It returns issues=true when the failure pattern is
// observed or the condition cannot be confirmed.
func (j *Judge) Judge(ctx context.Context, path, condition, failurePattern string) (bool, string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return false, "", fmt.Errorf("read screenshot: %w", err)
	}

	mediaType, err := imageMediaType(path)
	if err != nil {
		return false, "", err
	}

	prompt := fmt.Sprintf(judgePromptTemplate, condition, failurePattern)

	resp, err := j.client.sdk().Messages.New(ctx, anthropic.MessageNewParams{
		Model:     j.client.Model(),
		MaxTokens: 512,
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(
				anthropic.NewImageBlockBase64(mediaType, base64.StdEncoding.EncodeToString(data)),
				anthropic.NewTextBlock(prompt),
			),
		},
	})
	if err != nil {
		return false, "", fmt.Errorf("visual judgment: %w", err)
	}

	j.client.Tracker().Add(resp.Usage.InputTokens, resp.Usage.OutputTokens)

	text := extractText(resp)
	verdict, evidence := parseJudgment(text)
	if verdict == "" {
		// Unparseable responses count as issues, never as a pass.
		return true, "unparseable judgment: " + text, nil
	}
	return verdict == "ISSUES", evidence, nil
}

// parseJudgment splits a "PASS: ..." or "ISSUES: ..." response.
func parseJudgment(text string) (verdict, evidence string) {
	for _, v := range []string{"PASS", "ISSUES"} {
		if strings.HasPrefix(text, v) {
			rest := strings.TrimPrefix(text, v)
			rest = strings.TrimLeft(rest, ": ")
			return v, strings.TrimSpace(rest)
		}
	}
	return "", text
}

func imageMediaType(path string) (string, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".png":
		return "image/png", nil
	case ".jpg", ".jpeg":
		return "image/jpeg", nil
	case ".webp":
		return "image/webp", nil
	case ".gif":
		return "image/gif", nil
	default:
		return "", fmt.Errorf("unsupported screenshot format %q", filepath.Ext(path))
	}
}
