// Package analysis turns raw model replies into Recommendation entities. The
// extraction pipeline is a chain of pure functions over text: envelope
// descent, fence stripping, document parsing, rendering.
package analysis

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// ErrExtractionFailed reports a reply that could not be parsed into the
// expected document shape. It is the only failure the extractor surfaces;
// partial documents yield a best-effort Parsed instead.
var ErrExtractionFailed = errors.New("ai response not extractable")

// Parsed is the transient result of one extraction. The rendered lists carry
// their per-list sentinel when the reply provided nothing for them.
type Parsed struct {
	Narrative    string
	Improvements []string
	Suggestions  []string
	Safety       []string
}

// Decode boundaries for the two JSON layers: the provider envelope and the
// coaching document nested inside its text part.
type responseEnvelope struct {
	Candidates *[]responseCandidate `json:"candidates"`
}

type responseCandidate struct {
	Content struct {
		Parts []struct {
			Text string `json:"text"`
		} `json:"parts"`
	} `json:"content"`
}

type coachingDocument struct {
	Analysis struct {
		Overall        *string `json:"overall"`
		Pace           *string `json:"pace"`
		HeartRate      *string `json:"heartRate"`
		CaloriesBurned *string `json:"caloriesBurned"`
	} `json:"analysis"`
	Improvements []struct {
		Area           string `json:"area"`
		Recommendation string `json:"recommendation"`
	} `json:"improvements"`
	Suggestions []struct {
		Workout     string `json:"workout"`
		Description string `json:"description"`
	} `json:"suggestions"`
	Safety []string `json:"safety"`
}

// Extract parses a raw reply into a Parsed analysis. The reply is usually a
// candidates envelope whose first part wraps the coaching JSON in markdown
// fences, but bare documents are accepted as-is.
func Extract(raw string) (Parsed, error) {
	text, err := candidateText(raw)
	if err != nil {
		return Parsed{}, err
	}

	cleaned := stripFences(text)

	var doc coachingDocument
	if err := json.Unmarshal([]byte(cleaned), &doc); err != nil {
		return Parsed{}, fmt.Errorf("%w: %v", ErrExtractionFailed, err)
	}

	return Parsed{
		Narrative:    renderNarrative(doc),
		Improvements: orSentinel(renderImprovements(doc), noImprovementsSentinel),
		Suggestions:  orSentinel(renderSuggestions(doc), noSuggestionsSentinel),
		Safety:       orSentinel(doc.Safety, genericSafetySentinel),
	}, nil
}

// candidateText unwraps the provider envelope. Input that does not look like
// an envelope at all is treated wholesale as the model text; input that does
// carry a candidates array must descend cleanly or extraction fails.
func candidateText(raw string) (string, error) {
	var env responseEnvelope
	if err := json.Unmarshal([]byte(raw), &env); err != nil || env.Candidates == nil {
		return raw, nil
	}

	candidates := *env.Candidates
	if len(candidates) == 0 {
		return "", fmt.Errorf("%w: empty candidates array", ErrExtractionFailed)
	}

	parts := candidates[0].Content.Parts
	if len(parts) == 0 {
		return "", fmt.Errorf("%w: candidate has no content parts", ErrExtractionFailed)
	}
	return parts[0].Text, nil
}

// stripFences removes markdown code-fence markers textually. A reply without
// fences passes through untouched apart from whitespace trimming.
func stripFences(text string) string {
	if strings.Contains(text, "```") {
		text = strings.ReplaceAll(text, "```json", "")
		text = strings.ReplaceAll(text, "```", "")
	}
	return strings.TrimSpace(text)
}

func renderNarrative(doc coachingDocument) string {
	var b strings.Builder
	appendSection(&b, "Overall", doc.Analysis.Overall)
	appendSection(&b, "Pace", doc.Analysis.Pace)
	appendSection(&b, "Heart Rate", doc.Analysis.HeartRate)
	appendSection(&b, "Calories Burned", doc.Analysis.CaloriesBurned)
	return strings.TrimSpace(b.String())
}

func appendSection(b *strings.Builder, label string, value *string) {
	if value == nil {
		return
	}
	fmt.Fprintf(b, "%s: %s\n\n", label, *value)
}

func renderImprovements(doc coachingDocument) []string {
	out := make([]string, 0, len(doc.Improvements))
	for _, item := range doc.Improvements {
		out = append(out, fmt.Sprintf("%s: %s", item.Area, item.Recommendation))
	}
	return out
}

func renderSuggestions(doc coachingDocument) []string {
	out := make([]string, 0, len(doc.Suggestions))
	for _, item := range doc.Suggestions {
		out = append(out, fmt.Sprintf("%s: %s", item.Workout, item.Description))
	}
	return out
}

func orSentinel(values []string, sentinel string) []string {
	if len(values) == 0 {
		return []string{sentinel}
	}
	return values
}
