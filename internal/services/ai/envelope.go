package ai

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/benvon/virality-checker/internal/models"
)

// EnvelopeKind identifies which response shape carried the LLM text
type EnvelopeKind string

const (
	// EnvelopeOutput is the responses-API shape: output[].content[].text
	EnvelopeOutput EnvelopeKind = "output"
	// EnvelopeChoices is the chat-completions shape: choices[].message.content
	EnvelopeChoices EnvelopeKind = "choices"
)

// Envelope is the decoded outer response: which variant matched and the text it carried
type Envelope struct {
	Kind EnvelopeKind
	Text string
}

type outputEnvelope struct {
	Output []struct {
		Content []struct {
			Text *string `json:"text"`
		} `json:"content"`
	} `json:"output"`
}

type choicesEnvelope struct {
	Choices []struct {
		Message *struct {
			Content *string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// DecodeEnvelope tries the output variant, then the choices variant.
// It fails with ErrUnexpectedEnvelope when neither matches.
func DecodeEnvelope(body []byte) (Envelope, error) {
	if text, ok := decodeOutput(body); ok {
		return Envelope{Kind: EnvelopeOutput, Text: text}, nil
	}
	if text, ok := decodeChoices(body); ok {
		return Envelope{Kind: EnvelopeChoices, Text: text}, nil
	}
	return Envelope{}, ErrUnexpectedEnvelope
}

// decodeOutput returns the first text part of the output items.
// Items without text content (reasoning, tool calls) are skipped.
func decodeOutput(body []byte) (string, bool) {
	var env outputEnvelope
	if err := json.Unmarshal(body, &env); err != nil {
		return "", false
	}
	for _, item := range env.Output {
		for _, part := range item.Content {
			if part.Text != nil {
				return *part.Text, true
			}
		}
	}
	return "", false
}

func decodeChoices(body []byte) (string, bool) {
	var env choicesEnvelope
	if err := json.Unmarshal(body, &env); err != nil {
		return "", false
	}
	if len(env.Choices) == 0 || env.Choices[0].Message == nil || env.Choices[0].Message.Content == nil {
		return "", false
	}
	return *env.Choices[0].Message.Content, true
}

// ParseAnalysis decodes the JSON text carried by an envelope into an AnalysisResult.
// Text wrapped in prose or a code fence is decoded from its outermost object.
func ParseAnalysis(text string) (*models.AnalysisResult, error) {
	raw := []byte(text)
	start := bytes.IndexByte(raw, '{')
	end := bytes.LastIndexByte(raw, '}')
	if start == -1 || end <= start {
		return nil, fmt.Errorf("%w: no JSON object in %d bytes", ErrInvalidAnalysisJSON, len(raw))
	}

	var result models.AnalysisResult
	if err := json.Unmarshal(raw[start:end+1], &result); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidAnalysisJSON, err)
	}
	return &result, nil
}

// DecodeAnalysis runs DecodeEnvelope and ParseAnalysis
func DecodeAnalysis(body []byte) (*models.AnalysisResult, EnvelopeKind, error) {
	env, err := DecodeEnvelope(body)
	if err != nil {
		return nil, "", err
	}
	result, err := ParseAnalysis(env.Text)
	if err != nil {
		return nil, env.Kind, err
	}
	return result, env.Kind, nil
}
