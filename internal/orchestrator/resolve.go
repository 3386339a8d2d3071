package orchestrator

import (
	"encoding/json"

	"github.com/MadhuvanthiSriPad/github-issue-automation/internal/extract"
	"github.com/MadhuvanthiSriPad/github-issue-automation/internal/session"
)

// Resolve turns a driven session into a typed stage result via a strict
// trust hierarchy:
//
//  1. a schema-validated structured payload is used verbatim;
//  2. otherwise the last agent-authored message goes through JSON extraction
//     and a parse;
//  3. on any failure above, or when no agent message exists, fallback runs
//     and the result is flagged as such.
//
// Structured output is schema-guaranteed, extracted JSON is best-effort, and
// the fallback is pure arithmetic over already-validated local data, so tier
// three can never itself fail. The returned bool is true only when the value
// came entirely from fallback — never a partial mix.
func Resolve[T any](sess *session.Session, schema *session.OutputSchema, fallback func() T) (T, bool) {
	if sess != nil {
		if result, ok := fromStructuredOutput[T](sess, schema); ok {
			return result, false
		}
		if result, ok := fromLastMessage[T](sess); ok {
			return result, false
		}
	}

	return fallback(), true
}

func fromStructuredOutput[T any](sess *session.Session, schema *session.OutputSchema) (T, bool) {
	var result T
	if len(sess.StructuredOutput) == 0 || schema == nil {
		return result, false
	}
	if err := schema.Validate(sess.StructuredOutput); err != nil {
		return result, false
	}
	if err := json.Unmarshal(sess.StructuredOutput, &result); err != nil {
		return result, false
	}
	return result, true
}

func fromLastMessage[T any](sess *session.Session) (T, bool) {
	var result T
	text := sess.LastAssistantMessage()
	if text == "" {
		return result, false
	}
	if err := json.Unmarshal([]byte(extract.JSONObject(text)), &result); err != nil {
		return result, false
	}
	return result, true
}
