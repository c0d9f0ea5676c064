package model

import "errors"

var (
	// ErrNoResponse is returned when a model closes its channels without answering.
	ErrNoResponse = errors.New("model returned no response")
	// ErrScriptExhausted is returned by ScriptedModel when no responses remain.
	ErrScriptExhausted = errors.New("scripted model has no responses left")
)
