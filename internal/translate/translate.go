// Package translate converts extracted profile text between languages.
package translate

import "context"

// Translator converts text from a source to a target language. Both codes are
// ISO 639-1 (e.g. "nl", "en").
type Translator interface {
	Translate(ctx context.Context, text, source, target string) (string, error)
}
