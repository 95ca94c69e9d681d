package study

import (
	"context"
	"fmt"
	"io"
	"mime"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/abhisek/learnassist/internal/questions"
	"github.com/abhisek/learnassist/internal/session"
)

// MaxDocumentBytes caps how much of an uploaded document is read as text.
const MaxDocumentBytes = 1 << 20

var textExtensions = map[string]bool{
	".txt": true, ".md": true, ".markdown": true, ".csv": true, ".rst": true,
}

// IsText reports whether a document with this name and content type is
// read as plain text. Other formats are registered by name only.
func IsText(name, contentType string) bool {
	if mt, _, err := mime.ParseMediaType(contentType); err == nil && strings.HasPrefix(mt, "text/") {
		return true
	}
	return textExtensions[strings.ToLower(filepath.Ext(name))]
}

// ContentType returns contentType, or one guessed from the file extension
// when empty.
func ContentType(name, contentType string) string {
	if contentType != "" {
		return contentType
	}
	if ct := mime.TypeByExtension(filepath.Ext(name)); ct != "" {
		return ct
	}
	return "application/octet-stream"
}

// ReadDocument builds a questions.Document from r. Text documents are read
// up to MaxDocumentBytes; binary ones carry no text.
func ReadDocument(r io.Reader, name, contentType string) (questions.Document, error) {
	doc := questions.Document{Name: name, Type: ContentType(name, contentType)}
	if !IsText(name, doc.Type) {
		return doc, nil
	}
	b, err := io.ReadAll(io.LimitReader(r, MaxDocumentBytes))
	if err != nil {
		return doc, fmt.Errorf("read %s: %w", name, err)
	}
	if !utf8.Valid(b) {
		return doc, nil
	}
	doc.Text = string(b)
	return doc, nil
}

// Attach registers doc on the session, records the ingestion when it is a
// new document, summarises it and hands the summary to the kit. It returns
// the summary.
func Attach(ctx context.Context, state *session.SessionState, kit *Kit, rec *Recorder, sum questions.Summarizer, info session.DocumentInfo, doc questions.Document) (string, error) {
	if session.SetDocument(state, info) {
		rec.Document(ctx, state, info)
	}
	summary, err := sum.Summarize(ctx, doc)
	if err != nil {
		return "", fmt.Errorf("summarize %s: %w", info.Name, err)
	}
	kit.SetDocument(info.Name, summary)
	return summary, nil
}
