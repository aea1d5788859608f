package lsp

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"sync"

	"github.com/tliron/commonlog"
	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"

	"ctxtok/internal/tokenizer"
)

var log = commonlog.GetLogger("ctxtok.lsp")

// Semantic token types reported to LSP clients, in legend order
var SemanticTokenTypes = []string{
	"keyword",
	"operator",
	"string",
}

// No modifiers are reported yet.
var SemanticTokenModifiers = []string{}

// Handler implements the LSP server handlers for documents tokenized with
// one grammar.
type Handler struct {
	mu      sync.RWMutex
	root    *tokenizer.ContextDefinition
	content map[string]string
	trees   map[string]*tokenizer.Tree
}

// NewHandler creates a handler that tokenizes every document starting in
// root.
func NewHandler(root *tokenizer.ContextDefinition) *Handler {
	return &Handler{
		root:    root,
		content: make(map[string]string),
		trees:   make(map[string]*tokenizer.Tree),
	}
}

// Protocol wires the handler methods into a glsp protocol handler.
func (h *Handler) Protocol() *protocol.Handler {
	return &protocol.Handler{
		Initialize:                     h.Initialize,
		Initialized:                    h.Initialized,
		Shutdown:                       h.Shutdown,
		SetTrace:                       h.SetTrace,
		TextDocumentDidOpen:            h.TextDocumentDidOpen,
		TextDocumentDidClose:           h.TextDocumentDidClose,
		TextDocumentDidChange:          h.TextDocumentDidChange,
		TextDocumentSemanticTokensFull: h.TextDocumentSemanticTokensFull,
	}
}

// Initialize responds to the LSP client's initialize request and advertises the server's capabilities
func (h *Handler) Initialize(ctx *glsp.Context, params *protocol.InitializeParams) (any, error) {
	log.Infof("initialize, root context %s", h.root.Name())

	return &protocol.InitializeResult{
		Capabilities: protocol.ServerCapabilities{
			TextDocumentSync: &protocol.TextDocumentSyncOptions{
				OpenClose: ptrBool(true), // notify on open/close events
				Change:    ptrSyncKind(protocol.TextDocumentSyncKindFull),
			},
			SemanticTokensProvider: &protocol.SemanticTokensOptions{
				Legend: protocol.SemanticTokensLegend{
					TokenTypes:     SemanticTokenTypes,
					TokenModifiers: SemanticTokenModifiers,
				},
				Full: ptrBool(true), // support full-document semantic token requests
			},
		},
	}, nil
}

func (h *Handler) Initialized(ctx *glsp.Context, params *protocol.InitializedParams) error {
	log.Info("initialized")
	return nil
}

func (h *Handler) Shutdown(ctx *glsp.Context) error {
	log.Info("shutdown")
	return nil
}

func (h *Handler) SetTrace(ctx *glsp.Context, params *protocol.SetTraceParams) error {
	protocol.SetTraceValue(params.Value)
	return nil
}

// TextDocumentDidOpen tokenizes the opened text and publishes its diagnostics
func (h *Handler) TextDocumentDidOpen(ctx *glsp.Context, params *protocol.DidOpenTextDocumentParams) error {
	log.Infof("opened %s", params.TextDocument.URI)

	diagnostics := h.update(params.TextDocument.URI, params.TextDocument.Text)
	sendDiagnosticNotification(ctx, params.TextDocument.URI, diagnostics)
	return nil
}

// TextDocumentDidClose forgets the document
func (h *Handler) TextDocumentDidClose(ctx *glsp.Context, params *protocol.DidCloseTextDocumentParams) error {
	log.Infof("closed %s", params.TextDocument.URI)

	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.content, params.TextDocument.URI)
	delete(h.trees, params.TextDocument.URI)
	return nil
}

// TextDocumentDidChange re-tokenizes the document. With full sync the last
// change carries the whole text; ranged changes are applied in order.
func (h *Handler) TextDocumentDidChange(ctx *glsp.Context, params *protocol.DidChangeTextDocumentParams) error {
	uri := params.TextDocument.URI
	log.Debugf("changed %s", uri)

	h.mu.RLock()
	text := h.content[uri]
	h.mu.RUnlock()

	for _, change := range params.ContentChanges {
		switch c := change.(type) {
		case protocol.TextDocumentContentChangeEventWhole:
			text = c.Text
		case protocol.TextDocumentContentChangeEvent:
			if c.Range == nil {
				text = c.Text
				continue
			}
			text = applyChange(text, *c.Range, c.Text)
		}
	}

	diagnostics := h.update(uri, text)
	sendDiagnosticNotification(ctx, uri, diagnostics)
	return nil
}

// TextDocumentSemanticTokensFull handles semantic token requests for the entire document
func (h *Handler) TextDocumentSemanticTokensFull(ctx *glsp.Context, params *protocol.SemanticTokensParams) (*protocol.SemanticTokens, error) {
	uri := params.TextDocument.URI
	log.Debugf("semantic tokens for %s", uri)

	tree, text, err := h.getOrUpdateTree(ctx, uri)
	if err != nil {
		return nil, err
	}
	if tree == nil {
		return &protocol.SemanticTokens{Data: []protocol.UInteger{}}, nil
	}

	tokens := collectSemanticTokens(tree, newLineIndex(text))

	data := []protocol.UInteger{}
	var prevLine, prevStart uint32

	// Encode tokens into LSP wire format (using delta-line, delta-start compression)
	for _, token := range tokens {
		deltaLine := token.Line - prevLine
		deltaStart := token.StartChar
		if deltaLine == 0 {
			deltaStart = token.StartChar - prevStart
		}
		data = append(data, deltaLine, deltaStart, token.Length, uint32(token.TokenType), uint32(token.TokenModifiers))

		prevLine = token.Line
		prevStart = token.StartChar
	}

	return &protocol.SemanticTokens{Data: data}, nil
}

// getOrUpdateTree returns the cached tree, reading the document from disk
// when the handler has no text for it. The tree is nil when the text does not
// tokenize.
func (h *Handler) getOrUpdateTree(ctx *glsp.Context, uri protocol.DocumentUri) (*tokenizer.Tree, string, error) {
	h.mu.RLock()
	tree := h.trees[uri]
	text, ok := h.content[uri]
	h.mu.RUnlock()
	if ok {
		return tree, text, nil
	}

	path, err := uriToPath(uri)
	if err != nil {
		return nil, "", err
	}
	source, err := os.ReadFile(path)
	if err != nil {
		return nil, "", fmt.Errorf("failed to read file %s: %w", path, err)
	}

	diagnostics := h.update(uri, string(source))
	sendDiagnosticNotification(ctx, uri, diagnostics)

	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.trees[uri], h.content[uri], nil
}

// update stores text and its tree and returns the diagnostics to publish.
// A failed parse keeps the text but drops the tree.
func (h *Handler) update(uri protocol.DocumentUri, text string) []protocol.Diagnostic {
	tree, err := tokenizer.Parse(text, h.root)

	h.mu.Lock()
	h.content[uri] = text
	if err != nil {
		delete(h.trees, uri)
	} else {
		h.trees[uri] = tree
	}
	h.mu.Unlock()

	if err != nil {
		log.Debugf("%s: %s", uri, err)
		return ConvertError(err, newLineIndex(text))
	}
	return []protocol.Diagnostic{}
}

// Convert URI to platform-local file path
func uriToPath(rawURI string) (string, error) {
	u, err := url.Parse(rawURI)
	if err != nil {
		return "", fmt.Errorf("invalid URI %s: %w", rawURI, err)
	}

	path := u.Path

	// On Windows, remove leading slash (e.g., /C:/...) → C:/...
	if runtime.GOOS == "windows" && strings.HasPrefix(path, "/") && len(path) > 3 && path[2] == ':' {
		path = path[1:]
	}

	// Normalize to platform-specific separators
	return filepath.FromSlash(path), nil
}

func sendDiagnosticNotification(ctx *glsp.Context, uri protocol.URI, diagnostics []protocol.Diagnostic) {
	if ctx == nil || ctx.Notify == nil {
		return
	}
	log.Debugf("publishing %d diagnostics for %s", len(diagnostics), uri)

	ctx.Notify(protocol.ServerTextDocumentPublishDiagnostics, &protocol.PublishDiagnosticsParams{
		URI:         uri,
		Diagnostics: diagnostics,
	})
}

func ptrBool(b bool) *bool {
	return &b
}

func ptrSyncKind(k protocol.TextDocumentSyncKind) *protocol.TextDocumentSyncKind {
	return &k
}
