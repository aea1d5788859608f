// SPDX-License-Identifier: Apache-2.0
package main

import (
	"log"
	"os"

	"github.com/tliron/commonlog"
	_ "github.com/tliron/commonlog/simple"
	"github.com/tliron/glsp/server"

	"ctxtok/grammar"
	"ctxtok/internal/lsp"
	"ctxtok/internal/tokenizer"
	"ctxtok/token"
)

const lsName = "ctxtok" // Name identifier for the language server

// grammarEnv names a grammar file to use instead of the built-in one.
const grammarEnv = "CTXTOK_GRAMMAR"

func main() {
	// Configure debug logging (1 = debug level, nil = default logger)
	commonlog.Configure(1, nil)

	root, err := loadRoot()
	if err != nil {
		log.Println("Error loading grammar:", err)
		os.Exit(1)
	}

	handler := lsp.NewHandler(root).Protocol()

	// - debug: whether to enable internal GLSP debug logs
	s := server.NewServer(handler, lsName, false)

	log.Println("Starting ctxtok LSP server...")

	// Start the server over standard input/output (used by most editors for LSP)
	if err := s.RunStdio(); err != nil {
		log.Println("Error starting ctxtok LSP server:", err)
		os.Exit(1)
	}
}

func loadRoot() (*tokenizer.ContextDefinition, error) {
	path := os.Getenv(grammarEnv)
	if path == "" {
		return token.DefaultGrammar(), nil
	}
	g, err := grammar.Load(path)
	if err != nil {
		return nil, err
	}
	return g.Root, nil
}
