package mcp

import (
	"context"

	mcplib "github.com/felixgeelhaar/mcp-go"

	"github.com/felixgeelhaar/loadline/pkg/storage"
)

// SchemaURI serves the JSON schema of importable snapshot files.
const SchemaURI = "loadline://schema"

func (s *Server) registerSchemaResource() {
	s.mcpServer.Resource(SchemaURI).
		Name(SchemaURI).
		Description("JSON schema of the snapshot files accepted by loadline import").
		MimeType("application/schema+json").
		Handler(func(_ context.Context, _ string, _ map[string]string) (*mcplib.ResourceContent, error) {
			return &mcplib.ResourceContent{
				URI:      SchemaURI,
				MimeType: "application/schema+json",
				Text:     storage.SnapshotSchemaJSON,
			}, nil
		})
}
