package pdf

import (
	"context"
	"io"

	"github.com/smallbiznis/gareline/internal/providers/document"
)

type Provider interface {
	Render(ctx context.Context, doc document.Document) (io.Reader, error)
}

const ContentType = "application/pdf"
