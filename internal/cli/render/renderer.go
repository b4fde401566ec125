package render

import "github.com/trebuchet-org/artigen/internal/usecase"

// Renderer writes a use case result to the terminal
type Renderer[T any] interface {
	Render(result T) error
}

var (
	_ Renderer[*usecase.CompileResult]       = (*CompileRenderer)(nil)
	_ Renderer[*usecase.ListArtifactsResult] = (*ArtifactsRenderer)(nil)
)
