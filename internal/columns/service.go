package columns

import (
	"github.com/gin-gonic/gin"

	"github.com/lodestar-lab/temporal-engine/internal/core/parsing"
	"github.com/lodestar-lab/temporal-engine/internal/core/storage"
	"github.com/lodestar-lab/temporal-engine/internal/core/timezone"
)

// Service owns the column upload path: parse raw strings into a physical
// column and persist it.
type Service struct {
	store            storage.ColumnStore
	guesser          parsing.FormatGuesser
	sampleSize       int
	maxBodySizeBytes int

	defaultAmbiguous   timezone.AmbiguousPolicy
	defaultNonexistent timezone.NonexistentPolicy
}

func NewService(
	store storage.ColumnStore,
	guesser parsing.FormatGuesser,
	sampleSize int,
	maxBodySizeMB int,
	defaultAmbiguous timezone.AmbiguousPolicy,
	defaultNonexistent timezone.NonexistentPolicy,
) *Service {
	if store == nil {
		panic("columns: store must not be nil")
	}
	if guesser == nil {
		guesser = parsing.DefaultGuesser()
	}
	if sampleSize <= 0 {
		sampleSize = parsing.DefaultSampleSize
	}
	if maxBodySizeMB <= 0 {
		maxBodySizeMB = 1
	}
	return &Service{
		store:              store,
		guesser:            guesser,
		sampleSize:         sampleSize,
		maxBodySizeBytes:   maxBodySizeMB * 1024 * 1024,
		defaultAmbiguous:   defaultAmbiguous,
		defaultNonexistent: defaultNonexistent,
	}
}

// RegisterRoutes registers the column management routes.
func (s *Service) RegisterRoutes(r gin.IRouter) {
	r.POST("/v1/columns", s.UploadHandler)
	r.GET("/v1/columns", s.ListHandler)
	r.GET("/v1/columns/:id", s.GetHandler)
	r.DELETE("/v1/columns/:id", s.DeleteHandler)
}
