package service

import "github.com/bibbank/demoscore/internal/domain/model"

// Scorer defines the interface for producing a demo score.
// ScoreEngine is the only production implementation; tests substitute stubs.
type Scorer interface {
	Score(input model.FeatureInput) (model.ScoreResult, error)
}
