package extract

import (
	"github.com/PuerkitoBio/goquery"
	"github.com/sirupsen/logrus"
)

// strategy is one heuristic for locating a field candidate in a document.
// Strategies return "" when they find nothing.
type strategy struct {
	name string
	fn   func(doc *goquery.Document) string
}

// Extractor runs strategy chains against rendered documents. The logger is
// injected so extraction reporting follows the caller's configuration.
type Extractor struct {
	log logrus.FieldLogger
}

// New creates an Extractor reporting through the given logger.
func New(log logrus.FieldLogger) *Extractor {
	return &Extractor{log: log}
}

// runChain evaluates strategies in priority order and returns the first
// candidate accepted by valid. A panic inside a strategy skips that strategy
// only; the chain keeps going.
func (x *Extractor) runChain(doc *goquery.Document, field string, chain []strategy, valid func(string) bool) string {
	for _, s := range chain {
		candidate := x.runStrategy(doc, field, s)
		if candidate == "" {
			continue
		}
		if valid(candidate) {
			x.log.WithFields(logrus.Fields{
				"field":    field,
				"strategy": s.name,
			}).Debug("Field extracted")
			return candidate
		}
	}
	return ""
}

func (x *Extractor) runStrategy(doc *goquery.Document, field string, s strategy) (candidate string) {
	defer func() {
		if r := recover(); r != nil {
			x.log.WithFields(logrus.Fields{
				"field":    field,
				"strategy": s.name,
				"panic":    r,
			}).Warn("Extraction strategy failed, trying next")
			candidate = ""
		}
	}()
	return s.fn(doc)
}
