// Package container provides dependency injection for the txncat application.
// It centralizes the creation and wiring of all application dependencies,
// making them explicit and testable.
package container

import (
	"fmt"
	"time"

	"fjacquet/txncat/internal/batch"
	"fjacquet/txncat/internal/categorizer"
	"fjacquet/txncat/internal/config"
	"fjacquet/txncat/internal/logging"
	"fjacquet/txncat/internal/pdfparser"
	"fjacquet/txncat/internal/pipeline"
	"fjacquet/txncat/internal/segmenter"
	"fjacquet/txncat/internal/store"
	"fjacquet/txncat/internal/txparser"
)

// Container holds all application dependencies and provides methods to access them.
//
// Container is immutable after creation; every component it hands out is
// safe for concurrent use.
type Container struct {
	logger      logging.Logger
	config      *config.Config
	store       *store.RuleStore
	rulesSource string
	ruleSet     *categorizer.RuleSet
	parser      *txparser.Parser
	pipeline    *pipeline.Pipeline
	extractor   pdfparser.PageExtractor
	processor   *pdfparser.Processor
}

// NewContainer creates and wires all application dependencies, logging
// through a logrus adapter configured from cfg.
func NewContainer(cfg *config.Config) (*Container, error) {
	if cfg == nil {
		return nil, fmt.Errorf("configuration cannot be nil")
	}
	return NewContainerWithLogger(cfg, logging.NewLogrusAdapter(cfg.Log.Level, cfg.Log.Format))
}

// NewContainerWithLogger is NewContainer with an injected logger.
func NewContainerWithLogger(cfg *config.Config, logger logging.Logger) (*Container, error) {
	if cfg == nil {
		return nil, fmt.Errorf("configuration cannot be nil")
	}
	if logger == nil {
		logger = logging.NewLogrusAdapter(cfg.Log.Level, cfg.Log.Format)
	}

	ruleStore := store.NewRuleStore(cfg.Rules.File, logger)
	rules, source, err := ruleStore.LoadRules()
	if err != nil {
		return nil, fmt.Errorf("failed to load category rules: %w", err)
	}
	ruleSet, err := categorizer.NewRuleSet(rules)
	if err != nil {
		return nil, fmt.Errorf("failed to compile category rules: %w", err)
	}

	parser := txparser.NewParser(ruleSet, logger)
	pipe := pipeline.New(parser, segmenter.New(logger), pipeline.Options{
		SkipPrefixes:  cfg.Statement.SkipPrefixes,
		SkipPhrases:   cfg.Statement.SkipPhrases,
		FooterMarkers: cfg.Statement.FooterMarkers,
	}, logger)

	extractor, err := pdfparser.NewExtractor(cfg.PDF.Extractor, logger)
	if err != nil {
		return nil, err
	}
	if pt, ok := extractor.(*pdfparser.PdftotextExtractor); ok {
		if cfg.PDF.PdftotextPath != "" {
			pt.Binary = cfg.PDF.PdftotextPath
		}
		if cfg.PDF.TimeoutSeconds > 0 {
			pt.Timeout = time.Duration(cfg.PDF.TimeoutSeconds) * time.Second
		}
	}

	logger.Debug("Container initialized successfully",
		logging.F(logging.FieldRulesSource, source),
		logging.F(logging.FieldCount, len(rules)),
		logging.F(logging.FieldExtractor, extractor.Name()))

	return &Container{
		logger:      logger,
		config:      cfg,
		store:       ruleStore,
		rulesSource: source,
		ruleSet:     ruleSet,
		parser:      parser,
		pipeline:    pipe,
		extractor:   extractor,
		processor:   pdfparser.NewProcessor(extractor, pipe, logger),
	}, nil
}

// GetLogger returns the container's logger instance.
func (c *Container) GetLogger() logging.Logger {
	return c.logger
}

// GetConfig returns the container's configuration instance.
func (c *Container) GetConfig() *config.Config {
	return c.config
}

// GetStore returns the rule store.
func (c *Container) GetStore() *store.RuleStore {
	return c.store
}

// GetRulesSource names where the active rule table was read from.
func (c *Container) GetRulesSource() string {
	return c.rulesSource
}

// GetRuleSet returns the compiled category table.
func (c *Container) GetRuleSet() *categorizer.RuleSet {
	return c.ruleSet
}

// GetParser returns the transaction parser.
func (c *Container) GetParser() *txparser.Parser {
	return c.parser
}

// GetPipeline returns the extraction pipeline.
func (c *Container) GetPipeline() *pipeline.Pipeline {
	return c.pipeline
}

// GetExtractor returns the configured page extractor.
func (c *Container) GetExtractor() pdfparser.PageExtractor {
	return c.extractor
}

// GetProcessor returns the document processor.
func (c *Container) GetProcessor() *pdfparser.Processor {
	return c.processor
}

// NewBatchRunner returns a runner over the processor. A non-positive workers
// uses the configured batch.workers.
func (c *Container) NewBatchRunner(workers int) *batch.Runner {
	if workers <= 0 {
		workers = c.config.Batch.Workers
	}
	return batch.NewRunner(c.processor, workers, c.logger)
}

// Close performs cleanup of container resources.
func (c *Container) Close() error {
	c.logger.Debug("Container closed")
	return nil
}
