package extractor

import (
	"context"
	"strings"
	"time"

	"github.com/parlevel-next/internal/logger"
)

// Extractor 下单意图抽取器
type Extractor struct {
	oracle Oracle
	now    func() time.Time
}

// NewExtractor 创建抽取器
func NewExtractor(oracle Oracle) *Extractor {
	return &Extractor{oracle: oracle, now: time.Now}
}

// WithClock 替换时间源
func (e *Extractor) WithClock(now func() time.Time) *Extractor {
	if now != nil {
		e.now = now
	}
	return e
}

// Extract 将自由文本转换为下单意图，不做重试
func (e *Extractor) Extract(ctx context.Context, rawText string) (*OrderIntent, error) {
	if strings.TrimSpace(rawText) == "" {
		return nil, ErrEmptyOrderText
	}
	if e.oracle == nil {
		return nil, &ExtractionTransportError{Err: errOracleMissing}
	}

	output, err := e.oracle.Complete(ctx, BuildSystemPrompt(e.now()), BuildUserPrompt(rawText))
	if err != nil {
		if !IsTransportError(err) {
			err = &ExtractionTransportError{Err: err}
		}
		logger.Warnw("extractor_oracle_failed", "error", err)
		return nil, err
	}

	intent, err := ParseIntent(output)
	if err != nil {
		logger.Warnw("extractor_output_invalid", "error", err)
		return nil, err
	}
	logger.Debugw("extractor_intent_parsed",
		"use_par_level", intent.UseParLevel,
		"lines", len(intent.Lines),
		"has_delivery", intent.ExpectedDelivery != nil,
	)
	return intent, nil
}
