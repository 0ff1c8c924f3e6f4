// Package analysis 이미지 한 장에 대한 태풍 위험요소 분석 파이프라인을 제공합니다.
//
// 파이프라인은 이미지 전처리, 모델 호출, 응답 파싱/정규화의 세 단계로
// 구성되며, Analyzer가 이를 순서대로 수행합니다. HTTP 핸들러와 배치
// CLI는 ImageAnalyzer 인터페이스를 통해 분석기를 사용합니다.
package analysis

import (
	"context"
	"time"

	"github.com/darkkaiser/typhoon-safety-server/internal/analysis/gemini"
	"github.com/darkkaiser/typhoon-safety-server/internal/analysis/image"
	"github.com/darkkaiser/typhoon-safety-server/internal/analysis/prompt"
	"github.com/darkkaiser/typhoon-safety-server/internal/analysis/result"
	"github.com/darkkaiser/typhoon-safety-server/internal/config"
	applog "github.com/darkkaiser/typhoon-safety-server/pkg/log"
)

const component = "analyzer"

// ImageAnalyzer 이미지를 분석하여 태풍 위험요소 평가를 반환합니다.
type ImageAnalyzer interface {
	Analyze(ctx context.Context, data []byte) (*result.AnalysisResult, error)
}

// Vision 전처리된 JPEG 이미지를 모델에 전달하고 원문 응답 텍스트를 받아옵니다.
type Vision interface {
	GenerateAnalysis(ctx context.Context, systemPrompt string, imageJPEG []byte) (string, error)
}

// Analyzer 전처리, 모델 호출, 파싱/정규화를 순서대로 수행하는 분석기입니다.
type Analyzer struct {
	vision    Vision
	processor *image.Processor
	modelName string
}

// NewAnalyzer 설정값으로 Analyzer 인스턴스를 생성합니다.
func NewAnalyzer(appConfig *config.AppConfig) *Analyzer {
	if appConfig == nil {
		panic("AppConfig는 필수입니다")
	}

	engine := gemini.NewEngine(gemini.Options{
		APIKey:          appConfig.Gemini.APIKey,
		Model:           appConfig.Gemini.Model,
		Temperature:     appConfig.Gemini.Temperature,
		MaxOutputTokens: appConfig.Gemini.MaxOutputTokens,
		RequestTimeout:  appConfig.Gemini.RequestTimeoutDuration(),
		MaxRetries:      appConfig.Gemini.MaxRetries,
		RetryDelay:      appConfig.Gemini.RetryDelayDuration(),
	})

	return &Analyzer{
		vision: engine,
		processor: image.NewProcessor(
			appConfig.Image.MaxWidth,
			appConfig.Image.MaxHeight,
			appConfig.Image.JPEGQuality,
		),
		modelName: appConfig.Gemini.Model,
	}
}

// Health 분석 파이프라인이 사용 가능한 상태인지 확인합니다.
// 모델 엔진이 상태 점검을 지원하는 경우 그 결과를 그대로 반환합니다.
func (a *Analyzer) Health() error {
	if checker, ok := a.vision.(interface{ Health() error }); ok {
		return checker.Health()
	}
	return nil
}

// Analyze 이미지를 분석하여 정규화된 결과를 반환합니다.
//
// 전처리와 모델 호출의 실패는 에러로 반환되지만, 모델 응답이 유효한
// JSON이 아닌 경우는 에러가 아니라 overall_risk_level이 unknown인
// 대체 결과로 처리됩니다.
func (a *Analyzer) Analyze(ctx context.Context, data []byte) (*result.AnalysisResult, error) {
	started := time.Now()

	processed, info, err := a.processor.Process(data)
	if err != nil {
		applog.WithComponentAndFields(component, applog.Fields{
			"error": err,
		}).Error("이미지 전처리 실패")
		return nil, err
	}

	text, err := a.vision.GenerateAnalysis(ctx, prompt.Analysis(), processed)
	if err != nil {
		applog.WithComponentAndFields(component, applog.Fields{
			"duration_ms": time.Since(started).Milliseconds(),
			"error":       err,
		}).Error("모델 호출 실패")
		return nil, err
	}

	parsed, ok := result.Parse(text)
	if !ok {
		applog.WithComponent(component).Warn("모델 응답에서 JSON을 추출하지 못해 대체 결과를 반환합니다")
	}

	res := result.Normalize(parsed)
	res.ImageInfo = info
	res.Model = a.modelName
	res.AnalyzedAt = time.Now().Format(time.RFC3339)

	applog.WithComponentAndFields(component, applog.Fields{
		"duration_ms":   time.Since(started).Milliseconds(),
		"risk_level":    res.OverallRiskLevel,
		"total_hazards": res.RiskSummary.TotalHazards,
		"confidence":    res.ConfidenceScore,
		"is_valid":      res.Validation.IsValid,
	}).Info("이미지 분석 완료")

	return res, nil
}
