package analysis

import (
	"bytes"
	"context"
	stdimage "image"
	"image/jpeg"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	imageproc "github.com/darkkaiser/typhoon-safety-server/internal/analysis/image"
	"github.com/darkkaiser/typhoon-safety-server/internal/analysis/prompt"
	"github.com/darkkaiser/typhoon-safety-server/internal/config"
	apperrors "github.com/darkkaiser/typhoon-safety-server/internal/pkg/errors"
)

// =============================================================================
// Test Helpers
// =============================================================================

// validModelResponse 모델이 정상적으로 반환하는 형태의 JSON 응답입니다.
const validModelResponse = `{
	"overall_risk_level": "high",
	"hazards_by_category": {
		"flying_objects": [
			{
				"item": "화분",
				"description": "베란다 난간 위 화분",
				"movement_risk": "high",
				"impact_severity": "medium",
				"overall_risk": "high",
				"location": "베란다 난간",
				"recommendation": "실내로 옮기세요"
			}
		],
		"structural_damage": [],
		"elevated_objects": [],
		"tree_hazards": []
	},
	"risk_summary": {
		"critical_count": 0,
		"high_count": 1,
		"medium_count": 0,
		"low_count": 0,
		"total_hazards": 1
	},
	"urgent_actions": ["화분을 실내로 옮기세요"],
	"summary": "베란다 화분이 주요 위험요소입니다",
	"confidence_score": 0.9
}`

// visionMock 모델 호출을 대체하는 테스트 대역입니다.
type visionMock struct {
	response   string
	err        error
	calls      int
	lastPrompt string
}

func (v *visionMock) GenerateAnalysis(_ context.Context, systemPrompt string, _ []byte) (string, error) {
	v.calls++
	v.lastPrompt = systemPrompt
	if v.err != nil {
		return "", v.err
	}
	return v.response, nil
}

func newTestAnalyzer(v Vision) *Analyzer {
	return &Analyzer{
		vision:    v,
		processor: imageproc.NewProcessor(1024, 1024, 85),
		modelName: "gemini-1.5-flash",
	}
}

func testJPEG(t *testing.T) []byte {
	t.Helper()

	var buf bytes.Buffer
	img := stdimage.NewRGBA(stdimage.Rect(0, 0, 32, 32))
	require.NoError(t, jpeg.Encode(&buf, img, &jpeg.Options{Quality: 85}))
	return buf.Bytes()
}

// =============================================================================
// NewAnalyzer Tests
// =============================================================================

func TestNewAnalyzer(t *testing.T) {
	t.Parallel()

	appConfig := &config.AppConfig{
		Gemini: config.GeminiConfig{
			APIKey:          "test-api-key",
			Model:           "gemini-1.5-flash",
			Temperature:     0.1,
			MaxOutputTokens: 4096,
			RequestTimeout:  "60s",
			MaxRetries:      3,
			RetryDelay:      "300ms",
		},
		Image: config.ImageConfig{
			MaxWidth:    1024,
			MaxHeight:   1024,
			JPEGQuality: 85,
		},
	}

	a := NewAnalyzer(appConfig)

	require.NotNil(t, a)
	assert.NotNil(t, a.vision)
	assert.NotNil(t, a.processor)
	assert.Equal(t, "gemini-1.5-flash", a.modelName)
}

func TestNewAnalyzer_NilConfig(t *testing.T) {
	t.Parallel()

	assert.PanicsWithValue(t, "AppConfig는 필수입니다", func() {
		NewAnalyzer(nil)
	})
}

// =============================================================================
// Analyze Tests
// =============================================================================

func TestAnalyzer_Analyze(t *testing.T) {
	t.Parallel()

	mock := &visionMock{response: validModelResponse}
	a := newTestAnalyzer(mock)

	res, err := a.Analyze(context.Background(), testJPEG(t))

	require.NoError(t, err)
	require.NotNil(t, res)

	assert.Equal(t, 1, mock.calls)
	assert.Equal(t, prompt.Analysis(), mock.lastPrompt)

	assert.Equal(t, "high", res.OverallRiskLevel)
	assert.Equal(t, 1, res.RiskSummary.TotalHazards)
	assert.True(t, res.Validation.IsValid)

	// 분석기가 채우는 메타데이터
	require.NotNil(t, res.ImageInfo)
	assert.Equal(t, "32x32", res.ImageInfo.ProcessedSize)
	assert.Equal(t, "gemini-1.5-flash", res.Model)

	analyzedAt, parseErr := time.Parse(time.RFC3339, res.AnalyzedAt)
	require.NoError(t, parseErr)
	assert.WithinDuration(t, time.Now(), analyzedAt, time.Minute)
}

func TestAnalyzer_Analyze_VisionError(t *testing.T) {
	t.Parallel()

	mock := &visionMock{err: apperrors.New(apperrors.Timeout, "Gemini API 호출 시간이 초과되었습니다")}
	a := newTestAnalyzer(mock)

	res, err := a.Analyze(context.Background(), testJPEG(t))

	require.Error(t, err)
	assert.Nil(t, res)
	assert.True(t, apperrors.Is(err, apperrors.Timeout))
}

func TestAnalyzer_Analyze_FallbackOnUnparseableResponse(t *testing.T) {
	t.Parallel()

	mock := &visionMock{response: "죄송합니다. 이미지를 분석할 수 없습니다."}
	a := newTestAnalyzer(mock)

	res, err := a.Analyze(context.Background(), testJPEG(t))

	// 파싱 실패는 에러가 아니라 unknown 등급의 대체 결과로 처리된다.
	require.NoError(t, err)
	require.NotNil(t, res)

	assert.Equal(t, "unknown", res.OverallRiskLevel)
	assert.Equal(t, "죄송합니다. 이미지를 분석할 수 없습니다.", res.RawResponse)
	assert.False(t, res.Validation.IsValid)
}

func TestAnalyzer_Analyze_InvalidImage(t *testing.T) {
	t.Parallel()

	mock := &visionMock{response: validModelResponse}
	a := newTestAnalyzer(mock)

	res, err := a.Analyze(context.Background(), nil)

	require.Error(t, err)
	assert.Nil(t, res)
	assert.True(t, apperrors.Is(err, apperrors.InvalidInput))

	// 전처리에 실패하면 모델을 호출하지 않는다.
	assert.Zero(t, mock.calls)
}
