// Package gemini Google Gemini 모델 호출을 담당합니다.
//
// 요청마다 클라이언트를 생성하고 호출이 끝나면 닫습니다. 일시적인 API
// 오류에 대해서는 설정된 횟수만큼 선형 백오프(시도 횟수 x 대기 시간)로
// 재시도하며, 전체 호출 시간은 설정된 타임아웃으로 제한됩니다.
package gemini

import (
	"context"
	"errors"
	"time"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"

	apperrors "github.com/darkkaiser/typhoon-safety-server/internal/pkg/errors"
	applog "github.com/darkkaiser/typhoon-safety-server/pkg/log"
)

const component = "gemini"

// userText 이미지와 함께 전달되는 사용자 메시지입니다.
// 분석 지침은 SystemInstruction으로 전달되므로 여기서는 JSON 응답만 요구합니다.
const userText = "위 지침에 따라 이 사진의 태풍 위험요소를 분석하고, 결과를 JSON으로만 응답해주세요."

// Options Gemini 호출에 필요한 설정값입니다.
type Options struct {
	APIKey          string
	Model           string
	Temperature     float64
	MaxOutputTokens int
	RequestTimeout  time.Duration
	MaxRetries      int
	RetryDelay      time.Duration
}

// Engine Gemini 모델 호출 엔진입니다.
type Engine struct {
	opts Options
}

// NewEngine Engine 인스턴스를 생성합니다.
func NewEngine(opts Options) *Engine {
	return &Engine{
		opts: opts,
	}
}

// Model 설정된 모델명을 반환합니다.
func (e *Engine) Model() string {
	return e.opts.Model
}

// Health 엔진이 호출 가능한 상태인지 확인합니다.
// 과금을 피하기 위해 실제 API 호출 없이 필수 설정값의 존재 여부만 검사합니다.
func (e *Engine) Health() error {
	if e.opts.APIKey == "" {
		return apperrors.New(apperrors.Unavailable, "Gemini API 키가 설정되지 않았습니다")
	}
	return nil
}

// GenerateAnalysis 시스템 프롬프트와 JPEG 이미지를 모델에 전달하고
// 응답 텍스트를 반환합니다.
//
// 모델에는 JSON 형식의 응답(ResponseMIMEType "application/json")을
// 요구하지만, 반환값은 검증되지 않은 원문 텍스트입니다. 파싱과 검증은
// 호출자의 몫입니다.
func (e *Engine) GenerateAnalysis(ctx context.Context, systemPrompt string, imageJPEG []byte) (string, error) {
	if e.opts.APIKey == "" {
		return "", apperrors.New(apperrors.InvalidInput, "Gemini API 키가 설정되지 않았습니다")
	}

	ctx, cancel := context.WithTimeout(ctx, e.opts.RequestTimeout)
	defer cancel()

	client, err := genai.NewClient(ctx, option.WithAPIKey(e.opts.APIKey))
	if err != nil {
		return "", apperrors.Wrap(err, apperrors.Unavailable, "Gemini 클라이언트 생성에 실패했습니다")
	}
	defer client.Close()

	m := client.GenerativeModel(e.opts.Model)
	m.GenerationConfig = genai.GenerationConfig{
		Temperature:      ptrFloat32(float32(e.opts.Temperature)),
		MaxOutputTokens:  ptrInt32(int32(e.opts.MaxOutputTokens)),
		ResponseMIMEType: "application/json",
	}
	m.SystemInstruction = &genai.Content{
		Parts: []genai.Part{genai.Text(systemPrompt)},
	}

	parts := []genai.Part{
		genai.Text(userText),
		&genai.Blob{MIMEType: "image/jpeg", Data: imageJPEG},
	}

	// 일시적인 오류를 대비한 선형 백오프 재시도
	var lastErr error
	for attempt := 1; attempt <= e.opts.MaxRetries; attempt++ {
		resp, err := m.GenerateContent(ctx, parts...)
		if err != nil {
			lastErr = err

			if ctx.Err() != nil {
				break
			}

			applog.WithComponentAndFields(component, applog.Fields{
				"attempt":     attempt,
				"max_retries": e.opts.MaxRetries,
				"error":       err,
			}).Warn("Gemini API 호출 실패, 재시도합니다")

			select {
			case <-ctx.Done():
			case <-time.After(time.Duration(attempt) * e.opts.RetryDelay):
			}
			continue
		}

		text := firstText(resp)
		if text == "" {
			return "", apperrors.New(apperrors.ExecutionFailed, "Gemini 응답에 텍스트가 없습니다")
		}
		return text, nil
	}

	if errors.Is(lastErr, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return "", apperrors.Wrap(lastErr, apperrors.Timeout, "Gemini API 호출 시간이 초과되었습니다")
	}
	return "", apperrors.Wrap(lastErr, apperrors.ExecutionFailed, "Gemini API 호출에 실패했습니다")
}

// firstText 응답 후보들 중 첫 번째 텍스트 파트를 반환합니다.
func firstText(resp *genai.GenerateContentResponse) string {
	if resp == nil || len(resp.Candidates) == 0 {
		return ""
	}
	for _, c := range resp.Candidates {
		if c.Content == nil {
			continue
		}
		for _, p := range c.Content.Parts {
			if t, ok := p.(genai.Text); ok {
				return string(t)
			}
		}
	}
	return ""
}

func ptrFloat32(v float32) *float32 { return &v }

func ptrInt32(v int32) *int32 { return &v }
