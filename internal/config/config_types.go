package config

import (
	"fmt"
	"slices"
	"strings"
	"time"

	apperrors "github.com/darkkaiser/typhoon-safety-server/internal/pkg/errors"
	"github.com/darkkaiser/typhoon-safety-server/pkg/cronx"
	"github.com/go-playground/validator/v10"
)

// minRecommendedRequestTimeout 모델 호출 타임아웃의 권장 하한값입니다.
// 이보다 짧으면 VerifyRecommendations가 경고를 반환합니다.
const minRecommendedRequestTimeout = 5 * time.Second

// riskLevels 위험 등급 설정값으로 허용되는 문자열 목록 (낮은 등급 -> 높은 등급 순)
var riskLevels = []string{"low", "medium", "high", "critical"}

// ServerConfig HTTP 서버의 포트, TLS, 업로드 제한, 속도 제한, CORS 정책을 정의하는 구조체
type ServerConfig struct {
	TLSServer       bool            `json:"tls_server"`
	TLSCertFile     string          `json:"tls_cert_file" validate:"required_if=TLSServer true,omitempty,file"`
	TLSKeyFile      string          `json:"tls_key_file" validate:"required_if=TLSServer true,omitempty,file"`
	ListenPort      int             `json:"listen_port" validate:"min=1,max=65535"`
	MaxUploadSizeMB int             `json:"max_upload_size_mb" validate:"min=1,max=100"`
	RateLimit       RateLimitConfig `json:"rate_limit"`
	CORS            CORSConfig      `json:"cors"`
}

func (c *ServerConfig) validate() error {
	if err := validate.Struct(c); err != nil {
		// Validator 에러를 사용자 친화적인 메시지로 변환한다.
		if validationErrors, ok := err.(validator.ValidationErrors); ok {
			for _, fieldErr := range validationErrors {
				switch fieldErr.StructField() {
				case "ListenPort":
					return apperrors.New(apperrors.InvalidInput, "웹 서버 포트(listen_port)는 1에서 65535 사이의 값이어야 합니다")
				case "MaxUploadSizeMB":
					return apperrors.New(apperrors.InvalidInput, "업로드 허용 최대 크기(max_upload_size_mb)는 1에서 100 사이의 값이어야 합니다")
				case "TLSCertFile":
					switch fieldErr.Tag() {
					case "required_if":
						return apperrors.New(apperrors.InvalidInput, "TLS 서버 활성화 시 인증서 파일 경로(tls_cert_file)는 필수입니다")
					case "file":
						return apperrors.New(apperrors.InvalidInput, fmt.Sprintf("지정된 TLS 인증서 파일(tls_cert_file)을 찾을 수 없습니다: '%v'", fieldErr.Value()))
					default:
						return apperrors.New(apperrors.InvalidInput, "TLS 인증서 파일 경로(tls_cert_file) 설정이 올바르지 않습니다")
					}
				case "TLSKeyFile":
					switch fieldErr.Tag() {
					case "required_if":
						return apperrors.New(apperrors.InvalidInput, "TLS 서버 활성화 시 키 파일 경로(tls_key_file)는 필수입니다")
					case "file":
						return apperrors.New(apperrors.InvalidInput, fmt.Sprintf("지정된 TLS 키 파일(tls_key_file)을 찾을 수 없습니다: '%v'", fieldErr.Value()))
					default:
						return apperrors.New(apperrors.InvalidInput, "TLS 키 파일 경로(tls_key_file) 설정이 올바르지 않습니다")
					}
				}
			}
		}
		return apperrors.Wrap(err, apperrors.InvalidInput, "웹 서버 설정 검증 중 알 수 없는 오류가 발생했습니다")
	}

	if err := c.RateLimit.validate(); err != nil {
		return err
	}
	return c.CORS.validate()
}

// RateLimitConfig 클라이언트 IP별 요청 속도 제한 정책을 정의하는 구조체
type RateLimitConfig struct {
	RequestsPerSecond float64 `json:"requests_per_second"`
	Burst             int     `json:"burst"`
}

func (c *RateLimitConfig) validate() error {
	if c.RequestsPerSecond <= 0 {
		return apperrors.New(apperrors.InvalidInput, "초당 허용 요청 수(requests_per_second)는 0보다 커야 합니다")
	}
	if c.Burst < 1 {
		return apperrors.New(apperrors.InvalidInput, "순간 허용 버스트 크기(burst)는 1 이상이어야 합니다")
	}
	return nil
}

// CORSConfig 웹 브라우저의 교차 출처 리소스 공유(CORS) 정책을 설정하는 구조체
type CORSConfig struct {
	AllowOrigins []string `json:"allow_origins" validate:"dive,cors_origin"`
}

func (c *CORSConfig) validate() error {
	if len(c.AllowOrigins) == 0 {
		return apperrors.New(apperrors.InvalidInput, "CORS 허용 도메인(allow_origins) 목록이 비어있습니다")
	}

	for _, origin := range c.AllowOrigins {
		if origin == "*" {
			if len(c.AllowOrigins) > 1 {
				return apperrors.New(apperrors.InvalidInput, "와일드카드(*)는 다른 도메인과 함께 사용할 수 없습니다. 모든 도메인을 허용하려면 와일드카드만 설정하세요")
			}

			// 와일드카드만 있는 경우는 유효함 (validator skip)
			return nil
		}
	}

	// 각 Origin 유효성 검사
	if err := validate.Struct(c); err != nil {
		if validationErrors, ok := err.(validator.ValidationErrors); ok {
			for _, fieldErr := range validationErrors {
				if fieldErr.Tag() == "cors_origin" {
					return apperrors.New(apperrors.InvalidInput, fmt.Sprintf("CORS Origin 형식이 올바르지 않습니다: '%v' (형식: Scheme://Host[:Port], 예: https://example.com)", fieldErr.Value()))
				}
			}
		}
		return apperrors.Wrap(err, apperrors.InvalidInput, "CORS 설정 검증 중 알 수 없는 오류가 발생했습니다")
	}
	return nil
}

// GeminiConfig Gemini 모델 호출에 필요한 인증 및 생성 파라미터를 정의하는 구조체
type GeminiConfig struct {
	APIKey          string  `json:"api_key"`
	Model           string  `json:"model"`
	Temperature     float64 `json:"temperature"`
	MaxOutputTokens int     `json:"max_output_tokens"`
	RequestTimeout  string  `json:"request_timeout"`
	MaxRetries      int     `json:"max_retries"`
	RetryDelay      string  `json:"retry_delay"`
}

func (c *GeminiConfig) validate() error {
	if strings.TrimSpace(c.APIKey) == "" {
		return apperrors.New(apperrors.InvalidInput, "Gemini API 키가 설정되지 않았습니다. 설정 파일의 gemini.api_key 또는 GEMINI_API_KEY 환경 변수로 설정하세요")
	}
	if strings.TrimSpace(c.Model) == "" {
		return apperrors.New(apperrors.InvalidInput, "Gemini 모델명(model)이 설정되지 않았습니다")
	}
	if c.Temperature < 0 || c.Temperature > 2 {
		return apperrors.New(apperrors.InvalidInput, "모델 온도(temperature)는 0에서 2 사이의 값이어야 합니다")
	}
	if c.MaxOutputTokens < 1 {
		return apperrors.New(apperrors.InvalidInput, "모델 응답 최대 토큰 수(max_output_tokens)는 1 이상이어야 합니다")
	}
	if d, err := time.ParseDuration(c.RequestTimeout); err != nil || d <= 0 {
		return apperrors.New(apperrors.InvalidInput, fmt.Sprintf("모델 호출 타임아웃(request_timeout) 설정이 올바르지 않습니다: '%s' (예: 60s, 1m30s)", c.RequestTimeout))
	}
	if c.MaxRetries < 1 || c.MaxRetries > 10 {
		return apperrors.New(apperrors.InvalidInput, "모델 호출 최대 시도 횟수(max_retries)는 1에서 10 사이의 값이어야 합니다")
	}
	if d, err := time.ParseDuration(c.RetryDelay); err != nil || d < 0 {
		return apperrors.New(apperrors.InvalidInput, fmt.Sprintf("재시도 대기 시간(retry_delay) 설정이 올바르지 않습니다: '%s' (예: 300ms, 1s)", c.RetryDelay))
	}
	return nil
}

// RequestTimeoutDuration 모델 호출 타임아웃을 time.Duration으로 반환합니다.
// 값은 validate에서 이미 검증되었으므로, 파싱에 실패하면 기본값을 반환합니다.
func (c *GeminiConfig) RequestTimeoutDuration() time.Duration {
	d, err := time.ParseDuration(c.RequestTimeout)
	if err != nil || d <= 0 {
		d, _ = time.ParseDuration(DefaultGeminiRequestTimeout)
	}
	return d
}

// RetryDelayDuration 재시도 간 기본 대기 시간을 time.Duration으로 반환합니다.
// 값은 validate에서 이미 검증되었으므로, 파싱에 실패하면 기본값을 반환합니다.
func (c *GeminiConfig) RetryDelayDuration() time.Duration {
	d, err := time.ParseDuration(c.RetryDelay)
	if err != nil || d < 0 {
		d, _ = time.ParseDuration(DefaultGeminiRetryDelay)
	}
	return d
}

// ImageConfig 업로드 이미지의 전처리(크기 조정, 재인코딩) 정책을 정의하는 구조체
type ImageConfig struct {
	MaxWidth    int `json:"max_width" validate:"min=16,max=8192"`
	MaxHeight   int `json:"max_height" validate:"min=16,max=8192"`
	JPEGQuality int `json:"jpeg_quality" validate:"min=1,max=100"`
}

func (c *ImageConfig) validate() error {
	if err := validate.Struct(c); err != nil {
		if validationErrors, ok := err.(validator.ValidationErrors); ok {
			for _, fieldErr := range validationErrors {
				switch fieldErr.StructField() {
				case "MaxWidth":
					return apperrors.New(apperrors.InvalidInput, "이미지 최대 가로 크기(max_width)는 16에서 8192 사이의 값이어야 합니다")
				case "MaxHeight":
					return apperrors.New(apperrors.InvalidInput, "이미지 최대 세로 크기(max_height)는 16에서 8192 사이의 값이어야 합니다")
				case "JPEGQuality":
					return apperrors.New(apperrors.InvalidInput, "JPEG 품질(jpeg_quality)은 1에서 100 사이의 값이어야 합니다")
				}
			}
		}
		return apperrors.Wrap(err, apperrors.InvalidInput, "이미지 전처리 설정 검증 중 알 수 없는 오류가 발생했습니다")
	}
	return nil
}

// HistoryConfig 분석 이력의 MySQL 저장 및 보관 정책을 정의하는 구조체
type HistoryConfig struct {
	Enabled         bool   `json:"enabled"`
	DSN             string `json:"dsn"`
	RetentionDays   int    `json:"retention_days"`
	CleanupSchedule string `json:"cleanup_schedule"`
}

func (c *HistoryConfig) validate() error {
	if !c.Enabled {
		return nil
	}

	if strings.TrimSpace(c.DSN) == "" {
		return apperrors.New(apperrors.InvalidInput, "분석 이력 저장이 활성화되었지만 MySQL 접속 정보(history.dsn)가 설정되지 않았습니다")
	}
	if c.RetentionDays < 1 {
		return apperrors.New(apperrors.InvalidInput, "분석 이력 보관 일수(retention_days)는 1 이상이어야 합니다")
	}
	if err := cronx.Validate(c.CleanupSchedule); err != nil {
		return apperrors.Wrap(err, apperrors.InvalidInput, fmt.Sprintf("이력 정리 주기(cleanup_schedule) 설정이 유효하지 않습니다: '%s'", c.CleanupSchedule))
	}
	return nil
}

// AlertsConfig 위험 감지 시 텔레그램 알림 발송 정책을 정의하는 구조체
type AlertsConfig struct {
	Enabled      bool   `json:"enabled"`
	BotToken     string `json:"bot_token" validate:"required_if=Enabled true,omitempty,telegram_bot_token"`
	ChatID       int64  `json:"chat_id"`
	MinRiskLevel string `json:"min_risk_level"`
}

func (c *AlertsConfig) validate() error {
	if !c.Enabled {
		return nil
	}

	if err := validate.Struct(c); err != nil {
		if validationErrors, ok := err.(validator.ValidationErrors); ok {
			for _, fieldErr := range validationErrors {
				if fieldErr.StructField() == "BotToken" {
					switch fieldErr.Tag() {
					case "required_if":
						return apperrors.New(apperrors.InvalidInput, "알림이 활성화되었지만 텔레그램 봇 토큰(alerts.bot_token)이 설정되지 않았습니다")
					default:
						return apperrors.New(apperrors.InvalidInput, "텔레그램 봇 토큰(alerts.bot_token) 형식이 올바르지 않습니다 (예: 123456789:ABC-DEF...)")
					}
				}
			}
		}
		return apperrors.Wrap(err, apperrors.InvalidInput, "알림 설정 검증 중 알 수 없는 오류가 발생했습니다")
	}

	if c.ChatID == 0 {
		return apperrors.New(apperrors.InvalidInput, "알림이 활성화되었지만 텔레그램 채팅 ID(alerts.chat_id)가 설정되지 않았습니다")
	}
	if !slices.Contains(riskLevels, c.MinRiskLevel) {
		return apperrors.New(apperrors.InvalidInput, fmt.Sprintf("알림 최소 위험 등급(min_risk_level)은 %s 중 하나여야 합니다", strings.Join(riskLevels, ", ")))
	}
	return nil
}

// ShouldAlert 주어진 위험 등급이 알림 발송 기준(min_risk_level) 이상인지 판단합니다.
// 알 수 없는 등급(unknown 등)은 순위 비교가 불가능하므로 알림 대상에서 제외합니다.
func (c *AlertsConfig) ShouldAlert(riskLevel string) bool {
	if !c.Enabled {
		return false
	}

	levelRank := slices.Index(riskLevels, riskLevel)
	minRank := slices.Index(riskLevels, c.MinRiskLevel)
	if levelRank == -1 || minRank == -1 {
		return false
	}
	return levelRank >= minRank
}
