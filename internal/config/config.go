package config

import (
	"fmt"
	"os"
	"strings"

	apperrors "github.com/darkkaiser/typhoon-safety-server/internal/pkg/errors"
	"github.com/go-viper/mapstructure/v2"
	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

const (
	// AppName 애플리케이션의 전역 고유 식별자입니다.
	AppName string = "typhoon-safety-server"

	// DefaultFilename 애플리케이션 초기화 시 참조하는 기본 설정 파일명입니다.
	// 실행 인자를 통해 명시적인 경로가 제공되지 않을 경우, 시스템은 이 파일을 탐색하여 구성을 로드합니다.
	DefaultFilename = AppName + ".json"

	// envPrefix 환경 변수 오버라이드에 사용하는 접두사입니다.
	envPrefix = "TYPHOON_"

	// geminiAPIKeyEnv 설정 파일에 API 키가 없을 때 참조하는 표준 환경 변수명입니다.
	geminiAPIKeyEnv = "GEMINI_API_KEY"
)

// 설정 항목별 기본값
const (
	// ------------------------------------------------------------------------------------------------
	// HTTP 서버 기본값
	// ------------------------------------------------------------------------------------------------

	// DefaultListenPort HTTP 서버의 기본 수신 포트
	DefaultListenPort = 8080

	// DefaultMaxUploadSizeMB 업로드 허용 최대 크기(MB) 기본값
	DefaultMaxUploadSizeMB = 10

	// DefaultRateLimitRPS 클라이언트 IP별 초당 허용 요청 수 기본값
	DefaultRateLimitRPS = 10

	// DefaultRateLimitBurst 순간 허용 버스트 크기 기본값
	DefaultRateLimitBurst = 20

	// ------------------------------------------------------------------------------------------------
	// Gemini 모델 기본값
	// ------------------------------------------------------------------------------------------------

	// DefaultGeminiModel 분석에 사용할 기본 Gemini 모델명
	DefaultGeminiModel = "gemini-1.5-flash"

	// DefaultGeminiTemperature 모델 응답의 무작위성 기본값 (분석 일관성을 위해 낮게 유지)
	DefaultGeminiTemperature = 0.1

	// DefaultGeminiMaxOutputTokens 모델 응답의 최대 토큰 수 기본값
	DefaultGeminiMaxOutputTokens = 1000

	// DefaultGeminiRequestTimeout 모델 호출 전체에 적용되는 타임아웃 기본값
	DefaultGeminiRequestTimeout = "60s"

	// DefaultGeminiMaxRetries 모델 호출 실패 시 최대 시도 횟수 기본값
	DefaultGeminiMaxRetries = 3

	// DefaultGeminiRetryDelay 재시도 간 기본 대기 시간 (시도 횟수에 비례하여 증가)
	DefaultGeminiRetryDelay = "300ms"

	// ------------------------------------------------------------------------------------------------
	// 이미지 전처리 기본값
	// ------------------------------------------------------------------------------------------------

	// DefaultImageMaxDimension 전처리 후 이미지의 가로/세로 최대 크기(픽셀) 기본값
	DefaultImageMaxDimension = 1024

	// DefaultImageJPEGQuality 재인코딩 시 JPEG 품질 기본값
	DefaultImageJPEGQuality = 85

	// ------------------------------------------------------------------------------------------------
	// 분석 이력 기본값
	// ------------------------------------------------------------------------------------------------

	// DefaultHistoryRetentionDays 분석 이력 보관 일수 기본값
	DefaultHistoryRetentionDays = 30

	// DefaultHistoryCleanupSchedule 이력 정리 작업의 기본 실행 주기 (매일 03:00:00)
	DefaultHistoryCleanupSchedule = "0 0 3 * * *"

	// ------------------------------------------------------------------------------------------------
	// 위험 알림 기본값
	// ------------------------------------------------------------------------------------------------

	// DefaultAlertMinRiskLevel 알림을 발송할 최소 위험 등급 기본값
	DefaultAlertMinRiskLevel = "critical"
)

// AppConfig 애플리케이션의 모든 설정을 관장하는 최상위 루트 구조체
type AppConfig struct {
	Debug   bool          `json:"debug"`
	Server  ServerConfig  `json:"server"`
	Gemini  GeminiConfig  `json:"gemini"`
	Image   ImageConfig   `json:"image"`
	History HistoryConfig `json:"history"`
	Alerts  AlertsConfig  `json:"alerts"`
}

// validate 설정 파일 로드 직후, 각 설정 항목의 정합성과 필수 값의 유효성을 검증합니다.
func (c *AppConfig) validate() error {
	if err := c.Server.validate(); err != nil {
		return err
	}
	if err := c.Gemini.validate(); err != nil {
		return err
	}
	if err := c.Image.validate(); err != nil {
		return err
	}
	if err := c.History.validate(); err != nil {
		return err
	}
	if err := c.Alerts.validate(); err != nil {
		return err
	}
	return nil
}

// VerifyRecommendations 서비스 운영의 안정성과 보안을 위해 권장되는 설정 준수 여부를 진단합니다.
// 강제적인 에러를 발생시키지는 않으나, 잠재적 위험 요소(예: Well-known Port 사용)에 대한 경고 메시지를 반환합니다.
func (c *AppConfig) VerifyRecommendations() []string {
	var warnings []string

	// 시스템 예약 포트(1024 미만) 사용 경고
	if c.Server.ListenPort < 1024 {
		warnings = append(warnings, fmt.Sprintf("시스템 예약 포트(1-1023)를 사용하도록 설정되었습니다(port: %d). 이 경우 서버 구동 시 관리자 권한이 필요할 수 있습니다", c.Server.ListenPort))
	}

	// 운영 환경에서 모든 도메인을 허용하는 CORS 설정 경고
	if !c.Debug && len(c.Server.CORS.AllowOrigins) == 1 && c.Server.CORS.AllowOrigins[0] == "*" {
		warnings = append(warnings, "운영 환경에서 모든 도메인(*)을 허용하는 CORS 설정이 사용되고 있습니다. 허용할 도메인을 명시적으로 지정하는 것을 권장합니다")
	}

	// 지나치게 짧은 모델 호출 타임아웃 경고 (이미지 분석은 수 초 이상 소요될 수 있음)
	if c.Gemini.RequestTimeoutDuration() < minRecommendedRequestTimeout {
		warnings = append(warnings, fmt.Sprintf("모델 호출 타임아웃(request_timeout: %s)이 너무 짧게 설정되었습니다. 이미지 분석 요청이 완료되기 전에 중단될 수 있습니다", c.Gemini.RequestTimeout))
	}

	return warnings
}

// Load 기본 설정 파일을 읽어 애플리케이션 설정을 로드합니다.
func Load() (*AppConfig, error) {
	return LoadWithFile(DefaultFilename)
}

// LoadWithFile 지정된 경로의 설정 파일을 읽어 AppConfig 객체를 생성합니다.
func LoadWithFile(filename string) (*AppConfig, error) {
	k := koanf.New(".")

	// 1. 기본값 로드 (가장 낮은 우선순위)
	err := k.Load(confmap.Provider(map[string]interface{}{
		"server.listen_port":                    DefaultListenPort,
		"server.max_upload_size_mb":             DefaultMaxUploadSizeMB,
		"server.rate_limit.requests_per_second": DefaultRateLimitRPS,
		"server.rate_limit.burst":               DefaultRateLimitBurst,
		"server.cors.allow_origins":             []string{"*"},
		"gemini.model":                          DefaultGeminiModel,
		"gemini.temperature":                    DefaultGeminiTemperature,
		"gemini.max_output_tokens":              DefaultGeminiMaxOutputTokens,
		"gemini.request_timeout":                DefaultGeminiRequestTimeout,
		"gemini.max_retries":                    DefaultGeminiMaxRetries,
		"gemini.retry_delay":                    DefaultGeminiRetryDelay,
		"image.max_width":                       DefaultImageMaxDimension,
		"image.max_height":                      DefaultImageMaxDimension,
		"image.jpeg_quality":                    DefaultImageJPEGQuality,
		"history.retention_days":                DefaultHistoryRetentionDays,
		"history.cleanup_schedule":              DefaultHistoryCleanupSchedule,
		"alerts.min_risk_level":                 DefaultAlertMinRiskLevel,
	}, "."), nil)
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.System, "애플리케이션 기본 설정 로드에 실패했습니다")
	}

	// 2. JSON 설정 파일 로드 (기본값 덮어쓰기)
	if err := k.Load(file.Provider(filename), json.Parser()); err != nil {
		if os.IsNotExist(err) {
			return nil, apperrors.Wrap(err, apperrors.System, fmt.Sprintf("설정 파일을 찾을 수 없습니다: '%s'", filename))
		}
		return nil, apperrors.Wrap(err, apperrors.InvalidInput, fmt.Sprintf("설정 파일 로드 중 오류가 발생했습니다: '%s'", filename))
	}

	// 3. 환경 변수 로드 (최우선 순위, JSON 설정 덮어쓰기)
	// 접두사: TYPHOON_
	// 구분자: 이중 언더스코어(__)를 점(.)으로 변환 (계층 구조 표현)
	// 예: TYPHOON_GEMINI__API_KEY -> gemini.api_key
	if err := k.Load(env.Provider(envPrefix, ".", normalizeEnvKey), nil); err != nil {
		return nil, apperrors.Wrap(err, apperrors.System, "환경 변수 로드에 실패했습니다")
	}

	// 4. 구조체 언마샬링 (Strict Validation 적용)
	unmarshalConf := koanf.UnmarshalConf{
		Tag: "json",
		DecoderConfig: &mapstructure.DecoderConfig{
			ErrorUnused:      true, // 파일에 존재하지만 구조체에 없는 필드가 있을 경우 에러를 발생시킴
			WeaklyTypedInput: true,
		},
	}
	var appConfig AppConfig
	if err := k.UnmarshalWithConf("", &appConfig, unmarshalConf); err != nil {
		return nil, apperrors.Wrap(err, apperrors.System, "설정 데이터를 애플리케이션 구조체로 변환하는데 실패했습니다")
	}

	// 5. Gemini API 키 보완 (표준 환경 변수 Fallback)
	// 설정 파일이나 TYPHOON_GEMINI__API_KEY에 키가 없으면 GEMINI_API_KEY를 참조합니다.
	if strings.TrimSpace(appConfig.Gemini.APIKey) == "" {
		appConfig.Gemini.APIKey = strings.TrimSpace(os.Getenv(geminiAPIKeyEnv))
	}

	// 6. 유효성 검사 수행 (정합성 체크)
	if err := appConfig.validate(); err != nil {
		return nil, apperrors.Wrap(err, apperrors.InvalidInput, fmt.Sprintf("설정 파일('%s')의 유효성 검증에 실패했습니다", filename))
	}

	return &appConfig, nil
}

// normalizeEnvKey 환경 변수명을 koanf 설정 키로 변환합니다.
//
// 변환 규칙:
//  1. 접두사(TYPHOON_) 제거
//  2. 소문자 변환
//  3. 이중 언더스코어(__)를 점(.)으로 변환
//
// 예: TYPHOON_SERVER__LISTEN_PORT -> server.listen_port
func normalizeEnvKey(s string) string {
	s = strings.TrimPrefix(s, envPrefix)
	s = strings.ToLower(s)
	return strings.ReplaceAll(s, "__", ".")
}
