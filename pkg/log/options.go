package log

import (
	"fmt"
	"os"
)

// Options 로깅 시스템 초기화 옵션입니다.
type Options struct {
	Name  string // 로그 파일명을 만들 때 사용할 애플리케이션 식별자
	Dir   string // 로그 파일이 저장될 디렉토리 경로 (빈 값: 실행 위치의 logs 디렉토리)
	Level Level  // 최소 로그 레벨 (0: InfoLevel)

	MaxAge     int // 로테이션된 로그 파일의 보관 기간 (일 단위, 0: 무제한)
	MaxSizeMB  int // 로그 파일 하나의 최대 크기 (MB, 0: 기본값 사용)
	MaxBackups int // 로테이션된 로그 파일의 최대 보관 개수 (0: 기본값 사용)

	EnableCriticalLog bool // ERROR 이상(ERROR/FATAL/PANIC)의 로그를 별도 파일로 격리 저장할지 여부
	EnableVerboseLog  bool // DEBUG 이하(DEBUG/TRACE)의 상세 로그를 별도 파일로 분리 저장할지 여부
	EnableConsoleLog  bool // 표준 출력(Stdout)에도 로그를 출력할지 여부 (개발 환경 권장)

	// 로그를 남긴 소스 코드 위치(함수명:라인번호)를 함께 기록할지 여부입니다.
	ReportCaller bool

	// 호출 위치의 함수 경로가 너무 길 때 앞부분을 잘라내기 위한 prefix입니다.
	// 예: "github.com/darkkaiser"로 설정하면 그 이하 경로만 출력됩니다.
	CallerPathPrefix string
}

// Validate Options의 필드 값이 유효한지 검증합니다.
func (opts *Options) Validate() error {
	if opts.Name == "" {
		return fmt.Errorf("애플리케이션 식별자(Name)가 설정되지 않았습니다")
	}

	// 디렉토리 경로가 일반 파일로 선점되어 있으면 MkdirAll이 실패하므로 미리 확인합니다.
	if opts.Dir != "" {
		if info, err := os.Stat(opts.Dir); err == nil && !info.IsDir() {
			return fmt.Errorf("로그 디렉토리 경로(%s)가 이미 파일로 존재합니다", opts.Dir)
		}
	}

	if opts.MaxAge < 0 {
		return fmt.Errorf("MaxAge는 0 이상이어야 합니다: %d", opts.MaxAge)
	}
	if opts.MaxSizeMB < 0 {
		return fmt.Errorf("MaxSizeMB는 0 이상이어야 합니다: %d", opts.MaxSizeMB)
	}
	if opts.MaxBackups < 0 {
		return fmt.Errorf("MaxBackups는 0 이상이어야 합니다: %d", opts.MaxBackups)
	}

	return nil
}

// NewProductionOptions 운영(Production) 환경에 맞춘 로그 설정을 반환합니다.
func NewProductionOptions(appName string) Options {
	return Options{
		Name:  appName,
		Level: InfoLevel,

		MaxAge:     30,  // 30일 보관
		MaxSizeMB:  100, // 100MB 단위 로테이션
		MaxBackups: 20,  // 최대 20개 백업 유지

		EnableCriticalLog: true,  // 장애 대응을 위한 중요 로그 격리
		EnableVerboseLog:  true,  // 문제 추적을 위한 상세 로그 분리
		EnableConsoleLog:  false, // 파일 중심 로깅

		ReportCaller:     true,
		CallerPathPrefix: "github.com/darkkaiser", // 호출 위치 경로 단순화
	}
}

// NewDevelopmentOptions 개발(Development) 환경에 맞춘 로그 설정을 반환합니다.
func NewDevelopmentOptions(appName string) Options {
	return Options{
		Name:  appName,
		Level: TraceLevel,

		MaxAge:     1,  // 가볍게 1일만 보관
		MaxSizeMB:  50, // 50MB 단위 로테이션
		MaxBackups: 5,  // 최대 5개 백업 유지

		EnableCriticalLog: false, // 개발 편의를 위해 로그 파일 통합
		EnableVerboseLog:  false, // 개발 편의를 위해 로그 파일 통합
		EnableConsoleLog:  true,  // 터미널 출력 활성화

		ReportCaller:     true,
		CallerPathPrefix: "github.com/darkkaiser", // 호출 위치 경로 단순화
	}
}
