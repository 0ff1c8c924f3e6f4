package constants

import "time"

// HTTP 서버 타임아웃 기본값입니다.
const (
	// DefaultRequestTimeout HTTP 요청 처리의 기본 타임아웃 시간
	// 요청 처리가 이 시간을 초과하면 자동으로 취소되어 서버 리소스를 보호합니다.
	// 모델 호출 타임아웃(gemini.request_timeout)보다 길어야 분석 요청이
	// 중간에 끊기지 않습니다.
	DefaultRequestTimeout = 90 * time.Second

	// DefaultReadTimeout 요청 전체(헤더+본문) 읽기 최대 대기 시간
	// 이미지 업로드가 느린 회선에서도 완료될 수 있도록 넉넉하게 설정합니다.
	DefaultReadTimeout = 60 * time.Second

	// DefaultWriteTimeout 응답 쓰기 최대 대기 시간
	// 요청 타임아웃(DefaultRequestTimeout)보다 길어야 타임아웃 미들웨어가
	// 503 응답을 쓸 시간이 보장됩니다.
	DefaultWriteTimeout = 120 * time.Second

	// DefaultIdleTimeout Keep-Alive 연결의 유휴 상태 최대 유지 시간
	DefaultIdleTimeout = 120 * time.Second
)
