package constants

// 헬스체크 관련 상수입니다.
const (
	// HealthStatusHealthy 헬스체크 상태: 정상
	HealthStatusHealthy = "healthy"

	// HealthStatusUnhealthy 헬스체크 상태: 비정상
	HealthStatusUnhealthy = "unhealthy"

	// DependencyAnalysisEngine 외부 의존성 ID: 이미지 분석 엔진(Gemini)
	DependencyAnalysisEngine = "analysis_engine"

	// DependencyHistoryStore 외부 의존성 ID: 분석 이력 저장소(MySQL)
	// 이력 기능이 비활성화된 경우 헬스체크 응답에 포함되지 않습니다.
	DependencyHistoryStore = "history_store"

	// MsgDepStatusHealthy 외부 의존성 상태: 정상
	MsgDepStatusHealthy = "정상 작동 중"

	// MsgDepStatusNotInitialized 외부 의존성 상태: 미초기화
	MsgDepStatusNotInitialized = "서비스가 초기화되지 않음"
)
