package system

// HealthResponse 서버 헬스체크 응답
//
// 의존성이 하나라도 unhealthy이면 전체 상태도 unhealthy가 됩니다.
type HealthResponse struct {
	// 전체 헬스체크 상태 (healthy, unhealthy)
	Status string `json:"status" example:"healthy"`
	// 서버 가동 시간(초)
	Uptime int64 `json:"uptime" example:"3600"`
	// 의존성별 헬스체크 결과 (키: analysis_engine, history_store)
	Dependencies map[string]DependencyStatus `json:"dependencies,omitempty"`
}
