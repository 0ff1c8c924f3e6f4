package system

// StatusResponse 루트 엔드포인트(GET /)의 서비스 상태 응답
type StatusResponse struct {
	// 서비스 상태
	Status string `json:"status" example:"ok"`
	// 상태 메시지
	Message string `json:"message" example:"태풍 안전 분석 API가 정상 작동중입니다"`
}
