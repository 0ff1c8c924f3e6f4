package response

// ErrorResponse API 오류 응답
type ErrorResponse struct {
	// ResultCode HTTP 상태 코드 (예: 400, 429, 500)
	ResultCode int `json:"result_code" example:"400"`

	// Message 에러 메시지
	Message string `json:"message" example:"지원하지 않는 파일 형식입니다. jpg, jpeg, png, bmp 형식만 지원합니다."`
}
