package constants

// 클라이언트에게 반환되는 응답 메시지 상수입니다.
const (
	// MsgAPIOperational 루트 엔드포인트(GET /)의 상태 메시지
	MsgAPIOperational = "태풍 안전 분석 API가 정상 작동중입니다"

	// ------------------------------------------------------------------------------------------------
	// 일반 HTTP 에러 (상태 코드 순)
	// ------------------------------------------------------------------------------------------------

	// 400 Bad Request
	ErrMsgBadRequest          = "잘못된 요청입니다"
	ErrMsgFileFieldRequired   = "이미지 파일(file 필드)은 필수입니다"
	ErrMsgEmptyFile           = "업로드된 파일이 비어있습니다"
	ErrMsgFileReadFailed      = "업로드된 파일을 읽을 수 없습니다"
	ErrMsgUnsupportedFileType = "지원하지 않는 파일 형식입니다. jpg, jpeg, png, bmp 형식만 지원합니다."

	// 404 Not Found
	ErrMsgNotFound = "요청한 리소스를 찾을 수 없습니다"

	// 413 Request Entity Too Large
	ErrMsgRequestEntityTooLarge = "요청 본문이 너무 큽니다"

	// 429 Too Many Requests
	ErrMsgTooManyRequests = "요청이 너무 많습니다. 잠시 후 다시 시도해주세요"

	// 500 Internal Server Error
	ErrMsgInternalServer = "내부 서버 오류가 발생했습니다"
	ErrMsgAnalysisFailed = "이미지 분석 중 오류가 발생했습니다. 잠시 후 다시 시도해주세요"

	// 503 Service Unavailable
	ErrMsgServiceUnavailable = "서비스가 점검 중이거나 종료되었습니다. 관리자에게 문의해 주세요"
)
