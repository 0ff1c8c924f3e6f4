package constants

// HTTP 요청 파라미터 이름입니다.
const (
	// FormFieldFile 분석 대상 이미지가 담기는 multipart 폼 필드 이름
	FormFieldFile = "file"
)
