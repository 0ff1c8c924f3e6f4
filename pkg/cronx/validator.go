package cronx

import "fmt"

// Validate 주어진 Cron 표현식이 StandardParser 스펙에 부합하는지 검사합니다.
//
// 유효하지 않은 표현식인 경우 파서의 원본 에러를 감싼 에러를 반환합니다.
func Validate(spec string) error {
	if _, err := StandardParser().Parse(spec); err != nil {
		return fmt.Errorf("Cron 표현식 파싱 실패: %w", err)
	}
	return nil
}
