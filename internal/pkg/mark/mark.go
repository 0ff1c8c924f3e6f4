// Package mark 애플리케이션 전반에서 사용되는 이모지 상수를 중앙 관리하는 패키지입니다.
package mark

import "fmt"

// Mark 이모지 상수를 위한 타입입니다.
type Mark string

const (
	// 치명적 위험
	Critical Mark = "🔴"

	// 높은 위험
	High Mark = "🟠"

	// 보통 위험
	Medium Mark = "🟡"

	// 낮은 위험
	Low Mark = "🟢"

	// 긴급/오류
	Alert Mark = "🚨"
)

// all 정의된 모든 마크의 목록입니다. 외부에는 Values()를 통해서만 노출됩니다.
var all = []Mark{Critical, High, Medium, Low, Alert}

// Values 정의된 모든 마크의 복사본을 반환합니다.
// 반환된 슬라이스를 변경해도 원본에는 영향을 주지 않습니다.
func Values() []Mark {
	values := make([]Mark, len(all))
	copy(values, all)
	return values
}

// Parse 문자열을 정의된 마크로 변환합니다.
// 정의되지 않은 값이면 에러를 반환합니다.
func Parse(s string) (Mark, error) {
	m := Mark(s)
	if !m.IsValid() {
		return "", fmt.Errorf("정의되지 않은 마크입니다: %q", s)
	}
	return m, nil
}

// IsValid 정의된 마크인지 여부를 반환합니다.
func (m Mark) IsValid() bool {
	for _, v := range all {
		if m == v {
			return true
		}
	}
	return false
}

// WithSpace 마크(이모지) 앞에 구분용 공백을 추가하여 반환합니다.
func (m Mark) WithSpace() string {
	if m == "" {
		return ""
	}
	return " " + string(m)
}

// String 마크의 순수 이모지 값을 문자열로 반환합니다.
func (m Mark) String() string {
	return string(m)
}
