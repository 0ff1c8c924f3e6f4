package result

import (
	"encoding/json"
	"strings"

	"github.com/darkkaiser/typhoon-safety-server/pkg/strutil"
	"github.com/tidwall/gjson"
)

// maxFallbackSummaryRunes 파싱 실패 시 summary로 사용할 원문의 최대 길이
const maxFallbackSummaryRunes = 500

// Parse 모델 응답 텍스트에서 JSON 객체를 추출하여 맵으로 반환합니다.
//
// 마크다운 코드 펜스를 제거한 뒤 첫 번째 '{'부터 마지막 '}'까지를
// JSON으로 디코딩합니다. 디코딩에 실패하면 에러 대신 대체 결과를
// 반환하며, 두 번째 반환값으로 디코딩 성공 여부를 알립니다.
func Parse(raw string) (map[string]any, bool) {
	text := StripCodeFences(raw)

	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start != -1 && end > start {
		var m map[string]any
		if err := json.Unmarshal([]byte(text[start:end+1]), &m); err == nil {
			return m, true
		}
	}

	return fallbackResult(raw), false
}

// fallbackResult JSON 추출에 실패한 응답을 위한 대체 결과를 생성합니다.
//
// overall_risk_level은 기본적으로 unknown이지만, 잘린 JSON처럼 부분적으로만
// 유효한 응답에서는 gjson으로 값을 복구할 수 있으면 해당 값을 사용합니다.
// 원문은 길이를 제한하여 summary로 싣고, 전문은 raw_response에 보존합니다.
func fallbackResult(raw string) map[string]any {
	riskLevel := RiskUnknown

	probe := StripCodeFences(raw)
	if i := strings.Index(probe, "{"); i >= 0 {
		probe = probe[i:]
	}
	if v := gjson.Get(probe, "overall_risk_level"); v.Exists() {
		if s := v.String(); s != RiskUnknown && isValidRiskLevel(s) {
			riskLevel = s
		}
	}

	return map[string]any{
		"overall_risk_level": riskLevel,
		"summary":            strutil.Truncate(strings.TrimSpace(raw), maxFallbackSummaryRunes),
		"urgent_actions":     []any{},
		"confidence_score":   0.0,
		"raw_response":       raw,
	}
}

// StripCodeFences 응답을 감싼 마크다운 코드 펜스(```json ... ```)를 제거합니다.
func StripCodeFences(s string) string {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(s, "```")
	return strings.TrimSpace(s)
}
