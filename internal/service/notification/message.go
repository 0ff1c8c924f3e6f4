package notification

import (
	"fmt"
	"html"
	"strings"

	"github.com/darkkaiser/typhoon-safety-server/internal/analysis/result"
	"github.com/darkkaiser/typhoon-safety-server/internal/pkg/mark"
	"github.com/darkkaiser/typhoon-safety-server/pkg/strutil"
)

const (
	// titleFormat 제목이 포함된 메시지 포맷
	// 형식: "<b>【 제목 】</b>\n\n본문"
	titleFormat = "<b>【 %s 】</b>\n\n%s"

	// maxSummaryLength 알림 메시지에 포함하는 분석 요약의 최대 길이 제한
	// 너무 긴 요약으로 인해 메시지가 분할되는 것을 방지합니다.
	maxSummaryLength = 500

	// maxUrgentActions 알림 메시지에 포함하는 긴급 조치사항의 최대 개수
	maxUrgentActions = 5
)

// riskMark 위험 등급에 해당하는 마크를 반환합니다.
// 알 수 없는 등급이면 빈 마크를 반환하여 메시지에 아무것도 덧붙이지 않습니다.
func riskMark(level string) mark.Mark {
	switch level {
	case result.RiskCritical:
		return mark.Critical
	case result.RiskHigh:
		return mark.High
	case result.RiskMedium:
		return mark.Medium
	case result.RiskLow:
		return mark.Low
	default:
		return ""
	}
}

// buildAnalysisAlert 위험 등급이 기준 이상인 분석 결과를 알림 메시지로 구성합니다.
// 사용자 입력에서 유래한 값(파일명, 요약, 조치사항)은 HTML 이스케이프 처리합니다.
func buildAnalysisAlert(res *result.AnalysisResult, filename string) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "위험 등급: <b>%s</b>\n", res.OverallRiskLevel)
	fmt.Fprintf(&sb, "감지된 위험요소: %d건 (critical %d, high %d, medium %d, low %d)\n",
		res.RiskSummary.TotalHazards,
		res.RiskSummary.CriticalCount,
		res.RiskSummary.HighCount,
		res.RiskSummary.MediumCount,
		res.RiskSummary.LowCount)
	fmt.Fprintf(&sb, "신뢰도: %.0f%%", res.ConfidenceScore*100)

	if filename != "" {
		fmt.Fprintf(&sb, "\n파일: %s", html.EscapeString(filename))
	}

	if summary := strings.TrimSpace(res.Summary); summary != "" {
		sb.WriteString("\n\n<b>분석 요약</b>\n")
		sb.WriteString(html.EscapeString(strutil.Truncate(strutil.NormalizeSpaces(summary), maxSummaryLength)))
	}

	if len(res.UrgentActions) > 0 {
		sb.WriteString("\n\n<b>긴급 조치사항</b>")
		for i, action := range res.UrgentActions {
			if i >= maxUrgentActions {
				fmt.Fprintf(&sb, "\n... 외 %d건", len(res.UrgentActions)-maxUrgentActions)
				break
			}
			fmt.Fprintf(&sb, "\n%d. %s", i+1, html.EscapeString(action))
		}
	}

	title := "태풍 위험요소 감지" + riskMark(res.OverallRiskLevel).WithSpace()

	return fmt.Sprintf(titleFormat, title, sb.String())
}

// buildFailureAlert 이미지 분석 실패를 관리자에게 통보하는 알림 메시지를 구성합니다.
func buildFailureAlert(filename string, err error) string {
	var sb strings.Builder

	if filename != "" {
		fmt.Fprintf(&sb, "파일: %s\n", html.EscapeString(filename))
	}
	fmt.Fprintf(&sb, "오류: %s", html.EscapeString(err.Error()))

	sb.WriteString("\n\n*** 오류가 발생하였습니다. ***")

	return fmt.Sprintf(titleFormat, "이미지 분석 실패"+mark.Alert.WithSpace(), sb.String())
}

// buildServerErrorAlert HTTP 서버의 치명적인 오류를 관리자에게 통보하는 알림 메시지를 구성합니다.
func buildServerErrorAlert(message string, err error) string {
	var sb strings.Builder

	sb.WriteString(html.EscapeString(message))
	if err != nil {
		fmt.Fprintf(&sb, "\n\n오류: %s", html.EscapeString(err.Error()))
	}

	sb.WriteString("\n\n*** 오류가 발생하였습니다. ***")

	return fmt.Sprintf(titleFormat, "서버 오류"+mark.Alert.WithSpace(), sb.String())
}
