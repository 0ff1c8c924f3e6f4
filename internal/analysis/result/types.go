// Package result 모델 응답의 파싱/정규화 로직과 분석 결과 타입을 정의합니다.
//
// 모델이 반환하는 JSON은 형식이 보장되지 않으므로, Parse로 관대하게
// 추출하고 Normalize로 스키마에 맞게 보정한 뒤에야 신뢰할 수 있는
// AnalysisResult가 됩니다.
package result

import (
	"slices"

	"github.com/darkkaiser/typhoon-safety-server/internal/analysis/image"
)

// 위험 등급 값
const (
	RiskLow      = "low"
	RiskMedium   = "medium"
	RiskHigh     = "high"
	RiskCritical = "critical"
	RiskUnknown  = "unknown"
)

// validRiskLevels 위험 등급 필드에 허용되는 값 (unknown 포함)
var validRiskLevels = []string{RiskLow, RiskMedium, RiskHigh, RiskCritical, RiskUnknown}

// validMovementRisks 이동 용이성/낙하 위험도 필드에 허용되는 값
var validMovementRisks = []string{RiskHigh, RiskMedium, RiskLow}

func isValidRiskLevel(s string) bool {
	return slices.Contains(validRiskLevels, s)
}

func isValidMovementRisk(s string) bool {
	return slices.Contains(validMovementRisks, s)
}

// AnalysisResult 태풍 위험요소 분석의 최종 결과입니다.
// POST /analyze 응답 본문으로 그대로 직렬화됩니다.
type AnalysisResult struct {
	OverallRiskLevel  string            `json:"overall_risk_level"`
	HazardsByCategory HazardsByCategory `json:"hazards_by_category"`
	RiskSummary       RiskSummary       `json:"risk_summary"`
	UrgentActions     []string          `json:"urgent_actions"`
	Summary           string            `json:"summary"`
	ConfidenceScore   float64           `json:"confidence_score"`
	Validation        *Validation       `json:"validation,omitempty"`
	ImageInfo         *image.Info       `json:"image_info,omitempty"`
	Model             string            `json:"model,omitempty"`
	AnalyzedAt        string            `json:"analyzed_at,omitempty"`
	RawResponse       string            `json:"raw_response,omitempty"`
}

// HazardsByCategory 카테고리별 위험요소 목록입니다.
// 네 카테고리는 항상 존재하며, 비어있으면 빈 목록으로 직렬화됩니다.
type HazardsByCategory struct {
	FlyingObjects    []FlyingObjectHazard    `json:"flying_objects"`
	StructuralDamage []StructuralDamageHazard `json:"structural_damage"`
	ElevatedObjects  []ElevatedObjectHazard  `json:"elevated_objects"`
	TreeHazards      []TreeHazard            `json:"tree_hazards"`
}

// FlyingObjectHazard 강풍에 날아갈 수 있는 물건입니다.
type FlyingObjectHazard struct {
	Item           string `json:"item"`
	Description    string `json:"description"`
	MovementRisk   string `json:"movement_risk"`
	ImpactSeverity string `json:"impact_severity"`
	OverallRisk    string `json:"overall_risk"`
	Location       string `json:"location"`
	Recommendation string `json:"recommendation"`
}

// StructuralDamageHazard 구조적 취약점입니다.
type StructuralDamageHazard struct {
	Item           string `json:"item"`
	Description    string `json:"description"`
	RiskLevel      string `json:"risk_level"`
	Location       string `json:"location"`
	Recommendation string `json:"recommendation"`
}

// ElevatedObjectHazard 높은 곳에서 낙하할 수 있는 물건입니다.
type ElevatedObjectHazard struct {
	Item           string `json:"item"`
	Description    string `json:"description"`
	FallRisk       string `json:"fall_risk"`
	ImpactSeverity string `json:"impact_severity"`
	OverallRisk    string `json:"overall_risk"`
	Location       string `json:"location"`
	Recommendation string `json:"recommendation"`
}

// TreeHazard 나무 관련 위험요소입니다.
type TreeHazard struct {
	Description    string `json:"description"`
	RiskLevel      string `json:"risk_level"`
	Location       string `json:"location"`
	Recommendation string `json:"recommendation"`
}

// RiskSummary 등급별 위험요소 개수 요약입니다.
type RiskSummary struct {
	CriticalCount int `json:"critical_count"`
	HighCount     int `json:"high_count"`
	MediumCount   int `json:"medium_count"`
	LowCount      int `json:"low_count"`
	TotalHazards  int `json:"total_hazards"`
}

// clampNonNegative 음수 개수를 0으로 보정합니다.
func (s *RiskSummary) clampNonNegative() {
	if s.CriticalCount < 0 {
		s.CriticalCount = 0
	}
	if s.HighCount < 0 {
		s.HighCount = 0
	}
	if s.MediumCount < 0 {
		s.MediumCount = 0
	}
	if s.LowCount < 0 {
		s.LowCount = 0
	}
	if s.TotalHazards < 0 {
		s.TotalHazards = 0
	}
}

// Validation 정규화 과정에서 발견되어 보정된 문제들의 기록입니다.
type Validation struct {
	Errors  []string `json:"errors"`
	IsValid bool     `json:"is_valid"`
}
