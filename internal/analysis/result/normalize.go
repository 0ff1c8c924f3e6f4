package result

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/darkkaiser/typhoon-safety-server/pkg/maputil"
)

// 모델 응답에 누락된 필드를 채울 때 사용하는 기본값
const (
	defaultItem           = "확인되지 않은 물체"
	defaultStructureItem  = "확인되지 않은 구조물"
	defaultDescription    = "설명 없음"
	defaultLocation       = "위치 정보 없음"
	defaultRecommendation = "권장 조치 없음"
	defaultSummary        = "분석이 완료되지 않았습니다"
)

// Normalize 파싱된 모델 응답을 분석 결과 스키마에 맞게 보정합니다.
//
// 누락된 필수 필드는 기본값으로 채우고, 허용되지 않는 위험 등급은
// unknown으로 교체하며, 위험요소 개수 요약은 실제 항목 수와 다르면
// 다시 계산합니다. 발견된 모든 문제는 Validation.Errors에 기록되고,
// 문제가 하나도 없을 때만 Validation.IsValid가 true가 됩니다.
//
// 항목 단위의 보정(기본값 채움, 등급 교체)은 원문 의미를 바꾸지 않는
// 정돈이므로 에러로 기록하지 않습니다.
func Normalize(m map[string]any) *AnalysisResult {
	if m == nil {
		m = map[string]any{}
	}

	errs := make([]string, 0)
	out := &AnalysisResult{}

	// overall_risk_level
	if v, present := m["overall_risk_level"]; !present {
		errs = append(errs, "필수 필드 누락: overall_risk_level")
		out.OverallRiskLevel = RiskUnknown
	} else if s, ok := v.(string); ok && isValidRiskLevel(s) {
		out.OverallRiskLevel = s
	} else {
		errs = append(errs, fmt.Sprintf("유효하지 않은 overall_risk_level: %v", v))
		out.OverallRiskLevel = RiskUnknown
	}

	// hazards_by_category
	categories := map[string]any{}
	if v, present := m["hazards_by_category"]; !present {
		errs = append(errs, "필수 필드 누락: hazards_by_category")
	} else if mm, ok := v.(map[string]any); ok {
		categories = mm
	} else {
		errs = append(errs, "hazards_by_category는 객체여야 합니다")
	}
	out.HazardsByCategory = normalizeCategories(categories)

	// risk_summary: 보고된 값은 음수 보정 후 실제 개수와 비교만 하고,
	// 항상 카테고리에서 다시 계산한 값을 사용한다.
	computed := computeRiskSummary(out.HazardsByCategory)
	if v, present := m["risk_summary"]; !present {
		errs = append(errs, "필수 필드 누락: risk_summary")
	} else if mm, ok := v.(map[string]any); !ok {
		errs = append(errs, "risk_summary는 객체여야 합니다")
	} else if reported, err := maputil.Decode[RiskSummary](mm); err == nil {
		reported.clampNonNegative()
		if *reported != computed {
			errs = append(errs, "risk_summary가 탐지된 위험요소 수와 일치하지 않아 재계산되었습니다")
		}
	}
	out.RiskSummary = computed

	// urgent_actions
	out.UrgentActions = make([]string, 0)
	if v, present := m["urgent_actions"]; !present {
		errs = append(errs, "필수 필드 누락: urgent_actions")
	} else if items, ok := v.([]any); !ok {
		errs = append(errs, "urgent_actions는 목록이어야 합니다")
	} else {
		for _, item := range items {
			s, ok := item.(string)
			if !ok {
				errs = append(errs, fmt.Sprintf("urgent_actions 항목이 문자열이 아닙니다: %v", item))
				continue
			}
			if strings.TrimSpace(s) != "" {
				out.UrgentActions = append(out.UrgentActions, s)
			}
		}
	}

	// summary
	if v, present := m["summary"]; !present {
		errs = append(errs, "필수 필드 누락: summary")
		out.Summary = defaultSummary
	} else if s, ok := v.(string); ok {
		out.Summary = s
	} else {
		errs = append(errs, "summary는 문자열이어야 합니다")
		out.Summary = defaultSummary
	}

	// confidence_score
	if v, present := m["confidence_score"]; !present {
		errs = append(errs, "필수 필드 누락: confidence_score")
	} else if f, ok := toFloat(v); ok && f >= 0.0 && f <= 1.0 {
		out.ConfidenceScore = f
	} else {
		errs = append(errs, fmt.Sprintf("유효하지 않은 confidence_score: %v", v))
	}

	// raw_response (파싱 실패 시에만 존재)
	if v, ok := m["raw_response"].(string); ok {
		out.RawResponse = v
	}

	out.Validation = &Validation{
		Errors:  errs,
		IsValid: len(errs) == 0,
	}

	return out
}

func normalizeCategories(h map[string]any) HazardsByCategory {
	return HazardsByCategory{
		FlyingObjects:    normalizeItems(h["flying_objects"], normalizeFlyingObject),
		StructuralDamage: normalizeItems(h["structural_damage"], normalizeStructuralDamage),
		ElevatedObjects:  normalizeItems(h["elevated_objects"], normalizeElevatedObject),
		TreeHazards:      normalizeItems(h["tree_hazards"], normalizeTreeHazard),
	}
}

// normalizeItems 카테고리 항목 목록을 정규화합니다.
// 목록이 아닌 값과 객체가 아닌 항목은 조용히 건너뜁니다.
func normalizeItems[T any](v any, normalize func(map[string]any) T) []T {
	out := make([]T, 0)

	items, ok := v.([]any)
	if !ok {
		return out
	}

	for _, item := range items {
		m, ok := item.(map[string]any)
		if !ok {
			continue
		}
		out = append(out, normalize(m))
	}
	return out
}

func normalizeFlyingObject(m map[string]any) FlyingObjectHazard {
	h, err := maputil.Decode[FlyingObjectHazard](m)
	if err != nil {
		h = &FlyingObjectHazard{}
	}

	if strings.TrimSpace(h.Item) == "" {
		h.Item = defaultItem
	}
	if strings.TrimSpace(h.Description) == "" {
		h.Description = defaultDescription
	}
	if !isValidMovementRisk(h.MovementRisk) {
		h.MovementRisk = RiskUnknown
	}
	if !isValidRiskLevel(h.ImpactSeverity) {
		h.ImpactSeverity = RiskUnknown
	}
	if !isValidRiskLevel(h.OverallRisk) {
		h.OverallRisk = RiskUnknown
	}
	if strings.TrimSpace(h.Location) == "" {
		h.Location = defaultLocation
	}
	if strings.TrimSpace(h.Recommendation) == "" {
		h.Recommendation = defaultRecommendation
	}
	return *h
}

func normalizeStructuralDamage(m map[string]any) StructuralDamageHazard {
	h, err := maputil.Decode[StructuralDamageHazard](m)
	if err != nil {
		h = &StructuralDamageHazard{}
	}

	if strings.TrimSpace(h.Item) == "" {
		h.Item = defaultStructureItem
	}
	if strings.TrimSpace(h.Description) == "" {
		h.Description = defaultDescription
	}
	if !isValidRiskLevel(h.RiskLevel) {
		h.RiskLevel = RiskUnknown
	}
	if strings.TrimSpace(h.Location) == "" {
		h.Location = defaultLocation
	}
	if strings.TrimSpace(h.Recommendation) == "" {
		h.Recommendation = defaultRecommendation
	}
	return *h
}

func normalizeElevatedObject(m map[string]any) ElevatedObjectHazard {
	h, err := maputil.Decode[ElevatedObjectHazard](m)
	if err != nil {
		h = &ElevatedObjectHazard{}
	}

	if strings.TrimSpace(h.Item) == "" {
		h.Item = defaultItem
	}
	if strings.TrimSpace(h.Description) == "" {
		h.Description = defaultDescription
	}
	if !isValidMovementRisk(h.FallRisk) {
		h.FallRisk = RiskUnknown
	}
	if !isValidRiskLevel(h.ImpactSeverity) {
		h.ImpactSeverity = RiskUnknown
	}
	if !isValidRiskLevel(h.OverallRisk) {
		h.OverallRisk = RiskUnknown
	}
	if strings.TrimSpace(h.Location) == "" {
		h.Location = defaultLocation
	}
	if strings.TrimSpace(h.Recommendation) == "" {
		h.Recommendation = defaultRecommendation
	}
	return *h
}

func normalizeTreeHazard(m map[string]any) TreeHazard {
	h, err := maputil.Decode[TreeHazard](m)
	if err != nil {
		h = &TreeHazard{}
	}

	if strings.TrimSpace(h.Description) == "" {
		h.Description = defaultDescription
	}
	if !isValidRiskLevel(h.RiskLevel) {
		h.RiskLevel = RiskUnknown
	}
	if strings.TrimSpace(h.Location) == "" {
		h.Location = defaultLocation
	}
	if strings.TrimSpace(h.Recommendation) == "" {
		h.Recommendation = defaultRecommendation
	}
	return *h
}

// computeRiskSummary 정규화된 카테고리 목록에서 등급별 개수를 집계합니다.
// unknown 등급은 어느 등급에도 해당하지 않지만 전체 개수에는 포함됩니다.
func computeRiskSummary(h HazardsByCategory) RiskSummary {
	var s RiskSummary

	count := func(level string) {
		switch level {
		case RiskCritical:
			s.CriticalCount++
		case RiskHigh:
			s.HighCount++
		case RiskMedium:
			s.MediumCount++
		case RiskLow:
			s.LowCount++
		}
		s.TotalHazards++
	}

	for _, item := range h.FlyingObjects {
		count(item.OverallRisk)
	}
	for _, item := range h.StructuralDamage {
		count(item.RiskLevel)
	}
	for _, item := range h.ElevatedObjects {
		count(item.OverallRisk)
	}
	for _, item := range h.TreeHazards {
		count(item.RiskLevel)
	}
	return s
}

// toFloat JSON 맵에서 꺼낸 값을 float64로 약식 변환합니다.
func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(n), 64)
		return f, err == nil
	}
	return 0, false
}
